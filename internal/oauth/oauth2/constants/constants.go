/*
 * Copyright (c) 2025, WSO2 LLC. (https://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

// Package constants defines constants used across the OAuth2 module.
package constants

// RequestParamGrantType is the token request parameter that names the grant.
const RequestParamGrantType = "grant_type"

// OAuth2 request parameters.
const (
	ClientID            = "client_id"
	ClientSecret        = "client_secret"
	RedirectURI         = "redirect_uri"
	Username            = "username"
	Password            = "password"
	Scope               = "scope"
	Code                = "code"
	CodeVerifier        = "code_verifier"
	CodeChallenge       = "code_challenge"
	CodeChallengeMethod = "code_challenge_method"
	RefreshToken        = "refresh_token"
	State               = "state"
	Assertion           = "assertion"
	Token               = "token"
	TokenTypeHint       = "token_type_hint"
	Error               = "error"
	ErrorDescription    = "error_description"
)

// OAuth2 endpoints.
const (
	OAuth2TokenEndpoint              = "/oauth2/token" // #nosec G101
	OAuth2RevokeEndpoint             = "/oauth2/revoke"
	OAuth2FederatedChallengeEndpoint = "/oauth2/federated/challenge"
)

// GrantType defines a type for OAuth2 grant types.
type GrantType string

// OAuth2 grant types.
const (
	GrantTypeAuthorizationCode GrantType = "authorization_code"
	GrantTypeClientCredentials GrantType = "client_credentials"
	GrantTypePassword          GrantType = "password"
	GrantTypeRefreshToken      GrantType = "refresh_token"
)

// builtInGrantTypes are the grant types that extensions can never replace.
var builtInGrantTypes = []GrantType{
	GrantTypeAuthorizationCode,
	GrantTypeClientCredentials,
	GrantTypePassword,
	GrantTypeRefreshToken,
}

// IsBuiltIn reports whether the grant type is handled by the server itself.
func (gt GrantType) IsBuiltIn() bool {
	for _, builtIn := range builtInGrantTypes {
		if gt == builtIn {
			return true
		}
	}
	return false
}

// OAuth2 token types.
const (
	TokenTypeBearer = "Bearer"
)

// TokenKind distinguishes access and refresh tokens. Values double as revocation type hints.
type TokenKind string

// Token kinds.
const (
	TokenKindAccess  TokenKind = "access_token"
	TokenKindRefresh TokenKind = "refresh_token"
)

// Token generation formats.
const (
	TokenFormatOpaque = "opaque"
	TokenFormatJWT    = "jwt"
)

// OAuth2 error codes.
const (
	ErrorInvalidRequest       = "invalid_request"
	ErrorInvalidClient        = "invalid_client"
	ErrorInvalidGrant         = "invalid_grant"
	ErrorUnauthorizedClient   = "unauthorized_client"
	ErrorUnsupportedGrantType = "unsupported_grant_type"
	ErrorInvalidScope         = "invalid_scope"
	ErrorServerError          = "server_error"
)

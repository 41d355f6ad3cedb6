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

// Package model defines the data structures used in the OAuth2 module.
package model

import (
	"strings"
	"time"

	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/constants"
)

// TokenRequest represents the OAuth2 token request.
type TokenRequest struct {
	GrantType    string `json:"grant_type"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"-"`
	Scope        string `json:"scope,omitempty"`
	Username     string `json:"username,omitempty"`
	Password     string `json:"-"`
	RefreshToken string `json:"-"`
	CodeVerifier string `json:"-"`
	Code         string `json:"-"`
	RedirectURI  string `json:"redirect_uri,omitempty"`
	Assertion    string `json:"-"`
	State        string `json:"state,omitempty"`
	// Extra holds parameters of extension grants that have no dedicated field.
	Extra map[string]string `json:"-"`
}

// TokenResponse represents the OAuth2 token response.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	RefreshToken string `json:"refresh_token,omitempty"`
	Scope        string `json:"scope,omitempty"`
}

// GrantState is the progress of a token request through the dispatcher.
type GrantState string

// Grant states.
const (
	GrantStateReceived               GrantState = "received"
	GrantStateClientAuthenticated    GrantState = "client_authenticated"
	GrantStatePrincipalAuthenticated GrantState = "principal_authenticated"
	GrantStateScopeValidated         GrantState = "scope_validated"
	GrantStateTokenIssued            GrantState = "token_issued"
	GrantStateFailed                 GrantState = "failed"
)

// TokenContext holds context data for the token issuance.
type TokenContext struct {
	State           GrantState             `json:"state"`
	FailureKind     string                 `json:"failure_kind,omitempty"`
	TokenAttributes map[string]interface{} `json:"token_attributes,omitempty"`
}

// Token is an issued access or refresh token. Value is only known at issuance and presentation;
// the stores keep a hash of it.
type Token struct {
	ID        string              `json:"token_id"`
	Value     string              `json:"-"`
	Kind      constants.TokenKind `json:"kind"`
	ClientID  string              `json:"client_id"`
	UserID    string              `json:"user_id,omitempty"`
	Scopes    []string            `json:"scopes,omitempty"`
	GrantType string              `json:"grant_type"`
	IssuedAt  time.Time           `json:"issued_at"`
	ExpiresAt time.Time           `json:"expires_at"`
	// RefreshToken is the refresh token an access token was issued with.
	RefreshToken *Token `json:"-"`
	Revoked      bool   `json:"revoked"`
}

// IsExpired reports whether the token has expired at the given time.
func (t *Token) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// ExpiresIn returns the remaining lifetime in seconds.
func (t *Token) ExpiresIn(now time.Time) int64 {
	remaining := int64(t.ExpiresAt.Sub(now).Seconds())
	if remaining < 0 {
		return 0
	}
	return remaining
}

// TokenDTO represents the data transfer object for tokens.
type TokenDTO struct {
	Token     string   `json:"token"`
	TokenType string   `json:"token_type"`
	IssuedAt  int64    `json:"issued_at"`
	ExpiresIn int64    `json:"expires_in"`
	Scopes    []string `json:"scopes,omitempty"`
	ClientID  string   `json:"client_id"`
	UserID    string   `json:"user_id,omitempty"`
}

// TokenResponseDTO represents the data transfer object for token responses.
type TokenResponseDTO struct {
	AccessToken  TokenDTO  `json:"access_token"`
	RefreshToken *TokenDTO `json:"refresh_token,omitempty"`
}

// ToTokenResponse converts the DTO into the wire response.
func (dto *TokenResponseDTO) ToTokenResponse() *TokenResponse {
	resp := &TokenResponse{
		AccessToken: dto.AccessToken.Token,
		TokenType:   dto.AccessToken.TokenType,
		ExpiresIn:   dto.AccessToken.ExpiresIn,
	}
	if len(dto.AccessToken.Scopes) > 0 {
		resp.Scope = strings.Join(dto.AccessToken.Scopes, " ")
	}
	if dto.RefreshToken != nil {
		resp.RefreshToken = dto.RefreshToken.Token
	}
	return resp
}

// NewTokenDTO builds a DTO from an issued token.
func NewTokenDTO(token *Token, now time.Time) TokenDTO {
	return TokenDTO{
		Token:     token.Value,
		TokenType: constants.TokenTypeBearer,
		IssuedAt:  token.IssuedAt.Unix(),
		ExpiresIn: token.ExpiresIn(now),
		Scopes:    token.Scopes,
		ClientID:  token.ClientID,
		UserID:    token.UserID,
	}
}

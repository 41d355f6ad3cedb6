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

// Package authz issues and redeems OAuth2 authorization codes.
package authz

import (
	"context"
	"errors"
	"fmt"
	"time"

	clientmodel "github.com/JonasVannieuwenhuijsen/oauth2-server/internal/client/model"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/authz/constants"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/authz/model"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/authz/store"
	oauth2const "github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/constants"
	oauthmodel "github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/model"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/pkce"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/scope/validator"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/config"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/instrumentation"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/log"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/utils"
)

const codeManagerLoggerComponentName = "AuthorizationCodeManager"

const invalidCodeDescription = "Invalid authorization code"

// AuthorizationCodeManagerInterface defines the lifecycle of authorization codes.
type AuthorizationCodeManagerInterface interface {
	IssueAuthorizationCode(ctx context.Context, client *clientmodel.Client, userID, redirectURI string,
		scopes []string, pkceParams *model.PKCEParams) (*model.AuthorizationCode, *oauthmodel.ErrorResponse)
	RedeemAuthorizationCode(ctx context.Context, code string, client *clientmodel.Client,
		redirectURI, codeVerifier string) (*model.AuthorizationCode, *oauthmodel.ErrorResponse)
	ReleaseAuthorizationCode(ctx context.Context, authzCode *model.AuthorizationCode) error
}

// AuthorizationCodeManager implements AuthorizationCodeManagerInterface.
type AuthorizationCodeManager struct {
	store          store.AuthorizationCodeStoreInterface
	scopeValidator validator.ScopeValidatorInterface
	metrics        *instrumentation.Metrics
	now            func() time.Time
}

// NewAuthorizationCodeManager creates a new instance of AuthorizationCodeManager.
// The metrics argument may be nil.
func NewAuthorizationCodeManager(codeStore store.AuthorizationCodeStoreInterface,
	scopeValidator validator.ScopeValidatorInterface, metrics *instrumentation.Metrics) *AuthorizationCodeManager {
	return &AuthorizationCodeManager{
		store:          codeStore,
		scopeValidator: scopeValidator,
		metrics:        metrics,
		now:            time.Now,
	}
}

// IssueAuthorizationCode creates and stores a single use code for an authenticated user.
func (m *AuthorizationCodeManager) IssueAuthorizationCode(ctx context.Context, client *clientmodel.Client,
	userID, redirectURI string, scopes []string,
	pkceParams *model.PKCEParams) (*model.AuthorizationCode, *oauthmodel.ErrorResponse) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, codeManagerLoggerComponentName))

	if client == nil {
		return nil, oauthmodel.NewClientError("Invalid client")
	}
	if userID == "" {
		return nil, oauthmodel.NewInvalidRequestError("Authenticated user is required")
	}
	if !client.IsAllowedGrantType(string(oauth2const.GrantTypeAuthorizationCode)) {
		return nil, oauthmodel.NewUnauthorizedClientError(
			"The client is not authorized to use the authorization code grant")
	}
	if !client.IsAllowedRedirectURI(redirectURI) {
		return nil, oauthmodel.NewInvalidRequestError("Invalid redirect URI")
	}

	grantedScopes, scopeErr := m.scopeValidator.ValidateScopes(scopes, client)
	if scopeErr != nil {
		return nil, oauthmodel.NewScopeError(scopeErr.ErrorDescription)
	}

	runtimeConfig := config.GetServerRuntime().Config
	challenge, method := "", ""
	if pkceParams != nil && pkceParams.CodeChallenge != "" {
		method = pkce.NormalizeMethod(pkceParams.CodeChallengeMethod)
		if err := pkce.ValidateCodeChallenge(pkceParams.CodeChallenge, method,
			pkce.WithStrictVerifierFormat(runtimeConfig.OAuth.PKCE.StrictVerifierFormat)); err != nil {
			return nil, oauthmodel.NewInvalidRequestError("Invalid code challenge or code challenge method")
		}
		challenge = pkceParams.CodeChallenge
	}

	codeValue, err := utils.GenerateSecureToken(constants.AuthorizationCodeLength)
	if err != nil {
		logger.Error("Failed to generate authorization code", log.Error(err))
		return nil, oauthmodel.NewServerError()
	}

	now := m.now().UTC().Truncate(time.Second)
	validity := time.Duration(runtimeConfig.GetAuthorizationCodeValidityPeriod()) * time.Second
	authzCode := model.AuthorizationCode{
		CodeID:              utils.GenerateUUID(),
		Code:                codeValue,
		ClientID:            client.ID,
		RedirectURI:         redirectURI,
		AuthorizedUserID:    userID,
		TimeCreated:         now,
		ExpiryTime:          now.Add(validity),
		Scopes:              grantedScopes,
		CodeChallenge:       challenge,
		CodeChallengeMethod: method,
		State:               constants.AuthCodeStateActive,
	}

	if err := m.store.InsertAuthorizationCode(ctx, authzCode); err != nil {
		logger.Error("Failed to persist authorization code", log.Error(err))
		return nil, oauthmodel.NewServerError()
	}

	m.metrics.RecordCodeIssued(ctx)
	logger.Debug("Issued authorization code", log.String(log.LoggerKeyClientID, client.ID),
		log.Bool("pkce", challenge != ""))
	return &authzCode, nil
}

// RedeemAuthorizationCode exchanges a code exactly once. Only the redemption that wins the
// conditional state transition succeeds.
func (m *AuthorizationCodeManager) RedeemAuthorizationCode(ctx context.Context, code string,
	client *clientmodel.Client, redirectURI, codeVerifier string) (*model.AuthorizationCode, *oauthmodel.ErrorResponse) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, codeManagerLoggerComponentName))

	if client == nil || code == "" {
		return nil, oauthmodel.NewGrantError(invalidCodeDescription)
	}

	authzCode, err := m.store.GetAuthorizationCode(ctx, code)
	if err != nil {
		if errors.Is(err, constants.ErrAuthorizationCodeNotFound) {
			return nil, oauthmodel.NewGrantError(invalidCodeDescription)
		}
		logger.Error("Failed to retrieve authorization code", log.Error(err))
		return nil, oauthmodel.NewServerError()
	}

	if authzCode.ClientID != client.ID {
		logger.Warn("Authorization code presented by a different client",
			log.String(log.LoggerKeyClientID, client.ID))
		return nil, oauthmodel.NewGrantError(invalidCodeDescription)
	}
	if !authzCode.IsActive() {
		m.reportReuse(ctx, logger, &authzCode)
		return nil, oauthmodel.NewGrantError(invalidCodeDescription)
	}
	if authzCode.IsExpired(m.now()) {
		if expireErr := m.store.ExpireAuthorizationCode(ctx, authzCode.CodeID); expireErr != nil {
			logger.Warn("Failed to mark authorization code expired", log.Error(expireErr))
		}
		return nil, oauthmodel.NewGrantError("Expired authorization code")
	}
	if authzCode.RedirectURI != redirectURI {
		return nil, oauthmodel.NewGrantError("Redirect URI does not match the authorization request")
	}
	if authzCode.HasChallenge() {
		strict := config.GetServerRuntime().Config.OAuth.PKCE.StrictVerifierFormat
		if err := pkce.ValidatePKCE(authzCode.CodeChallenge, authzCode.CodeChallengeMethod, codeVerifier,
			pkce.WithStrictVerifierFormat(strict)); err != nil {
			m.metrics.RecordPKCEFailure(ctx, authzCode.CodeChallengeMethod)
			return nil, oauthmodel.NewGrantError("Invalid code verifier")
		}
	}

	consumed, err := m.store.ConsumeAuthorizationCode(ctx, authzCode.CodeID, m.now())
	if err != nil {
		logger.Error("Failed to consume authorization code", log.Error(err))
		return nil, oauthmodel.NewServerError()
	}
	if !consumed {
		// The code either expired after it was read or another redemption won.
		if authzCode.IsExpired(m.now()) {
			return nil, oauthmodel.NewGrantError("Expired authorization code")
		}
		m.reportReuse(ctx, logger, &authzCode)
		return nil, oauthmodel.NewGrantError(invalidCodeDescription)
	}

	authzCode.State = constants.AuthCodeStateInactive
	m.metrics.RecordCodeRedeemed(ctx)
	return &authzCode, nil
}

// ReleaseAuthorizationCode makes a redeemed code redeemable again after no token could be issued
// for it. A code that has expired in the meantime stays consumed.
func (m *AuthorizationCodeManager) ReleaseAuthorizationCode(ctx context.Context,
	authzCode *model.AuthorizationCode) error {
	if authzCode == nil {
		return nil
	}
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, codeManagerLoggerComponentName))

	restored, err := m.store.RestoreAuthorizationCode(ctx, authzCode.CodeID, m.now())
	if err != nil {
		return fmt.Errorf("failed to restore authorization code: %w", err)
	}
	if !restored {
		logger.Warn("Authorization code could not be restored", log.String("codeId", authzCode.CodeID))
		return nil
	}
	authzCode.State = constants.AuthCodeStateActive
	logger.Debug("Authorization code restored after a failed issuance", log.String("codeId", authzCode.CodeID))
	return nil
}

func (m *AuthorizationCodeManager) reportReuse(ctx context.Context, logger *log.Logger,
	authzCode *model.AuthorizationCode) {
	m.metrics.RecordCodeReuse(ctx)
	logger.Warn("Authorization code presented after it was consumed",
		log.String(log.LoggerKeyClientID, authzCode.ClientID),
		log.String("codeId", authzCode.CodeID),
		log.String("state", authzCode.State))
}

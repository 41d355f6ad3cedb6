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

package granthandlers

import (
	"context"
	"errors"
	"time"

	clientmodel "github.com/JonasVannieuwenhuijsen/oauth2-server/internal/client/model"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/constants"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/model"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/tokens/store"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/scope/validator"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/config"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/log"
	usermodel "github.com/JonasVannieuwenhuijsen/oauth2-server/internal/user/model"
)

const invalidRefreshTokenDescription = "Invalid refresh token"

// refreshTokenGrantHandler handles the refresh token grant.
type refreshTokenGrantHandler struct {
	tokenStore store.TokenStoreInterface
	now        func() time.Time
}

// NewRefreshTokenGrantHandler creates a new instance of the refresh token grant handler.
func NewRefreshTokenGrantHandler(tokenStore store.TokenStoreInterface) GrantHandlerInterface {
	return &refreshTokenGrantHandler{
		tokenStore: tokenStore,
		now:        time.Now,
	}
}

// ValidateGrant validates the refresh token grant request.
func (h *refreshTokenGrantHandler) ValidateGrant(tokenRequest *model.TokenRequest,
	_ *clientmodel.Client) *model.ErrorResponse {
	if tokenRequest.RefreshToken == "" {
		return model.NewInvalidRequestError("Refresh token is required")
	}
	return nil
}

// HandleGrant validates the presented refresh token and narrows the scope if requested.
// With rotation enabled the refresh token is consumed and a new one is issued.
func (h *refreshTokenGrantHandler) HandleGrant(ctx context.Context, tokenRequest *model.TokenRequest,
	client *clientmodel.Client) (*GrantOutcome, *model.ErrorResponse) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "RefreshTokenGrantHandler"),
		log.String(log.LoggerKeyClientID, client.ID))

	refreshToken, err := h.tokenStore.GetToken(ctx, tokenRequest.RefreshToken, constants.TokenKindRefresh)
	if err != nil {
		if errors.Is(err, constants.ErrTokenNotFound) {
			return nil, model.NewGrantError(invalidRefreshTokenDescription)
		}
		logger.Error("Failed to retrieve refresh token", log.Error(err))
		return nil, model.NewServerError()
	}

	if refreshToken.ClientID != client.ID {
		logger.Debug("Refresh token presented by a client it was not issued to")
		return nil, model.NewGrantError(invalidRefreshTokenDescription)
	}
	if refreshToken.Revoked {
		logger.Debug("Revoked refresh token presented")
		return nil, model.NewGrantError(invalidRefreshTokenDescription)
	}
	if refreshToken.IsExpired(h.now()) {
		return nil, model.NewGrantError("Refresh token has expired")
	}

	scopes := validator.ParseScopes(tokenRequest.Scope, nil)
	if len(scopes) == 0 {
		scopes = refreshToken.Scopes
	} else if !validator.IsSubset(scopes, refreshToken.Scopes) {
		return nil, model.NewScopeError("The requested scope exceeds the scope originally granted")
	}

	outcome := &GrantOutcome{
		Scopes: scopes,
	}
	if refreshToken.UserID != "" {
		outcome.User = &usermodel.User{ID: refreshToken.UserID}
	}

	if !config.GetServerRuntime().Config.OAuth.RefreshToken.RenewOnGrant {
		outcome.RefreshToken = refreshToken
		return outcome, nil
	}

	consumed, err := h.tokenStore.ConsumeRefreshToken(ctx, tokenRequest.RefreshToken)
	if err != nil {
		logger.Error("Failed to consume refresh token", log.Error(err))
		return nil, model.NewServerError()
	}
	if !consumed {
		logger.Warn("Refresh token was already used")
		return nil, model.NewGrantError(invalidRefreshTokenDescription)
	}
	// The renewed refresh token keeps the original grant so later requests can widen back to it.
	outcome.RefreshScopes = refreshToken.Scopes
	return outcome, nil
}

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

// Package revoke implements OAuth2 token revocation (RFC 7009).
package revoke

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"

	clientservice "github.com/JonasVannieuwenhuijsen/oauth2-server/internal/client/service"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/constants"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/model"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/tokens/store"
	oauthutils "github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/utils"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/instrumentation"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/log"
)

const serviceComponentName = "RevocationService"

// RevocationServiceInterface defines the revocation entry point.
type RevocationServiceInterface interface {
	RevokeToken(ctx context.Context, request *model.RevocationRequest) *model.ErrorResponse
}

// RevocationService revokes tokens on behalf of the client they were issued to.
type RevocationService struct {
	clientService   clientservice.ClientServiceInterface
	tokenStore      store.TokenStoreInterface
	instrumentation *instrumentation.Instrumentation
}

// NewRevocationService creates a new instance of RevocationService. A nil instrumentation records nothing.
func NewRevocationService(clientService clientservice.ClientServiceInterface, tokenStore store.TokenStoreInterface,
	inst *instrumentation.Instrumentation) *RevocationService {
	if inst == nil {
		inst = instrumentation.NewNoop()
	}
	return &RevocationService{
		clientService:   clientService,
		tokenStore:      tokenStore,
		instrumentation: inst,
	}
}

// RevokeToken authenticates the client and revokes the token. Unknown tokens, tokens of other clients
// and tokens that are already revoked are accepted without change. Revoking a refresh token also
// revokes the access tokens issued with it.
func (rs *RevocationService) RevokeToken(ctx context.Context, request *model.RevocationRequest) *model.ErrorResponse {
	ctx, span := rs.instrumentation.StartSpan(ctx, "oauth2.revoke",
		attribute.String(instrumentation.AttrClientID, request.ClientID))
	defer span.End()
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, serviceComponentName),
		log.String(log.LoggerKeyClientID, request.ClientID))

	if request.Token == "" {
		errResp := model.NewInvalidRequestError("Missing token parameter")
		instrumentation.RecordOAuthError(span, errResp.Error, errResp.ErrorDescription)
		return errResp
	}

	client, errResp := oauthutils.AuthenticateClient(ctx, rs.clientService, request.ClientID, request.ClientSecret)
	if errResp != nil {
		instrumentation.RecordOAuthError(span, errResp.Error, errResp.ErrorDescription)
		return errResp
	}

	for _, kind := range lookupOrder(request.TokenTypeHint) {
		token, err := rs.tokenStore.GetToken(ctx, request.Token, kind)
		if errors.Is(err, constants.ErrTokenNotFound) {
			continue
		}
		if err != nil {
			logger.Error("Failed to look up token", log.Error(err))
			instrumentation.RecordError(span, err)
			return model.NewServerError()
		}
		if token.ClientID != client.ID {
			logger.Debug("Ignoring revocation of a token issued to another client")
			return nil
		}
		span.SetAttributes(attribute.String(instrumentation.AttrTokenType, string(kind)))
		return rs.revoke(ctx, logger, token)
	}

	logger.Debug("Ignoring revocation of an unknown token")
	return nil
}

func (rs *RevocationService) revoke(ctx context.Context, logger *log.Logger, token *model.Token) *model.ErrorResponse {
	revoked, err := rs.tokenStore.RevokeToken(ctx, token.Value)
	if err != nil {
		logger.Error("Failed to revoke token", log.Error(err))
		return model.NewServerError()
	}

	var cascaded int64
	if token.Kind == constants.TokenKindRefresh {
		// Access tokens of a consumed refresh token are revoked even when the token itself already was.
		cascaded, err = rs.tokenStore.RevokeAccessTokensByRefreshToken(ctx, token.Value)
		if err != nil {
			logger.Error("Failed to revoke access tokens of refresh token", log.Error(err))
			return model.NewServerError()
		}
	}

	if revoked {
		rs.instrumentation.Metrics().RecordTokenRevoked(ctx, string(token.Kind))
	}
	logger.Debug("Token revoked", log.String("tokenKind", string(token.Kind)), log.Bool("changed", revoked),
		log.Int64("cascadedAccessTokens", cascaded))
	return nil
}

// lookupOrder returns the token kinds to search, the hinted kind first. An unknown hint searches both.
func lookupOrder(hint string) []constants.TokenKind {
	if constants.TokenKind(hint) == constants.TokenKindRefresh {
		return []constants.TokenKind{constants.TokenKindRefresh, constants.TokenKindAccess}
	}
	return []constants.TokenKind{constants.TokenKindAccess, constants.TokenKindRefresh}
}

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

// Package token implements the OAuth2 token endpoint.
package token

import (
	"context"
	"errors"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	clientmodel "github.com/JonasVannieuwenhuijsen/oauth2-server/internal/client/model"
	clientservice "github.com/JonasVannieuwenhuijsen/oauth2-server/internal/client/service"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/constants"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/granthandlers"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/model"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/tokens"
	oauthutils "github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/utils"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/scope/validator"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/instrumentation"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/log"
)

const serviceComponentName = "TokenService"

// TokenServiceInterface defines the entry point of token requests.
type TokenServiceInterface interface {
	ProcessGrant(ctx context.Context, tokenRequest *model.TokenRequest) (*model.TokenResponseDTO,
		*model.ErrorResponse)
}

// TokenService dispatches token requests to the grant handlers. Handlers only authenticate the
// principal; scope validation and issuance always run here, after the handler.
type TokenService struct {
	clientService   clientservice.ClientServiceInterface
	grantProvider   granthandlers.GrantHandlerProviderInterface
	scopeValidator  validator.ScopeValidatorInterface
	tokenIssuer     tokens.TokenIssuerInterface
	instrumentation *instrumentation.Instrumentation
}

// NewTokenService creates a new instance of TokenService. A nil instrumentation records nothing.
func NewTokenService(clientService clientservice.ClientServiceInterface,
	grantProvider granthandlers.GrantHandlerProviderInterface, scopeValidator validator.ScopeValidatorInterface,
	tokenIssuer tokens.TokenIssuerInterface, inst *instrumentation.Instrumentation) *TokenService {
	if inst == nil {
		inst = instrumentation.NewNoop()
	}
	return &TokenService{
		clientService:   clientService,
		grantProvider:   grantProvider,
		scopeValidator:  scopeValidator,
		tokenIssuer:     tokenIssuer,
		instrumentation: inst,
	}
}

// grantRun tracks a single request through the grant states.
type grantRun struct {
	tokenContext *model.TokenContext
	logger       *log.Logger
	span         trace.Span
	metrics      *instrumentation.Metrics
	grantType    string
}

func (r *grantRun) transition(state model.GrantState) {
	if r.logger.IsDebugEnabled() {
		r.logger.Debug("Grant state transition", log.String("from", string(r.tokenContext.State)),
			log.String("to", string(state)))
	}
	r.tokenContext.State = state
	r.span.AddEvent(string(state))
}

func (r *grantRun) fail(ctx context.Context, errResp *model.ErrorResponse) (*model.TokenResponseDTO,
	*model.ErrorResponse) {
	r.tokenContext.FailureKind = errResp.Error
	r.transition(model.GrantStateFailed)
	r.logger.Debug("Token request failed", log.String("error", errResp.Error),
		log.String("state", string(model.GrantStateFailed)))
	instrumentation.RecordOAuthError(r.span, errResp.Error, errResp.ErrorDescription)
	r.metrics.RecordGrantFailure(ctx, r.grantType, errResp.Error)
	return nil, errResp
}

// ProcessGrant authenticates the client, runs the grant handler, validates the scope and issues
// the tokens. Every failure is returned as an OAuth2 error response.
func (ts *TokenService) ProcessGrant(ctx context.Context, tokenRequest *model.TokenRequest) (
	*model.TokenResponseDTO, *model.ErrorResponse) {
	ctx, span := ts.instrumentation.StartSpan(ctx, "oauth2.token",
		attribute.String(instrumentation.AttrGrantType, tokenRequest.GrantType),
		attribute.String(instrumentation.AttrClientID, tokenRequest.ClientID))
	defer span.End()

	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, serviceComponentName),
		log.String(log.LoggerKeyClientID, tokenRequest.ClientID),
		log.String(log.LoggerKeyGrantType, tokenRequest.GrantType))
	run := &grantRun{
		tokenContext: &model.TokenContext{State: model.GrantStateReceived},
		logger:       logger,
		span:         span,
		metrics:      ts.instrumentation.Metrics(),
		grantType:    tokenRequest.GrantType,
	}

	if tokenRequest.GrantType == "" {
		return run.fail(ctx, model.NewInvalidRequestError("Missing grant_type parameter"))
	}

	client, errResp := oauthutils.AuthenticateClient(ctx, ts.clientService, tokenRequest.ClientID,
		tokenRequest.ClientSecret)
	if errResp != nil {
		return run.fail(ctx, errResp)
	}
	run.transition(model.GrantStateClientAuthenticated)

	grantHandler, err := ts.grantProvider.GetGrantHandler(constants.GrantType(tokenRequest.GrantType))
	if err != nil {
		if !errors.Is(err, constants.UnSupportedGrantTypeError) {
			run.logger.Error("Failed to resolve grant handler", log.Error(err))
			return run.fail(ctx, model.NewServerError())
		}
		return run.fail(ctx, model.NewUnsupportedGrantError("Unsupported grant type"))
	}
	if !client.IsAllowedGrantType(tokenRequest.GrantType) {
		return run.fail(ctx, model.NewUnauthorizedClientError(
			"The authenticated client is not authorized to use this grant type"))
	}

	if errResp := grantHandler.ValidateGrant(tokenRequest, client); errResp != nil {
		return run.fail(ctx, errResp)
	}
	outcome, errResp := grantHandler.HandleGrant(ctx, tokenRequest, client)
	if errResp != nil {
		return run.fail(ctx, errResp)
	}
	if outcome == nil {
		run.logger.Error("Grant handler returned no outcome")
		return run.fail(ctx, model.NewServerError())
	}
	run.transition(model.GrantStatePrincipalAuthenticated)
	if outcome.User != nil {
		span.SetAttributes(attribute.String(instrumentation.AttrUserID, outcome.User.ID))
	}

	scopes, refreshScopes, errResp := ts.validateScopes(outcome, client)
	if errResp != nil {
		return run.fail(ctx, errResp)
	}
	run.transition(model.GrantStateScopeValidated)

	accessToken, errResp := ts.issueTokens(ctx, run, tokenRequest, client, outcome, scopes, refreshScopes)
	if errResp != nil {
		releaseGrant(ctx, run, outcome)
		return run.fail(ctx, errResp)
	}
	run.transition(model.GrantStateTokenIssued)

	// Lifetimes are reported from the issuance instant recorded on the token.
	issuedAt := accessToken.IssuedAt
	response := &model.TokenResponseDTO{AccessToken: model.NewTokenDTO(accessToken, issuedAt)}
	if accessToken.RefreshToken != nil {
		refreshDTO := model.NewTokenDTO(accessToken.RefreshToken, issuedAt)
		response.RefreshToken = &refreshDTO
	}

	span.SetAttributes(attribute.String(instrumentation.AttrScope, strings.Join(scopes, " ")))
	run.metrics.RecordTokenIssued(ctx, tokenRequest.GrantType, response.RefreshToken != nil)
	run.logger.Debug("Token issued", log.Int("scopeCount", len(scopes)),
		log.Bool("refreshTokenIssued", response.RefreshToken != nil))
	return response, nil
}

// releaseGrant hands back what the handler spent once issuance has failed, so the client can retry
// the same grant.
func releaseGrant(ctx context.Context, run *grantRun, outcome *granthandlers.GrantOutcome) {
	if outcome.Release == nil {
		return
	}
	if err := outcome.Release(ctx); err != nil {
		run.logger.Error("Failed to release the grant after token issuance failed", log.Error(err))
	}
}

func (ts *TokenService) validateScopes(outcome *granthandlers.GrantOutcome, client *clientmodel.Client) (
	[]string, []string, *model.ErrorResponse) {
	scopes, scopeErr := ts.scopeValidator.ValidateScopes(outcome.Scopes, client)
	if scopeErr != nil {
		return nil, nil, model.NewScopeError(scopeErr.ErrorDescription)
	}

	refreshScopes := scopes
	if outcome.RefreshScopes != nil {
		refreshScopes, scopeErr = ts.scopeValidator.ValidateScopes(outcome.RefreshScopes, client)
		if scopeErr != nil {
			return nil, nil, model.NewScopeError(scopeErr.ErrorDescription)
		}
	}
	return scopes, refreshScopes, nil
}

func (ts *TokenService) issueTokens(ctx context.Context, run *grantRun, tokenRequest *model.TokenRequest,
	client *clientmodel.Client, outcome *granthandlers.GrantOutcome, scopes,
	refreshScopes []string) (*model.Token, *model.ErrorResponse) {
	accessToken, err := ts.tokenIssuer.IssueAccessToken(client, outcome.User, scopes)
	if err != nil {
		run.logger.Error("Failed to issue access token", log.Error(err))
		instrumentation.RecordError(run.span, err)
		return nil, model.NewServerError()
	}
	accessToken.GrantType = tokenRequest.GrantType

	switch {
	case outcome.RefreshToken != nil:
		accessToken.RefreshToken = outcome.RefreshToken
	case !outcome.NoRefreshToken && client.IsAllowedGrantType(string(constants.GrantTypeRefreshToken)):
		refreshToken, err := ts.tokenIssuer.IssueRefreshToken(client, outcome.User, refreshScopes)
		if err != nil {
			run.logger.Error("Failed to issue refresh token", log.Error(err))
			instrumentation.RecordError(run.span, err)
			return nil, model.NewServerError()
		}
		accessToken.RefreshToken = refreshToken
	}

	persisted, err := ts.tokenIssuer.Persist(ctx, accessToken, client, outcome.User)
	if err != nil {
		run.logger.Error("Failed to persist tokens", log.Error(err))
		instrumentation.RecordError(run.span, err)
		return nil, model.NewServerError()
	}
	return persisted, nil
}

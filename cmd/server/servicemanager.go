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

package main

import (
	"context"
	"fmt"
	"net/http"

	clientservice "github.com/JonasVannieuwenhuijsen/oauth2-server/internal/client/service"
	clientstore "github.com/JonasVannieuwenhuijsen/oauth2-server/internal/client/store"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/federation"
	authzstore "github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/authz/store"
	oauthconstants "github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/constants"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/model"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/revoke"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/token"
	tokenstore "github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/tokens/store"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/server"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/config"
	dbmodel "github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/database/model"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/database/provider"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/instrumentation"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/log"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/middleware"
	userservice "github.com/JonasVannieuwenhuijsen/oauth2-server/internal/user/service"
	userstore "github.com/JonasVannieuwenhuijsen/oauth2-server/internal/user/store"
)

// serviceManager owns the engine and the HTTP routes of the server.
type serviceManager struct {
	engine      *server.Engine
	mux         *http.ServeMux
	rateLimiter *middleware.RateLimiter
	dbProvider  *provider.DBProvider
}

// newServiceManager creates the stores and services, imports the static clients and users, and
// registers the OAuth2 endpoints.
func newServiceManager(ctx context.Context, cfg *config.Config, serverHome string,
	inst *instrumentation.Instrumentation) (*serviceManager, error) {
	logger := log.GetLogger()
	sm := &serviceManager{
		mux: http.NewServeMux(),
	}

	userStore, clientStore := sm.identityStores(cfg.Database.Identity)
	userService := userservice.NewUserService(userStore, cfg.Integrations.Directory.AutoProvision)
	clientService := clientservice.NewClientService(clientStore, userService)

	if err := userService.ImportStaticUsers(ctx, cfg.Users); err != nil {
		return nil, fmt.Errorf("failed to import static users: %w", err)
	}
	if err := clientService.ImportStaticClients(ctx, cfg.Clients, cfg.OAuth.Scope.Catalog); err != nil {
		return nil, fmt.Errorf("failed to import static clients: %w", err)
	}

	codeStore, tokenStore := sm.runtimeStores(cfg.Database.Runtime)
	builder := server.NewBuilder().
		WithClientService(clientService).
		WithUserService(userService).
		WithAuthorizationCodeStore(codeStore).
		WithTokenStore(tokenStore).
		WithInstrumentation(inst)

	var challenges *federation.ChallengeService
	if directory := cfg.Integrations.Directory; directory.Enabled {
		verifier, err := federation.NewJWTDirectoryVerifierFromConfig(directory, serverHome)
		if err != nil {
			return nil, model.NewConfigurationError("DirectoryIntegration", err.Error())
		}
		challenges = federation.NewChallengeService()
		builder.WithDirectoryIntegration(verifier, challenges, directory.GrantType)
	}

	engine, err := builder.Build()
	if err != nil {
		if challenges != nil {
			challenges.Close()
		}
		return nil, err
	}
	sm.engine = engine

	if cfg.RateLimit.Enabled {
		sm.rateLimiter = middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}
	sm.registerRoutes(clientService, cfg.Integrations.Directory.GrantType)

	logger.Info("Registered OAuth2 services", log.String("identityStore", cfg.Database.Identity.Type),
		log.String("runtimeStore", cfg.Database.Runtime.Type), log.Bool("rateLimit", cfg.RateLimit.Enabled))
	return sm, nil
}

func (sm *serviceManager) identityStores(dataSource config.DataSource) (userstore.UserStoreInterface,
	clientstore.ClientStoreInterface) {
	if dataSource.Type == dbmodel.DBTypeMemory {
		return userstore.NewMemoryUserStore(), clientstore.NewMemoryClientStore()
	}
	sm.dbProvider = provider.GetDBProvider()
	return userstore.NewUserStore(sm.dbProvider),
		clientstore.NewCachedBackedClientStore(clientstore.NewClientStore(sm.dbProvider))
}

func (sm *serviceManager) runtimeStores(dataSource config.DataSource) (authzstore.AuthorizationCodeStoreInterface,
	tokenstore.TokenStoreInterface) {
	if dataSource.Type == dbmodel.DBTypeMemory {
		return authzstore.NewMemoryAuthorizationCodeStore(), tokenstore.NewMemoryTokenStore()
	}
	sm.dbProvider = provider.GetDBProvider()
	return authzstore.NewAuthorizationCodeStore(sm.dbProvider), tokenstore.NewTokenStore(sm.dbProvider)
}

func (sm *serviceManager) registerRoutes(clientService clientservice.ClientServiceInterface,
	directoryGrantType string) {
	tokenHandler := token.NewTokenHandler(sm.engine.TokenService)
	sm.mux.Handle("POST "+oauthconstants.OAuth2TokenEndpoint, sm.limit(tokenHandler.HandleTokenRequest))

	revocationHandler := revoke.NewRevocationHandler(sm.engine.RevocationService)
	sm.mux.Handle("POST "+oauthconstants.OAuth2RevokeEndpoint, sm.limit(revocationHandler.HandleRevokeRequest))

	if sm.engine.ChallengeService != nil {
		challengeHandler := federation.NewChallengeHandler(sm.engine.ChallengeService, clientService,
			directoryGrantType)
		sm.mux.Handle("POST "+oauthconstants.OAuth2FederatedChallengeEndpoint,
			sm.limit(challengeHandler.HandleChallengeRequest))
	}
}

func (sm *serviceManager) limit(handler http.HandlerFunc) http.Handler {
	if sm.rateLimiter == nil {
		return handler
	}
	return sm.rateLimiter.Handler(handler)
}

// Handler returns the root handler of the server.
func (sm *serviceManager) Handler() http.Handler {
	return sm.mux
}

// Close releases the engine, the rate limiter and the database connections.
func (sm *serviceManager) Close() {
	logger := log.GetLogger()
	sm.engine.Close()
	if sm.rateLimiter != nil {
		sm.rateLimiter.Stop()
	}
	if sm.dbProvider != nil {
		if err := sm.dbProvider.Close(); err != nil {
			logger.Error("Failed to close database connections", log.Error(err))
		}
	}
}

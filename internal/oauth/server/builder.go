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

// Package server assembles the OAuth2 engine from its collaborators.
package server

import (
	"fmt"

	clientservice "github.com/JonasVannieuwenhuijsen/oauth2-server/internal/client/service"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/federation"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/authz"
	authzstore "github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/authz/store"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/constants"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/granthandlers"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/model"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/revoke"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/token"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/tokens"
	tokenstore "github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/tokens/store"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/scope/validator"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/config"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/instrumentation"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/log"
	userservice "github.com/JonasVannieuwenhuijsen/oauth2-server/internal/user/service"
)

const builderComponentName = "EngineBuilder"

// Engine holds the entry points of the assembled server.
type Engine struct {
	TokenService      *token.TokenService
	RevocationService *revoke.RevocationService
	// CodeManager issues codes for the authorize step of the embedding application.
	CodeManager      *authz.AuthorizationCodeManager
	ChallengeService federation.ChallengeServiceInterface
	GrantRegistry    *granthandlers.GrantHandlerRegistry
}

// Close releases the background resources of the engine.
func (e *Engine) Close() {
	if e.ChallengeService != nil {
		e.ChallengeService.Close()
	}
}

type directoryIntegration struct {
	verifier   federation.DirectoryVerifierInterface
	challenges federation.ChallengeServiceInterface
	grantType  string
}

type extensionGrant struct {
	name    string
	handler granthandlers.GrantHandlerInterface
}

// Builder collects the collaborators of an Engine. Nothing is validated until Build.
type Builder struct {
	clientService   clientservice.ClientServiceInterface
	userService     userservice.UserVerifierInterface
	codeStore       authzstore.AuthorizationCodeStoreInterface
	tokenStore      tokenstore.TokenStoreInterface
	tokenGenerator  tokens.TokenGeneratorInterface
	scopeValidator  validator.ScopeValidatorInterface
	instrumentation *instrumentation.Instrumentation
	directory       *directoryIntegration
	extensions      []extensionGrant
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// WithClientService sets the client registry. Required.
func (b *Builder) WithClientService(clientService clientservice.ClientServiceInterface) *Builder {
	b.clientService = clientService
	return b
}

// WithUserService sets the resource owner verifier. Required. The directory integration additionally
// needs it to resolve federated users.
func (b *Builder) WithUserService(userService userservice.UserVerifierInterface) *Builder {
	b.userService = userService
	return b
}

// WithAuthorizationCodeStore sets the code store. Required.
func (b *Builder) WithAuthorizationCodeStore(codeStore authzstore.AuthorizationCodeStoreInterface) *Builder {
	b.codeStore = codeStore
	return b
}

// WithTokenStore sets the token store. Required.
func (b *Builder) WithTokenStore(tokenStore tokenstore.TokenStoreInterface) *Builder {
	b.tokenStore = tokenStore
	return b
}

// WithTokenGenerator sets the token value generator. Defaults to the configured token format.
func (b *Builder) WithTokenGenerator(generator tokens.TokenGeneratorInterface) *Builder {
	b.tokenGenerator = generator
	return b
}

// WithScopeValidator sets the scope validator. Defaults to the catalog validator.
func (b *Builder) WithScopeValidator(scopeValidator validator.ScopeValidatorInterface) *Builder {
	b.scopeValidator = scopeValidator
	return b
}

// WithInstrumentation sets the tracing and metrics providers. Defaults to no-op instrumentation.
func (b *Builder) WithInstrumentation(inst *instrumentation.Instrumentation) *Builder {
	b.instrumentation = inst
	return b
}

// WithDirectoryIntegration enables the federated grant under the grant type.
func (b *Builder) WithDirectoryIntegration(verifier federation.DirectoryVerifierInterface,
	challenges federation.ChallengeServiceInterface, grantType string) *Builder {
	b.directory = &directoryIntegration{
		verifier:   verifier,
		challenges: challenges,
		grantType:  grantType,
	}
	return b
}

// WithExtensionGrant registers a configured extension grant. It takes precedence over an integration
// grant with the same name.
func (b *Builder) WithExtensionGrant(name string, handler granthandlers.GrantHandlerInterface) *Builder {
	b.extensions = append(b.extensions, extensionGrant{name: name, handler: handler})
	return b
}

// Build validates the collaborators and assembles the engine. Every problem is reported as a
// *model.ConfigurationError; the server must not start with one.
func (b *Builder) Build() (*Engine, error) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, builderComponentName))

	switch {
	case b.clientService == nil:
		return nil, model.NewConfigurationError("ClientService", "client service is required")
	case b.userService == nil:
		return nil, model.NewConfigurationError("UserService", "user service is required")
	case b.codeStore == nil:
		return nil, model.NewConfigurationError("AuthorizationCodeStore", "authorization code store is required")
	case b.tokenStore == nil:
		return nil, model.NewConfigurationError("TokenStore", "token store is required")
	}

	runtimeConfig := config.GetServerRuntime().Config
	if _, err := validator.ParseEmptyScopePolicy(runtimeConfig.OAuth.Scope.EmptyScopePolicy); err != nil {
		return nil, model.NewConfigurationError("ScopeValidator", err.Error())
	}

	generator := b.tokenGenerator
	if generator == nil {
		var err error
		if generator, err = tokens.NewTokenGenerator(runtimeConfig.OAuth.Token); err != nil {
			return nil, model.NewConfigurationError("TokenGenerator", err.Error())
		}
	}
	scopeValidator := b.scopeValidator
	if scopeValidator == nil {
		scopeValidator = validator.NewAPIScopeValidator()
	}
	inst := b.instrumentation
	if inst == nil {
		inst = instrumentation.NewNoop()
	}

	codeManager := authz.NewAuthorizationCodeManager(b.codeStore, scopeValidator, inst.Metrics())
	registry := granthandlers.NewGrantHandlerRegistry(granthandlers.NewBuiltInGrantHandlers(
		b.userService, codeManager, b.tokenStore, b.clientService))

	engine := &Engine{
		CodeManager:   codeManager,
		GrantRegistry: registry,
	}

	if b.directory != nil {
		if err := b.registerDirectory(registry); err != nil {
			return nil, err
		}
		engine.ChallengeService = b.directory.challenges
		logger.Debug("Registered directory integration grant", log.String("grantType", b.directory.grantType))
	}
	for _, extension := range b.extensions {
		if err := registry.RegisterExtensionGrant(extension.name, extension.handler); err != nil {
			return nil, err
		}
		logger.Debug("Registered extension grant", log.String("grantType", extension.name))
	}

	issuer := tokens.NewTokenIssuer(generator, b.tokenStore)
	engine.TokenService = token.NewTokenService(b.clientService, registry, scopeValidator, issuer, inst)
	engine.RevocationService = revoke.NewRevocationService(b.clientService, b.tokenStore, inst)

	logger.Info("OAuth2 engine assembled", log.Any("grantTypes", registry.GrantTypes()))
	return engine, nil
}

func (b *Builder) registerDirectory(registry *granthandlers.GrantHandlerRegistry) error {
	if b.directory.grantType == "" {
		return model.NewConfigurationError("DirectoryIntegration", "grant type is required")
	}
	if constants.GrantType(b.directory.grantType).IsBuiltIn() {
		return model.NewConfigurationError("DirectoryIntegration",
			fmt.Sprintf("grant type %q is reserved", b.directory.grantType))
	}

	resolver, ok := b.userService.(userservice.FederatedUserResolverInterface)
	if !ok {
		return model.NewConfigurationError("DirectoryIntegration",
			"user service cannot resolve federated users")
	}
	handler, err := granthandlers.NewFederatedGrantHandler(b.directory.verifier, b.directory.challenges, resolver)
	if err != nil {
		return err
	}
	return registry.RegisterIntegrationGrant(b.directory.grantType, handler)
}

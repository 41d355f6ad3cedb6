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

// Package service provides client authentication and client to user resolution.
package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/client/constants"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/client/model"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/client/store"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/config"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/crypto/hash"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/error/serviceerror"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/log"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/utils"
	userconstants "github.com/JonasVannieuwenhuijsen/oauth2-server/internal/user/constants"
	usermodel "github.com/JonasVannieuwenhuijsen/oauth2-server/internal/user/model"
	userservice "github.com/JonasVannieuwenhuijsen/oauth2-server/internal/user/service"
)

const loggerComponentName = "ClientService"

// ClientServiceInterface defines the client operations used by the token and revocation endpoints.
type ClientServiceInterface interface {
	// ResolveClient authenticates the client id and secret pair.
	ResolveClient(ctx context.Context, clientID, clientSecret string) (*model.Client, *serviceerror.ServiceError)
	// GetUserForClient returns the user a client acts as, or nil when the client has none.
	GetUserForClient(ctx context.Context, client *model.Client) (*usermodel.User, *serviceerror.ServiceError)
	// ImportStaticClients registers configured clients whose scopes fit the catalog.
	ImportStaticClients(ctx context.Context, clients []config.StaticClient, catalog []string) error
}

// ClientService is the default implementation of ClientServiceInterface.
type ClientService struct {
	store       store.ClientStoreInterface
	userService userservice.UserServiceInterface

	dummyHashOnce sync.Once
	dummyHash     string
}

// NewClientService creates a new instance of ClientService.
func NewClientService(clientStore store.ClientStoreInterface,
	userService userservice.UserServiceInterface) ClientServiceInterface {
	return &ClientService{
		store:       clientStore,
		userService: userService,
	}
}

// ResolveClient authenticates the client id and secret pair.
func (cs *ClientService) ResolveClient(ctx context.Context, clientID, clientSecret string) (
	*model.Client, *serviceerror.ServiceError) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName),
		log.String(log.LoggerKeyClientID, clientID))
	if clientID == "" {
		return nil, &constants.ErrorMissingClientID
	}

	client, err := cs.store.GetClient(ctx, clientID)
	if err != nil {
		if errors.Is(err, constants.ErrClientNotFound) {
			_ = hash.CompareSecret(cs.getDummyHash(), clientSecret)
			logger.Debug("Client not found")
			return nil, &constants.ErrorInvalidClientCredentials
		}
		logger.Error("Failed to retrieve client", log.Error(err))
		return nil, &constants.ErrorInternalServerError
	}

	if client.IsPublic() {
		if clientSecret != "" {
			logger.Debug("Secret presented for a public client")
			return nil, &constants.ErrorInvalidClientCredentials
		}
		return client, nil
	}

	if err := hash.CompareSecret(client.HashedSecret, clientSecret); err != nil {
		if !errors.Is(err, hash.ErrSecretMismatch) {
			logger.Error("Failed to compare client secret", log.Error(err))
		}
		logger.Debug("Client secret mismatch")
		return nil, &constants.ErrorInvalidClientCredentials
	}
	return client, nil
}

// GetUserForClient returns the user bound to the client.
func (cs *ClientService) GetUserForClient(ctx context.Context, client *model.Client) (
	*usermodel.User, *serviceerror.ServiceError) {
	if client == nil || client.UserID == "" {
		return nil, nil
	}

	user, svcErr := cs.userService.GetUser(ctx, client.UserID)
	if svcErr != nil {
		if svcErr.Code == userconstants.ErrorUserNotFound.Code {
			log.GetLogger().Warn("User bound to client does not exist",
				log.String(log.LoggerKeyClientID, client.ID), log.String("userId", client.UserID))
			return nil, &constants.ErrorClientUserNotFound
		}
		return nil, &constants.ErrorInternalServerError
	}
	return user, nil
}

// ImportStaticClients registers configured clients that do not exist yet.
func (cs *ClientService) ImportStaticClients(ctx context.Context, clients []config.StaticClient,
	catalog []string) error {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	for _, sc := range clients {
		if sc.ID == "" {
			return errors.New("static client is missing an id")
		}
		for _, scope := range sc.Scopes {
			if !slices.Contains(catalog, scope) {
				return fmt.Errorf("client %s allows scope %q which is not in the scope catalog", sc.ID, scope)
			}
		}
		if len(sc.GrantTypes) == 0 {
			return fmt.Errorf("client %s has no grant types", sc.ID)
		}

		if _, err := cs.store.GetClient(ctx, sc.ID); err == nil {
			logger.Debug("Static client already registered", log.String(log.LoggerKeyClientID, sc.ID))
			continue
		} else if !errors.Is(err, constants.ErrClientNotFound) {
			return err
		}

		err := cs.store.CreateClient(ctx, model.Client{
			ID:           sc.ID,
			HashedSecret: sc.SecretHash,
			RedirectURIs: sc.RedirectURIs,
			Scopes:       sc.Scopes,
			GrantTypes:   sc.GrantTypes,
			UserID:       sc.UserID,
		})
		if err != nil {
			return err
		}
		logger.Debug("Registered static client", log.String(log.LoggerKeyClientID, sc.ID))
	}
	return nil
}

func (cs *ClientService) getDummyHash() string {
	cs.dummyHashOnce.Do(func() {
		cs.dummyHash, _ = hash.HashSecret(utils.GenerateUUID())
	})
	return cs.dummyHash
}

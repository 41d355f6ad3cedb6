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

// Package store provides the persistence of registered OAuth clients.
package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/client/constants"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/client/model"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/database/provider"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/utils"
)

// ClientStoreInterface defines the methods for client persistence.
type ClientStoreInterface interface {
	GetClient(ctx context.Context, clientID string) (*model.Client, error)
	CreateClient(ctx context.Context, client model.Client) error
}

// ClientStore is the SQL implementation of ClientStoreInterface.
type ClientStore struct {
	DBProvider provider.DBProviderInterface
}

// NewClientStore creates a new instance of ClientStore.
func NewClientStore(dbProvider provider.DBProviderInterface) ClientStoreInterface {
	return &ClientStore{
		DBProvider: dbProvider,
	}
}

// GetClient retrieves a client by its id.
func (s *ClientStore) GetClient(ctx context.Context, clientID string) (*model.Client, error) {
	dbClient, err := s.DBProvider.GetDBClient(provider.IdentityDB)
	if err != nil {
		return nil, fmt.Errorf("failed to get database client: %w", err)
	}

	results, err := dbClient.Query(ctx, QueryGetClientByID, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve client: %w", err)
	}
	if len(results) == 0 {
		return nil, constants.ErrClientNotFound
	}

	row := results[0]
	return &model.Client{
		ID:           utils.GetString(row, "client_id"),
		HashedSecret: utils.GetString(row, "client_secret_hash"),
		RedirectURIs: utils.ParseStringArray(row["redirect_uris"], " "),
		Scopes:       utils.ParseStringArray(row["scopes"], " "),
		GrantTypes:   utils.ParseStringArray(row["grant_types"], " "),
		UserID:       utils.GetString(row, "user_id"),
	}, nil
}

// CreateClient registers a new client.
func (s *ClientStore) CreateClient(ctx context.Context, client model.Client) error {
	dbClient, err := s.DBProvider.GetDBClient(provider.IdentityDB)
	if err != nil {
		return fmt.Errorf("failed to get database client: %w", err)
	}

	_, err = dbClient.Execute(ctx, QueryInsertClient, client.ID, client.HashedSecret,
		strings.Join(client.RedirectURIs, " "), strings.Join(client.Scopes, " "),
		strings.Join(client.GrantTypes, " "), client.UserID)
	if err != nil {
		return fmt.Errorf("failed to insert client: %w", err)
	}
	return nil
}

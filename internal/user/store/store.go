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

// Package store provides the implementation for user persistence operations.
package store

import (
	"context"
	"fmt"

	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/database/model"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/database/provider"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/utils"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/user/constants"
	usermodel "github.com/JonasVannieuwenhuijsen/oauth2-server/internal/user/model"
)

// UserStoreInterface defines the methods for user persistence.
type UserStoreInterface interface {
	GetUser(ctx context.Context, userID string) (*usermodel.User, error)
	GetUserByUsername(ctx context.Context, username string) (*usermodel.User, error)
	GetUserByExternalID(ctx context.Context, externalID string) (*usermodel.User, error)
	CreateUser(ctx context.Context, user usermodel.User) error
	// CreateFederatedUser inserts the user unless a user with the same external id exists.
	// It reports whether this call created the record.
	CreateFederatedUser(ctx context.Context, user usermodel.User) (bool, error)
}

// UserStore is the SQL implementation of UserStoreInterface.
type UserStore struct {
	DBProvider provider.DBProviderInterface
}

// NewUserStore creates a new instance of UserStore.
func NewUserStore(dbProvider provider.DBProviderInterface) UserStoreInterface {
	return &UserStore{
		DBProvider: dbProvider,
	}
}

// GetUser retrieves a user by id.
func (s *UserStore) GetUser(ctx context.Context, userID string) (*usermodel.User, error) {
	return s.getUser(ctx, QueryGetUserByID, userID)
}

// GetUserByUsername retrieves a user by username.
func (s *UserStore) GetUserByUsername(ctx context.Context, username string) (*usermodel.User, error) {
	return s.getUser(ctx, QueryGetUserByUsername, username)
}

// GetUserByExternalID retrieves a user by federated external id.
func (s *UserStore) GetUserByExternalID(ctx context.Context, externalID string) (*usermodel.User, error) {
	return s.getUser(ctx, QueryGetUserByExternalID, externalID)
}

// CreateUser creates a user.
func (s *UserStore) CreateUser(ctx context.Context, user usermodel.User) error {
	dbClient, err := s.DBProvider.GetDBClient(provider.IdentityDB)
	if err != nil {
		return fmt.Errorf("failed to get database client: %w", err)
	}

	_, err = dbClient.Execute(ctx, QueryInsertUser, user.ID, nullIfEmpty(user.Username),
		user.PasswordHash, nullIfEmpty(user.ExternalID))
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// CreateFederatedUser inserts a federated user, ignoring a concurrent insert for the same external id.
func (s *UserStore) CreateFederatedUser(ctx context.Context, user usermodel.User) (bool, error) {
	dbClient, err := s.DBProvider.GetDBClient(provider.IdentityDB)
	if err != nil {
		return false, fmt.Errorf("failed to get database client: %w", err)
	}

	rows, err := dbClient.Execute(ctx, QueryInsertFederatedUser, user.ID, nullIfEmpty(user.Username),
		user.PasswordHash, user.ExternalID)
	if err != nil {
		return false, fmt.Errorf("failed to insert federated user: %w", err)
	}
	return rows == 1, nil
}

func (s *UserStore) getUser(ctx context.Context, query model.DBQuery, arg string) (*usermodel.User, error) {
	dbClient, err := s.DBProvider.GetDBClient(provider.IdentityDB)
	if err != nil {
		return nil, fmt.Errorf("failed to get database client: %w", err)
	}

	results, err := dbClient.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query %s: %w", query.GetID(), err)
	}
	if len(results) == 0 {
		return nil, constants.ErrUserNotFound
	}
	if len(results) > 1 {
		return nil, fmt.Errorf("unexpected number of results for query %s: %d", query.GetID(), len(results))
	}

	row := results[0]
	return &usermodel.User{
		ID:           utils.GetString(row, "user_id"),
		Username:     utils.GetString(row, "username"),
		PasswordHash: utils.GetString(row, "password_hash"),
		ExternalID:   utils.GetString(row, "external_id"),
	}, nil
}

// nullIfEmpty maps an empty optional column to NULL so unique indexes ignore it.
func nullIfEmpty(value string) interface{} {
	if value == "" {
		return nil
	}
	return value
}

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

// Package store provides functionality for handling authorization code persistence and retrieval.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/authz/constants"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/authz/model"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/crypto/hash"
	dbmodel "github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/database/model"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/database/provider"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/log"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/utils"
)

const loggerComponentName = "AuthorizationCodeStore"

// AuthorizationCodeStoreInterface defines the interface for managing authorization codes.
type AuthorizationCodeStoreInterface interface {
	InsertAuthorizationCode(ctx context.Context, authzCode model.AuthorizationCode) error
	GetAuthorizationCode(ctx context.Context, code string) (model.AuthorizationCode, error)
	// ConsumeAuthorizationCode marks an active code inactive. It returns false when the code was
	// not active, which means another redemption won, or when it had expired by now.
	ConsumeAuthorizationCode(ctx context.Context, codeID string, now time.Time) (bool, error)
	// RestoreAuthorizationCode returns a consumed code that has not expired by now to active.
	RestoreAuthorizationCode(ctx context.Context, codeID string, now time.Time) (bool, error)
	ExpireAuthorizationCode(ctx context.Context, codeID string) error
}

// AuthorizationCodeStore implements the AuthorizationCodeStoreInterface for managing authorization codes.
type AuthorizationCodeStore struct {
	DBProvider provider.DBProviderInterface
}

// NewAuthorizationCodeStore creates a new instance of AuthorizationCodeStore.
func NewAuthorizationCodeStore(dbProvider provider.DBProviderInterface) AuthorizationCodeStoreInterface {
	return &AuthorizationCodeStore{
		DBProvider: dbProvider,
	}
}

// InsertAuthorizationCode inserts a new authorization code into the database.
// Only the hash of the code value is stored.
func (acs *AuthorizationCodeStore) InsertAuthorizationCode(ctx context.Context,
	authzCode model.AuthorizationCode) error {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	dbClient, err := acs.DBProvider.GetDBClient(provider.RuntimeDB)
	if err != nil {
		logger.Error("Failed to get database client", log.Error(err))
		return err
	}

	tx, err := dbClient.BeginTx(ctx)
	if err != nil {
		logger.Error("Failed to begin transaction", log.Error(err))
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	// Insert authorization code.
	_, err = tx.Execute(ctx, constants.QueryInsertAuthorizationCode, authzCode.CodeID,
		hash.HashString(authzCode.Code), authzCode.ClientID, authzCode.RedirectURI, authzCode.AuthorizedUserID,
		authzCode.TimeCreated.Unix(), authzCode.ExpiryTime.Unix(), authzCode.CodeChallenge,
		authzCode.CodeChallengeMethod, authzCode.State)
	if err != nil {
		logger.Error("Failed to insert authorization code", log.Error(err))
		return rollback(tx, logger, fmt.Errorf("failed to insert authorization code: %w", err))
	}

	// Insert auth code scopes.
	for _, scope := range authzCode.Scopes {
		if _, err = tx.Execute(ctx, constants.QueryInsertAuthorizationCodeScopes, authzCode.CodeID, scope); err != nil {
			logger.Error("Failed to insert authorization code scopes", log.Error(err))
			return rollback(tx, logger, fmt.Errorf("failed to insert authorization code scopes: %w", err))
		}
	}

	if err = tx.Commit(); err != nil {
		logger.Error("Failed to commit transaction", log.Error(err))
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetAuthorizationCode retrieves an authorization code by its plain value.
func (acs *AuthorizationCodeStore) GetAuthorizationCode(ctx context.Context,
	code string) (model.AuthorizationCode, error) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	dbClient, err := acs.DBProvider.GetDBClient(provider.RuntimeDB)
	if err != nil {
		logger.Error("Failed to get database client", log.Error(err))
		return model.AuthorizationCode{}, err
	}

	results, err := dbClient.Query(ctx, constants.QueryGetAuthorizationCode, hash.HashString(code))
	if err != nil {
		return model.AuthorizationCode{}, fmt.Errorf("error while retrieving authorization code: %w", err)
	}
	if len(results) == 0 {
		return model.AuthorizationCode{}, constants.ErrAuthorizationCodeNotFound
	}
	row := results[0]

	codeID := utils.GetString(row, "code_id")
	if codeID == "" {
		return model.AuthorizationCode{}, constants.ErrAuthorizationCodeNotFound
	}

	timeCreated, err := utils.ParseTimeField(row["time_created"], "time_created")
	if err != nil {
		logger.Error("Error parsing time field", log.String("field", "time_created"), log.Error(err))
		return model.AuthorizationCode{}, err
	}
	expiryTime, err := utils.ParseTimeField(row["expiry_time"], "expiry_time")
	if err != nil {
		logger.Error("Error parsing time field", log.String("field", "expiry_time"), log.Error(err))
		return model.AuthorizationCode{}, err
	}

	// Retrieve authorized scopes for the authorization code.
	scopeResults, err := dbClient.Query(ctx, constants.QueryGetAuthorizationCodeScopes, codeID)
	if err != nil {
		return model.AuthorizationCode{}, fmt.Errorf("error while retrieving authorized scopes: %w", err)
	}
	scopes := make([]string, 0, len(scopeResults))
	for _, scopeRow := range scopeResults {
		if scope := utils.GetString(scopeRow, "scope"); scope != "" {
			scopes = append(scopes, scope)
		}
	}

	return model.AuthorizationCode{
		CodeID:              codeID,
		ClientID:            utils.GetString(row, "consumer_key"),
		RedirectURI:         utils.GetString(row, "callback_url"),
		AuthorizedUserID:    utils.GetString(row, "authz_user"),
		TimeCreated:         timeCreated,
		ExpiryTime:          expiryTime,
		Scopes:              scopes,
		CodeChallenge:       utils.GetString(row, "code_challenge"),
		CodeChallengeMethod: utils.GetString(row, "code_challenge_method"),
		State:               utils.GetString(row, "state"),
	}, nil
}

// ConsumeAuthorizationCode deactivates an active, unexpired authorization code with a conditional update.
func (acs *AuthorizationCodeStore) ConsumeAuthorizationCode(ctx context.Context, codeID string,
	now time.Time) (bool, error) {
	return acs.transition(ctx, constants.QueryTransitionUnexpiredAuthorizationCodeState,
		constants.AuthCodeStateInactive, codeID, constants.AuthCodeStateActive, now.Unix())
}

// RestoreAuthorizationCode reactivates a consumed, unexpired authorization code.
func (acs *AuthorizationCodeStore) RestoreAuthorizationCode(ctx context.Context, codeID string,
	now time.Time) (bool, error) {
	return acs.transition(ctx, constants.QueryTransitionUnexpiredAuthorizationCodeState,
		constants.AuthCodeStateActive, codeID, constants.AuthCodeStateInactive, now.Unix())
}

// ExpireAuthorizationCode expires an active authorization code.
func (acs *AuthorizationCodeStore) ExpireAuthorizationCode(ctx context.Context, codeID string) error {
	_, err := acs.transition(ctx, constants.QueryTransitionAuthorizationCodeState,
		constants.AuthCodeStateExpired, codeID, constants.AuthCodeStateActive)
	return err
}

func (acs *AuthorizationCodeStore) transition(ctx context.Context, query dbmodel.DBQuery,
	args ...interface{}) (bool, error) {
	dbClient, err := acs.DBProvider.GetDBClient(provider.RuntimeDB)
	if err != nil {
		return false, fmt.Errorf("failed to get database client: %w", err)
	}

	rows, err := dbClient.Execute(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to update authorization code state: %w", err)
	}
	return rows == 1, nil
}

type rollbacker interface {
	Rollback() error
}

func rollback(tx rollbacker, logger *log.Logger, cause error) error {
	if rollbackErr := tx.Rollback(); rollbackErr != nil {
		logger.Error("Failed to rollback transaction", log.Error(rollbackErr))
		return errors.Join(cause, fmt.Errorf("failed to rollback transaction: %w", rollbackErr))
	}
	return cause
}

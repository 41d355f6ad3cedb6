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

// Package store provides the persistence of issued access and refresh tokens.
package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/constants"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/model"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/crypto/hash"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/database/provider"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/utils"
)

// TokenStoreInterface defines the persistence of tokens. Token values are only ever handled as hashes.
type TokenStoreInterface interface {
	// UpsertToken stores the token keyed by its value.
	UpsertToken(ctx context.Context, token *model.Token) error
	// GetToken returns the token of the given kind with the value, or ErrTokenNotFound.
	GetToken(ctx context.Context, value string, kind constants.TokenKind) (*model.Token, error)
	// RevokeToken revokes the token with the value. It returns false if there was nothing to revoke.
	RevokeToken(ctx context.Context, value string) (bool, error)
	// RevokeAccessTokensByRefreshToken revokes the active access tokens issued with the refresh token.
	RevokeAccessTokensByRefreshToken(ctx context.Context, refreshTokenValue string) (int64, error)
	// ConsumeRefreshToken deactivates an active refresh token. Only one caller can win.
	ConsumeRefreshToken(ctx context.Context, value string) (bool, error)
}

// TokenStore is the SQL implementation of TokenStoreInterface.
type TokenStore struct {
	DBProvider provider.DBProviderInterface
}

// NewTokenStore creates a new instance of TokenStore.
func NewTokenStore(dbProvider provider.DBProviderInterface) TokenStoreInterface {
	return &TokenStore{
		DBProvider: dbProvider,
	}
}

// UpsertToken inserts the token or rebinds the existing record with the same value.
func (s *TokenStore) UpsertToken(ctx context.Context, token *model.Token) error {
	dbClient, err := s.DBProvider.GetDBClient(provider.RuntimeDB)
	if err != nil {
		return fmt.Errorf("failed to get database client: %w", err)
	}

	refreshTokenHash := ""
	if token.RefreshToken != nil && token.RefreshToken.Value != "" {
		refreshTokenHash = hash.HashString(token.RefreshToken.Value)
	}
	if token.ID == "" {
		token.ID = utils.GenerateUUID()
	}

	_, err = dbClient.Execute(ctx, QueryUpsertToken, token.ID, hash.HashString(token.Value), string(token.Kind),
		token.ClientID, nullIfEmpty(token.UserID), strings.Join(token.Scopes, " "), token.GrantType,
		token.IssuedAt.Unix(), token.ExpiresAt.Unix(), nullIfEmpty(refreshTokenHash), constants.TokenStateActive)
	if err != nil {
		return fmt.Errorf("failed to upsert token: %w", err)
	}
	return nil
}

// GetToken retrieves a token by its value and kind.
func (s *TokenStore) GetToken(ctx context.Context, value string,
	kind constants.TokenKind) (*model.Token, error) {
	dbClient, err := s.DBProvider.GetDBClient(provider.RuntimeDB)
	if err != nil {
		return nil, fmt.Errorf("failed to get database client: %w", err)
	}

	results, err := dbClient.Query(ctx, QueryGetToken, hash.HashString(value), string(kind))
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve token: %w", err)
	}
	if len(results) == 0 {
		return nil, constants.ErrTokenNotFound
	}
	row := results[0]

	issuedAt, err := utils.ParseTimeField(row["issued_at"], "issued_at")
	if err != nil {
		return nil, err
	}
	expiresAt, err := utils.ParseTimeField(row["expiry_time"], "expiry_time")
	if err != nil {
		return nil, err
	}

	return &model.Token{
		ID:        utils.GetString(row, "token_id"),
		Value:     value,
		Kind:      constants.TokenKind(utils.GetString(row, "token_kind")),
		ClientID:  utils.GetString(row, "client_id"),
		UserID:    utils.GetString(row, "user_id"),
		Scopes:    utils.ParseStringArray(row["scopes"], " "),
		GrantType: utils.GetString(row, "grant_type"),
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
		Revoked:   utils.GetString(row, "state") != constants.TokenStateActive,
	}, nil
}

// RevokeToken marks the token revoked.
func (s *TokenStore) RevokeToken(ctx context.Context, value string) (bool, error) {
	dbClient, err := s.DBProvider.GetDBClient(provider.RuntimeDB)
	if err != nil {
		return false, fmt.Errorf("failed to get database client: %w", err)
	}

	rows, err := dbClient.Execute(ctx, QueryRevokeToken, constants.TokenStateRevoked, hash.HashString(value),
		constants.TokenStateRevoked)
	if err != nil {
		return false, fmt.Errorf("failed to revoke token: %w", err)
	}
	return rows > 0, nil
}

// RevokeAccessTokensByRefreshToken revokes the access tokens that reference the refresh token.
func (s *TokenStore) RevokeAccessTokensByRefreshToken(ctx context.Context,
	refreshTokenValue string) (int64, error) {
	dbClient, err := s.DBProvider.GetDBClient(provider.RuntimeDB)
	if err != nil {
		return 0, fmt.Errorf("failed to get database client: %w", err)
	}

	rows, err := dbClient.Execute(ctx, QueryRevokeAccessTokensByRefreshToken, constants.TokenStateRevoked,
		hash.HashString(refreshTokenValue), string(constants.TokenKindAccess), constants.TokenStateActive)
	if err != nil {
		return 0, fmt.Errorf("failed to revoke access tokens: %w", err)
	}
	return rows, nil
}

// ConsumeRefreshToken deactivates the refresh token with a conditional update.
func (s *TokenStore) ConsumeRefreshToken(ctx context.Context, value string) (bool, error) {
	dbClient, err := s.DBProvider.GetDBClient(provider.RuntimeDB)
	if err != nil {
		return false, fmt.Errorf("failed to get database client: %w", err)
	}

	rows, err := dbClient.Execute(ctx, QueryTransitionTokenState, constants.TokenStateInactive,
		hash.HashString(value), string(constants.TokenKindRefresh), constants.TokenStateActive)
	if err != nil {
		return false, fmt.Errorf("failed to consume refresh token: %w", err)
	}
	return rows == 1, nil
}

func nullIfEmpty(value string) interface{} {
	if value == "" {
		return nil
	}
	return value
}

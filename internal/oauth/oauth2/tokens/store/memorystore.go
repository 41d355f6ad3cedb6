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

package store

import (
	"context"
	"slices"
	"sync"

	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/constants"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/model"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/crypto/hash"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/utils"
)

type tokenRecord struct {
	token            model.Token
	refreshTokenHash string
	state            string
}

// MemoryTokenStore keeps tokens in process memory keyed by the hash of their value.
type MemoryTokenStore struct {
	mu     sync.Mutex
	tokens map[string]*tokenRecord
}

// NewMemoryTokenStore creates an empty in-memory token store.
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{
		tokens: make(map[string]*tokenRecord),
	}
}

// UpsertToken stores the token, keeping the state of an existing record.
func (s *MemoryTokenStore) UpsertToken(_ context.Context, token *model.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token.ID == "" {
		token.ID = utils.GenerateUUID()
	}
	stored := *token
	stored.Value = ""
	stored.RefreshToken = nil
	stored.Scopes = slices.Clone(token.Scopes)

	refreshTokenHash := ""
	if token.RefreshToken != nil && token.RefreshToken.Value != "" {
		refreshTokenHash = hash.HashString(token.RefreshToken.Value)
	}

	key := hash.HashString(token.Value)
	if existing, ok := s.tokens[key]; ok {
		stored.ID = existing.token.ID
		existing.token = stored
		existing.refreshTokenHash = refreshTokenHash
		return nil
	}
	s.tokens[key] = &tokenRecord{
		token:            stored,
		refreshTokenHash: refreshTokenHash,
		state:            constants.TokenStateActive,
	}
	return nil
}

// GetToken returns the token of the given kind with the value.
func (s *MemoryTokenStore) GetToken(_ context.Context, value string,
	kind constants.TokenKind) (*model.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.tokens[hash.HashString(value)]
	if !ok || record.token.Kind != kind {
		return nil, constants.ErrTokenNotFound
	}
	token := record.token
	token.Value = value
	token.Scopes = slices.Clone(record.token.Scopes)
	token.Revoked = record.state != constants.TokenStateActive
	return &token, nil
}

// RevokeToken marks the token revoked.
func (s *MemoryTokenStore) RevokeToken(_ context.Context, value string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.tokens[hash.HashString(value)]
	if !ok || record.state == constants.TokenStateRevoked {
		return false, nil
	}
	record.state = constants.TokenStateRevoked
	return true, nil
}

// RevokeAccessTokensByRefreshToken revokes the active access tokens that reference the refresh token.
func (s *MemoryTokenStore) RevokeAccessTokensByRefreshToken(_ context.Context,
	refreshTokenValue string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	refreshTokenHash := hash.HashString(refreshTokenValue)
	var revoked int64
	for _, record := range s.tokens {
		if record.token.Kind == constants.TokenKindAccess && record.refreshTokenHash == refreshTokenHash &&
			record.state == constants.TokenStateActive {
			record.state = constants.TokenStateRevoked
			revoked++
		}
	}
	return revoked, nil
}

// ConsumeRefreshToken deactivates an active refresh token.
func (s *MemoryTokenStore) ConsumeRefreshToken(_ context.Context, value string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.tokens[hash.HashString(value)]
	if !ok || record.token.Kind != constants.TokenKindRefresh || record.state != constants.TokenStateActive {
		return false, nil
	}
	record.state = constants.TokenStateInactive
	return true, nil
}

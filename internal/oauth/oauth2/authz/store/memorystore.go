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
	"time"

	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/authz/constants"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/authz/model"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/crypto/hash"
)

// MemoryAuthorizationCodeStore keeps authorization codes in process memory.
type MemoryAuthorizationCodeStore struct {
	mu     sync.Mutex
	codes  map[string]model.AuthorizationCode
	byHash map[string]string
}

// NewMemoryAuthorizationCodeStore creates an empty in-memory authorization code store.
func NewMemoryAuthorizationCodeStore() *MemoryAuthorizationCodeStore {
	return &MemoryAuthorizationCodeStore{
		codes:  make(map[string]model.AuthorizationCode),
		byHash: make(map[string]string),
	}
}

// InsertAuthorizationCode stores the code keyed by the hash of its value.
func (s *MemoryAuthorizationCodeStore) InsertAuthorizationCode(_ context.Context,
	authzCode model.AuthorizationCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	authzCode.Scopes = slices.Clone(authzCode.Scopes)
	codeHash := hash.HashString(authzCode.Code)
	authzCode.Code = ""
	s.codes[authzCode.CodeID] = authzCode
	s.byHash[codeHash] = authzCode.CodeID
	return nil
}

// GetAuthorizationCode retrieves a code by its plain value.
func (s *MemoryAuthorizationCodeStore) GetAuthorizationCode(_ context.Context,
	code string) (model.AuthorizationCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	codeID, ok := s.byHash[hash.HashString(code)]
	if !ok {
		return model.AuthorizationCode{}, constants.ErrAuthorizationCodeNotFound
	}
	authzCode := s.codes[codeID]
	authzCode.Scopes = slices.Clone(authzCode.Scopes)
	return authzCode, nil
}

// ConsumeAuthorizationCode marks the code inactive if it is still active and unexpired at now.
func (s *MemoryAuthorizationCodeStore) ConsumeAuthorizationCode(_ context.Context, codeID string,
	now time.Time) (bool, error) {
	return s.transition(codeID, constants.AuthCodeStateActive, constants.AuthCodeStateInactive, now), nil
}

// RestoreAuthorizationCode marks a consumed code active again if it is unexpired at now.
func (s *MemoryAuthorizationCodeStore) RestoreAuthorizationCode(_ context.Context, codeID string,
	now time.Time) (bool, error) {
	return s.transition(codeID, constants.AuthCodeStateInactive, constants.AuthCodeStateActive, now), nil
}

// ExpireAuthorizationCode marks the code expired if it is still active.
func (s *MemoryAuthorizationCodeStore) ExpireAuthorizationCode(_ context.Context, codeID string) error {
	s.transition(codeID, constants.AuthCodeStateActive, constants.AuthCodeStateExpired, time.Time{})
	return nil
}

// transition moves the code from one state to another. A non-zero now also requires the code to be
// unexpired at that instant.
func (s *MemoryAuthorizationCodeStore) transition(codeID, fromState, toState string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	authzCode, ok := s.codes[codeID]
	if !ok || authzCode.State != fromState {
		return false
	}
	if !now.IsZero() && authzCode.IsExpired(now) {
		return false
	}
	authzCode.State = toState
	s.codes[codeID] = authzCode
	return true
}

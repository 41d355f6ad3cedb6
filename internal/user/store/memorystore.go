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
	"sync"

	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/user/constants"
	usermodel "github.com/JonasVannieuwenhuijsen/oauth2-server/internal/user/model"
)

// MemoryUserStore keeps users in process memory.
type MemoryUserStore struct {
	mu           sync.RWMutex
	users        map[string]usermodel.User
	byUsername   map[string]string
	byExternalID map[string]string
}

// NewMemoryUserStore creates an empty in-memory user store.
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		users:        make(map[string]usermodel.User),
		byUsername:   make(map[string]string),
		byExternalID: make(map[string]string),
	}
}

// GetUser retrieves a user by id.
func (s *MemoryUserStore) GetUser(_ context.Context, userID string) (*usermodel.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lookup(userID)
}

// GetUserByUsername retrieves a user by username.
func (s *MemoryUserStore) GetUserByUsername(_ context.Context, username string) (*usermodel.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byUsername[username]
	if !ok {
		return nil, constants.ErrUserNotFound
	}
	return s.lookup(id)
}

// GetUserByExternalID retrieves a user by federated external id.
func (s *MemoryUserStore) GetUserByExternalID(_ context.Context, externalID string) (*usermodel.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byExternalID[externalID]
	if !ok {
		return nil, constants.ErrUserNotFound
	}
	return s.lookup(id)
}

// CreateUser creates a user.
func (s *MemoryUserStore) CreateUser(_ context.Context, user usermodel.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conflicts(user) {
		return constants.ErrUserAlreadyExists
	}
	s.insert(user)
	return nil
}

// CreateFederatedUser inserts the user unless a user with the same external id exists.
func (s *MemoryUserStore) CreateFederatedUser(_ context.Context, user usermodel.User) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byExternalID[user.ExternalID]; exists {
		return false, nil
	}
	if s.conflicts(user) {
		return false, constants.ErrUserAlreadyExists
	}
	s.insert(user)
	return true, nil
}

func (s *MemoryUserStore) lookup(id string) (*usermodel.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, constants.ErrUserNotFound
	}
	return &user, nil
}

func (s *MemoryUserStore) conflicts(user usermodel.User) bool {
	if _, exists := s.users[user.ID]; exists {
		return true
	}
	if user.Username != "" {
		if _, exists := s.byUsername[user.Username]; exists {
			return true
		}
	}
	if user.ExternalID != "" {
		if _, exists := s.byExternalID[user.ExternalID]; exists {
			return true
		}
	}
	return false
}

func (s *MemoryUserStore) insert(user usermodel.User) {
	s.users[user.ID] = user
	if user.Username != "" {
		s.byUsername[user.Username] = user.ID
	}
	if user.ExternalID != "" {
		s.byExternalID[user.ExternalID] = user.ID
	}
}

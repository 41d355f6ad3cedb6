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

	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/client/constants"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/client/model"
)

// MemoryClientStore keeps clients in process memory.
type MemoryClientStore struct {
	mu      sync.RWMutex
	clients map[string]model.Client
}

// NewMemoryClientStore creates an empty in-memory client store.
func NewMemoryClientStore() *MemoryClientStore {
	return &MemoryClientStore{
		clients: make(map[string]model.Client),
	}
}

// GetClient retrieves a client by its id.
func (s *MemoryClientStore) GetClient(_ context.Context, clientID string) (*model.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	client, ok := s.clients[clientID]
	if !ok {
		return nil, constants.ErrClientNotFound
	}
	return cloneClient(client), nil
}

// CreateClient registers a new client.
func (s *MemoryClientStore) CreateClient(_ context.Context, client model.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.clients[client.ID]; exists {
		return constants.ErrClientAlreadyExists
	}
	s.clients[client.ID] = *cloneClient(client)
	return nil
}

func cloneClient(c model.Client) *model.Client {
	c.RedirectURIs = append([]string(nil), c.RedirectURIs...)
	c.Scopes = append([]string(nil), c.Scopes...)
	c.GrantTypes = append([]string(nil), c.GrantTypes...)
	return &c
}

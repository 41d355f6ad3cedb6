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
	"time"

	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/client/model"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/cache"
)

const (
	clientCacheName     = "ClientByIDCache"
	clientCacheTTL      = 5 * time.Minute
	clientCacheCapacity = 1000
)

// CachedBackedClientStore is the implementation of ClientStoreInterface that uses caching.
type CachedBackedClientStore struct {
	ClientByIDCache cache.CacheInterface[*model.Client]
	Store           ClientStoreInterface
}

// NewCachedBackedClientStore wraps the given store with a client cache.
func NewCachedBackedClientStore(store ClientStoreInterface) ClientStoreInterface {
	return &CachedBackedClientStore{
		ClientByIDCache: cache.NewCache[*model.Client](clientCacheName, clientCacheTTL, clientCacheCapacity),
		Store:           store,
	}
}

// GetClient retrieves a client by id, using the cache if available.
func (s *CachedBackedClientStore) GetClient(ctx context.Context, clientID string) (*model.Client, error) {
	cacheKey := cache.CacheKey{Key: clientID}
	if cached, ok := s.ClientByIDCache.Get(cacheKey); ok {
		return cloneClient(*cached), nil
	}

	client, err := s.Store.GetClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	s.ClientByIDCache.Set(cacheKey, cloneClient(*client))
	return client, nil
}

// CreateClient registers a new client and caches it.
func (s *CachedBackedClientStore) CreateClient(ctx context.Context, client model.Client) error {
	if err := s.Store.CreateClient(ctx, client); err != nil {
		return err
	}
	s.ClientByIDCache.Set(cache.CacheKey{Key: client.ID}, cloneClient(client))
	return nil
}

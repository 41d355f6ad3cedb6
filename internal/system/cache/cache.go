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

// Package cache provides named in-memory caches with per entry expiry.
package cache

import (
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/log"
)

// CacheKey represents a key for the cache.
type CacheKey struct {
	Key string
}

// ToString returns the string representation of the CacheKey.
func (key CacheKey) ToString() string {
	return key.Key
}

// CacheStat represents cache statistics.
type CacheStat struct {
	Size       int
	HitCount   uint64
	MissCount  uint64
	EvictCount uint64
}

// CacheInterface defines the common interface for cache operations.
type CacheInterface[T any] interface {
	GetName() string
	Set(key CacheKey, value T)
	SetWithTTL(key CacheKey, value T, ttl time.Duration)
	Get(key CacheKey) (T, bool)
	Take(key CacheKey) (T, bool)
	Delete(key CacheKey)
	Clear()
	GetStats() CacheStat
	Close()
}

// Cache implements the CacheInterface on top of a ttlcache instance.
type Cache[T any] struct {
	cacheName string
	internal  *ttlcache.Cache[string, T]
	takeMu    sync.Mutex
}

// NewCache creates a new cache with the given default TTL and capacity.
// A capacity of zero means the cache is unbounded. Expired entries are evicted in the background
// until Close is called.
func NewCache[T any](cacheName string, ttl time.Duration, capacity uint64) CacheInterface[T] {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "Cache"),
		log.String("cacheName", cacheName))
	logger.Debug("Initializing the cache", log.Any("ttl", ttl), log.Any("capacity", capacity))

	opts := []ttlcache.Option[string, T]{
		ttlcache.WithTTL[string, T](ttl),
		ttlcache.WithDisableTouchOnHit[string, T](),
	}
	if capacity > 0 {
		opts = append(opts, ttlcache.WithCapacity[string, T](capacity))
	}

	c := &Cache[T]{
		cacheName: cacheName,
		internal:  ttlcache.New[string, T](opts...),
	}
	go c.internal.Start()

	return c
}

// GetName returns the name of the cache.
func (c *Cache[T]) GetName() string {
	return c.cacheName
}

// Set stores a value in the cache with the default TTL.
func (c *Cache[T]) Set(key CacheKey, value T) {
	c.internal.Set(key.ToString(), value, ttlcache.DefaultTTL)
}

// SetWithTTL stores a value in the cache with a custom TTL.
func (c *Cache[T]) SetWithTTL(key CacheKey, value T, ttl time.Duration) {
	c.internal.Set(key.ToString(), value, ttl)
}

// Get retrieves an unexpired value from the cache.
func (c *Cache[T]) Get(key CacheKey) (T, bool) {
	item := c.internal.Get(key.ToString())
	if item == nil {
		var zero T
		return zero, false
	}
	return item.Value(), true
}

// Take retrieves and removes a value in one step. Of concurrent callers taking the same key
// at most one observes the value.
func (c *Cache[T]) Take(key CacheKey) (T, bool) {
	c.takeMu.Lock()
	defer c.takeMu.Unlock()

	value, ok := c.Get(key)
	if !ok {
		return value, false
	}
	c.internal.Delete(key.ToString())
	return value, true
}

// Delete removes a value from the cache.
func (c *Cache[T]) Delete(key CacheKey) {
	c.internal.Delete(key.ToString())
}

// Clear removes all entries from the cache.
func (c *Cache[T]) Clear() {
	c.internal.DeleteAll()
}

// GetStats returns the statistics of the cache.
func (c *Cache[T]) GetStats() CacheStat {
	metrics := c.internal.Metrics()
	return CacheStat{
		Size:       c.internal.Len(),
		HitCount:   metrics.Hits,
		MissCount:  metrics.Misses,
		EvictCount: metrics.Evictions,
	}
}

// Close stops the background eviction of expired entries.
func (c *Cache[T]) Close() {
	c.internal.Stop()
}

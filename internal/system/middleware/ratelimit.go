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

// Package middleware provides HTTP middleware shared by the server endpoints.
package middleware

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"golang.org/x/time/rate"

	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/log"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/utils"
)

const (
	defaultMaxEntries = 10000
	defaultIdleTime   = 30 * time.Minute
)

// RateLimiter applies a token bucket per caller. A caller is the client id from basic
// authentication or the remote host otherwise. Idle and least recently used buckets are evicted.
type RateLimiter struct {
	mu       sync.Mutex
	limiters *ttlcache.Cache[string, *rate.Limiter]
	limit    rate.Limit
	burst    int
	logger   *log.Logger
}

// NewRateLimiter creates a rate limiter allowing requestsPerSecond with the given burst.
func NewRateLimiter(requestsPerSecond float64, burst int) *RateLimiter {
	return NewRateLimiterWithConfig(requestsPerSecond, burst, defaultMaxEntries, defaultIdleTime)
}

// NewRateLimiterWithConfig creates a rate limiter with a custom bound on tracked callers.
func NewRateLimiterWithConfig(requestsPerSecond float64, burst int, maxEntries uint64,
	idleTime time.Duration) *RateLimiter {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "RateLimiter"))
	if burst <= 0 {
		burst = 1
	}

	limiters := ttlcache.New[string, *rate.Limiter](
		ttlcache.WithTTL[string, *rate.Limiter](idleTime),
		ttlcache.WithCapacity[string, *rate.Limiter](maxEntries),
	)
	limiters.OnEviction(func(_ context.Context, reason ttlcache.EvictionReason,
		item *ttlcache.Item[string, *rate.Limiter]) {
		if reason == ttlcache.EvictionReasonCapacityReached {
			logger.Debug("Rate limiter capacity eviction", log.String("identifier", item.Key()))
		}
	})
	go limiters.Start()

	return &RateLimiter{
		limiters: limiters,
		limit:    rate.Limit(requestsPerSecond),
		burst:    burst,
		logger:   logger,
	}
}

// Allow reports whether a request from the identifier may proceed.
func (rl *RateLimiter) Allow(identifier string) bool {
	return rl.limiterFor(identifier).Allow()
}

// limiterFor returns the caller's limiter, creating it on first use. The lock keeps two
// concurrent first requests from each installing a fresh bucket.
func (rl *RateLimiter) limiterFor(identifier string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if item := rl.limiters.Get(identifier); item != nil {
		return item.Value()
	}
	limiter := rate.NewLimiter(rl.limit, rl.burst)
	rl.limiters.Set(identifier, limiter, ttlcache.DefaultTTL)
	return limiter
}

// Size returns the number of callers currently tracked.
func (rl *RateLimiter) Size() int {
	return rl.limiters.Len()
}

// Stop stops the background eviction of idle callers.
func (rl *RateLimiter) Stop() {
	rl.limiters.Stop()
}

// Handler wraps next and rejects callers over their limit with 429.
func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identifier := callerIdentifier(r)
		if !rl.Allow(identifier) {
			rl.logger.Debug("Request rate limited", log.String("identifier", log.MaskString(identifier)))
			w.Header().Set("Retry-After", "1")
			utils.WriteJSONError(w, "slow_down", "Too many requests", http.StatusTooManyRequests, nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func callerIdentifier(r *http.Request) string {
	if clientID, _, err := utils.ExtractBasicAuthCredentials(r); err == nil && clientID != "" {
		return "client:" + clientID
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return "ip:" + r.RemoteAddr
	}
	return "ip:" + host
}

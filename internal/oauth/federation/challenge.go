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

package federation

import (
	"context"
	"errors"
	"time"

	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/pkce"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/cache"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/config"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/utils"
)

const (
	challengeCacheName     = "FederatedChallengeCache"
	challengeCacheCapacity = 10000
	challengeStateLength   = 24
)

// Challenge errors.
var (
	ErrChallengeNotFound   = errors.New("challenge not found or already used")
	ErrInvalidChallenge    = errors.New("invalid code challenge")
	ErrMissingChallengeArg = errors.New("client id and code challenge are required")
)

// Challenge is handed to the client when a federated sign in starts.
type Challenge struct {
	State     string `json:"state"`
	ExpiresIn int64  `json:"expires_in"`
}

// PendingChallenge is the PKCE challenge recorded for a federated sign in.
type PendingChallenge struct {
	ClientID            string
	CodeChallenge       string
	CodeChallengeMethod string
}

// ChallengeServiceInterface records PKCE challenges for federated sign ins.
type ChallengeServiceInterface interface {
	CreateChallenge(ctx context.Context, clientID, codeChallenge, method string) (*Challenge, error)
	// ConsumeChallenge returns the recorded challenge once. A state issued to another client is not found.
	ConsumeChallenge(ctx context.Context, clientID, state string) (*PendingChallenge, error)
	Close()
}

// ChallengeService keeps pending challenges in an expiring cache.
type ChallengeService struct {
	cache cache.CacheInterface[PendingChallenge]
}

// NewChallengeService creates a challenge service with its own cache.
func NewChallengeService() *ChallengeService {
	validity := challengeValidity()
	return &ChallengeService{
		cache: cache.NewCache[PendingChallenge](challengeCacheName, validity, challengeCacheCapacity),
	}
}

// CreateChallenge records the challenge under a fresh random state.
func (s *ChallengeService) CreateChallenge(_ context.Context, clientID, codeChallenge,
	method string) (*Challenge, error) {
	if clientID == "" || codeChallenge == "" {
		return nil, ErrMissingChallengeArg
	}
	strict := config.GetServerRuntime().Config.OAuth.PKCE.StrictVerifierFormat
	method = pkce.NormalizeMethod(method)
	if err := pkce.ValidateCodeChallenge(codeChallenge, method, pkce.WithStrictVerifierFormat(strict)); err != nil {
		return nil, errors.Join(ErrInvalidChallenge, err)
	}

	state, err := utils.GenerateSecureToken(challengeStateLength)
	if err != nil {
		return nil, err
	}

	validity := challengeValidity()
	s.cache.SetWithTTL(challengeKey(clientID, state), PendingChallenge{
		ClientID:            clientID,
		CodeChallenge:       codeChallenge,
		CodeChallengeMethod: method,
	}, validity)

	return &Challenge{State: state, ExpiresIn: int64(validity.Seconds())}, nil
}

// ConsumeChallenge removes and returns the challenge recorded for the client and state.
func (s *ChallengeService) ConsumeChallenge(_ context.Context, clientID, state string) (*PendingChallenge, error) {
	if clientID == "" || state == "" {
		return nil, ErrChallengeNotFound
	}
	pending, ok := s.cache.Take(challengeKey(clientID, state))
	if !ok {
		return nil, ErrChallengeNotFound
	}
	return &pending, nil
}

// Close stops the expiry loop of the cache.
func (s *ChallengeService) Close() {
	s.cache.Close()
}

func challengeKey(clientID, state string) cache.CacheKey {
	return cache.CacheKey{Key: clientID + "|" + state}
}

func challengeValidity() time.Duration {
	seconds := config.GetServerRuntime().Config.Integrations.Directory.ChallengeValidityPeriod
	if seconds <= 0 {
		seconds = 300
	}
	return time.Duration(seconds) * time.Second
}

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

// Package model defines the data structures for OAuth2 authorization codes.
package model

import (
	"time"

	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/authz/constants"
)

// AuthorizationCode represents the authorization code.
// Code holds the plain value only on the instance returned at issuance.
type AuthorizationCode struct {
	CodeID              string
	Code                string
	ClientID            string
	RedirectURI         string
	AuthorizedUserID    string
	TimeCreated         time.Time
	ExpiryTime          time.Time
	Scopes              []string
	CodeChallenge       string
	CodeChallengeMethod string
	State               string
}

// IsActive reports whether the code has not been consumed, expired or revoked.
func (c *AuthorizationCode) IsActive() bool {
	return c.State == constants.AuthCodeStateActive
}

// IsExpired reports whether the code has expired at the given time.
func (c *AuthorizationCode) IsExpired(now time.Time) bool {
	return !now.Before(c.ExpiryTime)
}

// HasChallenge reports whether a PKCE challenge was recorded at issuance.
func (c *AuthorizationCode) HasChallenge() bool {
	return c.CodeChallenge != ""
}

// PKCEParams carries the PKCE challenge supplied with an authorization request.
type PKCEParams struct {
	CodeChallenge       string
	CodeChallengeMethod string
}

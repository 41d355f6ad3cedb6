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

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientChecks(t *testing.T) {
	c := &Client{
		ID:           "client-a",
		HashedSecret: "hash",
		RedirectURIs: []string{"https://app/cb"},
		Scopes:       []string{"read", "write"},
		GrantTypes:   []string{"authorization_code", "refresh_token"},
	}

	assert.False(t, c.IsPublic())
	assert.True(t, c.IsAllowedGrantType("authorization_code"))
	assert.False(t, c.IsAllowedGrantType("password"))
	assert.False(t, c.IsAllowedGrantType(""))
	assert.True(t, c.IsAllowedRedirectURI("https://app/cb"))
	assert.False(t, c.IsAllowedRedirectURI("https://app/cb/"))
	assert.True(t, c.IsAllowedScope("write"))
	assert.False(t, c.IsAllowedScope("admin"))

	public := &Client{ID: "spa"}
	assert.True(t, public.IsPublic())
}

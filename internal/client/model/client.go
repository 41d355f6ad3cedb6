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

// Package model defines the data structures for registered OAuth clients.
package model

import "slices"

// Client represents a registered OAuth client.
// A client without a secret hash is a public client and authenticates with its id only.
type Client struct {
	ID           string   `json:"client_id"`
	HashedSecret string   `json:"-"`
	RedirectURIs []string `json:"redirect_uris"`
	Scopes       []string `json:"scopes"`
	GrantTypes   []string `json:"grant_types"`
	UserID       string   `json:"user_id,omitempty"`
}

// IsPublic reports whether the client has no secret.
func (c *Client) IsPublic() bool {
	return c.HashedSecret == ""
}

// IsAllowedGrantType checks if the client may use the grant type.
func (c *Client) IsAllowedGrantType(grantType string) bool {
	return grantType != "" && slices.Contains(c.GrantTypes, grantType)
}

// IsAllowedRedirectURI checks if the redirect URI is registered for the client. Matching is exact.
func (c *Client) IsAllowedRedirectURI(redirectURI string) bool {
	return redirectURI != "" && slices.Contains(c.RedirectURIs, redirectURI)
}

// IsAllowedScope checks if the scope is allowed for the client.
func (c *Client) IsAllowedScope(scope string) bool {
	return slices.Contains(c.Scopes, scope)
}

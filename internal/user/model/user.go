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

// Package model defines the data structures for users.
package model

// User represents a local principal. ExternalID links the user to a federated directory identity.
type User struct {
	ID           string `json:"id"`
	Username     string `json:"username,omitempty"`
	PasswordHash string `json:"-"`
	ExternalID   string `json:"external_id,omitempty"`
}

// IsFederated reports whether the user is linked to a directory identity.
func (u *User) IsFederated() bool {
	return u.ExternalID != ""
}

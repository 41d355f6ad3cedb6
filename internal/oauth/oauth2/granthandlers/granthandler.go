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

// Package granthandlers provides the handlers that authenticate the principal of each OAuth2 grant.
package granthandlers

import (
	"context"

	clientmodel "github.com/JonasVannieuwenhuijsen/oauth2-server/internal/client/model"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/model"
	usermodel "github.com/JonasVannieuwenhuijsen/oauth2-server/internal/user/model"
)

// GrantOutcome is what a grant handler established about the request. Handlers never mint tokens;
// the token service validates Scopes and issues the tokens from the outcome.
type GrantOutcome struct {
	// User is the authenticated principal. Nil when the client acts on its own behalf.
	User *usermodel.User
	// Scopes is the scope to grant on the access token.
	Scopes []string
	// RefreshScopes is the scope of a newly issued refresh token. Nil means Scopes.
	RefreshScopes []string
	// NoRefreshToken suppresses the refresh token for this grant.
	NoRefreshToken bool
	// RefreshToken is an existing refresh token to return instead of issuing a new one.
	RefreshToken *model.Token
	// Release gives back what HandleGrant spent, such as a redeemed authorization code, when the
	// tokens could not be issued. Nil when nothing can be given back.
	Release func(ctx context.Context) error
}

// GrantHandlerInterface defines the interface for handling OAuth 2.0 grants.
type GrantHandlerInterface interface {
	// ValidateGrant checks the grant specific parameters of the request.
	ValidateGrant(tokenRequest *model.TokenRequest, client *clientmodel.Client) *model.ErrorResponse
	// HandleGrant authenticates the principal of the grant and names the scope to grant.
	HandleGrant(ctx context.Context, tokenRequest *model.TokenRequest,
		client *clientmodel.Client) (*GrantOutcome, *model.ErrorResponse)
}

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

package granthandlers

import (
	"context"

	clientmodel "github.com/JonasVannieuwenhuijsen/oauth2-server/internal/client/model"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/authz"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/model"
	usermodel "github.com/JonasVannieuwenhuijsen/oauth2-server/internal/user/model"
)

// authorizationCodeGrantHandler handles the authorization code grant.
type authorizationCodeGrantHandler struct {
	codeManager authz.AuthorizationCodeManagerInterface
}

// NewAuthorizationCodeGrantHandler creates a new instance of the authorization code grant handler.
func NewAuthorizationCodeGrantHandler(codeManager authz.AuthorizationCodeManagerInterface) GrantHandlerInterface {
	return &authorizationCodeGrantHandler{
		codeManager: codeManager,
	}
}

// ValidateGrant validates the authorization code grant request.
func (h *authorizationCodeGrantHandler) ValidateGrant(tokenRequest *model.TokenRequest,
	_ *clientmodel.Client) *model.ErrorResponse {
	if tokenRequest.Code == "" {
		return model.NewInvalidRequestError("Authorization code is required")
	}
	if tokenRequest.RedirectURI == "" {
		return model.NewInvalidRequestError("Redirect URI is required")
	}
	return nil
}

// HandleGrant redeems the authorization code. The scope granted is the scope the code was issued
// with; a scope parameter on the token request is ignored.
func (h *authorizationCodeGrantHandler) HandleGrant(ctx context.Context, tokenRequest *model.TokenRequest,
	client *clientmodel.Client) (*GrantOutcome, *model.ErrorResponse) {
	code, errResp := h.codeManager.RedeemAuthorizationCode(ctx, tokenRequest.Code, client,
		tokenRequest.RedirectURI, tokenRequest.CodeVerifier)
	if errResp != nil {
		return nil, errResp
	}

	return &GrantOutcome{
		User:   &usermodel.User{ID: code.AuthorizedUserID},
		Scopes: code.Scopes,
		Release: func(ctx context.Context) error {
			return h.codeManager.ReleaseAuthorizationCode(ctx, code)
		},
	}, nil
}

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
	clientservice "github.com/JonasVannieuwenhuijsen/oauth2-server/internal/client/service"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/model"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/scope/validator"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/error/serviceerror"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/log"
)

// clientCredentialsGrantHandler handles the client credentials grant.
type clientCredentialsGrantHandler struct {
	clientService clientservice.ClientServiceInterface
}

// NewClientCredentialsGrantHandler creates a new instance of the client credentials grant handler.
func NewClientCredentialsGrantHandler(clientService clientservice.ClientServiceInterface) GrantHandlerInterface {
	return &clientCredentialsGrantHandler{
		clientService: clientService,
	}
}

// ValidateGrant validates the client credentials grant request. Public clients cannot use the grant.
func (h *clientCredentialsGrantHandler) ValidateGrant(_ *model.TokenRequest,
	client *clientmodel.Client) *model.ErrorResponse {
	if client.IsPublic() {
		return model.NewUnauthorizedClientError("Public clients cannot use the client credentials grant")
	}
	return nil
}

// HandleGrant resolves the user the client acts as. No refresh token is issued for this grant.
func (h *clientCredentialsGrantHandler) HandleGrant(ctx context.Context, tokenRequest *model.TokenRequest,
	client *clientmodel.Client) (*GrantOutcome, *model.ErrorResponse) {
	user, svcErr := h.clientService.GetUserForClient(ctx, client)
	if svcErr != nil {
		if svcErr.Type == serviceerror.ServerErrorType {
			log.GetLogger().Error("Failed to resolve the user of the client",
				log.String(log.LoggerKeyComponentName, "ClientCredentialsGrantHandler"),
				log.String(log.LoggerKeyClientID, client.ID), log.String("code", svcErr.Code))
			return nil, model.NewServerError()
		}
		return nil, model.NewGrantError("The client is bound to an unknown user")
	}

	return &GrantOutcome{
		User:           user,
		Scopes:         validator.ParseScopes(tokenRequest.Scope, nil),
		NoRefreshToken: true,
	}, nil
}

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
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/model"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/scope/validator"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/error/serviceerror"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/log"
	userservice "github.com/JonasVannieuwenhuijsen/oauth2-server/internal/user/service"
)

// passwordGrantHandler handles the resource owner password credentials grant.
type passwordGrantHandler struct {
	userVerifier userservice.UserVerifierInterface
}

// NewPasswordGrantHandler creates a new instance of the password grant handler.
func NewPasswordGrantHandler(userVerifier userservice.UserVerifierInterface) GrantHandlerInterface {
	return &passwordGrantHandler{
		userVerifier: userVerifier,
	}
}

// ValidateGrant validates the password grant request.
func (h *passwordGrantHandler) ValidateGrant(tokenRequest *model.TokenRequest,
	_ *clientmodel.Client) *model.ErrorResponse {
	if tokenRequest.Username == "" {
		return model.NewInvalidRequestError("Username is required")
	}
	if tokenRequest.Password == "" {
		return model.NewInvalidRequestError("Password is required")
	}
	return nil
}

// HandleGrant authenticates the resource owner with the user verifier.
func (h *passwordGrantHandler) HandleGrant(ctx context.Context, tokenRequest *model.TokenRequest,
	client *clientmodel.Client) (*GrantOutcome, *model.ErrorResponse) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "PasswordGrantHandler"))

	user, svcErr := h.userVerifier.VerifyUser(ctx, tokenRequest.Username, tokenRequest.Password)
	if svcErr != nil {
		if svcErr.Type == serviceerror.ServerErrorType {
			logger.Error("Failed to verify user credentials", log.String(log.LoggerKeyClientID, client.ID),
				log.String("code", svcErr.Code))
			return nil, model.NewServerError()
		}
		return nil, model.NewGrantError("Invalid resource owner credentials")
	}
	if user == nil {
		return nil, model.NewGrantError("Invalid resource owner credentials")
	}

	return &GrantOutcome{
		User:   user,
		Scopes: validator.ParseScopes(tokenRequest.Scope, nil),
	}, nil
}

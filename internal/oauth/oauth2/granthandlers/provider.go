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
	clientservice "github.com/JonasVannieuwenhuijsen/oauth2-server/internal/client/service"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/authz"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/constants"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/tokens/store"
	userservice "github.com/JonasVannieuwenhuijsen/oauth2-server/internal/user/service"
)

// NewBuiltInGrantHandlers returns the handlers of the grants the server always serves.
func NewBuiltInGrantHandlers(userVerifier userservice.UserVerifierInterface,
	codeManager authz.AuthorizationCodeManagerInterface, tokenStore store.TokenStoreInterface,
	clientService clientservice.ClientServiceInterface) map[constants.GrantType]GrantHandlerInterface {
	return map[constants.GrantType]GrantHandlerInterface{
		constants.GrantTypePassword:          NewPasswordGrantHandler(userVerifier),
		constants.GrantTypeAuthorizationCode: NewAuthorizationCodeGrantHandler(codeManager),
		constants.GrantTypeRefreshToken:      NewRefreshTokenGrantHandler(tokenStore),
		constants.GrantTypeClientCredentials: NewClientCredentialsGrantHandler(clientService),
	}
}

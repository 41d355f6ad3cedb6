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

package token

import (
	"net/http"

	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/constants"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/model"
	oauthutils "github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/utils"
	sysutils "github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/utils"
)

// knownParams are the token request parameters with a dedicated TokenRequest field.
var knownParams = map[string]struct{}{
	constants.RequestParamGrantType: {},
	constants.ClientID:              {},
	constants.ClientSecret:          {},
	constants.Scope:                 {},
	constants.Username:              {},
	constants.Password:              {},
	constants.RefreshToken:          {},
	constants.CodeVerifier:          {},
	constants.Code:                  {},
	constants.RedirectURI:           {},
	constants.Assertion:             {},
	constants.State:                 {},
}

// TokenHandler serves the OAuth2 token endpoint.
type TokenHandler struct {
	service TokenServiceInterface
}

// NewTokenHandler creates a new instance of TokenHandler.
func NewTokenHandler(service TokenServiceInterface) *TokenHandler {
	return &TokenHandler{
		service: service,
	}
}

// HandleTokenRequest handles the token request for OAuth 2.0.
func (th *TokenHandler) HandleTokenRequest(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		oauthutils.WriteErrorResponse(w, model.NewInvalidRequestError("Failed to parse request body"), false)
		return
	}

	creds, errResp := oauthutils.ExtractClientCredentials(r)
	if errResp != nil {
		oauthutils.WriteErrorResponse(w, errResp, creds.FromHeader)
		return
	}

	tokenRequest := &model.TokenRequest{
		GrantType:    r.PostFormValue(constants.RequestParamGrantType),
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		Scope:        r.PostFormValue(constants.Scope),
		Username:     r.PostFormValue(constants.Username),
		Password:     r.PostFormValue(constants.Password),
		RefreshToken: r.PostFormValue(constants.RefreshToken),
		CodeVerifier: r.PostFormValue(constants.CodeVerifier),
		Code:         r.PostFormValue(constants.Code),
		RedirectURI:  r.PostFormValue(constants.RedirectURI),
		Assertion:    r.PostFormValue(constants.Assertion),
		State:        r.PostFormValue(constants.State),
	}
	for key, values := range r.PostForm {
		if _, ok := knownParams[key]; ok || len(values) == 0 {
			continue
		}
		if tokenRequest.Extra == nil {
			tokenRequest.Extra = make(map[string]string)
		}
		tokenRequest.Extra[key] = values[0]
	}

	response, errResp := th.service.ProcessGrant(r.Context(), tokenRequest)
	if errResp != nil {
		oauthutils.WriteErrorResponse(w, errResp, creds.FromHeader)
		return
	}

	sysutils.WriteJSON(w, http.StatusOK, response.ToTokenResponse())
}

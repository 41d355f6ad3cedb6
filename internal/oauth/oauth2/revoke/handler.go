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

package revoke

import (
	"net/http"

	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/constants"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/model"
	oauthutils "github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/utils"
)

// RevocationHandler serves the OAuth2 revocation endpoint.
type RevocationHandler struct {
	service RevocationServiceInterface
}

// NewRevocationHandler creates a new instance of RevocationHandler.
func NewRevocationHandler(service RevocationServiceInterface) *RevocationHandler {
	return &RevocationHandler{
		service: service,
	}
}

// HandleRevokeRequest handles the revocation request. A successful revocation answers 200 with no body.
func (rh *RevocationHandler) HandleRevokeRequest(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		oauthutils.WriteErrorResponse(w, model.NewInvalidRequestError("Failed to parse request body"), false)
		return
	}

	creds, errResp := oauthutils.ExtractClientCredentials(r)
	if errResp != nil {
		oauthutils.WriteErrorResponse(w, errResp, creds.FromHeader)
		return
	}

	request := &model.RevocationRequest{
		Token:         r.PostFormValue(constants.Token),
		TokenTypeHint: r.PostFormValue(constants.TokenTypeHint),
		ClientID:      creds.ClientID,
		ClientSecret:  creds.ClientSecret,
	}
	if errResp := rh.service.RevokeToken(r.Context(), request); errResp != nil {
		oauthutils.WriteErrorResponse(w, errResp, creds.FromHeader)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
}

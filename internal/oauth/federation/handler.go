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

package federation

import (
	"errors"
	"net/http"

	clientservice "github.com/JonasVannieuwenhuijsen/oauth2-server/internal/client/service"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/constants"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/model"
	oauthutils "github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/utils"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/log"
	sysutils "github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/utils"
)

// ChallengeHandler serves the endpoint that starts a federated sign in.
type ChallengeHandler struct {
	challenges    ChallengeServiceInterface
	clientService clientservice.ClientServiceInterface
	grantType     string
}

// NewChallengeHandler creates a challenge handler for clients allowed the federated grant type.
func NewChallengeHandler(challenges ChallengeServiceInterface, clientService clientservice.ClientServiceInterface,
	grantType string) *ChallengeHandler {
	return &ChallengeHandler{
		challenges:    challenges,
		clientService: clientService,
		grantType:     grantType,
	}
}

// HandleChallengeRequest records the client's PKCE challenge and returns the state to present with
// the assertion.
func (h *ChallengeHandler) HandleChallengeRequest(w http.ResponseWriter, r *http.Request) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "FederatedChallengeHandler"))

	if err := r.ParseForm(); err != nil {
		oauthutils.WriteErrorResponse(w, model.NewInvalidRequestError("Failed to parse request body"), false)
		return
	}

	creds, errResp := oauthutils.ExtractClientCredentials(r)
	if errResp != nil {
		oauthutils.WriteErrorResponse(w, errResp, creds.FromHeader)
		return
	}
	client, errResp := oauthutils.AuthenticateClient(r.Context(), h.clientService, creds.ClientID, creds.ClientSecret)
	if errResp != nil {
		oauthutils.WriteErrorResponse(w, errResp, creds.FromHeader)
		return
	}
	if !client.IsAllowedGrantType(h.grantType) {
		oauthutils.WriteErrorResponse(w, model.NewUnauthorizedClientError(
			"The client is not allowed to use federated sign in"), creds.FromHeader)
		return
	}

	codeChallenge := r.PostFormValue(constants.CodeChallenge)
	if codeChallenge == "" {
		oauthutils.WriteErrorResponse(w, model.NewInvalidRequestError("Missing code_challenge parameter"), false)
		return
	}

	challenge, err := h.challenges.CreateChallenge(r.Context(), client.ID, codeChallenge,
		r.PostFormValue(constants.CodeChallengeMethod))
	if err != nil {
		if errors.Is(err, ErrInvalidChallenge) || errors.Is(err, ErrMissingChallengeArg) {
			oauthutils.WriteErrorResponse(w, model.NewInvalidRequestError("Invalid code challenge"), false)
			return
		}
		logger.Error("Failed to create federated challenge", log.String(log.LoggerKeyClientID, client.ID),
			log.Error(err))
		oauthutils.WriteErrorResponse(w, model.NewServerError(), false)
		return
	}

	logger.Debug("Federated challenge created", log.String(log.LoggerKeyClientID, client.ID))
	sysutils.WriteJSON(w, http.StatusOK, challenge)
}

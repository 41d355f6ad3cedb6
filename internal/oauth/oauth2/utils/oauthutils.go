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

// Package utils provides request and response helpers shared by the OAuth2 endpoints.
package utils

import (
	"context"
	"errors"
	"net/http"

	clientmodel "github.com/JonasVannieuwenhuijsen/oauth2-server/internal/client/model"
	clientservice "github.com/JonasVannieuwenhuijsen/oauth2-server/internal/client/service"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/constants"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/model"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/error/serviceerror"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/log"
	sysutils "github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/utils"
)

const invalidClientDescription = "Client authentication failed"

// ClientCredentials holds the client credentials presented on a request.
type ClientCredentials struct {
	ClientID     string
	ClientSecret string
	// FromHeader is set when the credentials came from the Authorization header.
	FromHeader bool
}

// ExtractClientCredentials reads the client credentials from the basic authorization header or the
// form body. The form must already be parsed. Credentials in both places are rejected.
func ExtractClientCredentials(r *http.Request) (*ClientCredentials, *model.ErrorResponse) {
	headerID, headerSecret, err := sysutils.ExtractBasicAuthCredentials(r)
	if err != nil && !errors.Is(err, sysutils.ErrNoBasicAuth) {
		errResp := model.NewClientError("Invalid authorization header")
		errResp.StatusCode = http.StatusUnauthorized
		return &ClientCredentials{FromHeader: true}, errResp
	}

	bodyID := r.PostFormValue(constants.ClientID)
	bodySecret := r.PostFormValue(constants.ClientSecret)

	if err == nil {
		if bodyID != "" || bodySecret != "" {
			return &ClientCredentials{FromHeader: true}, model.NewInvalidRequestError(
				"Client credentials must not be provided in both the header and the body")
		}
		return &ClientCredentials{ClientID: headerID, ClientSecret: headerSecret, FromHeader: true}, nil
	}

	return &ClientCredentials{ClientID: bodyID, ClientSecret: bodySecret}, nil
}

// AuthenticateClient resolves the client through the client service and maps its errors to
// OAuth2 failures. Server side failures never leak their details.
func AuthenticateClient(ctx context.Context, clientService clientservice.ClientServiceInterface,
	clientID, clientSecret string) (*clientmodel.Client, *model.ErrorResponse) {
	client, svcErr := clientService.ResolveClient(ctx, clientID, clientSecret)
	if svcErr != nil {
		if svcErr.Type == serviceerror.ServerErrorType {
			log.GetLogger().Error("Client resolution failed", log.String(log.LoggerKeyClientID, clientID),
				log.String("code", svcErr.Code))
			return nil, model.NewServerError()
		}
		return nil, model.NewClientError(invalidClientDescription)
	}
	if client == nil {
		return nil, model.NewClientError(invalidClientDescription)
	}
	return client, nil
}

// WriteErrorResponse writes an OAuth2 error response. An invalid_client failure for credentials sent
// in the Authorization header is answered with 401 and a WWW-Authenticate challenge.
func WriteErrorResponse(w http.ResponseWriter, errResp *model.ErrorResponse, fromHeader bool) {
	status := errResp.GetStatusCode()
	var headers []map[string]string
	if errResp.Error == constants.ErrorInvalidClient && fromHeader {
		status = http.StatusUnauthorized
		headers = append(headers, map[string]string{"WWW-Authenticate": `Basic realm="oauth2"`})
	}
	sysutils.WriteJSONError(w, errResp.Error, errResp.ErrorDescription, status, headers)
}

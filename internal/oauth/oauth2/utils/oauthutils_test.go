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

package utils

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	clientconstants "github.com/JonasVannieuwenhuijsen/oauth2-server/internal/client/constants"
	clientmodel "github.com/JonasVannieuwenhuijsen/oauth2-server/internal/client/model"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/constants"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/model"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/tests/mocks/clientmock"
)

type OAuthUtilsTestSuite struct {
	suite.Suite
}

func TestOAuthUtilsSuite(t *testing.T) {
	suite.Run(t, new(OAuthUtilsTestSuite))
}

func (suite *OAuthUtilsTestSuite) TestExtractClientCredentials() {
	testCases := []struct {
		name       string
		form       url.Values
		basicUser  string
		basicPass  string
		rawHeader  string
		expectID   string
		expectErr  string
		fromHeader bool
	}{
		{name: "Body", form: url.Values{"client_id": {"c1"}, "client_secret": {"s1"}}, expectID: "c1"},
		{name: "PublicClientBody", form: url.Values{"client_id": {"c1"}}, expectID: "c1"},
		{name: "Header", form: url.Values{}, basicUser: "c2", basicPass: "s2", expectID: "c2", fromHeader: true},
		{name: "Both", form: url.Values{"client_id": {"c1"}}, basicUser: "c2", basicPass: "s2",
			expectErr: constants.ErrorInvalidRequest, fromHeader: true},
		{name: "MalformedHeader", form: url.Values{}, rawHeader: "Bearer abc",
			expectErr: constants.ErrorInvalidClient, fromHeader: true},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			req := httptest.NewRequest(http.MethodPost, "/oauth2/token", strings.NewReader(tc.form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			if tc.basicUser != "" {
				req.SetBasicAuth(tc.basicUser, tc.basicPass)
			}
			if tc.rawHeader != "" {
				req.Header.Set("Authorization", tc.rawHeader)
			}
			_ = req.ParseForm()

			creds, errResp := ExtractClientCredentials(req)
			assert.Equal(suite.T(), tc.fromHeader, creds.FromHeader)
			if tc.expectErr != "" {
				suite.Require().NotNil(errResp)
				assert.Equal(suite.T(), tc.expectErr, errResp.Error)
				return
			}
			suite.Require().Nil(errResp)
			assert.Equal(suite.T(), tc.expectID, creds.ClientID)
		})
	}
}

func (suite *OAuthUtilsTestSuite) TestAuthenticateClient() {
	ctx := context.Background()
	clientService := clientmock.NewClientServiceInterfaceMock(suite.T())
	client := &clientmodel.Client{ID: "c1"}
	clientService.On("ResolveClient", ctx, "c1", "good").Return(client, nil)
	clientService.On("ResolveClient", ctx, "c1", "bad").Return(nil, &clientconstants.ErrorInvalidClientCredentials)
	clientService.On("ResolveClient", ctx, "c1", "down").Return(nil, &clientconstants.ErrorInternalServerError)

	resolved, errResp := AuthenticateClient(ctx, clientService, "c1", "good")
	assert.Nil(suite.T(), errResp)
	assert.Equal(suite.T(), client, resolved)

	_, errResp = AuthenticateClient(ctx, clientService, "c1", "bad")
	suite.Require().NotNil(errResp)
	assert.Equal(suite.T(), constants.ErrorInvalidClient, errResp.Error)

	_, errResp = AuthenticateClient(ctx, clientService, "c1", "down")
	suite.Require().NotNil(errResp)
	assert.Equal(suite.T(), constants.ErrorServerError, errResp.Error)
	assert.Equal(suite.T(), http.StatusInternalServerError, errResp.GetStatusCode())
}

func (suite *OAuthUtilsTestSuite) TestWriteErrorResponse() {
	rr := httptest.NewRecorder()
	WriteErrorResponse(rr, model.NewClientError("bad client"), true)
	assert.Equal(suite.T(), http.StatusUnauthorized, rr.Code)
	assert.Contains(suite.T(), rr.Header().Get("WWW-Authenticate"), "Basic")
	assert.Equal(suite.T(), "no-store", rr.Header().Get("Cache-Control"))

	rr = httptest.NewRecorder()
	WriteErrorResponse(rr, model.NewClientError("bad client"), false)
	assert.Equal(suite.T(), http.StatusBadRequest, rr.Code)
	assert.Empty(suite.T(), rr.Header().Get("WWW-Authenticate"))

	rr = httptest.NewRecorder()
	WriteErrorResponse(rr, model.NewServerError(), false)
	assert.Equal(suite.T(), http.StatusInternalServerError, rr.Code)
	assert.Contains(suite.T(), rr.Body.String(), constants.ErrorServerError)
}

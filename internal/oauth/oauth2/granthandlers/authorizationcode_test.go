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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	clientmodel "github.com/JonasVannieuwenhuijsen/oauth2-server/internal/client/model"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/authz"
	authzmodel "github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/authz/model"
	authzstore "github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/authz/store"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/constants"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/model"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/pkce"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/scope/validator"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/config"
)

const (
	testRedirectURI  = "https://app.example.com/callback"
	testCodeVerifier = "dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk"
)

type AuthorizationCodeGrantHandlerTestSuite struct {
	suite.Suite
	manager *authz.AuthorizationCodeManager
	handler GrantHandlerInterface
	client  *clientmodel.Client
}

func TestAuthorizationCodeGrantHandlerSuite(t *testing.T) {
	suite.Run(t, new(AuthorizationCodeGrantHandlerTestSuite))
}

func (suite *AuthorizationCodeGrantHandlerTestSuite) SetupTest() {
	config.ResetServerRuntime()
	cfg := &config.Config{}
	cfg.OAuth.Scope.Catalog = []string{"read", "write"}
	_ = config.InitializeServerRuntime("", cfg)

	suite.manager = authz.NewAuthorizationCodeManager(authzstore.NewMemoryAuthorizationCodeStore(),
		validator.NewAPIScopeValidator(), nil)
	suite.handler = NewAuthorizationCodeGrantHandler(suite.manager)
	suite.client = &clientmodel.Client{
		ID:           "C",
		RedirectURIs: []string{testRedirectURI},
		Scopes:       []string{"read", "write"},
		GrantTypes:   []string{"authorization_code"},
	}
}

func (suite *AuthorizationCodeGrantHandlerTestSuite) TearDownTest() {
	config.ResetServerRuntime()
}

func (suite *AuthorizationCodeGrantHandlerTestSuite) issueCode() string {
	challenge, err := pkce.GenerateCodeChallenge(testCodeVerifier, pkce.CodeChallengeMethodS256)
	suite.Require().NoError(err)
	code, errResp := suite.manager.IssueAuthorizationCode(context.Background(), suite.client, "U", testRedirectURI,
		[]string{"read"}, &authzmodel.PKCEParams{CodeChallenge: challenge,
			CodeChallengeMethod: pkce.CodeChallengeMethodS256})
	suite.Require().Nil(errResp)
	return code.Code
}

func (suite *AuthorizationCodeGrantHandlerTestSuite) TestValidateGrant() {
	errResp := suite.handler.ValidateGrant(&model.TokenRequest{RedirectURI: testRedirectURI}, suite.client)
	suite.Require().NotNil(errResp)
	assert.Equal(suite.T(), constants.ErrorInvalidRequest, errResp.Error)

	errResp = suite.handler.ValidateGrant(&model.TokenRequest{Code: "abc"}, suite.client)
	suite.Require().NotNil(errResp)
	assert.Equal(suite.T(), constants.ErrorInvalidRequest, errResp.Error)
}

func (suite *AuthorizationCodeGrantHandlerTestSuite) TestHandleGrant() {
	code := suite.issueCode()
	request := &model.TokenRequest{Code: code, RedirectURI: testRedirectURI, CodeVerifier: testCodeVerifier,
		Scope: "write"}

	outcome, errResp := suite.handler.HandleGrant(context.Background(), request, suite.client)
	suite.Require().Nil(errResp)
	assert.Equal(suite.T(), "U", outcome.User.ID)
	assert.Equal(suite.T(), []string{"read"}, outcome.Scopes)

	_, errResp = suite.handler.HandleGrant(context.Background(), request, suite.client)
	suite.Require().NotNil(errResp)
	assert.Equal(suite.T(), constants.ErrorInvalidGrant, errResp.Error)
}

func (suite *AuthorizationCodeGrantHandlerTestSuite) TestWrongVerifier() {
	code := suite.issueCode()
	_, errResp := suite.handler.HandleGrant(context.Background(), &model.TokenRequest{
		Code: code, RedirectURI: testRedirectURI, CodeVerifier: "wrong-verifier",
	}, suite.client)
	suite.Require().NotNil(errResp)
	assert.Equal(suite.T(), constants.ErrorInvalidGrant, errResp.Error)
}

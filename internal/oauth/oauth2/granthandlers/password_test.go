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
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/constants"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/model"
	userconstants "github.com/JonasVannieuwenhuijsen/oauth2-server/internal/user/constants"
	usermodel "github.com/JonasVannieuwenhuijsen/oauth2-server/internal/user/model"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/tests/mocks/usermock"
)

type PasswordGrantHandlerTestSuite struct {
	suite.Suite
	verifier *usermock.UserVerifierInterfaceMock
	handler  GrantHandlerInterface
	client   *clientmodel.Client
}

func TestPasswordGrantHandlerSuite(t *testing.T) {
	suite.Run(t, new(PasswordGrantHandlerTestSuite))
}

func (suite *PasswordGrantHandlerTestSuite) SetupTest() {
	suite.verifier = &usermock.UserVerifierInterfaceMock{}
	suite.handler = NewPasswordGrantHandler(suite.verifier)
	suite.client = &clientmodel.Client{ID: "C", GrantTypes: []string{"password"}}
}

func (suite *PasswordGrantHandlerTestSuite) TearDownTest() {
	suite.verifier.AssertExpectations(suite.T())
}

func (suite *PasswordGrantHandlerTestSuite) TestValidateGrant() {
	errResp := suite.handler.ValidateGrant(&model.TokenRequest{Password: "p"}, suite.client)
	suite.Require().NotNil(errResp)
	assert.Equal(suite.T(), constants.ErrorInvalidRequest, errResp.Error)

	errResp = suite.handler.ValidateGrant(&model.TokenRequest{Username: "alice"}, suite.client)
	suite.Require().NotNil(errResp)
	assert.Equal(suite.T(), constants.ErrorInvalidRequest, errResp.Error)

	assert.Nil(suite.T(), suite.handler.ValidateGrant(&model.TokenRequest{Username: "alice", Password: "p"},
		suite.client))
}

func (suite *PasswordGrantHandlerTestSuite) TestHandleGrant() {
	ctx := context.Background()
	user := &usermodel.User{ID: "U", Username: "alice"}
	suite.verifier.On("VerifyUser", ctx, "alice", "p").Return(user, nil)

	outcome, errResp := suite.handler.HandleGrant(ctx, &model.TokenRequest{
		Username: "alice", Password: "p", Scope: "read read write",
	}, suite.client)
	suite.Require().Nil(errResp)
	assert.Equal(suite.T(), user, outcome.User)
	assert.Equal(suite.T(), []string{"read", "write"}, outcome.Scopes)
	assert.False(suite.T(), outcome.NoRefreshToken)
}

func (suite *PasswordGrantHandlerTestSuite) TestHandleGrantFailures() {
	ctx := context.Background()
	suite.verifier.On("VerifyUser", ctx, "alice", "wrong").Return(nil, &userconstants.ErrorAuthenticationFailed)
	suite.verifier.On("VerifyUser", ctx, "alice", "down").Return(nil, &userconstants.ErrorInternalServerError)

	_, errResp := suite.handler.HandleGrant(ctx, &model.TokenRequest{Username: "alice", Password: "wrong"},
		suite.client)
	suite.Require().NotNil(errResp)
	assert.Equal(suite.T(), constants.ErrorInvalidGrant, errResp.Error)

	_, errResp = suite.handler.HandleGrant(ctx, &model.TokenRequest{Username: "alice", Password: "down"},
		suite.client)
	suite.Require().NotNil(errResp)
	assert.Equal(suite.T(), constants.ErrorServerError, errResp.Error)
}

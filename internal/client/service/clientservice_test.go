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

package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/client/constants"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/client/model"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/client/store"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/config"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/crypto/hash"
	userconstants "github.com/JonasVannieuwenhuijsen/oauth2-server/internal/user/constants"
	usermodel "github.com/JonasVannieuwenhuijsen/oauth2-server/internal/user/model"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/tests/mocks/usermock"
)

type ClientServiceTestSuite struct {
	suite.Suite
	store       *store.MemoryClientStore
	userService *usermock.UserServiceInterfaceMock
	service     ClientServiceInterface
	secretHash  string
}

func TestClientServiceSuite(t *testing.T) {
	suite.Run(t, new(ClientServiceTestSuite))
}

func (suite *ClientServiceTestSuite) SetupSuite() {
	hashed, err := hash.HashSecret("s3cret")
	suite.Require().NoError(err)
	suite.secretHash = hashed
}

func (suite *ClientServiceTestSuite) SetupTest() {
	suite.store = store.NewMemoryClientStore()
	suite.userService = usermock.NewUserServiceInterfaceMock(suite.T())
	suite.service = NewClientService(suite.store, suite.userService)

	ctx := context.Background()
	suite.Require().NoError(suite.store.CreateClient(ctx, model.Client{
		ID: "client-a", HashedSecret: suite.secretHash, GrantTypes: []string{"password"}, UserID: "svc-user",
	}))
	suite.Require().NoError(suite.store.CreateClient(ctx, model.Client{
		ID: "spa", GrantTypes: []string{"authorization_code"},
	}))
}

func (suite *ClientServiceTestSuite) TestResolveClient() {
	testCases := []struct {
		name         string
		clientID     string
		clientSecret string
		expectedCode string
	}{
		{"Valid", "client-a", "s3cret", ""},
		{"WrongSecret", "client-a", "nope", constants.ErrorInvalidClientCredentials.Code},
		{"EmptySecret", "client-a", "", constants.ErrorInvalidClientCredentials.Code},
		{"UnknownClient", "ghost", "s3cret", constants.ErrorInvalidClientCredentials.Code},
		{"MissingID", "", "s3cret", constants.ErrorMissingClientID.Code},
		{"PublicClient", "spa", "", ""},
		{"PublicClientWithSecret", "spa", "anything", constants.ErrorInvalidClientCredentials.Code},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			client, svcErr := suite.service.ResolveClient(context.Background(), tc.clientID, tc.clientSecret)
			if tc.expectedCode == "" {
				suite.Require().Nil(svcErr)
				assert.Equal(suite.T(), tc.clientID, client.ID)
				return
			}
			suite.Require().NotNil(svcErr)
			assert.Equal(suite.T(), tc.expectedCode, svcErr.Code)
			assert.Nil(suite.T(), client)
		})
	}
}

type failingClientStore struct {
	store.ClientStoreInterface
}

func (failingClientStore) GetClient(context.Context, string) (*model.Client, error) {
	return nil, errors.New("db down")
}

func (suite *ClientServiceTestSuite) TestResolveClientStoreFailure() {
	svc := NewClientService(failingClientStore{}, suite.userService)

	_, svcErr := svc.ResolveClient(context.Background(), "client-a", "s3cret")
	suite.Require().NotNil(svcErr)
	assert.Equal(suite.T(), constants.ErrorInternalServerError.Code, svcErr.Code)
}

func (suite *ClientServiceTestSuite) TestGetUserForClient() {
	ctx := context.Background()
	suite.userService.On("GetUser", mock.Anything, "svc-user").Return(&usermodel.User{ID: "svc-user"}, nil).Once()

	user, svcErr := suite.service.GetUserForClient(ctx, &model.Client{ID: "client-a", UserID: "svc-user"})
	suite.Require().Nil(svcErr)
	assert.Equal(suite.T(), "svc-user", user.ID)

	user, svcErr = suite.service.GetUserForClient(ctx, &model.Client{ID: "spa"})
	assert.Nil(suite.T(), svcErr)
	assert.Nil(suite.T(), user)
}

func (suite *ClientServiceTestSuite) TestGetUserForClientMissingUser() {
	suite.userService.On("GetUser", mock.Anything, "gone").Return(nil, &userconstants.ErrorUserNotFound).Once()

	_, svcErr := suite.service.GetUserForClient(context.Background(), &model.Client{ID: "c", UserID: "gone"})
	suite.Require().NotNil(svcErr)
	assert.Equal(suite.T(), constants.ErrorClientUserNotFound.Code, svcErr.Code)
}

func (suite *ClientServiceTestSuite) TestImportStaticClients() {
	ctx := context.Background()
	catalog := []string{"read", "write", "admin"}
	clients := []config.StaticClient{{
		ID: "client-b", SecretHash: suite.secretHash, Scopes: []string{"read", "write"},
		GrantTypes: []string{"password"}, RedirectURIs: []string{"https://app/cb"},
	}}

	suite.Require().NoError(suite.service.ImportStaticClients(ctx, clients, catalog))
	suite.Require().NoError(suite.service.ImportStaticClients(ctx, clients, catalog))

	client, svcErr := suite.service.ResolveClient(ctx, "client-b", "s3cret")
	suite.Require().Nil(svcErr)
	assert.Equal(suite.T(), []string{"read", "write"}, client.Scopes)
}

func (suite *ClientServiceTestSuite) TestImportStaticClientsRejectsScopeOutsideCatalog() {
	err := suite.service.ImportStaticClients(context.Background(), []config.StaticClient{{
		ID: "client-c", Scopes: []string{"superuser"}, GrantTypes: []string{"password"},
	}}, []string{"read"})
	assert.ErrorContains(suite.T(), err, "superuser")

	err = suite.service.ImportStaticClients(context.Background(), []config.StaticClient{{ID: "client-d"}},
		[]string{"read"})
	assert.ErrorContains(suite.T(), err, "no grant types")
}

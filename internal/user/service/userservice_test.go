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
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/config"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/crypto/hash"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/user/constants"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/user/model"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/user/store"
)

type UserServiceTestSuite struct {
	suite.Suite
	store *store.MemoryUserStore
}

func TestUserServiceSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.store = store.NewMemoryUserStore()
}

func (suite *UserServiceTestSuite) TestVerifyUser() {
	svc := NewUserService(suite.store, false)
	ctx := context.Background()
	created, svcErr := svc.CreateUser(ctx, model.User{Username: "alice"}, "wonderland")
	suite.Require().Nil(svcErr)
	assert.NotEmpty(suite.T(), created.ID)
	assert.NotEqual(suite.T(), "wonderland", created.PasswordHash)

	user, svcErr := svc.VerifyUser(ctx, "alice", "wonderland")
	suite.Require().Nil(svcErr)
	assert.Equal(suite.T(), created.ID, user.ID)

	_, svcErr = svc.VerifyUser(ctx, "alice", "wrong")
	assert.Equal(suite.T(), constants.ErrorAuthenticationFailed.Code, svcErr.Code)

	_, svcErr = svc.VerifyUser(ctx, "bob", "wonderland")
	assert.Equal(suite.T(), constants.ErrorAuthenticationFailed.Code, svcErr.Code)
}

func (suite *UserServiceTestSuite) TestVerifyFederatedOnlyUserFails() {
	svc := NewUserService(suite.store, true)
	ctx := context.Background()
	suite.Require().NoError(suite.store.CreateUser(ctx, model.User{ID: "u1", Username: "fed", ExternalID: "ext"}))

	_, svcErr := svc.VerifyUser(ctx, "fed", "")
	assert.Equal(suite.T(), constants.ErrorAuthenticationFailed.Code, svcErr.Code)
}

func (suite *UserServiceTestSuite) TestCreateUserConflict() {
	svc := NewUserService(suite.store, false)
	ctx := context.Background()
	_, svcErr := svc.CreateUser(ctx, model.User{Username: "alice"}, "")
	suite.Require().Nil(svcErr)

	_, svcErr = svc.CreateUser(ctx, model.User{Username: "alice"}, "")
	assert.Equal(suite.T(), constants.ErrorUsernameConflict.Code, svcErr.Code)
}

func (suite *UserServiceTestSuite) TestGetUser() {
	svc := NewUserService(suite.store, false)
	ctx := context.Background()
	suite.Require().NoError(suite.store.CreateUser(ctx, model.User{ID: "u1"}))

	user, svcErr := svc.GetUser(ctx, "u1")
	suite.Require().Nil(svcErr)
	assert.Equal(suite.T(), "u1", user.ID)

	_, svcErr = svc.GetUser(ctx, "")
	assert.Equal(suite.T(), constants.ErrorMissingUserID.Code, svcErr.Code)
	_, svcErr = svc.GetUser(ctx, "missing")
	assert.Equal(suite.T(), constants.ErrorUserNotFound.Code, svcErr.Code)
}

func (suite *UserServiceTestSuite) TestFindFederatedUserWithoutProvisioning() {
	svc := NewUserService(suite.store, false)

	user, svcErr := svc.FindFederatedUser(context.Background(), "ext-1", nil)
	assert.Nil(suite.T(), svcErr)
	assert.Nil(suite.T(), user)

	_, svcErr = svc.FindFederatedUser(context.Background(), "", nil)
	assert.Equal(suite.T(), constants.ErrorMissingExternalID.Code, svcErr.Code)
}

func (suite *UserServiceTestSuite) TestFindFederatedUserProvisionsOnce() {
	svc := NewUserService(suite.store, true)
	ctx := context.Background()
	claims := map[string]interface{}{"sub": "ext-1"}

	first, svcErr := svc.FindFederatedUser(ctx, "ext-1", claims)
	suite.Require().Nil(svcErr)
	suite.Require().NotNil(first)
	assert.Equal(suite.T(), "ext-1", first.ExternalID)

	second, svcErr := svc.FindFederatedUser(ctx, "ext-1", claims)
	suite.Require().Nil(svcErr)
	assert.Equal(suite.T(), first.ID, second.ID)
}

func (suite *UserServiceTestSuite) TestConcurrentProvisioningResolvesToOneUser() {
	svc := NewUserService(suite.store, true)
	ctx := context.Background()

	ids := make([]string, 16)
	var wg sync.WaitGroup
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			user, svcErr := svc.FindFederatedUser(ctx, "ext-2", nil)
			if assert.Nil(suite.T(), svcErr) && assert.NotNil(suite.T(), user) {
				ids[i] = user.ID
			}
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(suite.T(), ids[0], id)
	}
}

func (suite *UserServiceTestSuite) TestImportStaticUsers() {
	svc := NewUserService(suite.store, false)
	ctx := context.Background()
	hashed, err := hash.HashSecret("secret")
	suite.Require().NoError(err)
	users := []config.StaticUser{{ID: "alice-id", Username: "alice", PasswordHash: hashed}}

	suite.Require().NoError(svc.ImportStaticUsers(ctx, users))
	suite.Require().NoError(svc.ImportStaticUsers(ctx, users))

	user, svcErr := svc.VerifyUser(ctx, "alice", "secret")
	suite.Require().Nil(svcErr)
	assert.Equal(suite.T(), "alice-id", user.ID)

	assert.Error(suite.T(), svc.ImportStaticUsers(ctx, []config.StaticUser{{Username: "noid"}}))
}

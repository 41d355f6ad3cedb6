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

package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/database/client"
	dbmodel "github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/database/model"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/user/constants"
	usermodel "github.com/JonasVannieuwenhuijsen/oauth2-server/internal/user/model"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/tests/mocks/databasemock"
)

var userColumns = []string{"USER_ID", "USERNAME", "PASSWORD_HASH", "EXTERNAL_ID"}

type UserStoreTestSuite struct {
	suite.Suite
	mock  sqlmock.Sqlmock
	store UserStoreInterface
}

func TestUserStoreSuite(t *testing.T) {
	suite.Run(t, new(UserStoreTestSuite))
}

func (suite *UserStoreTestSuite) SetupTest() {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	suite.Require().NoError(err)
	suite.mock = mock
	dbClient := client.NewDBClient(dbmodel.NewDB(db), dbmodel.DBTypePostgres)
	suite.store = NewUserStore(databasemock.NewStaticDBProvider(dbClient))
}

func (suite *UserStoreTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *UserStoreTestSuite) TestGetUserByUsername() {
	suite.mock.ExpectQuery(QueryGetUserByUsername.Query).WithArgs("alice").
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow("u1", "alice", "hash", nil))

	user, err := suite.store.GetUserByUsername(context.Background(), "alice")
	suite.Require().NoError(err)
	assert.Equal(suite.T(), "u1", user.ID)
	assert.Equal(suite.T(), "hash", user.PasswordHash)
	assert.Empty(suite.T(), user.ExternalID)
}

func (suite *UserStoreTestSuite) TestGetUserByExternalID() {
	suite.mock.ExpectQuery(QueryGetUserByExternalID.Query).WithArgs("ext-1").
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow("u2", nil, "", "ext-1"))

	user, err := suite.store.GetUserByExternalID(context.Background(), "ext-1")
	suite.Require().NoError(err)
	assert.Equal(suite.T(), "u2", user.ID)
	assert.Empty(suite.T(), user.Username)
	assert.True(suite.T(), user.IsFederated())
}

func (suite *UserStoreTestSuite) TestGetUserNotFound() {
	suite.mock.ExpectQuery(QueryGetUserByID.Query).WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(userColumns))

	_, err := suite.store.GetUser(context.Background(), "missing")
	assert.ErrorIs(suite.T(), err, constants.ErrUserNotFound)
}

func (suite *UserStoreTestSuite) TestGetUserQueryError() {
	suite.mock.ExpectQuery(QueryGetUserByID.Query).WithArgs("u1").WillReturnError(errors.New("db down"))

	_, err := suite.store.GetUser(context.Background(), "u1")
	assert.Error(suite.T(), err)
	assert.NotErrorIs(suite.T(), err, constants.ErrUserNotFound)
}

func (suite *UserStoreTestSuite) TestCreateUser() {
	suite.mock.ExpectExec(QueryInsertUser.Query).WithArgs("u1", "alice", "hash", nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := suite.store.CreateUser(context.Background(), usermodel.User{ID: "u1", Username: "alice",
		PasswordHash: "hash"})
	assert.NoError(suite.T(), err)
}

func (suite *UserStoreTestSuite) TestCreateFederatedUser() {
	suite.mock.ExpectExec(QueryInsertFederatedUser.Query).WithArgs("u1", nil, "", "ext-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	suite.mock.ExpectExec(QueryInsertFederatedUser.Query).WithArgs("u2", nil, "", "ext-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	created, err := suite.store.CreateFederatedUser(context.Background(),
		usermodel.User{ID: "u1", ExternalID: "ext-1"})
	suite.Require().NoError(err)
	assert.True(suite.T(), created)

	created, err = suite.store.CreateFederatedUser(context.Background(),
		usermodel.User{ID: "u2", ExternalID: "ext-1"})
	suite.Require().NoError(err)
	assert.False(suite.T(), created)
}

func (suite *UserStoreTestSuite) TestMySQLFederatedInsertUsesInsertIgnore() {
	assert.Contains(suite.T(), QueryInsertFederatedUser.GetQuery(dbmodel.DBTypeMySQL), "INSERT IGNORE")
	assert.Contains(suite.T(), QueryInsertFederatedUser.GetQuery(dbmodel.DBTypeSQLite), "ON CONFLICT")
}

type MemoryUserStoreTestSuite struct {
	suite.Suite
}

func TestMemoryUserStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryUserStoreTestSuite))
}

func (suite *MemoryUserStoreTestSuite) TestCreateAndLookup() {
	s := NewMemoryUserStore()
	ctx := context.Background()

	suite.Require().NoError(s.CreateUser(ctx, usermodel.User{ID: "u1", Username: "alice"}))
	assert.ErrorIs(suite.T(), s.CreateUser(ctx, usermodel.User{ID: "u2", Username: "alice"}),
		constants.ErrUserAlreadyExists)

	user, err := s.GetUserByUsername(ctx, "alice")
	suite.Require().NoError(err)
	assert.Equal(suite.T(), "u1", user.ID)

	_, err = s.GetUser(ctx, "u2")
	assert.ErrorIs(suite.T(), err, constants.ErrUserNotFound)
	_, err = s.GetUserByExternalID(ctx, "ext")
	assert.ErrorIs(suite.T(), err, constants.ErrUserNotFound)
}

func (suite *MemoryUserStoreTestSuite) TestConcurrentFederatedCreateHasSingleWinner() {
	s := NewMemoryUserStore()
	ctx := context.Background()

	var created int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ok, err := s.CreateFederatedUser(ctx, usermodel.User{ID: fmt.Sprintf("u%d", i), ExternalID: "ext-1"})
			assert.NoError(suite.T(), err)
			if ok {
				atomic.AddInt32(&created, 1)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(suite.T(), int32(1), created)
	_, err := s.GetUserByExternalID(ctx, "ext-1")
	assert.NoError(suite.T(), err)
}

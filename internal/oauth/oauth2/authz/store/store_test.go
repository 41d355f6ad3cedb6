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
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/authz/constants"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/authz/model"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/crypto/hash"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/database/client"
	dbmodel "github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/database/model"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/tests/mocks/databasemock"
)

var codeColumns = []string{"CODE_ID", "CONSUMER_KEY", "CALLBACK_URL", "AUTHZ_USER", "TIME_CREATED",
	"EXPIRY_TIME", "CODE_CHALLENGE", "CODE_CHALLENGE_METHOD", "STATE"}

type AuthorizationCodeStoreTestSuite struct {
	suite.Suite
	mock          sqlmock.Sqlmock
	store         AuthorizationCodeStoreInterface
	testAuthzCode model.AuthorizationCode
}

func TestAuthorizationCodeStoreTestSuite(t *testing.T) {
	suite.Run(t, new(AuthorizationCodeStoreTestSuite))
}

func (suite *AuthorizationCodeStoreTestSuite) SetupTest() {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	suite.Require().NoError(err)
	suite.mock = mock
	dbClient := client.NewDBClient(dbmodel.NewDB(db), dbmodel.DBTypePostgres)
	suite.store = NewAuthorizationCodeStore(databasemock.NewStaticDBProvider(dbClient))

	created := time.Unix(1760000000, 0).UTC()
	suite.testAuthzCode = model.AuthorizationCode{
		CodeID:              "test-code-id",
		Code:                "test-code",
		ClientID:            "test-client-id",
		RedirectURI:         "https://client.example.com/callback",
		AuthorizedUserID:    "test-user-id",
		TimeCreated:         created,
		ExpiryTime:          created.Add(10 * time.Minute),
		Scopes:              []string{"read", "write"},
		CodeChallenge:       "challenge",
		CodeChallengeMethod: "S256",
		State:               constants.AuthCodeStateActive,
	}
}

func (suite *AuthorizationCodeStoreTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *AuthorizationCodeStoreTestSuite) expectInsertCode() *sqlmock.ExpectedExec {
	c := suite.testAuthzCode
	return suite.mock.ExpectExec(constants.QueryInsertAuthorizationCode.Query).
		WithArgs(c.CodeID, hash.HashString(c.Code), c.ClientID, c.RedirectURI, c.AuthorizedUserID,
			c.TimeCreated.Unix(), c.ExpiryTime.Unix(), c.CodeChallenge, c.CodeChallengeMethod, c.State)
}

func (suite *AuthorizationCodeStoreTestSuite) TestInsertAuthorizationCode_Success() {
	suite.mock.ExpectBegin()
	suite.expectInsertCode().WillReturnResult(sqlmock.NewResult(0, 1))
	suite.mock.ExpectExec(constants.QueryInsertAuthorizationCodeScopes.Query).
		WithArgs("test-code-id", "read").WillReturnResult(sqlmock.NewResult(0, 1))
	suite.mock.ExpectExec(constants.QueryInsertAuthorizationCodeScopes.Query).
		WithArgs("test-code-id", "write").WillReturnResult(sqlmock.NewResult(0, 1))
	suite.mock.ExpectCommit()

	err := suite.store.InsertAuthorizationCode(context.Background(), suite.testAuthzCode)
	assert.NoError(suite.T(), err)
}

func (suite *AuthorizationCodeStoreTestSuite) TestInsertAuthorizationCode_BeginTxError() {
	suite.mock.ExpectBegin().WillReturnError(errors.New("tx error"))

	err := suite.store.InsertAuthorizationCode(context.Background(), suite.testAuthzCode)
	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "failed to begin transaction")
}

func (suite *AuthorizationCodeStoreTestSuite) TestInsertAuthorizationCode_ExecErrorRollsBack() {
	suite.mock.ExpectBegin()
	suite.expectInsertCode().WillReturnError(errors.New("exec error"))
	suite.mock.ExpectRollback()

	err := suite.store.InsertAuthorizationCode(context.Background(), suite.testAuthzCode)
	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "failed to insert authorization code")
}

func (suite *AuthorizationCodeStoreTestSuite) TestInsertAuthorizationCode_RollbackError() {
	suite.mock.ExpectBegin()
	suite.expectInsertCode().WillReturnResult(sqlmock.NewResult(0, 1))
	suite.mock.ExpectExec(constants.QueryInsertAuthorizationCodeScopes.Query).
		WithArgs("test-code-id", "read").WillReturnError(errors.New("scope error"))
	suite.mock.ExpectRollback().WillReturnError(errors.New("rollback error"))

	err := suite.store.InsertAuthorizationCode(context.Background(), suite.testAuthzCode)
	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "scope error")
	assert.Contains(suite.T(), err.Error(), "rollback error")
}

func (suite *AuthorizationCodeStoreTestSuite) TestGetAuthorizationCode_Success() {
	c := suite.testAuthzCode
	suite.mock.ExpectQuery(constants.QueryGetAuthorizationCode.Query).
		WithArgs(hash.HashString("test-code")).
		WillReturnRows(sqlmock.NewRows(codeColumns).AddRow(c.CodeID, c.ClientID, c.RedirectURI,
			c.AuthorizedUserID, c.TimeCreated.Unix(), c.ExpiryTime.Unix(), "challenge", "S256", "ACTIVE"))
	suite.mock.ExpectQuery(constants.QueryGetAuthorizationCodeScopes.Query).WithArgs(c.CodeID).
		WillReturnRows(sqlmock.NewRows([]string{"SCOPE"}).AddRow("read").AddRow("write"))

	got, err := suite.store.GetAuthorizationCode(context.Background(), "test-code")
	suite.Require().NoError(err)
	assert.Equal(suite.T(), c.CodeID, got.CodeID)
	assert.Equal(suite.T(), c.ClientID, got.ClientID)
	assert.Equal(suite.T(), c.RedirectURI, got.RedirectURI)
	assert.Equal(suite.T(), c.AuthorizedUserID, got.AuthorizedUserID)
	assert.True(suite.T(), c.ExpiryTime.Equal(got.ExpiryTime))
	assert.Equal(suite.T(), []string{"read", "write"}, got.Scopes)
	assert.Equal(suite.T(), "challenge", got.CodeChallenge)
	assert.True(suite.T(), got.IsActive())
	assert.Empty(suite.T(), got.Code)
}

func (suite *AuthorizationCodeStoreTestSuite) TestGetAuthorizationCode_NotFound() {
	suite.mock.ExpectQuery(constants.QueryGetAuthorizationCode.Query).
		WithArgs(hash.HashString("missing")).WillReturnRows(sqlmock.NewRows(codeColumns))

	_, err := suite.store.GetAuthorizationCode(context.Background(), "missing")
	assert.ErrorIs(suite.T(), err, constants.ErrAuthorizationCodeNotFound)
}

func (suite *AuthorizationCodeStoreTestSuite) TestGetAuthorizationCode_InvalidTime() {
	suite.mock.ExpectQuery(constants.QueryGetAuthorizationCode.Query).
		WithArgs(hash.HashString("test-code")).
		WillReturnRows(sqlmock.NewRows(codeColumns).AddRow("id", "c", "u", "user", "not-a-time",
			int64(0), "", "", "ACTIVE"))

	_, err := suite.store.GetAuthorizationCode(context.Background(), "test-code")
	assert.Error(suite.T(), err)
}

func (suite *AuthorizationCodeStoreTestSuite) TestConsumeAuthorizationCode() {
	now := time.Unix(1760000000, 0)
	suite.mock.ExpectExec(constants.QueryTransitionUnexpiredAuthorizationCodeState.Query).
		WithArgs(constants.AuthCodeStateInactive, "test-code-id", constants.AuthCodeStateActive, now.Unix()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	suite.mock.ExpectExec(constants.QueryTransitionUnexpiredAuthorizationCodeState.Query).
		WithArgs(constants.AuthCodeStateInactive, "test-code-id", constants.AuthCodeStateActive, now.Unix()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	won, err := suite.store.ConsumeAuthorizationCode(context.Background(), "test-code-id", now)
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), won)

	won, err = suite.store.ConsumeAuthorizationCode(context.Background(), "test-code-id", now)
	assert.NoError(suite.T(), err)
	assert.False(suite.T(), won)
}

func (suite *AuthorizationCodeStoreTestSuite) TestRestoreAuthorizationCode() {
	now := time.Unix(1760000000, 0)
	suite.mock.ExpectExec(constants.QueryTransitionUnexpiredAuthorizationCodeState.Query).
		WithArgs(constants.AuthCodeStateActive, "test-code-id", constants.AuthCodeStateInactive, now.Unix()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	suite.mock.ExpectExec(constants.QueryTransitionUnexpiredAuthorizationCodeState.Query).
		WithArgs(constants.AuthCodeStateActive, "test-code-id", constants.AuthCodeStateInactive, now.Unix()).
		WillReturnError(errors.New("db down"))

	restored, err := suite.store.RestoreAuthorizationCode(context.Background(), "test-code-id", now)
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), restored)

	_, err = suite.store.RestoreAuthorizationCode(context.Background(), "test-code-id", now)
	assert.Error(suite.T(), err)
}

func (suite *AuthorizationCodeStoreTestSuite) TestExpireAuthorizationCode() {
	suite.mock.ExpectExec(constants.QueryTransitionAuthorizationCodeState.Query).
		WithArgs(constants.AuthCodeStateExpired, "test-code-id", constants.AuthCodeStateActive).
		WillReturnError(errors.New("db down"))

	err := suite.store.ExpireAuthorizationCode(context.Background(), "test-code-id")
	assert.Error(suite.T(), err)
}

func TestMemoryAuthorizationCodeStore(t *testing.T) {
	s := NewMemoryAuthorizationCodeStore()
	ctx := context.Background()
	now := time.Now()
	code := model.AuthorizationCode{CodeID: "id-1", Code: "value-1", Scopes: []string{"read"},
		State: constants.AuthCodeStateActive, ExpiryTime: now.Add(time.Minute)}
	assert.NoError(t, s.InsertAuthorizationCode(ctx, code))

	_, err := s.GetAuthorizationCode(ctx, "value-2")
	assert.ErrorIs(t, err, constants.ErrAuthorizationCodeNotFound)

	got, err := s.GetAuthorizationCode(ctx, "value-1")
	assert.NoError(t, err)
	assert.Equal(t, "id-1", got.CodeID)
	assert.Empty(t, got.Code)

	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if won, _ := s.ConsumeAuthorizationCode(ctx, "id-1", now); won {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, wins)

	assert.NoError(t, s.ExpireAuthorizationCode(ctx, "id-1"))
	got, _ = s.GetAuthorizationCode(ctx, "value-1")
	assert.Equal(t, constants.AuthCodeStateInactive, got.State)

	restored, err := s.RestoreAuthorizationCode(ctx, "id-1", now)
	assert.NoError(t, err)
	assert.True(t, restored)
	got, _ = s.GetAuthorizationCode(ctx, "value-1")
	assert.Equal(t, constants.AuthCodeStateActive, got.State)

	restored, _ = s.RestoreAuthorizationCode(ctx, "id-1", now)
	assert.False(t, restored, "an active code cannot be restored")
}

func TestMemoryAuthorizationCodeStoreRejectsExpiredTransitions(t *testing.T) {
	s := NewMemoryAuthorizationCodeStore()
	ctx := context.Background()
	now := time.Now()
	code := model.AuthorizationCode{CodeID: "id-1", Code: "value-1",
		State: constants.AuthCodeStateActive, ExpiryTime: now.Add(time.Minute)}
	assert.NoError(t, s.InsertAuthorizationCode(ctx, code))

	won, err := s.ConsumeAuthorizationCode(ctx, "id-1", now.Add(2*time.Minute))
	assert.NoError(t, err)
	assert.False(t, won)

	won, _ = s.ConsumeAuthorizationCode(ctx, "id-1", now)
	assert.True(t, won)
	restored, _ := s.RestoreAuthorizationCode(ctx, "id-1", now.Add(2*time.Minute))
	assert.False(t, restored)
}

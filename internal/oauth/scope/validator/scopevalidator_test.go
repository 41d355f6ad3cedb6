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

package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	clientmodel "github.com/JonasVannieuwenhuijsen/oauth2-server/internal/client/model"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/config"
)

type ScopeValidatorTestSuite struct {
	suite.Suite
	validator ScopeValidatorInterface
	client    *clientmodel.Client
}

func TestScopeValidatorSuite(t *testing.T) {
	suite.Run(t, new(ScopeValidatorTestSuite))
}

func (suite *ScopeValidatorTestSuite) SetupTest() {
	config.ResetServerRuntime()
	cfg := &config.Config{}
	cfg.OAuth.Scope.Catalog = []string{"read", "write", "admin"}
	_ = config.InitializeServerRuntime("", cfg)

	suite.validator = NewAPIScopeValidator()
	suite.client = &clientmodel.Client{ID: "C", Scopes: []string{"read", "write"}}
}

func (suite *ScopeValidatorTestSuite) TearDownTest() {
	config.ResetServerRuntime()
}

func (suite *ScopeValidatorTestSuite) setPolicy(policy string) {
	cfg := config.GetServerRuntime().Config
	cfg.OAuth.Scope.EmptyScopePolicy = policy
	config.UpdateServerConfig(&cfg)
}

func (suite *ScopeValidatorTestSuite) TestGrantsExactlyTheRequestedScopes() {
	scopes, scopeErr := suite.validator.ValidateScopes(ParseScopes("read write", nil), suite.client)
	suite.Nil(scopeErr)
	suite.Equal([]string{"read", "write"}, scopes)

	scopes, scopeErr = suite.validator.ValidateScopes([]string{"write"}, suite.client)
	suite.Nil(scopeErr)
	suite.Equal([]string{"write"}, scopes)
}

func (suite *ScopeValidatorTestSuite) TestRejectsScopeOutsideClient() {
	scopes, scopeErr := suite.validator.ValidateScopes([]string{"admin"}, suite.client)
	suite.Nil(scopes)
	suite.Require().NotNil(scopeErr)
	suite.Equal("invalid_scope", scopeErr.Error)
}

func (suite *ScopeValidatorTestSuite) TestAllOrNothing() {
	scopes, scopeErr := suite.validator.ValidateScopes([]string{"read", "admin"}, suite.client)
	suite.Nil(scopes)
	suite.NotNil(scopeErr)
}

func (suite *ScopeValidatorTestSuite) TestRejectsScopeOutsideCatalog() {
	c := &clientmodel.Client{ID: "C", Scopes: []string{"read", "legacy"}}
	_, scopeErr := suite.validator.ValidateScopes([]string{"legacy"}, c)
	suite.NotNil(scopeErr)
}

func (suite *ScopeValidatorTestSuite) TestCatalogChangeAppliesImmediately() {
	cfg := config.GetServerRuntime().Config
	cfg.OAuth.Scope.Catalog = []string{"read"}
	config.UpdateServerConfig(&cfg)

	_, scopeErr := suite.validator.ValidateScopes([]string{"write"}, suite.client)
	suite.NotNil(scopeErr)
}

func (suite *ScopeValidatorTestSuite) TestEmptyRequest() {
	scopes, scopeErr := suite.validator.ValidateScopes(nil, suite.client)
	suite.Nil(scopeErr)
	suite.Empty(scopes)
}

func (suite *ScopeValidatorTestSuite) TestVerifyPossessed() {
	suite.True(suite.validator.VerifyPossessed([]string{"read", "write"}, []string{"read"}))
	suite.True(suite.validator.VerifyPossessed([]string{"read"}, nil))
	suite.False(suite.validator.VerifyPossessed([]string{"read"}, []string{"write"}))
}

func (suite *ScopeValidatorTestSuite) TestVerifyPossessedEmptyScopePolicy() {
	suite.False(suite.validator.VerifyPossessed(nil, []string{"read"}))

	suite.setPolicy(string(EmptyScopePolicyAllAccess))
	suite.True(suite.validator.VerifyPossessed(nil, []string{"read"}))

	suite.setPolicy(string(EmptyScopePolicyNoAccess))
	suite.False(suite.validator.VerifyPossessed([]string{}, nil))
}

func TestParseScopes(t *testing.T) {
	assert.Equal(t, []string{"read", "write"}, ParseScopes("  read write read ", nil))
	assert.Equal(t, []string{"read", "write", "admin"}, ParseScopes("read", []string{"write", "admin", "read"}))
	assert.Empty(t, ParseScopes("", nil))
}

func TestParseEmptyScopePolicy(t *testing.T) {
	policy, err := ParseEmptyScopePolicy("")
	assert.NoError(t, err)
	assert.Equal(t, EmptyScopePolicyNoAccess, policy)

	policy, err = ParseEmptyScopePolicy("all_access")
	assert.NoError(t, err)
	assert.Equal(t, EmptyScopePolicyAllAccess, policy)

	_, err = ParseEmptyScopePolicy("everything")
	assert.Error(t, err)
}

func TestIsSubset(t *testing.T) {
	assert.True(t, IsSubset([]string{"read"}, []string{"read", "write"}))
	assert.True(t, IsSubset(nil, []string{"read"}))
	assert.False(t, IsSubset([]string{"admin"}, []string{"read"}))
}

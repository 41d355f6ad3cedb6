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

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/model"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/config"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/crypto/hash"
)

const (
	testDirectorySecret = "directory-signing-secret"
	testFederatedGrant  = "urn:example:federated-pkce"
	testCodeVerifier    = "dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk"
	testCodeChallenge   = "E9Melhoa2OwvFrEMTJguCHaoeK1t8URWbuGJSstw-cM"
)

const testConfigTemplate = `
server:
  hostname: "localhost"
  http_only: true
oauth:
  scope:
    catalog: ["read", "write"]
  pkce:
    strict_verifier_format: true
integrations:
  directory:
    enabled: true
    grant_type: %q
    issuer: "https://directory.example.com"
    audience: "oauth2-server"
    hmac_secret: %q
    auto_provision: true
rate_limit:
  enabled: true
  requests_per_second: 1000
  burst: 1000
clients:
  - id: "service"
    secret_hash: %q
    scopes: ["read"]
    grant_types: ["client_credentials"]
  - id: "app"
    secret_hash: %q
    scopes: ["read", "write"]
    grant_types: ["password", "refresh_token", %q]
users:
  - id: "user-1"
    username: "alice"
    password_hash: %q
`

type ServerTestSuite struct {
	suite.Suite
	sm     *serviceManager
	server *httptest.Server
}

func TestServerSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

func (suite *ServerTestSuite) SetupTest() {
	home := suite.T().TempDir()
	secretHash, err := hash.HashSecret("secret")
	suite.Require().NoError(err)
	passwordHash, err := hash.HashSecret("wonderland")
	suite.Require().NoError(err)

	configPath := filepath.Join(home, "deployment.yaml")
	content := fmt.Sprintf(testConfigTemplate, testFederatedGrant, testDirectorySecret, secretHash, secretHash,
		testFederatedGrant, passwordHash)
	suite.Require().NoError(os.WriteFile(configPath, []byte(content), 0o600))

	config.ResetServerRuntime()
	cfg, err := config.LoadConfig(configPath)
	suite.Require().NoError(err)
	suite.Require().NoError(config.InitializeServerRuntime(home, cfg))

	suite.sm, err = newServiceManager(context.Background(), cfg, home, nil)
	suite.Require().NoError(err)
	suite.server = httptest.NewServer(suite.sm.Handler())
}

func (suite *ServerTestSuite) TearDownTest() {
	suite.server.Close()
	suite.sm.Close()
	config.ResetServerRuntime()
}

func (suite *ServerTestSuite) appConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     "app",
		ClientSecret: "secret",
		Endpoint: oauth2.Endpoint{
			TokenURL:  suite.server.URL + "/oauth2/token",
			AuthStyle: oauth2.AuthStyleInHeader,
		},
		Scopes: []string{"read", "write"},
	}
}

func (suite *ServerTestSuite) postForm(path string, form url.Values, clientID, secret string) *http.Response {
	req, err := http.NewRequest(http.MethodPost, suite.server.URL+path, strings.NewReader(form.Encode()))
	suite.Require().NoError(err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(clientID, secret)
	resp, err := http.DefaultClient.Do(req)
	suite.Require().NoError(err)
	suite.T().Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func (suite *ServerTestSuite) decode(resp *http.Response, target interface{}) {
	suite.Require().NoError(json.NewDecoder(resp.Body).Decode(target))
}

func (suite *ServerTestSuite) TestClientCredentials() {
	cc := &clientcredentials.Config{
		ClientID:     "service",
		ClientSecret: "secret",
		TokenURL:     suite.server.URL + "/oauth2/token",
		Scopes:       []string{"read"},
		AuthStyle:    oauth2.AuthStyleInHeader,
	}

	tok, err := cc.Token(context.Background())
	suite.Require().NoError(err)
	assert.NotEmpty(suite.T(), tok.AccessToken)
	assert.Equal(suite.T(), "Bearer", tok.TokenType)
	assert.Empty(suite.T(), tok.RefreshToken)
	assert.Equal(suite.T(), "read", tok.Extra("scope"))
	assert.WithinDuration(suite.T(), time.Now().Add(time.Hour), tok.Expiry, time.Minute)
}

func (suite *ServerTestSuite) TestInvalidClientIsUnauthorized() {
	cc := &clientcredentials.Config{
		ClientID:     "service",
		ClientSecret: "wrong",
		TokenURL:     suite.server.URL + "/oauth2/token",
		AuthStyle:    oauth2.AuthStyleInHeader,
	}

	_, err := cc.Token(context.Background())
	var retrieveErr *oauth2.RetrieveError
	suite.Require().True(errors.As(err, &retrieveErr), "unexpected error %v", err)
	assert.Equal(suite.T(), http.StatusUnauthorized, retrieveErr.Response.StatusCode)
	assert.Equal(suite.T(), "invalid_client", retrieveErr.ErrorCode)
	assert.NotEmpty(suite.T(), retrieveErr.Response.Header.Get("WWW-Authenticate"))
}

func (suite *ServerTestSuite) TestScopeOutsideClientIsRejected() {
	cc := &clientcredentials.Config{
		ClientID:     "service",
		ClientSecret: "secret",
		TokenURL:     suite.server.URL + "/oauth2/token",
		Scopes:       []string{"write"},
		AuthStyle:    oauth2.AuthStyleInHeader,
	}

	_, err := cc.Token(context.Background())
	var retrieveErr *oauth2.RetrieveError
	suite.Require().True(errors.As(err, &retrieveErr), "unexpected error %v", err)
	assert.Equal(suite.T(), http.StatusBadRequest, retrieveErr.Response.StatusCode)
	assert.Equal(suite.T(), "invalid_scope", retrieveErr.ErrorCode)
}

func (suite *ServerTestSuite) TestPasswordRefreshAndRevoke() {
	ctx := context.Background()
	tok, err := suite.appConfig().PasswordCredentialsToken(ctx, "alice", "wonderland")
	suite.Require().NoError(err)
	suite.Require().NotEmpty(tok.RefreshToken)

	expired := &oauth2.Token{RefreshToken: tok.RefreshToken, Expiry: time.Now().Add(-time.Minute)}
	refreshed, err := suite.appConfig().TokenSource(ctx, expired).Token()
	suite.Require().NoError(err)
	assert.NotEqual(suite.T(), tok.AccessToken, refreshed.AccessToken)

	resp := suite.postForm("/oauth2/revoke", url.Values{"token": {tok.RefreshToken},
		"token_type_hint": {"refresh_token"}}, "app", "secret")
	assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)

	_, err = suite.appConfig().TokenSource(ctx, expired).Token()
	var retrieveErr *oauth2.RetrieveError
	suite.Require().True(errors.As(err, &retrieveErr), "unexpected error %v", err)
	assert.Equal(suite.T(), "invalid_grant", retrieveErr.ErrorCode)

	// Revocation is idempotent.
	resp = suite.postForm("/oauth2/revoke", url.Values{"token": {tok.RefreshToken}}, "app", "secret")
	assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)
}

func (suite *ServerTestSuite) TestWrongPassword() {
	_, err := suite.appConfig().PasswordCredentialsToken(context.Background(), "alice", "looking-glass")
	var retrieveErr *oauth2.RetrieveError
	suite.Require().True(errors.As(err, &retrieveErr), "unexpected error %v", err)
	assert.Equal(suite.T(), "invalid_grant", retrieveErr.ErrorCode)
}

func (suite *ServerTestSuite) signAssertion(subject string) string {
	claims := jwt.MapClaims{
		"iss": "https://directory.example.com",
		"aud": "oauth2-server",
		"sub": subject,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(time.Minute).Unix(),
	}
	assertion, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testDirectorySecret))
	suite.Require().NoError(err)
	return assertion
}

func (suite *ServerTestSuite) federatedToken(subject string) *http.Response {
	resp := suite.postForm("/oauth2/federated/challenge", url.Values{"code_challenge": {testCodeChallenge},
		"code_challenge_method": {"S256"}}, "app", "secret")
	suite.Require().Equal(http.StatusOK, resp.StatusCode)
	var challenge struct {
		State string `json:"state"`
	}
	suite.decode(resp, &challenge)
	suite.Require().NotEmpty(challenge.State)

	return suite.postForm("/oauth2/token", url.Values{
		"grant_type":    {testFederatedGrant},
		"assertion":     {suite.signAssertion(subject)},
		"state":         {challenge.State},
		"code_verifier": {testCodeVerifier},
		"scope":         {"read"},
	}, "app", "secret")
}

func (suite *ServerTestSuite) TestFederatedGrant() {
	resp := suite.federatedToken("directory-user-1")
	suite.Require().Equal(http.StatusOK, resp.StatusCode)
	var body model.TokenResponse
	suite.decode(resp, &body)
	assert.NotEmpty(suite.T(), body.AccessToken)
	assert.NotEmpty(suite.T(), body.RefreshToken)
	assert.Equal(suite.T(), "read", body.Scope)

	// The same identity signs in again without a second provisioned user.
	resp = suite.federatedToken("directory-user-1")
	assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)
}

func (suite *ServerTestSuite) TestFederatedChallengeIsSingleUse() {
	resp := suite.postForm("/oauth2/federated/challenge", url.Values{"code_challenge": {testCodeChallenge},
		"code_challenge_method": {"S256"}}, "app", "secret")
	suite.Require().Equal(http.StatusOK, resp.StatusCode)
	var challenge struct {
		State string `json:"state"`
	}
	suite.decode(resp, &challenge)

	form := url.Values{
		"grant_type":    {testFederatedGrant},
		"assertion":     {suite.signAssertion("directory-user-2")},
		"state":         {challenge.State},
		"code_verifier": {testCodeVerifier},
	}
	first := suite.postForm("/oauth2/token", form, "app", "secret")
	assert.Equal(suite.T(), http.StatusOK, first.StatusCode)

	second := suite.postForm("/oauth2/token", form, "app", "secret")
	assert.Equal(suite.T(), http.StatusBadRequest, second.StatusCode)
	var errBody model.ErrorResponse
	suite.decode(second, &errBody)
	assert.Equal(suite.T(), "invalid_grant", errBody.Error)
}

func (suite *ServerTestSuite) TestRoutesRejectOtherMethods() {
	resp, err := http.Get(suite.server.URL + "/oauth2/token")
	suite.Require().NoError(err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(suite.T(), http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestHashSecretCommand(t *testing.T) {
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader("s3cret\n"))
	cmd.SetArgs([]string{"hash-secret"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("hash-secret failed: %v", err)
	}
	assert.NoError(t, hash.CompareSecret(strings.TrimSpace(out.String()), "s3cret"))

	cmd = newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs([]string{"hash-secret"})
	assert.Error(t, cmd.Execute())
}

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

package tokens

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	clientmodel "github.com/JonasVannieuwenhuijsen/oauth2-server/internal/client/model"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/constants"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/model"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/tokens/store"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/config"
	usermodel "github.com/JonasVannieuwenhuijsen/oauth2-server/internal/user/model"
)

var errMissingClient = errors.New("client is required to issue a token")

// TokenIssuerInterface mints tokens and binds them to their owners.
type TokenIssuerInterface interface {
	IssueAccessToken(client *clientmodel.Client, user *usermodel.User, scopes []string) (*model.Token, error)
	IssueRefreshToken(client *clientmodel.Client, user *usermodel.User, scopes []string) (*model.Token, error)
	// Persist binds the token and its attached refresh token to the owners and stores both.
	// Retrying with the same values updates the existing records.
	Persist(ctx context.Context, token *model.Token, client *clientmodel.Client,
		user *usermodel.User) (*model.Token, error)
}

// TokenIssuer implements TokenIssuerInterface.
type TokenIssuer struct {
	generator TokenGeneratorInterface
	store     store.TokenStoreInterface
	now       func() time.Time
}

// NewTokenIssuer creates a new instance of TokenIssuer.
func NewTokenIssuer(generator TokenGeneratorInterface, tokenStore store.TokenStoreInterface) *TokenIssuer {
	return &TokenIssuer{
		generator: generator,
		store:     tokenStore,
		now:       time.Now,
	}
}

// IssueAccessToken mints an access token with the configured access token lifetime.
func (ti *TokenIssuer) IssueAccessToken(client *clientmodel.Client, user *usermodel.User,
	scopes []string) (*model.Token, error) {
	validity := config.GetServerRuntime().Config.GetAccessTokenValidityPeriod()
	return ti.issue(constants.TokenKindAccess, validity, client, user, scopes)
}

// IssueRefreshToken mints a refresh token with the configured refresh token lifetime.
func (ti *TokenIssuer) IssueRefreshToken(client *clientmodel.Client, user *usermodel.User,
	scopes []string) (*model.Token, error) {
	validity := config.GetServerRuntime().Config.GetRefreshTokenValidityPeriod()
	return ti.issue(constants.TokenKindRefresh, validity, client, user, scopes)
}

func (ti *TokenIssuer) issue(kind constants.TokenKind, validitySeconds int64, client *clientmodel.Client,
	user *usermodel.User, scopes []string) (*model.Token, error) {
	if client == nil {
		return nil, errMissingClient
	}

	issuedAt := ti.now().UTC().Truncate(time.Second)
	token := &model.Token{
		Kind:      kind,
		ClientID:  client.ID,
		UserID:    userID(user),
		Scopes:    slices.Clone(scopes),
		IssuedAt:  issuedAt,
		ExpiresAt: issuedAt.Add(time.Duration(validitySeconds) * time.Second),
	}

	value, err := ti.generator.GenerateToken(TokenClaims{
		Kind:      kind,
		ClientID:  token.ClientID,
		UserID:    token.UserID,
		Scopes:    token.Scopes,
		IssuedAt:  token.IssuedAt,
		ExpiresAt: token.ExpiresAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate %s: %w", kind, err)
	}
	if value == "" {
		return nil, fmt.Errorf("token generator returned an empty %s", kind)
	}
	token.Value = value
	return token, nil
}

// Persist stores the attached refresh token first so an access token never references a missing record.
func (ti *TokenIssuer) Persist(ctx context.Context, token *model.Token, client *clientmodel.Client,
	user *usermodel.User) (*model.Token, error) {
	if client == nil {
		return nil, errMissingClient
	}

	bind(token, client, user)
	if token.RefreshToken != nil {
		bind(token.RefreshToken, client, user)
		if token.RefreshToken.GrantType == "" {
			token.RefreshToken.GrantType = token.GrantType
		}
		if err := ti.store.UpsertToken(ctx, token.RefreshToken); err != nil {
			return nil, fmt.Errorf("failed to persist refresh token: %w", err)
		}
	}
	if err := ti.store.UpsertToken(ctx, token); err != nil {
		return nil, fmt.Errorf("failed to persist access token: %w", err)
	}
	return token, nil
}

func bind(token *model.Token, client *clientmodel.Client, user *usermodel.User) {
	token.ClientID = client.ID
	token.UserID = userID(user)
}

func userID(user *usermodel.User) string {
	if user == nil {
		return ""
	}
	return user.ID
}

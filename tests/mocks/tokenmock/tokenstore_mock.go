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

// Package tokenmock provides mock implementations of the token interfaces for testing.
package tokenmock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/constants"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/model"
)

// TokenStoreInterfaceMock is a mock type for the TokenStoreInterface type.
type TokenStoreInterfaceMock struct {
	mock.Mock
}

// NewTokenStoreInterfaceMock creates a new mock and registers a cleanup asserting its expectations.
func NewTokenStoreInterfaceMock(t interface {
	mock.TestingT
	Cleanup(func())
}) *TokenStoreInterfaceMock {
	m := &TokenStoreInterfaceMock{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// UpsertToken provides a mock function with given fields: ctx, token.
func (_m *TokenStoreInterfaceMock) UpsertToken(ctx context.Context, token *model.Token) error {
	ret := _m.Called(ctx, token)
	return ret.Error(0)
}

// GetToken provides a mock function with given fields: ctx, value, kind.
func (_m *TokenStoreInterfaceMock) GetToken(ctx context.Context, value string,
	kind constants.TokenKind) (*model.Token, error) {
	ret := _m.Called(ctx, value, kind)
	var r0 *model.Token
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.Token)
	}
	return r0, ret.Error(1)
}

// RevokeToken provides a mock function with given fields: ctx, value.
func (_m *TokenStoreInterfaceMock) RevokeToken(ctx context.Context, value string) (bool, error) {
	ret := _m.Called(ctx, value)
	return ret.Bool(0), ret.Error(1)
}

// RevokeAccessTokensByRefreshToken provides a mock function with given fields: ctx, refreshTokenValue.
func (_m *TokenStoreInterfaceMock) RevokeAccessTokensByRefreshToken(ctx context.Context,
	refreshTokenValue string) (int64, error) {
	ret := _m.Called(ctx, refreshTokenValue)
	return ret.Get(0).(int64), ret.Error(1)
}

// ConsumeRefreshToken provides a mock function with given fields: ctx, value.
func (_m *TokenStoreInterfaceMock) ConsumeRefreshToken(ctx context.Context, value string) (bool, error) {
	ret := _m.Called(ctx, value)
	return ret.Bool(0), ret.Error(1)
}

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

// Package usermock provides mock implementations of the user service interfaces for testing.
package usermock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/config"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/error/serviceerror"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/user/model"
)

// UserServiceInterfaceMock is a mock type for the UserServiceInterface type.
type UserServiceInterfaceMock struct {
	mock.Mock
}

// NewUserServiceInterfaceMock creates a new mock and registers a cleanup asserting its expectations.
func NewUserServiceInterfaceMock(t interface {
	mock.TestingT
	Cleanup(func())
}) *UserServiceInterfaceMock {
	m := &UserServiceInterfaceMock{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// GetUser provides a mock function with given fields: ctx, userID.
func (_m *UserServiceInterfaceMock) GetUser(ctx context.Context, userID string) (
	*model.User, *serviceerror.ServiceError) {
	ret := _m.Called(ctx, userID)
	return userResult(ret)
}

// VerifyUser provides a mock function with given fields: ctx, username, password.
func (_m *UserServiceInterfaceMock) VerifyUser(ctx context.Context, username, password string) (
	*model.User, *serviceerror.ServiceError) {
	ret := _m.Called(ctx, username, password)
	return userResult(ret)
}

// FindFederatedUser provides a mock function with given fields: ctx, externalID, claims.
func (_m *UserServiceInterfaceMock) FindFederatedUser(ctx context.Context, externalID string,
	claims map[string]interface{}) (*model.User, *serviceerror.ServiceError) {
	ret := _m.Called(ctx, externalID, claims)
	return userResult(ret)
}

// CreateUser provides a mock function with given fields: ctx, user, password.
func (_m *UserServiceInterfaceMock) CreateUser(ctx context.Context, user model.User, password string) (
	*model.User, *serviceerror.ServiceError) {
	ret := _m.Called(ctx, user, password)
	return userResult(ret)
}

// ImportStaticUsers provides a mock function with given fields: ctx, users.
func (_m *UserServiceInterfaceMock) ImportStaticUsers(ctx context.Context, users []config.StaticUser) error {
	ret := _m.Called(ctx, users)
	return ret.Error(0)
}

func userResult(ret mock.Arguments) (*model.User, *serviceerror.ServiceError) {
	var r0 *model.User
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.User)
	}
	var r1 *serviceerror.ServiceError
	if ret.Get(1) != nil {
		r1 = ret.Get(1).(*serviceerror.ServiceError)
	}
	return r0, r1
}

// UserVerifierInterfaceMock is a mock type for a user service that only verifies credentials.
type UserVerifierInterfaceMock struct {
	mock.Mock
}

// VerifyUser provides a mock function with given fields: ctx, username, password.
func (_m *UserVerifierInterfaceMock) VerifyUser(ctx context.Context, username, password string) (
	*model.User, *serviceerror.ServiceError) {
	ret := _m.Called(ctx, username, password)
	return userResult(ret)
}

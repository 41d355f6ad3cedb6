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

// Package clientmock provides mock implementations of the client service interfaces for testing.
package clientmock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/client/model"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/config"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/error/serviceerror"
	usermodel "github.com/JonasVannieuwenhuijsen/oauth2-server/internal/user/model"
)

// ClientServiceInterfaceMock is a mock type for the ClientServiceInterface type.
type ClientServiceInterfaceMock struct {
	mock.Mock
}

// NewClientServiceInterfaceMock creates a new mock and registers a cleanup asserting its expectations.
func NewClientServiceInterfaceMock(t interface {
	mock.TestingT
	Cleanup(func())
}) *ClientServiceInterfaceMock {
	m := &ClientServiceInterfaceMock{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// ResolveClient provides a mock function with given fields: ctx, clientID, clientSecret.
func (_m *ClientServiceInterfaceMock) ResolveClient(ctx context.Context, clientID, clientSecret string) (
	*model.Client, *serviceerror.ServiceError) {
	ret := _m.Called(ctx, clientID, clientSecret)

	var r0 *model.Client
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.Client)
	}
	var r1 *serviceerror.ServiceError
	if ret.Get(1) != nil {
		r1 = ret.Get(1).(*serviceerror.ServiceError)
	}
	return r0, r1
}

// GetUserForClient provides a mock function with given fields: ctx, client.
func (_m *ClientServiceInterfaceMock) GetUserForClient(ctx context.Context, client *model.Client) (
	*usermodel.User, *serviceerror.ServiceError) {
	ret := _m.Called(ctx, client)

	var r0 *usermodel.User
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*usermodel.User)
	}
	var r1 *serviceerror.ServiceError
	if ret.Get(1) != nil {
		r1 = ret.Get(1).(*serviceerror.ServiceError)
	}
	return r0, r1
}

// ImportStaticClients provides a mock function with given fields: ctx, clients, catalog.
func (_m *ClientServiceInterfaceMock) ImportStaticClients(ctx context.Context, clients []config.StaticClient,
	catalog []string) error {
	ret := _m.Called(ctx, clients, catalog)
	return ret.Error(0)
}

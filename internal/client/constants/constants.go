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

// Package constants defines constants and errors for client management.
package constants

import (
	"errors"

	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/error/serviceerror"
)

// Client errors for client resolution.
var (
	// ErrorInvalidClientCredentials is the error returned when the client id and secret do not resolve.
	ErrorInvalidClientCredentials = serviceerror.ServiceError{
		Type:             serviceerror.ClientErrorType,
		Code:             "CLT-1001",
		Error:            "Invalid client credentials",
		ErrorDescription: "The client id and secret pair does not resolve to a registered client",
	}
	// ErrorMissingClientID is the error returned when the client id is missing.
	ErrorMissingClientID = serviceerror.ServiceError{
		Type:             serviceerror.ClientErrorType,
		Code:             "CLT-1002",
		Error:            "Invalid request format",
		ErrorDescription: "Client ID is required",
	}
	// ErrorClientUserNotFound is the error returned when the user bound to a client does not exist.
	ErrorClientUserNotFound = serviceerror.ServiceError{
		Type:             serviceerror.ClientErrorType,
		Code:             "CLT-1003",
		Error:            "Client user not found",
		ErrorDescription: "The user bound to the client does not exist",
	}
)

// Server errors for client resolution.
var (
	// ErrorInternalServerError is the error returned when an internal server error occurs.
	ErrorInternalServerError = serviceerror.ServiceError{
		Type:             serviceerror.ServerErrorType,
		Code:             "CLT-5000",
		Error:            "Internal server error",
		ErrorDescription: "An unexpected error occurred while processing the request",
	}
)

var (
	// ErrClientNotFound is returned when the client is not found in the store.
	ErrClientNotFound = errors.New("client not found")
	// ErrClientAlreadyExists is returned when a client with the same id is already registered.
	ErrClientAlreadyExists = errors.New("client already exists")
)

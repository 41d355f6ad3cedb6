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

// Package constants defines error constants for user operations.
package constants

import (
	"errors"

	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/error/serviceerror"
)

// Client errors for user operations.
var (
	// ErrorMissingUserID is the error returned when user ID is missing.
	ErrorMissingUserID = serviceerror.ServiceError{
		Type:             serviceerror.ClientErrorType,
		Code:             "USR-1002",
		Error:            "Invalid request format",
		ErrorDescription: "User ID is required",
	}
	// ErrorUserNotFound is the error returned when a user is not found.
	ErrorUserNotFound = serviceerror.ServiceError{
		Type:             serviceerror.ClientErrorType,
		Code:             "USR-1003",
		Error:            "User not found",
		ErrorDescription: "The user with the specified id does not exist",
	}
	// ErrorMissingExternalID is the error returned when a federated lookup carries no external id.
	ErrorMissingExternalID = serviceerror.ServiceError{
		Type:             serviceerror.ClientErrorType,
		Code:             "USR-1004",
		Error:            "Invalid request format",
		ErrorDescription: "External ID is required",
	}
	// ErrorUsernameConflict is the error returned when username already exists.
	ErrorUsernameConflict = serviceerror.ServiceError{
		Type:             serviceerror.ClientErrorType,
		Code:             "USR-1014",
		Error:            "Username conflict",
		ErrorDescription: "A user with the same username already exists",
	}
	// ErrorAuthenticationFailed is the error returned when authentication fails.
	ErrorAuthenticationFailed = serviceerror.ServiceError{
		Type:             serviceerror.ClientErrorType,
		Code:             "USR-1018",
		Error:            "Authentication failed",
		ErrorDescription: "Invalid credentials provided",
	}
)

// Server errors for user operations.
var (
	// ErrorInternalServerError is the error returned when an internal server error occurs.
	ErrorInternalServerError = serviceerror.ServiceError{
		Type:             serviceerror.ServerErrorType,
		Code:             "USR-5000",
		Error:            "Internal server error",
		ErrorDescription: "An unexpected error occurred while processing the request",
	}
)

var (
	// ErrUserNotFound is returned when the user is not found in the system.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserAlreadyExists is returned when a user with the same id or username exists.
	ErrUserAlreadyExists = errors.New("user already exists")
)

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

package model

import (
	"fmt"
	"net/http"

	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/constants"
)

// ErrorResponse represents a per request OAuth2 failure. StatusCode is the HTTP status hint.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
	StatusCode       int    `json:"-"`
}

// GetStatusCode returns the HTTP status hint, defaulting to 400.
func (e *ErrorResponse) GetStatusCode() int {
	if e.StatusCode == 0 {
		return http.StatusBadRequest
	}
	return e.StatusCode
}

func newErrorResponse(code, description string, status int) *ErrorResponse {
	return &ErrorResponse{
		Error:            code,
		ErrorDescription: description,
		StatusCode:       status,
	}
}

// NewClientError returns an invalid_client failure.
func NewClientError(description string) *ErrorResponse {
	return newErrorResponse(constants.ErrorInvalidClient, description, http.StatusBadRequest)
}

// NewGrantError returns an invalid_grant failure.
func NewGrantError(description string) *ErrorResponse {
	return newErrorResponse(constants.ErrorInvalidGrant, description, http.StatusBadRequest)
}

// NewScopeError returns an invalid_scope failure.
func NewScopeError(description string) *ErrorResponse {
	return newErrorResponse(constants.ErrorInvalidScope, description, http.StatusBadRequest)
}

// NewUnsupportedGrantError returns an unsupported_grant_type failure.
func NewUnsupportedGrantError(description string) *ErrorResponse {
	return newErrorResponse(constants.ErrorUnsupportedGrantType, description, http.StatusBadRequest)
}

// NewInvalidRequestError returns an invalid_request failure.
func NewInvalidRequestError(description string) *ErrorResponse {
	return newErrorResponse(constants.ErrorInvalidRequest, description, http.StatusBadRequest)
}

// NewUnauthorizedClientError returns an unauthorized_client failure.
func NewUnauthorizedClientError(description string) *ErrorResponse {
	return newErrorResponse(constants.ErrorUnauthorizedClient, description, http.StatusBadRequest)
}

// NewServerError returns a server_error failure. The description never carries collaborator details.
func NewServerError() *ErrorResponse {
	return newErrorResponse(constants.ErrorServerError,
		"The server encountered an unexpected condition", http.StatusInternalServerError)
}

// ConfigurationError reports a missing or invalid collaborator detected while building the server.
type ConfigurationError struct {
	Component string
	Reason    string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration for %s: %s", e.Component, e.Reason)
}

// NewConfigurationError creates a ConfigurationError.
func NewConfigurationError(component, reason string) *ConfigurationError {
	return &ConfigurationError{Component: component, Reason: reason}
}

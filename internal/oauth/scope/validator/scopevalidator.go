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

// Package validator provides the scope validation of OAuth grants.
package validator

import (
	"fmt"
	"slices"
	"strings"

	clientmodel "github.com/JonasVannieuwenhuijsen/oauth2-server/internal/client/model"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/config"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/log"
)

// EmptyScopePolicy decides what a token with no recorded scope possesses.
type EmptyScopePolicy string

// Empty scope policies.
const (
	EmptyScopePolicyNoAccess  EmptyScopePolicy = "no_access"
	EmptyScopePolicyAllAccess EmptyScopePolicy = "all_access"
)

// ParseEmptyScopePolicy parses a configured policy value. An empty value selects no_access.
func ParseEmptyScopePolicy(value string) (EmptyScopePolicy, error) {
	switch EmptyScopePolicy(value) {
	case "", EmptyScopePolicyNoAccess:
		return EmptyScopePolicyNoAccess, nil
	case EmptyScopePolicyAllAccess:
		return EmptyScopePolicyAllAccess, nil
	default:
		return "", fmt.Errorf("unknown empty scope policy %q", value)
	}
}

// ScopeValidatorInterface defines the interface for scope validation.
type ScopeValidatorInterface interface {
	// ValidateScopes checks whether every requested scope may be granted to the client.
	ValidateScopes(requestedScopes []string, client *clientmodel.Client) ([]string, *ScopeError)
	// VerifyPossessed checks whether a token's recorded scope covers the required scopes.
	VerifyPossessed(tokenScopes []string, requiredScopes []string) bool
}

// ScopeError represents an error during scope validation.
type ScopeError struct {
	Error            string
	ErrorDescription string
}

// APIScopeValidator validates scopes against the client and the server catalog.
// Both the catalog and the empty scope policy are read from the runtime configuration per call.
type APIScopeValidator struct{}

// NewAPIScopeValidator creates a new instance of the APIScopeValidator.
func NewAPIScopeValidator() ScopeValidatorInterface {
	return &APIScopeValidator{}
}

// ValidateScopes returns exactly the requested scopes when all of them are allowed by the client and
// present in the catalog. Any other request fails as a whole.
func (sv *APIScopeValidator) ValidateScopes(requestedScopes []string,
	client *clientmodel.Client) ([]string, *ScopeError) {
	if len(requestedScopes) == 0 {
		return []string{}, nil
	}
	if client == nil {
		return nil, &ScopeError{
			Error:            "invalid_scope",
			ErrorDescription: "The requested scope is invalid",
		}
	}

	catalog := config.GetServerRuntime().Config.OAuth.Scope.Catalog
	granted := make([]string, 0, len(requestedScopes))
	for _, scope := range requestedScopes {
		if !client.IsAllowedScope(scope) || !slices.Contains(catalog, scope) {
			log.GetLogger().Debug("Rejected scope request",
				log.String(log.LoggerKeyComponentName, "APIScopeValidator"),
				log.String(log.LoggerKeyClientID, client.ID),
				log.String("scope", scope))
			return nil, &ScopeError{
				Error:            "invalid_scope",
				ErrorDescription: fmt.Sprintf("The scope '%s' is not allowed for the client", scope),
			}
		}
		granted = append(granted, scope)
	}

	return granted, nil
}

// VerifyPossessed reports whether the required scopes are a subset of the token scopes.
// A token without recorded scope is handled according to the empty scope policy.
func (sv *APIScopeValidator) VerifyPossessed(tokenScopes []string, requiredScopes []string) bool {
	if len(tokenScopes) == 0 {
		policy, err := ParseEmptyScopePolicy(config.GetServerRuntime().Config.OAuth.Scope.EmptyScopePolicy)
		if err != nil {
			return false
		}
		return policy == EmptyScopePolicyAllAccess
	}

	for _, scope := range requiredScopes {
		if !slices.Contains(tokenScopes, scope) {
			return false
		}
	}
	return true
}

// ParseScopes normalizes a space delimited scope string and an already split list into an
// ordered list without duplicates.
func ParseScopes(scope string, scopes []string) []string {
	fields := append(strings.Fields(scope), scopes...)
	parsed := make([]string, 0, len(fields))
	for _, s := range fields {
		s = strings.TrimSpace(s)
		if s == "" || slices.Contains(parsed, s) {
			continue
		}
		parsed = append(parsed, s)
	}
	return parsed
}

// IsSubset reports whether every scope in subset is also in superset.
func IsSubset(subset, superset []string) bool {
	for _, s := range subset {
		if !slices.Contains(superset, s) {
			return false
		}
	}
	return true
}

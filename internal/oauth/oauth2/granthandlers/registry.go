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

package granthandlers

import (
	"fmt"
	"sort"
	"sync"

	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/constants"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/model"
)

const registryComponentName = "GrantHandlerRegistry"

// GrantHandlerProviderInterface defines the lookup of grant handlers by grant type.
type GrantHandlerProviderInterface interface {
	GetGrantHandler(grantType constants.GrantType) (GrantHandlerInterface, error)
}

// GrantHandlerRegistry resolves grant handlers. Built-in grants are fixed at construction. Additional
// grants are registered by integrations and by explicit extensions, and an extension replaces an
// integration grant of the same name.
type GrantHandlerRegistry struct {
	mu           sync.RWMutex
	builtIns     map[constants.GrantType]GrantHandlerInterface
	integrations map[constants.GrantType]GrantHandlerInterface
	extensions   map[constants.GrantType]GrantHandlerInterface
}

// NewGrantHandlerRegistry creates a registry serving the given built-in handlers.
func NewGrantHandlerRegistry(builtIns map[constants.GrantType]GrantHandlerInterface) *GrantHandlerRegistry {
	fixed := make(map[constants.GrantType]GrantHandlerInterface, len(builtIns))
	for grantType, handler := range builtIns {
		fixed[grantType] = handler
	}
	return &GrantHandlerRegistry{
		builtIns:     fixed,
		integrations: make(map[constants.GrantType]GrantHandlerInterface),
		extensions:   make(map[constants.GrantType]GrantHandlerInterface),
	}
}

// RegisterIntegrationGrant registers a grant contributed by an integration.
func (r *GrantHandlerRegistry) RegisterIntegrationGrant(name string, handler GrantHandlerInterface) error {
	grantType, err := checkRegistration(name, handler)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.integrations[grantType] = handler
	return nil
}

// RegisterExtensionGrant registers an explicitly configured extension grant.
func (r *GrantHandlerRegistry) RegisterExtensionGrant(name string, handler GrantHandlerInterface) error {
	grantType, err := checkRegistration(name, handler)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.extensions[grantType] = handler
	return nil
}

// GetGrantHandler returns the handler of the grant type, or UnSupportedGrantTypeError.
func (r *GrantHandlerRegistry) GetGrantHandler(grantType constants.GrantType) (GrantHandlerInterface, error) {
	if handler, ok := r.builtIns[grantType]; ok {
		return handler, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if handler, ok := r.extensions[grantType]; ok {
		return handler, nil
	}
	if handler, ok := r.integrations[grantType]; ok {
		return handler, nil
	}
	return nil, constants.UnSupportedGrantTypeError
}

// GrantTypes returns the sorted names of every grant type the registry serves.
func (r *GrantHandlerRegistry) GrantTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[constants.GrantType]struct{})
	for _, table := range []map[constants.GrantType]GrantHandlerInterface{r.builtIns, r.integrations, r.extensions} {
		for grantType := range table {
			seen[grantType] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for grantType := range seen {
		names = append(names, string(grantType))
	}
	sort.Strings(names)
	return names
}

func checkRegistration(name string, handler GrantHandlerInterface) (constants.GrantType, error) {
	grantType := constants.GrantType(name)
	switch {
	case name == "":
		return "", model.NewConfigurationError(registryComponentName, "grant type name is empty")
	case handler == nil:
		return "", model.NewConfigurationError(registryComponentName,
			fmt.Sprintf("grant type %q has no handler", name))
	case grantType.IsBuiltIn():
		return "", model.NewConfigurationError(registryComponentName,
			fmt.Sprintf("grant type %q is built in and cannot be replaced", name))
	}
	return grantType, nil
}

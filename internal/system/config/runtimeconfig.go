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

package config

import (
	"sync"
	"sync/atomic"
)

// ServerRuntime holds the runtime configuration for the server.
type ServerRuntime struct {
	ServerHome string `yaml:"server_home"`
	Config     Config `yaml:"config"`
}

var (
	runtimeConfig atomic.Pointer[ServerRuntime]
	once          sync.Once
)

// InitializeServerRuntime initializes the ServerRuntime configuration.
func InitializeServerRuntime(serverHome string, config *Config) error {
	once.Do(func() {
		runtimeConfig.Store(&ServerRuntime{
			ServerHome: serverHome,
			Config:     *config,
		})
	})

	return nil
}

// GetServerRuntime returns the ServerRuntime configuration.
// Callers must not hold on to the returned value across requests; read it once per operation.
func GetServerRuntime() *ServerRuntime {
	runtime := runtimeConfig.Load()
	if runtime == nil {
		panic("ServerRuntime is not initialized")
	}
	return runtime
}

// UpdateServerConfig swaps the configuration of an initialized runtime.
// Subsequent calls to GetServerRuntime observe the new configuration.
func UpdateServerConfig(config *Config) {
	current := GetServerRuntime()
	runtimeConfig.Store(&ServerRuntime{
		ServerHome: current.ServerHome,
		Config:     *config,
	})
}

// ResetServerRuntime resets the ServerRuntime.
// This should only be used in tests to reset the singleton state.
func ResetServerRuntime() {
	runtimeConfig.Store(nil)
	once = sync.Once{}
}

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

// Package config provides structures and functions for loading and managing server configurations.
package config

import (
	"os"
	"path/filepath"

	yaml "gopkg.in/yaml.v3"

	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/log"
)

const (
	defaultHostname                   = "localhost"
	defaultPort                       = 8090
	defaultAccessTokenValidity        = 3600
	defaultRefreshTokenValidity       = 86400
	defaultAuthorizationCodeValidity  = 600
	defaultChallengeValidity          = 300
	defaultTokenFormat                = "opaque"
	defaultEmptyScopePolicy           = "no_access"
	defaultDirectoryGrantType         = "federated"
	defaultDirectorySubjectClaim      = "sub"
	defaultDataSourceType             = "memory"
	defaultRateLimitRequestsPerSecond = 10
	defaultRateLimitBurst             = 20
)

// ServerConfig holds the server configuration details.
type ServerConfig struct {
	Hostname string `yaml:"hostname"`
	Port     int    `yaml:"port"`
	HTTPOnly bool   `yaml:"http_only"`
}

// SecurityConfig holds the security configuration details.
type SecurityConfig struct {
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

// DataSource holds the individual database connection details.
type DataSource struct {
	Type            string `yaml:"type"`
	Hostname        string `yaml:"hostname"`
	Port            int    `yaml:"port"`
	Name            string `yaml:"name"`
	Username        string `yaml:"username"`
	Password        string `yaml:"password"`
	SSLMode         string `yaml:"sslmode"`
	Path            string `yaml:"path"`
	Options         string `yaml:"options"`
	MaxOpenConns    int    `yaml:"max_open_conns"`
	MaxIdleConns    int    `yaml:"max_idle_conns"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime"`
}

// DatabaseConfig holds the different database configuration details.
// The identity database holds clients and users, the runtime database holds codes and tokens.
type DatabaseConfig struct {
	Identity DataSource `yaml:"identity"`
	Runtime  DataSource `yaml:"runtime"`
}

// AccessTokenConfig holds the access token configuration details.
type AccessTokenConfig struct {
	ValidityPeriod int64 `yaml:"validity_period"`
}

// RefreshTokenConfig holds the refresh token configuration details.
type RefreshTokenConfig struct {
	ValidityPeriod int64 `yaml:"validity_period"`
	RenewOnGrant   bool  `yaml:"renew_on_grant"`
}

// AuthorizationCodeConfig holds the authorization code configuration details.
type AuthorizationCodeConfig struct {
	ValidityPeriod int64 `yaml:"validity_period"`
}

// TokenConfig holds the token generation configuration details.
type TokenConfig struct {
	Format     string `yaml:"format"`
	Issuer     string `yaml:"issuer"`
	SigningKey string `yaml:"signing_key"`
}

// ScopeConfig holds the global scope catalog and the policy applied to tokens without scope.
type ScopeConfig struct {
	Catalog          []string `yaml:"catalog"`
	EmptyScopePolicy string   `yaml:"empty_scope_policy"`
}

// PKCEConfig holds the PKCE configuration details.
type PKCEConfig struct {
	StrictVerifierFormat bool `yaml:"strict_verifier_format"`
}

// OAuthConfig holds the OAuth configuration details.
type OAuthConfig struct {
	AccessToken       AccessTokenConfig       `yaml:"access_token"`
	RefreshToken      RefreshTokenConfig      `yaml:"refresh_token"`
	AuthorizationCode AuthorizationCodeConfig `yaml:"authorization_code"`
	Token             TokenConfig             `yaml:"token"`
	Scope             ScopeConfig             `yaml:"scope"`
	PKCE              PKCEConfig              `yaml:"pkce"`
}

// DirectoryConfig holds the configuration of the federated directory integration.
type DirectoryConfig struct {
	Enabled                 bool     `yaml:"enabled"`
	GrantType               string   `yaml:"grant_type"`
	Issuer                  string   `yaml:"issuer"`
	Audience                string   `yaml:"audience"`
	HMACSecret              string   `yaml:"hmac_secret"`
	PublicKeyFile           string   `yaml:"public_key_file"`
	SigningMethods          []string `yaml:"signing_methods"`
	SubjectClaim            string   `yaml:"subject_claim"`
	Leeway                  int64    `yaml:"leeway"`
	ChallengeValidityPeriod int64    `yaml:"challenge_validity_period"`
	AutoProvision           bool     `yaml:"auto_provision"`
}

// IntegrationsConfig holds the optional integrations of the server.
type IntegrationsConfig struct {
	Directory DirectoryConfig `yaml:"directory"`
}

// RateLimitConfig holds the per client rate limit applied to the OAuth endpoints.
type RateLimitConfig struct {
	Enabled           bool    `yaml:"enabled"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// ObservabilityConfig holds the tracing and metrics configuration details.
type ObservabilityConfig struct {
	Enabled        bool   `yaml:"enabled"`
	ServiceVersion string `yaml:"service_version"`
}

// StaticClient holds a client registered through the configuration file.
type StaticClient struct {
	ID           string   `yaml:"id"`
	SecretHash   string   `yaml:"secret_hash"`
	RedirectURIs []string `yaml:"redirect_uris"`
	Scopes       []string `yaml:"scopes"`
	GrantTypes   []string `yaml:"grant_types"`
	UserID       string   `yaml:"user_id"`
}

// StaticUser holds a user registered through the configuration file.
type StaticUser struct {
	ID           string `yaml:"id"`
	Username     string `yaml:"username"`
	PasswordHash string `yaml:"password_hash"`
	ExternalID   string `yaml:"external_id"`
}

// Config holds the complete configuration details of the server.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Security      SecurityConfig      `yaml:"security"`
	Database      DatabaseConfig      `yaml:"database"`
	OAuth         OAuthConfig         `yaml:"oauth"`
	Integrations  IntegrationsConfig  `yaml:"integrations"`
	RateLimit     RateLimitConfig     `yaml:"rate_limit"`
	Observability ObservabilityConfig `yaml:"observability"`
	Clients       []StaticClient      `yaml:"clients"`
	Users         []StaticUser        `yaml:"users"`
}

// LoadConfig loads the configurations from the specified YAML file.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	path = filepath.Clean(path)

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if ferr := file.Close(); ferr != nil {
			log.GetLogger().Error("Failed to close config file", log.Error(ferr))
		}
	}()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// applyDefaults fills the unset configuration values with the server defaults.
func applyDefaults(cfg *Config) {
	if cfg.Server.Hostname == "" {
		cfg.Server.Hostname = defaultHostname
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = defaultPort
	}

	if cfg.Database.Identity.Type == "" {
		cfg.Database.Identity.Type = defaultDataSourceType
	}
	if cfg.Database.Runtime.Type == "" {
		cfg.Database.Runtime.Type = defaultDataSourceType
	}

	if cfg.OAuth.AccessToken.ValidityPeriod == 0 {
		cfg.OAuth.AccessToken.ValidityPeriod = defaultAccessTokenValidity
	}
	if cfg.OAuth.RefreshToken.ValidityPeriod == 0 {
		cfg.OAuth.RefreshToken.ValidityPeriod = defaultRefreshTokenValidity
	}
	if cfg.OAuth.AuthorizationCode.ValidityPeriod == 0 {
		cfg.OAuth.AuthorizationCode.ValidityPeriod = defaultAuthorizationCodeValidity
	}
	if cfg.OAuth.Token.Format == "" {
		cfg.OAuth.Token.Format = defaultTokenFormat
	}
	if cfg.OAuth.Scope.EmptyScopePolicy == "" {
		cfg.OAuth.Scope.EmptyScopePolicy = defaultEmptyScopePolicy
	}

	directory := &cfg.Integrations.Directory
	if directory.GrantType == "" {
		directory.GrantType = defaultDirectoryGrantType
	}
	if directory.SubjectClaim == "" {
		directory.SubjectClaim = defaultDirectorySubjectClaim
	}
	if directory.ChallengeValidityPeriod == 0 {
		directory.ChallengeValidityPeriod = defaultChallengeValidity
	}

	if cfg.RateLimit.RequestsPerSecond == 0 {
		cfg.RateLimit.RequestsPerSecond = defaultRateLimitRequestsPerSecond
	}
	if cfg.RateLimit.Burst == 0 {
		cfg.RateLimit.Burst = defaultRateLimitBurst
	}
}

// GetAccessTokenValidityPeriod returns the access token lifetime in seconds.
func (c *Config) GetAccessTokenValidityPeriod() int64 {
	if c.OAuth.AccessToken.ValidityPeriod <= 0 {
		return defaultAccessTokenValidity
	}
	return c.OAuth.AccessToken.ValidityPeriod
}

// GetRefreshTokenValidityPeriod returns the refresh token lifetime in seconds.
func (c *Config) GetRefreshTokenValidityPeriod() int64 {
	if c.OAuth.RefreshToken.ValidityPeriod <= 0 {
		return defaultRefreshTokenValidity
	}
	return c.OAuth.RefreshToken.ValidityPeriod
}

// GetAuthorizationCodeValidityPeriod returns the authorization code lifetime in seconds.
func (c *Config) GetAuthorizationCodeValidityPeriod() int64 {
	if c.OAuth.AuthorizationCode.ValidityPeriod <= 0 {
		return defaultAuthorizationCodeValidity
	}
	return c.OAuth.AuthorizationCode.ValidityPeriod
}

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

// Package tokens mints and persists OAuth2 access and refresh tokens.
package tokens

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/constants"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/config"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/utils"
)

// minSigningKeyLength is the shortest HS256 key accepted, in bytes.
const minSigningKeyLength = 32

// TokenClaims describes the token a generator is asked to produce.
type TokenClaims struct {
	Kind      constants.TokenKind
	ClientID  string
	UserID    string
	Scopes    []string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenGeneratorInterface produces unguessable token values.
type TokenGeneratorInterface interface {
	GenerateToken(claims TokenClaims) (string, error)
}

// OpaqueTokenGenerator generates random base64url encoded values.
type OpaqueTokenGenerator struct {
	length int
}

// NewOpaqueTokenGenerator creates a generator of opaque values.
func NewOpaqueTokenGenerator() *OpaqueTokenGenerator {
	return &OpaqueTokenGenerator{length: constants.OpaqueTokenLength}
}

// GenerateToken returns a random value. The claims are recorded by the store, not in the value.
func (g *OpaqueTokenGenerator) GenerateToken(_ TokenClaims) (string, error) {
	return utils.GenerateSecureToken(g.length)
}

// JWTAccessClaims are the claims of a self contained token.
type JWTAccessClaims struct {
	Scope    string `json:"scope,omitempty"`
	TokenUse string `json:"token_use"`
	ClientID string `json:"client_id"`
	jwt.RegisteredClaims
}

// JWTTokenGenerator generates HS256 signed JWTs. The random jti keeps every value unique.
type JWTTokenGenerator struct {
	issuer string
	key    []byte
}

// NewJWTTokenGenerator creates a JWT generator.
func NewJWTTokenGenerator(issuer string, signingKey []byte) (*JWTTokenGenerator, error) {
	if len(signingKey) < minSigningKeyLength {
		return nil, fmt.Errorf("signing key must be at least %d bytes", minSigningKeyLength)
	}
	return &JWTTokenGenerator{issuer: issuer, key: signingKey}, nil
}

// GenerateToken signs the claims.
func (g *JWTTokenGenerator) GenerateToken(claims TokenClaims) (string, error) {
	subject := claims.UserID
	if subject == "" {
		subject = claims.ClientID
	}
	jwtClaims := JWTAccessClaims{
		Scope:    strings.Join(claims.Scopes, " "),
		TokenUse: string(claims.Kind),
		ClientID: claims.ClientID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    g.issuer,
			Subject:   subject,
			Audience:  jwt.ClaimStrings{claims.ClientID},
			ExpiresAt: jwt.NewNumericDate(claims.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(claims.IssuedAt),
			ID:        utils.GenerateUUID(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, jwtClaims).SignedString(g.key)
}

// ParseToken verifies a token produced by the generator and returns its claims.
func (g *JWTTokenGenerator) ParseToken(value string) (*JWTAccessClaims, error) {
	parsed, err := jwt.ParseWithClaims(value, &JWTAccessClaims{}, func(t *jwt.Token) (interface{}, error) {
		return g.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(g.issuer))
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*JWTAccessClaims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// NewTokenGenerator builds the generator selected by the token configuration.
func NewTokenGenerator(cfg config.TokenConfig) (TokenGeneratorInterface, error) {
	switch cfg.Format {
	case "", constants.TokenFormatOpaque:
		return NewOpaqueTokenGenerator(), nil
	case constants.TokenFormatJWT:
		return NewJWTTokenGenerator(cfg.Issuer, []byte(cfg.SigningKey))
	default:
		return nil, fmt.Errorf("unsupported token format %q", cfg.Format)
	}
}

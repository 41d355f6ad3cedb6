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

// Package federation verifies identities asserted by an external directory and keeps the PKCE
// challenges bound to a federated sign in.
package federation

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/config"
)

// ErrInvalidAssertion is returned when a directory assertion does not verify.
var ErrInvalidAssertion = errors.New("invalid directory assertion")

// DirectoryIdentity is the identity a directory asserted.
type DirectoryIdentity struct {
	ExternalID string
	Claims     map[string]interface{}
}

// DirectoryVerifierInterface verifies assertions issued by the directory.
type DirectoryVerifierInterface interface {
	VerifyAssertion(ctx context.Context, assertion string) (*DirectoryIdentity, error)
}

// VerifierOptions configures a JWTDirectoryVerifier.
type VerifierOptions struct {
	Issuer       string
	Audience     string
	SubjectClaim string
	Leeway       time.Duration
	Methods      []string
	// Key is a []byte secret for HMAC methods or an *rsa.PublicKey for RSA methods.
	Key interface{}
}

// JWTDirectoryVerifier verifies directory assertions carried as signed JWTs.
type JWTDirectoryVerifier struct {
	opts   VerifierOptions
	parser *jwt.Parser
}

// NewJWTDirectoryVerifier creates a verifier. Signature, issuer, audience and expiry are checked.
func NewJWTDirectoryVerifier(opts VerifierOptions) (*JWTDirectoryVerifier, error) {
	if opts.Key == nil {
		return nil, errors.New("directory verification key is required")
	}
	if len(opts.Methods) == 0 {
		return nil, errors.New("at least one signing method is required")
	}
	if opts.SubjectClaim == "" {
		opts.SubjectClaim = "sub"
	}

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods(opts.Methods),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(opts.Leeway),
	}
	if opts.Issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(opts.Issuer))
	}
	if opts.Audience != "" {
		parserOpts = append(parserOpts, jwt.WithAudience(opts.Audience))
	}

	return &JWTDirectoryVerifier{
		opts:   opts,
		parser: jwt.NewParser(parserOpts...),
	}, nil
}

// NewJWTDirectoryVerifierFromConfig builds a verifier from the directory integration configuration.
// Exactly one of the HMAC secret and the public key file must be configured.
func NewJWTDirectoryVerifierFromConfig(cfg config.DirectoryConfig, serverHome string) (*JWTDirectoryVerifier, error) {
	opts := VerifierOptions{
		Issuer:       cfg.Issuer,
		Audience:     cfg.Audience,
		SubjectClaim: cfg.SubjectClaim,
		Leeway:       time.Duration(cfg.Leeway) * time.Second,
		Methods:      cfg.SigningMethods,
	}

	switch {
	case cfg.HMACSecret != "" && cfg.PublicKeyFile != "":
		return nil, errors.New("configure either hmac_secret or public_key_file for the directory, not both")
	case cfg.HMACSecret != "":
		opts.Key = []byte(cfg.HMACSecret)
		if len(opts.Methods) == 0 {
			opts.Methods = []string{jwt.SigningMethodHS256.Alg()}
		}
	case cfg.PublicKeyFile != "":
		keyPath := cfg.PublicKeyFile
		if !filepath.IsAbs(keyPath) {
			keyPath = filepath.Join(serverHome, keyPath)
		}
		pemBytes, err := os.ReadFile(filepath.Clean(keyPath))
		if err != nil {
			return nil, fmt.Errorf("failed to read directory public key: %w", err)
		}
		publicKey, err := jwt.ParseRSAPublicKeyFromPEM(pemBytes)
		if err != nil {
			return nil, fmt.Errorf("failed to parse directory public key: %w", err)
		}
		opts.Key = publicKey
		if len(opts.Methods) == 0 {
			opts.Methods = []string{jwt.SigningMethodRS256.Alg()}
		}
	default:
		return nil, errors.New("directory integration requires hmac_secret or public_key_file")
	}

	return NewJWTDirectoryVerifier(opts)
}

// VerifyAssertion verifies the assertion and extracts the external identity from the subject claim.
func (v *JWTDirectoryVerifier) VerifyAssertion(_ context.Context, assertion string) (*DirectoryIdentity, error) {
	if assertion == "" {
		return nil, ErrInvalidAssertion
	}

	claims := jwt.MapClaims{}
	token, err := v.parser.ParseWithClaims(assertion, claims, func(*jwt.Token) (interface{}, error) {
		return v.opts.Key, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAssertion, err)
	}
	if !token.Valid {
		return nil, ErrInvalidAssertion
	}

	externalID, ok := claims[v.opts.SubjectClaim].(string)
	if !ok || externalID == "" {
		return nil, fmt.Errorf("%w: missing %s claim", ErrInvalidAssertion, v.opts.SubjectClaim)
	}

	return &DirectoryIdentity{
		ExternalID: externalID,
		Claims:     claims,
	}, nil
}

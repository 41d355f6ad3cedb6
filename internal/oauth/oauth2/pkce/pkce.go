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

// Package pkce implements the Proof Key for Code Exchange matching rule shared by the
// authorization code grant and the federated grant.
package pkce

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
)

// Code challenge methods.
const (
	CodeChallengeMethodPlain = "plain"
	CodeChallengeMethodS256  = "S256"
)

const (
	minVerifierLength = 43
	maxVerifierLength = 128
	s256ChallengeLen  = 43
)

// PKCE validation errors.
var (
	ErrMissingCodeVerifier    = errors.New("code verifier is required")
	ErrInvalidCodeVerifier    = errors.New("invalid code verifier")
	ErrInvalidCodeChallenge   = errors.New("invalid code challenge")
	ErrInvalidChallengeMethod = errors.New("invalid code challenge method")
	ErrPKCEValidationFailed   = errors.New("PKCE validation failed")
)

type options struct {
	strict bool
}

// Option configures a PKCE check.
type Option func(*options)

// WithStrictVerifierFormat enforces the RFC 7636 verifier and plain challenge format.
func WithStrictVerifierFormat(strict bool) Option {
	return func(o *options) {
		o.strict = strict
	}
}

func buildOptions(opts []Option) options {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NormalizeMethod returns the challenge method with the RFC default applied.
func NormalizeMethod(method string) string {
	if method == "" {
		return CodeChallengeMethodPlain
	}
	return method
}

// ValidatePKCE checks a code verifier against a recorded challenge.
// A recorded challenge always requires a verifier.
func ValidatePKCE(codeChallenge, codeChallengeMethod, codeVerifier string, opts ...Option) error {
	o := buildOptions(opts)
	method := NormalizeMethod(codeChallengeMethod)

	if codeChallenge == "" {
		return ErrInvalidCodeChallenge
	}
	if codeVerifier == "" {
		return ErrMissingCodeVerifier
	}
	if o.strict && !isValidVerifier(codeVerifier) {
		return ErrInvalidCodeVerifier
	}

	expected, err := transform(codeVerifier, method)
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare([]byte(expected), []byte(codeChallenge)) != 1 {
		return ErrPKCEValidationFailed
	}
	return nil
}

// GenerateCodeChallenge derives the challenge of a verifier for the given method.
func GenerateCodeChallenge(codeVerifier, method string) (string, error) {
	if codeVerifier == "" {
		return "", ErrInvalidCodeVerifier
	}
	return transform(codeVerifier, NormalizeMethod(method))
}

// ValidateCodeChallenge checks the format of a challenge presented at issuance.
// S256 challenges are always exactly 43 base64url characters. Plain challenges follow the
// verifier format only in strict mode.
func ValidateCodeChallenge(codeChallenge, codeChallengeMethod string, opts ...Option) error {
	o := buildOptions(opts)

	switch NormalizeMethod(codeChallengeMethod) {
	case CodeChallengeMethodS256:
		if len(codeChallenge) != s256ChallengeLen {
			return ErrInvalidCodeChallenge
		}
		for _, c := range codeChallenge {
			if !isBase64URLChar(c) {
				return ErrInvalidCodeChallenge
			}
		}
		return nil
	case CodeChallengeMethodPlain:
		if codeChallenge == "" || len(codeChallenge) > maxVerifierLength {
			return ErrInvalidCodeChallenge
		}
		if o.strict && !isValidVerifier(codeChallenge) {
			return ErrInvalidCodeChallenge
		}
		return nil
	default:
		return ErrInvalidChallengeMethod
	}
}

func transform(codeVerifier, method string) (string, error) {
	switch method {
	case CodeChallengeMethodPlain:
		return codeVerifier, nil
	case CodeChallengeMethodS256:
		sum := sha256.Sum256([]byte(codeVerifier))
		return base64.RawURLEncoding.EncodeToString(sum[:]), nil
	default:
		return "", ErrInvalidChallengeMethod
	}
}

// isValidVerifier checks the RFC 7636 section 4.1 format.
func isValidVerifier(v string) bool {
	if len(v) < minVerifierLength || len(v) > maxVerifierLength {
		return false
	}
	for _, c := range v {
		if !isUnreservedChar(c) {
			return false
		}
	}
	return true
}

func isUnreservedChar(c rune) bool {
	return isBase64URLChar(c) || c == '.' || c == '~'
}

func isBase64URLChar(c rune) bool {
	return (c >= 'A' && c <= 'Z') ||
		(c >= 'a' && c <= 'z') ||
		(c >= '0' && c <= '9') ||
		c == '-' || c == '_'
}

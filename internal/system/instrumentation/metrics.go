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

package instrumentation

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the counters recorded by the OAuth services.
type Metrics struct {
	TokensIssued         metric.Int64Counter
	GrantFailures        metric.Int64Counter
	CodesIssued          metric.Int64Counter
	CodesRedeemed        metric.Int64Counter
	CodeReuseDetected    metric.Int64Counter
	TokensRevoked        metric.Int64Counter
	PKCEValidationFailed metric.Int64Counter
}

func newMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	counters := []struct {
		target      *metric.Int64Counter
		name        string
		description string
	}{
		{&m.TokensIssued, "oauth.tokens.issued", "Number of successful token grants"},
		{&m.GrantFailures, "oauth.grants.failed", "Number of token grants rejected with an OAuth error"},
		{&m.CodesIssued, "oauth.codes.issued", "Number of authorization codes issued"},
		{&m.CodesRedeemed, "oauth.codes.redeemed", "Number of authorization codes redeemed"},
		{&m.CodeReuseDetected, "oauth.codes.reuse_detected", "Number of redemption attempts on consumed codes"},
		{&m.TokensRevoked, "oauth.tokens.revoked", "Number of tokens revoked"},
		{&m.PKCEValidationFailed, "oauth.pkce.failed", "Number of failed PKCE verifications"},
	}

	for _, c := range counters {
		counter, err := meter.Int64Counter(c.name, metric.WithDescription(c.description))
		if err != nil {
			return nil, err
		}
		*c.target = counter
	}
	return m, nil
}

// RecordTokenIssued records a successful grant.
func (m *Metrics) RecordTokenIssued(ctx context.Context, grantType string, withRefresh bool) {
	if m == nil {
		return
	}
	m.TokensIssued.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrGrantType, grantType),
		attribute.Bool("oauth.refresh_issued", withRefresh),
	))
}

// RecordGrantFailure records a grant rejected with the OAuth error code.
func (m *Metrics) RecordGrantFailure(ctx context.Context, grantType, errorCode string) {
	if m == nil {
		return
	}
	m.GrantFailures.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrGrantType, grantType),
		attribute.String(AttrError, errorCode),
	))
}

// RecordCodeIssued records an issued authorization code.
func (m *Metrics) RecordCodeIssued(ctx context.Context) {
	if m == nil {
		return
	}
	m.CodesIssued.Add(ctx, 1)
}

// RecordCodeRedeemed records a redeemed authorization code.
func (m *Metrics) RecordCodeRedeemed(ctx context.Context) {
	if m == nil {
		return
	}
	m.CodesRedeemed.Add(ctx, 1)
}

// RecordCodeReuse records a redemption attempt on a consumed code.
func (m *Metrics) RecordCodeReuse(ctx context.Context) {
	if m == nil {
		return
	}
	m.CodeReuseDetected.Add(ctx, 1)
}

// RecordTokenRevoked records a revocation with the type of the revoked token.
func (m *Metrics) RecordTokenRevoked(ctx context.Context, tokenType string) {
	if m == nil {
		return
	}
	m.TokensRevoked.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrTokenType, tokenType)))
}

// RecordPKCEFailure records a failed PKCE verification.
func (m *Metrics) RecordPKCEFailure(ctx context.Context, method string) {
	if m == nil {
		return
	}
	m.PKCEValidationFailed.Add(ctx, 1, metric.WithAttributes(attribute.String("oauth.pkce.method", method)))
}

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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

type InstrumentationTestSuite struct {
	suite.Suite
}

func TestInstrumentationSuite(t *testing.T) {
	suite.Run(t, new(InstrumentationTestSuite))
}

func (suite *InstrumentationTestSuite) TestEnabledRecordsSpans() {
	recorder := tracetest.NewSpanRecorder()
	inst, err := New(Config{Enabled: true}, WithSpanProcessor(recorder))
	suite.Require().NoError(err)
	defer func() { _ = inst.Shutdown(context.Background()) }()

	_, span := inst.StartSpan(context.Background(), "token.grant", attribute.String(AttrClientID, "client-a"))
	RecordOAuthError(span, "invalid_grant", "Invalid authorization code")
	span.End()

	ended := recorder.Ended()
	suite.Require().Len(ended, 1)
	assert.Equal(suite.T(), "token.grant", ended[0].Name())
	assert.Equal(suite.T(), codes.Error, ended[0].Status().Code)
	assert.Contains(suite.T(), ended[0].Attributes(), attribute.String(AttrError, "invalid_grant"))
	assert.Contains(suite.T(), ended[0].Attributes(), attribute.String(AttrClientID, "client-a"))
}

func (suite *InstrumentationTestSuite) TestRecordError() {
	recorder := tracetest.NewSpanRecorder()
	inst, err := New(Config{Enabled: true, ServiceVersion: "1.0.0"}, WithSpanProcessor(recorder))
	suite.Require().NoError(err)

	_, span := inst.StartSpan(context.Background(), "store.write")
	RecordError(span, errors.New("boom"))
	RecordError(span, nil)
	span.End()

	ended := recorder.Ended()
	suite.Require().Len(ended, 1)
	assert.Len(suite.T(), ended[0].Events(), 1)
	assert.Equal(suite.T(), "boom", ended[0].Status().Description)
}

func (suite *InstrumentationTestSuite) TestDisabledIsNoop() {
	inst, err := New(Config{Enabled: false})
	suite.Require().NoError(err)

	_, span := inst.StartSpan(context.Background(), "ignored")
	assert.False(suite.T(), span.SpanContext().IsValid())
	span.End()

	assert.NotPanics(suite.T(), func() {
		ctx := context.Background()
		inst.Metrics().RecordTokenIssued(ctx, "password", true)
		inst.Metrics().RecordGrantFailure(ctx, "password", "invalid_grant")
		inst.Metrics().RecordCodeIssued(ctx)
		inst.Metrics().RecordCodeRedeemed(ctx)
		inst.Metrics().RecordCodeReuse(ctx)
		inst.Metrics().RecordTokenRevoked(ctx, "refresh_token")
		inst.Metrics().RecordPKCEFailure(ctx, "S256")
	})
	assert.NoError(suite.T(), inst.Shutdown(context.Background()))
}

func (suite *InstrumentationTestSuite) TestNilMetricsIsSafe() {
	var m *Metrics
	assert.NotPanics(suite.T(), func() {
		m.RecordTokenIssued(context.Background(), "password", false)
	})
}

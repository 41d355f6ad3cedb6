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

// Package instrumentation provides tracing and metric instruments for the OAuth flows.
package instrumentation

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/constants"
)

const (
	instrumentationName   = "github.com/JonasVannieuwenhuijsen/oauth2-server"
	defaultServiceVersion = "unknown"
)

// Span attribute keys. Values must never carry token, code or secret material.
const (
	AttrClientID  = "oauth.client_id"
	AttrUserID    = "oauth.user_id"
	AttrGrantType = "oauth.grant_type"
	AttrScope     = "oauth.scope"
	AttrError     = "oauth.error"
	AttrTokenType = "oauth.token_type" //nolint:gosec
)

// Config holds instrumentation configuration.
type Config struct {
	ServiceName    string
	ServiceVersion string
	Enabled        bool
}

type options struct {
	spanProcessors []sdktrace.SpanProcessor
	meterProvider  metric.MeterProvider
}

// Option customizes the instrumentation providers.
type Option func(*options)

// WithSpanProcessor registers an additional span processor on the tracer provider.
func WithSpanProcessor(sp sdktrace.SpanProcessor) Option {
	return func(o *options) {
		o.spanProcessors = append(o.spanProcessors, sp)
	}
}

// WithMeterProvider overrides the meter provider used for metric instruments.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) {
		o.meterProvider = mp
	}
}

// Instrumentation bundles the tracer and metric instruments used by the services.
type Instrumentation struct {
	tracer   trace.Tracer
	metrics  *Metrics
	shutdown func(context.Context) error
}

// New creates the instrumentation. When disabled, no-op providers are used.
func New(cfg Config, opts ...Option) (*Instrumentation, error) {
	if cfg.ServiceName == "" {
		cfg.ServiceName = constants.ServerName
	}
	if cfg.ServiceVersion == "" {
		cfg.ServiceVersion = defaultServiceVersion
	}
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	if !cfg.Enabled {
		return NewNoop(), nil
	}

	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	tpOpts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}
	for _, sp := range o.spanProcessors {
		tpOpts = append(tpOpts, sdktrace.WithSpanProcessor(sp))
	}
	tp := sdktrace.NewTracerProvider(tpOpts...)

	mp := o.meterProvider
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	metrics, err := newMetrics(mp.Meter(instrumentationName))
	if err != nil {
		_ = tp.Shutdown(context.Background())
		return nil, fmt.Errorf("failed to create metrics: %w", err)
	}

	return &Instrumentation{
		tracer:   tp.Tracer(instrumentationName),
		metrics:  metrics,
		shutdown: tp.Shutdown,
	}, nil
}

// NewNoop returns instrumentation that records nothing.
func NewNoop() *Instrumentation {
	metrics, _ := newMetrics(metricnoop.NewMeterProvider().Meter(instrumentationName))
	return &Instrumentation{
		tracer:   tracenoop.NewTracerProvider().Tracer(instrumentationName),
		metrics:  metrics,
		shutdown: func(context.Context) error { return nil },
	}
}

// Tracer returns the tracer.
func (i *Instrumentation) Tracer() trace.Tracer {
	return i.tracer
}

// Metrics returns the metric instruments.
func (i *Instrumentation) Metrics() *Metrics {
	return i.metrics
}

// StartSpan starts an internal span with the given attributes.
func (i *Instrumentation) StartSpan(ctx context.Context, name string,
	attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return i.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// Shutdown flushes and stops the tracer provider.
func (i *Instrumentation) Shutdown(ctx context.Context) error {
	return i.shutdown(ctx)
}

// RecordError records an error on the span and marks it failed. Nil safe.
func RecordError(span trace.Span, err error) {
	if span == nil || err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// RecordOAuthError marks the span failed with an OAuth error code.
func RecordOAuthError(span trace.Span, code, description string) {
	if span == nil {
		return
	}
	span.SetAttributes(attribute.String(AttrError, code))
	span.SetStatus(codes.Error, description)
}

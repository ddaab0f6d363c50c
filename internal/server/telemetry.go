// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package server

import (
	"context"
	"fmt"

	"github.com/AccelByte/extend-daily-progression/pkg/common"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/propagators/b3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// progressionPropagator accepts B3 headers from Zipkin-instrumented callers
// and W3C trace context and baggage from everything else.
func progressionPropagator() propagation.TextMapPropagator {
	return propagation.NewCompositeTextMapPropagator(
		b3.New(b3.WithInjectEncoding(b3.B3MultipleHeader)),
		propagation.TraceContext{},
		propagation.Baggage{},
	)
}

// SetupTelemetry installs the global tracer provider used by every
// mission.* span and returns the function that flushes it.
//
// ============================================================
// DEVELOPER: Tracing
// ============================================================
// Enabled with OTEL_ENABLED=true. Spans go to the Zipkin
// collector at OTEL_EXPORTER_ZIPKIN_ENDPOINT, or to
// common.DefaultZipkinEndpoint when unset.
//
// Sampling and resource attributes live in pkg/common/tracer.go.
// Controller spans are opened through common.NewScope, so new
// operations get a span and a trace_id log field for free.
// ============================================================
func SetupTelemetry(ctx context.Context, serviceName, environment, endpoint string) (func(context.Context) error, error) {
	provider, err := common.NewTracerProvider(serviceName, environment, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer provider: %w", err)
	}

	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(progressionPropagator())
	logrus.WithFields(logrus.Fields{
		"service":     serviceName,
		"environment": environment,
	}).Info("tracing enabled")

	return func(ctx context.Context) error {
		if err := provider.ForceFlush(ctx); err != nil {
			logrus.Warnf("failed to flush spans: %v", err)
		}
		if err := provider.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to stop tracer provider: %w", err)
		}
		return nil
	}, nil
}

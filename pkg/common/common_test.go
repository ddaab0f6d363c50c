// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package common

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestSplitList(t *testing.T) {
	got := SplitList(" a:9092, ,b:9092,")
	if !reflect.DeepEqual(got, []string{"a:9092", "b:9092"}) {
		t.Errorf("SplitList() = %v", got)
	}
	if SplitList("") != nil {
		t.Error("SplitList(\"\") should be nil")
	}
}

func TestScope_RecordsSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	scope := NewScope(context.Background(), "mission.submit").WithUser("kid-1")
	child := scope.NewChildScope("mission.grant")
	child.TraceError(errors.New("store down"))
	child.Finish()
	scope.TraceEvent("step rewarded")
	scope.Finish()

	spans := recorder.Ended()
	if len(spans) != 2 {
		t.Fatalf("ended spans = %d, expected 2", len(spans))
	}
	if spans[0].Name() != "mission.grant" || spans[1].Name() != "mission.submit" {
		t.Errorf("span names = %s, %s", spans[0].Name(), spans[1].Name())
	}
	if spans[0].Parent().SpanID() != spans[1].SpanContext().SpanID() {
		t.Error("child span should be parented to the scope span")
	}
	if scope.TraceID == "" || child.TraceID != scope.TraceID {
		t.Errorf("trace ids = %s, %s", scope.TraceID, child.TraceID)
	}
}

func TestNewTracerProvider(t *testing.T) {
	provider, err := NewTracerProvider("daily-progression", "test", "")
	if err != nil {
		t.Fatalf("NewTracerProvider() error = %v", err)
	}
	if err := provider.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

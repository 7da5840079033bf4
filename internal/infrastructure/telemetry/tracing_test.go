package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func setupRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})
	return recorder
}

func attrMap(attrs []attribute.KeyValue) map[string]attribute.Value {
	out := make(map[string]attribute.Value, len(attrs))
	for _, kv := range attrs {
		out[string(kv.Key)] = kv.Value
	}
	return out
}

func TestStartSpan(t *testing.T) {
	recorder := setupRecorder(t)

	ctx, span := StartSpan(context.Background(), "shopify.getCart",
		WithSpanKind(trace.SpanKindClient),
		WithAttribute(SpanAttrCartID, "gid://shopify/Cart/1"),
		WithAttribute(SpanAttrQuantity, 2),
	)
	assert.NotEmpty(t, GetTraceID(ctx))
	assert.NotEmpty(t, GetSpanID(ctx))
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "shopify.getCart", spans[0].Name())
	assert.Equal(t, trace.SpanKindClient, spans[0].SpanKind())
	assert.Equal(t, TracerName, spans[0].InstrumentationScope().Name)

	attrs := attrMap(spans[0].Attributes())
	assert.Equal(t, "gid://shopify/Cart/1", attrs[SpanAttrCartID].AsString())
	assert.Equal(t, int64(2), attrs[SpanAttrQuantity].AsInt64())
}

func TestRecordErrorAndEvents(t *testing.T) {
	recorder := setupRecorder(t)

	_, span := StartServiceSpan(context.Background(), "catalog", "best_sellers")
	SetAttributes(span, SpanAttrResultCount, 8, "ignored")
	AddEvent(span, "cache_miss", "tag", "products")
	RecordError(span, errors.New("boom"))
	RecordError(span, nil)
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	s := spans[0]
	assert.Equal(t, "catalog.best_sellers", s.Name())
	assert.Equal(t, codes.Error, s.Status().Code)
	assert.Equal(t, "boom", s.Status().Description)
	assert.Equal(t, int64(8), attrMap(s.Attributes())[SpanAttrResultCount].AsInt64())

	var names []string
	for _, ev := range s.Events() {
		names = append(names, ev.Name)
	}
	assert.Contains(t, names, "cache_miss")
	assert.Contains(t, names, "exception")
}

func TestGetTraceID_NoSpan(t *testing.T) {
	assert.Empty(t, GetTraceID(context.Background()))
	assert.Empty(t, GetSpanID(context.Background()))
}

func TestToAttribute(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  attribute.Type
	}{
		{"string", "x", attribute.STRING},
		{"int", 1, attribute.INT64},
		{"int64", int64(1), attribute.INT64},
		{"float", 1.5, attribute.FLOAT64},
		{"bool", true, attribute.BOOL},
		{"strings", []string{"a"}, attribute.STRINGSLICE},
		{"other", struct{ A int }{1}, attribute.STRING},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, toAttribute("k", tt.value).Value.Type())
		})
	}
}

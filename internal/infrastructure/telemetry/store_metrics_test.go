package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func TestNewStoreMetrics_NilMeter(t *testing.T) {
	_, err := NewStoreMetrics(nil)
	assert.ErrorIs(t, err, ErrMeterNil)
}

func TestStoreMetrics_Record(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	m, err := NewStoreMetrics(provider.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	m.CartMutation(ctx, "add", nil)
	m.CartMutation(ctx, "add", nil)
	m.CartMutation(ctx, "remove", errors.New("x"))
	m.CacheLookup(ctx, "products", true)
	m.VitalRecorded(ctx, "LCP", "good")
	m.CustomerLogin(ctx, "password", nil)
	m.ObserveUpstream(ctx, "getCart", time.Now().Add(-50*time.Millisecond), nil)

	metrics := collect(t, reader)

	cart, ok := metrics["storefront_cart_mutations_total"]
	require.True(t, ok)
	sum := cart.Data.(metricdata.Sum[int64])
	byKey := map[string]int64{}
	for _, dp := range sum.DataPoints {
		action, _ := dp.Attributes.Value(AttrCartAction)
		result, _ := dp.Attributes.Value(AttrOutcome)
		byKey[action.AsString()+"/"+result.AsString()] = dp.Value
	}
	assert.Equal(t, int64(2), byKey["add/ok"])
	assert.Equal(t, int64(1), byKey["remove/error"])

	hist := metrics["storefront_upstream_request_duration_seconds"].Data.(metricdata.Histogram[float64])
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, uint64(1), hist.DataPoints[0].Count)
	op, _ := hist.DataPoints[0].Attributes.Value(AttrOperation)
	assert.Equal(t, "getCart", op.AsString())

	vitals := metrics["storefront_web_vitals_total"].Data.(metricdata.Sum[int64])
	require.Len(t, vitals.DataPoints, 1)
	assert.True(t, vitals.DataPoints[0].Attributes.HasValue(attribute.Key("vital.name")))
}

func TestStoreMetrics_NilReceiver(t *testing.T) {
	var m *StoreMetrics
	assert.NotPanics(t, func() {
		m.CartMutation(context.Background(), "add", nil)
		m.CacheLookup(context.Background(), "products", false)
		m.ObserveUpstream(context.Background(), "op", time.Now(), nil)
		m.VitalRecorded(context.Background(), "CLS", "poor")
		m.CustomerLogin(context.Background(), "oauth", nil)
	})
}

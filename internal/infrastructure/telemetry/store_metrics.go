package telemetry

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned when no meter is supplied
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// StoreMetrics holds the storefront's business instruments. A nil
// *StoreMetrics is valid and records nothing.
type StoreMetrics struct {
	upstreamDuration *Histogram
	cartMutations    *Counter
	cacheLookups     *Counter
	vitalsRecorded   *Counter
	customerLogins   *Counter
}

// NewStoreMetrics registers the storefront instruments on meter
func NewStoreMetrics(meter metric.Meter) (*StoreMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	var (
		m   StoreMetrics
		err error
	)
	if m.upstreamDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "storefront_upstream_request_duration_seconds",
		Description: "Latency of commerce platform requests",
		Unit:        "s",
		Boundaries:  UpstreamDurationBuckets,
	}); err != nil {
		return nil, err
	}
	if m.cartMutations, err = NewCounter(meter, "storefront_cart_mutations_total",
		"Cart mutations by action and outcome", "{mutations}"); err != nil {
		return nil, err
	}
	if m.cacheLookups, err = NewCounter(meter, "storefront_cache_lookups_total",
		"Cache lookups by tag and result", "{lookups}"); err != nil {
		return nil, err
	}
	if m.vitalsRecorded, err = NewCounter(meter, "storefront_web_vitals_total",
		"Web vitals reports by metric name and rating", "{reports}"); err != nil {
		return nil, err
	}
	if m.customerLogins, err = NewCounter(meter, "storefront_customer_logins_total",
		"Customer sign-in attempts by method and outcome", "{logins}"); err != nil {
		return nil, err
	}
	return &m, nil
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// ObserveUpstream records the latency of one platform operation
func (m *StoreMetrics) ObserveUpstream(ctx context.Context, operation string, started time.Time, err error) {
	if m == nil {
		return
	}
	m.upstreamDuration.RecordDuration(ctx, time.Since(started),
		AttrOperation.String(operation), AttrOutcome.String(outcome(err)))
}

// CartMutation counts one cart change
func (m *StoreMetrics) CartMutation(ctx context.Context, action string, err error) {
	if m == nil {
		return
	}
	m.cartMutations.Inc(ctx, AttrCartAction.String(action), AttrOutcome.String(outcome(err)))
}

// CacheLookup counts one cache read
func (m *StoreMetrics) CacheLookup(ctx context.Context, tag string, hit bool) {
	if m == nil {
		return
	}
	m.cacheLookups.Inc(ctx, AttrCacheTag.String(tag), AttrCacheHit.Bool(hit))
}

// VitalRecorded counts one web vitals report
func (m *StoreMetrics) VitalRecorded(ctx context.Context, name, rating string) {
	if m == nil {
		return
	}
	m.vitalsRecorded.Inc(ctx, AttrVitalName.String(name), AttrVitalRate.String(rating))
}

// CustomerLogin counts one sign-in attempt
func (m *StoreMetrics) CustomerLogin(ctx context.Context, method string, err error) {
	if m == nil {
		return
	}
	m.customerLogins.Inc(ctx, AttrAuthMethod.String(method), AttrOutcome.String(outcome(err)))
}

// Package vitals holds the Core Web Vitals measurements reported by
// shoppers' browsers.
package vitals

import (
	"context"
	"errors"
	"math"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Metric names
const (
	MetricCLS  = "CLS"
	MetricFCP  = "FCP"
	MetricFID  = "FID"
	MetricINP  = "INP"
	MetricLCP  = "LCP"
	MetricTTFB = "TTFB"
)

// Ratings
const (
	RatingGood             = "good"
	RatingNeedsImprovement = "needs-improvement"
	RatingPoor             = "poor"
)

// Metrics lists every accepted metric name
var Metrics = []string{MetricCLS, MetricFCP, MetricFID, MetricINP, MetricLCP, MetricTTFB}

var ratings = []string{RatingGood, RatingNeedsImprovement, RatingPoor}

// Validation errors
var (
	ErrUnknownMetric = errors.New("vitals: unknown metric name")
	ErrUnknownRating = errors.New("vitals: unknown rating")
	ErrInvalidValue  = errors.New("vitals: value must be a finite non-negative number")
)

// Vital is a single measurement from one page view
type Vital struct {
	ID             uuid.UUID
	MetricID       string // browser-assigned ID, unique per page load
	Name           string
	Value          float64
	Delta          float64
	Rating         string
	NavigationType string
	Page           string
	RecordedAt     time.Time
}

// NewVital validates and normalizes a measurement
func NewVital(metricID, name string, value, delta float64, rating, navigationType, page string, at time.Time) (*Vital, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	if !slices.Contains(Metrics, name) {
		return nil, ErrUnknownMetric
	}
	rating = strings.ToLower(strings.TrimSpace(rating))
	if rating != "" && !slices.Contains(ratings, rating) {
		return nil, ErrUnknownRating
	}
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return nil, ErrInvalidValue
	}
	if math.IsNaN(delta) || math.IsInf(delta, 0) {
		delta = 0
	}
	return &Vital{
		ID:             uuid.New(),
		MetricID:       metricID,
		Name:           name,
		Value:          value,
		Delta:          delta,
		Rating:         rating,
		NavigationType: navigationType,
		Page:           page,
		RecordedAt:     at.UTC(),
	}, nil
}

// Aggregate is the count and mean of one metric
type Aggregate struct {
	Name    string
	Count   int64
	Average float64
}

// Summary is an Aggregate with its 75th percentile
type Summary struct {
	Name    string  `json:"name"`
	Count   int64   `json:"count"`
	Average float64 `json:"average"`
	P75     float64 `json:"p75"`
}

// Repository persists vitals
type Repository interface {
	Save(ctx context.Context, v *Vital) error
	Aggregate(ctx context.Context, since time.Time) ([]Aggregate, error)
	// ValuesByMetric returns every value recorded at or after since, keyed
	// by metric name and sorted ascending.
	ValuesByMetric(ctx context.Context, since time.Time) (map[string][]float64, error)
}

// Percentile returns the p-th percentile (0..100) of values using the
// nearest-rank method. values need not be sorted; an empty slice yields 0.
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := slices.Clone(values)
	sort.Float64s(sorted)
	rank := int(math.Ceil(p / 100 * float64(len(sorted))))
	if rank < 1 {
		rank = 1
	}
	if rank > len(sorted) {
		rank = len(sorted)
	}
	return sorted[rank-1]
}

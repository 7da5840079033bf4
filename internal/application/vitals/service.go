// Package vitals records Core Web Vitals beacons and summarizes them.
package vitals

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/vitals"
	"github.com/storefront/backend/internal/infrastructure/event"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// DefaultWindow is the summary period when the caller gives none
const DefaultWindow = 24 * time.Hour

// MaxWindow bounds how far back a summary looks
const MaxWindow = 30 * 24 * time.Hour

// Input is one beacon as sent by the web-vitals browser library
type Input struct {
	ID             string  `json:"id" binding:"required,max=100"`
	Name           string  `json:"name" binding:"required,oneof=CLS FCP FID INP LCP TTFB"`
	Value          float64 `json:"value" binding:"min=0"`
	Delta          float64 `json:"delta"`
	Rating         string  `json:"rating" binding:"omitempty,oneof=good needs-improvement poor"`
	NavigationType string  `json:"navigationType" binding:"max=30"`
	Page           string  `json:"page" binding:"max=500"`
}

// SummaryResult is the per-metric summary for a window
type SummaryResult struct {
	Since   time.Time        `json:"since"`
	Metrics []vitals.Summary `json:"metrics"`
}

// Service records and summarizes vitals
type Service struct {
	repo    vitals.Repository
	events  event.Publisher
	metrics *telemetry.StoreMetrics
	logger  *zap.Logger
	now     func() time.Time
}

// NewService creates a new vitals service
func NewService(repo vitals.Repository, events event.Publisher, metrics *telemetry.StoreMetrics, logger *zap.Logger) *Service {
	return &Service{
		repo:    repo,
		events:  events,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}
}

// Record validates and stores a beacon
func (s *Service) Record(ctx context.Context, in Input) error {
	v, err := vitals.NewVital(in.ID, in.Name, in.Value, in.Delta, in.Rating, in.NavigationType, in.Page, s.now())
	if err != nil {
		return shared.ErrInvalidInput.WithMessage(validationMessage(err)).Wrap(err)
	}

	s.metrics.VitalRecorded(ctx, v.Name, v.Rating)

	if err := s.repo.Save(ctx, v); err != nil {
		s.logger.Error("Failed to save vital", zap.String("name", v.Name), zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to record vital").Wrap(err)
	}

	if err := s.events.Publish(ctx, event.NewFromContext(ctx, event.TypeVitalRecorded, v.Page, map[string]string{
		"name":   v.Name,
		"value":  strconv.FormatFloat(v.Value, 'f', -1, 64),
		"rating": v.Rating,
	})); err != nil {
		s.logger.Warn("Failed to publish vital event", zap.Error(err))
	}
	return nil
}

// Summary returns count, mean and p75 of every metric recorded within window
func (s *Service) Summary(ctx context.Context, window time.Duration) (*SummaryResult, error) {
	if window <= 0 {
		window = DefaultWindow
	}
	if window > MaxWindow {
		window = MaxWindow
	}
	since := s.now().Add(-window).UTC()

	aggs, err := s.repo.Aggregate(ctx, since)
	if err != nil {
		s.logger.Error("Failed to aggregate vitals", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to summarize vitals").Wrap(err)
	}

	result := &SummaryResult{Since: since, Metrics: make([]vitals.Summary, 0, len(aggs))}
	if len(aggs) == 0 {
		return result, nil
	}

	// Percentiles are best effort: without values the summary keeps its
	// count and mean.
	values, err := s.repo.ValuesByMetric(ctx, since)
	if err != nil {
		s.logger.Warn("Failed to load vital values", zap.Error(err))
	}
	for _, agg := range aggs {
		summary := vitals.Summary{Name: agg.Name, Count: agg.Count, Average: agg.Average}
		if v := values[agg.Name]; len(v) > 0 {
			summary.P75 = vitals.Percentile(v, 75)
		}
		result.Metrics = append(result.Metrics, summary)
	}
	return result, nil
}

func validationMessage(err error) string {
	switch {
	case errors.Is(err, vitals.ErrUnknownMetric):
		return "Unknown metric name"
	case errors.Is(err, vitals.ErrUnknownRating):
		return "Unknown rating"
	default:
		return "Invalid metric value"
	}
}

package vitals

import (
	"context"
	"testing"
	"time"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/vitals"
	"github.com/storefront/backend/internal/infrastructure/event"
	"github.com/storefront/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockRepository struct{ mock.Mock }

func (m *mockRepository) Save(ctx context.Context, v *vitals.Vital) error {
	return m.Called(ctx, v).Error(0)
}

func (m *mockRepository) Aggregate(ctx context.Context, since time.Time) ([]vitals.Aggregate, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]vitals.Aggregate), args.Error(1)
}

func (m *mockRepository) ValuesByMetric(ctx context.Context, since time.Time) (map[string][]float64, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]float64), args.Error(1)
}

var fixedNow = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

func setup(t *testing.T) (*Service, *mockRepository, *testutil.RecordingPublisher) {
	t.Helper()
	repo := new(mockRepository)
	events := &testutil.RecordingPublisher{}
	t.Cleanup(func() { repo.AssertExpectations(t) })
	svc := NewService(repo, events, nil, zap.NewNop())
	svc.now = func() time.Time { return fixedNow }
	return svc, repo, events
}

func TestService_Record(t *testing.T) {
	ctx := context.Background()

	t.Run("stores and publishes", func(t *testing.T) {
		svc, repo, events := setup(t)
		repo.On("Save", mock.Anything, mock.MatchedBy(func(v *vitals.Vital) bool {
			return v.Name == vitals.MetricLCP && v.Value == 2100.5 && v.RecordedAt.Equal(fixedNow)
		})).Return(nil).Once()

		err := svc.Record(ctx, Input{ID: "v3-1", Name: "LCP", Value: 2100.5, Rating: "good", Page: "/search"})
		require.NoError(t, err)

		require.Len(t, events.Events(), 1)
		e := events.Events()[0]
		assert.Equal(t, event.TypeVitalRecorded, e.Type)
		assert.Equal(t, "/search", e.Subject)
		assert.Equal(t, "2100.5", e.Attributes["value"])
	})

	t.Run("rejects unknown metrics", func(t *testing.T) {
		svc, _, events := setup(t)
		err := svc.Record(ctx, Input{ID: "x", Name: "FPS", Value: 60})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
		assert.ErrorIs(t, err, vitals.ErrUnknownMetric)
		assert.Empty(t, events.Events())
	})

	t.Run("storage failure", func(t *testing.T) {
		svc, repo, events := setup(t)
		repo.On("Save", mock.Anything, mock.Anything).Return(assert.AnError).Once()

		err := svc.Record(ctx, Input{ID: "x", Name: "CLS", Value: 0.02})
		require.Error(t, err)
		assert.ErrorIs(t, err, assert.AnError)
		assert.Empty(t, events.Events())
	})
}

func TestService_Summary(t *testing.T) {
	svc, repo, _ := setup(t)
	since := fixedNow.Add(-DefaultWindow)

	repo.On("Aggregate", mock.Anything, since).Return([]vitals.Aggregate{
		{Name: "CLS", Count: 2, Average: 0.05},
		{Name: "LCP", Count: 4, Average: 2500},
	}, nil).Once()
	repo.On("ValuesByMetric", mock.Anything, since).Return(map[string][]float64{
		"LCP": {1000, 2000, 3000, 4000},
	}, nil).Once()

	res, err := svc.Summary(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, since, res.Since)
	require.Len(t, res.Metrics, 2)
	assert.Equal(t, 0.0, res.Metrics[0].P75)
	assert.Equal(t, vitals.Summary{Name: "LCP", Count: 4, Average: 2500, P75: 3000}, res.Metrics[1])
}

func TestService_Summary_ValuesUnavailable(t *testing.T) {
	svc, repo, _ := setup(t)
	since := fixedNow.Add(-DefaultWindow)
	repo.On("Aggregate", mock.Anything, since).Return([]vitals.Aggregate{{Name: "LCP", Count: 4, Average: 2500}}, nil).Once()
	repo.On("ValuesByMetric", mock.Anything, since).Return(nil, assert.AnError).Once()

	res, err := svc.Summary(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, []vitals.Summary{{Name: "LCP", Count: 4, Average: 2500}}, res.Metrics)
}

func TestService_Summary_WindowIsCapped(t *testing.T) {
	svc, repo, _ := setup(t)
	repo.On("Aggregate", mock.Anything, fixedNow.Add(-MaxWindow)).Return([]vitals.Aggregate{}, nil).Once()

	res, err := svc.Summary(context.Background(), 365*24*time.Hour)
	require.NoError(t, err)
	assert.NotNil(t, res.Metrics)
	assert.Empty(t, res.Metrics)
}

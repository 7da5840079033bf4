package handler

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/application/vitals"
	domain "github.com/storefront/backend/internal/domain/vitals"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/storefront/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockVitalRepository struct{ mock.Mock }

func (m *mockVitalRepository) Save(ctx context.Context, v *domain.Vital) error {
	return m.Called(ctx, v).Error(0)
}

func (m *mockVitalRepository) Aggregate(ctx context.Context, since time.Time) ([]domain.Aggregate, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Aggregate), args.Error(1)
}

func (m *mockVitalRepository) ValuesByMetric(ctx context.Context, since time.Time) (map[string][]float64, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]float64), args.Error(1)
}

type recordingObserver struct {
	names []string
}

func (o *recordingObserver) ObserveVital(name, _ string, _ float64) {
	o.names = append(o.names, name)
}

func vitalsRouter(t *testing.T, observer VitalObserver) (*gin.Engine, *mockVitalRepository, *testutil.RecordingPublisher) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	repo := new(mockVitalRepository)
	t.Cleanup(func() { repo.AssertExpectations(t) })
	events := &testutil.RecordingPublisher{}

	h := NewVitalsHandler(vitals.NewService(repo, events, nil, zap.NewNop()), observer)
	r := gin.New()
	r.POST("/api/vitals", h.Record)
	r.GET("/api/vitals/summary", h.Summary)
	return r, repo, events
}

func TestVitalsHandler_Record(t *testing.T) {
	t.Run("accepts a beacon", func(t *testing.T) {
		observer := &recordingObserver{}
		r, repo, events := vitalsRouter(t, observer)
		repo.On("Save", mock.Anything, mock.MatchedBy(func(v *domain.Vital) bool {
			return v.Name == domain.MetricLCP && v.MetricID == "v3-1" && v.Page == "/products/tee"
		})).Return(nil).Once()

		body := `{"id":"v3-1","name":"LCP","value":2300.5,"delta":2300.5,"rating":"good","navigationType":"navigate","page":"/products/tee"}`
		// sendBeacon posts text/plain
		w := serve(r, http.MethodPost, "/api/vitals", strings.NewReader(body), "text/plain;charset=UTF-8")

		require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
		data := testutil.AssertSuccessResponse(t, w)["data"].(map[string]interface{})
		assert.Equal(t, "v3-1", data["id"])
		assert.Equal(t, []string{"LCP"}, observer.names)
		assert.Len(t, events.Events(), 1)
	})

	t.Run("unknown metric", func(t *testing.T) {
		r, _, _ := vitalsRouter(t, nil)

		w := serve(r, http.MethodPost, "/api/vitals", strings.NewReader(`{"id":"x","name":"FPS","value":60}`), "application/json")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		testutil.AssertErrorResponse(t, w, dto.ErrCodeValidation)
	})

	t.Run("negative value", func(t *testing.T) {
		r, _, _ := vitalsRouter(t, nil)

		w := serve(r, http.MethodPost, "/api/vitals", strings.NewReader(`{"id":"x","name":"CLS","value":-0.1}`), "application/json")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("storage failure", func(t *testing.T) {
		observer := &recordingObserver{}
		r, repo, _ := vitalsRouter(t, observer)
		repo.On("Save", mock.Anything, mock.Anything).Return(assert.AnError).Once()

		w := serve(r, http.MethodPost, "/api/vitals", strings.NewReader(`{"id":"x","name":"CLS","value":0.02}`), "application/json")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Empty(t, observer.names)
	})
}

func TestVitalsHandler_Summary(t *testing.T) {
	t.Run("default window", func(t *testing.T) {
		r, repo, _ := vitalsRouter(t, nil)
		before := time.Now().Add(-vitals.DefaultWindow)
		repo.On("Aggregate", mock.Anything, mock.MatchedBy(func(since time.Time) bool {
			return !since.Before(before.Add(-time.Second)) && since.Before(time.Now())
		})).Return([]domain.Aggregate{{Name: "LCP", Count: 4, Average: 2500}}, nil).Once()
		repo.On("ValuesByMetric", mock.Anything, mock.Anything).
			Return(map[string][]float64{"LCP": {1000, 2000, 3000, 4000}}, nil).Once()

		w := serve(r, http.MethodGet, "/api/vitals/summary", nil, "")

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		data := testutil.AssertSuccessResponse(t, w)["data"].(map[string]interface{})
		metrics := data["metrics"].([]interface{})
		require.Len(t, metrics, 1)
		lcp := metrics[0].(map[string]interface{})
		assert.EqualValues(t, 4, lcp["count"])
		assert.EqualValues(t, 3000, lcp["p75"])
	})

	t.Run("custom window", func(t *testing.T) {
		r, repo, _ := vitalsRouter(t, nil)
		repo.On("Aggregate", mock.Anything, mock.Anything).Return([]domain.Aggregate{}, nil).Once()

		w := serve(r, http.MethodGet, "/api/vitals/summary?window=1h", nil, "")

		require.Equal(t, http.StatusOK, w.Code)
		data := testutil.AssertSuccessResponse(t, w)["data"].(map[string]interface{})
		assert.Empty(t, data["metrics"])
	})

	for _, window := range []string{"yesterday", "-1h", "0s"} {
		t.Run("rejects "+window, func(t *testing.T) {
			r, _, _ := vitalsRouter(t, nil)

			w := serve(r, http.MethodGet, "/api/vitals/summary?window="+window, nil, "")

			assert.Equal(t, http.StatusBadRequest, w.Code)
			testutil.AssertErrorResponse(t, w, dto.ErrCodeBadRequest)
		})
	}
}

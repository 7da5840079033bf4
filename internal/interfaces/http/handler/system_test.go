package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/infrastructure/scheduler"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/storefront/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubJobs struct {
	states []scheduler.JobState
	err    error
	ran    []string
}

func (s *stubJobs) Jobs() []scheduler.JobState { return s.states }

func (s *stubJobs) RunNow(_ context.Context, name string) error {
	s.ran = append(s.ran, name)
	return s.err
}

func TestNewSystemHandler(t *testing.T) {
	h := NewSystemHandler("storefront", "1.0.0", nil, "")
	assert.NotNil(t, h)
	assert.False(t, h.startTime.IsZero())
}

func TestSystemHandler_GetSystemInfo(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := NewSystemHandler("storefront", "1.0.0", nil, "")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/system/info", nil)

	h.GetSystemInfo(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.NotNil(t, resp.Data)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "storefront", data["name"])
	assert.Equal(t, "1.0.0", data["version"])
	assert.NotEmpty(t, data["go_version"])
	assert.NotEmpty(t, data["uptime"])
}

func TestSystemHandler_Ping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := NewSystemHandler("storefront", "1.0.0", nil, "")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/system/ping", nil)

	h.Ping(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)

	assert.True(t, resp.Success)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "pong", data["message"])

	// Verify timestamp is valid RFC3339
	timestamp := data["timestamp"].(string)
	_, err = time.Parse(time.RFC3339, timestamp)
	assert.NoError(t, err)
}

func TestSystemHandler_Health(t *testing.T) {
	t.Run("all checks pass", func(t *testing.T) {
		h := NewSystemHandler("storefront", "1.0.0", nil, "",
			HealthCheck{Name: "cache", Check: func(context.Context) error { return nil }})
		tc := testutil.NewTestContext(t, http.MethodGet, "/health")

		h.Health(tc.Context)

		assert.Equal(t, http.StatusOK, tc.ResponseCode())
		resp := testutil.DecodeJSON[HealthResponse](t, tc.ResponseBody())
		assert.Equal(t, "ok", resp.Status)
		assert.Equal(t, "ok", resp.Checks["cache"])
	})

	t.Run("failing dependency degrades", func(t *testing.T) {
		h := NewSystemHandler("storefront", "1.0.0", nil, "",
			HealthCheck{Name: "cache", Check: func(context.Context) error { return nil }},
			HealthCheck{Name: "database", Check: func(context.Context) error { return errors.New("connection refused") }})
		tc := testutil.NewTestContext(t, http.MethodGet, "/health")

		h.Health(tc.Context)

		assert.Equal(t, http.StatusServiceUnavailable, tc.ResponseCode())
		resp := testutil.DecodeJSON[HealthResponse](t, tc.ResponseBody())
		assert.Equal(t, "degraded", resp.Status)
		assert.Equal(t, "unavailable", resp.Checks["database"])
		assert.Equal(t, "ok", resp.Checks["cache"])
	})
}

func TestSystemHandler_ListJobs(t *testing.T) {
	t.Run("scheduler disabled", func(t *testing.T) {
		h := NewSystemHandler("storefront", "1.0.0", nil, "")
		tc := testutil.NewTestContext(t, http.MethodGet, "/api/system/jobs")

		h.ListJobs(tc.Context)

		resp := testutil.AssertSuccessResponse(t, tc.Recorder)
		assert.Empty(t, resp["data"])
	})

	t.Run("lists registered jobs", func(t *testing.T) {
		jobs := &stubJobs{states: []scheduler.JobState{{Name: scheduler.JobSitemap}, {Name: scheduler.JobWarmup}}}
		h := NewSystemHandler("storefront", "1.0.0", jobs, "")
		tc := testutil.NewTestContext(t, http.MethodGet, "/api/system/jobs")

		h.ListJobs(tc.Context)

		resp := testutil.AssertSuccessResponse(t, tc.Recorder)
		assert.Len(t, resp["data"], 2)
	})
}

func TestSystemHandler_RunJob(t *testing.T) {
	const secret = "s3cret"

	run := func(h *SystemHandler, name, query string) *httptest.ResponseRecorder {
		r := gin.New()
		r.POST("/api/system/jobs/:name/run", h.RunJob)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/system/jobs/"+name+"/run"+query, nil))
		return w
	}

	t.Run("wrong secret", func(t *testing.T) {
		jobs := &stubJobs{}
		w := run(NewSystemHandler("storefront", "1.0.0", jobs, secret), scheduler.JobSitemap, "?secret=nope")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		testutil.AssertErrorResponse(t, w, dto.ErrCodeUnauthorized)
		assert.Empty(t, jobs.ran)
	})

	t.Run("empty configured secret never matches", func(t *testing.T) {
		w := run(NewSystemHandler("storefront", "1.0.0", &stubJobs{}, ""), scheduler.JobSitemap, "?secret=")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("runs the job", func(t *testing.T) {
		jobs := &stubJobs{}
		w := run(NewSystemHandler("storefront", "1.0.0", jobs, secret), scheduler.JobSitemap, "?secret="+secret)
		assert.Equal(t, http.StatusOK, w.Code)
		testutil.AssertSuccessResponse(t, w)
		assert.Equal(t, []string{scheduler.JobSitemap}, jobs.ran)
	})

	t.Run("scheduler disabled", func(t *testing.T) {
		w := run(NewSystemHandler("storefront", "1.0.0", nil, secret), scheduler.JobSitemap, "?secret="+secret)
		assert.Equal(t, http.StatusNotFound, w.Code)
		testutil.AssertErrorResponse(t, w, dto.ErrCodeNotConfigured)
	})

	t.Run("unknown job", func(t *testing.T) {
		jobs := &stubJobs{err: fmt.Errorf("run %q: %w", "nightly", scheduler.ErrJobNotFound)}
		w := run(NewSystemHandler("storefront", "1.0.0", jobs, secret), "nightly", "?secret="+secret)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("already running", func(t *testing.T) {
		jobs := &stubJobs{err: scheduler.ErrJobRunning}
		w := run(NewSystemHandler("storefront", "1.0.0", jobs, secret), scheduler.JobWarmup, "?secret="+secret)
		assert.Equal(t, http.StatusConflict, w.Code)
		testutil.AssertErrorResponse(t, w, dto.ErrCodeJobRunning)
	})

	t.Run("job failure", func(t *testing.T) {
		jobs := &stubJobs{err: errors.New("upload failed")}
		w := run(NewSystemHandler("storefront", "1.0.0", jobs, secret), scheduler.JobSitemap, "?secret="+secret)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		testutil.AssertErrorResponse(t, w, dto.ErrCodeInternal)
	})
}

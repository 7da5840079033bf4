package handler

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/scheduler"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// healthCheckTimeout bounds each dependency check
const healthCheckTimeout = 2 * time.Second

// JobRunner lists and triggers background jobs
type JobRunner interface {
	Jobs() []scheduler.JobState
	RunNow(ctx context.Context, name string) error
}

// HealthCheck probes one dependency
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// SystemHandler handles system-related API endpoints
type SystemHandler struct {
	BaseHandler
	name      string
	version   string
	startTime time.Time
	jobs      JobRunner
	secret    string
	checks    []HealthCheck
}

// NewSystemHandler creates a new SystemHandler. jobs may be nil when the
// scheduler is disabled; secret guards manual job runs.
func NewSystemHandler(name, version string, jobs JobRunner, secret string, checks ...HealthCheck) *SystemHandler {
	return &SystemHandler{
		name:      name,
		version:   version,
		startTime: time.Now(),
		jobs:      jobs,
		secret:    secret,
		checks:    checks,
	}
}

// SystemInfoResponse represents the system information response
type SystemInfoResponse struct {
	Name      string `json:"name" example:"storefront"`
	Version   string `json:"version" example:"1.0.0"`
	GoVersion string `json:"go_version" example:"go1.25.5"`
	Uptime    string `json:"uptime" example:"1h30m45s"`
}

// GetSystemInfo godoc
// @Summary      Get system information
// @Description  Returns basic system information including version and uptime
// @Tags         system
// @Produce      json
// @Success      200 {object} dto.Response{data=SystemInfoResponse}
// @Router       /api/system/info [get]
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	info := SystemInfoResponse{
		Name:      h.name,
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(info))
}

// PingResponse represents the ping response
type PingResponse struct {
	Message   string `json:"message" example:"pong"`
	Timestamp string `json:"timestamp" example:"2026-01-23T12:00:00Z"`
}

// Ping godoc
// @Summary      Ping the API
// @Description  Simple ping endpoint to check if the API is responsive
// @Tags         system
// @Produce      json
// @Success      200 {object} dto.Response{data=PingResponse}
// @Router       /api/system/ping [get]
func (h *SystemHandler) Ping(c *gin.Context) {
	response := PingResponse{
		Message:   "pong",
		Timestamp: time.Now().Format(time.RFC3339),
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// HealthResponse reports the status of the server and its dependencies
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Health answers 200 when every dependency check passes and 503 otherwise
func (h *SystemHandler) Health(c *gin.Context) {
	resp := HealthResponse{Status: "ok"}
	if len(h.checks) > 0 {
		resp.Checks = make(map[string]string, len(h.checks))
	}
	status := http.StatusOK
	for _, check := range h.checks {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
		err := check.Check(ctx)
		cancel()
		if err != nil {
			logger.GetGinLogger(c).Warn("Health check failed", zap.String("check", check.Name), zap.Error(err))
			resp.Checks[check.Name] = "unavailable"
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[check.Name] = "ok"
	}
	c.JSON(status, resp)
}

// ListJobs godoc
// @Summary      List background jobs
// @Tags         system
// @Produce      json
// @Success      200 {object} dto.Response{data=[]scheduler.JobState}
// @Router       /api/system/jobs [get]
func (h *SystemHandler) ListJobs(c *gin.Context) {
	if h.jobs == nil {
		h.Success(c, []scheduler.JobState{})
		return
	}
	h.Success(c, h.jobs.Jobs())
}

// RunJob godoc
// @Summary      Run a background job now
// @Tags         system
// @Produce      json
// @Param        name   path  string true "Job name"
// @Param        secret query string true "Shared secret"
// @Success      200 {object} dto.Response
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /api/system/jobs/{name}/run [post]
func (h *SystemHandler) RunJob(c *gin.Context) {
	if !secretMatches(h.secret, c.Query("secret")) {
		h.Unauthorized(c, "Invalid secret")
		return
	}
	if h.jobs == nil {
		h.ErrorWithCode(c, dto.ErrCodeNotConfigured, "Scheduler is disabled")
		return
	}

	name := c.Param("name")
	err := h.jobs.RunNow(c.Request.Context(), name)
	switch {
	case err == nil:
		h.Success(c, gin.H{"job": name, "status": scheduler.JobStatusSuccess})
	case errors.Is(err, scheduler.ErrJobNotFound):
		h.NotFound(c, "Job not found")
	case errors.Is(err, scheduler.ErrJobRunning):
		h.ErrorWithCode(c, dto.ErrCodeJobRunning, "Job is already running")
	default:
		logger.GetGinLogger(c).Error("Manual job run failed", zap.String("job", name), zap.Error(err))
		h.InternalError(c, "Job failed")
	}
}

// secretMatches compares a shared secret in constant time. An empty
// configured secret never matches.
func secretMatches(want, got string) bool {
	if want == "" || got == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(want), []byte(got)) == 1
}

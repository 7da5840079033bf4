package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/application/vitals"
)

// VitalObserver receives accepted measurements, e.g. for Prometheus
type VitalObserver interface {
	ObserveVital(name, rating string, value float64)
}

// VitalsHandler collects Core Web Vitals beacons
type VitalsHandler struct {
	BaseHandler
	vitalsService *vitals.Service
	observer      VitalObserver
}

// NewVitalsHandler creates a new VitalsHandler. observer may be nil.
func NewVitalsHandler(vitalsService *vitals.Service, observer VitalObserver) *VitalsHandler {
	return &VitalsHandler{
		vitalsService: vitalsService,
		observer:      observer,
	}
}

// Record godoc
// @Summary      Record a web vital
// @Description  Accepts one beacon from the web-vitals browser library
// @Tags         vitals
// @Accept       json
// @Produce      json
// @Param        request body vitals.Input true "Measurement"
// @Success      202 {object} dto.Response
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /api/vitals [post]
func (h *VitalsHandler) Record(c *gin.Context) {
	var in vitals.Input
	// sendBeacon posts text/plain, so the body is decoded as JSON regardless
	// of the content type.
	if err := c.ShouldBindJSON(&in); err != nil {
		h.BindError(c, err)
		return
	}

	if err := h.vitalsService.Record(c.Request.Context(), in); err != nil {
		h.HandleError(c, err)
		return
	}
	if h.observer != nil {
		h.observer.ObserveVital(in.Name, in.Rating, in.Value)
	}
	h.Accepted(c, gin.H{"id": in.ID})
}

// Summary godoc
// @Summary      Summarize web vitals
// @Description  Count, mean and p75 per metric over a window (default 24h, at most 30 days)
// @Tags         vitals
// @Produce      json
// @Param        window query string false "Go duration, e.g. 24h"
// @Success      200 {object} dto.Response{data=vitals.SummaryResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /api/vitals/summary [get]
func (h *VitalsHandler) Summary(c *gin.Context) {
	var window time.Duration
	if raw := c.Query("window"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			h.BadRequest(c, "window must be a positive duration such as 24h")
			return
		}
		window = d
	}

	result, err := h.vitalsService.Summary(c.Request.Context(), window)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

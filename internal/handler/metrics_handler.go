package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/fee-tracker-console/internal/service"
	appErrors "github.com/noah-isme/fee-tracker-console/pkg/errors"
	"github.com/noah-isme/fee-tracker-console/pkg/response"
)

type readinessProbe interface {
	Token(ctx context.Context) (string, error)
}

// MetricsHandler exposes observability endpoints.
type MetricsHandler struct {
	metrics *service.MetricsService
	probe   readinessProbe
}

// NewMetricsHandler constructs a metrics handler. probe may be nil.
func NewMetricsHandler(metrics *service.MetricsService, probe readinessProbe) *MetricsHandler {
	return &MetricsHandler{metrics: metrics, probe: probe}
}

// Prometheus serves the Prometheus metrics endpoint.
func (h *MetricsHandler) Prometheus(c *gin.Context) {
	if h.metrics == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

// Health responds with process counters for liveness usage.
func (h *MetricsHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "metrics": h.metrics.Snapshot()})
}

// Ready reports whether the settings store can be read.
func (h *MetricsHandler) Ready(c *gin.Context) {
	if h.probe != nil {
		if _, err := h.probe.Token(c.Request.Context()); err != nil {
			response.Error(c, appErrors.Wrap(err, "NOT_READY", http.StatusServiceUnavailable, "settings store unavailable"))
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipe-chat/backend/internal/metrics"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves liveness along with the generation counter.
type HealthHandler struct {
	store   Pinger
	metrics *metrics.Collector
}

func NewHealthHandler(store Pinger, m *metrics.Collector) *HealthHandler {
	return &HealthHandler{store: store, metrics: m}
}

// HealthResponse is the body of the health endpoints.
type HealthResponse struct {
	Status      string `json:"status"`
	Store       string `json:"store"`
	Generations int64  `json:"generations"`
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	resp := HealthResponse{Status: "healthy", Store: "ok"}
	if h.metrics != nil {
		resp.Generations = h.metrics.Generations()
	}
	if h.store != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.store.Ping(ctx); err != nil {
			resp.Store = "unavailable"
		}
	}
	c.JSON(http.StatusOK, resp)
}

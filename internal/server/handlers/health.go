package handlers

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"
)

const pingTimeout = 2 * time.Second

// Pinger is a dependency the health check can probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves /health and /ready endpoints.
type HealthHandler struct {
	redis     Pinger
	storage   Pinger
	startTime time.Time
	version   string
	ready     *atomic.Bool
}

// NewHealthHandler creates a health handler. redis may be nil when the
// in-process cache is used.
func NewHealthHandler(redis, storage Pinger, version string) *HealthHandler {
	ready := &atomic.Bool{}
	ready.Store(true)
	return &HealthHandler{
		redis:     redis,
		storage:   storage,
		startTime: time.Now(),
		version:   version,
		ready:     ready,
	}
}

// SetReady sets the readiness state (false during shutdown).
func (h *HealthHandler) SetReady(v bool) {
	h.ready.Store(v)
}

type healthResponse struct {
	Status  string `json:"status"`
	Redis   string `json:"redis"`
	Storage string `json:"storage"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

// Health checks dependencies and returns system health.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:  "ok",
		Redis:   "disabled",
		Storage: "ok",
		Version: h.version,
		Uptime:  time.Since(h.startTime).Round(time.Second).String(),
	}
	statusCode := http.StatusOK

	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	if h.redis != nil {
		resp.Redis = "connected"
		if err := h.redis.Ping(ctx); err != nil {
			resp.Status = "error"
			resp.Redis = "disconnected"
			statusCode = http.StatusServiceUnavailable
		}
	}
	if err := h.storage.Ping(ctx); err != nil {
		resp.Status = "error"
		resp.Storage = "unavailable"
		statusCode = http.StatusServiceUnavailable
	}

	writeJSON(w, statusCode, resp)
}

// Ready returns 200 if the server is accepting traffic, 503 during shutdown.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if !h.ready.Load() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "shutting_down"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/freema/daysync/internal/cache"
)

// CacheHandler exposes cache administration.
type CacheHandler struct {
	cache cache.Cache
}

// NewCacheHandler creates a cache handler.
func NewCacheHandler(c cache.Cache) *CacheHandler {
	return &CacheHandler{cache: c}
}

// Clear handles DELETE /api/cache.
func (h *CacheHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.cache.Clear(r.Context()); err != nil {
		slog.Error("cache clear failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to clear cache")
		return
	}
	slog.Info("cache cleared")
	writeJSON(w, http.StatusOK, map[string]string{"message": "cache cleared"})
}

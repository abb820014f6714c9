package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/freema/daysync/internal/apperror"
	"github.com/freema/daysync/internal/cache"
	"github.com/freema/daysync/internal/calendar"
	"github.com/freema/daysync/internal/timezone"
)

// CalendarSource provides the current season.
type CalendarSource interface {
	Latest(ctx context.Context) (*calendar.Calendar, error)
}

// MotoGPHandler serves the MotoGP calendar endpoints.
type MotoGPHandler struct {
	source CalendarSource
	cache  cache.Cache
	now    func() time.Time
}

// NewMotoGPHandler creates a MotoGP handler.
func NewMotoGPHandler(source CalendarSource, c cache.Cache) *MotoGPHandler {
	return &MotoGPHandler{source: source, cache: c, now: time.Now}
}

// Season handles GET /api/motogp.
func (h *MotoGPHandler) Season(w http.ResponseWriter, r *http.Request) {
	abbr, loc, err := zoneParam(r)
	if err != nil {
		writeAppError(w, err)
		return
	}

	season, err := cache.Fetch(r.Context(), h.cache, cache.Key("motogp", "season", abbr),
		func(ctx context.Context) (*calendar.Calendar, error) {
			cal, err := h.source.Latest(ctx)
			if err != nil {
				return nil, err
			}
			return cal.InZone(loc), nil
		})
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, season)
}

// NextRace handles GET /api/motogpnextrace.
func (h *MotoGPHandler) NextRace(w http.ResponseWriter, r *http.Request) {
	abbr, loc, err := zoneParam(r)
	if err != nil {
		writeAppError(w, err)
		return
	}

	race, err := cache.Fetch(r.Context(), h.cache, cache.Key("motogp", "nextrace", abbr),
		func(ctx context.Context) (calendar.Race, error) {
			cal, err := h.source.Latest(ctx)
			if err != nil {
				return calendar.Race{}, err
			}
			next, ok := cal.NextRace(h.now().UTC())
			if !ok {
				return calendar.Race{}, apperror.NotFound("no upcoming races found")
			}
			return next.Formatted(loc), nil
		})
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, race)
}

func zoneParam(r *http.Request) (string, *time.Location, error) {
	abbr := strings.ToUpper(r.URL.Query().Get("timezone"))
	if abbr == "" {
		abbr = timezone.Default
	}
	loc, err := timezone.Lookup(abbr)
	if err != nil {
		return "", nil, err
	}
	return abbr, loc, nil
}

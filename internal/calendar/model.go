package calendar

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"
)

// Sessions holds the RFC 3339 start times of a race weekend's sessions.
type Sessions struct {
	Q1     string `json:"q1"`
	Q2     string `json:"q2"`
	Sprint string `json:"sprint"`
	Race   string `json:"race"`
}

// Race is one round of the championship.
type Race struct {
	Round    int      `json:"round"`
	Name     string   `json:"name"`
	Location string   `json:"location"`
	Country  string   `json:"country"`
	Circuit  string   `json:"circuit"`
	Date     string   `json:"date"`
	Sessions Sessions `json:"sessions"`
}

// Calendar is a full season.
type Calendar struct {
	Year  int    `json:"year"`
	Races []Race `json:"races"`
}

// ReadJSON decodes a calendar previously written by ConvertICSFile.
func ReadJSON(r io.Reader) (*Calendar, error) {
	var cal Calendar
	if err := json.NewDecoder(r).Decode(&cal); err != nil {
		return nil, fmt.Errorf("decoding calendar: %w", err)
	}
	if cal.Races == nil {
		cal.Races = []Race{}
	}
	return &cal, nil
}

// InZone returns a copy of the calendar with every session time converted
// to loc. Times that do not parse are kept as they are.
func (c *Calendar) InZone(loc *time.Location) *Calendar {
	out := &Calendar{Year: c.Year, Races: make([]Race, len(c.Races))}
	for i, r := range c.Races {
		r.Sessions = r.Sessions.mapTimes(func(s string) string {
			t, err := time.Parse(time.RFC3339, s)
			if err != nil {
				return s
			}
			return t.In(loc).Format(time.RFC3339)
		})
		out.Races[i] = r
	}
	return out
}

// NextRace returns the first race, in calendar order, whose race session
// starts after now.
func (c *Calendar) NextRace(now time.Time) (Race, bool) {
	for _, r := range c.Races {
		t, err := time.Parse(time.RFC3339, r.Sessions.Race)
		if err != nil {
			slog.Warn("skipping race with bad race time", "round", r.Round, "race", r.Sessions.Race)
			continue
		}
		if t.After(now) {
			return r, true
		}
	}
	return Race{}, false
}

// Formatted returns a copy of r with session times rendered for display in loc.
func (r Race) Formatted(loc *time.Location) Race {
	r.Sessions = r.Sessions.mapTimes(func(s string) string {
		return FormatSession(s, loc)
	})
	return r
}

func (s Sessions) mapTimes(fn func(string) string) Sessions {
	return Sessions{
		Q1:     fn(s.Q1),
		Q2:     fn(s.Q2),
		Sprint: fn(s.Sprint),
		Race:   fn(s.Race),
	}
}

// FormatSession renders an RFC 3339 time as "2nd March 2025 at 15:00" in loc.
// Unparseable input is returned unchanged.
func FormatSession(ts string, loc *time.Location) string {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	t = t.In(loc)
	return fmt.Sprintf("%d%s %s %d at %02d:%02d",
		t.Day(), Ordinal(t.Day()), t.Month(), t.Year(), t.Hour(), t.Minute())
}

// Ordinal returns the English ordinal suffix for n.
func Ordinal(n int) string {
	switch {
	case n%100 >= 11 && n%100 <= 13:
		return "th"
	case n%10 == 1:
		return "st"
	case n%10 == 2:
		return "nd"
	case n%10 == 3:
		return "rd"
	default:
		return "th"
	}
}

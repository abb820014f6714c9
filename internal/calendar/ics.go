package calendar

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
)

// Session offsets relative to the event start. The feed only carries the
// weekend's start and end.
const (
	q2Offset     = 35 * time.Minute
	sprintOffset = 24 * time.Hour
)

// FromICS builds a calendar from an iCalendar feed. Each event is one round,
// numbered in feed order.
func FromICS(r io.Reader) (*Calendar, error) {
	feed, err := ical.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("parsing ICS: %w", err)
	}

	events := feed.Events()
	cal := &Calendar{Races: make([]Race, 0, len(events))}
	if len(events) > 0 {
		if start, err := events[0].GetStartAt(); err == nil {
			cal.Year = start.Year()
		}
	}

	for i, ev := range events {
		start, err := ev.GetStartAt()
		if err != nil {
			continue
		}
		end, err := ev.GetEndAt()
		if err != nil {
			continue
		}

		var summary string
		if p := ev.GetProperty(ical.ComponentPropertySummary); p != nil {
			summary = p.Value
		}
		v := lookupVenue(summary)

		cal.Races = append(cal.Races, Race{
			Round:    i + 1,
			Name:     summary,
			Location: v.location,
			Country:  v.country,
			Circuit:  v.circuit,
			Date:     start.Format("2006-01-02"),
			Sessions: Sessions{
				Q1:     start.Format(time.RFC3339),
				Q2:     start.Add(q2Offset).Format(time.RFC3339),
				Sprint: start.Add(sprintOffset).Format(time.RFC3339),
				Race:   end.Format(time.RFC3339),
			},
		})
	}

	return cal, nil
}

// ConvertICSFile converts an ICS file to JSON written next to it with a
// .json extension, and returns the path written.
func ConvertICSFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening ICS file: %w", err)
	}
	defer f.Close()

	cal, err := FromICS(f)
	if err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(cal, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding calendar: %w", err)
	}

	out := strings.TrimSuffix(path, filepath.Ext(path)) + ".json"
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", out, err)
	}
	return out, nil
}

// LoadFile reads a calendar from an .ics feed or a JSON file.
func LoadFile(path string) (*Calendar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening calendar file: %w", err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".ics") {
		return FromICS(f)
	}
	return ReadJSON(f)
}

type venue struct {
	keyword  string
	location string
	country  string
	circuit  string
}

// venues is matched in order against the event summary.
var venues = []venue{
	{"Thailand", "Buriram", "Thailand", "Chang International Circuit"},
	{"Argentina", "Termas de Río Hondo", "Argentina", "Autódromo Termas de Río Hondo"},
	{"Americas", "Austin", "United States", "Circuit of The Americas"},
	{"Qatar", "Lusail", "Qatar", "Lusail International Circuit"},
	{"España", "Jerez", "Spain", "Circuito de Jerez"},
	{"France", "Le Mans", "France", "Bugatti Circuit"},
	{"British", "Silverstone", "United Kingdom", "Silverstone Circuit"},
	{"Aragón", "Alcañiz", "Spain", "MotorLand Aragón"},
	{"Italia", "Mugello", "Italy", "Mugello Circuit"},
	{"Assen", "Assen", "Netherlands", "TT Circuit Assen"},
	{"Deutschland", "Sachsenring", "Germany", "Sachsenring"},
	{"České Republiky", "Brno", "Czech Republic", "Brno Circuit"},
	{"Österreich", "Spielberg", "Austria", "Red Bull Ring"},
	{"Hungary", "Mogyoród", "Hungary", "Hungaroring"},
	{"Catalunya", "Montmeló", "Spain", "Circuit de Barcelona-Catalunya"},
	{"San Marino", "Misano", "San Marino", "Misano World Circuit Marco Simoncelli"},
	{"Japan", "Motegi", "Japan", "Twin Ring Motegi"},
	{"Indonesia", "Lombok", "Indonesia", "Mandalika International Street Circuit"},
	{"Australia", "Phillip Island", "Australia", "Phillip Island Circuit"},
	{"Malaysia", "Sepang", "Malaysia", "Sepang International Circuit"},
	{"Portugal", "Portimão", "Portugal", "Autódromo Internacional do Algarve"},
	{"Valenciana", "Valencia", "Spain", "Circuit Ricardo Tormo"},
}

func lookupVenue(summary string) venue {
	for _, v := range venues {
		if strings.Contains(summary, v.keyword) {
			return v
		}
	}
	return venue{location: "Unknown", country: "Unknown", circuit: "Unknown"}
}

// Package timezone resolves the timezone abbreviations accepted by the API.
package timezone

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/freema/daysync/internal/apperror"
)

// abbreviations maps supported abbreviations to IANA zone names.
var abbreviations = map[string]string{
	// Australia
	"ACDT": "Australia/Adelaide",
	"ACST": "Australia/Darwin",
	"AEDT": "Australia/Sydney",
	"AEST": "Australia/Brisbane",
	"AWDT": "Australia/Perth",
	"AWST": "Australia/Perth",

	// United States
	"EST": "America/New_York",
	"EDT": "America/New_York",
	"CST": "America/Chicago",
	"CDT": "America/Chicago",
	"MST": "America/Denver",
	"MDT": "America/Denver",
	"PST": "America/Los_Angeles",
	"PDT": "America/Los_Angeles",

	// Europe
	"GMT":  "Europe/London",
	"BST":  "Europe/London",
	"CET":  "Europe/Paris",
	"CEST": "Europe/Paris",
	"EET":  "Europe/Bucharest",
	"EEST": "Europe/Bucharest",

	// Asia
	"JST":  "Asia/Tokyo",
	"KST":  "Asia/Seoul",
	"CNST": "Asia/Shanghai",
	"IST":  "Asia/Kolkata",

	"UTC": "UTC",
}

// Default is the abbreviation used when a request names none.
const Default = "UTC"

// Lookup returns the location for abbr. Matching is case-insensitive.
func Lookup(abbr string) (*time.Location, error) {
	name, ok := abbreviations[strings.ToUpper(abbr)]
	if !ok {
		return nil, apperror.Validation("unsupported timezone abbreviation: %s", abbr)
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %s: %w", name, err)
	}
	return loc, nil
}

// Supported returns the known abbreviations in sorted order.
func Supported() []string {
	out := make([]string, 0, len(abbreviations))
	for k := range abbreviations {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

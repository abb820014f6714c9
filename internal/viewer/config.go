package viewer

import (
	"fmt"

	"github.com/freema/daysync/internal/apperror"
)

// DocExpansion controls how documented operations are expanded when the
// viewer first renders.
type DocExpansion string

const (
	ExpandList DocExpansion = "list"
	ExpandFull DocExpansion = "full"
	ExpandNone DocExpansion = "none"
)

// Valid reports whether d is one of the expansion modes Swagger UI accepts.
func (d DocExpansion) Valid() bool {
	switch d {
	case ExpandList, ExpandFull, ExpandNone:
		return true
	}
	return false
}

// Config is the options object handed to SwaggerUIBundle. JSON keys match
// the Swagger UI option names.
type Config struct {
	SpecURL                  string       `json:"url"`
	MountTarget              string       `json:"dom_id"`
	DeepLinking              bool         `json:"deepLinking"`
	Layout                   string       `json:"layout"`
	DocExpansion             DocExpansion `json:"docExpansion"`
	DefaultModelsExpandDepth int          `json:"defaultModelsExpandDepth"`
	DisplayRequestDuration   bool         `json:"displayRequestDuration"`
	Filter                   bool         `json:"filter"`
	TryItOutEnabled          bool         `json:"tryItOutEnabled"`
}

// Defaults returns the viewer configuration served at /docs.
func Defaults() Config {
	return Config{
		SpecURL:                  "/docs/openapi.yaml",
		MountTarget:              "#swagger-ui",
		DeepLinking:              true,
		Layout:                   "BaseLayout",
		DocExpansion:             ExpandList,
		DefaultModelsExpandDepth: -1,
		DisplayRequestDuration:   true,
		Filter:                   true,
		TryItOutEnabled:          true,
	}
}

// Validate checks the fields Swagger UI cannot do without.
func (c Config) Validate() error {
	if c.SpecURL == "" {
		return apperror.Validation("viewer: spec url is required")
	}
	if c.MountTarget == "" {
		return apperror.Validation("viewer: mount target is required")
	}
	if !c.DocExpansion.Valid() {
		return apperror.Validation("viewer: unknown doc expansion %q", string(c.DocExpansion))
	}
	return nil
}

// String summarizes the config for log lines.
func (c Config) String() string {
	return fmt.Sprintf("viewer(url=%s dom_id=%s layout=%s)", c.SpecURL, c.MountTarget, c.Layout)
}

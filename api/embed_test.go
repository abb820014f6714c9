package api

import (
	"context"
	"testing"
)

func TestLoad_Validates(t *testing.T) {
	doc, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	for _, path := range []string{
		"/api/motogp",
		"/api/motogpnextrace",
		"/api/weather",
		"/api/crypto",
		"/api/news",
		"/api/stock",
		"/api/cache",
		"/health",
	} {
		if doc.Paths.Find(path) == nil {
			t.Errorf("spec is missing path %s", path)
		}
	}
}

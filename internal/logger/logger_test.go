package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestSetupWriter_JSON(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	l := SetupWriter(&buf, "warn", "json")

	l.Info("hidden")
	l.Warn("shown", "key", "weather:sydney")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one log line, got %d: %q", len(lines), buf.String())
	}

	var rec map[string]interface{}
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if rec["msg"] != "shown" || rec["service"] != "daysync" || rec["key"] != "weather:sydney" {
		t.Fatalf("unexpected record: %v", rec)
	}
}

func TestContextLogger(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, nil))

	ctx := WithContext(context.Background(), l)
	if FromContext(ctx) != l {
		t.Fatal("expected logger from context")
	}
	if FromContext(context.Background()) != slog.Default() {
		t.Fatal("expected default logger")
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARNING": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestWith(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	ctx, l := With(WithContext(context.Background(), base), "request_id", "abc")
	if FromContext(ctx) != l {
		t.Fatal("derived logger not stored in context")
	}

	l.Info("hello")
	if !strings.Contains(buf.String(), `"request_id":"abc"`) {
		t.Fatalf("missing attribute: %s", buf.String())
	}
}

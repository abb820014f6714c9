package tracing

import (
	"context"
	"strings"
	"testing"
)

func TestSetupDisabled(t *testing.T) {
	shutdown, err := Setup(context.Background(), Config{Enabled: false})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestTraceIDFromContext_NoSpan(t *testing.T) {
	if id := TraceIDFromContext(context.Background()); id != "" {
		t.Fatalf("expected empty trace id, got %q", id)
	}
}

func TestTracerSpan(t *testing.T) {
	ctx, span := Tracer().Start(context.Background(), "test", WithUpstreamAttributes("weather", "http://example.com/v1?key=secret"))
	defer span.End()
	if ctx == nil {
		t.Fatal("nil context")
	}
}

func TestSampler(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{0, "AlwaysOnSampler"},
		{1, "AlwaysOnSampler"},
		{0.25, "ParentBased{root:TraceIDRatioBased{0.25}"},
	}
	for _, tt := range tests {
		if got := sampler(tt.rate).Description(); !strings.HasPrefix(got, tt.want) {
			t.Errorf("sampler(%v) = %q, want prefix %q", tt.rate, got, tt.want)
		}
	}
}

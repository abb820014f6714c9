package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func TestBearerAuth(t *testing.T) {
	tests := []struct {
		name     string
		expected string
		header   string
		code     int
	}{
		{"valid token", "secret", "Bearer secret", http.StatusNoContent},
		{"wrong token", "secret", "Bearer nope", http.StatusUnauthorized},
		{"missing header", "secret", "", http.StatusUnauthorized},
		{"no scheme", "secret", "secret", http.StatusUnauthorized},
		{"unconfigured", "", "Bearer ", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodDelete, "/api/cache", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			BearerAuth(tt.expected)(ok).ServeHTTP(rec, req)
			if rec.Code != tt.code {
				t.Fatalf("status %d, want %d", rec.Code, tt.code)
			}
		})
	}
}

func TestCORS(t *testing.T) {
	h := CORS("https://dash.example.com")(ok)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/weather", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("preflight status %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://dash.example.com" {
		t.Fatalf("allow origin = %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); got != "GET, DELETE, OPTIONS" {
		t.Fatalf("allow methods = %q", got)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/weather", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("GET should reach the handler, got %d", rec.Code)
	}
}

func TestCORS_DefaultOrigin(t *testing.T) {
	rec := httptest.NewRecorder()
	CORS("")(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("allow origin = %q", got)
	}
}

func TestClientAddr(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.7:51234"
	if got := clientAddr(req); got != "203.0.113.7" {
		t.Fatalf("clientAddr = %q", got)
	}

	req.RemoteAddr = "203.0.113.7"
	if got := clientAddr(req); got != "203.0.113.7" {
		t.Fatalf("clientAddr without port = %q", got)
	}
}

func TestRequestLogger(t *testing.T) {
	rec := httptest.NewRecorder()
	RequestLogger(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status %d", rec.Code)
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{"Basic abc", "", false},
		{"abc", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", tt.header)
		token, ok := bearerToken(req)
		if token != tt.token || ok != tt.ok {
			t.Errorf("bearerToken(%q) = %q, %v", tt.header, token, ok)
		}
	}
}

func TestPrometheusMetrics(t *testing.T) {
	rec := httptest.NewRecorder()
	PrometheusMetrics(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/unrouted", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status %d", rec.Code)
	}
}

func TestRetryAfter(t *testing.T) {
	tests := []struct {
		limit  int
		window time.Duration
		want   time.Duration
	}{
		{120, time.Minute, time.Second},
		{10, time.Minute, 6 * time.Second},
		{1, time.Hour, time.Hour},
	}
	for _, tt := range tests {
		rl := &RateLimiter{limit: tt.limit, window: tt.window}
		if got := rl.retryAfter(); got != tt.want {
			t.Errorf("retryAfter(%d/%s) = %s, want %s", tt.limit, tt.window, got, tt.want)
		}
	}
}

func TestHashClient(t *testing.T) {
	a, b := hashClient("203.0.113.7"), hashClient("203.0.113.8")
	if len(a) != 16 || a == b {
		t.Fatalf("unexpected hashes %q %q", a, b)
	}
}

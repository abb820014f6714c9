package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"
)

// BearerAuth guards admin routes. The token is compared in constant time;
// an empty expected token rejects every request.
func BearerAuth(expected string) func(http.Handler) http.Handler {
	want := []byte(expected)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok || len(want) == 0 || subtle.ConstantTimeCompare([]byte(token), want) != 1 {
				slog.Warn("admin request rejected", "path", r.URL.Path, "remote", r.RemoteAddr)
				reject(w, http.StatusUnauthorized, "missing or invalid admin token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	return strings.TrimSpace(token), true
}

package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", NotFound("race %d", 3), http.StatusNotFound},
		{"validation", Validation("bad"), http.StatusBadRequest},
		{"upstream", Upstream("weather api returned %d", 503), http.StatusBadGateway},
		{"internal", Internal("boom"), http.StatusInternalServerError},
		{"wrapped app error", fmt.Errorf("loading: %w", NotFound("x")), http.StatusNotFound},
		{"bare sentinel", fmt.Errorf("token: %w", ErrUnauthorized), http.StatusUnauthorized},
		{"bare upstream", ErrUpstream, http.StatusBadGateway},
		{"plain error", errors.New("?"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := HTTPStatus(tt.err); got != tt.want {
			t.Errorf("%s: HTTPStatus = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestAppError_Unwrap(t *testing.T) {
	err := Validation("symbol is required")
	if !errors.Is(err, ErrValidation) {
		t.Fatal("expected errors.Is to match ErrValidation")
	}
	if err.Error() != "symbol is required" {
		t.Fatalf("unexpected message %q", err.Error())
	}

	noMsg := &AppError{Err: ErrInternal}
	if noMsg.Error() != ErrInternal.Error() {
		t.Fatalf("expected fallback to wrapped error, got %q", noMsg.Error())
	}
}

func TestWithField(t *testing.T) {
	err := Validation("invalid query parameters").
		WithField("Lang", "must be 2 characters").
		WithField("Max", "out of range")

	if len(err.Fields) != 2 || err.Fields["Max"] != "out of range" {
		t.Fatalf("unexpected fields %v", err.Fields)
	}
	if HTTPStatus(err) != http.StatusBadRequest {
		t.Fatalf("status = %d", HTTPStatus(err))
	}
}

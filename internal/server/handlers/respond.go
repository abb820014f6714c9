package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/freema/daysync/internal/apperror"
)

var validate = validator.New()

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"error":   http.StatusText(status),
		"message": message,
	})
}

func writeAppError(w http.ResponseWriter, err error) {
	status := apperror.HTTPStatus(err)
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		writeJSON(w, status, map[string]interface{}{
			"error":   http.StatusText(status),
			"message": appErr.Message,
			"fields":  appErr.Fields,
		})
		return
	}
	writeError(w, status, "internal server error")
}

// validateQuery checks q against its validate tags and converts failures
// into a 400 AppError carrying one message per field.
func validateQuery(q interface{}) error {
	err := validate.Struct(q)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return apperror.Validation("validation failed")
	}

	appErr := apperror.Validation("invalid query parameters")
	for _, e := range validationErrs {
		appErr.WithField(e.Field(), formatValidationError(e))
	}
	return appErr
}

func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "parameter is required"
	case "len":
		return "must be " + e.Param() + " characters"
	case "alpha":
		return "must contain letters only"
	case "oneof":
		return "must be one of: " + e.Param()
	case "min", "max":
		return "out of range"
	default:
		return "invalid value"
	}
}

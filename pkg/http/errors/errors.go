package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrorResponse is the JSON envelope for every failed request.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Field   string            `json:"field,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// RespondJSON writes payload as JSON with the given status.
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// RespondError writes a standardized error response.
func RespondError(w http.ResponseWriter, status int, code, message string) {
	RespondJSON(w, status, ErrorResponse{
		Error:   code,
		Message: message,
	})
}

// RespondValidationError reports a single invalid field.
func RespondValidationError(w http.ResponseWriter, message, field string) {
	RespondJSON(w, http.StatusBadRequest, ErrorResponse{
		Error:   ErrCodeValidationFailed,
		Message: message,
		Field:   field,
	})
}

// RespondValidationErrors converts validator failures into a details map
// keyed by json field name. Non-validator errors become a plain bad request.
func RespondValidationErrors(w http.ResponseWriter, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		RespondBadRequest(w, ErrCodeInvalidRequest, err.Error())
		return
	}
	details := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		details[fieldName(fe)] = fe.Tag()
	}
	RespondJSON(w, http.StatusBadRequest, ErrorResponse{
		Error:   ErrCodeValidationFailed,
		Message: "request validation failed",
		Details: details,
	})
}

func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	return strings.ToLower(ns)
}

// RespondInternalError writes an internal server error response.
func RespondInternalError(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusInternalServerError, ErrCodeInternalError, message)
}

// RespondNotFound writes a not found error response.
func RespondNotFound(w http.ResponseWriter, code, message string) {
	RespondError(w, http.StatusNotFound, code, message)
}

// RespondUnauthorized writes an unauthorized error response.
func RespondUnauthorized(w http.ResponseWriter, code, message string) {
	RespondError(w, http.StatusUnauthorized, code, message)
}

// RespondConflict writes a conflict error response.
func RespondConflict(w http.ResponseWriter, code, message string) {
	RespondError(w, http.StatusConflict, code, message)
}

// RespondBadRequest writes a bad request error response.
func RespondBadRequest(w http.ResponseWriter, code, message string) {
	RespondError(w, http.StatusBadRequest, code, message)
}

// RespondTooManyRequests writes a rate limit response.
func RespondTooManyRequests(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusTooManyRequests, ErrCodeRateLimited, message)
}

// RespondServiceUnavailable writes a service unavailable error response.
func RespondServiceUnavailable(w http.ResponseWriter, code, message string) {
	RespondError(w, http.StatusServiceUnavailable, code, message)
}

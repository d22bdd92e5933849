// Package response writes JSON bodies in the shapes the catalog API uses:
// bare resources on success and {"detail": ...} on failure.
package response

import (
	"encoding/json"
	"net/http"
)

// DetailBody is the error/confirmation envelope.
type DetailBody struct {
	Detail string            `json:"detail"`
	Errors map[string]string `json:"errors,omitempty"`
}

func write(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

// JSON sends body as-is with the given status.
func JSON(w http.ResponseWriter, status int, body interface{}) {
	write(w, status, body)
}

// OK sends a 200 with body.
func OK(w http.ResponseWriter, body interface{}) {
	write(w, http.StatusOK, body)
}

// Detail sends {"detail": message}.
func Detail(w http.ResponseWriter, status int, message string) {
	write(w, status, DetailBody{Detail: message})
}

// ValidationError sends a 422 with field-level error map.
func ValidationError(w http.ResponseWriter, errs map[string]string) {
	write(w, http.StatusUnprocessableEntity, DetailBody{
		Detail: "Validation failed",
		Errors: errs,
	})
}

// NotFound sends a 404.
func NotFound(w http.ResponseWriter, message string) {
	Detail(w, http.StatusNotFound, message)
}

// InternalError sends a 500 without leaking the cause.
func InternalError(w http.ResponseWriter) {
	Detail(w, http.StatusInternalServerError, "Internal Server Error")
}

// Package bind decodes an HTTP request body into a struct.
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/shashiranjanraj/catalog/config"
)

// ErrBodyTooLarge is returned when the body exceeds MAX_BODY_BYTES.
var ErrBodyTooLarge = errors.New("request body too large")

// Decode decodes r.Body as JSON into dest. The body is capped at
// MAX_BODY_BYTES to prevent memory exhaustion.
//
// Malformed JSON and values of the wrong JSON type are reported as field
// errors, keyed by the JSON field when known and "body" otherwise, so
// callers answer them with 422. The error return is reserved for
// ErrBodyTooLarge. Validation rules are not run here; the service layer
// owns them.
func Decode(r *http.Request, dest interface{}) (errs map[string]string, err error) {
	r.Body = http.MaxBytesReader(nil, r.Body, config.MaxBodyBytes())

	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, fmt.Errorf("%w (max %d bytes)", ErrBodyTooLarge, maxErr.Limit)
		}
		return decodeErrors(err), nil
	}
	return nil, nil
}

func decodeErrors(err error) map[string]string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return map[string]string{
			typeErr.Field: fmt.Sprintf("The %s field must be of type %s.", typeErr.Field, jsonKind(typeErr.Type.Kind().String())),
		}
	}

	var syntaxErr *json.SyntaxError
	switch {
	case errors.Is(err, io.EOF):
		return map[string]string{"body": "The request body is required."}
	case errors.As(err, &syntaxErr):
		return map[string]string{"body": fmt.Sprintf("The request body is not valid JSON (offset %d).", syntaxErr.Offset)}
	case errors.Is(err, io.ErrUnexpectedEOF):
		return map[string]string{"body": "The request body is not valid JSON (unexpected end of input)."}
	}
	return map[string]string{"body": "The request body must be a JSON object."}
}

func jsonKind(goKind string) string {
	switch goKind {
	case "float32", "float64", "int", "int8", "int16", "int32", "int64",
		"uint", "uint8", "uint16", "uint32", "uint64":
		return "number"
	case "bool":
		return "boolean"
	case "struct", "map":
		return "object"
	case "slice", "array":
		return "array"
	}
	return goKind
}

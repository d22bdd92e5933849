// Package optional distinguishes a JSON field that was left out of a payload
// from one that was sent as null and from one that carries a value.
//
//	type Patch struct {
//	    Name optional.Value[string] `json:"name"`
//	}
//
//	{}               → Name.Set == false
//	{"name": null}   → Name.Set == true,  Name.Null == true
//	{"name": "Desk"} → Name.Set == true,  Name.V == "Desk"
package optional

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

var nullLiteral = []byte("null")

// Value wraps a T with presence information. The zero Value is absent.
type Value[T any] struct {
	V    T
	Set  bool
	Null bool
}

// Of returns a present, non-null Value.
func Of[T any](v T) Value[T] { return Value[T]{V: v, Set: true} }

// Null returns a present Value that was explicitly null.
func Null[T any]() Value[T] { return Value[T]{Set: true, Null: true} }

// Present reports whether the field appeared in the payload with a value.
func (o Value[T]) Present() bool { return o.Set && !o.Null }

// Get returns the value and whether it is present and non-null.
func (o Value[T]) Get() (T, bool) { return o.V, o.Present() }

// OrElse returns the value when present, otherwise fallback.
func (o Value[T]) OrElse(fallback T) T {
	if o.Present() {
		return o.V
	}
	return fallback
}

// Interface exposes the wrapped value for reflection-based callers such as
// pkg/validate. It returns nil unless the value is present.
func (o Value[T]) Interface() any {
	if !o.Present() {
		return nil
	}
	return o.V
}

// IsSet lets reflection-based callers test presence without knowing T.
func (o Value[T]) IsSet() bool { return o.Set }

// IsNull lets reflection-based callers test for an explicit null.
func (o Value[T]) IsNull() bool { return o.Set && o.Null }

// UnmarshalJSON is only invoked by encoding/json when the key is present,
// which is what makes absence observable.
//
// A JSON string is accepted for a number or boolean T when its contents are
// a literal of that type: "12.5" fills a Value[float64], "false" a
// Value[bool]. Anything else keeps the original type error.
func (o *Value[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), nullLiteral) {
		var zero T
		o.V = zero
		o.Null = true
		return nil
	}
	o.Null = false

	err := json.Unmarshal(data, &o.V)
	var typeErr *json.UnmarshalTypeError
	if !errors.As(err, &typeErr) || typeErr.Value != "string" {
		return err
	}

	var s string
	if json.Unmarshal(data, &s) != nil {
		return err
	}
	lit := strings.TrimSpace(s)
	if lit == "" || lit == "null" {
		return err
	}
	if json.Unmarshal([]byte(lit), &o.V) != nil {
		return err
	}
	return nil
}

// MarshalJSON writes null for absent or null values.
func (o Value[T]) MarshalJSON() ([]byte, error) {
	if !o.Present() {
		return nullLiteral, nil
	}
	return json.Marshal(o.V)
}

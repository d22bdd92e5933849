// Package validate provides Laravel-inspired struct-tag validation.
//
// Supported rules (comma-separated in the `validate` tag):
//
//	required            field must be present and non-null (plain strings: non-blank)
//	filled              if present, must not be null (absent is fine)
//	nullable            if null or empty, skip all remaining rules for this field
//	max=N               string: max char length | number: max value
//	gt=N                number > N
//	gte=N               number >= N
//
// Fields of type optional.Value[T] are presence-aware: an absent field only
// fails `required`, a present non-null value counts as filled even when it
// is "", and every other rule runs against the wrapped value.
//
// Example:
//
//	type Input struct {
//	    Name  optional.Value[string]  `json:"name"  validate:"required,max=120"`
//	    Price optional.Value[float64] `json:"price" validate:"filled,gt=0"`
//	    Skip  int                     `json:"skip"  validate:"gte=0"`
//	}
package validate

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// presence is implemented by optional.Value[T].
type presence interface {
	IsSet() bool
	IsNull() bool
	Interface() any
}

// ─── Public API ───────────────────────────────────────────────────────────────

// Struct validates all exported fields of v that carry a `validate` tag.
// Returns a map of fieldName → error message; empty map means no errors.
func Struct(v interface{}) map[string]string {
	errs := make(map[string]string)
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return errs
	}
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}

		tag := field.Tag.Get("validate")
		if tag == "" {
			continue
		}

		name := jsonFieldName(field)
		if msg := checkField(name, rv.Field(i), splitRules(tag)); msg != "" {
			errs[name] = msg
		}
	}

	return errs
}

// HasErrors returns true when the errs map is non-empty.
func HasErrors(errs map[string]string) bool { return len(errs) > 0 }

// checkField returns the message of the first failing rule, or "".
func checkField(name string, value reflect.Value, rules []string) string {
	set, null, wrapped := true, false, false
	if p, ok := value.Interface().(presence); ok {
		set, null, wrapped = p.IsSet(), p.IsNull(), true
		if inner := p.Interface(); inner != nil {
			value = reflect.ValueOf(inner)
		} else {
			value = reflect.Value{}
		}
	}
	empty := null || !value.IsValid() || (!wrapped && isEmpty(value))

	if !set {
		if hasRule(rules, "required") {
			return fmt.Sprintf("The %s field is required.", name)
		}
		return ""
	}

	if empty {
		switch {
		case hasRule(rules, "required"):
			return fmt.Sprintf("The %s field is required.", name)
		case hasRule(rules, "filled"):
			if null {
				return fmt.Sprintf("The %s field must not be null.", name)
			}
			return fmt.Sprintf("The %s field must have a value.", name)
		case hasRule(rules, "nullable"), null:
			return ""
		}
	}

	for _, rule := range rules {
		switch rule {
		case "required", "filled", "nullable":
			continue
		}
		if msg := applyRule(rule, name, value); msg != "" {
			return msg
		}
	}
	return ""
}

// ─── Core dispatcher ──────────────────────────────────────────────────────────

func applyRule(rule, field string, v reflect.Value) string {
	key, param, _ := strings.Cut(rule, "=")

	switch key {
	case "max":
		n := mustParseFloat(param)
		if isNumericKind(v) {
			if toFloat(v) > n {
				return fmt.Sprintf("The %s must not be greater than %s.", field, param)
			}
		} else if float64(len([]rune(fmt.Sprintf("%v", v.Interface())))) > n {
			return fmt.Sprintf("The %s must not exceed %s characters.", field, param)
		}
	case "gt":
		if toFloat(v) <= mustParseFloat(param) {
			return fmt.Sprintf("The %s must be greater than %s.", field, param)
		}
	case "gte":
		if toFloat(v) < mustParseFloat(param) {
			return fmt.Sprintf("The %s must be greater than or equal to %s.", field, param)
		}
	}

	return ""
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func isEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return strings.TrimSpace(v.String()) == ""
	case reflect.Slice, reflect.Map, reflect.Array:
		return v.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	case reflect.Bool:
		return false // false is a valid boolean value, not empty
	}
	// Numbers are never empty here: 0 is a value and range rules judge it.
	return false
}

func isNumericKind(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func toFloat(v reflect.Value) float64 {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint())
	case reflect.Float32, reflect.Float64:
		return v.Float()
	}
	f, _ := strconv.ParseFloat(fmt.Sprintf("%v", v.Interface()), 64)
	return f
}

func mustParseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}

func jsonFieldName(f reflect.StructField) string {
	name := f.Tag.Get("json")
	if name == "" || name == "-" {
		return strings.ToLower(f.Name)
	}
	if idx := strings.Index(name, ","); idx != -1 {
		name = name[:idx]
	}
	return name
}

func splitRules(tag string) []string {
	parts := strings.Split(tag, ",")
	rules := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			rules = append(rules, p)
		}
	}
	return rules
}

func hasRule(rules []string, target string) bool {
	for _, r := range rules {
		if r == target {
			return true
		}
	}
	return false
}

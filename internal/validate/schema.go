// Package validate implements schema-driven validation of untyped field maps.
//
// Each entity kind declares its schema as data (field name → kind + required
// flag) and both platform users and Telegram users run through the same
// routine. Validation never fails fast: every field violation is collected
// into a field→messages map so the client sees all problems in one response.
package validate

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Kind is the expected type of a field's raw value.
type Kind int

const (
	String Kind = iota
	Int
)

// Standard violation messages, matching the wire contract exactly.
const (
	MsgRequired = "This field is required."
	MsgString   = "Not a valid string."
	MsgInt      = "A valid integer is required."
)

// Field describes the constraints on a single schema field.
type Field struct {
	Kind     Kind
	Required bool
}

// Schema maps field names to their constraints. Fields present in the input
// but absent from the schema are ignored.
type Schema map[string]Field

// Mode selects how required-ness is enforced.
type Mode int

const (
	// Create requires every Required field to be present and non-empty.
	Create Mode = iota
	// Partial checks only the fields actually present in the input; absent
	// fields keep their previous values at the persistence layer.
	Partial
)

// Clean validates raw against the schema and returns the coerced values
// alongside the accumulated violations. The returned map contains an entry
// for every schema field that was present and valid, including optional
// strings submitted as empty; errs is nil when the input is fully valid.
//
// Raw values arrive straight from a decoded JSON body, so numbers are
// float64 and everything is untrusted. String fields accept only strings;
// integer fields accept whole JSON numbers, json.Number, and numeric
// strings (the shapes a Telegram client can produce).
func (s Schema) Clean(raw map[string]any, mode Mode) (map[string]any, map[string][]string) {
	cleaned := make(map[string]any, len(s))
	errs := make(map[string][]string)

	for name, field := range s {
		value, present := raw[name]
		if !present || isEmpty(value) {
			switch {
			case field.Required && mode == Create:
				errs[name] = append(errs[name], MsgRequired)
			case field.Required && present:
				// Explicitly submitted but empty counts as a violation
				// even in partial mode.
				errs[name] = append(errs[name], MsgRequired)
			case present && field.Kind == String:
				// An optional string submitted as empty clears the stored
				// value; only an absent field leaves it untouched.
				if _, ok := value.(string); ok {
					cleaned[name] = ""
				}
			}
			continue
		}

		coerced, ok := coerce(value, field.Kind)
		if !ok {
			errs[name] = append(errs[name], kindMessage(field.Kind))
			continue
		}
		cleaned[name] = coerced
	}

	if len(errs) == 0 {
		return cleaned, nil
	}
	return cleaned, errs
}

func kindMessage(k Kind) string {
	if k == Int {
		return MsgInt
	}
	return MsgString
}

// isEmpty reports whether a raw value counts as "not provided".
func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	default:
		return false
	}
}

// coerce converts a raw JSON value to the schema kind.
func coerce(v any, k Kind) (any, bool) {
	switch k {
	case String:
		s, ok := v.(string)
		return s, ok
	case Int:
		switch t := v.(type) {
		case float64:
			n := int64(t)
			if float64(n) != t {
				return nil, false
			}
			return n, true
		case int:
			return int64(t), true
		case int64:
			return t, true
		case json.Number:
			n, err := t.Int64()
			return n, err == nil
		case string:
			n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
			return n, err == nil
		}
	}
	return nil, false
}

// StringOr returns the cleaned string for name, or fallback when absent.
func StringOr(cleaned map[string]any, name, fallback string) string {
	if v, ok := cleaned[name].(string); ok {
		return v
	}
	return fallback
}

// IntOr returns the cleaned integer for name, or fallback when absent.
func IntOr(cleaned map[string]any, name string, fallback int64) int64 {
	if v, ok := cleaned[name].(int64); ok {
		return v
	}
	return fallback
}

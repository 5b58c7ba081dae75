// Package coerce converts single raw JSON values, which the Breeze API almost
// always transmits as strings, into their semantic Go types.
//
// Every coercer is total: a value that does not match the expected shape is
// returned unchanged rather than reported as an error. The service's string
// typing is ambiguous by nature, so a mismatch only means "not this type".
//
// Coerced values use a small fixed set of Go types: bool, int64, float64,
// time.Time and nil (for null date sentinels). Numbers decoded with
// json.Decoder.UseNumber arrive as json.Number and are handled like their
// string form.
package coerce

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

var (
	idPattern    = regexp.MustCompile(`^[0-9]+$`)
	intPattern   = regexp.MustCompile(`^-?[0-9]+$`)
	floatPattern = regexp.MustCompile(`^-?[0-9]*\.[0-9]+$`)
)

// placeholderKey is used when a scalar is coerced without a map key. It can
// never satisfy IsIDKey.
const placeholderKey = "-"

// Bool converts the service's boolean spellings. Values that are already
// booleans, and anything unrecognized, are returned as-is.
func Bool(v any) any {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		switch strings.ToLower(t) {
		case "1", "true", "on":
			return true
		case "0", "false", "off":
			return false
		}
	case json.Number:
		switch t.String() {
		case "1":
			return true
		case "0":
			return false
		}
	case int:
		return boolFromInt(int64(t), v)
	case int64:
		return boolFromInt(t, v)
	case float64:
		switch t {
		case 1:
			return true
		case 0:
			return false
		}
	}
	return v
}

func boolFromInt(n int64, orig any) any {
	switch n {
	case 1:
		return true
	case 0:
		return false
	}
	return orig
}

// IsIDKey reports whether a map key names an identifier: exactly "id" or
// "oid", or any key containing "_id" (person_id, field_id, ...).
func IsIDKey(key string) bool {
	return key == "id" || key == "oid" || strings.Contains(key, "_id")
}

// ID parses an unsigned decimal string into an int64. Anything else,
// including digit strings that overflow int64, is returned unchanged.
func ID(v any) any {
	s, ok := text(v)
	if !ok || !idPattern.MatchString(s) {
		return v
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return v
	}
	return n
}

// Int parses a signed decimal string into an int64. Magnitudes beyond the
// signed 64-bit range are returned as the original string so no precision is
// lost.
func Int(v any) any {
	s, ok := text(v)
	if !ok || !intPattern.MatchString(s) {
		return v
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return v
	}
	return n
}

// Float parses strings with a decimal point ("3.14", "-.5") into a float64.
func Float(v any) any {
	s, ok := text(v)
	if !ok || !floatPattern.MatchString(s) {
		return v
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return v
	}
	return f
}

// Scalar applies the precedence used for values with no field-specific rule:
// integer, then float, then date. The first coercion that changes the value
// wins.
func Scalar(v any) any {
	switch v.(type) {
	case string, json.Number:
	default:
		return v
	}
	if out, ok := changed(v, Int(v)); ok {
		return out
	}
	if out, ok := changed(v, Float(v)); ok {
		return out
	}
	if n, isNum := v.(json.Number); isNum {
		// Exponent forms such as 1e3 match neither pattern. Oversized
		// integers stay json.Number so they re-encode exactly.
		if strings.ContainsAny(n.String(), "eE") {
			if f, err := n.Float64(); err == nil {
				return f
			}
		}
		return v
	}
	if out, ok := changed(v, Date(v)); ok {
		return out
	}
	return v
}

// Leaf coerces a single map value using its key as a routing hint.
func Leaf(key string, v any) any {
	if IsIDKey(key) {
		return ID(v)
	}
	return Scalar(v)
}

// Value coerces a scalar that has no key context.
func Value(v any) any {
	return Leaf(placeholderKey, v)
}

func text(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	}
	return "", false
}

// changed reports whether a coercer produced something other than its input.
// A nil result (a null date) counts as a change.
func changed(in, out any) (any, bool) {
	if out == nil {
		return nil, true
	}
	switch o := out.(type) {
	case string:
		if s, ok := in.(string); ok && s == o {
			return in, false
		}
	case json.Number:
		if n, ok := in.(json.Number); ok && n == o {
			return in, false
		}
	}
	return out, true
}

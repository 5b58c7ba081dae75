// Package jsonx decodes untyped JSON the way the rest of the module expects:
// numbers as json.Number, and exactly one value per document.
package jsonx

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrTrailingData is returned when a document holds more than one value.
var ErrTrailingData = errors.New("jsonx: trailing data after JSON value")

// Decode reads a single JSON value from r.
func Decode(r io.Reader) (any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		if err != nil {
			return nil, fmt.Errorf("jsonx: %w", err)
		}
		return nil, ErrTrailingData
	}
	return v, nil
}

// DecodeBytes is Decode over a byte slice.
func DecodeBytes(b []byte) (any, error) {
	return Decode(bytes.NewReader(b))
}

// DecodeString is Decode over a string.
func DecodeString(s string) (any, error) {
	return Decode(strings.NewReader(s))
}

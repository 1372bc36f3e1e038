// Package payload decodes the loosely typed JSON bodies accepted by the
// text endpoints and produces the client-facing messages for malformed ones.
package payload

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
)

// Client-facing messages.
const (
	MsgInvalidJSON   = "Invalid JSON data provided"
	MsgNoText        = "No text provided"
	MsgEmptyText     = "Empty text provided"
	MsgBodyTooLarge  = "Request body too large"
	MsgInvalidFormat = "must be a valid integer"
)

// Error is a rejected body. Status is 400 or 413.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

func badRequest(msg string) *Error { return &Error{Status: http.StatusBadRequest, Message: msg} }

// Fields is a decoded JSON object.
type Fields map[string]json.RawMessage

// Decode reads a non-empty JSON object. An empty object, a non-object and
// malformed JSON are all MsgInvalidJSON.
func Decode(r *http.Request) (Fields, error) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, &Error{Status: http.StatusRequestEntityTooLarge, Message: MsgBodyTooLarge}
		}
		return nil, badRequest(MsgInvalidJSON)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil, badRequest(MsgInvalidJSON)
	}
	var f Fields
	if err := json.Unmarshal(raw, &f); err != nil || len(f) == 0 {
		return nil, badRequest(MsgInvalidJSON)
	}
	return f, nil
}

// Text returns the "text" field. A missing, null or non-string field is
// MsgNoText and a blank string is MsgEmptyText.
func (f Fields) Text() (string, error) {
	raw, ok := f["text"]
	if !ok || isNull(raw) {
		return "", badRequest(MsgNoText)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", badRequest(MsgNoText)
	}
	if strings.TrimSpace(s) == "" {
		return "", badRequest(MsgEmptyText)
	}
	return s, nil
}

// String returns a string field or def when absent or null. Non-strings
// are returned in their JSON form so they fail the caller's enum check.
func (f Fields) String(key, def string) string {
	raw, ok := f[key]
	if !ok || isNull(raw) {
		return def
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return string(raw)
	}
	return s
}

// Int reads an optional integer that may arrive as a JSON number or a
// numeric string. Fractions are truncated. present is false when the field
// is absent or null.
func (f Fields) Int(key string) (v int, present bool, err error) {
	raw, ok := f[key]
	if !ok || isNull(raw) {
		return 0, false, nil
	}
	invalid := badRequest(key + " " + MsgInvalidFormat)

	var num float64
	if json.Unmarshal(raw, &num) == nil {
		if math.IsInf(num, 0) || math.Abs(num) > math.MaxInt32 {
			return 0, true, invalid
		}
		return int(num), true, nil
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return 0, true, invalid
		}
		return n, true, nil
	}
	return 0, true, invalid
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

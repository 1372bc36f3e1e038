// Package pathutil parses path parameters and normalizes request paths for
// metric labels.
package pathutil

import (
	"errors"
	"strconv"
)

// ErrInvalidID is returned for IDs that are not positive integers.
var ErrInvalidID = errors.New("invalid id")

// ParseID parses a record ID taken from a path segment such as r.PathValue("id").
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}

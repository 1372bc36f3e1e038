// Package config provides fail-open environment loaders.
//
// Every loader returns a usable value: unset variables yield the default
// silently, malformed or invalid values yield the default plus a warning.
// Callers decide how to surface the warning (see Reporter).
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Result is the outcome of loading one configuration value.
type Result[T any] struct {
	Value           T
	Warning         string
	FallbackApplied bool
}

func ok[T any](v T) Result[T] { return Result[T]{Value: v} }

func fallback[T any](key, raw string, def T, err error) Result[T] {
	return Result[T]{
		Value:           def,
		Warning:         fmt.Sprintf("Invalid %s='%s': %v, falling back to default '%v'", key, raw, err, def),
		FallbackApplied: true,
	}
}

// LoadEnvString returns the variable or defaultValue when it is unset or empty.
func LoadEnvString(envKey, defaultValue string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	return defaultValue
}

// LoadEnvWithFallback loads a string and checks it with validator (may be nil).
func LoadEnvWithFallback(envKey, defaultValue string, validator func(string) error) Result[string] {
	raw := os.Getenv(envKey)
	if raw == "" {
		return ok(defaultValue)
	}
	if validator != nil {
		if err := validator(raw); err != nil {
			return fallback(envKey, raw, defaultValue, err)
		}
	}
	return ok(raw)
}

// LoadEnvDuration parses a Go duration string ("90s", "1h30m").
func LoadEnvDuration(envKey string, defaultValue time.Duration, validator func(time.Duration) error) Result[time.Duration] {
	raw := os.Getenv(envKey)
	if raw == "" {
		return ok(defaultValue)
	}
	d, err := time.ParseDuration(raw)
	if err == nil && validator != nil {
		err = validator(d)
	}
	if err != nil {
		return fallback(envKey, raw, defaultValue, err)
	}
	return ok(d)
}

// LoadEnvSeconds parses an integer number of seconds, the format used by
// the cleanup interval settings.
func LoadEnvSeconds(envKey string, defaultValue time.Duration, validator func(time.Duration) error) Result[time.Duration] {
	raw := os.Getenv(envKey)
	if raw == "" {
		return ok(defaultValue)
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fallback(envKey, raw, defaultValue, fmt.Errorf("invalid integer seconds"))
	}
	d := time.Duration(n) * time.Second
	if validator != nil {
		if err := validator(d); err != nil {
			return fallback(envKey, raw, defaultValue, err)
		}
	}
	return ok(d)
}

// LoadEnvInt parses a base-10 integer.
func LoadEnvInt(envKey string, defaultValue int, validator func(int) error) Result[int] {
	raw := os.Getenv(envKey)
	if raw == "" {
		return ok(defaultValue)
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fallback(envKey, raw, defaultValue, fmt.Errorf("invalid integer format"))
	}
	if validator != nil {
		if err := validator(n); err != nil {
			return fallback(envKey, raw, defaultValue, err)
		}
	}
	return ok(n)
}

// LoadEnvFloat parses a float64.
func LoadEnvFloat(envKey string, defaultValue float64, validator func(float64) error) Result[float64] {
	raw := os.Getenv(envKey)
	if raw == "" {
		return ok(defaultValue)
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return fallback(envKey, raw, defaultValue, fmt.Errorf("invalid number format"))
	}
	if validator != nil {
		if err := validator(f); err != nil {
			return fallback(envKey, raw, defaultValue, err)
		}
	}
	return ok(f)
}

// LoadEnvBool accepts the strconv.ParseBool spellings.
func LoadEnvBool(envKey string, defaultValue bool) Result[bool] {
	raw := os.Getenv(envKey)
	if raw == "" {
		return ok(defaultValue)
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback(envKey, raw, defaultValue, fmt.Errorf("expected 'true' or 'false'"))
	}
	return ok(b)
}

// LoadEnvList splits a comma-separated variable, trimming blanks.
func LoadEnvList(envKey string, defaultValue []string) []string {
	raw := os.Getenv(envKey)
	if raw == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

// Package utils holds small parsing helpers shared by configuration code.
// They never fail: malformed input yields the caller's default.
package utils

import (
	"strconv"
	"time"
)

// AtoiDefault parses s as a base-10 int, returning def when s is empty or
// malformed. Surrounding spaces are not trimmed.
//
//	utils.AtoiDefault("42", 0) // 42
//	utils.AtoiDefault("x", 5)  // 5
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

// FloatDefault parses s as a float64, returning def on empty or bad input.
func FloatDefault(s string, def float64) float64 {
	if s == "" {
		return def
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return def
}

// DurationDefault parses s with time.ParseDuration ("5s", "1m30s"),
// returning def on empty or bad input.
func DurationDefault(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	return def
}

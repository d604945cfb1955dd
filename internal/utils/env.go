package utils

import (
	"os"
	"strconv"
	"strings"
)

// GetEnvInt returns the integer value of key, or defaultValue when the
// variable is unset or not a valid integer.
func GetEnvInt(key string, defaultValue int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return defaultValue
	}
	return n
}

const (
	AttemptLimitEnv     = "KNOCKOFF_ATTEMPT_LIMIT"
	DefaultAttemptLimit = 1000000
)

// ResolveAttemptLimit picks the retry budget: explicit if positive, then the
// KNOCKOFF_ATTEMPT_LIMIT variable, then fallback, then DefaultAttemptLimit.
func ResolveAttemptLimit(explicit, fallback int) int {
	if explicit > 0 {
		return explicit
	}
	if n := GetEnvInt(AttemptLimitEnv, 0); n > 0 {
		return n
	}
	if fallback > 0 {
		return fallback
	}
	return DefaultAttemptLimit
}

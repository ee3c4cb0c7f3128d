package config

import (
	"os"
	"strconv"
	"time"
)

// Timeouts holds all configurable timeout values.
// These values can be customized via environment variables.
type Timeouts struct {
	CatalogIndex      time.Duration // Timeout for the one-shot catalog index
	Launch            time.Duration // Timeout for a whole launch, compensation excluded
	Push              time.Duration // Timeout for staging and pushing booster source
	Compensation      time.Duration // Timeout for each compensating delete
	Delete            time.Duration // Timeout for cleanup delete operations
	RetryMaxAttempts  int           // Maximum number of retry attempts
	RetryInitialDelay time.Duration // Initial delay between retries
}

// LoadTimeouts loads timeout configuration from environment variables.
// If an environment variable is not set or invalid, a default value is used.
//
// Environment Variables:
//   - MISSIONCONTROL_TIMEOUT_CATALOG_INDEX (default: 5m)
//   - MISSIONCONTROL_TIMEOUT_LAUNCH (default: 10m)
//   - MISSIONCONTROL_TIMEOUT_PUSH (default: 3m)
//   - MISSIONCONTROL_TIMEOUT_COMPENSATION (default: 2m)
//   - MISSIONCONTROL_TIMEOUT_DELETE (default: 5m)
//   - MISSIONCONTROL_RETRY_MAX_ATTEMPTS (default: 5)
//   - MISSIONCONTROL_RETRY_INITIAL_DELAY (default: 1s)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		CatalogIndex:      parseDuration("MISSIONCONTROL_TIMEOUT_CATALOG_INDEX", 5*time.Minute),
		Launch:            parseDuration("MISSIONCONTROL_TIMEOUT_LAUNCH", 10*time.Minute),
		Push:              parseDuration("MISSIONCONTROL_TIMEOUT_PUSH", 3*time.Minute),
		Compensation:      parseDuration("MISSIONCONTROL_TIMEOUT_COMPENSATION", 2*time.Minute),
		Delete:            parseDuration("MISSIONCONTROL_TIMEOUT_DELETE", 5*time.Minute),
		RetryMaxAttempts:  parseInt("MISSIONCONTROL_RETRY_MAX_ATTEMPTS", 5),
		RetryInitialDelay: parseDuration("MISSIONCONTROL_RETRY_INITIAL_DELAY", 1*time.Second),
	}
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		return defaultVal
	}

	return d
}

// parseInt parses an integer from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}

	return i
}

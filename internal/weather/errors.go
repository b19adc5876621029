package weather

import (
	"errors"
	"fmt"
)

// TransportError covers non-2xx responses and network failures from any
// upstream call. It is never fatal: the orchestrator retries after the
// configured retry delay and keeps the last good snapshot on display.
type TransportError struct {
	URL    string
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("upstream request %s failed with status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("upstream request %s failed: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IncompleteDataError signals that a required time-series selection came back
// absent: the feed is stale or malformed. It follows the same retry path as a
// transport failure.
type IncompleteDataError struct {
	Metric string
}

func (e *IncompleteDataError) Error() string {
	return fmt.Sprintf("no applicable value for required metric %q", e.Metric)
}

// ConfigurationError is fatal to a refresh cycle; retrying cannot fix missing
// configuration, so no retry is scheduled.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "invalid widget configuration: " + e.Reason
}

// Retryable reports whether a refresh failure should schedule another attempt.
func Retryable(err error) bool {
	var cfgErr *ConfigurationError
	return !errors.As(err, &cfgErr)
}

// Package timeutil holds the timestamp formats shared by logs and API payloads.
package timeutil

import (
	"strconv"
	"time"
)

const (
	// RFC3339Millis is RFC 3339 UTC with fixed millisecond precision, used in API payloads.
	RFC3339Millis = "2006-01-02T15:04:05.000Z"
	// RFC3339Micros is RFC 3339 UTC with fixed microsecond precision, used in log timestamps.
	RFC3339Micros = "2006-01-02T15:04:05.000000Z"
)

// Time marshals to JSON as a UTC timestamp with fixed millisecond precision,
// e.g. "2024-01-15T10:30:00.000Z".
type Time struct {
	time.Time
}

// MarshalJSON implements json.Marshaler.
func (t Time) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(t.UTC().Format(RFC3339Millis))), nil
}

// UnmarshalJSON accepts any RFC 3339 timestamp. JSON null leaves t unchanged.
func (t *Time) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return err
	}
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// Now returns the current time truncated to the millisecond precision it is serialized with.
func Now() Time {
	return Time{Time: time.Now().UTC().Truncate(time.Millisecond)}
}

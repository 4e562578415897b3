package models

import (
	"errors"
	"time"
)

// TimestampLayout is fixed width so that text ordering matches time ordering.
const TimestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

const sqliteTimestampLayout = "2006-01-02 15:04:05"

// FormatTimestamp renders t in UTC using TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp accepts TimestampLayout, any RFC3339 variant and SQLite's
// CURRENT_TIMESTAMP format.
func ParseTimestamp(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty timestamp")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(sqliteTimestampLayout, value)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// NextTimestamp returns now, or the smallest representable instant after prev
// when the clock has not moved past it. updated_at therefore always increases.
func NextTimestamp(prev, now time.Time) time.Time {
	if now.After(prev) {
		return now
	}
	return prev.Add(time.Nanosecond)
}

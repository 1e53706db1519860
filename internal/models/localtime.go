package models

import (
	"bytes"
	"fmt"
	"time"
)

// LocalTimeLayout is the wire format of timestamps: wall clock, no zone offset.
const LocalTimeLayout = "2006-01-02T15:04:05.999999999"

// LocalTime is a timestamp without time zone. The wall clock is kept in a UTC time.Time so the
// database drivers write it back unchanged into "timestamp" columns.
type LocalTime struct {
	time.Time
}

// NewLocalTime drops the location of t and keeps its wall clock reading.
func NewLocalTime(t time.Time) LocalTime {
	return LocalTime{time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)}
}

// Now returns the current local wall clock time.
func Now() LocalTime {
	return NewLocalTime(time.Now())
}

// ParseLocalTime parses a timestamp in LocalTimeLayout; fractional seconds are optional.
func ParseLocalTime(value string) (LocalTime, error) {
	t, err := time.ParseInLocation(LocalTimeLayout, value, time.UTC)
	if err != nil {
		return LocalTime{}, fmt.Errorf("invalid timestamp %q: expected YYYY-MM-DDTHH:MM:SS", value)
	}
	return LocalTime{t}, nil
}

// String formats the timestamp in LocalTimeLayout.
func (t LocalTime) String() string {
	return t.Time.Format(LocalTimeLayout)
}

// MarshalJSON implements json.Marshaler.
func (t LocalTime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *LocalTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("invalid timestamp %s: expected a string", data)
	}
	parsed, err := ParseLocalTime(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// timePtr converts an optional LocalTime into the *time.Time the drivers bind as NULL or timestamp.
func timePtr(t *LocalTime) *time.Time {
	if t == nil {
		return nil
	}
	v := t.Time
	return &v
}

// localTimePtr is the inverse of timePtr for scanned columns.
func localTimePtr(t *time.Time) *LocalTime {
	if t == nil {
		return nil
	}
	v := NewLocalTime(*t)
	return &v
}

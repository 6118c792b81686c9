package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// TimestampLayout is the wire and storage format of every reading timestamp.
const TimestampLayout = "2006-01-02 15:04:05"

// DateLayout is the format of calendar-date query parameters.
const DateLayout = "2006-01-02"

// accepted input layouts, tried in order
var timestampLayouts = []string{
	TimestampLayout,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006/01/02  15:04:05",
	"2006/01/02 15:04:05",
}

// Timestamp is a naive wall-clock time. It carries no zone: values are
// compared exactly as they were recorded.
type Timestamp struct {
	time.Time
}

// NewTimestamp truncates t to whole seconds and drops its zone.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Naive(t)}
}

// Naive re-interprets the wall clock of t as UTC, truncated to seconds.
func Naive(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
}

// ParseTimestamp parses any of the accepted timestamp layouts.
func ParseTimestamp(s string) (Timestamp, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return NewTimestamp(t), nil
		}
	}
	return Timestamp{}, fmt.Errorf("invalid timestamp %q, expected %s", s, TimestampLayout)
}

// MustTimestamp is ParseTimestamp for literals; it panics on bad input.
func MustTimestamp(s string) Timestamp {
	ts, err := ParseTimestamp(s)
	if err != nil {
		panic(err)
	}
	return ts
}

func (t Timestamp) String() string {
	return t.Format(TimestampLayout)
}

// MarshalJSON implements json.Marshaler
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON implements json.Unmarshaler
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Value implements the driver.Valuer interface
func (t Timestamp) Value() (driver.Value, error) {
	return t.String(), nil
}

// Scan implements the sql.Scanner interface
func (t *Timestamp) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*t = Timestamp{}
		return nil
	case time.Time:
		*t = NewTimestamp(v)
		return nil
	case []byte:
		return t.scanString(string(v))
	case string:
		return t.scanString(v)
	default:
		return fmt.Errorf("cannot scan %T into Timestamp", value)
	}
}

func (t *Timestamp) scanString(s string) error {
	parsed, err := ParseTimestamp(s)
	if err != nil {
		// drivers that store time.Time may hand back RFC 3339 text
		rt, rerr := time.Parse(time.RFC3339Nano, s)
		if rerr != nil {
			return err
		}
		parsed = NewTimestamp(rt)
	}
	*t = parsed
	return nil
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(s))
}

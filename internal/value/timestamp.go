package value

import (
	"fmt"
	"time"
)

// Timestamp is a UTC instant with nanosecond precision, stored as
// nanoseconds since the Unix epoch so parse/format round-trips preserve
// sub-microsecond precision exactly (spec §3.1).
type Timestamp struct {
	UnixNano int64
}

func TimestampFromTime(t time.Time) Timestamp {
	return Timestamp{UnixNano: t.UTC().UnixNano()}
}

func (ts Timestamp) Time() time.Time {
	return time.Unix(0, ts.UnixNano).UTC()
}

const tsLayout = "2006-01-02 15:04:05.999999999"

// ParseTimestamp parses the literal body of `TIMESTAMP '...'` /
// `TIMESTAMP WITH TIME ZONE '...'`.
func ParseTimestamp(s string, hasZone bool) (Timestamp, error) {
	layouts := []string{
		tsLayout,
		"2006-01-02T15:04:05.999999999",
		"2006-01-02",
	}
	if hasZone {
		layouts = append([]string{
			"2006-01-02 15:04:05.999999999 -07:00",
			"2006-01-02T15:04:05.999999999Z07:00",
		}, layouts...)
	}
	var lastErr error
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return TimestampFromTime(t), nil
		} else {
			lastErr = err
		}
	}
	return Timestamp{}, fmt.Errorf("cannot parse timestamp %q: %w", s, lastErr)
}

func (ts Timestamp) AddInterval(iv Interval) Timestamp {
	return Timestamp{UnixNano: ts.UnixNano + iv.Micros.Int64()*1000}
}

func (ts Timestamp) SubInterval(iv Interval) Timestamp {
	return ts.AddInterval(iv.Neg())
}

// Sub returns the Interval between two timestamps (ts - other).
func (ts Timestamp) Sub(other Timestamp) Interval {
	deltaNanos := ts.UnixNano - other.UnixNano
	return IntervalFromMicros(deltaNanos / 1000)
}

func (ts Timestamp) Cmp(other Timestamp) int {
	switch {
	case ts.UnixNano < other.UnixNano:
		return -1
	case ts.UnixNano > other.UnixNano:
		return 1
	default:
		return 0
	}
}

// Format renders the canonical text form, preserving sub-second digits only
// when present.
func (ts Timestamp) Format() string {
	t := ts.Time()
	if t.Nanosecond() == 0 {
		return t.Format("2006-01-02 15:04:05")
	}
	s := t.Format(tsLayout)
	return s
}

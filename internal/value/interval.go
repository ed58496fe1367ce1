package value

// Interval is a signed span of time stored as microseconds, wide enough to
// express at least ±10 million years (spec §3.1).
type Interval struct {
	Micros Int128
}

func IntervalFromMicros(us int64) Interval {
	return Interval{Micros: Int128FromInt64(us)}
}

// IntervalFromUnit builds an interval from a count and a unit keyword, used
// by the `INTERVAL n UNIT` literal form.
func IntervalFromUnit(n int64, unit string) (Interval, bool) {
	var perUnit int64
	switch unit {
	case "MICROSECOND", "MICROSECONDS":
		perUnit = 1
	case "SECOND", "SECONDS":
		perUnit = 1_000_000
	case "MINUTE", "MINUTES":
		perUnit = 60 * 1_000_000
	case "HOUR", "HOURS":
		perUnit = 3600 * 1_000_000
	case "DAY", "DAYS":
		perUnit = 86400 * 1_000_000
	case "WEEK", "WEEKS":
		perUnit = 7 * 86400 * 1_000_000
	case "MONTH", "MONTHS":
		perUnit = 30 * 86400 * 1_000_000
	case "YEAR", "YEARS":
		perUnit = 365 * 86400 * 1_000_000
	default:
		return Interval{}, false
	}
	return Interval{Micros: Int128FromInt64(n).MulInt64(perUnit)}, true
}

func (iv Interval) Add(other Interval) Interval {
	return Interval{Micros: iv.Micros.Add(other.Micros)}
}

func (iv Interval) Sub(other Interval) Interval {
	return Interval{Micros: iv.Micros.Sub(other.Micros)}
}

func (iv Interval) Neg() Interval {
	return Interval{Micros: iv.Micros.Neg()}
}

func (iv Interval) MulInt64(n int64) Interval {
	return Interval{Micros: iv.Micros.MulInt64(n)}
}

// MulFloat scales an interval by a float factor, truncating toward zero to
// a whole microsecond.
func (iv Interval) MulFloat(f float64) Interval {
	return IntervalFromMicros(int64(iv.Micros.Float64() * f))
}

// DivFloat divides an interval by a scalar, truncating toward zero to a
// whole microsecond.
func (iv Interval) DivFloat(n float64) Interval {
	us := iv.Micros.Float64() / n
	return IntervalFromMicros(int64(us))
}

// Ratio returns the float64 ratio of two intervals (Interval / Interval).
func (iv Interval) Ratio(other Interval) float64 {
	return iv.Micros.Float64() / other.Micros.Float64()
}

func (iv Interval) Cmp(other Interval) int {
	return iv.Micros.Cmp(other.Micros)
}

package value

import (
	"math"
	"strconv"
)

// Display renders v in its canonical text form, used by `||` coercion,
// CSV/SQL text fields and debug.panic argument rendering.
func Display(v Value) string {
	switch v.tag {
	case TagNull:
		return ""
	case TagInt:
		return strconv.FormatInt(v.i, 10)
	case TagUint:
		return strconv.FormatUint(v.u, 10)
	case TagFloat:
		return formatFloat(v.f)
	case TagDecimal:
		return v.dec.String()
	case TagString:
		return v.s
	case TagBytes:
		return string(v.b)
	case TagTimestamp:
		return v.ts.Format()
	case TagInterval:
		return formatInterval(v.iv)
	case TagArray:
		return "[array]"
	default:
		return ""
	}
}

// formatFloat renders a float64 in shortest round-trip form (Ryū-style,
// via strconv's -1 precision), with IEEE-754 special values spelled the way
// the reference implementation does: inf / -inf / NaN.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func formatInterval(iv Interval) string {
	us := iv.Micros
	neg := us.isNegative()
	if neg {
		us = us.Neg()
	}
	totalUs := us.Int64()
	sign := ""
	if neg {
		sign = "-"
	}
	secs := totalUs / 1_000_000
	rem := totalUs % 1_000_000
	days := secs / 86400
	secs %= 86400
	h := secs / 3600
	secs %= 3600
	m := secs / 60
	s := secs % 60
	out := sign
	if days != 0 {
		out += strconv.FormatInt(days, 10) + " days "
	}
	out += pad2(h) + ":" + pad2(m) + ":" + pad2(s)
	if rem != 0 {
		out += "." + padN(rem, 6)
	}
	return out
}

func pad2(n int64) string {
	s := strconv.FormatInt(n, 10)
	if len(s) < 2 {
		return "0" + s
	}
	return s
}

func padN(n int64, width int) string {
	s := strconv.FormatInt(n, 10)
	for len(s) < width {
		s = "0" + s
	}
	return s
}

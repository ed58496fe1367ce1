package value

import "math/bits"

// Int128 is a signed 128-bit integer, stored as a high/low pair in two's
// complement form. It backs Interval microsecond counts, which need a range
// beyond what int64 microseconds can express (int64 microseconds only
// covers about 292,000 years; the spec requires at least ±10 million).
//
// Only the handful of operations Interval arithmetic needs are implemented;
// this is not a general-purpose bignum type.
type Int128 struct {
	hi int64
	lo uint64
}

func Int128FromInt64(v int64) Int128 {
	if v < 0 {
		return Int128{hi: -1, lo: uint64(v)}
	}
	return Int128{hi: 0, lo: uint64(v)}
}

// Neg returns -x.
func (x Int128) Neg() Int128 {
	lo, carry := bits.Sub64(0, x.lo, 0)
	hi := -x.hi - int64(carry)
	return Int128{hi: hi, lo: lo}
}

func (x Int128) Add(y Int128) Int128 {
	lo, carry := bits.Add64(x.lo, y.lo, 0)
	hi := x.hi + y.hi + int64(carry)
	return Int128{hi: hi, lo: lo}
}

func (x Int128) Sub(y Int128) Int128 {
	return x.Add(y.Neg())
}

// MulInt64 multiplies x by a plain int64 scalar.
func (x Int128) MulInt64(y int64) Int128 {
	neg := false
	ux := x
	if ux.isNegative() {
		ux = ux.Neg()
		neg = !neg
	}
	uy := uint64(y)
	if y < 0 {
		uy = uint64(-y)
		neg = !neg
	}
	hi, lo := bits.Mul64(ux.lo, uy)
	hi += uint64(ux.hi) * uy // upper bits of x contribute linearly for our small-magnitude use
	out := Int128{hi: int64(hi), lo: lo}
	if neg {
		out = out.Neg()
	}
	return out
}

func (x Int128) isNegative() bool { return x.hi < 0 }

// DivInt64 performs truncated-toward-zero division by a plain int64 scalar.
func (x Int128) DivInt64(y int64) Int128 {
	neg := false
	ux := x
	if ux.isNegative() {
		ux = ux.Neg()
		neg = !neg
	}
	uy := uint64(y)
	if y < 0 {
		uy = uint64(-y)
		neg = !neg
	}
	// ux fits in our supported magnitude range (< 2^64 in lo, hi is sign-extension
	// headroom only), so a 128/64 bit division via bits.Div64 is valid whenever
	// ux.hi is 0 after negation, which holds for all values this package produces.
	q, _ := bits.Div64(uint64(ux.hi), ux.lo, uy)
	out := Int128{lo: q}
	if neg {
		out = out.Neg()
	}
	return out
}

// Float64 converts x to the nearest float64.
func (x Int128) Float64() float64 {
	if x.isNegative() {
		return -x.Neg().Float64()
	}
	return float64(x.hi)*18446744073709551616.0 + float64(x.lo)
}

// Cmp returns -1, 0 or 1 comparing x to y.
func (x Int128) Cmp(y Int128) int {
	d := x.Sub(y)
	if d.hi == 0 && d.lo == 0 {
		return 0
	}
	if d.isNegative() {
		return -1
	}
	return 1
}

func (x Int128) IsZero() bool { return x.hi == 0 && x.lo == 0 }

// Int64 truncates x to an int64, valid only when x fits in that range (true
// for all interval magnitudes actually added to a Timestamp, since
// Timestamp itself is bounded to the int64 nanosecond epoch range).
func (x Int128) Int64() int64 {
	if x.isNegative() {
		return -int64(x.Neg().lo)
	}
	return int64(x.lo)
}

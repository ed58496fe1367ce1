package value

import (
	"fmt"
	"math"
	"math/big"

	"github.com/shopspring/decimal"
)

// Tri is SQL-style trinary logic: True, False or Unknown(Null).
type Tri uint8

const (
	TriFalse Tri = iota
	TriTrue
	TriUnknown
)

func (t Tri) Value() Value {
	switch t {
	case TriTrue:
		return Int(1)
	case TriFalse:
		return Int(0)
	default:
		return Null
	}
}

// ToTri coerces a value to trinary boolean per §4.1: Null -> Unknown, NaN ->
// Unknown, nonzero number -> True, zero -> False; any other type is a
// TypeError.
func ToTri(v Value) (Tri, error) {
	switch v.tag {
	case TagNull:
		return TriUnknown, nil
	case TagInt:
		if v.i == 0 {
			return TriFalse, nil
		}
		return TriTrue, nil
	case TagUint:
		if v.u == 0 {
			return TriFalse, nil
		}
		return TriTrue, nil
	case TagFloat:
		if math.IsNaN(v.f) {
			return TriUnknown, nil
		}
		if v.f == 0 {
			return TriFalse, nil
		}
		return TriTrue, nil
	case TagDecimal:
		if v.dec.IsZero() {
			return TriFalse, nil
		}
		return TriTrue, nil
	default:
		return TriUnknown, fmt.Errorf("%w: cannot use %s as a boolean", ErrType, v.tag)
	}
}

func And(a, b Tri) Tri {
	if a == TriFalse || b == TriFalse {
		return TriFalse
	}
	if a == TriUnknown || b == TriUnknown {
		return TriUnknown
	}
	return TriTrue
}

func Or(a, b Tri) Tri {
	if a == TriTrue || b == TriTrue {
		return TriTrue
	}
	if a == TriUnknown || b == TriUnknown {
		return TriUnknown
	}
	return TriFalse
}

func Not(a Tri) Tri {
	switch a {
	case TriTrue:
		return TriFalse
	case TriFalse:
		return TriTrue
	default:
		return TriUnknown
	}
}

// ErrType is returned (wrapped) by operators given operands of the wrong kind.
var ErrType = fmt.Errorf("type error")

func toFloat64(v Value) (float64, bool) {
	switch v.tag {
	case TagInt:
		return float64(v.i), true
	case TagUint:
		return float64(v.u), true
	case TagFloat:
		return v.f, true
	case TagDecimal:
		f, _ := v.dec.Float64()
		return f, true
	default:
		return 0, false
	}
}

func toDecimal(v Value) (decimal.Decimal, bool) {
	switch v.tag {
	case TagInt:
		return decimal.NewFromInt(v.i), true
	case TagUint:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(v.u), 0), true
	case TagDecimal:
		return v.dec, true
	default:
		return decimal.Decimal{}, false
	}
}

func toBigInt(v Value) (*big.Int, bool) {
	switch v.tag {
	case TagInt:
		return big.NewInt(v.i), true
	case TagUint:
		return new(big.Int).SetUint64(v.u), true
	default:
		return nil, false
	}
}

// numClass ranks a numeric tag so the higher-ranked representation decides
// the promotion target, per spec §3.2: int < decimal < float.
func numClass(t Tag) int {
	switch t {
	case TagInt, TagUint:
		return 0
	case TagDecimal:
		return 1
	case TagFloat:
		return 2
	default:
		return -1
	}
}

// Arith implements +, -, * for two Number values, following the promotion
// table in §3.2. Division is handled separately by Div (always float).
func Arith(op byte, l, r Value) (Value, error) {
	if !l.IsNumber() || !r.IsNumber() {
		return Null, fmt.Errorf("%w: arithmetic requires numbers, got %s and %s", ErrType, l.tag, r.tag)
	}
	switch {
	case numClass(l.tag) == 2 || numClass(r.tag) == 2:
		lf, _ := toFloat64(l)
		rf, _ := toFloat64(r)
		return Float(floatOp(op, lf, rf)), nil
	case numClass(l.tag) == 1 || numClass(r.tag) == 1:
		ld, _ := toDecimal(l)
		rd, _ := toDecimal(r)
		return Dec(decimalOp(op, ld, rd)), nil
	default:
		lb, _ := toBigInt(l)
		rb, _ := toBigInt(r)
		return intOp(op, lb, rb, l.tag == TagUint && r.tag == TagUint), nil
	}
}

func floatOp(op byte, a, b float64) float64 {
	switch op {
	case '+':
		return a + b
	case '-':
		return a - b
	case '*':
		return a * b
	}
	panic("unreachable arith op")
}

func decimalOp(op byte, a, b decimal.Decimal) decimal.Decimal {
	switch op {
	case '+':
		return a.Add(b)
	case '-':
		return a.Sub(b)
	case '*':
		return a.Mul(b)
	}
	panic("unreachable arith op")
}

// intOp computes a 64-bit wraparound integer result (two's complement
// semantics, matching native machine arithmetic) and tags the result Uint
// only when both operands were Uint — otherwise the natural interpretation
// is signed.
func intOp(op byte, a, b *big.Int, bothUint bool) Value {
	var r big.Int
	switch op {
	case '+':
		r.Add(a, b)
	case '-':
		r.Sub(a, b)
	case '*':
		r.Mul(a, b)
	}
	mod := new(big.Int).Lsh(big.NewInt(1), 64)
	r.Mod(&r, mod)
	u := r.Uint64()
	if bothUint {
		return Uint(u)
	}
	return Int(int64(u))
}

// Div implements `/`, which always yields a float (spec §3.2), including
// ±Inf/NaN per IEEE-754 for division by zero.
func Div(l, r Value) (Value, error) {
	if !l.IsNumber() || !r.IsNumber() {
		return Null, fmt.Errorf("%w: `/` requires numbers, got %s and %s", ErrType, l.tag, r.tag)
	}
	lf, _ := toFloat64(l)
	rf, _ := toFloat64(r)
	return Float(lf / rf), nil
}

// Concat implements `||`: string concatenation with Null propagation and
// non-string coercion via the canonical display form.
func Concat(l, r Value) (Value, error) {
	if l.IsNull() || r.IsNull() {
		return Null, nil
	}
	return Str(Display(l) + Display(r)), nil
}

// Compare implements `=, <>, <, >, <=, >=` returning trinary results. Cross
// type comparison (other than numeric-numeric) is a TypeError. NaN compares
// as Unknown against anything, including itself.
func Compare(op string, l, r Value) (Tri, error) {
	if l.IsNull() || r.IsNull() {
		return TriUnknown, nil
	}
	if l.IsNumber() && r.IsNumber() {
		sign, nan, err := compareNumeric(l, r)
		if err != nil {
			return TriUnknown, err
		}
		if nan {
			return TriUnknown, nil
		}
		return triFromSign(op, sign), nil
	}
	if l.tag != r.tag {
		return TriUnknown, fmt.Errorf("%w: cannot compare %s to %s", ErrType, l.tag, r.tag)
	}
	switch l.tag {
	case TagString:
		return triFromSign(op, cmpString(l.s, r.s)), nil
	case TagBytes:
		return triFromSign(op, cmpBytes(l.b, r.b)), nil
	case TagTimestamp:
		return triFromSign(op, l.ts.Cmp(r.ts)), nil
	case TagInterval:
		return triFromSign(op, l.iv.Cmp(r.iv)), nil
	default:
		return TriUnknown, fmt.Errorf("%w: %s is not comparable", ErrType, l.tag)
	}
}

func compareNumeric(l, r Value) (sign int, nan bool, err error) {
	if l.tag == TagFloat || r.tag == TagFloat {
		lf, _ := toFloat64(l)
		rf, _ := toFloat64(r)
		if math.IsNaN(lf) || math.IsNaN(rf) {
			return 0, true, nil
		}
		switch {
		case lf < rf:
			return -1, false, nil
		case lf > rf:
			return 1, false, nil
		default:
			return 0, false, nil
		}
	}
	if l.tag == TagDecimal || r.tag == TagDecimal {
		ld, _ := toDecimal(l)
		rd, _ := toDecimal(r)
		return ld.Cmp(rd), false, nil
	}
	if l.tag == TagInt && r.tag == TagInt {
		switch {
		case l.i < r.i:
			return -1, false, nil
		case l.i > r.i:
			return 1, false, nil
		default:
			return 0, false, nil
		}
	}
	lb, _ := toBigInt(l)
	rb, _ := toBigInt(r)
	return lb.Cmp(rb), false, nil
}

func triFromSign(op string, sign int) Tri {
	truth := false
	switch op {
	case "=":
		truth = sign == 0
	case "<>":
		truth = sign != 0
	case "<":
		truth = sign < 0
	case ">":
		truth = sign > 0
	case "<=":
		truth = sign <= 0
	case ">=":
		truth = sign >= 0
	}
	if truth {
		return TriTrue
	}
	return TriFalse
}

func cmpString(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpBytes(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}

// Identical implements `IS`/`IS NOT`: total identity. Null IS Null is True;
// values of different variants are never identical; same-variant values
// compare as `=`/`<>` would.
func Identical(l, r Value) bool {
	if l.IsNull() && r.IsNull() {
		return true
	}
	if l.tag != r.tag {
		return false
	}
	if l.IsNumber() {
		sign, nan, err := compareNumeric(l, r)
		if err != nil || nan {
			return false
		}
		return sign == 0
	}
	switch l.tag {
	case TagString:
		return l.s == r.s
	case TagBytes:
		return cmpBytes(l.b, r.b) == 0
	case TagTimestamp:
		return l.ts.Cmp(r.ts) == 0
	case TagInterval:
		return l.iv.Cmp(r.iv) == 0
	case TagArray:
		return l.arr == r.arr
	default:
		return false
	}
}

// Negate implements unary `-`.
func Negate(v Value) (Value, error) {
	switch v.tag {
	case TagInt:
		return Int(-v.i), nil
	case TagUint:
		return Int(-int64(v.u)), nil
	case TagFloat:
		return Float(-v.f), nil
	case TagDecimal:
		return Dec(v.dec.Neg()), nil
	default:
		return Null, fmt.Errorf("%w: unary - requires a number, got %s", ErrType, v.tag)
	}
}

// BitNot implements unary `~`: integer bitwise complement, sign-extending.
func BitNot(v Value) (Value, error) {
	i, err := toInt64Strict(v)
	if err != nil {
		return Null, err
	}
	return Int(^i), nil
}

func toInt64Strict(v Value) (int64, error) {
	switch v.tag {
	case TagInt:
		return v.i, nil
	case TagUint:
		return int64(v.u), nil
	default:
		return 0, fmt.Errorf("%w: expected an integer, got %s", ErrType, v.tag)
	}
}

// Bitwise implements `&`, `|`, `^` on integer operands, signed 64-bit result.
func Bitwise(op byte, l, r Value) (Value, error) {
	li, err := toInt64Strict(l)
	if err != nil {
		return Null, err
	}
	ri, err := toInt64Strict(r)
	if err != nil {
		return Null, err
	}
	switch op {
	case '&':
		return Int(li & ri), nil
	case '|':
		return Int(li | ri), nil
	case '^':
		return Int(li ^ ri), nil
	}
	panic("unreachable bitwise op")
}

// ToInt64Truncate converts any Number to an int64 by truncation toward
// zero, used by div/mod and the array-subscript operator.
func ToInt64Truncate(v Value) (int64, error) {
	switch v.tag {
	case TagInt:
		return v.i, nil
	case TagUint:
		return int64(v.u), nil
	case TagFloat:
		return int64(v.f), nil
	case TagDecimal:
		return v.dec.Truncate(0).IntPart(), nil
	default:
		return 0, fmt.Errorf("%w: expected a number, got %s", ErrType, v.tag)
	}
}

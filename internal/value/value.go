// Package value implements the Value union — the closed sum of types every
// template expression operates on — together with its arithmetic,
// comparison and trinary-logic operators.
//
// The Value struct is a tagged union rather than an interface: dispatch is
// a switch over Tag, never a virtual method call, mirroring how the teacher
// represents SQLite's storage classes as a flag-tagged Mem struct instead of
// one interface implementation per type.
package value

import (
	"github.com/shopspring/decimal"
)

// Tag identifies which field of a Value is live.
type Tag uint8

const (
	TagNull Tag = iota
	TagInt
	TagUint
	TagFloat
	TagDecimal
	TagInterval
	TagTimestamp
	TagString
	TagBytes
	TagArray
)

func (t Tag) String() string {
	switch t {
	case TagNull:
		return "NULL"
	case TagInt:
		return "INT"
	case TagUint:
		return "UINT"
	case TagFloat:
		return "FLOAT"
	case TagDecimal:
		return "DECIMAL"
	case TagInterval:
		return "INTERVAL"
	case TagTimestamp:
		return "TIMESTAMP"
	case TagString:
		return "STRING"
	case TagBytes:
		return "BYTES"
	case TagArray:
		return "ARRAY"
	default:
		return "UNKNOWN"
	}
}

// Value is the universal runtime value. Zero value is Null.
type Value struct {
	tag Tag

	i   int64
	u   uint64
	f   float64
	dec decimal.Decimal

	s string
	b []byte

	iv  Interval
	ts  Timestamp
	arr Array
}

// Null is the Null value.
var Null = Value{tag: TagNull}

func Int(i int64) Value    { return Value{tag: TagInt, i: i} }
func Uint(u uint64) Value  { return Value{tag: TagUint, u: u} }
func Float(f float64) Value { return Value{tag: TagFloat, f: f} }
func Dec(d decimal.Decimal) Value { return Value{tag: TagDecimal, dec: d} }
func Str(s string) Value   { return Value{tag: TagString, s: s} }
func Bytes(b []byte) Value { return Value{tag: TagBytes, b: b} }
func IntervalValue(iv Interval) Value   { return Value{tag: TagInterval, iv: iv} }
func TimestampValue(ts Timestamp) Value { return Value{tag: TagTimestamp, ts: ts} }
func ArrayValue(a Array) Value          { return Value{tag: TagArray, arr: a} }

func (v Value) Tag() Tag     { return v.tag }
func (v Value) IsNull() bool { return v.tag == TagNull }

func (v Value) AsInt() int64           { return v.i }
func (v Value) AsUint() uint64         { return v.u }
func (v Value) AsFloat() float64       { return v.f }
func (v Value) AsDecimal() decimal.Decimal { return v.dec }
func (v Value) AsString() string       { return v.s }
func (v Value) AsBytes() []byte        { return v.b }
func (v Value) AsInterval() Interval   { return v.iv }
func (v Value) AsTimestamp() Timestamp { return v.ts }
func (v Value) AsArray() Array         { return v.arr }

// IsNumber reports whether v is one of the three Number representations.
func (v Value) IsNumber() bool {
	switch v.tag {
	case TagInt, TagUint, TagFloat, TagDecimal:
		return true
	default:
		return false
	}
}

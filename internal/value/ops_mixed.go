package value

import "fmt"

// AddSub implements `+`/`-` across the non-pure-Number operand pairs §4.1
// lists: (Timestamp,Interval), (Timestamp,Timestamp)->Interval, and
// (Interval,Interval). Pure Number,Number goes through Arith directly; the
// evaluator calls this first and falls back to Arith when neither operand
// is a Timestamp or Interval.
func AddSub(op byte, l, r Value) (Value, error) {
	switch {
	case l.tag == TagTimestamp && r.tag == TagInterval:
		if op == '+' {
			return TimestampValue(l.ts.AddInterval(r.iv)), nil
		}
		return TimestampValue(l.ts.SubInterval(r.iv)), nil
	case l.tag == TagInterval && r.tag == TagTimestamp && op == '+':
		return TimestampValue(r.ts.AddInterval(l.iv)), nil
	case l.tag == TagTimestamp && r.tag == TagTimestamp:
		if op == '-' {
			return IntervalValue(l.ts.Sub(r.ts)), nil
		}
		return Null, fmt.Errorf("%w: timestamps cannot be added", ErrType)
	case l.tag == TagInterval && r.tag == TagInterval:
		if op == '+' {
			return IntervalValue(l.iv.Add(r.iv)), nil
		}
		return IntervalValue(l.iv.Sub(r.iv)), nil
	default:
		return Null, fmt.Errorf("%w: unsupported operand types %s, %s for %q", ErrType, l.tag, r.tag, string(op))
	}
}

// ScaleInterval implements `*` and `/` between an Interval and a Number
// (either operand order for `*`; only Interval/Number for `/`), and the
// Interval/Interval ratio division from §4.1.
func ScaleInterval(op byte, l, r Value) (Value, error) {
	switch {
	case l.tag == TagInterval && r.IsNumber():
		f, _ := toFloat64(r)
		if op == '*' {
			return IntervalValue(l.iv.MulFloat(f)), nil
		}
		return IntervalValue(l.iv.DivFloat(f)), nil
	case r.tag == TagInterval && l.IsNumber() && op == '*':
		f, _ := toFloat64(l)
		return IntervalValue(r.iv.MulFloat(f)), nil
	case l.tag == TagInterval && r.tag == TagInterval && op == '/':
		return Float(l.iv.Ratio(r.iv)), nil
	default:
		return Null, fmt.Errorf("%w: unsupported operand types %s, %s for %q", ErrType, l.tag, r.tag, string(op))
	}
}

// involvesTemporal reports whether either operand is a Timestamp or
// Interval, the signal the evaluator uses to route +/-/*// through AddSub/
// ScaleInterval instead of the pure-Number Arith/Div path.
func involvesTemporal(l, r Value) bool {
	return l.tag == TagTimestamp || r.tag == TagTimestamp || l.tag == TagInterval || r.tag == TagInterval
}

// InvolvesTemporal is the exported form for internal/eval.
func InvolvesTemporal(l, r Value) bool { return involvesTemporal(l, r) }

// Package eval walks a compiled plan.Node against a plan.Ctx (component E),
// implementing the mandatory short-circuit rules of spec §4.5. Grounded on
// the teacher's recursive expr.Eval walker (core/sqlite/internal/expr/
// eval.go), which also switches on a closed node-type set and threads a
// single mutable per-row context rather than building a bytecode VM.
package eval

import (
	"fmt"

	"github.com/benchgen/tabgen/internal/errs"
	"github.com/benchgen/tabgen/internal/plan"
	"github.com/benchgen/tabgen/internal/token"
	"github.com/benchgen/tabgen/internal/value"
)

// Eval evaluates node against ctx, returning its Value. Slot mutations
// (from Assign nodes reached during evaluation) are applied directly to
// ctx.Slots and persist in the caller's slot vector.
func Eval(ctx *plan.Ctx, node plan.Node) (value.Value, error) {
	switch n := node.(type) {
	case *plan.Const:
		return n.Value, nil

	case *plan.Var:
		if n.Slot < 0 || n.Slot >= len(ctx.Slots) {
			return value.Null, fmt.Errorf("eval: slot %d for @%s out of range", n.Slot, n.Name)
		}
		return ctx.Slots[n.Slot], nil

	case *plan.RowNum:
		return value.Int(ctx.RowNum), nil

	case *plan.SubRowNum:
		return value.Int(ctx.SubRowNum), nil

	case *plan.CurrentTimestamp:
		return value.TimestampValue(value.TimestampFromTime(ctx.Now)), nil

	case *plan.Unary:
		return evalUnary(ctx, n)

	case *plan.Binary:
		return evalBinary(ctx, n)

	case *plan.Call:
		return evalCall(ctx, n)

	case *plan.Subscript:
		return evalSubscript(ctx, n)

	case *plan.Array:
		elems := make([]value.Value, len(n.Elems))
		for i, e := range n.Elems {
			v, err := Eval(ctx, e)
			if err != nil {
				return value.Null, err
			}
			elems[i] = v
		}
		return value.ArrayValue(value.NewEagerArray(elems)), nil

	case *plan.Case:
		return evalCase(ctx, n)

	case *plan.Interval:
		count, err := Eval(ctx, n.Count)
		if err != nil {
			return value.Null, err
		}
		amt, err := value.ToInt64Truncate(count)
		if err != nil {
			return value.Null, err
		}
		iv, ok := value.IntervalFromUnit(amt, n.Unit)
		if !ok {
			return value.Null, &errs.TypeError{Span: spanOf(n), Message: fmt.Sprintf("unknown interval unit %q", n.Unit)}
		}
		return value.IntervalValue(iv), nil

	case *plan.Assign:
		v, err := Eval(ctx, n.Value)
		if err != nil {
			return value.Null, err
		}
		if n.Slot < 0 || n.Slot >= len(ctx.Slots) {
			return value.Null, fmt.Errorf("eval: slot %d for @%s out of range", n.Slot, n.Name)
		}
		ctx.Slots[n.Slot] = v
		return v, nil

	case *plan.Seq:
		var last value.Value
		for _, sub := range n.Nodes {
			v, err := Eval(ctx, sub)
			if err != nil {
				return value.Null, err
			}
			last = v
		}
		return last, nil
	}
	return value.Null, fmt.Errorf("eval: unhandled plan node %T", node)
}

func spanOf(n plan.Node) errs.Span {
	p := n.At()
	return errs.Span{Offset: p.Offset, Line: p.Line, Col: p.Col}
}

func evalUnary(ctx *plan.Ctx, n *plan.Unary) (value.Value, error) {
	operand, err := Eval(ctx, n.Operand)
	if err != nil {
		return value.Null, err
	}
	switch n.Op {
	case token.MINUS:
		return value.Negate(operand)
	case token.TILDE:
		return value.BitNot(operand)
	case token.NOT:
		tri, err := value.ToTri(operand)
		if err != nil {
			return value.Null, err
		}
		return value.Not(tri).Value(), nil
	}
	return value.Null, fmt.Errorf("eval: unhandled unary operator %v", n.Op)
}

// evalBinary implements the short-circuit rules mandated by spec §4.5:
// AND/OR evaluate the LHS first and skip the RHS when the trinary result
// is already determined; every other binary operator is strict.
func evalBinary(ctx *plan.Ctx, n *plan.Binary) (value.Value, error) {
	switch n.Op {
	case token.AND:
		return evalAnd(ctx, n)
	case token.OR:
		return evalOr(ctx, n)
	}

	left, err := Eval(ctx, n.Left)
	if err != nil {
		return value.Null, err
	}
	right, err := Eval(ctx, n.Right)
	if err != nil {
		return value.Null, err
	}

	switch n.Op {
	case token.PLUS:
		return arith('+', left, right)
	case token.MINUS:
		return arith('-', left, right)
	case token.STAR:
		return arith('*', left, right)
	case token.SLASH:
		if value.InvolvesTemporal(left, right) {
			return value.ScaleInterval('/', left, right)
		}
		return value.Div(left, right)
	case token.CONCAT:
		return value.Concat(left, right)
	case token.AMP:
		return value.Bitwise('&', left, right)
	case token.PIPE:
		return value.Bitwise('|', left, right)
	case token.CARET:
		return value.Bitwise('^', left, right)
	case token.IS:
		ident := value.Identical(left, right)
		if n.IsNot {
			ident = !ident
		}
		return boolToTri(ident).Value(), nil
	case token.EQ:
		return compareOp(left, right, "=")
	case token.NE:
		return compareOp(left, right, "<>")
	case token.LT:
		return compareOp(left, right, "<")
	case token.GT:
		return compareOp(left, right, ">")
	case token.LE:
		return compareOp(left, right, "<=")
	case token.GE:
		return compareOp(left, right, ">=")
	}
	return value.Null, fmt.Errorf("eval: unhandled binary operator %v", n.Op)
}

func arith(op byte, left, right value.Value) (value.Value, error) {
	if value.InvolvesTemporal(left, right) {
		if op == '*' {
			return value.ScaleInterval(op, left, right)
		}
		return value.AddSub(op, left, right)
	}
	if op == '+' || op == '-' || op == '*' {
		return value.Arith(op, left, right)
	}
	return value.Null, fmt.Errorf("eval: unhandled arithmetic operator %q", string(op))
}

func compareOp(left, right value.Value, op string) (value.Value, error) {
	tri, err := value.Compare(op, left, right)
	if err != nil {
		return value.Null, err
	}
	return tri.Value(), nil
}

func boolToTri(b bool) value.Tri {
	if b {
		return value.TriTrue
	}
	return value.TriFalse
}

func evalAnd(ctx *plan.Ctx, n *plan.Binary) (value.Value, error) {
	left, err := Eval(ctx, n.Left)
	if err != nil {
		return value.Null, err
	}
	lt, err := value.ToTri(left)
	if err != nil {
		return value.Null, err
	}
	if lt == value.TriFalse {
		return value.TriFalse.Value(), nil
	}
	right, err := Eval(ctx, n.Right)
	if err != nil {
		return value.Null, err
	}
	rt, err := value.ToTri(right)
	if err != nil {
		return value.Null, err
	}
	return value.And(lt, rt).Value(), nil
}

func evalOr(ctx *plan.Ctx, n *plan.Binary) (value.Value, error) {
	left, err := Eval(ctx, n.Left)
	if err != nil {
		return value.Null, err
	}
	lt, err := value.ToTri(left)
	if err != nil {
		return value.Null, err
	}
	if lt == value.TriTrue {
		return value.TriTrue.Value(), nil
	}
	right, err := Eval(ctx, n.Right)
	if err != nil {
		return value.Null, err
	}
	rt, err := value.ToTri(right)
	if err != nil {
		return value.Null, err
	}
	return value.Or(lt, rt).Value(), nil
}

// evalCase implements CASE's mandatory short-circuit: evaluate WHEN
// conditions in order, stop at the first trinary-true match, then
// evaluate ONLY the chosen branch.
func evalCase(ctx *plan.Ctx, n *plan.Case) (value.Value, error) {
	for _, w := range n.Whens {
		cond, err := Eval(ctx, w.Cond)
		if err != nil {
			return value.Null, err
		}
		tri, err := value.ToTri(cond)
		if err != nil {
			return value.Null, err
		}
		if tri == value.TriTrue {
			return Eval(ctx, w.Then)
		}
	}
	if n.Else == nil {
		return value.Null, nil
	}
	return Eval(ctx, n.Else)
}

// evalCall evaluates every argument left-to-right (every builtin besides
// AND/OR/CASE is strict, including coalesce, whose EvalAll flag documents
// that it must not short-circuit even though it looks selective) then
// invokes the resolved function. A debug.panic RuntimePanic is enriched
// with this call's source span before it propagates, since the function
// body itself only sees evaluated argument values, not plan positions.
func evalCall(ctx *plan.Ctx, n *plan.Call) (value.Value, error) {
	args := make([]value.Value, len(n.Args))
	for i, a := range n.Args {
		v, err := Eval(ctx, a)
		if err != nil {
			return value.Null, err
		}
		args[i] = v
	}
	v, err := n.Fn.Call(ctx, args)
	if err != nil {
		if rp, ok := err.(*errs.RuntimePanic); ok && rp.Span == (errs.Span{}) {
			rp.Span = spanOf(n)
		}
		return value.Null, err
	}
	return v, nil
}

// evalSubscript implements arr[idx]: 1-based, out-of-range returns Null
// (not an error) per spec §7's OutOfRange rule.
func evalSubscript(ctx *plan.Ctx, n *plan.Subscript) (value.Value, error) {
	arrVal, err := Eval(ctx, n.Array)
	if err != nil {
		return value.Null, err
	}
	if arrVal.IsNull() {
		return value.Null, nil
	}
	if arrVal.Tag() != value.TagArray {
		return value.Null, &errs.TypeError{Span: spanOf(n), Message: fmt.Sprintf("cannot subscript %s", arrVal.Tag())}
	}
	idxVal, err := Eval(ctx, n.Index)
	if err != nil {
		return value.Null, err
	}
	if idxVal.IsNull() {
		return value.Null, nil
	}
	idx, err := value.ToInt64Truncate(idxVal)
	if err != nil {
		return value.Null, err
	}
	arr := arrVal.AsArray()
	if idx < 1 || uint64(idx) > arr.Len() {
		return value.Null, nil
	}
	return arr.Get(uint64(idx - 1)), nil
}

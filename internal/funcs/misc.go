package funcs

import (
	"github.com/benchgen/tabgen/internal/errs"
	"github.com/benchgen/tabgen/internal/plan"
	"github.com/benchgen/tabgen/internal/value"
)

func registerMisc(r *Registry) {
	r.Register(&Function{name: "coalesce", minArity: 1, maxArity: -1, evalAll: true, fn: fnCoalesce})
	r.Register(&Function{name: "generate_series", minArity: 2, maxArity: 3, fn: fnGenerateSeries})
	r.Register(&Function{name: "debug.panic", minArity: 0, maxArity: -1, evalAll: true, fn: fnDebugPanic})
}

// fnCoalesce evaluates all of its arguments (its EvalAll flag documents
// this to the evaluator) and returns the first non-Null one.
func fnCoalesce(ctx *plan.Ctx, args []value.Value) (value.Value, error) {
	for _, a := range args {
		if !a.IsNull() {
			return a, nil
		}
	}
	return value.Null, nil
}

// fnGenerateSeries builds the lazy arithmetic-sequence array [start, stop]
// with the given step (default 1), so that chaining into rand.shuffle
// stays O(1) even for series spanning billions of elements (spec S6).
// Matches the reference's loop-until-past-stop behavior (it steps until
// value has gone past stop, so stop itself is included whenever it is
// reachable from start by whole steps): generate_series(1,5) yields the
// 5-element series {1,2,3,4,5}, not the 4-element half-open range.
func fnGenerateSeries(ctx *plan.Ctx, args []value.Value) (value.Value, error) {
	start, err := asInt("generate_series", args[0])
	if err != nil {
		return value.Null, err
	}
	stop, err := asInt("generate_series", args[1])
	if err != nil {
		return value.Null, err
	}
	step := int64(1)
	if len(args) == 3 {
		step, err = asInt("generate_series", args[2])
		if err != nil {
			return value.Null, err
		}
	}
	if step == 0 {
		return value.Null, scalarErr("generate_series", "step must not be zero")
	}
	var n uint64
	if step > 0 {
		if stop >= start {
			n = uint64((stop-start)/step) + 1
		}
	} else {
		if stop <= start {
			n = uint64((start-stop)/-step) + 1
		}
	}
	return value.ArrayValue(value.NewArithmeticArray(start, step, n)), nil
}

// fnDebugPanic raises a RuntimePanic carrying the display form of every
// argument. The call-site Span is filled in by the evaluator, which has
// the plan.Call node's position that this function body cannot see.
func fnDebugPanic(ctx *plan.Ctx, args []value.Value) (value.Value, error) {
	disp := make([]string, len(args))
	for i, a := range args {
		disp[i] = value.Display(a)
	}
	return value.Null, &errs.RuntimePanic{Args: disp}
}

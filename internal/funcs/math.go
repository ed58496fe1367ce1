package funcs

import (
	"math"

	"github.com/benchgen/tabgen/internal/plan"
	"github.com/benchgen/tabgen/internal/value"
)

func registerMath(r *Registry) {
	r.Register(&Function{name: "greatest", minArity: 1, maxArity: -1, fn: fnGreatest})
	r.Register(&Function{name: "least", minArity: 1, maxArity: -1, fn: fnLeast})
	r.Register(&Function{name: "round", minArity: 1, maxArity: 2, fn: fnRound})
	r.Register(&Function{name: "div", minArity: 2, maxArity: 2, fn: fnDiv})
	r.Register(&Function{name: "mod", minArity: 2, maxArity: 2, fn: fnMod})
}

func fnGreatest(ctx *plan.Ctx, args []value.Value) (value.Value, error) {
	return pickExtreme(args, false)
}

func fnLeast(ctx *plan.Ctx, args []value.Value) (value.Value, error) {
	return pickExtreme(args, true)
}

func pickExtreme(args []value.Value, wantMin bool) (value.Value, error) {
	var best value.Value
	have := false
	for _, a := range args {
		if a.IsNull() {
			continue
		}
		if !have {
			best = a
			have = true
			continue
		}
		op := ">"
		if wantMin {
			op = "<"
		}
		tri, err := value.Compare(op, a, best)
		if err != nil {
			return value.Null, err
		}
		if tri == value.TriTrue {
			best = a
		}
	}
	if !have {
		return value.Null, nil
	}
	return best, nil
}

// fnRound implements round(x[, ndigits]); ndigits defaults to 0.
func fnRound(ctx *plan.Ctx, args []value.Value) (value.Value, error) {
	if args[0].IsNull() {
		return value.Null, nil
	}
	ndigits := int64(0)
	if len(args) == 2 {
		if args[1].IsNull() {
			return value.Null, nil
		}
		n, err := asInt("round", args[1])
		if err != nil {
			return value.Null, err
		}
		ndigits = n
	}
	if args[0].Tag() == value.TagDecimal {
		return value.Dec(args[0].AsDecimal().Round(int32(ndigits))), nil
	}
	f, err := asFloat("round", args[0])
	if err != nil {
		return value.Null, err
	}
	mult := math.Pow(10, float64(ndigits))
	return value.Float(math.Round(f*mult) / mult), nil
}

// fnDiv implements integer division truncated toward zero, yielding NULL
// (not an error) on division by zero, matching SQL's NULLIF-style
// convention used throughout the template grammar for missing values.
func fnDiv(ctx *plan.Ctx, args []value.Value) (value.Value, error) {
	if args[0].IsNull() || args[1].IsNull() {
		return value.Null, nil
	}
	a, err := asInt("div", args[0])
	if err != nil {
		return value.Null, err
	}
	b, err := asInt("div", args[1])
	if err != nil {
		return value.Null, err
	}
	if b == 0 {
		return value.Null, nil
	}
	return value.Int(a / b), nil
}

// fnMod implements a % b with the sign of a (Go's native integer % already
// truncates toward zero the same way div does), yielding NULL on b == 0.
func fnMod(ctx *plan.Ctx, args []value.Value) (value.Value, error) {
	if args[0].IsNull() || args[1].IsNull() {
		return value.Null, nil
	}
	a, err := asInt("mod", args[0])
	if err != nil {
		return value.Null, err
	}
	b, err := asInt("mod", args[1])
	if err != nil {
		return value.Null, err
	}
	if b == 0 {
		return value.Null, nil
	}
	return value.Int(a % b), nil
}

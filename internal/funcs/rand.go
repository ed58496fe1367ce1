package funcs

import (
	"regexp/syntax"
	"time"

	"github.com/google/uuid"

	"github.com/benchgen/tabgen/internal/errs"
	"github.com/benchgen/tabgen/internal/plan"
	"github.com/benchgen/tabgen/internal/value"
)

func registerRand(r *Registry) {
	r.Register(&Function{name: "rand.regex", minArity: 1, maxArity: 1, fn: randRegex})
	r.Register(&Function{name: "rand.range", minArity: 2, maxArity: 2, fn: randRange})
	r.Register(&Function{name: "rand.range_inclusive", minArity: 2, maxArity: 2, fn: randRangeInclusive})
	r.Register(&Function{name: "rand.uniform", minArity: 2, maxArity: 2, fn: randUniform})
	r.Register(&Function{name: "rand.uniform_inclusive", minArity: 2, maxArity: 2, fn: randUniformInclusive})
	r.Register(&Function{name: "rand.bool", minArity: 0, maxArity: 1, fn: randBool})
	r.Register(&Function{name: "rand.zipf", minArity: 2, maxArity: 2, fn: randZipf})
	r.Register(&Function{name: "rand.log_normal", minArity: 2, maxArity: 2, fn: randLogNormal})
	r.Register(&Function{name: "rand.finite_f32", minArity: 0, maxArity: 0, fn: randFiniteF32})
	r.Register(&Function{name: "rand.finite_f64", minArity: 0, maxArity: 0, fn: randFiniteF64})
	r.Register(&Function{name: "rand.uuid", minArity: 0, maxArity: 0, fn: randUUID})
	r.Register(&Function{name: "rand.u31_timestamp", minArity: 0, maxArity: 2, fn: randU31Timestamp})
	r.Register(&Function{name: "rand.shuffle", minArity: 1, maxArity: 2, fn: randShuffle})
}

func asInt(name string, v value.Value) (int64, error) {
	if !v.IsNumber() {
		return 0, scalarErr(name, "expected a number, got %s", v.Tag())
	}
	switch v.Tag() {
	case value.TagInt:
		return v.AsInt(), nil
	case value.TagUint:
		return int64(v.AsUint()), nil
	case value.TagFloat:
		return int64(v.AsFloat()), nil
	default:
		return v.AsDecimal().IntPart(), nil
	}
}

func asUint(name string, v value.Value) (uint64, error) {
	n, err := asInt(name, v)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, scalarErr(name, "expected a non-negative integer, got %d", n)
	}
	return uint64(n), nil
}

func asFloat(name string, v value.Value) (float64, error) {
	if !v.IsNumber() {
		return 0, scalarErr(name, "expected a number, got %s", v.Tag())
	}
	switch v.Tag() {
	case value.TagFloat:
		return v.AsFloat(), nil
	case value.TagInt:
		return float64(v.AsInt()), nil
	case value.TagUint:
		return float64(v.AsUint()), nil
	default:
		f, _ := v.AsDecimal().Float64()
		return f, nil
	}
}

func randRange(ctx *plan.Ctx, args []value.Value) (value.Value, error) {
	lo, err := asUint("rand.range", args[0])
	if err != nil {
		return value.Null, err
	}
	hi, err := asUint("rand.range", args[1])
	if err != nil {
		return value.Null, err
	}
	if hi <= lo {
		return value.Null, scalarErr("rand.range", "empty range [%d, %d)", lo, hi)
	}
	return value.Int(int64(ctx.Rng.UniformInRange(lo, hi))), nil
}

func randRangeInclusive(ctx *plan.Ctx, args []value.Value) (value.Value, error) {
	lo, err := asUint("rand.range_inclusive", args[0])
	if err != nil {
		return value.Null, err
	}
	hi, err := asUint("rand.range_inclusive", args[1])
	if err != nil {
		return value.Null, err
	}
	if hi < lo {
		return value.Null, scalarErr("rand.range_inclusive", "empty range [%d, %d]", lo, hi)
	}
	return value.Int(int64(ctx.Rng.UniformInRangeInclusive(lo, hi))), nil
}

func randUniform(ctx *plan.Ctx, args []value.Value) (value.Value, error) {
	lo, err := asFloat("rand.uniform", args[0])
	if err != nil {
		return value.Null, err
	}
	hi, err := asFloat("rand.uniform", args[1])
	if err != nil {
		return value.Null, err
	}
	return value.Float(lo + ctx.Rng.F64_01()*(hi-lo)), nil
}

func randUniformInclusive(ctx *plan.Ctx, args []value.Value) (value.Value, error) {
	return randUniform(ctx, args)
}

func randBool(ctx *plan.Ctx, args []value.Value) (value.Value, error) {
	p := 0.5
	if len(args) == 1 {
		f, err := asFloat("rand.bool", args[0])
		if err != nil {
			return value.Null, err
		}
		p = f
	}
	b := ctx.Rng.Bool(p)
	if b {
		return value.Int(1), nil
	}
	return value.Int(0), nil
}

func randZipf(ctx *plan.Ctx, args []value.Value) (value.Value, error) {
	n, err := asUint("rand.zipf", args[0])
	if err != nil {
		return value.Null, err
	}
	skew, err := asFloat("rand.zipf", args[1])
	if err != nil {
		return value.Null, err
	}
	return value.Int(int64(ctx.Rng.Zipf(n, skew))), nil
}

func randLogNormal(ctx *plan.Ctx, args []value.Value) (value.Value, error) {
	mu, err := asFloat("rand.log_normal", args[0])
	if err != nil {
		return value.Null, err
	}
	sigma, err := asFloat("rand.log_normal", args[1])
	if err != nil {
		return value.Null, err
	}
	return value.Float(ctx.Rng.LogNormal(mu, sigma)), nil
}

func randFiniteF32(ctx *plan.Ctx, args []value.Value) (value.Value, error) {
	return value.Float(float64(ctx.Rng.FiniteF32())), nil
}

func randFiniteF64(ctx *plan.Ctx, args []value.Value) (value.Value, error) {
	return value.Float(ctx.Rng.FiniteF64()), nil
}

// randUUID produces a version-4 UUID whose 128 random bits are drawn from
// the row's forked PRNG stream rather than crypto/rand, so output is
// reproducible for a fixed (template, seed). rngReader adapts ctx.Rng to
// the io.Reader google/uuid needs to fill those bits before it sets the
// version/variant nibbles itself.
func randUUID(ctx *plan.Ctx, args []value.Value) (value.Value, error) {
	id, err := uuid.NewRandomFromReader(rngReader{ctx.Rng})
	if err != nil {
		return value.Null, err
	}
	return value.Str(id.String()), nil
}

type rngReader struct{ rng interface{ Uint64() uint64 } }

func (r rngReader) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		w := r.rng.Uint64()
		for i := 0; i < 8 && n < len(p); i++ {
			p[n] = byte(w >> (8 * i))
			n++
		}
	}
	return n, nil
}

// randU31Timestamp draws a Unix timestamp uniformly from a 31-bit signed
// range (the classic [0, 2^31) "safe" epoch window used by TPC-style
// generators to avoid 32-bit overflow in downstream consumers), optionally
// bounded by explicit [lo, hi) Unix-second arguments.
func randU31Timestamp(ctx *plan.Ctx, args []value.Value) (value.Value, error) {
	lo, hi := uint64(0), uint64(1<<31)
	if len(args) == 2 {
		l, err := asUint("rand.u31_timestamp", args[0])
		if err != nil {
			return value.Null, err
		}
		h, err := asUint("rand.u31_timestamp", args[1])
		if err != nil {
			return value.Null, err
		}
		lo, hi = l, h
	}
	secs := ctx.Rng.UniformInRange(lo, hi)
	return value.TimestampValue(value.TimestampFromTime(time.Unix(int64(secs), 0))), nil
}

// randShuffle returns a lazy shuffle: given a single Array argument (e.g.
// generate_series(a,b)), it permutes that array's elements; given one or
// two integer arguments it shuffles the range [0, n) or [lo, hi), per the
// reference's overloaded single-builtin convention. Backed by
// internal/value's O(1)-indexable Feistel permutation so large ranges and
// arrays never materialize.
func randShuffle(ctx *plan.Ctx, args []value.Value) (value.Value, error) {
	if len(args) == 1 && args[0].Tag() == value.TagArray {
		seed := ctx.Rng.Uint64()
		return value.ArrayValue(value.NewPermutedArray(args[0].AsArray(), seed)), nil
	}
	var lo, hi uint64
	var err error
	if len(args) == 1 {
		hi, err = asUint("rand.shuffle", args[0])
	} else {
		lo, err = asUint("rand.shuffle", args[0])
		if err == nil {
			hi, err = asUint("rand.shuffle", args[1])
		}
	}
	if err != nil {
		return value.Null, err
	}
	if hi <= lo {
		return value.Null, scalarErr("rand.shuffle", "empty range [%d, %d)", lo, hi)
	}
	seed := ctx.Rng.Uint64()
	return value.ArrayValue(value.NewShuffledArray(lo, hi-1, seed)), nil
}

// randRegex generates a string matching pattern, walking the parsed
// regexp/syntax op tree and resolving each node's random choices from the
// row's PRNG. Only a generative subset of Perl syntax makes sense to
// "run backwards" (literals, classes, concatenation, alternation, repeat,
// groups); anchors are accepted but contribute nothing to the generated
// text. Lookaround is not valid regexp/syntax, so such a pattern is a
// SyntaxError.
func randRegex(ctx *plan.Ctx, args []value.Value) (value.Value, error) {
	if args[0].Tag() != value.TagString {
		return value.Null, scalarErr("rand.regex", "expected a string pattern")
	}
	re, err := syntax.Parse(args[0].AsString(), syntax.Perl)
	if err != nil {
		return value.Null, &errs.SyntaxError{Message: "rand.regex(): " + err.Error()}
	}
	var out []rune
	out = genRegex(ctx, re, out)
	return value.Str(string(out)), nil
}

const maxRegexRepeat = 32

func genRegex(ctx *plan.Ctx, re *syntax.Regexp, out []rune) []rune {
	switch re.Op {
	case syntax.OpLiteral:
		return append(out, re.Rune...)
	case syntax.OpCharClass:
		return append(out, pickRuneFromClass(ctx, re.Rune))
	case syntax.OpAnyChar, syntax.OpAnyCharNotNL:
		return append(out, pickRuneFromClass(ctx, []rune{0x20, 0x7e}))
	case syntax.OpConcat:
		for _, sub := range re.Sub {
			out = genRegex(ctx, sub, out)
		}
		return out
	case syntax.OpAlternate:
		choice := int(ctx.Rng.UniformInRange(0, uint64(len(re.Sub))))
		return genRegex(ctx, re.Sub[choice], out)
	case syntax.OpStar:
		n := int(ctx.Rng.UniformInRange(0, maxRegexRepeat))
		for i := 0; i < n; i++ {
			out = genRegex(ctx, re.Sub[0], out)
		}
		return out
	case syntax.OpPlus:
		n := 1 + int(ctx.Rng.UniformInRange(0, maxRegexRepeat-1))
		for i := 0; i < n; i++ {
			out = genRegex(ctx, re.Sub[0], out)
		}
		return out
	case syntax.OpQuest:
		if ctx.Rng.Bool(0.5) {
			out = genRegex(ctx, re.Sub[0], out)
		}
		return out
	case syntax.OpRepeat:
		lo, hi := re.Min, re.Max
		if hi < 0 {
			hi = lo + maxRegexRepeat
		}
		n := lo
		if hi > lo {
			n = lo + int(ctx.Rng.UniformInRange(0, uint64(hi-lo+1)))
		}
		for i := 0; i < n; i++ {
			out = genRegex(ctx, re.Sub[0], out)
		}
		return out
	case syntax.OpCapture:
		return genRegex(ctx, re.Sub[0], out)
	default:
		return out
	}
}

func pickRuneFromClass(ctx *plan.Ctx, ranges []rune) rune {
	if len(ranges) == 0 {
		return '?'
	}
	var total uint64
	for i := 0; i+1 < len(ranges); i += 2 {
		total += uint64(ranges[i+1]-ranges[i]) + 1
	}
	if total == 0 {
		return ranges[0]
	}
	pick := ctx.Rng.UniformInRange(0, total)
	for i := 0; i+1 < len(ranges); i += 2 {
		span := uint64(ranges[i+1]-ranges[i]) + 1
		if pick < span {
			return ranges[i] + rune(pick)
		}
		pick -= span
	}
	return ranges[0]
}

// Package funcs implements the built-in function registry (spec §6.2),
// grounded on the teacher's functions.Registry/ScalarFunc pattern
// (core/sqlite/internal/functions/functions.go) but simplified: a function
// here closes over a plan.Ctx (for PRNG/rownum access) and a slice of
// already-evaluated value.Value arguments rather than the teacher's
// interface-typed Value abstraction, since this system has one concrete
// Value type (internal/value.Value) rather than many SQL storage classes.
package funcs

import (
	"fmt"

	"github.com/benchgen/tabgen/internal/errs"
	"github.com/benchgen/tabgen/internal/plan"
	"github.com/benchgen/tabgen/internal/value"
)

// Function is one registered built-in. It satisfies plan.Func.
type Function struct {
	name     string
	minArity int
	maxArity int // -1 for variadic
	evalAll  bool
	fn       func(ctx *plan.Ctx, args []value.Value) (value.Value, error)
}

func (f *Function) Name() string  { return f.name }
func (f *Function) MinArity() int { return f.minArity }
func (f *Function) MaxArity() int { return f.maxArity }
func (f *Function) EvalAll() bool { return f.evalAll }

func (f *Function) Call(ctx *plan.Ctx, args []value.Value) (value.Value, error) {
	if len(args) < f.minArity || (f.maxArity >= 0 && len(args) > f.maxArity) {
		return value.Null, fmt.Errorf("%s(): wrong number of arguments (got %d)", f.name, len(args))
	}
	return f.fn(ctx, args)
}

// Registry holds the fixed set of built-in functions. internal/compile
// resolves every call against it, so an unknown function name is a
// SyntaxError at compile time, before any row is generated.
type Registry struct {
	byName map[string]*Function
}

func (r *Registry) Register(f *Function) { r.byName[f.name] = f }

// Lookup returns the function for name, or (nil, false) if unknown.
func (r *Registry) Lookup(name string) (*Function, bool) {
	f, ok := r.byName[name]
	return f, ok
}

// Default returns a registry populated with every spec §6.2 built-in.
func Default() *Registry {
	r := &Registry{byName: make(map[string]*Function)}
	registerRand(r)
	registerString(r)
	registerEncoding(r)
	registerMath(r)
	registerMisc(r)
	return r
}

func scalarErr(name string, format string, args ...any) error {
	return &errs.TypeError{Message: fmt.Sprintf("%s(): %s", name, fmt.Sprintf(format, args...))}
}

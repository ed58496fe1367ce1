package eval

import (
	"testing"
	"time"

	"github.com/benchgen/tabgen/internal/compile"
	"github.com/benchgen/tabgen/internal/errs"
	"github.com/benchgen/tabgen/internal/funcs"
	"github.com/benchgen/tabgen/internal/parser"
	"github.com/benchgen/tabgen/internal/plan"
	"github.com/benchgen/tabgen/internal/prng"
	"github.com/benchgen/tabgen/internal/template"
	"github.com/benchgen/tabgen/internal/value"
)

const testSeed = "000000000000000000000000000000000000000000000000000000000000002a"

// colExpr compiles a one-column, one-table template and returns the
// compiled column node plus a ready-to-use *plan.Ctx sized for its slots.
func colExpr(t *testing.T, expr string) (*template.Model, plan.Node, *plan.Ctx) {
	t.Helper()
	src := "CREATE TABLE t (x INT {{ " + expr + " }});"
	tpl, err := parser.ParseTemplate(src)
	if err != nil {
		t.Fatalf("ParseTemplate(%q): %v", expr, err)
	}
	m, err := compile.Compile(tpl, funcs.Default())
	if err != nil {
		t.Fatalf("Compile(%q): %v", expr, err)
	}
	rng, err := prng.SeedFromHex(prng.Default, testSeed)
	if err != nil {
		t.Fatalf("SeedFromHex: %v", err)
	}
	ctx := &plan.Ctx{
		Slots:     make([]value.Value, m.SlotCount),
		RowNum:    1,
		SubRowNum: 1,
		Now:       time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Rng:       rng,
	}
	return m, m.Roots[0].Columns[0], ctx
}

func evalExpr(t *testing.T, expr string) value.Value {
	t.Helper()
	_, node, ctx := colExpr(t, expr)
	v, err := Eval(ctx, node)
	if err != nil {
		t.Fatalf("Eval(%q): %v", expr, err)
	}
	return v
}

func TestAndShortCircuitsSkipsAssignment(t *testing.T) {
	// If AND evaluated its RHS despite a false LHS, @y would become 99.
	_, node, ctx := colExpr(t, "0 AND (@y := 99)")
	if _, err := Eval(ctx, node); err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if !ctx.Slots[0].IsNull() {
		t.Fatalf("expected @y to remain unassigned (NULL), got %v", ctx.Slots[0])
	}
}

func TestOrShortCircuitsSkipsAssignment(t *testing.T) {
	_, node, ctx := colExpr(t, "1 OR (@y := 99)")
	if _, err := Eval(ctx, node); err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if !ctx.Slots[0].IsNull() {
		t.Fatalf("expected @y to remain unassigned (NULL), got %v", ctx.Slots[0])
	}
}

func TestCaseStopsAtFirstMatchingWhen(t *testing.T) {
	_, node, ctx := colExpr(t, `
		CASE
			WHEN 1 THEN (@hit := 1)
			WHEN 1 THEN (@hit := 2)
			ELSE (@hit := 3)
		END
	`)
	v, err := Eval(ctx, node)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if v.AsInt() != 1 {
		t.Fatalf("expected first matching WHEN's value 1, got %v", v)
	}
	if ctx.Slots[0].AsInt() != 1 {
		t.Fatalf("expected only the first branch's assignment to run, got %v", ctx.Slots[0])
	}
}

func TestCoalesceEvaluatesAllArguments(t *testing.T) {
	_, node, ctx := colExpr(t, "coalesce(NULL, (@a := 1), (@b := 2))")
	v, err := Eval(ctx, node)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if v.AsInt() != 1 {
		t.Fatalf("expected first non-NULL argument 1, got %v", v)
	}
	if ctx.Slots[0].AsInt() != 1 || ctx.Slots[1].AsInt() != 2 {
		t.Fatalf("expected coalesce to evaluate every argument, got slots %v", ctx.Slots)
	}
}

func TestSubscriptOutOfRangeIsNull(t *testing.T) {
	v := evalExpr(t, "ARRAY[10, 20, 30][5]")
	if !v.IsNull() {
		t.Fatalf("expected out-of-range subscript to be NULL, got %v", v)
	}
}

func TestSubscriptInRange(t *testing.T) {
	v := evalExpr(t, "ARRAY[10, 20, 30][2]")
	if v.AsInt() != 20 {
		t.Fatalf("expected 1-based index 2 to yield 20, got %v", v)
	}
}

func TestDivisionByZeroYieldsInfNotError(t *testing.T) {
	v := evalExpr(t, "1 / 0")
	f := v.AsFloat()
	if !(f > 1e300) {
		t.Fatalf("expected +Inf from 1/0, got %v", f)
	}
}

func TestDebugPanicSpanIsBackfilledFromCallSite(t *testing.T) {
	_, node, ctx := colExpr(t, `debug.panic('boom')`)
	_, err := Eval(ctx, node)
	if err == nil {
		t.Fatal("expected debug.panic to return an error")
	}
	rp, ok := err.(*errs.RuntimePanic)
	if !ok {
		t.Fatalf("expected *errs.RuntimePanic, got %T", err)
	}
	if rp.Span == (errs.Span{}) {
		t.Fatal("expected evalCall to back-fill a non-zero span from the call site")
	}
	if len(rp.Args) != 1 || rp.Args[0] != "boom" {
		t.Fatalf("expected panic args [\"boom\"], got %v", rp.Args)
	}
}

package parser

import (
	"testing"

	"github.com/benchgen/tabgen/internal/ast"
	"github.com/benchgen/tabgen/internal/token"
)

func mustParse(t *testing.T, src string) ast.Expr {
	t.Helper()
	e, err := ParseExpr(src, 0, 1, 0)
	if err != nil {
		t.Fatalf("ParseExpr(%q): %v", src, err)
	}
	return e
}

func TestPrecedenceArithmeticOverComparison(t *testing.T) {
	e := mustParse(t, "1 + 2 * 3 = 7")
	bin, ok := e.(*ast.BinaryExpr)
	if !ok || bin.Op != token.EQ {
		t.Fatalf("expected top-level EQ, got %#v", e)
	}
	left, ok := bin.Left.(*ast.BinaryExpr)
	if !ok || left.Op != token.PLUS {
		t.Fatalf("expected + at left of =, got %#v", bin.Left)
	}
	right, ok := left.Right.(*ast.BinaryExpr)
	if !ok || right.Op != token.STAR {
		t.Fatalf("expected * nested under +, got %#v", left.Right)
	}
}

func TestAndOrPrecedence(t *testing.T) {
	e := mustParse(t, "a(1) AND b(2) OR c(3)")
	top, ok := e.(*ast.BinaryExpr)
	if !ok || top.Op != token.OR {
		t.Fatalf("expected top-level OR (lowest precedence), got %#v", e)
	}
	left, ok := top.Left.(*ast.BinaryExpr)
	if !ok || left.Op != token.AND {
		t.Fatalf("expected AND nested under OR, got %#v", top.Left)
	}
}

func TestAssignmentBindsBelowOr(t *testing.T) {
	e := mustParse(t, "@x := a(1) OR b(2)")
	assign, ok := e.(*ast.AssignExpr)
	if !ok || assign.Name != "x" {
		t.Fatalf("expected assignment to x, got %#v", e)
	}
	if _, ok := assign.Value.(*ast.BinaryExpr); !ok {
		t.Fatalf("expected OR expr as assigned value, got %#v", assign.Value)
	}
}

func TestSequenceIsLowestPrecedence(t *testing.T) {
	e := mustParse(t, "@x := 1; @y := 2")
	seq, ok := e.(*ast.SeqExpr)
	if !ok || len(seq.Exprs) != 2 {
		t.Fatalf("expected 2-element sequence, got %#v", e)
	}
}

func TestCaseWhenThenElse(t *testing.T) {
	e := mustParse(t, "CASE WHEN @x > 0 THEN 'pos' WHEN @x < 0 THEN 'neg' ELSE 'zero' END")
	c, ok := e.(*ast.CaseExpr)
	if !ok {
		t.Fatalf("expected CaseExpr, got %#v", e)
	}
	if len(c.Whens) != 2 || c.Else == nil {
		t.Fatalf("unexpected case shape: %#v", c)
	}
}

func TestFunctionCallAndSubscript(t *testing.T) {
	e := mustParse(t, "rand.shuffle(@arr)[rownum]")
	sub, ok := e.(*ast.SubscriptExpr)
	if !ok {
		t.Fatalf("expected SubscriptExpr, got %#v", e)
	}
	call, ok := sub.Array.(*ast.CallExpr)
	if !ok || call.Name != "rand.shuffle" {
		t.Fatalf("expected rand.shuffle call, got %#v", sub.Array)
	}
	if _, ok := sub.Index.(*ast.RowNumRef); !ok {
		t.Fatalf("expected rownum index, got %#v", sub.Index)
	}
}

func TestArrayLitAndInterval(t *testing.T) {
	e := mustParse(t, "ARRAY[1, 2, 3]")
	arr, ok := e.(*ast.ArrayLit)
	if !ok || len(arr.Elems) != 3 {
		t.Fatalf("expected 3-elem array, got %#v", e)
	}

	iv := mustParse(t, "INTERVAL 5 DAYS")
	ivLit, ok := iv.(*ast.IntervalLit)
	if !ok || ivLit.Unit != "DAYS" {
		t.Fatalf("expected interval literal, got %#v", iv)
	}
}

func TestTimestampLitWithTimeZone(t *testing.T) {
	e := mustParse(t, "TIMESTAMP WITH TIME ZONE '2024-01-01 00:00:00+00'")
	ts, ok := e.(*ast.TimestampLit)
	if !ok || !ts.HasTZ {
		t.Fatalf("expected tz-aware timestamp literal, got %#v", e)
	}
}

func TestIsNot(t *testing.T) {
	e := mustParse(t, "@x IS NOT NULL")
	bin, ok := e.(*ast.BinaryExpr)
	if !ok || bin.Op != token.IS || !bin.IsNot {
		t.Fatalf("expected IS NOT, got %#v", e)
	}
	if _, ok := bin.Right.(*ast.NullLit); !ok {
		t.Fatalf("expected NULL on right of IS NOT, got %#v", bin.Right)
	}
}

func TestHexBlobLit(t *testing.T) {
	e := mustParse(t, "X'CAFEBABE'")
	h, ok := e.(*ast.HexBlobLit)
	if !ok || h.Hex != "CAFEBABE" {
		t.Fatalf("got %#v", e)
	}
}

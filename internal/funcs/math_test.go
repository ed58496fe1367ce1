package funcs

import (
	"testing"

	"github.com/benchgen/tabgen/internal/plan"
	"github.com/benchgen/tabgen/internal/value"
)

func call(t *testing.T, name string, args ...value.Value) value.Value {
	t.Helper()
	fn, ok := Default().Lookup(name)
	if !ok {
		t.Fatalf("Lookup(%q): not found", name)
	}
	v, err := fn.Call(&plan.Ctx{}, args)
	if err != nil {
		t.Fatalf("%s(%v): %v", name, args, err)
	}
	return v
}

func TestRound(t *testing.T) {
	tests := []struct {
		args []value.Value
		want value.Value
	}{
		{[]value.Value{value.Float(2.4)}, value.Float(2)},
		{[]value.Value{value.Float(2.5)}, value.Float(3)},
		{[]value.Value{value.Float(2.345), value.Int(2)}, value.Float(2.35)},
		{[]value.Value{value.Null}, value.Null},
	}
	for _, tt := range tests {
		got := call(t, "round", tt.args...)
		if got.Tag() != tt.want.Tag() {
			t.Fatalf("round(%v) tag = %v, want %v", tt.args, got.Tag(), tt.want.Tag())
		}
		if tt.want.Tag() == value.TagFloat && got.AsFloat() != tt.want.AsFloat() {
			t.Errorf("round(%v) = %v, want %v", tt.args, got.AsFloat(), tt.want.AsFloat())
		}
	}
}

// TestDivMod checks spec §8 invariant #6: n = div(n,d)*d + mod(n,d) for d !=
// 0, and that mod's sign follows n's sign (truncated division).
func TestDivMod(t *testing.T) {
	tests := []struct {
		n, d    int64
		wantDiv int64
		wantMod int64
	}{
		{9, 4, 2, 1},
		{-9, 4, -2, -1},
		{9, -4, -2, 1},
		{-9, -4, 2, -1},
	}
	for _, tt := range tests {
		d := call(t, "div", value.Int(tt.n), value.Int(tt.d))
		m := call(t, "mod", value.Int(tt.n), value.Int(tt.d))
		if d.AsInt() != tt.wantDiv {
			t.Errorf("div(%d,%d) = %d, want %d", tt.n, tt.d, d.AsInt(), tt.wantDiv)
		}
		if m.AsInt() != tt.wantMod {
			t.Errorf("mod(%d,%d) = %d, want %d", tt.n, tt.d, m.AsInt(), tt.wantMod)
		}
		if tt.n != d.AsInt()*tt.d+m.AsInt() {
			t.Errorf("invariant violated: %d != div(%d,%d)*%d + mod(%d,%d)", tt.n, tt.n, tt.d, tt.d, tt.n, tt.d)
		}
	}
}

// TestDivModByZero checks spec §7: div/mod by zero return NULL, not an
// error.
func TestDivModByZero(t *testing.T) {
	if got := call(t, "div", value.Int(9), value.Int(0)); !got.IsNull() {
		t.Errorf("div(9,0) = %v, want NULL", got)
	}
	if got := call(t, "mod", value.Int(9), value.Int(0)); !got.IsNull() {
		t.Errorf("mod(9,0) = %v, want NULL", got)
	}
}

func TestGreatestLeast(t *testing.T) {
	if got := call(t, "greatest", value.Int(3), value.Int(7), value.Int(1)); got.AsInt() != 7 {
		t.Errorf("greatest(3,7,1) = %v, want 7", got.AsInt())
	}
	if got := call(t, "least", value.Int(3), value.Int(7), value.Int(1)); got.AsInt() != 1 {
		t.Errorf("least(3,7,1) = %v, want 1", got.AsInt())
	}
	// Nulls among the arguments are ignored, not propagated (spec §9 open
	// question: greatest/least still evaluate every argument but skip Nulls
	// when picking the extreme).
	if got := call(t, "greatest", value.Null, value.Int(5)); got.AsInt() != 5 {
		t.Errorf("greatest(NULL,5) = %v, want 5", got.AsInt())
	}
	if got := call(t, "least", value.Null, value.Int(5)); got.AsInt() != 5 {
		t.Errorf("least(NULL,5) = %v, want 5", got.AsInt())
	}
	if got := call(t, "greatest", value.Null, value.Null); !got.IsNull() {
		t.Errorf("greatest(NULL,NULL) = %v, want NULL", got)
	}
}

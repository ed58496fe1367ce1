package funcs

import (
	"testing"

	"github.com/benchgen/tabgen/internal/value"
)

func seriesInts(t *testing.T, v value.Value) []int64 {
	t.Helper()
	if v.Tag() != value.TagArray {
		t.Fatalf("generate_series: got tag %v, want ARRAY", v.Tag())
	}
	arr := v.AsArray()
	out := make([]int64, arr.Len())
	for i := range out {
		out[i] = arr.Get(uint64(i)).AsInt()
	}
	return out
}

func assertInts(t *testing.T, got []int64, want ...int64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %v (len %d), want %v (len %d)", got, len(got), want, len(want))
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

// TestGenerateSeriesInclusive pins down the reference's loop-until-past-stop
// behavior: generate_series(1,5) includes the upper bound, yielding the
// 5-element series {1,2,3,4,5}, not the half-open {1,2,3,4}.
func TestGenerateSeriesInclusive(t *testing.T) {
	got := seriesInts(t, call(t, "generate_series", value.Int(1), value.Int(5)))
	assertInts(t, got, 1, 2, 3, 4, 5)
}

func TestGenerateSeriesStep(t *testing.T) {
	got := seriesInts(t, call(t, "generate_series", value.Int(1), value.Int(10), value.Int(3)))
	assertInts(t, got, 1, 4, 7, 10)

	// the last step that would overshoot stop is excluded.
	got = seriesInts(t, call(t, "generate_series", value.Int(1), value.Int(9), value.Int(3)))
	assertInts(t, got, 1, 4, 7)
}

func TestGenerateSeriesNegativeStep(t *testing.T) {
	got := seriesInts(t, call(t, "generate_series", value.Int(5), value.Int(1), value.Int(-1)))
	assertInts(t, got, 5, 4, 3, 2, 1)

	got = seriesInts(t, call(t, "generate_series", value.Int(10), value.Int(1), value.Int(-3)))
	assertInts(t, got, 10, 7, 4, 1)
}

func TestGenerateSeriesEmpty(t *testing.T) {
	got := seriesInts(t, call(t, "generate_series", value.Int(5), value.Int(1)))
	if len(got) != 0 {
		t.Errorf("generate_series(5,1) = %v, want empty (start > stop, step defaults to +1)", got)
	}
}

func TestGenerateSeriesSingleton(t *testing.T) {
	got := seriesInts(t, call(t, "generate_series", value.Int(3), value.Int(3)))
	assertInts(t, got, 3)
}

func TestCoalesce(t *testing.T) {
	got := call(t, "coalesce", value.Null, value.Null, value.Int(7), value.Int(8))
	if got.AsInt() != 7 {
		t.Errorf("coalesce(NULL,NULL,7,8) = %v, want 7", got.AsInt())
	}
	got = call(t, "coalesce", value.Null, value.Null)
	if !got.IsNull() {
		t.Errorf("coalesce(NULL,NULL) = %v, want NULL", got)
	}
}

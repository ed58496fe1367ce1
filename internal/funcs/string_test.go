package funcs

import (
	"testing"

	"github.com/benchgen/tabgen/internal/value"
)

func TestSubstring(t *testing.T) {
	// spec S4: substring is 1-based and counts Unicode code points, not
	// bytes, so a multi-byte string slices on character boundaries.
	got := call(t, "substring", value.Str("ⓘⓝⓟⓤⓣ"), value.Int(2), value.Int(3))
	want := "ⓝⓟⓤ"
	if got.AsString() != want {
		t.Errorf("substring(input,2,3) = %q, want %q", got.AsString(), want)
	}
}

func TestSubstringNoLength(t *testing.T) {
	got := call(t, "substring", value.Str("hello"), value.Int(2))
	if got.AsString() != "ello" {
		t.Errorf("substring('hello',2) = %q, want %q", got.AsString(), "ello")
	}
}

func TestSubstringOutOfRange(t *testing.T) {
	if got := call(t, "substring", value.Str("hi"), value.Int(5)); got.AsString() != "" {
		t.Errorf("substring('hi',5) = %q, want empty", got.AsString())
	}
}

func TestOverlay(t *testing.T) {
	got := call(t, "overlay", value.Str("hello world"), value.Str("there"), value.Int(7))
	if got.AsString() != "hello there" {
		t.Errorf("overlay = %q, want %q", got.AsString(), "hello there")
	}
}

// TestCharVsOctetLength checks spec §8 invariant #5: char_length(s) <=
// octet_length(s), with equality iff s is ASCII.
func TestCharVsOctetLength(t *testing.T) {
	ascii := value.Str("hello")
	charLen := call(t, "char_length", ascii)
	octLen := call(t, "octet_length", ascii)
	if charLen.AsInt() != octLen.AsInt() {
		t.Errorf("ASCII string: char_length=%d, octet_length=%d, want equal", charLen.AsInt(), octLen.AsInt())
	}

	multi := value.Str("日本語") // 3 code points, each 3 UTF-8 bytes
	charLen = call(t, "char_length", multi)
	octLen = call(t, "octet_length", multi)
	if charLen.AsInt() != 3 {
		t.Errorf("char_length(multi-byte) = %d, want 3", charLen.AsInt())
	}
	if octLen.AsInt() != 9 {
		t.Errorf("octet_length(multi-byte) = %d, want 9", octLen.AsInt())
	}
	if charLen.AsInt() >= octLen.AsInt() {
		t.Errorf("char_length=%d should be < octet_length=%d for a non-ASCII string", charLen.AsInt(), octLen.AsInt())
	}
}

func TestCharacterLengthAlias(t *testing.T) {
	a := call(t, "char_length", value.Str("abc"))
	b := call(t, "character_length", value.Str("abc"))
	if a.AsInt() != b.AsInt() {
		t.Errorf("char_length and character_length disagree: %d vs %d", a.AsInt(), b.AsInt())
	}
}

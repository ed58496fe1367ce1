package value

import "testing"

func TestTrinaryTables(t *testing.T) {
	vals := []Tri{TriFalse, TriTrue, TriUnknown}
	wantAnd := map[[2]Tri]Tri{
		{TriFalse, TriFalse}:     TriFalse,
		{TriFalse, TriTrue}:      TriFalse,
		{TriFalse, TriUnknown}:   TriFalse,
		{TriTrue, TriFalse}:      TriFalse,
		{TriTrue, TriTrue}:       TriTrue,
		{TriTrue, TriUnknown}:    TriUnknown,
		{TriUnknown, TriFalse}:   TriFalse,
		{TriUnknown, TriTrue}:    TriUnknown,
		{TriUnknown, TriUnknown}: TriUnknown,
	}
	for _, a := range vals {
		for _, b := range vals {
			if got := And(a, b); got != wantAnd[[2]Tri{a, b}] {
				t.Errorf("And(%v,%v) = %v, want %v", a, b, got, wantAnd[[2]Tri{a, b}])
			}
		}
	}

	wantOr := map[[2]Tri]Tri{
		{TriFalse, TriFalse}:     TriFalse,
		{TriFalse, TriTrue}:      TriTrue,
		{TriFalse, TriUnknown}:   TriUnknown,
		{TriTrue, TriFalse}:      TriTrue,
		{TriTrue, TriTrue}:       TriTrue,
		{TriTrue, TriUnknown}:    TriTrue,
		{TriUnknown, TriFalse}:   TriUnknown,
		{TriUnknown, TriTrue}:    TriTrue,
		{TriUnknown, TriUnknown}: TriUnknown,
	}
	for _, a := range vals {
		for _, b := range vals {
			if got := Or(a, b); got != wantOr[[2]Tri{a, b}] {
				t.Errorf("Or(%v,%v) = %v, want %v", a, b, got, wantOr[[2]Tri{a, b}])
			}
		}
	}

	if Not(TriTrue) != TriFalse || Not(TriFalse) != TriTrue || Not(TriUnknown) != TriUnknown {
		t.Errorf("Not table wrong")
	}
}

func TestArithPromotion(t *testing.T) {
	tests := []struct {
		name     string
		l, r     Value
		op       byte
		wantTag  Tag
	}{
		{"int+int", Int(1), Int(2), '+', TagInt},
		{"int+float", Int(1), Float(2.5), '+', TagFloat},
		{"decimal+float", Dec(mustDec("1.5")), Float(2), '+', TagFloat},
	}
	for _, tt := range tests {
		got, err := Arith(tt.op, tt.l, tt.r)
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if got.Tag() != tt.wantTag {
			t.Errorf("%s: tag = %v, want %v", tt.name, got.Tag(), tt.wantTag)
		}
	}
}

func TestDivAlwaysFloat(t *testing.T) {
	got, err := Div(Int(3), Int(2))
	if err != nil {
		t.Fatal(err)
	}
	if got.Tag() != TagFloat || Display(got) != "1.5" {
		t.Errorf("3/2 = %v, want 1.5", Display(got))
	}

	got, err = Div(Int(1), Int(0))
	if err != nil {
		t.Fatal(err)
	}
	if Display(got) != "inf" {
		t.Errorf("1/0 = %v, want inf", Display(got))
	}
}

func TestCompareNaNIsUnknown(t *testing.T) {
	nan := Float(nan())
	tri, err := Compare("=", nan, nan)
	if err != nil {
		t.Fatal(err)
	}
	if tri != TriUnknown {
		t.Errorf("NaN = NaN should be Unknown, got %v", tri)
	}
}

func TestIdentical(t *testing.T) {
	if !Identical(Null, Null) {
		t.Error("Null IS Null should be true")
	}
	if Identical(Int(0), Null) {
		t.Error("Int(0) IS Null should be false")
	}
	if !Identical(Int(5), Int(5)) {
		t.Error("same ints should be identical")
	}
}

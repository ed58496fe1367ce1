package lexer

import (
	"testing"

	"github.com/benchgen/tabgen/internal/token"
)

func collect(src string) []token.Token {
	l := New(src, 0, 1, 0)
	var toks []token.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	return toks
}

func types(toks []token.Token) []token.Type {
	out := make([]token.Type, len(toks))
	for i, t := range toks {
		out[i] = t.Type
	}
	return out
}

func TestBasicOperators(t *testing.T) {
	toks := collect("1 + 2 * 3 <= 4 || 'x' <> @y")
	want := []token.Type{
		token.INT, token.PLUS, token.INT, token.STAR, token.INT,
		token.LE, token.INT, token.CONCAT, token.STRING, token.NE, token.VAR, token.EOF,
	}
	got := types(toks)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %v want %v (all: %v)", i, got[i], want[i], got)
		}
	}
}

func TestStringEscape(t *testing.T) {
	toks := collect(`'it''s here'`)
	if toks[0].Type != token.STRING || toks[0].Lexeme != "it's here" {
		t.Fatalf("got %+v", toks[0])
	}
}

func TestHexBlob(t *testing.T) {
	toks := collect(`X'DEADBEEF'`)
	if toks[0].Type != token.HEXBLOB || toks[0].Lexeme != "DEADBEEF" {
		t.Fatalf("got %+v", toks[0])
	}
}

func TestAssignAndVar(t *testing.T) {
	toks := collect("@x := rand.range(1, 10)")
	want := []token.Type{token.VAR, token.ASSIGN, token.IDENT, token.LPAREN, token.INT, token.COMMA, token.INT, token.RPAREN, token.EOF}
	got := types(toks)
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %v want %v", i, got[i], want[i])
		}
	}
	if toks[2].Lexeme != "rand.range" {
		t.Fatalf("expected dotted ident, got %q", toks[2].Lexeme)
	}
}

func TestKeywords(t *testing.T) {
	toks := collect("CASE WHEN @x IS NOT NULL THEN 1 ELSE 0 END")
	if toks[0].Type != token.CASE || toks[1].Type != token.WHEN {
		t.Fatalf("got %+v", toks[:2])
	}
}

func TestFloatAndHexInt(t *testing.T) {
	toks := collect("3.14 0x1F 2e10")
	if toks[0].Type != token.FLOAT || toks[0].Lexeme != "3.14" {
		t.Fatalf("got %+v", toks[0])
	}
	if toks[1].Type != token.INT || toks[1].Lexeme != "0x1F" {
		t.Fatalf("got %+v", toks[1])
	}
	if toks[2].Type != token.FLOAT || toks[2].Lexeme != "2e10" {
		t.Fatalf("got %+v", toks[2])
	}
}

func TestBaseOffsetAppliesToPositions(t *testing.T) {
	l := New("1", 100, 5, 9)
	tok := l.NextToken()
	if tok.Offset != 100 || tok.Line != 5 {
		t.Fatalf("got %+v", tok)
	}
}

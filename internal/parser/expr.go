// Package parser implements the inner expression grammar and the outer
// template grammar (spec §4.3). The expression parser is recursive descent
// with one method per precedence level (§6.1), grounded on the teacher's
// sql_parser parseOrExpression -> ... -> parsePrimaryExpression chain; the
// template parser scans for CREATE TABLE statements and {{ }} markers.
package parser

import (
	"fmt"
	"strings"

	"github.com/benchgen/tabgen/internal/ast"
	"github.com/benchgen/tabgen/internal/errs"
	"github.com/benchgen/tabgen/internal/lexer"
	"github.com/benchgen/tabgen/internal/token"
)

// ExprParser parses one {{ ... }} expression body.
type ExprParser struct {
	tokens  []token.Token
	current int
}

// ParseExpr tokenizes src (an expression body, with its source position
// relative to baseOffset/baseLine/baseCol in the enclosing template) and
// parses it as a full expression (precedence level 12: `;`-sequenced).
func ParseExpr(src string, baseOffset, baseLine, baseCol int) (ast.Expr, error) {
	l := lexer.New(src, baseOffset, baseLine, baseCol)
	var toks []token.Token
	for {
		t := l.NextToken()
		toks = append(toks, t)
		if t.Type == token.EOF {
			break
		}
	}
	p := &ExprParser{tokens: toks}
	expr, err := p.parseSeq()
	if err != nil {
		return nil, err
	}
	if !p.isAtEnd() {
		return nil, p.errorf("unexpected token %q after expression", p.peek().Lexeme)
	}
	return expr, nil
}

func (p *ExprParser) peek() token.Token {
	if p.current >= len(p.tokens) {
		return token.Token{Type: token.EOF}
	}
	return p.tokens[p.current]
}

func (p *ExprParser) peekAhead(n int) token.Token {
	pos := p.current + n
	if pos >= len(p.tokens) {
		return token.Token{Type: token.EOF}
	}
	return p.tokens[pos]
}

func (p *ExprParser) advance() token.Token {
	t := p.peek()
	if t.Type != token.EOF {
		p.current++
	}
	return t
}

func (p *ExprParser) check(t token.Type) bool { return p.peek().Type == t }

func (p *ExprParser) match(types ...token.Type) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *ExprParser) isAtEnd() bool { return p.peek().Type == token.EOF }

func (p *ExprParser) errorf(format string, args ...any) error {
	tok := p.peek()
	return &errs.SyntaxError{
		Span:    errs.Span{Offset: tok.Offset, Line: tok.Line, Col: tok.Col},
		Message: fmt.Sprintf(format, args...),
	}
}

func (p *ExprParser) pos() ast.Pos { return ast.PosFromToken(p.peek()) }

// level 12: `;`-separated sequence
func (p *ExprParser) parseSeq() (ast.Expr, error) {
	first, err := p.parseAssign()
	if err != nil {
		return nil, err
	}
	if !p.check(token.SEMI) {
		return first, nil
	}
	exprs := []ast.Expr{first}
	for p.match(token.SEMI) {
		if p.isAtEnd() {
			break
		}
		e, err := p.parseAssign()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, e)
	}
	return &ast.SeqExpr{ast.ExprBase{Pos: first.At()}, exprs}, nil
}


// level 11: `:=` (right-associative, lower precedence than OR)
func (p *ExprParser) parseAssign() (ast.Expr, error) {
	if p.check(token.VAR) && p.peekAhead(1).Type == token.ASSIGN {
		tok := p.advance() // VAR
		p.advance()        // :=
		value, err := p.parseAssign()
		if err != nil {
			return nil, err
		}
		return &ast.AssignExpr{Name: tok.Lexeme, Value: value}, nil
	}
	return p.parseOr()
}

// level 10: OR
func (p *ExprParser) parseOr() (ast.Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.match(token.OR) {
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: token.OR, Left: left, Right: right}
	}
	return left, nil
}

// level 9: AND
func (p *ExprParser) parseAnd() (ast.Expr, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.match(token.AND) {
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: token.AND, Left: left, Right: right}
	}
	return left, nil
}

// level 8: unary NOT
func (p *ExprParser) parseNot() (ast.Expr, error) {
	if p.match(token.NOT) {
		operand, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Op: token.NOT, Operand: operand}, nil
	}
	return p.parseComparison()
}

// level 7: comparisons, IS / IS NOT
func (p *ExprParser) parseComparison() (ast.Expr, error) {
	left, err := p.parseBitOr()
	if err != nil {
		return nil, err
	}
	if p.match(token.IS) {
		isNot := p.match(token.NOT)
		right, err := p.parseBitOr()
		if err != nil {
			return nil, err
		}
		return &ast.BinaryExpr{Op: token.IS, IsNot: isNot, Left: left, Right: right}, nil
	}
	var op token.Type
	matched := false
	switch {
	case p.match(token.EQ):
		op, matched = token.EQ, true
	case p.match(token.NE):
		op, matched = token.NE, true
	case p.match(token.LT):
		op, matched = token.LT, true
	case p.match(token.GT):
		op, matched = token.GT, true
	case p.match(token.LE):
		op, matched = token.LE, true
	case p.match(token.GE):
		op, matched = token.GE, true
	}
	if matched {
		right, err := p.parseBitOr()
		if err != nil {
			return nil, err
		}
		return &ast.BinaryExpr{Op: op, Left: left, Right: right}, nil
	}
	return left, nil
}

// level 6: |, ^
func (p *ExprParser) parseBitOr() (ast.Expr, error) {
	left, err := p.parseBitAnd()
	if err != nil {
		return nil, err
	}
	for {
		var op token.Type
		matched := false
		switch {
		case p.match(token.PIPE):
			op, matched = token.PIPE, true
		case p.match(token.CARET):
			op, matched = token.CARET, true
		}
		if !matched {
			break
		}
		right, err := p.parseBitAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: op, Left: left, Right: right}
	}
	return left, nil
}

// level 5: &
func (p *ExprParser) parseBitAnd() (ast.Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for p.match(token.AMP) {
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: token.AMP, Left: left, Right: right}
	}
	return left, nil
}

// level 4: +, -, ||
func (p *ExprParser) parseAdditive() (ast.Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		var op token.Type
		matched := false
		switch {
		case p.match(token.PLUS):
			op, matched = token.PLUS, true
		case p.match(token.MINUS):
			op, matched = token.MINUS, true
		case p.match(token.CONCAT):
			op, matched = token.CONCAT, true
		}
		if !matched {
			break
		}
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: op, Left: left, Right: right}
	}
	return left, nil
}

// level 3: *, /
func (p *ExprParser) parseMultiplicative() (ast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		var op token.Type
		matched := false
		switch {
		case p.match(token.STAR):
			op, matched = token.STAR, true
		case p.match(token.SLASH):
			op, matched = token.SLASH, true
		}
		if !matched {
			break
		}
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: op, Left: left, Right: right}
	}
	return left, nil
}

// level 2: unary -, +, ~
func (p *ExprParser) parseUnary() (ast.Expr, error) {
	switch {
	case p.match(token.MINUS):
		pos := p.pos()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{ast.ExprBase{Pos: pos}, token.MINUS, operand}, nil
	case p.match(token.PLUS):
		return p.parseUnary()
	case p.match(token.TILDE):
		pos := p.pos()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{ast.ExprBase{Pos: pos}, token.TILDE, operand}, nil
	}
	return p.parsePostfix()
}


// level 1: function call, subscript
func (p *ExprParser) parsePostfix() (ast.Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.check(token.LBRACKET) {
		pos := p.pos()
		p.advance()
		idx, err := p.parseSeq()
		if err != nil {
			return nil, err
		}
		if !p.match(token.RBRACKET) {
			return nil, p.errorf("expected ']' after subscript")
		}
		expr = &ast.SubscriptExpr{ast.ExprBase{Pos: pos}, expr, idx}
	}
	return expr, nil
}

func (p *ExprParser) parsePrimary() (ast.Expr, error) {
	tok := p.peek()
	pos := ast.PosFromToken(tok)
	switch tok.Type {
	case token.INT:
		p.advance()
		return &ast.IntLit{ast.ExprBase{Pos: pos}, tok.Lexeme}, nil
	case token.FLOAT:
		p.advance()
		return &ast.FloatLit{ast.ExprBase{Pos: pos}, tok.Lexeme}, nil
	case token.STRING:
		p.advance()
		return &ast.StringLit{ast.ExprBase{Pos: pos}, tok.Lexeme}, nil
	case token.HEXBLOB:
		p.advance()
		return &ast.HexBlobLit{ast.ExprBase{Pos: pos}, tok.Lexeme}, nil
	case token.VAR:
		p.advance()
		return &ast.VarRef{ast.ExprBase{Pos: pos}, tok.Lexeme}, nil
	case token.LPAREN:
		p.advance()
		e, err := p.parseSeq()
		if err != nil {
			return nil, err
		}
		if !p.match(token.RPAREN) {
			return nil, p.errorf("expected ')'")
		}
		return e, nil
	case token.MINUS, token.PLUS, token.TILDE:
		return p.parseUnary()
	case token.CASE:
		return p.parseCase()
	case token.ARRAY:
		return p.parseArrayLit()
	case token.TIMESTAMP:
		return p.parseTimestampLit()
	case token.INTERVAL:
		return p.parseIntervalLit()
	case token.IDENT:
		return p.parseIdentOrCall()
	}
	return nil, p.errorf("unexpected token %q", tok.Lexeme)
}

func (p *ExprParser) parseIdentOrCall() (ast.Expr, error) {
	tok := p.advance()
	pos := ast.PosFromToken(tok)
	upper := strings.ToUpper(tok.Lexeme)
	switch upper {
	case "NULL":
		return &ast.NullLit{ast.ExprBase{Pos: pos}}, nil
	case "ROWNUM":
		return &ast.RowNumRef{ast.ExprBase{Pos: pos}}, nil
	case "SUBROWNUM":
		return &ast.SubRowNumRef{ast.ExprBase{Pos: pos}}, nil
	case "CURRENT_TIMESTAMP":
		return &ast.CurrentTimestampRef{ast.ExprBase{Pos: pos}}, nil
	}
	if !p.check(token.LPAREN) {
		return nil, p.errorf("unknown identifier %q (expected a function call)", tok.Lexeme)
	}
	p.advance() // (
	var args []ast.Expr
	if !p.check(token.RPAREN) {
		for {
			arg, err := p.parseAssign()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	if !p.match(token.RPAREN) {
		return nil, p.errorf("expected ')' after arguments to %q", tok.Lexeme)
	}
	return &ast.CallExpr{ast.ExprBase{Pos: pos}, tok.Lexeme, args}, nil
}

func (p *ExprParser) parseCase() (ast.Expr, error) {
	pos := p.pos()
	p.advance() // CASE
	var whens []ast.WhenClause
	for p.match(token.WHEN) {
		cond, err := p.parseSeq()
		if err != nil {
			return nil, err
		}
		if !p.match(token.THEN) {
			return nil, p.errorf("expected THEN in CASE")
		}
		then, err := p.parseSeq()
		if err != nil {
			return nil, err
		}
		whens = append(whens, ast.WhenClause{Cond: cond, Then: then})
	}
	if len(whens) == 0 {
		return nil, p.errorf("expected at least one WHEN in CASE")
	}
	var elseExpr ast.Expr
	if p.match(token.ELSE) {
		e, err := p.parseSeq()
		if err != nil {
			return nil, err
		}
		elseExpr = e
	}
	if !p.match(token.END) {
		return nil, p.errorf("expected END to close CASE")
	}
	return &ast.CaseExpr{ast.ExprBase{Pos: pos}, whens, elseExpr}, nil
}

func (p *ExprParser) parseArrayLit() (ast.Expr, error) {
	pos := p.pos()
	p.advance() // ARRAY
	if !p.match(token.LBRACKET) {
		return nil, p.errorf("expected '[' after ARRAY")
	}
	var elems []ast.Expr
	if !p.check(token.RBRACKET) {
		for {
			e, err := p.parseAssign()
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	if !p.match(token.RBRACKET) {
		return nil, p.errorf("expected ']' to close ARRAY")
	}
	return &ast.ArrayLit{ast.ExprBase{Pos: pos}, elems}, nil
}

func (p *ExprParser) parseTimestampLit() (ast.Expr, error) {
	pos := p.pos()
	p.advance() // TIMESTAMP
	hasTZ := false
	if p.match(token.WITH) {
		if !p.match(token.TIME) {
			return nil, p.errorf("expected TIME after WITH in TIMESTAMP WITH TIME ZONE")
		}
		if !p.match(token.ZONE) {
			return nil, p.errorf("expected ZONE after WITH TIME")
		}
		hasTZ = true
	}
	if !p.check(token.STRING) {
		return nil, p.errorf("expected string literal after TIMESTAMP")
	}
	tok := p.advance()
	return &ast.TimestampLit{ast.ExprBase{Pos: pos}, tok.Lexeme, hasTZ, true}, nil
}

func (p *ExprParser) parseIntervalLit() (ast.Expr, error) {
	pos := p.pos()
	p.advance() // INTERVAL
	count, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	if !p.check(token.IDENT) {
		return nil, p.errorf("expected unit name after INTERVAL count")
	}
	unit := p.advance().Lexeme
	return &ast.IntervalLit{ast.ExprBase{Pos: pos}, count, strings.ToUpper(unit)}, nil
}

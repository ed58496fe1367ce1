package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/benchgen/tabgen/internal/ast"
	"github.com/benchgen/tabgen/internal/errs"
)

// ParseTemplate parses a whole template source (spec §4.3 "outer" grammar):
// an optional global-init block, followed by one or more CREATE TABLE
// statements, each optionally preceded by a derivation directive and
// carrying per-column {{ }}/* {{ }} */ expressions.
func ParseTemplate(src string) (*ast.Template, error) {
	tpl := &ast.Template{}

	pos := 0
	pos = skipLeadingTrivia(src, pos)

	// Global init: any {{ }} blocks before the first CREATE TABLE.
	var globalExprs []ast.Expr
	for {
		idx := findCreateTableKeyword(src, pos)
		mStart, mEnd, bodyStart, bodyEnd, found := findMarker(src, pos)
		if !found || (idx >= 0 && mStart > idx) {
			break
		}
		line, col := lineCol(src, bodyStart)
		e, err := ParseExpr(src[bodyStart:bodyEnd], bodyStart, line, col)
		if err != nil {
			return nil, err
		}
		globalExprs = append(globalExprs, e)
		pos = mEnd
	}
	if len(globalExprs) == 1 {
		tpl.GlobalInit = globalExprs[0]
	} else if len(globalExprs) > 1 {
		tpl.GlobalInit = &ast.SeqExpr{Exprs: globalExprs}
	}

	var pendingDerivation *ast.Derivation
	declOrder := 0
	for {
		idx := findCreateTableKeyword(src, pos)
		if idx < 0 {
			break
		}
		// Scan for a derivation directive between pos and idx: the last
		// marker block in that gap, if it parses as a "for each row of"
		// directive, attaches to the next table.
		for {
			mStart, mEnd, bodyStart, bodyEnd, found := findMarker(src, pos)
			if !found || mStart > idx {
				break
			}
			body := src[bodyStart:bodyEnd]
			if deriv, ok := parseDerivationDirective(body, bodyStart, src); ok {
				pendingDerivation = deriv
			}
			pos = mEnd
		}

		table, next, err := parseCreateTable(src, idx, declOrder)
		if err != nil {
			return nil, err
		}
		table.Derivation = pendingDerivation
		pendingDerivation = nil
		declOrder++
		tpl.Tables = append(tpl.Tables, table)
		pos = next
	}

	if len(tpl.Tables) == 0 {
		return nil, &errs.SyntaxError{Message: "template contains no CREATE TABLE statements"}
	}
	return tpl, nil
}

func skipLeadingTrivia(src string, pos int) int { return pos }

func lineCol(src string, offset int) (line, col int) {
	line, col = 1, 0
	for i := 0; i < offset && i < len(src); i++ {
		if src[i] == '\n' {
			line++
			col = 0
		} else {
			col++
		}
	}
	return
}

var createTableRe = regexp.MustCompile(`(?is)CREATE\s+TABLE\s+(IF\s+NOT\s+EXISTS\s+)?`)

func findCreateTableKeyword(src string, from int) int {
	if from > len(src) {
		return -1
	}
	loc := createTableRe.FindStringIndex(src[from:])
	if loc == nil {
		return -1
	}
	return from + loc[0]
}

// findMarker locates the next {{ ... }} or /*{{ ... }}*/ block at or after
// from, returning the overall span and the inner expression-body span.
func findMarker(src string, from int) (start, end, bodyStart, bodyEnd int, ok bool) {
	i := strings.Index(src[from:], "{{")
	if i < 0 {
		return 0, 0, 0, 0, false
	}
	start = from + i
	commentWrapped := start >= 2 && src[start-2:start] == "/*"
	if commentWrapped {
		start -= 2
	}
	bodyStart = start + 2
	if commentWrapped {
		bodyStart = start + 4
	}
	closer := "}}"
	if commentWrapped {
		closer = "}}*/"
	}
	j := strings.Index(src[bodyStart:], closer)
	if j < 0 {
		return 0, 0, 0, 0, false
	}
	bodyEnd = bodyStart + j
	end = bodyEnd + len(closer)
	return start, end, bodyStart, bodyEnd, true
}

var derivationRe = regexp.MustCompile(`(?is)^\s*for\s+each\s+row\s+of\s+([A-Za-z_][A-Za-z0-9_.]*)\s+generate\s+(.+?)\s+rows\s+of\s+([A-Za-z_][A-Za-z0-9_.]*)\s*$`)

func parseDerivationDirective(body string, bodyOffset int, fullSrc string) (*ast.Derivation, bool) {
	m := derivationRe.FindStringSubmatchIndex(body)
	if m == nil {
		return nil, false
	}
	parent := body[m[2]:m[3]]
	countText := body[m[4]:m[5]]
	countOffset := bodyOffset + m[4]
	line, col := lineCol(fullSrc, countOffset)
	countExpr, err := ParseExpr(countText, countOffset, line, col)
	if err != nil {
		return nil, false
	}
	return &ast.Derivation{Parent: parent, CountExpr: countExpr}, true
}

var identRe = regexp.MustCompile(`^\s*("(?:[^"]|"")+"|` + "`[^`]+`" + `|\[[^\]]+\]|[A-Za-z_][A-Za-z0-9_.]*)`)

func unquoteIdent(s string) string {
	if len(s) >= 2 {
		switch {
		case s[0] == '"' && s[len(s)-1] == '"':
			return strings.ReplaceAll(s[1:len(s)-1], `""`, `"`)
		case s[0] == '`' && s[len(s)-1] == '`':
			return s[1 : len(s)-1]
		case s[0] == '[' && s[len(s)-1] == ']':
			return s[1 : len(s)-1]
		}
	}
	return s
}

// parseCreateTable parses one CREATE TABLE statement starting at idx
// (pointing at the "CREATE" keyword), returning the table descriptor and
// the offset just past the end of the statement (past the ';' if present).
func parseCreateTable(src string, idx int, declOrder int) (*ast.Table, int, error) {
	kw := createTableRe.FindStringIndex(src[idx:])
	if kw == nil {
		return nil, 0, fmt.Errorf("internal error: CREATE TABLE not found at %d", idx)
	}
	p := idx + kw[1]
	nameMatch := identRe.FindStringIndex(src[p:])
	if nameMatch == nil {
		line, col := lineCol(src, p)
		return nil, 0, &errs.SyntaxError{Span: errs.Span{Offset: p, Line: line, Col: col}, Message: "expected table name after CREATE TABLE"}
	}
	name := unquoteIdent(strings.TrimSpace(src[p+nameMatch[0] : p+nameMatch[1]]))
	p += nameMatch[1]

	lparen := strings.IndexByte(src[p:], '(')
	if lparen < 0 {
		line, col := lineCol(src, p)
		return nil, 0, &errs.SyntaxError{Span: errs.Span{Offset: p, Line: line, Col: col}, Message: "expected '(' after table name"}
	}
	bodyStart := p + lparen + 1

	bodyEnd, err := matchParen(src, bodyStart-1)
	if err != nil {
		return nil, 0, err
	}

	var schema strings.Builder
	schema.WriteString(src[idx : bodyStart])

	columns, colText, err := parseColumnDefs(src, bodyStart, bodyEnd)
	if err != nil {
		return nil, 0, err
	}
	schema.WriteString(colText)
	schema.WriteString(")")

	end := bodyEnd + 1
	// consume trailing ';' if present (allowing whitespace)
	j := end
	for j < len(src) && (src[j] == ' ' || src[j] == '\t' || src[j] == '\r' || src[j] == '\n') {
		j++
	}
	if j < len(src) && src[j] == ';' {
		end = j + 1
	}
	schema.WriteString(";")

	return &ast.Table{Name: name, SchemaText: schema.String(), Columns: columns, DeclOrder: declOrder}, end, nil
}

// matchParen returns the index of the ')' matching the '(' at openIdx,
// skipping over nested parens and single-quoted string literals. {{ }}
// marker bodies get no special treatment: their parens count like any other.
func matchParen(src string, openIdx int) (int, error) {
	depth := 0
	i := openIdx
	for i < len(src) {
		switch src[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i, nil
			}
		case '\'':
			i++
			for i < len(src) {
				if src[i] == '\'' {
					if i+1 < len(src) && src[i+1] == '\'' {
						i += 2
						continue
					}
					break
				}
				i++
			}
		}
		i++
	}
	return 0, &errs.SyntaxError{Message: "unterminated '(' in CREATE TABLE"}
}

// parseColumnDefs splits the table body (between the outer parens) into
// column definitions on top-level commas, excises {{ }}/* {{ }} */ markers,
// and attaches the excised expression (if any) to each resulting column.
func parseColumnDefs(src string, start, end int) ([]*ast.Column, string, error) {
	var cols []*ast.Column
	var out strings.Builder

	segStart := start
	depth := 0
	i := start
	flush := func(segEnd int) error {
		segment := src[segStart:segEnd]
		col, cleaned, err := parseOneColumnDef(src, segment, segStart)
		if err != nil {
			return err
		}
		if col != nil {
			cols = append(cols, col)
		}
		out.WriteString(cleaned)
		return nil
	}

	for i < end {
		switch src[i] {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case '\'':
			i++
			for i < end {
				if src[i] == '\'' {
					if i+1 < end && src[i+1] == '\'' {
						i += 2
						continue
					}
					break
				}
				i++
			}
		case ',':
			if depth == 0 {
				if err := flush(i); err != nil {
					return nil, "", err
				}
				out.WriteString(",")
				segStart = i + 1
			}
		}
		i++
	}
	if err := flush(end); err != nil {
		return nil, "", err
	}
	return cols, out.String(), nil
}

// parseOneColumnDef extracts the column name and optional {{ }} expression
// from one comma-delimited column-definition segment, returning the
// segment text with the marker excised (for schema emission) and the
// Column node (nil if this segment is a table-level constraint, not a
// column — detected by a leading keyword like PRIMARY/FOREIGN/CHECK/UNIQUE).
func parseOneColumnDef(fullSrc, segment string, segOffset int) (*ast.Column, string, error) {
	m := identRe.FindStringIndex(segment)
	if m == nil {
		return nil, segment, nil
	}
	name := unquoteIdent(strings.TrimSpace(segment[m[0]:m[1]]))
	upperName := strings.ToUpper(name)
	switch upperName {
	case "PRIMARY", "FOREIGN", "UNIQUE", "CHECK", "CONSTRAINT":
		return nil, segment, nil
	}

	mStart, mEnd, bodyStart, bodyEnd, found := findMarker(segment, 0)
	if !found {
		return &ast.Column{Name: name}, segment, nil
	}
	exprSrc := segment[bodyStart:bodyEnd]
	absOffset := segOffset + bodyStart
	line, col := lineCol(fullSrc, absOffset)
	e, err := ParseExpr(exprSrc, absOffset, line, col)
	if err != nil {
		return nil, "", err
	}
	cleaned := segment[:mStart] + segment[mEnd:]
	return &ast.Column{Name: name, Expr: e}, cleaned, nil
}

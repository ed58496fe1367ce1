package parser

import (
	"strings"
	"testing"

	"github.com/benchgen/tabgen/internal/ast"
)

func TestParseSimpleTemplate(t *testing.T) {
	src := `
{{ @base := 1000 }}
CREATE TABLE customers (
  id INT PRIMARY KEY {{ rownum }},
  name TEXT {{ rand.uuid() }},
  balance DECIMAL(10,2) {{ rand.uniform(0, 100) + @base }}
);
`
	tpl, err := ParseTemplate(src)
	if err != nil {
		t.Fatalf("ParseTemplate: %v", err)
	}
	if tpl.GlobalInit == nil {
		t.Fatalf("expected global init to be captured")
	}
	if len(tpl.Tables) != 1 {
		t.Fatalf("expected 1 table, got %d", len(tpl.Tables))
	}
	tbl := tpl.Tables[0]
	if tbl.Name != "customers" {
		t.Fatalf("expected table name customers, got %q", tbl.Name)
	}
	if len(tbl.Columns) != 3 {
		t.Fatalf("expected 3 columns, got %d: %#v", len(tbl.Columns), tbl.Columns)
	}
	for _, c := range tbl.Columns {
		if c.Expr == nil {
			t.Fatalf("column %s: expected non-nil expr", c.Name)
		}
	}
	if strings.Contains(tbl.SchemaText, "{{") {
		t.Fatalf("schema text still contains marker: %q", tbl.SchemaText)
	}
}

func TestParseDerivedTable(t *testing.T) {
	src := `
CREATE TABLE orders (
  id INT {{ rownum }}
);
{{ for each row of orders generate rand.range(1, 5) rows of order_items }}
CREATE TABLE order_items (
  order_id INT {{ rownum }},
  line_no INT {{ subrownum }}
);
`
	tpl, err := ParseTemplate(src)
	if err != nil {
		t.Fatalf("ParseTemplate: %v", err)
	}
	if len(tpl.Tables) != 2 {
		t.Fatalf("expected 2 tables, got %d", len(tpl.Tables))
	}
	child := tpl.Tables[1]
	if child.Name != "order_items" {
		t.Fatalf("expected order_items, got %q", child.Name)
	}
	if child.Derivation == nil || child.Derivation.Parent != "orders" {
		t.Fatalf("expected derivation from orders, got %#v", child.Derivation)
	}
	if _, ok := child.Derivation.CountExpr.(*ast.CallExpr); !ok {
		t.Fatalf("expected count expr to be a call, got %#v", child.Derivation.CountExpr)
	}
}

func TestParseColumnWithoutExpr(t *testing.T) {
	src := `CREATE TABLE t (id INT, name TEXT {{ rand.uuid() }});`
	tpl, err := ParseTemplate(src)
	if err != nil {
		t.Fatalf("ParseTemplate: %v", err)
	}
	cols := tpl.Tables[0].Columns
	if len(cols) != 2 {
		t.Fatalf("expected 2 columns, got %d", len(cols))
	}
	if cols[0].Expr != nil {
		t.Fatalf("expected nil expr for plain column, got %#v", cols[0].Expr)
	}
	if cols[1].Expr == nil {
		t.Fatalf("expected non-nil expr for generated column")
	}
}

func TestCommentWrappedMarker(t *testing.T) {
	src := `CREATE TABLE t (id INT /*{{ rownum }}*/);`
	tpl, err := ParseTemplate(src)
	if err != nil {
		t.Fatalf("ParseTemplate: %v", err)
	}
	if tpl.Tables[0].Columns[0].Expr == nil {
		t.Fatalf("expected comment-wrapped marker to be parsed")
	}
}

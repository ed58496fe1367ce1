// Package template holds the compiled form of a whole template (component
// H): the table/column list, the global init plan, and derived-table
// dependencies, ready for the scheduler to drive row by row. internal/compile
// populates a Model; internal/schedule and cmd/tabgen consume it.
package template

import "github.com/benchgen/tabgen/internal/plan"

// Model is one fully compiled template.
type Model struct {
	GlobalInit plan.Node // nil if the template has no leading global block
	SlotCount  int
	SlotNames  []string // slot index -> @name, for diagnostics
	Roots      []*TableNode // top-level tables, in declaration order
}

// TableNode is one table: either top-level (CountExpr nil) or derived from
// a parent (CountExpr evaluates the parent row's sub-row count).
type TableNode struct {
	Name        string
	SchemaText  string
	ColumnNames []string    // one per column, in declared order
	Columns     []plan.Node // one per column, in declared order
	CountExpr   plan.Node   // nil for top-level tables
	Children    []*TableNode // derived tables, in declaration order
}

// Flatten returns every TableNode reachable from roots, in depth-first
// declaration order — the order files are enumerated for `tabgen check` and for
// building the per-table sink set.
func Flatten(roots []*TableNode) []*TableNode {
	var out []*TableNode
	var walk func(*TableNode)
	walk = func(n *TableNode) {
		out = append(out, n)
		for _, c := range n.Children {
			walk(c)
		}
	}
	for _, r := range roots {
		walk(r)
	}
	return out
}

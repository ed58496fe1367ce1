// Package compile lowers the AST (internal/ast) produced by internal/parser
// into the compiled plan (internal/plan) and template model (internal/
// template) that internal/eval and internal/schedule drive, per spec §4.4:
// slot assignment for `@name` variables, constant folding of literals and
// literal-only TIMESTAMP/INTERVAL forms, and resolution of function
// identifiers against the builtin registry with arity checking. Grounded
// on the teacher's expr-to-VDBE lowering pass
// (core/sqlite/internal/expr/compile.go), adapted from a bytecode target to
// a tree-walking plan (spec §4.4 permits either).
package compile

import (
	"encoding/hex"
	"fmt"
	"math"
	"strconv"

	"github.com/benchgen/tabgen/internal/ast"
	"github.com/benchgen/tabgen/internal/errs"
	"github.com/benchgen/tabgen/internal/funcs"
	"github.com/benchgen/tabgen/internal/plan"
	"github.com/benchgen/tabgen/internal/template"
	"github.com/benchgen/tabgen/internal/token"
	"github.com/benchgen/tabgen/internal/value"
)

type compiler struct {
	reg   *funcs.Registry
	slots map[string]int
	order []string
}

// Compile lowers a parsed Template into a Model. Variable slots are shared
// across the whole template — the global init block and every table's
// columns and derivation-count expressions — per §3.5: "Per-worker state is
// a flat vector of Values indexed by slot", not one vector per table group.
func Compile(tmpl *ast.Template, reg *funcs.Registry) (*template.Model, error) {
	c := &compiler{reg: reg, slots: map[string]int{}}

	var globalInit plan.Node
	if tmpl.GlobalInit != nil {
		n, err := c.compileExpr(tmpl.GlobalInit)
		if err != nil {
			return nil, err
		}
		globalInit = n
	}

	byName := make(map[string]*ast.Table, len(tmpl.Tables))
	for _, t := range tmpl.Tables {
		if _, dup := byName[t.Name]; dup {
			return nil, fmt.Errorf("duplicate table name %q", t.Name)
		}
		byName[t.Name] = t
	}

	childrenOf := make(map[string][]*ast.Table)
	var roots []*ast.Table
	for _, t := range tmpl.Tables {
		if t.Derivation == nil {
			roots = append(roots, t)
			continue
		}
		parent := t.Derivation.Parent
		if _, ok := byName[parent]; !ok {
			return nil, fmt.Errorf("table %q derives from unknown table %q", t.Name, parent)
		}
		childrenOf[parent] = append(childrenOf[parent], t)
	}

	model := &template.Model{GlobalInit: globalInit}
	for _, r := range roots {
		node, err := c.buildTable(r, childrenOf, map[string]bool{})
		if err != nil {
			return nil, err
		}
		model.Roots = append(model.Roots, node)
	}
	model.SlotCount = len(c.order)
	model.SlotNames = c.order
	return model, nil
}

func (c *compiler) buildTable(t *ast.Table, childrenOf map[string][]*ast.Table, ancestry map[string]bool) (*template.TableNode, error) {
	if ancestry[t.Name] {
		return nil, fmt.Errorf("derivation cycle involving table %q", t.Name)
	}
	nested := make(map[string]bool, len(ancestry)+1)
	for k := range ancestry {
		nested[k] = true
	}
	nested[t.Name] = true

	node := &template.TableNode{Name: t.Name, SchemaText: t.SchemaText}
	for _, col := range t.Columns {
		node.ColumnNames = append(node.ColumnNames, col.Name)
		if col.Expr == nil {
			node.Columns = append(node.Columns, plan.NewConst(ast.Pos{}, value.Null))
			continue
		}
		n, err := c.compileExpr(col.Expr)
		if err != nil {
			return nil, err
		}
		node.Columns = append(node.Columns, n)
	}
	if t.Derivation != nil {
		n, err := c.compileExpr(t.Derivation.CountExpr)
		if err != nil {
			return nil, err
		}
		node.CountExpr = n
	}
	for _, child := range childrenOf[t.Name] {
		childNode, err := c.buildTable(child, childrenOf, nested)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, childNode)
	}
	return node, nil
}

func (c *compiler) slot(name string) int {
	if i, ok := c.slots[name]; ok {
		return i
	}
	i := len(c.order)
	c.slots[name] = i
	c.order = append(c.order, name)
	return i
}

func (c *compiler) compileExpr(e ast.Expr) (plan.Node, error) {
	switch n := e.(type) {
	case *ast.IntLit:
		v, err := parseIntLit(n.Text, n)
		if err != nil {
			return nil, err
		}
		return plan.NewConst(n.At(), v), nil

	case *ast.FloatLit:
		f, err := strconv.ParseFloat(n.Text, 64)
		if err != nil {
			return nil, &errs.SyntaxError{Span: spanOf(n), Message: fmt.Sprintf("invalid float literal %q", n.Text)}
		}
		return plan.NewConst(n.At(), value.Float(f)), nil

	case *ast.StringLit:
		return plan.NewConst(n.At(), value.Str(n.Value)), nil

	case *ast.HexBlobLit:
		s := n.Hex
		if len(s)%2 == 1 {
			s = "0" + s
		}
		b, err := hex.DecodeString(s)
		if err != nil {
			return nil, &errs.SyntaxError{Span: spanOf(n), Message: fmt.Sprintf("invalid hex blob literal X'%s'", n.Hex)}
		}
		return plan.NewConst(n.At(), value.Bytes(b)), nil

	case *ast.NullLit:
		return plan.NewConst(n.At(), value.Null), nil

	case *ast.VarRef:
		return &plan.Var{Base: plan.Base{Pos: n.At()}, Slot: c.slot(n.Name), Name: n.Name}, nil

	case *ast.RowNumRef:
		return &plan.RowNum{Base: plan.Base{Pos: n.At()}}, nil

	case *ast.SubRowNumRef:
		return &plan.SubRowNum{Base: plan.Base{Pos: n.At()}}, nil

	case *ast.CurrentTimestampRef:
		return &plan.CurrentTimestamp{Base: plan.Base{Pos: n.At()}}, nil

	case *ast.UnaryExpr:
		operand, err := c.compileExpr(n.Operand)
		if err != nil {
			return nil, err
		}
		return &plan.Unary{Base: plan.Base{Pos: n.At()}, Op: n.Op, Operand: operand}, nil

	case *ast.BinaryExpr:
		left, err := c.compileExpr(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := c.compileExpr(n.Right)
		if err != nil {
			return nil, err
		}
		// Fold +, -, * over two numeric constants; anything that would be an
		// error is left for the evaluator to report.
		lc, lok := left.(*plan.Const)
		rc, rok := right.(*plan.Const)
		if lok && rok && !value.InvolvesTemporal(lc.Value, rc.Value) {
			foldable := map[token.Type]byte{token.PLUS: '+', token.MINUS: '-', token.STAR: '*'}
			if op, ok := foldable[n.Op]; ok {
				if v, ferr := value.Arith(op, lc.Value, rc.Value); ferr == nil {
					return plan.NewConst(n.At(), v), nil
				}
			}
		}
		return &plan.Binary{Base: plan.Base{Pos: n.At()}, Op: n.Op, IsNot: n.IsNot, Left: left, Right: right}, nil

	case *ast.CallExpr:
		fn, ok := c.reg.Lookup(n.Name)
		if !ok {
			return nil, &errs.SyntaxError{Span: spanOf(n), Message: fmt.Sprintf("unknown function %q", n.Name)}
		}
		if len(n.Args) < fn.MinArity() || (fn.MaxArity() >= 0 && len(n.Args) > fn.MaxArity()) {
			return nil, &errs.SyntaxError{Span: spanOf(n), Message: fmt.Sprintf("%s(): wrong number of arguments (got %d)", n.Name, len(n.Args))}
		}
		args := make([]plan.Node, len(n.Args))
		for i, a := range n.Args {
			an, err := c.compileExpr(a)
			if err != nil {
				return nil, err
			}
			args[i] = an
		}
		return &plan.Call{Base: plan.Base{Pos: n.At()}, Name: n.Name, Fn: fn, Args: args}, nil

	case *ast.SubscriptExpr:
		arr, err := c.compileExpr(n.Array)
		if err != nil {
			return nil, err
		}
		idx, err := c.compileExpr(n.Index)
		if err != nil {
			return nil, err
		}
		return &plan.Subscript{Base: plan.Base{Pos: n.At()}, Array: arr, Index: idx}, nil

	case *ast.ArrayLit:
		elems := make([]plan.Node, len(n.Elems))
		for i, el := range n.Elems {
			en, err := c.compileExpr(el)
			if err != nil {
				return nil, err
			}
			elems[i] = en
		}
		return &plan.Array{Base: plan.Base{Pos: n.At()}, Elems: elems}, nil

	case *ast.CaseExpr:
		whens := make([]plan.When, len(n.Whens))
		for i, w := range n.Whens {
			cond, err := c.compileExpr(w.Cond)
			if err != nil {
				return nil, err
			}
			then, err := c.compileExpr(w.Then)
			if err != nil {
				return nil, err
			}
			whens[i] = plan.When{Cond: cond, Then: then}
		}
		var elseNode plan.Node
		if n.Else != nil {
			en, err := c.compileExpr(n.Else)
			if err != nil {
				return nil, err
			}
			elseNode = en
		}
		return &plan.Case{Base: plan.Base{Pos: n.At()}, Whens: whens, Else: elseNode}, nil

	case *ast.TimestampLit:
		ts, err := value.ParseTimestamp(n.Text, n.HasTZ)
		if err != nil {
			return nil, &errs.InvalidTimestampError{Span: spanOf(n), Message: err.Error()}
		}
		return plan.NewConst(n.At(), value.TimestampValue(ts)), nil

	case *ast.IntervalLit:
		count, err := c.compileExpr(n.Count)
		if err != nil {
			return nil, err
		}
		if cst, ok := count.(*plan.Const); ok {
			if amt, terr := value.ToInt64Truncate(cst.Value); terr == nil {
				if iv, ok2 := value.IntervalFromUnit(amt, n.Unit); ok2 {
					return plan.NewConst(n.At(), value.IntervalValue(iv)), nil
				}
			}
			return nil, &errs.SyntaxError{Span: spanOf(n), Message: fmt.Sprintf("unknown interval unit %q", n.Unit)}
		}
		return &plan.Interval{Base: plan.Base{Pos: n.At()}, Count: count, Unit: n.Unit}, nil

	case *ast.AssignExpr:
		val, err := c.compileExpr(n.Value)
		if err != nil {
			return nil, err
		}
		return &plan.Assign{Base: plan.Base{Pos: n.At()}, Slot: c.slot(n.Name), Name: n.Name, Value: val}, nil

	case *ast.SeqExpr:
		nodes := make([]plan.Node, len(n.Exprs))
		for i, sub := range n.Exprs {
			sn, err := c.compileExpr(sub)
			if err != nil {
				return nil, err
			}
			nodes[i] = sn
		}
		return &plan.Seq{Base: plan.Base{Pos: n.At()}, Nodes: nodes}, nil
	}
	return nil, fmt.Errorf("compile: unhandled expression node %T", e)
}

func spanOf(e ast.Expr) errs.Span {
	p := e.At()
	return errs.Span{Offset: p.Offset, Line: p.Line, Col: p.Col}
}

// parseIntLit parses a decimal or 0x-prefixed literal into Int (when it
// fits signed 64-bit range) or Uint (up to 2^64-1, per spec §3.2), and
// reports ValueRangeError beyond that.
func parseIntLit(text string, e ast.Expr) (value.Value, error) {
	s := text
	base := 10
	if len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		base = 16
		s = s[2:]
	}
	u, err := strconv.ParseUint(s, base, 64)
	if err != nil {
		return value.Null, &errs.ValueRangeError{Span: spanOf(e), Message: fmt.Sprintf("integer literal %q exceeds 2^64-1", text)}
	}
	if u <= uint64(math.MaxInt64) {
		return value.Int(int64(u)), nil
	}
	return value.Uint(u), nil
}

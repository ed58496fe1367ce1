// Package plan is the compiled form the compiler (component D) produces
// from an ast.Expr: a tree of resolved nodes where `@name` variables carry
// dense slot indices and function identifiers carry resolved function
// objects, ready for direct evaluation by internal/eval. A tree walker was
// chosen over a bytecode/stack-machine plan (spec §4.4 permits either) to
// keep the evaluator close to the teacher's vdbe-free expression evaluator
// style (internal/sql_vdbe is the bytecode path the teacher reserves for
// full SQL; this system's expression language is small enough that a tree
// walk keeps the short-circuit rules easy to state directly in code).
package plan

import (
	"time"

	"github.com/benchgen/tabgen/internal/ast"
	"github.com/benchgen/tabgen/internal/prng"
	"github.com/benchgen/tabgen/internal/token"
	"github.com/benchgen/tabgen/internal/value"
)

// Ctx is the per-row runtime context threaded through a Func.Call. It lives
// in this package (rather than internal/eval) so both internal/eval and
// internal/funcs can depend on it without an import cycle between them.
type Ctx struct {
	Slots     []value.Value
	RowNum    int64
	SubRowNum int64
	Now       time.Time
	Rng       *prng.State
}

// Node is a compiled expression node.
type Node interface {
	planNode()
	At() ast.Pos
}

type Base struct{ Pos ast.Pos }

func (Base) planNode()     {}
func (b Base) At() ast.Pos { return b.Pos }

// Const is a compile-time-folded literal value.
type Const struct {
	Base
	Value value.Value
}

// NewConst builds a Const carrying its source position, for nodes the
// compiler folds directly from a literal (the exported Base type lets
// internal/compile set Pos without needing a same-package literal).
func NewConst(pos ast.Pos, v value.Value) *Const {
	return &Const{Base: Base{Pos: pos}, Value: v}
}

// Var reads slot Slot from the current slot vector.
type Var struct {
	Base
	Slot int
	Name string // retained for error messages
}

// RowNum, SubRowNum, and CurrentTimestamp read per-row/per-run implicit state.
type RowNum struct{ Base }
type SubRowNum struct{ Base }
type CurrentTimestamp struct{ Base }

// Unary is a prefix operator: -, +(folded away), ~, NOT.
type Unary struct {
	Base
	Op      token.Type
	Operand Node
}

// Binary is an infix operator.
type Binary struct {
	Base
	Op          token.Type
	IsNot       bool
	Left, Right Node
}

// Call is a resolved function call.
type Call struct {
	Base
	Name string
	Fn   Func
	Args []Node
}

// Func is the resolved-function contract the evaluator invokes; internal/
// funcs.Function satisfies it.
type Func interface {
	Name() string
	MinArity() int
	MaxArity() int // -1 for variadic
	// EvalAll is true for functions (coalesce) whose short-circuit rule is
	// "evaluate every argument regardless of earlier results."
	EvalAll() bool
	Call(ctx *Ctx, args []value.Value) (value.Value, error)
}

// Subscript is arr[idx].
type Subscript struct {
	Base
	Array Node
	Index Node
}

// Array is ARRAY[...].
type Array struct {
	Base
	Elems []Node
}

// When is one WHEN cond THEN then clause of a Case.
type When struct {
	Cond Node
	Then Node
}

// Case is CASE WHEN ... THEN ... [ELSE ...] END.
type Case struct {
	Base
	Whens []When
	Else  Node // nil => NULL
}

// Interval is INTERVAL count UNIT, where count may be dynamic.
type Interval struct {
	Base
	Count Node
	Unit  string
}

// Assign is @name := value; evaluates to the assigned value as a side effect.
type Assign struct {
	Base
	Slot  int
	Name  string
	Value Node
}

// Seq is e1; e2; ...; en, evaluated in order, yielding the last.
type Seq struct {
	Base
	Nodes []Node
}


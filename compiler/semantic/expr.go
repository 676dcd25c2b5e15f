package semantic

import (
	"github.com/keeldb/keel/compiler/ast"
	"github.com/keeldb/keel/sqltype"
)

// Expr is a type-resolved expression.  Every node carries a concrete
// result type; validation fails rather than produce an untyped node.
type Expr interface {
	Type() sqltype.ID
	exprNode()
}

type (
	// ColumnRef refers to a field of the statement's table by position.
	// After conversion the index is relative to the enclosing scan's
	// output layout.
	ColumnRef struct {
		Index    int
		Name     string
		Typ      sqltype.ID
		Nullable bool
	}
	Literal struct {
		Typ  sqltype.ID
		Text string
	}
	// Param is a dynamic parameter placeholder.  Its value arrives at
	// execution time, so it validates as an opaque object.
	Param struct {
		Index int
	}
	Call struct {
		Kind ast.Kind
		Name string
		Args []Expr
		Typ  sqltype.ID
	}
)

func (c *ColumnRef) Type() sqltype.ID { return c.Typ }
func (l *Literal) Type() sqltype.ID   { return l.Typ }
func (*Param) Type() sqltype.ID       { return sqltype.Object }
func (c *Call) Type() sqltype.ID      { return c.Typ }

func (*ColumnRef) exprNode() {}
func (*Literal) exprNode()   {}
func (*Param) exprNode()     {}
func (*Call) exprNode()      {}

// Column is one output column of a validated statement.
type Column struct {
	Name string
	Expr Expr
}

// Statement is the validated, type-resolved form of a select.
type Statement struct {
	Table   *Source
	Columns []Column
	Where   Expr
}

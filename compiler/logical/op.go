// Package logical declares the relational operators a compiled statement
// lowers to.  A plan is a Seq: a linear pipeline whose first op is always
// the scan.
package logical

import (
	"github.com/keeldb/keel/catalog"
	"github.com/keeldb/keel/compiler/semantic"
)

type Op interface {
	opNode()
}

type (
	// TableScan reads the table's rows.  Columns selects and orders the
	// table fields appearing in the scan output; downstream column
	// references index into that layout.  Filter, when set by
	// optimization, is evaluated during the scan.
	TableScan struct {
		Table   *catalog.Table
		Columns []int
		Filter  semantic.Expr
	}
	Filter struct {
		Expr semantic.Expr
	}
	Project struct {
		Exprs []semantic.Expr
		Names []string
	}
	// Pass forwards its input unchanged.  Rewrite rules may leave one
	// behind; the cleanup rule removes them.
	Pass struct{}
)

func (*TableScan) opNode() {}
func (*Filter) opNode()    {}
func (*Project) opNode()   {}
func (*Pass) opNode()      {}

type Seq []Op

// Delete removes ops [from, to) from the sequence.
func (s *Seq) Delete(from, to int) {
	*s = append((*s)[:from], (*s)[to:]...)
}

// Copy returns a shallow copy of the sequence; ops are shared.
func (s Seq) Copy() Seq {
	return append(Seq(nil), s...)
}

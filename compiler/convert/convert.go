// Package convert lowers a validated statement to its initial logical
// plan.  The conversion options are fixed by the compiler: unused fields
// of the final projection are always trimmed, and sub-query expansion,
// explain wrapping, and scan inlining are never performed.
package convert

import (
	"fmt"

	"github.com/keeldb/keel/compiler/logical"
	"github.com/keeldb/keel/compiler/semantic"
)

// Config mirrors the four conversion options.  Only the combination
// produced by DefaultConfig is supported; the fields exist so the choices
// are explicit and auditable rather than implied.
type Config struct {
	TrimUnusedFields bool
	ExpandSubqueries bool
	WrapExplain      bool
	InlineTableScans bool
}

func DefaultConfig() Config {
	return Config{TrimUnusedFields: true}
}

// Error reports an internal invariant violation during conversion.  These
// indicate a bug in an earlier stage, not a user mistake.
type Error struct {
	Msg string
}

func (e *Error) Error() string { return e.Msg }

func errorf(format string, args ...any) error {
	return &Error{Msg: fmt.Sprintf(format, args...)}
}

// Convert builds the scan/filter/project pipeline for the statement.
func Convert(stmt *semantic.Statement, config Config) (logical.Seq, error) {
	if config.ExpandSubqueries {
		return nil, errorf("subquery expansion is not supported")
	}
	if config.WrapExplain {
		return nil, errorf("explain wrapping is not supported")
	}
	if config.InlineTableScans {
		return nil, errorf("table scan inlining is not supported")
	}
	table := stmt.Table.Table
	nfields := len(table.Fields())
	exprs := make([]semantic.Expr, 0, len(stmt.Columns))
	names := make([]string, 0, len(stmt.Columns))
	for _, col := range stmt.Columns {
		exprs = append(exprs, col.Expr)
		names = append(names, col.Name)
	}
	scanColumns := identity(nfields)
	where := stmt.Where
	if config.TrimUnusedFields {
		used := logical.UsedColumns(append(append([]semantic.Expr(nil), exprs...), where)...)
		remap := make(map[int]int, len(used))
		for i, col := range used {
			if col < 0 || col >= nfields {
				return nil, errorf("column index %d out of range for table %q", col, table.Name())
			}
			remap[col] = i
		}
		for i, e := range exprs {
			mapped, ok := logical.RemapColumns(e, remap)
			if !ok {
				return nil, errorf("untracked column reference in projection of %q", table.Name())
			}
			exprs[i] = mapped
		}
		if where != nil {
			mapped, ok := logical.RemapColumns(where, remap)
			if !ok {
				return nil, errorf("untracked column reference in filter of %q", table.Name())
			}
			where = mapped
		}
		scanColumns = used
	}
	seq := logical.Seq{&logical.TableScan{Table: table, Columns: scanColumns}}
	if where != nil {
		seq = append(seq, &logical.Filter{Expr: where})
	}
	seq = append(seq, &logical.Project{Exprs: exprs, Names: names})
	return seq, nil
}

func identity(n int) []int {
	indexes := make([]int, n)
	for i := range indexes {
		indexes[i] = i
	}
	return indexes
}

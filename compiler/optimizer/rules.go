package optimizer

import (
	"errors"

	"github.com/keeldb/keel/compiler/ast"
	"github.com/keeldb/keel/compiler/logical"
	"github.com/keeldb/keel/compiler/semantic"
	"github.com/keeldb/keel/sqltype"
)

// mergeFilters combines adjacent filter operators so that, e.g., a filter
// pair "a" then "b" becomes the single filter "a AND b".
func mergeFilters(seq logical.Seq) (logical.Seq, bool, error) {
	changed := false
	// Start at the next to last element and work toward the first.
	for i := len(seq) - 2; i >= 0; i-- {
		f1, ok := seq[i].(*logical.Filter)
		if !ok {
			continue
		}
		if f2, ok := seq[i+1].(*logical.Filter); ok {
			f1.Expr = and(f1.Expr, f2.Expr)
			seq.Delete(i+1, i+2)
			changed = true
		}
	}
	return seq, changed, nil
}

// pushFilterIntoScan moves a filter immediately following the scan into
// the scan itself so row rejection happens at the data source.  The
// filter's column references are already in scan-output coordinates, so
// no remapping is needed.
func pushFilterIntoScan(seq logical.Seq) (logical.Seq, bool, error) {
	if len(seq) < 2 {
		return seq, false, nil
	}
	scan, ok := seq[0].(*logical.TableScan)
	if !ok {
		return seq, false, errors.New("plan does not begin with a scan")
	}
	filter, ok := seq[1].(*logical.Filter)
	if !ok {
		return seq, false, nil
	}
	scan.Filter = and(scan.Filter, filter.Expr)
	seq.Delete(1, 2)
	return seq, true, nil
}

// pruneScanColumns narrows the scan to the columns the rest of the plan
// actually reads and renumbers every downstream reference into the
// narrowed layout.
func pruneScanColumns(seq logical.Seq) (logical.Seq, bool, error) {
	if len(seq) == 0 {
		return seq, false, nil
	}
	scan, ok := seq[0].(*logical.TableScan)
	if !ok {
		return seq, false, errors.New("plan does not begin with a scan")
	}
	var exprs []semantic.Expr
	exprs = append(exprs, scan.Filter)
	for _, op := range seq[1:] {
		switch op := op.(type) {
		case *logical.Filter:
			exprs = append(exprs, op.Expr)
		case *logical.Project:
			exprs = append(exprs, op.Exprs...)
		}
	}
	used := logical.UsedColumns(exprs...)
	if len(used) == len(scan.Columns) {
		return seq, false, nil
	}
	remap := make(map[int]int, len(used))
	columns := make([]int, len(used))
	for i, col := range used {
		if col >= len(scan.Columns) {
			return seq, false, errors.New("column reference beyond scan output")
		}
		remap[col] = i
		columns[i] = scan.Columns[col]
	}
	if scan.Filter != nil {
		mapped, ok := logical.RemapColumns(scan.Filter, remap)
		if !ok {
			return seq, false, errors.New("untracked column in scan filter")
		}
		scan.Filter = mapped
	}
	for _, op := range seq[1:] {
		switch op := op.(type) {
		case *logical.Filter:
			mapped, ok := logical.RemapColumns(op.Expr, remap)
			if !ok {
				return seq, false, errors.New("untracked column in filter")
			}
			op.Expr = mapped
		case *logical.Project:
			for i, e := range op.Exprs {
				mapped, ok := logical.RemapColumns(e, remap)
				if !ok {
					return seq, false, errors.New("untracked column in projection")
				}
				op.Exprs[i] = mapped
			}
		}
	}
	scan.Columns = columns
	return seq, true, nil
}

// removePass deletes pass-through operators left behind by other rules.
func removePass(seq logical.Seq) (logical.Seq, bool, error) {
	changed := false
	for i := 0; i < len(seq); i++ {
		if _, ok := seq[i].(*logical.Pass); ok {
			seq.Delete(i, i+1)
			i--
			changed = true
		}
	}
	return seq, changed, nil
}

func and(l, r semantic.Expr) semantic.Expr {
	if l == nil {
		return r
	}
	if r == nil {
		return l
	}
	return &semantic.Call{
		Kind: ast.KindAnd,
		Name: "AND",
		Args: []semantic.Expr{l, r},
		Typ:  sqltype.Boolean,
	}
}

package logical

import (
	"sort"

	"github.com/keeldb/keel/compiler/semantic"
)

// UsedColumns returns the sorted set of column indexes referenced by the
// given expressions, skipping nils.
func UsedColumns(exprs ...semantic.Expr) []int {
	seen := make(map[int]struct{})
	for _, e := range exprs {
		collectColumns(e, seen)
	}
	indexes := make([]int, 0, len(seen))
	for i := range seen {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)
	return indexes
}

func collectColumns(e semantic.Expr, seen map[int]struct{}) {
	switch e := e.(type) {
	case *semantic.ColumnRef:
		seen[e.Index] = struct{}{}
	case *semantic.Call:
		for _, arg := range e.Args {
			collectColumns(arg, seen)
		}
	}
}

// RemapColumns returns a copy of e with every column reference renumbered
// through remap.  The second result is false if e references a column
// absent from remap, which indicates an internal planning inconsistency.
func RemapColumns(e semantic.Expr, remap map[int]int) (semantic.Expr, bool) {
	switch e := e.(type) {
	case *semantic.ColumnRef:
		i, ok := remap[e.Index]
		if !ok {
			return nil, false
		}
		c := *e
		c.Index = i
		return &c, true
	case *semantic.Call:
		args := make([]semantic.Expr, len(e.Args))
		for k, arg := range e.Args {
			mapped, ok := RemapColumns(arg, remap)
			if !ok {
				return nil, false
			}
			args[k] = mapped
		}
		c := *e
		c.Args = args
		return &c, true
	case nil:
		return nil, true
	}
	return e, true
}

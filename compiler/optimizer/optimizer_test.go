package optimizer_test

import (
	"errors"
	"testing"

	"github.com/keeldb/keel/catalog"
	"github.com/keeldb/keel/compiler/ast"
	"github.com/keeldb/keel/compiler/logical"
	"github.com/keeldb/keel/compiler/optimizer"
	"github.com/keeldb/keel/compiler/semantic"
	"github.com/keeldb/keel/sqltype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTable() *catalog.Table {
	return catalog.New("public", "t",
		[]catalog.Field{
			{Name: "a", Type: sqltype.Int},
			{Name: "b", Type: sqltype.Varchar, Nullable: true},
			{Name: "c", Type: sqltype.Boolean, Nullable: true},
		},
		catalog.Statistics{},
		catalog.Descriptor{Format: "json"},
		catalog.Descriptor{Format: "json"})
}

func col(index int, name string, typ sqltype.ID) *semantic.ColumnRef {
	return &semantic.ColumnRef{Index: index, Name: name, Typ: typ}
}

func isTrue(arg semantic.Expr) *semantic.Call {
	return &semantic.Call{
		Kind: ast.KindIsTrue,
		Name: "IS TRUE",
		Args: []semantic.Expr{arg},
		Typ:  sqltype.Boolean,
	}
}

func scanAll() *logical.TableScan {
	return &logical.TableScan{Table: testTable(), Columns: []int{0, 1, 2}}
}

func TestOptimizePipeline(t *testing.T) {
	// Two filters over c, a projection of a.  Expect the filters merged
	// and pushed into the scan, and the scan narrowed to {a, c}.
	seq := logical.Seq{
		scanAll(),
		&logical.Filter{Expr: isTrue(col(2, "c", sqltype.Boolean))},
		&logical.Filter{Expr: isTrue(col(2, "c", sqltype.Boolean))},
		&logical.Project{Exprs: []semantic.Expr{col(0, "a", sqltype.Int)}, Names: []string{"a"}},
	}
	out, err := optimizer.New().Optimize(seq)
	require.NoError(t, err)
	require.Len(t, out, 2)

	scan := out[0].(*logical.TableScan)
	assert.Equal(t, []int{0, 2}, scan.Columns)
	require.NotNil(t, scan.Filter)
	and := scan.Filter.(*semantic.Call)
	require.Equal(t, ast.KindAnd, and.Kind)
	// Column c moved to scan output 1 after narrowing.
	left := and.Args[0].(*semantic.Call)
	assert.Equal(t, 1, left.Args[0].(*semantic.ColumnRef).Index)

	project := out[1].(*logical.Project)
	assert.Equal(t, 0, project.Exprs[0].(*semantic.ColumnRef).Index)
}

func TestOptimizeIsIdempotent(t *testing.T) {
	seq := logical.Seq{
		scanAll(),
		&logical.Filter{Expr: isTrue(col(2, "c", sqltype.Boolean))},
		&logical.Project{Exprs: []semantic.Expr{col(0, "a", sqltype.Int)}, Names: []string{"a"}},
	}
	out, err := optimizer.New().Optimize(seq)
	require.NoError(t, err)
	again, err := optimizer.New().Optimize(out.Copy())
	require.NoError(t, err)
	assert.Equal(t, out, again)
}

func TestMergeFilters(t *testing.T) {
	o := optimizer.NewWithRules(optimizer.DefaultRules()[:1])
	seq := logical.Seq{
		scanAll(),
		&logical.Filter{Expr: isTrue(col(0, "a", sqltype.Int))},
		&logical.Filter{Expr: isTrue(col(1, "b", sqltype.Varchar))},
		&logical.Filter{Expr: isTrue(col(2, "c", sqltype.Boolean))},
	}
	out, err := o.Optimize(seq)
	require.NoError(t, err)
	require.Len(t, out, 2)
	and := out[1].(*logical.Filter).Expr.(*semantic.Call)
	require.Equal(t, ast.KindAnd, and.Kind)
	assert.Equal(t, sqltype.Boolean, and.Type())
	first := and.Args[0].(*semantic.Call)
	assert.Equal(t, 0, first.Args[0].(*semantic.ColumnRef).Index)
	inner := and.Args[1].(*semantic.Call)
	assert.Equal(t, ast.KindAnd, inner.Kind)
}

func TestRemovePass(t *testing.T) {
	seq := logical.Seq{
		scanAll(),
		&logical.Pass{},
		&logical.Project{Exprs: []semantic.Expr{col(0, "a", sqltype.Int)}, Names: []string{"a"}},
		&logical.Pass{},
	}
	out, err := optimizer.New().Optimize(seq)
	require.NoError(t, err)
	require.Len(t, out, 2)
	for _, op := range out {
		_, isPass := op.(*logical.Pass)
		assert.False(t, isPass)
	}
}

func TestRuleErrorIsFatal(t *testing.T) {
	o := optimizer.NewWithRules([]optimizer.Rule{{
		Name: "broken",
		Apply: func(seq logical.Seq) (logical.Seq, bool, error) {
			return nil, false, errors.New("boom")
		},
	}})
	_, err := o.Optimize(logical.Seq{scanAll()})
	var optErr *optimizer.Error
	require.ErrorAs(t, err, &optErr)
	assert.Equal(t, "broken", optErr.Rule)
	assert.EqualError(t, err, "rule broken: boom")
}

// A rule that always reports a change can never converge; the pass cap
// turns that into an error instead of a hang.
func TestNonConvergenceIsAnError(t *testing.T) {
	o := optimizer.NewWithRules([]optimizer.Rule{{
		Name: "restless",
		Apply: func(seq logical.Seq) (logical.Seq, bool, error) {
			return seq, true, nil
		},
	}})
	_, err := o.Optimize(logical.Seq{scanAll()})
	var optErr *optimizer.Error
	require.ErrorAs(t, err, &optErr)
	assert.Contains(t, optErr.Msg, "did not converge")
}

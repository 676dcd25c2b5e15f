package convert_test

import (
	"testing"

	"github.com/keeldb/keel/catalog"
	"github.com/keeldb/keel/compiler/convert"
	"github.com/keeldb/keel/compiler/logical"
	"github.com/keeldb/keel/compiler/parser"
	"github.com/keeldb/keel/compiler/semantic"
	"github.com/keeldb/keel/sqltype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore() *catalog.Store {
	store := catalog.NewStore()
	store.Put(catalog.New("public", "t",
		[]catalog.Field{
			{Name: "a", Type: sqltype.Int},
			{Name: "b", Type: sqltype.Varchar, Nullable: true},
			{Name: "c", Type: sqltype.Double, Nullable: true},
			{Name: "d", Type: sqltype.Boolean, Nullable: true},
		},
		catalog.Statistics{},
		catalog.Descriptor{Format: "json"},
		catalog.Descriptor{Format: "json"}))
	return store
}

func convertQuery(t *testing.T, query string, config convert.Config) (logical.Seq, error) {
	t.Helper()
	parsed, err := parser.ParseStatement(query, parser.DefaultConfig())
	require.NoError(t, err)
	stmt, _, err := semantic.Analyze(parsed.Statement(), testStore())
	require.NoError(t, err)
	return convert.Convert(stmt, config)
}

func TestConvertShape(t *testing.T) {
	seq, err := convertQuery(t, "select a from t where d is true", convert.DefaultConfig())
	require.NoError(t, err)
	require.Len(t, seq, 3)
	_, ok := seq[0].(*logical.TableScan)
	require.True(t, ok)
	_, ok = seq[1].(*logical.Filter)
	require.True(t, ok)
	project, ok := seq[2].(*logical.Project)
	require.True(t, ok)
	assert.Equal(t, []string{"a"}, project.Names)
}

func TestConvertNoFilter(t *testing.T) {
	seq, err := convertQuery(t, "select a, b from t", convert.DefaultConfig())
	require.NoError(t, err)
	require.Len(t, seq, 2)
}

// With trimming on, the scan narrows to the referenced fields and
// downstream references are renumbered into the narrowed layout.
func TestConvertTrimsUnusedFields(t *testing.T) {
	seq, err := convertQuery(t, "select c from t where a = 1", convert.DefaultConfig())
	require.NoError(t, err)
	scan := seq[0].(*logical.TableScan)
	assert.Equal(t, []int{0, 2}, scan.Columns)

	filter := seq[1].(*logical.Filter)
	call := filter.Expr.(*semantic.Call)
	ref := call.Args[0].(*semantic.ColumnRef)
	assert.Equal(t, 0, ref.Index) // field "a" is scan output 0

	project := seq[2].(*logical.Project)
	out := project.Exprs[0].(*semantic.ColumnRef)
	assert.Equal(t, 1, out.Index) // field "c" is scan output 1
}

func TestConvertWithoutTrim(t *testing.T) {
	seq, err := convertQuery(t, "select c from t", convert.Config{})
	require.NoError(t, err)
	scan := seq[0].(*logical.TableScan)
	assert.Equal(t, []int{0, 1, 2, 3}, scan.Columns)
	project := seq[1].(*logical.Project)
	out := project.Exprs[0].(*semantic.ColumnRef)
	assert.Equal(t, 2, out.Index)
}

func TestConvertRejectsUnsupportedOptions(t *testing.T) {
	configs := []convert.Config{
		{TrimUnusedFields: true, ExpandSubqueries: true},
		{TrimUnusedFields: true, WrapExplain: true},
		{TrimUnusedFields: true, InlineTableScans: true},
	}
	for _, config := range configs {
		_, err := convertQuery(t, "select a from t", config)
		var convErr *convert.Error
		require.ErrorAs(t, err, &convErr)
	}
}

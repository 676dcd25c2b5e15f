package parser_test

import (
	"testing"

	"github.com/keeldb/keel/compiler/ast"
	"github.com/keeldb/keel/compiler/parser"
	"github.com/keeldb/keel/sqltype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, query string) *ast.Select {
	t.Helper()
	parsed, err := parser.ParseStatement(query, parser.DefaultConfig())
	require.NoError(t, err)
	sel := parsed.Select()
	require.NotNil(t, sel)
	return sel
}

func TestParseSelect(t *testing.T) {
	sel := parse(t, "select k, v from t where k = 1")
	require.Len(t, sel.Columns.Nodes, 2)
	id, ok := sel.From.(*ast.Identifier)
	require.True(t, ok)
	assert.Equal(t, []string{"t"}, id.Parts)
	where, ok := sel.Where.(*ast.Call)
	require.True(t, ok)
	assert.Equal(t, ast.KindEquals, where.Op.Kind)
}

func TestParseQualifiedTable(t *testing.T) {
	sel := parse(t, `select k from public.t`)
	id := sel.From.(*ast.Identifier)
	assert.Equal(t, []string{"public", "t"}, id.Parts)
}

func TestParseQuotedIdentPreservesCase(t *testing.T) {
	sel := parse(t, `select "Key" from t`)
	id := sel.Columns.Nodes[0].(*ast.Identifier)
	assert.Equal(t, []string{"Key"}, id.Parts)
}

func TestParseStringLiteralIsChar(t *testing.T) {
	sel := parse(t, "select k from t where v = 'a''b'")
	call := sel.Where.(*ast.Call)
	lit, ok := call.Args[1].(*ast.Literal)
	require.True(t, ok)
	assert.Equal(t, sqltype.Char, lit.Type)
	assert.Equal(t, "a'b", lit.Text)
}

func TestParseNumberLiterals(t *testing.T) {
	cases := []struct {
		text string
		typ  sqltype.ID
	}{
		{"1", sqltype.TinyInt},
		{"1000", sqltype.SmallInt},
		{"100000", sqltype.Int},
		{"3000000000", sqltype.BigInt},
		{"1.5", sqltype.Decimal},
		{"1e2", sqltype.Double},
		{"99999999999999999999", sqltype.Decimal},
	}
	for _, c := range cases {
		sel := parse(t, "select k from t where k = "+c.text)
		call := sel.Where.(*ast.Call)
		lit := call.Args[1].(*ast.Literal)
		assert.Equal(t, c.typ, lit.Type, "literal %s", c.text)
	}
}

func TestParseIsPredicates(t *testing.T) {
	cases := []struct {
		query string
		kind  ast.Kind
		name  string
	}{
		{"select k from t where flag is true", ast.KindIsTrue, "IS TRUE"},
		{"select k from t where flag is not true", ast.KindIsNotTrue, "IS NOT TRUE"},
		{"select k from t where flag is false", ast.KindIsFalse, "IS FALSE"},
		{"select k from t where flag is not false", ast.KindIsNotFalse, "IS NOT FALSE"},
		{"select k from t where flag is null", ast.KindIsNull, "IS NULL"},
		{"select k from t where flag is not null", ast.KindIsNotNull, "IS NOT NULL"},
	}
	for _, c := range cases {
		sel := parse(t, c.query)
		call := sel.Where.(*ast.Call)
		assert.Equal(t, c.kind, call.Op.Kind, c.query)
		assert.Equal(t, c.name, call.Op.Name, c.query)
	}
}

func TestParsePrecedence(t *testing.T) {
	// a or b and c parses as a or (b and c)
	sel := parse(t, "select k from t where a or b and c")
	or := sel.Where.(*ast.Call)
	require.Equal(t, ast.KindOr, or.Op.Kind)
	and := or.Args[1].(*ast.Call)
	assert.Equal(t, ast.KindAnd, and.Op.Kind)

	// 1 + 2 * 3 parses as 1 + (2 * 3)
	sel = parse(t, "select k from t where k = 1 + 2 * 3")
	eq := sel.Where.(*ast.Call)
	plus := eq.Args[1].(*ast.Call)
	require.Equal(t, ast.KindPlus, plus.Op.Kind)
	times := plus.Args[1].(*ast.Call)
	assert.Equal(t, ast.KindTimes, times.Op.Kind)
}

func TestParseCast(t *testing.T) {
	sel := parse(t, "select cast(k as bigint) from t")
	call := sel.Columns.Nodes[0].(*ast.Call)
	require.Equal(t, ast.KindCast, call.Op.Kind)
	spec, ok := call.Args[1].(*ast.TypeSpec)
	require.True(t, ok)
	assert.Equal(t, "BIGINT", spec.Name)
	assert.False(t, spec.Structured)
}

func TestParseCompoundTypeSpec(t *testing.T) {
	sel := parse(t, "select cast(k as row(a integer, b varchar)) from t")
	call := sel.Columns.Nodes[0].(*ast.Call)
	spec := call.Args[1].(*ast.TypeSpec)
	assert.True(t, spec.Structured)
	require.Len(t, spec.Elems, 2)
	assert.Equal(t, "INTEGER", spec.Elems[0].Name)
}

func TestParseDynamicParams(t *testing.T) {
	sel := parse(t, "select k from t where a = ? and b = ?")
	and := sel.Where.(*ast.Call)
	first := and.Args[0].(*ast.Call).Args[1].(*ast.DynamicParam)
	second := and.Args[1].(*ast.Call).Args[1].(*ast.DynamicParam)
	assert.Equal(t, 0, first.Index)
	assert.Equal(t, 1, second.Index)
}

func TestParseRejectedClausesStillParse(t *testing.T) {
	sel := parse(t, "select k from t group by k order by k desc limit 10 offset 5")
	assert.NotNil(t, sel.GroupBy)
	assert.NotNil(t, sel.OrderBy)
	assert.NotNil(t, sel.Limit)
	assert.NotNil(t, sel.Offset)
}

func TestParseAlias(t *testing.T) {
	sel := parse(t, "select k as key, v value from t")
	for i, want := range []string{"key", "value"} {
		call, ok := sel.Columns.Nodes[i].(*ast.Call)
		require.True(t, ok)
		require.Equal(t, ast.KindAs, call.Op.Kind)
		alias := call.Args[1].(*ast.Identifier)
		assert.Equal(t, want, alias.Parts[0])
	}
}

func TestParseErrors(t *testing.T) {
	cases := []string{
		"",
		"select",
		"select from t",
		"select k from",
		"select k from t where",
		"select k from t where k = 'oops",
		"select k from t extra",
		"insert into t values (1)",
	}
	for _, query := range cases {
		_, err := parser.ParseStatement(query, parser.DefaultConfig())
		require.Error(t, err, "query %q", query)
		var syntaxErr *parser.SyntaxError
		require.ErrorAs(t, err, &syntaxErr, "query %q", query)
		assert.GreaterOrEqual(t, syntaxErr.Pos, 0)
	}
}

func TestParsePositions(t *testing.T) {
	query := "select k from t where flag is false"
	sel := parse(t, query)
	call := sel.Where.(*ast.Call)
	assert.Equal(t, "flag is false", query[call.Pos():call.End()+1])
}

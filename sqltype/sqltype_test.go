package sqltype_test

import (
	"testing"

	"github.com/keeldb/keel/sqltype"
	"github.com/stretchr/testify/assert"
)

func TestByName(t *testing.T) {
	cases := map[string]sqltype.ID{
		"integer": sqltype.Int,
		"INT":     sqltype.Int,
		"dec":     sqltype.Decimal,
		"Numeric": sqltype.Decimal,
		"varchar": sqltype.Varchar,
	}
	for name, want := range cases {
		got, ok := sqltype.ByName(name)
		assert.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}
	_, ok := sqltype.ByName("timestamp")
	assert.False(t, ok)
}

func TestFitInt(t *testing.T) {
	assert.Equal(t, sqltype.TinyInt, sqltype.FitInt(127))
	assert.Equal(t, sqltype.SmallInt, sqltype.FitInt(128))
	assert.Equal(t, sqltype.SmallInt, sqltype.FitInt(-32768))
	assert.Equal(t, sqltype.Int, sqltype.FitInt(32768))
	assert.Equal(t, sqltype.BigInt, sqltype.FitInt(1<<40))
}

func TestPromote(t *testing.T) {
	assert.Equal(t, sqltype.BigInt, sqltype.Promote(sqltype.Int, sqltype.BigInt))
	assert.Equal(t, sqltype.Double, sqltype.Promote(sqltype.Double, sqltype.Decimal))
	assert.Equal(t, sqltype.Decimal, sqltype.Promote(sqltype.TinyInt, sqltype.Decimal))
	assert.Equal(t, sqltype.Int, sqltype.Promote(sqltype.Int, sqltype.Int))
}

func TestPredicates(t *testing.T) {
	assert.True(t, sqltype.BigInt.Integer())
	assert.False(t, sqltype.Decimal.Integer())
	assert.True(t, sqltype.Decimal.Numeric())
	assert.False(t, sqltype.Varchar.Numeric())
	assert.True(t, sqltype.Char.Character())
	assert.Equal(t, "UNKNOWN", sqltype.Unknown.String())
}

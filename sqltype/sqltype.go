// Package sqltype defines the SQL type ids shared by the parser, the
// feature gate, semantic analysis, and the catalog.
package sqltype

import "strings"

type ID int

const (
	Unknown ID = iota
	Boolean
	TinyInt
	SmallInt
	Int
	BigInt
	Decimal
	Real
	Double
	Varchar
	// Char exists only as the parse-time type of string literals.
	// The validator normalizes such literals to Varchar; users cannot
	// declare a CHAR column or cast to CHAR.
	Char
	Object
	Any
	Null
)

var names = map[ID]string{
	Boolean:  "BOOLEAN",
	TinyInt:  "TINYINT",
	SmallInt: "SMALLINT",
	Int:      "INTEGER",
	BigInt:   "BIGINT",
	Decimal:  "DECIMAL",
	Real:     "REAL",
	Double:   "DOUBLE",
	Varchar:  "VARCHAR",
	Char:     "CHAR",
	Object:   "OBJECT",
	Any:      "ANY",
	Null:     "NULL",
}

func (id ID) String() string {
	if s, ok := names[id]; ok {
		return s
	}
	return "UNKNOWN"
}

var byName = map[string]ID{
	"BOOLEAN":  Boolean,
	"TINYINT":  TinyInt,
	"SMALLINT": SmallInt,
	"INTEGER":  Int,
	"INT":      Int,
	"BIGINT":   BigInt,
	"DECIMAL":  Decimal,
	"DEC":      Decimal,
	"NUMERIC":  Decimal,
	"REAL":     Real,
	"DOUBLE":   Double,
	"VARCHAR":  Varchar,
	"CHAR":     Char,
	"OBJECT":   Object,
	"ANY":      Any,
	"NULL":     Null,
}

// ByName maps a type name as written in SQL to its id, accepting the
// usual aliases (INT, DEC, NUMERIC).  The boolean result is false for
// names that are not primitive types at all.
func ByName(name string) (ID, bool) {
	id, ok := byName[strings.ToUpper(name)]
	return id, ok
}

// Integer reports whether id is an exact binary integer type.
func (id ID) Integer() bool {
	switch id {
	case TinyInt, SmallInt, Int, BigInt:
		return true
	}
	return false
}

// Numeric reports whether id participates in arithmetic.
func (id ID) Numeric() bool {
	switch id {
	case TinyInt, SmallInt, Int, BigInt, Decimal, Real, Double:
		return true
	}
	return false
}

func (id ID) Character() bool {
	return id == Varchar || id == Char
}

// FitInt returns the narrowest integer type that holds v.
func FitInt(v int64) ID {
	switch {
	case v >= -128 && v <= 127:
		return TinyInt
	case v >= -32768 && v <= 32767:
		return SmallInt
	case v >= -2147483648 && v <= 2147483647:
		return Int
	default:
		return BigInt
	}
}

var numericRank = map[ID]int{
	TinyInt:  1,
	SmallInt: 2,
	Int:      3,
	BigInt:   4,
	Decimal:  5,
	Real:     6,
	Double:   7,
}

// Promote returns the result type of an arithmetic operation over a and b,
// which must both be numeric.
func Promote(a, b ID) ID {
	if numericRank[a] >= numericRank[b] {
		return a
	}
	return b
}

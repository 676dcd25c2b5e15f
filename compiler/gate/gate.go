// Package gate validates a parsed statement against the supported SQL
// dialect.  Every call kind reachable from the grammar is classified here
// explicitly, either in the allow-list, as the specially handled select
// form, or rejected; nothing passes by default, so a grammar addition
// cannot silently widen the dialect.
package gate

import (
	"fmt"

	"github.com/keeldb/keel/compiler/ast"
	"github.com/keeldb/keel/sqltype"
)

// supportedKinds is the set of call kinds accepted without further
// structural checks.  Built once; never mutated at runtime.
var supportedKinds = map[ast.Kind]struct{}{
	// Predicates
	ast.KindAnd: {},
	ast.KindOr:  {},
	ast.KindNot: {},

	// Arithmetic
	ast.KindPlus:        {},
	ast.KindMinus:       {},
	ast.KindTimes:       {},
	ast.KindDivide:      {},
	ast.KindMinusPrefix: {},
	ast.KindPlusPrefix:  {},

	// "IS" predicates
	ast.KindIsTrue:     {},
	ast.KindIsNotTrue:  {},
	ast.KindIsFalse:    {},
	ast.KindIsNotFalse: {},
	ast.KindIsNull:     {},
	ast.KindIsNotNull:  {},

	// Comparisons
	ast.KindEquals:             {},
	ast.KindNotEquals:          {},
	ast.KindLessThan:           {},
	ast.KindGreaterThan:        {},
	ast.KindGreaterThanOrEqual: {},
	ast.KindLessThanOrEqual:    {},

	// Miscellaneous
	ast.KindAs:   {},
	ast.KindCast: {},
}

// declaredTypes is the allow-list for declared (CAST target) types.
var declaredTypes = map[sqltype.ID]struct{}{
	sqltype.Boolean:  {},
	sqltype.TinyInt:  {},
	sqltype.SmallInt: {},
	sqltype.Int:      {},
	sqltype.BigInt:   {},
	sqltype.Decimal:  {},
	sqltype.Real:     {},
	sqltype.Double:   {},
	sqltype.Varchar:  {},
	sqltype.Null:     {},
	sqltype.Object:   {},
}

// literalTypes is the allow-list for literals.  It is the declared-type
// list plus CHAR and nothing else: the parser represents string literals
// as CHAR before validation normalizes them to VARCHAR, so CHAR literals
// must pass here even though a declared CHAR type must not.  Do not unify
// the two lists.
var literalTypes = map[sqltype.ID]struct{}{
	sqltype.Boolean:  {},
	sqltype.TinyInt:  {},
	sqltype.SmallInt: {},
	sqltype.Int:      {},
	sqltype.BigInt:   {},
	sqltype.Decimal:  {},
	sqltype.Real:     {},
	sqltype.Double:   {},
	sqltype.Varchar:  {},
	sqltype.Char:     {},
	sqltype.Null:     {},
	sqltype.Object:   {},
}

// UnsupportedError reports a construct outside the supported dialect.
// Feature names the construct; Pos and End locate it in the statement.
type UnsupportedError struct {
	Feature string
	Msg     string
	Pos     int
	End     int
}

func (e *UnsupportedError) Error() string { return e.Msg }

func unsupported(n ast.Node, feature string) error {
	return &UnsupportedError{
		Feature: feature,
		Msg:     fmt.Sprintf("%s is not supported", feature),
		Pos:     n.Pos(),
		End:     n.End(),
	}
}

// Check walks the statement and returns nil if every construct is within
// the supported dialect, or an *UnsupportedError for the first violation.
// Check is stateless and safe for unlimited concurrent use.
func Check(node ast.Node) error {
	return visit(node)
}

func visit(node ast.Node) error {
	switch node := node.(type) {
	case *ast.Select:
		return visitSelect(node)
	case *ast.Call:
		return visitCall(node)
	case *ast.NodeList:
		for _, n := range node.Nodes {
			if err := visit(n); err != nil {
				return err
			}
		}
		return nil
	case *ast.Identifier:
		return nil
	case *ast.Literal:
		return visitLiteral(node)
	case *ast.TypeSpec:
		return visitTypeSpec(node)
	case *ast.DynamicParam:
		return nil
	case *ast.IntervalQualifier:
		return nil
	case nil:
		return nil
	}
	return unsupported(node, fmt.Sprintf("%T", node))
}

// visitCall gates the call's own kind and then recurses into its operands.
// The allow-list covers only the call itself; each operand is classified
// again on its own visit.
func visitCall(call *ast.Call) error {
	if _, ok := supportedKinds[call.Op.Kind]; !ok {
		return unsupported(call, call.Op.DisplayName())
	}
	for _, arg := range call.Args {
		if err := visit(arg); err != nil {
			return err
		}
	}
	return nil
}

// visitSelect applies structural checks to the select form instead of the
// blanket allow-list: the form itself is supported, but several of its
// clauses are not.
func visitSelect(sel *ast.Select) error {
	if sel.OrderBy != nil {
		return unsupported(sel.OrderBy, "ORDER BY")
	}
	if sel.GroupBy != nil && len(sel.GroupBy.Nodes) > 0 {
		return unsupported(sel.GroupBy, "GROUP BY")
	}
	if sel.Limit != nil {
		return unsupported(sel.Limit, "LIMIT")
	}
	if sel.Offset != nil {
		return unsupported(sel.Offset, "OFFSET")
	}
	if err := visit(sel.Columns); err != nil {
		return err
	}
	if err := visit(sel.From); err != nil {
		return err
	}
	return visit(sel.Where)
}

func visitTypeSpec(spec *ast.TypeSpec) error {
	if spec.Structured {
		return &UnsupportedError{
			Feature: spec.Name,
			Msg:     "Complex type specifications are not supported",
			Pos:     spec.Pos(),
			End:     spec.End(),
		}
	}
	id, ok := sqltype.ByName(spec.Name)
	if !ok {
		return unsupported(spec, spec.Name)
	}
	if _, ok := declaredTypes[id]; !ok {
		// CHAR is not declarable by users, who have only VARCHAR;
		// ANY is visible to users as OBJECT.
		return unsupported(spec, id.String())
	}
	return nil
}

func visitLiteral(lit *ast.Literal) error {
	if _, ok := literalTypes[lit.Type]; !ok {
		return &UnsupportedError{
			Feature: lit.Type.String(),
			Msg:     fmt.Sprintf("%s literals are not supported", lit.Type),
			Pos:     lit.Pos(),
			End:     lit.End(),
		}
	}
	return nil
}

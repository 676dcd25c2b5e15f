// Package semantic validates a gate-approved statement against a
// point-in-time catalogue view, resolving every name and assigning a
// concrete type to every expression.
package semantic

import (
	"fmt"

	"github.com/agnivade/levenshtein"
	"github.com/keeldb/keel/catalog"
	"github.com/keeldb/keel/compiler/ast"
	"github.com/keeldb/keel/sqltype"
)

// Error is a semantic diagnostic: an unresolved reference, a type
// mismatch, or a referenced table's own stored compilation error.
type Error struct {
	Msg string
	Pos int
	End int
}

func (e *Error) Error() string { return e.Msg }

// Source is the statement's resolved input table together with the alias
// it is known by within the statement.
type Source struct {
	Table *catalog.Table
	Alias string
}

// Analyze validates the statement against the given catalogue view and
// returns its typed form along with every table it touched, in first-touch
// order.  The first violation aborts the pass.
func Analyze(stmt ast.Node, resolver catalog.Resolver) (*Statement, []*catalog.Table, error) {
	sel, ok := stmt.(*ast.Select)
	if !ok {
		return nil, nil, &Error{
			Msg: "statement must be a select",
			Pos: stmt.Pos(),
			End: stmt.End(),
		}
	}
	a := &analyzer{resolver: resolver}
	out, err := a.semSelect(sel)
	if err != nil {
		return nil, nil, err
	}
	return out, a.tables, nil
}

type analyzer struct {
	resolver catalog.Resolver
	source   *Source
	tables   []*catalog.Table
}

func (a *analyzer) error(n ast.Node, format string, args ...any) error {
	return &Error{Msg: fmt.Sprintf(format, args...), Pos: n.Pos(), End: n.End()}
}

func (a *analyzer) semSelect(sel *ast.Select) (*Statement, error) {
	if sel.Distinct {
		return nil, a.error(sel, "SELECT DISTINCT is not supported")
	}
	source, err := a.semFrom(sel.From)
	if err != nil {
		return nil, err
	}
	a.source = source
	out := &Statement{Table: source}
	for i, item := range sel.Columns.Nodes {
		columns, err := a.semSelectItem(i, item)
		if err != nil {
			return nil, err
		}
		out.Columns = append(out.Columns, columns...)
	}
	if sel.Where != nil {
		where, err := a.semExpr(sel.Where)
		if err != nil {
			return nil, err
		}
		if typ := where.Type(); typ != sqltype.Boolean && typ != sqltype.Null && typ != sqltype.Object {
			return nil, a.error(sel.Where, "WHERE clause must be a condition, not %s", typ)
		}
		out.Where = where
	}
	return out, nil
}

func (a *analyzer) semFrom(from ast.Node) (*Source, error) {
	alias := ""
	if call, ok := from.(*ast.Call); ok && call.Op.Kind == ast.KindAs {
		id, ok := call.Args[1].(*ast.Identifier)
		if !ok {
			return nil, a.error(call, "invalid table alias")
		}
		alias = id.Parts[0]
		from = call.Args[0]
	}
	id, ok := from.(*ast.Identifier)
	if !ok {
		return nil, a.error(from, "FROM must name a table")
	}
	schemaPath, name := id.Parts[:len(id.Parts)-1], id.Parts[len(id.Parts)-1]
	table, err := a.resolver.Resolve(schemaPath, name)
	if err != nil {
		msg := fmt.Sprintf("table %q not found", name)
		if hint := a.suggestTable(name); hint != "" {
			msg += fmt.Sprintf(" (did you mean %q?)", hint)
		}
		return nil, &Error{Msg: msg, Pos: id.Pos(), End: id.End()}
	}
	a.touch(table)
	if !table.Valid() {
		// Surface the table's stored compilation error: the name
		// resolves but its definition is currently unobtainable.
		return nil, a.error(id, "table %q is not valid: %s", name, table.Err())
	}
	if alias == "" {
		alias = table.Name()
	}
	return &Source{Table: table, Alias: alias}, nil
}

// touch records a referenced table once, preserving first-touch order.
func (a *analyzer) touch(table *catalog.Table) {
	for _, t := range a.tables {
		if t.Ref() == table.Ref() {
			return
		}
	}
	a.tables = append(a.tables, table)
}

func (a *analyzer) semSelectItem(ordinal int, item ast.Node) ([]Column, error) {
	switch item := item.(type) {
	case *ast.Identifier:
		if item.Parts[len(item.Parts)-1] == "*" {
			return a.expandStar(item)
		}
	case *ast.Call:
		if item.Op.Kind == ast.KindAs {
			id, ok := item.Args[1].(*ast.Identifier)
			if !ok {
				return nil, a.error(item, "invalid column alias")
			}
			expr, err := a.semExpr(item.Args[0])
			if err != nil {
				return nil, err
			}
			return []Column{{Name: id.Parts[0], Expr: expr}}, nil
		}
	}
	expr, err := a.semExpr(item)
	if err != nil {
		return nil, err
	}
	name := fmt.Sprintf("EXPR$%d", ordinal)
	if id, ok := item.(*ast.Identifier); ok {
		name = id.Parts[len(id.Parts)-1]
	}
	return []Column{{Name: name, Expr: expr}}, nil
}

func (a *analyzer) expandStar(id *ast.Identifier) ([]Column, error) {
	if len(id.Parts) > 1 {
		qualifier := id.Parts[0]
		if qualifier != a.source.Alias && qualifier != a.source.Table.Name() {
			return nil, a.error(id, "unknown table %q", qualifier)
		}
	}
	fields := a.source.Table.Fields()
	columns := make([]Column, 0, len(fields))
	for i, f := range fields {
		columns = append(columns, Column{
			Name: f.Name,
			Expr: &ColumnRef{Index: i, Name: f.Name, Typ: f.Type, Nullable: f.Nullable},
		})
	}
	return columns, nil
}

func (a *analyzer) semExpr(node ast.Node) (Expr, error) {
	switch node := node.(type) {
	case *ast.Literal:
		typ := node.Type
		if typ == sqltype.Char {
			// Parse-time CHAR string literals validate as VARCHAR.
			typ = sqltype.Varchar
		}
		return &Literal{Typ: typ, Text: node.Text}, nil
	case *ast.Identifier:
		return a.semColumnRef(node)
	case *ast.DynamicParam:
		return &Param{Index: node.Index}, nil
	case *ast.Call:
		return a.semCall(node)
	case *ast.Select:
		// Sub-queries are never expanded during conversion, so they
		// cannot be validated into the plan.
		return nil, a.error(node, "subqueries are not supported")
	}
	return nil, a.error(node, "unexpected expression")
}

func (a *analyzer) semColumnRef(id *ast.Identifier) (Expr, error) {
	parts := id.Parts
	if parts[len(parts)-1] == "*" {
		return nil, a.error(id, "* is only allowed in the select list")
	}
	if len(parts) > 1 {
		qualifier := parts[len(parts)-2]
		if qualifier != a.source.Alias && qualifier != a.source.Table.Name() {
			return nil, a.error(id, "unknown table %q", qualifier)
		}
	}
	name := parts[len(parts)-1]
	i := a.source.Table.FieldIndex(name)
	if i < 0 {
		msg := fmt.Sprintf("column %q not found in table %q", name, a.source.Table.Name())
		if hint := suggest(name, fieldNames(a.source.Table)); hint != "" {
			msg += fmt.Sprintf(" (did you mean %q?)", hint)
		}
		return nil, &Error{Msg: msg, Pos: id.Pos(), End: id.End()}
	}
	f := a.source.Table.Fields()[i]
	return &ColumnRef{Index: i, Name: f.Name, Typ: f.Type, Nullable: f.Nullable}, nil
}

func (a *analyzer) semCall(call *ast.Call) (Expr, error) {
	if call.Op.Kind == ast.KindCast {
		return a.semCast(call)
	}
	args := make([]Expr, 0, len(call.Args))
	for _, arg := range call.Args {
		e, err := a.semExpr(arg)
		if err != nil {
			return nil, err
		}
		args = append(args, e)
	}
	typ, err := a.callType(call, args)
	if err != nil {
		return nil, err
	}
	return &Call{Kind: call.Op.Kind, Name: call.Op.Name, Args: args, Typ: typ}, nil
}

func (a *analyzer) semCast(call *ast.Call) (Expr, error) {
	expr, err := a.semExpr(call.Args[0])
	if err != nil {
		return nil, err
	}
	spec, ok := call.Args[1].(*ast.TypeSpec)
	if !ok {
		return nil, a.error(call, "CAST requires a type")
	}
	target, ok := sqltype.ByName(spec.Name)
	if !ok {
		return nil, a.error(spec, "unknown type %s", spec.Name)
	}
	return &Call{Kind: ast.KindCast, Name: "CAST", Args: []Expr{expr}, Typ: target}, nil
}

func (a *analyzer) callType(call *ast.Call, args []Expr) (sqltype.ID, error) {
	switch call.Op.Kind {
	case ast.KindAnd, ast.KindOr, ast.KindNot:
		for i, arg := range args {
			if !condition(arg.Type()) {
				return 0, a.error(call.Args[i], "%s requires boolean operands, not %s", call.Op.Name, arg.Type())
			}
		}
		return sqltype.Boolean, nil
	case ast.KindIsTrue, ast.KindIsNotTrue, ast.KindIsFalse, ast.KindIsNotFalse:
		if !condition(args[0].Type()) {
			return 0, a.error(call.Args[0], "%s requires a boolean operand, not %s", call.Op.Name, args[0].Type())
		}
		return sqltype.Boolean, nil
	case ast.KindIsNull, ast.KindIsNotNull:
		return sqltype.Boolean, nil
	case ast.KindEquals, ast.KindNotEquals, ast.KindLessThan, ast.KindGreaterThan,
		ast.KindLessThanOrEqual, ast.KindGreaterThanOrEqual:
		if !comparableTypes(args[0].Type(), args[1].Type()) {
			return 0, a.error(call, "cannot compare %s with %s", args[0].Type(), args[1].Type())
		}
		return sqltype.Boolean, nil
	case ast.KindPlus, ast.KindMinus, ast.KindTimes, ast.KindDivide:
		for i, arg := range args {
			if !numericOperand(arg.Type()) {
				return 0, a.error(call.Args[i], "%q requires numeric operands, not %s", call.Op.Name, arg.Type())
			}
		}
		return arithmeticType(args[0].Type(), args[1].Type()), nil
	case ast.KindMinusPrefix, ast.KindPlusPrefix:
		if !numericOperand(args[0].Type()) {
			return 0, a.error(call.Args[0], "%q requires a numeric operand, not %s", call.Op.Name, args[0].Type())
		}
		return args[0].Type(), nil
	}
	// The gate admits only the kinds above; anything else is an
	// internal inconsistency between the two stages.
	return 0, a.error(call, "internal error: unvalidated operator %s", call.Op.Name)
}

// condition reports whether typ can appear where a boolean is required.
// NULL is trivially a condition and dynamic parameters bind late.
func condition(typ sqltype.ID) bool {
	return typ == sqltype.Boolean || typ == sqltype.Null || typ == sqltype.Object
}

func numericOperand(typ sqltype.ID) bool {
	return typ.Numeric() || typ == sqltype.Null || typ == sqltype.Object
}

func comparableTypes(l, r sqltype.ID) bool {
	if l == sqltype.Null || r == sqltype.Null || l == sqltype.Object || r == sqltype.Object {
		return true
	}
	if l.Numeric() && r.Numeric() {
		return true
	}
	if l.Character() && r.Character() {
		return true
	}
	return l == r
}

func arithmeticType(l, r sqltype.ID) sqltype.ID {
	if !l.Numeric() {
		return r
	}
	if !r.Numeric() {
		return l
	}
	return sqltype.Promote(l, r)
}

func (a *analyzer) suggestTable(name string) string {
	lister, ok := a.resolver.(catalog.Lister)
	if !ok {
		return ""
	}
	return suggest(name, lister.TableNames())
}

func fieldNames(t *catalog.Table) []string {
	names := make([]string, 0, len(t.Fields()))
	for _, f := range t.Fields() {
		names = append(names, f.Name)
	}
	return names
}

// suggest returns the candidate closest to name by edit distance, if any
// candidate is close enough to plausibly be a typo.
func suggest(name string, candidates []string) string {
	best, bestDist := "", 3
	for _, c := range candidates {
		if d := levenshtein.ComputeDistance(name, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

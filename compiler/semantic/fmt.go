package semantic

import (
	"fmt"
	"strings"

	"github.com/keeldb/keel/compiler/ast"
)

// Format renders a typed expression as SQL-ish text for plan display and
// logging.  The output is informational and does not round-trip.
func Format(e Expr) string {
	switch e := e.(type) {
	case *ColumnRef:
		return fmt.Sprintf("$%d:%s", e.Index, e.Name)
	case *Literal:
		if e.Typ.Character() {
			return "'" + e.Text + "'"
		}
		return e.Text
	case *Param:
		return fmt.Sprintf("?%d", e.Index)
	case *Call:
		return formatCall(e)
	}
	return "?"
}

func formatCall(c *Call) string {
	switch c.Kind {
	case ast.KindCast:
		return fmt.Sprintf("CAST(%s AS %s)", Format(c.Args[0]), c.Typ)
	case ast.KindNot:
		return fmt.Sprintf("NOT (%s)", Format(c.Args[0]))
	case ast.KindMinusPrefix, ast.KindPlusPrefix:
		return fmt.Sprintf("%s%s", c.Name, Format(c.Args[0]))
	case ast.KindIsTrue, ast.KindIsNotTrue, ast.KindIsFalse, ast.KindIsNotFalse,
		ast.KindIsNull, ast.KindIsNotNull:
		return fmt.Sprintf("(%s) %s", Format(c.Args[0]), c.Name)
	}
	if len(c.Args) == 2 {
		return fmt.Sprintf("(%s %s %s)", Format(c.Args[0]), c.Name, Format(c.Args[1]))
	}
	args := make([]string, 0, len(c.Args))
	for _, a := range c.Args {
		args = append(args, Format(a))
	}
	return fmt.Sprintf("%s(%s)", c.Name, strings.Join(args, ", "))
}

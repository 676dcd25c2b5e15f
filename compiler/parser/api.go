package parser

import (
	"github.com/keeldb/keel/compiler/ast"
	"github.com/keeldb/keel/compiler/srcloc"
)

// AST wraps a parsed statement together with its source text so that
// downstream stages can render positioned diagnostics.
type AST struct {
	stmt ast.Node
	text *srcloc.Text
}

func (a *AST) Statement() ast.Node { return a.stmt }
func (a *AST) Text() *srcloc.Text  { return a.text }
func (a *AST) Select() *ast.Select { s, _ := a.stmt.(*ast.Select); return s }

// ParseStatement parses a single SQL statement.  On failure the returned
// error is a *SyntaxError carrying the byte offset of the problem.
func ParseStatement(query string, config Config) (*AST, error) {
	stmt, err := Parse(query, config)
	if err != nil {
		return nil, err
	}
	return &AST{stmt: stmt, text: srcloc.NewText(query)}, nil
}

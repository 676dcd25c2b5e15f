package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/keeldb/keel/compiler/ast"
	"github.com/keeldb/keel/sqltype"
)

// SyntaxError is the only diagnostic the parse stage produces.
type SyntaxError struct {
	Msg string
	Pos int
}

func (e *SyntaxError) Error() string { return e.Msg }

// Casing is applied to unquoted identifiers; quoted identifiers are always
// taken verbatim.
type Casing int

const (
	CasingUnchanged Casing = iota
	CasingUpper
	CasingLower
)

// Config carries the fixed parser settings.  The compiler always uses
// DefaultConfig; the fields exist so the casing and sensitivity rules are
// explicit rather than buried in the grammar.
type Config struct {
	UnquotedCasing Casing
	CaseSensitive  bool
}

func DefaultConfig() Config {
	return Config{UnquotedCasing: CasingUnchanged, CaseSensitive: true}
}

type parser struct {
	lex    *lexer
	tok    token
	config Config
	params int
}

// Parse parses a single statement and returns its AST.  Trailing input
// after the statement is a syntax error.
func Parse(src string, config Config) (ast.Node, error) {
	p := &parser{lex: &lexer{src: src}, config: config}
	if err := p.advance(); err != nil {
		return nil, err
	}
	stmt, err := p.parseSelect()
	if err != nil {
		return nil, err
	}
	if p.tok.typ != tokenEOF {
		return nil, p.errorf("unexpected %q after statement", p.tok.text)
	}
	return stmt, nil
}

func (p *parser) advance() error {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *parser) errorf(format string, args ...any) error {
	return &SyntaxError{Msg: fmt.Sprintf(format, args...), Pos: p.tok.pos}
}

// eatKeyword consumes the keyword if present and reports whether it did.
func (p *parser) eatKeyword(kw string) (bool, error) {
	if !p.tok.keyword(kw) {
		return false, nil
	}
	return true, p.advance()
}

func (p *parser) expectKeyword(kw string) error {
	ok, err := p.eatKeyword(kw)
	if err != nil {
		return err
	}
	if !ok {
		return p.errorf("expected %s", kw)
	}
	return nil
}

func (p *parser) expect(typ tokenType, what string) (token, error) {
	if p.tok.typ != typ {
		return token{}, p.errorf("expected %s", what)
	}
	tok := p.tok
	return tok, p.advance()
}

func (p *parser) parseSelect() (*ast.Select, error) {
	pos := p.tok.pos
	if err := p.expectKeyword("SELECT"); err != nil {
		return nil, err
	}
	sel := &ast.Select{}
	if ok, err := p.eatKeyword("ALL"); err != nil {
		return nil, err
	} else if !ok {
		if sel.Distinct, err = p.eatKeyword("DISTINCT"); err != nil {
			return nil, err
		}
	}
	columns, err := p.parseSelectList()
	if err != nil {
		return nil, err
	}
	sel.Columns = columns
	if err := p.expectKeyword("FROM"); err != nil {
		return nil, err
	}
	if sel.From, err = p.parseTableRef(); err != nil {
		return nil, err
	}
	if ok, err := p.eatKeyword("WHERE"); err != nil {
		return nil, err
	} else if ok {
		if sel.Where, err = p.parseExpr(); err != nil {
			return nil, err
		}
	}
	if ok, err := p.eatKeyword("GROUP"); err != nil {
		return nil, err
	} else if ok {
		if err := p.expectKeyword("BY"); err != nil {
			return nil, err
		}
		if sel.GroupBy, err = p.parseExprList(); err != nil {
			return nil, err
		}
	}
	if ok, err := p.eatKeyword("ORDER"); err != nil {
		return nil, err
	} else if ok {
		if err := p.expectKeyword("BY"); err != nil {
			return nil, err
		}
		if sel.OrderBy, err = p.parseOrderList(); err != nil {
			return nil, err
		}
	}
	if ok, err := p.eatKeyword("LIMIT"); err != nil {
		return nil, err
	} else if ok {
		if sel.Limit, err = p.parseExpr(); err != nil {
			return nil, err
		}
	}
	if ok, err := p.eatKeyword("OFFSET"); err != nil {
		return nil, err
	} else if ok {
		if sel.Offset, err = p.parseExpr(); err != nil {
			return nil, err
		}
		// Optional ROW/ROWS noise word.
		if ok, err := p.eatKeyword("ROWS"); err != nil {
			return nil, err
		} else if !ok {
			if _, err := p.eatKeyword("ROW"); err != nil {
				return nil, err
			}
		}
	}
	sel.Loc = ast.NewLoc(pos, p.prevEnd())
	return sel, nil
}

// prevEnd approximates the end of the most recently consumed token as the
// character before the current one.
func (p *parser) prevEnd() int {
	if p.tok.pos > 0 {
		return p.tok.pos - 1
	}
	return 0
}

func (p *parser) parseSelectList() (*ast.NodeList, error) {
	pos := p.tok.pos
	var nodes []ast.Node
	for {
		item, err := p.parseSelectItem()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, item)
		if p.tok.typ != tokenComma {
			break
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	return &ast.NodeList{Nodes: nodes, Loc: ast.NewLoc(pos, p.prevEnd())}, nil
}

func (p *parser) parseSelectItem() (ast.Node, error) {
	if p.tok.typ == tokenStar {
		star := &ast.Identifier{Parts: []string{"*"}, Loc: ast.NewLoc(p.tok.pos, p.tok.end)}
		return star, p.advance()
	}
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return p.parseAlias(expr)
}

// parseAlias wraps expr in an AS call if an alias follows, either with an
// explicit AS keyword or as a bare identifier.
func (p *parser) parseAlias(expr ast.Node) (ast.Node, error) {
	explicit, err := p.eatKeyword("AS")
	if err != nil {
		return nil, err
	}
	if !explicit && p.tok.typ != tokenQuotedIdent &&
		(p.tok.typ != tokenIdent || reservedWord(p.tok.text)) {
		return expr, nil
	}
	alias, err := p.parseName()
	if err != nil {
		return nil, err
	}
	return &ast.Call{
		Op:   ast.Op{Kind: ast.KindAs, Name: "AS"},
		Args: []ast.Node{expr, alias},
		Loc:  ast.NewLoc(expr.Pos(), alias.End()),
	}, nil
}

func (p *parser) parseTableRef() (ast.Node, error) {
	name, err := p.parseQualifiedName()
	if err != nil {
		return nil, err
	}
	return p.parseAlias(name)
}

func (p *parser) parseName() (*ast.Identifier, error) {
	pos, end := p.tok.pos, p.tok.end
	var part string
	switch p.tok.typ {
	case tokenIdent:
		part = applyCasing(p.tok.text, p.config.UnquotedCasing)
	case tokenQuotedIdent:
		part = p.tok.text
	default:
		return nil, p.errorf("expected identifier")
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return &ast.Identifier{Parts: []string{part}, Loc: ast.NewLoc(pos, end)}, nil
}

func (p *parser) parseQualifiedName() (*ast.Identifier, error) {
	id, err := p.parseName()
	if err != nil {
		return nil, err
	}
	for p.tok.typ == tokenDot {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.tok.typ == tokenStar {
			id.Parts = append(id.Parts, "*")
			id.Last = p.tok.end
			return id, p.advance()
		}
		next, err := p.parseName()
		if err != nil {
			return nil, err
		}
		id.Parts = append(id.Parts, next.Parts[0])
		id.Last = next.End()
	}
	return id, nil
}

func (p *parser) parseExprList() (*ast.NodeList, error) {
	pos := p.tok.pos
	var nodes []ast.Node
	for {
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, expr)
		if p.tok.typ != tokenComma {
			break
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	return &ast.NodeList{Nodes: nodes, Loc: ast.NewLoc(pos, p.prevEnd())}, nil
}

func (p *parser) parseOrderList() (*ast.NodeList, error) {
	pos := p.tok.pos
	var nodes []ast.Node
	for {
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if ok, err := p.eatKeyword("ASC"); err != nil {
			return nil, err
		} else if !ok {
			if desc, err := p.eatKeyword("DESC"); err != nil {
				return nil, err
			} else if desc {
				expr = &ast.Call{
					Op:   ast.Op{Kind: ast.KindOther, Name: "DESC"},
					Args: []ast.Node{expr},
					Loc:  ast.NewLoc(expr.Pos(), p.prevEnd()),
				}
			}
		}
		nodes = append(nodes, expr)
		if p.tok.typ != tokenComma {
			break
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	return &ast.NodeList{Nodes: nodes, Loc: ast.NewLoc(pos, p.prevEnd())}, nil
}

func (p *parser) parseExpr() (ast.Node, error) {
	return p.parseOr()
}

func (p *parser) parseOr() (ast.Node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for {
		ok, err := p.eatKeyword("OR")
		if err != nil {
			return nil, err
		}
		if !ok {
			return left, nil
		}
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = binary(ast.KindOr, "OR", left, right)
	}
}

func (p *parser) parseAnd() (ast.Node, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for {
		ok, err := p.eatKeyword("AND")
		if err != nil {
			return nil, err
		}
		if !ok {
			return left, nil
		}
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = binary(ast.KindAnd, "AND", left, right)
	}
}

func (p *parser) parseNot() (ast.Node, error) {
	if p.tok.keyword("NOT") {
		pos := p.tok.pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &ast.Call{
			Op:   ast.Op{Kind: ast.KindNot, Name: "NOT"},
			Args: []ast.Node{operand},
			Loc:  ast.NewLoc(pos, operand.End()),
		}, nil
	}
	return p.parseIs()
}

func (p *parser) parseIs() (ast.Node, error) {
	expr, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for {
		ok, err := p.eatKeyword("IS")
		if err != nil {
			return nil, err
		}
		if !ok {
			return expr, nil
		}
		negated, err := p.eatKeyword("NOT")
		if err != nil {
			return nil, err
		}
		var kind ast.Kind
		var name string
		switch {
		case p.tok.keyword("TRUE"):
			kind, name = ast.KindIsTrue, "IS TRUE"
			if negated {
				kind, name = ast.KindIsNotTrue, "IS NOT TRUE"
			}
		case p.tok.keyword("FALSE"):
			kind, name = ast.KindIsFalse, "IS FALSE"
			if negated {
				kind, name = ast.KindIsNotFalse, "IS NOT FALSE"
			}
		case p.tok.keyword("NULL"):
			kind, name = ast.KindIsNull, "IS NULL"
			if negated {
				kind, name = ast.KindIsNotNull, "IS NOT NULL"
			}
		default:
			return nil, p.errorf("expected TRUE, FALSE, or NULL after IS")
		}
		end := p.tok.end
		if err := p.advance(); err != nil {
			return nil, err
		}
		expr = &ast.Call{
			Op:   ast.Op{Kind: kind, Name: name},
			Args: []ast.Node{expr},
			Loc:  ast.NewLoc(expr.Pos(), end),
		}
	}
}

var comparisonOps = map[tokenType]ast.Op{
	tokenEq: {Kind: ast.KindEquals, Name: "="},
	tokenNe: {Kind: ast.KindNotEquals, Name: "<>"},
	tokenLt: {Kind: ast.KindLessThan, Name: "<"},
	tokenLe: {Kind: ast.KindLessThanOrEqual, Name: "<="},
	tokenGt: {Kind: ast.KindGreaterThan, Name: ">"},
	tokenGe: {Kind: ast.KindGreaterThanOrEqual, Name: ">="},
}

func (p *parser) parseComparison() (ast.Node, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	if op, ok := comparisonOps[p.tok.typ]; ok {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		return binary(op.Kind, op.Name, left, right), nil
	}
	negated := false
	if p.tok.keyword("NOT") {
		// Lookahead only for NOT LIKE / NOT BETWEEN / NOT IN; a bare
		// NOT at this level is a syntax error reported below.
		negated = true
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	switch {
	case p.tok.keyword("LIKE"):
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		name := "LIKE"
		if negated {
			name = "NOT LIKE"
		}
		return binary(ast.KindLike, name, left, right), nil
	case p.tok.keyword("BETWEEN"):
		if err := p.advance(); err != nil {
			return nil, err
		}
		lo, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		if err := p.expectKeyword("AND"); err != nil {
			return nil, err
		}
		hi, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		name := "BETWEEN"
		if negated {
			name = "NOT BETWEEN"
		}
		return &ast.Call{
			Op:   ast.Op{Kind: ast.KindBetween, Name: name},
			Args: []ast.Node{left, lo, hi},
			Loc:  ast.NewLoc(left.Pos(), hi.End()),
		}, nil
	case p.tok.keyword("IN"):
		if err := p.advance(); err != nil {
			return nil, err
		}
		if _, err := p.expect(tokenLParen, "("); err != nil {
			return nil, err
		}
		list, err := p.parseExprList()
		if err != nil {
			return nil, err
		}
		rparen, err := p.expect(tokenRParen, ")")
		if err != nil {
			return nil, err
		}
		name := "IN"
		if negated {
			name = "NOT IN"
		}
		return &ast.Call{
			Op:   ast.Op{Kind: ast.KindIn, Name: name},
			Args: []ast.Node{left, list},
			Loc:  ast.NewLoc(left.Pos(), rparen.end),
		}, nil
	}
	if negated {
		return nil, p.errorf("expected LIKE, BETWEEN, or IN after NOT")
	}
	return left, nil
}

func (p *parser) parseAdditive() (ast.Node, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		var op ast.Op
		switch p.tok.typ {
		case tokenPlus:
			op = ast.Op{Kind: ast.KindPlus, Name: "+"}
		case tokenMinus:
			op = ast.Op{Kind: ast.KindMinus, Name: "-"}
		case tokenConcat:
			op = ast.Op{Kind: ast.KindConcat, Name: "||"}
		default:
			return left, nil
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = binary(op.Kind, op.Name, left, right)
	}
}

func (p *parser) parseMultiplicative() (ast.Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		var op ast.Op
		switch p.tok.typ {
		case tokenStar:
			op = ast.Op{Kind: ast.KindTimes, Name: "*"}
		case tokenSlash:
			op = ast.Op{Kind: ast.KindDivide, Name: "/"}
		case tokenPercent:
			op = ast.Op{Kind: ast.KindModulo, Name: "%"}
		default:
			return left, nil
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = binary(op.Kind, op.Name, left, right)
	}
}

func (p *parser) parseUnary() (ast.Node, error) {
	var op ast.Op
	switch p.tok.typ {
	case tokenMinus:
		op = ast.Op{Kind: ast.KindMinusPrefix, Name: "-"}
	case tokenPlus:
		op = ast.Op{Kind: ast.KindPlusPrefix, Name: "+"}
	default:
		return p.parsePrimary()
	}
	pos := p.tok.pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	operand, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &ast.Call{
		Op:   op,
		Args: []ast.Node{operand},
		Loc:  ast.NewLoc(pos, operand.End()),
	}, nil
}

func (p *parser) parsePrimary() (ast.Node, error) {
	tok := p.tok
	switch tok.typ {
	case tokenNumber:
		lit := &ast.Literal{
			Type: classifyNumber(tok.text),
			Text: tok.text,
			Loc:  ast.NewLoc(tok.pos, tok.end),
		}
		return lit, p.advance()
	case tokenString:
		// String literals are CHAR at parse time; semantic validation
		// normalizes them to VARCHAR.
		lit := &ast.Literal{
			Type: sqltype.Char,
			Text: tok.text,
			Loc:  ast.NewLoc(tok.pos, tok.end),
		}
		return lit, p.advance()
	case tokenParam:
		p.params++
		param := &ast.DynamicParam{Index: p.params - 1, Loc: ast.NewLoc(tok.pos, tok.end)}
		return param, p.advance()
	case tokenLParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		var inner ast.Node
		var err error
		if p.tok.keyword("SELECT") {
			inner, err = p.parseSelect()
		} else {
			inner, err = p.parseExpr()
		}
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokenRParen, ")"); err != nil {
			return nil, err
		}
		return inner, nil
	case tokenQuotedIdent:
		return p.parseQualifiedName()
	case tokenIdent:
		return p.parseIdentPrimary()
	}
	return nil, p.errorf("expected expression")
}

func (p *parser) parseIdentPrimary() (ast.Node, error) {
	tok := p.tok
	switch {
	case tok.keyword("TRUE"), tok.keyword("FALSE"):
		lit := &ast.Literal{
			Type: sqltype.Boolean,
			Text: strings.ToLower(tok.text),
			Loc:  ast.NewLoc(tok.pos, tok.end),
		}
		return lit, p.advance()
	case tok.keyword("NULL"):
		lit := &ast.Literal{
			Type: sqltype.Null,
			Text: "NULL",
			Loc:  ast.NewLoc(tok.pos, tok.end),
		}
		return lit, p.advance()
	case tok.keyword("CAST"):
		return p.parseCast()
	case tok.keyword("CASE"):
		return p.parseCase()
	case tok.keyword("EXISTS"):
		return p.parseExists()
	case tok.keyword("INTERVAL"):
		return p.parseInterval()
	}
	name, err := p.parseQualifiedName()
	if err != nil {
		return nil, err
	}
	if p.tok.typ != tokenLParen || len(name.Parts) != 1 {
		return name, nil
	}
	// Function call.
	if err := p.advance(); err != nil {
		return nil, err
	}
	var args []ast.Node
	if p.tok.typ == tokenStar {
		star := &ast.Identifier{Parts: []string{"*"}, Loc: ast.NewLoc(p.tok.pos, p.tok.end)}
		args = []ast.Node{star}
		if err := p.advance(); err != nil {
			return nil, err
		}
	} else if p.tok.typ != tokenRParen {
		list, err := p.parseExprList()
		if err != nil {
			return nil, err
		}
		args = list.Nodes
	}
	rparen, err := p.expect(tokenRParen, ")")
	if err != nil {
		return nil, err
	}
	return &ast.Call{
		Op:   ast.Op{Kind: ast.KindFunction, Name: strings.ToUpper(name.Parts[0])},
		Args: args,
		Loc:  ast.NewLoc(name.Pos(), rparen.end),
	}, nil
}

func (p *parser) parseCast() (ast.Node, error) {
	pos := p.tok.pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	if _, err := p.expect(tokenLParen, "("); err != nil {
		return nil, err
	}
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("AS"); err != nil {
		return nil, err
	}
	spec, err := p.parseTypeSpec()
	if err != nil {
		return nil, err
	}
	rparen, err := p.expect(tokenRParen, ")")
	if err != nil {
		return nil, err
	}
	return &ast.Call{
		Op:   ast.Op{Kind: ast.KindCast, Name: "CAST"},
		Args: []ast.Node{expr, spec},
		Loc:  ast.NewLoc(pos, rparen.end),
	}, nil
}

func (p *parser) parseCase() (ast.Node, error) {
	pos := p.tok.pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	var args []ast.Node
	if !p.tok.keyword("WHEN") {
		operand, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, operand)
	}
	for {
		ok, err := p.eatKeyword("WHEN")
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		cond, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expectKeyword("THEN"); err != nil {
			return nil, err
		}
		result, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, cond, result)
	}
	if ok, err := p.eatKeyword("ELSE"); err != nil {
		return nil, err
	} else if ok {
		otherwise, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, otherwise)
	}
	end := p.tok.end
	if err := p.expectKeyword("END"); err != nil {
		return nil, err
	}
	return &ast.Call{
		Op:   ast.Op{Kind: ast.KindOther, Name: "CASE"},
		Args: args,
		Loc:  ast.NewLoc(pos, end),
	}, nil
}

func (p *parser) parseExists() (ast.Node, error) {
	pos := p.tok.pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	if _, err := p.expect(tokenLParen, "("); err != nil {
		return nil, err
	}
	sub, err := p.parseSelect()
	if err != nil {
		return nil, err
	}
	rparen, err := p.expect(tokenRParen, ")")
	if err != nil {
		return nil, err
	}
	return &ast.Call{
		Op:   ast.Op{Kind: ast.KindOther, Name: "EXISTS"},
		Args: []ast.Node{sub},
		Loc:  ast.NewLoc(pos, rparen.end),
	}, nil
}

func (p *parser) parseInterval() (ast.Node, error) {
	pos := p.tok.pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	value, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	unit, err := p.expect(tokenIdent, "interval unit")
	if err != nil {
		return nil, err
	}
	qualifier := &ast.IntervalQualifier{
		Unit: strings.ToUpper(unit.text),
		Loc:  ast.NewLoc(unit.pos, unit.end),
	}
	return &ast.Call{
		Op:   ast.Op{Kind: ast.KindInterval, Name: "INTERVAL"},
		Args: []ast.Node{value, qualifier},
		Loc:  ast.NewLoc(pos, unit.end),
	}, nil
}

func (p *parser) parseTypeSpec() (*ast.TypeSpec, error) {
	tok, err := p.expect(tokenIdent, "type name")
	if err != nil {
		return nil, err
	}
	name := strings.ToUpper(tok.text)
	spec := &ast.TypeSpec{Name: name, Loc: ast.NewLoc(tok.pos, tok.end)}
	if name == "ROW" {
		spec.Structured = true
		if _, err := p.expect(tokenLParen, "("); err != nil {
			return nil, err
		}
		for {
			// Field name, discarded; only the element types matter
			// to validation.
			if _, err := p.parseName(); err != nil {
				return nil, err
			}
			elem, err := p.parseTypeSpec()
			if err != nil {
				return nil, err
			}
			spec.Elems = append(spec.Elems, elem)
			if p.tok.typ != tokenComma {
				break
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
		rparen, err := p.expect(tokenRParen, ")")
		if err != nil {
			return nil, err
		}
		spec.Last = rparen.end
		return spec, nil
	}
	if name == "DOUBLE" {
		if ok, err := p.eatKeyword("PRECISION"); err != nil {
			return nil, err
		} else if ok {
			spec.Last = p.prevEnd()
		}
	}
	if p.tok.typ == tokenLParen {
		// Precision and scale are accepted and ignored.
		if err := p.advance(); err != nil {
			return nil, err
		}
		for p.tok.typ == tokenNumber || p.tok.typ == tokenComma {
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
		rparen, err := p.expect(tokenRParen, ")")
		if err != nil {
			return nil, err
		}
		spec.Last = rparen.end
	}
	return spec, nil
}

func binary(kind ast.Kind, name string, left, right ast.Node) ast.Node {
	return &ast.Call{
		Op:   ast.Op{Kind: kind, Name: name},
		Args: []ast.Node{left, right},
		Loc:  ast.NewLoc(left.Pos(), right.End()),
	}
}

func classifyNumber(text string) sqltype.ID {
	if strings.ContainsAny(text, "eE") {
		return sqltype.Double
	}
	if strings.Contains(text, ".") {
		return sqltype.Decimal
	}
	if v, err := strconv.ParseInt(text, 10, 64); err == nil {
		return sqltype.FitInt(v)
	}
	return sqltype.Decimal
}

func applyCasing(s string, casing Casing) string {
	switch casing {
	case CasingUpper:
		return strings.ToUpper(s)
	case CasingLower:
		return strings.ToLower(s)
	}
	return s
}

// reservedWord lists the keywords that cannot serve as a bare column alias.
func reservedWord(s string) bool {
	switch strings.ToUpper(s) {
	case "FROM", "WHERE", "GROUP", "ORDER", "BY", "LIMIT", "OFFSET",
		"AND", "OR", "NOT", "IS", "AS", "ON", "SELECT", "ASC", "DESC",
		"LIKE", "BETWEEN", "IN", "END", "THEN", "WHEN", "ELSE":
		return true
	}
	return false
}

package parser

import (
	"fmt"
	"strings"
)

type tokenType int

const (
	tokenEOF tokenType = iota
	tokenIdent
	tokenQuotedIdent
	tokenString
	tokenNumber
	tokenParam
	tokenLParen
	tokenRParen
	tokenComma
	tokenDot
	tokenEq
	tokenNe
	tokenLt
	tokenLe
	tokenGt
	tokenGe
	tokenPlus
	tokenMinus
	tokenStar
	tokenSlash
	tokenPercent
	tokenConcat
)

type token struct {
	typ  tokenType
	text string
	pos  int
	end  int
}

// keyword reports whether the token is the given unquoted keyword,
// matched case-insensitively.
func (t token) keyword(kw string) bool {
	return t.typ == tokenIdent && strings.EqualFold(t.text, kw)
}

type lexer struct {
	src string
	pos int
}

func (l *lexer) next() (token, error) {
	l.skipSpace()
	start := l.pos
	if l.pos >= len(l.src) {
		return token{typ: tokenEOF, pos: start, end: start}, nil
	}
	c := l.src[l.pos]
	switch {
	case isIdentStart(c):
		return l.ident(start), nil
	case c >= '0' && c <= '9':
		return l.number(start), nil
	case c == '\'':
		return l.stringLit(start)
	case c == '"':
		return l.quotedIdent(start)
	}
	l.pos++
	switch c {
	case '?':
		return l.tok(tokenParam, start), nil
	case '(':
		return l.tok(tokenLParen, start), nil
	case ')':
		return l.tok(tokenRParen, start), nil
	case ',':
		return l.tok(tokenComma, start), nil
	case '.':
		// A leading digit after the dot would have been consumed by
		// number() already, so a bare dot is always a qualifier.
		return l.tok(tokenDot, start), nil
	case '=':
		return l.tok(tokenEq, start), nil
	case '+':
		return l.tok(tokenPlus, start), nil
	case '-':
		return l.tok(tokenMinus, start), nil
	case '*':
		return l.tok(tokenStar, start), nil
	case '/':
		return l.tok(tokenSlash, start), nil
	case '%':
		return l.tok(tokenPercent, start), nil
	case '<':
		if l.peek() == '=' {
			l.pos++
			return l.tok(tokenLe, start), nil
		}
		if l.peek() == '>' {
			l.pos++
			return l.tok(tokenNe, start), nil
		}
		return l.tok(tokenLt, start), nil
	case '>':
		if l.peek() == '=' {
			l.pos++
			return l.tok(tokenGe, start), nil
		}
		return l.tok(tokenGt, start), nil
	case '!':
		if l.peek() == '=' {
			l.pos++
			return l.tok(tokenNe, start), nil
		}
	case '|':
		if l.peek() == '|' {
			l.pos++
			return l.tok(tokenConcat, start), nil
		}
	}
	return token{}, &SyntaxError{
		Msg: fmt.Sprintf("unexpected character %q", rune(c)),
		Pos: start,
	}
}

func (l *lexer) tok(typ tokenType, start int) token {
	return token{typ: typ, text: l.src[start:l.pos], pos: start, end: l.pos - 1}
}

func (l *lexer) peek() byte {
	if l.pos < len(l.src) {
		return l.src[l.pos]
	}
	return 0
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.src) {
		switch c := l.src[l.pos]; {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			l.pos++
		case c == '-' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '-':
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.pos++
			}
		default:
			return
		}
	}
}

func (l *lexer) ident(start int) token {
	for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
		l.pos++
	}
	return l.tok(tokenIdent, start)
}

func (l *lexer) number(start int) token {
	digits := func() {
		for l.pos < len(l.src) && l.src[l.pos] >= '0' && l.src[l.pos] <= '9' {
			l.pos++
		}
	}
	digits()
	if l.peek() == '.' {
		l.pos++
		digits()
	}
	if c := l.peek(); c == 'e' || c == 'E' {
		l.pos++
		if c := l.peek(); c == '+' || c == '-' {
			l.pos++
		}
		digits()
	}
	return l.tok(tokenNumber, start)
}

func (l *lexer) stringLit(start int) (token, error) {
	l.pos++
	var b strings.Builder
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if c == '\'' {
			if l.pos+1 < len(l.src) && l.src[l.pos+1] == '\'' {
				b.WriteByte('\'')
				l.pos += 2
				continue
			}
			l.pos++
			return token{typ: tokenString, text: b.String(), pos: start, end: l.pos - 1}, nil
		}
		b.WriteByte(c)
		l.pos++
	}
	return token{}, &SyntaxError{Msg: "unterminated string literal", Pos: start}
}

func (l *lexer) quotedIdent(start int) (token, error) {
	l.pos++
	var b strings.Builder
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if c == '"' {
			if l.pos+1 < len(l.src) && l.src[l.pos+1] == '"' {
				b.WriteByte('"')
				l.pos += 2
				continue
			}
			l.pos++
			return token{typ: tokenQuotedIdent, text: b.String(), pos: start, end: l.pos - 1}, nil
		}
		b.WriteByte(c)
		l.pos++
	}
	return token{}, &SyntaxError{Msg: "unterminated quoted identifier", Pos: start}
}

func isIdentStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_'
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || c >= '0' && c <= '9' || c == '$'
}

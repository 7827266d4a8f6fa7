package filter

import (
	"strconv"
	"strings"

	"github.com/sherlocksearch/holmes/pkg/herrors"
)

type tokKind int

const (
	tokEOF tokKind = iota
	tokIdent
	tokInt
	tokString
	tokRegex
	tokPunct
	tokKeyword
)

type token struct {
	kind tokKind
	text string
	ival int64
	pos  int
	line int
}

var keywords = map[string]bool{
	"if": true, "else": true, "undef": true, "switch": true, "case": true,
	"add": true, "delete": true, "log": true, "debug": true, "warning": true,
	"error": true, "accept": true, "reject": true, "defined": true,
	"int": true, "string": true, "regex": true, "global": true, "local": true,
}

// lexer tokenizes filter source. Grammar follows spec §6 ("Filter source
// syntax"): C-like statements, `.` string concatenation, the twelve
// comparison operators, and `defined()`.
type lexer struct {
	src  string
	pos  int
	line int
}

func newLexer(src string) *lexer { return &lexer{src: src, line: 1} }

func (l *lexer) errf(format string, args ...any) error {
	return herrors.New(herrors.ErrCodeFilterParse, "line %d: "+format, append([]any{l.line}, args...)...)
}

func (l *lexer) peekByte() byte {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *lexer) skipSpaceAndComments() {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == '\n':
			l.line++
			l.pos++
		case c == ' ' || c == '\t' || c == '\r':
			l.pos++
		case c == '#':
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.pos++
			}
		case c == '/' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '/':
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.pos++
			}
		case c == '/' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '*':
			l.pos += 2
			for l.pos+1 < len(l.src) && !(l.src[l.pos] == '*' && l.src[l.pos+1] == '/') {
				if l.src[l.pos] == '\n' {
					l.line++
				}
				l.pos++
			}
			l.pos += 2
		default:
			return
		}
	}
}

func isIdentStart(c byte) bool { return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
func isIdentCont(c byte) bool  { return isIdentStart(c) || (c >= '0' && c <= '9') }
func isDigit(c byte) bool      { return c >= '0' && c <= '9' }

func (l *lexer) next() (token, error) {
	l.skipSpaceAndComments()
	if l.pos >= len(l.src) {
		return token{kind: tokEOF, pos: l.pos, line: l.line}, nil
	}
	start := l.pos
	line := l.line
	c := l.src[l.pos]

	switch {
	case isIdentStart(c):
		for l.pos < len(l.src) && isIdentCont(l.src[l.pos]) {
			l.pos++
		}
		text := l.src[start:l.pos]
		if keywords[text] {
			return token{kind: tokKeyword, text: text, pos: start, line: line}, nil
		}
		return token{kind: tokIdent, text: text, pos: start, line: line}, nil

	case isDigit(c):
		for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			l.pos++
		}
		text := l.src[start:l.pos]
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return token{}, l.errf("invalid integer literal %q", text)
		}
		return token{kind: tokInt, text: text, ival: n, pos: start, line: line}, nil

	case c == '"':
		l.pos++
		var sb strings.Builder
		for l.pos < len(l.src) && l.src[l.pos] != '"' {
			ch := l.src[l.pos]
			if ch == '\\' && l.pos+1 < len(l.src) {
				l.pos++
				ch = l.src[l.pos]
				switch ch {
				case 'n':
					ch = '\n'
				case 't':
					ch = '\t'
				}
			}
			sb.WriteByte(ch)
			l.pos++
		}
		if l.pos >= len(l.src) {
			return token{}, l.errf("unterminated string literal")
		}
		l.pos++ // closing quote
		return token{kind: tokString, text: sb.String(), pos: start, line: line}, nil

	case c == '/':
		// regex literal: /pattern/
		l.pos++
		var sb strings.Builder
		for l.pos < len(l.src) && l.src[l.pos] != '/' {
			ch := l.src[l.pos]
			if ch == '\\' && l.pos+1 < len(l.src) {
				sb.WriteByte(ch)
				l.pos++
				ch = l.src[l.pos]
			}
			sb.WriteByte(ch)
			l.pos++
		}
		if l.pos >= len(l.src) {
			return token{}, l.errf("unterminated regex literal")
		}
		l.pos++
		return token{kind: tokRegex, text: sb.String(), pos: start, line: line}, nil

	default:
		two := ""
		if l.pos+1 < len(l.src) {
			two = l.src[l.pos : l.pos+2]
		}
		switch two {
		case "==", "!=", "<=", ">=", "=~", "!~", "=*", "!*", "=#", "!#", "&&", "||":
			l.pos += 2
			return token{kind: tokPunct, text: two, pos: start, line: line}, nil
		}
		one := string(c)
		switch c {
		case '<', '>', '=', '!', '.', '+', '-', '*', '%', '(', ')', '{', '}', ';', ',', '/', ':':
			l.pos++
			return token{kind: tokPunct, text: one, pos: start, line: line}, nil
		}
		return token{}, l.errf("unexpected character %q", one)
	}
}

package filter

import (
	"github.com/sherlocksearch/holmes/pkg/herrors"
)

// parser is a recursive-descent parser over the token stream produced by
// [lexer]. It resolves LVUser declarations to slot indices as it goes, so
// by the time [Parse] returns, every [LValue] with Kind == LVUser already
// carries its final Slot.
type parser struct {
	lex    *lexer
	tok    token
	global map[string]*Decl
	local  map[string]*Decl
	numVar int
}

// Parse compiles filter source into an AST whose user-variable slots are
// resolved but which is not yet pruned or accelerated. Callers normally
// use [Compile], which runs Parse, [Prune], and accelerator construction
// in sequence.
func Parse(src string) (*Program, error) {
	p := &parser{lex: newLexer(src), global: map[string]*Decl{}, local: map[string]*Decl{}}
	if err := p.advance(); err != nil {
		return nil, err
	}

	var decls []Decl
	for p.tok.kind == tokKeyword && (isTypeKeyword(p.tok.text) || p.tok.text == "global" || p.tok.text == "local") {
		d, err := p.parseDecl()
		if err != nil {
			return nil, err
		}
		decls = append(decls, *d)
	}

	var cmds []Stmt
	for p.tok.kind != tokEOF {
		s, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, s)
	}

	return &Program{Decls: decls, Commands: cmds, NumUser: p.numVar}, nil
}

func isTypeKeyword(s string) bool { return s == "int" || s == "string" || s == "regex" }

func (p *parser) advance() error {
	t, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = t
	return nil
}

func (p *parser) errf(format string, args ...any) error {
	return herrors.New(herrors.ErrCodeFilterParse, "line %d: "+format, append([]any{p.tok.line}, args...)...)
}

func (p *parser) expectPunct(s string) error {
	if p.tok.kind != tokPunct || p.tok.text != s {
		return p.errf("expected %q, got %q", s, p.tok.text)
	}
	return p.advance()
}

func (p *parser) expectKeyword(s string) error {
	if p.tok.kind != tokKeyword || p.tok.text != s {
		return p.errf("expected keyword %q, got %q", s, p.tok.text)
	}
	return p.advance()
}

func kindOf(name string) Kind {
	switch name {
	case "int":
		return KindInt
	case "regex":
		return KindRegex
	default:
		return KindString
	}
}

// parseDecl handles `[global|local] type name;` declarations at the top
// of the program (§6).
func (p *parser) parseDecl() (*Decl, error) {
	scope := ScopeGlobal
	if p.tok.kind == tokKeyword && (p.tok.text == "global" || p.tok.text == "local") {
		if p.tok.text == "local" {
			scope = ScopeLocal
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	typeName := p.tok.text
	k := kindOf(typeName)
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.tok.kind != tokIdent {
		return nil, p.errf("expected identifier in declaration, got %q", p.tok.text)
	}
	name := p.tok.text
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.expectPunct(";"); err != nil {
		return nil, err
	}
	d := &Decl{Name: name, Type: k, Scope: scope}
	if scope == ScopeLocal {
		d.Slot = p.numVar
		p.numVar++
	}
	p.global[name] = d
	return d, nil
}

// parseStmt parses one command per the `command-list` grammar of §6.
func (p *parser) parseStmt() (Stmt, error) {
	if p.tok.kind == tokKeyword {
		switch p.tok.text {
		case "if":
			return p.parseIf()
		case "switch":
			return p.parseSwitch()
		case "add":
			return p.parseAdd()
		case "delete":
			return p.parseDelete()
		case "log", "debug", "warning", "error":
			return p.parseLog()
		case "accept":
			return p.parseTerminal(true)
		case "reject":
			return p.parseTerminal(false)
		}
	}
	return p.parseAssign()
}

func (p *parser) parseBlock() ([]Stmt, error) {
	if err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	var out []Stmt
	for !(p.tok.kind == tokPunct && p.tok.text == "}") {
		if p.tok.kind == tokEOF {
			return nil, p.errf("unterminated block")
		}
		s, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, p.advance()
}

func (p *parser) parseIf() (Stmt, error) {
	if err := p.expectKeyword("if"); err != nil {
		return nil, err
	}
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	cond, err := p.parseCond()
	if err != nil {
		return nil, err
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	stmt := &IfStmt{Cond: cond, Then: then}
	if p.tok.kind == tokKeyword && p.tok.text == "else" {
		if err := p.advance(); err != nil {
			return nil, err
		}
		els, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		stmt.Else = els
	}
	if p.tok.kind == tokKeyword && p.tok.text == "undef" {
		if err := p.advance(); err != nil {
			return nil, err
		}
		u, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		stmt.Undef = u
	}
	return stmt, nil
}

func (p *parser) parseSwitch() (Stmt, error) {
	if err := p.expectKeyword("switch"); err != nil {
		return nil, err
	}
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	scrutinee, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	if err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	var cases []*SwitchCase
	id := 0
	for p.tok.kind == tokKeyword && p.tok.text == "case" {
		if err := p.advance(); err != nil {
			return nil, err
		}
		op, err := p.parseCompareOp()
		if err != nil {
			return nil, err
		}
		lit, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct(":"); err != nil {
			return nil, err
		}
		var body []Stmt
		for !(p.tok.kind == tokKeyword && p.tok.text == "case") && !(p.tok.kind == tokPunct && p.tok.text == "}") {
			if p.tok.kind == tokEOF {
				return nil, p.errf("unterminated switch")
			}
			s, err := p.parseStmt()
			if err != nil {
				return nil, err
			}
			body = append(body, s)
		}
		cases = append(cases, &SwitchCase{CaseID: id, Op: op, Lit: lit, Body: body})
		id++
	}
	if err := p.expectPunct("}"); err != nil {
		return nil, err
	}
	return &SwitchStmt{Scrutinee: scrutinee, Cases: cases}, nil
}

func (p *parser) parseCompareOp() (CompareOp, error) {
	if p.tok.kind != tokPunct {
		return 0, p.errf("expected comparison operator, got %q", p.tok.text)
	}
	op, ok := compareOpFromText(p.tok.text)
	if !ok {
		return 0, p.errf("unknown case operator %q", p.tok.text)
	}
	return op, p.advance()
}

func compareOpFromText(s string) (CompareOp, bool) {
	switch s {
	case "==":
		return OpEQ, true
	case "!=":
		return OpNE, true
	case "<":
		return OpLT, true
	case ">":
		return OpGT, true
	case "<=":
		return OpLE, true
	case ">=":
		return OpGE, true
	case "=~":
		return OpRegex, true
	case "!~":
		return OpNRegex, true
	case "=*":
		return OpGlob, true
	case "!*":
		return OpNGlob, true
	case "=#":
		return OpRange, true
	case "!#":
		return OpNRange, true
	default:
		return 0, false
	}
}

func (p *parser) parseLiteral() (Value, error) {
	switch p.tok.kind {
	case tokInt:
		v := Int64(p.tok.ival)
		return v, p.advance()
	case tokString:
		v := Str(p.tok.text)
		return v, p.advance()
	case tokRegex:
		v := Value{Kind: KindRegex, Str: p.tok.text}
		return v, p.advance()
	default:
		return Value{}, p.errf("expected literal, got %q", p.tok.text)
	}
}

func (p *parser) parseAdd() (Stmt, error) {
	if err := p.expectKeyword("add"); err != nil {
		return nil, err
	}
	lv, err := p.parseLValue()
	if err != nil {
		return nil, err
	}
	if err := p.expectPunct("="); err != nil {
		return nil, err
	}
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectPunct(";"); err != nil {
		return nil, err
	}
	return &AddStmt{LV: lv, Expr: e}, nil
}

func (p *parser) parseDelete() (Stmt, error) {
	if err := p.expectKeyword("delete"); err != nil {
		return nil, err
	}
	lv, err := p.parseLValue()
	if err != nil {
		return nil, err
	}
	if err := p.expectPunct(";"); err != nil {
		return nil, err
	}
	return &DeleteStmt{LV: lv}, nil
}

func logLevelFromText(s string) LogLevel {
	switch s {
	case "debug":
		return LogDebug
	case "warning":
		return LogWarning
	case "error":
		return LogError
	default:
		return LogInfo
	}
}

func (p *parser) parseLog() (Stmt, error) {
	level := logLevelFromText(p.tok.text)
	if err := p.advance(); err != nil {
		return nil, err
	}
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectPunct(";"); err != nil {
		return nil, err
	}
	return &LogStmt{Level: level, Expr: e}, nil
}

func (p *parser) parseTerminal(accept bool) (Stmt, error) {
	if err := p.advance(); err != nil { // consume accept/reject keyword
		return nil, err
	}
	var msg Expr
	if !(p.tok.kind == tokPunct && p.tok.text == ";") {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		msg = e
	}
	if err := p.expectPunct(";"); err != nil {
		return nil, err
	}
	if accept {
		return &AcceptStmt{Msg: msg}, nil
	}
	return &RejectStmt{Msg: msg}, nil
}

func (p *parser) parseAssign() (Stmt, error) {
	lv, err := p.parseLValue()
	if err != nil {
		return nil, err
	}
	if err := p.expectPunct("="); err != nil {
		return nil, err
	}
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectPunct(";"); err != nil {
		return nil, err
	}
	return &AssignStmt{LV: lv, Expr: e}, nil
}

// parseLValue resolves a bare identifier against known declarations
// (LVUser) or, for the `conf.` / `attr.` namespaces, against the
// appropriate binder kind.
func (p *parser) parseLValue() (LValue, error) {
	if p.tok.kind != tokIdent {
		return LValue{}, p.errf("expected identifier, got %q", p.tok.text)
	}
	name := p.tok.text
	if err := p.advance(); err != nil {
		return LValue{}, err
	}
	if p.tok.kind == tokPunct && p.tok.text == "." && (name == "conf" || name == "attr" || name == "raw") {
		if err := p.advance(); err != nil {
			return LValue{}, err
		}
		if p.tok.kind != tokIdent {
			return LValue{}, p.errf("expected field name after %q.", name)
		}
		field := p.tok.text
		if err := p.advance(); err != nil {
			return LValue{}, err
		}
		switch name {
		case "conf":
			return LValue{Kind: LVConf, Name: field}, nil
		case "attr":
			return LValue{Kind: LVAttr, Name: field}, nil
		default:
			return LValue{Kind: LVRaw, Name: field}, nil
		}
	}
	if d, ok := p.global[name]; ok && d.Scope == ScopeLocal {
		return LValue{Kind: LVUser, Name: name, Slot: d.Slot}, nil
	}
	return LValue{Kind: LVRaw, Name: name}, nil
}

// parseExpr parses the `.`-concatenation level, the loosest-binding
// value-expression operator (§6).
func (p *parser) parseExpr() (Expr, error) {
	first, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	parts := []Expr{first}
	for p.tok.kind == tokPunct && p.tok.text == "." {
		if err := p.advance(); err != nil {
			return nil, err
		}
		next, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		parts = append(parts, next)
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	return &ConcatExpr{Parts: parts}, nil
}

func (p *parser) parseAdditive() (Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokPunct && (p.tok.text == "+" || p.tok.text == "-") {
		op := p.tok.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: op, L: left, R: right}
	}
	return left, nil
}

func (p *parser) parseMultiplicative() (Expr, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokPunct && (p.tok.text == "*" || p.tok.text == "%") {
		op := p.tok.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: op, L: left, R: right}
	}
	return left, nil
}

func (p *parser) parsePrimary() (Expr, error) {
	switch p.tok.kind {
	case tokInt, tokString, tokRegex:
		v, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		return &LitExpr{Val: v}, nil
	case tokPunct:
		if p.tok.text == "(" {
			if err := p.advance(); err != nil {
				return nil, err
			}
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if err := p.expectPunct(")"); err != nil {
				return nil, err
			}
			return e, nil
		}
	case tokIdent:
		lv, err := p.parseLValue()
		if err != nil {
			return nil, err
		}
		return &LValueExpr{LV: lv}, nil
	}
	return nil, p.errf("unexpected token %q in expression", p.tok.text)
}

// parseCond parses the boolean-condition grammar: `||` binds loosest,
// then `&&`, then a single comparison or `defined()` atom.
func (p *parser) parseCond() (Cond, error) {
	left, err := p.parseCondAnd()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokPunct && p.tok.text == "||" {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseCondAnd()
		if err != nil {
			return nil, err
		}
		left = &OrCond{L: left, R: right}
	}
	return left, nil
}

func (p *parser) parseCondAnd() (Cond, error) {
	left, err := p.parseCondAtom()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokPunct && p.tok.text == "&&" {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseCondAtom()
		if err != nil {
			return nil, err
		}
		left = &AndCond{L: left, R: right}
	}
	return left, nil
}

func (p *parser) parseCondAtom() (Cond, error) {
	if p.tok.kind == tokPunct && p.tok.text == "(" {
		if err := p.advance(); err != nil {
			return nil, err
		}
		c, err := p.parseCond()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		return p.maybeBoolEq(c)
	}
	if p.tok.kind == tokKeyword && p.tok.text == "defined" {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.expectPunct("("); err != nil {
			return nil, err
		}
		lv, err := p.parseLValue()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		return p.maybeBoolEq(&DefinedCond{LV: lv})
	}
	left, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	op, err := p.parseCompareOp()
	if err != nil {
		return nil, err
	}
	right, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	ci := false
	if p.tok.kind == tokIdent && p.tok.text == "i" {
		ci = true
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	return p.maybeBoolEq(&CompareCond{L: left, R: right, Op: op, CaseInsensitive: ci})
}

// maybeBoolEq handles the `cond == cond` / `cond != cond` boolean-equality
// form, which can only appear after a fully-parsed condition atom.
func (p *parser) maybeBoolEq(c Cond) (Cond, error) {
	if p.tok.kind == tokPunct && (p.tok.text == "==" || p.tok.text == "!=") {
		neg := p.tok.text == "!="
		if err := p.advance(); err != nil {
			return nil, err
		}
		rhs, err := p.parseCondAtom()
		if err != nil {
			return nil, err
		}
		return &BoolEqCond{L: c, R: rhs, Negate: neg}, nil
	}
	return c, nil
}


package filter

import (
	"context"
	"regexp"
	"strings"

	"github.com/sherlocksearch/holmes/pkg/herrors"
	"github.com/sherlocksearch/holmes/pkg/observability"
)

func undefinedFieldError(name string) error {
	return herrors.New(herrors.ErrCodeFilterRuntime, "unknown field %q", name)
}

// VerdictKind is the terminal outcome of a filter run.
type VerdictKind int

const (
	// VerdictMissing is returned when the program runs off the end of its
	// command list without an explicit accept/reject — a hard error per
	// §4.3, which [Run] returns together with a non-nil error.
	VerdictMissing VerdictKind = iota
	VerdictAccept
	VerdictReject
)

// Verdict is the result of running a [*Program] against one [*Args].
type Verdict struct {
	Kind    VerdictKind
	Message string
}

// Compile parses, prunes, and builds switch accelerators for src in one
// step. This is the entry point most callers use; [Parse] and [Prune]
// are exported separately for tooling that wants to inspect the AST.
func Compile(src string, th Thresholds) (*Program, error) {
	prog, err := Parse(src)
	if err != nil {
		return nil, err
	}
	prog.Commands = Prune(prog.Commands)
	attachAccel(prog.Commands, th)
	return prog, nil
}

func attachAccel(cmds []Stmt, th Thresholds) {
	for _, s := range cmds {
		switch v := s.(type) {
		case *SwitchStmt:
			v.Accel = buildAccel(v.Cases, th)
			for _, c := range v.Cases {
				attachAccel(c.Body, th)
			}
		case *IfStmt:
			attachAccel(v.Then, th)
			attachAccel(v.Else, th)
			attachAccel(v.Undef, th)
		case *blockStmt:
			attachAccel(v.Stmts, th)
		}
	}
}

// terminal is used internally to unwind the command-list walk once an
// accept/reject statement fires.
type terminal struct{ v Verdict }

func (terminal) Error() string { return "filter: terminal verdict" }

// Run executes prog against args and returns the terminal verdict. A
// program that never reaches accept/reject returns VerdictMissing and a
// non-nil error wrapping [herrors.ErrCodeFilterVerdict], matching the
// "falling off the end is a hard error" rule of §4.3.
func Run(ctx context.Context, prog *Program, args *Args) (Verdict, error) {
	err := execStmts(ctx, prog.Commands, args)
	if t, ok := err.(terminal); ok {
		observability.Filter().OnVerdict(ctx, verdictName(t.v.Kind), t.v.Message)
		return t.v, nil
	}
	if err != nil {
		return Verdict{Kind: VerdictReject}, err
	}
	observability.Filter().OnMissingVerdict(ctx)
	return Verdict{Kind: VerdictMissing}, herrors.New(herrors.ErrCodeFilterVerdict, "program terminated without accept or reject")
}

func verdictName(k VerdictKind) string {
	switch k {
	case VerdictAccept:
		return "accept"
	case VerdictReject:
		return "reject"
	default:
		return "missing"
	}
}

func execStmts(ctx context.Context, stmts []Stmt, args *Args) error {
	for _, s := range stmts {
		if err := execStmt(ctx, s, args); err != nil {
			return err
		}
	}
	return nil
}

func execStmt(ctx context.Context, s Stmt, args *Args) error {
	switch v := s.(type) {
	case *blockStmt:
		return execStmts(ctx, v.Stmts, args)

	case *AssignStmt:
		val, err := evalExpr(v.Expr, args)
		if err != nil {
			return err
		}
		return args.set(v.LV, val)

	case *AddStmt:
		val, err := evalExpr(v.Expr, args)
		if err != nil {
			return err
		}
		return args.set(v.LV, val)

	case *DeleteStmt:
		return args.delete(v.LV)

	case *LogStmt:
		val, err := evalExpr(v.Expr, args)
		if err != nil {
			return err
		}
		logLine(args, v.Level, val.Printable())
		return nil

	case *AcceptStmt:
		msg := ""
		if v.Msg != nil {
			val, err := evalExpr(v.Msg, args)
			if err != nil {
				return err
			}
			msg = val.Printable()
		}
		return terminal{v: Verdict{Kind: VerdictAccept, Message: msg}}

	case *RejectStmt:
		msg := ""
		if v.Msg != nil {
			val, err := evalExpr(v.Msg, args)
			if err != nil {
				return err
			}
			msg = val.Printable()
		}
		return terminal{v: Verdict{Kind: VerdictReject, Message: msg}}

	case *IfStmt:
		t, err := evalCond(v.Cond, args)
		if err != nil {
			return err
		}
		switch t {
		case condTrue:
			return execStmts(ctx, v.Then, args)
		case condFalse:
			return execStmts(ctx, v.Else, args)
		default:
			return execStmts(ctx, v.Undef, args)
		}

	case *SwitchStmt:
		return execSwitch(ctx, v, args)

	default:
		return nil
	}
}

func logLine(args *Args, level LogLevel, msg string) {
	if args.Logger == nil {
		return
	}
	switch level {
	case LogDebug:
		args.Logger.Debug(msg)
	case LogWarning:
		args.Logger.Warn(msg)
	case LogError:
		args.Logger.Error(msg)
	default:
		args.Logger.Info(msg)
	}
}

// execSwitch evaluates the scrutinee once, then runs every distinct
// matching case's body in source order (§9: "execute each distinct case
// in source order" resolves the ambiguity over whether multiple matching
// arms should all fire). Accelerators are consulted first; the residual
// linear cases are always scanned afterward and merged back into source
// order.
func execSwitch(ctx context.Context, sw *SwitchStmt, args *Args) error {
	val, err := evalExpr(sw.Scrutinee, args)
	if err != nil {
		return err
	}
	if val.IsUndef() {
		return nil
	}

	var hits []*SwitchCase
	a := sw.Accel
	if a == nil {
		// Compile always attaches an accelerator; this only triggers for
		// a [SwitchStmt] built by hand outside of Compile, so rebuilding
		// per-call (without mutating the shared *Program) is acceptable.
		a = buildAccel(sw.Cases, DefaultThresholds())
	}

	if c, ok := a.hashEQ[caseKey(val)]; ok {
		hits = append(hits, c)
	}
	if a.trie != nil && val.Kind == KindString {
		hits = append(hits, a.trie.MatchAll(val.Str)...)
	}
	if a.ranges != nil && val.Kind == KindInt {
		hits = append(hits, a.ranges.MatchAll(val.Int)...)
	}
	for _, c := range a.linear {
		if matchCase(c, val) {
			hits = append(hits, c)
		}
	}

	sortCasesByID(hits)
	for _, c := range hits {
		if err := execStmts(ctx, c.Body, args); err != nil {
			return err
		}
	}
	return nil
}

func sortCasesByID(cs []*SwitchCase) {
	for i := 1; i < len(cs); i++ {
		for j := i; j > 0 && cs[j-1].CaseID > cs[j].CaseID; j-- {
			cs[j-1], cs[j] = cs[j], cs[j-1]
		}
	}
}

func matchCase(c *SwitchCase, val Value) bool {
	res := evalCompare(c.Op, val, c.Lit, false)
	return res.ok && !res.undef
}

func evalExpr(e Expr, args *Args) (Value, error) {
	switch v := e.(type) {
	case *LitExpr:
		return v.Val, nil
	case *LValueExpr:
		return args.get(v.LV)
	case *BinaryExpr:
		l, err := evalExpr(v.L, args)
		if err != nil {
			return Value{}, err
		}
		r, err := evalExpr(v.R, args)
		if err != nil {
			return Value{}, err
		}
		return arith(v.Op, l, r), nil
	case *ConcatExpr:
		vals := make([]Value, len(v.Parts))
		for i, p := range v.Parts {
			val, err := evalExpr(p, args)
			if err != nil {
				return Value{}, err
			}
			vals[i] = val
		}
		return concat(vals), nil
	default:
		return Value{}, herrors.New(herrors.ErrCodeFilterRuntime, "unknown expression node")
	}
}

func evalCond(c Cond, args *Args) (condTruth, error) {
	switch v := c.(type) {
	case *litCond:
		return v.val, nil

	case *DefinedCond:
		val, err := args.get(v.LV)
		if err != nil {
			return condFalse, nil
		}
		if val.IsUndef() {
			return condFalse, nil
		}
		return condTrue, nil

	case *CompareCond:
		l, err := evalExpr(v.L, args)
		if err != nil {
			return condUndef, err
		}
		r, err := evalExpr(v.R, args)
		if err != nil {
			return condUndef, err
		}
		if l.IsUndef() || r.IsUndef() {
			return condUndef, nil
		}
		res := evalCompare(v.Op, l, r, v.CaseInsensitive)
		if res.undef {
			return condUndef, nil
		}
		if res.ok {
			return condTrue, nil
		}
		return condFalse, nil

	case *AndCond:
		l, err := evalCond(v.L, args)
		if err != nil {
			return condUndef, err
		}
		if l == condFalse {
			return condFalse, nil
		}
		r, err := evalCond(v.R, args)
		if err != nil {
			return condUndef, err
		}
		if l == condUndef || r == condUndef {
			if r == condFalse {
				return condFalse, nil
			}
			return condUndef, nil
		}
		if r == condFalse {
			return condFalse, nil
		}
		return condTrue, nil

	case *OrCond:
		l, err := evalCond(v.L, args)
		if err != nil {
			return condUndef, err
		}
		if l == condTrue {
			return condTrue, nil
		}
		r, err := evalCond(v.R, args)
		if err != nil {
			return condUndef, err
		}
		if l == condUndef || r == condUndef {
			if r == condTrue {
				return condTrue, nil
			}
			return condUndef, nil
		}
		if r == condTrue {
			return condTrue, nil
		}
		return condFalse, nil

	case *BoolEqCond:
		l, err := evalCond(v.L, args)
		if err != nil {
			return condUndef, err
		}
		r, err := evalCond(v.R, args)
		if err != nil {
			return condUndef, err
		}
		if l == condUndef || r == condUndef {
			return condUndef, nil
		}
		eq := l == r
		if v.Negate {
			eq = !eq
		}
		if eq {
			return condTrue, nil
		}
		return condFalse, nil

	default:
		return condUndef, herrors.New(herrors.ErrCodeFilterRuntime, "unknown condition node")
	}
}

// compareResult is the outcome of a single comparison operator
// application: undef when either side carries no value or a pattern
// fails to compile, ok otherwise reporting the boolean result.
type compareResult struct {
	ok    bool
	undef bool
}

func evalCompare(op CompareOp, l, r Value, ci bool) compareResult {
	switch op {
	case OpEQ:
		return compareResult{ok: valuesEqual(l, r, ci)}
	case OpNE:
		return compareResult{ok: !valuesEqual(l, r, ci)}
	case OpLT, OpGT, OpLE, OpGE:
		return compareOrder(op, l, r, ci)
	case OpRegex, OpNRegex:
		return compareRegex(op, l, r, ci)
	case OpGlob, OpNGlob:
		return compareGlob(op, l, r, ci)
	case OpRange, OpNRange:
		return compareRange(op, l, r)
	default:
		return compareResult{undef: true}
	}
}

func valuesEqual(l, r Value, ci bool) bool {
	if l.Kind == KindInt && r.Kind == KindInt {
		return l.Int == r.Int
	}
	ls, rs := l.Printable(), r.Printable()
	if ci {
		return strings.EqualFold(ls, rs)
	}
	return ls == rs
}

func compareOrder(op CompareOp, l, r Value, ci bool) compareResult {
	var cmp int
	if l.Kind == KindInt && r.Kind == KindInt {
		switch {
		case l.Int < r.Int:
			cmp = -1
		case l.Int > r.Int:
			cmp = 1
		}
	} else {
		ls, rs := l.Printable(), r.Printable()
		if ci {
			ls, rs = strings.ToLower(ls), strings.ToLower(rs)
		}
		cmp = strings.Compare(ls, rs)
	}
	switch op {
	case OpLT:
		return compareResult{ok: cmp < 0}
	case OpGT:
		return compareResult{ok: cmp > 0}
	case OpLE:
		return compareResult{ok: cmp <= 0}
	default:
		return compareResult{ok: cmp >= 0}
	}
}

func compareRegex(op CompareOp, l, r Value, ci bool) compareResult {
	pattern := r.Str
	if ci {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return compareResult{undef: true}
	}
	matched := re.MatchString(l.Printable())
	if op == OpNRegex {
		matched = !matched
	}
	return compareResult{ok: matched}
}

func compareGlob(op CompareOp, l, r Value, ci bool) compareResult {
	s := l.Printable()
	pattern := r.Str
	if ci {
		s = strings.ToLower(s)
		pattern = strings.ToLower(pattern)
	}
	prefix, suffix, hasStar := strings.Cut(pattern, "*")
	var matched bool
	if !hasStar {
		matched = s == pattern
	} else {
		matched = strings.HasPrefix(s, prefix) && strings.HasSuffix(s, suffix) && len(s) >= len(prefix)+len(suffix)
	}
	if op == OpNGlob {
		matched = !matched
	}
	return compareResult{ok: matched}
}

func compareRange(op CompareOp, l, r Value) compareResult {
	if l.Kind != KindInt {
		return compareResult{undef: true}
	}
	lo, hi := parseRange(r.Str)
	in := l.Int >= lo && l.Int <= hi
	if op == OpNRange {
		in = !in
	}
	return compareResult{ok: in}
}

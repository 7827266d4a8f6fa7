package filter

// Prune runs constant folding, dead-branch elimination, and switch-case
// collapsing to a fixed point: each pass may expose new opportunities for
// the others (folding an `if` condition can make its body dead, which can
// remove the last reference to a switch scrutinee, etc.), so Prune
// repeats until a pass produces no change.
func Prune(cmds []Stmt) []Stmt {
	for {
		next, changed := pruneStmts(cmds)
		cmds = next
		if !changed {
			return cmds
		}
	}
}

func pruneStmts(cmds []Stmt) ([]Stmt, bool) {
	changed := false
	out := make([]Stmt, 0, len(cmds))
	for _, s := range cmds {
		ns, ch := pruneStmt(s)
		if ch {
			changed = true
		}
		if ns != nil {
			out = append(out, ns)
		}
	}
	return out, changed
}

func pruneStmt(s Stmt) (Stmt, bool) {
	switch v := s.(type) {
	case *IfStmt:
		cond, condFolded := foldCond(v.Cond)
		then, thenCh := pruneStmts(v.Then)
		els, elsCh := pruneStmts(v.Else)
		und, undCh := pruneStmts(v.Undef)
		changed := condFolded || thenCh || elsCh || undCh

		if lit, ok := cond.(*litCond); ok {
			changed = true
			switch lit.val {
			case condTrue:
				return wrapBlock(then), changed
			case condFalse:
				return wrapBlock(els), changed
			case condUndef:
				return wrapBlock(und), changed
			}
		}
		return &IfStmt{Cond: cond, Then: then, Else: els, Undef: und}, changed

	case *SwitchStmt:
		var newCases []*SwitchCase
		changed := false
		for _, c := range v.Cases {
			body, ch := pruneStmts(c.Body)
			if ch {
				changed = true
			}
			newCases = append(newCases, &SwitchCase{CaseID: c.CaseID, Op: c.Op, Lit: c.Lit, Body: body})
		}
		if len(newCases) == 0 {
			return nil, true
		}
		if val, ok := constExpr(v.Scrutinee); ok && !val.IsUndef() {
			var only *SwitchCase
			hits := 0
			for _, c := range newCases {
				if matchCase(c, val) {
					only = c
					hits++
				}
			}
			if hits == 1 {
				return wrapBlock(only.Body), true
			}
		}
		return &SwitchStmt{Scrutinee: v.Scrutinee, Cases: newCases}, changed

	default:
		return s, false
	}
}

// wrapBlock flattens a (possibly empty) statement block for splicing back
// into a parent command list. Returning nil for an empty block lets the
// caller drop it entirely rather than emit a no-op marker statement.
func wrapBlock(stmts []Stmt) Stmt {
	if len(stmts) == 0 {
		return nil
	}
	if len(stmts) == 1 {
		return stmts[0]
	}
	return &blockStmt{Stmts: stmts}
}

// blockStmt groups statements produced by dead-branch collapsing; eval
// treats it identically to inlining the statements in place.
type blockStmt struct{ Stmts []Stmt }

func (*blockStmt) stmtNode() {}

type condTruth int

const (
	condTrue condTruth = iota
	condFalse
	condUndef
)

// litCond is a constant-folded condition result injected during pruning.
type litCond struct{ val condTruth }

func (*litCond) condNode() {}

// foldCond attempts to reduce cond to a [*litCond] by folding constant
// subexpressions; conditions that still depend on runtime state are
// returned with their sub-conditions recursively folded.
func foldCond(c Cond) (Cond, bool) {
	switch v := c.(type) {
	case *CompareCond:
		l, lok := constExpr(v.L)
		r, rok := constExpr(v.R)
		if lok && rok {
			return &litCond{val: foldCompare(v.Op, l, r, v.CaseInsensitive)}, true
		}
		return v, false

	case *AndCond:
		l, lch := foldCond(v.L)
		r, rch := foldCond(v.R)
		if lit, ok := l.(*litCond); ok {
			if lit.val == condFalse {
				return &litCond{val: condFalse}, true
			}
			if lit.val == condUndef {
				return &litCond{val: condUndef}, true
			}
			return r, true
		}
		if lit, ok := r.(*litCond); ok && lit.val == condFalse {
			return &litCond{val: condFalse}, true
		}
		return &AndCond{L: l, R: r}, lch || rch

	case *OrCond:
		l, lch := foldCond(v.L)
		r, rch := foldCond(v.R)
		if lit, ok := l.(*litCond); ok {
			if lit.val == condTrue {
				return &litCond{val: condTrue}, true
			}
			if lit.val == condUndef {
				return &litCond{val: condUndef}, true
			}
			return r, true
		}
		if lit, ok := r.(*litCond); ok && lit.val == condTrue {
			return &litCond{val: condTrue}, true
		}
		return &OrCond{L: l, R: r}, lch || rch

	default:
		return c, false
	}
}

// constExpr evaluates e if it is built entirely from literals, returning
// ok == false the moment it touches any lvalue (whose value isn't known
// until runtime).
func constExpr(e Expr) (Value, bool) {
	switch v := e.(type) {
	case *LitExpr:
		return v.Val, true
	case *BinaryExpr:
		l, lok := constExpr(v.L)
		r, rok := constExpr(v.R)
		if lok && rok {
			return arith(v.Op, l, r), true
		}
		return Value{}, false
	case *ConcatExpr:
		vals := make([]Value, len(v.Parts))
		for i, p := range v.Parts {
			val, ok := constExpr(p)
			if !ok {
				return Value{}, false
			}
			vals[i] = val
		}
		return concat(vals), true
	default:
		return Value{}, false
	}
}

func foldCompare(op CompareOp, l, r Value, ci bool) condTruth {
	if l.Undef || r.Undef {
		return condUndef
	}
	res := evalCompare(op, l, r, ci)
	if res.undef {
		return condUndef
	}
	if res.ok {
		return condTrue
	}
	return condFalse
}

package filter

import (
	"context"

	"github.com/charmbracelet/log"
)

// ConfJournalMode selects how writes to `conf.*` lvalues are recorded
// (§4.3 "config_changes_mode").
type ConfJournalMode int

const (
	// ConfJournalOff never records conf writes.
	ConfJournalOff ConfJournalMode = iota
	// ConfJournalLast records only the most recent write per key.
	ConfJournalLast
	// ConfJournalAll appends every write per key in order.
	ConfJournalAll
)

// Args is the per-evaluation binding environment a compiled [*Program]
// runs against: the caller's raw fields, an optional attribute object,
// the config namespace (with its write journal), and the user-variable
// slot array sized by [Program.NumUser].
type Args struct {
	Raw  RawBinder
	Attr RawBinder // may be nil: defined(attr.x) is then always false

	Conf        map[string]Value
	ConfMode    ConfJournalMode
	confJournal map[string][]Value

	User []Value

	Logger *log.Logger
}

// NewArgs builds an [Args] for one evaluation of prog against raw.
func NewArgs(prog *Program, raw RawBinder) *Args {
	return &Args{
		Raw:  raw,
		Conf: map[string]Value{},
		User: make([]Value, prog.NumUser),
	}
}

// WithAttr attaches an attribute binder.
func (a *Args) WithAttr(attr RawBinder) *Args {
	a.Attr = attr
	return a
}

// WithLogger attaches a structured logger used by log/debug/warning/error
// statements; a nil logger silently discards them.
func (a *Args) WithLogger(l *log.Logger) *Args {
	a.Logger = l
	return a
}

func (a *Args) journal(key string, v Value) {
	switch a.ConfMode {
	case ConfJournalLast:
		if a.confJournal == nil {
			a.confJournal = map[string][]Value{}
		}
		a.confJournal[key] = []Value{v}
	case ConfJournalAll:
		if a.confJournal == nil {
			a.confJournal = map[string][]Value{}
		}
		a.confJournal[key] = append(a.confJournal[key], v)
	}
}

// Journal returns the recorded conf writes for key, oldest first, or nil
// if journaling is off or key was never written.
func (a *Args) Journal(key string) []Value {
	return a.confJournal[key]
}

func (a *Args) get(lv LValue) (Value, error) {
	switch lv.Kind {
	case LVRaw:
		v, ok := a.Raw.GetField(lv.Name)
		if !ok {
			return Value{}, undefinedFieldError(lv.Name)
		}
		return v, nil
	case LVAttr:
		if a.Attr == nil {
			return UndefOf(KindString), nil
		}
		v, ok := a.Attr.GetField(lv.Name)
		if !ok {
			return UndefOf(KindString), nil
		}
		return v, nil
	case LVConf:
		v, ok := a.Conf[lv.Name]
		if !ok {
			return UndefOf(KindString), nil
		}
		return v, nil
	case LVUser:
		if lv.Slot < 0 || lv.Slot >= len(a.User) {
			return Value{}, undefinedFieldError(lv.Name)
		}
		return a.User[lv.Slot], nil
	default:
		return Value{}, undefinedFieldError(lv.Name)
	}
}

func (a *Args) set(lv LValue, v Value) error {
	switch lv.Kind {
	case LVRaw:
		return a.Raw.SetField(lv.Name, v)
	case LVAttr:
		if a.Attr == nil {
			return undefinedFieldError(lv.Name)
		}
		return a.Attr.SetField(lv.Name, v)
	case LVConf:
		a.Conf[lv.Name] = v
		a.journal(lv.Name, v)
		return nil
	case LVUser:
		if lv.Slot < 0 || lv.Slot >= len(a.User) {
			return undefinedFieldError(lv.Name)
		}
		a.User[lv.Slot] = v
		return nil
	default:
		return undefinedFieldError(lv.Name)
	}
}

func (a *Args) delete(lv LValue) error {
	return a.set(lv, UndefOf(lvalueKind(lv, a)))
}

func lvalueKind(lv LValue, a *Args) Kind {
	v, err := a.get(lv)
	if err != nil {
		return KindString
	}
	return v.Kind
}

type ctxKey struct{}

// WithArgs stores args on ctx so nested evaluation helpers and hooks can
// retrieve the active binding environment.
func WithArgs(ctx context.Context, a *Args) context.Context {
	return context.WithValue(ctx, ctxKey{}, a)
}

// ArgsFromContext retrieves the [*Args] stored by [WithArgs].
func ArgsFromContext(ctx context.Context) (*Args, bool) {
	a, ok := ctx.Value(ctxKey{}).(*Args)
	return a, ok
}

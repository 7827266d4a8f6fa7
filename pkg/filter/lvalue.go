package filter

import "fmt"

// RawBinder exposes a caller-owned struct (the URL/card under test, or an
// attribute object) as a set of named fields the filter program can read
// and, for mutable binders, write. Gather and indexer callers implement
// this over their own request/card types rather than reflecting on them,
// matching the teacher's "explicit binder, no reflection" wiring style.
type RawBinder interface {
	// GetField returns the named field's value. ok is false when the
	// field name is unknown to this binder (reported when the program
	// runs, as an ErrCodeFilterRuntime error), as opposed to Value.Undef
	// which means "known field, no value yet".
	GetField(name string) (v Value, ok bool)

	// SetField assigns the named field. Binders that are read-only (for
	// example a frozen attribute snapshot) return an error.
	SetField(name string, v Value) error
}

// ReadOnlyBinder wraps a RawBinder's reads and rejects all writes with a
// filter runtime error; used for attribute objects that must not be
// mutated mid-evaluation.
type ReadOnlyBinder struct{ RawBinder }

func (ReadOnlyBinder) SetField(name string, _ Value) error {
	return fmt.Errorf("filter: field %q is read-only", name)
}

// MapBinder is a simple RawBinder backed by a map, primarily useful for
// tests. Unlike a struct-backed binder, it has no fixed field set: a
// missing key reads back as an undefined string rather than an unknown-
// field error, since a map can't distinguish "no such field" from
// "field not yet populated".
type MapBinder map[string]Value

func (m MapBinder) GetField(name string) (Value, bool) {
	v, ok := m[name]
	if !ok {
		return UndefOf(KindString), true
	}
	return v, true
}

func (m MapBinder) SetField(name string, v Value) error {
	m[name] = v
	return nil
}

package filter

import "fmt"

// Kind is the scalar type of a [Value].
type Kind int

// Value kinds supported by declarations and literals.
const (
	KindInt Kind = iota
	KindString
	KindRegex
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindString:
		return "string"
	case KindRegex:
		return "regex"
	default:
		return "unknown"
	}
}

// Value is a three-valued (defined/undefined) scalar: every lvalue read,
// literal, and expression result is a Value. Undef propagates through
// every operator except string concatenation (§4.3 Evaluate).
type Value struct {
	Kind  Kind
	Int   int64
	Str   string
	Undef bool
}

// Int64 builds a defined integer value.
func Int64(v int64) Value { return Value{Kind: KindInt, Int: v} }

// Str builds a defined string value.
func Str(v string) Value { return Value{Kind: KindString, Str: v} }

// UndefOf builds an undefined value of the given kind.
func UndefOf(k Kind) Value { return Value{Kind: k, Undef: true} }

// IsUndef reports whether v carries no defined value.
func (v Value) IsUndef() bool { return v.Undef }

// Printable renders v for string concatenation: defined values render as
// themselves, undefined values render as "<undefined TYPE>" per §4.3
// ("string concatenation . is the sole exception that treats undef
// operands as a printable <undefined T>").
func (v Value) Printable() string {
	if v.Undef {
		return fmt.Sprintf("<undefined %s>", v.Kind)
	}
	switch v.Kind {
	case KindInt:
		return fmt.Sprintf("%d", v.Int)
	default:
		return v.Str
	}
}

// Truthy reports whether a defined value is non-zero/non-empty. Calling
// Truthy on an undefined value always returns false; callers that need
// three-valued semantics should check IsUndef first.
func (v Value) Truthy() bool {
	if v.Undef {
		return false
	}
	switch v.Kind {
	case KindInt:
		return v.Int != 0
	default:
		return v.Str != ""
	}
}

// concat implements the string-concatenation operator `.`, the sole
// operator that does not propagate undef.
func concat(parts []Value) Value {
	out := ""
	for _, p := range parts {
		out += p.Printable()
	}
	return Str(out)
}

// arith applies a binary arithmetic operator to two int values,
// propagating undef.
func arith(op string, l, r Value) Value {
	if l.Undef || r.Undef {
		return UndefOf(KindInt)
	}
	switch op {
	case "+":
		return Int64(l.Int + r.Int)
	case "-":
		return Int64(l.Int - r.Int)
	case "*":
		return Int64(l.Int * r.Int)
	case "/":
		if r.Int == 0 {
			return UndefOf(KindInt)
		}
		return Int64(l.Int / r.Int)
	case "%":
		if r.Int == 0 {
			return UndefOf(KindInt)
		}
		return Int64(l.Int % r.Int)
	default:
		return UndefOf(KindInt)
	}
}

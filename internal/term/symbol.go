package term

import (
	"strconv"
	"strings"
)

type Kind int

const (
	KindNumber Kind = iota
	KindString
	KindFunction
)

// Symbol is an immutable ground term. A constant is a function without arguments.
type Symbol struct {
	kind   Kind
	number int
	name   string
	args   []Symbol
	repr   string
}

func Number(n int) Symbol {
	s := Symbol{kind: KindNumber, number: n}
	s.repr = strconv.Itoa(n)
	return s
}

func String(v string) Symbol {
	s := Symbol{kind: KindString, name: v}
	s.repr = strconv.Quote(v)
	return s
}

func Function(name string, args ...Symbol) Symbol {
	cp := make([]Symbol, len(args))
	copy(cp, args)
	s := Symbol{kind: KindFunction, name: name, args: cp}
	s.repr = render(name, cp)
	return s
}

func Constant(name string) Symbol {
	return Function(name)
}

func render(name string, args []Symbol) string {
	if len(args) == 0 {
		return name
	}
	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('(')
	for i, a := range args {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(a.repr)
	}
	b.WriteByte(')')
	return b.String()
}

func (s Symbol) Kind() Kind { return s.kind }

// Name returns the function name, or the value of a string symbol.
func (s Symbol) Name() string { return s.name }

func (s Symbol) Number() int { return s.number }

func (s Symbol) Arity() int { return len(s.args) }

// Arguments returns a copy of the argument list.
func (s Symbol) Arguments() []Symbol {
	out := make([]Symbol, len(s.args))
	copy(out, s.args)
	return out
}

// Arg returns the i-th argument without copying the argument list.
func (s Symbol) Arg(i int) Symbol { return s.args[i] }

// Match reports whether s is a function symbol with the given name and arity.
func (s Symbol) Match(name string, arity int) bool {
	return s.kind == KindFunction && s.name == name && len(s.args) == arity
}

// String is the canonical text of the symbol and doubles as its identity.
func (s Symbol) String() string { return s.repr }

func (s Symbol) Equal(o Symbol) bool { return s.repr == o.repr }

func (s Symbol) IsZero() bool { return s.repr == "" }

// Signature returns "name/arity" for function symbols.
func (s Symbol) Signature() string {
	if s.kind != KindFunction {
		return ""
	}
	return s.name + "/" + strconv.Itoa(len(s.args))
}

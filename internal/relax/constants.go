package relax

import (
	"github.com/golang/glog"

	"lnsSolver/internal/opt"
	"lnsSolver/internal/term"
)

// RandomConstants освобождает случайные константы: фиксируются только
// факты, не содержащие ни одной из них среди своих аргументов.
type RandomConstants struct {
	sized
}

func (o *RandomConstants) MoveAssumptions(incumbent opt.Solution) ([]term.Symbol, error) {
	m, err := requireModel(incumbent)
	if err != nil {
		return nil, err
	}

	// константы в порядке первого появления
	var constants []string
	seen := make(map[string]bool)
	for _, s := range m.Shown {
		for _, a := range s.Arguments() {
			k := a.String()
			if !seen[k] {
				seen[k] = true
				constants = append(constants, k)
			}
		}
	}

	relaxed := make(map[string]bool)
	for _, i := range sample(o.rng, len(constants), o.relaxedCount(len(constants))) {
		relaxed[constants[i]] = true
	}

	asm := make([]term.Symbol, 0, len(m.Shown))
	for _, s := range m.Shown {
		if disjoint(s, relaxed) {
			asm = append(asm, s)
		}
	}
	glog.V(2).Infof("%s: освобождено %d / %d фактов", o.Name(), len(m.Shown)-len(asm), len(m.Shown))
	return asm, nil
}

func disjoint(s term.Symbol, relaxed map[string]bool) bool {
	for i := 0; i < s.Arity(); i++ {
		if relaxed[s.Arg(i).String()] {
			return false
		}
	}
	return true
}

func (o *RandomConstants) Name() string { return o.label() + " random constants" }

func (o *RandomConstants) Flatten() []Operator {
	var out []Operator
	for _, s := range o.singletons() {
		out = append(out, &RandomConstants{sized: s})
	}
	return out
}

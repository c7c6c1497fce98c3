package relax

import (
	"github.com/golang/glog"

	"lnsSolver/internal/opt"
	"lnsSolver/internal/term"
)

// RandomAtoms фиксирует случайное подмножество выводимых фактов.
type RandomAtoms struct {
	sized
}

func (o *RandomAtoms) MoveAssumptions(incumbent opt.Solution) ([]term.Symbol, error) {
	m, err := requireModel(incumbent)
	if err != nil {
		return nil, err
	}
	total := len(m.Shown)
	fixed := o.fixedCount(total)

	asm := make([]term.Symbol, 0, fixed)
	for _, i := range sample(o.rng, total, fixed) {
		asm = append(asm, m.Shown[i])
	}
	glog.V(2).Infof("%s: освобождено %d / %d фактов", o.Name(), total-fixed, total)
	return asm, nil
}

func (o *RandomAtoms) Name() string { return o.label() + " random atoms" }

func (o *RandomAtoms) Flatten() []Operator {
	var out []Operator
	for _, s := range o.singletons() {
		out = append(out, &RandomAtoms{sized: s})
	}
	return out
}

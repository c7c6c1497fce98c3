package relax

import (
	"fmt"

	"github.com/golang/glog"

	"lnsSolver/internal/opt"
	"lnsSolver/internal/term"
)

const (
	SelectPredicate = "_lns_select"
	FixPredicate    = "_lns_fix"
)

// Declarative берёт окрестность из самой программы:
// _lns_select(Id) перечисляет точки решения, _lns_fix(Atom, Id) связывает их с фактами.
// Именованный оператор читает _lns_select(Name, Id) и _lns_fix(Name, Atom, Id).
type Declarative struct {
	sized
	name string
}

func (o *Declarative) MoveAssumptions(incumbent opt.Solution) ([]term.Symbol, error) {
	m, err := requireModel(incumbent)
	if err != nil {
		return nil, err
	}

	var selects []term.Symbol
	fixes := make(map[string][]term.Symbol)
	for _, s := range m.Symbols {
		if o.name == "" {
			switch {
			case s.Match(SelectPredicate, 1):
				selects = append(selects, s.Arg(0))
			case s.Match(FixPredicate, 2):
				id := s.Arg(1).String()
				fixes[id] = append(fixes[id], s.Arg(0))
			}
			continue
		}
		switch {
		case s.Match(SelectPredicate, 2) && s.Arg(0).Name() == o.name:
			selects = append(selects, s.Arg(1))
		case s.Match(FixPredicate, 3) && s.Arg(0).Name() == o.name:
			id := s.Arg(2).String()
			fixes[id] = append(fixes[id], s.Arg(1))
		}
	}

	total := len(selects)
	if total == 0 {
		return nil, fmt.Errorf("%s: %w", o.Name(), ErrEmptySelection)
	}
	fixed := o.fixedCount(total)

	var asm []term.Symbol
	for _, i := range sample(o.rng, total, fixed) {
		asm = append(asm, fixes[selects[i].String()]...)
	}
	glog.V(2).Infof("%s: зафиксировано %d / %d точек выбора", o.Name(), fixed, total)
	return asm, nil
}

func (o *Declarative) Name() string {
	if o.name == "" {
		return "declarative size " + o.label()
	}
	return fmt.Sprintf("declarative(%s) size %s", o.name, o.label())
}

func (o *Declarative) Flatten() []Operator {
	var out []Operator
	for _, s := range o.singletons() {
		out = append(out, &Declarative{sized: s, name: o.name})
	}
	return out
}

// Package backend grounds programs into a gini SAT instance and answers
// time-bounded optimisation requests against it.
package backend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-air/gini"
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"
	"github.com/golang/glog"

	"lnsSolver/internal/opt"
	"lnsSolver/internal/program"
)

var (
	ErrNoProgram         = errors.New("backend: no program loaded")
	ErrNotGrounded       = errors.New("backend: program not grounded")
	ErrUnknownAssumption = errors.New("backend: assumption is not a program atom")
)

// pollInterval bounds how long a cancelled context waits for a running solve.
const pollInterval = time.Millisecond

// Gini implements opt.Backend on top of the gini CDCL solver.
// The objective bound only ever tightens; it is never relaxed between calls.
type Gini struct {
	opts Options

	prog *program.Program
	c    *logic.C
	g    *gini.Gini

	byAlias  map[string]z.Lit
	bySymbol map[string]z.Lit
	levels   []level
	grounded bool

	calls int
}

var _ opt.Backend = (*Gini)(nil)

func NewGini(opts ...Option) *Gini {
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	return &Gini{opts: o}
}

func (b *Gini) LoadProgram(text string) error {
	p, err := program.ParseString(text)
	if err != nil {
		return fmt.Errorf("backend: load: %w", err)
	}
	b.prog = p
	b.grounded = false
	return nil
}

func (b *Gini) Ground() error {
	if b.prog == nil {
		return ErrNoProgram
	}
	b.c = logic.NewC()
	b.g = gini.New()
	b.byAlias = make(map[string]z.Lit, len(b.prog.Atoms))
	b.bySymbol = make(map[string]z.Lit, len(b.prog.Atoms))
	b.levels = nil
	b.clause(b.c.T)

	for _, a := range b.prog.Atoms {
		m := b.c.Lit()
		b.byAlias[a.Alias] = m
		b.bySymbol[a.Symbol.String()] = m
		// registers the variable with the solver even if no constraint mentions it
		b.clause(b.c.T, m)
	}
	for _, f := range b.prog.Formulas {
		if err := b.encodeFormula(f); err != nil {
			return fmt.Errorf("backend: ground: %w", err)
		}
	}
	for _, cnt := range b.prog.Counts {
		b.encodeCount(cnt)
	}
	if err := b.encodeObjective(b.prog); err != nil {
		return fmt.Errorf("backend: ground: %w", err)
	}
	b.grounded = true
	glog.V(2).Infof("backend: grounded %d atoms, %d formulas, %d counts, %d objective levels",
		len(b.prog.Atoms), len(b.prog.Formulas), len(b.prog.Counts), len(b.levels))
	return nil
}

func (b *Gini) SupportsNativeOptimization() bool { return true }

// Solve runs one request. ModelLimit 1 returns the first model and tightens
// the bound according to req.StrictBound; any other limit keeps improving
// with strict bounds until the limit, unsat or the budget (0 means no limit).
func (b *Gini) Solve(ctx context.Context, req opt.Request) (opt.Solution, error) {
	if !b.grounded {
		return opt.Solution{}, ErrNotGrounded
	}
	if err := ctx.Err(); err != nil {
		return opt.Unknown(), err
	}
	assumed := make([]z.Lit, 0, len(req.Assumptions))
	for _, s := range req.Assumptions {
		m, ok := b.bySymbol[s.String()]
		if !ok {
			return opt.Solution{}, fmt.Errorf("%w: %s", ErrUnknownAssumption, s)
		}
		assumed = append(assumed, m)
	}

	deadline := time.Now().Add(req.TimeLimit)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	if req.ModelLimit == 1 {
		sol, err := b.solveOnce(ctx, assumed, time.Until(deadline))
		if err != nil {
			return sol, err
		}
		if sol.Sat == opt.SatTrue {
			b.tighten(sol.Cost, req.StrictBound)
		}
		return sol, nil
	}

	best := opt.Unknown()
	for models := 0; req.ModelLimit <= 0 || models < req.ModelLimit; models++ {
		if err := ctx.Err(); err != nil {
			return best, err
		}
		sol, err := b.solveOnce(ctx, assumed, time.Until(deadline))
		if err != nil {
			return best, err
		}
		switch sol.Sat {
		case opt.SatTrue:
			best = sol
			if sol.Exhausted {
				return best, nil
			}
			b.tighten(sol.Cost, true)
		case opt.SatFalse:
			if best.Sat == opt.SatTrue {
				best.Exhausted = true
				return best, nil
			}
			return sol, nil
		default:
			return best, nil
		}
	}
	return best, nil
}

func (b *Gini) solveOnce(ctx context.Context, assumed []z.Lit, budget time.Duration) (opt.Solution, error) {
	if budget <= 0 {
		return opt.Unknown(), nil
	}
	b.calls++
	b.g.Assume(assumed...)
	start := time.Now()
	res, err := b.try(ctx, budget)
	glog.V(2).Infof("backend: call %d with %d assumptions: %d after %s", b.calls, len(assumed), res, time.Since(start))
	if err != nil {
		return opt.Unknown(), err
	}
	switch res {
	case 1:
		sol := opt.Solution{Sat: opt.SatTrue, Model: b.model(), Cost: b.cost()}
		if !b.prog.HasObjective() {
			sol.Exhausted = true
		}
		for i, lv := range b.levels {
			sol.Model.Assignments[fmt.Sprintf("cost@%d", lv.priority)] = sol.Cost[i]
		}
		return sol, nil
	case -1:
		return opt.Unsatisfiable(), nil
	default:
		return opt.Unknown(), nil
	}
}

// try runs the solver in the background for at most budget, polling for a
// result and stopping the search as soon as ctx is done.
func (b *Gini) try(ctx context.Context, budget time.Duration) (int, error) {
	s := b.g.GoSolve()
	timer := time.NewTimer(budget)
	defer timer.Stop()
	tick := time.NewTicker(pollInterval)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			s.Stop()
			return 0, ctx.Err()
		case <-timer.C:
			return s.Stop(), nil
		case <-tick.C:
			if res, done := s.Test(); done {
				return res, nil
			}
		}
	}
}

// model lists true atoms in declaration order.
func (b *Gini) model() *opt.Model {
	m := &opt.Model{Assignments: make(map[string]int)}
	for _, a := range b.prog.Atoms {
		if !b.g.Value(b.byAlias[a.Alias]) {
			continue
		}
		m.Symbols = append(m.Symbols, a.Symbol)
		if b.prog.IsShown(a.Symbol) {
			m.Shown = append(m.Shown, a.Symbol)
		}
	}
	return m
}

func (b *Gini) cost() opt.Cost {
	if !b.prog.HasObjective() {
		return opt.Cost{}
	}
	cost := make(opt.Cost, len(b.levels))
	for i, lv := range b.levels {
		for _, w := range b.prog.Minimize {
			if w.Priority != lv.priority {
				continue
			}
			if b.g.Value(b.byAlias[w.Lit.Alias]) != w.Lit.Negated {
				cost[i] += w.Weight
			}
		}
	}
	return cost
}

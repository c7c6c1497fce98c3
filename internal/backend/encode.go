package backend

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/crillab/gophersat/bf"
	"github.com/crillab/gophersat/solver"
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"

	"lnsSolver/internal/program"
)

// level is one priority of the objective, counted by a sorting network.
type level struct {
	priority int
	card     *logic.CardSort
}

func (b *Gini) clause(ms ...z.Lit) {
	for _, m := range ms {
		b.g.Add(m)
	}
	b.g.Add(z.LitNull)
}

// encodeFormula converts f to CNF with gophersat and maps its variables back to atom literals.
// Tseitin auxiliaries become fresh circuit inputs.
func (b *Gini) encodeFormula(f program.Formula) error {
	parsed, err := bf.Parse(strings.NewReader(f.Text))
	if err != nil {
		return fmt.Errorf("line %d: %w", f.Line, err)
	}
	var buf bytes.Buffer
	if err := bf.Dimacs(parsed, &buf); err != nil {
		return fmt.Errorf("line %d: %w", f.Line, err)
	}
	names, err := dimacsNames(buf.Bytes())
	if err != nil {
		return fmt.Errorf("line %d: %w", f.Line, err)
	}
	pb, err := solver.ParseCNF(bytes.NewReader(buf.Bytes()))
	if err != nil {
		return fmt.Errorf("line %d: %w", f.Line, err)
	}
	if pb.Status == solver.Unsat {
		b.clause(b.c.F)
		return nil
	}

	vars := make([]z.Lit, pb.NbVars+1)
	for idx, name := range names {
		m, ok := b.byAlias[name]
		if !ok {
			return fmt.Errorf("line %d: unknown alias %q", f.Line, name)
		}
		vars[idx] = m
	}
	for i := 1; i < len(vars); i++ {
		if vars[i] == z.LitNull {
			vars[i] = b.c.Lit()
		}
	}
	lit := func(l solver.Lit) z.Lit {
		v := l.Int()
		if v < 0 {
			return vars[-v].Not()
		}
		return vars[v]
	}

	for _, u := range pb.Units {
		b.clause(lit(u))
	}
	for _, cl := range pb.Clauses {
		ms := make([]z.Lit, cl.Len())
		for i := range ms {
			ms[i] = lit(cl.Get(i))
		}
		b.clause(ms...)
	}
	return nil
}

// dimacsNames reads the "c name=idx" comment lines written by bf.Dimacs.
func dimacsNames(data []byte) (map[int]string, error) {
	names := make(map[int]string)
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := sc.Text()
		if !strings.HasPrefix(line, "c ") {
			continue
		}
		name, idx, ok := strings.Cut(strings.TrimPrefix(line, "c "), "=")
		if !ok {
			continue
		}
		i, err := strconv.Atoi(idx)
		if err != nil {
			return nil, fmt.Errorf("bad dimacs comment %q", line)
		}
		names[i] = name
	}
	return names, sc.Err()
}

// encodeCount adds lo <= #true(aliases) <= hi.
func (b *Gini) encodeCount(cnt program.Count) {
	ms := make([]z.Lit, len(cnt.Aliases))
	for i, a := range cnt.Aliases {
		ms[i] = b.byAlias[a]
	}
	cs := b.c.CardSort(ms)
	roots := []z.Lit{cs.Geq(cnt.Min)}
	if cnt.Max >= 0 {
		roots = append(roots, cs.Leq(cnt.Max))
	}
	b.c.ToCnfFrom(b.g, roots...)
	for _, r := range roots {
		b.clause(r)
	}
}

// encodeObjective builds one sorting network per priority over weight-replicated literals.
func (b *Gini) encodeObjective(p *program.Program) error {
	b.levels = b.levels[:0]
	for _, prio := range p.Priorities() {
		var ms []z.Lit
		for _, w := range p.Minimize {
			if w.Priority != prio {
				continue
			}
			m := b.byAlias[w.Lit.Alias]
			if w.Lit.Negated {
				m = m.Not()
			}
			for i := 0; i < w.Weight; i++ {
				ms = append(ms, m)
			}
		}
		if len(ms) > b.opts.MaxObjectiveLiterals {
			return fmt.Errorf("priority %d: %d weighted literals exceed limit %d", prio, len(ms), b.opts.MaxObjectiveLiterals)
		}
		cs := b.c.CardSort(ms)
		outs := make([]z.Lit, 0, len(ms)+1)
		for k := 0; k <= len(ms); k++ {
			outs = append(outs, cs.Leq(k))
		}
		b.c.ToCnfFrom(b.g, outs...)
		b.levels = append(b.levels, level{priority: prio, card: cs})
	}
	return nil
}

// tighten forbids models whose cost is not lexicographically below cost
// (or equal to it, unless strict).
func (b *Gini) tighten(cost []int, strict bool) {
	if len(b.levels) == 0 {
		return
	}
	var or []z.Lit
	for i, lv := range b.levels {
		s := b.c.Lit()
		or = append(or, s)
		for j := 0; j < i; j++ {
			b.clause(s.Not(), b.levels[j].card.Leq(cost[j]))
		}
		b.clause(s.Not(), lv.card.Less(cost[i]))
	}
	if !strict {
		s := b.c.Lit()
		or = append(or, s)
		for j, lv := range b.levels {
			b.clause(s.Not(), lv.card.Leq(cost[j]))
		}
	}
	b.clause(or...)
}

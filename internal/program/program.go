package program

import (
	"errors"
	"sort"

	"lnsSolver/internal/term"
)

var (
	ErrSyntax         = errors.New("syntax error")
	ErrUnknownAlias   = errors.New("unknown alias")
	ErrDuplicateAtom  = errors.New("duplicate atom")
	ErrNegativeWeight = errors.New("negative weight")
)

type Atom struct {
	Alias  string
	Symbol term.Symbol
}

type Literal struct {
	Alias   string
	Negated bool
}

type Formula struct {
	Text string
	Line int
}

// Count bounds the number of true aliases; Max < 0 means no upper bound.
type Count struct {
	Min, Max int
	Aliases  []string
	Line     int
}

type Weighted struct {
	Weight   int
	Priority int
	Lit      Literal
	Line     int
}

type Program struct {
	Atoms    []Atom
	Formulas []Formula
	Counts   []Count
	Minimize []Weighted

	// Show holds name/arity signatures; empty means every atom is shown.
	Show []string

	byAlias  map[string]int
	bySymbol map[string]int
	shown    map[string]bool
}

func (p *Program) Lookup(alias string) (Atom, bool) {
	i, ok := p.byAlias[alias]
	if !ok {
		return Atom{}, false
	}
	return p.Atoms[i], true
}

func (p *Program) AliasOf(s term.Symbol) (string, bool) {
	i, ok := p.bySymbol[s.String()]
	if !ok {
		return "", false
	}
	return p.Atoms[i].Alias, true
}

func (p *Program) IsShown(s term.Symbol) bool {
	if len(p.Show) == 0 {
		return true
	}
	return p.shown[s.Signature()]
}

// Priorities returns the distinct objective priorities, most significant first.
func (p *Program) Priorities() []int {
	seen := make(map[int]bool)
	var out []int
	for _, w := range p.Minimize {
		if !seen[w.Priority] {
			seen[w.Priority] = true
			out = append(out, w.Priority)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}

func (p *Program) HasObjective() bool { return len(p.Minimize) > 0 }

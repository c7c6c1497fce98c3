package program

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/scanner"

	"github.com/crillab/gophersat/bf"

	"lnsSolver/internal/term"
)

// Parse reads a ground program:
//
//	atom <alias> <term>
//	formula <formula over aliases>
//	count <lo> <hi|*> <alias>...
//	minimize <weight>[@<priority>] [^]<alias>
//	show <name>/<arity>
//
// Lines starting with % are comments. Formulas use the gophersat bf syntax.
func Parse(r io.Reader) (*Program, error) {
	p := &Program{
		byAlias:  make(map[string]int),
		bySymbol: make(map[string]int),
		shown:    make(map[string]bool),
	}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(stripComment(sc.Text()))
		if text == "" {
			continue
		}
		keyword, rest, _ := strings.Cut(text, " ")
		rest = strings.TrimSpace(rest)
		var err error
		switch keyword {
		case "atom":
			err = p.parseAtom(rest)
		case "formula":
			err = p.parseFormula(rest, line)
		case "count":
			err = p.parseCount(rest, line)
		case "minimize":
			err = p.parseMinimize(rest, line)
		case "show":
			err = p.parseShow(rest)
		default:
			err = fmt.Errorf("%w: unknown directive %q", ErrSyntax, keyword)
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if err := p.checkAliases(); err != nil {
		return nil, err
	}
	return p, nil
}

func ParseString(s string) (*Program, error) {
	return Parse(strings.NewReader(s))
}

func stripComment(s string) string {
	quoted := false
	for i, r := range s {
		switch {
		case r == '"' && (i == 0 || s[i-1] != '\\'):
			quoted = !quoted
		case r == '%' && !quoted:
			return s[:i]
		}
	}
	return s
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		letter := r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		digit := r >= '0' && r <= '9'
		if !letter && !(digit && i > 0) {
			return false
		}
	}
	return true
}

func (p *Program) parseAtom(rest string) error {
	alias, text, ok := strings.Cut(rest, " ")
	if !ok || !isIdent(alias) {
		return fmt.Errorf("%w: expected 'atom <alias> <term>'", ErrSyntax)
	}
	sym, err := term.Parse(strings.TrimSpace(text))
	if err != nil {
		return err
	}
	if _, dup := p.byAlias[alias]; dup {
		return fmt.Errorf("%w: alias %s", ErrDuplicateAtom, alias)
	}
	if _, dup := p.bySymbol[sym.String()]; dup {
		return fmt.Errorf("%w: %s", ErrDuplicateAtom, sym)
	}
	p.byAlias[alias] = len(p.Atoms)
	p.bySymbol[sym.String()] = len(p.Atoms)
	p.Atoms = append(p.Atoms, Atom{Alias: alias, Symbol: sym})
	return nil
}

func (p *Program) parseFormula(rest string, line int) error {
	if _, err := bf.Parse(strings.NewReader(rest)); err != nil {
		return fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	p.Formulas = append(p.Formulas, Formula{Text: rest, Line: line})
	return nil
}

func (p *Program) parseCount(rest string, line int) error {
	fields := strings.Fields(rest)
	if len(fields) < 2 {
		return fmt.Errorf("%w: expected 'count <lo> <hi|*> <alias>...'", ErrSyntax)
	}
	lo, err := strconv.Atoi(fields[0])
	if err != nil || lo < 0 {
		return fmt.Errorf("%w: bad lower bound %q", ErrSyntax, fields[0])
	}
	hi := -1
	if fields[1] != "*" {
		hi, err = strconv.Atoi(fields[1])
		if err != nil || hi < lo {
			return fmt.Errorf("%w: bad upper bound %q", ErrSyntax, fields[1])
		}
	}
	p.Counts = append(p.Counts, Count{Min: lo, Max: hi, Aliases: fields[2:], Line: line})
	return nil
}

func (p *Program) parseMinimize(rest string, line int) error {
	fields := strings.Fields(rest)
	if len(fields) != 2 {
		return fmt.Errorf("%w: expected 'minimize <weight>@<priority> [^]<alias>'", ErrSyntax)
	}
	ws, ps, hasPrio := strings.Cut(fields[0], "@")
	w, err := strconv.Atoi(ws)
	if err != nil {
		return fmt.Errorf("%w: bad weight %q", ErrSyntax, ws)
	}
	if w < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeWeight, w)
	}
	prio := 0
	if hasPrio {
		if prio, err = strconv.Atoi(ps); err != nil {
			return fmt.Errorf("%w: bad priority %q", ErrSyntax, ps)
		}
	}
	lit := Literal{Alias: fields[1]}
	if strings.HasPrefix(lit.Alias, "^") {
		lit = Literal{Alias: lit.Alias[1:], Negated: true}
	}
	p.Minimize = append(p.Minimize, Weighted{Weight: w, Priority: prio, Lit: lit, Line: line})
	return nil
}

func (p *Program) parseShow(rest string) error {
	name, ar, ok := strings.Cut(rest, "/")
	arity, err := strconv.Atoi(strings.TrimSpace(ar))
	if !ok || err != nil || arity < 0 || !isIdent(strings.TrimSpace(name)) {
		return fmt.Errorf("%w: expected 'show <name>/<arity>'", ErrSyntax)
	}
	sig := fmt.Sprintf("%s/%d", strings.TrimSpace(name), arity)
	if !p.shown[sig] {
		p.shown[sig] = true
		p.Show = append(p.Show, sig)
	}
	return nil
}

// checkAliases runs after the whole file is read so atoms may be declared after use.
func (p *Program) checkAliases() error {
	check := func(alias string, line int) error {
		if _, ok := p.byAlias[alias]; !ok {
			return fmt.Errorf("line %d: %w %q", line, ErrUnknownAlias, alias)
		}
		return nil
	}
	for _, f := range p.Formulas {
		for _, v := range formulaVars(f.Text) {
			if err := check(v, f.Line); err != nil {
				return err
			}
		}
	}
	for _, c := range p.Counts {
		for _, a := range c.Aliases {
			if err := check(a, c.Line); err != nil {
				return err
			}
		}
	}
	for _, w := range p.Minimize {
		if err := check(w.Lit.Alias, w.Line); err != nil {
			return err
		}
	}
	return nil
}

// formulaVars lists identifiers the way bf.Parse tokenizes them.
func formulaVars(text string) []string {
	var s scanner.Scanner
	s.Init(strings.NewReader(text))
	s.Error = func(*scanner.Scanner, string) {}
	var out []string
	for tok := s.Scan(); tok != scanner.EOF; tok = s.Scan() {
		if tok == scanner.Ident {
			out = append(out, s.TokenText())
		}
	}
	return out
}

package term

import (
	"fmt"
	"strconv"
	"strings"
	"text/scanner"
)

type parser struct {
	s     scanner.Scanner
	tok   rune
	token string
}

// Parse reads exactly one ground term such as assign(3,m1), "text", -4 or red.
func Parse(text string) (Symbol, error) {
	p := &parser{}
	p.s.Init(strings.NewReader(text))
	p.s.Mode = scanner.ScanIdents | scanner.ScanInts | scanner.ScanStrings
	p.s.Error = func(*scanner.Scanner, string) {}
	p.scan()
	sym, err := p.parseTerm()
	if err != nil {
		return Symbol{}, err
	}
	if p.tok != scanner.EOF {
		return Symbol{}, fmt.Errorf("unexpected token %q at %s in %q", p.token, p.s.Position, text)
	}
	return sym, nil
}

// MustParse is Parse for literals in tests and generated programs.
func MustParse(text string) Symbol {
	s, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return s
}

func (p *parser) scan() {
	p.tok = p.s.Scan()
	p.token = p.s.TokenText()
}

func (p *parser) parseTerm() (Symbol, error) {
	switch p.tok {
	case scanner.EOF:
		return Symbol{}, fmt.Errorf("expected term, found EOF")
	case '-':
		p.scan()
		if p.tok != scanner.Int {
			return Symbol{}, fmt.Errorf("expected integer after '-', found %q", p.token)
		}
		n, err := strconv.Atoi(p.token)
		if err != nil {
			return Symbol{}, fmt.Errorf("invalid integer %q: %w", p.token, err)
		}
		p.scan()
		return Number(-n), nil
	case scanner.Int:
		n, err := strconv.Atoi(p.token)
		if err != nil {
			return Symbol{}, fmt.Errorf("invalid integer %q: %w", p.token, err)
		}
		p.scan()
		return Number(n), nil
	case scanner.String:
		v, err := strconv.Unquote(p.token)
		if err != nil {
			return Symbol{}, fmt.Errorf("invalid string %s: %w", p.token, err)
		}
		p.scan()
		return String(v), nil
	case scanner.Ident:
		name := p.token
		p.scan()
		if p.tok != '(' {
			return Constant(name), nil
		}
		p.scan()
		var args []Symbol
		for {
			arg, err := p.parseTerm()
			if err != nil {
				return Symbol{}, err
			}
			args = append(args, arg)
			if p.tok == ',' {
				p.scan()
				continue
			}
			if p.tok == ')' {
				p.scan()
				return Function(name, args...), nil
			}
			return Symbol{}, fmt.Errorf("expected ',' or ')' in arguments of %s, found %q", name, p.token)
		}
	default:
		return Symbol{}, fmt.Errorf("unexpected token %q at %s", p.token, p.s.Position)
	}
}

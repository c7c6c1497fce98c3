package opt

import (
	"fmt"
	"strings"

	"lnsSolver/internal/term"
)

// Sat — трёхзначный статус выполнимости.
type Sat int8

const (
	SatUnknown Sat = iota
	SatTrue
	SatFalse
)

func (s Sat) String() string {
	switch s {
	case SatTrue:
		return "SAT"
	case SatFalse:
		return "UNSAT"
	default:
		return "UNKNOWN"
	}
}

// Cost — лексикографический вектор стоимости, старший уровень первым; nil — стоимость не определена.
type Cost []int

func (c Cost) Equal(o Cost) bool {
	if (c == nil) != (o == nil) || len(c) != len(o) {
		return false
	}
	for i := range c {
		if c[i] != o[i] {
			return false
		}
	}
	return true
}

// Less сравнивает лексикографически; векторы разной длины дополняются нулями справа.
func (c Cost) Less(o Cost) bool {
	n := max(len(c), len(o))
	for i := 0; i < n; i++ {
		a, b := at(c, i), at(o, i)
		if a != b {
			return a < b
		}
	}
	return false
}

func at(c Cost, i int) int {
	if i < len(c) {
		return c[i]
	}
	return 0
}

// Scalar сворачивает вектор в число Σ c[i]·base^(n−1−i).
func (c Cost) Scalar(base float64) float64 {
	v := 0.0
	for _, x := range c {
		v = v*base + float64(x)
	}
	return v
}

func (c Cost) Clone() Cost {
	if c == nil {
		return nil
	}
	out := make(Cost, len(c))
	copy(out, c)
	return out
}

func (c Cost) String() string {
	switch len(c) {
	case 0:
		if c == nil {
			return "none"
		}
		return "[]"
	case 1:
		return fmt.Sprint(c[0])
	}
	parts := make([]string, len(c))
	for i, v := range c {
		parts[i] = fmt.Sprint(v)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Model — найденная модель: все истинные факты и выводимые (shown) факты.
type Model struct {
	Symbols     []term.Symbol
	Shown       []term.Symbol
	Assignments map[string]int
}

// Solution возвращается только границей решателя и после этого не изменяется.
type Solution struct {
	Sat       Sat
	Cost      Cost
	Model     *Model
	Exhausted bool
}

func Unknown() Solution {
	return Solution{Sat: SatUnknown}
}

func Unsatisfiable() Solution {
	return Solution{Sat: SatFalse, Exhausted: true}
}

package opt

import (
	"context"
	"time"

	"lnsSolver/internal/term"
)

// Backend — граница решателя: загрузка и граундинг программы, ограниченный по времени вызов.
//
// После выполнимого результата Solve обязан ужесточить собственную границу целевой функции
// (строго ниже найденной стоимости при StrictBound, иначе допуская равенство), чтобы следующий
// вызов не вернул модель не лучше текущей.
type Backend interface {
	LoadProgram(text string) error
	Ground() error
	Solve(ctx context.Context, req Request) (Solution, error)
	SupportsNativeOptimization() bool
}

// Request описывает один вызов решателя.
type Request struct {
	Assumptions []term.Symbol
	TimeLimit   time.Duration
	// ModelLimit = 0 — оптимизация внутри одного вызова до исчерпания бюджета.
	ModelLimit  int
	StrictBound bool
}

// Result — итог работы LNS.
type Result struct {
	Best         *Solution
	Exhausted    bool
	Iterations   int
	Improvements int
	Unsat        int
	Timeouts     int
	Duration     time.Duration
	Meta         map[string]any
}

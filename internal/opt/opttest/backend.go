// Package opttest содержит сценарный решатель для тестов движка и операторов.
package opttest

import (
	"context"
	"errors"
	"sync"

	"lnsSolver/internal/opt"
)

var ErrScriptExhausted = errors.New("opttest: script exhausted")

// Backend возвращает заранее заданные решения по порядку и запоминает запросы.
// Если задан Func, он используется вместо очереди.
type Backend struct {
	mu sync.Mutex

	Script []opt.Solution
	Func   func(req opt.Request) (opt.Solution, error)
	Native bool

	Program  string
	Grounded bool
	Requests []opt.Request

	LoadErr   error
	GroundErr error
}

func (b *Backend) LoadProgram(text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Program = text
	return b.LoadErr
}

func (b *Backend) Ground() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Grounded = b.GroundErr == nil
	return b.GroundErr
}

func (b *Backend) Solve(_ context.Context, req opt.Request) (opt.Solution, error) {
	b.mu.Lock()
	b.Requests = append(b.Requests, req)
	fn := b.Func
	b.mu.Unlock()
	if fn != nil {
		return fn(req)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.Script) == 0 {
		return opt.Solution{}, ErrScriptExhausted
	}
	s := b.Script[0]
	b.Script = b.Script[1:]
	return s, nil
}

func (b *Backend) SupportsNativeOptimization() bool { return b.Native }

// Calls возвращает число вызовов Solve.
func (b *Backend) Calls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.Requests)
}

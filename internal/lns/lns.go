package lns

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang/glog"

	"lnsSolver/internal/opt"
	"lnsSolver/internal/relax"
	"lnsSolver/internal/search"
	"lnsSolver/internal/strategy"
	"lnsSolver/internal/term"
)

var ErrNoInitialOperator = errors.New("не задан оператор начального решения")

type Config struct {
	// ResetAssumptionsOnTie — после хода с той же стоимостью выбирать новые допущения
	// даже при включённой интенсификации.
	ResetAssumptionsOnTie bool

	// Now — источник времени; nil означает time.Now.
	Now func() time.Time
}

func DefaultConfig() Config {
	return Config{ResetAssumptionsOnTie: true}
}

// Engine — цикл LNS: многократная переоптимизация частично зафиксированного текущего решения.
type Engine struct {
	backend  opt.Backend
	program  string
	initial  InitialOperator
	strategy strategy.Strategy
	cfg      Config

	mu        sync.Mutex
	incumbent *opt.Solution
}

// New готовит движок; стратегия получает пулы операторов сразу.
func New(
	backend opt.Backend,
	program string,
	initial InitialOperator,
	relaxOps []relax.Operator,
	searchOps []*search.Operator,
	strat strategy.Strategy,
	cfg Config,
) (*Engine, error) {
	if backend == nil {
		return nil, fmt.Errorf("решатель не задан (nil)")
	}
	if initial == nil {
		return nil, ErrNoInitialOperator
	}
	if strat == nil {
		return nil, fmt.Errorf("стратегия не задана (nil)")
	}
	if err := strat.Prepare(relaxOps, searchOps); err != nil {
		return nil, fmt.Errorf("стратегия %s: %w", strat.Name(), err)
	}
	return &Engine{
		backend:  backend,
		program:  program,
		initial:  initial,
		strategy: strat,
		cfg:      cfg,
	}, nil
}

func (e *Engine) now() time.Time {
	if e.cfg.Now != nil {
		return e.cfg.Now()
	}
	return time.Now()
}

// Incumbent возвращает текущее лучшее решение; безопасно вызывать во время Solve.
func (e *Engine) Incumbent() (opt.Solution, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.incumbent == nil {
		return opt.Solution{}, false
	}
	return *e.incumbent, true
}

func (e *Engine) setIncumbent(s opt.Solution) {
	e.mu.Lock()
	e.incumbent = &s
	e.mu.Unlock()
}

// Solve запускает LNS с глобальным лимитом времени.
// Result.Best == nil только если начальное решение не найдено.
func (e *Engine) Solve(ctx context.Context, timeout time.Duration) (opt.Result, error) {
	start := e.now()
	deadline := start.Add(timeout)
	timeLeft := func() time.Duration { return deadline.Sub(e.now()) }

	res := opt.Result{Meta: map[string]any{"strategy": e.strategy.Name()}}
	finish := func(stopped string) opt.Result {
		if inc, ok := e.Incumbent(); ok {
			res.Best = &inc
		}
		res.Duration = e.now().Sub(start)
		res.Meta["stopped"] = stopped
		return res
	}

	e.mu.Lock()
	e.incumbent = nil
	e.mu.Unlock()

	if err := e.backend.LoadProgram(e.program); err != nil {
		return opt.Result{}, fmt.Errorf("загрузка программы: %w", err)
	}
	if err := e.backend.Ground(); err != nil {
		return opt.Result{}, fmt.Errorf("граундинг: %w", err)
	}

	sol, err := e.initial.Construct(ctx, timeLeft())
	if err != nil {
		if ctx.Err() != nil {
			return finish("context"), ctx.Err()
		}
		return opt.Result{}, fmt.Errorf("начальное решение: %w", err)
	}
	if sol.Sat != opt.SatTrue {
		glog.Info("начальное решение не найдено")
		res.Exhausted = sol.Sat == opt.SatFalse
		return finish("no-initial"), nil
	}
	e.setIncumbent(sol)
	glog.Infof("начальная стоимость: %v", sol.Cost)
	if sol.Exhausted {
		glog.Info("найдено оптимальное решение")
		res.Exhausted = true
		return finish("optimal"), nil
	}

	var (
		relaxOp  relax.Operator
		searchOp *search.Operator
		asm      []term.Symbol
		reuse    bool
	)
	for timeLeft() > 0 {
		if err := ctx.Err(); err != nil {
			return finish("context"), err
		}
		moveStart := e.now()
		incumbent, _ := e.Incumbent()

		if !reuse || !e.strategy.SupportsIntensification() {
			relaxOp, searchOp = e.strategy.Select()
			asm, err = relaxOp.MoveAssumptions(incumbent)
			if err != nil {
				return finish("error"), fmt.Errorf("оператор %s: %w", relaxOp.Name(), err)
			}
			glog.V(1).Infof("ход: %s / %s, допущений %d", relaxOp.Name(), searchOp.Name(), len(asm))
		}
		reuse = true

		res.Iterations++
		sol, err := searchOp.Execute(ctx, asm, timeLeft())
		if err != nil {
			if ctx.Err() != nil {
				return finish("context"), ctx.Err()
			}
			return finish("error"), fmt.Errorf("оператор %s: %w", searchOp.Name(), err)
		}

		prev := incumbent.Cost
		optimal := false
		switch {
		case sol.Sat == opt.SatTrue:
			e.setIncumbent(sol)
			if sol.Cost.Less(prev) {
				res.Improvements++
			}
			glog.Infof("найдено решение со стоимостью %v", sol.Cost)
			if e.cfg.ResetAssumptionsOnTie && prev.Equal(sol.Cost) {
				reuse = false
			}
			optimal = sol.Exhausted && len(asm) == 0

		case sol.Sat == opt.SatFalse || sol.Exhausted:
			if len(asm) == 0 {
				glog.Info("найдено оптимальное решение")
				res.Exhausted = true
				return finish("optimal"), nil
			}
			glog.V(1).Info("ход: невыполнимо при текущих допущениях")
			res.Unsat++
			reuse = false

		default:
			glog.V(1).Info("ход: истёк лимит времени")
			res.Timeouts++
			reuse = false
		}

		e.strategy.OnMoveFinished(strategy.Move{
			Relax:       relaxOp,
			Search:      searchOp,
			PrevCost:    prev,
			Solution:    sol,
			Assumptions: len(asm),
			TimeUsed:    e.now().Sub(moveStart),
		})

		if optimal {
			glog.Info("найдено оптимальное решение")
			res.Exhausted = true
			return finish("optimal"), nil
		}
	}
	return finish("deadline"), nil
}

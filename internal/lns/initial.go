package lns

import (
	"context"
	"fmt"
	"time"

	"github.com/golang/glog"

	"lnsSolver/internal/opt"
)

// InitialOperator строит начальное решение до запуска цикла LNS.
type InitialOperator interface {
	Construct(ctx context.Context, timeLeft time.Duration) (opt.Solution, error)
}

// BackendInitial берёт начальное решение у самого решателя.
// При PreOptimize > 0 решатель сначала оптимизирует заданное время без допущений.
type BackendInitial struct {
	Backend     opt.Backend
	PreOptimize time.Duration
	Now         func() time.Time
}

func (b BackendInitial) now() time.Time {
	if b.Now != nil {
		return b.Now()
	}
	return time.Now()
}

func (b BackendInitial) Construct(ctx context.Context, timeLeft time.Duration) (opt.Solution, error) {
	if b.Backend == nil {
		return opt.Solution{}, fmt.Errorf("решатель не задан (nil)")
	}
	if b.PreOptimize <= 0 {
		glog.V(1).Infof("начальное решение: один вызов на %v", timeLeft)
		return b.Backend.Solve(ctx, opt.Request{TimeLimit: max(timeLeft, 0), ModelLimit: 1, StrictBound: true})
	}

	start := b.now()
	budget := min(b.PreOptimize, timeLeft)
	glog.V(1).Infof("начальное решение: предварительная оптимизация %v", budget)

	var (
		sol opt.Solution
		err error
	)
	if b.Backend.SupportsNativeOptimization() {
		sol, err = b.Backend.Solve(ctx, opt.Request{TimeLimit: max(budget, 0), ModelLimit: 0, StrictBound: true})
	} else {
		sol, err = b.repeat(ctx, budget)
	}
	if err != nil {
		return opt.Solution{}, err
	}
	if sol.Sat != opt.SatUnknown {
		return sol, nil
	}

	// Предварительная оптимизация ничего не нашла; остаток времени — на одну модель.
	rest := timeLeft - b.now().Sub(start)
	if rest <= 0 {
		return sol, nil
	}
	return b.Backend.Solve(ctx, opt.Request{TimeLimit: rest, ModelLimit: 1, StrictBound: true})
}

// repeat вызывает решатель за одной моделью, пока не истечёт бюджет или не будет доказан оптимум.
func (b BackendInitial) repeat(ctx context.Context, budget time.Duration) (opt.Solution, error) {
	deadline := b.now().Add(budget)
	best := opt.Unknown()
	for {
		left := deadline.Sub(b.now())
		if left <= 0 {
			return best, nil
		}
		sol, err := b.Backend.Solve(ctx, opt.Request{TimeLimit: left, ModelLimit: 1, StrictBound: true})
		if err != nil {
			return opt.Solution{}, err
		}
		switch {
		case sol.Sat == opt.SatTrue:
			best = sol
			if sol.Exhausted {
				return best, nil
			}
		case sol.Sat == opt.SatFalse || sol.Exhausted:
			if best.Sat == opt.SatTrue {
				best.Exhausted = true
				return best, nil
			}
			return sol, nil
		default:
			return best, nil
		}
	}
}

package search

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/golang/glog"

	"lnsSolver/internal/ladder"
	"lnsSolver/internal/opt"
	"lnsSolver/internal/term"
)

type Config struct {
	// Timeouts — лестница лимитов времени одного хода, строго возрастающая.
	Timeouts []time.Duration
	// InitialTimeout — начальная ступень; nil означает наименьший лимит.
	InitialTimeout *time.Duration
	// StrictBoundProb — вероятность требовать строго лучшее решение.
	StrictBoundProb float64
}

func DefaultConfig() Config {
	return Config{
		Timeouts:        []time.Duration{5 * time.Second},
		StrictBoundProb: 1.0,
	}
}

func (c Config) Validate() error {
	if len(c.Timeouts) == 0 {
		return fmt.Errorf("список лимитов времени: %w", ladder.ErrEmpty)
	}
	for _, d := range c.Timeouts {
		if d < 0 {
			return fmt.Errorf("лимит времени должен быть >= 0 (получено %v)", d)
		}
	}
	if c.StrictBoundProb < 0 || c.StrictBoundProb > 1 {
		return fmt.Errorf(
			"StrictBoundProb должно лежать в интервале [0,1] (получено %f)",
			c.StrictBoundProb,
		)
	}
	return nil
}

// Operator выполняет один ограниченный по времени вызов решателя.
type Operator struct {
	timeouts   *ladder.Ladder[time.Duration]
	strictProb float64
	backend    opt.Backend
	rng        *rand.Rand
}

func New(cfg Config, backend opt.Backend, rng *rand.Rand) (*Operator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if backend == nil {
		return nil, fmt.Errorf("решатель не задан (nil)")
	}
	if rng == nil {
		return nil, fmt.Errorf("генератор случайных чисел не инициализирован (nil)")
	}
	var (
		l   *ladder.Ladder[time.Duration]
		err error
	)
	if cfg.InitialTimeout != nil {
		l, err = ladder.NewAt(cfg.Timeouts, *cfg.InitialTimeout)
	} else {
		l, err = ladder.New(cfg.Timeouts)
	}
	if err != nil {
		return nil, fmt.Errorf("лимиты времени: %w", err)
	}
	return &Operator{timeouts: l, strictProb: cfg.StrictBoundProb, backend: backend, rng: rng}, nil
}

// Execute вызывает решатель на min(текущий лимит, оставшееся время) с одной моделью.
func (o *Operator) Execute(ctx context.Context, assumptions []term.Symbol, timeLeft time.Duration) (opt.Solution, error) {
	budget := min(o.timeouts.Value(), max(timeLeft, 0))
	strict := o.rng.Float64() < o.strictProb
	glog.V(2).Infof("поиск на %v (strict=%t, допущений %d)", budget, strict, len(assumptions))

	return o.backend.Solve(ctx, opt.Request{
		Assumptions: assumptions,
		TimeLimit:   budget,
		ModelLimit:  1,
		StrictBound: strict,
	})
}

func (o *Operator) Name() string { return o.timeouts.Value().String() }

func (o *Operator) Timeout() time.Duration { return o.timeouts.Value() }

func (o *Operator) IncreaseSize() bool { return o.timeouts.Increase() }
func (o *Operator) DecreaseSize() bool { return o.timeouts.Decrease() }
func (o *Operator) ResetSize()         { o.timeouts.Reset() }

// Flatten возвращает по оператору на каждый лимит времени.
func (o *Operator) Flatten() []*Operator {
	var out []*Operator
	for _, l := range o.timeouts.Singletons() {
		out = append(out, &Operator{timeouts: l, strictProb: o.strictProb, backend: o.backend, rng: o.rng})
	}
	return out
}

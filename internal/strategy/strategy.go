package strategy

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"lnsSolver/internal/opt"
	"lnsSolver/internal/relax"
	"lnsSolver/internal/search"
)

var (
	ErrNoRelaxOperators  = errors.New("нужен хотя бы один оператор релаксации")
	ErrNoSearchOperators = errors.New("нужен хотя бы один оператор поиска")
	ErrUnknownStrategy   = errors.New("неизвестная стратегия")
)

// Strategy выбирает пару операторов на каждый ход и адаптируется по его исходу.
type Strategy interface {
	// Prepare вызывается один раз перед запуском; пустые пулы — ошибка.
	Prepare(relaxOps []relax.Operator, searchOps []*search.Operator) error
	Select() (relax.Operator, *search.Operator)
	OnMoveFinished(m Move)
	// SupportsIntensification — можно ли повторять допущения после улучшения.
	SupportsIntensification() bool
	Name() string
}

// Outcome — классификация результата хода.
type Outcome int

const (
	Improved Outcome = iota
	Unsat
	Timeout
)

func (o Outcome) String() string {
	switch o {
	case Improved:
		return "improved"
	case Unsat:
		return "unsat"
	default:
		return "timeout"
	}
}

// Move — завершённый ход, о котором движок сообщает стратегии.
type Move struct {
	Relax       relax.Operator
	Search      *search.Operator
	PrevCost    opt.Cost
	Solution    opt.Solution
	Assumptions int
	TimeUsed    time.Duration
}

func (m Move) Outcome() Outcome {
	switch {
	case m.Solution.Sat == opt.SatTrue:
		return Improved
	case m.Solution.Sat == opt.SatFalse || m.Solution.Exhausted:
		return Unsat
	default:
		return Timeout
	}
}

// Тип стратегии
type Kind string

const (
	KindRandom   Kind = "random"
	KindDynamic  Kind = "dynamic"
	KindRoulette Kind = "roulette"
)

type Config struct {
	Kind      Kind
	Intensify bool

	// dynamic
	UnsatStrikeLimit   int
	TimeoutStrikeLimit int

	// roulette
	Alpha     float64
	LexBase   float64
	MinWeight float64
}

func DefaultConfig(kind Kind) Config {
	return Config{
		Kind: kind,

		UnsatStrikeLimit:   3,
		TimeoutStrikeLimit: 1,

		Alpha:     0.5,
		LexBase:   1000,
		MinWeight: 0.001,
	}
}

func (c Config) Validate() error {
	switch c.Kind {
	case KindRandom:
		// ok
	case KindDynamic:
		if c.UnsatStrikeLimit <= 0 {
			return fmt.Errorf("UnsatStrikeLimit должно быть > 0 (получено %d)", c.UnsatStrikeLimit)
		}
		if c.TimeoutStrikeLimit <= 0 {
			return fmt.Errorf("TimeoutStrikeLimit должно быть > 0 (получено %d)", c.TimeoutStrikeLimit)
		}
	case KindRoulette:
		if c.Alpha <= 0 || c.Alpha >= 1 {
			return fmt.Errorf("alpha должно лежать в интервале (0,1) (получено %f)", c.Alpha)
		}
		if c.LexBase <= 1 {
			return fmt.Errorf("LexBase должно быть > 1 (получено %f)", c.LexBase)
		}
		if c.MinWeight <= 0 {
			return fmt.Errorf("MinWeight должно быть > 0 (получено %f)", c.MinWeight)
		}
	default:
		return fmt.Errorf("%w %q", ErrUnknownStrategy, c.Kind)
	}
	return nil
}

// New — фабрика стратегий по типу из конфигурации.
func New(cfg Config, rng *rand.Rand) (Strategy, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("генератор случайных чисел не инициализирован (nil)")
	}
	switch cfg.Kind {
	case KindRandom:
		return &Random{rng: rng, intensify: cfg.Intensify}, nil
	case KindDynamic:
		return &Dynamic{cfg: cfg, rng: rng}, nil
	default:
		return &Roulette{cfg: cfg, rng: rng}, nil
	}
}

// pools — рабочие наборы операторов стратегии.
type pools struct {
	relax  []relax.Operator
	search []*search.Operator
}

func newPools(relaxOps []relax.Operator, searchOps []*search.Operator, flatten bool) (pools, error) {
	if len(relaxOps) == 0 {
		return pools{}, ErrNoRelaxOperators
	}
	if len(searchOps) == 0 {
		return pools{}, ErrNoSearchOperators
	}
	if !flatten {
		return pools{
			relax:  append([]relax.Operator(nil), relaxOps...),
			search: append([]*search.Operator(nil), searchOps...),
		}, nil
	}
	var p pools
	for _, op := range relaxOps {
		p.relax = append(p.relax, op.Flatten()...)
	}
	for _, op := range searchOps {
		p.search = append(p.search, op.Flatten()...)
	}
	return p, nil
}

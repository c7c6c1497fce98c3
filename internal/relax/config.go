package relax

import (
	"fmt"
	"math/rand"

	"lnsSolver/internal/ladder"
)

// Тип оператора релаксации
type Type string

const (
	TypeRandomAtoms     Type = "randomAtoms"
	TypeRandomConstants Type = "randomConstants"
	TypeDeclarative     Type = "declarative"
)

type Config struct {
	Type  Type
	Sizes []float64

	// InitialSize — начальная ступень; nil означает наименьший размер.
	InitialSize *float64

	// Name ограничивает декларативный оператор точками выбора с этим именем.
	Name string
}

func (c Config) Validate() error {
	switch c.Type {
	case TypeRandomAtoms, TypeRandomConstants, TypeDeclarative:
		// ok
	default:
		return fmt.Errorf("%w %q", ErrUnknownType, c.Type)
	}
	if _, err := ladder.KindOf(c.Sizes); err != nil {
		return fmt.Errorf("оператор %s: %w", c.Type, err)
	}
	if c.Type != TypeDeclarative {
		for _, s := range c.Sizes {
			if s < 0 {
				return fmt.Errorf("оператор %s: %w (получено %v)", c.Type, ErrNegativeSize, s)
			}
		}
		if c.Name != "" {
			return fmt.Errorf("имя %q допустимо только для декларативного оператора", c.Name)
		}
	}
	return nil
}

// New — фабрика операторов релаксации по типу из конфигурации.
func New(cfg Config, rng *rand.Rand) (Operator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s, err := newSized(cfg.Sizes, cfg.InitialSize, rng)
	if err != nil {
		return nil, fmt.Errorf("оператор %s: %w", cfg.Type, err)
	}
	switch cfg.Type {
	case TypeRandomAtoms:
		return &RandomAtoms{sized: s}, nil
	case TypeRandomConstants:
		return &RandomConstants{sized: s}, nil
	default:
		return &Declarative{sized: s, name: cfg.Name}, nil
	}
}

package ladder

import (
	"errors"
	"fmt"
	"math"
)

// Kind — тип величин лестницы размеров окрестности.
type Kind int

const (
	// Relative — доли строго между 0 и 1.
	Relative Kind = iota
	// Absolute — ненулевые целые числа.
	Absolute
)

var (
	ErrMixedKinds   = errors.New("относительные и абсолютные размеры нельзя смешивать")
	ErrInvalidValue = errors.New("размер должен быть долей из (0,1) или ненулевым целым числом")
)

func (k Kind) String() string {
	if k == Relative {
		return "relative"
	}
	return "absolute"
}

func kindOf(v float64) (Kind, error) {
	switch {
	case math.IsNaN(v) || math.IsInf(v, 0):
		return 0, fmt.Errorf("%w (получено %v)", ErrInvalidValue, v)
	case v > 0 && v < 1:
		return Relative, nil
	case v != 0 && v == math.Trunc(v):
		return Absolute, nil
	default:
		return 0, fmt.Errorf("%w (получено %v)", ErrInvalidValue, v)
	}
}

// KindOf определяет общий тип списка размеров.
func KindOf(values []float64) (Kind, error) {
	if len(values) == 0 {
		return 0, ErrEmpty
	}
	first, err := kindOf(values[0])
	if err != nil {
		return 0, err
	}
	for _, v := range values[1:] {
		k, err := kindOf(v)
		if err != nil {
			return 0, err
		}
		if k != first {
			return 0, fmt.Errorf("%w (%v)", ErrMixedKinds, values)
		}
	}
	return first, nil
}

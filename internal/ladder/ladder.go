package ladder

import (
	"cmp"
	"errors"
	"fmt"
)

var (
	ErrEmpty          = errors.New("список величин пуст")
	ErrNotIncreasing  = errors.New("величины должны строго возрастать")
	ErrUnknownInitial = errors.New("начальная величина отсутствует в списке")
)

// Ladder — упорядоченный строго возрастающий список величин с подвижной «ступенью».
// Сами величины неизменяемы, меняется только индекс текущей ступени.
type Ladder[T cmp.Ordered] struct {
	values []T
	index  int
}

// New создаёт лестницу со ступенью на наименьшей величине.
func New[T cmp.Ordered](values []T) (*Ladder[T], error) {
	if len(values) == 0 {
		return nil, ErrEmpty
	}
	for i := 1; i < len(values); i++ {
		if values[i-1] >= values[i] {
			return nil, fmt.Errorf("%w: %v >= %v", ErrNotIncreasing, values[i-1], values[i])
		}
	}
	cp := make([]T, len(values))
	copy(cp, values)
	return &Ladder[T]{values: cp}, nil
}

// NewAt создаёт лестницу со ступенью на заданной величине.
func NewAt[T cmp.Ordered](values []T, initial T) (*Ladder[T], error) {
	l, err := New(values)
	if err != nil {
		return nil, err
	}
	for i, v := range l.values {
		if v == initial {
			l.index = i
			return l, nil
		}
	}
	return nil, fmt.Errorf("%w: %v", ErrUnknownInitial, initial)
}

func (l *Ladder[T]) Value() T { return l.values[l.index] }

func (l *Ladder[T]) Index() int { return l.index }

func (l *Ladder[T]) Len() int { return len(l.values) }

func (l *Ladder[T]) Values() []T {
	out := make([]T, len(l.values))
	copy(out, l.values)
	return out
}

// Increase переводит на следующую ступень; false — уже на верхней.
func (l *Ladder[T]) Increase() bool {
	if l.index >= len(l.values)-1 {
		return false
	}
	l.index++
	return true
}

// Decrease переводит на предыдущую ступень; false — уже на нижней.
func (l *Ladder[T]) Decrease() bool {
	if l.index == 0 {
		return false
	}
	l.index--
	return true
}

func (l *Ladder[T]) Reset() { l.index = 0 }

// Singletons возвращает по лестнице из одной величины на каждую ступень.
func (l *Ladder[T]) Singletons() []*Ladder[T] {
	out := make([]*Ladder[T], len(l.values))
	for i, v := range l.values {
		out[i] = &Ladder[T]{values: []T{v}}
	}
	return out
}

package relax

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strconv"

	"lnsSolver/internal/ladder"
	"lnsSolver/internal/opt"
	"lnsSolver/internal/term"
)

var (
	ErrNoModel        = errors.New("у текущего решения нет модели")
	ErrEmptySelection = errors.New("в модели нет ни одного факта выбора")
	ErrUnknownType    = errors.New("неизвестный тип оператора релаксации")
	ErrNegativeSize   = errors.New("отрицательный размер допустим только для декларативного оператора")
)

// Operator выбирает часть текущего решения, которая фиксируется на следующем ходе.
type Operator interface {
	// MoveAssumptions возвращает факты, фиксируемые на следующем ходе.
	MoveAssumptions(incumbent opt.Solution) ([]term.Symbol, error)
	Name() string

	IncreaseSize() bool
	DecreaseSize() bool
	ResetSize()
	Size() float64

	// Flatten возвращает по копии оператора на каждый размер лестницы.
	Flatten() []Operator
}

// sized — общая часть операторов: лестница размеров и генератор.
type sized struct {
	sizes *ladder.Ladder[float64]
	kind  ladder.Kind
	rng   *rand.Rand
}

func newSized(sizes []float64, initial *float64, rng *rand.Rand) (sized, error) {
	if rng == nil {
		return sized{}, fmt.Errorf("генератор случайных чисел не инициализирован (nil)")
	}
	kind, err := ladder.KindOf(sizes)
	if err != nil {
		return sized{}, err
	}
	var l *ladder.Ladder[float64]
	if initial != nil {
		l, err = ladder.NewAt(sizes, *initial)
	} else {
		l, err = ladder.New(sizes)
	}
	if err != nil {
		return sized{}, err
	}
	return sized{sizes: l, kind: kind, rng: rng}, nil
}

func (s *sized) IncreaseSize() bool { return s.sizes.Increase() }
func (s *sized) DecreaseSize() bool { return s.sizes.Decrease() }
func (s *sized) ResetSize()         { s.sizes.Reset() }
func (s *sized) Size() float64      { return s.sizes.Value() }

func (s *sized) singletons() []sized {
	ls := s.sizes.Singletons()
	out := make([]sized, len(ls))
	for i, l := range ls {
		out[i] = sized{sizes: l, kind: s.kind, rng: s.rng}
	}
	return out
}

// fixedCount — сколько из total элементов остаётся зафиксированными.
// Отрицательный абсолютный размер -n означает «освободить ровно n».
func (s *sized) fixedCount(total int) int {
	size := s.Size()
	if s.kind == ladder.Relative {
		return int(math.RoundToEven(float64(total) * (1 - size)))
	}
	n := int(size)
	if n < 0 {
		return min(max(total+n, 0), total)
	}
	return total - min(total, n)
}

// relaxedCount — сколько из total элементов освобождается.
func (s *sized) relaxedCount(total int) int {
	size := s.Size()
	if s.kind == ladder.Relative {
		return int(math.Floor(float64(total) * size))
	}
	return min(total, int(size))
}

func (s *sized) label() string {
	if s.kind == ladder.Relative {
		return strconv.FormatFloat(math.Round(s.Size()*10000)/100, 'f', -1, 64) + "%"
	}
	return strconv.Itoa(int(s.Size()))
}

// sample возвращает k различных индексов из [0,n) в порядке выбора.
func sample(rng *rand.Rand, n, k int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	for i := 0; i < k; i++ {
		j := i + rng.Intn(n-i)
		idx[i], idx[j] = idx[j], idx[i]
	}
	return idx[:k]
}

func requireModel(incumbent opt.Solution) (*opt.Model, error) {
	if incumbent.Model == nil {
		return nil, ErrNoModel
	}
	return incumbent.Model, nil
}

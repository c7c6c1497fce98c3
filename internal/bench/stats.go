package bench

import (
	"math"

	"lnsSolver/internal/opt"
)

// Stats — лучшая (минимальная) величина, среднее и выборочное стандартное отклонение.
type Stats[T int | float64] struct {
	N    int
	Best T
	Mean float64
	Std  float64
}

func CalcStats[T int | float64](values []T) Stats[T] {
	s := Stats[T]{N: len(values)}
	if s.N == 0 {
		return s
	}

	s.Best = values[0]
	sum := 0.0
	for _, v := range values {
		s.Best = min(s.Best, v)
		sum += float64(v)
	}
	s.Mean = sum / float64(s.N)

	if s.N >= 2 {
		variance := 0.0
		for _, v := range values {
			d := float64(v) - s.Mean
			variance += d * d
		}
		s.Std = math.Sqrt(variance / float64(s.N-1))
	}
	return s
}

// CostStats — статистика по уровням лексикографической стоимости.
// Best — лексикографически лучшая стоимость среди запусков, она не обязана
// совпадать с минимумами отдельных уровней.
type CostStats struct {
	Best   opt.Cost
	Levels []Stats[int]
}

// CalcCostStats требует, чтобы у всех стоимостей было одинаковое число уровней.
func CalcCostStats(costs []opt.Cost) CostStats {
	var cs CostStats
	if len(costs) == 0 {
		return cs
	}
	cs.Best = costs[0]
	for _, c := range costs[1:] {
		if c.Less(cs.Best) {
			cs.Best = c
		}
	}

	level := make([]int, len(costs))
	for i := range costs[0] {
		for j, c := range costs {
			level[j] = c[i]
		}
		cs.Levels = append(cs.Levels, CalcStats(level))
	}
	return cs
}

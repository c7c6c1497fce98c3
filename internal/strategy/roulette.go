package strategy

import (
	"math/rand"

	"github.com/golang/glog"

	"lnsSolver/internal/opt"
	"lnsSolver/internal/relax"
	"lnsSolver/internal/search"
)

// Roulette выбирает пару пропорционально весу. Веса инициализируются стоимостью,
// наблюдённой на первом ходе, и обновляются по скорости изменения стоимости.
type Roulette struct {
	pools
	cfg Config
	rng *rand.Rand

	// weights[r*len(search)+s] — вес пары (relax[r], search[s])
	weights     []float64
	initialised bool
	last        int
}

func (s *Roulette) Prepare(relaxOps []relax.Operator, searchOps []*search.Operator) error {
	p, err := newPools(relaxOps, searchOps, true)
	if err != nil {
		return err
	}
	s.pools = p
	s.weights = make([]float64, len(p.relax)*len(p.search))
	s.initialised = false
	return nil
}

func (s *Roulette) Select() (relax.Operator, *search.Operator) {
	s.last = s.spin()
	return s.pair(s.last)
}

func (s *Roulette) spin() int {
	if !s.initialised {
		return s.rng.Intn(len(s.weights))
	}
	total := 0.0
	for _, w := range s.weights {
		total += w
	}
	x := s.rng.Float64() * total
	for i, w := range s.weights {
		x -= w
		if x < 0 {
			return i
		}
	}
	return len(s.weights) - 1
}

func (s *Roulette) pair(i int) (relax.Operator, *search.Operator) {
	n := len(s.search)
	return s.relax[i/n], s.search[i%n]
}

func (s *Roulette) indexOf(r relax.Operator, so *search.Operator) int {
	for i := range s.weights {
		pr, ps := s.pair(i)
		if pr == r && ps == so {
			return i
		}
	}
	return s.last
}

func (s *Roulette) OnMoveFinished(m Move) {
	if !s.initialised {
		w := s.cfg.MinWeight
		switch {
		case m.PrevCost != nil:
			w = max(w, m.PrevCost.Scalar(s.cfg.LexBase))
		case m.Solution.Cost != nil:
			w = max(w, m.Solution.Cost.Scalar(s.cfg.LexBase))
		}
		for i := range s.weights {
			s.weights[i] = w
		}
		s.initialised = true
	}

	ratio := 0.0
	secs := m.TimeUsed.Seconds()
	if m.Solution.Sat == opt.SatTrue && m.Solution.Cost != nil && m.PrevCost != nil && secs > 0 {
		ratio = (m.Solution.Cost.Scalar(s.cfg.LexBase) - m.PrevCost.Scalar(s.cfg.LexBase)) / secs
	}

	i := s.indexOf(m.Relax, m.Search)
	a := s.cfg.Alpha
	s.weights[i] = max(s.cfg.MinWeight, (1-a)*s.weights[i]-a*ratio)
	glog.V(1).Infof("roulette: ratio=%.3f, вес пары %d = %.3f", ratio, i, s.weights[i])
}

// Weights возвращает копию таблицы весов (по строкам операторов релаксации).
func (s *Roulette) Weights() []float64 {
	return append([]float64(nil), s.weights...)
}

func (s *Roulette) SupportsIntensification() bool { return s.cfg.Intensify }

func (s *Roulette) Name() string { return string(KindRoulette) }

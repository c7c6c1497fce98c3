package strategy

import (
	"math/rand"

	"github.com/golang/glog"

	"lnsSolver/internal/relax"
	"lnsSolver/internal/search"
)

// Dynamic держит одну активную пару и меняет размеры её лестниц по счётчикам неудач.
// Пулы не разворачиваются: расширение окрестности идёт по ступеням исходных лестниц.
type Dynamic struct {
	pools
	cfg Config
	rng *rand.Rand

	relaxIdx  int
	searchIdx int

	unsatStrikes   int
	timeoutStrikes int
}

// Prepare не разворачивает лестницы: на одноступенчатых операторах IncreaseSize всегда ложно.
func (s *Dynamic) Prepare(relaxOps []relax.Operator, searchOps []*search.Operator) error {
	p, err := newPools(relaxOps, searchOps, false)
	if err != nil {
		return err
	}
	s.pools = p
	s.relaxIdx = s.rng.Intn(len(s.relax))
	s.searchIdx = s.rng.Intn(len(s.search))
	s.unsatStrikes, s.timeoutStrikes = 0, 0
	return nil
}

func (s *Dynamic) Select() (relax.Operator, *search.Operator) {
	return s.relax[s.relaxIdx], s.search[s.searchIdx]
}

func (s *Dynamic) OnMoveFinished(m Move) {
	switch m.Outcome() {
	case Improved:
		// пара, давшая решение, остаётся
		s.unsatStrikes, s.timeoutStrikes = 0, 0

	case Unsat:
		s.timeoutStrikes = 0
		s.unsatStrikes++
		if s.unsatStrikes < s.cfg.UnsatStrikeLimit {
			return
		}
		s.unsatStrikes = 0
		if s.relax[s.relaxIdx].IncreaseSize() {
			glog.V(1).Infof("dynamic: размер релаксации увеличен до %s", s.relax[s.relaxIdx].Name())
			return
		}
		s.newPair()

	case Timeout:
		s.unsatStrikes = 0
		s.timeoutStrikes++
		if s.timeoutStrikes < s.cfg.TimeoutStrikeLimit {
			return
		}
		s.timeoutStrikes = 0
		if s.rng.Intn(2) == 0 {
			if s.search[s.searchIdx].IncreaseSize() {
				glog.V(1).Infof("dynamic: лимит поиска увеличен до %s", s.search[s.searchIdx].Name())
				return
			}
			s.newPair()
			return
		}
		s.relax[s.relaxIdx].ResetSize()
		glog.V(1).Infof("dynamic: размер релаксации сброшен до %s", s.relax[s.relaxIdx].Name())
	}
}

// newPair выбирает другой оператор релаксации и случайный оператор поиска, оба с нижней ступени.
func (s *Dynamic) newPair() {
	if n := len(s.relax); n > 1 {
		i := s.rng.Intn(n - 1)
		if i >= s.relaxIdx {
			i++
		}
		s.relaxIdx = i
	}
	s.searchIdx = s.rng.Intn(len(s.search))
	s.relax[s.relaxIdx].ResetSize()
	s.search[s.searchIdx].ResetSize()
	s.unsatStrikes, s.timeoutStrikes = 0, 0
	glog.V(1).Infof("dynamic: новая пара %s / %s", s.relax[s.relaxIdx].Name(), s.search[s.searchIdx].Name())
}

func (s *Dynamic) SupportsIntensification() bool { return s.cfg.Intensify }

func (s *Dynamic) Name() string { return string(KindDynamic) }

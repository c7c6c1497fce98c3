package strategy

import (
	"math/rand"

	"lnsSolver/internal/relax"
	"lnsSolver/internal/search"
)

// Random выбирает пару равновероятно и ни к чему не адаптируется.
type Random struct {
	pools
	rng       *rand.Rand
	intensify bool
}

func (s *Random) Prepare(relaxOps []relax.Operator, searchOps []*search.Operator) error {
	p, err := newPools(relaxOps, searchOps, true)
	if err != nil {
		return err
	}
	s.pools = p
	return nil
}

func (s *Random) Select() (relax.Operator, *search.Operator) {
	return s.relax[s.rng.Intn(len(s.relax))], s.search[s.rng.Intn(len(s.search))]
}

func (s *Random) OnMoveFinished(Move) {}

func (s *Random) SupportsIntensification() bool { return s.intensify }

func (s *Random) Name() string { return string(KindRandom) }

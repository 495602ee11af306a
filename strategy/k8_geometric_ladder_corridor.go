package strategy

import (
	"math"

	"github.com/signalnine/evolusnake/individual"
)

// DefaultLimitRange is used when Config.LimitRange is left at its zero value
// for K=8, so f = limitRange^(1/N) stays well defined.
const DefaultLimitRange = 2.0

// geometricLadderCorridor (K=8) widens its acceptance corridor
// geometrically with distance from slot 0, which always holds the current
// elite.
type geometricLadderCorridor struct{ base }

func (s *geometricLadderCorridor) ProcessUnit(seed individual.Individual) (individual.Individual, Stats, error) {
	s.begin(seed)
	s.pop.Sort()

	ran, err := s.runIterBudget(s.iterate)
	if err != nil {
		return nil, Stats{}, err
	}
	s.pop.Sort()
	best, stats := s.finish(ran)
	return best, stats, nil
}

func (s *geometricLadderCorridor) iterate(_ int) error {
	n := s.pop.Len()
	limitRange := s.cfg.LimitRange
	if limitRange <= 0 {
		limitRange = DefaultLimitRange
	}
	f := math.Pow(limitRange, 1.0/float64(n))

	for i := 0; i < n; i++ {
		cand, err := cloneMutateScore(s.pop, s.pop.At(i), s.pop.Config().MutBudget)
		if err != nil {
			return err
		}
		if cand.Fitness() < s.pop.At(0).Fitness() {
			s.pop.Set(0, cand)
			continue
		}
		if i > 0 {
			limit := s.pop.At(0).Fitness() * math.Pow(f, float64(i))
			s.pop.CheckLimit(cand, limit, i)
		}
	}
	s.pop.FindBestAndWorst()
	return nil
}

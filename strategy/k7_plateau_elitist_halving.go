package strategy

import (
	"math"

	"github.com/signalnine/evolusnake/ferr"
	"github.com/signalnine/evolusnake/individual"
)

// plateauElitistHalving (K=7) is K=1's halving step with a single mutation
// per slot, run with no preset iteration count: it keeps going until the
// best fitness has gone iterBudget consecutive iterations without a strict
// improvement (ties do not reset the plateau counter), or the target is
// met.
type plateauElitistHalving struct{ base }

func (s *plateauElitistHalving) ProcessUnit(seed individual.Individual) (individual.Individual, Stats, error) {
	if s.pop.Len()%2 != 0 {
		return nil, Stats{}, ferr.NewInvalidConfig("node_population_size", "K=7 requires an even population size")
	}
	s.begin(seed)
	s.pop.Sort()

	plateauLimit := s.pop.Config().IterBudget
	prevBest := math.Inf(1)
	stall := 0
	iter := 0

	for {
		s.pop.Tick(iter)
		if err := s.iterate(); err != nil {
			return nil, Stats{}, err
		}

		cur := s.pop.Best().Fitness()
		if cur < prevBest {
			prevBest = cur
			stall = 0
		} else {
			stall++
		}

		if s.targetMet() {
			s.pop.EarlyExit(iter)
			iter++
			break
		}
		iter++
		if stall >= plateauLimit {
			break
		}
	}

	best, stats := s.finish(iter)
	return best, stats, nil
}

func (s *plateauElitistHalving) iterate() error {
	half := s.pop.Len() / 2
	for j := 0; j < half; j++ {
		s.pop.Set(j+half, s.pop.At(j).Clone())
		if err := s.pop.MutateNTimes(s.pop.At(j), 1); err != nil {
			return err
		}
		s.pop.At(j).Fitness()
	}
	s.pop.Sort()
	return nil
}

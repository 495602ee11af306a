package strategy

import (
	"github.com/signalnine/evolusnake/ferr"
	"github.com/signalnine/evolusnake/individual"
)

// elitistHalving (K=1) sorts the population each iteration and advances only
// the upper half in place, snapshotting each advancing slot's prior state
// into its paired lower-half slot as a safety net.
type elitistHalving struct{ base }

func (s *elitistHalving) ProcessUnit(seed individual.Individual) (individual.Individual, Stats, error) {
	if s.pop.Len()%2 != 0 {
		return nil, Stats{}, ferr.NewInvalidConfig("node_population_size", "K=1 requires an even population size")
	}
	s.begin(seed)
	s.pop.Sort()

	ran, err := s.runIterBudget(s.iterate)
	if err != nil {
		return nil, Stats{}, err
	}
	best, stats := s.finish(ran)
	return best, stats, nil
}

func (s *elitistHalving) iterate(_ int) error {
	half := s.pop.Len() / 2
	for j := 0; j < half; j++ {
		s.pop.Set(j+half, s.pop.At(j).Clone())
		if err := s.pop.MutateNTimes(s.pop.At(j), s.pop.Config().MutBudget); err != nil {
			return err
		}
		s.pop.At(j).Fitness()
	}
	s.pop.Sort()
	return nil
}

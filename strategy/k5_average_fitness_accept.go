package strategy

import "github.com/signalnine/evolusnake/individual"

// averageFitnessAccept (K=5) gates replacement on the midpoint between the
// current best and worst fitness, recomputing that midpoint after every
// iteration's sort-and-patch step.
type averageFitnessAccept struct{ base }

func (s *averageFitnessAccept) ProcessUnit(seed individual.Individual) (individual.Individual, Stats, error) {
	s.begin(seed)
	avg := (s.pop.Best().Fitness() + s.pop.Worst().Fitness()) / 2

	ran, err := s.runIterBudget(func(iter int) error {
		next, err := s.iterate(avg)
		avg = next
		return err
	})
	if err != nil {
		return nil, Stats{}, err
	}
	best, stats := s.finish(ran)
	return best, stats, nil
}

func (s *averageFitnessAccept) iterate(avg float64) (float64, error) {
	for i := 0; i < s.pop.Len(); i++ {
		cand, err := cloneMutateScore(s.pop, s.pop.At(i), s.pop.Config().MutBudget)
		if err != nil {
			return avg, err
		}
		s.pop.CheckLimit(cand, avg, i)
	}

	s.pop.Sort()
	n := s.pop.Len()
	s.pop.Set(n-1, s.pop.At(n-2).Clone())
	s.pop.FindBestAndWorst()

	return (s.pop.Best().Fitness() + s.pop.Worst().Fitness()) / 2, nil
}

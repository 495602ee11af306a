package strategy

import "github.com/signalnine/evolusnake/individual"

// bestRepopulateDuplicates (K=10) is K=9 without the dedup guard: every
// non-best slot is unconditionally overwritten with a fresh mutated clone
// of the best individual.
type bestRepopulateDuplicates struct{ base }

func (s *bestRepopulateDuplicates) ProcessUnit(seed individual.Individual) (individual.Individual, Stats, error) {
	s.begin(seed)

	ran, err := s.runIterBudget(s.iterate)
	if err != nil {
		return nil, Stats{}, err
	}
	best, stats := s.finish(ran)
	return best, stats, nil
}

func (s *bestRepopulateDuplicates) iterate(_ int) error {
	s.pop.Sort()
	seedInd := s.pop.At(0)

	for j := 1; j < s.pop.Len(); j++ {
		cand, err := cloneMutateScore(s.pop, seedInd, s.pop.Config().MutBudget)
		if err != nil {
			return err
		}
		s.pop.Set(j, cand)
	}
	s.pop.FindBestAndWorst()
	return nil
}

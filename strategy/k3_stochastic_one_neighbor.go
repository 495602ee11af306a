package strategy

import "github.com/signalnine/evolusnake/individual"

// stochasticOneNeighbor (K=3) repeatedly perturbs one randomly chosen slot
// and promotes the result to best or worst depending on how it compares.
type stochasticOneNeighbor struct{ base }

func (s *stochasticOneNeighbor) ProcessUnit(seed individual.Individual) (individual.Individual, Stats, error) {
	s.begin(seed)

	total := s.pop.Config().IterBudget * s.pop.Len()
	ran, err := s.runBudget(total, s.iterate)
	if err != nil {
		return nil, Stats{}, err
	}
	best, stats := s.finish(ran)
	return best, stats, nil
}

func (s *stochasticOneNeighbor) iterate(_ int) error {
	j := s.pop.Rng().Intn(s.pop.Len())
	cand, err := cloneMutateScore(s.pop, s.pop.At(j), s.pop.Config().MutBudget)
	if err != nil {
		return err
	}
	if cand.Fitness() < s.pop.Best().Fitness() {
		s.pop.ReplaceBest(cand)
		return nil
	}
	if cand.Fitness() < s.pop.Worst().Fitness() {
		s.pop.ReplaceWorst(cand)
		s.pop.FindWorst()
	}
	return nil
}

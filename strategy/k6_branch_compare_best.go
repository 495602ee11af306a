package strategy

import "github.com/signalnine/evolusnake/individual"

// branchCompareBest (K=6) runs one continuing walk (tmp1) alongside many
// fresh one-step probes from the slot's original state (tmp2) and keeps
// whichever of the two ever produced the best candidate.
type branchCompareBest struct{ base }

func (s *branchCompareBest) ProcessUnit(seed individual.Individual) (individual.Individual, Stats, error) {
	s.begin(seed)

	ran, err := s.runIterBudget(s.iterate)
	if err != nil {
		return nil, Stats{}, err
	}
	best, stats := s.finish(ran)
	return best, stats, nil
}

func (s *branchCompareBest) iterate(_ int) error {
	mutBudget := s.pop.Config().MutBudget
	for i := 0; i < s.pop.Len(); i++ {
		initial := s.pop.At(i).Clone()
		tmp1 := initial.Clone()
		best := initial.Clone()

		for m := 0; m < mutBudget; m++ {
			if err := s.pop.MutateNTimes(tmp1, 1); err != nil {
				return err
			}
			if tmp1.Fitness() < best.Fitness() {
				best = tmp1.Clone()
			}

			tmp2 := initial.Clone()
			if err := s.pop.MutateNTimes(tmp2, 1); err != nil {
				return err
			}
			if tmp2.Fitness() < best.Fitness() {
				best = tmp2.Clone()
			}
		}

		if best.Fitness() < s.pop.At(i).Fitness() {
			s.pop.Set(i, best)
		}
	}
	s.pop.FindBestAndWorst()
	return nil
}

package strategy

import "github.com/signalnine/evolusnake/individual"

// perSlotHillClimb (K=2) independently climbs every slot: clone, mutate,
// and keep only if the clone beats the slot's current occupant.
type perSlotHillClimb struct{ base }

func (s *perSlotHillClimb) ProcessUnit(seed individual.Individual) (individual.Individual, Stats, error) {
	s.begin(seed)

	ran, err := s.runIterBudget(s.iterate)
	if err != nil {
		return nil, Stats{}, err
	}
	best, stats := s.finish(ran)
	return best, stats, nil
}

func (s *perSlotHillClimb) iterate(_ int) error {
	for i := 0; i < s.pop.Len(); i++ {
		cand, err := cloneMutateScore(s.pop, s.pop.At(i), s.pop.Config().MutBudget)
		if err != nil {
			return err
		}
		if cand.Fitness() < s.pop.At(i).Fitness() {
			s.pop.Set(i, cand)
		}
	}
	s.pop.FindBestAndWorst()
	return nil
}

package strategy

import "github.com/signalnine/evolusnake/individual"

// duplicateGuardAttempts bounds how many consecutive fitness-duplicate
// candidates K=9 will reject before forcing acceptance, so a degenerate
// fitness landscape (few distinct values reachable) cannot livelock a work
// unit.
const duplicateGuardAttempts = 100

// bestRepopulateUnique (K=9) collapses the population to its best
// individual each iteration and refills the rest with mutated clones of it,
// rejecting any candidate whose fitness duplicates one already accepted
// this iteration.
type bestRepopulateUnique struct{ base }

func (s *bestRepopulateUnique) ProcessUnit(seed individual.Individual) (individual.Individual, Stats, error) {
	s.begin(seed)

	ran, err := s.runIterBudget(s.iterate)
	if err != nil {
		return nil, Stats{}, err
	}
	best, stats := s.finish(ran)
	return best, stats, nil
}

func (s *bestRepopulateUnique) iterate(_ int) error {
	s.pop.Sort()
	seedInd := s.pop.At(0)

	seen := map[float64]bool{seedInd.Fitness(): true}
	for j := 1; j < s.pop.Len(); j++ {
		dupStreak := 0
		for {
			cand, err := cloneMutateScore(s.pop, seedInd, s.pop.Config().MutBudget)
			if err != nil {
				return err
			}
			if !seen[cand.Fitness()] || dupStreak >= duplicateGuardAttempts {
				s.pop.Set(j, cand)
				seen[cand.Fitness()] = true
				break
			}
			dupStreak++
		}
	}
	s.pop.FindBestAndWorst()
	return nil
}

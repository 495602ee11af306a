package strategy

import "github.com/signalnine/evolusnake/individual"

// sharedShrinkingLimit (K=4) maintains a single acceptance corridor shared
// by every slot, shrinking it by 10% when enough candidates already clear
// it and relaxing it by 1% otherwise. globalLimit persists across
// ProcessUnit calls - it starts at the worst fitness observed the first
// time this strategy runs and adapts from there.
type sharedShrinkingLimit struct {
	base
	globalLimit float64
	initialized bool
}

func (s *sharedShrinkingLimit) ProcessUnit(seed individual.Individual) (individual.Individual, Stats, error) {
	s.begin(seed)
	if !s.initialized {
		s.globalLimit = s.pop.Worst().Fitness()
		s.initialized = true
	}

	minBelow := s.cfg.MinBelowDraw
	if minBelow == 0 {
		minBelow = s.drawMinBelow()
	}

	ran, err := s.runIterBudget(func(iter int) error {
		return s.iterate(minBelow)
	})
	if err != nil {
		return nil, Stats{}, err
	}
	s.pop.CloneBestToWorst()
	best, stats := s.finish(ran)
	return best, stats, nil
}

// drawMinBelow draws the threshold randrange(1, N/2) used to decide whether
// the corridor shrinks or relaxes this ProcessUnit.
func (s *sharedShrinkingLimit) drawMinBelow() int {
	half := s.pop.Len() / 2
	if half <= 1 {
		return 1
	}
	return 1 + s.pop.Rng().Intn(half-1)
}

func (s *sharedShrinkingLimit) iterate(minBelow int) error {
	for i := 0; i < s.pop.Len(); i++ {
		cand, err := cloneMutateScore(s.pop, s.pop.At(i), s.pop.Config().MutBudget)
		if err != nil {
			return err
		}
		s.pop.CheckLimit(cand, s.globalLimit, i)
	}

	below := 0
	for i := 0; i < s.pop.Len(); i++ {
		if s.pop.At(i).Fitness() < s.globalLimit {
			below++
		}
	}
	if below >= minBelow {
		s.globalLimit *= 0.9
	} else {
		s.globalLimit *= 1.01
	}
	s.pop.FindBestAndWorst()
	return nil
}

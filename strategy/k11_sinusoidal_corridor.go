package strategy

import (
	"math"

	"github.com/signalnine/evolusnake/individual"
)

// sinusoidalCorridor (K=11) gates replacement on a corridor that oscillates
// sinusoidally with the iteration number, periodically widening and
// narrowing the acceptance tolerance.
type sinusoidalCorridor struct{ base }

// SineLimit computes K=11's acceptance corridor for a given iteration,
// exposed standalone so tests can trace the limit sequence without driving
// a full ProcessUnit run.
func SineLimit(cfg Config, iter int) float64 {
	return cfg.SineBase + cfg.SineAmplitude*math.Sin(cfg.SineFrequency*float64(iter))
}

func (s *sinusoidalCorridor) ProcessUnit(seed individual.Individual) (individual.Individual, Stats, error) {
	s.begin(seed)

	ran, err := s.runIterBudget(s.iterate)
	if err != nil {
		return nil, Stats{}, err
	}
	best, stats := s.finish(ran)
	return best, stats, nil
}

func (s *sinusoidalCorridor) iterate(iter int) error {
	limit := SineLimit(s.cfg, iter)
	for i := 0; i < s.pop.Len(); i++ {
		cand, err := cloneMutateScore(s.pop, s.pop.At(i), s.pop.Config().MutBudget)
		if err != nil {
			return err
		}
		s.pop.CheckLimit(cand, limit, i)
	}
	s.pop.FindBestAndWorst()
	return nil
}

// Package strategy implements the eleven population-kind search policies
// (K=1..11). Every policy shares the same outer skeleton - seed
// integration, mutation-pool shuffle, iteration loop with early-exit
// checked after each pass's body has run, secondary-fitness promotion -
// and differs only in its per-iteration body. Strategies are realized as
// distinct types rather than a deep inheritance chain; shared behavior
// lives on LocalPopulation and the helpers in this file.
package strategy

import (
	"math/rand"

	"github.com/signalnine/evolusnake/ferr"
	"github.com/signalnine/evolusnake/individual"
	"github.com/signalnine/evolusnake/population"
)

// Kind identifies one of the eleven population strategies.
type Kind int

const (
	KindElitistHalving           Kind = 1
	KindPerSlotHillClimb         Kind = 2
	KindStochasticOneNeighbor    Kind = 3
	KindSharedShrinkingLimit     Kind = 4
	KindAverageFitnessAccept     Kind = 5
	KindBranchCompareBest        Kind = 6
	KindPlateauElitistHalving    Kind = 7
	KindGeometricLadderCorridor  Kind = 8
	KindBestRepopulateUnique     Kind = 9
	KindBestRepopulateDuplicates Kind = 10
	KindSinusoidalCorridor       Kind = 11
)

func (k Kind) String() string {
	switch k {
	case KindElitistHalving:
		return "elitist-halving"
	case KindPerSlotHillClimb:
		return "per-slot-hill-climb"
	case KindStochasticOneNeighbor:
		return "stochastic-one-neighbor"
	case KindSharedShrinkingLimit:
		return "shared-shrinking-limit"
	case KindAverageFitnessAccept:
		return "average-fitness-accept"
	case KindBranchCompareBest:
		return "branch-compare-best"
	case KindPlateauElitistHalving:
		return "plateau-elitist-halving"
	case KindGeometricLadderCorridor:
		return "geometric-ladder-corridor"
	case KindBestRepopulateUnique:
		return "best-repopulate-unique"
	case KindBestRepopulateDuplicates:
		return "best-repopulate-duplicates"
	case KindSinusoidalCorridor:
		return "sinusoidal-corridor"
	default:
		return "unknown"
	}
}

// Config carries the knobs specific to individual K variants. Fields unused
// by a given Kind are ignored.
type Config struct {
	Kind Kind

	// MinBelowDraw, when set, replaces K=4's per-ProcessUnit random draw of
	// minBelow from [1, N/2) with a fixed, observable value - used by tests
	// that need the corridor-shrink decision to be deterministic.
	MinBelowDraw int

	// SineBase, SineAmplitude, SineFrequency parameterize K=11's corridor.
	SineBase      float64
	SineAmplitude float64
	SineFrequency float64

	// LimitRange parameterizes K=8's geometric ladder extent.
	LimitRange float64
}

// Stats summarizes one ProcessUnit run, handed to the node driver for
// logging.
type Stats struct {
	Kind          Kind
	Iterations    int
	BestFitness   float64
	MinimumFound  bool
}

// Strategy runs one work unit: integrate the seed, search, and report the
// local best.
type Strategy interface {
	ProcessUnit(seed individual.Individual) (individual.Individual, Stats, error)
}

// New constructs the Strategy for kind over pop and keeps rng on it. The
// variants draw their randomness (K=3's slot choice, K=4's minBelow draw)
// from pop's own source. pop must already be constructed (population.New).
func New(cfg Config, pop *population.LocalPopulation, rng *rand.Rand) (Strategy, error) {
	base := base{pop: pop, cfg: cfg, rng: rng}
	switch cfg.Kind {
	case KindElitistHalving:
		return &elitistHalving{base}, nil
	case KindPerSlotHillClimb:
		return &perSlotHillClimb{base}, nil
	case KindStochasticOneNeighbor:
		return &stochasticOneNeighbor{base}, nil
	case KindSharedShrinkingLimit:
		return &sharedShrinkingLimit{base: base}, nil
	case KindAverageFitnessAccept:
		return &averageFitnessAccept{base}, nil
	case KindBranchCompareBest:
		return &branchCompareBest{base}, nil
	case KindPlateauElitistHalving:
		return &plateauElitistHalving{base}, nil
	case KindGeometricLadderCorridor:
		return &geometricLadderCorridor{base}, nil
	case KindBestRepopulateUnique:
		return &bestRepopulateUnique{base}, nil
	case KindBestRepopulateDuplicates:
		return &bestRepopulateDuplicates{base}, nil
	case KindSinusoidalCorridor:
		return &sinusoidalCorridor{base}, nil
	default:
		return nil, ferr.NewInvalidConfig("population_kind", "must be in 1..11")
	}
}

// base holds the fields every K variant needs and implements the shared
// skeleton pieces (seed integration, mutation-pool reshuffle, early-exit
// check after each iteration's body runs).
type base struct {
	pop *population.LocalPopulation
	cfg Config
	rng *rand.Rand
}

// targetMet reports whether the population's current best already clears
// the target fitness - the check every strategy makes after each
// iteration's body has run, before deciding whether to loop again.
func (b *base) targetMet() bool {
	return b.pop.Best().Fitness() <= b.pop.Config().TargetFitness
}

// begin runs the common seed-integration and pool-shuffle steps shared by
// every strategy's ProcessUnit.
func (b *base) begin(seed individual.Individual) {
	b.pop.RandomizeOrAccept(seed)
	b.pop.ShuffleMutationOps()
	b.pop.OnBeforeIteration()
}

// finish runs the common post-loop steps and assembles Stats.
func (b *base) finish(iterationsRun int) (individual.Individual, Stats) {
	b.pop.OnAfterIteration()
	b.pop.ComputeFitness2()
	best := b.pop.Best()
	return best, Stats{
		Kind:         b.cfg.Kind,
		Iterations:   iterationsRun,
		BestFitness:  best.Fitness(),
		MinimumFound: b.pop.MinimumFound(),
	}
}

// runBudget executes the shared skeleton loop for `total` passes around
// body, checking the target after body runs on every pass (so a pass
// always completes in full before the loop can exit on it), and returns
// how many passes actually ran.
func (b *base) runBudget(total int, body func(iter int) error) (int, error) {
	ran := 0
	for iter := 0; iter < total; iter++ {
		b.pop.Tick(iter)
		if err := body(iter); err != nil {
			return ran, err
		}
		ran++
		if b.targetMet() {
			b.pop.EarlyExit(iter)
			return ran, nil
		}
	}
	return ran, nil
}

// runIterBudget is the common case: total passes equal to the population's
// configured IterBudget.
func (b *base) runIterBudget(body func(iter int) error) (int, error) {
	return b.runBudget(b.pop.Config().IterBudget, body)
}

// cloneMutateScore clones src, applies n mutations drawn from the
// population's shuffled op pool, rescores, and returns the clone. Mutation
// errors (UnknownMutationOp) propagate unchanged, fatal per the spec.
func cloneMutateScore(pop *population.LocalPopulation, src individual.Individual, n int) (individual.Individual, error) {
	cand := src.Clone()
	if err := pop.MutateNTimes(cand, n); err != nil {
		return nil, err
	}
	cand.Fitness()
	return cand, nil
}

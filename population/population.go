// Package population implements LocalPopulation: the fixed-size collection
// of individuals that every strategy (K=1..11) iterates over. It owns
// sorting, the mutation-operator draw pool, randomize/accept-seed policy,
// and early-exit/fraction-callback bookkeeping. One LocalPopulation exists
// per node, constructed once at startup and mutated every work unit.
package population

import (
	"math"
	"math/rand"
	"time"

	"github.com/signalnine/evolusnake/ferr"
	"github.com/signalnine/evolusnake/individual"
)

// DefaultEarlyExitBackoff is the anti-thrash sleep EarlyExit applies when it
// fires on the very first iteration of a work unit - a coarse backoff
// against spamming the server with trivially-met targets. The spec leaves
// the constant a documented, overridable default.
const DefaultEarlyExitBackoff = 5 * time.Second

// DefaultOpPoolPadding is how many times each configured mutation op is
// repeated before the draw pool is shuffled, giving a bounded, well-mixed
// pseudo-round-robin stream instead of pure random choice.
const DefaultOpPoolPadding = 10

// Config holds construction-time parameters for a LocalPopulation. Validate
// reports ferr.InvalidConfig for any field outside its documented range.
type Config struct {
	Size             int
	IterBudget       int
	MutBudget        int
	TargetFitness    float64
	TargetFitness2   float64
	MutationOps      []int
	RandomizePop     bool
	RandomizeEvery   int
	AcceptNewBest    bool
	FractionStride   int // OnFractionIteration fires every ceil(IterBudget/FractionStride) iterations
	OpPoolPadding    int // defaults to DefaultOpPoolPadding when 0
	EarlyExitBackoff time.Duration // defaults to DefaultEarlyExitBackoff when 0
}

// Validate fails fast with ferr.InvalidConfig on any out-of-range field.
func (c *Config) Validate() error {
	if c.Size < 2 {
		return ferr.NewInvalidConfig("node_population_size", "must be >= 2")
	}
	if c.IterBudget < 1 {
		return ferr.NewInvalidConfig("num_of_iterations", "must be >= 1")
	}
	if c.MutBudget < 1 {
		return ferr.NewInvalidConfig("num_of_mutations", "must be >= 1")
	}
	if len(c.MutationOps) == 0 {
		return ferr.NewInvalidConfig("mutation_operations", "must be non-empty")
	}
	if c.RandomizePop && c.RandomizeEvery < 1 {
		return ferr.NewInvalidConfig("randomize_count", "must be >= 1 when randomize_population is set")
	}
	return nil
}

// Hooks are user-supplied callbacks bracketing a ProcessUnit run. Any of
// them may be nil.
type Hooks struct {
	OnBeforeIteration  func(p *LocalPopulation)
	OnAfterIteration   func(p *LocalPopulation)
	OnFractionIteration func(p *LocalPopulation)
}

// LocalPopulation is the per-node working set every strategy mutates.
type LocalPopulation struct {
	cfg   Config
	rng   *rand.Rand
	hooks Hooks

	inds     []individual.Individual
	bestIdx  int
	worstIdx int

	shuffledOps []int
	mutOpCursor int

	randomizeCounter int
	minimumFound     bool
	iterationCounter int

	fitness2Cache map[int]float64
}

// New constructs a LocalPopulation by cloning seed N times, randomizing and
// scoring each clone. Fails fast with ferr.InvalidConfig if cfg is invalid.
func New(cfg Config, seed individual.Individual, rng *rand.Rand, hooks Hooks) (*LocalPopulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.OpPoolPadding == 0 {
		cfg.OpPoolPadding = DefaultOpPoolPadding
	}
	if cfg.EarlyExitBackoff == 0 {
		cfg.EarlyExitBackoff = DefaultEarlyExitBackoff
	}
	if cfg.FractionStride == 0 {
		cfg.FractionStride = 1
	}

	inds := make([]individual.Individual, cfg.Size)
	for i := range inds {
		ind := seed.Clone()
		ind.Randomize()
		ind.Fitness()
		inds[i] = ind
	}

	p := &LocalPopulation{
		cfg:   cfg,
		rng:   rng,
		hooks: hooks,
		inds:  inds,
	}
	p.FindBestAndWorst()
	p.ShuffleMutationOps()
	return p, nil
}

// Config returns the population's construction-time configuration.
func (p *LocalPopulation) Config() Config { return p.cfg }

// Len returns N, the population size.
func (p *LocalPopulation) Len() int { return len(p.inds) }

// At returns the individual at slot i.
func (p *LocalPopulation) At(i int) individual.Individual { return p.inds[i] }

// Set overwrites the individual at slot i.
func (p *LocalPopulation) Set(i int, ind individual.Individual) { p.inds[i] = ind }

// BestIdx returns the current best slot.
func (p *LocalPopulation) BestIdx() int { return p.bestIdx }

// WorstIdx returns the current worst slot.
func (p *LocalPopulation) WorstIdx() int { return p.worstIdx }

// Best returns the current best individual.
func (p *LocalPopulation) Best() individual.Individual { return p.inds[p.bestIdx] }

// Worst returns the current worst individual.
func (p *LocalPopulation) Worst() individual.Individual { return p.inds[p.worstIdx] }

// MinimumFound reports whether EarlyExit has fired during this ProcessUnit.
func (p *LocalPopulation) MinimumFound() bool { return p.minimumFound }

// IterationCounter returns how many iterations have elapsed this ProcessUnit.
func (p *LocalPopulation) IterationCounter() int { return p.iterationCounter }

// Rng exposes the population's owned random source to strategy bodies.
func (p *LocalPopulation) Rng() *rand.Rand { return p.rng }

// FindWorst performs a linear scan updating worstIdx.
func (p *LocalPopulation) FindWorst() {
	worst := 0
	for i := 1; i < len(p.inds); i++ {
		if p.inds[i].Fitness() > p.inds[worst].Fitness() {
			worst = i
		}
	}
	p.worstIdx = worst
}

// FindBestAndWorst performs a single linear scan updating both bestIdx and
// worstIdx.
func (p *LocalPopulation) FindBestAndWorst() {
	best, worst := 0, 0
	for i := 1; i < len(p.inds); i++ {
		f := p.inds[i].Fitness()
		if f < p.inds[best].Fitness() {
			best = i
		}
		if f > p.inds[worst].Fitness() {
			worst = i
		}
	}
	p.bestIdx, p.worstIdx = best, worst
}

// Sort orders inds ascending by fitness (best first) and refreshes
// bestIdx/worstIdx accordingly.
func (p *LocalPopulation) Sort() {
	sortByFitnessAscending(p.inds)
	p.bestIdx = 0
	p.worstIdx = len(p.inds) - 1
}

// Randomize resets every individual: clear its mutation counter (if it has
// one), randomize, and score.
func (p *LocalPopulation) Randomize() {
	for _, ind := range p.inds {
		if holder, ok := ind.(individual.CounterHolder); ok {
			if c := holder.MutationCounter(); c != nil {
				c.Reset()
			}
		}
		ind.Randomize()
		ind.Fitness()
	}
	p.FindBestAndWorst()
}

// RandomizeOrAccept implements the seed-integration policy at the top of
// every ProcessUnit: if randomizePop is set, count toward randomizeEvery and
// fully randomize on the configured cadence; otherwise, if acceptNewBest is
// set, fold the server-provided seed into slot 0 via AcceptFromServer.
func (p *LocalPopulation) RandomizeOrAccept(seed individual.Individual) {
	if p.cfg.RandomizePop {
		p.randomizeCounter++
		if p.randomizeCounter >= p.cfg.RandomizeEvery {
			p.randomizeCounter = 0
			p.Randomize()
		}
		return
	}
	if p.cfg.AcceptNewBest {
		p.inds[0].AcceptFromServer(seed)
		p.inds[0].Fitness()
		p.FindBestAndWorst()
	}
}

// ShuffleMutationOps pads the configured op list to OpPoolPadding times its
// length (each configured op repeated that many times), permutes the pad,
// and resets the draw cursor. Called once at the start of every ProcessUnit.
func (p *LocalPopulation) ShuffleMutationOps() {
	padded := make([]int, 0, len(p.cfg.MutationOps)*p.cfg.OpPoolPadding)
	for i := 0; i < p.cfg.OpPoolPadding; i++ {
		padded = append(padded, p.cfg.MutationOps...)
	}
	p.rng.Shuffle(len(padded), func(i, j int) {
		padded[i], padded[j] = padded[j], padded[i]
	})
	p.shuffledOps = padded
	p.mutOpCursor = 0
}

// NextMutationOp returns the next op in the shuffled draw pool, advancing
// the cursor with wraparound.
func (p *LocalPopulation) NextMutationOp() int {
	op := p.shuffledOps[p.mutOpCursor]
	p.mutOpCursor = (p.mutOpCursor + 1) % len(p.shuffledOps)
	return op
}

// MutateNTimes applies n mutations to ind, drawing ops from the shuffled
// pool and bumping ind's mutation counter (if it has one) at each call.
func (p *LocalPopulation) MutateNTimes(ind individual.Individual, n int) error {
	for i := 0; i < n; i++ {
		if err := individual.MutateCounted(ind, p.NextMutationOp()); err != nil {
			return err
		}
	}
	return nil
}

// RandomizeWorst re-randomizes and rescores the individual at worstIdx.
func (p *LocalPopulation) RandomizeWorst() {
	p.inds[p.worstIdx].Randomize()
	p.inds[p.worstIdx].Fitness()
}

// ReplaceBest replaces the best slot with cand only if cand is strictly
// better; the best index itself is left unchanged (callers re-derive it via
// FindBestAndWorst/Sort when needed).
func (p *LocalPopulation) ReplaceBest(cand individual.Individual) bool {
	if cand.Fitness() < p.inds[p.bestIdx].Fitness() {
		p.inds[p.bestIdx] = cand
		return true
	}
	return false
}

// ReplaceWorst unconditionally overwrites the worst slot with cand.
func (p *LocalPopulation) ReplaceWorst(cand individual.Individual) {
	p.inds[p.worstIdx] = cand
}

// CloneBestToWorst deep-copies the best individual into the worst slot.
func (p *LocalPopulation) CloneBestToWorst() {
	p.inds[p.worstIdx] = p.inds[p.bestIdx].Clone()
}

// CheckLimit replaces inds[i] with cand when cand clears the acceptance
// corridor: either cand.Fitness() is below limit, or it simply improves on
// the incumbent at slot i.
func (p *LocalPopulation) CheckLimit(cand individual.Individual, limit float64, i int) bool {
	if cand.Fitness() < limit || cand.Fitness() < p.inds[i].Fitness() {
		p.inds[i] = cand
		return true
	}
	return false
}

// EarlyExit marks minimumFound and, when this is the very first iteration of
// the work unit, sleeps the configured backoff before returning - an
// anti-thrash measure against hammering the server when the target is
// trivially met.
func (p *LocalPopulation) EarlyExit(iter int) {
	p.minimumFound = true
	if iter == 0 {
		time.Sleep(p.cfg.EarlyExitBackoff)
	}
}

// ComputeFitness2 evaluates the secondary objective for every individual
// whose primary fitness has dropped below 0.01, and promotes whichever of
// them has the smallest fitness2 to bestIdx if it differs from the current
// best.
func (p *LocalPopulation) ComputeFitness2() {
	bestIdx := p.bestIdx
	bestF2 := math.Inf(1)
	found := false
	for i, ind := range p.inds {
		scorer, ok := ind.(individual.SecondaryScorer)
		if !ok || ind.Fitness() >= 0.01 {
			continue
		}
		f2 := scorer.Fitness2()
		if !found || f2 < bestF2 {
			found = true
			bestF2 = f2
			bestIdx = i
		}
	}
	if found && bestIdx != p.bestIdx {
		p.bestIdx = bestIdx
	}
}

// OnBeforeIteration resets per-ProcessUnit bookkeeping and invokes the
// user hook if set; OnAfterIteration invokes its hook if set. The
// OnFractionIteration hook is fired by Tick.
func (p *LocalPopulation) OnBeforeIteration() {
	p.minimumFound = false
	p.iterationCounter = 0
	if p.hooks.OnBeforeIteration != nil {
		p.hooks.OnBeforeIteration(p)
	}
}

func (p *LocalPopulation) OnAfterIteration() {
	if p.hooks.OnAfterIteration != nil {
		p.hooks.OnAfterIteration(p)
	}
}

// Tick advances the iteration counter and fires OnFractionIteration at the
// configured stride: every ceil(IterBudget/FractionStride) iterations.
func (p *LocalPopulation) Tick(iter int) {
	p.iterationCounter = iter
	stride := fractionInterval(p.cfg.IterBudget, p.cfg.FractionStride)
	if stride > 0 && iter%stride == 0 && p.hooks.OnFractionIteration != nil {
		p.hooks.OnFractionIteration(p)
	}
}

func fractionInterval(iterBudget, fractionStride int) int {
	if fractionStride <= 0 {
		return 0
	}
	interval := iterBudget / fractionStride
	if iterBudget%fractionStride != 0 {
		interval++
	}
	if interval < 1 {
		interval = 1
	}
	return interval
}

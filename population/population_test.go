package population

import (
	"math/rand"
	"testing"
	"time"

	"github.com/signalnine/evolusnake/individual"
)

// testIndividual is a minimal Individual backed by a single float64, used to
// exercise LocalPopulation mechanics without any problem-specific payload.
type testIndividual struct {
	value   float64
	counter *individual.Counter
}

func newTestIndividual(value float64) *testIndividual {
	return &testIndividual{value: value, counter: individual.NewCounter()}
}

func (t *testIndividual) Randomize() { t.value = 0 }

func (t *testIndividual) Mutate(op int) error {
	switch op {
	case 0:
		t.value -= 1
	case 1:
		t.value += 1
	default:
		return individual.NewUnknownMutationOp(op)
	}
	return nil
}

func (t *testIndividual) Fitness() float64 { return t.value }

func (t *testIndividual) Clone() individual.Individual {
	return &testIndividual{value: t.value, counter: t.counter.Clone()}
}

func (t *testIndividual) AcceptFromServer(other individual.Individual) {
	t.value = other.(*testIndividual).value
}

func (t *testIndividual) Serialize() (map[string]any, error) {
	return map[string]any{"value": t.value}, nil
}

func (t *testIndividual) Deserialize(doc map[string]any) error {
	t.value = doc["value"].(float64)
	return nil
}

func (t *testIndividual) MutationCounter() *individual.Counter { return t.counter }

func newTestPopulation(t *testing.T, size int, cfg Config) *LocalPopulation {
	t.Helper()
	rng := rand.New(rand.NewSource(1))
	if cfg.Size == 0 {
		cfg.Size = size
	}
	if len(cfg.MutationOps) == 0 {
		cfg.MutationOps = []int{0, 1}
	}
	if cfg.IterBudget == 0 {
		cfg.IterBudget = 10
	}
	if cfg.MutBudget == 0 {
		cfg.MutBudget = 1
	}
	pop, err := New(cfg, newTestIndividual(0), rng, Hooks{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return pop
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cases := []Config{
		{Size: 1, IterBudget: 1, MutBudget: 1, MutationOps: []int{0}},
		{Size: 2, IterBudget: 0, MutBudget: 1, MutationOps: []int{0}},
		{Size: 2, IterBudget: 1, MutBudget: 0, MutationOps: []int{0}},
		{Size: 2, IterBudget: 1, MutBudget: 1, MutationOps: nil},
	}
	for i, cfg := range cases {
		if _, err := New(cfg, newTestIndividual(0), rand.New(rand.NewSource(1)), Hooks{}); err == nil {
			t.Errorf("case %d: expected InvalidConfig, got nil", i)
		}
	}
}

func TestSortOrdersAscending(t *testing.T) {
	pop := newTestPopulation(t, 4, Config{})
	pop.Set(0, &testIndividual{value: 3})
	pop.Set(1, &testIndividual{value: 1})
	pop.Set(2, &testIndividual{value: 4})
	pop.Set(3, &testIndividual{value: 2})

	pop.Sort()

	want := []float64{1, 2, 3, 4}
	for i, w := range want {
		if got := pop.At(i).Fitness(); got != w {
			t.Errorf("At(%d) = %v, want %v", i, got, w)
		}
	}
	if pop.BestIdx() != 0 || pop.WorstIdx() != 3 {
		t.Errorf("BestIdx/WorstIdx = %d/%d, want 0/3", pop.BestIdx(), pop.WorstIdx())
	}
}

func TestFindBestAndWorst(t *testing.T) {
	pop := newTestPopulation(t, 3, Config{})
	pop.Set(0, &testIndividual{value: 5})
	pop.Set(1, &testIndividual{value: -2})
	pop.Set(2, &testIndividual{value: 9})

	pop.FindBestAndWorst()

	if pop.BestIdx() != 1 {
		t.Errorf("BestIdx() = %d, want 1", pop.BestIdx())
	}
	if pop.WorstIdx() != 2 {
		t.Errorf("WorstIdx() = %d, want 2", pop.WorstIdx())
	}
}

func TestReplaceBestOnlyOnImprovement(t *testing.T) {
	pop := newTestPopulation(t, 2, Config{})
	pop.Set(0, &testIndividual{value: 5})
	pop.Set(1, &testIndividual{value: 7})
	pop.FindBestAndWorst()

	if pop.ReplaceBest(&testIndividual{value: 10}) {
		t.Error("ReplaceBest accepted a worse candidate")
	}
	if !pop.ReplaceBest(&testIndividual{value: 1}) {
		t.Error("ReplaceBest rejected a strictly better candidate")
	}
	if got := pop.At(pop.BestIdx()).Fitness(); got != 1 {
		t.Errorf("best slot fitness = %v, want 1", got)
	}
}

func TestReplaceWorstUnconditional(t *testing.T) {
	pop := newTestPopulation(t, 2, Config{})
	pop.FindBestAndWorst()
	pop.ReplaceWorst(&testIndividual{value: 1000})
	if got := pop.At(pop.WorstIdx()).Fitness(); got != 1000 {
		t.Errorf("worst slot fitness = %v, want 1000", got)
	}
}

func TestCheckLimitAcceptsBelowLimitOrImprovement(t *testing.T) {
	pop := newTestPopulation(t, 2, Config{})
	pop.Set(0, &testIndividual{value: 5})

	if !pop.CheckLimit(&testIndividual{value: 4}, 100, 0) {
		t.Error("CheckLimit rejected candidate below limit")
	}
	if pop.CheckLimit(&testIndividual{value: 10}, 1, 0) {
		t.Error("CheckLimit accepted candidate above both limit and incumbent")
	}
}

func TestEarlyExitSleepsOnlyOnIterZero(t *testing.T) {
	cfg := Config{EarlyExitBackoff: 5 * time.Millisecond}
	pop := newTestPopulation(t, 2, cfg)

	start := time.Now()
	pop.EarlyExit(1)
	if elapsed := time.Since(start); elapsed > 2*time.Millisecond {
		t.Errorf("EarlyExit(iter=1) slept for %v, want ~0", elapsed)
	}
	if !pop.MinimumFound() {
		t.Error("EarlyExit must set minimumFound")
	}

	start = time.Now()
	pop.EarlyExit(0)
	if elapsed := time.Since(start); elapsed < 5*time.Millisecond {
		t.Errorf("EarlyExit(iter=0) slept for %v, want >= backoff", elapsed)
	}
}

func TestOpCoverageWindow(t *testing.T) {
	cfg := Config{MutationOps: []int{0, 1, 2}}
	pop := newTestPopulation(t, 2, cfg)

	window := 10 * len(cfg.MutationOps)
	counts := map[int]int{}
	for i := 0; i < window; i++ {
		counts[pop.NextMutationOp()]++
	}
	for _, op := range cfg.MutationOps {
		if counts[op] < 9 {
			t.Errorf("op %d appeared %d times in a %d-draw window, want >= 9", op, counts[op], window)
		}
	}
}

func TestComputeFitness2GatedOnPrimaryFitness(t *testing.T) {
	pop := newTestPopulation(t, 3, Config{})
	pop.Set(0, &fitness2Individual{testIndividual: testIndividual{value: 0.005}, f2: 5, evalCount: new(int)})
	pop.Set(1, &fitness2Individual{testIndividual: testIndividual{value: 0.5}, f2: -100, evalCount: new(int)})
	pop.Set(2, &fitness2Individual{testIndividual: testIndividual{value: 0.002}, f2: 1, evalCount: new(int)})
	pop.FindBestAndWorst()

	pop.ComputeFitness2()

	if pop.BestIdx() != 2 {
		t.Errorf("BestIdx() = %d, want 2 (smallest fitness2 among fitness<0.01 individuals)", pop.BestIdx())
	}
	if got := *pop.At(1).(*fitness2Individual).evalCount; got != 0 {
		t.Errorf("Fitness2 evaluated for individual with fitness >= 0.01: evalCount=%d", got)
	}
}

type fitness2Individual struct {
	testIndividual
	f2        float64
	evalCount *int
}

func (f *fitness2Individual) Fitness2() float64 {
	*f.evalCount++
	return f.f2
}

func (f *fitness2Individual) Clone() individual.Individual {
	return &fitness2Individual{testIndividual: testIndividual{value: f.value, counter: f.counter.Clone()}, f2: f.f2, evalCount: f.evalCount}
}

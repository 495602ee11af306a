package server

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signalnine/evolusnake/individual"
)

// scalarIndividual is a minimal Individual wrapping a single float64,
// optionally exposing a secondary fitness, used to exercise admission
// without any problem-specific payload.
type scalarIndividual struct {
	value   float64
	f2      *float64
	counter *individual.Counter
}

func newScalar(v float64) *scalarIndividual {
	return &scalarIndividual{value: v, counter: individual.NewCounter()}
}

func (s *scalarIndividual) Randomize()             {}
func (s *scalarIndividual) Mutate(op int) error    { return nil }
func (s *scalarIndividual) Fitness() float64       { return s.value }
func (s *scalarIndividual) Fitness2() float64      { return *s.f2 }
func (s *scalarIndividual) MutationCounter() *individual.Counter { return s.counter }

func (s *scalarIndividual) Clone() individual.Individual {
	c := &scalarIndividual{value: s.value, counter: s.counter.Clone()}
	if s.f2 != nil {
		f2 := *s.f2
		c.f2 = &f2
	}
	return c
}

func (s *scalarIndividual) AcceptFromServer(other individual.Individual) {
	s.value = other.(*scalarIndividual).value
}

func (s *scalarIndividual) Serialize() (map[string]any, error) {
	return map[string]any{"value": s.value}, nil
}

func (s *scalarIndividual) Deserialize(doc map[string]any) error {
	s.value = doc["value"].(float64)
	return nil
}

func newTestElite(t *testing.T, cfg Config) *Elite {
	t.Helper()
	if cfg.ResultPath == "" {
		cfg.ResultPath = filepath.Join(t.TempDir(), "result.json")
	}
	e, err := New(cfg, newScalar(100), rand.New(rand.NewSource(1)), nil)
	require.NoError(t, err)
	return e
}

func TestNewSortsInitialElite(t *testing.T) {
	e := newTestElite(t, Config{Size: 4})
	for i := 1; i < len(e.elite); i++ {
		assert.LessOrEqual(t, e.elite[i-1].Fitness(), e.elite[i].Fitness())
	}
}

func TestSubmitRejectsWorseThanWorst(t *testing.T) {
	e := newTestElite(t, Config{Size: 2})
	e.elite[0] = newScalar(1)
	e.elite[1] = newScalar(2)

	accepted, err := e.Submit("node-a", newScalar(5))
	require.NoError(t, err)
	assert.False(t, accepted)
}

func TestSubmitAcceptsStrictImprovement(t *testing.T) {
	e := newTestElite(t, Config{Size: 2})
	e.elite[0] = newScalar(1)
	e.elite[1] = newScalar(2)

	accepted, err := e.Submit("node-a", newScalar(1.5))
	require.NoError(t, err)
	assert.True(t, accepted)
	assert.Equal(t, int64(1), e.AcceptCount("node-a"))
}

func TestSubmitRejectsDuplicateFitnessByDefault(t *testing.T) {
	e := newTestElite(t, Config{Size: 2, AllowDuplicateFitness: false})
	e.elite[0] = newScalar(1)
	e.elite[1] = newScalar(2)

	accepted, err := e.Submit("node-a", newScalar(1))
	require.NoError(t, err)
	assert.False(t, accepted, "duplicate fitness must be rejected when AllowDuplicateFitness is false")
}

func TestSubmitAllowsDuplicateFitnessWhenConfigured(t *testing.T) {
	e := newTestElite(t, Config{Size: 2, AllowDuplicateFitness: true})
	e.elite[0] = newScalar(1)
	e.elite[1] = newScalar(2)

	accepted, err := e.Submit("node-a", newScalar(1))
	require.NoError(t, err)
	assert.True(t, accepted)
}

func TestSubmitIsIdempotentUnderDuplicates(t *testing.T) {
	e := newTestElite(t, Config{Size: 3})
	e.elite[0] = newScalar(1)
	e.elite[1] = newScalar(2)
	e.elite[2] = newScalar(3)

	accepted1, err := e.Submit("node-a", newScalar(1.5))
	require.NoError(t, err)
	require.True(t, accepted1)

	accepted2, err := e.Submit("node-b", newScalar(1.5))
	require.NoError(t, err)
	assert.False(t, accepted2, "resubmitting an already-present fitness must be a silent reject")
}

func TestSubmitIgnoresEverythingAfterTarget2Met(t *testing.T) {
	e := newTestElite(t, Config{Size: 2, TargetFitness2: 0.5})
	e.target2Met = true

	accepted, err := e.Submit("node-a", newScalar(-1000))
	require.NoError(t, err)
	assert.False(t, accepted)
}

func TestSubmitPromotesOnTarget2ShortCircuit(t *testing.T) {
	e := newTestElite(t, Config{Size: 2, TargetFitness2: 0.5})
	e.elite[0] = newScalar(1)
	e.elite[1] = newScalar(2)

	f2 := 0.1
	cand := newScalar(0.001)
	cand.f2 = &f2

	accepted, err := e.Submit("node-a", cand)
	require.NoError(t, err)
	assert.True(t, accepted)
	assert.True(t, e.target2Met)
	assert.True(t, e.IsDone())
	assert.Same(t, cand, e.elite[0])
}

// TestSubmitTarget2ShortCircuitPromotesWithoutSort pins spec §4.4 step 2: the
// candidate lands at elite[0] unconditionally, even when its primary
// fitness is worse than another elite member's, because the step never
// sorts - it overwrites slot 0 directly.
func TestSubmitTarget2ShortCircuitPromotesWithoutSort(t *testing.T) {
	e := newTestElite(t, Config{Size: 2, TargetFitness2: 0.5})
	e.elite[0] = newScalar(0.0001)
	e.elite[1] = newScalar(2)

	f2 := 0.1
	cand := newScalar(0.005)
	cand.f2 = &f2

	accepted, err := e.Submit("node-a", cand)
	require.NoError(t, err)
	assert.True(t, accepted)
	assert.Same(t, cand, e.elite[0])
}

func TestIsDoneReflectsTargetFitness(t *testing.T) {
	e := newTestElite(t, Config{Size: 2, TargetFitness: 1})
	e.elite[0] = newScalar(5)
	e.elite[1] = newScalar(6)
	assert.False(t, e.IsDone())

	e.elite[0] = newScalar(0.5)
	assert.True(t, e.IsDone())
}

func TestSaveFinalWritesResultFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "result.json")
	e := newTestElite(t, Config{Size: 2, ResultPath: path})
	e.elite[0] = newScalar(0.25)

	require.NoError(t, e.SaveFinal())

	_, err := os.Stat(path)
	require.NoError(t, err)
}

func TestSubmitWritesNumberedCheckpointOnImprovement(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "result.json")
	e := newTestElite(t, Config{Size: 2, ResultPath: path, SaveEveryImprovement: true})
	e.elite[0] = newScalar(5)
	e.elite[1] = newScalar(6)

	accepted, err := e.Submit("node-a", newScalar(1))
	require.NoError(t, err)
	require.True(t, accepted)

	_, err = os.Stat(path)
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "1_result.json"))
	require.NoError(t, err)
}

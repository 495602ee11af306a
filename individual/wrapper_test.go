package individual

import "testing"

type fakeIndividual struct {
	state   int
	fails   map[int]bool
	counter *Counter
}

func newFakeIndividual() *fakeIndividual {
	return &fakeIndividual{fails: map[int]bool{}, counter: NewCounter()}
}

func (f *fakeIndividual) Randomize() { f.state = 0 }

func (f *fakeIndividual) Mutate(op int) error {
	if f.fails[op] {
		return NewUnknownMutationOp(op)
	}
	f.state += op
	return nil
}

func (f *fakeIndividual) Fitness() float64 { return float64(f.state) }

func (f *fakeIndividual) Clone() Individual {
	clone := &fakeIndividual{state: f.state, fails: map[int]bool{}, counter: f.counter.Clone()}
	for k, v := range f.fails {
		clone.fails[k] = v
	}
	return clone
}

func (f *fakeIndividual) AcceptFromServer(other Individual) {
	f.state = other.(*fakeIndividual).state
}

func (f *fakeIndividual) Serialize() (map[string]any, error) {
	return map[string]any{"state": f.state}, nil
}

func (f *fakeIndividual) Deserialize(doc map[string]any) error {
	f.state = int(doc["state"].(float64))
	return nil
}

func (f *fakeIndividual) MutationCounter() *Counter { return f.counter }

func TestMutateCountedBumpsHistogram(t *testing.T) {
	ind := newFakeIndividual()

	for i := 0; i < 5; i++ {
		if err := MutateCounted(ind, 2); err != nil {
			t.Fatalf("MutateCounted: %v", err)
		}
	}
	if err := MutateCounted(ind, 7); err != nil {
		t.Fatalf("MutateCounted: %v", err)
	}

	if got := ind.counter.Total(); got != 6 {
		t.Errorf("Total() = %d, want 6", got)
	}
	counts := ind.counter.Counts()
	if counts[2] != 5 {
		t.Errorf("counts[2] = %d, want 5", counts[2])
	}
	if counts[7] != 1 {
		t.Errorf("counts[7] = %d, want 1", counts[7])
	}
}

func TestMutateCountedDoesNotBumpOnError(t *testing.T) {
	ind := newFakeIndividual()
	ind.fails[99] = true

	err := MutateCounted(ind, 99)
	if err == nil {
		t.Fatal("expected UnknownMutationOp error")
	}
	if _, ok := err.(*UnknownMutationOp); !ok {
		t.Errorf("expected *UnknownMutationOp, got %T", err)
	}
	if got := ind.counter.Total(); got != 0 {
		t.Errorf("Total() = %d, want 0 after failed mutation", got)
	}
}

func TestCounterResetAndClone(t *testing.T) {
	counter := NewCounter()
	counter.Bump(1)
	counter.Bump(1)
	counter.Bump(3)

	clone := counter.Clone()
	counter.Reset()

	if got := counter.Total(); got != 0 {
		t.Errorf("Total() after Reset = %d, want 0", got)
	}
	if got := clone.Total(); got != 3 {
		t.Errorf("clone Total() = %d, want 3 (clone must be independent)", got)
	}
}

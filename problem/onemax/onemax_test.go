package onemax

import (
	"math/rand"
	"testing"

	"github.com/signalnine/evolusnake/individual"
)

func TestMutateFlipsBit(t *testing.T) {
	o := New(4, "", rand.New(rand.NewSource(1)))
	o.Randomize()
	before := o.bits[0]

	if err := o.Mutate(0); err != nil {
		t.Fatalf("Mutate: %v", err)
	}
	if o.bits[0] == before {
		t.Error("bit 0 unchanged after Mutate(0)")
	}
}

func TestMutateRejectsOutOfRangeOp(t *testing.T) {
	o := New(4, "", rand.New(rand.NewSource(1)))
	if err := o.Mutate(99); err == nil {
		t.Fatal("expected UnknownMutationOp for op 99")
	}
}

func TestFitnessCountsZeroBits(t *testing.T) {
	o := New(4, "", rand.New(rand.NewSource(1)))
	o.bits = []int{0, 1, 0, 1}
	if got := o.Fitness(); got != 2 {
		t.Errorf("Fitness() = %v, want 2", got)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	o := New(4, "", rand.New(rand.NewSource(1)))
	o.bits = []int{0, 0, 0, 0}
	clone := o.Clone().(*OneMax)
	clone.bits[0] = 1

	if o.bits[0] == clone.bits[0] {
		t.Error("mutating the clone changed the original")
	}
}

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	o := New(4, "tuning-string", rand.New(rand.NewSource(1)))
	o.bits = []int{1, 0, 1, 0}
	if err := individual.MutateCounted(o, 1); err != nil {
		t.Fatalf("MutateCounted: %v", err)
	}
	individualCounter := o.MutationCounter().Counts()
	if individualCounter[1] != 1 {
		t.Fatalf("counter[1] = %d, want 1 before round trip", individualCounter[1])
	}

	doc, err := o.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	restored := New(4, "", rand.New(rand.NewSource(2)))
	if err := restored.Deserialize(doc); err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if restored.Fitness() != o.Fitness() {
		t.Errorf("restored.Fitness() = %v, want %v", restored.Fitness(), o.Fitness())
	}
}

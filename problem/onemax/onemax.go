// Package onemax is a minimal reference Individual: a fixed-length bit
// vector whose fitness is the count of zero bits (0 is optimal, since the
// framework minimizes). It exists only to exercise the framework's tests
// and example binaries - it is not part of the search core.
package onemax

import (
	"math/rand"
	"strconv"

	"github.com/signalnine/evolusnake/individual"
)

// OneMax is the bitstring-counting reference problem. Mutate(op) flips bit
// op; there are exactly N ops, one per bit.
type OneMax struct {
	bits        []int
	userOptions string
	rng         *rand.Rand
	counter     *individual.Counter
}

// New constructs a OneMax of n bits. userOptions is stored unparsed and
// never interpreted by the framework, matching the original CLI's
// free-form problem-tuning string.
func New(n int, userOptions string, rng *rand.Rand) *OneMax {
	return &OneMax{
		bits:        make([]int, n),
		userOptions: userOptions,
		rng:         rng,
		counter:     individual.NewCounter(),
	}
}

// Ops returns the declared mutation-op set: one flip-this-bit op per bit.
func Ops(n int) []int {
	ops := make([]int, n)
	for i := range ops {
		ops[i] = i
	}
	return ops
}

func (o *OneMax) Randomize() {
	for i := range o.bits {
		if o.rng.Intn(2) == 1 {
			o.bits[i] = 1
		} else {
			o.bits[i] = 0
		}
	}
}

func (o *OneMax) Mutate(op int) error {
	if op < 0 || op >= len(o.bits) {
		return individual.NewUnknownMutationOp(op)
	}
	o.bits[op] ^= 1
	return nil
}

// Fitness is the count of zero bits: 0 means every bit is set, the optimum.
func (o *OneMax) Fitness() float64 {
	zeros := 0
	for _, b := range o.bits {
		if b == 0 {
			zeros++
		}
	}
	return float64(zeros)
}

func (o *OneMax) Clone() individual.Individual {
	bits := make([]int, len(o.bits))
	copy(bits, o.bits)
	return &OneMax{
		bits:        bits,
		userOptions: o.userOptions,
		rng:         o.rng,
		counter:     o.counter.Clone(),
	}
}

func (o *OneMax) AcceptFromServer(other individual.Individual) {
	src := other.(*OneMax)
	o.bits = append([]int(nil), src.bits...)
}

func (o *OneMax) Serialize() (map[string]any, error) {
	return map[string]any{
		"bits":        append([]int(nil), o.bits...),
		"mut_counts":  o.counter.Counts(),
		"user_options": o.userOptions,
	}, nil
}

func (o *OneMax) Deserialize(doc map[string]any) error {
	raw, ok := doc["bits"].([]int)
	if ok {
		o.bits = append([]int(nil), raw...)
	} else if rawAny, ok := doc["bits"].([]any); ok {
		bits := make([]int, len(rawAny))
		for i, v := range rawAny {
			bits[i] = int(v.(float64))
		}
		o.bits = bits
	}
	switch counts := doc["mut_counts"].(type) {
	case map[int]int:
		o.counter.Restore(counts)
	case map[string]any:
		restored := make(map[int]int, len(counts))
		for k, v := range counts {
			op, err := strconv.Atoi(k)
			if err != nil {
				continue
			}
			restored[op] = int(v.(float64))
		}
		o.counter.Restore(restored)
	}
	return nil
}

func (o *OneMax) MutationCounter() *individual.Counter { return o.counter }

package population

import (
	"sort"

	"github.com/signalnine/evolusnake/individual"
)

// sortByFitnessAscending orders individuals best-first (lowest fitness
// first), mirroring the teacher's sort.Slice selection helpers but flipped
// for a minimized objective.
func sortByFitnessAscending(inds []individual.Individual) {
	sort.Slice(inds, func(i, j int) bool {
		return inds[i].Fitness() < inds[j].Fitness()
	})
}

package server

import (
	"sort"

	"github.com/signalnine/evolusnake/individual"
)

// sortByFitnessAscending orders the elite list best-first (lowest fitness
// first), the same convention LocalPopulation uses.
func sortByFitnessAscending(inds []individual.Individual) {
	sort.Slice(inds, func(i, j int) bool {
		return inds[i].Fitness() < inds[j].Fitness()
	})
}

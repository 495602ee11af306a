package server

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/signalnine/evolusnake/individual"
)

// checkpointDocument is the on-disk shape of a saved individual: the
// Serialize() payload alongside the fitness values the framework itself
// tracks, so a checkpoint is self-describing without re-running Fitness.
type checkpointDocument struct {
	Fitness       float64        `json:"fitness"`
	ActualFitness float64        `json:"actual_fitness"`
	State         map[string]any `json:"state"`
}

// saveCheckpoint writes ind to path atomically: marshal to a temp file,
// then rename over the destination, mirroring the teacher's
// write-tmp-then-rename checkpoint discipline.
func saveCheckpoint(ind individual.Individual, path string) error {
	doc, err := ind.Serialize()
	if err != nil {
		return errors.Wrap(err, "serialize checkpoint")
	}

	record := checkpointDocument{
		Fitness:       ind.Fitness(),
		ActualFitness: individual.ActualFitness(ind, ind.Fitness()),
		State:         doc,
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "create checkpoint directory")
		}
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal checkpoint")
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.Wrap(err, "write checkpoint")
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return errors.Wrap(err, "finalize checkpoint")
	}
	return nil
}

// numberedPath produces the "{improvementCount}_{resultPath}" sibling file
// the original's saveEveryImprovement option writes alongside the final
// result, preserving the full improvement history on disk.
func numberedPath(improvementCount int, resultPath string) string {
	dir, file := filepath.Split(resultPath)
	return filepath.Join(dir, fmt.Sprintf("%d_%s", improvementCount, file))
}

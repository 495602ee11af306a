// Package server implements ServerElite, the coordinator's sorted elite
// population: admission, hand-out policy, termination detection, and
// checkpointing. One Elite exists per server process; every node's
// GetSeed/Submit RPC ultimately calls through to it.
package server

import (
	"math/rand"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/puzpuzpuz/xsync/v4"
	"go.uber.org/zap"

	"github.com/signalnine/evolusnake/ferr"
	"github.com/signalnine/evolusnake/individual"
)

// Config holds ServerElite's construction-time parameters.
type Config struct {
	Size                  int
	TargetFitness         float64
	TargetFitness2        float64
	AllowDuplicateFitness bool
	ShareOnlyBest         bool
	SaveEveryImprovement  bool
	ResultPath            string
}

// Validate fails fast with ferr.InvalidConfig on any out-of-range field.
func (c *Config) Validate() error {
	if c.Size < 2 {
		return ferr.NewInvalidConfig("server_population_size", "must be >= 2")
	}
	if c.ResultPath == "" {
		return ferr.NewInvalidConfig("result_filename", "must be set")
	}
	return nil
}

// Elite is the server's sorted population of candidate solutions. All
// access to elite/target2Met/improvementCount is serialized by mu, per the
// single-lock-order rule; perNodeAcceptCount is a separate concurrent map
// so diagnostics can read per-node counters without contending on mu, even
// though writes to it only ever happen while mu is already held.
type Elite struct {
	mu    sync.Mutex
	cfg   Config
	elite []individual.Individual

	target2Met       bool
	improvementCount int
	startTime        time.Time

	rng    *rand.Rand
	logger *zap.SugaredLogger

	perNodeAcceptCount *xsync.MapOf[string, int64]
}

// New constructs an Elite by cloning seed Size times, randomizing and
// scoring each clone, then sorting.
func New(cfg Config, seed individual.Individual, rng *rand.Rand, logger *zap.SugaredLogger) (*Elite, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "server.New")
	}

	elite := make([]individual.Individual, cfg.Size)
	for i := range elite {
		ind := seed.Clone()
		ind.Randomize()
		ind.Fitness()
		elite[i] = ind
	}

	e := &Elite{
		cfg:                cfg,
		elite:              elite,
		startTime:          time.Now(),
		rng:                rng,
		logger:             logger,
		perNodeAcceptCount: xsync.NewMapOf[string, int64](),
	}
	e.sortLocked()
	return e, nil
}

func (e *Elite) sortLocked() {
	sortByFitnessAscending(e.elite)
}

// GetSeed hands a deep copy of a population member to a requesting node,
// per the configured hand-out policy: share only the global best, or pick
// a uniformly random elite member.
func (e *Elite) GetSeed(nodeID string) individual.Individual {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cfg.ShareOnlyBest {
		return e.elite[0].Clone()
	}
	idx := e.rng.Intn(len(e.elite))
	return e.elite[idx].Clone()
}

// Submit runs the six-step admission rule against a node-reported
// candidate. Submission is idempotent under duplicates: resubmitting a
// fitness value already present in the elite is a silent, harmless reject.
func (e *Elite) Submit(nodeID string, cand individual.Individual) (accepted bool, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	// Step 1: ignore-if-target2-met. Once the secondary objective has
	// converged, the server stops accepting further candidates entirely.
	if e.target2Met {
		return false, nil
	}

	worst := e.elite[len(e.elite)-1]

	// Step 2: target2 short-circuit promotion. A candidate that clears the
	// secondary-objective gate bypasses the ordinary worse-than-worst and
	// duplicate checks and is promoted directly.
	if e.cfg.TargetFitness2 != 0 {
		if scorer, ok := cand.(individual.SecondaryScorer); ok && cand.Fitness() < 0.01 {
			if scorer.Fitness2() <= e.cfg.TargetFitness2 {
				e.target2Met = true
				e.elite[0] = cand
				e.recordAcceptLocked(nodeID)
				e.onImprovementLocked(cand)
				return true, nil
			}
		}
	}

	// Step 3: reject-if-worse-than-worst.
	if cand.Fitness() >= worst.Fitness() {
		return false, nil
	}

	// Step 4: reject-on-duplicate-fitness.
	if !e.cfg.AllowDuplicateFitness {
		for _, ind := range e.elite {
			if ind.Fitness() == cand.Fitness() {
				return false, nil
			}
		}
	}

	// Step 5: overwrite-worst-then-sort.
	previousBest := e.elite[0].Fitness()
	e.elite[len(e.elite)-1] = cand
	e.sortLocked()
	e.recordAcceptLocked(nodeID)

	// Step 6: improvement bookkeeping + checkpoint.
	if e.elite[0].Fitness() < previousBest {
		e.onImprovementLocked(e.elite[0])
	}
	return true, nil
}

func (e *Elite) recordAcceptLocked(nodeID string) {
	count, _ := e.perNodeAcceptCount.Load(nodeID)
	e.perNodeAcceptCount.Store(nodeID, count+1)
}

func (e *Elite) onImprovementLocked(best individual.Individual) {
	e.improvementCount++
	individual.NotifyNewBest(best)
	if e.logger != nil {
		e.logger.Infow("new best",
			"fitness", best.Fitness(),
			"actual_fitness", individual.ActualFitness(best, best.Fitness()),
			"improvement_count", e.improvementCount,
		)
	}
	if err := e.checkpointLocked(best); err != nil && e.logger != nil {
		e.logger.Errorw("checkpoint failed", "error", err)
	}
}

// IsDone reports whether the server's termination condition has been met:
// the global best has cleared the primary target, or the secondary target
// short-circuit has fired. The server never trusts a node's own notion of
// "done" - only fitness.
func (e *Elite) IsDone() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.target2Met || e.elite[0].Fitness() <= e.cfg.TargetFitness
}

// Best returns a deep copy of the current global best.
func (e *Elite) Best() individual.Individual {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.elite[0].Clone()
}

// AcceptCount returns the number of candidates accepted from nodeID so far.
func (e *Elite) AcceptCount(nodeID string) int64 {
	count, _ := e.perNodeAcceptCount.Load(nodeID)
	return count
}

// SaveFinal unconditionally writes the current global best to ResultPath,
// regardless of the SaveEveryImprovement setting - the last thing a server
// does before shutting down.
func (e *Elite) SaveFinal() error {
	e.mu.Lock()
	best := e.elite[0].Clone()
	e.mu.Unlock()
	return saveCheckpoint(best, e.cfg.ResultPath)
}

// checkpointLocked writes resultPath and, when SaveEveryImprovement is set,
// an additional numbered snapshot for this improvement. Must be called
// with mu held.
func (e *Elite) checkpointLocked(best individual.Individual) error {
	if err := saveCheckpoint(best, e.cfg.ResultPath); err != nil {
		return err
	}
	if e.cfg.SaveEveryImprovement {
		if err := saveCheckpoint(best, numberedPath(e.improvementCount, e.cfg.ResultPath)); err != nil {
			return err
		}
	}
	return nil
}

// Package node implements the cooperative single-threaded node loop:
// request a seed, run one strategy pass, submit the local best, repeat
// until the server signals convergence or the transport's retry budget is
// exhausted.
package node

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/signalnine/evolusnake/ferr"
	"github.com/signalnine/evolusnake/individual"
	"github.com/signalnine/evolusnake/strategy"
	"github.com/signalnine/evolusnake/transport"
)

// maxGetSeedRetries bounds how many consecutive transport failures a node
// tolerates before giving up and reporting Unreachable.
const maxGetSeedRetries = 5

// NewIndividual constructs a blank problem Individual ready for
// Deserialize, used to materialize the server-provided seed on every work
// unit.
type NewIndividual func() individual.Individual

// Runner drives one node process's work-unit loop.
type Runner struct {
	id            string
	addr          string
	client        transport.EvolusnakeClient
	strat         strategy.Strategy
	newIndividual NewIndividual
	limiter       *rate.Limiter
	logger        *zap.SugaredLogger

	workUnit int
}

// Config holds Runner's construction-time dependencies.
type Config struct {
	NodeID        string
	ServerAddr    string
	Client        transport.EvolusnakeClient
	Strategy      strategy.Strategy
	NewIndividual NewIndividual
	// Limiter throttles retries against a failing server; defaults to one
	// request per DefaultRetryInterval with a burst of 1 when nil.
	Limiter *rate.Limiter
	Logger  *zap.SugaredLogger
}

// DefaultRetryInterval preserves the original 5-second anti-thrash backoff
// as the node's default transport-retry refill rate.
const DefaultRetryInterval = 5 * time.Second

func New(cfg Config) *Runner {
	limiter := cfg.Limiter
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Every(DefaultRetryInterval), 1)
	}
	return &Runner{
		id:            cfg.NodeID,
		addr:          cfg.ServerAddr,
		client:        cfg.Client,
		strat:         cfg.Strategy,
		newIndividual: cfg.NewIndividual,
		limiter:       limiter,
		logger:        cfg.Logger,
	}
}

// Run drives the node loop until the server reports done, ctx is canceled,
// or the transport is judged Unreachable.
func (r *Runner) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		seed, done, err := r.getSeed(ctx)
		if err != nil {
			return err
		}
		if done {
			r.log("server reports convergence, exiting")
			return nil
		}

		best, stats, err := r.strat.ProcessUnit(seed)
		if err != nil {
			return err
		}
		r.workUnit++
		if r.logger != nil {
			r.logger.Infow("processed work unit",
				"node_id", r.id,
				"work_unit", r.workUnit,
				"strategy_kind", int(stats.Kind),
				"best_fitness", stats.BestFitness,
				"iterations", stats.Iterations,
			)
		}

		done, err = r.submit(ctx, best)
		if err != nil {
			return err
		}
		if done {
			r.log("server reports convergence after submit, exiting")
			return nil
		}
	}
}

func (r *Runner) getSeed(ctx context.Context) (individual.Individual, bool, error) {
	var lastErr error
	for attempt := 0; attempt < maxGetSeedRetries; attempt++ {
		if attempt > 0 {
			if err := r.limiter.Wait(ctx); err != nil {
				return nil, false, err
			}
		}
		resp, err := r.client.GetSeed(ctx, &transport.GetSeedRequest{NodeID: r.id})
		if err != nil {
			lastErr = err
			continue
		}
		if resp.Done {
			return nil, true, nil
		}
		seed := r.newIndividual()
		if err := seed.Deserialize(resp.Individual); err != nil {
			return nil, false, err
		}
		return seed, false, nil
	}
	return nil, false, ferr.NewUnreachable(r.addr, lastErr)
}

func (r *Runner) submit(ctx context.Context, best individual.Individual) (bool, error) {
	doc, err := best.Serialize()
	if err != nil {
		return false, err
	}

	var lastErr error
	for attempt := 0; attempt < maxGetSeedRetries; attempt++ {
		if attempt > 0 {
			if err := r.limiter.Wait(ctx); err != nil {
				return false, err
			}
		}
		resp, err := r.client.Submit(ctx, &transport.SubmitRequest{NodeID: r.id, Individual: doc})
		if err != nil {
			lastErr = err
			continue
		}
		return resp.Done, nil
	}
	return false, ferr.NewUnreachable(r.addr, lastErr)
}

func (r *Runner) log(msg string) {
	if r.logger != nil {
		r.logger.Infow(msg, "node_id", r.id, "work_unit", r.workUnit)
	}
}

// Package main provides the evolusnake-node binary: runs one strategy's
// work-unit loop against a server until told to stop.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/pflag"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/signalnine/evolusnake/config"
	"github.com/signalnine/evolusnake/individual"
	"github.com/signalnine/evolusnake/logging"
	"github.com/signalnine/evolusnake/node"
	"github.com/signalnine/evolusnake/population"
	"github.com/signalnine/evolusnake/problem/onemax"
	"github.com/signalnine/evolusnake/strategy"
	"github.com/signalnine/evolusnake/transport"
)

// CLI flags
var (
	configPath string
	serverAddr string
	secretKey  string
	bits       int
	verbose    bool
)

func init() {
	pflag.StringVar(&configPath, "config", "", "Path to a JSON config document")
	pflag.StringVar(&serverAddr, "server", "127.0.0.1:7654", "Server address")
	pflag.StringVar(&secretKey, "secret-key", "", "Shared secret authenticating RPCs to the server")
	pflag.IntVar(&bits, "bits", 10, "OneMax reference problem bit width")
	pflag.BoolVar(&verbose, "verbose", false, "Enable verbose logging")
}

func main() {
	pflag.Parse()

	cfg, err := config.Load(configPath, pflag.CommandLine, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	nodeID := uuid.NewString()
	logger, err := logging.New(cfg.Verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging init error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	logger = logging.ForNode(logger, nodeID)

	printBanner(cfg, nodeID)

	conn, err := grpc.NewClient(cfg.ServerAddr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(transport.ClientAuthInterceptor(cfg.SecretKey)),
	)
	if err != nil {
		logger.Fatalw("failed to dial server", "error", err)
	}
	defer conn.Close()
	client := transport.NewEvolusnakeClient(conn)

	rng := rand.New(rand.NewSource(nodeSeed(nodeID)))
	seedProblem := onemax.New(bits, cfg.UserOptions, rng)

	popCfg := population.Config{
		Size:           cfg.NodePopulationSize,
		IterBudget:     cfg.NumOfIterations,
		MutBudget:      cfg.NumOfMutations,
		TargetFitness:  cfg.TargetFitness,
		TargetFitness2: cfg.TargetFitness2,
		MutationOps:    cfg.MutationOperations,
		RandomizePop:   cfg.RandomizePopulation,
		RandomizeEvery: cfg.RandomizeCount,
		AcceptNewBest:  cfg.AcceptNewBest,
	}
	pop, err := population.New(popCfg, seedProblem, rng, population.Hooks{})
	if err != nil {
		logger.Fatalw("failed to construct local population", "error", err)
	}

	strat, err := strategy.New(strategy.Config{
		Kind:          strategy.Kind(cfg.PopulationKind),
		MinBelowDraw:  cfg.MinNumInd,
		SineBase:      cfg.SineBase,
		SineAmplitude: cfg.SineAmplitude,
		SineFrequency: cfg.SineFrequency,
		LimitRange:    cfg.LimitRange,
	}, pop, rng)
	if err != nil {
		logger.Fatalw("failed to construct strategy", "error", err)
	}

	runner := node.New(node.Config{
		NodeID:     nodeID,
		ServerAddr: cfg.ServerAddr,
		Client:     client,
		Strategy:   strat,
		NewIndividual: func() individual.Individual {
			return onemax.New(bits, cfg.UserOptions, rng)
		},
		Logger: logger,
	})

	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Infow("received shutdown signal")
		cancel()
	}()

	if err := runner.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Fatalw("node exited with error", "error", err)
	}
}

// nodeSeed derives this process's RNG seed from wall-clock time mixed with
// the node ID's bytes, so concurrently started nodes - which would
// otherwise race the clock to the same nanosecond - still diverge.
func nodeSeed(nodeID string) int64 {
	mix := time.Now().UnixNano()
	for _, b := range []byte(nodeID) {
		mix = mix*31 + int64(b)
	}
	return mix
}

func printBanner(cfg *config.Config, nodeID string) {
	fmt.Println("evolusnake-node")
	fmt.Printf("  node_id:              %s\n", nodeID)
	fmt.Printf("  server_addr:          %s\n", cfg.ServerAddr)
	fmt.Printf("  node_population_size: %d\n", cfg.NodePopulationSize)
	fmt.Printf("  population_kind:      %d\n", cfg.PopulationKind)
}

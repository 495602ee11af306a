// Package main provides the evolusnake-server binary: hosts the elite
// store and serves GetSeed/Submit RPCs to nodes until the population
// converges.
package main

import (
	"fmt"
	"math/rand"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"google.golang.org/grpc"

	"github.com/signalnine/evolusnake/config"
	"github.com/signalnine/evolusnake/individual"
	"github.com/signalnine/evolusnake/logging"
	"github.com/signalnine/evolusnake/problem/onemax"
	"github.com/signalnine/evolusnake/server"
	"github.com/signalnine/evolusnake/transport"
)

// CLI flags
var (
	configPath string
	listenAddr string
	secretKey  string
	resultPath string
	bits       int
	verbose    bool
)

func init() {
	pflag.StringVar(&configPath, "config", "", "Path to a JSON config document")
	pflag.StringVar(&listenAddr, "listen", ":7654", "Address to listen on")
	pflag.StringVar(&secretKey, "secret-key", "", "Shared secret authenticating node RPCs")
	pflag.StringVar(&resultPath, "result-filename", "result.json", "Where the final elite individual is written")
	pflag.IntVar(&bits, "bits", 10, "OneMax reference problem bit width")
	pflag.BoolVar(&verbose, "verbose", false, "Enable verbose logging")
}

func main() {
	pflag.Parse()

	cfg, err := config.Load(configPath, pflag.CommandLine, true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging init error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	printBanner(cfg)

	processSeed := time.Now().UnixNano()
	seed := onemax.New(bits, cfg.UserOptions, rand.New(rand.NewSource(processSeed)))
	elite, err := server.New(server.Config{
		Size:                  cfg.ServerPopulationSize,
		TargetFitness:         cfg.TargetFitness,
		TargetFitness2:        cfg.TargetFitness2,
		AllowDuplicateFitness: cfg.AllowSameFitness,
		ShareOnlyBest:         cfg.ShareOnlyBest,
		SaveEveryImprovement:  cfg.SaveNewFitness,
		ResultPath:            cfg.ResultFilename,
	}, seed, rand.New(rand.NewSource(processSeed+1)), logger)
	if err != nil {
		logger.Fatalw("failed to construct elite store", "error", err)
	}

	lis, err := net.Listen("tcp", listenAddr)
	if err != nil {
		logger.Fatalw("failed to listen", "addr", listenAddr, "error", err)
	}

	grpcServer := grpc.NewServer(
		grpc.UnaryInterceptor(transport.ServerAuthInterceptor(cfg.SecretKey)),
	)
	newCandidate := func() individual.Individual {
		return onemax.New(bits, cfg.UserOptions, rand.New(rand.NewSource(processSeed+2)))
	}
	transport.RegisterEvolusnakeServer(grpcServer, server.NewGRPCService(elite, newCandidate))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Infow("shutting down, saving final result")
		if err := elite.SaveFinal(); err != nil {
			logger.Errorw("failed to save final result", "error", err)
		}
		grpcServer.GracefulStop()
	}()

	logger.Infow("evolusnake-server listening", "addr", listenAddr)
	if err := grpcServer.Serve(lis); err != nil {
		logger.Fatalw("server exited with error", "error", err)
	}
}

func printBanner(cfg *config.Config) {
	fmt.Println("evolusnake-server")
	fmt.Printf("  server_population_size: %d\n", cfg.ServerPopulationSize)
	fmt.Printf("  target_fitness:         %v\n", cfg.TargetFitness)
	fmt.Printf("  result_filename:        %s\n", cfg.ResultFilename)
}

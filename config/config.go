// Package config holds the single Config document shared by the server and
// node binaries: every tunable named in the recognized options table,
// loaded from a JSON document via spf13/viper and layered under CLI flag
// overrides.
package config

import "github.com/signalnine/evolusnake/ferr"

// Config mirrors the framework's recognized options table verbatim. Not
// every field applies to both roles - e.g. ServerPopulationSize is
// server-only, NodePopulationSize is node-only - Validate checks only the
// fields relevant to the role ServerMode selects.
type Config struct {
	SecretKey  string `mapstructure:"secret_key"`
	ServerMode bool   `mapstructure:"server_mode"`
	ServerAddr string `mapstructure:"server_addr"`

	TargetFitness  float64 `mapstructure:"target_fitness"`
	TargetFitness2 float64 `mapstructure:"target_fitness2"`

	ResultFilename     string `mapstructure:"result_filename"`
	SaveNewFitness     bool   `mapstructure:"save_new_fitness"`
	AllowSameFitness   bool   `mapstructure:"allow_same_fitness"`
	ShareOnlyBest      bool   `mapstructure:"share_only_best"`

	ServerPopulationSize int `mapstructure:"server_population_size"`
	NodePopulationSize   int `mapstructure:"node_population_size"`

	NumOfIterations int `mapstructure:"num_of_iterations"`
	NumOfMutations  int `mapstructure:"num_of_mutations"`

	AcceptNewBest       bool `mapstructure:"accept_new_best"`
	RandomizePopulation bool `mapstructure:"randomize_population"`
	RandomizeCount      int  `mapstructure:"randomize_count"`

	PopulationKind     int    `mapstructure:"population_kind"`
	MutationOperations []int  `mapstructure:"mutation_operations"`

	MinNumInd      int     `mapstructure:"min_num_ind"`
	SineBase       float64 `mapstructure:"sine_base"`
	SineAmplitude  float64 `mapstructure:"sine_amplitude"`
	SineFrequency  float64 `mapstructure:"sine_frequency"`
	LimitRange     float64 `mapstructure:"limit_range"`

	UserOptions string `mapstructure:"user_options"`

	Verbose bool `mapstructure:"verbose"`
}

// Validate fails fast with ferr.InvalidConfig on any field out of range for
// the role this process is running as.
func (c *Config) Validate() error {
	if c.SecretKey == "" {
		return ferr.NewInvalidConfig("secret_key", "must be set")
	}
	if len(c.MutationOperations) == 0 {
		return ferr.NewInvalidConfig("mutation_operations", "must be non-empty")
	}
	if c.PopulationKind < 1 || c.PopulationKind > 11 {
		return ferr.NewInvalidConfig("population_kind", "must be in 1..11")
	}
	if c.NumOfIterations < 1 {
		return ferr.NewInvalidConfig("num_of_iterations", "must be >= 1")
	}
	if c.NumOfMutations < 1 {
		return ferr.NewInvalidConfig("num_of_mutations", "must be >= 1")
	}

	if c.ServerMode {
		if c.ServerPopulationSize < 2 {
			return ferr.NewInvalidConfig("server_population_size", "must be >= 2")
		}
		if c.ResultFilename == "" {
			return ferr.NewInvalidConfig("result_filename", "must be set")
		}
	} else {
		if c.NodePopulationSize < 2 {
			return ferr.NewInvalidConfig("node_population_size", "must be >= 2")
		}
		if c.ServerAddr == "" {
			return ferr.NewInvalidConfig("server_addr", "must be set for a node")
		}
	}

	if c.RandomizePopulation && c.RandomizeCount < 1 {
		return ferr.NewInvalidConfig("randomize_count", "must be >= 1 when randomize_population is set")
	}
	if c.PopulationKind == 8 && c.LimitRange <= 0 {
		return ferr.NewInvalidConfig("limit_range", "must be > 0 for population_kind 8")
	}
	return nil
}

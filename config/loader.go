package config

import (
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Load reads a JSON config document from configPath (if non-empty),
// binds flags so any flag the caller explicitly set overrides the
// document, applies serverMode (a binary-intrinsic choice, never a CLI
// flag - evolusnake-server and evolusnake-node are separate commands),
// unmarshals into a Config, and validates it.
func Load(configPath string, flags *pflag.FlagSet, serverMode bool) (*Config, error) {
	v := viper.New()
	v.SetConfigType("json")

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config file %q", configPath)
		}
	}

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return nil, errors.Wrap(err, "bind CLI flags")
		}
	}
	v.Set("server_mode", serverMode)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "validate config")
	}
	return &cfg, nil
}

// cliFlagKeys maps each binary's hyphenated flag names to the viper key
// (the recognized option's own snake_case name) it overrides. BindPFlags
// alone only works when a flag's Name already equals its viper key; the
// cmd/ binaries use conventional hyphenated flag names instead, so each
// one is bound explicitly rather than relying on name equality.
var cliFlagKeys = map[string]string{
	"server":          "server_addr",
	"listen":          "server_addr",
	"secret-key":      "secret_key",
	"result-filename": "result_filename",
	"verbose":         "verbose",
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	var err error
	flags.VisitAll(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		key, ok := cliFlagKeys[f.Name]
		if !ok {
			key = f.Name
		}
		err = v.BindPFlag(key, f)
	})
	return err
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("num_of_iterations", 100)
	v.SetDefault("num_of_mutations", 1)
	v.SetDefault("node_population_size", 10)
	v.SetDefault("server_population_size", 10)
	v.SetDefault("population_kind", 1)
	v.SetDefault("result_filename", "result.json")
	v.SetDefault("limit_range", 2.0)
}

// Package config loads dpcttrack's solver and logging parameters from
// a layered stack of defaults, an optional YAML file, and environment
// overrides, the same precedence order the retrieval pack's logistics
// services use for their own per-service configuration.
package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "DPCTTRACK_"

// Solver holds the subset of tracking.Options exposed to the CLI.
type Solver struct {
	UseBackArcs      bool    `koanf:"use_back_arcs"`
	MaxNumPaths      int     `koanf:"max_num_paths"`
	UseOrderedBF     bool    `koanf:"use_ordered_bf"`
	PartialBFUpdates bool    `koanf:"partial_bf_updates"`
	InitialEnergy    float64 `koanf:"initial_energy"`
	Algorithm        string  `koanf:"algorithm"` // "tracking" or "maxflow"
	MaxFlowAlgorithm string  `koanf:"max_flow_algorithm"`
}

// Log holds slog/lumberjack setup parameters.
type Log struct {
	Level      string `koanf:"level"`
	Format     string `koanf:"format"`
	Output     string `koanf:"output"`
	FilePath   string `koanf:"file_path"`
	MaxSizeMB  int    `koanf:"max_size_mb"`
	MaxBackups int    `koanf:"max_backups"`
	MaxAgeDays int    `koanf:"max_age_days"`
	Compress   bool   `koanf:"compress"`
}

// Config is dpcttrack's full, resolved configuration.
type Config struct {
	Solver Solver `koanf:"solver"`
	Log    Log    `koanf:"log"`
}

func defaults() map[string]any {
	return map[string]any{
		"solver.use_back_arcs":      false,
		"solver.max_num_paths":      0,
		"solver.use_ordered_bf":     false,
		"solver.partial_bf_updates": false,
		"solver.initial_energy":     0.0,
		"solver.algorithm":          "tracking",
		"solver.max_flow_algorithm": "edmonds_karp",

		"log.level":        "info",
		"log.format":       "text",
		"log.output":       "stdout",
		"log.file_path":    "dpcttrack.log",
		"log.max_size_mb":  100,
		"log.max_backups":  3,
		"log.max_age_days": 7,
		"log.compress":     true,
	}
}

// Load resolves Config from defaults, an optional YAML file at
// configPath (skipped if empty; a path that cannot be loaded is an
// error), and DPCTTRACK_-prefixed environment variables, which take
// priority over the file. An env name maps to a key by lower-casing it
// and turning its first underscore into the section separator, so
// DPCTTRACK_SOLVER_MAX_NUM_PATHS sets solver.max_num_paths.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("config: load defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: load file %q: %w", configPath, err)
		}
	}

	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "_", ".", 1)
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("config: load env: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	return &cfg, nil
}

// Package config loads the solver daemon's tuning knobs from a TOML file,
// the same way the teacher's cmd/main.go loads its forwarding config
// (SPEC_FULL.md §10.1).
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config is the top-level TOML document solverd reads at startup.
type Config struct {
	Solver       SolverConfig       `toml:"solver"`
	Pool         PoolConfig         `toml:"pool"`
	Coordination CoordinationConfig `toml:"coordination"`
	Transport    TransportConfig    `toml:"transport"`
}

// SolverConfig carries the job.Settings() knobs spec.md §6 names.
type SolverConfig struct {
	Accuracy            uint `toml:"accuracy"`
	ShortPathSaturation uint `toml:"short_path_saturation"`
}

// PoolConfig sizes the cross-job worker pool (SPEC_FULL.md §5).
type PoolConfig struct {
	MaxWorkers int `toml:"max_workers"`
	MinWorkers int `toml:"min_workers"`
}

// CoordinationConfig points at the etcd cluster job leases are taken on.
type CoordinationConfig struct {
	Endpoints       []string `toml:"endpoints"`
	LeaseTTLSeconds int64    `toml:"lease_ttl_seconds"`
}

// TransportConfig is the smux listener result reports are streamed over.
type TransportConfig struct {
	ListenAddr string `toml:"listen_addr"`
}

// Default returns the settings a fresh install starts from: the base Load
// decodes the config file onto, so keys the file omits keep these values.
func Default() Config {
	return Config{
		Solver: SolverConfig{
			Accuracy:            10,
			ShortPathSaturation: 80,
		},
		Pool: PoolConfig{
			MaxWorkers: 8,
			MinWorkers: 1,
		},
		Coordination: CoordinationConfig{
			Endpoints:       []string{"127.0.0.1:2379"},
			LeaseTTLSeconds: 30,
		},
		Transport: TransportConfig{
			ListenAddr: ":7070",
		},
	}
}

// Load reads path and decodes it onto Default(), matching the teacher's
// loadConfig idiom in cmd/main.go: toml.DecodeFile wrapped with %w.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to load config file %s: %w", path, err)
	}
	if cfg.Solver.Accuracy == 0 {
		return Config{}, fmt.Errorf("config %s: solver.accuracy must be positive", path)
	}
	if cfg.Solver.ShortPathSaturation == 0 || cfg.Solver.ShortPathSaturation > 100 {
		return Config{}, fmt.Errorf("config %s: solver.short_path_saturation must be in 1..100", path)
	}
	return cfg, nil
}

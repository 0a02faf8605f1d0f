// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Aggregate AggregateConfig `toml:"aggregate"`
}

// AggregateConfig maps aggregation settings. The same struct is filled from
// ROOMSTATS_* environment variables by LoadEnv.
type AggregateConfig struct {
	CSVDir    *string `toml:"csv-dir" split_words:"true"`
	Output    *string `toml:"output"`
	OutputDir *string `toml:"output-dir" split_words:"true"`
	RTA       *bool   `toml:"rta"`
	KeepParts *bool   `toml:"keep-parts" split_words:"true"`
	LogLevel  *string `toml:"log-level" split_words:"true"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}

// Merge returns base with every value set in override applied on top.
func Merge(base, override AggregateConfig) AggregateConfig {
	out := base
	if override.CSVDir != nil {
		out.CSVDir = override.CSVDir
	}
	if override.Output != nil {
		out.Output = override.Output
	}
	if override.OutputDir != nil {
		out.OutputDir = override.OutputDir
	}
	if override.RTA != nil {
		out.RTA = override.RTA
	}
	if override.KeepParts != nil {
		out.KeepParts = override.KeepParts
	}
	if override.LogLevel != nil {
		out.LogLevel = override.LogLevel
	}
	return out
}

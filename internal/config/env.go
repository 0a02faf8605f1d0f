package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix prefixes every environment variable read by LoadEnv.
const EnvPrefix = "ROOMSTATS"

// LoadEnv reads ROOMSTATS_CSV_DIR, ROOMSTATS_OUTPUT, ROOMSTATS_OUTPUT_DIR,
// ROOMSTATS_RTA, ROOMSTATS_KEEP_PARTS and ROOMSTATS_LOG_LEVEL. Unset
// variables leave their fields nil.
func LoadEnv() (AggregateConfig, error) {
	var cfg AggregateConfig
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return AggregateConfig{}, fmt.Errorf("failed to read environment: %w", err)
	}
	return cfg, nil
}

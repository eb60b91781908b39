// Package config loads the CLI's Configuration from a YAML file with
// viper, grounded on the teacher's internal/common.LoadConfig +
// internal/scheduler.Configuration shape, trimmed to this repository's
// actual ambient surface (no Postgres/Pulsar/gRPC/auth blocks — this
// module has no network or storage layer of its own).
package config

import (
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/armadaproject/clustersched/internal/clustersched"
)

// LoggingConfig controls process-wide log formatting.
type LoggingConfig struct {
	// Level is a logrus level name ("debug", "info", "warn", "error").
	Level string `mapstructure:"level"`
}

// MetricsConfig controls the optional Prometheus HTTP endpoint. Addr is
// left empty to disable metrics serving entirely.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// SimConfig points at the two spec files internal/simhost needs to build a
// synthetic cluster and workload.
type SimConfig struct {
	ClusterSpecPath  string `mapstructure:"clusterSpecPath" validate:"required"`
	WorkloadSpecPath string `mapstructure:"workloadSpecPath" validate:"required"`
}

// Configuration is the CLI's top-level configuration: the engine's own
// Config (C7/C1) plus the ambient logging/metrics/simulator concerns the
// teacher's Configuration struct bundles the same way for the real
// scheduler.
type Configuration struct {
	Scheduler clustersched.Config `mapstructure:"scheduler"`
	Logging   LoggingConfig       `mapstructure:"logging"`
	Metrics   MetricsConfig       `mapstructure:"metrics"`
	Sim       SimConfig           `mapstructure:"sim"`
}

// Default returns the Configuration the CLI falls back to when a field is
// left unset in the loaded file.
func Default() Configuration {
	return Configuration{
		Scheduler: clustersched.DefaultConfig(),
		Logging:   LoggingConfig{Level: "info"},
	}
}

// Load reads and unmarshals a Configuration from path, applying Default()
// first so a partial config file only overrides what it actually sets.
func Load(path string) (Configuration, error) {
	cfg := Default()

	v := viper.NewWithOptions(viper.KeyDelimiter("::"))
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return cfg, errors.Wrapf(err, "config: read %s", path)
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, errors.Wrapf(err, "config: unmarshal %s", path)
	}
	return cfg, nil
}

// Validate runs struct-tag validation over cfg, the same
// go-playground/validator the teacher's internal/common/config/validation.go
// wraps for its own Configuration types.
func Validate(cfg Configuration) error {
	return validator.New().Struct(cfg)
}

// Package config holds the analysis configuration and loads it from file,
// environment and command-line flags.
package config

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rjboer/phasealign/internal/alignment"
	"github.com/rjboer/phasealign/internal/iqfile"
	"github.com/rjboer/phasealign/internal/logging"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g.
// PHASEALIGN_THRESHOLDS_DRIFT_DEG.
const EnvPrefix = "PHASEALIGN"

// Config is the complete application configuration.
type Config struct {
	Analysis   AnalysisConfig  `mapstructure:"analysis" yaml:"analysis"`
	Thresholds ThresholdConfig `mapstructure:"thresholds" yaml:"thresholds"`
	Logging    LoggingConfig   `mapstructure:"logging" yaml:"logging"`
	Workers    int             `mapstructure:"workers" yaml:"workers"` // 0 uses one worker per CPU
}

// AnalysisConfig controls decoding and tone estimation.
type AnalysisConfig struct {
	SampleRate      float64 `mapstructure:"sample_rate" yaml:"sample_rate"`             // Hz
	SegmentLength   int     `mapstructure:"segment_length" yaml:"segment_length"`       // samples per phase estimate
	SearchFreq      float64 `mapstructure:"search_freq" yaml:"search_freq"`             // Hz, 0 searches the full spectrum
	TolerancePct    float64 `mapstructure:"tolerance_pct" yaml:"tolerance_pct"`         // bounded search tolerance
	SignalFreq      float64 `mapstructure:"signal_freq" yaml:"signal_freq"`             // Hz, sets points per window
	PointsPerWindow int     `mapstructure:"points_per_window" yaml:"points_per_window"` // overrides SignalFreq
	BaseChannel     string  `mapstructure:"base_channel" yaml:"base_channel"`
	StartOffset     int     `mapstructure:"start_offset" yaml:"start_offset"` // I/Q pairs skipped per file
	Format          string  `mapstructure:"format" yaml:"format"`             // int16 or float32
	SwapIQ          bool    `mapstructure:"swap_iq" yaml:"swap_iq"`
}

// ThresholdConfig bounds acceptable alignment, in degrees.
type ThresholdConfig struct {
	DriftDeg  float64 `mapstructure:"drift_deg" yaml:"drift_deg"`
	StdDevDeg float64 `mapstructure:"stddev_deg" yaml:"stddev_deg"`
}

// LoggingConfig contains logging configuration parameters.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Default returns a configuration with default values.
func Default() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			SampleRate:   33.33e6,
			TolerancePct: 10,
			BaseChannel:  "rx_00",
			Format:       "int16",
		},
		Thresholds: ThresholdConfig{
			DriftDeg:  2,
			StdDevDeg: 2,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// setDefaults registers every key so environment variables are seen by
// Unmarshal even when no file sets them.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("analysis.sample_rate", cfg.Analysis.SampleRate)
	v.SetDefault("analysis.segment_length", cfg.Analysis.SegmentLength)
	v.SetDefault("analysis.search_freq", cfg.Analysis.SearchFreq)
	v.SetDefault("analysis.tolerance_pct", cfg.Analysis.TolerancePct)
	v.SetDefault("analysis.signal_freq", cfg.Analysis.SignalFreq)
	v.SetDefault("analysis.points_per_window", cfg.Analysis.PointsPerWindow)
	v.SetDefault("analysis.base_channel", cfg.Analysis.BaseChannel)
	v.SetDefault("analysis.start_offset", cfg.Analysis.StartOffset)
	v.SetDefault("analysis.format", cfg.Analysis.Format)
	v.SetDefault("analysis.swap_iq", cfg.Analysis.SwapIQ)
	v.SetDefault("thresholds.drift_deg", cfg.Thresholds.DriftDeg)
	v.SetDefault("thresholds.stddev_deg", cfg.Thresholds.StdDevDeg)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("workers", cfg.Workers)
}

// Load merges defaults, the optional YAML file at path and PHASEALIGN_*
// environment variables into a validated Config. Flags bound to v with
// BindFlags take precedence over both.
func Load(v *viper.Viper, path string) (*Config, error) {
	if v == nil {
		v = viper.New()
	}
	cfg := Default()
	setDefaults(v, cfg)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// flagKeys maps command-line flag names to configuration keys.
var flagKeys = map[string]string{
	"sample-rate":      "analysis.sample_rate",
	"segment":          "analysis.segment_length",
	"search-freq":      "analysis.search_freq",
	"tolerance":        "analysis.tolerance_pct",
	"signal-freq":      "analysis.signal_freq",
	"ppw":              "analysis.points_per_window",
	"base":             "analysis.base_channel",
	"start-offset":     "analysis.start_offset",
	"format":           "analysis.format",
	"swap-iq":          "analysis.swap_iq",
	"drift-threshold":  "thresholds.drift_deg",
	"stddev-threshold": "thresholds.stddev_deg",
	"log-level":        "logging.level",
	"log-format":       "logging.format",
	"workers":          "workers",
}

// BindFlags binds every known flag present in fs to its configuration key.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

// Validate checks value ranges and enum fields.
func (c *Config) Validate() error {
	var errs []error
	if c.Analysis.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("analysis.sample_rate must be positive, got %g", c.Analysis.SampleRate))
	}
	if c.Analysis.TolerancePct <= 0 || c.Analysis.TolerancePct > 100 {
		errs = append(errs, fmt.Errorf("analysis.tolerance_pct must be in (0, 100], got %g", c.Analysis.TolerancePct))
	}
	if c.Analysis.SegmentLength < 0 {
		errs = append(errs, errors.New("analysis.segment_length must not be negative"))
	}
	if c.Analysis.PointsPerWindow < 0 {
		errs = append(errs, errors.New("analysis.points_per_window must not be negative"))
	}
	if c.Analysis.StartOffset < 0 {
		errs = append(errs, errors.New("analysis.start_offset must not be negative"))
	}
	if c.Analysis.SearchFreq < 0 || c.Analysis.SignalFreq < 0 {
		errs = append(errs, errors.New("analysis frequencies must not be negative"))
	}
	if c.Analysis.BaseChannel == "" {
		errs = append(errs, errors.New("analysis.base_channel is required"))
	}
	if _, err := iqfile.ParseFormat(c.Analysis.Format); err != nil {
		errs = append(errs, err)
	}
	if c.Thresholds.DriftDeg < 0 || c.Thresholds.StdDevDeg < 0 {
		errs = append(errs, errors.New("thresholds must not be negative"))
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, err)
	}
	if _, err := logging.ParseFormat(c.Logging.Format); err != nil {
		errs = append(errs, err)
	}
	if c.Workers < 0 {
		errs = append(errs, errors.New("workers must not be negative"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// DecodeOptions returns the iqfile options described by the configuration.
func (c *Config) DecodeOptions() (iqfile.Options, error) {
	f, err := iqfile.ParseFormat(c.Analysis.Format)
	if err != nil {
		return iqfile.Options{}, err
	}
	return iqfile.Options{Format: f, Offset: c.Analysis.StartOffset, SwapIQ: c.Analysis.SwapIQ}, nil
}

// PointsPerWindow returns the configured averaging window, deriving it from
// SignalFreq when not set explicitly. 0 disables averaging.
func (c *Config) PointsPerWindow() int {
	if c.Analysis.PointsPerWindow > 0 {
		return c.Analysis.PointsPerWindow
	}
	return alignment.PointsPerWindow(c.Analysis.SignalFreq, c.Analysis.SampleRate)
}

// Logger builds a logger from the logging section.
func (c *Config) Logger(out io.Writer) (logging.Logger, error) {
	level, err := logging.ParseLevel(c.Logging.Level)
	if err != nil {
		return nil, err
	}
	format, err := logging.ParseFormat(c.Logging.Format)
	if err != nil {
		return nil, err
	}
	return logging.New(level, format, out), nil
}

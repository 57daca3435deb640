// SPDX-License-Identifier: MIT
package config

import (
	"fmt"
	"os"
	"strconv"

	"firfilt/internal/fir"
	"firfilt/internal/log"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration, loaded from YAML.
type Config struct {
	Debug    bool           `yaml:"debug"`     // Enable debug logging regardless of log_level.
	LogLevel string         `yaml:"log_level"` // Logging level (e.g., "debug", "info", "warn", "error").
	Filter   FilterConfig   `yaml:"filter"`    // Filter design parameters.
	Output   OutputConfig   `yaml:"output"`    // Formatting of text sample output.
	Generate GenerateConfig `yaml:"generate"`  // Test signal generator settings.
}

// FilterConfig holds the design parameters of the filter.
type FilterConfig struct {
	Type       string  `yaml:"type"`        // Filter type: "lpf", "hpf" or "bpf".
	NumTaps    int     `yaml:"taps"`        // Number of taps (1..1000).
	SampleRate float64 `yaml:"sample_rate"` // Sampling frequency in Hz.
	F0         float64 `yaml:"f0"`          // Cutoff (LPF/HPF) or lower band edge (BPF) in Hz.
	F1         float64 `yaml:"f1"`          // Upper band edge in Hz, BPF only; 0 otherwise.
}

// OutputConfig holds settings for text sample output.
type OutputConfig struct {
	Precision int `yaml:"precision"` // Digits after the decimal point.
}

// GenerateConfig holds settings for the test signal generator.
type GenerateConfig struct {
	Duration       float64 `yaml:"duration_seconds"` // Length of the generated signal.
	SignalFreq     float64 `yaml:"signal_freq"`      // Wanted tone in Hz.
	NoiseFreq      float64 `yaml:"noise_freq"`       // Interfering tone in Hz.
	NoiseAmplitude float64 `yaml:"noise_amplitude"`  // Interfering tone amplitude relative to the signal.
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel: DefaultLogLevel,
		Filter: FilterConfig{
			Type:       DefaultFilterType,
			NumTaps:    DefaultNumTaps,
			SampleRate: DefaultSampleRate,
			F0:         DefaultF0,
			F1:         DefaultF1,
		},
		Output: OutputConfig{
			Precision: DefaultPrecision,
		},
		Generate: GenerateConfig{
			Duration:       DefaultDuration,
			SignalFreq:     DefaultSignalFreq,
			NoiseFreq:      DefaultNoiseFreq,
			NoiseAmplitude: DefaultNoiseAmplitude,
		},
	}
}

// Override adjusts a loaded configuration before it is validated.
type Override func(*Config)

// LoadConfig loads configuration from a YAML file specified by path. If path
// is empty, it looks for DefaultConfigFile in the working directory and falls
// back to built-in defaults when that is absent. Environment overrides are
// applied after the file, then each override in order, and only the final
// result is validated.
func LoadConfig(path string, overrides ...Override) (*Config, error) {
	cfg := Default()

	if path == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			path = DefaultConfigFile
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
		log.Debugf("configuration: loaded %s", path)
	}

	cfg.applyEnvOverrides()
	for _, override := range overrides {
		override(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks the log level, output settings and filter design.
func (c *Config) Validate() error {
	if _, ok := log.ParseLevel(c.LogLevel); !ok {
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	if c.Output.Precision < 0 || c.Output.Precision > MaxPrecision {
		return fmt.Errorf("output.precision must be between 0 and %d", MaxPrecision)
	}
	if !(c.Generate.Duration > 0) {
		return fmt.Errorf("generate.duration_seconds must be > 0")
	}

	spec, err := c.Filter.Spec()
	if err != nil {
		return err
	}
	return spec.Validate()
}

// Spec converts the filter section into a fir.Spec. It does not validate
// the frequencies; fir.New does that.
func (f FilterConfig) Spec() (fir.Spec, error) {
	kind, err := fir.ParseKind(f.Type)
	if err != nil {
		return fir.Spec{}, err
	}
	return fir.Spec{
		Kind:       kind,
		NumTaps:    f.NumTaps,
		SampleRate: f.SampleRate,
		F0:         f.F0,
		F1:         f.F1,
	}, nil
}

// Level resolves the effective log level; Debug wins over LogLevel.
func (c *Config) Level() log.LogLevel {
	if c.Debug {
		return log.LevelDebug
	}
	level, _ := log.ParseLevel(c.LogLevel)
	return level
}

// applyEnvOverrides replaces file or default values with ENV_* variables.
// Values that fail to parse are ignored with a warning.
func (c *Config) applyEnvOverrides() {
	// ENV_DEBUG
	if val, ok := os.LookupEnv("ENV_DEBUG"); ok {
		if bVal, err := strconv.ParseBool(val); err == nil {
			c.Debug = bVal
			log.Debugf("configuration: overriding debug from env: %v", bVal)
		} else {
			log.Warnf("configuration: ignoring ENV_DEBUG=%q: %v", val, err)
		}
	}
	// ENV_LOG_LEVEL
	if val, ok := os.LookupEnv("ENV_LOG_LEVEL"); ok {
		c.LogLevel = val
		log.Debugf("configuration: overriding log_level from env: %s", val)
	}

	// ENV_FILTER_{...}
	// These describe the filter design.

	// ENV_FILTER_TYPE
	if val, ok := os.LookupEnv("ENV_FILTER_TYPE"); ok {
		c.Filter.Type = val
		log.Debugf("configuration: overriding filter.type from env: %s", val)
	}
	// ENV_FILTER_TAPS
	if val, ok := os.LookupEnv("ENV_FILTER_TAPS"); ok {
		if iVal, err := strconv.Atoi(val); err == nil {
			c.Filter.NumTaps = iVal
			log.Debugf("configuration: overriding filter.taps from env: %d", iVal)
		} else {
			log.Warnf("configuration: ignoring ENV_FILTER_TAPS=%q: %v", val, err)
		}
	}
	c.overrideFloat("ENV_SAMPLE_RATE", "filter.sample_rate", &c.Filter.SampleRate)
	c.overrideFloat("ENV_F0", "filter.f0", &c.Filter.F0)
	c.overrideFloat("ENV_F1", "filter.f1", &c.Filter.F1)
}

func (c *Config) overrideFloat(env, field string, dst *float64) {
	val, ok := os.LookupEnv(env)
	if !ok {
		return
	}
	fVal, err := strconv.ParseFloat(val, 64)
	if err != nil {
		log.Warnf("configuration: ignoring %s=%q: %v", env, val, err)
		return
	}
	*dst = fVal
	log.Debugf("configuration: overriding %s from env: %g", field, fVal)
}

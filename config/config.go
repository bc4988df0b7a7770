// Package config provides configuration loading and access for frametap.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all frametap configuration parameters.
type Config struct {
	Metrics MetricsConfig `yaml:"metrics"`
	Pacing  PacingConfig  `yaml:"pacing"`
	Output  OutputConfig  `yaml:"output"`
	Demo    DemoConfig    `yaml:"demo"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// MetricsConfig holds rolling-window parameters.
type MetricsConfig struct {
	WindowCapacity int `yaml:"window_capacity"` // Frames retained for aggregation
}

// PacingConfig holds latency-mode parameters.
type PacingConfig struct {
	DefaultMode string `yaml:"default_mode"` // off, on or boost
	AutoApply   bool   `yaml:"auto_apply"`   // Apply default_mode right after init
}

// OutputConfig holds run-output parameters.
type OutputConfig struct {
	Dir           string `yaml:"dir"`             // Output directory ("" = disabled)
	FlushInterval int    `yaml:"flush_interval"`  // Frames between metrics.csv rows
	PerFrameCSV   bool   `yaml:"per_frame_csv"`   // Also write every frame to frames.csv
}

// DemoConfig holds settings for the demo render loop.
type DemoConfig struct {
	ScreenWidth  int `yaml:"screen_width"`
	ScreenHeight int `yaml:"screen_height"`
	TargetFPS    int `yaml:"target_fps"`
	SimLoadUS    int `yaml:"sim_load_us"`    // Busy time faked per simulation step
	SubmitLoadUS int `yaml:"submit_load_us"` // Busy time faked per render submission
}

// DerivedConfig holds values derived from loaded config.
type DerivedConfig struct {
	FrameInterval time.Duration // 1/target_fps, the demo's pacing interval
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	// Compute derived values
	cfg.computeDerived()

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	if c.Demo.TargetFPS > 0 {
		c.Derived.FrameInterval = time.Second / time.Duration(c.Demo.TargetFPS)
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

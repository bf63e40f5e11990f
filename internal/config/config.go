// Package config loads and validates the pipeline configuration.
// Every tunable of the clustering core lives here so that nothing in the
// core is hardcoded and tests can run with different settings in-process.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Grid describes the discrete weight range explored by the grid search.
type Grid struct {
	Min  float64 `yaml:"min"`
	Max  float64 `yaml:"max"`
	Step float64 `yaml:"step"`
}

// Steps returns the number of discrete values on one grid axis.
func (g Grid) Steps() int {
	if g.Step <= 0 {
		return 0
	}
	return int((g.Max-g.Min)/g.Step+0.5) + 1
}

// Filter holds the content-filter settings.
type Filter struct {
	MinLength     int      `yaml:"min_length"`
	MaxLength     int      `yaml:"max_length"`
	LexiconPath   string   `yaml:"lexicon_path"`
	BlocklistPath string   `yaml:"blocklist_path"`
	TutorialWords []string `yaml:"tutorial_words"`
}

// Config is the full pipeline configuration.
type Config struct {
	InputFile     string `yaml:"input_file"`
	OutputDir     string `yaml:"output_dir"`
	FrequencyFile string `yaml:"frequency_file"`

	Grid          Grid    `yaml:"grid"`
	MinSilhouette float64 `yaml:"min_silhouette"`
	Clusters      int     `yaml:"clusters"`
	Seed          int64   `yaml:"seed"`
	Workers       int     `yaml:"workers"`

	// FallbackLogFreq is substituted for log(frequency) when a word has no
	// known real-world frequency. Epsilon keeps log(0) out of the transform.
	FallbackLogFreq float64 `yaml:"fallback_log_freq"`
	Epsilon         float64 `yaml:"epsilon"`

	Filter Filter `yaml:"filter"`
}

// Default returns the configuration the original pipeline shipped with.
func Default() Config {
	return Config{
		Grid:            Grid{Min: 0.1, Max: 1.0, Step: 0.1},
		MinSilhouette:   0.5,
		Clusters:        3,
		Seed:            42,
		Workers:         0, // 0 means GOMAXPROCS
		FallbackLogFreq: -12,
		Epsilon:         1e-9,
		Filter: Filter{
			MinLength:     3,
			MaxLength:     12,
			TutorialWords: []string{"SPELL", "WAND"},
		},
	}
}

// Load reads a YAML config file on top of the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the settings the core depends on.
func (c Config) Validate() error {
	if c.Grid.Step <= 0 {
		return fmt.Errorf("config: grid step must be positive, got %g", c.Grid.Step)
	}
	if c.Grid.Min <= 0 || c.Grid.Max < c.Grid.Min {
		return fmt.Errorf("config: grid range [%g, %g] is invalid", c.Grid.Min, c.Grid.Max)
	}
	// A single-value axis can never satisfy the strict dominance constraint.
	if c.Grid.Steps() < 2 {
		return fmt.Errorf("config: grid [%g, %g] with step %g has fewer than two values",
			c.Grid.Min, c.Grid.Max, c.Grid.Step)
	}
	if c.Clusters < 2 {
		return fmt.Errorf("config: clusters must be at least 2, got %d", c.Clusters)
	}
	if c.MinSilhouette < -1 || c.MinSilhouette > 1 {
		return fmt.Errorf("config: min_silhouette %g outside [-1, 1]", c.MinSilhouette)
	}
	if c.Epsilon <= 0 {
		return fmt.Errorf("config: epsilon must be positive, got %g", c.Epsilon)
	}
	if c.Filter.MinLength > c.Filter.MaxLength {
		return fmt.Errorf("config: filter length window [%d, %d] is invalid",
			c.Filter.MinLength, c.Filter.MaxLength)
	}
	return nil
}

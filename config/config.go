// Package config loads lvmarkov scenario configuration from YAML with
// environment variable overrides.
//
// A scenario names an ordered state space, a transition matrix (inline or
// estimated from an observations CSV), an initial portfolio and the knobs
// of the analysis and simulation runs. Default() is the six-state loan
// book used when no file is given.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/lvmarkov/logging"
	"github.com/katalvlaran/lvmarkov/simulate"
)

// Environment variables consulted by Load.
const (
	EnvSeed     = "LVMARKOV_SEED"
	EnvStrategy = "LVMARKOV_STRATEGY"
	EnvRuns     = "LVMARKOV_RUNS"
	EnvLogLevel = "LVMARKOV_LOG_LEVEL"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("config: invalid scenario")

// Config is one scenario.
type Config struct {
	// Name labels stored runs and report titles.
	Name string `json:"name" yaml:"name"`

	// States is the ordered state space. Optional with Observations, in
	// which case the observed labels (sorted) are used.
	States []string `json:"states" yaml:"states"`

	// Matrix is the inline transition matrix, rows aligned with States.
	Matrix [][]float64 `json:"matrix,omitempty" yaml:"matrix,omitempty"`

	// Observations is a CSV path (entity_id,date,state) to estimate the
	// matrix from. Relative paths resolve against the config file directory.
	Observations string `json:"observations,omitempty" yaml:"observations,omitempty"`

	// Initial is the starting count per state.
	Initial []int `json:"initial" yaml:"initial"`

	// Absorbing lists the labels treated as absorbing by the analysis.
	Absorbing []string `json:"absorbing,omitempty" yaml:"absorbing,omitempty"`

	// Horizon is the n of the n-step matrix reported by analyze.
	Horizon int `json:"horizon" yaml:"horizon"`

	// Steps is the simulated horizon.
	Steps int `json:"steps" yaml:"steps"`

	// Seed drives every random source; 0 selects simulate.DefaultSeed.
	Seed uint64 `json:"seed" yaml:"seed"`

	// Strategy is "multinomial" (default) or "reference".
	Strategy string `json:"strategy" yaml:"strategy"`

	// Runs and Workers size Monte Carlo ensembles; Workers 0 means GOMAXPROCS.
	Runs    int `json:"runs" yaml:"runs"`
	Workers int `json:"workers" yaml:"workers"`

	// Quantiles is the [lower, upper] ensemble band.
	Quantiles [2]float64 `json:"quantiles" yaml:"quantiles,flow"`

	Logging LoggingConfig `json:"logging" yaml:"logging"`
	Output  OutputConfig  `json:"output" yaml:"output"`
}

// LoggingConfig configures the command logger.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error (empty = info).
	Level string `json:"level" yaml:"level"`
}

// OutputConfig names optional artefacts; empty fields are skipped.
type OutputConfig struct {
	CSV  string `json:"csv,omitempty" yaml:"csv,omitempty"`
	Plot string `json:"plot,omitempty" yaml:"plot,omitempty"`
	DB   string `json:"db,omitempty" yaml:"db,omitempty"`
}

// Default returns the six-state loan portfolio scenario.
func Default() *Config {
	return &Config{
		Name:   "loan-demo",
		States: []string{"performing", "delinq30", "delinq60", "NPE", "recovered", "default"},
		Matrix: [][]float64{
			{0.88, 0.08, 0.02, 0.01, 0.00, 0.01},
			{0.30, 0.50, 0.10, 0.05, 0.00, 0.05},
			{0.10, 0.40, 0.30, 0.10, 0.05, 0.05},
			{0.00, 0.00, 0.05, 0.70, 0.20, 0.05},
			{0.00, 0.00, 0.00, 0.00, 1.00, 0.00},
			{0.00, 0.00, 0.00, 0.00, 0.00, 1.00},
		},
		Initial:   []int{10_000, 0, 0, 0, 0, 0},
		Absorbing: []string{"recovered", "default"},
		Horizon:   12,
		Steps:     24,
		Seed:      simulate.DefaultSeed,
		Strategy:  simulate.MultinomialName,
		Runs:      100,
		Quantiles: [2]float64{simulate.DefaultLowerQuantile, simulate.DefaultUpperQuantile},
		Logging:   LoggingConfig{Level: "info"},
	}
}

// Load returns Default() when path is empty, otherwise the file at path;
// environment overrides are applied in both cases.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		var err error
		if cfg, err = LoadFromFile(path); err != nil {
			return nil, err
		}
	}
	applyEnvOverrides(cfg)

	return cfg, nil
}

// LoadFromFile parses a YAML scenario. Fields absent from the file keep
// their Default() values, except that a file providing observations or its
// own states drops the default inline matrix.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var probe struct {
		States       []string    `yaml:"states"`
		Matrix       [][]float64 `yaml:"matrix"`
		Initial      []int       `yaml:"initial"`
		Absorbing    []string    `yaml:"absorbing"`
		Observations string      `yaml:"observations"`
	}
	if err = yaml.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg := Default()
	if probe.States != nil || probe.Observations != "" {
		// A new state space invalidates every state-aligned default.
		cfg.States, cfg.Matrix, cfg.Initial, cfg.Absorbing = nil, nil, nil, nil
	}
	if err = yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if cfg.Observations != "" && !filepath.IsAbs(cfg.Observations) {
		cfg.Observations = filepath.Join(filepath.Dir(path), cfg.Observations)
	}

	return cfg, nil
}

// Validate checks internal consistency. Checks that need the estimated
// matrix (observations without states) are left to the caller.
func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
	}

	if len(c.Matrix) == 0 && c.Observations == "" {
		return invalid("one of matrix or observations is required")
	}
	if len(c.Matrix) > 0 && c.Observations != "" {
		return invalid("matrix and observations are mutually exclusive")
	}
	if len(c.Matrix) > 0 && len(c.States) == 0 {
		return invalid("an inline matrix needs states")
	}

	seen := make(map[string]bool, len(c.States))
	for i, s := range c.States {
		if s == "" {
			return invalid("states[%d] is empty", i)
		}
		if seen[s] {
			return invalid("duplicate state %q", s)
		}
		seen[s] = true
	}
	if len(c.Matrix) > 0 {
		if len(c.Matrix) != len(c.States) {
			return invalid("matrix has %d rows for %d states", len(c.Matrix), len(c.States))
		}
		for i, row := range c.Matrix {
			if len(row) != len(c.States) {
				return invalid("matrix row %d has %d columns for %d states", i, len(row), len(c.States))
			}
		}
	}
	if len(c.States) > 0 && c.Initial != nil && len(c.Initial) != len(c.States) {
		return invalid("initial has %d counts for %d states", len(c.Initial), len(c.States))
	}
	for i, v := range c.Initial {
		if v < 0 {
			return invalid("initial[%d] = %d is negative", i, v)
		}
	}
	if len(c.States) > 0 {
		for _, a := range c.Absorbing {
			if !seen[a] {
				return invalid("absorbing state %q is not in states", a)
			}
		}
	}

	if c.Horizon < 0 {
		return invalid("horizon must be non-negative, got %d", c.Horizon)
	}
	if c.Steps < 0 {
		return invalid("steps must be non-negative, got %d", c.Steps)
	}
	if c.Runs < 1 {
		return invalid("runs must be at least 1, got %d", c.Runs)
	}
	if c.Workers < 0 {
		return invalid("workers must be non-negative, got %d", c.Workers)
	}
	if _, err := simulate.StrategyByName(c.Strategy); err != nil {
		return invalid("%v", err)
	}
	if lo, hi := c.Quantiles[0], c.Quantiles[1]; !(lo >= 0 && lo <= hi && hi <= 1) {
		return invalid("quantiles must satisfy 0 <= lower <= upper <= 1, got [%g, %g]", lo, hi)
	}
	if !logging.ValidLevel(c.Logging.Level) {
		return invalid("invalid log level: %s (valid: debug, info, warn, error)", c.Logging.Level)
	}

	return nil
}

// InitialOrDefault returns Initial, or n zeros when unset.
func (c *Config) InitialOrDefault(n int) []int {
	if c.Initial != nil {
		return append([]int(nil), c.Initial...)
	}

	return make([]int, n)
}

func applyEnvOverrides(c *Config) {
	if v := os.Getenv(EnvSeed); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			c.Seed = n
		}
	}
	if v := os.Getenv(EnvStrategy); v != "" {
		c.Strategy = v
	}
	if v := os.Getenv(EnvRuns); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Runs = n
		}
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
}

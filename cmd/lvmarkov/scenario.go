package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/lvmarkov/config"
	"github.com/katalvlaran/lvmarkov/logging"
	"github.com/katalvlaran/lvmarkov/markov"
	"github.com/katalvlaran/lvmarkov/matrix"
	"github.com/katalvlaran/lvmarkov/transition"
)

// scenario is a validated configuration with its chain built.
type scenario struct {
	cfg     *config.Config
	log     *slog.Logger
	chain   *markov.Chain
	states  []string
	initial []int
}

// loadScenario reads --config and --log-level, validates the result and
// builds the chain from the inline matrix or the observations CSV.
func loadScenario(cmd *cobra.Command) (*scenario, error) {
	path, _ := cmd.Flags().GetString("config")
	level, _ := cmd.Flags().GetString("log-level")

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if level != "" {
		cfg.Logging.Level = level
	}
	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	log := logging.NewLogger(cfg.Logging.Level, cmd.ErrOrStderr())

	P, states, err := scenarioMatrix(cfg, log)
	if err != nil {
		return nil, err
	}
	chain, err := markov.NewChain(P, states, markov.WithLogger(log))
	if err != nil {
		return nil, err
	}

	initial := cfg.InitialOrDefault(len(states))
	if len(initial) != len(states) {
		return nil, fmt.Errorf("%w: initial has %d counts for %d states", config.ErrInvalid, len(initial), len(states))
	}
	if _, err = chain.Indices(cfg.Absorbing); err != nil {
		return nil, fmt.Errorf("absorbing: %w", err)
	}
	log.Debug("scenario loaded", "name", cfg.Name, "states", len(states), "source", source(cfg))

	return &scenario{cfg: cfg, log: log, chain: chain, states: states, initial: initial}, nil
}

func source(cfg *config.Config) string {
	if cfg.Observations != "" {
		return cfg.Observations
	}

	return "inline"
}

func scenarioMatrix(cfg *config.Config, log *slog.Logger) (matrix.Matrix, []string, error) {
	if cfg.Observations == "" {
		P, err := matrix.NewDenseFrom(cfg.Matrix)

		return P, cfg.States, err
	}

	counts, err := readCounts(cfg.Observations)
	if err != nil {
		return nil, nil, err
	}
	log.Info("estimated transition matrix", "observations", cfg.Observations, "transitions", counts.Total())

	var states []string
	if len(cfg.States) > 0 {
		states = cfg.States
	}
	P, states, err := counts.Matrix(states)
	if err != nil {
		return nil, nil, err
	}

	return P, states, nil
}

func readCounts(path string) (*transition.Counts, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening observations: %w", err)
	}
	defer f.Close()

	obs, err := transition.ReadObservationsCSV(f)
	if err != nil {
		return nil, err
	}

	return transition.CountTransitions(obs)
}

// overrideString, overrideInt and overrideUint copy a flag value over a
// config field when the flag was set on the command line.
func overrideString(cmd *cobra.Command, name string, dst *string) {
	if cmd.Flags().Changed(name) {
		*dst, _ = cmd.Flags().GetString(name)
	}
}

func overrideInt(cmd *cobra.Command, name string, dst *int) {
	if cmd.Flags().Changed(name) {
		*dst, _ = cmd.Flags().GetInt(name)
	}
}

func overrideUint(cmd *cobra.Command, name string, dst *uint64) {
	if cmd.Flags().Changed(name) {
		*dst, _ = cmd.Flags().GetUint64(name)
	}
}

// addOutputFlags registers --csv, --plot and --db overrides for output.*.
func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().String("csv", "", "Write results as CSV to this file")
	cmd.Flags().String("plot", "", "Write a chart to this file (.png, .svg, .pdf)")
	cmd.Flags().String("db", "", "Store the run in this SQLite database")
}

func applyOutputFlags(cmd *cobra.Command, out *config.OutputConfig) {
	overrideString(cmd, "csv", &out.CSV)
	overrideString(cmd, "plot", &out.Plot)
	overrideString(cmd, "db", &out.DB)
}

// writeFile creates path and hands it to write.
func writeFile(path string, write func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err = write(f); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

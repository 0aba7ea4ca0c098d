package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/lvmarkov/report"
	"github.com/katalvlaran/lvmarkov/simulate"
	"github.com/katalvlaran/lvmarkov/store"
)

type simulateReport struct {
	Name     string           `json:"name"`
	States   []string         `json:"states"`
	Strategy string           `json:"strategy"`
	Seed     uint64           `json:"seed"`
	Steps    int              `json:"steps"`
	Final    []int            `json:"final"`
	History  simulate.History `json:"history"`
	RunID    int64            `json:"run_id,omitempty"`
}

func newSimulateReport(name string, states []string, strategy string, seed uint64, h simulate.History) *simulateReport {
	return &simulateReport{
		Name:     name,
		States:   states,
		Strategy: strategy,
		Seed:     seed,
		Steps:    h.Steps(),
		Final:    h.Final(),
		History:  h,
	}
}

// addSimulationFlags registers the overrides shared by simulate and ensemble.
func addSimulationFlags(cmd *cobra.Command) {
	cmd.Flags().Int("steps", 0, "Override the number of simulated steps")
	cmd.Flags().Uint64("seed", 0, "Override the random seed")
	cmd.Flags().String("strategy", "", "Override the sampling strategy (multinomial, reference)")
	addOutputFlags(cmd)
}

// newSimulator applies the shared overrides and builds the simulator.
func newSimulator(cmd *cobra.Command, sc *scenario) (*simulate.Simulator, error) {
	overrideInt(cmd, "steps", &sc.cfg.Steps)
	overrideUint(cmd, "seed", &sc.cfg.Seed)
	overrideString(cmd, "strategy", &sc.cfg.Strategy)
	applyOutputFlags(cmd, &sc.cfg.Output)
	if sc.cfg.Steps < 0 {
		return nil, fmt.Errorf("steps must be non-negative, got %d", sc.cfg.Steps)
	}

	strategy, err := simulate.StrategyByName(sc.cfg.Strategy)
	if err != nil {
		return nil, err
	}

	return simulate.New(sc.chain.Matrix(),
		simulate.WithStrategy(strategy),
		simulate.WithLogger(sc.log),
	)
}

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Simulate one trajectory of the initial portfolio",
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := loadScenario(cmd)
			if err != nil {
				return err
			}
			sim, err := newSimulator(cmd, sc)
			if err != nil {
				return err
			}

			hist, err := sim.Run(sc.initial, sc.cfg.Steps, simulate.NewSource(sc.cfg.Seed))
			if err != nil {
				return err
			}
			sc.log.Info("simulation finished", "steps", hist.Steps(), "strategy", sim.Strategy().Name(), "seed", sc.cfg.Seed)

			rep := newSimulateReport(sc.cfg.Name, sc.states, sim.Strategy().Name(), sc.cfg.Seed, hist)
			if err = writeHistoryOutputs(cmd.Context(), sc, rep); err != nil {
				return err
			}

			if jsonOutput(cmd) {
				return writeJSON(cmd.OutOrStdout(), rep)
			}
			printFinal(cmd.OutOrStdout(), rep)

			return nil
		},
	}
	addSimulationFlags(cmd)

	return cmd
}

func writeHistoryOutputs(ctx context.Context, sc *scenario, rep *simulateReport) error {
	out := sc.cfg.Output
	if out.CSV != "" {
		if err := writeFile(out.CSV, func(w io.Writer) error {
			return report.WriteHistoryCSV(w, sc.states, rep.History)
		}); err != nil {
			return err
		}
		sc.log.Info("wrote history", "path", out.CSV)
	}
	if out.Plot != "" {
		if err := report.PlotHistory(out.Plot, sc.cfg.Name, sc.states, rep.History); err != nil {
			return err
		}
		sc.log.Info("wrote chart", "path", out.Plot)
	}
	if out.DB != "" {
		id, err := saveRun(ctx, out.DB, sc.log, store.Run{
			Name:     sc.cfg.Name,
			Strategy: rep.Strategy,
			Seed:     rep.Seed,
			States:   sc.states,
			History:  rep.History,
		})
		if err != nil {
			return err
		}
		rep.RunID = id
	}

	return nil
}

func saveRun(ctx context.Context, dsn string, log *slog.Logger, run store.Run) (int64, error) {
	db, err := store.Open(ctx, dsn, store.WithLogger(log))
	if err != nil {
		return 0, err
	}
	defer db.Close()

	id, err := db.SaveRun(ctx, run)
	if err != nil {
		return 0, err
	}
	log.Info("stored run", "db", dsn, "id", id)

	return id, nil
}

func printFinal(w io.Writer, r *simulateReport) {
	fmt.Fprintf(w, "Scenario: %s, strategy %s, seed %d\n", r.Name, r.Strategy, r.Seed)
	fmt.Fprintf(w, "Counts after %d steps:\n", r.Steps)
	for i, s := range r.States {
		fmt.Fprintf(w, "  %-12s %8d\n", s, r.Final[i])
	}
	if r.RunID != 0 {
		fmt.Fprintf(w, "Stored as run %d\n", r.RunID)
	}
}

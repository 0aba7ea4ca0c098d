package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/lvmarkov/report"
	"github.com/katalvlaran/lvmarkov/simulate"
	"github.com/katalvlaran/lvmarkov/store"
)

type ensembleReport struct {
	Name      string      `json:"name"`
	States    []string    `json:"states"`
	Strategy  string      `json:"strategy"`
	Seed      uint64      `json:"seed"`
	Runs      int         `json:"runs"`
	Steps     int         `json:"steps"`
	Quantiles [2]float64  `json:"quantiles"`
	Mean      [][]float64 `json:"mean"`
	Lower     [][]float64 `json:"lower"`
	Upper     [][]float64 `json:"upper"`
	RunID     int64       `json:"run_id,omitempty"`
}

func newEnsembleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ensemble",
		Short: "Run many seeded simulations and report mean and quantile bands",
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := loadScenario(cmd)
			if err != nil {
				return err
			}
			overrideInt(cmd, "runs", &sc.cfg.Runs)
			overrideInt(cmd, "workers", &sc.cfg.Workers)
			sim, err := newSimulator(cmd, sc)
			if err != nil {
				return err
			}

			ens, err := simulate.RunEnsemble(cmd.Context(), sim, sc.initial, sc.cfg.Steps, simulate.EnsembleOptions{
				Runs:    sc.cfg.Runs,
				Workers: sc.cfg.Workers,
				Seed:    sc.cfg.Seed,
				Lower:   sc.cfg.Quantiles[0],
				Upper:   sc.cfg.Quantiles[1],
			})
			if err != nil {
				return err
			}
			sc.log.Info("ensemble finished", "runs", ens.Runs, "steps", len(ens.Mean)-1)

			rep := newEnsembleReport(sc.cfg.Name, sc.states, sim.Strategy().Name(), ens)

			out := sc.cfg.Output
			if out.CSV != "" {
				if err = writeFile(out.CSV, func(w io.Writer) error {
					return report.WriteBandsCSV(w, sc.states, ens)
				}); err != nil {
					return err
				}
			}
			if out.Plot != "" {
				if err = report.PlotEnsemble(out.Plot, sc.cfg.Name, sc.states, ens); err != nil {
					return err
				}
			}
			if out.DB != "" {
				if rep.RunID, err = saveRun(cmd.Context(), out.DB, sc.log, store.Run{
					Name:     sc.cfg.Name,
					Strategy: rep.Strategy,
					Seed:     ens.Seed,
					States:   sc.states,
					Bands:    ens,
				}); err != nil {
					return err
				}
			}

			if jsonOutput(cmd) {
				return writeJSON(cmd.OutOrStdout(), rep)
			}
			printBands(cmd.OutOrStdout(), rep)

			return nil
		},
	}
	cmd.Flags().Int("runs", 0, "Override the number of runs")
	cmd.Flags().Int("workers", 0, "Override the number of concurrent runs (0 = GOMAXPROCS)")
	addSimulationFlags(cmd)

	return cmd
}

func newEnsembleReport(name string, states []string, strategy string, ens *simulate.Ensemble) *ensembleReport {
	return &ensembleReport{
		Name:      name,
		States:    states,
		Strategy:  strategy,
		Seed:      ens.Seed,
		Runs:      ens.Runs,
		Steps:     len(ens.Mean) - 1,
		Quantiles: [2]float64{ens.LowerQ, ens.UpperQ},
		Mean:      ens.Mean,
		Lower:     ens.Lower,
		Upper:     ens.Upper,
	}
}

func printBands(w io.Writer, r *ensembleReport) {
	last := len(r.Mean) - 1
	fmt.Fprintf(w, "Scenario: %s, strategy %s, %d runs, seed %d\n", r.Name, r.Strategy, r.Runs, r.Seed)
	fmt.Fprintf(w, "Counts after %d steps (mean [q%g, q%g]):\n", r.Steps, r.Quantiles[0], r.Quantiles[1])
	for i, s := range r.States {
		fmt.Fprintf(w, "  %-12s %10.1f [%8.0f, %8.0f]\n", s, r.Mean[last][i], r.Lower[last][i], r.Upper[last][i])
	}
	if r.RunID != 0 {
		fmt.Fprintf(w, "Stored as run %d\n", r.RunID)
	}
}

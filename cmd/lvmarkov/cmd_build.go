package main

import (
	"errors"
	"io"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/lvmarkov/config"
	"github.com/katalvlaran/lvmarkov/logging"
	"github.com/katalvlaran/lvmarkov/report"
)

type buildReport struct {
	States      []string    `json:"states"`
	Transitions int         `json:"transitions"`
	Matrix      [][]float64 `json:"matrix"`
}

func newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [observations.csv]",
		Short: "Estimate a transition matrix from observations",
		Long: `Estimate a row-stochastic transition matrix from time-stamped observations.

The CSV needs the columns entity_id, date and state. Records are grouped by
entity, ordered by date, and consecutive pairs are counted. States with no
outgoing observation keep their population (self-loop). Without an argument
the observations file of --config is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("config")
			level, _ := cmd.Flags().GetString("log-level")
			out, _ := cmd.Flags().GetString("out")

			cfg := config.Default()
			if path != "" {
				var err error
				if cfg, err = config.Load(path); err != nil {
					return err
				}
			}
			if len(args) == 1 {
				cfg.Observations = args[0]
			}
			if cfg.Observations == "" {
				return errors.New("no observations file: pass one or set observations in --config")
			}
			if level != "" {
				cfg.Logging.Level = level
			}
			log := logging.NewLogger(cfg.Logging.Level, cmd.ErrOrStderr())

			counts, err := readCounts(cfg.Observations)
			if err != nil {
				return err
			}
			var states []string
			if len(cfg.States) > 0 && path != "" {
				states = cfg.States
			}
			P, states, err := counts.Matrix(states)
			if err != nil {
				return err
			}
			log.Info("estimated transition matrix", "observations", cfg.Observations,
				"transitions", counts.Total(), "states", len(states))

			if out != "" {
				if err = writeFile(out, func(w io.Writer) error {
					return report.WriteMatrixCSV(w, states, P)
				}); err != nil {
					return err
				}
			}
			if jsonOutput(cmd) {
				return writeJSON(cmd.OutOrStdout(), buildReport{States: states, Transitions: counts.Total(), Matrix: P.ToRows()})
			}
			if out == "" {
				return report.WriteMatrixCSV(cmd.OutOrStdout(), states, P)
			}

			return nil
		},
	}
	cmd.Flags().String("out", "", "Write the matrix CSV to this file instead of stdout")

	return cmd
}

package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/lvmarkov/store"
)

func newRunsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect runs stored in a SQLite database",
	}
	cmd.PersistentFlags().String("db", "", "SQLite database (required)")
	cmd.AddCommand(newRunsListCmd(), newRunsShowCmd())

	return cmd
}

func openRunsDB(cmd *cobra.Command) (*store.DB, error) {
	dsn, _ := cmd.Flags().GetString("db")
	if dsn == "" {
		return nil, errors.New("--db is required")
	}

	return store.Open(cmd.Context(), dsn)
}

func newRunsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openRunsDB(cmd)
			if err != nil {
				return err
			}
			defer db.Close()

			runs, err := db.ListRuns(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput(cmd) {
				return writeJSON(cmd.OutOrStdout(), runs)
			}
			w := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(w, "No runs stored.")
				return nil
			}
			for _, r := range runs {
				kind := "single"
				if r.EnsembleRuns > 1 {
					kind = fmt.Sprintf("ensemble x%d", r.EnsembleRuns)
				}
				fmt.Fprintf(w, "%4d  %s  %-16s %-12s seed=%d steps=%d %s\n",
					r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.Name, r.Strategy, r.Seed, r.Steps, kind)
			}

			return nil
		},
	}
}

func newRunsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show the final counts of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid run id %q: %w", args[0], err)
			}
			db, err := openRunsDB(cmd)
			if err != nil {
				return err
			}
			defer db.Close()

			run, err := db.LoadRun(cmd.Context(), id)
			if err != nil {
				return err
			}

			if run.Bands != nil {
				rep := newEnsembleReport(run.Name, run.States, run.Strategy, run.Bands)
				rep.RunID = run.ID
				if jsonOutput(cmd) {
					return writeJSON(cmd.OutOrStdout(), rep)
				}
				printBands(cmd.OutOrStdout(), rep)

				return nil
			}

			rep := newSimulateReport(run.Name, run.States, run.Strategy, run.Seed, run.History)
			rep.RunID = run.ID
			if jsonOutput(cmd) {
				return writeJSON(cmd.OutOrStdout(), rep)
			}
			printFinal(cmd.OutOrStdout(), rep)

			return nil
		},
	}
}

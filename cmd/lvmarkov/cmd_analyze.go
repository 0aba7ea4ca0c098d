package main

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/lvmarkov/markov"
	"github.com/katalvlaran/lvmarkov/report"
)

type stationaryReport struct {
	Pi           []float64 `json:"pi"`
	Eigenvalue   float64   `json:"eigenvalue"`
	Gap          float64   `json:"gap"`
	Multiplicity int       `json:"multiplicity"`
	Ambiguous    bool      `json:"ambiguous"`
}

type absorptionReport struct {
	Absorbing     []string                      `json:"absorbing"`
	ExpectedTime  []float64                     `json:"expected_time,omitempty"`
	Variance      []float64                     `json:"variance,omitempty"`
	Probabilities map[string]map[string]float64 `json:"probabilities,omitempty"`
	Error         string                        `json:"error,omitempty"`
}

type analyzeReport struct {
	Name           string            `json:"name"`
	States         []string          `json:"states"`
	Kinds          []string          `json:"kinds"`
	Horizon        int               `json:"horizon"`
	NStep          [][]float64       `json:"n_step"`
	ExpectedCounts []float64         `json:"expected_counts"`
	Stationary     *stationaryReport `json:"stationary,omitempty"`
	Absorption     *absorptionReport `json:"absorption,omitempty"`
}

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyse the chain: n-step matrix, stationary distribution, absorption",
		Long: `Analyse the scenario chain.

Reports the transition matrix after --horizon steps, the expected counts of
the initial portfolio at that horizon, the class of every state, the
stationary distribution and, when absorbing states are configured (or the
chain has states with P[k,k] = 1), the expected time to absorption and the
absorption probabilities.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := loadScenario(cmd)
			if err != nil {
				return err
			}
			overrideInt(cmd, "horizon", &sc.cfg.Horizon)
			if sc.cfg.Horizon < 0 {
				return fmt.Errorf("horizon must be non-negative, got %d", sc.cfg.Horizon)
			}
			matrixOut, _ := cmd.Flags().GetString("matrix-csv")

			rep, err := analyze(sc)
			if err != nil {
				return err
			}
			if matrixOut != "" {
				Pn, err := sc.chain.NStep(sc.cfg.Horizon)
				if err != nil {
					return err
				}
				if err = writeFile(matrixOut, func(f io.Writer) error {
					return report.WriteMatrixCSV(f, sc.states, Pn)
				}); err != nil {
					return err
				}
			}

			if jsonOutput(cmd) {
				return writeJSON(cmd.OutOrStdout(), rep)
			}
			printAnalysis(cmd.OutOrStdout(), rep)

			return nil
		},
	}
	cmd.Flags().Int("horizon", 0, "Override the n-step horizon")
	cmd.Flags().String("matrix-csv", "", "Write the n-step matrix as CSV to this file")

	return cmd
}

func analyze(sc *scenario) (*analyzeReport, error) {
	c, h := sc.chain, sc.cfg.Horizon
	rep := &analyzeReport{Name: sc.cfg.Name, States: sc.states, Horizon: h}

	for _, k := range c.Classify() {
		rep.Kinds = append(rep.Kinds, k.String())
	}

	Pn, err := c.NStep(h)
	if err != nil {
		return nil, err
	}
	rep.NStep = Pn.ToRows()
	if rep.ExpectedCounts, err = c.ExpectedCounts(sc.initial, h); err != nil {
		return nil, err
	}

	st, err := c.Stationary()
	switch {
	case err == nil:
		rep.Stationary = &stationaryReport{
			Pi:           st.Pi,
			Eigenvalue:   real(st.Eigenvalue),
			Gap:          st.Gap,
			Multiplicity: st.Multiplicity,
			Ambiguous:    st.Ambiguous,
		}
	case errors.Is(err, markov.ErrStationaryUndefined):
		sc.log.Warn("no stationary distribution", "err", err)
	default:
		return nil, err
	}

	absorbing, err := c.Indices(sc.cfg.Absorbing)
	if err != nil {
		return nil, err
	}
	if len(absorbing) == 0 {
		absorbing = c.AbsorbingStates()
	}
	if len(absorbing) == 0 || len(absorbing) == c.Size() {
		return rep, nil
	}
	rep.Absorption = absorb(sc, absorbing)

	return rep, nil
}

// absorb fills the absorption section. A chain that cannot guarantee
// absorption is reported in Error rather than failing the command.
func absorb(sc *scenario, absorbing []int) *absorptionReport {
	c := sc.chain
	out := &absorptionReport{}
	for _, k := range absorbing {
		out.Absorbing = append(out.Absorbing, sc.states[k])
	}

	a, err := c.AbsorbProbabilities(absorbing)
	if err != nil {
		sc.log.Warn("absorption analysis skipped", "err", err)
		out.Error = err.Error()

		return out
	}
	out.ExpectedTime, _ = c.ExpectedTimeToAbsorb(absorbing)
	out.Variance, _ = c.VarianceTimeToAbsorb(absorbing)
	out.Probabilities = make(map[string]map[string]float64, len(a.Transient))
	for _, i := range a.Transient {
		row, err := a.ProbabilitiesFrom(i)
		if err != nil {
			continue
		}
		m := make(map[string]float64, len(row))
		for col, p := range row {
			m[out.Absorbing[col]] = p
		}
		out.Probabilities[sc.states[i]] = m
	}

	return out
}

func printAnalysis(w io.Writer, r *analyzeReport) {
	width := 0
	for _, s := range r.States {
		width = max(width, len(s))
	}
	label := func(s string) string { return s + strings.Repeat(" ", width-len(s)) }

	fmt.Fprintf(w, "Scenario: %s (%d states)\n\n", r.Name, len(r.States))

	fmt.Fprintf(w, "%d-step transition probabilities:\n", r.Horizon)
	fmt.Fprintf(w, "  %s", label(""))
	for _, s := range r.States {
		fmt.Fprintf(w, " %10s", s)
	}
	fmt.Fprintln(w)
	for i, row := range r.NStep {
		fmt.Fprintf(w, "  %s", label(r.States[i]))
		for _, v := range row {
			fmt.Fprintf(w, " %10.6f", v)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "\nExpected counts after %d steps:\n", r.Horizon)
	for i, s := range r.States {
		fmt.Fprintf(w, "  %s %12.1f  (%s)\n", label(s), r.ExpectedCounts[i], r.Kinds[i])
	}

	if st := r.Stationary; st != nil {
		fmt.Fprintln(w, "\nStationary distribution:")
		for i, s := range r.States {
			fmt.Fprintf(w, "  %s %.6f\n", label(s), st.Pi[i])
		}
		if st.Ambiguous {
			fmt.Fprintf(w, "  (not unique: %d eigenvalues at 1)\n", st.Multiplicity)
		}
	}

	if a := r.Absorption; a != nil {
		fmt.Fprintf(w, "\nAbsorption into %s:\n", strings.Join(a.Absorbing, ", "))
		if a.Error != "" {
			fmt.Fprintf(w, "  unavailable: %s\n", a.Error)
			return
		}
		for i, s := range r.States {
			probs, transient := a.Probabilities[s]
			if !transient {
				continue
			}
			fmt.Fprintf(w, "  %s E[T]=%8.3f  sd=%8.3f", label(s), a.ExpectedTime[i], math.Sqrt(max(a.Variance[i], 0)))
			for _, dst := range a.Absorbing {
				fmt.Fprintf(w, "  P(%s)=%.4f", dst, probs[dst])
			}
			fmt.Fprintln(w)
		}
	}
}

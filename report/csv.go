// SPDX-License-Identifier: MIT
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/katalvlaran/lvmarkov/matrix"
	"github.com/katalvlaran/lvmarkov/simulate"
)

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// WriteHistoryCSV writes one row per step: step, the count of every state
// in order, and the population total.
func WriteHistoryCSV(w io.Writer, states []string, history simulate.History) error {
	if len(history) == 0 {
		return ErrNoData
	}
	cw := csv.NewWriter(w)
	header := append(append([]string{"step"}, states...), "total")
	if err := cw.Write(header); err != nil {
		return err
	}

	rec := make([]string, len(states)+2)
	for t, row := range history {
		if len(row) != len(states) {
			return fmt.Errorf("step %d has %d counts for %d states: %w", t, len(row), len(states), ErrShape)
		}
		rec[0] = strconv.Itoa(t)
		total := 0
		for i, c := range row {
			rec[i+1] = strconv.Itoa(c)
			total += c
		}
		rec[len(rec)-1] = strconv.Itoa(total)
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()

	return cw.Error()
}

// WriteMatrixCSV writes a square matrix labelled on both axes.
func WriteMatrixCSV(w io.Writer, states []string, m matrix.Matrix) error {
	if err := matrix.ValidateNotNil(m); err != nil {
		return err
	}
	if r, c := m.Rows(), m.Cols(); r != len(states) || c != len(states) {
		return fmt.Errorf("%dx%d matrix for %d states: %w", r, c, len(states), ErrShape)
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{"from"}, states...)); err != nil {
		return err
	}

	rec := make([]string, len(states)+1)
	for i, from := range states {
		rec[0] = from
		for j := range states {
			v, err := m.At(i, j)
			if err != nil {
				return err
			}
			rec[j+1] = formatFloat(v)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()

	return cw.Error()
}

// WriteBandsCSV writes the ensemble summary in long form, one row per
// (step, state).
func WriteBandsCSV(w io.Writer, states []string, ens *simulate.Ensemble) error {
	if ens == nil || len(ens.Mean) == 0 {
		return ErrNoData
	}
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"step", "state", "mean", "lower", "upper"}); err != nil {
		return err
	}
	for t := range ens.Mean {
		if len(ens.Mean[t]) != len(states) {
			return fmt.Errorf("step %d has %d states, want %d: %w", t, len(ens.Mean[t]), len(states), ErrShape)
		}
		for i, s := range states {
			rec := []string{
				strconv.Itoa(t), s,
				formatFloat(ens.Mean[t][i]),
				formatFloat(ens.Lower[t][i]),
				formatFloat(ens.Upper[t][i]),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
	}
	cw.Flush()

	return cw.Error()
}

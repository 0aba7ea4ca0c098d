package markov_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvmarkov/logging"
	"github.com/katalvlaran/lvmarkov/markov"
	"github.com/katalvlaran/lvmarkov/matrix"
)

const tol = 1e-9

var (
	loanStates = []string{"performing", "delinq30", "delinq60", "NPE", "recovered", "default"}
	loanRows   = [][]float64{
		{0.88, 0.08, 0.02, 0.01, 0.00, 0.01},
		{0.30, 0.50, 0.10, 0.05, 0.00, 0.05},
		{0.10, 0.40, 0.30, 0.10, 0.05, 0.05},
		{0.00, 0.00, 0.05, 0.70, 0.20, 0.05},
		{0.00, 0.00, 0.00, 0.00, 1.00, 0.00},
		{0.00, 0.00, 0.00, 0.00, 0.00, 1.00},
	}
	threeRows = [][]float64{
		{0.5, 0.3, 0.2},
		{0.2, 0.5, 0.3},
		{0, 0, 1},
	}
)

func mustDense(t testing.TB, rows [][]float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDenseFrom(rows)
	require.NoError(t, err)

	return m
}

func mustChain(t testing.TB, rows [][]float64, states []string, opts ...markov.Option) *markov.Chain {
	t.Helper()
	c, err := markov.NewChain(mustDense(t, rows), states, opts...)
	require.NoError(t, err)

	return c
}

// bufferLogger returns a warn-level text logger writing into the returned buffer.
func bufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer

	return logging.NewLogger("warn", &buf), &buf
}

func requireRowSums(t testing.TB, m matrix.Matrix, tol float64) {
	t.Helper()
	sums, err := matrix.RowSums(m)
	require.NoError(t, err)
	for i, s := range sums {
		require.InDelta(t, 1.0, s, tol, "row %d", i)
	}
}

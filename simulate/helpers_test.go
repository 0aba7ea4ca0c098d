package simulate_test

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvmarkov/matrix"
	"github.com/katalvlaran/lvmarkov/simulate"
)

var (
	loanRows = [][]float64{
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
	allStrategies = []simulate.Strategy{simulate.Reference{}, simulate.Multinomial{}}
)

func mustDense(t testing.TB, rows [][]float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDenseFrom(rows)
	require.NoError(t, err)

	return m
}

func mustSim(t testing.TB, rows [][]float64, s simulate.Strategy) *simulate.Simulator {
	t.Helper()
	sim, err := simulate.New(mustDense(t, rows), simulate.WithStrategy(s))
	require.NoError(t, err)

	return sim
}

func sum(xs []int) int {
	var s int
	for _, x := range xs {
		s += x
	}

	return s
}

// spy records every Route call and delegates to Multinomial.
type spy struct {
	counts []int
}

func (s *spy) Name() string { return "spy" }

func (s *spy) Route(count int, row []float64, rng *rand.Rand, out []int) {
	s.counts = append(s.counts, count)
	simulate.Multinomial{}.Route(count, row, rng, out)
}

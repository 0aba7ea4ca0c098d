package markov_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvmarkov/markov"
	"github.com/katalvlaran/lvmarkov/matrix"
)

func TestNStep_IdentityChainIsFixed(t *testing.T) {
	c := mustChain(t, [][]float64{{1, 0}, {0, 1}}, []string{"A", "B"})
	p5, err := c.NStep(5)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 0}, {0, 1}}, p5.ToRows())
}

func TestNStep_ZeroOneAndRowSums(t *testing.T) {
	c := mustChain(t, loanRows, loanStates)

	p0, err := c.NStep(0)
	require.NoError(t, err)
	for i := 0; i < 6; i++ {
		for j := 0; j < 6; j++ {
			v, _ := p0.At(i, j)
			if i == j {
				require.Equal(t, 1.0, v)
			} else {
				require.Equal(t, 0.0, v)
			}
		}
	}

	p1, err := c.NStep(1)
	require.NoError(t, err)
	require.Equal(t, loanRows, p1.ToRows(), "NStep(1) must equal P exactly")

	p24, err := c.NStep(24)
	require.NoError(t, err)
	p12, err := c.NStep(12)
	require.NoError(t, err)
	squared, err := matrix.Mul(p12, p12)
	require.NoError(t, err)
	ok, err := matrix.AllClose(p24, squared, 0, 1e-12)
	require.NoError(t, err)
	require.True(t, ok, "P^24 must equal (P^12)^2")

	for _, n := range []int{2, 5, 12, 24, 120, 10_000} {
		pn, err := c.NStep(n)
		require.NoError(t, err)
		requireRowSums(t, pn, 1e-9)
	}
}

func TestNStep_TwelveMonthPerformingToNPE(t *testing.T) {
	c := mustChain(t, loanRows, loanStates)
	p12, err := c.NStep(12)
	require.NoError(t, err)

	// Cross-check against stepping a unit vector twelve times.
	dist := []float64{1, 0, 0, 0, 0, 0}
	for k := 0; k < 12; k++ {
		dist, err = c.Distribution(dist, 1)
		require.NoError(t, err)
	}
	v, err := p12.At(0, 3)
	require.NoError(t, err)
	require.InDelta(t, dist[3], v, 1e-12)
	require.Greater(t, v, 0.0)
}

func TestNStep_Negative(t *testing.T) {
	c := mustChain(t, threeRows, []string{"A", "B", "C"})
	_, err := c.NStep(-1)
	require.ErrorIs(t, err, markov.ErrNegativeSteps)
}

func TestDistribution(t *testing.T) {
	c := mustChain(t, [][]float64{{0.5, 0.5}, {0.5, 0.5}}, []string{"A", "B"})
	d, err := c.Distribution([]float64{1, 0}, 1)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.5, 0.5}, d, tol)

	_, err = c.Distribution([]float64{1}, 1)
	require.ErrorIs(t, err, markov.ErrLengthMismatch)
	_, err = c.Distribution([]float64{0.7, 0.7}, 1)
	require.ErrorIs(t, err, markov.ErrNotDistribution)
	_, err = c.Distribution([]float64{1.5, -0.5}, 1)
	require.ErrorIs(t, err, markov.ErrNotDistribution)
	_, err = c.Distribution([]float64{1, 0}, -3)
	require.ErrorIs(t, err, markov.ErrNegativeSteps)
}

func TestExpectedCounts_ConservesTotal(t *testing.T) {
	c := mustChain(t, loanRows, loanStates)
	got, err := c.ExpectedCounts([]int{10_000, 0, 0, 0, 0, 0}, 24)
	require.NoError(t, err)

	var total float64
	for _, v := range got {
		require.GreaterOrEqual(t, v, 0.0)
		total += v
	}
	require.InDelta(t, 10_000, total, 1e-6)
	require.Greater(t, got[5], got[4], "default dominates recovery from performing")

	_, err = c.ExpectedCounts([]int{1, 2}, 1)
	require.ErrorIs(t, err, markov.ErrLengthMismatch)
	_, err = c.ExpectedCounts([]int{-1, 0, 0, 0, 0, 0}, 1)
	require.ErrorIs(t, err, markov.ErrNegativeCount)
}

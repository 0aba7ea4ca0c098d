package simulate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvmarkov/matrix"
	"github.com/katalvlaran/lvmarkov/simulate"
)

func TestNew_RejectsMalformedMatrix(t *testing.T) {
	rect, err := matrix.NewDense(2, 3)
	require.NoError(t, err)

	_, err = simulate.New(rect)
	require.ErrorIs(t, err, matrix.ErrNonSquare)

	_, err = simulate.New(nil)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)

	// Rows are never renormalised.
	_, err = simulate.New(mustDense(t, [][]float64{{0.5, 0.4}, {0, 1}}))
	require.ErrorIs(t, err, matrix.ErrNotStochastic)

	_, err = simulate.New(mustDense(t, [][]float64{{1.1, -0.1}, {0, 1}}))
	require.ErrorIs(t, err, matrix.ErrNotStochastic)
}

func TestRun_InputErrors(t *testing.T) {
	sim := mustSim(t, threeRows, simulate.Multinomial{})
	rng := simulate.NewSource(1)

	_, err := sim.Run([]int{1, 2}, 3, rng)
	require.ErrorIs(t, err, simulate.ErrLengthMismatch)
	_, err = sim.Run([]int{1, -2, 0}, 3, rng)
	require.ErrorIs(t, err, simulate.ErrNegativeCount)
	_, err = sim.Run([]int{1, 2, 0}, -1, rng)
	require.ErrorIs(t, err, simulate.ErrNegativeSteps)
	_, err = sim.Run([]int{1, 2, 0}, 3, nil)
	require.ErrorIs(t, err, simulate.ErrNilSource)
}

func TestRun_ZeroSteps(t *testing.T) {
	sim := mustSim(t, threeRows, simulate.Reference{})
	initial := []int{3, 4, 5}
	h, err := sim.Run(initial, 0, simulate.NewSource(7))
	require.NoError(t, err)
	require.Equal(t, simulate.History{{3, 4, 5}}, h)

	initial[0] = 99
	assert.Equal(t, 3, h[0][0], "history must not alias the initial slice")
}

func TestRun_PopulationConservation(t *testing.T) {
	for _, s := range allStrategies {
		t.Run(s.Name(), func(t *testing.T) {
			sim := mustSim(t, loanRows, s)
			initial := []int{700, 120, 60, 40, 50, 30}
			h, err := sim.Run(initial, 36, simulate.NewSource(2024))
			require.NoError(t, err)
			require.Equal(t, 36, h.Steps())
			for step, row := range h {
				for i, c := range row {
					require.GreaterOrEqual(t, c, 0, "step %d state %d", step, i)
				}
				require.Equal(t, 1000, sum(row), "step %d", step)
			}
		})
	}
}

func TestRun_DeterministicPerSeed(t *testing.T) {
	for _, s := range allStrategies {
		t.Run(s.Name(), func(t *testing.T) {
			sim := mustSim(t, loanRows, s)
			initial := []int{10_000, 0, 0, 0, 0, 0}
			a, err := sim.Run(initial, 24, simulate.NewSource(99))
			require.NoError(t, err)
			b, err := sim.Run(initial, 24, simulate.NewSource(99))
			require.NoError(t, err)
			require.Equal(t, a, b)

			c, err := sim.Run(initial, 24, simulate.NewSource(100))
			require.NoError(t, err)
			require.NotEqual(t, a, c)
		})
	}
}

func TestRun_DisconnectedAbsorbingIsConstant(t *testing.T) {
	for _, s := range allStrategies {
		t.Run(s.Name(), func(t *testing.T) {
			sim := mustSim(t, [][]float64{{1, 0}, {0, 1}}, s)
			h, err := sim.Run([]int{100, 0}, 50, simulate.NewSource(5))
			require.NoError(t, err)
			for _, row := range h {
				require.Equal(t, []int{100, 0}, row)
			}
		})
	}
}

func TestRun_AbsorbingStability(t *testing.T) {
	for _, s := range allStrategies {
		t.Run(s.Name(), func(t *testing.T) {
			sim := mustSim(t, threeRows, s)
			h, err := sim.Run([]int{60, 40, 0}, 200, simulate.NewSource(11))
			require.NoError(t, err)

			series := h.Series(2)
			full := -1
			for step := 1; step < len(series); step++ {
				require.GreaterOrEqual(t, series[step], series[step-1], "absorbing state lost entities at step %d", step)
				if full < 0 && series[step] == 100 {
					full = step
				}
				if full >= 0 {
					require.Equal(t, 100, series[step])
				}
			}
			require.GreaterOrEqual(t, full, 0, "population should be fully absorbed within 200 steps")
		})
	}
}

func TestRun_ZeroCountStatesAreSkipped(t *testing.T) {
	sp := &spy{}
	sim, err := simulate.New(mustDense(t, threeRows), simulate.WithStrategy(sp))
	require.NoError(t, err)

	_, err = sim.Run([]int{10, 0, 0}, 1, simulate.NewSource(3))
	require.NoError(t, err)
	require.Equal(t, []int{10}, sp.counts, "only the populated source may route")

	// An empty population must not consume randomness at all.
	rng := simulate.NewSource(3)
	_, err = sim.Run([]int{0, 0, 0}, 10, rng)
	require.NoError(t, err)
	require.Equal(t, simulate.NewSource(3).Uint64(), rng.Uint64())
}

func TestSimulate_OneShot(t *testing.T) {
	h, err := simulate.Simulate([]int{5, 5, 0}, mustDense(t, threeRows), 4, simulate.NewSource(1))
	require.NoError(t, err)
	require.Len(t, h, 5)

	_, err = simulate.Simulate([]int{5, 5, 0}, mustDense(t, [][]float64{{0.2}}), 4, simulate.NewSource(1))
	require.ErrorIs(t, err, matrix.ErrNotStochastic)
}

func TestWithStrategy_NilPanics(t *testing.T) {
	require.Panics(t, func() { simulate.WithStrategy(nil) })
	require.Panics(t, func() { simulate.WithTolerance(0) })
}

func TestSimulator_Accessors(t *testing.T) {
	sim := mustSim(t, loanRows, simulate.Reference{})
	assert.Equal(t, 6, sim.Size())
	assert.Equal(t, "reference", sim.Strategy().Name())

	def, err := simulate.New(mustDense(t, loanRows))
	require.NoError(t, err)
	assert.Equal(t, "multinomial", def.Strategy().Name())
}

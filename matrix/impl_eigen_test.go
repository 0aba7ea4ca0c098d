package matrix_test

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvmarkov/matrix"
)

// nearestToOne returns the index of the eigenvalue closest to 1.
func nearestToOne(values []complex128) int {
	best, gap := 0, math.Inf(1)
	for k, v := range values {
		if d := cmplx.Abs(v - 1); d < gap {
			best, gap = k, d
		}
	}

	return best
}

func TestLeftEigen_LeftVectorProperty(t *testing.T) {
	P := RandomStochastic(t, 5, 7)
	values, vectors, err := matrix.LeftEigen(P)
	require.NoError(t, err)
	require.Len(t, values, 5)
	require.Len(t, vectors, 5)

	// v·P = λ·v for every pair (complex arithmetic on the real matrix).
	for k := range values {
		v := vectors[k]
		for j := 0; j < 5; j++ {
			var acc complex128
			for i := 0; i < 5; i++ {
				acc += v[i] * complex(MustAt(t, P, i, j), 0)
			}
			require.InDelta(t, 0, cmplx.Abs(acc-values[k]*v[j]), 1e-9, "pair %d col %d", k, j)
		}
	}
}

func TestLeftEigen_StochasticHasUnitEigenvalue(t *testing.T) {
	P := MustFrom(t, [][]float64{{0.5, 0.5}, {0.5, 0.5}})
	values, vectors, err := matrix.LeftEigen(P)
	require.NoError(t, err)

	k := nearestToOne(values)
	require.InDelta(t, 0, cmplx.Abs(values[k]-1), tolLoose)
	v := vectors[k]
	require.InDelta(t, real(v[0]), real(v[1]), tolLoose, "uniform chain has uniform left vector")
}

func TestLeftEigen_ComplexPair(t *testing.T) {
	// Deterministic 3-cycle: eigenvalues are the cube roots of unity.
	P := MustFrom(t, [][]float64{{0, 1, 0}, {0, 0, 1}, {1, 0, 0}})
	values, _, err := matrix.LeftEigen(P)
	require.NoError(t, err)
	for _, v := range values {
		require.InDelta(t, 1.0, cmplx.Abs(v), tolLoose)
	}
}

func TestLeftEigen_Errors(t *testing.T) {
	_, _, err := matrix.LeftEigen(MustDense(t, 2, 3))
	require.ErrorIs(t, err, matrix.ErrNonSquare)
	_, _, err = matrix.LeftEigen(nil)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
}

// SPDX-License-Identifier: MIT
package matrix_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvmarkov/matrix"
)

func TestMul_Basic(t *testing.T) {
	A := MustFrom(t, [][]float64{{1, 2}, {3, 4}})
	B := MustFrom(t, [][]float64{{2, 0}, {1, 2}})
	// A*B = [[1*2+2*1,1*0+2*2],[3*2+4*1,3*0+4*2]] = [[4,4],[10,8]]
	res, err := matrix.Mul(A, B)
	require.NoError(t, err)
	require.Equal(t, [][]float64{{4, 4}, {10, 8}}, res.ToRows())

	// Interface path must agree bit-for-bit with the *Dense path.
	slow, err := matrix.Mul(hide{A}, hide{B})
	require.NoError(t, err)
	require.Equal(t, res.ToRows(), slow.ToRows())
}

func TestMul_DimensionMismatch(t *testing.T) {
	A := MustDense(t, 2, 3)
	B := MustDense(t, 2, 2)
	_, err := matrix.Mul(A, B)
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)

	_, err = matrix.Mul(nil, B)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
}

func TestAddSub(t *testing.T) {
	A := MustFrom(t, [][]float64{{1, 2}, {3, 4}})
	I, err := matrix.NewIdentity(2)
	require.NoError(t, err)

	d, err := matrix.Sub(I, A)
	require.NoError(t, err)
	require.Equal(t, [][]float64{{0, -2}, {-3, -3}}, d.ToRows())

	s, err := matrix.Add(d, A)
	require.NoError(t, err)
	require.Equal(t, I.ToRows(), s.ToRows())

	_, err = matrix.Sub(A, MustDense(t, 3, 2))
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

func TestTranspose(t *testing.T) {
	A := MustFrom(t, [][]float64{{1, 2, 3}, {4, 5, 6}})
	T, err := matrix.Transpose(A)
	require.NoError(t, err)
	require.Equal(t, [][]float64{{1, 4}, {2, 5}, {3, 6}}, T.ToRows())
}

func TestMatVecAndVecMul(t *testing.T) {
	A := MustFrom(t, [][]float64{{1, 2}, {3, 4}})

	y, err := matrix.MatVec(A, []float64{1, 1})
	require.NoError(t, err)
	require.Equal(t, []float64{3, 7}, y)

	z, err := matrix.VecMul([]float64{1, 1}, A)
	require.NoError(t, err)
	require.Equal(t, []float64{4, 6}, z)

	_, err = matrix.VecMul([]float64{1}, A)
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	_, err = matrix.MatVec(A, nil)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
}

func TestPow_ZeroAndOne(t *testing.T) {
	P := MustFrom(t, loanMatrix)

	P0, err := matrix.Pow(P, 0)
	require.NoError(t, err)
	I, err := matrix.NewIdentity(6)
	require.NoError(t, err)
	require.Equal(t, I.ToRows(), P0.ToRows())

	P1, err := matrix.Pow(P, 1)
	require.NoError(t, err)
	require.Equal(t, P.ToRows(), P1.ToRows(), "P^1 must be an exact copy")
	require.NoError(t, P1.Set(0, 0, 0))
	require.Equal(t, 0.88, MustAt(t, P, 0, 0), "P^1 must not alias P")
}

func TestPow_MatchesRepeatedMultiplication(t *testing.T) {
	P := RandomStochastic(t, 7, 2024)

	naive := P.Clone()
	var err error
	for k := 2; k <= 13; k++ {
		naive, err = matrix.Mul(naive, P)
		require.NoError(t, err)

		fast, err := matrix.Pow(P, k)
		require.NoError(t, err)
		ok, err := matrix.AllClose(fast, naive, 0, tolTight)
		require.NoError(t, err)
		require.True(t, ok, "Pow(P,%d) diverges from naive product", k)
	}
}

func TestPow_PreservesRowStochasticity(t *testing.T) {
	P := MustFrom(t, loanMatrix)
	for _, k := range []int{0, 1, 2, 3, 12, 64, 1000, 1 << 16} {
		Pk, err := matrix.Pow(P, k)
		require.NoError(t, err)
		RequireRowSums(t, Pk, 1.0, tolLoose)
	}
}

func TestPow_Errors(t *testing.T) {
	_, err := matrix.Pow(MustDense(t, 2, 2), -1)
	require.ErrorIs(t, err, matrix.ErrNegativeExponent)

	_, err = matrix.Pow(MustDense(t, 2, 3), 2)
	require.ErrorIs(t, err, matrix.ErrNonSquare)
}

func TestInverse_RoundTrip(t *testing.T) {
	A := MustFrom(t, [][]float64{{4, 3}, {6, 3}})
	inv, err := matrix.Inverse(A)
	require.NoError(t, err)

	prod, err := matrix.Mul(A, inv)
	require.NoError(t, err)
	I, err := matrix.NewIdentity(2)
	require.NoError(t, err)
	ok, err := matrix.AllClose(prod, I, 0, tolTight)
	require.NoError(t, err)
	require.True(t, ok, "A*A^-1 = %v", prod)

	require.InDelta(t, -0.5, MustAt(t, inv, 0, 0), tolTight)
	require.InDelta(t, 0.5, MustAt(t, inv, 0, 1), tolTight)
	require.InDelta(t, 1.0, MustAt(t, inv, 1, 0), tolTight)
	require.InDelta(t, -2.0/3.0, MustAt(t, inv, 1, 1), tolTight)
}

func TestInverse_FundamentalMatrix(t *testing.T) {
	// I − Q for the transient block of a three-state absorbing chain.
	Q := MustFrom(t, [][]float64{{0.5, 0.3}, {0.2, 0.5}})
	I, err := matrix.IdentityLike(Q)
	require.NoError(t, err)
	IQ, err := matrix.Sub(I, Q)
	require.NoError(t, err)

	N, err := matrix.Inverse(IQ)
	require.NoError(t, err)
	// det(I−Q) = 0.19; N = [[0.5,0.3],[0.2,0.5]] / 0.19
	require.InDelta(t, 0.5/0.19, MustAt(t, N, 0, 0), tolLoose)
	require.InDelta(t, 0.3/0.19, MustAt(t, N, 0, 1), tolLoose)
	require.InDelta(t, 0.2/0.19, MustAt(t, N, 1, 0), tolLoose)
	require.InDelta(t, 0.5/0.19, MustAt(t, N, 1, 1), tolLoose)
}

func TestInverse_Singular(t *testing.T) {
	// I − Q where Q is a closed (recurrent) pair: no absorption possible.
	_, err := matrix.Inverse(MustFrom(t, [][]float64{{0.5, -0.5}, {-0.5, 0.5}}))
	require.ErrorIs(t, err, matrix.ErrSingular)

	_, err = matrix.Inverse(MustFrom(t, [][]float64{{0}}))
	require.ErrorIs(t, err, matrix.ErrSingular)

	_, err = matrix.Inverse(MustDense(t, 2, 3))
	require.ErrorIs(t, err, matrix.ErrNonSquare)
}

func TestLU_Reconstructs(t *testing.T) {
	A := MustFrom(t, [][]float64{{2, -1, 0}, {-1, 2, -1}, {0, -1, 2}})
	L, U, err := matrix.LU(A)
	require.NoError(t, err)
	LU, err := matrix.Mul(L, U)
	require.NoError(t, err)
	ok, err := matrix.AllClose(LU, A, 0, tolTight)
	require.NoError(t, err)
	require.True(t, ok)
	for i := 0; i < 3; i++ {
		require.Equal(t, 1.0, MustAt(t, L, i, i))
	}
}

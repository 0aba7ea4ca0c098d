// SPDX-License-Identifier: MIT
// Package matrix - general (non-symmetric) eigen-decomposition.
//
// Purpose:
//   - Transition matrices are not symmetric, so a Jacobi sweep does not apply.
//     LeftEigen delegates the real Schur/QR iteration to gonum's LAPACK port
//     and exposes the result in this package's plain-slice vocabulary.
//
// Determinism:
//   - gonum's pure-Go LAPACK runs in fixed order; identical inputs give
//     identical eigenvalues, vectors and ordering.

package matrix

import (
	"gonum.org/v1/gonum/mat"
)

const opLeftEigen = "LeftEigen"

// LeftEigen returns the eigenvalues of a square m together with their left
// eigenvectors: vectors[k] satisfies vectors[k]·m = values[k]·vectors[k].
//
// Implementation:
//   - Stage 1: Validate square non-nil input.
//   - Stage 2: Factorize mᵀ with right eigenvectors (a left eigenvector of m
//     is a right eigenvector of mᵀ).
//   - Stage 3: Copy column k of the complex eigenvector matrix to vectors[k].
//
// Returns:
//   - values:  n complex eigenvalues in solver order.
//   - vectors: n complex vectors, each of unit Euclidean norm.
//
// Errors:
//   - ErrNilMatrix, ErrNonSquare, ErrEigenFailed (no convergence).
//
// Complexity:
//   - Time O(n^3), Space O(n^2).
//
// AI-Hints:
//   - For a row-stochastic P, the vector for the eigenvalue nearest 1 is the
//     (unnormalised) stationary distribution.
func LeftEigen(m Matrix) ([]complex128, [][]complex128, error) {
	if err := ValidateSquareNonNil(m); err != nil {
		return nil, nil, matrixErrorf(opLeftEigen, err)
	}
	t, err := Transpose(m)
	if err != nil {
		return nil, nil, matrixErrorf(opLeftEigen, err)
	}

	n := t.r
	a := mat.NewDense(n, n, t.data) // t is a private copy; sharing its buffer is safe

	var eig mat.Eigen
	if ok := eig.Factorize(a, mat.EigenRight); !ok {
		return nil, nil, matrixErrorf(opLeftEigen, ErrEigenFailed)
	}
	values := eig.Values(nil)

	var vecs mat.CDense
	eig.VectorsTo(&vecs)

	vectors := make([][]complex128, n)
	var i, k int
	for k = 0; k < n; k++ {
		vectors[k] = make([]complex128, n)
		for i = 0; i < n; i++ {
			vectors[k][i] = vecs.At(i, k)
		}
	}

	return values, vectors, nil
}

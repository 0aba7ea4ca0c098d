// SPDX-License-Identifier: MIT
// Package matrix: sentinel error set (unified, consistent).
// This file defines ONLY package-level sentinel errors used across the matrix
// package. All kernels MUST return these sentinels (optionally wrapped with
// an operation tag) and tests MUST check them via errors.Is.

package matrix

import "errors"

// NOTE ON NAMING & PREFIXING
// --------------------------
// Every message is prefixed with "matrix: ..." for consistency and easy
// grepping. Kernels wrap with matrixErrorf(op, ErrX); callers match with
// errors.Is.
//
// ERROR PRIORITY (documented, enforced in tests):
// nil -> shape/dimension -> NaN/Inf -> structural (stochastic) -> numeric (singular/eigen).

var (
	// ErrInvalidDimensions indicates that requested matrix dimensions are non-positive.
	ErrInvalidDimensions = errors.New("matrix: dimensions must be > 0")

	// ErrOutOfRange indicates that an index (row or column) is outside valid bounds.
	// Public indexers (At/Set) MUST return this, not panic.
	ErrOutOfRange = errors.New("matrix: index out of range")

	// ErrDimensionMismatch indicates incompatible dimensions between operands,
	// e.g., Sub on different shapes, Mul where a.Cols != b.Rows, or a ragged
	// row slice handed to NewDenseFrom.
	ErrDimensionMismatch = errors.New("matrix: dimension mismatch")

	// ErrNonSquare signals that a square matrix was required but the input wasn't.
	ErrNonSquare = errors.New("matrix: matrix is not square")

	// ErrNaNInf signals a NaN or ±Inf value where finite values are required.
	ErrNaNInf = errors.New("matrix: NaN or Inf encountered")

	// ErrNilMatrix indicates that a nil Matrix (receiver or argument) was used.
	ErrNilMatrix = errors.New("matrix: nil matrix")

	// ErrNegativeExponent is returned by Pow for k < 0.
	ErrNegativeExponent = errors.New("matrix: negative exponent")

	// ErrNotStochastic signals a negative entry or a row whose sum deviates
	// from 1 by more than the tolerance.
	ErrNotStochastic = errors.New("matrix: matrix is not row-stochastic")

	// ErrSingular is returned when a (near-)zero pivot is met during LU/Inverse.
	ErrSingular = errors.New("matrix: singular matrix")

	// ErrEigenFailed indicates that the eigen-decomposition did not converge.
	ErrEigenFailed = errors.New("matrix: eigen decomposition failed")
)

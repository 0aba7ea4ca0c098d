// SPDX-License-Identifier: MIT
// Package matrix: central validators.
//
// Every kernel calls into this file instead of re-implementing shape checks.
// Validators return plain sentinels wrapped with the validator name; kernels
// add their own operation tag on top via matrixErrorf.

package matrix

import (
	"fmt"
	"math"
)

const zeroTol = 0.0

// DefaultStochasticTolerance is the row-sum tolerance for transition matrices.
const DefaultStochasticTolerance = 1e-9

func validatorErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// ValidateNotNil rejects a nil Matrix (including a typed-nil *Dense).
func ValidateNotNil(m Matrix) error {
	if m == nil {
		return validatorErrorf("ValidateNotNil", ErrNilMatrix)
	}
	if d, ok := m.(*Dense); ok && d == nil {
		return validatorErrorf("ValidateNotNil", ErrNilMatrix)
	}

	return nil
}

// ValidateSameShape checks a.Rows()==b.Rows() and a.Cols()==b.Cols().
func ValidateSameShape(a, b Matrix) error {
	if a.Rows() != b.Rows() {
		return validatorErrorf("ValidateSameShape: Rows", ErrDimensionMismatch)
	}
	if a.Cols() != b.Cols() {
		return validatorErrorf("ValidateSameShape: Columns", ErrDimensionMismatch)
	}

	return nil
}

// ValidateSquare checks Rows()==Cols().
func ValidateSquare(m Matrix) error {
	if m.Rows() != m.Cols() {
		return validatorErrorf("ValidateSquare", ErrNonSquare)
	}

	return nil
}

// ValidateSquareNonNil combines ValidateNotNil and ValidateSquare.
func ValidateSquareNonNil(m Matrix) error {
	if err := ValidateNotNil(m); err != nil {
		return validatorErrorf("ValidateSquareNonNil", err)
	}
	if err := ValidateSquare(m); err != nil {
		return validatorErrorf("ValidateSquareNonNil", err)
	}

	return nil
}

// ValidateBinarySameShape validates two non-nil operands of identical shape.
func ValidateBinarySameShape(a, b Matrix) error {
	if err := ValidateNotNil(a); err != nil {
		return validatorErrorf("ValidateBinarySameShape", err)
	}
	if err := ValidateNotNil(b); err != nil {
		return validatorErrorf("ValidateBinarySameShape", err)
	}
	if err := ValidateSameShape(a, b); err != nil {
		return validatorErrorf("ValidateBinarySameShape", err)
	}

	return nil
}

// ValidateMulCompatible validates non-nil operands with a.Cols()==b.Rows().
func ValidateMulCompatible(a, b Matrix) error {
	if err := ValidateNotNil(a); err != nil {
		return validatorErrorf("ValidateMulCompatible", err)
	}
	if err := ValidateNotNil(b); err != nil {
		return validatorErrorf("ValidateMulCompatible", err)
	}
	if a.Cols() != b.Rows() {
		return validatorErrorf("ValidateMulCompatible", ErrDimensionMismatch)
	}

	return nil
}

// ValidateVecLen rejects a nil vector or one whose length is not n.
func ValidateVecLen(x []float64, n int) error {
	if x == nil {
		return validatorErrorf("ValidateVecLen", ErrNilMatrix)
	}
	if len(x) != n {
		return validatorErrorf("ValidateVecLen", ErrDimensionMismatch)
	}

	return nil
}

// ValidateRowStochastic checks that m is a square, finite, non-negative
// matrix whose every row sums to 1 within tol.
//
// Implementation:
//   - Stage 1: non-nil + square; tol normalized to |tol| (NaN/Inf tol → ErrNaNInf).
//   - Stage 2: single i→j scan; the first offending row is reported with its
//     index and sum, wrapped around ErrNotStochastic (or ErrNaNInf).
//
// Complexity:
//   - Time O(n^2), Space O(1).
//
// AI-Hints:
//   - Use DefaultStochasticTolerance (1e-9) for matrices produced by counting.
func ValidateRowStochastic(m Matrix, tol float64) error {
	if err := ValidateSquareNonNil(m); err != nil {
		return validatorErrorf("ValidateRowStochastic", err)
	}
	if math.IsNaN(tol) || math.IsInf(tol, 0) {
		return validatorErrorf("ValidateRowStochastic", ErrNaNInf)
	}
	if tol < zeroTol {
		tol = -tol
	}

	n := m.Rows()
	var (
		i, j int
		v    float64
		sum  float64
		err  error
	)
	for i = 0; i < n; i++ {
		sum = ZeroSum
		for j = 0; j < n; j++ {
			if v, err = m.At(i, j); err != nil {
				return validatorErrorf("ValidateRowStochastic", err)
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return validatorErrorf("ValidateRowStochastic", denseErrorf(ctxAt, i, j, ErrNaNInf))
			}
			if v < zeroTol {
				return validatorErrorf("ValidateRowStochastic",
					fmt.Errorf("row %d col %d negative entry %g: %w", i, j, v, ErrNotStochastic))
			}
			sum += v
		}
		if math.Abs(sum-1.0) > tol {
			return validatorErrorf("ValidateRowStochastic",
				fmt.Errorf("row %d sums to %.12g: %w", i, sum, ErrNotStochastic))
		}
	}

	return nil
}

// SPDX-License-Identifier: MIT
// Package matrix - element-wise micro-kernels (ew*).
//
// Purpose:
//   - Centralise the flat loops that scale rows and compare matrices so the
//     public facades in api.go stay one-liners.

package matrix

import "math"

// ewScaleRows returns a copy of X with row i multiplied by scale[i].
// Errors: ErrDimensionMismatch when len(scale) != Rows. Complexity: O(r*c).
func ewScaleRows(X *Dense, scale []float64) (*Dense, error) {
	if err := ValidateVecLen(scale, X.r); err != nil {
		return nil, matrixErrorf("ScaleRows", err)
	}
	out := X.clone()
	var i, j, base int
	var s float64
	for i = 0; i < out.r; i++ {
		s = scale[i]
		base = i * out.c
		for j = 0; j < out.c; j++ {
			out.data[base+j] *= s
		}
	}

	return out, nil
}

// ewAllClose checks element-wise |a-b| ≤ atol + rtol*|b| for identical shapes.
// Returns (true,nil) if all elements satisfy the relation; (false,nil) otherwise.
// NaN never compares close.
//
// Policy:
//   - a and b must be non-nil and have identical shapes.
//   - rtol, atol are treated as |rtol|, |atol|; NaN/Inf tolerances → ErrNaNInf.
func ewAllClose(a, b Matrix, rtol, atol float64) (bool, error) {
	if math.IsNaN(rtol) || math.IsNaN(atol) || math.IsInf(rtol, 0) || math.IsInf(atol, 0) {
		return false, matrixErrorf("AllClose", ErrNaNInf)
	}
	rtol, atol = math.Abs(rtol), math.Abs(atol)

	if err := ValidateBinarySameShape(a, b); err != nil {
		return false, matrixErrorf("AllClose", err)
	}
	da, err := asDense(a)
	if err != nil {
		return false, matrixErrorf("AllClose", err)
	}
	db, err := asDense(b)
	if err != nil {
		return false, matrixErrorf("AllClose", err)
	}

	for idx := range da.data {
		// Negated comparison so NaN on either side fails the check.
		if !(math.Abs(da.data[idx]-db.data[idx]) <= atol+rtol*math.Abs(db.data[idx])) {
			return false, nil // early-exit on first violation
		}
	}

	return true, nil
}

// SPDX-License-Identifier: MIT
// Package matrix - row statistics for stochastic matrices.
//
// Purpose:
//   - Row sums (stochasticity checks, expected-time aggregation).
//   - L1 row normalization (count table → transition probabilities).

package matrix

const (
	opRowSums         = "RowSums"
	opNormalizeRowsL1 = "NormalizeRowsL1"
)

// rowSums returns r where r[i] = Σ_j m[i,j].
// Complexity: O(r*c).
func rowSums(m Matrix) ([]float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opRowSums, err)
	}
	d, err := asDense(m)
	if err != nil {
		return nil, matrixErrorf(opRowSums, err)
	}
	out := make([]float64, d.r)
	var i, j, base int
	for i = 0; i < d.r; i++ {
		base = i * d.c
		for j = 0; j < d.c; j++ {
			out[i] += d.data[base+j]
		}
	}

	return out, nil
}

// normalizeRowsL1 returns Y where each row i is scaled to L1-norm = 1 (if possible).
//
// Implementation:
//   - Stage 1: Validate X (non-nil).
//   - Stage 2: Compute per-row L1 norms Σ_j |x_ij|.
//   - Stage 3: Scale rows by 1/norm; degenerate rows (norm==0) stay zero.
//
// Returns:
//   - Y and the original per-row norms (callers use norms[i]==0 to detect
//     rows with no observations).
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
func normalizeRowsL1(X Matrix) (*Dense, []float64, error) {
	if err := ValidateNotNil(X); err != nil {
		return nil, nil, matrixErrorf(opNormalizeRowsL1, err)
	}
	d, err := asDense(X)
	if err != nil {
		return nil, nil, matrixErrorf(opNormalizeRowsL1, err)
	}

	r, c := d.r, d.c
	norms := make([]float64, r)
	var i, j, base int
	var v, s float64
	for i = 0; i < r; i++ {
		s = ZeroSum
		base = i * c
		for j = 0; j < c; j++ {
			v = d.data[base+j]
			if v < 0 {
				v = -v
			}
			s += v
		}
		norms[i] = s
	}

	scale := make([]float64, r)
	for i = 0; i < r; i++ {
		if norms[i] > 0 {
			scale[i] = 1.0 / norms[i]
		} else {
			scale[i] = 1.0 // preserves the (zero) row exactly
		}
	}

	Y, err := ewScaleRows(d, scale)
	if err != nil {
		return nil, nil, matrixErrorf(opNormalizeRowsL1, err)
	}

	return Y, norms, nil
}

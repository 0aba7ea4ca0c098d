// SPDX-License-Identifier: MIT
// Package matrix provides universal operations on any Matrix implementation:
// element-wise addition and subtraction, multiplication, integer powers,
// transpose, matrix-vector products and LU-based inversion. All functions
// perform strict fail-fast validation and return clear errors on dimension
// mismatches.
//
// Notes:
//   - Kernels normalise their operands to *Dense once (asDense) and then run a
//     single flat-slice loop; inputs are never mutated.
//   - All kernels use central validators and wrap via matrixErrorf.

package matrix

import (
	"fmt"
	"math"
)

// ZeroSum is the initial sum value for dot products and substitutions.
const ZeroSum = 0.0

// SingularTolerance is the relative pivot threshold used by LU and Inverse:
// a pivot with |u_ii| ≤ SingularTolerance·max|a_ij| is treated as zero.
const SingularTolerance = 1e-12

// Operation name constants for unified error wrapping and reducing magic strings.
const (
	opAdd       = "Add"
	opSub       = "Sub"
	opMul       = "Mul"
	opPow       = "Pow"
	opTranspose = "Transpose"
	opInverse   = "Inverse"
	opLU        = "LU"
	opMatVec    = "MatVec"
	opVecMul    = "VecMul"
)

// matrixErrorf wraps err with an operation tag, preserving the original error via %w.
// Use only when err != nil.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// addSub computes out = a + sign*b for sign ∈ {+1, -1} on a fresh *Dense.
func addSub(a, b Matrix, sign float64, opTag string) (*Dense, error) {
	if err := ValidateBinarySameShape(a, b); err != nil {
		return nil, matrixErrorf(opTag, err)
	}
	da, err := asDense(a)
	if err != nil {
		return nil, matrixErrorf(opTag, err)
	}
	db, err := asDense(b)
	if err != nil {
		return nil, matrixErrorf(opTag, err)
	}
	res, err := NewDense(da.r, da.c)
	if err != nil {
		return nil, matrixErrorf(opTag, err)
	}
	for idx := range res.data { // deterministic 0..n-1
		res.data[idx] = da.data[idx] + sign*db.data[idx]
	}

	return res, nil
}

// Add computes the element-wise sum C = A + B.
// Errors: ErrNilMatrix, ErrDimensionMismatch. Complexity: O(r*c).
func Add(a, b Matrix) (*Dense, error) { return addSub(a, b, +1, opAdd) }

// Sub computes the element-wise difference C = A - B.
// Errors: ErrNilMatrix, ErrDimensionMismatch. Complexity: O(r*c).
//
// AI-Hints: I − Q for the fundamental matrix is Sub(NewIdentity(t), Q).
func Sub(a, b Matrix) (*Dense, error) { return addSub(a, b, -1, opSub) }

// Mul performs standard matrix multiplication C = A × B (no aliasing).
//
// Implementation:
//   - Stage 1: Validate A,B (not nil) and inner dimensions (A.Cols == B.Rows).
//   - Stage 2: i→k→j with row-major strides; zero A[i,k] are skipped.
//
// Determinism:
//   - Fixed loop order; identical inputs give bit-identical outputs.
//
// Complexity:
//   - Time O(r*n*c), Space O(r*c).
func Mul(a, b Matrix) (*Dense, error) {
	if err := ValidateMulCompatible(a, b); err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	da, err := asDense(a)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	db, err := asDense(b)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}

	return mulDense(da, db), nil
}

// mulDense is the validated flat kernel shared by Mul and Pow.
func mulDense(da, db *Dense) *Dense {
	aRows, aCols, bCols := da.r, da.c, db.c
	res := &Dense{r: aRows, c: bCols, data: make([]float64, aRows*bCols), validateNaNInf: DefaultValidateNaNInf}

	var (
		i, k, j                            int
		rowOffsetA, rowOffsetB, rowOffsetR int
		av                                 float64
	)
	for i = 0; i < aRows; i++ {
		rowOffsetA = i * aCols
		rowOffsetR = i * bCols
		for k = 0; k < aCols; k++ {
			av = da.data[rowOffsetA+k]
			if av == 0 {
				continue // skip zero for performance
			}
			rowOffsetB = k * bCols
			for j = 0; j < bCols; j++ {
				res.data[rowOffsetR+j] += av * db.data[rowOffsetB+j]
			}
		}
	}

	return res
}

// Pow returns m^k for a square m and integer k ≥ 0.
//
// Implementation:
//   - Stage 1: Validate square non-nil input; k<0 → ErrNegativeExponent.
//   - Stage 2: k==0 → identity; k==1 → exact copy of m.
//   - Stage 3: binary exponentiation: walk the bits of k, squaring the base
//     and multiplying it into the accumulator when the bit is set.
//
// Behavior highlights:
//   - O(log k) multiplications instead of k; rounding drift stays bounded by
//     the number of products, not the horizon.
//
// Complexity:
//   - Time O(n^3 · log k), Space O(n^2).
func Pow(m Matrix, k int) (*Dense, error) {
	if err := ValidateSquareNonNil(m); err != nil {
		return nil, matrixErrorf(opPow, err)
	}
	if k < 0 {
		return nil, matrixErrorf(opPow, ErrNegativeExponent)
	}
	base, err := asDense(m)
	if err != nil {
		return nil, matrixErrorf(opPow, err)
	}
	switch k {
	case 0:
		return NewIdentity(base.r)
	case 1:
		return base.clone(), nil
	}

	var acc *Dense // nil until the first set bit is consumed
	cur := base
	for k > 0 {
		if k&1 == 1 {
			if acc == nil {
				acc = cur.clone()
			} else {
				acc = mulDense(acc, cur)
			}
		}
		k >>= 1
		if k > 0 {
			cur = mulDense(cur, cur)
		}
	}

	return acc, nil
}

// Transpose returns a new matrix with rows and columns swapped (mᵀ).
// Complexity: O(r*c).
func Transpose(m Matrix) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	dm, err := asDense(m)
	if err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	res, err := NewDense(dm.c, dm.r)
	if err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	var i, j int
	for i = 0; i < dm.r; i++ {
		for j = 0; j < dm.c; j++ {
			res.data[j*dm.r+i] = dm.data[i*dm.c+j]
		}
	}

	return res, nil
}

// MatVec computes the column product y = m·x.
// Errors: ErrNilMatrix (m or x nil), ErrDimensionMismatch (len(x) != Cols).
// Complexity: O(r*c).
func MatVec(m Matrix, x []float64) ([]float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	if err := ValidateVecLen(x, m.Cols()); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	d, err := asDense(m)
	if err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}

	y := make([]float64, d.r)
	var i, j, base int
	var acc float64
	for i = 0; i < d.r; i++ {
		acc = ZeroSum
		base = i * d.c
		for j = 0; j < d.c; j++ {
			acc += d.data[base+j] * x[j]
		}
		y[i] = acc
	}

	return y, nil
}

// VecMul computes the row product y = x·m, i.e. y_j = Σ_i x_i m_ij.
// This is how a distribution over states advances one step: π_{t+1} = π_t P.
//
// Errors: ErrNilMatrix (m or x nil), ErrDimensionMismatch (len(x) != Rows).
// Complexity: O(r*c).
func VecMul(x []float64, m Matrix) ([]float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opVecMul, err)
	}
	if err := ValidateVecLen(x, m.Rows()); err != nil {
		return nil, matrixErrorf(opVecMul, err)
	}
	d, err := asDense(m)
	if err != nil {
		return nil, matrixErrorf(opVecMul, err)
	}

	y := make([]float64, d.c)
	var i, j, base int
	var xv float64
	for i = 0; i < d.r; i++ {
		xv = x[i]
		if xv == 0 {
			continue
		}
		base = i * d.c
		for j = 0; j < d.c; j++ {
			y[j] += xv * d.data[base+j]
		}
	}

	return y, nil
}

// LU computes the Doolittle factorization A = L*U with unit diagonal on L (no pivoting).
//
// Implementation:
//   - Stage 1: Validate m (not nil, square); compute scale = max|a_ij|.
//   - Stage 2: For i=0..n-1, build row i of U and column i of L in fixed order.
//     A pivot with |U[i,i]| ≤ SingularTolerance·scale aborts with ErrSingular.
//
// Errors:
//   - ErrNilMatrix, ErrNonSquare, ErrSingular.
//
// Complexity:
//   - Time O(n^3), Space O(n^2).
//
// Notes:
//   - No pivoting keeps results bit-for-bit reproducible. I − Q for a
//     substochastic Q is a (possibly singular) M-matrix, for which Doolittle
//     without pivoting succeeds exactly when the matrix is nonsingular.
func LU(m Matrix) (*Dense, *Dense, error) {
	if err := ValidateSquareNonNil(m); err != nil {
		return nil, nil, matrixErrorf(opLU, err)
	}
	a, err := asDense(m)
	if err != nil {
		return nil, nil, matrixErrorf(opLU, err)
	}

	n := a.r
	L, _ := NewDense(n, n) // n ≥ 1 guaranteed by a's construction
	U, _ := NewDense(n, n)
	for i := 0; i < n; i++ {
		L.data[i*n+i] = 1.0
	}

	scale := ZeroSum
	for _, v := range a.data {
		if av := math.Abs(v); av > scale {
			scale = av
		}
	}
	threshold := SingularTolerance * scale

	var i, j, k, baseI, baseJ int
	var sum, pivot float64
	for i = 0; i < n; i++ {
		baseI = i * n
		// U[i][j] for j >= i
		for j = i; j < n; j++ {
			sum = ZeroSum
			for k = 0; k < i; k++ {
				sum += L.data[baseI+k] * U.data[k*n+j]
			}
			U.data[baseI+j] = a.data[baseI+j] - sum
		}

		pivot = U.data[baseI+i]
		if scale == 0 || math.Abs(pivot) <= threshold {
			return nil, nil, matrixErrorf(opLU, fmt.Errorf("pivot %d = %g: %w", i, pivot, ErrSingular))
		}

		// L[j][i] for j > i
		for j = i + 1; j < n; j++ {
			sum = ZeroSum
			baseJ = j * n
			for k = 0; k < i; k++ {
				sum += L.data[baseJ+k] * U.data[k*n+i]
			}
			L.data[baseJ+i] = (a.data[baseJ+i] - sum) / pivot
		}
	}

	return L, U, nil
}

// Inverse computes A^{-1} using Doolittle LU factorization without pivoting.
//
// Implementation:
//   - Stage 1: Factorize via LU(m) → L (unit lower), U (upper).
//   - Stage 2: For each canonical basis column e_col: forward solve L*y = e_col,
//     backward solve U*x = y, write x into column col.
//
// Errors:
//   - ErrNilMatrix, ErrNonSquare, ErrSingular (wrapped with opInverse).
//
// Complexity:
//   - Time O(n^3), Space O(n^2).
func Inverse(m Matrix) (*Dense, error) {
	L, U, err := LU(m)
	if err != nil {
		return nil, matrixErrorf(opInverse, err)
	}

	n := L.r
	inv, _ := NewDense(n, n)
	var (
		col, i, k      int
		baseLi, baseUi int
		sum            float64
		y              = make([]float64, n) // forward substitution workspace
		x              = make([]float64, n) // backward substitution workspace
	)
	for col = 0; col < n; col++ {
		// Forward substitution: L*y = e_col
		for i = 0; i < n; i++ {
			sum = ZeroSum
			baseLi = i * n
			for k = 0; k < i; k++ {
				sum += L.data[baseLi+k] * y[k]
			}
			if i == col {
				y[i] = 1.0 - sum
			} else {
				y[i] = -sum
			}
		}
		// Backward substitution: U*x = y (pivots already checked by LU)
		for i = n - 1; i >= 0; i-- {
			sum = ZeroSum
			baseUi = i * n
			for k = i + 1; k < n; k++ {
				sum += U.data[baseUi+k] * x[k]
			}
			x[i] = (y[i] - sum) / U.data[baseUi+i]
		}
		for i = 0; i < n; i++ {
			inv.data[i*n+col] = x[i]
		}
	}

	return inv, nil
}

// Package matrix provides the dense linear-algebra kernels behind the Markov
// chain analytics: row-major storage, products and powers, LU-based
// inversion, row-stochastic validation and a general (non-symmetric) left
// eigen-decomposition.
//
// What & Why:
//
//	Transition matrices are small (tens of states) and dense, so a flat
//	row-major []float64 with fixed loop orders gives cache-friendly,
//	bit-for-bit reproducible results. The package keeps the public surface
//	error-returning: At/Set and every kernel return sentinel errors from
//	errors.go instead of panicking.
//
// Kernels:
//
//   - Mul, Sub, Add, Transpose, MatVec, VecMul  - O(r·c) / O(r·n·c).
//   - Pow       - P^k by repeated squaring, O(log k) products.
//   - LU, Inverse - Doolittle without pivoting, tolerance-based singularity.
//   - LeftEigen - eigenvalues and left eigenvectors via gonum/mat.
//   - NormalizeRowsL1, RowSums, AllClose - stochastic-matrix helpers.
//
// Determinism:
//
//	All loops run in fixed i→k→j (or i→j) order; no maps are iterated.
//	The same inputs always produce the same floating-point outputs.
//
// See example_test.go for usage.
package matrix

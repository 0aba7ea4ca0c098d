// SPDX-License-Identifier: MIT
// Package matrix_test contains test helpers
//
// Purpose:
//   • Provide small, deterministic test fixtures and utilities for kernels.
//   • Keep all data finite and well-formed to avoid numeric-policy interference.

package matrix_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/katalvlaran/lvmarkov/matrix"
)

// Shared tolerances.
const (
	tolTight = 1e-12
	tolLoose = 1e-9
)

// hide WRAPS any Matrix to hide its concrete type from type assertions.
// Kernels then take the interface (asDense copy) path instead of the *Dense one.
type hide struct{ matrix.Matrix }

// MustDense ALLOCATES an r×c *Dense or fails the test (fatal on error).
func MustDense(t testing.TB, r, c int) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDense(r, c)
	if err != nil {
		t.Fatalf("NewDense(%d,%d): %v", r, c, err)
	}

	return m
}

// MustFrom BUILDS a *Dense from literal rows or fails the test.
func MustFrom(t testing.TB, rows [][]float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDenseFrom(rows)
	if err != nil {
		t.Fatalf("NewDenseFrom: %v", err)
	}

	return m
}

// MustAt READS m[i,j] or fails the test.
func MustAt(t testing.TB, m matrix.Matrix, i, j int) float64 {
	t.Helper()
	v, err := m.At(i, j)
	if err != nil {
		t.Fatalf("At(%d,%d): %v", i, j, err)
	}

	return v
}

// RandomStochastic FILLS an n×n row-stochastic matrix from a fixed seed.
// Every entry is strictly positive so the chain is irreducible and aperiodic.
func RandomStochastic(t testing.TB, n int, seed int64) *matrix.Dense {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	rows := make([][]float64, n)
	for i := 0; i < n; i++ {
		rows[i] = make([]float64, n)
		var s float64
		for j := 0; j < n; j++ {
			rows[i][j] = 0.05 + rng.Float64()
			s += rows[i][j]
		}
		for j := 0; j < n; j++ {
			rows[i][j] /= s
		}
	}

	return MustFrom(t, rows)
}

// RequireRowSums ASSERTS every row of m sums to want within tol.
func RequireRowSums(t testing.TB, m matrix.Matrix, want, tol float64) {
	t.Helper()
	sums, err := matrix.RowSums(m)
	if err != nil {
		t.Fatalf("RowSums: %v", err)
	}
	for i, s := range sums {
		if math.Abs(s-want) > tol {
			t.Fatalf("row %d sums to %.15g, want %.15g (tol %g)", i, s, want, tol)
		}
	}
}

// loanMatrix is the six-state delinquency chain used across packages.
var loanMatrix = [][]float64{
	{0.88, 0.08, 0.02, 0.01, 0.00, 0.01},
	{0.30, 0.50, 0.10, 0.05, 0.00, 0.05},
	{0.10, 0.40, 0.30, 0.10, 0.05, 0.05},
	{0.00, 0.00, 0.05, 0.70, 0.20, 0.05},
	{0.00, 0.00, 0.00, 0.00, 1.00, 0.00},
	{0.00, 0.00, 0.00, 0.00, 0.00, 1.00},
}

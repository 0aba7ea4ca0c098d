// SPDX-License-Identifier: MIT
package markov

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/katalvlaran/lvmarkov/matrix"
)

const opStationary = "Stationary"

// Stationary returns the stationary distribution π with π·P = π.
//
// Implementation:
//   - Stage 1: left eigen-decomposition of P (matrix.LeftEigen).
//   - Stage 2: candidates = eigenvalues whose distance to 1 is within
//     tieTolerance of the smallest distance.
//   - Stage 3: each candidate vector → real part, sign-oriented so its sum
//     is non-negative, negatives clamped to 0, renormalised to sum 1.
//   - Stage 4: among normalisable candidates keep the one whose first
//     positive entry has the lowest index; ties keep solver order.
//
// Diagnostics:
//   - Multiplicity counts eigenvalues within EigenTolerance of 1. For an
//     irreducible chain it is 1. Ambiguous is set, and a warning logged,
//     when the selected eigenvalue is farther than EigenTolerance from 1 or
//     Multiplicity ≠ 1.
//
// Errors:
//   - ErrStationaryUndefined when no candidate normalises.
//   - matrix.ErrEigenFailed when the decomposition does not converge.
//
// Complexity: Time O(n^3), Space O(n^2).
func (c *Chain) Stationary() (*Stationary, error) {
	values, vectors, err := matrix.LeftEigen(c.p)
	if err != nil {
		return nil, markovErrorf(opStationary, err)
	}

	gaps := make([]float64, len(values))
	best := math.Inf(1)
	multiplicity := 0
	for k, v := range values {
		gaps[k] = cmplx.Abs(v - 1)
		if gaps[k] < best {
			best = gaps[k]
		}
		if gaps[k] <= c.opts.EigenTolerance {
			multiplicity++
		}
	}

	selected, lead := -1, math.MaxInt
	var pi []float64
	for k := range values {
		if gaps[k]-best > tieTolerance {
			continue
		}
		cand, ok := normalizeStationary(vectors[k])
		if !ok {
			continue
		}
		if l := leadingSupport(cand); l < lead {
			selected, lead, pi = k, l, cand
		}
	}
	if selected < 0 {
		return nil, markovErrorf(opStationary,
			fmt.Errorf("eigenvalue gap %g: %w", best, ErrStationaryUndefined))
	}

	res := &Stationary{
		Pi:           pi,
		Eigenvalue:   values[selected],
		Gap:          gaps[selected],
		Multiplicity: multiplicity,
	}
	res.Ambiguous = res.Gap > c.opts.EigenTolerance || multiplicity != 1
	if res.Ambiguous {
		c.log.Warn("stationary distribution is not unique",
			"eigenvalue", res.Eigenvalue,
			"gap", res.Gap,
			"multiplicity", res.Multiplicity,
			"leading_state", c.states[lead])
	}

	return res, nil
}

// normalizeStationary turns an eigenvector into a probability vector.
// It reports false when the clamped vector has no usable mass.
func normalizeStationary(v []complex128) ([]float64, bool) {
	out := make([]float64, len(v))
	var sum float64
	for i, z := range v {
		out[i] = real(z)
		sum += out[i]
	}
	if sum < 0 {
		for i := range out {
			out[i] = -out[i]
		}
	}

	sum = 0
	for i, x := range out {
		if x <= 0 {
			out[i] = 0
			continue
		}
		sum += x
	}
	if !(sum > matrix.SingularTolerance) || math.IsInf(sum, 0) {
		return nil, false
	}
	for i := range out {
		out[i] /= sum
	}

	return out, true
}

// leadingSupport returns the index of the first positive entry.
func leadingSupport(pi []float64) int {
	for i, x := range pi {
		if x > 0 {
			return i
		}
	}

	return len(pi)
}

// SPDX-License-Identifier: MIT
package markov

import (
	"fmt"
	"math"

	"github.com/katalvlaran/lvmarkov/matrix"
)

const (
	opNStep          = "NStep"
	opDistribution   = "Distribution"
	opExpectedCounts = "ExpectedCounts"
)

// NStep returns the n-step transition matrix Pⁿ.
//
// Pⁿ is computed by repeated squaring (O(log n) products); NStep(0) is the
// identity and NStep(1) an exact copy of P. Rows of the result sum to 1 up
// to floating-point drift, which grows with the number of products only.
//
// Errors: ErrNegativeSteps.
// Complexity: Time O(n_states^3 · log n), Space O(n_states^2).
func (c *Chain) NStep(n int) (*matrix.Dense, error) {
	if n < 0 {
		return nil, markovErrorf(opNStep, fmt.Errorf("n=%d: %w", n, ErrNegativeSteps))
	}
	pn, err := matrix.Pow(c.p, n)
	if err != nil {
		return nil, markovErrorf(opNStep, err)
	}

	return pn, nil
}

// Distribution projects a probability row vector n steps ahead: initial · Pⁿ.
//
// Errors: ErrLengthMismatch, ErrNotDistribution (negative or non-finite
// entry, or sum off 1 by more than the chain tolerance), ErrNegativeSteps.
func (c *Chain) Distribution(initial []float64, n int) ([]float64, error) {
	if len(initial) != c.Size() {
		return nil, markovErrorf(opDistribution,
			fmt.Errorf("len %d, want %d: %w", len(initial), c.Size(), ErrLengthMismatch))
	}
	var sum float64
	for i, v := range initial {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, markovErrorf(opDistribution, fmt.Errorf("entry %d = %g: %w", i, v, ErrNotDistribution))
		}
		sum += v
	}
	if math.Abs(sum-1) > c.opts.Tolerance {
		return nil, markovErrorf(opDistribution, fmt.Errorf("sum %g: %w", sum, ErrNotDistribution))
	}

	return c.project(opDistribution, initial, n)
}

// ExpectedCounts returns the expected number of entities in each state after
// n steps for an integer starting portfolio: initial · Pⁿ. The total is
// conserved up to rounding.
//
// Errors: ErrLengthMismatch, ErrNegativeCount, ErrNegativeSteps.
func (c *Chain) ExpectedCounts(initial []int, n int) ([]float64, error) {
	if len(initial) != c.Size() {
		return nil, markovErrorf(opExpectedCounts,
			fmt.Errorf("len %d, want %d: %w", len(initial), c.Size(), ErrLengthMismatch))
	}
	x := make([]float64, len(initial))
	for i, v := range initial {
		if v < 0 {
			return nil, markovErrorf(opExpectedCounts, fmt.Errorf("state %d count %d: %w", i, v, ErrNegativeCount))
		}
		x[i] = float64(v)
	}

	return c.project(opExpectedCounts, x, n)
}

// project computes x · Pⁿ for a validated row vector x.
func (c *Chain) project(op string, x []float64, n int) ([]float64, error) {
	pn, err := c.NStep(n)
	if err != nil {
		return nil, markovErrorf(op, err)
	}
	y, err := matrix.VecMul(x, pn)
	if err != nil {
		return nil, markovErrorf(op, err)
	}

	return y, nil
}

// SPDX-License-Identifier: MIT
package markov

import (
	"errors"
	"fmt"
	"sort"

	"github.com/katalvlaran/lvmarkov/matrix"
)

const (
	opAbsorbProbabilities = "AbsorbProbabilities"
	opExpectedTime        = "ExpectedTimeToAbsorb"
	opVarianceTime        = "VarianceTimeToAbsorb"
)

// AbsorbProbabilities computes the fundamental matrix N = (I − Q)⁻¹ and the
// absorption probabilities B = N·R for the given absorbing set.
//
// Implementation:
//   - Stage 1: validate absorbing (non-empty strict subset, in range, no duplicates).
//   - Stage 2: Transient = ascending complement; Q = P[T,T], R = P[T,A].
//   - Stage 3: N = Inverse(I − Q); B = N·R.
//
// Behavior highlights:
//   - Absorbing indices are taken as given; P[k,k] is not required to be 1.
//   - When (I − Q) is singular the partial result (Transient, Absorbing only)
//     is returned together with an error matching both
//     ErrAbsorptionNotGuaranteed and matrix.ErrSingular. The transient states
//     that cannot reach the absorbing set are logged at warn level.
//
// Errors: ErrInvalidAbsorbing, ErrAbsorptionNotGuaranteed.
// Complexity: Time O(t^3 + t^2·a), Space O(t^2 + t·a).
func (c *Chain) AbsorbProbabilities(absorbing []int) (*Absorption, error) {
	return c.absorption(opAbsorbProbabilities, absorbing)
}

func (c *Chain) absorption(op string, absorbing []int) (*Absorption, error) {
	transient, err := c.partition(absorbing)
	if err != nil {
		return nil, markovErrorf(op, err)
	}
	res := &Absorption{
		Transient: transient,
		Absorbing: append([]int(nil), absorbing...),
	}

	Q, err := c.p.Induced(transient, transient)
	if err != nil {
		return nil, markovErrorf(op, err)
	}
	R, err := c.p.Induced(transient, res.Absorbing)
	if err != nil {
		return nil, markovErrorf(op, err)
	}
	I, err := matrix.IdentityLike(Q)
	if err != nil {
		return nil, markovErrorf(op, err)
	}
	IQ, err := matrix.Sub(I, Q)
	if err != nil {
		return nil, markovErrorf(op, err)
	}

	N, err := matrix.Inverse(IQ)
	if err != nil {
		if errors.Is(err, matrix.ErrSingular) {
			c.log.Warn("absorption not guaranteed",
				"absorbing", c.labels(res.Absorbing),
				"trapped", c.labels(c.trapped(transient, res.Absorbing)))

			return res, fmt.Errorf("%s: %w: %w", op, ErrAbsorptionNotGuaranteed, err)
		}

		return nil, markovErrorf(op, err)
	}
	B, err := matrix.Mul(N, R)
	if err != nil {
		return nil, markovErrorf(op, err)
	}
	res.N, res.B = N, B

	return res, nil
}

// partition validates absorbing and returns the ascending transient complement.
func (c *Chain) partition(absorbing []int) ([]int, error) {
	n := c.Size()
	if len(absorbing) == 0 {
		return nil, fmt.Errorf("empty set: %w", ErrInvalidAbsorbing)
	}
	if len(absorbing) >= n {
		return nil, fmt.Errorf("%d of %d states leaves no transient state: %w", len(absorbing), n, ErrInvalidAbsorbing)
	}
	isAbs := make([]bool, n)
	for _, k := range absorbing {
		if k < 0 || k >= n {
			return nil, fmt.Errorf("index %d out of [0,%d): %w", k, n, ErrInvalidAbsorbing)
		}
		if isAbs[k] {
			return nil, fmt.Errorf("index %d repeated: %w", k, ErrInvalidAbsorbing)
		}
		isAbs[k] = true
	}
	transient := make([]int, 0, n-len(absorbing))
	for i := 0; i < n; i++ {
		if !isAbs[i] {
			transient = append(transient, i)
		}
	}

	return transient, nil
}

// trapped returns the transient states with no path to any absorbing state.
func (c *Chain) trapped(transient, absorbing []int) []int {
	n := c.Size()
	reach := make([]bool, n)
	queue := append([]int(nil), absorbing...)
	for _, k := range absorbing {
		reach[k] = true
	}
	// Reverse BFS over the support graph.
	for len(queue) > 0 {
		j := queue[0]
		queue = queue[1:]
		for i := 0; i < n; i++ {
			if reach[i] {
				continue
			}
			if v, _ := c.p.At(i, j); v > 0 {
				reach[i] = true
				queue = append(queue, i)
			}
		}
	}
	var out []int
	for _, i := range transient {
		if !reach[i] {
			out = append(out, i)
		}
	}

	return out
}

func (c *Chain) labels(idx []int) []string {
	out := make([]string, len(idx))
	for k, i := range idx {
		out[k] = c.states[i]
	}

	return out
}

// ExpectedTimeToAbsorb returns, for every state, the expected number of
// steps before entering the absorbing set: row sums of N for transient
// states and exactly 0 for absorbing ones.
//
// Errors: as AbsorbProbabilities. On singularity no vector is returned.
func (c *Chain) ExpectedTimeToAbsorb(absorbing []int) ([]float64, error) {
	a, err := c.absorption(opExpectedTime, absorbing)
	if err != nil {
		return nil, err
	}
	t, err := matrix.RowSums(a.N)
	if err != nil {
		return nil, markovErrorf(opExpectedTime, err)
	}

	return c.scatter(a.Transient, t), nil
}

// VarianceTimeToAbsorb returns the variance of the number of steps before
// absorption: (2N − I)t − t∘t on transient states, 0 on absorbing states.
//
// Errors: as AbsorbProbabilities.
func (c *Chain) VarianceTimeToAbsorb(absorbing []int) ([]float64, error) {
	a, err := c.absorption(opVarianceTime, absorbing)
	if err != nil {
		return nil, err
	}
	t, err := matrix.RowSums(a.N)
	if err != nil {
		return nil, markovErrorf(opVarianceTime, err)
	}
	Nt, err := matrix.MatVec(a.N, t)
	if err != nil {
		return nil, markovErrorf(opVarianceTime, err)
	}
	v := make([]float64, len(t))
	for i := range t {
		v[i] = 2*Nt[i] - t[i] - t[i]*t[i]
	}

	return c.scatter(a.Transient, v), nil
}

// scatter writes vals[k] to out[idx[k]] on an n-length zero vector.
func (c *Chain) scatter(idx []int, vals []float64) []float64 {
	out := make([]float64, c.Size())
	for k, i := range idx {
		out[i] = vals[k]
	}

	return out
}

// AbsorbingStates returns, ascending, the states with P[k,k] ≥ 1 − Tolerance.
func (c *Chain) AbsorbingStates() []int {
	var out []int
	for k := 0; k < c.Size(); k++ {
		if v, _ := c.p.At(k, k); v >= 1-c.opts.Tolerance {
			out = append(out, k)
		}
	}

	return out
}

// ProbabilitiesFrom returns the absorption distribution over a.Absorbing for
// a starting state: the B row for a transient state, a unit vector for an
// absorbing one.
func (a *Absorption) ProbabilitiesFrom(state int) ([]float64, error) {
	if a.B == nil {
		return nil, ErrAbsorptionNotGuaranteed
	}
	for col, k := range a.Absorbing {
		if k == state {
			out := make([]float64, len(a.Absorbing))
			out[col] = 1

			return out, nil
		}
	}
	row := sort.SearchInts(a.Transient, state)
	if row == len(a.Transient) || a.Transient[row] != state {
		return nil, fmt.Errorf("ProbabilitiesFrom %d: %w", state, ErrUnknownState)
	}

	return a.B.Row(row)
}

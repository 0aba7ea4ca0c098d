// SPDX-License-Identifier: MIT
package markov

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/katalvlaran/lvmarkov/matrix"
)

const opNewChain = "NewChain"

// Chain is an immutable, validated discrete-time Markov chain.
type Chain struct {
	p      *matrix.Dense
	states []string
	index  map[string]int
	opts   Options
	log    *slog.Logger
}

// NewChain validates p against states and returns a Chain holding a deep copy of p.
//
// Implementation:
//   - Stage 1: apply options over DefaultOptions.
//   - Stage 2: p non-nil and square; len(states) == n; labels non-empty and distinct.
//   - Stage 3: every row non-negative and summing to 1 within Options.Tolerance.
//
// Errors:
//   - ErrNilMatrix, ErrNotSquare, ErrStateCount, ErrEmptyState,
//     ErrDuplicateState, matrix.ErrNotStochastic, matrix.ErrNaNInf.
//
// Complexity:
//   - Time O(n^2), Space O(n^2).
func NewChain(p matrix.Matrix, states []string, opts ...Option) (*Chain, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if err := matrix.ValidateNotNil(p); err != nil {
		return nil, markovErrorf(opNewChain, ErrNilMatrix)
	}
	if p.Rows() != p.Cols() {
		return nil, markovErrorf(opNewChain,
			fmt.Errorf("%dx%d: %w", p.Rows(), p.Cols(), ErrNotSquare))
	}
	n := p.Rows()
	if len(states) != n {
		return nil, markovErrorf(opNewChain,
			fmt.Errorf("%d labels for %d states: %w", len(states), n, ErrStateCount))
	}

	index := make(map[string]int, n)
	for i, s := range states {
		if s == "" {
			return nil, markovErrorf(opNewChain, fmt.Errorf("index %d: %w", i, ErrEmptyState))
		}
		if j, dup := index[s]; dup {
			return nil, markovErrorf(opNewChain,
				fmt.Errorf("%q at %d and %d: %w", s, j, i, ErrDuplicateState))
		}
		index[s] = i
	}

	if err := matrix.ValidateRowStochastic(p, o.Tolerance); err != nil {
		return nil, markovErrorf(opNewChain, err)
	}

	cp, err := matrix.NewDenseFrom(toRows(p))
	if err != nil {
		return nil, markovErrorf(opNewChain, err)
	}

	return &Chain{
		p:      cp,
		states: append([]string(nil), states...),
		index:  index,
		opts:   o,
		log:    o.Logger,
	}, nil
}

// toRows copies any Matrix into [][]float64; callers have validated bounds.
func toRows(m matrix.Matrix) [][]float64 {
	if d, ok := m.(*matrix.Dense); ok {
		return d.ToRows()
	}
	rows := make([][]float64, m.Rows())
	for i := range rows {
		rows[i] = make([]float64, m.Cols())
		for j := range rows[i] {
			rows[i][j], _ = m.At(i, j)
		}
	}

	return rows
}

// Size returns the number of states.
func (c *Chain) Size() int { return len(c.states) }

// States returns a copy of the ordered state labels.
func (c *Chain) States() []string { return append([]string(nil), c.states...) }

// Index returns the position of label in the state space.
func (c *Chain) Index(label string) (int, error) {
	i, ok := c.index[label]
	if !ok {
		return -1, fmt.Errorf("Index %q: %w", label, ErrUnknownState)
	}

	return i, nil
}

// Indices resolves several labels at once, preserving order.
func (c *Chain) Indices(labels []string) ([]int, error) {
	out := make([]int, len(labels))
	for k, l := range labels {
		i, err := c.Index(l)
		if err != nil {
			return nil, err
		}
		out[k] = i
	}

	return out, nil
}

// Matrix returns a copy of the transition matrix.
func (c *Chain) Matrix() *matrix.Dense {
	m, _ := c.p.Clone().(*matrix.Dense)

	return m
}

// Prob returns P[from,to] for labelled states.
func (c *Chain) Prob(from, to string) (float64, error) {
	i, err := c.Index(from)
	if err != nil {
		return 0, err
	}
	j, err := c.Index(to)
	if err != nil {
		return 0, err
	}

	return c.p.At(i, j)
}

// IsMalformedInput reports whether err signals invalid caller input, as
// opposed to a numerical property of a well-formed chain.
func IsMalformedInput(err error) bool {
	if err == nil {
		return false
	}
	for _, target := range []error{
		ErrNilMatrix, ErrNotSquare, ErrStateCount, ErrDuplicateState, ErrEmptyState,
		ErrNegativeSteps, ErrLengthMismatch, ErrNotDistribution, ErrNegativeCount,
		ErrInvalidAbsorbing, matrix.ErrNotStochastic, matrix.ErrNaNInf,
	} {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}

// SPDX-License-Identifier: MIT
package markov

import (
	"errors"
	"fmt"
)

var (
	// ErrNilMatrix indicates a nil transition matrix.
	ErrNilMatrix = errors.New("markov: nil transition matrix")

	// ErrNotSquare indicates a transition matrix that is not n×n.
	ErrNotSquare = errors.New("markov: transition matrix is not square")

	// ErrStateCount indicates that the label count differs from the matrix order.
	ErrStateCount = errors.New("markov: state label count does not match matrix size")

	// ErrDuplicateState indicates a label that appears more than once.
	ErrDuplicateState = errors.New("markov: duplicate state label")

	// ErrEmptyState indicates an empty state label.
	ErrEmptyState = errors.New("markov: empty state label")

	// ErrUnknownState is returned by Index for a label outside the state space.
	ErrUnknownState = errors.New("markov: unknown state label")

	// ErrNegativeSteps indicates a negative horizon.
	ErrNegativeSteps = errors.New("markov: number of steps must be non-negative")

	// ErrLengthMismatch indicates a vector whose length differs from the state count.
	ErrLengthMismatch = errors.New("markov: vector length does not match state count")

	// ErrNotDistribution indicates an initial vector that is not a probability vector.
	ErrNotDistribution = errors.New("markov: initial vector is not a probability distribution")

	// ErrNegativeCount indicates a negative entry in an initial count vector.
	ErrNegativeCount = errors.New("markov: negative initial count")

	// ErrInvalidAbsorbing indicates an absorbing set that is empty, covers every
	// state, repeats an index or references an index out of range.
	ErrInvalidAbsorbing = errors.New("markov: invalid absorbing state set")

	// ErrAbsorptionNotGuaranteed indicates that (I − Q) is singular: some
	// transient state can never reach the absorbing set.
	ErrAbsorptionNotGuaranteed = errors.New("markov: absorption not guaranteed from every transient state")

	// ErrStationaryUndefined indicates that no eigenvector near eigenvalue 1
	// could be normalised into a probability vector.
	ErrStationaryUndefined = errors.New("markov: stationary distribution undefined")
)

// markovErrorf wraps err with an operation tag, preserving it for errors.Is.
func markovErrorf(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}

// SPDX-License-Identifier: MIT
package simulate

import (
	"errors"
	"fmt"
)

var (
	// ErrLengthMismatch indicates an initial vector whose length differs from the state count.
	ErrLengthMismatch = errors.New("simulate: initial count length does not match state count")

	// ErrNegativeCount indicates a negative initial count.
	ErrNegativeCount = errors.New("simulate: negative initial count")

	// ErrNegativeSteps indicates a negative number of steps.
	ErrNegativeSteps = errors.New("simulate: number of steps must be non-negative")

	// ErrNilSource indicates a nil random source.
	ErrNilSource = errors.New("simulate: nil random source")

	// ErrUnknownStrategy is returned by StrategyByName for an unregistered name.
	ErrUnknownStrategy = errors.New("simulate: unknown strategy")

	// ErrInvalidRuns indicates an ensemble with fewer than one run.
	ErrInvalidRuns = errors.New("simulate: ensemble needs at least one run")

	// ErrInvalidQuantile indicates quantile bounds outside 0 ≤ lower ≤ upper ≤ 1.
	ErrInvalidQuantile = errors.New("simulate: invalid quantile bounds")
)

func simErrorf(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}

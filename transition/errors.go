// SPDX-License-Identifier: MIT
package transition

import "errors"

var (
	// ErrInvalidObservation indicates a record with an empty entity id or state.
	ErrInvalidObservation = errors.New("transition: invalid observation")

	// ErrDuplicateState indicates a repeated label in a requested state order.
	ErrDuplicateState = errors.New("transition: duplicate state label")

	// ErrNoStates indicates an empty state space.
	ErrNoStates = errors.New("transition: no states")

	// ErrBadHeader indicates a CSV header without the required columns.
	ErrBadHeader = errors.New("transition: missing required CSV column")

	// ErrBadTime indicates an unparsable timestamp.
	ErrBadTime = errors.New("transition: unparsable date")
)

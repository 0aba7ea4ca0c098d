// SPDX-License-Identifier: MIT
package markov

import (
	"log/slog"

	"github.com/katalvlaran/lvmarkov/logging"
	"github.com/katalvlaran/lvmarkov/matrix"
)

// Default tolerances.
const (
	// DefaultTolerance bounds |Σ_j P[i,j] − 1| for every row.
	DefaultTolerance = matrix.DefaultStochasticTolerance

	// DefaultEigenTolerance is the distance from 1 within which an eigenvalue
	// counts as a unit eigenvalue for Stationary diagnostics.
	DefaultEigenTolerance = 1e-8

	// tieTolerance groups eigenvalues that are equally close to 1.
	tieTolerance = 1e-12
)

// Options configures a Chain.
//
// Tolerance      – row-sum tolerance for validation and absorbing detection (> 0).
// EigenTolerance – unit-eigenvalue window for Stationary diagnostics (> 0).
// Logger         – receives warnings (ambiguous stationary, singular I − Q).
type Options struct {
	Tolerance      float64
	EigenTolerance float64
	Logger         *slog.Logger
}

// Option represents a functional option for configuring a Chain.
type Option func(*Options)

// DefaultOptions returns Options with DefaultTolerance, DefaultEigenTolerance
// and a discarding logger.
func DefaultOptions() Options {
	return Options{
		Tolerance:      DefaultTolerance,
		EigenTolerance: DefaultEigenTolerance,
		Logger:         logging.Discard(),
	}
}

// WithTolerance sets the row-sum tolerance. Panics on a non-positive value.
func WithTolerance(tol float64) Option {
	if !(tol > 0) {
		panic("markov: WithTolerance requires tol > 0")
	}
	return func(o *Options) {
		o.Tolerance = tol
	}
}

// WithEigenTolerance sets the unit-eigenvalue window. Panics on a non-positive value.
func WithEigenTolerance(tol float64) Option {
	if !(tol > 0) {
		panic("markov: WithEigenTolerance requires tol > 0")
	}
	return func(o *Options) {
		o.EigenTolerance = tol
	}
}

// WithLogger routes chain diagnostics to l. A nil logger discards.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logging.OrDiscard(l)
	}
}

// Stationary is the result of Chain.Stationary.
//
// Pi           – probability vector over states (non-negative, sums to 1).
// Eigenvalue   – the eigenvalue the vector belongs to.
// Gap          – |Eigenvalue − 1|.
// Multiplicity – number of eigenvalues within EigenTolerance of 1.
// Ambiguous    – Gap > EigenTolerance or Multiplicity ≠ 1: Pi is a
//
//	best-effort answer and not the unique stationary distribution.
type Stationary struct {
	Pi           []float64
	Eigenvalue   complex128
	Gap          float64
	Multiplicity int
	Ambiguous    bool
}

// Absorption holds the fundamental-matrix analysis for one absorbing set.
//
// Transient lists transient state indices in ascending order; Absorbing keeps
// the caller's order. N is t×t, B is t×a with rows aligned to Transient and
// columns aligned to Absorbing. N and B are nil when (I − Q) is singular.
type Absorption struct {
	Transient []int
	Absorbing []int
	N         *matrix.Dense
	B         *matrix.Dense
}

// StateKind classifies a single state.
type StateKind int

const (
	// Transient states are left with positive probability, never to return.
	Transient StateKind = iota
	// Recurrent states belong to a closed class with more than one way to move.
	Recurrent
	// Absorbing states have P[k,k] = 1.
	Absorbing
)

// String returns the lower-case kind name.
func (k StateKind) String() string {
	switch k {
	case Transient:
		return "transient"
	case Recurrent:
		return "recurrent"
	case Absorbing:
		return "absorbing"
	default:
		return "unknown"
	}
}

// Class is one communicating class of the chain.
// States are ascending; Closed means no probability mass leaves the class.
type Class struct {
	States []int
	Closed bool
}

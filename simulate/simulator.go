// SPDX-License-Identifier: MIT
package simulate

import (
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/katalvlaran/lvmarkov/logging"
	"github.com/katalvlaran/lvmarkov/matrix"
)

const (
	opNew = "New"
	opRun = "Run"
)

// Options configures a Simulator.
//
// Strategy  – sampling strategy; default Multinomial.
// Tolerance – row-sum tolerance for the transition matrix (> 0).
// Logger    – receives a debug record per run.
type Options struct {
	Strategy  Strategy
	Tolerance float64
	Logger    *slog.Logger
}

// Option represents a functional option for configuring a Simulator.
type Option func(*Options)

// DefaultOptions returns Multinomial sampling, matrix.DefaultStochasticTolerance
// and a discarding logger.
func DefaultOptions() Options {
	return Options{
		Strategy:  Multinomial{},
		Tolerance: matrix.DefaultStochasticTolerance,
		Logger:    logging.Discard(),
	}
}

// WithStrategy selects the sampling strategy. Panics on nil.
func WithStrategy(s Strategy) Option {
	if s == nil {
		panic("simulate: WithStrategy(nil)")
	}
	return func(o *Options) {
		o.Strategy = s
	}
}

// WithTolerance sets the row-sum tolerance. Panics on a non-positive value.
func WithTolerance(tol float64) Option {
	if !(tol > 0) {
		panic("simulate: WithTolerance requires tol > 0")
	}
	return func(o *Options) {
		o.Tolerance = tol
	}
}

// WithLogger routes run diagnostics to l. A nil logger discards.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logging.OrDiscard(l)
	}
}

// Simulator advances integer populations through a fixed transition matrix.
type Simulator struct {
	rows     [][]float64
	strategy Strategy
	log      *slog.Logger
}

// New validates p and returns a Simulator holding a copy of its rows.
//
// Malformed matrices fail fast and are never renormalised: a non-square,
// negative or non-stochastic p (outside Options.Tolerance) is rejected with
// the matrix package sentinels (ErrNilMatrix, ErrNonSquare, ErrNotStochastic,
// ErrNaNInf).
func New(p matrix.Matrix, opts ...Option) (*Simulator, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := matrix.ValidateRowStochastic(p, o.Tolerance); err != nil {
		return nil, simErrorf(opNew, err)
	}

	n := p.Rows()
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = make([]float64, n)
		for j := range rows[i] {
			rows[i][j], _ = p.At(i, j) // bounds validated above
		}
	}

	return &Simulator{rows: rows, strategy: o.Strategy, log: o.Logger}, nil
}

// Size returns the number of states.
func (s *Simulator) Size() int { return len(s.rows) }

// Strategy returns the configured sampling strategy.
func (s *Simulator) Strategy() Strategy { return s.strategy }

// Run simulates steps transitions starting from initial and returns the
// steps+1 count vectors (history[0] is a copy of initial).
//
// Behavior highlights:
//   - Σ history[t] == Σ initial for every t.
//   - States with a zero count are skipped without consuming randomness.
//   - An absorbing state (P[k,k] = 1) keeps every entity it holds.
//
// Errors: ErrLengthMismatch, ErrNegativeCount, ErrNegativeSteps, ErrNilSource.
// Complexity: O(steps · states · cost(Strategy.Route)).
func (s *Simulator) Run(initial []int, steps int, rng *rand.Rand) (History, error) {
	if err := s.validate(initial, steps); err != nil {
		return nil, simErrorf(opRun, err)
	}
	if rng == nil {
		return nil, simErrorf(opRun, ErrNilSource)
	}

	n := s.Size()
	h := make(History, steps+1)
	h[0] = append([]int(nil), initial...)
	var i int
	for t := 1; t <= steps; t++ {
		cur, next := h[t-1], make([]int, n)
		for i = 0; i < n; i++ {
			if cur[i] == 0 {
				continue
			}
			s.strategy.Route(cur[i], s.rows[i], rng, next)
		}
		h[t] = next
	}

	s.log.Debug("simulation finished",
		"strategy", s.strategy.Name(),
		"steps", steps,
		"population", h.total(0),
		"final", h[steps])

	return h, nil
}

// validate checks initial and steps against the simulator shape.
func (s *Simulator) validate(initial []int, steps int) error {
	if len(initial) != s.Size() {
		return fmt.Errorf("len %d, want %d: %w", len(initial), s.Size(), ErrLengthMismatch)
	}
	for i, c := range initial {
		if c < 0 {
			return fmt.Errorf("state %d count %d: %w", i, c, ErrNegativeCount)
		}
	}
	if steps < 0 {
		return fmt.Errorf("steps=%d: %w", steps, ErrNegativeSteps)
	}

	return nil
}

// Simulate is the one-shot form of New(p, opts...).Run(initial, steps, rng).
func Simulate(initial []int, p matrix.Matrix, steps int, rng *rand.Rand, opts ...Option) (History, error) {
	sim, err := New(p, opts...)
	if err != nil {
		return nil, err
	}

	return sim.Run(initial, steps, rng)
}

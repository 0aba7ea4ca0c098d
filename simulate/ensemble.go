// SPDX-License-Identifier: MIT
package simulate

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
)

const opEnsemble = "RunEnsemble"

// Default ensemble quantile band.
const (
	DefaultLowerQuantile = 0.05
	DefaultUpperQuantile = 0.95
)

// EnsembleOptions configures RunEnsemble.
//
// Runs    – number of independent simulations (≥ 1).
// Workers – concurrent runs; ≤ 0 means runtime.GOMAXPROCS(0).
// Seed    – parent seed; run r uses NewSource(DeriveSeed(Seed, r)).
// Lower, Upper – quantile band, 0 ≤ Lower ≤ Upper ≤ 1. Both zero selects
// DefaultLowerQuantile and DefaultUpperQuantile.
type EnsembleOptions struct {
	Runs    int
	Workers int
	Seed    uint64
	Lower   float64
	Upper   float64
}

// Ensemble summarises many runs of the same simulation.
// Mean, Lower and Upper are indexed [step][state]; Finals is [run][state].
type Ensemble struct {
	Runs   int
	Seed   uint64
	LowerQ float64
	UpperQ float64
	Mean   [][]float64
	Lower  [][]float64
	Upper  [][]float64
	Finals [][]int
}

// RunEnsemble runs sim opts.Runs times from initial and aggregates the
// histories into per-step, per-state means and quantile bands.
//
// Implementation:
//   - Stage 1: validate inputs once, before any goroutine starts.
//   - Stage 2: errgroup fan-out limited to Workers; run r owns a source
//     derived from (Seed, r) and stores its history at index r.
//   - Stage 3: per (step, state) mean and empirical quantiles over runs.
//
// Behavior highlights:
//   - Output depends only on (sim, initial, steps, Runs, Seed, band), never
//     on Workers or scheduling.
//   - Cancelling ctx stops scheduling new runs; the context error is returned.
//
// Errors: ErrInvalidRuns, ErrInvalidQuantile, Run's input errors, ctx.Err().
// Complexity: O(Runs · cost(Run) + steps · states · Runs log Runs).
func RunEnsemble(ctx context.Context, sim *Simulator, initial []int, steps int, opts EnsembleOptions) (*Ensemble, error) {
	if opts.Runs < 1 {
		return nil, simErrorf(opEnsemble, fmt.Errorf("runs=%d: %w", opts.Runs, ErrInvalidRuns))
	}
	lo, hi := opts.Lower, opts.Upper
	if lo == 0 && hi == 0 {
		lo, hi = DefaultLowerQuantile, DefaultUpperQuantile
	}
	if !(lo >= 0 && lo <= hi && hi <= 1) {
		return nil, simErrorf(opEnsemble, fmt.Errorf("[%g, %g]: %w", lo, hi, ErrInvalidQuantile))
	}
	if err := sim.validate(initial, steps); err != nil {
		return nil, simErrorf(opEnsemble, err)
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	histories := make([]History, opts.Runs)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for r := 0; r < opts.Runs; r++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			h, err := sim.Run(initial, steps, NewSource(DeriveSeed(opts.Seed, uint64(r))))
			if err != nil {
				return err
			}
			histories[r] = h

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, simErrorf(opEnsemble, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, simErrorf(opEnsemble, err)
	}

	e := summarize(histories, lo, hi)
	e.Seed = opts.Seed
	sim.log.Debug("ensemble finished", "runs", opts.Runs, "workers", workers, "steps", steps)

	return e, nil
}

// summarize computes per-step, per-state statistics across histories.
func summarize(histories []History, lo, hi float64) *Ensemble {
	runs := len(histories)
	steps := len(histories[0])
	n := len(histories[0][0])

	e := &Ensemble{
		Runs:   runs,
		LowerQ: lo,
		UpperQ: hi,
		Mean:   make([][]float64, steps),
		Lower:  make([][]float64, steps),
		Upper:  make([][]float64, steps),
		Finals: make([][]int, runs),
	}
	xs := make([]float64, runs)
	for t := 0; t < steps; t++ {
		e.Mean[t] = make([]float64, n)
		e.Lower[t] = make([]float64, n)
		e.Upper[t] = make([]float64, n)
		for i := 0; i < n; i++ {
			for r, h := range histories {
				xs[r] = float64(h[t][i])
			}
			e.Mean[t][i] = stat.Mean(xs, nil)
			sort.Float64s(xs)
			e.Lower[t][i] = stat.Quantile(lo, stat.Empirical, xs, nil)
			e.Upper[t][i] = stat.Quantile(hi, stat.Empirical, xs, nil)
		}
	}
	for r, h := range histories {
		e.Finals[r] = h.Final()
	}

	return e
}

// FinalMean returns the mean count per state at the last step.
func (e *Ensemble) FinalMean() []float64 {
	return append([]float64(nil), e.Mean[len(e.Mean)-1]...)
}

// SPDX-License-Identifier: MIT
package transition

import (
	"cmp"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/katalvlaran/lvmarkov/matrix"
)

// Observation is the state of one entity at one point in time.
type Observation struct {
	EntityID string
	Time     time.Time
	State    string
}

// pair is a from→to label pair.
type pair struct{ from, to string }

// Counts is a from→to transition count table.
type Counts struct {
	table  map[pair]int
	labels map[string]struct{}
	total  int
}

// CountTransitions tabulates consecutive-state pairs per entity.
//
// Implementation:
//   - Stage 1: validate every record (non-empty EntityID and State).
//   - Stage 2: stable sort by (EntityID, Time); equal timestamps keep input order.
//   - Stage 3: for each adjacent pair of the same entity, count State → next State.
//
// Every label seen, including those of single-record entities, joins the
// state space returned by States.
//
// Errors: ErrInvalidObservation.
// Complexity: O(m log m) for m observations.
func CountTransitions(obs []Observation) (*Counts, error) {
	for i, o := range obs {
		if o.EntityID == "" || o.State == "" {
			return nil, fmt.Errorf("CountTransitions: record %d: %w", i, ErrInvalidObservation)
		}
	}
	sorted := slices.Clone(obs)
	slices.SortStableFunc(sorted, func(a, b Observation) int {
		if c := cmp.Compare(a.EntityID, b.EntityID); c != 0 {
			return c
		}

		return a.Time.Compare(b.Time)
	})

	c := &Counts{table: make(map[pair]int), labels: make(map[string]struct{})}
	for i, o := range sorted {
		c.labels[o.State] = struct{}{}
		if i == 0 || sorted[i-1].EntityID != o.EntityID {
			continue
		}
		c.table[pair{sorted[i-1].State, o.State}]++
		c.total++
	}

	return c, nil
}

// States returns every observed label, sorted.
func (c *Counts) States() []string {
	out := make([]string, 0, len(c.labels))
	for l := range c.labels {
		out = append(out, l)
	}
	sort.Strings(out)

	return out
}

// Count returns the number of observed from → to transitions.
func (c *Counts) Count(from, to string) int { return c.table[pair{from, to}] }

// Total returns the number of observed transitions.
func (c *Counts) Total() int { return c.total }

// Outgoing returns the number of observed transitions leaving from.
func (c *Counts) Outgoing(from string) int {
	var n int
	for p, k := range c.table {
		if p.from == from {
			n += k
		}
	}

	return n
}

// Matrix returns the row-stochastic transition matrix over states (nil means
// States()) and the state order used.
//
// Labels in states that were never observed get an all-zero count row and
// column. Rows without outgoing observations become self-loops.
//
// Errors: ErrNoStates, ErrDuplicateState.
// Complexity: O(n^2 + |table|).
func (c *Counts) Matrix(states []string) (*matrix.Dense, []string, error) {
	if states == nil {
		states = c.States()
	}
	if len(states) == 0 {
		return nil, nil, fmt.Errorf("Matrix: %w", ErrNoStates)
	}
	index := make(map[string]int, len(states))
	for i, s := range states {
		if _, dup := index[s]; dup {
			return nil, nil, fmt.Errorf("Matrix: %q: %w", s, ErrDuplicateState)
		}
		index[s] = i
	}

	n := len(states)
	counts, err := matrix.NewZeros(n, n)
	if err != nil {
		return nil, nil, fmt.Errorf("Matrix: %w", err)
	}
	for p, k := range c.table {
		i, okFrom := index[p.from]
		j, okTo := index[p.to]
		if !okFrom || !okTo {
			continue // outside the requested state space
		}
		if err = counts.Set(i, j, float64(k)); err != nil {
			return nil, nil, fmt.Errorf("Matrix: %w", err)
		}
	}

	P, norms, err := matrix.NormalizeRowsL1(counts)
	if err != nil {
		return nil, nil, fmt.Errorf("Matrix: %w", err)
	}
	for i, norm := range norms {
		if norm == 0 {
			if err = P.Set(i, i, 1); err != nil {
				return nil, nil, fmt.Errorf("Matrix: %w", err)
			}
		}
	}

	return P, slices.Clone(states), nil
}

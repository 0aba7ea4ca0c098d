// SPDX-License-Identifier: MIT
package simulate

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat/distuv"
)

// Strategy routes the entities of one source state for a single step.
//
// Route adds to out[j] the number of the count entities that move to state j,
// drawing from row (a validated probability row) with rng. Route must add
// exactly count entities in total and never route to a zero-probability
// destination.
type Strategy interface {
	Name() string
	Route(count int, row []float64, rng *rand.Rand, out []int)
}

// Strategy names accepted by StrategyByName.
const (
	ReferenceName   = "reference"
	MultinomialName = "multinomial"
)

// Reference draws one categorical sample per entity by scanning the running
// cumulative probability of row. Cost is O(count · states) per call.
type Reference struct{}

// Name returns "reference".
func (Reference) Name() string { return ReferenceName }

// Route implements Strategy.
func (Reference) Route(count int, row []float64, rng *rand.Rand, out []int) {
	last := lastPositive(row)
	var (
		e, j, dest int
		u, cum     float64
	)
	for e = 0; e < count; e++ {
		u = rng.Float64()
		cum = 0
		dest = last // round-off fallback when Σ row < 1 by a few ulps
		for j = 0; j < len(row); j++ {
			if row[j] <= 0 {
				continue
			}
			cum += row[j]
			if u < cum {
				dest = j
				break
			}
		}
		out[dest]++
	}
}

// Multinomial splits count with a single multinomial draw, realised as the
// chain k_j ~ Binomial(remaining, p_j / remaining mass) over destinations in
// index order; the last positive destination takes what is left.
//
// The chain factorisation of the multinomial makes this exactly the
// aggregate of count independent categorical draws. Cost is O(states)
// binomial draws per call regardless of count.
type Multinomial struct{}

// Name returns "multinomial".
func (Multinomial) Name() string { return MultinomialName }

// Route implements Strategy.
func (Multinomial) Route(count int, row []float64, rng *rand.Rand, out []int) {
	last := lastPositive(row)
	var mass float64
	for _, p := range row {
		if p > 0 {
			mass += p
		}
	}

	remaining := count
	var k int
	for j, p := range row {
		if remaining == 0 {
			return
		}
		if p <= 0 {
			continue
		}
		if j == last {
			out[j] += remaining
			return
		}
		q := p / mass
		switch {
		case q >= 1:
			k = remaining
		case q <= 0:
			k = 0
		default:
			k = int(distuv.Binomial{N: float64(remaining), P: q, Src: rng}.Rand())
			k = min(max(k, 0), remaining)
		}
		out[j] += k
		remaining -= k
		mass -= p
	}
}

// lastPositive returns the index of the last positive entry of row.
func lastPositive(row []float64) int {
	for j := len(row) - 1; j >= 0; j-- {
		if row[j] > 0 {
			return j
		}
	}

	return len(row) - 1
}

var strategies = map[string]Strategy{
	ReferenceName:   Reference{},
	MultinomialName: Multinomial{},
}

// StrategyByName resolves a configured strategy name (case-insensitive).
// An empty name selects Multinomial.
func StrategyByName(name string) (Strategy, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return Multinomial{}, nil
	}
	s, ok := strategies[key]
	if !ok {
		return nil, fmt.Errorf("%q (known: %s): %w", name, strings.Join(StrategyNames(), ", "), ErrUnknownStrategy)
	}

	return s, nil
}

// StrategyNames returns the registered strategy names, sorted.
func StrategyNames() []string {
	names := make([]string, 0, len(strategies))
	for n := range strategies {
		names = append(names, n)
	}
	sort.Strings(names)

	return names
}

// SPDX-License-Identifier: MIT
package simulate

// History is the count trajectory of one simulation: History[t][i] is the
// number of entities in state i after t steps. Accessors return copies.
type History [][]int

// Steps returns the number of simulated transitions.
func (h History) Steps() int { return len(h) - 1 }

// At returns a copy of the counts after t steps, or nil when t is out of range.
func (h History) At(t int) []int {
	if t < 0 || t >= len(h) {
		return nil
	}

	return append([]int(nil), h[t]...)
}

// Final returns a copy of the last count vector.
func (h History) Final() []int { return h.At(len(h) - 1) }

// Totals returns the population size at every step.
func (h History) Totals() []int {
	out := make([]int, len(h))
	for t := range h {
		out[t] = h.total(t)
	}

	return out
}

// Series returns the count of one state across all steps.
func (h History) Series(state int) []int {
	out := make([]int, len(h))
	for t, row := range h {
		if state >= 0 && state < len(row) {
			out[t] = row[state]
		}
	}

	return out
}

// Shares returns the counts after t steps as fractions of the population.
func (h History) Shares(t int) []float64 {
	row := h.At(t)
	if row == nil {
		return nil
	}
	out := make([]float64, len(row))
	total := h.total(t)
	if total == 0 {
		return out
	}
	for i, c := range row {
		out[i] = float64(c) / float64(total)
	}

	return out
}

func (h History) total(t int) int {
	var s int
	for _, c := range h[t] {
		s += c
	}

	return s
}

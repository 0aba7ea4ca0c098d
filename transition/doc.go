// Package transition estimates a transition matrix from panel observations
// by empirical frequency counting.
//
// Each Observation records the state of one entity at one time. Records are
// ordered per entity by time; every consecutive pair (s_t, s_{t+1}) counts as
// one transition s_t → s_{t+1}. Counts are then row-normalised. A state with
// no outgoing observation becomes a self-loop, so every row of the result is
// a valid next-state distribution.
package transition

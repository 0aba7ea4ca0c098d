// Package simulate advances a finite population of entities through a
// Markov chain with explicit, injectable randomness.
//
// What & Why:
//
//	Where markov answers expectation questions exactly, simulate produces
//	sample paths: an integer count per state at every step, with the total
//	population conserved. Monte Carlo ensembles built on those paths give
//	uncertainty bands around the expected composition.
//
// Strategies:
//
//   - Reference   - one categorical draw per entity (O(population) per step).
//   - Multinomial - one multinomial draw per source state, realised as a
//     chain of conditional binomials (O(states) draws per source per step).
//
//	Both route every entity of a source state independently with the row's
//	probabilities; Multinomial samples the aggregate of those draws directly.
//	The two produce different sample paths for the same seed but the same
//	distribution of paths.
//
// Determinism:
//
//	Randomness always comes from a *rand.Rand passed in by the caller.
//	Same matrix, initial counts, steps, strategy and seed ⇒ identical
//	history. Ensembles derive one source per run with DeriveSeed, so their
//	output does not depend on the worker count.
//
// Concurrency:
//
//	A Simulator is immutable and safe for concurrent Run calls, provided
//	each goroutine owns its *rand.Rand.
package simulate

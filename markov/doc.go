// Package markov analyses time-homogeneous discrete Markov chains over a
// fixed, ordered state space.
//
// What & Why:
//
//	A Chain wraps a validated row-stochastic transition matrix together with
//	its state labels. It answers the exact (non-random) questions a portfolio
//	model asks: where does the book sit after n periods, what does it settle
//	to in the long run, and how long until loans reach a terminal state.
//
// Operations:
//
//   - NStep(n)           - Pⁿ by repeated squaring.
//   - Distribution       - initial · Pⁿ for a probability row vector.
//   - ExpectedCounts     - the expected composition of an integer portfolio.
//   - Stationary         - left eigenvector for the eigenvalue closest to 1.
//   - AbsorbProbabilities, ExpectedTimeToAbsorb, VarianceTimeToAbsorb
//     - fundamental-matrix analysis for a caller-supplied absorbing set.
//   - Classes, Classify  - communicating classes of the support graph.
//
// Errors:
//
//	Malformed input fails fast at NewChain or at the call entry
//	(ErrNotSquare, ErrStateCount, ErrDuplicateState, ErrEmptyState,
//	matrix.ErrNotStochastic, ErrInvalidAbsorbing, ErrNegativeSteps,
//	ErrLengthMismatch). A singular (I − Q) yields ErrAbsorptionNotGuaranteed
//	together with the index partition. Eigenvalue ambiguity is a flag on the
//	Stationary result plus a warning on the chain's logger, never an error.
//
// Concurrency:
//
//	A Chain is immutable after NewChain and safe for concurrent use. Every
//	method allocates its own result; nothing is cached between calls.
//
// Stationary tie-break:
//
//	When several eigenvalues are equally close to 1 (within 1e-12), the
//	candidate whose normalised vector has the lowest-index leading support
//	state wins; remaining ties fall back to solver order. For the identity
//	on two states this yields [1, 0].
package markov

// Package lvmarkov models portfolios of entities that move between discrete
// states, such as loans moving between delinquency buckets, as
// time-homogeneous discrete Markov chains.
//
// 🚀 What is inside?
//
//	• Exact analytics: n-step matrices, stationary distribution, state
//	  classes, absorption probabilities and times
//	• Stochastic simulation: integer populations pushed through the chain
//	  with seeded, reproducible sampling
//	• Monte Carlo ensembles: many seeded runs in parallel, summarised as
//	  mean and quantile bands
//	• Estimation: transition counts and matrices from time-stamped records
//
// ✨ Why lvmarkov?
//
//   - Deterministic – every random draw derives from one uint64 seed
//   - Explicit errors – sentinel errors matched with errors.Is, no panics
//     on user input
//   - Immutable values – chains and simulators are safe to share
//
// Packages:
//
//	matrix/     - dense row-major matrices, LU, inverse, powers, left eigenpairs
//	markov/     - Chain: NStep, Stationary, AbsorbProbabilities, Classify
//	simulate/   - Simulator, sampling strategies, RunEnsemble
//	transition/ - observations → counts → row-stochastic matrix
//	report/     - CSV tables and gonum/plot charts
//	store/      - SQLite persistence of runs
//	config/     - YAML scenarios with environment overrides
//	logging/    - slog construction helpers
//	cmd/lvmarkov - the command-line driver
//
// Quick example:
//
//	P, _ := matrix.NewDenseFrom([][]float64{{0.9, 0.1}, {0.5, 0.5}})
//	chain, _ := markov.NewChain(P, []string{"sunny", "rainy"})
//	st, _ := chain.Stationary()         // st.Pi ≈ [0.8333 0.1667]
//	hist, _ := simulate.Simulate([]int{100, 0}, P, 30, simulate.NewSource(1))
//
//	go install github.com/katalvlaran/lvmarkov/cmd/lvmarkov@latest
package lvmarkov

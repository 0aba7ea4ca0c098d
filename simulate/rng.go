// SPDX-License-Identifier: MIT
// Package simulate - RNG utilities.
//
// Goals:
//   - Determinism: same seed ⇒ identical streams across platforms.
//   - Encapsulation: a single source factory; no time-based sources anywhere.
//
// Concurrency:
//   - *rand.Rand is NOT goroutine-safe. Do not share one across goroutines;
//     derive one stream per worker or run with DeriveSeed.

package simulate

import "math/rand/v2"

// DefaultSeed is used when callers pass seed == 0.
const DefaultSeed uint64 = 1

// NewSource returns a deterministic PCG-backed *rand.Rand.
// Policy: seed == 0 ⇒ DefaultSeed; the second PCG word is derived from the seed.
//
// The result also satisfies rand.Source, so it can feed gonum distributions.
//
// Complexity: O(1).
func NewSource(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = DefaultSeed
	}

	return rand.New(rand.NewPCG(seed, DeriveSeed(seed, 0)))
}

// DeriveSeed mixes a parent seed and a stream identifier into a new 64-bit seed
// with the SplitMix64 finalizer, so neighbouring stream ids give unrelated seeds.
//
// Complexity: O(1).
func DeriveSeed(parent, stream uint64) uint64 {
	x := parent ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31

	return x
}

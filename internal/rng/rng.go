// Package rng provides the random sources used to shuffle decks and drive bots
package rng

import "math/rand"

// Generator provides a simple random number
type Generator interface {
	// Intn will return a random number up to but not including n
	Intn(n int) int
}

// Seeded returns a deterministic generator
// Two generators with the same seed produce the same sequence.
func Seeded(seed int64) Generator {
	return rand.New(rand.NewSource(seed)) // nolint:gosec
}

// Seed returns a random, non-zero seed
func Seed() int64 {
	return Crypto{}.Int63()
}

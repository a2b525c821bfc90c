// Package shuffle implements an unbiased Fisher-Yates shuffle.
package shuffle

import "math/rand"

// Slice returns a shuffled copy of items. The input is never mutated so
// callers can keep their original ordering.
func Slice[T any](items []T, rng *rand.Rand) []T {
	out := make([]T, len(items))
	copy(out, items)
	for i := len(out) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

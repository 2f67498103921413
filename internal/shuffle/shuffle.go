// Package shuffle produces playback orders.
package shuffle

import (
	"math/rand/v2"
)

// Generate returns a permutation of 0..n-1 with current first and the other
// indices in Fisher-Yates order. A current outside 0..n-1 yields a plain
// permutation. A nil rng uses the global source.
func Generate(n, current int, rng *rand.Rand) []int {
	if n <= 0 {
		return []int{}
	}
	pinned := current >= 0 && current < n

	others := make([]int, 0, n)
	for i := range n {
		if pinned && i == current {
			continue
		}
		others = append(others, i)
	}
	Shuffle(others, rng)

	if !pinned {
		return others
	}
	order := make([]int, 0, n)
	order = append(order, current)
	return append(order, others...)
}

// Shuffle reorders items in place.
func Shuffle[T any](items []T, rng *rand.Rand) {
	for i := len(items) - 1; i > 0; i-- {
		j := intN(rng, i+1)
		items[i], items[j] = items[j], items[i]
	}
}

// Position returns the index of value in order, or -1.
func Position(order []int, value int) int {
	for i, v := range order {
		if v == value {
			return i
		}
	}
	return -1
}

func intN(rng *rand.Rand, n int) int {
	if rng == nil {
		return rand.IntN(n) //nolint:gosec // not security-sensitive
	}
	return rng.IntN(n)
}

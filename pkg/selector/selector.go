// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package selector picks a stable daily subset of a content pool.
//
// For a fixed salt the pool is shuffled once per rotation and cut into chunks
// of k items; consecutive day indexes walk the chunks in order, so every item
// is shown once before any item repeats. A new rotation reshuffles.
package selector

import (
	"crypto/sha256"
	"math/big"
	"math/rand/v2"
	"strconv"

	"github.com/AccelByte/extend-daily-progression/pkg/calendar"
)

// seedBound keeps seeds in the same range regardless of digest width.
var seedBound = big.NewInt(1_000_000_000_000)

// Seed hashes salt and n into a non-negative seed below 10^12.
func Seed(salt string, n int) int64 {
	sum := sha256.Sum256([]byte(salt + "::" + strconv.Itoa(n)))
	v := new(big.Int).SetBytes(sum[:])
	return v.Mod(v, seedBound).Int64()
}

// Rand returns a generator seeded from salt and n. Equal inputs give equal streams.
func Rand(salt string, n int) *rand.Rand {
	seed := uint64(Seed(salt, n))
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Shuffle returns a permuted copy of pool.
func Shuffle[T any](pool []T, r *rand.Rand) []T {
	out := make([]T, len(pool))
	copy(out, pool)
	r.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// Pick returns the chunk of pool assigned to dayIndex.
func Pick[T any](pool []T, k, dayIndex int, salt string) []T {
	if k <= 0 || len(pool) == 0 {
		return []T{}
	}

	n := len(pool)
	if k > n {
		k = n
	}
	chunks := (n + k - 1) / k

	cycle := floorDiv(dayIndex, chunks)
	slot := dayIndex - cycle*chunks

	shuffled := Shuffle(pool, Rand(salt, cycle))

	start := slot * k
	end := start + k
	if end > n {
		end = n
	}
	return shuffled[start:end]
}

// PickForDay is Pick keyed by a calendar day.
func PickForDay[T any](pool []T, k int, day calendar.Day, salt string) []T {
	return Pick(pool, k, day.Index(), salt)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

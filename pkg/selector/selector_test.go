// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package selector

import (
	"fmt"
	"reflect"
	"sort"
	"testing"
)

func pool(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("task-%02d", i)
	}
	return out
}

func TestPick_EdgeCases(t *testing.T) {
	tests := []struct {
		name    string
		pool    []string
		k       int
		wantLen int
	}{
		{"empty pool", nil, 3, 0},
		{"zero k", pool(5), 0, 0},
		{"negative k", pool(5), -2, 0},
		{"k equals pool", pool(4), 4, 4},
		{"k larger than pool", pool(4), 10, 4},
		{"regular chunk", pool(10), 3, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Pick(tt.pool, tt.k, 7, "salt")
			if got == nil {
				t.Fatal("Pick() returned nil, expected an empty slice")
			}
			if len(got) != tt.wantLen {
				t.Errorf("len(Pick()) = %d, expected %d", len(got), tt.wantLen)
			}
		})
	}
}

func TestPick_WholePoolIsShuffledPermutation(t *testing.T) {
	p := pool(8)
	got := Pick(p, 20, 3, "school::math")

	sorted := append([]string(nil), got...)
	sort.Strings(sorted)
	if !reflect.DeepEqual(sorted, p) {
		t.Errorf("Pick() = %v is not a permutation of the pool", got)
	}
}

func TestPick_Deterministic(t *testing.T) {
	p := pool(30)
	a := Pick(p, 5, 42, "bonus::10-12")
	b := Pick(p, 5, 42, "bonus::10-12")
	if !reflect.DeepEqual(a, b) {
		t.Errorf("Pick() not deterministic: %v vs %v", a, b)
	}
}

func TestPick_SaltChangesOutput(t *testing.T) {
	p := pool(30)
	base := Pick(p, 5, 42, "school::math")

	differs := 0
	for _, salt := range []string{"school::polish", "school::history", "school::biology", "bonus::7-9"} {
		if !reflect.DeepEqual(base, Pick(p, 5, 42, salt)) {
			differs++
		}
	}
	if differs == 0 {
		t.Error("changing the salt never changed the selection")
	}
}

func TestPick_RotationCoverage(t *testing.T) {
	tests := []struct {
		n, k int
	}{
		{10, 3},
		{9, 3},
		{7, 1},
		{25, 4},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("n=%d,k=%d", tt.n, tt.k), func(t *testing.T) {
			p := pool(tt.n)
			chunks := (tt.n + tt.k - 1) / tt.k

			seen := map[string]bool{}
			for day := 0; day < chunks; day++ {
				for _, item := range Pick(p, tt.k, day, "rotation") {
					if seen[item] {
						t.Fatalf("item %s repeated on day %d before the pool was exhausted", item, day)
					}
					seen[item] = true
				}
			}
			if len(seen) != tt.n {
				t.Errorf("visited %d items, expected %d", len(seen), tt.n)
			}
		})
	}
}

func TestPick_NegativeDayIndex(t *testing.T) {
	p := pool(6)
	seen := map[string]bool{}
	for day := -3; day < 0; day++ {
		for _, item := range Pick(p, 2, day, "past") {
			if seen[item] {
				t.Fatalf("item %s repeated within the rotation", item)
			}
			seen[item] = true
		}
	}
	if len(seen) != 6 {
		t.Errorf("visited %d items, expected 6", len(seen))
	}
}

func TestSeed_Range(t *testing.T) {
	for i := 0; i < 50; i++ {
		s := Seed("x", i)
		if s < 0 || s >= 1_000_000_000_000 {
			t.Fatalf("Seed() = %d out of range", s)
		}
	}
	if Seed("a", 1) == Seed("b", 1) {
		t.Error("different salts produced the same seed")
	}
}

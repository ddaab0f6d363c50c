// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package content

import (
	"math"
	"math/rand/v2"
	"sort"
	"strconv"
)

// Dataset column names.
const (
	ColAge        = "age"
	ColHeight     = "height_cm"
	ColFruit      = "favourite_fruit"
	ColAnimal     = "favourite_animal"
	ColColour     = "favourite_colour"
	ColMathsScore = "maths_score"
	ColArtScore   = "art_score"
	ColCity       = "city"
)

const (
	// DefaultRows and DefaultSeed describe the daily working dataset.
	DefaultRows = 140
	DefaultSeed = 42

	maxRows = 10_000
)

var (
	fruits  = []string{"apple", "banana", "strawberry", "grape", "watermelon"}
	animals = []string{"cat", "dog", "zebra", "elephant", "llama", "dolphin"}
	colours = []string{"red", "green", "blue", "yellow", "purple"}
	cities  = []string{"Warsaw", "Krakow", "Gdansk", "Wroclaw"}
)

// Column is one typed dataset column. Exactly one of Numbers or Texts is set.
type Column struct {
	Name    string
	Numbers []float64
	Texts   []string
}

// IsText reports whether the column holds categorical values.
func (c Column) IsText() bool {
	return c.Texts != nil
}

// Values returns the column rendered as strings.
func (c Column) Values() []string {
	if c.IsText() {
		return c.Texts
	}
	out := make([]string, len(c.Numbers))
	for i, v := range c.Numbers {
		out[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return out
}

// Unique counts distinct values.
func (c Column) Unique() int {
	seen := make(map[string]struct{})
	for _, v := range c.Values() {
		seen[v] = struct{}{}
	}
	return len(seen)
}

// Frequencies counts occurrences of each value.
func (c Column) Frequencies() map[string]int {
	counts := make(map[string]int)
	for _, v := range c.Values() {
		counts[v]++
	}
	return counts
}

// Ranked returns distinct values ordered by descending frequency, ties by value.
func (c Column) Ranked() []string {
	counts := c.Frequencies()
	values := make([]string, 0, len(counts))
	for v := range counts {
		values = append(values, v)
	}
	sort.Slice(values, func(i, j int) bool {
		if counts[values[i]] != counts[values[j]] {
			return counts[values[i]] > counts[values[j]]
		}
		return values[i] < values[j]
	})
	return values
}

// Max returns the largest numeric value.
func (c Column) Max() (float64, bool) {
	if len(c.Numbers) == 0 {
		return 0, false
	}
	best := c.Numbers[0]
	for _, v := range c.Numbers[1:] {
		if v > best {
			best = v
		}
	}
	return best, true
}

// Dataset is a small synthetic table used by the daily mission.
type Dataset struct {
	Rows    int
	Columns []Column
}

// Column returns the named column.
func (d Dataset) Column(name string) (Column, bool) {
	for _, c := range d.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Varied returns columns with more than one distinct value.
func (d Dataset) Varied() []Column {
	var out []Column
	for _, c := range d.Columns {
		if c.Unique() > 1 {
			out = append(out, c)
		}
	}
	return out
}

// TextColumns returns varied categorical columns.
func (d Dataset) TextColumns() []Column {
	var out []Column
	for _, c := range d.Varied() {
		if c.IsText() {
			out = append(out, c)
		}
	}
	return out
}

// NumericColumns returns columns holding numbers.
func (d Dataset) NumericColumns() []Column {
	var out []Column
	for _, c := range d.Columns {
		if !c.IsText() && len(c.Numbers) > 0 {
			out = append(out, c)
		}
	}
	return out
}

// MakeDataset generates n rows of the requested columns. Equal arguments give
// equal datasets. Unknown and duplicate column names are ignored.
func MakeDataset(n int, cols []string, seed int64) Dataset {
	if n < 0 {
		n = 0
	}
	if n > maxRows {
		n = maxRows
	}
	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x5851f42d4c957f2d))

	d := Dataset{Rows: n}
	seen := make(map[string]bool)
	for _, name := range cols {
		if seen[name] {
			continue
		}
		col, ok := generate(name, n, rng)
		if !ok {
			continue
		}
		seen[name] = true
		d.Columns = append(d.Columns, col)
	}
	return d
}

func generate(name string, n int, rng *rand.Rand) (Column, bool) {
	numbers := func(fn func() float64) Column {
		out := make([]float64, n)
		for i := range out {
			out[i] = fn()
		}
		return Column{Name: name, Numbers: out}
	}
	choice := func(pool []string) Column {
		out := make([]string, n)
		for i := range out {
			out[i] = pool[rng.IntN(len(pool))]
		}
		return Column{Name: name, Texts: out}
	}
	score := func(mean, stddev float64) func() float64 {
		return func() float64 {
			v := math.Trunc(mean + rng.NormFloat64()*stddev)
			return math.Max(0, math.Min(100, v))
		}
	}

	switch name {
	case ColAge:
		return numbers(func() float64 { return float64(7 + rng.IntN(8)) }), true
	case ColHeight:
		return numbers(func() float64 {
			return math.Round((140+rng.NormFloat64()*12)*10) / 10
		}), true
	case ColFruit:
		return choice(fruits), true
	case ColAnimal:
		return choice(animals), true
	case ColColour:
		return choice(colours), true
	case ColMathsScore:
		return numbers(score(70, 15)), true
	case ColArtScore:
		return numbers(score(75, 12)), true
	case ColCity:
		return choice(cities), true
	}
	return Column{}, false
}

// PresetColumns returns the dataset columns suited to an age group.
func PresetColumns(ageGroup string) []string {
	switch ageGroup {
	case "10-12":
		return []string{ColAge, ColHeight, ColFruit, ColCity}
	case "13-14":
		return []string{ColAge, ColHeight, ColMathsScore, ColArtScore, ColCity, ColFruit}
	}
	return []string{ColAge, ColFruit, ColCity}
}

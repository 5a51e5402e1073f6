package catalog

import "math"

// BracketAll disables price filtering.
const BracketAll = "all"

// Bracket is a named price range over EffectivePrice. Each bound carries its
// own inclusiveness; the tables below are not uniformly half-open.
type Bracket struct {
	Key          string `json:"key"`
	Min          int64  `json:"min"`
	Max          int64  `json:"max"`
	MinInclusive bool   `json:"min_inclusive"`
	MaxInclusive bool   `json:"max_inclusive"`
}

func (b Bracket) Contains(price int64) bool {
	if b.MinInclusive {
		if price < b.Min {
			return false
		}
	} else if price <= b.Min {
		return false
	}

	if b.MaxInclusive {
		return price <= b.Max
	}
	return price < b.Max
}

type BracketTable []Bracket

func (t BracketTable) Lookup(key string) (Bracket, bool) {
	for _, b := range t {
		if b.Key == key {
			return b, true
		}
	}
	return Bracket{}, false
}

// Valid reports whether key names a bracket of the table or the "all" sentinel.
func (t BracketTable) Valid(key string) bool {
	if key == "" || key == BracketAll {
		return true
	}
	_, ok := t.Lookup(key)
	return ok
}

// below(x) is (-inf, x); above(x) is (x, +inf).
func below(key string, x int64) Bracket {
	return Bracket{Key: key, Min: math.MinInt64, Max: x, MinInclusive: true}
}

func above(key string, x int64) Bracket {
	return Bracket{Key: key, Min: x, Max: math.MaxInt64, MaxInclusive: true}
}

var GeneralBrackets = BracketTable{
	below("under-500k", 500_000),
	{Key: "500k-1m", Min: 500_000, Max: 1_000_000, MinInclusive: true},
	{Key: "1m-2m", Min: 1_000_000, Max: 2_000_000, MinInclusive: true, MaxInclusive: true},
	above("above-2m", 2_000_000),
}

var CutFruitBrackets = BracketTable{
	below("under-100k", 100_000),
	{Key: "100k-200k", Min: 100_000, Max: 200_000, MinInclusive: true, MaxInclusive: true},
	above("above-200k", 200_000),
}

package result

import (
	"math/rand/v2"
	"sort"
)

// CategoryCount is one bar of the per-epic breakdown.
type CategoryCount struct {
	Category string
	Count    int
}

// OutcomeCounts tallies the classified cells of one rule column.
type OutcomeCounts struct {
	Column  string
	Pass    int
	Fail    int
	Neutral int
}

// Summary aggregates a result set.
type Summary struct {
	Total        int
	Positive     int
	Negative     int
	Distribution []CategoryCount
	Outcomes     []OutcomeCounts
}

// Summarize computes totals, the per-epic distribution (largest first) and the
// outcome tallies of every rule column. Missing conventional columns yield
// zero counts.
func Summarize(s *Set) Summary {
	sum := Summary{Total: s.Len()}
	hasType := s.HasColumn(ColumnTestType)
	hasEpic := s.HasColumn(ColumnEpic)
	rules := RuleColumns(s)
	tallies := make([]OutcomeCounts, len(rules))
	for i, c := range rules {
		tallies[i].Column = c
	}
	byEpic := map[string]int{}
	s.Each(func(_ int, row Row) {
		if hasType {
			switch row.Text(ColumnTestType) {
			case TestTypePositive:
				sum.Positive++
			case TestTypeNegative:
				sum.Negative++
			}
		}
		if hasEpic {
			if v, ok := row[ColumnEpic]; ok && v != nil {
				byEpic[row.Text(ColumnEpic)]++
			}
		}
		for i, c := range rules {
			if _, ok := row[c]; !ok {
				continue
			}
			switch Classify(row.Text(c)) {
			case OutcomePass:
				tallies[i].Pass++
			case OutcomeFail:
				tallies[i].Fail++
			default:
				tallies[i].Neutral++
			}
		}
	})
	for cat, n := range byEpic {
		sum.Distribution = append(sum.Distribution, CategoryCount{Category: cat, Count: n})
	}
	sort.Slice(sum.Distribution, func(i, j int) bool {
		a, b := sum.Distribution[i], sum.Distribution[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Category < b.Category
	})
	if len(tallies) > 0 {
		sum.Outcomes = tallies
	}
	return sum
}

// Sampler draws uniform samples without replacement.
type Sampler struct {
	rng *rand.Rand
}

// NewSampler uses rng, or a randomly seeded generator when rng is nil.
func NewSampler(rng *rand.Rand) *Sampler {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Sampler{rng: rng}
}

// Sample returns min(n, s.Len()) distinct rows of s chosen uniformly.
func (sm *Sampler) Sample(s *Set, n int) *Set {
	total := s.Len()
	if n > total {
		n = total
	}
	if n <= 0 {
		if s == nil {
			return NewSet(nil, nil)
		}
		return s.subset(nil)
	}
	perm := sm.rng.Perm(total)
	return s.subset(perm[:n])
}

// Sample draws with a randomly seeded sampler.
func Sample(s *Set, n int) *Set {
	return NewSampler(nil).Sample(s, n)
}

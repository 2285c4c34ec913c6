package result

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rows(n int) *Set {
	recs := make([]map[string]any, n)
	for i := range recs {
		typ := TestTypePositive
		rule := "Pass"
		if i%3 == 0 {
			typ = TestTypeNegative
			rule = "Fail: out of range"
		}
		recs[i] = map[string]any{
			"TUID":         fmt.Sprintf("TC-%04d", i),
			ColumnEpic:     []string{"EntryAge", "PolicyTerm"}[i%2],
			ColumnTestType: typ,
			"Rule_Range":   rule,
			"Input_Value":  i,
		}
	}
	return FromRecords(recs)
}

func TestSummarizeEmptySet(t *testing.T) {
	for _, s := range []*Set{nil, NewSet(nil, nil)} {
		sum := Summarize(s)
		assert.Equal(t, 0, sum.Total)
		assert.Equal(t, 0, sum.Positive)
		assert.Equal(t, 0, sum.Negative)
		assert.Empty(t, sum.Distribution)
		assert.Empty(t, sum.Outcomes)
	}
}

func TestSummarizeCounts(t *testing.T) {
	sum := Summarize(rows(9))
	assert.Equal(t, 9, sum.Total)
	assert.Equal(t, 6, sum.Positive)
	assert.Equal(t, 3, sum.Negative)
	assert.Equal(t, []CategoryCount{{"EntryAge", 5}, {"PolicyTerm", 4}}, sum.Distribution)
	require.Len(t, sum.Outcomes, 1)
	assert.Equal(t, OutcomeCounts{Column: "Rule_Range", Pass: 6, Fail: 3}, sum.Outcomes[0])
}

func TestSummarizeWithoutConventionalColumns(t *testing.T) {
	s := NewSet([]string{"A"}, []Row{{"A": 1}, {"A": 2}})
	sum := Summarize(s)
	assert.Equal(t, 2, sum.Total)
	assert.Zero(t, sum.Positive)
	assert.Zero(t, sum.Negative)
	assert.Empty(t, sum.Distribution)
}

func TestClassify(t *testing.T) {
	cases := map[string]Outcome{
		"Pass":             OutcomePass,
		"Fail":             OutcomeFail,
		"Fail: too young":  OutcomeFail,
		"Soft Fail (warn)": OutcomeFail,
		"pass":             OutcomeNeutral,
		"Pass with notes":  OutcomeNeutral,
		"":                 OutcomeNeutral,
	}
	for in, want := range cases {
		assert.Equal(t, want, Classify(in), in)
	}
}

func TestSampleSizes(t *testing.T) {
	sm := NewSampler(rand.New(rand.NewPCG(1, 2)))
	assert.Equal(t, 3, sm.Sample(rows(3), 10).Len())
	assert.Equal(t, 10, sm.Sample(rows(1000), 10).Len())
	assert.Equal(t, 0, sm.Sample(nil, 10).Len())
	assert.Equal(t, 0, sm.Sample(rows(5), 0).Len())
}

func TestSampleHasNoDuplicates(t *testing.T) {
	s := rows(50)
	sample := NewSampler(rand.New(rand.NewPCG(7, 7))).Sample(s, 20)
	seen := map[string]bool{}
	sample.Each(func(_ int, row Row) {
		id := row.Text("TUID")
		assert.False(t, seen[id], "duplicate %s", id)
		seen[id] = true
	})
	assert.Len(t, seen, 20)
	assert.Equal(t, s.Columns(), sample.Columns())
}

func TestFromRecordsColumnOrder(t *testing.T) {
	s := rows(2)
	assert.Equal(t, []string{"TUID", "Epic", "Test_Type", "Input_Value", "Rule_Range"}, s.Columns())
	assert.Equal(t, []string{"Rule_Range"}, RuleColumns(s))
}

func TestSetIsIsolatedFromCallerRows(t *testing.T) {
	src := []Row{{"A": "x"}}
	s := NewSet([]string{"A"}, src)
	src[0]["A"] = "mutated"
	assert.Equal(t, "x", s.Row(0).Text("A"))
	copyRow := s.Row(0)
	copyRow["A"] = "again"
	assert.Equal(t, []any{"x"}, s.Values(0))
}

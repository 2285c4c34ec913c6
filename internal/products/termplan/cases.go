package termplan

import (
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/kingrea/casegen/internal/epic"
	"github.com/kingrea/casegen/internal/result"
)

// caseWriter accumulates the rows of one epic.
type caseWriter struct {
	plan string
	epic string
	rng  *rand.Rand
	rows []result.Row
}

func (w *caseWriter) add(testType, ppt, field string, value any, expected, rule string) {
	w.rows = append(w.rows, result.Row{
		columnTUID:            uuid.NewString(),
		columnPlan:            w.plan,
		result.ColumnEpic:     w.epic,
		result.ColumnTestType: testType,
		columnPPT:             ppt,
		columnField:           field,
		columnValue:           value,
		columnExpected:        expected,
		columnRule:            rule,
	})
}

func (w *caseWriter) pptRanged(p *epic.PPTRanged) {
	for _, ppt := range p.EnabledVariants() {
		r := p.Ranges[ppt]
		counts := p.CountsFor(ppt)
		for i := 0; i < counts.Positive; i++ {
			v := r.Min + w.rng.IntN(r.Max-r.Min+1)
			w.add(result.TestTypePositive, string(ppt), w.epic, v,
				fmt.Sprintf("accepted within [%d, %d]", r.Min, r.Max), "Pass")
		}
		for i := 0; i < counts.Negative; i++ {
			step := i/2 + 1
			if i%2 == 0 {
				w.add(result.TestTypeNegative, string(ppt), w.epic, r.Min-step,
					fmt.Sprintf("rejected below %d", r.Min), "Fail: below minimum")
				continue
			}
			w.add(result.TestTypeNegative, string(ppt), w.epic, r.Max+step,
				fmt.Sprintf("rejected above %d", r.Max), "Fail: above maximum")
		}
	}
}

func (w *caseWriter) frequency(p *epic.Frequency) {
	allowed := make(map[int]bool, len(p.Codes))
	for _, code := range p.Codes {
		allowed[code] = true
	}
	var rejected []int
	for code := 0; code <= 6; code++ {
		if !allowed[code] {
			rejected = append(rejected, code)
		}
	}
	for i := 0; i < p.Counts.Positive && len(p.Codes) > 0; i++ {
		code := p.Codes[i%len(p.Codes)]
		w.add(result.TestTypePositive, "", "PaymentFrequencyCode", code, "frequency accepted", "Pass")
	}
	for i := 0; i < p.Counts.Negative; i++ {
		code := rejected[i%len(rejected)]
		w.add(result.TestTypeNegative, "", "PaymentFrequencyCode", code, "frequency rejected", "Fail: frequency not offered")
	}
}

func (w *caseWriter) tiered(p *epic.TieredRange) {
	w.tier(epic.TierSinglePay, p.SinglePay)
	w.tier(epic.TierOthers, p.Others)
}

func (w *caseWriter) tier(name string, t *epic.Tier) {
	if t == nil {
		return
	}
	upper := t.Min * 2
	if t.Max != nil {
		upper = *t.Max
	}
	for i := 0; i < t.Counts.Positive; i++ {
		v := t.Min
		if upper > t.Min {
			v += w.rng.Int64N(upper - t.Min + 1)
		}
		w.add(result.TestTypePositive, name, "SumAssured", v, "sum assured accepted", "Pass")
	}
	for i := 0; i < t.Counts.Negative; i++ {
		step := int64(i/2+1) * 1000
		if t.Max == nil || i%2 == 0 {
			w.add(result.TestTypeNegative, name, "SumAssured", t.Min-step,
				fmt.Sprintf("rejected below %d", t.Min), "Fail: below minimum")
			continue
		}
		w.add(result.TestTypeNegative, name, "SumAssured", *t.Max+step,
			fmt.Sprintf("rejected above %d", *t.Max), "Fail: above maximum")
	}
}

func (w *caseWriter) generic(p *epic.Generic) {
	for i := 0; i < p.Counts.Positive; i++ {
		w.add(result.TestTypePositive, "", w.epic, "valid", "accepted", "Pass")
	}
	for i := 0; i < p.Counts.Negative; i++ {
		w.add(result.TestTypeNegative, "", w.epic, "invalid", "rejected", "Fail")
	}
}

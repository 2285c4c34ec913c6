package result

import "strings"

// Outcome classifies a rule cell for display and summary counts.
type Outcome string

const (
	OutcomePass    Outcome = "pass"
	OutcomeFail    Outcome = "fail"
	OutcomeNeutral Outcome = "neutral"
)

// Classify maps a rule cell to an outcome: any text containing "Fail" fails,
// exactly "Pass" passes, everything else is neutral.
func Classify(value string) Outcome {
	switch {
	case strings.Contains(value, "Fail"):
		return OutcomeFail
	case value == "Pass":
		return OutcomePass
	default:
		return OutcomeNeutral
	}
}

// IsRuleColumn reports whether column holds rule outcomes.
func IsRuleColumn(column string) bool {
	return strings.HasPrefix(column, RuleColumnPrefix)
}

// RuleColumns lists the rule outcome columns of s in column order.
func RuleColumns(s *Set) []string {
	var out []string
	for _, c := range s.Columns() {
		if IsRuleColumn(c) {
			out = append(out, c)
		}
	}
	return out
}

package epic

// Payment frequency names accepted in a selection.
const (
	FrequencyAnnual     = "Annual"
	FrequencyHalfYearly = "Half-Yearly"
	FrequencyQuarterly  = "Quarterly"
	FrequencyMonthly    = "Monthly"
	FrequencySinglePay  = "Single Pay"
)

// FrequencyOption pairs a frequency name with its ordinal code.
type FrequencyOption struct {
	Name string
	Code int
}

// FrequencyTable is the fixed total order of payment frequencies.
var FrequencyTable = []FrequencyOption{
	{FrequencyAnnual, 1},
	{FrequencyHalfYearly, 2},
	{FrequencyQuarterly, 3},
	{FrequencyMonthly, 4},
	{FrequencySinglePay, 5},
}

// FrequencyCode returns the ordinal code for name.
func FrequencyCode(name string) (int, bool) {
	for _, opt := range FrequencyTable {
		if opt.Name == name {
			return opt.Code, true
		}
	}
	return 0, false
}

// frequencyCodes translates the selected names into codes ordered by the
// table, not by selection order. Unknown names are returned separately.
func frequencyCodes(selected []string) ([]int, []string) {
	picked := make(map[string]bool, len(selected))
	for _, name := range selected {
		picked[name] = true
	}
	var unknown []string
	for name := range picked {
		if _, ok := FrequencyCode(name); !ok {
			unknown = append(unknown, name)
		}
	}
	codes := make([]int, 0, len(picked))
	for _, opt := range FrequencyTable {
		if picked[opt.Name] {
			codes = append(codes, opt.Code)
		}
	}
	return codes, unknown
}

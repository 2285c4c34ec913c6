package epic

import (
	"fmt"
	"strings"
)

// DefaultCount is the positive/negative count a surface offers when the user
// has not entered one.
const DefaultCount = 5

// Default sum-assured tier bounds.
const (
	DefaultSinglePayMin int64 = 2_500_000
	DefaultSinglePayMax int64 = 5_000_000
	DefaultOthersMin    int64 = 5_000_000
)

// Sum-assured tier names as they appear in the canonical spec.
const (
	TierSinglePay = "Single Pay"
	TierOthers    = "Others"
)

// CountMode selects between one shared count pair and per-epic pairs.
type CountMode string

const (
	ModeUniform CountMode = "uniform"
	ModePerEpic CountMode = "per_epic"
)

func (m CountMode) normalized() (CountMode, error) {
	switch CountMode(strings.ToLower(strings.TrimSpace(string(m)))) {
	case "", ModeUniform:
		return ModeUniform, nil
	case ModePerEpic:
		return ModePerEpic, nil
	default:
		return "", fmt.Errorf("unknown count mode %q", string(m))
	}
}

// Counts is a positive/negative case count pair.
type Counts struct {
	Positive int `json:"positive" yaml:"positive"`
	Negative int `json:"negative" yaml:"negative"`
}

// DefaultCounts returns the surface default pair.
func DefaultCounts() Counts {
	return Counts{Positive: DefaultCount, Negative: DefaultCount}
}

func (c Counts) validate() error {
	if c.Positive < 0 || c.Negative < 0 {
		return fmt.Errorf("counts must be >= 0, got %d/%d", c.Positive, c.Negative)
	}
	return nil
}

func countsOr(c *Counts, fallback Counts) Counts {
	if c == nil {
		return fallback
	}
	return *c
}

// Input is everything a configuration surface supplies for one epic family.
// Epics missing from the Epics map are treated as selected when SelectAll is
// set and otherwise left out.
type Input struct {
	Mode      CountMode            `yaml:"mode,omitempty"`
	Global    *Counts              `yaml:"global,omitempty"`
	SelectAll bool                 `yaml:"select_all,omitempty"`
	Epics     map[string]Selection `yaml:"epics,omitempty"`
}

func (in Input) selection(key string) Selection {
	if sel, ok := in.Epics[key]; ok {
		if sel.Selected == nil {
			sel.Selected = Bool(in.SelectAll)
		}
		return sel
	}
	return Selection{Selected: Bool(in.SelectAll)}
}

// Selection is the raw per-epic configuration. Which fields matter depends on
// the epic's Kind; the rest are ignored.
type Selection struct {
	Selected    *bool                `yaml:"selected,omitempty"`
	Counts      *Counts              `yaml:"counts,omitempty"`
	PPT         map[PPT]PPTSelection `yaml:"ppt,omitempty"`
	Frequencies []string             `yaml:"frequencies,omitempty"`
	Tiers       TierSelections       `yaml:"tiers,omitempty"`
}

// PPTSelection configures one payment-term variant of a PPT-ranged epic.
// A nil Enabled follows the epic's selection flag; a nil Range uses the
// default table.
type PPTSelection struct {
	Enabled *bool   `yaml:"enabled,omitempty"`
	Range   *Range  `yaml:"range,omitempty"`
	Counts  *Counts `yaml:"counts,omitempty"`
}

// TierSelections configures the two sum-assured tiers.
type TierSelections struct {
	SinglePay TierSelection `yaml:"single_pay,omitempty"`
	Others    TierSelection `yaml:"others,omitempty"`
}

// TierSelection configures one sum-assured tier. Max is ignored for Others.
type TierSelection struct {
	Enabled *bool   `yaml:"enabled,omitempty"`
	Min     *int64  `yaml:"min,omitempty"`
	Max     *int64  `yaml:"max,omitempty"`
	Counts  *Counts `yaml:"counts,omitempty"`
}

// Bool returns a pointer to v for optional selection flags.
func Bool(v bool) *bool {
	return &v
}

// Int64 returns a pointer to v for optional tier bounds.
func Int64(v int64) *int64 {
	return &v
}

func enabledOr(flag *bool, fallback bool) bool {
	if flag == nil {
		return fallback
	}
	return *flag
}

// ValidationError reports an input the normalizer refuses to accept.
type ValidationError struct {
	Family Family
	Key    string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("epic: %s: %s", e.Family, e.Reason)
	}
	return fmt.Sprintf("epic: %s %s: %s", e.Family, e.Key, e.Reason)
}

package epic

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// PPT is a premium-payment-term variant.
type PPT string

const (
	PPTSinglePay     PPT = "Single Pay"
	PPTLimited5      PPT = "Limited Pay (5 pay)"
	PPTLimited10     PPT = "Limited Pay (10 pay)"
	PPTLimited15     PPT = "Limited Pay (15 pay)"
	PPTLimitedTill60 PPT = "Limited Pay (Pay till age 60)"
	PPTRegular       PPT = "Regular Pay"
)

// PPTOrder is the fixed iteration order of the six variants.
var PPTOrder = []PPT{
	PPTSinglePay,
	PPTLimited5,
	PPTLimited10,
	PPTLimited15,
	PPTLimitedTill60,
	PPTRegular,
}

// Valid reports whether p is one of the six known variants.
func (p PPT) Valid() bool {
	for _, known := range PPTOrder {
		if p == known {
			return true
		}
	}
	return false
}

// Range is an inclusive numeric (min, max) pair.
type Range struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// UnmarshalYAML accepts either a [min, max] sequence or a {min, max} mapping.
// A single scalar is read as a fixed range.
func (r *Range) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var pair []int
		if err := node.Decode(&pair); err != nil {
			return err
		}
		if len(pair) != 2 {
			return fmt.Errorf("range must have exactly two values, got %d", len(pair))
		}
		r.Min, r.Max = pair[0], pair[1]
		return nil
	case yaml.ScalarNode:
		var v int
		if err := node.Decode(&v); err != nil {
			return err
		}
		r.Min, r.Max = v, v
		return nil
	default:
		type plain Range
		var p plain
		if err := node.Decode(&p); err != nil {
			return err
		}
		*r = Range(p)
		return nil
	}
}

func (r Range) validate() error {
	if r.Min > r.Max {
		return fmt.Errorf("min %d exceeds max %d", r.Min, r.Max)
	}
	return nil
}

// RangeTable holds a default range per PPT variant.
type RangeTable map[PPT]Range

// Default range tables per PPT-ranged epic. The rider maturity table differs
// from the base plan one.
var (
	EntryAgeDefaults = RangeTable{
		PPTSinglePay:     {18, 65},
		PPTLimited5:      {18, 65},
		PPTLimited10:     {18, 65},
		PPTLimited15:     {18, 65},
		PPTLimitedTill60: {18, 55},
		PPTRegular:       {18, 65},
	}
	PolicyTermDefaults = RangeTable{
		PPTSinglePay:     {1, 5},
		PPTLimited5:      {10, 67},
		PPTLimited10:     {15, 67},
		PPTLimited15:     {20, 67},
		PPTLimitedTill60: {5, 67},
		PPTRegular:       {5, 67},
	}
	BaseMaturityAgeDefaults = RangeTable{
		PPTSinglePay:     {19, 85},
		PPTLimited5:      {24, 85},
		PPTLimited10:     {29, 85},
		PPTLimited15:     {34, 85},
		PPTLimitedTill60: {65, 85},
		PPTRegular:       {23, 85},
	}
	RiderMaturityAgeDefaults = RangeTable{
		PPTSinglePay:     {19, 75},
		PPTLimited5:      {19, 75},
		PPTLimited10:     {19, 75},
		PPTLimited15:     {19, 75},
		PPTLimitedTill60: {19, 75},
		PPTRegular:       {19, 75},
	}
	PremiumPayingTermDefaults = RangeTable{
		PPTSinglePay:     {1, 1},
		PPTLimited5:      {5, 5},
		PPTLimited10:     {10, 10},
		PPTLimited15:     {15, 15},
		PPTLimitedTill60: {5, 42},
		PPTRegular:       {5, 67},
	}
)

// DefaultRanges returns the default table for a PPT-ranged epic key within a
// family. ok is false for keys that are not PPT-ranged.
func DefaultRanges(family Family, key string) (RangeTable, bool) {
	switch key {
	case KeyEntryAge:
		return EntryAgeDefaults, true
	case KeyPolicyTerm:
		return PolicyTermDefaults, true
	case KeyMaturityAge:
		if family == FamilyRider {
			return RiderMaturityAgeDefaults, true
		}
		return BaseMaturityAgeDefaults, true
	case KeyPremiumPayingTerm:
		return PremiumPayingTermDefaults, true
	default:
		return nil, false
	}
}

// Package epic models test dimensions ("epics") and normalizes the raw
// per-epic selections collected by a configuration surface into the canonical
// Spec handed to a product module.
package epic

import "fmt"

// Well-known epic keys that select a non-generic configuration shape.
const (
	KeyEntryAge          = "EntryAge"
	KeyPolicyTerm        = "PolicyTerm"
	KeyMaturityAge       = "MaturityAge"
	KeyPremiumPayingTerm = "PremiumPayingTerm"
	KeyPaymentFrequency  = "PaymentFrequency"
	KeySumAssured        = "SumAssuredValidation"
)

// Kind determines the configuration shape of an epic.
type Kind string

const (
	KindPPTRanged   Kind = "ppt-ranged"
	KindFrequency   Kind = "frequency"
	KindTieredRange Kind = "tiered-range"
	KindGeneric     Kind = "generic"
)

// KindOf reports the kind for an epic key. Unknown keys are generic.
func KindOf(key string) Kind {
	switch key {
	case KeyEntryAge, KeyPolicyTerm, KeyMaturityAge, KeyPremiumPayingTerm:
		return KindPPTRanged
	case KeyPaymentFrequency:
		return KindFrequency
	case KeySumAssured:
		return KindTieredRange
	default:
		return KindGeneric
	}
}

// Family distinguishes the two independently normalized epic sets.
type Family string

const (
	FamilyBase  Family = "base"
	FamilyRider Family = "rider"
)

// Definition is one entry of an epic map.
type Definition struct {
	Key         string
	Description string
}

// Map is an ordered epic key -> description mapping.
type Map []Definition

// Keys returns the epic keys in map order.
func (m Map) Keys() []string {
	keys := make([]string, 0, len(m))
	for _, def := range m {
		keys = append(keys, def.Key)
	}
	return keys
}

// Lookup returns the description for key.
func (m Map) Lookup(key string) (string, bool) {
	for _, def := range m {
		if def.Key == key {
			return def.Description, true
		}
	}
	return "", false
}

// Validate rejects empty and duplicate keys.
func (m Map) Validate() error {
	seen := make(map[string]struct{}, len(m))
	for idx, def := range m {
		if def.Key == "" {
			return fmt.Errorf("epic map[%d]: key is required", idx)
		}
		if _, dup := seen[def.Key]; dup {
			return fmt.Errorf("epic map[%d]: duplicate key %s", idx, def.Key)
		}
		seen[def.Key] = struct{}{}
	}
	return nil
}

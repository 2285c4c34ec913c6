package epic

import (
	"fmt"
	"sort"
	"strings"
)

// Normalizer turns raw selections for one family into a Spec.
type Normalizer struct {
	family Family
}

// NewNormalizer returns a normalizer whose default tables follow family.
func NewNormalizer(family Family) *Normalizer {
	return &Normalizer{family: family}
}

// Family reports which family the normalizer serves.
func (n *Normalizer) Family() Family {
	return n.family
}

// Normalize builds the spec for epics under in. An epic contributes only when
// selected; a PPT-ranged epic additionally needs at least one enabled variant
// and is dropped without error otherwise.
func (n *Normalizer) Normalize(epics Map, in Input) (*Spec, error) {
	if err := epics.Validate(); err != nil {
		return nil, n.invalid("", err.Error())
	}
	mode, err := in.Mode.normalized()
	if err != nil {
		return nil, n.invalid("", err.Error())
	}
	global := countsOr(in.Global, DefaultCounts())
	if err := global.validate(); err != nil {
		return nil, n.invalid("", "global "+err.Error())
	}
	spec := NewSpec(n.family)
	for _, def := range epics {
		sel := in.selection(def.Key)
		if !*sel.Selected {
			continue
		}
		var payload Payload
		switch KindOf(def.Key) {
		case KindPPTRanged:
			ranged, err := n.pptRanged(def.Key, sel, mode, global)
			if err != nil {
				return nil, err
			}
			if ranged == nil {
				continue
			}
			payload = ranged
		case KindFrequency:
			payload, err = n.frequency(def.Key, sel, mode, global)
		case KindTieredRange:
			payload, err = n.tiered(def.Key, sel, mode, global)
		default:
			var counts Counts
			counts, err = n.epicCounts(def.Key, sel.Counts, mode, global)
			payload = &Generic{Counts: counts}
		}
		if err != nil {
			return nil, err
		}
		spec.put(def.Key, payload)
	}
	return spec, nil
}

func (n *Normalizer) pptRanged(key string, sel Selection, mode CountMode, global Counts) (*PPTRanged, error) {
	defaults, _ := DefaultRanges(n.family, key)
	for ppt := range sel.PPT {
		if !ppt.Valid() {
			return nil, n.invalid(key, fmt.Sprintf("unknown payment term %q", string(ppt)))
		}
	}
	out := &PPTRanged{
		Mode:    mode,
		Ranges:  map[PPT]Range{},
		Enabled: make(map[PPT]bool, len(PPTOrder)),
	}
	if mode == ModePerEpic {
		out.PerPPT = map[PPT]Counts{}
	} else {
		out.Counts = global
	}
	enabledCount := 0
	for _, ppt := range PPTOrder {
		choice := sel.PPT[ppt]
		enabled := enabledOr(choice.Enabled, true)
		out.Enabled[ppt] = enabled
		if !enabled {
			continue
		}
		enabledCount++
		r := defaults[ppt]
		if choice.Range != nil {
			r = *choice.Range
		}
		if err := r.validate(); err != nil {
			return nil, n.invalid(key, fmt.Sprintf("%s: %v", ppt, err))
		}
		out.Ranges[ppt] = r
		if mode == ModePerEpic {
			c := countsOr(choice.Counts, DefaultCounts())
			if err := c.validate(); err != nil {
				return nil, n.invalid(key, fmt.Sprintf("%s: %v", ppt, err))
			}
			out.PerPPT[ppt] = c
		}
	}
	if enabledCount == 0 {
		return nil, nil
	}
	return out, nil
}

func (n *Normalizer) frequency(key string, sel Selection, mode CountMode, global Counts) (*Frequency, error) {
	counts, err := n.epicCounts(key, sel.Counts, mode, global)
	if err != nil {
		return nil, err
	}
	names := sel.Frequencies
	if names == nil {
		for _, opt := range FrequencyTable {
			names = append(names, opt.Name)
		}
	}
	codes, unknown := frequencyCodes(names)
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, n.invalid(key, "unknown payment frequency "+strings.Join(unknown, ", "))
	}
	return &Frequency{Counts: counts, Codes: codes}, nil
}

func (n *Normalizer) tiered(key string, sel Selection, mode CountMode, global Counts) (*TieredRange, error) {
	out := &TieredRange{}
	if sp := sel.Tiers.SinglePay; enabledOr(sp.Enabled, true) {
		counts, err := n.epicCounts(key, sp.Counts, mode, global)
		if err != nil {
			return nil, err
		}
		lo := int64Or(sp.Min, DefaultSinglePayMin)
		hi := int64Or(sp.Max, DefaultSinglePayMax)
		if lo < 0 {
			return nil, n.invalid(key, fmt.Sprintf("%s minimum must be >= 0", TierSinglePay))
		}
		if hi < lo {
			return nil, n.invalid(key, fmt.Sprintf("%s maximum %d is below minimum %d", TierSinglePay, hi, lo))
		}
		out.SinglePay = &Tier{Min: lo, Max: &hi, Counts: counts}
	}
	if oth := sel.Tiers.Others; enabledOr(oth.Enabled, true) {
		counts, err := n.epicCounts(key, oth.Counts, mode, global)
		if err != nil {
			return nil, err
		}
		lo := int64Or(oth.Min, DefaultOthersMin)
		if lo < 0 {
			return nil, n.invalid(key, fmt.Sprintf("%s minimum must be >= 0", TierOthers))
		}
		out.Others = &Tier{Min: lo, Counts: counts}
	}
	return out, nil
}

// epicCounts picks the global pair in uniform mode and the epic's own pair in
// per-epic mode.
func (n *Normalizer) epicCounts(key string, own *Counts, mode CountMode, global Counts) (Counts, error) {
	if mode != ModePerEpic {
		return global, nil
	}
	c := countsOr(own, DefaultCounts())
	if err := c.validate(); err != nil {
		return Counts{}, n.invalid(key, err.Error())
	}
	return c, nil
}

func (n *Normalizer) invalid(key, reason string) error {
	return &ValidationError{Family: n.family, Key: key, Reason: reason}
}

func int64Or(v *int64, fallback int64) int64 {
	if v == nil {
		return fallback
	}
	return *v
}

// Plan holds the two independently normalized specs of one run.
type Plan struct {
	Base  *Spec
	Rider *Spec
}

// Empty reports whether neither family has a contributing epic.
func (p Plan) Empty() bool {
	return p.Base.Empty() && p.Rider.Empty()
}

// NormalizePlan normalizes the base and rider families. A nil rider map yields
// an empty rider spec.
func NormalizePlan(base, rider Map, baseIn, riderIn Input) (Plan, error) {
	baseSpec, err := NewNormalizer(FamilyBase).Normalize(base, baseIn)
	if err != nil {
		return Plan{}, err
	}
	riderSpec, err := NewNormalizer(FamilyRider).Normalize(rider, riderIn)
	if err != nil {
		return Plan{}, err
	}
	return Plan{Base: baseSpec, Rider: riderSpec}, nil
}

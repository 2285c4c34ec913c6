package epic

// Payload is the kind-specific normalized configuration of one epic. The set
// of implementations is closed: *PPTRanged, *Frequency, *TieredRange and
// *Generic.
type Payload interface {
	Kind() Kind
	// Wire renders the payload as the nested map handed to interpreted
	// product modules.
	Wire() map[string]any
	sealed()
}

// PPTRanged carries per-variant ranges for age and term epics. Counts is set
// in uniform mode, PerPPT in per-epic mode.
type PPTRanged struct {
	Mode    CountMode
	Ranges  map[PPT]Range
	Enabled map[PPT]bool
	Counts  Counts
	PerPPT  map[PPT]Counts
}

func (*PPTRanged) Kind() Kind { return KindPPTRanged }
func (*PPTRanged) sealed()    {}

// EnabledVariants lists the enabled variants in PPTOrder.
func (p *PPTRanged) EnabledVariants() []PPT {
	var out []PPT
	for _, ppt := range PPTOrder {
		if p.Enabled[ppt] {
			out = append(out, ppt)
		}
	}
	return out
}

// CountsFor returns the count pair that applies to variant ppt.
func (p *PPTRanged) CountsFor(ppt PPT) Counts {
	if p.Mode == ModePerEpic {
		return p.PerPPT[ppt]
	}
	return p.Counts
}

func (p *PPTRanged) Wire() map[string]any {
	ranges := make(map[string]any, len(p.Ranges))
	enabled := make(map[string]any, len(PPTOrder))
	for _, ppt := range PPTOrder {
		enabled[string(ppt)] = p.Enabled[ppt]
		if r, ok := p.Ranges[ppt]; ok {
			ranges[string(ppt)] = []int{r.Min, r.Max}
		}
	}
	out := map[string]any{
		"ppt_age_ranges": ranges,
		"ppt_enabled":    enabled,
	}
	if p.Mode == ModePerEpic {
		pos := make(map[string]any, len(p.PerPPT))
		neg := make(map[string]any, len(p.PerPPT))
		for ppt, c := range p.PerPPT {
			pos[string(ppt)] = c.Positive
			neg[string(ppt)] = c.Negative
		}
		out["ppt_pos_counts"] = pos
		out["ppt_neg_counts"] = neg
		return out
	}
	out["positive"] = p.Counts.Positive
	out["negative"] = p.Counts.Negative
	return out
}

// Frequency carries the selected payment frequency codes.
type Frequency struct {
	Counts Counts
	Codes  []int
}

func (*Frequency) Kind() Kind { return KindFrequency }
func (*Frequency) sealed()    {}

func (f *Frequency) Wire() map[string]any {
	codes := make([]int, len(f.Codes))
	copy(codes, f.Codes)
	return map[string]any{
		"positive":                  f.Counts.Positive,
		"negative":                  f.Counts.Negative,
		"payment_frequency_options": codes,
	}
}

// Tier is one enabled sum-assured band. Max is nil when no upper bound is
// enforced.
type Tier struct {
	Min    int64
	Max    *int64
	Counts Counts
}

func (t *Tier) wire() map[string]any {
	out := map[string]any{
		"min_val":  t.Min,
		"positive": t.Counts.Positive,
		"negative": t.Counts.Negative,
	}
	if t.Max != nil {
		out["max_val"] = *t.Max
	}
	return out
}

// TieredRange carries the enabled sum-assured tiers; a disabled tier is nil.
type TieredRange struct {
	SinglePay *Tier
	Others    *Tier
}

func (*TieredRange) Kind() Kind { return KindTieredRange }
func (*TieredRange) sealed()    {}

func (t *TieredRange) Wire() map[string]any {
	out := map[string]any{}
	if t.SinglePay != nil {
		out[TierSinglePay] = t.SinglePay.wire()
	}
	if t.Others != nil {
		out[TierOthers] = t.Others.wire()
	}
	return out
}

// Generic carries just a count pair.
type Generic struct {
	Counts Counts
}

func (*Generic) Kind() Kind { return KindGeneric }
func (*Generic) sealed()    {}

func (g *Generic) Wire() map[string]any {
	return map[string]any{
		"positive": g.Counts.Positive,
		"negative": g.Counts.Negative,
	}
}

// Spec is the normalized configuration of one epic family. Keys keep the
// epic map's iteration order. A nil *Spec behaves as an empty spec.
type Spec struct {
	Family  Family
	keys    []string
	entries map[string]Payload
}

// NewSpec returns an empty spec for family.
func NewSpec(family Family) *Spec {
	return &Spec{Family: family, entries: map[string]Payload{}}
}

func (s *Spec) put(key string, p Payload) {
	if _, exists := s.entries[key]; !exists {
		s.keys = append(s.keys, key)
	}
	s.entries[key] = p
}

// Keys returns the epic keys represented by the spec.
func (s *Spec) Keys() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// Len reports the number of epics in the spec.
func (s *Spec) Len() int {
	if s == nil {
		return 0
	}
	return len(s.keys)
}

// Empty reports whether no epic contributed.
func (s *Spec) Empty() bool {
	return s.Len() == 0
}

// Get returns the payload for key.
func (s *Spec) Get(key string) (Payload, bool) {
	if s == nil {
		return nil, false
	}
	p, ok := s.entries[key]
	return p, ok
}

// Wire renders the whole spec as epic key -> payload map.
func (s *Spec) Wire() map[string]any {
	out := make(map[string]any, s.Len())
	if s == nil {
		return out
	}
	for _, key := range s.keys {
		out[key] = s.entries[key].Wire()
	}
	return out
}

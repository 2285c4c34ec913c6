package epic

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testMap = Map{
	{Key: KeyEntryAge, Description: "Entry age validation"},
	{Key: KeyPolicyTerm, Description: "Policy term validation"},
	{Key: KeyPaymentFrequency, Description: "Payment frequency"},
	{Key: KeySumAssured, Description: "Sum assured bands"},
	{Key: "Gender", Description: "Gender rules"},
}

func onlyPPT(enabled PPT, r *Range) map[PPT]PPTSelection {
	out := make(map[PPT]PPTSelection, len(PPTOrder))
	for _, ppt := range PPTOrder {
		if ppt == enabled {
			out[ppt] = PPTSelection{Enabled: Bool(true), Range: r}
			continue
		}
		out[ppt] = PPTSelection{Enabled: Bool(false)}
	}
	return out
}

func TestNormalizeNothingSelectedIsEmpty(t *testing.T) {
	for _, mode := range []CountMode{ModeUniform, ModePerEpic} {
		spec, err := NewNormalizer(FamilyBase).Normalize(testMap, Input{Mode: mode})
		require.NoError(t, err)
		assert.True(t, spec.Empty(), "mode %s", mode)
		assert.Empty(t, spec.Wire())
	}
}

func TestNormalizeDropsPPTEpicWithoutEnabledVariant(t *testing.T) {
	disabled := make(map[PPT]PPTSelection, len(PPTOrder))
	for _, ppt := range PPTOrder {
		disabled[ppt] = PPTSelection{Enabled: Bool(false)}
	}
	in := Input{Epics: map[string]Selection{
		KeyEntryAge: {Selected: Bool(true), PPT: disabled},
		"Gender":    {Selected: Bool(true)},
	}}
	spec, err := NewNormalizer(FamilyBase).Normalize(testMap, in)
	require.NoError(t, err)
	_, ok := spec.Get(KeyEntryAge)
	assert.False(t, ok)
	assert.Equal(t, []string{"Gender"}, spec.Keys())
}

func TestNormalizeUniformIgnoresPerEpicCounts(t *testing.T) {
	in := Input{
		Mode:   ModeUniform,
		Global: &Counts{Positive: 7, Negative: 2},
		Epics: map[string]Selection{
			"Gender": {Selected: Bool(true), Counts: &Counts{Positive: 99, Negative: 99}},
		},
	}
	spec, err := NewNormalizer(FamilyBase).Normalize(testMap, in)
	require.NoError(t, err)
	p, ok := spec.Get("Gender")
	require.True(t, ok)
	assert.Equal(t, &Generic{Counts: Counts{Positive: 7, Negative: 2}}, p)
}

func TestNormalizePerEpicUsesOwnCounts(t *testing.T) {
	in := Input{
		Mode:   ModePerEpic,
		Global: &Counts{Positive: 7, Negative: 2},
		Epics: map[string]Selection{
			"Gender":            {Selected: Bool(true), Counts: &Counts{Positive: 3, Negative: 1}},
			KeyPaymentFrequency: {Selected: Bool(true), Counts: &Counts{Positive: 4, Negative: 0}},
		},
	}
	spec, err := NewNormalizer(FamilyBase).Normalize(testMap, in)
	require.NoError(t, err)
	g, _ := spec.Get("Gender")
	assert.Equal(t, Counts{Positive: 3, Negative: 1}, g.(*Generic).Counts)
	f, _ := spec.Get(KeyPaymentFrequency)
	assert.Equal(t, Counts{Positive: 4, Negative: 0}, f.(*Frequency).Counts)
}

func TestFrequencyCodesFollowTableOrder(t *testing.T) {
	in := Input{Epics: map[string]Selection{
		KeyPaymentFrequency: {Selected: Bool(true), Frequencies: []string{FrequencyMonthly, FrequencyAnnual}},
	}}
	spec, err := NewNormalizer(FamilyBase).Normalize(testMap, in)
	require.NoError(t, err)
	p, _ := spec.Get(KeyPaymentFrequency)
	assert.Equal(t, []int{1, 4}, p.(*Frequency).Codes)
}

func TestFrequencyDefaultsToAllOptions(t *testing.T) {
	in := Input{SelectAll: true}
	spec, err := NewNormalizer(FamilyBase).Normalize(Map{{Key: KeyPaymentFrequency}}, in)
	require.NoError(t, err)
	p, _ := spec.Get(KeyPaymentFrequency)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, p.(*Frequency).Codes)
}

func TestFrequencyRejectsUnknownName(t *testing.T) {
	in := Input{Epics: map[string]Selection{
		KeyPaymentFrequency: {Selected: Bool(true), Frequencies: []string{"Weekly"}},
	}}
	_, err := NewNormalizer(FamilyBase).Normalize(testMap, in)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, KeyPaymentFrequency, verr.Key)
}

func TestEntryAgeScenario(t *testing.T) {
	in := Input{
		Mode:   ModeUniform,
		Global: &Counts{Positive: 5, Negative: 5},
		Epics: map[string]Selection{
			KeyEntryAge: {Selected: Bool(true), PPT: onlyPPT(PPTSinglePay, &Range{18, 65})},
		},
	}
	spec, err := NewNormalizer(FamilyBase).Normalize(Map{{Key: KeyEntryAge, Description: "Entry age"}}, in)
	require.NoError(t, err)
	want := map[string]any{
		KeyEntryAge: map[string]any{
			"ppt_age_ranges": map[string]any{"Single Pay": []int{18, 65}},
			"ppt_enabled": map[string]any{
				"Single Pay":                    true,
				"Limited Pay (5 pay)":           false,
				"Limited Pay (10 pay)":          false,
				"Limited Pay (15 pay)":          false,
				"Limited Pay (Pay till age 60)": false,
				"Regular Pay":                   false,
			},
			"positive": 5,
			"negative": 5,
		},
	}
	if diff := cmp.Diff(want, spec.Wire()); diff != "" {
		t.Fatalf("wire mismatch (-want +got):\n%s", diff)
	}
}

func TestPerEpicPPTCounts(t *testing.T) {
	ppt := onlyPPT(PPTRegular, nil)
	regular := ppt[PPTRegular]
	regular.Counts = &Counts{Positive: 2, Negative: 8}
	ppt[PPTRegular] = regular
	in := Input{Mode: ModePerEpic, Epics: map[string]Selection{
		KeyPolicyTerm: {Selected: Bool(true), PPT: ppt},
	}}
	spec, err := NewNormalizer(FamilyBase).Normalize(testMap, in)
	require.NoError(t, err)
	p, _ := spec.Get(KeyPolicyTerm)
	ranged := p.(*PPTRanged)
	assert.Equal(t, []PPT{PPTRegular}, ranged.EnabledVariants())
	assert.Equal(t, Range{5, 67}, ranged.Ranges[PPTRegular])
	assert.Equal(t, Counts{Positive: 2, Negative: 8}, ranged.CountsFor(PPTRegular))
	wire := p.Wire()
	assert.Equal(t, map[string]any{"Regular Pay": 2}, wire["ppt_pos_counts"])
	assert.Equal(t, map[string]any{"Regular Pay": 8}, wire["ppt_neg_counts"])
	assert.NotContains(t, wire, "positive")
}

func TestMaturityDefaultsDifferByFamily(t *testing.T) {
	m := Map{{Key: KeyMaturityAge}}
	in := Input{SelectAll: true}
	plan, err := NormalizePlan(m, m, in, in)
	require.NoError(t, err)
	base, _ := plan.Base.Get(KeyMaturityAge)
	rider, _ := plan.Rider.Get(KeyMaturityAge)
	assert.Equal(t, Range{24, 85}, base.(*PPTRanged).Ranges[PPTLimited5])
	assert.Equal(t, Range{19, 75}, rider.(*PPTRanged).Ranges[PPTLimited5])
	assert.Equal(t, FamilyBase, plan.Base.Family)
	assert.Equal(t, FamilyRider, plan.Rider.Family)
}

func TestSumAssuredOthersOnlyScenario(t *testing.T) {
	in := Input{
		Global: &Counts{Positive: 3, Negative: 2},
		Epics: map[string]Selection{
			KeySumAssured: {Selected: Bool(true), Tiers: TierSelections{
				SinglePay: TierSelection{Enabled: Bool(false)},
				Others:    TierSelection{Enabled: Bool(true), Min: Int64(5_000_000)},
			}},
		},
	}
	spec, err := NewNormalizer(FamilyBase).Normalize(testMap, in)
	require.NoError(t, err)
	want := map[string]any{
		TierOthers: map[string]any{"min_val": int64(5_000_000), "positive": 3, "negative": 2},
	}
	p, _ := spec.Get(KeySumAssured)
	if diff := cmp.Diff(want, p.Wire()); diff != "" {
		t.Fatalf("tier mismatch (-want +got):\n%s", diff)
	}
}

func TestSumAssuredDefaultsAndPerTierCounts(t *testing.T) {
	in := Input{Mode: ModePerEpic, Epics: map[string]Selection{
		KeySumAssured: {Selected: Bool(true), Tiers: TierSelections{
			SinglePay: TierSelection{Counts: &Counts{Positive: 1, Negative: 1}},
		}},
	}}
	spec, err := NewNormalizer(FamilyBase).Normalize(testMap, in)
	require.NoError(t, err)
	p, _ := spec.Get(KeySumAssured)
	tiers := p.(*TieredRange)
	require.NotNil(t, tiers.SinglePay)
	require.NotNil(t, tiers.Others)
	assert.Equal(t, DefaultSinglePayMin, tiers.SinglePay.Min)
	assert.Equal(t, DefaultSinglePayMax, *tiers.SinglePay.Max)
	assert.Equal(t, Counts{Positive: 1, Negative: 1}, tiers.SinglePay.Counts)
	assert.Equal(t, DefaultCounts(), tiers.Others.Counts)
	assert.Nil(t, tiers.Others.Max)
}

func TestSumAssuredRejectsInvertedSinglePayTier(t *testing.T) {
	in := Input{Epics: map[string]Selection{
		KeySumAssured: {Selected: Bool(true), Tiers: TierSelections{
			SinglePay: TierSelection{Min: Int64(6_000_000), Max: Int64(5_000_000)},
		}},
	}}
	_, err := NewNormalizer(FamilyBase).Normalize(testMap, in)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Reason, "below minimum")
}

func TestNormalizeRejectsBadInputs(t *testing.T) {
	cases := map[string]Input{
		"negative global": {Global: &Counts{Positive: -1}},
		"unknown mode":    {Mode: "sometimes"},
		"inverted range": {Epics: map[string]Selection{
			KeyEntryAge: {Selected: Bool(true), PPT: onlyPPT(PPTSinglePay, &Range{70, 20})},
		}},
		"unknown ppt": {Epics: map[string]Selection{
			KeyEntryAge: {Selected: Bool(true), PPT: map[PPT]PPTSelection{"Quarter Pay": {}}},
		}},
		"negative per-epic": {Mode: ModePerEpic, Epics: map[string]Selection{
			"Gender": {Selected: Bool(true), Counts: &Counts{Negative: -3}},
		}},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewNormalizer(FamilyRider).Normalize(testMap, in)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, FamilyRider, verr.Family)
		})
	}
}

func TestSpecKeysFollowMapOrder(t *testing.T) {
	spec, err := NewNormalizer(FamilyBase).Normalize(testMap, Input{SelectAll: true})
	require.NoError(t, err)
	assert.Equal(t, testMap.Keys(), spec.Keys())
}

func TestSelectAllCanBeOverriddenPerEpic(t *testing.T) {
	in := Input{SelectAll: true, Epics: map[string]Selection{
		"Gender": {Selected: Bool(false)},
	}}
	spec, err := NewNormalizer(FamilyBase).Normalize(testMap, in)
	require.NoError(t, err)
	_, ok := spec.Get("Gender")
	assert.False(t, ok)
	assert.Equal(t, 4, spec.Len())
}

func TestNormalizeRejectsDuplicateEpicKeys(t *testing.T) {
	_, err := NewNormalizer(FamilyBase).Normalize(Map{{Key: "A"}, {Key: "A"}}, Input{})
	require.Error(t, err)
}

func TestNilSpecIsEmpty(t *testing.T) {
	var s *Spec
	assert.True(t, s.Empty())
	assert.Nil(t, s.Keys())
	assert.Empty(t, s.Wire())
	assert.True(t, Plan{}.Empty())
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindPPTRanged, KindOf(KeyPremiumPayingTerm))
	assert.Equal(t, KindFrequency, KindOf(KeyPaymentFrequency))
	assert.Equal(t, KindTieredRange, KindOf(KeySumAssured))
	assert.Equal(t, KindGeneric, KindOf("Smoker"))
}

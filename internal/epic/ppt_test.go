package epic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestRangeUnmarshalShapes(t *testing.T) {
	var doc struct {
		Seq    Range `yaml:"seq"`
		Map    Range `yaml:"map"`
		Scalar Range `yaml:"scalar"`
	}
	src := "seq: [18, 65]\nmap: {min: 5, max: 42}\nscalar: 10\n"
	require.NoError(t, yaml.Unmarshal([]byte(src), &doc))
	assert.Equal(t, Range{18, 65}, doc.Seq)
	assert.Equal(t, Range{5, 42}, doc.Map)
	assert.Equal(t, Range{10, 10}, doc.Scalar)

	var bad struct {
		R Range `yaml:"r"`
	}
	assert.Error(t, yaml.Unmarshal([]byte("r: [1, 2, 3]"), &bad))
}

func TestDefaultTablesCoverEveryPPT(t *testing.T) {
	keys := []string{KeyEntryAge, KeyPolicyTerm, KeyMaturityAge, KeyPremiumPayingTerm}
	for _, family := range []Family{FamilyBase, FamilyRider} {
		for _, key := range keys {
			table, ok := DefaultRanges(family, key)
			require.True(t, ok, key)
			for _, ppt := range PPTOrder {
				r, ok := table[ppt]
				require.True(t, ok, "%s %s %s", family, key, ppt)
				assert.LessOrEqual(t, r.Min, r.Max)
			}
		}
	}
	_, ok := DefaultRanges(FamilyBase, "Gender")
	assert.False(t, ok)
}

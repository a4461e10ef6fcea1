package knowledge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTotals(t *testing.T) {
	kb := New()
	assert.Equal(t, 39, kb.Len())
	assert.InDelta(t, 0.75, kb.TotalWeight("Teknik Informatika"), 1e-9)
	assert.InDelta(t, 0.5, kb.TotalWeight("Teknik Elektro"), 1e-9)
	assert.InDelta(t, 0.7, kb.TotalWeight("Statistika"), 1e-9)

	majors := kb.Majors()
	require.Len(t, majors, 16)
	assert.Equal(t, "Teknik Informatika", majors[0])
	assert.Equal(t, "Desain Komunikasi Visual", majors[len(majors)-1])
}

func TestRulesIsSnapshot(t *testing.T) {
	kb := New()
	rules := kb.Rules()
	rules[0].Weight = 99
	assert.Equal(t, 0.25, kb.Rules()[0].Weight)
	assert.Equal(t, 39, kb.Len())
}

func TestAddRule(t *testing.T) {
	kb := New()
	d := Descriptor{Interest: "Artistic", Explanation: "music", Major: "Musik", Weight: weight(0.5)}
	kb.AddRule(FromDescriptor("Musik-Art", d), &d)

	assert.Equal(t, 40, kb.Len())
	assert.Equal(t, 0.5, kb.TotalWeight("Musik"))
	assert.Equal(t, "Musik", kb.Majors()[len(kb.Majors())-1])

	stored, ok := kb.Descriptor("Musik-Art")
	require.True(t, ok)
	assert.Equal(t, "music", stored.Explanation)

	// built-in rules carry no descriptor
	_, ok = kb.Descriptor("DKV-Art")
	assert.False(t, ok)
}

func TestAddRuleAllowsDuplicateNames(t *testing.T) {
	kb := NewWithRules(nil)
	kb.AddRule(Rule{Name: "dup", Major: "A", Weight: 0.2, Condition: BuildCondition(Descriptor{})}, nil)
	kb.AddRule(Rule{Name: "dup", Major: "B", Weight: 0.3, Condition: BuildCondition(Descriptor{})}, nil)
	require.Equal(t, 2, kb.Len())

	require.True(t, kb.UpdateRule("dup", Update{Weight: weight(0.9)}))
	rules := kb.Rules()
	assert.Equal(t, 0.9, rules[0].Weight)
	assert.Equal(t, 0.3, rules[1].Weight)

	require.True(t, kb.DeleteRule("dup"))
	rules = kb.Rules()
	require.Len(t, rules, 1)
	assert.Equal(t, "B", rules[0].Major)
	assert.Equal(t, []string{"B"}, kb.Majors())
}

func TestDeleteRule(t *testing.T) {
	kb := New()
	require.True(t, kb.DeleteRule("Elektro-Riset"))
	assert.Equal(t, 38, kb.Len())
	assert.InDelta(t, 0.3, kb.TotalWeight("Teknik Elektro"), 1e-9)

	assert.False(t, kb.DeleteRule("Elektro-Riset"))
	assert.False(t, kb.DeleteRule("missing"))

	require.True(t, kb.DeleteRule("Elektro-STEM"))
	assert.NotContains(t, kb.Majors(), "Teknik Elektro")
	assert.NotContains(t, kb.Totals(), "Teknik Elektro")
}

func TestDeleteRuleDropsDescriptor(t *testing.T) {
	kb := New()
	d := Descriptor{Interest: "Social", Major: "Sosiologi", Weight: weight(0.3)}
	kb.AddRule(FromDescriptor("Sosio", d), &d)
	require.True(t, kb.DeleteRule("Sosio"))
	_, ok := kb.Descriptor("Sosio")
	assert.False(t, ok)
}

func TestUpdateRuleMajorAndWeight(t *testing.T) {
	kb := New()
	require.True(t, kb.UpdateRule("TI-Creative-Blend", Update{Major: "Desain Komunikasi Visual", Weight: weight(0.1)}))

	var updated Rule
	for _, r := range kb.Rules() {
		if r.Name == "TI-Creative-Blend" {
			updated = r
		}
	}
	assert.Equal(t, "Desain Komunikasi Visual", updated.Major)
	assert.Equal(t, 0.1, updated.Weight)
	assert.Equal(t, CustomCondition, updated.Condition.Kind)
	assert.InDelta(t, 0.6, kb.TotalWeight("Teknik Informatika"), 1e-9)
	assert.InDelta(t, 0.65, kb.TotalWeight("Desain Komunikasi Visual"), 1e-9)

	assert.False(t, kb.UpdateRule("missing", Update{Weight: weight(0.1)}))
}

func TestUpdateRuleWithDescriptor(t *testing.T) {
	kb := New()
	d := Descriptor{Interest: "Social", Subject: "biology", Threshold: 70, Explanation: "rebuilt"}
	require.True(t, kb.UpdateRule("Kedokteran-Career", Update{Descriptor: &d}))

	rules := kb.Rules()
	var updated Rule
	for _, r := range rules {
		if r.Name == "Kedokteran-Career" {
			updated = r
		}
	}
	// major and weight fall back to the previous values
	assert.Equal(t, "Kedokteran", updated.Major)
	assert.Equal(t, 0.2, updated.Weight)
	assert.True(t, updated.Declarative())
	assert.Equal(t, "rebuilt", updated.Condition.Explanation)

	stored, ok := kb.Descriptor("Kedokteran-Career")
	require.True(t, ok)
	assert.Equal(t, 70.0, stored.Threshold)

	d2 := Descriptor{Explanation: "moved", Major: "Biologi", Weight: weight(0.4)}
	require.True(t, kb.UpdateRule("Kedokteran-Career", Update{Major: "ignored", Descriptor: &d2}))
	assert.InDelta(t, 0.35, kb.TotalWeight("Kedokteran"), 1e-9)
	assert.InDelta(t, 0.9, kb.TotalWeight("Biologi"), 1e-9)
}

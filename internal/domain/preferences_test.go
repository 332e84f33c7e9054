package domain

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestPreferenceSet_ResolveDefaults(t *testing.T) {
	assert.Equal(t, DefaultPreferences(), PreferenceSet{}.Resolve())

	p := PreferenceSet{Theme: strPtr(ThemeDark)}.Resolve()
	assert.Equal(t, ThemeDark, p.Theme)
	assert.True(t, p.EmailNotifications)
	assert.False(t, p.PushNotifications)
}

func TestPreferenceSet_MergeKeepsUnsetFields(t *testing.T) {
	stored := PreferenceSet{Theme: strPtr(ThemeDark), PushNotifications: boolPtr(true)}
	merged := stored.Merge(PreferenceSet{EmailNotifications: boolPtr(false)})

	assert.Equal(t, Preferences{Theme: ThemeDark, EmailNotifications: false, PushNotifications: true}, merged.Resolve())
	// the receiver is not mutated
	assert.Nil(t, stored.EmailNotifications)
}

// genPreferenceSet produces sparse preference sets with any combination of fields set.
func genPreferenceSet() gopter.Gen {
	return gopter.CombineGens(
		gen.IntRange(0, 2),
		gen.IntRange(0, 2),
		gen.IntRange(0, 2),
	).Map(func(v []interface{}) PreferenceSet {
		var s PreferenceSet
		switch v[0].(int) {
		case 1:
			s.Theme = strPtr(ThemeLight)
		case 2:
			s.Theme = strPtr(ThemeDark)
		}
		if b := v[1].(int); b > 0 {
			s.EmailNotifications = boolPtr(b == 2)
		}
		if b := v[2].(int); b > 0 {
			s.PushNotifications = boolPtr(b == 2)
		}
		return s
	})
}

func TestPreferenceSet_MergeProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("applying the same patch twice equals applying it once", prop.ForAll(
		func(stored, patch PreferenceSet) bool {
			once := stored.Merge(patch).Resolve()
			twice := stored.Merge(patch).Merge(patch).Resolve()
			return once == twice
		},
		genPreferenceSet(),
		genPreferenceSet(),
	))

	properties.Property("resolved set is always complete and valid", prop.ForAll(
		func(stored, patch PreferenceSet) bool {
			p := stored.Merge(patch).Resolve()
			return IsValidTheme(p.Theme)
		},
		genPreferenceSet(),
		genPreferenceSet(),
	))

	properties.Property("patched fields win over stored and defaults", prop.ForAll(
		func(stored, patch PreferenceSet) bool {
			p := stored.Merge(patch).Resolve()
			if patch.Theme != nil && p.Theme != *patch.Theme {
				return false
			}
			if patch.EmailNotifications != nil && p.EmailNotifications != *patch.EmailNotifications {
				return false
			}
			if patch.PushNotifications != nil && p.PushNotifications != *patch.PushNotifications {
				return false
			}
			return true
		},
		genPreferenceSet(),
		genPreferenceSet(),
	))

	properties.TestingRun(t)
}

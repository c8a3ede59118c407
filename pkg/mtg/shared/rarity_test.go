package shared_test

import (
	"testing"

	"github.com/latoulicious/mtgmeta/pkg/mtg/shared"
	"github.com/stretchr/testify/assert"
)

// TestNormalizeRarity tests that long names and short codes resolve to the
// same canonical code regardless of casing
func TestNormalizeRarity(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"rare", shared.RarityRare, true},
		{"R", shared.RarityRare, true},
		{"r", shared.RarityRare, true},
		{"Mythic", shared.RarityMythic, true},
		{"watermark", shared.RarityWatermark, true},
		{"wm", shared.RarityWatermark, true},
		{"timeshifted", shared.RarityTimeshift, true},
		{"timeshift", shared.RarityTimeshift, true},
		{"80", shared.Rarity80, true},
		{"legendary", "", false},
		{"", "", false},
	}

	for _, tc := range cases {
		got, ok := shared.NormalizeRarity(tc.in)
		assert.Equal(t, tc.ok, ok, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

// TestValidRarities tests that unknown entries are dropped while order is
// preserved for the rest
func TestValidRarities(t *testing.T) {
	got := shared.ValidRarities([]string{"common", "bogus", "U", "rare", "WM"})
	assert.Equal(t, []string{"C", "U", "R", "WM"}, got)

	assert.Nil(t, shared.ValidRarities(nil))
	assert.Nil(t, shared.ValidRarities([]string{"bogus"}))
}

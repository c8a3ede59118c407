package shared

import "strings"

// Rarity codes recognized for symbol assets.
const (
	RarityCommon    = "C"
	RarityUncommon  = "U"
	RarityRare      = "R"
	RarityMythic    = "M"
	RaritySpecial   = "S"
	RarityTimeshift = "T"
	RarityBonus     = "B"
	RarityHalf      = "H"
	Rarity80        = "80"
	RarityWatermark = "WM"
)

// rarityNames maps long rarity names to their short codes.
var rarityNames = map[string]string{
	"common":      RarityCommon,
	"uncommon":    RarityUncommon,
	"rare":        RarityRare,
	"mythic":      RarityMythic,
	"special":     RaritySpecial,
	"timeshifted": RarityTimeshift,
	"timeshift":   RarityTimeshift,
	"bonus":       RarityBonus,
	"half":        RarityHalf,
	"watermark":   RarityWatermark,
	"80":          Rarity80,
}

// rarityCodes is the fixed set of valid short codes.
var rarityCodes = map[string]struct{}{
	Rarity80:        {},
	RarityBonus:     {},
	RarityCommon:    {},
	RarityHalf:      {},
	RarityMythic:    {},
	RarityRare:      {},
	RaritySpecial:   {},
	RarityTimeshift: {},
	RarityUncommon:  {},
	RarityWatermark: {},
}

// rarityDisplay maps short codes to display names.
var rarityDisplay = map[string]string{
	Rarity80:        "80",
	RarityBonus:     "Bonus",
	RarityCommon:    "Common",
	RarityHalf:      "Half",
	RarityMythic:    "Mythic",
	RarityRare:      "Rare",
	RaritySpecial:   "Special",
	RarityTimeshift: "Timeshifted",
	RarityUncommon:  "Uncommon",
	RarityWatermark: "Watermark",
}

// RarityNameMap returns every rarity short code mapped to its display
// name. The map is a copy and safe to mutate.
func RarityNameMap() map[string]string {
	out := make(map[string]string, len(rarityDisplay))
	for code, name := range rarityDisplay {
		out[code] = name
	}
	return out
}

// NormalizeRarity resolves a rarity string, either a short code ("R") or a
// long name ("rare"), to its canonical short code. Unrecognized strings
// report ok=false rather than an error.
func NormalizeRarity(rarity string) (string, bool) {
	if code, ok := rarityNames[strings.ToLower(rarity)]; ok {
		return code, true
	}
	code := strings.ToUpper(rarity)
	if _, ok := rarityCodes[code]; ok {
		return code, true
	}
	return "", false
}

// ValidRarities filters a list of rarity strings down to normalized valid
// codes, preserving manifest order and dropping unknowns.
func ValidRarities(rarities []string) []string {
	var out []string
	for _, r := range rarities {
		if code, ok := NormalizeRarity(r); ok {
			out = append(out, code)
		}
	}
	return out
}

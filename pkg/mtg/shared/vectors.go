package shared

// Default mtg-vectors repository locations.
const (
	VectorsRepo     = "https://raw.githubusercontent.com/Investigamer/mtg-vectors/main"
	VectorsManifest = VectorsRepo + "/manifest.json"
	VectorsPackage  = VectorsRepo + "/package.zip"

	// VectorsVariantSet is the manifest variant covering set symbols.
	VectorsVariantSet = "set"
)

// SymbolManifestMeta carries the manifest's own version fingerprint and the
// canonical package location.
type SymbolManifestMeta struct {
	Date    string `json:"date"`
	Version string `json:"version"`
	URI     string `json:"uri"`
}

// SetSymbolManifest describes the set-symbol portion of the manifest.
//
// Symbols maps a top-level symbol code to its supported rarities. Aliases
// maps an aliased symbol code to the top-level code owning its assets.
// Routes maps a set code to the symbol code it should resolve to when
// automatic matching is known to fail.
type SetSymbolManifest struct {
	Symbols map[string][]string `json:"symbols"`
	Aliases map[string]string   `json:"aliases"`
	Routes  map[string]string   `json:"routes"`
}

// WatermarkSymbolManifest describes the freestanding watermark assets.
type WatermarkSymbolManifest struct {
	Symbols []string `json:"symbols"`
}

// SymbolManifest is the full manifest.json describing the symbol catalog.
type SymbolManifest struct {
	Meta      SymbolManifestMeta      `json:"meta"`
	Set       SetSymbolManifest       `json:"set"`
	Watermark WatermarkSymbolManifest `json:"watermark"`
}

package shared

// Scryfall endpoint locations.
const (
	ScryfallRoot     = "https://scryfall.com"
	ScryfallAPI      = "https://api.scryfall.com"
	ScryfallRootSets = ScryfallRoot + "/sets"
	ScryfallAPIBulk  = ScryfallAPI + "/bulk-data"
	ScryfallAPISets  = ScryfallAPI + "/sets"
)

// ScryfallSet is a Scryfall 'Set' object representing a group of related
// Magic cards.
type ScryfallSet struct {
	ArenaCode     string `json:"arena_code,omitempty"`
	Block         string `json:"block,omitempty"`
	BlockCode     string `json:"block_code,omitempty"`
	CardCount     int    `json:"card_count"`
	Code          string `json:"code"`
	Digital       bool   `json:"digital"`
	FoilOnly      bool   `json:"foil_only"`
	IconSvgURI    string `json:"icon_svg_uri"`
	ID            string `json:"id"`
	MtgoCode      string `json:"mtgo_code,omitempty"`
	Name          string `json:"name"`
	NonfoilOnly   bool   `json:"nonfoil_only"`
	Object        string `json:"object"`
	ParentSetCode string `json:"parent_set_code,omitempty"`
	PrintedSize   *int   `json:"printed_size,omitempty"`
	ReleasedAt    string `json:"released_at,omitempty"`
	ScryfallURI   string `json:"scryfall_uri"`
	SearchURI     string `json:"search_uri"`
	SetType       string `json:"set_type"`
	TcgplayerID   *int   `json:"tcgplayer_id,omitempty"`
	URI           string `json:"uri"`
}

// ScryfallSetListPage is one page of the Scryfall /sets list endpoint.
type ScryfallSetListPage struct {
	Object   string        `json:"object"`
	HasMore  bool          `json:"has_more"`
	NextPage string        `json:"next_page,omitempty"`
	Data     []ScryfallSet `json:"data"`
}

package shared

import "encoding/json"

// MTGJSON endpoint locations.
const (
	MtgjsonAPI         = "https://mtgjson.com/api/v5"
	MtgjsonAPIMeta     = MtgjsonAPI + "/Meta.json"
	MtgjsonAPISetList  = MtgjsonAPI + "/SetList.json"
	MtgjsonAPISetFiles = MtgjsonAPI + "/AllSetFiles.tar.gz"
)

// MtgjsonMeta describes the MTGJSON application meta data. The upstream
// version string already carries a build date, e.g. "5.2.2+20240101".
type MtgjsonMeta struct {
	Date    string `json:"date"`
	Version string `json:"version"`
}

// MtgjsonSetList describes the list-level summary of an individual set as
// found in SetList.json.
type MtgjsonSetList struct {
	BaseSetSize      int    `json:"baseSetSize"`
	Block            string `json:"block,omitempty"`
	Code             string `json:"code"`
	CodeV3           string `json:"codeV3,omitempty"`
	IsForeignOnly    bool   `json:"isForeignOnly,omitempty"`
	IsFoilOnly       bool   `json:"isFoilOnly"`
	IsNonFoilOnly    bool   `json:"isNonFoilOnly,omitempty"`
	IsOnlineOnly     bool   `json:"isOnlineOnly"`
	IsPaperOnly      bool   `json:"isPaperOnly,omitempty"`
	IsPartialPreview bool   `json:"isPartialPreview,omitempty"`
	KeyruneCode      string `json:"keyruneCode"`
	McmID            *int   `json:"mcmId,omitempty"`
	McmIDExtras      *int   `json:"mcmIdExtras,omitempty"`
	McmName          string `json:"mcmName,omitempty"`
	MtgoCode         string `json:"mtgoCode,omitempty"`
	Name             string `json:"name"`
	ParentCode       string `json:"parentCode,omitempty"`
	ReleaseDate      string `json:"releaseDate"`
	TcgplayerGroupID *int   `json:"tcgplayerGroupId,omitempty"`
	TotalSetSize     int    `json:"totalSetSize"`
	Type             string `json:"type"`
}

// MtgjsonSetDetail describes the per-set detail file {CODE}.json extracted
// from the AllSetFiles archive. Card and token payloads are kept raw; only
// their counts and set-level identifiers matter here.
type MtgjsonSetDetail struct {
	MtgjsonSetList
	CardsphereSetID *int              `json:"cardsphereSetId,omitempty"`
	Cards           []json.RawMessage `json:"cards,omitempty"`
	Tokens          []json.RawMessage `json:"tokens,omitempty"`
	TokenSetCode    string            `json:"tokenSetCode,omitempty"`
}

// MtgjsonEnvelope is the {meta, data} wrapper every MTGJSON file uses.
type MtgjsonEnvelope[T any] struct {
	Meta MtgjsonMeta `json:"meta"`
	Data T           `json:"data"`
}

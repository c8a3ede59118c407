package shared

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/latoulicious/mtgmeta/pkg/database/models"
)

// SetFlagsSchema groups the boolean flags of a Set API object.
type SetFlagsSchema struct {
	IsDigitalOnly bool `json:"is_digital_only"`
	IsFoilOnly    bool `json:"is_foil_only"`
	IsForeignOnly bool `json:"is_foreign_only"`
	IsNonfoilOnly bool `json:"is_nonfoil_only"`
	IsPaperOnly   bool `json:"is_paper_only"`
	IsPreview     bool `json:"is_preview"`
}

// SetURIScryfallSchema groups the Scryfall-related URIs of a Set API object.
type SetURIScryfallSchema struct {
	Icon   string `json:"icon,omitempty"`
	Object string `json:"object"`
	Page   string `json:"page"`
	Parent string `json:"parent,omitempty"`
	Search string `json:"search"`
}

// SetSchema is the API representation of a unified Set record.
type SetSchema struct {
	Block            string               `json:"block,omitempty"`
	BlockCode        string               `json:"block_code,omitempty"`
	Code             string               `json:"code"`
	CodeAlt          string               `json:"code_alt,omitempty"`
	CodeArena        string               `json:"code_arena,omitempty"`
	CodeKeyrune      string               `json:"code_keyrune,omitempty"`
	CodeMtgo         string               `json:"code_mtgo,omitempty"`
	CodeParent       string               `json:"code_parent,omitempty"`
	CodeSymbol       string               `json:"code_symbol"`
	CountCards       int                  `json:"count_cards"`
	CountPrinted     *int                 `json:"count_printed,omitempty"`
	CountTokens      int                  `json:"count_tokens"`
	DateReleased     string               `json:"date_released"`
	Flags            SetFlagsSchema       `json:"flags"`
	ID               string               `json:"id"`
	IDCardmarket     *int                 `json:"id_cardmarket,omitempty"`
	IDCardmarketXtra *int                 `json:"id_cardmarket_extras,omitempty"`
	IDCardsphere     *int                 `json:"id_cardsphere,omitempty"`
	IDTcgplayer      *int                 `json:"id_tcgplayer,omitempty"`
	Name             string               `json:"name"`
	NameCardmarket   string               `json:"name_cardmarket,omitempty"`
	Type             string               `json:"type"`
	URIsScryfall     SetURIScryfallSchema `json:"uris_scryfall"`
	URIsSymbol       map[string]string    `json:"uris_symbol,omitempty"`
}

// WatermarkURISchema groups watermark asset URIs: standalone watermarks
// keyed by name and set watermark symbols keyed by collection code.
type WatermarkURISchema struct {
	Watermarks    map[string]string `json:"watermarks"`
	WatermarksSet map[string]string `json:"watermarks_set"`
}

// MetaSchema is the API representation of a version ledger entry.
type MetaSchema struct {
	Resource string `json:"resource"`
	Version  string `json:"version"`
	Date     string `json:"date"`
	URI      string `json:"uri"`
}

// ErrorSchema is the typed error object returned by the read API.
type ErrorSchema struct {
	Object  string `json:"object"`
	Status  int    `json:"status"`
	Details string `json:"details"`
}

// NewError builds an ErrorSchema with the object tag set.
func NewError(status int, details string) ErrorSchema {
	return ErrorSchema{Object: "error", Status: status, Details: details}
}

// SetMapper converts Set database models to API schemas
type SetMapper struct{}

// NewSetMapper creates a new set mapper
func NewSetMapper() *SetMapper {
	return &SetMapper{}
}

// ToSchema converts a database Set to its API schema. symbolURIs and
// symbolCode describe the resolved symbol collection; the caller supplies
// the DEFAULT collection's values when the stored reference is null.
func (m *SetMapper) ToSchema(set *models.Set, symbolURIs map[string]string, symbolCode string) SetSchema {
	return SetSchema{
		Block:            set.Block,
		BlockCode:        set.BlockCode,
		Code:             set.Code,
		CodeAlt:          set.CodeAlt,
		CodeArena:        set.CodeArena,
		CodeKeyrune:      set.CodeKeyrune,
		CodeMtgo:         set.CodeMtgo,
		CodeParent:       set.CodeParent,
		CodeSymbol:       strings.ToLower(symbolCode),
		CountCards:       set.CountCards,
		CountPrinted:     set.CountPrinted,
		CountTokens:      set.CountTokens,
		DateReleased:     set.DateReleased.Format("2006-01-02"),
		Flags:            m.toFlags(set),
		ID:               set.IDOracle,
		IDCardmarket:     set.IDCardmarket,
		IDCardmarketXtra: set.IDCardmarketExtras,
		IDCardsphere:     set.IDCardsphere,
		IDTcgplayer:      set.IDTcgplayer,
		Name:             set.Name,
		NameCardmarket:   set.NameCardmarket,
		Type:             string(set.Type),
		URIsScryfall:     m.toScryfallURIs(set),
		URIsSymbol:       symbolURIs,
	}
}

func (m *SetMapper) toFlags(set *models.Set) SetFlagsSchema {
	return SetFlagsSchema{
		IsDigitalOnly: set.IsDigitalOnly,
		IsFoilOnly:    set.IsFoilOnly,
		IsForeignOnly: set.IsForeignOnly,
		IsNonfoilOnly: set.IsNonfoilOnly,
		IsPaperOnly:   set.IsPaperOnly,
		IsPreview:     set.IsPreview,
	}
}

func (m *SetMapper) toScryfallURIs(set *models.Set) SetURIScryfallSchema {
	search := url.Values{}
	search.Set("q", fmt.Sprintf("e:%s", set.Code))
	search.Set("include_extras", "true")
	search.Set("include_variations", "true")
	search.Set("unique", "prints")
	search.Set("order", "set")

	obj := SetURIScryfallSchema{
		Icon:   set.ScryfallIconURI,
		Object: fmt.Sprintf("%s/%s", ScryfallAPISets, set.IDOracle),
		Page:   fmt.Sprintf("%s/%s", ScryfallRootSets, set.Code),
		Search: fmt.Sprintf("%s/cards/search?%s", ScryfallAPI, search.Encode()),
	}
	if set.CodeParent != "" {
		obj.Parent = fmt.Sprintf("%s/%s", ScryfallAPISets, set.CodeParent)
	}
	return obj
}

// MetaMapper converts Meta database models to API schemas
type MetaMapper struct{}

// NewMetaMapper creates a new meta mapper
func NewMetaMapper() *MetaMapper {
	return &MetaMapper{}
}

// ToSchema converts a database Meta entry to its API schema.
func (m *MetaMapper) ToSchema(meta *models.Meta) MetaSchema {
	return MetaSchema{
		Resource: meta.Resource,
		Version:  meta.VersionFormatted(),
		Date:     meta.DateDisplayed(),
		URI:      meta.URI,
	}
}

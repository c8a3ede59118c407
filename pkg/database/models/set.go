package models

import (
	"time"

	"github.com/google/uuid"
)

// SetType enumerates the recognized Scryfall set types.
type SetType string

const (
	SetTypeCore            SetType = "core"
	SetTypeExpansion       SetType = "expansion"
	SetTypeMasters         SetType = "masters"
	SetTypeAlchemy         SetType = "alchemy"
	SetTypeMasterpiece     SetType = "masterpiece"
	SetTypeArsenal         SetType = "arsenal"
	SetTypeFromTheVault    SetType = "from_the_vault"
	SetTypeSpellbook       SetType = "spellbook"
	SetTypePremiumDeck     SetType = "premium_deck"
	SetTypeDuelDeck        SetType = "duel_deck"
	SetTypeDraftInnovation SetType = "draft_innovation"
	SetTypeTreasureChest   SetType = "treasure_chest"
	SetTypeCommander       SetType = "commander"
	SetTypePlanechase      SetType = "planechase"
	SetTypeArchenemy       SetType = "archenemy"
	SetTypeVanguard        SetType = "vanguard"
	SetTypeFunny           SetType = "funny"
	SetTypeStarter         SetType = "starter"
	SetTypeBox             SetType = "box"
	SetTypePromo           SetType = "promo"
	SetTypeToken           SetType = "token"
	SetTypeMemorabilia     SetType = "memorabilia"
	SetTypeMinigame        SetType = "minigame"
)

// Set is the unified data model for a Magic: the Gathering set,
// merged from Scryfall and MTGJSON source records.
type Set struct {
	ID uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`

	// Block linkage
	Block     string `gorm:"index"`
	BlockCode string

	// Codes
	Code        string `gorm:"uniqueIndex;not null"` // lowercase canonical identifier
	CodeAlt     string
	CodeArena   string
	CodeKeyrune string
	CodeMtgo    string
	CodeParent  string

	// Counts
	CountCards   int
	CountPrinted *int
	CountTokens  int

	// Dates
	DateReleased time.Time

	// Upstream identifiers
	IDCardmarket       *int
	IDCardmarketExtras *int
	IDCardsphere       *int
	IDOracle           string `gorm:"uniqueIndex"` // Scryfall set id
	IDTcgplayer        *int

	// Names
	Name           string `gorm:"index;not null"`
	NameCardmarket string

	// Flags
	IsDigitalOnly bool
	IsFoilOnly    bool
	IsForeignOnly bool
	IsNonfoilOnly bool
	IsPaperOnly   bool
	IsPreview     bool

	// Scryfall specific data
	ScryfallIconURI string

	// Symbol resolution
	SymbolID *uuid.UUID        `gorm:"type:uuid"`
	Symbol   *SymbolCollection `gorm:"foreignKey:SymbolID;constraint:OnDelete:SET NULL"`

	Type SetType `gorm:"default:expansion"`

	CreatedAt time.Time `gorm:"default:now()"`
	UpdatedAt time.Time `gorm:"default:now()"`
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultSymbolCode is the catch-all symbol collection used when a set
// cannot be matched to a real collection.
const DefaultSymbolCode = "DEFAULT"

// SymbolCollection records the rarity-specific SVG assets available for one
// or more set codes. A collection with a parent is an alias: it owns no
// assets of its own and defers entirely to the parent's code. Parent chains
// are exactly one level deep.
type SymbolCollection struct {
	ID       uuid.UUID         `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Code     string            `gorm:"uniqueIndex;not null"` // uppercase symbol code
	ParentID *uuid.UUID        `gorm:"type:uuid"`
	Parent   *SymbolCollection `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE"`

	// Supported rarity codes, e.g. ["C","U","R","M"]
	Supported []string `gorm:"serializer:json"`

	CreatedAt time.Time `gorm:"default:now()"`
	UpdatedAt time.Time `gorm:"default:now()"`
}

// Alias returns the parent's code if a parent exists, otherwise the
// collection's own code. Asset paths and URIs are always built from
// the alias.
func (s *SymbolCollection) Alias() string {
	if s.Parent != nil {
		return s.Parent.Code
	}
	return s.Code
}

// Supports reports whether the collection supports the given rarity code.
func (s *SymbolCollection) Supports(rarity string) bool {
	for _, r := range s.Supported {
		if r == rarity {
			return true
		}
	}
	return false
}

// SymbolWatermark is a named watermark asset. Watermarks with a parent
// collection reuse that collection's WM rarity asset instead of owning a
// standalone file.
type SymbolWatermark struct {
	ID       uuid.UUID         `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name     string            `gorm:"uniqueIndex;not null"` // lowercase watermark name
	ParentID *uuid.UUID        `gorm:"type:uuid"`
	Parent   *SymbolCollection `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"default:now()"`
	UpdatedAt time.Time `gorm:"default:now()"`
}

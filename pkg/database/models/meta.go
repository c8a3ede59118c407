package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Recognized ledger resource names. Vector manifest variants use the
// "mtg-vectors[<variant>]" form.
const (
	ResourceMtgjson  = "mtgjson"
	ResourceScryfall = "scryfall"
	ResourceSets     = "sets"
	ResourceSymbols  = "symbols"
)

// VectorsResource returns the ledger resource name for an mtg-vectors
// manifest variant.
func VectorsResource(variant string) string {
	return fmt.Sprintf("mtg-vectors[%s]", variant)
}

// Meta is a version ledger entry tracking when a data or asset resource
// was last updated. One row exists per logical resource name.
type Meta struct {
	ID       uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Resource string    `gorm:"uniqueIndex;not null"`
	Date     time.Time `gorm:"not null"`
	Version  string    `gorm:"not null"` // raw upstream version string
	URI      string

	CreatedAt time.Time `gorm:"default:now()"`
	UpdatedAt time.Time `gorm:"default:now()"`
}

// DateDisplayed returns the date formatted for display to the user.
func (m *Meta) DateDisplayed() string {
	return m.Date.Format("2006-01-02")
}

// DateFormatted returns the date formatted for use in version strings.
func (m *Meta) DateFormatted() string {
	return m.Date.Format("20060102")
}

// VersionFormatted returns the formatted version string (version+date),
// e.g. 1.1.0+20240101. This is the comparison key used to decide whether
// a re-sync is necessary.
func (m *Meta) VersionFormatted() string {
	return fmt.Sprintf("%s+%s", m.Version, m.DateFormatted())
}

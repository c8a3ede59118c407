package database

import (
	"github.com/latoulicious/mtgmeta/pkg/database/models"
	"gorm.io/gorm"
)

// DatabaseManager owns schema migration and table-level maintenance
// for the entity store.
type DatabaseManager struct {
	db *gorm.DB
}

// NewDatabaseManager creates a new database manager and migrates the
// entity tables.
func NewDatabaseManager(gormDB *gorm.DB) (*DatabaseManager, error) {
	if err := Migrate(gormDB); err != nil {
		return nil, err
	}
	return &DatabaseManager{db: gormDB}, nil
}

// Migrate auto-migrates all entity tables.
func Migrate(gormDB *gorm.DB) error {
	return gormDB.AutoMigrate(
		&models.SymbolCollection{},
		&models.SymbolWatermark{},
		&models.Set{},
		&models.Meta{},
	)
}

// Close closes the underlying database connection
func (dm *DatabaseManager) Close() error {
	sqlDB, err := dm.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// ClearSets removes every Set row. Sets are never deleted by normal sync
// operation, only by this explicit full-clear.
func (dm *DatabaseManager) ClearSets() error {
	return dm.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Set{}).Error
}

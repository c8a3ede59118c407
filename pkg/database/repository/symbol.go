package repository

import (
	"errors"

	"github.com/latoulicious/mtgmeta/pkg/database/models"
	"github.com/latoulicious/mtgmeta/pkg/mtg"
	"gorm.io/gorm"
)

// SymbolRepository handles database operations for symbol collections
// and watermarks
type SymbolRepository struct {
	db *gorm.DB
}

var _ mtg.SymbolRepository = (*SymbolRepository)(nil)

func NewSymbolRepository(db *gorm.DB) *SymbolRepository {
	return &SymbolRepository{db: db}
}

func (r *SymbolRepository) GetAllCollections() ([]models.SymbolCollection, error) {
	var collections []models.SymbolCollection
	if err := r.db.Preload("Parent").Order("code").Find(&collections).Error; err != nil {
		return nil, err
	}
	return collections, nil
}

func (r *SymbolRepository) GetCollectionByCode(code string) (*models.SymbolCollection, error) {
	var collection models.SymbolCollection
	err := r.db.Preload("Parent").First(&collection, "code = ?", code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, mtg.ErrNotFound
		}
		return nil, err
	}
	return &collection, nil
}

func (r *SymbolRepository) UpsertCollection(collection *models.SymbolCollection) error {
	var existing models.SymbolCollection
	err := r.db.First(&existing, "code = ?", collection.Code).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if createErr := r.db.Create(collection).Error; createErr != nil {
			if errors.Is(createErr, gorm.ErrDuplicatedKey) {
				return r.UpsertCollection(collection)
			}
			return createErr
		}
		return nil
	}

	collection.ID = existing.ID
	collection.CreatedAt = existing.CreatedAt
	return r.db.Model(&models.SymbolCollection{}).
		Where("id = ?", existing.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(collection).Error
}

// PruneCollections deletes every collection whose code is not in keep.
func (r *SymbolRepository) PruneCollections(keep []string) error {
	if len(keep) == 0 {
		return r.db.Session(&gorm.Session{AllowGlobalUpdate: true}).
			Delete(&models.SymbolCollection{}).Error
	}
	return r.db.Where("code NOT IN ?", keep).Delete(&models.SymbolCollection{}).Error
}

func (r *SymbolRepository) GetAllWatermarks() ([]models.SymbolWatermark, error) {
	var watermarks []models.SymbolWatermark
	if err := r.db.Preload("Parent").Order("name").Find(&watermarks).Error; err != nil {
		return nil, err
	}
	return watermarks, nil
}

func (r *SymbolRepository) GetWatermarkByName(name string) (*models.SymbolWatermark, error) {
	var watermark models.SymbolWatermark
	err := r.db.Preload("Parent").Preload("Parent.Parent").First(&watermark, "name = ?", name).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, mtg.ErrNotFound
		}
		return nil, err
	}
	return &watermark, nil
}

func (r *SymbolRepository) UpsertWatermark(watermark *models.SymbolWatermark) error {
	var existing models.SymbolWatermark
	err := r.db.First(&existing, "name = ?", watermark.Name).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if createErr := r.db.Create(watermark).Error; createErr != nil {
			if errors.Is(createErr, gorm.ErrDuplicatedKey) {
				return r.UpsertWatermark(watermark)
			}
			return createErr
		}
		return nil
	}

	watermark.ID = existing.ID
	watermark.CreatedAt = existing.CreatedAt
	return r.db.Model(&models.SymbolWatermark{}).
		Where("id = ?", existing.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(watermark).Error
}

// PruneWatermarks deletes every watermark whose name is not in keep.
func (r *SymbolRepository) PruneWatermarks(keep []string) error {
	if len(keep) == 0 {
		return r.db.Session(&gorm.Session{AllowGlobalUpdate: true}).
			Delete(&models.SymbolWatermark{}).Error
	}
	return r.db.Where("name NOT IN ?", keep).Delete(&models.SymbolWatermark{}).Error
}

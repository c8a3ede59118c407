package repository

import (
	"errors"

	"github.com/latoulicious/mtgmeta/pkg/database/models"
	"github.com/latoulicious/mtgmeta/pkg/mtg"
	"gorm.io/gorm"
)

// SetRepository handles database operations for the Set model
type SetRepository struct {
	db *gorm.DB
}

var _ mtg.SetRepository = (*SetRepository)(nil)

func NewSetRepository(db *gorm.DB) *SetRepository {
	return &SetRepository{db: db}
}

func (r *SetRepository) GetAllSets() ([]models.Set, error) {
	var sets []models.Set
	if err := r.db.Preload("Symbol").Preload("Symbol.Parent").Order("code").Find(&sets).Error; err != nil {
		return nil, err
	}
	return sets, nil
}

func (r *SetRepository) GetSetByCode(code string) (*models.Set, error) {
	var set models.Set
	err := r.db.Preload("Symbol").Preload("Symbol.Parent").First(&set, "code = ?", code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, mtg.ErrNotFound
		}
		return nil, err
	}
	return &set, nil
}

// UpsertSet updates the row matching the set's code in place, or inserts a
// new row when none exists. A duplicate-key race on insert is converted to
// an update rather than propagated.
func (r *SetRepository) UpsertSet(set *models.Set) error {
	var existing models.Set
	err := r.db.First(&existing, "code = ?", set.Code).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if createErr := r.db.Create(set).Error; createErr != nil {
			if errors.Is(createErr, gorm.ErrDuplicatedKey) {
				return r.UpsertSet(set)
			}
			return createErr
		}
		return nil
	}

	set.ID = existing.ID
	set.CreatedAt = existing.CreatedAt
	return r.db.Model(&models.Set{}).
		Where("id = ?", existing.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(set).Error
}

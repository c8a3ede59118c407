package repository

import (
	"errors"

	"github.com/latoulicious/mtgmeta/pkg/database/models"
	"github.com/latoulicious/mtgmeta/pkg/mtg"
	"gorm.io/gorm"
)

// MetaRepository handles database operations for the Meta version ledger
type MetaRepository struct {
	db *gorm.DB
}

var _ mtg.MetaRepository = (*MetaRepository)(nil)

func NewMetaRepository(db *gorm.DB) *MetaRepository {
	return &MetaRepository{db: db}
}

func (r *MetaRepository) GetAllMeta() ([]models.Meta, error) {
	var metas []models.Meta
	if err := r.db.Order("resource").Find(&metas).Error; err != nil {
		return nil, err
	}
	return metas, nil
}

func (r *MetaRepository) GetMetaByResource(resource string) (*models.Meta, error) {
	var meta models.Meta
	err := r.db.First(&meta, "resource = ?", resource).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, mtg.ErrNotFound
		}
		return nil, err
	}
	return &meta, nil
}

func (r *MetaRepository) UpsertMeta(meta *models.Meta) error {
	var existing models.Meta
	err := r.db.First(&existing, "resource = ?", meta.Resource).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if createErr := r.db.Create(meta).Error; createErr != nil {
			if errors.Is(createErr, gorm.ErrDuplicatedKey) {
				return r.UpsertMeta(meta)
			}
			return createErr
		}
		return nil
	}

	meta.ID = existing.ID
	meta.CreatedAt = existing.CreatedAt
	return r.db.Model(&models.Meta{}).
		Where("id = ?", existing.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(meta).Error
}

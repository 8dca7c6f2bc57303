package siteconfig

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/scootershop-backend/internal/repo"
	"github.com/angelmondragon/scootershop-backend/pkg/db/models"
)

// Repository reads and writes site_config rows.
type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Get returns the value for key and whether it exists.
func (r *Repository) Get(ctx context.Context, key string) (string, bool, error) {
	var row models.SiteConfig
	err := r.DB(ctx).Where("key = ?", key).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return row.Value, true, nil
}

// Upsert inserts or replaces the value for key.
func (r *Repository) Upsert(ctx context.Context, key, value string) error {
	row := models.SiteConfig{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	return r.DB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
}

// UploadReferences returns the banner image path when one is set.
func (r *Repository) UploadReferences(ctx context.Context) ([]string, error) {
	value, ok, err := r.Get(ctx, KeyBanner)
	if err != nil || !ok || value == "" {
		return nil, err
	}
	return []string{value}, nil
}

package repositories

import (
	"errors"
	"fmt"

	"kitab/internal/models"

	"gorm.io/gorm"
)

// GORMSettingsRepository is a GORM implementation of SettingsRepository.
type GORMSettingsRepository struct {
	db *gorm.DB
}

// NewGORMSettingsRepository creates a new instance of GORMSettingsRepository.
func NewGORMSettingsRepository(db *gorm.DB) *GORMSettingsRepository {
	return &GORMSettingsRepository{
		db: db,
	}
}

// Get returns the singleton row, creating it with defaults when missing.
func (r *GORMSettingsRepository) Get() (*models.SiteSettings, error) {
	var settings models.SiteSettings
	err := r.db.First(&settings, "id = ?", models.SiteSettingsID).Error
	if err == nil {
		return &settings, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to get site settings: %w", err)
	}

	settings = models.SiteSettings{ID: models.SiteSettingsID, SiteName: "Kitab"}
	if err := r.db.Create(&settings).Error; err != nil {
		return nil, fmt.Errorf("failed to create site settings: %w", err)
	}
	return &settings, nil
}

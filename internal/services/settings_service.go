package services

import (
	"context"
	"fmt"
	"log"

	"kitab/internal/models"
	"kitab/internal/repositories"
	"kitab/pkg/cache"
)

const settingsCacheKey = "site:settings"

// SettingsService serves the site settings singleton, with an optional Redis
// read-through cache in front of it.
type SettingsService struct {
	settingsRepo repositories.SettingsRepository
	cache        *cache.Cache
}

// NewSettingsService creates a new SettingsService. cache may be nil.
func NewSettingsService(settingsRepo repositories.SettingsRepository, c *cache.Cache) *SettingsService {
	return &SettingsService{settingsRepo: settingsRepo, cache: c}
}

// GetSettings returns the settings row, creating it with defaults on first
// access. Cache failures fall back to the database.
func (s *SettingsService) GetSettings(ctx context.Context) (*models.SiteSettings, error) {
	var cached models.SiteSettings
	hit, err := s.cache.GetJSON(ctx, settingsCacheKey, &cached)
	if err != nil {
		log.Printf("Warning: settings cache read failed: %v", err)
	}
	if hit {
		return &cached, nil
	}

	settings, err := s.settingsRepo.Get()
	if err != nil {
		return nil, fmt.Errorf("failed to load site settings: %w", err)
	}

	if err := s.cache.SetJSON(ctx, settingsCacheKey, settings); err != nil {
		log.Printf("Warning: settings cache write failed: %v", err)
	}
	return settings, nil
}

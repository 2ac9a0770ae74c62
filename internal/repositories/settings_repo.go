package repositories

import "kitab/internal/models"

// SettingsRepository defines data access for the site settings singleton.
type SettingsRepository interface {
	// Get returns the settings row, creating it with defaults on first call.
	Get() (*models.SiteSettings, error)
}

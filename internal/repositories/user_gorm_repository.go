package repositories

import (
	"errors"
	"fmt"
	"strings"

	"kitab/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create creates a new user in the database.
func (r *GORMUserRepository) Create(user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if err := r.db.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// Update saves changes to an existing user.
func (r *GORMUserRepository) Update(user *models.User) error {
	if err := r.db.Save(user).Error; err != nil {
		return fmt.Errorf("failed to update user %s: %w", user.ID, err)
	}
	return nil
}

// GetByUsername retrieves a user by their username.
func (r *GORMUserRepository) GetByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user with username %s not found: %w", username, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by username %s: %w", username, err)
	}
	return &user, nil
}

// GetByEmail retrieves a user by their email.
func (r *GORMUserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user with email %s not found: %w", email, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by email %s: %w", email, err)
	}
	return &user, nil
}

// GetByID retrieves a user by their ID.
func (r *GORMUserRepository) GetByID(id string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user with ID %s not found: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by ID %s: %w", id, err)
	}
	return &user, nil
}

// GetOrCreateAnonymous resolves a device token, creating the identity on
// first sight.
func (r *GORMUserRepository) GetOrCreateAnonymous(deviceID string) (*models.AnonymousUser, error) {
	var anon models.AnonymousUser
	err := r.db.First(&anon, "device_id = ?", deviceID).Error
	if err == nil {
		return &anon, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to get anonymous user for device %s: %w", deviceID, err)
	}

	token := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	anon = models.AnonymousUser{
		ID:          uuid.New().String(),
		DeviceID:    deviceID,
		DisplayName: models.AnonymousDisplayName(token),
	}
	if err := r.db.Create(&anon).Error; err != nil {
		return nil, fmt.Errorf("failed to create anonymous user: %w", err)
	}
	return &anon, nil
}

// ListAddresses returns the user's active addresses, default first.
func (r *GORMUserRepository) ListAddresses(userID string) ([]models.Address, error) {
	var addresses []models.Address
	err := r.db.
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("is_default desc, created_at desc").
		Find(&addresses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses for user %s: %w", userID, err)
	}
	return addresses, nil
}

// GetAddress returns one active address scoped to the user, so callers
// cannot reach another user's addresses.
func (r *GORMUserRepository) GetAddress(userID, addressID string) (*models.Address, error) {
	var address models.Address
	err := r.db.First(&address, "id = ? AND user_id = ? AND is_active = ?", addressID, userID, true).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get address %s: %w", addressID, err)
	}
	return &address, nil
}

// CreateAddress saves an address, clearing other defaults when this one is
// marked default.
func (r *GORMUserRepository) CreateAddress(address *models.Address) error {
	if address.ID == "" {
		address.ID = uuid.New().String()
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if address.IsDefault {
			err := tx.Model(&models.Address{}).
				Where("user_id = ? AND is_default = ?", address.UserID, true).
				Update("is_default", false).Error
			if err != nil {
				return fmt.Errorf("failed to clear default addresses: %w", err)
			}
		}
		if err := tx.Create(address).Error; err != nil {
			return fmt.Errorf("failed to create address: %w", err)
		}
		return nil
	})
}

// UpdateAddress saves changes to an address, clearing other defaults when
// this one is marked default.
func (r *GORMUserRepository) UpdateAddress(address *models.Address) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if address.IsDefault {
			err := tx.Model(&models.Address{}).
				Where("user_id = ? AND is_default = ? AND id <> ?", address.UserID, true, address.ID).
				Update("is_default", false).Error
			if err != nil {
				return fmt.Errorf("failed to clear default addresses: %w", err)
			}
		}
		if err := tx.Save(address).Error; err != nil {
			return fmt.Errorf("failed to update address %s: %w", address.ID, err)
		}
		return nil
	})
}

// DeactivateAddress soft-deletes an address. The row stays around so past
// orders keep their snapshot source.
func (r *GORMUserRepository) DeactivateAddress(userID, addressID string) error {
	res := r.db.Model(&models.Address{}).
		Where("id = ? AND user_id = ? AND is_active = ?", addressID, userID, true).
		Updates(map[string]interface{}{"is_active": false, "is_default": false})
	if res.Error != nil {
		return fmt.Errorf("failed to deactivate address %s: %w", addressID, res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

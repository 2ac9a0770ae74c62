package repositories

import (
	"fmt"
	"strings"
	"sync"

	"kitab/internal/models"

	"github.com/google/uuid"
)

// MockUserRepository is an in-memory implementation of UserRepository.
type MockUserRepository struct {
	users     map[string]models.User
	anonymous map[string]models.AnonymousUser // keyed by device ID
	addresses map[string]models.Address
	mu        sync.RWMutex
}

// NewMockUserRepository creates a new instance of MockUserRepository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users:     make(map[string]models.User),
		anonymous: make(map[string]models.AnonymousUser),
		addresses: make(map[string]models.Address),
	}
}

// Create adds a new user.
func (r *MockUserRepository) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	r.users[user.ID] = *user
	return nil
}

// Update saves changes to an existing user.
func (r *MockUserRepository) Update(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return fmt.Errorf("user with ID %s not found: %w", user.ID, models.ErrNotFound)
	}
	r.users[user.ID] = *user
	return nil
}

// GetByUsername returns a user by username.
func (r *MockUserRepository) GetByUsername(username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user with username %s not found: %w", username, models.ErrNotFound)
}

// GetByEmail returns a user by email.
func (r *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user with email %s not found: %w", email, models.ErrNotFound)
}

// GetByID returns a user by ID.
func (r *MockUserRepository) GetByID(id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user with ID %s not found: %w", id, models.ErrNotFound)
	}
	return &u, nil
}

// GetOrCreateAnonymous resolves a device token to an anonymous identity.
func (r *MockUserRepository) GetOrCreateAnonymous(deviceID string) (*models.AnonymousUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if anon, ok := r.anonymous[deviceID]; ok {
		return &anon, nil
	}
	token := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	anon := models.AnonymousUser{
		ID:          uuid.New().String(),
		DeviceID:    deviceID,
		DisplayName: models.AnonymousDisplayName(token),
	}
	r.anonymous[deviceID] = anon
	return &anon, nil
}

// ListAddresses returns the user's active addresses.
func (r *MockUserRepository) ListAddresses(userID string) ([]models.Address, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var addresses []models.Address
	for _, a := range r.addresses {
		if a.UserID == userID && a.IsActive {
			addresses = append(addresses, a)
		}
	}
	return addresses, nil
}

// CreateAddress saves an address, clearing other defaults when needed.
func (r *MockUserRepository) CreateAddress(address *models.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if address.ID == "" {
		address.ID = uuid.New().String()
	}
	if address.IsDefault {
		for id, a := range r.addresses {
			if a.UserID == address.UserID && a.IsDefault {
				a.IsDefault = false
				r.addresses[id] = a
			}
		}
	}
	r.addresses[address.ID] = *address
	return nil
}

// GetAddress returns one of the user's active addresses.
func (r *MockUserRepository) GetAddress(userID, addressID string) (*models.Address, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.addresses[addressID]
	if !ok || a.UserID != userID || !a.IsActive {
		return nil, models.ErrNotFound
	}
	return &a, nil
}

// UpdateAddress saves changes, clearing other defaults when needed.
func (r *MockUserRepository) UpdateAddress(address *models.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.addresses[address.ID]; !ok {
		return models.ErrNotFound
	}
	if address.IsDefault {
		for id, a := range r.addresses {
			if a.UserID == address.UserID && a.IsDefault && a.ID != address.ID {
				a.IsDefault = false
				r.addresses[id] = a
			}
		}
	}
	r.addresses[address.ID] = *address
	return nil
}

// DeactivateAddress soft-deletes an address by clearing is_active.
func (r *MockUserRepository) DeactivateAddress(userID, addressID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.addresses[addressID]
	if !ok || a.UserID != userID || !a.IsActive {
		return models.ErrNotFound
	}
	a.IsActive = false
	a.IsDefault = false
	r.addresses[addressID] = a
	return nil
}

package repositories

import "kitab/internal/models"

// UserRepository defines data access for registered users, anonymous
// identities and saved addresses.
type UserRepository interface {
	Create(user *models.User) error
	Update(user *models.User) error
	GetByUsername(username string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)

	// GetOrCreateAnonymous resolves a device token to its anonymous identity,
	// creating one with a generated display name on first sight.
	GetOrCreateAnonymous(deviceID string) (*models.AnonymousUser, error)

	ListAddresses(userID string) ([]models.Address, error)
	// GetAddress returns one of the user's active addresses, or ErrNotFound.
	GetAddress(userID, addressID string) (*models.Address, error)
	// CreateAddress saves an address; marking it default clears the default
	// flag on the user's other addresses.
	CreateAddress(address *models.Address) error
	// UpdateAddress saves changes to an address, with the same default
	// handling as CreateAddress.
	UpdateAddress(address *models.Address) error
	// DeactivateAddress soft-deletes an address by clearing is_active. The
	// row stays so past orders keep their references.
	DeactivateAddress(userID, addressID string) error
}

package services

import (
	"kitab/internal/models"
	"kitab/internal/repositories"
)

// Identity is the resolved caller: an authenticated user ID, or a device
// token for anonymous visitors. When the client never sends a device header
// the handlers mint a fresh token per request, which means such a client gets
// a brand-new anonymous identity (and empty cart) on every call. That
// behavior is inherited deliberately and pinned by tests.
type Identity struct {
	UserID   string
	DeviceID string
}

// IsAuthenticated reports whether the caller is a registered user.
func (id Identity) IsAuthenticated() bool {
	return id.UserID != ""
}

// resolveCart maps an identity to exactly one cart, creating the anonymous
// identity and/or the cart on first use.
func resolveCart(cartRepo repositories.CartRepository, userRepo repositories.UserRepository, id Identity) (*models.Cart, error) {
	if id.IsAuthenticated() {
		return cartRepo.GetOrCreateByUser(id.UserID)
	}
	anon, err := userRepo.GetOrCreateAnonymous(id.DeviceID)
	if err != nil {
		return nil, err
	}
	return cartRepo.GetOrCreateByAnonymous(anon.ID)
}

// resolveOwner maps an identity to the mutually exclusive owner reference
// used by orders and reviews.
func resolveOwner(userRepo repositories.UserRepository, id Identity) (userID *string, anonymousUserID *string, err error) {
	if id.IsAuthenticated() {
		uid := id.UserID
		return &uid, nil, nil
	}
	anon, err := userRepo.GetOrCreateAnonymous(id.DeviceID)
	if err != nil {
		return nil, nil, err
	}
	return nil, &anon.ID, nil
}

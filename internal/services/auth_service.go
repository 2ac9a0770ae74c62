package services

import (
	"fmt"
	"log"
	"time"

	"kitab/internal/models"
	"kitab/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles business logic for authentication, profiles and saved
// addresses.
type AuthService struct {
	userRepo   repositories.UserRepository
	jwtSecret  []byte
	tokenDurat time.Duration // Duration for which JWT is valid
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: 24 * time.Hour,
	}
}

// RegisterUser registers a new user, hashes their password, and saves them.
func (s *AuthService) RegisterUser(user *models.User) error {
	if existingUser, err := s.userRepo.GetByUsername(user.Username); err == nil && existingUser != nil {
		return fmt.Errorf("username '%s' already taken", user.Username)
	}
	if existingUser, err := s.userRepo.GetByEmail(user.Email); err == nil && existingUser != nil {
		return fmt.Errorf("email '%s' already registered", user.Email)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashedPassword)

	if err := s.userRepo.Create(user); err != nil {
		return fmt.Errorf("failed to register user: %w", err)
	}
	return nil
}

// LoginUser authenticates a user and returns a JWT token if successful.
func (s *AuthService) LoginUser(username, password string) (string, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		// Do not reveal whether the username exists.
		return "", fmt.Errorf("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"exp":      time.Now().Add(s.tokenDurat).Unix(),
		"iat":      time.Now().Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken parses and validates a JWT token, returning the claims if
// valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})

	if err != nil {
		log.Printf("Token validation error: %v", err)
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}

// GetProfile returns the user record for the profile endpoint.
func (s *AuthService) GetProfile(userID string) (*models.User, error) {
	return s.userRepo.GetByID(userID)
}

// ProfileUpdate carries the editable profile fields. Nil fields are left
// untouched.
type ProfileUpdate struct {
	FirstName *string `json:"first_name" validate:"omitempty,max=100"`
	LastName  *string `json:"last_name" validate:"omitempty,max=100"`
	Email     *string `json:"email" validate:"omitempty,email"`
}

// UpdateProfile applies a partial update to the user's profile. Username and
// password never change through this path.
func (s *AuthService) UpdateProfile(userID string, update ProfileUpdate) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	if update.Email != nil && *update.Email != user.Email {
		if existingUser, err := s.userRepo.GetByEmail(*update.Email); err == nil && existingUser != nil {
			return nil, fmt.Errorf("email '%s' already registered", *update.Email)
		}
		user.Email = *update.Email
	}
	if update.FirstName != nil {
		user.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		user.LastName = *update.LastName
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}

// ListAddresses returns the user's saved addresses.
func (s *AuthService) ListAddresses(userID string) ([]models.Address, error) {
	return s.userRepo.ListAddresses(userID)
}

// CreateAddress saves a new address for the user.
func (s *AuthService) CreateAddress(userID string, address *models.Address) error {
	address.UserID = userID
	if address.AddressType == "" {
		address.AddressType = "home"
	}
	address.IsActive = true
	return s.userRepo.CreateAddress(address)
}

// UpdateAddress replaces the editable fields of one of the user's
// addresses. Addresses of other users surface as not found.
func (s *AuthService) UpdateAddress(userID, addressID string, updated *models.Address) (*models.Address, error) {
	address, err := s.userRepo.GetAddress(userID, addressID)
	if err != nil {
		return nil, err
	}

	address.Title = updated.Title
	address.AddressType = updated.AddressType
	if address.AddressType == "" {
		address.AddressType = "home"
	}
	address.FullAddress = updated.FullAddress
	address.City = updated.City
	address.District = updated.District
	address.PostalCode = updated.PostalCode
	address.Phone = updated.Phone
	address.IsDefault = updated.IsDefault

	if err := s.userRepo.UpdateAddress(address); err != nil {
		return nil, err
	}
	return address, nil
}

// DeleteAddress soft-deletes one of the user's addresses.
func (s *AuthService) DeleteAddress(userID, addressID string) error {
	return s.userRepo.DeactivateAddress(userID, addressID)
}

package services_test

import (
	"fmt"
	"io"
	"log"
	"os"
	"testing"
	"time"

	"kitab/internal/models"
	"kitab/internal/repositories"
	"kitab/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

// StubUserRepository is a testify mock of repositories.UserRepository.
type StubUserRepository struct {
	mock.Mock
}

func (m *StubUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *StubUserRepository) GetByUsername(username string) (*models.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *StubUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *StubUserRepository) GetByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *StubUserRepository) GetOrCreateAnonymous(deviceID string) (*models.AnonymousUser, error) {
	args := m.Called(deviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AnonymousUser), args.Error(1)
}

func (m *StubUserRepository) ListAddresses(userID string) ([]models.Address, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Address), args.Error(1)
}

func (m *StubUserRepository) Update(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *StubUserRepository) GetAddress(userID, addressID string) (*models.Address, error) {
	args := m.Called(userID, addressID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Address), args.Error(1)
}

func (m *StubUserRepository) CreateAddress(address *models.Address) error {
	args := m.Called(address)
	return args.Error(0)
}

func (m *StubUserRepository) UpdateAddress(address *models.Address) error {
	args := m.Called(address)
	return args.Error(0)
}

func (m *StubUserRepository) DeactivateAddress(userID, addressID string) error {
	args := m.Called(userID, addressID)
	return args.Error(0)
}

// TestMain is used to setup test environment
func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	log.SetOutput(io.Discard)
	code := m.Run()
	os.Exit(code)
}

func TestAuthService_RegisterUser(t *testing.T) {
	mockRepo := new(StubUserRepository)
	testJWTSecret := "test_jwt_secret"
	authService := services.NewAuthService(mockRepo, testJWTSecret)

	// Test successful registration
	user := &models.User{
		Username: "testuser",
		Email:    "test@example.com",
		Password: "password123",
	}

	mockRepo.On("GetByUsername", user.Username).Return(nil, nil).Once()
	mockRepo.On("GetByEmail", user.Email).Return(nil, nil).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil).Once()

	err := authService.RegisterUser(user)
	assert.NoError(t, err)
	assert.NotEqual(t, "password123", user.Password, "password must be hashed before storage")
	mockRepo.AssertExpectations(t)

	// Test username already taken
	mockRepo.On("GetByUsername", user.Username).Return(&models.User{ID: "1"}, nil).Once()
	err = authService.RegisterUser(user)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "username 'testuser' already taken")
	mockRepo.AssertExpectations(t)

	// Test email already registered
	mockRepo.On("GetByUsername", user.Username).Return(nil, nil).Once()
	mockRepo.On("GetByEmail", user.Email).Return(&models.User{ID: "1"}, nil).Once()
	err = authService.RegisterUser(user)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "email 'test@example.com' already registered")
	mockRepo.AssertExpectations(t)
}

func TestAuthService_LoginUser(t *testing.T) {
	mockRepo := new(StubUserRepository)
	testJWTSecret := "test_jwt_secret"
	authService := services.NewAuthService(mockRepo, testJWTSecret)

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{
		ID:       "user-123",
		Username: "testuser",
		Email:    "test@example.com",
		Password: string(hashedPassword),
	}

	// Test successful login
	mockRepo.On("GetByUsername", user.Username).Return(user, nil).Once()

	token, err := authService.LoginUser("testuser", "password123")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	// Validate the token structure
	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(testJWTSecret), nil
	})
	assert.NoError(t, err)
	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	assert.True(t, ok)
	assert.Equal(t, user.ID, claims["user_id"])
	assert.Equal(t, user.Username, claims["username"])
	mockRepo.AssertExpectations(t)

	// Test invalid credentials (wrong password)
	mockRepo.On("GetByUsername", user.Username).Return(user, nil).Once()
	_, err = authService.LoginUser("testuser", "wrongpassword")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid credentials")
	mockRepo.AssertExpectations(t)

	// Test invalid credentials (user not found)
	mockRepo.On("GetByUsername", "nonexistentuser").Return(nil, fmt.Errorf("user with username nonexistentuser not found")).Once()
	_, err = authService.LoginUser("nonexistentuser", "password123")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid credentials")
	mockRepo.AssertExpectations(t)
}

func TestAuthService_ValidateToken(t *testing.T) {
	mockRepo := new(StubUserRepository)
	testJWTSecret := "test_jwt_secret"
	authService := services.NewAuthService(mockRepo, testJWTSecret)

	// Generate a valid token
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  "user-123",
		"username": "testuser",
		"exp":      jwt.TimeFunc().Add(time.Hour).Unix(),
	})
	validTokenString, _ := token.SignedString([]byte(testJWTSecret))

	// Test valid token
	claims, err := authService.ValidateToken(validTokenString)
	assert.NoError(t, err)
	assert.NotNil(t, claims)
	assert.Equal(t, "user-123", claims["user_id"])
	assert.Equal(t, "testuser", claims["username"])

	// Test invalid token
	_, err = authService.ValidateToken("invalid.token.string")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid token")

	// Test expired token
	expiredToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  "user-123",
		"username": "testuser",
		"exp":      jwt.TimeFunc().Add(-time.Hour).Unix(),
	})
	expiredTokenString, _ := expiredToken.SignedString([]byte(testJWTSecret))
	_, err = authService.ValidateToken(expiredTokenString)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid token")
}

func TestAuthService_CreateAddress_Defaults(t *testing.T) {
	mockRepo := new(StubUserRepository)
	authService := services.NewAuthService(mockRepo, "test_jwt_secret")

	mockRepo.On("CreateAddress", mock.AnythingOfType("*models.Address")).Return(nil).Once()

	address := &models.Address{Title: "Home", FullAddress: "28 May St 5", City: "Baku"}
	err := authService.CreateAddress("user-123", address)
	assert.NoError(t, err)
	assert.Equal(t, "user-123", address.UserID)
	assert.Equal(t, "home", address.AddressType)
	assert.True(t, address.IsActive)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_UpdateProfile(t *testing.T) {
	mockRepo := new(StubUserRepository)
	authService := services.NewAuthService(mockRepo, "test_jwt_secret")

	user := &models.User{ID: "user-123", Username: "testuser", Email: "test@example.com", FirstName: "Old"}

	// Partial update: only the provided fields change.
	mockRepo.On("GetByID", "user-123").Return(user, nil).Once()
	mockRepo.On("Update", mock.AnythingOfType("*models.User")).Return(nil).Once()

	newName := "Nigar"
	updated, err := authService.UpdateProfile("user-123", services.ProfileUpdate{FirstName: &newName})
	assert.NoError(t, err)
	assert.Equal(t, "Nigar", updated.FirstName)
	assert.Equal(t, "test@example.com", updated.Email)
	assert.Equal(t, "testuser", updated.Username)
	mockRepo.AssertExpectations(t)

	// A new email must not collide with another account.
	mockRepo.On("GetByID", "user-123").Return(user, nil).Once()
	mockRepo.On("GetByEmail", "taken@example.com").Return(&models.User{ID: "other"}, nil).Once()

	takenEmail := "taken@example.com"
	_, err = authService.UpdateProfile("user-123", services.ProfileUpdate{Email: &takenEmail})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
	mockRepo.AssertExpectations(t)
}

func TestAuthService_UpdateAddress_ClearsOtherDefaults(t *testing.T) {
	userRepo := repositories.NewMockUserRepository()
	authService := services.NewAuthService(userRepo, "test_jwt_secret")

	first := &models.Address{Title: "Home", FullAddress: "28 May St 5", City: "Baku", IsDefault: true}
	assert.NoError(t, authService.CreateAddress("user-123", first))
	second := &models.Address{Title: "Work", FullAddress: "Nizami St 1", City: "Baku"}
	assert.NoError(t, authService.CreateAddress("user-123", second))

	updated, err := authService.UpdateAddress("user-123", second.ID, &models.Address{
		Title:       "Work",
		FullAddress: "Nizami St 2",
		City:        "Baku",
		IsDefault:   true,
	})
	assert.NoError(t, err)
	assert.Equal(t, "Nizami St 2", updated.FullAddress)
	assert.True(t, updated.IsDefault)
	assert.Equal(t, "home", updated.AddressType)

	addresses, err := authService.ListAddresses("user-123")
	assert.NoError(t, err)
	defaults := 0
	for _, a := range addresses {
		if a.IsDefault {
			defaults++
			assert.Equal(t, second.ID, a.ID)
		}
	}
	assert.Equal(t, 1, defaults)

	// Another user's address surfaces as not found.
	_, err = authService.UpdateAddress("someone-else", second.ID, &models.Address{
		Title: "Work", FullAddress: "Nizami St 3", City: "Baku",
	})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestAuthService_DeleteAddress_SoftDeletes(t *testing.T) {
	userRepo := repositories.NewMockUserRepository()
	authService := services.NewAuthService(userRepo, "test_jwt_secret")

	address := &models.Address{Title: "Home", FullAddress: "28 May St 5", City: "Baku"}
	assert.NoError(t, authService.CreateAddress("user-123", address))

	assert.ErrorIs(t, authService.DeleteAddress("someone-else", address.ID), models.ErrNotFound)

	assert.NoError(t, authService.DeleteAddress("user-123", address.ID))

	addresses, err := authService.ListAddresses("user-123")
	assert.NoError(t, err)
	assert.Empty(t, addresses)

	// Deleting twice reports not found; the address is already inactive.
	assert.ErrorIs(t, authService.DeleteAddress("user-123", address.ID), models.ErrNotFound)
}

package services_test

import (
	"fmt"
	"io"
	"log"
	"os"
	"testing"
	"time"

	"shopapi/internal/models"
	"shopapi/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(username string) (*models.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Update(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

// TestMain silences app-level logging for the whole suite.
func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	code := m.Run()
	os.Exit(code)
}

func TestAuthService_RegisterUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, "test_jwt_secret")

	user := &models.User{
		Email:    "test@example.com",
		Username: "testuser",
		Password: "password123",
	}

	// Successful registration hashes the password before storing.
	mockRepo.On("GetByEmail", user.Email).Return(nil, nil).Once()
	mockRepo.On("GetByUsername", user.Username).Return(nil, nil).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil).Once()

	err := authService.RegisterUser(user)
	assert.NoError(t, err)
	assert.NotEqual(t, "password123", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("password123")))
	mockRepo.AssertExpectations(t)

	// Email already registered.
	mockRepo.On("GetByEmail", user.Email).Return(&models.User{ID: "1"}, nil).Once()
	err = authService.RegisterUser(user)
	assert.ErrorIs(t, err, services.ErrEmailTaken)
	mockRepo.AssertExpectations(t)

	// Username already taken.
	mockRepo.On("GetByEmail", user.Email).Return(nil, nil).Once()
	mockRepo.On("GetByUsername", user.Username).Return(&models.User{ID: "1"}, nil).Once()
	err = authService.RegisterUser(user)
	assert.ErrorIs(t, err, services.ErrUsernameTaken)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_LoginUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	testJWTSecret := "test_jwt_secret"
	authService := services.NewAuthService(mockRepo, testJWTSecret)

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{
		ID:       "user-123",
		Email:    "test@example.com",
		Username: "testuser",
		Password: string(hashedPassword),
	}

	// Successful login returns both tokens.
	mockRepo.On("GetByEmail", user.Email).Return(user, nil).Once()

	loggedIn, tokens, err := authService.LoginUser("test@example.com", "password123")
	assert.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.NotEmpty(t, tokens.Access)
	assert.NotEmpty(t, tokens.Refresh)

	// The access token carries the right claims and kind.
	claims, err := authService.ValidateToken(tokens.Access, services.TokenTypeAccess)
	assert.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, services.TokenTypeAccess, claims.TokenType)

	// The refresh token is of refresh kind and is rejected as access.
	_, err = authService.ValidateToken(tokens.Refresh, services.TokenTypeRefresh)
	assert.NoError(t, err)
	_, err = authService.ValidateToken(tokens.Refresh, services.TokenTypeAccess)
	assert.ErrorIs(t, err, services.ErrInvalidToken)
	mockRepo.AssertExpectations(t)

	// Wrong password and unknown email must be indistinguishable.
	mockRepo.On("GetByEmail", user.Email).Return(user, nil).Once()
	_, _, wrongPassErr := authService.LoginUser("test@example.com", "wrongpassword")
	assert.ErrorIs(t, wrongPassErr, services.ErrInvalidCredentials)

	mockRepo.On("GetByEmail", "nobody@example.com").Return(nil, fmt.Errorf("user with email nobody@example.com not found")).Once()
	_, _, unknownErr := authService.LoginUser("nobody@example.com", "password123")
	assert.ErrorIs(t, unknownErr, services.ErrInvalidCredentials)

	assert.Equal(t, wrongPassErr.Error(), unknownErr.Error())
	mockRepo.AssertExpectations(t)
}

func TestAuthService_ValidateToken(t *testing.T) {
	mockRepo := new(MockUserRepository)
	testJWTSecret := "test_jwt_secret"
	authService := services.NewAuthService(mockRepo, testJWTSecret)

	// Garbage token.
	_, err := authService.ValidateToken("invalid.token.string", services.TokenTypeAccess)
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	// Token signed with another secret.
	otherService := services.NewAuthService(mockRepo, "another_secret")
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("pw12345678"), bcrypt.DefaultCost)
	mockRepo.On("GetByEmail", "a@b.com").Return(&models.User{ID: "u1", Email: "a@b.com", Password: string(hashedPassword)}, nil).Once()
	_, tokens, err := otherService.LoginUser("a@b.com", "pw12345678")
	assert.NoError(t, err)
	_, err = authService.ValidateToken(tokens.Access, services.TokenTypeAccess)
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	// Expired token.
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, services.SessionClaims{
		UserID:    "user-123",
		TokenType: services.TokenTypeAccess,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(-time.Hour).Unix(),
			IssuedAt:  time.Now().Add(-2 * time.Hour).Unix(),
		},
	})
	expiredString, _ := expired.SignedString([]byte(testJWTSecret))
	_, err = authService.ValidateToken(expiredString, services.TokenTypeAccess)
	assert.ErrorIs(t, err, services.ErrInvalidToken)
}

func TestAuthService_RefreshAccess(t *testing.T) {
	mockRepo := new(MockUserRepository)
	testJWTSecret := "test_jwt_secret"
	authService := services.NewAuthService(mockRepo, testJWTSecret)

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{ID: "user-123", Email: "test@example.com", Password: string(hashedPassword)}

	mockRepo.On("GetByEmail", user.Email).Return(user, nil).Once()
	_, tokens, err := authService.LoginUser(user.Email, "password123")
	assert.NoError(t, err)

	// A valid refresh token yields a fresh access token.
	access, err := authService.RefreshAccess(tokens.Refresh)
	assert.NoError(t, err)
	claims, err := authService.ValidateToken(access, services.TokenTypeAccess)
	assert.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	// An access token must not be accepted for refresh.
	_, err = authService.RefreshAccess(tokens.Access)
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	// An expired refresh token is rejected.
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, services.SessionClaims{
		UserID:    user.ID,
		TokenType: services.TokenTypeRefresh,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(-time.Minute).Unix(),
			IssuedAt:  time.Now().Add(-time.Hour).Unix(),
		},
	})
	expiredString, _ := expired.SignedString([]byte(testJWTSecret))
	_, err = authService.RefreshAccess(expiredString)
	assert.ErrorIs(t, err, services.ErrInvalidToken)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_Profile(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, "test_jwt_secret")

	user := &models.User{ID: "user-123", Email: "test@example.com", Username: "testuser"}

	mockRepo.On("GetByID", "user-123").Return(user, nil).Once()
	profile, err := authService.GetProfile("user-123")
	assert.NoError(t, err)
	assert.Equal(t, "testuser", profile.Username)

	// Updating mutable fields only.
	mockRepo.On("GetByID", "user-123").Return(user, nil).Once()
	mockRepo.On("Update", mock.AnythingOfType("*models.User")).Return(nil).Once()
	updated, err := authService.UpdateProfile("user-123", services.ProfileUpdate{
		Username: "renamed",
		Phone:    "555-0100",
		Address:  "1 Main St",
	})
	assert.NoError(t, err)
	assert.Equal(t, "renamed", updated.Username)
	assert.Equal(t, "555-0100", updated.Phone)
	assert.Equal(t, "test@example.com", updated.Email)
	mockRepo.AssertExpectations(t)
}

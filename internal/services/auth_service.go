package services

import (
	"errors"
	"fmt"
	"time"

	"shopapi/internal/models"
	"shopapi/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// Token types carried in the token_type claim. Refresh tokens must never
// be accepted where an access token is expected and vice versa.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Session token lifetimes. The access token matches its cookie max-age
// (1 hour), the refresh token its 7-day cookie.
const (
	AccessTokenTTL  = time.Hour
	RefreshTokenTTL = 7 * 24 * time.Hour
)

// SessionClaims is the JWT payload for both token kinds.
type SessionClaims struct {
	UserID    string `json:"user_id"`
	TokenType string `json:"token_type"`
	jwt.StandardClaims
}

// TokenPair holds the two tokens issued at login.
type TokenPair struct {
	Access  string
	Refresh string
}

// ProfileUpdate carries the mutable profile fields. Email and password
// are deliberately absent; they don't change through the profile surface.
type ProfileUpdate struct {
	Username string
	Phone    string
	Address  string
}

// AuthService handles registration, login, and session token issuance.
type AuthService struct {
	userRepo  repositories.UserRepository
	jwtSecret []byte
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		jwtSecret: []byte(jwtSecret),
	}
}

// RegisterUser registers a new user, hashes their password, and saves them to the database.
func (s *AuthService) RegisterUser(user *models.User) error {
	if existing, err := s.userRepo.GetByEmail(user.Email); err == nil && existing != nil {
		return ErrEmailTaken
	}
	if existing, err := s.userRepo.GetByUsername(user.Username); err == nil && existing != nil {
		return ErrUsernameTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashedPassword)

	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return ErrEmailTaken
		}
		return fmt.Errorf("failed to register user: %w", err)
	}
	return nil
}

// LoginUser authenticates by email and password and issues an
// access/refresh token pair. Unknown email and wrong password both
// return ErrInvalidCredentials so the response leaks nothing.
func (s *AuthService) LoginUser(email, password string) (*models.User, TokenPair, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, TokenPair{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, TokenPair{}, ErrInvalidCredentials
	}

	access, err := s.generateToken(user.ID, TokenTypeAccess, AccessTokenTTL)
	if err != nil {
		return nil, TokenPair{}, fmt.Errorf("failed to generate access token: %w", err)
	}
	refresh, err := s.generateToken(user.ID, TokenTypeRefresh, RefreshTokenTTL)
	if err != nil {
		return nil, TokenPair{}, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return user, TokenPair{Access: access, Refresh: refresh}, nil
}

// RefreshAccess exchanges a valid refresh token for a new access token.
// The refresh token itself is not rotated.
func (s *AuthService) RefreshAccess(refreshToken string) (string, error) {
	claims, err := s.ValidateToken(refreshToken, TokenTypeRefresh)
	if err != nil {
		return "", err
	}

	access, err := s.generateToken(claims.UserID, TokenTypeAccess, AccessTokenTTL)
	if err != nil {
		return "", fmt.Errorf("failed to generate access token: %w", err)
	}
	return access, nil
}

// ValidateToken parses and verifies a token and checks it is of the
// wanted kind. Any failure collapses into ErrInvalidToken.
func (s *AuthService) ValidateToken(tokenString, wantType string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.TokenType != wantType {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// GetProfile returns the user's own account record.
func (s *AuthService) GetProfile(userID string) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile applies the mutable profile fields and returns the
// updated record.
func (s *AuthService) UpdateProfile(userID string, update ProfileUpdate) (*models.User, error) {
	user, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	if update.Username != "" {
		user.Username = update.Username
	}
	user.Phone = update.Phone
	user.Address = update.Address

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}

func (s *AuthService) generateToken(userID, tokenType string, ttl time.Duration) (string, error) {
	claims := SessionClaims{
		UserID:    userID,
		TokenType: tokenType,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(ttl).Unix(),
			IssuedAt:  time.Now().Unix(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}

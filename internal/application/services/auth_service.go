package services

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/shopcanopy/splitrank-go/internal/domain/user"
	"github.com/shopcanopy/splitrank-go/internal/infrastructure/observability/logging"
	"github.com/shopcanopy/splitrank-go/internal/infrastructure/security"
	"github.com/shopcanopy/splitrank-go/pkg/config"
)

// ErrInvalidCredentials is returned for unknown emails and wrong passwords
// alike, so login responses do not leak which one failed.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService handles registration, login, and token validation for
// registered users.
type AuthService struct {
	users  user.Repository
	logger *logging.ChanneledLogger
}

// NewAuthService creates a new auth service.
func NewAuthService(users user.Repository, logger *logging.ChanneledLogger) *AuthService {
	return &AuthService{
		users:  users,
		logger: logger,
	}
}

// Register creates a new user and returns it with a signed token.
func (s *AuthService) Register(name, email, password string) (*user.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	existing, err := s.users.FindByEmail(email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check for existing user: %w", err)
	}
	if existing != nil {
		return nil, "", errors.New("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	u := &user.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(u); err != nil {
		return nil, "", err
	}

	token, err := security.GenerateUserToken(u.ID, config.JWTSecret, config.TokenLifetime)
	if err != nil {
		return nil, "", err
	}

	s.logger.Auth().Info("User registered", "userId", u.ID, "email", u.Email)
	return u, token, nil
}

// Login validates credentials and returns the user with a signed token.
func (s *AuthService) Login(email, password string) (*user.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	u, err := s.users.FindByEmail(email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to look up user: %w", err)
	}
	if u == nil {
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		s.logger.Auth().Warn("Login failed", "email", email)
		return nil, "", ErrInvalidCredentials
	}

	token, err := security.GenerateUserToken(u.ID, config.JWTSecret, config.TokenLifetime)
	if err != nil {
		return nil, "", err
	}

	s.logger.Auth().Info("User logged in", "userId", u.ID)
	return u, token, nil
}

// ValidateToken returns the user id carried by a bearer token, or 0 when
// the token is absent or invalid. Identity resolution never fails: an
// invalid token simply downgrades the request to a guest.
func (s *AuthService) ValidateToken(token string) int64 {
	if token == "" {
		return 0
	}

	claims, err := security.ValidateJWT(token, config.JWTSecret)
	if err != nil {
		s.logger.Auth().Debug("Token validation failed, treating request as guest", "error", err.Error())
		return 0
	}

	userID, err := security.UserIDFromClaims(claims)
	if err != nil {
		return 0
	}
	return userID
}

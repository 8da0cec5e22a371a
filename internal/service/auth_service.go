package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"sales-order-api/internal/model"
	"sales-order-api/internal/repository"
	"sales-order-api/internal/token"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// authService implements AuthService. It only resolves credentials and issues
// tokens; everything downstream works off the token's claims.
type authService struct {
	userRepo repository.UserRepository
	tokens   *token.Service
	logger   zerolog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(userRepo repository.UserRepository, tokens *token.Service, logger zerolog.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		logger:   logger.With().Str("service", "auth").Logger(),
	}
}

// Login verifies username/password and issues a bearer token carrying the
// user's roles. Unknown users and wrong passwords yield the same error so the
// response does not leak which usernames exist.
func (s *authService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		s.logger.Error().Err(err).Str("username", username).Msg("user lookup failed")
		return "", fmt.Errorf("failed to log in: %w", err)
	}

	if user == nil {
		s.logger.Warn().Str("username", username).Msg("login for unknown user")
		return "", model.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn().Str("username", username).Msg("password mismatch")
		return "", model.ErrInvalidCredentials
	}

	signed, err := s.tokens.Issue(user.Username, user.Roles)
	if err != nil {
		s.logger.Error().Err(err).Str("username", username).Msg("token issue failed")
		return "", fmt.Errorf("failed to log in: %w", err)
	}

	s.logger.Info().Str("username", username).Msg("user logged in")

	return signed, nil
}

// Register creates a new account with the default "user" role.
func (s *authService) Register(ctx context.Context, username, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, model.NewDomainError(model.ErrCodeInvalidOperation, "Username and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: string(hash),
		Roles:        []string{model.RoleUser},
		CreatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if err == model.ErrUsernameTaken {
			s.logger.Warn().Str("username", username).Msg("registration for taken username")
			return nil, err
		}
		s.logger.Error().Err(err).Str("username", username).Msg("failed to create user")
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	s.logger.Info().Str("username", username).Msg("user registered")

	return user, nil
}

// EnsureAdmin creates the seed admin account if it does not exist. Called once
// at startup when a seed password is configured.
func (s *authService) EnsureAdmin(ctx context.Context, password string) error {
	existing, err := s.userRepo.GetByUsername(ctx, "admin")
	if err != nil {
		return fmt.Errorf("failed to check admin user: %w", err)
	}
	if existing != nil {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &model.User{
		ID:           uuid.New(),
		Username:     "admin",
		PasswordHash: string(hash),
		Roles:        []string{model.RoleAdmin, model.RoleUser},
		CreatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, admin); err != nil {
		// Another instance may have seeded concurrently.
		if err == model.ErrUsernameTaken {
			return nil
		}
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	s.logger.Info().Msg("seeded admin user; change the password immediately")

	return nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/eventplanner/backend/internal/apperrors"
	"github.com/eventplanner/backend/internal/auth"
	"github.com/eventplanner/backend/internal/models"
	"github.com/eventplanner/backend/internal/sanitize"
	"go.uber.org/zap"
)

// UserRepository is the interface that wraps methods for Users table data access
type UserRepository interface {
	// Method Create inserts a new user into the database and sets its ID.
	//
	// If the email is already taken, an apperrors.ErrConflict is returned.
	Create(ctx context.Context, user *models.User) error
	// Method GetByEmail retrieves a user by email.
	//
	// If user with such email does not exist, an apperrors.ErrNotFound is returned together with "nil" value.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// Method ExistsByEmail checks if a user with such email exists.
	//
	// If some error occurs during check, the error will be returned together with "false" value.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// TokenIssuer mints signed identity tokens
type TokenIssuer interface {
	GenerateAccessToken(identity auth.Identity) (string, error)
}

// bcrypt ignores input beyond 72 bytes and x/crypto rejects it
const maxPasswordBytes = 72

// authService implements account signup and login
type authService struct {
	userRepo       UserRepository
	tokenGenerator TokenIssuer
	logger         *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo UserRepository, tokenGenerator TokenIssuer, logger *zap.Logger) *authService {
	return &authService{
		userRepo:       userRepo,
		tokenGenerator: tokenGenerator,
		logger:         logger,
	}
}

// Signup creates a new account with the User role
func (s *authService) Signup(ctx context.Context, req *models.SignupRequest) (*models.User, error) {
	return s.createUser(ctx, req, models.RoleUser)
}

// CreateAdmin creates a new account with the Admin role.
// It is only reachable from the command line, never over HTTP.
func (s *authService) CreateAdmin(ctx context.Context, req *models.SignupRequest) (*models.User, error) {
	return s.createUser(ctx, req, models.RoleAdmin)
}

func (s *authService) createUser(ctx context.Context, req *models.SignupRequest, role models.Role) (*models.User, error) {
	normalized := models.SignupRequest{
		Name:     sanitize.Text(req.Name),
		Email:    normalizeEmail(req.Email),
		Password: req.Password,
	}
	if err := validateStruct(&normalized); err != nil {
		return nil, err
	}
	if len(normalized.Password) > maxPasswordBytes {
		return nil, apperrors.Validation("password must be at most %d bytes", maxPasswordBytes)
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, normalized.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: email already registered", apperrors.ErrConflict)
	}

	passwordHash, err := auth.HashPassword(normalized.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         normalized.Name,
		Email:        normalized.Email,
		PasswordHash: passwordHash,
		Role:         role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user created", zap.Int("userId", user.ID), zap.String("role", string(user.Role)))
	return user, nil
}

// Login verifies the credentials and issues an access token
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResult, error) {
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, apperrors.Validation("email and password are required")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.tokenGenerator.GenerateAccessToken(auth.Identity{UserID: user.ID, Role: user.Role})
	if err != nil {
		s.logger.Error("failed to generate access token", zap.Int("userId", user.ID), zap.Error(err))
		return nil, err
	}

	return &models.LoginResult{Token: token, Role: user.Role, Name: user.Name}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

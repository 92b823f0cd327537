package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/partnerpro/product-manager/internal/domain/identity"
	"github.com/partnerpro/product-manager/internal/domain/shared"
	"github.com/partnerpro/product-manager/internal/infrastructure/auth"
	"go.uber.org/zap"
)

var errInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")

// UserService handles registration and login
type UserService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	logger     *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(userRepo identity.UserRepository, jwtService *auth.JWTService, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{
		userRepo:   userRepo,
		jwtService: jwtService,
		logger:     logger,
	}
}

// Register creates an enabled account with a bcrypt-hashed password
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*UserResponse, error) {
	exists, err := s.userRepo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if exists {
		return nil, shared.NewDomainError("USERNAME_EXISTS", "Username already exists")
	}

	exists, err = s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, shared.NewDomainError("EMAIL_EXISTS", "Email already exists")
	}

	user, err := identity.NewUser(req.Username, req.Password, req.Email, req.FullName)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	s.logger.Info("user registered",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username))

	resp := ToUserResponse(user)
	return &resp, nil
}

// Login verifies the credentials and issues an access token
func (s *UserService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("login for unknown user", zap.String("username", req.Username))
			return nil, errInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if !user.CanLogin() || !user.VerifyPassword(req.Password) {
		s.logger.Warn("login rejected", zap.String("username", req.Username))
		return nil, errInvalidCredentials
	}

	token, err := s.jwtService.GenerateAccessToken(user.ID, user.Username)
	if err != nil {
		s.logger.Error("failed to sign access token", zap.Error(err))
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	s.logger.Info("user logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username))

	return &LoginResponse{
		AccessToken: token.Token,
		TokenType:   token.TokenType,
		ExpiresAt:   token.ExpiresAt,
		User:        ToUserResponse(user),
	}, nil
}

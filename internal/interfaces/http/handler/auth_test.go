package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appidentity "github.com/partnerpro/product-manager/internal/application/identity"
	"github.com/partnerpro/product-manager/internal/domain/identity"
	"github.com/partnerpro/product-manager/internal/domain/shared"
	"github.com/partnerpro/product-manager/internal/infrastructure/auth"
	"github.com/partnerpro/product-manager/internal/infrastructure/config"
	"github.com/partnerpro/product-manager/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// testJWTConfig returns a default JWT config for tests
func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:                "test-secret-key-32-characters-long",
		AccessTokenExpiration: 15 * time.Minute,
		Issuer:                "test-issuer",
	}
}

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func setupAuthRouter(repo *MockUserRepository) (*gin.Engine, *auth.JWTService) {
	jwtService := auth.NewJWTService(testJWTConfig())
	h := NewAuthHandler(appidentity.NewUserService(repo, jwtService, zap.NewNop()))
	engine := newTestEngine()
	engine.POST("/api/auth/register", h.Register)
	engine.POST("/api/auth/login", h.Login)
	return engine, jwtService
}

func TestAuthHandler_Register(t *testing.T) {
	body := appidentity.RegisterRequest{
		Username: "maria",
		Password: "segredo123",
		Email:    "maria@example.com",
		FullName: "Maria Silva",
	}

	t.Run("creates the account", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("ExistsByUsername", mock.Anything, "maria").Return(false, nil)
		repo.On("ExistsByEmail", mock.Anything, "maria@example.com").Return(false, nil)
		repo.On("Save", mock.Anything, mock.AnythingOfType("*identity.User")).Return(nil)
		engine, _ := setupAuthRouter(repo)

		w, resp := perform(t, engine, http.MethodPost, "/api/auth/register", body)

		assert.Equal(t, http.StatusCreated, w.Code)
		var user appidentity.UserResponse
		decodeData(t, resp, &user)
		assert.Equal(t, "maria", user.Username)
		assert.True(t, user.Enabled)
		assert.NotContains(t, string(resp.Data), "password")
		repo.AssertExpectations(t)
	})

	t.Run("duplicate username", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("ExistsByUsername", mock.Anything, "maria").Return(true, nil)
		engine, _ := setupAuthRouter(repo)

		w, resp := perform(t, engine, http.MethodPost, "/api/auth/register", body)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, dto.ErrCodeUsernameExists, resp.Error.Code)
		assert.Equal(t, "Username already exists", resp.Error.Message)
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("ExistsByUsername", mock.Anything, "maria").Return(false, nil)
		repo.On("ExistsByEmail", mock.Anything, "maria@example.com").Return(true, nil)
		engine, _ := setupAuthRouter(repo)

		w, resp := perform(t, engine, http.MethodPost, "/api/auth/register", body)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, dto.ErrCodeEmailExists, resp.Error.Code)
	})

	t.Run("invalid email", func(t *testing.T) {
		repo := new(MockUserRepository)
		engine, _ := setupAuthRouter(repo)

		invalid := body
		invalid.Email = "not-an-email"
		w, resp := perform(t, engine, http.MethodPost, "/api/auth/register", invalid)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		require.NotEmpty(t, resp.Error.Details)
		assert.Equal(t, "email", resp.Error.Details[0].Field)
		repo.AssertNotCalled(t, "ExistsByUsername")
	})
}

func TestAuthHandler_Login(t *testing.T) {
	user, err := identity.NewUser("joao", "senha-forte", "joao@example.com", "João Souza")
	require.NoError(t, err)

	t.Run("issues a token", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByUsername", mock.Anything, "joao").Return(user, nil)
		engine, jwtService := setupAuthRouter(repo)

		w, resp := perform(t, engine, http.MethodPost, "/api/auth/login",
			appidentity.LoginRequest{Username: "joao", Password: "senha-forte"})

		assert.Equal(t, http.StatusOK, w.Code)
		var login appidentity.LoginResponse
		decodeData(t, resp, &login)
		assert.Equal(t, "Bearer", login.TokenType)
		assert.Equal(t, user.ID, login.User.ID)

		claims, err := jwtService.ValidateAccessToken(login.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "joao", claims.Username)
	})

	t.Run("wrong password", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByUsername", mock.Anything, "joao").Return(user, nil)
		engine, _ := setupAuthRouter(repo)

		w, resp := perform(t, engine, http.MethodPost, "/api/auth/login",
			appidentity.LoginRequest{Username: "joao", Password: "errada"})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidCredentials, resp.Error.Code)
	})

	t.Run("unknown user looks the same", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByUsername", mock.Anything, "ninguem").Return(nil, shared.ErrNotFound)
		engine, _ := setupAuthRouter(repo)

		w, resp := perform(t, engine, http.MethodPost, "/api/auth/login",
			appidentity.LoginRequest{Username: "ninguem", Password: "x"})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidCredentials, resp.Error.Code)
	})

	t.Run("missing password", func(t *testing.T) {
		engine, _ := setupAuthRouter(new(MockUserRepository))

		w, _ := perform(t, engine, http.MethodPost, "/api/auth/login", `{"username":"joao"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/partnerpro/product-manager/internal/application/identity"
)

// UserService registers and signs in API users
type UserService interface {
	Register(ctx context.Context, req identity.RegisterRequest) (*identity.UserResponse, error)
	Login(ctx context.Context, req identity.LoginRequest) (*identity.LoginResponse, error)
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	BaseHandler
	userService UserService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(userService UserService) *AuthHandler {
	return &AuthHandler{userService: userService}
}

// Register godoc
// @ID           register
// @Summary      Register a user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identity.RegisterRequest true "Account"
// @Success      201 {object} APIResponse[identity.UserResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req identity.RegisterRequest
	if !h.bindJSON(c, &req) {
		return
	}

	user, err := h.userService.Register(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, user)
}

// Login godoc
// @ID           login
// @Summary      User login
// @Description  Authenticate with username and password and receive an access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identity.LoginRequest true "Login credentials"
// @Success      200 {object} APIResponse[identity.LoginResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req identity.LoginRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.userService.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

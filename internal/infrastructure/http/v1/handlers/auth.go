package handlers

import (
	"github.com/gin-gonic/gin"

	"librairie/internal/domain/auth"
	"librairie/internal/infrastructure/http/v1/dto"
)

// AuthHandler provides login endpoints.
type AuthHandler struct {
	*BaseHandler
	service *auth.Service
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(base *BaseHandler, service *auth.Service) *AuthHandler {
	return &AuthHandler{BaseHandler: base, service: service}
}

// RegisterRoutes mounts the auth endpoints.
func (h *AuthHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.POST("/login", h.Login)
}

// Login verifies credentials and issues a JWT.
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.service.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.TokenResponse{
		AccessToken: result.Token,
		ExpiresAt:   result.ExpiresAt,
		UserID:      result.User.ID.String(),
		Username:    result.User.Username,
		Role:        result.User.Role,
	})
}

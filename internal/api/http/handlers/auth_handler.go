package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/conversation-service/internal/api/dto"
	"github.com/spec-kit/conversation-service/internal/api/routing"
	"github.com/spec-kit/conversation-service/internal/service"
	apperrors "github.com/spec-kit/conversation-service/pkg/util"
)

// AuthHandler manages login.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{service: authService}
}

// Login POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx, _ routing.Params) error {
	var req dto.LoginRequest
	parseBody(c, &req)
	if req.Email == "" || req.Password == "" {
		return apperrors.NewInvalidCredentials()
	}

	agent, token, err := h.service.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return respondData(c, http.StatusOK, dto.LoginResponse{
		Token: token.Value,
		User: dto.AgentResponse{
			ID:    agent.ID,
			Name:  agent.Name,
			Email: agent.Email,
			Role:  agent.Role,
		},
		ExpiresAt: token.ExpiresAt,
	})
}

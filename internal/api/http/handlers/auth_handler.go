package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blog-service/internal/api/dto"
	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/service"
	apperrors "github.com/spec-kit/blog-service/pkg/util"
)

// AuthHandler exposes the admin login and token verification endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Invalid input", nil)
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return apperrors.NewValidationError("Invalid input", map[string]any{
			"username": "required",
			"password": "required",
		})
	}

	token, _, err := h.auth.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message":   "Login successful",
		"token":     token,
		"expiresIn": h.auth.ExpiresIn(),
	})
}

// Verify handles POST /auth/verify: a side-channel check of a held token. An
// invalid or expired token is a normal outcome and never an internal error.
func (h *AuthHandler) Verify(c *fiber.Ctx) error {
	token, err := auth.BearerToken(c.Get(fiber.HeaderAuthorization))
	if err != nil {
		reason := "No token provided"
		if errors.Is(err, auth.ErrMalformedToken) {
			reason = "Invalid token format"
		}
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{
			"valid": false,
			"error": reason,
		})
	}

	claims, err := h.auth.Verify(c.UserContext(), token)
	if err != nil {
		reason := "Invalid token"
		if errors.Is(err, auth.ErrTokenExpired) {
			reason = "Token expired"
		}
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{
			"valid": false,
			"error": reason,
		})
	}

	return c.JSON(fiber.Map{
		"valid": true,
		"user": fiber.Map{
			"username": claims.Username,
			"role":     claims.Role,
		},
	})
}

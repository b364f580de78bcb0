package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/config"
	"github.com/spec-kit/blog-service/internal/domain"
	apperrors "github.com/spec-kit/blog-service/pkg/util"
)

// invalidCredentials is the single message for unknown username and wrong
// password alike, so responses never reveal which check failed.
const invalidCredentials = "Invalid credentials"

// AuthService coordinates the admin login flow against the configured
// identity. There is exactly one identity and it never changes at runtime.
type AuthService struct {
	admin  domain.AdminIdentity
	tokens *auth.TokenManager
	logger *zap.Logger
}

// NewAuthService builds the service from startup configuration.
func NewAuthService(cfg config.AuthConfig, logger *zap.Logger) *AuthService {
	return &AuthService{
		admin: domain.AdminIdentity{
			Username:     cfg.AdminUsername,
			PasswordHash: cfg.AdminPasswordHash,
		},
		tokens: auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTLDays),
		logger: logger,
	}
}

// Login verifies the credentials against the configured admin identity and
// issues a session token. Configuration gaps short-circuit before any
// credential comparison and are logged distinctly from bad credentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	if !s.admin.Configured() {
		s.logger.Error("admin credentials not configured in environment")
		return "", time.Time{}, apperrors.NewConfigurationError(errors.New("admin identity missing"))
	}

	if username != s.admin.Username {
		return "", time.Time{}, apperrors.NewUnauthorized(invalidCredentials)
	}
	if err := auth.ComparePassword(s.admin.PasswordHash, password); err != nil {
		return "", time.Time{}, apperrors.NewUnauthorized(invalidCredentials)
	}

	token, expiresAt, err := s.tokens.Generate(username)
	if err != nil {
		if errors.Is(err, auth.ErrNoSecret) {
			s.logger.Error("JWT secret not configured in environment")
			return "", time.Time{}, apperrors.NewConfigurationError(err)
		}
		return "", time.Time{}, apperrors.NewInternalError(err)
	}
	return token, expiresAt, nil
}

// Verify reports whether a held token is still usable. An invalid or expired
// token is a normal outcome here, returned as a value rather than surfaced as
// a request failure; the error is one of auth.ErrTokenExpired or
// auth.ErrTokenInvalid.
func (s *AuthService) Verify(ctx context.Context, tokenStr string) (*auth.Claims, error) {
	return s.tokens.Parse(tokenStr)
}

// ExpiresIn describes the token lifetime in the response format clients
// expect, e.g. "7d".
func (s *AuthService) ExpiresIn() string {
	return fmt.Sprintf("%dd", int(s.tokens.TTL().Hours())/24)
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}

package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/blog-service/pkg/util"
)

const principalKey = "auth_principal"

// Header extraction failures, distinct from token verification failures.
var (
	ErrMissingToken   = errors.New("no token provided")
	ErrMalformedToken = errors.New("invalid authorization header format")
)

// Principal represents the authenticated caller.
type Principal struct {
	Username string
	Role     string
}

// BearerToken extracts the token from an Authorization header value. The
// expected form is exactly "Bearer <token>".
func BearerToken(header string) (string, error) {
	if header == "" {
		return "", ErrMissingToken
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", ErrMalformedToken
	}
	return parts[1], nil
}

// AuthMiddleware validates bearer tokens on mutating routes. It only gates,
// never touches post state.
type AuthMiddleware struct {
	tokens *TokenManager
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Handle enforces authentication for protected routes. The 401 reasons are
// distinguishable (missing vs malformed vs expired vs invalid) without
// revealing anything about the signing secret.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	token, err := BearerToken(c.Get(fiber.HeaderAuthorization))
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingToken):
			return apperrors.NewUnauthorized("Access denied. No token provided.")
		default:
			return apperrors.NewUnauthorized("Invalid authorization header format. Use: Bearer <token>")
		}
	}

	claims, err := m.tokens.Parse(token)
	if err != nil {
		if errors.Is(err, ErrTokenExpired) {
			return apperrors.NewUnauthorized("Token expired. Please log in again.")
		}
		return apperrors.NewUnauthorized("Invalid token. Please log in again.")
	}

	c.Locals(principalKey, &Principal{Username: claims.Username, Role: claims.Role})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated identity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}

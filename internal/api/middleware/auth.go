package middleware

import (
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/emotune/emotune/internal/auth"
	"github.com/emotune/emotune/internal/domain"
)

const (
	// LocalUserID is the key to retrieve the account id from context
	LocalUserID = "user_id"
	// LocalUserEmail is the key to retrieve the account email from context
	LocalUserEmail = "user_email"
)

// TokenValidator is implemented by *auth.TokenService
type TokenValidator interface {
	ValidateToken(token string) (*auth.UserClaims, error)
}

// Auth creates a middleware that requires a valid account JWT
func Auth(validator TokenValidator, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractBearerToken(c)
		if token == "" {
			return domain.ErrUnauthorized
		}

		claims, err := validator.ValidateToken(token)
		if err != nil {
			logger.Debug("rejected access token", slog.String("error", err.Error()))
			return domain.ErrUnauthorized
		}

		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalUserEmail, claims.Email)

		return c.Next()
	}
}

// extractBearerToken extracts token from Authorization header
func extractBearerToken(c *fiber.Ctx) string {
	header := c.Get("Authorization")
	if header == "" {
		return ""
	}

	// Expected format: "Bearer <token>"
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

// GetUserID retrieves the authenticated account id from Fiber context
func GetUserID(c *fiber.Ctx) (uuid.UUID, error) {
	userID, ok := c.Locals(LocalUserID).(uuid.UUID)
	if !ok {
		return uuid.Nil, domain.ErrUnauthorized
	}
	return userID, nil
}

// GetUserEmail retrieves the authenticated account email from Fiber context
func GetUserEmail(c *fiber.Ctx) (string, error) {
	email, ok := c.Locals(LocalUserEmail).(string)
	if !ok || email == "" {
		return "", domain.ErrUnauthorized
	}
	return email, nil
}

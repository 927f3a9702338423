package middleware

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

const (
	PrincipalKey = "principal"

	UserTypeAdmin  = "admin"
	UserTypeAnchor = "anchor"
)

// Principal is the caller resolved from the access password.
type Principal struct {
	UserType   string `json:"userType"`
	AnchorDBID int64  `json:"id,omitempty"`
	AnchorID   string `json:"anchor_id,omitempty"`
	AnchorName string `json:"anchor_name,omitempty"`
}

func (p *Principal) IsAdmin() bool {
	return p != nil && p.UserType == UserTypeAdmin
}

// PasswordResolver maps an anchor password to the active anchor that owns it.
// It returns nil, nil when no anchor matches.
type PasswordResolver interface {
	ResolvePassword(ctx context.Context, password string) (*Principal, error)
}

// AuthMiddleware accepts the admin password or an active anchor's password,
// read from the X-API-Key header or the api_key cookie.
func AuthMiddleware(adminPassword string, skipAuth bool, resolver PasswordResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if skipAuth {
			c.Locals(PrincipalKey, &Principal{UserType: UserTypeAdmin})
			return c.Next()
		}

		input := c.Get("X-API-Key")
		if input == "" {
			input = c.Cookies("api_key")
		}
		if input == "" {
			return unauthorized(c)
		}

		if input == adminPassword {
			c.Locals(PrincipalKey, &Principal{UserType: UserTypeAdmin})
			return c.Next()
		}

		if resolver != nil {
			principal, err := resolver.ResolvePassword(c.Context(), input)
			if err == nil && principal != nil {
				c.Locals(PrincipalKey, principal)
				return c.Next()
			}
		}

		return unauthorized(c)
	}
}

// GetPrincipal returns the caller set by AuthMiddleware.
func GetPrincipal(c *fiber.Ctx) *Principal {
	if p, ok := c.Locals(PrincipalKey).(*Principal); ok {
		return p
	}
	return nil
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"success": false,
		"error":   "invalid_api_key",
		"message": "Invalid access password",
	})
}

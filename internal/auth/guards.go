package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/genre-sales-api/pkg/util/errorutil"
)

// RequireActiveEmployee ensures the authenticated principal resolved to an employee record.
func RequireActiveEmployee() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.Employee == nil {
			return apperrors.NewNotFound("no account found")
		}
		return c.Next()
	}
}

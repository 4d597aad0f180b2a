package identity

import (
	"strings"

	"github.com/buildwithfavas/mind-merge/internal/apperr"
	"github.com/gofiber/fiber/v2"
)

// CallerKey is the fiber locals key holding the resolved Caller.
const CallerKey = "caller"

// Middleware verifies the bearer token, upserts the user record and stores
// the resolved caller in locals. Blocked accounts fail here, before any
// route logic runs.
func Middleware(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerFromHeader(c.Get("Authorization"))
		if token == "" {
			return apperr.Unauthenticated("missing bearer token")
		}

		caller, err := svc.Verify(token)
		if err != nil {
			return apperr.Unauthenticated("invalid or expired token")
		}

		caller, err = svc.Resolve(c.Context(), caller)
		if err != nil {
			return err
		}

		c.Locals(CallerKey, caller)
		return c.Next()
	}
}

// AdminOnly rejects callers whose resolved role is not admin.
func AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if CallerFromCtx(c).Role != "admin" {
			return apperr.Forbidden("admin only")
		}
		return c.Next()
	}
}

func CallerFromCtx(c *fiber.Ctx) Caller {
	caller, _ := c.Locals(CallerKey).(Caller)
	return caller
}

func bearerFromHeader(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

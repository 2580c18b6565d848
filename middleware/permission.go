package middleware

import (
	"coursehub/database"
	"coursehub/logger"
	"coursehub/models"

	"github.com/gofiber/fiber/v2"
)

// RequireRole allows the request through only when the caller's stored account
// carries one of roles. The token's role claim is not trusted, so demoted or
// deleted accounts lose access immediately. It must run after JWTMiddleware.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals("userId").(uint)
		if !ok {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized: User ID not found", nil)
		}

		var user models.User
		err := database.Database.Db.WithContext(c.UserContext()).
			Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error
		if err != nil {
			if database.IsNotFound(err) {
				return JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to access this resource!", nil)
			}
			logger.Error("AUTH", err, "loading user %d for role check", userID)
			return JsonResponse(c, fiber.StatusInternalServerError, false, "Server error while checking permissions!", nil)
		}

		for _, r := range roles {
			if user.Role == r {
				c.Locals("role", user.Role)
				return c.Next()
			}
		}

		return JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to access this resource!", nil)
	}
}

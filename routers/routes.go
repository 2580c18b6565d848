package routers

import (
	"coursehub/routers/adminRoutes"
	"coursehub/routers/authRoutes"
	"coursehub/routers/courseRoutes"
	"coursehub/routers/purchaseRoutes"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes mounts every route group on app.
func SetupRoutes(app *fiber.App) {
	authRoutes.SetupAuthRoutes(app)
	purchaseRoutes.SetupPurchaseRoutes(app)
	courseRoutes.SetupCourseRoutes(app)
	adminRoutes.SetupAdminRoutes(app)
}

package purchaseRoutes

import (
	purchaseController "coursehub/controllers/purchase"
	"coursehub/middleware"
	courseValidator "coursehub/validators/course"
	purchaseValidator "coursehub/validators/purchase"

	"github.com/gofiber/fiber/v2"
)

func SetupPurchaseRoutes(app *fiber.App) {
	app.Post("/promo/validate", middleware.JWTMiddleware, purchaseValidator.ValidatePromo(), purchaseController.ValidatePromo)

	purchaseGroup := app.Group("/purchases", middleware.JWTMiddleware)
	purchaseGroup.Post("/intent", purchaseValidator.Intent(), purchaseController.Intent)
	purchaseGroup.Post("/", purchaseValidator.Record(), purchaseController.Record)

	app.Get("/courses/:id/purchase", middleware.JWTMiddleware, courseValidator.CourseID(), purchaseController.Status)
}

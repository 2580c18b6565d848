package adminRoutes

import (
	adminController "coursehub/controllers/admin"
	"coursehub/middleware"
	"coursehub/models"
	adminValidator "coursehub/validators/admin"

	"github.com/gofiber/fiber/v2"
)

func SetupAdminRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin))

	adminGroup.Get("/purchases", adminController.ListPurchases)
	adminGroup.Post("/purchases/:id/approve", adminValidator.ID("Purchase"), adminController.ApprovePurchase)
	adminGroup.Delete("/purchases/:id", adminValidator.ID("Purchase"), adminController.RejectPurchase)

	adminGroup.Get("/reports/summary", adminController.ReportSummary)
	adminGroup.Get("/reports/courses", adminController.ReportCourses)

	adminGroup.Get("/promo-codes", adminController.ListPromoCodes)
	adminGroup.Post("/promo-codes", adminValidator.Promo(), adminController.CreatePromoCode)
	adminGroup.Put("/promo-codes/:id", adminValidator.ID("Promo code"), adminValidator.Promo(), adminController.UpdatePromoCode)
	adminGroup.Post("/promo-codes/:id/toggle", adminValidator.ID("Promo code"), adminController.TogglePromoCode)
	adminGroup.Delete("/promo-codes/:id", adminValidator.ID("Promo code"), adminController.DeletePromoCode)

	adminGroup.Get("/courses", adminController.ListCourses)
	adminGroup.Post("/courses", adminValidator.Course(), adminController.CreateCourse)
	adminGroup.Get("/courses/:id", adminValidator.ID("Course"), adminController.GetCourse)
	adminGroup.Put("/courses/:id", adminValidator.ID("Course"), adminValidator.Course(), adminController.UpdateCourse)
	adminGroup.Post("/courses/:id/publish", adminValidator.ID("Course"), adminController.TogglePublish)
	adminGroup.Delete("/courses/:id", adminValidator.ID("Course"), adminController.DeleteCourse)

	adminGroup.Post("/courses/:id/lessons", adminValidator.ID("Course"), adminValidator.Lesson(), adminController.CreateLesson)
	adminGroup.Put("/lessons/:id", adminValidator.ID("Lesson"), adminValidator.Lesson(), adminController.UpdateLesson)
	adminGroup.Delete("/lessons/:id", adminValidator.ID("Lesson"), adminController.DeleteLesson)
	adminGroup.Post("/lessons/:id/move", adminValidator.ID("Lesson"), adminValidator.Move(), adminController.MoveLesson)

	adminGroup.Get("/lessons/:id/quiz-questions", adminValidator.ID("Lesson"), adminController.QuizQuestions)
	adminGroup.Post("/lessons/:id/quiz-questions", adminValidator.ID("Lesson"), adminValidator.Question(), adminController.AddQuizQuestion)
	adminGroup.Get("/courses/:id/exam", adminValidator.ID("Course"), adminController.GetExam)
	adminGroup.Put("/courses/:id/exam", adminValidator.ID("Course"), adminValidator.Exam(), adminController.SaveExam)
	adminGroup.Get("/courses/:id/exam-questions", adminValidator.ID("Course"), adminController.ExamQuestions)
	adminGroup.Post("/courses/:id/exam-questions", adminValidator.ID("Course"), adminValidator.Question(), adminController.AddExamQuestion)
	adminGroup.Put("/questions/:kind/:id", adminValidator.ID("Question"), adminValidator.Question(), adminController.UpdateQuestion)
	adminGroup.Delete("/questions/:kind/:id", adminValidator.ID("Question"), adminController.DeleteQuestion)

	adminGroup.Get("/users/:id/progress", adminValidator.ID("User"), adminController.UserProgress)
	adminGroup.Put("/settings", adminValidator.Settings(), adminController.UpdateSettings)
}

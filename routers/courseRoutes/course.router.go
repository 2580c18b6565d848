package courseRoutes

import (
	courseController "coursehub/controllers/course"
	"coursehub/middleware"
	courseValidator "coursehub/validators/course"

	"github.com/gofiber/fiber/v2"
)

func SetupCourseRoutes(app *fiber.App) {
	app.Get("/settings", courseController.GetSettings)
	app.Get("/certificates/verify/:number", courseController.VerifyCertificate)

	courseGroup := app.Group("/courses")
	courseGroup.Get("/", courseController.ListCourses)
	courseGroup.Get("/:id", courseValidator.CourseID(), courseController.GetCourse)

	auth := middleware.JWTMiddleware
	courseID := courseValidator.CourseID()
	courseGroup.Get("/:id/lessons", auth, courseID, courseController.Lessons)
	courseGroup.Post("/:id/lessons/:lessonId/progress", auth, courseID, courseValidator.LessonID("lessonId"), courseValidator.Progress(), courseController.MarkProgress)
	courseGroup.Get("/:id/progress", auth, courseID, courseController.GetProgress)
	courseGroup.Get("/:id/exam", auth, courseID, courseController.ExamState)
	courseGroup.Get("/:id/exam-questions", auth, courseID, courseController.ExamQuestions)
	courseGroup.Post("/:id/exam-submit", auth, courseID, courseValidator.ExamSubmit(), courseController.SubmitExam)
	courseGroup.Get("/:id/certificate", auth, courseID, courseController.Certificate)
	courseGroup.Get("/:id/certificate/pdf", auth, courseID, courseController.CertificatePDF)

	lessonID := courseValidator.LessonID("id")
	app.Get("/lessons/:id/quiz-questions", auth, lessonID, courseController.QuizQuestions)
	app.Post("/lessons/:id/quiz-submit", auth, lessonID, courseValidator.QuizSubmit(), courseController.SubmitQuiz)

	userGroup := app.Group("/user", middleware.JWTMiddleware)
	userGroup.Get("/courses", courseController.Dashboard)
	userGroup.Get("/certificates", courseController.MyCertificates)
}

package courseController

import (
	"coursehub/config"
	"coursehub/middleware"
	"coursehub/services"
	"coursehub/services/certificate"
	"coursehub/services/grading"
	"coursehub/services/questions"
	"coursehub/utils"
	courseValidator "coursehub/validators/course"
	"coursehub/validators/shared"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// QuizQuestions returns a lesson quiz without the answer key.
func QuizQuestions(c *fiber.Ctx) error {
	ctx := c.UserContext()
	lessonID := shared.ID(c, "id")

	if _, err := services.App.Learning.CheckLessonAccess(ctx, middleware.UserID(c), lessonID); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	list, err := services.App.Questions.ListForLearner(ctx, questions.LessonQuiz(lessonID))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz fetched successfully!", list)
}

func SubmitQuiz(c *fiber.Ctx) error {
	reqData := c.Locals("validatedQuiz").(*courseValidator.QuizSubmitRequest)

	res, err := services.App.Grading.SubmitQuiz(c.UserContext(), middleware.UserID(c), shared.ID(c, "id"), grading.Answers(reqData.Answers))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	message := "Quiz not passed, try again!"
	switch {
	case res.AlreadyPassed:
		message = "You have already passed this quiz."
	case res.Passed:
		message = "Quiz passed!"
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, res)
}

// ExamState tells the learner whether they may sit the exam.
func ExamState(c *fiber.Ctx) error {
	state, err := services.App.Grading.EntryState(c.UserContext(), middleware.UserID(c), shared.ID(c, "id"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Exam state fetched successfully!", state)
}

func ExamQuestions(c *fiber.Ctx) error {
	eligible, list, err := services.App.Grading.ExamQuestions(c.UserContext(), middleware.UserID(c), shared.ID(c, "id"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Exam fetched successfully!", fiber.Map{
		"passing_score": eligible.PassingScore,
		"questions":     list,
	})
}

func SubmitExam(c *fiber.Ctx) error {
	reqData := c.Locals("validatedExam").(*courseValidator.ExamSubmitRequest)

	res, err := services.App.Grading.SubmitExam(c.UserContext(), middleware.UserID(c), shared.ID(c, "id"),
		grading.Answers(reqData.Answers), reqData.RecipientName)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	message := "Exam not passed, review the lessons and try again!"
	switch {
	case res.AlreadyCertified:
		message = "You already hold a certificate for this course."
	case res.Passed:
		message = "Congratulations, you passed!"
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, res)
}

func Certificate(c *fiber.Ctx) error {
	cert, err := services.App.Learning.Certificate(c.UserContext(), middleware.UserID(c), shared.ID(c, "id"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate fetched successfully!", fiber.Map{
		"certificate": cert,
		"percentage":  grading.Percentage(cert.Score, cert.TotalQuestions),
	})
}

// CertificatePDF renders the learner's certificate on demand.
func CertificatePDF(c *fiber.Ctx) error {
	cert, err := services.App.Learning.Certificate(c.UserContext(), middleware.UserID(c), shared.ID(c, "id"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	renderer := services.App.Certificates
	renderer.SiteName = config.AppConfig.Site.SiteName
	pdf, err := renderer.Render(certificate.Data{
		RecipientName:     cert.RecipientName,
		CourseTitle:       cert.CourseTitle,
		CertificateNumber: cert.CertificateNumber,
		IssuedAt:          cert.IssuedAt,
		Score:             cert.Score,
		TotalQuestions:    cert.TotalQuestions,
		Percentage:        grading.Percentage(cert.Score, cert.TotalQuestions),
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+utils.CertificateFileName(cert.RecipientName)+`"`)
	return c.Status(fiber.StatusOK).Send(pdf)
}

// VerifyCertificate is public: anyone holding a number can check it.
func VerifyCertificate(c *fiber.Ctx) error {
	number := strings.ToUpper(strings.TrimSpace(c.Params("number")))
	if number == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Certificate number is required!", nil)
	}
	v, err := services.App.Learning.Verify(c.UserContext(), number)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate is valid.", v)
}

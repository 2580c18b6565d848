package adminController

import (
	"coursehub/config"
	"coursehub/middleware"
	"coursehub/services"
	"coursehub/services/questions"
	adminValidator "coursehub/validators/admin"
	"coursehub/validators/shared"

	"github.com/gofiber/fiber/v2"
)

func QuizQuestions(c *fiber.Ctx) error {
	list, err := services.App.Questions.ListWithAnswers(c.UserContext(), middleware.Role(c), questions.LessonQuiz(shared.ID(c, "id")))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Questions fetched successfully!", list)
}

func AddQuizQuestion(c *fiber.Ctx) error {
	reqData := c.Locals("validatedQuestion").(*questions.Input)
	q, err := services.App.Questions.AddQuizQuestion(c.UserContext(), shared.ID(c, "id"), *reqData)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Question added!", q)
}

func GetExam(c *fiber.Ctx) error {
	exam, err := services.App.Questions.Exam(c.UserContext(), shared.ID(c, "id"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Exam fetched successfully!", exam)
}

func SaveExam(c *fiber.Ctx) error {
	reqData := c.Locals("validatedExam").(*adminValidator.ExamRequest)
	exam, err := services.App.Questions.SaveExam(c.UserContext(), shared.ID(c, "id"), reqData.PassingScore)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Exam saved!", exam)
}

func ExamQuestions(c *fiber.Ctx) error {
	list, err := services.App.Questions.ListWithAnswers(c.UserContext(), middleware.Role(c), questions.CourseExam(shared.ID(c, "id")))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Questions fetched successfully!", list)
}

// AddExamQuestion creates the course exam on first use.
func AddExamQuestion(c *fiber.Ctx) error {
	reqData := c.Locals("validatedQuestion").(*questions.Input)
	q, err := services.App.Questions.AddExamQuestion(c.UserContext(), shared.ID(c, "id"), config.AppConfig.ExamDefaultPassingScore, *reqData)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Question added!", q)
}

func questionKind(c *fiber.Ctx) (questions.Kind, bool) {
	switch kind := questions.Kind(c.Params("kind")); kind {
	case questions.KindQuiz, questions.KindExam:
		return kind, true
	default:
		return "", false
	}
}

func UpdateQuestion(c *fiber.Ctx) error {
	kind, ok := questionKind(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Unknown question set!", nil)
	}
	reqData := c.Locals("validatedQuestion").(*questions.Input)
	if err := services.App.Questions.UpdateQuestion(c.UserContext(), kind, shared.ID(c, "id"), *reqData); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Question updated!", nil)
}

func DeleteQuestion(c *fiber.Ctx) error {
	kind, ok := questionKind(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Unknown question set!", nil)
	}
	if err := services.App.Questions.DeleteQuestion(c.UserContext(), kind, shared.ID(c, "id")); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Question deleted!", nil)
}

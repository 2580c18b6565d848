package courseValidator

import (
	"coursehub/validators/shared"

	"github.com/gofiber/fiber/v2"
)

// CourseID validates the :id param of learner course routes.
func CourseID() fiber.Handler {
	return shared.ParamID("id", "Course")
}

func LessonID(param string) fiber.Handler {
	return shared.ParamID(param, "Lesson")
}

type QuizSubmitRequest struct {
	Answers map[uint]int `json:"answers" validate:"required"`
}

type ExamSubmitRequest struct {
	Answers       map[uint]int `json:"answers" validate:"required"`
	RecipientName string       `json:"recipient_name" validate:"required,max=120"`
}

type ProgressRequest struct {
	Completed bool `json:"completed"`
}

func QuizSubmit() fiber.Handler {
	return shared.Body[QuizSubmitRequest]("validatedQuiz")
}

func ExamSubmit() fiber.Handler {
	return shared.Body[ExamSubmitRequest]("validatedExam")
}

func Progress() fiber.Handler {
	return shared.Body[ProgressRequest]("validatedProgress")
}

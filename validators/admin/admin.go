package adminValidator

import (
	"coursehub/services/catalog"
	"coursehub/services/promo"
	"coursehub/services/questions"
	"coursehub/validators/shared"

	"github.com/gofiber/fiber/v2"
)

func ID(label string) fiber.Handler {
	return shared.ParamID("id", label)
}

func Course() fiber.Handler {
	return shared.Body[catalog.CourseInput]("validatedCourse")
}

func Lesson() fiber.Handler {
	return shared.Body[catalog.LessonInput]("validatedLesson")
}

type MoveRequest struct {
	Direction string `json:"direction" validate:"required,oneof=up down"`
}

func Move() fiber.Handler {
	return shared.Body[MoveRequest]("validatedMove")
}

func Promo() fiber.Handler {
	return shared.Body[promo.Input]("validatedPromo")
}

func Question() fiber.Handler {
	return shared.Body[questions.Input]("validatedQuestion")
}

type ExamRequest struct {
	PassingScore int `json:"passing_score" validate:"required,min=1,max=100"`
}

func Exam() fiber.Handler {
	return shared.Body[ExamRequest]("validatedExam")
}

type SettingsRequest struct {
	SiteName          string `json:"site_name" validate:"required,max=100"`
	BankName          string `json:"bank_name" validate:"max=100"`
	BankAccountNumber string `json:"bank_account_number" validate:"max=64"`
	BankAccountName   string `json:"bank_account_name" validate:"max=100"`
	ContactEmail      string `json:"contact_email" validate:"omitempty,email"`
}

func Settings() fiber.Handler {
	return shared.Body[SettingsRequest]("validatedSettings")
}

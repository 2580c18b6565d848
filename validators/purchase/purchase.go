package purchaseValidator

import (
	"coursehub/validators/shared"

	"github.com/gofiber/fiber/v2"
)

type PromoValidateRequest struct {
	Code     string `json:"code" validate:"required,max=64"`
	CourseID uint   `json:"course_id" validate:"required"`
}

type IntentRequest struct {
	CourseID  uint   `json:"course_id" validate:"required"`
	PromoCode string `json:"promo_code" validate:"max=64"`
}

type RecordRequest struct {
	CourseID         uint   `json:"course_id" validate:"required"`
	PromoCodeID      *uint  `json:"promo_code_id"`
	PromoCode        string `json:"promo_code" validate:"max=64"`
	Amount           *int64 `json:"amount" validate:"omitempty,min=0"`
	PaymentReference string `json:"payment_reference" validate:"max=255"`
	TransferCode     string `json:"transfer_code" validate:"max=16"`
}

func ValidatePromo() fiber.Handler {
	return shared.Body[PromoValidateRequest]("validatedPromo")
}

func Intent() fiber.Handler {
	return shared.Body[IntentRequest]("validatedIntent")
}

func Record() fiber.Handler {
	return shared.Body[RecordRequest]("validatedPurchase")
}

package purchaseController

import (
	"coursehub/config"
	"coursehub/middleware"
	"coursehub/services"
	"coursehub/services/purchase"
	purchaseValidator "coursehub/validators/purchase"
	"coursehub/validators/shared"

	"github.com/gofiber/fiber/v2"
)

// ValidatePromo checks a code against a course without consuming it.
func ValidatePromo(c *fiber.Ctx) error {
	reqData := c.Locals("validatedPromo").(*purchaseValidator.PromoValidateRequest)
	ctx := c.UserContext()

	intent, err := services.App.Purchase.Intent(ctx, reqData.CourseID, reqData.Code)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Promo code applied!", fiber.Map{
		"promo_code_id":    intent.PromoCodeID,
		"code":             intent.PromoCode,
		"discount_percent": intent.DiscountPercent,
		"discount":         intent.Discount,
		"final_amount":     intent.FinalAmount,
		"is_free":          intent.IsFree,
	})
}

// Intent returns the transfer instruction for a course.
func Intent(c *fiber.Ctx) error {
	reqData := c.Locals("validatedIntent").(*purchaseValidator.IntentRequest)

	intent, err := services.App.Purchase.Intent(c.UserContext(), reqData.CourseID, reqData.PromoCode)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	site := config.AppConfig.Site
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Purchase details generated!", fiber.Map{
		"intent": intent,
		"bank": fiber.Map{
			"name":           site.BankName,
			"account_number": site.BankAccountNumber,
			"account_name":   site.BankAccountName,
		},
	})
}

func Record(c *fiber.Ctx) error {
	reqData := c.Locals("validatedPurchase").(*purchaseValidator.RecordRequest)

	p, err := services.App.Purchase.Record(c.UserContext(), purchase.RecordInput{
		UserID:           middleware.UserID(c),
		CourseID:         reqData.CourseID,
		PromoCodeID:      reqData.PromoCodeID,
		PromoCode:        reqData.PromoCode,
		Amount:           reqData.Amount,
		PaymentReference: reqData.PaymentReference,
		TransferCode:     reqData.TransferCode,
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	message := "Payment submitted, awaiting confirmation."
	if p.IsCompleted() {
		message = "Course unlocked!"
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, message, fiber.Map{
		"id":     p.ID,
		"status": p.Status,
		"amount": p.Amount,
	})
}

// Status reports none, pending or completed for the learner's course purchase.
func Status(c *fiber.Ctx) error {
	courseID := shared.ID(c, "id")
	status, err := services.App.Purchase.Status(c.UserContext(), middleware.UserID(c), courseID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Purchase status fetched!", fiber.Map{
		"course_id": courseID,
		"status":    status,
	})
}

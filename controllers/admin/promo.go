package adminController

import (
	"coursehub/middleware"
	"coursehub/services"
	"coursehub/services/promo"
	"coursehub/validators/shared"

	"github.com/gofiber/fiber/v2"
)

func ListPromoCodes(c *fiber.Ctx) error {
	codes, err := services.App.Promo.List(c.UserContext())
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Promo codes fetched successfully!", codes)
}

func CreatePromoCode(c *fiber.Ctx) error {
	reqData := c.Locals("validatedPromo").(*promo.Input)
	p, err := services.App.Promo.Create(c.UserContext(), *reqData)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Promo code created!", p)
}

func UpdatePromoCode(c *fiber.Ctx) error {
	reqData := c.Locals("validatedPromo").(*promo.Input)
	p, err := services.App.Promo.Update(c.UserContext(), shared.ID(c, "id"), *reqData)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Promo code updated!", p)
}

func TogglePromoCode(c *fiber.Ctx) error {
	p, err := services.App.Promo.Toggle(c.UserContext(), shared.ID(c, "id"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	message := "Promo code deactivated!"
	if p.IsActive {
		message = "Promo code activated!"
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, p)
}

func DeletePromoCode(c *fiber.Ctx) error {
	if err := services.App.Promo.Delete(c.UserContext(), shared.ID(c, "id")); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Promo code deleted!", nil)
}

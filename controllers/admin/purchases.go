package adminController

import (
	"coursehub/middleware"
	"coursehub/models"
	"coursehub/services"
	"coursehub/services/purchase"
	"coursehub/utils"
	"coursehub/validators/shared"

	"github.com/gofiber/fiber/v2"
)

func ListPurchases(c *fiber.Ctx) error {
	page, limit, offset := utils.Pagination(c.Query("page"), c.Query("limit"))

	status := c.Query("status")
	if status != "" && status != string(models.PurchaseStatusPending) && status != string(models.PurchaseStatusCompleted) {
		return middleware.ValidationErrorResponse(c, map[string]string{"status": "status must be one of [pending completed]"})
	}

	rows, total, err := services.App.Purchase.List(c.UserContext(), purchase.ListFilter{Status: status, Limit: limit, Offset: offset})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Purchases fetched successfully!", fiber.Map{
		"purchases": rows,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// ApprovePurchase confirms a bank transfer and unlocks the course.
func ApprovePurchase(c *fiber.Ctx) error {
	p, err := services.App.Purchase.Approve(c.UserContext(), shared.ID(c, "id"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Purchase approved!", fiber.Map{
		"id":     p.ID,
		"status": p.Status,
	})
}

// RejectPurchase deletes the pending record so the learner can submit again.
func RejectPurchase(c *fiber.Ctx) error {
	if err := services.App.Purchase.Reject(c.UserContext(), shared.ID(c, "id")); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Purchase rejected!", nil)
}

func ReportSummary(c *fiber.Ctx) error {
	summary, err := services.App.Purchase.Summary(c.UserContext())
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Report fetched successfully!", summary)
}

func ReportCourses(c *fiber.Ctx) error {
	rows, err := services.App.Purchase.ByCourse(c.UserContext())
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Report fetched successfully!", rows)
}

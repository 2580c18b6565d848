package adminController

import (
	"coursehub/config"
	"coursehub/database"
	"coursehub/logger"
	"coursehub/middleware"
	"coursehub/services"
	adminValidator "coursehub/validators/admin"
	"coursehub/validators/shared"

	"github.com/gofiber/fiber/v2"
)

// UserProgress shows a learner's purchases, lesson progress, quiz attempts and certificates.
func UserProgress(c *fiber.Ctx) error {
	user, courses, err := services.App.Learning.UserProgress(c.UserContext(), shared.ID(c, "id"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "User progress fetched successfully!", fiber.Map{
		"user":    user,
		"courses": courses,
	})
}

func UpdateSettings(c *fiber.Ctx) error {
	reqData := c.Locals("validatedSettings").(*adminValidator.SettingsRequest)

	settings := config.SiteSettings{
		SiteName:          reqData.SiteName,
		BankName:          reqData.BankName,
		BankAccountNumber: reqData.BankAccountNumber,
		BankAccountName:   reqData.BankAccountName,
		ContactEmail:      reqData.ContactEmail,
	}
	if err := config.SaveSiteSettings(database.Database.Db.WithContext(c.UserContext()), settings); err != nil {
		logger.Error("SETTINGS", err, "saving site settings")
		return middleware.JsonResponse(c, fiber.StatusServiceUnavailable, false, "Failed to save settings!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Settings updated!", config.AppConfig.Site)
}

package courseController

import (
	"coursehub/config"
	"coursehub/middleware"
	"coursehub/services"
	"coursehub/services/catalog"
	"coursehub/utils"
	courseValidator "coursehub/validators/course"
	"coursehub/validators/shared"

	"github.com/gofiber/fiber/v2"
)

// ListCourses returns published courses, optionally filtered by category and level.
func ListCourses(c *fiber.Ctx) error {
	page, limit, offset := utils.Pagination(c.Query("page"), c.Query("limit"))

	courses, total, err := services.App.Catalog.ListPublished(c.UserContext(), catalog.CourseFilter{
		Category: c.Query("category"),
		Level:    c.Query("level"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"courses": courses,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

func GetCourse(c *fiber.Ctx) error {
	detail, err := services.App.Catalog.PublishedCourse(c.UserContext(), shared.ID(c, "id"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully!", detail)
}

// Lessons lists the course player. Locked lessons carry no video reference.
func Lessons(c *fiber.Ctx) error {
	lessons, access, err := services.App.Learning.Lessons(c.UserContext(), middleware.UserID(c), shared.ID(c, "id"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lessons fetched successfully!", fiber.Map{
		"has_access": access,
		"lessons":    lessons,
	})
}

func MarkProgress(c *fiber.Ctx) error {
	reqData := c.Locals("validatedProgress").(*courseValidator.ProgressRequest)

	progress, err := services.App.Learning.MarkProgress(c.UserContext(), middleware.UserID(c),
		shared.ID(c, "id"), shared.ID(c, "lessonId"), reqData.Completed)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress saved!", progress)
}

func GetProgress(c *fiber.Ctx) error {
	progress, err := services.App.Learning.Progress(c.UserContext(), middleware.UserID(c), shared.ID(c, "id"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", progress)
}

func Dashboard(c *fiber.Ctx) error {
	courses, err := services.App.Learning.Dashboard(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", courses)
}

func MyCertificates(c *fiber.Ctx) error {
	certs, err := services.App.Learning.Certificates(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully!", certs)
}

// GetSettings exposes the site name and bank account shown on the payment screen.
func GetSettings(c *fiber.Ctx) error {
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Settings fetched successfully!", config.AppConfig.Site)
}

package adminController

import (
	"coursehub/middleware"
	"coursehub/services"
	"coursehub/services/catalog"
	"coursehub/utils"
	adminValidator "coursehub/validators/admin"
	"coursehub/validators/shared"

	"github.com/gofiber/fiber/v2"
)

// ListCourses includes unpublished drafts.
func ListCourses(c *fiber.Ctx) error {
	page, limit, offset := utils.Pagination(c.Query("page"), c.Query("limit"))
	courses, total, err := services.App.Catalog.ListAll(c.UserContext(), limit, offset)
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
	ctx := c.UserContext()
	id := shared.ID(c, "id")
	course, err := services.App.Catalog.Course(ctx, id)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	lessons, err := services.App.Catalog.Lessons(ctx, id)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully!", fiber.Map{
		"course":  course,
		"lessons": lessons,
	})
}

func CreateCourse(c *fiber.Ctx) error {
	reqData := c.Locals("validatedCourse").(*catalog.CourseInput)
	course, err := services.App.Catalog.CreateCourse(c.UserContext(), *reqData)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created!", course)
}

func UpdateCourse(c *fiber.Ctx) error {
	reqData := c.Locals("validatedCourse").(*catalog.CourseInput)
	course, err := services.App.Catalog.UpdateCourse(c.UserContext(), shared.ID(c, "id"), *reqData)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated!", course)
}

func TogglePublish(c *fiber.Ctx) error {
	course, err := services.App.Catalog.TogglePublish(c.UserContext(), shared.ID(c, "id"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	message := "Course unpublished!"
	if course.IsPublished {
		message = "Course published!"
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, course)
}

func DeleteCourse(c *fiber.Ctx) error {
	if err := services.App.Catalog.DeleteCourse(c.UserContext(), shared.ID(c, "id")); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course deleted!", nil)
}

func CreateLesson(c *fiber.Ctx) error {
	reqData := c.Locals("validatedLesson").(*catalog.LessonInput)
	lesson, err := services.App.Catalog.CreateLesson(c.UserContext(), shared.ID(c, "id"), *reqData)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Lesson created!", lesson)
}

func UpdateLesson(c *fiber.Ctx) error {
	reqData := c.Locals("validatedLesson").(*catalog.LessonInput)
	lesson, err := services.App.Catalog.UpdateLesson(c.UserContext(), shared.ID(c, "id"), *reqData)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson updated!", lesson)
}

// DeleteLesson also removes the lesson's quiz, attempts and progress.
func DeleteLesson(c *fiber.Ctx) error {
	if err := services.App.Catalog.DeleteLesson(c.UserContext(), shared.ID(c, "id")); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson deleted!", nil)
}

func MoveLesson(c *fiber.Ctx) error {
	reqData := c.Locals("validatedMove").(*adminValidator.MoveRequest)
	lessons, err := services.App.Catalog.MoveLesson(c.UserContext(), shared.ID(c, "id"), reqData.Direction)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson moved!", lessons)
}

package middleware

import (
	"coursehub/apperror"
	"coursehub/logger"

	"github.com/gofiber/fiber/v2"
)

func JsonResponse(c *fiber.Ctx, statusCode int, status bool, message string, data interface{}) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"data":    data,
	})
}

func ValidationErrorResponse(c *fiber.Ctx, errors map[string]string) error {
	return JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Validation failed!", errors)
}

// StatusFor maps an error kind to its HTTP status code.
func StatusFor(kind apperror.Kind) int {
	switch kind {
	case apperror.KindValidation:
		return fiber.StatusUnprocessableEntity
	case apperror.KindNotFound:
		return fiber.StatusNotFound
	case apperror.KindConflict:
		return fiber.StatusConflict
	case apperror.KindAuthorization:
		return fiber.StatusForbidden
	case apperror.KindTransient:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorResponse writes err using the standard envelope. Classified errors carry
// their reason in data; anything else is logged and reported as a 500.
func ErrorResponse(c *fiber.Ctx, err error) error {
	appErr, ok := apperror.As(err)
	if !ok {
		logger.Error("HTTP", err, "%s %s", c.Method(), c.Path())
		return JsonResponse(c, fiber.StatusInternalServerError, false, "Something went wrong!", nil)
	}

	if appErr.Kind == apperror.KindTransient {
		logger.Error("HTTP", appErr, "%s %s", c.Method(), c.Path())
	}
	if appErr.Fields != nil {
		return ValidationErrorResponse(c, appErr.Fields)
	}

	return JsonResponse(c, StatusFor(appErr.Kind), false, appErr.Message, fiber.Map{
		"reason": appErr.Reason,
	})
}

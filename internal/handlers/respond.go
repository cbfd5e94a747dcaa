package handlers

import (
	"errors"
	"fmt"

	"pustaka/internal/apperr"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// respondError maps the service error taxonomy onto HTTP statuses.
// NotFound responses stay generic: they never say whether the entity
// exists under another owner.
func respondError(c *fiber.Ctx, err error) error {
	var fieldErrs *apperr.FieldErrors
	if errors.As(err, &fieldErrs) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  fieldErrs.Fields,
		})
	}

	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Not found",
		})
	case errors.Is(err, apperr.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   err.Error(),
		})
	case errors.Is(err, apperr.ErrPrecondition):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"message": "Precondition failed",
			"error":   err.Error(),
		})
	case errors.Is(err, apperr.ErrExternal):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"message": "External service failure",
			"error":   err.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Internal server error",
			"error":   err.Error(),
		})
	}
}

// validationErrorMap turns validator errors into a field -> message map.
func validationErrorMap(err error) map[string]string {
	errorMessages := make(map[string]string)
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
	}
	return errorMessages
}

// currentUserID reads the authenticated user id the JWT middleware
// stored on the request.
func currentUserID(c *fiber.Ctx) string {
	if id, ok := c.Locals("user_id").(string); ok {
		return id
	}
	return ""
}

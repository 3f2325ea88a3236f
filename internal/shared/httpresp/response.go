// Package httpresp renders application errors as JSON responses.
package httpresp

import (
	"errors"

	apperrors "employee-admin/internal/shared/errors"

	"github.com/gofiber/fiber/v2"
)

// Error writes err as a JSON body with the matching status. Unknown errors and
// internal errors never leak their cause to the client.
func Error(c *fiber.Ctx, err error) error {
	var ve *apperrors.ValidationErrors
	if errors.As(err, &ve) && ve.HasErrors() {
		err = ve.ToAppError()
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"message": fe.Message})
	}

	appErr := apperrors.WrapError(err, "Server error")
	if apperrors.IsValidation(appErr) {
		if list, ok := appErr.Details["errors"].([]apperrors.ValidationError); ok {
			return validation(c, list)
		}
	}
	message := appErr.Message
	if apperrors.IsInternal(appErr) {
		message = "Server error"
	}
	return c.Status(apperrors.StatusOf(appErr)).JSON(fiber.Map{"message": message})
}

func validation(c *fiber.Ctx, list []apperrors.ValidationError) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "validation failed",
		"errors":  list,
	})
}

// Message writes a plain {"message": ...} body with status.
func Message(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"message": message})
}

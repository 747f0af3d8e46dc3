package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/emotune/emotune/internal/domain"
)

// statusFor maps an error to the status ErrorHandler will send
func statusFor(err error) int {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code
	}
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return fiber.StatusInternalServerError
}

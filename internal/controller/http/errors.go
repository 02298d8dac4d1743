package http

import (
	"errors"

	"github.com/Freeeeeet/course_scheduler/internal/booking"
	"github.com/Freeeeeet/course_scheduler/internal/selection"
	"github.com/Freeeeeet/course_scheduler/internal/service"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	var fe *fiber.Error
	var ve validator.ValidationErrors

	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.As(err, &ve),
		errors.Is(err, booking.ErrInvalidTimeFormat),
		errors.Is(err, booking.ErrInvalidTimeRange),
		errors.Is(err, service.ErrUnknownRange):
		return fiber.StatusBadRequest
	case service.IsNotFound(err),
		errors.Is(err, selection.ErrSessionNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, booking.ErrRoomConflict),
		errors.Is(err, booking.ErrDuplicateID):
		return fiber.StatusConflict
	}
	return fiber.StatusInternalServerError
}

func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	code := statusFor(err)
	msg := err.Error()

	if code >= fiber.StatusInternalServerError {
		s.logger.Error("Request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		msg = "internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   msg,
		"code":    code,
	})
}

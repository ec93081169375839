package api

import (
	"errors"
	"fmt"
	"strings"

	domain "github.com/Greenfield-Taster/ChatService/domain/chat"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// statusFor maps a domain error code to an HTTP status.
func statusFor(code string) int {
	switch code {
	case domain.CodeNotFound:
		return fiber.StatusNotFound
	case domain.CodeForbidden:
		return fiber.StatusForbidden
	case domain.CodeUnauthenticated:
		return fiber.StatusUnauthorized
	case domain.CodeInvalidStatus, domain.CodeInvalidTransition, domain.CodeBadRequest:
		return fiber.StatusBadRequest
	case domain.CodeConflict:
		return fiber.StatusConflict
	case domain.CodeRateLimited:
		return fiber.StatusTooManyRequests
	case domain.CodeStoreUnavailable:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// errorHandler renders every handler error as an ErrorResponse.
func (m *APIModule) errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(ErrorResponse{
			Error:   "server_error",
			Message: fe.Message,
		})
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "validation_error",
			Message: describeValidation(verrs),
		})
	}

	code := domain.Code(err)
	status := statusFor(code)
	message := err.Error()
	if status >= fiber.StatusInternalServerError {
		m.logger.Error("Request failed",
			"method", c.Method(),
			"path", c.Path(),
			"code", code,
			"error", err)
		message = "the chat service is temporarily unavailable"
	}

	return c.Status(status).JSON(ErrorResponse{
		Error:   code,
		Message: message,
	})
}

func describeValidation(verrs validator.ValidationErrors) string {
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}

// bind parses and validates a JSON body.
func (m *APIModule) bind(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return fmt.Errorf("%w: invalid request body", domain.ErrInvalidInput)
	}
	return m.validate.Struct(dst)
}

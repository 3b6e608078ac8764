// Package errxfiber renders errx errors as Fiber JSON responses.
package errxfiber

import (
	"errors"

	"github.com/Abraxas-365/certmailer/pkg/errx"
	"github.com/Abraxas-365/certmailer/pkg/logx"
	"github.com/gofiber/fiber/v2"
)

// ErrorHandler converts handler errors into JSON responses. *errx.Error
// keeps its status, code and details; *fiber.Error keeps its status;
// anything else is a 500. With debug set, the underlying cause is included.
func ErrorHandler(debug bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		requestID := c.GetRespHeader(fiber.HeaderXRequestID, c.Get(fiber.HeaderXRequestID))

		logx.WithFields(logx.Fields{
			"path":       c.Path(),
			"method":     c.Method(),
			"ip":         c.IP(),
			"request_id": requestID,
		}).Errorf("Request error: %v", err)

		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{
				"error":      fe.Message,
				"code":       "FIBER_ERROR",
				"status":     fe.Code,
				"request_id": requestID,
			})
		}

		var e *errx.Error
		if errx.As(err, &e) {
			resp := e.ToResponse()
			body := fiber.Map{
				"error":      resp.Message,
				"code":       resp.Code,
				"type":       resp.Type,
				"status":     resp.Status,
				"retryable":  resp.Retryable,
				"request_id": requestID,
			}
			if len(resp.Details) > 0 {
				body["details"] = resp.Details
			}
			if debug && e.Err != nil {
				body["underlying_error"] = e.Err.Error()
			}
			return c.Status(resp.Status).JSON(body)
		}

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":      "Internal Server Error",
			"type":       "INTERNAL",
			"code":       "INTERNAL_ERROR",
			"message":    "An unexpected error occurred",
			"request_id": requestID,
		})
	}
}

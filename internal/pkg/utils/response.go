package utils

import (
	"github.com/geo-lookup-proxy/internal/pkg/errors"
	"github.com/gofiber/fiber/v2"
)

// UpstreamFailureBody - фиксированное тело ответа при недоступности upstream
var UpstreamFailureBody = []byte(`{"error":"Unable to fetch data"}`)

type SuccessResponse struct {
	Data interface{} `json:"data"`
}

type ErrorResponse struct {
	Error *errors.AppError `json:"error"`
}

func SendSuccess(c *fiber.Ctx, data interface{}) error {
	return c.JSON(SuccessResponse{Data: data})
}

// SendRaw отдаёт тело без изменений с указанным Content-Type
func SendRaw(c *fiber.Ctx, body []byte, contentType string) error {
	if contentType == "" {
		contentType = fiber.MIMEApplicationJSON
	}
	c.Set(fiber.HeaderContentType, contentType)
	return c.Status(fiber.StatusOK).Send(body)
}

// SendUpstreamFailure отдаёт {"error":"Unable to fetch data"} со статусом status
func SendUpstreamFailure(c *fiber.Ctx, status int) error {
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Status(status).Send(UpstreamFailureBody)
}

func SendError(c *fiber.Ctx, err error) error {
	if appErr, ok := errors.As(err); ok {
		return c.Status(appErr.StatusCode).JSON(ErrorResponse{
			Error: appErr,
		})
	}

	// Unknown error - return 500
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Error: errors.ErrInternalServer,
	})
}

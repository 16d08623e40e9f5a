package middleware

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

// RequestContext - UserContext запроса, производный от base.
// Отмена base (остановка сервера) прерывает исходящие вызовы обработчиков.
// Контекст отменяется и по завершении запроса.
func RequestContext(base context.Context) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithCancel(base)
		defer cancel()

		c.SetUserContext(ctx)
		return c.Next()
	}
}

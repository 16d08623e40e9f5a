package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// CORS - middleware для настройки Cross-Origin Resource Sharing.
// Прокси без аутентификации, поэтому credentials не разрешаются.
func CORS(allowOrigins []string) fiber.Handler {
	origins := "*"
	if len(allowOrigins) > 0 {
		origins = strings.Join(allowOrigins, ",")
	}

	return cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: "GET,HEAD,OPTIONS",
		AllowHeaders: "Content-Type,Accept,Accept-Language,X-Request-ID",
	})
}

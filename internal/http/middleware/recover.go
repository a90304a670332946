package middleware

import (
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Recover turns a panic in a downstream handler into an error for the app's
// ErrorHandler (a 500) and logs the panic value with its stack.
func Recover(logger *slog.Logger) fiber.Handler {
	return recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e any) {
			rid, _ := c.Locals(RequestIDLocalKey).(string)
			logger.Error("panic_recovered",
				slog.String("request_id", rid),
				slog.String("panic", fmt.Sprint(e)),
				slog.String("stack", string(debug.Stack())),
			)
		},
	})
}

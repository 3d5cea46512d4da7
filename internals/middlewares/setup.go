package middlewares

import (
	"github.com/gofiber/fiber/v2"

	"agentposition_backend/internals/middlewares/logger"
)

// SetupMiddlewares wires the base middleware chain, innermost last.
func SetupMiddlewares(app *fiber.App) {
	app.Use(RecoveryMiddleware())
	app.Use(CorsMiddleware())
	app.Use(logger.LoggerMiddleware())
}

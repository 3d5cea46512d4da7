package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	agentRoute "agentposition_backend/internals/features/agents/route"
	rateLimiter "agentposition_backend/internals/middlewares"
)

func AgentRoutes(app *fiber.App, db *gorm.DB) {
	api := app.Group("/api",
		rateLimiter.GlobalRateLimiter(),
	)

	// 🔐 administration: /api/a/...
	adminGroup := api.Group("/a")
	agentRoute.AgentAdminRoutes(adminGroup, db)

	// 👤 agent connecté: /api/u/...
	userGroup := api.Group("/u")
	agentRoute.AgentUserRoutes(userGroup, db)
}

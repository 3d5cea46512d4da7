package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	presenceRoute "agentposition_backend/internals/features/presence/route"
	rateLimiter "agentposition_backend/internals/middlewares"
)

func PresenceRoutes(app *fiber.App, db *gorm.DB) {
	api := app.Group("/api",
		rateLimiter.PresenceRateLimiter(),
	)

	// 👤 flux quotidiens: /api/u/presence/..., /api/u/checkins, /api/u/missions/...
	userGroup := api.Group("/u")
	presenceRoute.PresenceUserRoutes(userGroup, db)

	// 🔐 révision manuelle: /api/a/presence-records/:id/review
	adminGroup := api.Group("/a")
	presenceRoute.PresenceAdminRoutes(adminGroup, db)
}

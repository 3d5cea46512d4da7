package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	reportRoute "agentposition_backend/internals/features/reports/monthly/route"
	rateLimiter "agentposition_backend/internals/middlewares"
)

func ReportRoutes(app *fiber.App, db *gorm.DB) {
	api := app.Group("/api",
		rateLimiter.ReportRateLimiter(),
	)

	// 🔐 génération + export: /api/a/reports/monthly/...
	adminGroup := api.Group("/a")
	reportRoute.ReportAdminRoutes(adminGroup, db)

	// 👤 consultation: /api/u/agents/:id/reports/:month
	userGroup := api.Group("/u")
	reportRoute.ReportUserRoutes(userGroup, db)
}

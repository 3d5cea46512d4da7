// file: internals/features/reports/monthly/route/monthly_report_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	reportController "agentposition_backend/internals/features/reports/monthly/controller"
)

// ReportAdminRoutes: génération et export des rapports mensuels.
func ReportAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := reportController.NewMonthlyReportController(db)

	r.Post("/reports/monthly/generate", ctrl.Generate)
	r.Get("/reports/monthly/:month/export", ctrl.Export)
}

// ReportUserRoutes: consultation de son propre rapport mensuel.
func ReportUserRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := reportController.NewMonthlyReportController(db)

	r.Get("/agents/:id/reports/:month", ctrl.GetByAgentMonth)
}

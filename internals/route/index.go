// file: internals/route/index.go
package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	routeDetails "agentposition_backend/internals/route/details"
	middlewares "agentposition_backend/internals/middlewares"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	startTime = time.Now()

	app.Use(middlewares.DBMiddleware(db))

	log.Println("[INFO] Setting up AgentRoutes...")
	routeDetails.AgentRoutes(app, db)

	log.Println("[INFO] Setting up PresenceRoutes...")
	routeDetails.PresenceRoutes(app, db)

	log.Println("[INFO] Setting up ReportRoutes...")
	routeDetails.ReportRoutes(app, db)

	BaseRoutes(app, db)
}

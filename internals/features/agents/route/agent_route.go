// file: internals/features/agents/route/agent_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	agentController "agentposition_backend/internals/features/agents/controller"
)

// AgentAdminRoutes: gestion des agents (création, configuration du point
// de référence, paramètres de présence).
func AgentAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := agentController.NewAgentController(db)

	agents := r.Group("/agents")
	agents.Post("/", ctrl.CreateAgent)
	agents.Get("/", ctrl.ListAgents)
	agents.Get("/:id", ctrl.GetAgent)
	agents.Patch("/:id/reference-point", ctrl.SetReferencePoint)
	agents.Patch("/:id/settings", ctrl.UpdateSettings)
}

// AgentUserRoutes: lecture seule du profil par l'agent lui-même.
func AgentUserRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := agentController.NewAgentController(db)

	r.Get("/agents/:id", ctrl.GetAgent)
}

// file: internals/features/presence/route/presence_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	checkinController "agentposition_backend/internals/features/presence/checkins/controller"
	missionController "agentposition_backend/internals/features/presence/missions/controller"
)

// PresenceUserRoutes: les flux quotidiens côté agent (pointages, missions).
func PresenceUserRoutes(r fiber.Router, db *gorm.DB) {
	presence := checkinController.NewPresenceController(db)
	checkins := checkinController.NewCheckinController(db)
	missions := missionController.NewMissionController(db)

	// Flux composés: mission + pointage + validation dans une transaction.
	r.Post("/presence/start", presence.StartPresence)
	r.Post("/presence/end", presence.EndPresence)

	r.Post("/checkins", checkins.CreateCheckin)
	r.Get("/agents/:id/checkins", checkins.ListByAgent)

	r.Post("/missions/start", missions.StartMission)
	r.Post("/missions/end", missions.EndMission)
	r.Get("/agents/:id/missions/active", missions.ActiveMission)
	r.Get("/agents/:id/missions", missions.ListMissions)
}

// PresenceAdminRoutes: révision manuelle des validations.
func PresenceAdminRoutes(r fiber.Router, db *gorm.DB) {
	checkins := checkinController.NewCheckinController(db)

	r.Post("/presence-records/:id/review", checkins.ReviewPresenceRecord)
}

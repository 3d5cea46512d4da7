// file: internals/features/presence/missions/dto/mission_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	m "agentposition_backend/internals/features/presence/missions/model"
)

/* =========================================================
 * REQUESTS
 * ========================================================= */

// Explicit start (JSON). Fails when a mission is already active.
type StartMissionRequest struct {
	AgentID    uuid.UUID `json:"agent_id" validate:"required"`
	VillageRef *string   `json:"village_ref" validate:"omitempty,max=120"`
}

type EndMissionRequest struct {
	AgentID uuid.UUID `json:"agent_id" validate:"required"`
}

/* =========================================================
 * RESPONSE
 * ========================================================= */

type MissionResponse struct {
	MissionID  uuid.UUID  `json:"mission_id"`
	AgentID    uuid.UUID  `json:"agent_id"`
	Status     string     `json:"status"`
	VillageRef *string    `json:"village_ref,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	EndedAt    *time.Time `json:"ended_at,omitempty"`
}

/* =========================================================
 * HELPERS
 * ========================================================= */

func FromMissionModel(mdl m.MissionModel) MissionResponse {
	return MissionResponse{
		MissionID:  mdl.MissionID,
		AgentID:    mdl.MissionAgentID,
		Status:     mdl.MissionStatus,
		VillageRef: mdl.MissionVillageRef,
		StartedAt:  mdl.MissionStartedAt,
		EndedAt:    mdl.MissionEndedAt,
	}
}

func FromMissionModels(mdls []m.MissionModel) []MissionResponse {
	out := make([]MissionResponse, 0, len(mdls))
	for _, mdl := range mdls {
		out = append(out, FromMissionModel(mdl))
	}
	return out
}

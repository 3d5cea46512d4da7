package model

import (
	"time"

	"github.com/google/uuid"
)

// MissionModel is one continuous field engagement of an agent.
// At most one mission per agent may be active at any time; the invariant
// is held by a partial unique index on (mission_agent_id) WHERE
// mission_status = 'active' (see databases.Migrate).
//
// An ended mission is an immutable history record: it is never reopened,
// a later check-in opens a brand new mission.
type MissionModel struct {
	MissionID      uuid.UUID `gorm:"type:uuid;primaryKey;column:mission_id" json:"mission_id"`
	MissionAgentID uuid.UUID `gorm:"type:uuid;not null;index;column:mission_agent_id" json:"mission_agent_id"`

	MissionStatus string `gorm:"type:varchar(10);not null;default:'active';column:mission_status" json:"mission_status"`

	// Localité cible (optionnelle) déclarée au démarrage.
	MissionVillageRef *string `gorm:"size:120;column:mission_village_ref" json:"mission_village_ref,omitempty"`

	MissionStartedAt time.Time  `gorm:"not null;column:mission_started_at" json:"mission_started_at"`
	MissionEndedAt   *time.Time `gorm:"column:mission_ended_at" json:"mission_ended_at,omitempty"`

	MissionCreatedAt time.Time  `gorm:"column:mission_created_at;autoCreateTime" json:"mission_created_at"`
	MissionUpdatedAt *time.Time `gorm:"column:mission_updated_at;autoUpdateTime" json:"mission_updated_at,omitempty"`
}

func (MissionModel) TableName() string { return "missions" }

package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// CheckinModel is one GPS sample recorded during a mission.
// Immutable once created; ordered by checkin_recorded_at within a mission.
// The agent id is denormalized from the mission so the monthly aggregation
// never needs to walk the missions table.
type CheckinModel struct {
	CheckinID        uuid.UUID `gorm:"type:uuid;primaryKey;column:checkin_id" json:"checkin_id"`
	CheckinMissionID uuid.UUID `gorm:"type:uuid;not null;index;column:checkin_mission_id" json:"checkin_mission_id"`
	CheckinAgentID   uuid.UUID `gorm:"type:uuid;not null;index;column:checkin_agent_id" json:"checkin_agent_id"`

	CheckinLat float64 `gorm:"not null;column:checkin_lat" json:"checkin_lat"`
	CheckinLng float64 `gorm:"not null;column:checkin_lng" json:"checkin_lng"`

	CheckinRecordedAt time.Time `gorm:"not null;index;column:checkin_recorded_at" json:"checkin_recorded_at"`

	CheckinNote     *string `gorm:"column:checkin_note" json:"checkin_note,omitempty"`
	CheckinPhotoURL *string `gorm:"size:500;column:checkin_photo_url" json:"checkin_photo_url,omitempty"`

	// Métadonnées libres envoyées par le mobile (précision GPS, batterie, ...).
	CheckinDeviceMeta datatypes.JSON `gorm:"column:checkin_device_meta" json:"checkin_device_meta,omitempty"`

	CheckinCreatedAt time.Time `gorm:"column:checkin_created_at;autoCreateTime" json:"checkin_created_at"`
}

func (CheckinModel) TableName() string { return "checkins" }

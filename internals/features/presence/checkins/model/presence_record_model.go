package model

import (
	"time"

	"github.com/google/uuid"
)

// PresenceRecordModel is the judgment attached 1:1 to a check-in: the
// computed distance to the agent's reference point, the tolerance radius
// that was in force, and the resulting status.
//
// The record is append-only except for the manual-review fields, which a
// reviewer may stamp exactly once (see PresenceValidatorService.ApplyManualReview).
type PresenceRecordModel struct {
	PresenceRecordID        uuid.UUID `gorm:"type:uuid;primaryKey;column:presence_record_id" json:"presence_record_id"`
	PresenceRecordCheckinID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex;column:presence_record_checkin_id" json:"presence_record_checkin_id"`
	PresenceRecordAgentID   uuid.UUID `gorm:"type:uuid;not null;index;column:presence_record_agent_id" json:"presence_record_agent_id"`

	PresenceRecordDistanceM        float64 `gorm:"not null;column:presence_record_distance_m" json:"presence_record_distance_m"`
	PresenceRecordToleranceRadiusM float64 `gorm:"not null;column:presence_record_tolerance_radius_m" json:"presence_record_tolerance_radius_m"`

	PresenceRecordStatus string `gorm:"type:varchar(10);not null;column:presence_record_status" json:"presence_record_status"`

	// Révision manuelle (une seule fois).
	PresenceRecordOverrideStatus     *string    `gorm:"type:varchar(10);column:presence_record_override_status" json:"presence_record_override_status,omitempty"`
	PresenceRecordOverrideReviewerID *uuid.UUID `gorm:"type:uuid;column:presence_record_override_reviewer_id" json:"presence_record_override_reviewer_id,omitempty"`
	PresenceRecordOverrideNotes      *string    `gorm:"column:presence_record_override_notes" json:"presence_record_override_notes,omitempty"`
	PresenceRecordReviewedAt         *time.Time `gorm:"column:presence_record_reviewed_at" json:"presence_record_reviewed_at,omitempty"`

	PresenceRecordCreatedAt time.Time `gorm:"column:presence_record_created_at;autoCreateTime" json:"presence_record_created_at"`
}

func (PresenceRecordModel) TableName() string { return "presence_records" }

// EffectiveStatus returns the reviewer override when one was stamped,
// otherwise the computed status.
func (m PresenceRecordModel) EffectiveStatus() string {
	if m.PresenceRecordOverrideStatus != nil && *m.PresenceRecordOverrideStatus != "" {
		return *m.PresenceRecordOverrideStatus
	}
	return m.PresenceRecordStatus
}

// file: internals/features/presence/checkins/dto/checkin_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	m "agentposition_backend/internals/features/presence/checkins/model"
	missionDto "agentposition_backend/internals/features/presence/missions/dto"
)

/* =========================================================
 * REQUESTS
 * ========================================================= */

// Start/end-of-day presence (JSON). Coordinates are pointers so a missing
// field is rejected instead of silently reading as 0,0.
type PresenceCheckRequest struct {
	AgentID uuid.UUID `json:"agent_id" validate:"required"`

	Lat *float64 `json:"lat" validate:"required,min=-90,max=90"`
	Lng *float64 `json:"lng" validate:"required,min=-180,max=180"`

	VillageRef *string        `json:"village_ref" validate:"omitempty,max=120"`
	Note       *string        `json:"note" validate:"omitempty,max=500"`
	PhotoURL   *string        `json:"photo_url" validate:"omitempty,url,max=500"`
	DeviceMeta datatypes.JSON `json:"device_meta" validate:"omitempty"`
}

// Raw check-in on an already known mission (JSON).
type RecordCheckinRequest struct {
	MissionID uuid.UUID `json:"mission_id" validate:"required"`

	Lat *float64 `json:"lat" validate:"required,min=-90,max=90"`
	Lng *float64 `json:"lng" validate:"required,min=-180,max=180"`

	Note       *string        `json:"note" validate:"omitempty,max=500"`
	PhotoURL   *string        `json:"photo_url" validate:"omitempty,url,max=500"`
	DeviceMeta datatypes.JSON `json:"device_meta" validate:"omitempty"`
}

// One-shot reviewer override of a presence record.
type ManualReviewRequest struct {
	Status     string    `json:"status" validate:"required,oneof=present absent tolerance"`
	ReviewerID uuid.UUID `json:"reviewer_id" validate:"required"`
	Notes      *string   `json:"notes" validate:"omitempty,max=500"`
}

/* =========================================================
 * RESPONSES
 * ========================================================= */

type CheckinResponse struct {
	CheckinID  uuid.UUID      `json:"checkin_id"`
	MissionID  uuid.UUID      `json:"mission_id"`
	AgentID    uuid.UUID      `json:"agent_id"`
	Lat        float64        `json:"lat"`
	Lng        float64        `json:"lng"`
	RecordedAt time.Time      `json:"recorded_at"`
	Note       *string        `json:"note,omitempty"`
	PhotoURL   *string        `json:"photo_url,omitempty"`
	DeviceMeta datatypes.JSON `json:"device_meta,omitempty"`
}

type PresenceRecordResponse struct {
	PresenceRecordID uuid.UUID `json:"presence_record_id"`
	CheckinID        uuid.UUID `json:"checkin_id"`
	AgentID          uuid.UUID `json:"agent_id"`
	DistanceM        float64   `json:"distance_m"`
	ToleranceRadiusM float64   `json:"tolerance_radius_m"`
	Status           string    `json:"status"`
	EffectiveStatus  string    `json:"effective_status"`

	OverrideStatus     *string    `json:"override_status,omitempty"`
	OverrideReviewerID *uuid.UUID `json:"override_reviewer_id,omitempty"`
	OverrideNotes      *string    `json:"override_notes,omitempty"`
	ReviewedAt         *time.Time `json:"reviewed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// Composite payload of the start/end-of-day flows.
type PresenceCheckResponse struct {
	Mission    missionDto.MissionResponse `json:"mission"`
	Checkin    CheckinResponse            `json:"checkin"`
	Validation PresenceRecordResponse     `json:"validation"`
}

/* =========================================================
 * HELPERS
 * ========================================================= */

func FromCheckinModel(mdl m.CheckinModel) CheckinResponse {
	return CheckinResponse{
		CheckinID:  mdl.CheckinID,
		MissionID:  mdl.CheckinMissionID,
		AgentID:    mdl.CheckinAgentID,
		Lat:        mdl.CheckinLat,
		Lng:        mdl.CheckinLng,
		RecordedAt: mdl.CheckinRecordedAt,
		Note:       mdl.CheckinNote,
		PhotoURL:   mdl.CheckinPhotoURL,
		DeviceMeta: mdl.CheckinDeviceMeta,
	}
}

func FromCheckinModels(mdls []m.CheckinModel) []CheckinResponse {
	out := make([]CheckinResponse, 0, len(mdls))
	for _, mdl := range mdls {
		out = append(out, FromCheckinModel(mdl))
	}
	return out
}

func FromPresenceRecordModel(mdl m.PresenceRecordModel) PresenceRecordResponse {
	return PresenceRecordResponse{
		PresenceRecordID:   mdl.PresenceRecordID,
		CheckinID:          mdl.PresenceRecordCheckinID,
		AgentID:            mdl.PresenceRecordAgentID,
		DistanceM:          mdl.PresenceRecordDistanceM,
		ToleranceRadiusM:   mdl.PresenceRecordToleranceRadiusM,
		Status:             mdl.PresenceRecordStatus,
		EffectiveStatus:    mdl.EffectiveStatus(),
		OverrideStatus:     mdl.PresenceRecordOverrideStatus,
		OverrideReviewerID: mdl.PresenceRecordOverrideReviewerID,
		OverrideNotes:      mdl.PresenceRecordOverrideNotes,
		ReviewedAt:         mdl.PresenceRecordReviewedAt,
		CreatedAt:          mdl.PresenceRecordCreatedAt,
	}
}

// file: internals/features/presence/checkins/service/presence_validator_service.go
package service

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"agentposition_backend/internals/constants"
	agentService "agentposition_backend/internals/features/agents/service"
	"agentposition_backend/internals/features/presence/checkins/model"
	"agentposition_backend/internals/helpers/geo"

	"github.com/google/uuid"
)

var (
	ErrPresenceRecordNotFound = errors.New("validation de présence introuvable")

	// ErrAlreadyReviewed: la révision manuelle ne s'applique qu'une seule fois.
	ErrAlreadyReviewed = errors.New("cette validation a déjà été révisée")
)

// ValidationResult is the outcome of the geographic classification.
type ValidationResult struct {
	Status    string
	DistanceM float64
}

// Classify is the two-way presence decision. The boundary is inclusive:
// exactly on the tolerance circle is still present. The classifier never
// returns the tolerance status.
func Classify(distanceM, toleranceRadiusM float64) string {
	if distanceM <= toleranceRadiusM {
		return constants.PresenceStatusPresent
	}
	return constants.PresenceStatusAbsent
}

// Validate computes distance and status for a check-in position against a
// reference point. Pure; persistence happens in RecordValidation.
func Validate(checkinLat, checkinLng, referenceLat, referenceLng, toleranceRadiusM float64) ValidationResult {
	d := geo.DistanceMeters(checkinLat, checkinLng, referenceLat, referenceLng)
	return ValidationResult{
		Status:    Classify(d, toleranceRadiusM),
		DistanceM: d,
	}
}

// PresenceValidatorService judges check-ins against the agent's reference
// point and persists the judgment as a presence record.
type PresenceValidatorService struct {
	DB   *gorm.DB
	Refs *agentService.ReferencePointService
}

func NewPresenceValidatorService(db *gorm.DB) *PresenceValidatorService {
	return &PresenceValidatorService{
		DB:   db,
		Refs: agentService.NewReferencePointService(db),
	}
}

func (s *PresenceValidatorService) dbOr(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return s.DB
}

// RecordValidation validates one check-in and persists its PresenceRecord.
//
// bootstrapReference controls the first-check-in policy: when true an
// unconfigured agent adopts the check-in coordinates as its reference point
// (one-shot transition, see ReferencePointService.Bootstrap) before the
// distance is computed; when false an unconfigured agent fails with
// agentService.ErrReferenceNotConfigured.
//
// Side effect: exactly one new presence_records row. Neither the agent nor
// the mission is mutated here.
func (s *PresenceValidatorService) RecordValidation(tx *gorm.DB, agentID uuid.UUID, checkin *model.CheckinModel, bootstrapReference bool) (*model.PresenceRecordModel, error) {
	db := s.dbOr(tx)

	var (
		rp  agentService.ReferencePoint
		err error
	)
	if bootstrapReference {
		rp, _, err = s.Refs.Bootstrap(db, agentID, checkin.CheckinLat, checkin.CheckinLng)
	} else {
		rp, err = s.Refs.Resolve(db, agentID)
	}
	if err != nil {
		return nil, err
	}

	result := Validate(checkin.CheckinLat, checkin.CheckinLng, rp.Lat, rp.Lng, rp.ToleranceRadiusM)

	rec := model.PresenceRecordModel{
		PresenceRecordID:               uuid.New(),
		PresenceRecordCheckinID:        checkin.CheckinID,
		PresenceRecordAgentID:          agentID,
		PresenceRecordDistanceM:        result.DistanceM,
		PresenceRecordToleranceRadiusM: rp.ToleranceRadiusM,
		PresenceRecordStatus:           result.Status,
	}
	if err := db.Create(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

// ApplyManualReview stamps a one-shot reviewer override on a presence
// record. The guarded UPDATE only fires while the record has never been
// reviewed, which keeps the history append-only: a second review attempt
// fails with ErrAlreadyReviewed.
func (s *PresenceValidatorService) ApplyManualReview(tx *gorm.DB, recordID uuid.UUID, status string, reviewerID uuid.UUID, notes *string) (*model.PresenceRecordModel, error) {
	db := s.dbOr(tx)
	now := time.Now().UTC()

	res := db.Model(&model.PresenceRecordModel{}).
		Where("presence_record_id = ? AND presence_record_reviewed_at IS NULL", recordID).
		Updates(map[string]any{
			"presence_record_override_status":      status,
			"presence_record_override_reviewer_id": reviewerID,
			"presence_record_override_notes":       notes,
			"presence_record_reviewed_at":          now,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		var existing model.PresenceRecordModel
		if err := db.Where("presence_record_id = ?", recordID).Take(&existing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrPresenceRecordNotFound
			}
			return nil, err
		}
		return &existing, ErrAlreadyReviewed
	}

	var rec model.PresenceRecordModel
	if err := db.Where("presence_record_id = ?", recordID).Take(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

// FindByCheckin returns the presence record paired with a check-in.
func (s *PresenceValidatorService) FindByCheckin(tx *gorm.DB, checkinID uuid.UUID) (*model.PresenceRecordModel, error) {
	db := s.dbOr(tx)

	var rec model.PresenceRecordModel
	if err := db.Where("presence_record_checkin_id = ?", checkinID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPresenceRecordNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// ListCheckinsByAgent returns the agent's check-ins with their validation,
// most recent first.
func (s *PresenceValidatorService) ListCheckinsByAgent(tx *gorm.DB, agentID uuid.UUID, offset, limit int) ([]model.CheckinModel, int64, error) {
	db := s.dbOr(tx)

	var total int64
	if err := db.Model(&model.CheckinModel{}).
		Where("checkin_agent_id = ?", agentID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.CheckinModel
	if err := db.
		Where("checkin_agent_id = ?", agentID).
		Order("checkin_recorded_at DESC").
		Offset(offset).Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

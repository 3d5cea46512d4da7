// file: internals/features/agents/service/reference_point_service.go
package service

import (
	"errors"

	"gorm.io/gorm"

	"agentposition_backend/internals/constants"
	"agentposition_backend/internals/features/agents/model"

	"github.com/google/uuid"
)

var (
	ErrAgentNotFound = errors.New("agent introuvable")

	// ErrReferenceNotConfigured: l'agent n'a pas encore de point de référence.
	// Recoverable: the caller either configures one or lets the first
	// check-in bootstrap it.
	ErrReferenceNotConfigured = errors.New("point de référence non configuré pour cet agent")
)

// ReferencePoint is the resolved validation anchor for an agent.
type ReferencePoint struct {
	Lat              float64
	Lng              float64
	ToleranceRadiusM float64
}

type ReferencePointService struct {
	DB *gorm.DB
}

func NewReferencePointService(db *gorm.DB) *ReferencePointService {
	return &ReferencePointService{DB: db}
}

func (s *ReferencePointService) dbOr(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return s.DB
}

// Resolve returns the agent's reference point and tolerance radius.
// Fails with ErrReferenceNotConfigured while the agent is unconfigured.
func (s *ReferencePointService) Resolve(tx *gorm.DB, agentID uuid.UUID) (ReferencePoint, error) {
	db := s.dbOr(tx)

	var agent model.AgentModel
	if err := db.Where("id = ?", agentID).Take(&agent).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ReferencePoint{}, ErrAgentNotFound
		}
		return ReferencePoint{}, err
	}
	if !agent.HasReferencePoint() {
		return ReferencePoint{}, ErrReferenceNotConfigured
	}

	tol := agent.ToleranceRadiusM
	if tol <= 0 {
		tol = constants.DefaultToleranceRadiusM
	}
	return ReferencePoint{
		Lat:              *agent.ReferenceLat,
		Lng:              *agent.ReferenceLng,
		ToleranceRadiusM: tol,
	}, nil
}

// Bootstrap performs the one-shot Unconfigured -> Configured transition:
// the given coordinates become the agent's reference point only while the
// reference columns are still NULL. The guarded conditional UPDATE makes
// concurrent first check-ins elect exactly one winner; losers simply read
// back the winner's reference.
//
// Returns the resolved reference and whether this call did the transition.
func (s *ReferencePointService) Bootstrap(tx *gorm.DB, agentID uuid.UUID, lat, lng float64) (ReferencePoint, bool, error) {
	db := s.dbOr(tx)

	res := db.Model(&model.AgentModel{}).
		Where("id = ? AND reference_lat IS NULL AND reference_lng IS NULL", agentID).
		Updates(map[string]any{
			"reference_lat": lat,
			"reference_lng": lng,
		})
	if res.Error != nil {
		return ReferencePoint{}, false, res.Error
	}
	bootstrapped := res.RowsAffected > 0

	rp, err := s.Resolve(tx, agentID)
	if err != nil {
		return ReferencePoint{}, bootstrapped, err
	}
	return rp, bootstrapped, nil
}

// SetReferencePoint is the administrative override. Unlike Bootstrap it
// always writes, and may adjust the tolerance radius in the same stroke.
func (s *ReferencePointService) SetReferencePoint(tx *gorm.DB, agentID uuid.UUID, lat, lng float64, toleranceRadiusM *float64) (*model.AgentModel, error) {
	db := s.dbOr(tx)

	updates := map[string]any{
		"reference_lat": lat,
		"reference_lng": lng,
	}
	if toleranceRadiusM != nil && *toleranceRadiusM > 0 {
		updates["tolerance_radius_m"] = *toleranceRadiusM
	}

	res := db.Model(&model.AgentModel{}).
		Where("id = ?", agentID).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrAgentNotFound
	}

	var agent model.AgentModel
	if err := db.Where("id = ?", agentID).Take(&agent).Error; err != nil {
		return nil, err
	}
	return &agent, nil
}

// file: internals/features/presence/missions/service/mission_lifecycle_service.go
package service

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"agentposition_backend/internals/constants"
	checkinModel "agentposition_backend/internals/features/presence/checkins/model"
	"agentposition_backend/internals/features/presence/missions/model"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

var (
	// ErrMissionAlreadyActive: démarrage explicite refusé, une mission est déjà ouverte.
	ErrMissionAlreadyActive = errors.New("une mission est déjà active pour cet agent")

	// ErrNoActiveMission: l'opération exige une mission active.
	ErrNoActiveMission = errors.New("aucune mission active pour cet agent")

	ErrMissionNotFound = errors.New("mission introuvable")
)

// CheckinInput carries the raw sample for RecordCheckin. A zero RecordedAt
// means "now".
type CheckinInput struct {
	Lat        float64
	Lng        float64
	RecordedAt time.Time
	Note       *string
	PhotoURL   *string
	DeviceMeta datatypes.JSON
}

// MissionLifecycleService owns the per-agent mission state machine
// {NoActiveMission, ActiveMission} and the ordered check-in stream within
// a mission.
type MissionLifecycleService struct {
	DB *gorm.DB
}

func NewMissionLifecycleService(db *gorm.DB) *MissionLifecycleService {
	return &MissionLifecycleService{DB: db}
}

func (s *MissionLifecycleService) dbOr(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return s.DB
}

// ActiveMission returns the agent's currently active mission.
// Fails with ErrNoActiveMission when the agent is in NoActiveMission.
func (s *MissionLifecycleService) ActiveMission(tx *gorm.DB, agentID uuid.UUID) (*model.MissionModel, error) {
	db := s.dbOr(tx)

	var m model.MissionModel
	err := db.
		Where("mission_agent_id = ? AND mission_status = ?", agentID, constants.MissionStatusActive).
		Take(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveMission
		}
		return nil, err
	}
	return &m, nil
}

// openMission does the atomic conditional insert. The INSERT ... SELECT
// only fires while no active mission exists for the agent, and the partial
// unique index on missions(mission_agent_id) WHERE status='active' closes
// the remaining race window: under concurrent calls exactly one row wins.
func (s *MissionLifecycleService) openMission(db *gorm.DB, agentID uuid.UUID, villageRef *string) (*model.MissionModel, int64, error) {
	now := time.Now().UTC()
	m := model.MissionModel{
		MissionID:         uuid.New(),
		MissionAgentID:    agentID,
		MissionStatus:     constants.MissionStatusActive,
		MissionVillageRef: villageRef,
		MissionStartedAt:  now,
		MissionCreatedAt:  now,
	}

	res := db.Exec(`
		INSERT INTO missions
			(mission_id, mission_agent_id, mission_status, mission_village_ref, mission_started_at, mission_created_at)
		SELECT ?, ?, ?, ?, ?, ?
		WHERE NOT EXISTS (
			SELECT 1 FROM missions
			WHERE mission_agent_id = ? AND mission_status = ?
		)`,
		m.MissionID, m.MissionAgentID, m.MissionStatus, m.MissionVillageRef, m.MissionStartedAt, m.MissionCreatedAt,
		agentID, constants.MissionStatusActive,
	)
	if res.Error != nil {
		// The partial unique index may still fire when two inserts race;
		// the loser resolves to the winner's row.
		if existing, ferr := s.ActiveMission(db, agentID); ferr == nil {
			return existing, 0, nil
		}
		return nil, 0, res.Error
	}
	if res.RowsAffected == 0 {
		existing, ferr := s.ActiveMission(db, agentID)
		if ferr != nil {
			return nil, 0, ferr
		}
		return existing, 0, nil
	}
	return &m, res.RowsAffected, nil
}

// EnsureActiveMission returns the agent's active mission, opening one when
// none exists. Idempotent: repeated calls return the same mission.
func (s *MissionLifecycleService) EnsureActiveMission(tx *gorm.DB, agentID uuid.UUID, villageRef *string) (*model.MissionModel, error) {
	m, _, err := s.openMission(s.dbOr(tx), agentID, villageRef)
	return m, err
}

// StartExplicit opens a mission for an agent that must not already have
// one. Unlike EnsureActiveMission a redundant call is an error, reported
// with the current mission so the caller can reconcile its state.
func (s *MissionLifecycleService) StartExplicit(tx *gorm.DB, agentID uuid.UUID, villageRef *string) (*model.MissionModel, error) {
	m, inserted, err := s.openMission(s.dbOr(tx), agentID, villageRef)
	if err != nil {
		return nil, err
	}
	if inserted == 0 {
		return m, ErrMissionAlreadyActive
	}
	return m, nil
}

// EndMission closes the agent's active mission. Terminal: the mission is
// never reopened, a later check-in starts a new one.
func (s *MissionLifecycleService) EndMission(tx *gorm.DB, agentID uuid.UUID) (*model.MissionModel, error) {
	db := s.dbOr(tx)

	active, err := s.ActiveMission(db, agentID)
	if err != nil {
		return nil, err
	}
	return s.closeMission(db, active.MissionID)
}

// EndMissionByID closes a mission addressed directly by id.
func (s *MissionLifecycleService) EndMissionByID(tx *gorm.DB, missionID uuid.UUID) (*model.MissionModel, error) {
	db := s.dbOr(tx)

	var m model.MissionModel
	if err := db.Where("mission_id = ?", missionID).Take(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMissionNotFound
		}
		return nil, err
	}
	if m.MissionStatus != constants.MissionStatusActive {
		return &m, ErrNoActiveMission
	}
	return s.closeMission(db, missionID)
}

// closeMission flips active -> ended with a guarded conditional UPDATE so
// two concurrent closers cannot both succeed.
func (s *MissionLifecycleService) closeMission(db *gorm.DB, missionID uuid.UUID) (*model.MissionModel, error) {
	now := time.Now().UTC()

	res := db.Model(&model.MissionModel{}).
		Where("mission_id = ? AND mission_status = ?", missionID, constants.MissionStatusActive).
		Updates(map[string]any{
			"mission_status":   constants.MissionStatusEnded,
			"mission_ended_at": now,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNoActiveMission
	}

	var m model.MissionModel
	if err := db.Where("mission_id = ?", missionID).Take(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// RecordCheckin appends an immutable check-in to a mission.
// Fails with ErrMissionNotFound when the mission id is unknown.
func (s *MissionLifecycleService) RecordCheckin(tx *gorm.DB, missionID uuid.UUID, in CheckinInput) (*checkinModel.CheckinModel, error) {
	db := s.dbOr(tx)

	var mission model.MissionModel
	if err := db.Where("mission_id = ?", missionID).Take(&mission).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMissionNotFound
		}
		return nil, err
	}

	recordedAt := in.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now().UTC()
	}

	row := checkinModel.CheckinModel{
		CheckinID:         uuid.New(),
		CheckinMissionID:  mission.MissionID,
		CheckinAgentID:    mission.MissionAgentID,
		CheckinLat:        in.Lat,
		CheckinLng:        in.Lng,
		CheckinRecordedAt: recordedAt,
		CheckinNote:       in.Note,
		CheckinPhotoURL:   in.PhotoURL,
		CheckinDeviceMeta: in.DeviceMeta,
	}
	if err := db.Create(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// ListByAgent returns the agent's missions, most recent first.
func (s *MissionLifecycleService) ListByAgent(tx *gorm.DB, agentID uuid.UUID, offset, limit int) ([]model.MissionModel, int64, error) {
	db := s.dbOr(tx)

	var total int64
	if err := db.Model(&model.MissionModel{}).
		Where("mission_agent_id = ?", agentID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.MissionModel
	if err := db.
		Where("mission_agent_id = ?", agentID).
		Order("mission_started_at DESC").
		Offset(offset).Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

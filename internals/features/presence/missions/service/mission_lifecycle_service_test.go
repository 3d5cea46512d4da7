package service

import (
	"errors"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	database "agentposition_backend/internals/databases"
	"agentposition_backend/internals/constants"
	agentModel "agentposition_backend/internals/features/agents/model"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	// one connection: every query must see the same in-memory database
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func createTestAgent(t *testing.T, db *gorm.DB) agentModel.AgentModel {
	t.Helper()
	a := agentModel.AgentModel{
		ID:                   uuid.New(),
		FullName:             "Agent Test",
		Email:                uuid.NewString() + "@example.org",
		Role:                 constants.RoleAgent,
		ToleranceRadiusM:     constants.DefaultToleranceRadiusM,
		ExpectedDaysPerMonth: constants.DefaultExpectedDaysPerMonth,
		IsActive:             true,
	}
	if err := db.Create(&a).Error; err != nil {
		t.Fatalf("create agent: %v", err)
	}
	return a
}

func TestEnsureActiveMissionIdempotent(t *testing.T) {
	db := openTestDB(t)
	svc := NewMissionLifecycleService(db)
	agent := createTestAgent(t, db)

	first, err := svc.EnsureActiveMission(nil, agent.ID, nil)
	if err != nil {
		t.Fatalf("first ensure: %v", err)
	}
	if first.MissionStatus != constants.MissionStatusActive {
		t.Fatalf("status = %q, want active", first.MissionStatus)
	}

	for i := 0; i < 5; i++ {
		m, err := svc.EnsureActiveMission(nil, agent.ID, nil)
		if err != nil {
			t.Fatalf("ensure #%d: %v", i, err)
		}
		if m.MissionID != first.MissionID {
			t.Fatalf("ensure #%d returned mission %s, want %s", i, m.MissionID, first.MissionID)
		}
	}

	var activeCount int64
	if err := db.Table("missions").
		Where("mission_agent_id = ? AND mission_status = ?", agent.ID, constants.MissionStatusActive).
		Count(&activeCount).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if activeCount != 1 {
		t.Fatalf("active missions = %d, want 1", activeCount)
	}
}

func TestEnsureActiveMissionConcurrent(t *testing.T) {
	db := openTestDB(t)
	svc := NewMissionLifecycleService(db)
	agent := createTestAgent(t, db)

	const n = 20
	ids := make(chan uuid.UUID, n)
	errs := make(chan error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m, err := svc.EnsureActiveMission(nil, agent.ID, nil)
			if err != nil {
				errs <- err
				return
			}
			ids <- m.MissionID
		}()
	}
	wg.Wait()
	close(ids)
	close(errs)

	for err := range errs {
		t.Fatalf("concurrent ensure: %v", err)
	}

	var first uuid.UUID
	for id := range ids {
		if first == uuid.Nil {
			first = id
			continue
		}
		if id != first {
			t.Fatalf("two distinct missions opened: %s and %s", first, id)
		}
	}

	var activeCount int64
	if err := db.Table("missions").
		Where("mission_agent_id = ? AND mission_status = ?", agent.ID, constants.MissionStatusActive).
		Count(&activeCount).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if activeCount != 1 {
		t.Fatalf("active missions = %d, want 1", activeCount)
	}
}

func TestEnsureActiveMissionIsolatedPerAgent(t *testing.T) {
	db := openTestDB(t)
	svc := NewMissionLifecycleService(db)
	a1 := createTestAgent(t, db)
	a2 := createTestAgent(t, db)

	m1, err := svc.EnsureActiveMission(nil, a1.ID, nil)
	if err != nil {
		t.Fatalf("agent1: %v", err)
	}
	m2, err := svc.EnsureActiveMission(nil, a2.ID, nil)
	if err != nil {
		t.Fatalf("agent2: %v", err)
	}
	if m1.MissionID == m2.MissionID {
		t.Fatalf("agents share a mission")
	}
}

func TestStartExplicitConflict(t *testing.T) {
	db := openTestDB(t)
	svc := NewMissionLifecycleService(db)
	agent := createTestAgent(t, db)

	village := "Sèmè-Kpodji"
	first, err := svc.StartExplicit(nil, agent.ID, &village)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if first.MissionVillageRef == nil || *first.MissionVillageRef != village {
		t.Fatalf("village ref not stored")
	}

	again, err := svc.StartExplicit(nil, agent.ID, nil)
	if !errors.Is(err, ErrMissionAlreadyActive) {
		t.Fatalf("second start err = %v, want ErrMissionAlreadyActive", err)
	}
	if again == nil || again.MissionID != first.MissionID {
		t.Fatalf("conflict should report the current mission")
	}
}

func TestEndMissionTerminality(t *testing.T) {
	db := openTestDB(t)
	svc := NewMissionLifecycleService(db)
	agent := createTestAgent(t, db)

	opened, err := svc.EnsureActiveMission(nil, agent.ID, nil)
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}

	ended, err := svc.EndMission(nil, agent.ID)
	if err != nil {
		t.Fatalf("end: %v", err)
	}
	if ended.MissionStatus != constants.MissionStatusEnded {
		t.Fatalf("status = %q, want ended", ended.MissionStatus)
	}
	if ended.MissionEndedAt == nil {
		t.Fatalf("ended_at not set")
	}

	if _, err := svc.EndMission(nil, agent.ID); !errors.Is(err, ErrNoActiveMission) {
		t.Fatalf("double end err = %v, want ErrNoActiveMission", err)
	}

	// a new day opens a brand new mission, never the old one
	reopened, err := svc.EnsureActiveMission(nil, agent.ID, nil)
	if err != nil {
		t.Fatalf("re-ensure: %v", err)
	}
	if reopened.MissionID == opened.MissionID {
		t.Fatalf("ended mission was reopened")
	}
}

func TestEndMissionByID(t *testing.T) {
	db := openTestDB(t)
	svc := NewMissionLifecycleService(db)
	agent := createTestAgent(t, db)

	if _, err := svc.EndMissionByID(nil, uuid.New()); !errors.Is(err, ErrMissionNotFound) {
		t.Fatalf("unknown mission err = %v, want ErrMissionNotFound", err)
	}

	opened, err := svc.EnsureActiveMission(nil, agent.ID, nil)
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if _, err := svc.EndMissionByID(nil, opened.MissionID); err != nil {
		t.Fatalf("end by id: %v", err)
	}
	if _, err := svc.EndMissionByID(nil, opened.MissionID); !errors.Is(err, ErrNoActiveMission) {
		t.Fatalf("end ended err = %v, want ErrNoActiveMission", err)
	}
}

func TestEndMissionWithoutActive(t *testing.T) {
	db := openTestDB(t)
	svc := NewMissionLifecycleService(db)
	agent := createTestAgent(t, db)

	if _, err := svc.EndMission(nil, agent.ID); !errors.Is(err, ErrNoActiveMission) {
		t.Fatalf("err = %v, want ErrNoActiveMission", err)
	}
}

func TestRecordCheckin(t *testing.T) {
	db := openTestDB(t)
	svc := NewMissionLifecycleService(db)
	agent := createTestAgent(t, db)

	if _, err := svc.RecordCheckin(nil, uuid.New(), CheckinInput{Lat: 1, Lng: 1}); !errors.Is(err, ErrMissionNotFound) {
		t.Fatalf("unknown mission err = %v, want ErrMissionNotFound", err)
	}

	mission, err := svc.EnsureActiveMission(nil, agent.ID, nil)
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}

	note := "devant le centre de santé"
	ck, err := svc.RecordCheckin(nil, mission.MissionID, CheckinInput{
		Lat:  6.3729,
		Lng:  2.3543,
		Note: &note,
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if ck.CheckinAgentID != agent.ID {
		t.Fatalf("agent id not denormalized from mission")
	}
	if ck.CheckinRecordedAt.IsZero() {
		t.Fatalf("recorded_at not defaulted")
	}
	if ck.CheckinNote == nil || *ck.CheckinNote != note {
		t.Fatalf("note not stored")
	}
}

package service

import (
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	database "agentposition_backend/internals/databases"
	"agentposition_backend/internals/constants"
	agentModel "agentposition_backend/internals/features/agents/model"
	agentService "agentposition_backend/internals/features/agents/service"
	"agentposition_backend/internals/features/presence/checkins/model"
	missionService "agentposition_backend/internals/features/presence/missions/service"
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
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func createAgent(t *testing.T, db *gorm.DB, refLat, refLng *float64) agentModel.AgentModel {
	t.Helper()
	a := agentModel.AgentModel{
		ID:                   uuid.New(),
		FullName:             "Agent Test",
		Email:                uuid.NewString() + "@example.org",
		Role:                 constants.RoleAgent,
		ReferenceLat:         refLat,
		ReferenceLng:         refLng,
		ToleranceRadiusM:     constants.DefaultToleranceRadiusM,
		ExpectedDaysPerMonth: constants.DefaultExpectedDaysPerMonth,
		IsActive:             true,
	}
	if err := db.Create(&a).Error; err != nil {
		t.Fatalf("create agent: %v", err)
	}
	return a
}

func createCheckin(t *testing.T, db *gorm.DB, agentID uuid.UUID, lat, lng float64, recordedAt time.Time) *model.CheckinModel {
	t.Helper()
	missions := missionService.NewMissionLifecycleService(db)
	m, err := missions.EnsureActiveMission(db, agentID, nil)
	if err != nil {
		t.Fatalf("ensure mission: %v", err)
	}
	ck, err := missions.RecordCheckin(db, m.MissionID, missionService.CheckinInput{
		Lat:        lat,
		Lng:        lng,
		RecordedAt: recordedAt,
	})
	if err != nil {
		t.Fatalf("record checkin: %v", err)
	}
	return ck
}

func f64(v float64) *float64 { return &v }

func TestClassifyBoundaryInclusive(t *testing.T) {
	cases := []struct {
		name      string
		distanceM float64
		toleranceM float64
		want      string
	}{
		{"at reference", 0, 100, constants.PresenceStatusPresent},
		{"inside circle", 99.99, 100, constants.PresenceStatusPresent},
		{"exactly on circle", 100, 100, constants.PresenceStatusPresent},
		{"just outside", 100.01, 100, constants.PresenceStatusAbsent},
		{"far outside", 21000, 100, constants.PresenceStatusAbsent},
		{"zero tolerance at reference", 0, 0, constants.PresenceStatusPresent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.distanceM, tc.toleranceM); got != tc.want {
				t.Fatalf("Classify(%v, %v) = %q, want %q", tc.distanceM, tc.toleranceM, got, tc.want)
			}
		})
	}
}

func TestClassifyIsTwoWay(t *testing.T) {
	// the automatic judgment never produces the tolerance status, it is
	// reserved for the manual review
	for d := 0.0; d <= 500.0; d += 7.3 {
		got := Classify(d, 100)
		if got != constants.PresenceStatusPresent && got != constants.PresenceStatusAbsent {
			t.Fatalf("Classify(%v, 100) = %q", d, got)
		}
	}
}

func TestValidateCotonouScenario(t *testing.T) {
	refLat, refLng := 6.3729, 2.3543

	near := Validate(6.3730, 2.3544, refLat, refLng, constants.DefaultToleranceRadiusM)
	if near.Status != constants.PresenceStatusPresent {
		t.Fatalf("near status = %q, want present (distance %.1fm)", near.Status, near.DistanceM)
	}
	if near.DistanceM <= 0 || near.DistanceM > 50 {
		t.Fatalf("near distance = %.1fm, want within 50m", near.DistanceM)
	}

	far := Validate(6.5000, 2.5000, refLat, refLng, constants.DefaultToleranceRadiusM)
	if far.Status != constants.PresenceStatusAbsent {
		t.Fatalf("far status = %q, want absent", far.Status)
	}
	if far.DistanceM < 15000 {
		t.Fatalf("far distance = %.1fm, want several km", far.DistanceM)
	}
}

func TestRecordValidationRequiresReference(t *testing.T) {
	db := openTestDB(t)
	svc := NewPresenceValidatorService(db)
	agent := createAgent(t, db, nil, nil)
	ck := createCheckin(t, db, agent.ID, 6.3729, 2.3543, time.Time{})

	_, err := svc.RecordValidation(nil, agent.ID, ck, false)
	if !errors.Is(err, agentService.ErrReferenceNotConfigured) {
		t.Fatalf("err = %v, want ErrReferenceNotConfigured", err)
	}

	var count int64
	if err := db.Model(&model.PresenceRecordModel{}).
		Where("presence_record_agent_id = ?", agent.ID).
		Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("presence records = %d, want 0", count)
	}
}

func TestRecordValidationBootstrapsReference(t *testing.T) {
	db := openTestDB(t)
	svc := NewPresenceValidatorService(db)
	agent := createAgent(t, db, nil, nil)

	// first check-in of an unconfigured agent fixes the reference, so it
	// judges itself present at distance zero
	first := createCheckin(t, db, agent.ID, 6.3729, 2.3543, time.Time{})
	rec, err := svc.RecordValidation(nil, agent.ID, first, true)
	if err != nil {
		t.Fatalf("first validation: %v", err)
	}
	if rec.PresenceRecordStatus != constants.PresenceStatusPresent {
		t.Fatalf("first status = %q, want present", rec.PresenceRecordStatus)
	}
	if rec.PresenceRecordDistanceM > 0.001 {
		t.Fatalf("first distance = %v, want 0", rec.PresenceRecordDistanceM)
	}

	var reloaded agentModel.AgentModel
	if err := db.Where("id = ?", agent.ID).Take(&reloaded).Error; err != nil {
		t.Fatalf("reload agent: %v", err)
	}
	if !reloaded.HasReferencePoint() {
		t.Fatalf("reference point not bootstrapped")
	}

	// later check-ins are judged against the bootstrapped point, not
	// against themselves
	far := createCheckin(t, db, agent.ID, 6.5000, 2.5000, time.Time{})
	rec2, err := svc.RecordValidation(nil, agent.ID, far, true)
	if err != nil {
		t.Fatalf("second validation: %v", err)
	}
	if rec2.PresenceRecordStatus != constants.PresenceStatusAbsent {
		t.Fatalf("second status = %q, want absent", rec2.PresenceRecordStatus)
	}
	if rec2.PresenceRecordDistanceM < 15000 {
		t.Fatalf("second distance = %v, want several km", rec2.PresenceRecordDistanceM)
	}
}

func TestRecordValidationConfiguredAgent(t *testing.T) {
	db := openTestDB(t)
	svc := NewPresenceValidatorService(db)
	agent := createAgent(t, db, f64(6.3729), f64(2.3543))

	ck := createCheckin(t, db, agent.ID, 6.3730, 2.3544, time.Time{})
	rec, err := svc.RecordValidation(nil, agent.ID, ck, true)
	if err != nil {
		t.Fatalf("validation: %v", err)
	}
	if rec.PresenceRecordStatus != constants.PresenceStatusPresent {
		t.Fatalf("status = %q, want present", rec.PresenceRecordStatus)
	}
	if rec.PresenceRecordToleranceRadiusM != constants.DefaultToleranceRadiusM {
		t.Fatalf("tolerance = %v", rec.PresenceRecordToleranceRadiusM)
	}

	found, err := svc.FindByCheckin(nil, ck.CheckinID)
	if err != nil {
		t.Fatalf("find by checkin: %v", err)
	}
	if found.PresenceRecordID != rec.PresenceRecordID {
		t.Fatalf("find by checkin returned another record")
	}
}

func TestApplyManualReviewIsOneShot(t *testing.T) {
	db := openTestDB(t)
	svc := NewPresenceValidatorService(db)
	agent := createAgent(t, db, f64(6.3729), f64(2.3543))
	reviewer := createAgent(t, db, nil, nil)

	ck := createCheckin(t, db, agent.ID, 6.5000, 2.5000, time.Time{})
	rec, err := svc.RecordValidation(nil, agent.ID, ck, false)
	if err != nil {
		t.Fatalf("validation: %v", err)
	}
	if rec.PresenceRecordStatus != constants.PresenceStatusAbsent {
		t.Fatalf("status = %q, want absent", rec.PresenceRecordStatus)
	}

	notes := "panne de réseau, présence confirmée par le superviseur"
	reviewed, err := svc.ApplyManualReview(nil, rec.PresenceRecordID, constants.PresenceStatusTolerance, reviewer.ID, &notes)
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	if reviewed.PresenceRecordOverrideStatus == nil || *reviewed.PresenceRecordOverrideStatus != constants.PresenceStatusTolerance {
		t.Fatalf("override status not stamped")
	}
	if reviewed.PresenceRecordReviewedAt == nil {
		t.Fatalf("reviewed_at not stamped")
	}
	if reviewed.EffectiveStatus() != constants.PresenceStatusTolerance {
		t.Fatalf("effective status = %q, want tolerance", reviewed.EffectiveStatus())
	}
	// the automatic judgment stays untouched under the override
	if reviewed.PresenceRecordStatus != constants.PresenceStatusAbsent {
		t.Fatalf("original status mutated to %q", reviewed.PresenceRecordStatus)
	}

	again, err := svc.ApplyManualReview(nil, rec.PresenceRecordID, constants.PresenceStatusPresent, reviewer.ID, nil)
	if !errors.Is(err, ErrAlreadyReviewed) {
		t.Fatalf("second review err = %v, want ErrAlreadyReviewed", err)
	}
	if again == nil || again.PresenceRecordOverrideStatus == nil || *again.PresenceRecordOverrideStatus != constants.PresenceStatusTolerance {
		t.Fatalf("second review altered the first override")
	}
}

func TestApplyManualReviewUnknownRecord(t *testing.T) {
	db := openTestDB(t)
	svc := NewPresenceValidatorService(db)
	reviewer := createAgent(t, db, nil, nil)

	_, err := svc.ApplyManualReview(nil, uuid.New(), constants.PresenceStatusPresent, reviewer.ID, nil)
	if !errors.Is(err, ErrPresenceRecordNotFound) {
		t.Fatalf("err = %v, want ErrPresenceRecordNotFound", err)
	}
}

func TestListCheckinsByAgent(t *testing.T) {
	db := openTestDB(t)
	svc := NewPresenceValidatorService(db)
	agent := createAgent(t, db, f64(6.3729), f64(2.3543))

	base := time.Date(2026, 6, 2, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		createCheckin(t, db, agent.ID, 6.3729, 2.3543, base.Add(time.Duration(i)*time.Hour))
	}

	rows, total, err := svc.ListCheckinsByAgent(nil, agent.ID, 0, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 3 {
		t.Fatalf("total = %d, want 3", total)
	}
	if len(rows) != 2 {
		t.Fatalf("page size = %d, want 2", len(rows))
	}
	if rows[0].CheckinRecordedAt.Before(rows[1].CheckinRecordedAt) {
		t.Fatalf("listing not most recent first")
	}
}

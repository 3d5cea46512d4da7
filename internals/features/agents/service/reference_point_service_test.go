package service

import (
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	database "agentposition_backend/internals/databases"
	"agentposition_backend/internals/constants"
	"agentposition_backend/internals/features/agents/model"
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

func createAgent(t *testing.T, db *gorm.DB, refLat, refLng *float64) model.AgentModel {
	t.Helper()
	a := model.AgentModel{
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

func f64(v float64) *float64 { return &v }

func TestResolveUnknownAgent(t *testing.T) {
	db := openTestDB(t)
	svc := NewReferencePointService(db)

	if _, err := svc.Resolve(nil, uuid.New()); !errors.Is(err, ErrAgentNotFound) {
		t.Fatalf("err = %v, want ErrAgentNotFound", err)
	}
}

func TestResolveUnconfigured(t *testing.T) {
	db := openTestDB(t)
	svc := NewReferencePointService(db)
	agent := createAgent(t, db, nil, nil)

	if _, err := svc.Resolve(nil, agent.ID); !errors.Is(err, ErrReferenceNotConfigured) {
		t.Fatalf("err = %v, want ErrReferenceNotConfigured", err)
	}
}

func TestResolveConfigured(t *testing.T) {
	db := openTestDB(t)
	svc := NewReferencePointService(db)
	agent := createAgent(t, db, f64(6.3729), f64(2.3543))

	rp, err := svc.Resolve(nil, agent.ID)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if rp.Lat != 6.3729 || rp.Lng != 2.3543 {
		t.Fatalf("reference = (%v, %v)", rp.Lat, rp.Lng)
	}
	if rp.ToleranceRadiusM != constants.DefaultToleranceRadiusM {
		t.Fatalf("tolerance = %v", rp.ToleranceRadiusM)
	}
}

func TestBootstrapIsOneShot(t *testing.T) {
	db := openTestDB(t)
	svc := NewReferencePointService(db)
	agent := createAgent(t, db, nil, nil)

	rp, bootstrapped, err := svc.Bootstrap(nil, agent.ID, 6.3729, 2.3543)
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	if !bootstrapped {
		t.Fatalf("first bootstrap did not transition")
	}
	if rp.Lat != 6.3729 || rp.Lng != 2.3543 {
		t.Fatalf("reference = (%v, %v)", rp.Lat, rp.Lng)
	}

	// a later attempt with other coordinates must not move the reference
	rp2, bootstrapped2, err := svc.Bootstrap(nil, agent.ID, 7.0000, 3.0000)
	if err != nil {
		t.Fatalf("second bootstrap: %v", err)
	}
	if bootstrapped2 {
		t.Fatalf("bootstrap fired twice")
	}
	if rp2.Lat != 6.3729 || rp2.Lng != 2.3543 {
		t.Fatalf("reference moved to (%v, %v)", rp2.Lat, rp2.Lng)
	}
}

func TestBootstrapDoesNotTouchConfiguredAgent(t *testing.T) {
	db := openTestDB(t)
	svc := NewReferencePointService(db)
	agent := createAgent(t, db, f64(6.5), f64(2.5))

	rp, bootstrapped, err := svc.Bootstrap(nil, agent.ID, 9.0, 3.0)
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	if bootstrapped {
		t.Fatalf("bootstrap fired on a configured agent")
	}
	if rp.Lat != 6.5 || rp.Lng != 2.5 {
		t.Fatalf("reference moved")
	}
}

func TestSetReferencePointOverride(t *testing.T) {
	db := openTestDB(t)
	svc := NewReferencePointService(db)
	agent := createAgent(t, db, f64(6.3729), f64(2.3543))

	tol := 250.0
	updated, err := svc.SetReferencePoint(nil, agent.ID, 6.4000, 2.4000, &tol)
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	if updated.ReferenceLat == nil || *updated.ReferenceLat != 6.4000 {
		t.Fatalf("lat not overridden")
	}
	if updated.ToleranceRadiusM != 250.0 {
		t.Fatalf("tolerance = %v, want 250", updated.ToleranceRadiusM)
	}

	if _, err := svc.SetReferencePoint(nil, uuid.New(), 1, 1, nil); !errors.Is(err, ErrAgentNotFound) {
		t.Fatalf("err = %v, want ErrAgentNotFound", err)
	}
}

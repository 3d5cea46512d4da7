package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"agentposition_backend/internals/configs"
	agentModel "agentposition_backend/internals/features/agents/model"
	checkinModel "agentposition_backend/internals/features/presence/checkins/model"
	missionModel "agentposition_backend/internals/features/presence/missions/model"
	reportModel "agentposition_backend/internals/features/reports/monthly/model"
)

var DB *gorm.DB

func ConnectDB() {
	log.Println("🔌 Connexion à PostgreSQL...")

	// DSN complet + statement_timeout. Avec PgBouncer, pointer host/port
	// vers le pooler et garder PreferSimpleProtocol=true.
	sslmode := getenv("DB_SSLMODE", "require")
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=agentposition&options=-c statement_timeout=3000",
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_NAME"),
		sslmode,
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // compatible PgBouncer (transaction pooling)
	}), &gorm.Config{
		Logger: configs.NewGormLogger(),
	})
	if err != nil {
		log.Fatalf("❌ Connexion DB impossible: %v", err)
	}
	DB = db
	log.Println("✅ DB connectée.")
}

func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("pool tune err: %v", err)
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

func WarmUpQueries() {
	go func() {
		time.Sleep(500 * time.Millisecond)
		if err := ping(); err != nil {
			log.Printf("warm-up ping err: %v", err)
		}
	}()
}

// Migrate creates/updates the logical schema: users, missions, checkins,
// presence_records, monthly_reports. Shared by the server startup and the
// package tests, so both run against the same schema.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&agentModel.AgentModel{},
		&missionModel.MissionModel{},
		&checkinModel.CheckinModel{},
		&checkinModel.PresenceRecordModel{},
		&reportModel.MonthlyReportModel{},
	); err != nil {
		return err
	}

	// Invariant "une seule mission active par agent": l'index partiel ferme
	// la course check-then-create au niveau du stockage.
	return db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS uq_missions_agent_active
		ON missions (mission_agent_id) WHERE mission_status = 'active'`).Error
}

func ping() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

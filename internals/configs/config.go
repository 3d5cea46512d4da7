package configs

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"

	"agentposition_backend/internals/constants"
)

var (
	// Policy defaults applied to newly created agents; overridable via env.
	DefaultToleranceRadiusM     float64 = constants.DefaultToleranceRadiusM
	DefaultExpectedDaysPerMonth int     = constants.DefaultExpectedDaysPerMonth
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️ Pas de fichier .env, utilisation des variables du système")
		} else {
			log.Println("✅ Fichier .env chargé.")
		}
	} else {
		log.Println("🚀 Environnement Railway, variables du système")
	}

	if v := GetEnv("DEFAULT_TOLERANCE_RADIUS_M"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			DefaultToleranceRadiusM = f
		} else {
			log.Printf("⚠️ DEFAULT_TOLERANCE_RADIUS_M invalide (%q), valeur par défaut conservée", v)
		}
	}
	if v := GetEnv("DEFAULT_EXPECTED_DAYS_PER_MONTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 && n <= 31 {
			DefaultExpectedDaysPerMonth = n
		} else {
			log.Printf("⚠️ DEFAULT_EXPECTED_DAYS_PER_MONTH invalide (%q), valeur par défaut conservée", v)
		}
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

// =======================
// GORM LOGGER CUSTOM
// =======================
type GormLogger struct {
	SlowThreshold time.Duration
	LogLevel      gormLogger.LogLevel
}

func NewGormLogger() gormLogger.Interface {
	return &GormLogger{
		SlowThreshold: 200 * time.Millisecond,
		LogLevel:      gormLogger.Warn,
	}
}

func (l *GormLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	l.LogLevel = level
	return l
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	log.Printf("[INFO] "+msg, data...)
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	log.Printf("[WARN] "+msg, data...)
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	log.Printf("[ERROR] "+msg, data...)
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	sql, rows := fc()
	file := utils.FileWithLineNum()

	switch {
	case err != nil:
		log.Printf("[ERROR] %s | %v | %s | %d rows | %s", file, err, elapsed, rows, sql)
	case elapsed > l.SlowThreshold:
		log.Printf("[SLOW SQL] %s | %s | %d rows | %s", file, elapsed, rows, sql)
	case l.LogLevel >= gormLogger.Info:
		log.Printf("[QUERY] %s | %s | %d rows | %s", file, elapsed, rows, sql)
	}
}

// file: internals/features/reports/monthly/service/monthly_aggregator_service.go
package service

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"agentposition_backend/internals/constants"
	agentModel "agentposition_backend/internals/features/agents/model"
	agentService "agentposition_backend/internals/features/agents/service"
	"agentposition_backend/internals/features/reports/monthly/model"

	"github.com/google/uuid"
)

// ErrInvalidMonthKey: le mois doit être au format YYYY-MM.
var ErrInvalidMonthKey = errors.New("mois invalide, format attendu YYYY-MM")

const monthKeyLayout = "2006-01"

// MonthBounds parses a YYYY-MM key into the [first, next) UTC window of
// that calendar month.
func MonthBounds(monthKey string) (time.Time, time.Time, error) {
	t, err := time.Parse(monthKeyLayout, monthKey)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidMonthKey
	}
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return first, first.AddDate(0, 1, 0), nil
}

// MonthlyAggregatorService rolls per-check-in presence records into the
// per (agent, month) day counts.
type MonthlyAggregatorService struct {
	DB *gorm.DB
}

func NewMonthlyAggregatorService(db *gorm.DB) *MonthlyAggregatorService {
	return &MonthlyAggregatorService{DB: db}
}

func (s *MonthlyAggregatorService) dbOr(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return s.DB
}

// judgmentRow is one validated check-in inside the month window.
type judgmentRow struct {
	RecordedAt     time.Time `gorm:"column:checkin_recorded_at"`
	Status         string    `gorm:"column:presence_record_status"`
	OverrideStatus *string   `gorm:"column:presence_record_override_status"`
}

func (r judgmentRow) effectiveStatus() string {
	if r.OverrideStatus != nil && *r.OverrideStatus != "" {
		return *r.OverrideStatus
	}
	return r.Status
}

// GenerateMonthlyReport recomputes and upserts the aggregate for one agent
// and one calendar month. Idempotent: the (agent, month) row is fully
// overwritten, re-running after new check-ins is the normal refresh path.
//
// A day is counted once: when several check-ins land on the same day, the
// day takes the latest effective judgment of that day (reviewer overrides
// included).
func (s *MonthlyAggregatorService) GenerateMonthlyReport(tx *gorm.DB, agentID uuid.UUID, monthKey string) (*model.MonthlyReportModel, error) {
	db := s.dbOr(tx)

	from, to, err := MonthBounds(monthKey)
	if err != nil {
		return nil, err
	}

	var agent agentModel.AgentModel
	if err := db.Where("id = ?", agentID).Take(&agent).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, agentService.ErrAgentNotFound
		}
		return nil, err
	}

	var rows []judgmentRow
	if err := db.Table("presence_records").
		Select("checkins.checkin_recorded_at, presence_records.presence_record_status, presence_records.presence_record_override_status").
		Joins("JOIN checkins ON checkins.checkin_id = presence_records.presence_record_checkin_id").
		Where("presence_records.presence_record_agent_id = ?", agentID).
		Where("checkins.checkin_recorded_at >= ? AND checkins.checkin_recorded_at < ?", from, to).
		Order("checkins.checkin_recorded_at ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	// Final judgment per day; iteration is in ascending order so the
	// latest record of a day wins.
	perDay := make(map[string]string, len(rows))
	for _, r := range rows {
		day := r.RecordedAt.UTC().Format("2006-01-02")
		perDay[day] = r.effectiveStatus()
	}

	var present, absent, tolerance int
	for _, status := range perDay {
		switch status {
		case constants.PresenceStatusPresent:
			present++
		case constants.PresenceStatusAbsent:
			absent++
		case constants.PresenceStatusTolerance:
			tolerance++
		}
	}

	expected := agent.ExpectedDaysPerMonth
	if expected <= 0 {
		expected = constants.DefaultExpectedDaysPerMonth
	}

	rep := model.MonthlyReportModel{
		MonthlyReportID:            uuid.New(),
		MonthlyReportAgentID:       agentID,
		MonthlyReportMonth:         monthKey,
		MonthlyReportExpectedDays:  expected,
		MonthlyReportPresentDays:   present,
		MonthlyReportAbsentDays:    absent,
		MonthlyReportToleranceDays: tolerance,
		MonthlyReportStatus:        constants.MonthlyReportStatusCompleted,
		MonthlyReportGeneratedAt:   time.Now().UTC(),
	}
	if err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "monthly_report_agent_id"},
			{Name: "monthly_report_month"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"monthly_report_expected_days",
			"monthly_report_present_days",
			"monthly_report_absent_days",
			"monthly_report_tolerance_days",
			"monthly_report_status",
			"monthly_report_generated_at",
		}),
	}).Create(&rep).Error; err != nil {
		return nil, err
	}

	// Read back the canonical row: on conflict the stored id is the one
	// from the first generation.
	return s.FindByAgentMonth(db, agentID, monthKey)
}

// GenerateForAllAgents refreshes the month's report of every active agent.
// Failures are collected per agent so one broken account does not abort
// the whole batch.
func (s *MonthlyAggregatorService) GenerateForAllAgents(tx *gorm.DB, monthKey string) ([]model.MonthlyReportModel, map[uuid.UUID]error, error) {
	db := s.dbOr(tx)

	if _, _, err := MonthBounds(monthKey); err != nil {
		return nil, nil, err
	}

	var agents []agentModel.AgentModel
	if err := db.Where("is_active = ?", true).Find(&agents).Error; err != nil {
		return nil, nil, err
	}

	reports := make([]model.MonthlyReportModel, 0, len(agents))
	failures := map[uuid.UUID]error{}
	for _, a := range agents {
		rep, err := s.GenerateMonthlyReport(db, a.ID, monthKey)
		if err != nil {
			failures[a.ID] = err
			continue
		}
		reports = append(reports, *rep)
	}
	return reports, failures, nil
}

// FindByAgentMonth returns the stored aggregate for one agent and month.
func (s *MonthlyAggregatorService) FindByAgentMonth(tx *gorm.DB, agentID uuid.UUID, monthKey string) (*model.MonthlyReportModel, error) {
	db := s.dbOr(tx)

	var rep model.MonthlyReportModel
	err := db.
		Where("monthly_report_agent_id = ? AND monthly_report_month = ?", agentID, monthKey).
		Take(&rep).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, err
	}
	return &rep, nil
}

// ExportRow is one denormalized line of the monthly export: the agent,
// its location hierarchy and the month's counts. Variance is expected
// minus present days.
type ExportRow struct {
	AgentID        uuid.UUID `gorm:"column:agent_id" json:"agent_id"`
	FullName       string    `gorm:"column:full_name" json:"full_name"`
	Email          string    `gorm:"column:email" json:"email"`
	Departement    *string   `gorm:"column:departement" json:"departement,omitempty"`
	Commune        *string   `gorm:"column:commune" json:"commune,omitempty"`
	Arrondissement *string   `gorm:"column:arrondissement" json:"arrondissement,omitempty"`
	Village        *string   `gorm:"column:village" json:"village,omitempty"`
	ExpectedDays   int       `gorm:"column:expected_days" json:"expected_days"`
	PresentDays    int       `gorm:"column:present_days" json:"present_days"`
	AbsentDays     int       `gorm:"column:absent_days" json:"absent_days"`
	ToleranceDays  int       `gorm:"column:tolerance_days" json:"tolerance_days"`
	VarianceDays   int       `json:"variance_days"`
}

// ExportMonthlyReport is the read-only projection joining agents and their
// stored aggregates for one month. No side effects; generate first.
func (s *MonthlyAggregatorService) ExportMonthlyReport(tx *gorm.DB, monthKey string) ([]ExportRow, error) {
	db := s.dbOr(tx)

	if _, _, err := MonthBounds(monthKey); err != nil {
		return nil, err
	}

	var rows []ExportRow
	if err := db.Table("monthly_reports").
		Select(`users.id AS agent_id,
			users.full_name,
			users.email,
			users.departement,
			users.commune,
			users.arrondissement,
			users.village,
			monthly_reports.monthly_report_expected_days AS expected_days,
			monthly_reports.monthly_report_present_days AS present_days,
			monthly_reports.monthly_report_absent_days AS absent_days,
			monthly_reports.monthly_report_tolerance_days AS tolerance_days`).
		Joins("JOIN users ON users.id = monthly_reports.monthly_report_agent_id").
		Where("users.deleted_at IS NULL").
		Where("monthly_reports.monthly_report_month = ?", monthKey).
		Order("users.full_name ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	for i := range rows {
		rows[i].VarianceDays = rows[i].ExpectedDays - rows[i].PresentDays
	}
	return rows, nil
}

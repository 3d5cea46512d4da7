package model

import (
	"time"

	"github.com/google/uuid"
)

// MonthlyReportModel is the derived per (agent, month) aggregate.
// Purely recomputable: generation upserts on the (agent, month) key and
// fully overwrites the previous counts, so re-running is always safe.
type MonthlyReportModel struct {
	MonthlyReportID      uuid.UUID `gorm:"type:uuid;primaryKey;column:monthly_report_id" json:"monthly_report_id"`
	MonthlyReportAgentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_monthly_reports_agent_month;column:monthly_report_agent_id" json:"monthly_report_agent_id"`

	// Mois calendaire au format YYYY-MM.
	MonthlyReportMonth string `gorm:"type:varchar(7);not null;uniqueIndex:uq_monthly_reports_agent_month;column:monthly_report_month" json:"monthly_report_month"`

	MonthlyReportExpectedDays  int `gorm:"not null;column:monthly_report_expected_days" json:"monthly_report_expected_days"`
	MonthlyReportPresentDays   int `gorm:"not null;default:0;column:monthly_report_present_days" json:"monthly_report_present_days"`
	MonthlyReportAbsentDays    int `gorm:"not null;default:0;column:monthly_report_absent_days" json:"monthly_report_absent_days"`
	MonthlyReportToleranceDays int `gorm:"not null;default:0;column:monthly_report_tolerance_days" json:"monthly_report_tolerance_days"`

	MonthlyReportStatus      string    `gorm:"type:varchar(15);not null;default:'completed';column:monthly_report_status" json:"monthly_report_status"`
	MonthlyReportGeneratedAt time.Time `gorm:"not null;column:monthly_report_generated_at" json:"monthly_report_generated_at"`

	MonthlyReportCreatedAt time.Time  `gorm:"column:monthly_report_created_at;autoCreateTime" json:"monthly_report_created_at"`
	MonthlyReportUpdatedAt *time.Time `gorm:"column:monthly_report_updated_at;autoUpdateTime" json:"monthly_report_updated_at,omitempty"`
}

func (MonthlyReportModel) TableName() string { return "monthly_reports" }

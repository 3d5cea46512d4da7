package constants

// Statut d'un pointage après validation géographique.
const (
	PresenceStatusPresent = "present"
	PresenceStatusAbsent  = "absent"

	// PresenceStatusTolerance exists in the schema and is counted by the
	// monthly reports, but the classifier never assigns it. It can only be
	// set through a manual review.
	PresenceStatusTolerance = "tolerance"
)

// Statut d'une mission terrain.
const (
	MissionStatusActive = "active"
	MissionStatusEnded  = "ended"
)

const MonthlyReportStatusCompleted = "completed"

// Policy defaults, overridable per agent and via env (see configs).
const (
	DefaultToleranceRadiusM     = 100.0
	DefaultExpectedDaysPerMonth = 22
)

// PresenceStatuses lists every status a presence record may carry,
// including the reviewer-only tolerance tier.
var PresenceStatuses = []string{
	PresenceStatusPresent,
	PresenceStatusAbsent,
	PresenceStatusTolerance,
}

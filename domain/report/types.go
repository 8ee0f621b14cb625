package report

import (
	"fmt"
	"strings"
	"time"

	"dealscope/domain/core"
)

// RetentionWindow is the fixed period after which a persisted report is
// eligible for automatic deletion, measured from creation time.
const RetentionWindow = 72 * time.Hour

// RiskLevel is the ordered closed set of overall risk grades. The level is
// authoritative for decisioning; the numeric score is advisory.
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
)

var riskOrder = map[RiskLevel]int{
	RiskLow:      0,
	RiskMedium:   1,
	RiskHigh:     2,
	RiskCritical: 3,
}

// ParseRiskLevel validates a raw level against the closed vocabulary.
func ParseRiskLevel(raw string) (RiskLevel, error) {
	level := RiskLevel(strings.ToUpper(strings.TrimSpace(raw)))
	if _, ok := riskOrder[level]; !ok {
		return "", fmt.Errorf("unknown risk level %q", raw)
	}
	return level, nil
}

// Rank returns the ordinal position of the level within the ordered set.
func (l RiskLevel) Rank() int {
	return riskOrder[l]
}

// IsValid reports whether the level belongs to the closed set.
func (l RiskLevel) IsValid() bool {
	_, ok := riskOrder[l]
	return ok
}

// AssessmentStatus is the closed vocabulary for per-party sub-assessments.
type AssessmentStatus string

const (
	StatusVerified    AssessmentStatus = "VERIFIED"
	StatusUnverified  AssessmentStatus = "UNVERIFIED"
	StatusSuspicious  AssessmentStatus = "SUSPICIOUS"
	StatusNeedsReview AssessmentStatus = "NEEDS_REVIEW"
)

var validStatuses = map[AssessmentStatus]bool{
	StatusVerified:    true,
	StatusUnverified:  true,
	StatusSuspicious:  true,
	StatusNeedsReview: true,
}

// ParseAssessmentStatus validates a raw status against the closed vocabulary.
func ParseAssessmentStatus(raw string) (AssessmentStatus, error) {
	status := AssessmentStatus(strings.ToUpper(strings.TrimSpace(raw)))
	if !validStatuses[status] {
		return "", fmt.Errorf("unknown assessment status %q", raw)
	}
	return status, nil
}

// IsValid reports whether the status belongs to the closed set.
func (s AssessmentStatus) IsValid() bool {
	return validStatuses[s]
}

// RedFlag is one discrete finding with its supporting evidence citation.
type RedFlag struct {
	Severity    RiskLevel `json:"severity"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Evidence    string    `json:"evidence"`
}

// PartyBackground is the sub-assessment for one transaction participant.
type PartyBackground struct {
	PartyName       string           `json:"party_name"`
	Status          AssessmentStatus `json:"status"`
	Findings        string           `json:"findings"`
	Recommendations []string         `json:"recommendations"`
}

// Analysis is the structured report body synthesized for one investigation.
type Analysis struct {
	RiskLevel          RiskLevel         `json:"risk_level"`
	RiskScore          float64           `json:"risk_score"`
	ExecutiveSummary   string            `json:"executive_summary"`
	VerificationStatus string            `json:"verification_status"`
	RedFlags           []RedFlag         `json:"red_flags"`
	PartyBackgrounds   []PartyBackground `json:"party_backgrounds"`
	Recommendations    []string          `json:"recommendations"`
	SourcesChecked     []string          `json:"sources_checked"`
	Degraded           bool              `json:"degraded,omitempty"`
}

// Report is the persisted, owner-scoped synthesis output. Immutable after
// creation except for deletion.
type Report struct {
	ID        core.ReportID  `json:"id"`
	OwnerID   core.OwnerID   `json:"owner_id"`
	Analysis  Analysis       `json:"analysis"`
	CreatedAt core.Timestamp `json:"created_at"`
}

// New mints a report for an owner from a finished analysis.
func New(ownerID core.OwnerID, analysis Analysis) Report {
	return Report{
		ID:        core.ReportID(core.NewID()),
		OwnerID:   ownerID,
		Analysis:  analysis,
		CreatedAt: core.Now(),
	}
}

// Expired reports whether the report has outlived the retention window.
func (r Report) Expired(now time.Time) bool {
	return r.CreatedAt.Age(now) > RetentionWindow
}

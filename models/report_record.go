package models

import (
	"encoding/json"
	"fmt"
	"time"

	"dealscope/domain/core"
	"dealscope/domain/report"
)

// ReportRecord is the storage-boundary shape of a persisted report. The
// full structured analysis lives in analysis_data (JSONB); the level, score
// and summary columns are denormalized for listing without decoding.
type ReportRecord struct {
	ID           string    `json:"id" db:"id"`
	OwnerID      string    `json:"owner_id" db:"owner_id"`
	RiskLevel    string    `json:"risk_level" db:"risk_level"`
	RiskScore    float64   `json:"risk_score" db:"risk_score"`
	Summary      string    `json:"summary" db:"summary"`
	AnalysisData []byte    `json:"analysis_data" db:"analysis_data"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// RecordFromReport flattens a domain report into its storage shape.
func RecordFromReport(r report.Report) (*ReportRecord, error) {
	data, err := json.Marshal(r.Analysis)
	if err != nil {
		return nil, fmt.Errorf("marshal analysis: %w", err)
	}
	return &ReportRecord{
		ID:           r.ID.String(),
		OwnerID:      r.OwnerID.String(),
		RiskLevel:    string(r.Analysis.RiskLevel),
		RiskScore:    r.Analysis.RiskScore,
		Summary:      r.Analysis.ExecutiveSummary,
		AnalysisData: data,
		CreatedAt:    r.CreatedAt.Time(),
	}, nil
}

// ToReport reconstructs the domain report from a storage row.
func (rec *ReportRecord) ToReport() (report.Report, error) {
	var analysis report.Analysis
	if err := json.Unmarshal(rec.AnalysisData, &analysis); err != nil {
		return report.Report{}, fmt.Errorf("unmarshal analysis for report %s: %w", rec.ID, err)
	}
	return report.Report{
		ID:        core.ReportID(rec.ID),
		OwnerID:   core.OwnerID(rec.OwnerID),
		Analysis:  analysis,
		CreatedAt: core.NewTimestamp(rec.CreatedAt),
	}, nil
}

package app

import (
	"context"
	"log"
	"time"

	"github.com/montanaflynn/stats"

	"dealscope/domain/core"
	"dealscope/domain/report"
	"dealscope/ports"
)

// ReportService manages the persisted-report lifecycle: owner-scoped
// reads and deletes plus the fixed retention window. Expiry is enforced
// lazily at read time rather than by a background reaper, so a report may
// momentarily outlive its window until the owner's set is next listed.
type ReportService struct {
	repo ports.ReportRepository
	now  func() time.Time
}

// NewReportService creates a lifecycle manager over a report repository.
func NewReportService(repo ports.ReportRepository) *ReportService {
	return &ReportService{repo: repo, now: time.Now}
}

// Put stores a finished report.
func (s *ReportService) Put(ctx context.Context, r report.Report) error {
	return s.repo.Put(ctx, r)
}

// Get returns one of the owner's reports. An expired report is purged and
// reported as not found rather than served stale.
func (s *ReportService) Get(ctx context.Context, id core.ReportID, ownerID core.OwnerID) (report.Report, error) {
	r, err := s.repo.Get(ctx, id, ownerID)
	if err != nil {
		return report.Report{}, err
	}
	if r.Expired(s.now()) {
		if delErr := s.repo.DeleteOne(ctx, id, ownerID); delErr != nil {
			log.Printf("[ReportLifecycle] failed to purge expired report %s: %v", id, delErr)
		}
		return report.Report{}, core.NewNotFoundError("report", id.String())
	}
	return r, nil
}

// ListByOwner sweeps the owner's expired reports, then returns the rest,
// newest first.
func (s *ReportService) ListByOwner(ctx context.Context, ownerID core.OwnerID) ([]report.Report, error) {
	cutoff := s.now().Add(-report.RetentionWindow)
	purged, err := s.repo.DeleteExpired(ctx, ownerID, cutoff)
	if err != nil {
		// Sweep failure must not hide the owner's live reports.
		log.Printf("[ReportLifecycle] retention sweep failed for owner %s: %v", ownerID, err)
	} else if purged > 0 {
		log.Printf("[ReportLifecycle] purged %d expired report(s) for owner %s", purged, ownerID)
	}
	return s.repo.ListByOwner(ctx, ownerID)
}

// DeleteOne removes a single report on explicit owner request.
func (s *ReportService) DeleteOne(ctx context.Context, id core.ReportID, ownerID core.OwnerID) error {
	return s.repo.DeleteOne(ctx, id, ownerID)
}

// DeleteMany removes a batch of the owner's reports and returns how many
// actually went away.
func (s *ReportService) DeleteMany(ctx context.Context, ownerID core.OwnerID, ids []core.ReportID) (int, error) {
	return s.repo.DeleteMany(ctx, ownerID, ids)
}

// RiskTrends summarizes the risk scores across an owner's live reports.
type RiskTrends struct {
	ReportCount int     `json:"report_count"`
	MeanScore   float64 `json:"mean_score"`
	MedianScore float64 `json:"median_score"`
	MaxScore    float64 `json:"max_score"`
	P90Score    float64 `json:"p90_score"`
	Degraded    int     `json:"degraded_count"`
}

// Trends computes descriptive statistics over the owner's current reports.
// Runs on the post-sweep set so expired reports never skew the numbers.
func (s *ReportService) Trends(ctx context.Context, ownerID core.OwnerID) (RiskTrends, error) {
	reports, err := s.ListByOwner(ctx, ownerID)
	if err != nil {
		return RiskTrends{}, err
	}
	trends := RiskTrends{ReportCount: len(reports)}
	if len(reports) == 0 {
		return trends, nil
	}

	scores := make([]float64, 0, len(reports))
	for _, r := range reports {
		scores = append(scores, r.Analysis.RiskScore)
		if r.Analysis.Degraded {
			trends.Degraded++
		}
	}

	// stats errors only on empty input, which is handled above.
	trends.MeanScore, _ = stats.Mean(scores)
	trends.MedianScore, _ = stats.Median(scores)
	trends.MaxScore, _ = stats.Max(scores)
	trends.P90Score, _ = stats.Percentile(scores, 90)
	return trends, nil
}

// Package memory provides in-process repository implementations used for
// tests and for running the server without a database.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"dealscope/domain/core"
	"dealscope/domain/report"
	"dealscope/ports"
)

// ReportRepository is a map-backed ReportRepository.
type ReportRepository struct {
	mu      sync.RWMutex
	reports map[core.ReportID]report.Report
}

// NewReportRepository creates an empty in-memory report repository.
func NewReportRepository() *ReportRepository {
	return &ReportRepository{reports: make(map[core.ReportID]report.Report)}
}

var _ ports.ReportRepository = (*ReportRepository)(nil)

func (r *ReportRepository) Put(ctx context.Context, rep report.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports[rep.ID] = rep
	return nil
}

func (r *ReportRepository) Get(ctx context.Context, id core.ReportID, ownerID core.OwnerID) (report.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rep, ok := r.reports[id]
	if !ok || rep.OwnerID != ownerID {
		return report.Report{}, core.NewNotFoundError("report", id.String())
	}
	return rep, nil
}

func (r *ReportRepository) ListByOwner(ctx context.Context, ownerID core.OwnerID) ([]report.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []report.Report
	for _, rep := range r.reports {
		if rep.OwnerID == ownerID {
			out = append(out, rep)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[j].CreatedAt.Before(out[i].CreatedAt)
	})
	return out, nil
}

func (r *ReportRepository) DeleteOne(ctx context.Context, id core.ReportID, ownerID core.OwnerID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rep, ok := r.reports[id]
	if !ok || rep.OwnerID != ownerID {
		return core.NewNotFoundError("report", id.String())
	}
	delete(r.reports, id)
	return nil
}

func (r *ReportRepository) DeleteMany(ctx context.Context, ownerID core.OwnerID, ids []core.ReportID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	deleted := 0
	for _, id := range ids {
		if rep, ok := r.reports[id]; ok && rep.OwnerID == ownerID {
			delete(r.reports, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *ReportRepository) DeleteExpired(ctx context.Context, ownerID core.OwnerID, cutoff time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	deleted := 0
	for id, rep := range r.reports {
		if rep.OwnerID == ownerID && rep.CreatedAt.Time().Before(cutoff) {
			delete(r.reports, id)
			deleted++
		}
	}
	return deleted, nil
}

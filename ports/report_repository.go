package ports

import (
	"context"
	"time"

	"dealscope/domain/core"
	"dealscope/domain/report"
)

// ReportRepository persists finished reports keyed by id and owner. Every
// read and delete is owner-scoped; an owner can never touch another
// owner's reports through this port.
type ReportRepository interface {
	Put(ctx context.Context, r report.Report) error
	Get(ctx context.Context, id core.ReportID, ownerID core.OwnerID) (report.Report, error)
	ListByOwner(ctx context.Context, ownerID core.OwnerID) ([]report.Report, error)
	DeleteOne(ctx context.Context, id core.ReportID, ownerID core.OwnerID) error
	DeleteMany(ctx context.Context, ownerID core.OwnerID, ids []core.ReportID) (int, error)

	// DeleteExpired purges the owner's reports created before cutoff and
	// returns how many rows went away. Used by the lazy retention sweep.
	DeleteExpired(ctx context.Context, ownerID core.OwnerID, cutoff time.Time) (int, error)
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"dealscope/domain/core"
	"dealscope/domain/report"
	"dealscope/models"
	"dealscope/ports"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// ReportRepositoryImpl implements ReportRepository for PostgreSQL
type ReportRepositoryImpl struct {
	db *sqlx.DB
}

// NewReportRepository creates a new PostgreSQL report repository
func NewReportRepository(db *sqlx.DB) ports.ReportRepository {
	return &ReportRepositoryImpl{db: db}
}

// Put persists a finished report.
func (r *ReportRepositoryImpl) Put(ctx context.Context, rep report.Report) error {
	rec, err := models.RecordFromReport(rep)
	if err != nil {
		return err
	}
	_, err = r.db.NamedExecContext(ctx, `
		INSERT INTO reports (id, owner_id, risk_level, risk_score, summary, analysis_data, created_at)
		VALUES (:id, :owner_id, :risk_level, :risk_score, :summary, :analysis_data, :created_at)
	`, rec)
	return err
}

// Get retrieves one report, scoped to its owner.
func (r *ReportRepositoryImpl) Get(ctx context.Context, id core.ReportID, ownerID core.OwnerID) (report.Report, error) {
	var rec models.ReportRecord
	err := r.db.GetContext(ctx, &rec, `
		SELECT id, owner_id, risk_level, risk_score, summary, analysis_data, created_at
		FROM reports
		WHERE id = $1 AND owner_id = $2
	`, id.String(), ownerID.String())
	if errors.Is(err, sql.ErrNoRows) {
		return report.Report{}, core.NewNotFoundError("report", id.String())
	}
	if err != nil {
		return report.Report{}, err
	}
	return rec.ToReport()
}

// ListByOwner returns the owner's reports, newest first.
func (r *ReportRepositoryImpl) ListByOwner(ctx context.Context, ownerID core.OwnerID) ([]report.Report, error) {
	var recs []models.ReportRecord
	err := r.db.SelectContext(ctx, &recs, `
		SELECT id, owner_id, risk_level, risk_score, summary, analysis_data, created_at
		FROM reports
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`, ownerID.String())
	if err != nil {
		return nil, err
	}
	out := make([]report.Report, 0, len(recs))
	for i := range recs {
		rep, err := recs[i].ToReport()
		if err != nil {
			return nil, err
		}
		out = append(out, rep)
	}
	return out, nil
}

// DeleteOne removes one report, scoped to its owner.
func (r *ReportRepositoryImpl) DeleteOne(ctx context.Context, id core.ReportID, ownerID core.OwnerID) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM reports WHERE id = $1 AND owner_id = $2
	`, id.String(), ownerID.String())
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return core.NewNotFoundError("report", id.String())
	}
	return nil
}

// DeleteMany removes a batch of the owner's reports; ids belonging to other
// owners are silently skipped by the owner_id predicate.
func (r *ReportRepositoryImpl) DeleteMany(ctx context.Context, ownerID core.OwnerID, ids []core.ReportID) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	raw := make([]string, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, id.String())
	}
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM reports WHERE owner_id = $1 AND id = ANY($2)
	`, ownerID.String(), pq.Array(raw))
	if err != nil {
		return 0, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(affected), nil
}

// DeleteExpired purges the owner's reports older than the cutoff.
func (r *ReportRepositoryImpl) DeleteExpired(ctx context.Context, ownerID core.OwnerID, cutoff time.Time) (int, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM reports WHERE owner_id = $1 AND created_at < $2
	`, ownerID.String(), cutoff)
	if err != nil {
		return 0, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(affected), nil
}

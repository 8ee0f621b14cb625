package postgres

import (
	"context"
	"database/sql"
	"errors"

	"dealscope/domain/core"
	"dealscope/models"
	"dealscope/ports"

	"github.com/jmoiron/sqlx"
)

// QuotaRepositoryImpl implements QuotaRepository for PostgreSQL
type QuotaRepositoryImpl struct {
	db *sqlx.DB
}

// NewQuotaRepository creates a new PostgreSQL quota repository
func NewQuotaRepository(db *sqlx.DB) ports.QuotaRepository {
	return &QuotaRepositoryImpl{db: db}
}

// GetState loads the owner's allowance counters.
func (r *QuotaRepositoryImpl) GetState(ctx context.Context, ownerID core.OwnerID) (*models.QuotaState, error) {
	var state models.QuotaState
	err := r.db.GetContext(ctx, &state, `
		SELECT owner_id, period_limit, period_used, unlimited, updated_at
		FROM quota_states
		WHERE owner_id = $1
	`, ownerID.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.NewNotFoundError("quota state", ownerID.String())
	}
	if err != nil {
		return nil, err
	}
	return &state, nil
}

// IncrementUsed bumps the period usage by one. The increment is expressed
// in SQL so concurrent commits for the same owner cannot lose updates at
// the storage layer.
func (r *QuotaRepositoryImpl) IncrementUsed(ctx context.Context, ownerID core.OwnerID) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE quota_states
		SET period_used = period_used + 1, updated_at = NOW()
		WHERE owner_id = $1
	`, ownerID.String())
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return core.NewNotFoundError("quota state", ownerID.String())
	}
	return nil
}

// EnsureState creates the default counter row for a new owner.
func (r *QuotaRepositoryImpl) EnsureState(ctx context.Context, ownerID core.OwnerID, periodLimit int) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO quota_states (owner_id, period_limit, period_used, unlimited, updated_at)
		VALUES ($1, $2, 0, false, NOW())
		ON CONFLICT (owner_id) DO NOTHING
	`, ownerID.String(), periodLimit)
	return err
}

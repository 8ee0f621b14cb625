package postgres

import (
	"context"
	"database/sql"
	"errors"

	"dealscope/models"
	"dealscope/ports"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var defaultOwnerID = uuid.MustParse("550e8400-e29b-41d4-a716-446655440000")

// OwnerRepositoryImpl implements OwnerRepository for PostgreSQL
type OwnerRepositoryImpl struct {
	db *sqlx.DB
}

// NewOwnerRepository creates a new PostgreSQL owner repository
func NewOwnerRepository(db *sqlx.DB) ports.OwnerRepository {
	return &OwnerRepositoryImpl{db: db}
}

// GetOrCreateDefaultOwner gets the default owner or creates it if it doesn't exist
func (r *OwnerRepositoryImpl) GetOrCreateDefaultOwner(ctx context.Context) (*models.Owner, error) {
	var owner models.Owner
	err := r.db.GetContext(ctx, &owner, `
		SELECT id, email, is_active, created_at, updated_at
		FROM owners
		WHERE id = $1
	`, defaultOwnerID)

	if err == nil {
		return &owner, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	owner = models.Owner{
		ID:       defaultOwnerID,
		Email:    "default@dealscope.local",
		IsActive: true,
	}
	_, err = r.db.NamedExecContext(ctx, `
		INSERT INTO owners (id, email, is_active, created_at, updated_at)
		VALUES (:id, :email, :is_active, NOW(), NOW())
	`, owner)
	if err != nil {
		// Handle unique constraint violation (owner might have been created by another process)
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" { // unique_violation
			return r.GetOwnerByID(ctx, defaultOwnerID)
		}
		return nil, err
	}
	return &owner, nil
}

// GetOwnerByID retrieves an owner by their ID
func (r *OwnerRepositoryImpl) GetOwnerByID(ctx context.Context, ownerID uuid.UUID) (*models.Owner, error) {
	var owner models.Owner
	err := r.db.GetContext(ctx, &owner, `
		SELECT id, email, is_active, created_at, updated_at
		FROM owners
		WHERE id = $1
	`, ownerID)
	if err != nil {
		return nil, err
	}
	return &owner, nil
}

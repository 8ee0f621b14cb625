package ports

import (
	"context"

	"dealscope/domain/core"
	"dealscope/models"
)

// QuotaRepository stores the per-owner allowance counters. Increment is a
// single read-modify-write at the storage layer; the quota service
// serializes callers per owner above it.
type QuotaRepository interface {
	GetState(ctx context.Context, ownerID core.OwnerID) (*models.QuotaState, error)
	IncrementUsed(ctx context.Context, ownerID core.OwnerID) error

	// EnsureState creates a default counter row for a new owner if one
	// does not exist yet.
	EnsureState(ctx context.Context, ownerID core.OwnerID, periodLimit int) error
}

package ports

import (
	"context"

	"dealscope/models"

	"github.com/google/uuid"
)

// OwnerRepository manages the accounts that run investigations.
type OwnerRepository interface {
	GetOrCreateDefaultOwner(ctx context.Context) (*models.Owner, error)
	GetOwnerByID(ctx context.Context, ownerID uuid.UUID) (*models.Owner, error)
}

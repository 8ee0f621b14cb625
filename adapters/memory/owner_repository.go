package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"dealscope/domain/core"
	"dealscope/models"
	"dealscope/ports"
)

var defaultOwnerID = uuid.MustParse("550e8400-e29b-41d4-a716-446655440000")

// OwnerRepository is a map-backed OwnerRepository for development mode.
type OwnerRepository struct {
	mu     sync.Mutex
	owners map[uuid.UUID]*models.Owner
}

// NewOwnerRepository creates an empty in-memory owner repository.
func NewOwnerRepository() *OwnerRepository {
	return &OwnerRepository{owners: make(map[uuid.UUID]*models.Owner)}
}

var _ ports.OwnerRepository = (*OwnerRepository)(nil)

func (r *OwnerRepository) GetOrCreateDefaultOwner(ctx context.Context) (*models.Owner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if owner, ok := r.owners[defaultOwnerID]; ok {
		copied := *owner
		return &copied, nil
	}
	now := time.Now()
	owner := &models.Owner{
		ID:        defaultOwnerID,
		Email:     "dev@dealscope.local",
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.owners[owner.ID] = owner
	copied := *owner
	return &copied, nil
}

func (r *OwnerRepository) GetOwnerByID(ctx context.Context, ownerID uuid.UUID) (*models.Owner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	owner, ok := r.owners[ownerID]
	if !ok {
		return nil, core.NewNotFoundError("owner", ownerID.String())
	}
	copied := *owner
	return &copied, nil
}

package memory

import (
	"context"
	"sync"
	"time"

	"dealscope/domain/core"
	"dealscope/models"
	"dealscope/ports"
)

// QuotaRepository is a map-backed QuotaRepository.
type QuotaRepository struct {
	mu     sync.Mutex
	states map[core.OwnerID]*models.QuotaState
}

// NewQuotaRepository creates an empty in-memory quota repository.
func NewQuotaRepository() *QuotaRepository {
	return &QuotaRepository{states: make(map[core.OwnerID]*models.QuotaState)}
}

var _ ports.QuotaRepository = (*QuotaRepository)(nil)

func (r *QuotaRepository) GetState(ctx context.Context, ownerID core.OwnerID) (*models.QuotaState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	state, ok := r.states[ownerID]
	if !ok {
		return nil, core.NewNotFoundError("quota state", ownerID.String())
	}
	copied := *state
	return &copied, nil
}

func (r *QuotaRepository) IncrementUsed(ctx context.Context, ownerID core.OwnerID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	state, ok := r.states[ownerID]
	if !ok {
		return core.NewNotFoundError("quota state", ownerID.String())
	}
	state.PeriodUsed++
	state.UpdatedAt = time.Now()
	return nil
}

func (r *QuotaRepository) EnsureState(ctx context.Context, ownerID core.OwnerID, periodLimit int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.states[ownerID]; ok {
		return nil
	}
	r.states[ownerID] = &models.QuotaState{
		OwnerID:     ownerID.String(),
		PeriodLimit: periodLimit,
		UpdatedAt:   time.Now(),
	}
	return nil
}

// SetState overrides an owner's counters; test helper and admin hook.
func (r *QuotaRepository) SetState(state models.QuotaState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := state
	r.states[core.OwnerID(state.OwnerID)] = &copied
}

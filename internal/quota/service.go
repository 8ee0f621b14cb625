// Package quota implements the per-owner allowance gate guarding pipeline
// entry. Counters are advisory billing enforcement, not a safety property:
// consistency is "at least correct within a small race window", with
// commits serialized per owner.
package quota

import (
	"context"
	"log"
	"sync"

	"dealscope/domain/core"
	"dealscope/ports"
)

// Verdict is the gate's answer to a reservation check. Unauthenticated and
// exhausted are distinct so the caller can render sign-in vs. upgrade.
type Verdict string

const (
	VerdictAllowed               Verdict = "allowed"
	VerdictDeniedUnauthenticated Verdict = "denied_unauthenticated"
	VerdictDeniedExhausted       Verdict = "denied_exhausted"
)

// Allowed reports whether the verdict lets the investigation run.
func (v Verdict) Allowed() bool { return v == VerdictAllowed }

// Service is the quota gate. It owns the only cross-request mutable state
// in the system besides the report store.
type Service struct {
	repo         ports.QuotaRepository
	defaultLimit int

	mu         sync.Mutex
	ownerLocks map[core.OwnerID]*sync.Mutex
}

// NewService creates a quota gate over a counter repository.
func NewService(repo ports.QuotaRepository, defaultLimit int) *Service {
	return &Service{
		repo:         repo,
		defaultLimit: defaultLimit,
		ownerLocks:   make(map[core.OwnerID]*sync.Mutex),
	}
}

func (s *Service) lockFor(ownerID core.OwnerID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.ownerLocks[ownerID]
	if !ok {
		l = &sync.Mutex{}
		s.ownerLocks[ownerID] = l
	}
	return l
}

// CheckAndReserve decides whether the owner may start an investigation.
// It does not consume allowance; Commit does that, and only after the
// report is durably persisted, so no rollback path is needed.
func (s *Service) CheckAndReserve(ctx context.Context, ownerID core.OwnerID) (Verdict, error) {
	if ownerID.IsEmpty() {
		return VerdictDeniedUnauthenticated, nil
	}

	l := s.lockFor(ownerID)
	l.Lock()
	defer l.Unlock()

	if err := s.repo.EnsureState(ctx, ownerID, s.defaultLimit); err != nil {
		return "", err
	}
	state, err := s.repo.GetState(ctx, ownerID)
	if err != nil {
		return "", err
	}
	if state.Unlimited {
		return VerdictAllowed, nil
	}
	if state.Exhausted() {
		log.Printf("[QuotaGate] owner=%s denied: %d/%d used", ownerID, state.PeriodUsed, state.PeriodLimit)
		return VerdictDeniedExhausted, nil
	}
	return VerdictAllowed, nil
}

// Commit consumes one unit of allowance. Called only after the report has
// been durably stored. A no-op for unlimited owners.
func (s *Service) Commit(ctx context.Context, ownerID core.OwnerID) error {
	if ownerID.IsEmpty() {
		return core.ErrNoOwner
	}

	l := s.lockFor(ownerID)
	l.Lock()
	defer l.Unlock()

	state, err := s.repo.GetState(ctx, ownerID)
	if err != nil {
		return err
	}
	if state.Unlimited {
		return nil
	}
	if err := s.repo.IncrementUsed(ctx, ownerID); err != nil {
		return err
	}
	log.Printf("[QuotaGate] owner=%s committed: %d/%d used", ownerID, state.PeriodUsed+1, state.PeriodLimit)
	return nil
}

// Remaining returns the owner's unused allowance, -1 for unlimited owners.
func (s *Service) Remaining(ctx context.Context, ownerID core.OwnerID) (int, error) {
	if err := s.repo.EnsureState(ctx, ownerID, s.defaultLimit); err != nil {
		return 0, err
	}
	state, err := s.repo.GetState(ctx, ownerID)
	if err != nil {
		return 0, err
	}
	if state.Unlimited {
		return -1, nil
	}
	return state.Remaining(), nil
}

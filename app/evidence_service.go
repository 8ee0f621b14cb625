package app

import (
	"context"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"dealscope/domain/evidence"
	"dealscope/domain/subject"
	"dealscope/ports"
)

// EvidenceService fans out to every applicable source adapter concurrently
// and assembles whatever comes back into one deterministic bundle. It
// never fails: a broken, slow, or empty source contributes nothing and
// does not abort the others; worst case the bundle is empty.
type EvidenceService struct {
	adapters     []ports.SourceAdapter
	fetchTimeout time.Duration

	// sem bounds outbound source calls across concurrent investigations
	// so a burst cannot exhaust upstream rate limits.
	sem *semaphore.Weighted
}

const defaultMaxOutboundCalls = 16

// NewEvidenceService creates an aggregator over the given adapters.
// fetchTimeout is the per-adapter ceiling: exceeding it counts as absence.
func NewEvidenceService(adapters []ports.SourceAdapter, fetchTimeout time.Duration) *EvidenceService {
	if fetchTimeout <= 0 {
		fetchTimeout = 15 * time.Second
	}
	return &EvidenceService{
		adapters:     adapters,
		fetchTimeout: fetchTimeout,
		sem:          semaphore.NewWeighted(defaultMaxOutboundCalls),
	}
}

// Gather runs all applicable adapters concurrently and waits for every one
// to settle before returning. Blocks land in the bundle ordered by source
// name, never by completion order, so identical inputs produce identical
// downstream prompts.
func (s *EvidenceService) Gather(ctx context.Context, sub subject.Subject) evidence.Bundle {
	var (
		mu     sync.Mutex
		blocks []evidence.Block
		wg     sync.WaitGroup
	)

	for _, adapter := range s.adapters {
		if !adapter.AppliesTo(sub) {
			log.Printf("[EvidenceAggregator] skipping %s: not applicable to this subject", adapter.Name())
			continue
		}

		wg.Add(1)
		go func(a ports.SourceAdapter) {
			defer wg.Done()
			block := s.fetchOne(ctx, a, sub)
			if block == nil {
				return
			}
			mu.Lock()
			blocks = append(blocks, *block)
			mu.Unlock()
		}(adapter)
	}
	wg.Wait()

	bundle := evidence.NewBundle(blocks)
	log.Printf("[EvidenceAggregator] gathered %d block(s) from %d adapter(s)",
		len(bundle.Blocks()), len(s.adapters))
	return bundle
}

// fetchOne runs a single adapter under the per-call ceiling and converts
// every failure mode, including a panic in a misbehaving adapter, into
// absence.
func (s *EvidenceService) fetchOne(ctx context.Context, a ports.SourceAdapter, sub subject.Subject) (block *evidence.Block) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[EvidenceAggregator] adapter %s panicked, treating as absent: %v", a.Name(), r)
			block = nil
		}
	}()

	if err := s.sem.Acquire(ctx, 1); err != nil {
		log.Printf("[EvidenceAggregator] adapter %s: could not acquire outbound slot: %v", a.Name(), err)
		return nil
	}
	defer s.sem.Release(1)

	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	b, err := a.Fetch(fetchCtx, sub)
	if err != nil {
		log.Printf("[EvidenceAggregator] adapter %s returned error, treating as absent: %v", a.Name(), err)
		return nil
	}
	if b == nil || b.Content == "" {
		log.Printf("[EvidenceAggregator] adapter %s reported absence", a.Name())
		return nil
	}
	return b
}

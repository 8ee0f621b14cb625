package ports

import (
	"context"

	"dealscope/domain/evidence"
	"dealscope/domain/subject"
)

// SourceAdapter wraps one external verification source. Implementations are
// stateless and safe to call concurrently for unrelated subjects.
//
// Fetch never propagates upstream failures: transport errors, missing
// credentials and empty result sets all come back as (nil, nil), the typed
// absence. A non-nil error is reserved for programming mistakes and is
// still tolerated by the aggregator.
type SourceAdapter interface {
	// Name identifies the source; bundles are ordered by it.
	Name() string

	// AppliesTo reports whether this source can say anything useful about
	// the subject (a company registry has nothing on a private individual).
	AppliesTo(sub subject.Subject) bool

	// Fetch gathers normalized textual evidence for the subject, or
	// (nil, nil) when the source has nothing.
	Fetch(ctx context.Context, sub subject.Subject) (*evidence.Block, error)
}

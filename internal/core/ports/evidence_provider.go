package ports

import (
	"context"

	"github.com/passprove/verification-node/internal/core/domain"
)

// EvidenceOutcome is what an external evidence provider reports back for a
// submitted piece of evidence. Age is nil for providers that assert
// eligibility directly without exposing an age claim.
type EvidenceOutcome struct {
	Verified bool
	Age      *int
	Provider string
	Metadata map[string]any
}

// EvidenceProvider verifies method-specific evidence against an external
// service. A returned error means the provider was unreachable or gave an
// unusable answer; the orchestrator maps that to a failed verification
// outcome, never to a retry.
type EvidenceProvider interface {
	Verify(ctx context.Context, evidence map[string]any) (*EvidenceOutcome, error)
}

// EvidenceProviderRegistry binds verification methods to their providers
type EvidenceProviderRegistry map[domain.Method]EvidenceProvider

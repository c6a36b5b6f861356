package orchestrator

import (
	"context"

	"github.com/compozy/tagpush/internal/domain"
	"github.com/compozy/tagpush/internal/usecase"
)

// NextOrchestrator reports the tag the next run would create without touching the repository.
type NextOrchestrator struct {
	workflow
}

// NewNextOrchestrator creates a new next orchestrator.
func NewNextOrchestrator(deps Dependencies, opts Options) *NextOrchestrator {
	return &NextOrchestrator{workflow: newWorkflow(deps, opts)}
}

// Execute derives the next version and formats its tag name.
func (o *NextOrchestrator) Execute(ctx context.Context) (string, *usecase.DerivedVersion, error) {
	derived, err := o.deriveVersion(ctx)
	if err != nil {
		return "", nil, err
	}
	return domain.FormatTag(derived.Next, o.deps.Now()), derived, nil
}

package usecase

import (
	"context"

	"github.com/compozy/tagpush/internal/domain"
	"github.com/compozy/tagpush/internal/repository"
)

// DetectChangesUseCase reports whether the working tree has anything to commit.
type DetectChangesUseCase struct {
	GitRepo repository.GitRepository
}

// Execute runs the use case.
func (uc *DetectChangesUseCase) Execute(ctx context.Context) (bool, error) {
	changed, err := uc.GitRepo.HasChanges(ctx)
	if err != nil {
		return false, domain.NewStepError(domain.StepCheckStatus, err)
	}
	return changed, nil
}

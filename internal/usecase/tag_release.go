package usecase

import (
	"context"

	"github.com/compozy/tagpush/internal/domain"
	"github.com/compozy/tagpush/internal/repository"
)

// CreateTagUseCase creates the lightweight backup tag at HEAD.
type CreateTagUseCase struct {
	GitRepo repository.GitRepository
}

// Execute runs the use case.
func (uc *CreateTagUseCase) Execute(ctx context.Context, tag string) error {
	if err := domain.ValidateTagName(tag); err != nil {
		return domain.NewStepError(domain.StepCreateTag, err)
	}
	if err := uc.GitRepo.CreateTag(ctx, tag); err != nil {
		return domain.NewStepError(domain.StepCreateTag, err)
	}
	return nil
}

// PushTagUseCase pushes a single tag to the remote.
type PushTagUseCase struct {
	GitRepo repository.GitRepository
	Remote  string
}

// Execute runs the use case.
func (uc *PushTagUseCase) Execute(ctx context.Context, tag string) error {
	if err := uc.GitRepo.PushTag(ctx, tag); err != nil {
		remote := uc.Remote
		if remote == "" {
			remote = "origin"
		}
		return domain.NewStepError(domain.StepPushTag, err).
			WithHint("push it later with: git push %s %s", remote, tag)
	}
	return nil
}

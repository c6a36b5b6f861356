package usecase

import (
	"context"
	"errors"

	"github.com/compozy/tagpush/internal/domain"
	"github.com/compozy/tagpush/internal/repository"
	"go.uber.org/zap"
)

// PushCommitUseCase pushes the current branch, falling back to pushing HEAD
// to the remote when the branch has no usable upstream.
type PushCommitUseCase struct {
	GitRepo repository.GitRepository
	Logger  *zap.Logger
}

// Execute runs the use case. It reports whether the fallback push was used.
func (uc *PushCommitUseCase) Execute(ctx context.Context) (bool, error) {
	primaryErr := uc.GitRepo.Push(ctx)
	if primaryErr == nil {
		return false, nil
	}
	if uc.Logger != nil {
		uc.Logger.Debug("push to upstream failed, pushing HEAD", zap.Error(primaryErr))
	}
	if err := uc.GitRepo.PushHead(ctx); err != nil {
		return false, domain.NewStepError(domain.StepPushCommit, errors.Join(primaryErr, err)).
			WithHint("set an upstream branch or push manually")
	}
	return true, nil
}

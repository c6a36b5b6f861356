package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/compozy/tagpush/internal/domain"
	"github.com/compozy/tagpush/internal/repository"
)

var errEmptyCommitMessage = errors.New("commit message cannot be empty")

// CommitChangesUseCase stages every change, removals included, and commits it.
type CommitChangesUseCase struct {
	GitRepo repository.GitRepository
}

// Execute runs the use case.
func (uc *CommitChangesUseCase) Execute(ctx context.Context, message string) error {
	if strings.TrimSpace(message) == "" {
		return domain.NewStepError(domain.StepCommit, errEmptyCommitMessage)
	}
	if err := uc.GitRepo.AddAll(ctx); err != nil {
		return domain.NewStepError(domain.StepStage, err)
	}
	if err := uc.GitRepo.Commit(ctx, message); err != nil {
		return domain.NewStepError(domain.StepCommit, err)
	}
	return nil
}

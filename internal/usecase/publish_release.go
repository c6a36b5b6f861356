package usecase

import (
	"context"

	"github.com/compozy/tagpush/internal/domain"
	"github.com/compozy/tagpush/internal/repository"
)

// PublishReleaseUseCase announces a pushed tag through the release publisher.
type PublishReleaseUseCase struct {
	Publisher repository.ReleasePublisher
}

// Execute runs the use case and returns the release URL.
func (uc *PublishReleaseUseCase) Execute(ctx context.Context, release *domain.Release) (string, error) {
	link, err := uc.Publisher.Publish(ctx, release)
	if err != nil {
		return "", domain.NewStepError(domain.StepPublishRelease, err)
	}
	return link, nil
}

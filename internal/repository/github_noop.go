package repository

import (
	"context"
	"errors"

	"github.com/compozy/tagpush/internal/domain"
)

var ErrGithubTokenRequired = errors.New("github token is required for GitHub operations")

// ErrPublishingDisabled is returned by the no-op publisher.
var ErrPublishingDisabled = errors.New("release publishing is disabled")

type githubNoopPublisher struct{}

// NewNoopReleasePublisher returns a publisher that never publishes.
func NewNoopReleasePublisher() ReleasePublisher {
	return githubNoopPublisher{}
}

func (githubNoopPublisher) Publish(_ context.Context, _ *domain.Release) (string, error) {
	return "", ErrPublishingDisabled
}

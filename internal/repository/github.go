package repository

import (
	"context"

	"github.com/compozy/tagpush/internal/domain"
)

// ReleasePublisher publishes a pushed backup tag as a hosted release.

type ReleasePublisher interface {
	Publish(ctx context.Context, release *domain.Release) (string, error)
}

package repository

import (
	"context"
	"time"
)

// GitRepository defines the interface for the Git operations the backup workflows need.

type GitRepository interface {
	HasChanges(ctx context.Context) (bool, error)
	StatusSummary(ctx context.Context) (string, error)
	AddAll(ctx context.Context) error
	Commit(ctx context.Context, message string) error
	ShortHead(ctx context.Context) (string, error)
	CreateTag(ctx context.Context, tag string) error
	// Push pushes the current branch to its configured upstream.
	Push(ctx context.Context) error
	// PushHead pushes HEAD to the same-named branch on the configured remote.
	PushHead(ctx context.Context) error
	PushTag(ctx context.Context, tag string) error
	// ListRemoteTags returns one "<hash>\t<ref>" line per tag on the remote.
	ListRemoteTags(ctx context.Context) ([]string, error)
	// GitDir returns the absolute path of the repository's git directory.
	GitDir(ctx context.Context) (string, error)
}

// GitOptions configures a GitRepository backend.
type GitOptions struct {
	Dir            string
	Remote         string
	LocalTimeout   time.Duration
	NetworkTimeout time.Duration
	Token          string
}

func (o GitOptions) remote() string {
	if o.Remote == "" {
		return "origin"
	}
	return o.Remote
}

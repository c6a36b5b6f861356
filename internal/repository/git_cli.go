package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/compozy/tagpush/internal/service"
)

// cliGitRepository drives the git executable through a service.Runner.
type cliGitRepository struct {
	runner service.Runner
	opts   GitOptions
}

// NewCLIGitRepository creates a GitRepository backed by the git command line.
func NewCLIGitRepository(runner service.Runner, opts GitOptions) GitRepository {
	if opts.LocalTimeout <= 0 {
		opts.LocalTimeout = service.DefaultLocalTimeout
	}
	if opts.NetworkTimeout <= 0 {
		opts.NetworkTimeout = service.DefaultNetworkTimeout
	}
	return &cliGitRepository{runner: runner, opts: opts}
}

func (r *cliGitRepository) git(ctx context.Context, timeout time.Duration, args ...string) (string, error) {
	return r.runner.Run(ctx, timeout, "git", args...)
}

// HasChanges reports whether `git status --porcelain` lists anything.
func (r *cliGitRepository) HasChanges(ctx context.Context) (bool, error) {
	out, err := r.git(ctx, r.opts.LocalTimeout, "status", "--porcelain")
	if err != nil {
		return false, fmt.Errorf("failed to get status: %w", err)
	}
	return strings.TrimSpace(out) != "", nil
}

// StatusSummary returns the short branch-aware status.
func (r *cliGitRepository) StatusSummary(ctx context.Context) (string, error) {
	out, err := r.git(ctx, r.opts.LocalTimeout, "status", "-sb")
	if err != nil {
		return "", fmt.Errorf("failed to get status summary: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// AddAll stages every change, including deletions and untracked files.
func (r *cliGitRepository) AddAll(ctx context.Context) error {
	if _, err := r.git(ctx, r.opts.LocalTimeout, "add", "-A"); err != nil {
		return fmt.Errorf("failed to stage changes: %w", err)
	}
	return nil
}

// Commit creates a commit with the given message.
func (r *cliGitRepository) Commit(ctx context.Context, message string) error {
	if _, err := r.git(ctx, r.opts.LocalTimeout, "commit", "-m", message); err != nil {
		return fmt.Errorf("failed to create commit: %w", err)
	}
	return nil
}

// ShortHead returns the abbreviated HEAD hash.
func (r *cliGitRepository) ShortHead(ctx context.Context) (string, error) {
	out, err := r.git(ctx, r.opts.LocalTimeout, "rev-parse", "--short", "HEAD")
	if err != nil {
		return "", fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// CreateTag creates a lightweight tag at HEAD.
func (r *cliGitRepository) CreateTag(ctx context.Context, tag string) error {
	if _, err := r.git(ctx, r.opts.LocalTimeout, "tag", tag); err != nil {
		return fmt.Errorf("failed to create tag %s: %w", tag, err)
	}
	return nil
}

// Push runs a plain `git push`, relying on the branch upstream.
func (r *cliGitRepository) Push(ctx context.Context) error {
	if _, err := r.git(ctx, r.opts.NetworkTimeout, "push"); err != nil {
		return fmt.Errorf("failed to push: %w", err)
	}
	return nil
}

// PushHead pushes HEAD to the configured remote.
func (r *cliGitRepository) PushHead(ctx context.Context) error {
	if _, err := r.git(ctx, r.opts.NetworkTimeout, "push", r.opts.remote(), "HEAD"); err != nil {
		return fmt.Errorf("failed to push HEAD to %s: %w", r.opts.remote(), err)
	}
	return nil
}

// PushTag pushes a single tag to the configured remote.
func (r *cliGitRepository) PushTag(ctx context.Context, tag string) error {
	if _, err := r.git(ctx, r.opts.NetworkTimeout, "push", r.opts.remote(), tag); err != nil {
		return fmt.Errorf("failed to push tag %s: %w", tag, err)
	}
	return nil
}

// ListRemoteTags lists tag references on the configured remote.
func (r *cliGitRepository) ListRemoteTags(ctx context.Context) ([]string, error) {
	out, err := r.git(ctx, r.opts.NetworkTimeout, "ls-remote", "--tags", r.opts.remote())
	if err != nil {
		return nil, fmt.Errorf("failed to list remote tags: %w", err)
	}
	var lines []string
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

// GitDir resolves the git directory, relative paths being taken from the working dir.
func (r *cliGitRepository) GitDir(ctx context.Context) (string, error) {
	out, err := r.git(ctx, r.opts.LocalTimeout, "rev-parse", "--git-dir")
	if err != nil {
		return "", fmt.Errorf("failed to resolve git dir: %w", err)
	}
	dir := strings.TrimSpace(out)
	if !filepath.IsAbs(dir) {
		base := r.opts.Dir
		if base == "" {
			base = "."
		}
		if dir, err = filepath.Abs(filepath.Join(base, dir)); err != nil {
			return "", fmt.Errorf("failed to resolve git dir: %w", err)
		}
	}
	return dir, nil
}

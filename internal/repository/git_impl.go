package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/compozy/tagpush/internal/domain"
	"github.com/compozy/tagpush/internal/service"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/storage/filesystem"
)

// shortHashLen matches the default abbreviation of `git rev-parse --short`.
const shortHashLen = 7

// gitRepository implements GitRepository on top of go-git.
type gitRepository struct {
	repo *git.Repository
	opts GitOptions
}

// NewGitRepository opens the repository containing opts.Dir (or the working directory).
func NewGitRepository(opts GitOptions) (GitRepository, error) {
	dir := opts.Dir
	if dir == "" {
		dir = "."
	}
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open git repository: %w", err)
	}
	if opts.LocalTimeout <= 0 {
		opts.LocalTimeout = service.DefaultLocalTimeout
	}
	if opts.NetworkTimeout <= 0 {
		opts.NetworkTimeout = service.DefaultNetworkTimeout
	}
	return &gitRepository{repo: repo, opts: opts}, nil
}

// HasChanges reports whether the worktree or index differ from HEAD.
func (r *gitRepository) HasChanges(_ context.Context) (bool, error) {
	status, err := r.status()
	if err != nil {
		return false, err
	}
	return !status.IsClean(), nil
}

// StatusSummary renders a `git status -sb` style summary.
func (r *gitRepository) StatusSummary(_ context.Context) (string, error) {
	status, err := r.status()
	if err != nil {
		return "", err
	}
	branch := "HEAD (no branch)"
	if head, err := r.repo.Head(); err == nil && head.Name().IsBranch() {
		branch = head.Name().Short()
	}
	return strings.TrimSpace("## " + branch + "\n" + status.String()), nil
}

func (r *gitRepository) status() (git.Status, error) {
	w, err := r.repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree: %w", err)
	}
	status, err := w.Status()
	if err != nil {
		return nil, fmt.Errorf("failed to get status: %w", err)
	}
	return status, nil
}

// AddAll stages every change, including removals.
func (r *gitRepository) AddAll(_ context.Context) error {
	w, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}
	if err := w.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return fmt.Errorf("failed to stage changes: %w", err)
	}
	return nil
}

// Commit creates a commit with the given message. Author comes from git config.
func (r *gitRepository) Commit(_ context.Context, message string) error {
	w, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}
	if _, err := w.Commit(message, &git.CommitOptions{}); err != nil {
		return fmt.Errorf("failed to create commit: %w", err)
	}
	return nil
}

// ShortHead returns the abbreviated HEAD hash.
func (r *gitRepository) ShortHead(_ context.Context) (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to get HEAD: %w", err)
	}
	return head.Hash().String()[:shortHashLen], nil
}

// CreateTag creates a lightweight tag at HEAD.
func (r *gitRepository) CreateTag(_ context.Context, tag string) error {
	head, err := r.repo.Head()
	if err != nil {
		return fmt.Errorf("failed to get HEAD: %w", err)
	}
	if _, err := r.repo.CreateTag(tag, head.Hash(), nil); err != nil {
		return fmt.Errorf("failed to create tag %s: %w", tag, err)
	}
	return nil
}

// currentBranch returns HEAD's branch, failing on a detached HEAD.
func (r *gitRepository) currentBranch() (plumbing.ReferenceName, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to get HEAD: %w", err)
	}
	if !head.Name().IsBranch() {
		return "", fmt.Errorf("HEAD is detached")
	}
	return head.Name(), nil
}

// Push pushes the current branch to its tracked upstream.
func (r *gitRepository) Push(ctx context.Context) error {
	branch, err := r.currentBranch()
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrNoUpstream, err)
	}
	cfg, err := r.repo.Config()
	if err != nil {
		return fmt.Errorf("failed to get config: %w", err)
	}
	upstream, ok := cfg.Branches[branch.Short()]
	if !ok || upstream.Remote == "" || upstream.Merge == "" {
		return fmt.Errorf("%w: %s", domain.ErrNoUpstream, branch.Short())
	}
	refSpec := config.RefSpec(fmt.Sprintf("%s:%s", branch, upstream.Merge))
	return r.push(ctx, upstream.Remote, refSpec)
}

// PushHead pushes the current branch to the same name on the configured remote.
func (r *gitRepository) PushHead(ctx context.Context) error {
	branch, err := r.currentBranch()
	if err != nil {
		return err
	}
	refSpec := config.RefSpec(fmt.Sprintf("%s:%s", branch, branch))
	return r.push(ctx, r.opts.remote(), refSpec)
}

// PushTag pushes a tag to the configured remote.
func (r *gitRepository) PushTag(ctx context.Context, tag string) error {
	refSpec := config.RefSpec(fmt.Sprintf("refs/tags/%s:refs/tags/%s", tag, tag))
	return r.push(ctx, r.opts.remote(), refSpec)
}

func (r *gitRepository) push(ctx context.Context, remoteName string, refSpec config.RefSpec) error {
	ctx, cancel := context.WithTimeout(ctx, r.opts.NetworkTimeout)
	defer cancel()
	err := r.repo.PushContext(ctx, &git.PushOptions{
		RemoteName: remoteName,
		RefSpecs:   []config.RefSpec{refSpec},
		Auth:       r.getAuth(remoteName),
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("failed to push %s to %s: %w", refSpec, remoteName, err)
	}
	return nil
}

// ListRemoteTags lists tag references advertised by the configured remote.
func (r *gitRepository) ListRemoteTags(ctx context.Context) ([]string, error) {
	remote, err := r.repo.Remote(r.opts.remote())
	if err != nil {
		return nil, fmt.Errorf("failed to get remote %s: %w", r.opts.remote(), err)
	}
	ctx, cancel := context.WithTimeout(ctx, r.opts.NetworkTimeout)
	defer cancel()
	refs, err := remote.ListContext(ctx, &git.ListOptions{Auth: r.getAuth(r.opts.remote())})
	if errors.Is(err, transport.ErrEmptyRemoteRepository) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list remote refs: %w", err)
	}
	var lines []string
	for _, ref := range refs {
		if ref.Name().IsTag() {
			lines = append(lines, fmt.Sprintf("%s\t%s", ref.Hash(), ref.Name()))
		}
	}
	return lines, nil
}

// GitDir returns the root of the repository's .git storage.
func (r *gitRepository) GitDir(_ context.Context) (string, error) {
	storage, ok := r.repo.Storer.(*filesystem.Storage)
	if !ok {
		return "", fmt.Errorf("repository is not backed by a filesystem")
	}
	return storage.Filesystem().Root(), nil
}

// getAuth returns token auth for HTTP remotes; other transports use their defaults.
func (r *gitRepository) getAuth(remoteName string) transport.AuthMethod {
	if r.opts.Token == "" {
		return nil
	}
	remote, err := r.repo.Remote(remoteName)
	if err != nil || len(remote.Config().URLs) == 0 {
		return nil
	}
	if !strings.HasPrefix(remote.Config().URLs[0], "http") {
		return nil
	}
	// Use x-access-token as username for GitHub token authentication
	return &http.BasicAuth{
		Username: "x-access-token",
		Password: r.opts.Token,
	}
}

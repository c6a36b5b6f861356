package repository

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/compozy/tagpush/internal/config"
	"github.com/compozy/tagpush/internal/domain"
	"github.com/google/go-github/v74/github"
	"github.com/sethvargo/go-retry"
	"golang.org/x/oauth2"
)

const (
	// DefaultPublishRetries is the number of retries for release API calls
	DefaultPublishRetries = 3
	// DefaultPublishRetryDelay is the initial delay for exponential backoff
	DefaultPublishRetryDelay = time.Second
)

// githubPublisher creates GitHub releases for backup tags.
type githubPublisher struct {
	client     *github.Client
	owner      string
	repo       string
	retries    uint64
	retryDelay time.Duration
}

// NewGithubReleasePublisher creates a ReleasePublisher with validation.
func NewGithubReleasePublisher(token, owner, repo string) (ReleasePublisher, error) {
	if token == "" {
		return nil, ErrGithubTokenRequired
	}
	// Validate token format using the consolidated validator from config package
	if err := config.ValidateGitHubToken(token); err != nil {
		return nil, fmt.Errorf("invalid GitHub token: %w", err)
	}
	if err := config.ValidateGitHubOwnerRepo(owner, repo); err != nil {
		return nil, fmt.Errorf("invalid repository configuration: %w", err)
	}
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: strings.TrimSpace(token)},
	)
	tc := oauth2.NewClient(context.Background(), ts)
	return newGithubPublisher(github.NewClient(tc), owner, repo), nil
}

func newGithubPublisher(client *github.Client, owner, repo string) *githubPublisher {
	return &githubPublisher{
		client:     client,
		owner:      owner,
		repo:       repo,
		retries:    DefaultPublishRetries,
		retryDelay: DefaultPublishRetryDelay,
	}
}

// Publish creates a release for the tag and returns its URL.
// Server errors and rate limits are retried; client errors are not.
func (p *githubPublisher) Publish(ctx context.Context, release *domain.Release) (string, error) {
	body := fmt.Sprintf("Backup of commit %s.\n\nPrevious version: v%s", release.Commit, release.Previous)
	if release.Message != "" {
		body = fmt.Sprintf("%s\n\n%s", release.Message, body)
	}
	req := &github.RepositoryRelease{
		TagName: github.Ptr(release.TagName),
		Name:    github.Ptr(release.TagName),
		Body:    github.Ptr(body),
	}
	var url string
	err := retry.Do(
		ctx,
		retry.WithMaxRetries(p.retries, retry.NewExponential(p.retryDelay)),
		func(ctx context.Context) error {
			created, resp, err := p.client.Repositories.CreateRelease(ctx, p.owner, p.repo, req)
			if err != nil {
				if isRetryable(resp, err) {
					return retry.RetryableError(err)
				}
				return err
			}
			url = created.GetHTMLURL()
			return nil
		},
	)
	if err != nil {
		return "", fmt.Errorf("failed to create release %s: %w", release.TagName, err)
	}
	return url, nil
}

func isRetryable(resp *github.Response, err error) bool {
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return true
	}
	if resp == nil {
		return true
	}
	return resp.StatusCode >= http.StatusInternalServerError
}

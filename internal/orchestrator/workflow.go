package orchestrator

import (
	"context"
	"errors"
	"time"

	"github.com/compozy/tagpush/internal/domain"
	"github.com/compozy/tagpush/internal/output"
	"github.com/compozy/tagpush/internal/repository"
	"github.com/compozy/tagpush/internal/usecase"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Options configures the backup workflows.
type Options struct {
	Remote             string
	DefaultVersion     domain.Version
	AbortOnRemoteError bool
	CommitMessage      string
	Lock               bool
	LockTimeout        time.Duration
}

// Dependencies holds the collaborators shared by every workflow.
type Dependencies struct {
	GitRepo   repository.GitRepository
	Publisher repository.ReleasePublisher
	Fs        afero.Fs
	UI        *output.UI
	Logger    *zap.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// workflow carries the steps both backup variants share.
type workflow struct {
	deps Dependencies
	opts Options
}

func newWorkflow(deps Dependencies, opts Options) workflow {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.UI == nil {
		deps.UI = output.New()
	}
	if deps.Fs == nil {
		deps.Fs = afero.NewOsFs()
	}
	if deps.Publisher == nil {
		deps.Publisher = repository.NewNoopReleasePublisher()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if opts.Remote == "" {
		opts.Remote = "origin"
	}
	return workflow{deps: deps, opts: opts}
}

// lock takes the run lock when enabled. The returned func is always safe to call.
func (w workflow) lock(ctx context.Context) (func(), error) {
	if !w.opts.Lock {
		return func() {}, nil
	}
	gitDir, err := w.deps.GitRepo.GitDir(ctx)
	if err != nil {
		return func() {}, domain.NewStepError(domain.StepAcquireLock, err)
	}
	runLock, err := repository.AcquireRunLock(ctx, w.deps.Fs, gitDir, w.opts.LockTimeout)
	if err != nil {
		stepErr := domain.NewStepError(domain.StepAcquireLock, err)
		if errors.Is(err, repository.ErrLocked) {
			stepErr = stepErr.WithHint("another run is in progress in this repository")
		}
		return func() {}, stepErr
	}
	w.deps.Logger.Debug("run lock acquired", zap.String("path", runLock.Path()))
	return func() {
		if err := runLock.Release(); err != nil {
			w.deps.Logger.Warn("failed to release run lock", zap.Error(err))
		}
	}, nil
}

func (w workflow) deriveVersion(ctx context.Context) (*usecase.DerivedVersion, error) {
	uc := &usecase.DeriveVersionUseCase{
		GitRepo:            w.deps.GitRepo,
		Default:            w.opts.DefaultVersion,
		AbortOnRemoteError: w.opts.AbortOnRemoteError,
		Remote:             w.opts.Remote,
		Logger:             w.deps.Logger,
	}
	derived, err := uc.Execute(ctx)
	if err != nil {
		return nil, err
	}
	if derived.Fallback {
		w.deps.UI.Warning("Could not list tags on %s (%v), starting from default version v%s",
			w.opts.Remote, derived.RemoteErr, w.opts.DefaultVersion)
	}
	return derived, nil
}

func (w workflow) shortHead(ctx context.Context) string {
	hash, err := w.deps.GitRepo.ShortHead(ctx)
	if err != nil {
		w.deps.Logger.Debug("could not read HEAD", zap.Error(err))
		return ""
	}
	return hash
}

func (w workflow) createAndPushTag(ctx context.Context, tag string) error {
	createTag := &usecase.CreateTagUseCase{GitRepo: w.deps.GitRepo}
	if err := createTag.Execute(ctx, tag); err != nil {
		return err
	}
	w.deps.UI.VerboseLog("created tag %s", tag)
	pushTag := &usecase.PushTagUseCase{GitRepo: w.deps.GitRepo, Remote: w.opts.Remote}
	return pushTag.Execute(ctx, tag)
}

// publish announces the release. Failures only warn: the tag is already on the remote.
func (w workflow) publish(ctx context.Context, release *domain.Release) {
	uc := &usecase.PublishReleaseUseCase{Publisher: w.deps.Publisher}
	link, err := uc.Execute(ctx, release)
	switch {
	case errors.Is(err, repository.ErrPublishingDisabled):
		return
	case err != nil:
		w.deps.Logger.Warn("release publishing failed", zap.Error(err), zap.String("tag", release.TagName))
		w.deps.UI.Warning("Tag %s is pushed but the release could not be published: %v", release.TagName, err)
	default:
		w.deps.UI.Success("Release published: %s", link)
	}
}

package cmd

import (
	"fmt"
	"io"

	"github.com/compozy/tagpush/internal/config"
	"github.com/compozy/tagpush/internal/logger"
	"github.com/compozy/tagpush/internal/orchestrator"
	"github.com/compozy/tagpush/internal/output"
	"github.com/compozy/tagpush/internal/repository"
	"github.com/compozy/tagpush/internal/service"
	"github.com/google/uuid"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// workDir is the directory every git command runs in.
const workDir = "."

// container holds all the dependencies for one run.

type container struct {
	cfg *config.Config

	fs        afero.Fs
	gitRepo   repository.GitRepository
	publisher repository.ReleasePublisher
	logger    *zap.Logger
	ui        *output.UI
}

// newContainer loads configuration and wires the dependencies.
func newContainer(opts *rootOptions, out, errOut io.Writer) (*container, error) {
	fs := afero.NewOsFs()
	cfg, err := config.LoadConfig(fs, opts.configPath)
	if err != nil {
		return nil, err
	}
	level := cfg.LogLevel
	if opts.verbose {
		level = "debug"
	}
	baseLogger, err := logger.New(level)
	if err != nil {
		return nil, err
	}
	log := baseLogger.With(zap.String("run_id", uuid.NewString()))

	gitOpts := repository.GitOptions{
		Dir:            workDir,
		Remote:         cfg.Remote,
		LocalTimeout:   cfg.LocalTimeout,
		NetworkTimeout: cfg.NetworkTimeout,
		Token:          cfg.GithubToken,
	}
	var gitRepo repository.GitRepository
	switch cfg.Backend {
	case config.BackendGoGit:
		gitRepo, err = repository.NewGitRepository(gitOpts)
		if err != nil {
			return nil, fmt.Errorf("failed to open git repository: %w", err)
		}
	default:
		gitRepo = repository.NewCLIGitRepository(service.NewRunner(workDir, log), gitOpts)
	}

	// Release publishing is optional - only create a GitHub client when enabled
	publisher := repository.NewNoopReleasePublisher()
	if cfg.GithubRelease {
		publisher, err = repository.NewGithubReleasePublisher(cfg.GithubToken, cfg.GithubOwner, cfg.GithubRepo)
		if err != nil {
			return nil, err
		}
	}
	log.Debug("container ready",
		zap.String("backend", cfg.Backend),
		zap.String("remote", cfg.Remote),
		zap.Bool("github_release", cfg.GithubRelease))

	return &container{
		cfg:       cfg,
		fs:        fs,
		gitRepo:   gitRepo,
		publisher: publisher,
		logger:    log,
		ui:        &output.UI{Verbose: opts.verbose, Out: out, ErrOut: errOut},
	}, nil
}

func (c *container) dependencies() orchestrator.Dependencies {
	return orchestrator.Dependencies{
		GitRepo:   c.gitRepo,
		Publisher: c.publisher,
		Fs:        c.fs,
		UI:        c.ui,
		Logger:    c.logger,
	}
}

func (c *container) options() orchestrator.Options {
	// LoadConfig has already validated default_version
	base, _ := c.cfg.BaseVersion()
	return orchestrator.Options{
		Remote:             c.cfg.Remote,
		DefaultVersion:     base,
		AbortOnRemoteError: c.cfg.OnRemoteError == config.RemoteErrorAbort,
		CommitMessage:      c.cfg.CommitMessage,
		Lock:               c.cfg.Lock,
		LockTimeout:        c.cfg.LockTimeout,
	}
}

func (c *container) close() {
	_ = c.logger.Sync()
}

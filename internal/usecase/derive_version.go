package usecase

import (
	"context"
	"fmt"

	"github.com/compozy/tagpush/internal/domain"
	"github.com/compozy/tagpush/internal/repository"
	"go.uber.org/zap"
)

// DerivedVersion is the latest published version and the one that follows it.
type DerivedVersion struct {
	Latest domain.Version
	Next   domain.Version
	// Fallback is set when the remote could not be listed and Latest is the default.
	Fallback  bool
	RemoteErr error
}

// DeriveVersionUseCase reads the remote tags and works out the next version.
type DeriveVersionUseCase struct {
	GitRepo            repository.GitRepository
	Default            domain.Version
	AbortOnRemoteError bool
	Remote             string
	Logger             *zap.Logger
}

// Execute runs the use case.
func (uc *DeriveVersionUseCase) Execute(ctx context.Context) (*DerivedVersion, error) {
	lines, err := uc.GitRepo.ListRemoteTags(ctx)
	if err != nil {
		if uc.AbortOnRemoteError {
			return nil, domain.NewStepError(domain.StepDeriveVersion,
				fmt.Errorf("%w: %w", domain.ErrRemoteTagsUnavailable, err)).
				WithHint("check access to remote %s or set on_remote_error: fallback", uc.remote())
		}
		uc.logger().Warn("listing remote tags failed, using default version",
			zap.Error(err), zap.Stringer("default", uc.Default))
		return &DerivedVersion{
			Latest:    uc.Default,
			Next:      uc.Default.Increment(),
			Fallback:  true,
			RemoteErr: err,
		}, nil
	}
	latest, found := domain.ScanRemoteVersionsFunc(lines, func(line string, err error) {
		uc.logger().Debug("skipping remote tag", zap.String("ref", line), zap.Error(err))
	})
	if !found {
		uc.logger().Debug("no versioned tags on remote", zap.Int("refs", len(lines)))
		latest = uc.Default
	}
	return &DerivedVersion{Latest: latest, Next: latest.Increment()}, nil
}

func (uc *DeriveVersionUseCase) remote() string {
	if uc.Remote == "" {
		return "origin"
	}
	return uc.Remote
}

func (uc *DeriveVersionUseCase) logger() *zap.Logger {
	if uc.Logger == nil {
		return zap.NewNop()
	}
	return uc.Logger
}

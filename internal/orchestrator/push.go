package orchestrator

import (
	"context"

	"github.com/compozy/tagpush/internal/domain"
	"github.com/compozy/tagpush/internal/output"
	"github.com/compozy/tagpush/internal/usecase"
	"go.uber.org/zap"
)

// PushOrchestrator commits pending work, tags it with the next version and
// pushes both the commit and the tag.
type PushOrchestrator struct {
	workflow
}

// NewPushOrchestrator creates a new push orchestrator.
func NewPushOrchestrator(deps Dependencies, opts Options) *PushOrchestrator {
	return &PushOrchestrator{workflow: newWorkflow(deps, opts)}
}

// Execute runs the push workflow. It returns a nil release when there was nothing to commit.
func (o *PushOrchestrator) Execute(ctx context.Context, message string) (*domain.Release, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultWorkflowTimeout)
	defer cancel()
	ui, log := o.deps.UI, o.deps.Logger
	unlock, err := o.lock(ctx)
	defer unlock()
	if err != nil {
		return nil, err
	}
	// Step 1: Check for changes
	changed, err := (&usecase.DetectChangesUseCase{GitRepo: o.deps.GitRepo}).Execute(ctx)
	if err != nil {
		return nil, err
	}
	if !changed {
		ui.Info("No changes to commit, nothing to back up")
		return nil, nil
	}
	// Step 2: Commit everything
	message = ResolveCommitMessage(message, o.opts.CommitMessage)
	if err := ValidateCommitMessage(message); err != nil {
		return nil, domain.NewStepError(domain.StepCommit, err)
	}
	if err := (&usecase.CommitChangesUseCase{GitRepo: o.deps.GitRepo}).Execute(ctx, message); err != nil {
		return nil, err
	}
	commit := o.shortHead(ctx)
	if commit != "" {
		ui.Success("Committed %s: %s", output.Cyan(commit), message)
	} else {
		ui.Success("Committed: %s", message)
	}
	// Step 3: Work out the version
	derived, err := o.deriveVersion(ctx)
	if err != nil {
		return nil, err
	}
	tag := domain.FormatTag(derived.Next, o.deps.Now())
	ui.Info("Previous version: v%s", derived.Latest)
	ui.Info("New tag: %s", output.Bold(tag))
	log.Info("derived version",
		zap.Stringer("latest", derived.Latest),
		zap.Stringer("next", derived.Next),
		zap.Bool("fallback", derived.Fallback))
	// Step 4: Tag, push the commit, push the tag
	if err := (&usecase.CreateTagUseCase{GitRepo: o.deps.GitRepo}).Execute(ctx, tag); err != nil {
		return nil, err
	}
	usedFallback, err := (&usecase.PushCommitUseCase{GitRepo: o.deps.GitRepo, Logger: log}).Execute(ctx)
	if err != nil {
		return nil, err
	}
	if usedFallback {
		ui.Warning("Branch has no upstream, pushed HEAD to %s", o.opts.Remote)
	}
	pushTag := &usecase.PushTagUseCase{GitRepo: o.deps.GitRepo, Remote: o.opts.Remote}
	if err := pushTag.Execute(ctx, tag); err != nil {
		return nil, err
	}
	o.printSummary(ctx)
	ui.Success("Backed up as %s", output.Bold(tag))
	release := &domain.Release{
		TagName:  tag,
		Version:  derived.Next,
		Previous: derived.Latest,
		Commit:   commit,
		Message:  message,
	}
	o.publish(ctx, release)
	return release, nil
}

func (o *PushOrchestrator) printSummary(ctx context.Context) {
	summary, err := o.deps.GitRepo.StatusSummary(ctx)
	if err != nil {
		o.deps.UI.Warning("Could not read repository status: %v", err)
		return
	}
	o.deps.UI.Block(summary)
}

package orchestrator

import (
	"context"
	"fmt"

	"github.com/compozy/tagpush/internal/domain"
	"github.com/compozy/tagpush/internal/output"
	"github.com/compozy/tagpush/internal/usecase"
	"go.uber.org/zap"
)

// TagOrchestrator works out the next version first, commits any pending work
// under a version backup message, then tags and pushes only the tag.
type TagOrchestrator struct {
	workflow
}

// NewTagOrchestrator creates a new tag orchestrator.
func NewTagOrchestrator(deps Dependencies, opts Options) *TagOrchestrator {
	return &TagOrchestrator{workflow: newWorkflow(deps, opts)}
}

// Execute runs the tag workflow.
func (o *TagOrchestrator) Execute(ctx context.Context) (*domain.Release, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultWorkflowTimeout)
	defer cancel()
	ui := o.deps.UI
	unlock, err := o.lock(ctx)
	defer unlock()
	if err != nil {
		return nil, err
	}
	derived, err := o.deriveVersion(ctx)
	if err != nil {
		return nil, err
	}
	tag := domain.FormatTag(derived.Next, o.deps.Now())
	ui.Info("Previous version: v%s", derived.Latest)
	ui.Info("New tag: %s", output.Bold(tag))
	changed, err := (&usecase.DetectChangesUseCase{GitRepo: o.deps.GitRepo}).Execute(ctx)
	if err != nil {
		o.deps.Logger.Warn("status check failed, treating tree as clean", zap.Error(err))
		ui.Warning("Could not check for changes, tagging the current HEAD: %v", err)
		changed = false
	}
	message := ""
	if changed {
		message = fmt.Sprintf(VersionBackupMessageFormat, derived.Next)
		if err := (&usecase.CommitChangesUseCase{GitRepo: o.deps.GitRepo}).Execute(ctx, message); err != nil {
			return nil, err
		}
		ui.Success("Committed: %s", message)
	} else {
		ui.VerboseLog("working tree clean, tagging HEAD")
	}
	if err := o.createAndPushTag(ctx, tag); err != nil {
		return nil, err
	}
	ui.Success("Tag %s pushed to %s", output.Bold(tag), o.opts.Remote)
	release := &domain.Release{
		TagName:  tag,
		Version:  derived.Next,
		Previous: derived.Latest,
		Commit:   o.shortHead(ctx),
		Message:  message,
	}
	o.publish(ctx, release)
	return release, nil
}

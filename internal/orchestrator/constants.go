package orchestrator

import (
	"os"
	"time"
)

// Timeout constants for the workflows
var (
	// DefaultWorkflowTimeout bounds a whole push or tag run, on top of the per-command timeouts
	DefaultWorkflowTimeout = getTimeoutOrDefault("TAGPUSH_WORKFLOW_TIMEOUT", 15*time.Minute)
)

// VersionBackupMessageFormat is the commit message used by the tag workflow.
const VersionBackupMessageFormat = "chore: version backup v%s - auto commit"

// getTimeoutOrDefault returns the duration in envVar, or def when unset or unparsable
func getTimeoutOrDefault(envVar string, def time.Duration) time.Duration {
	if env := os.Getenv(envVar); env != "" {
		if duration, err := time.ParseDuration(env); err == nil && duration > 0 {
			return duration
		}
	}
	return def
}

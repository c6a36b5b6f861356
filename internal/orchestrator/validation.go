package orchestrator

import (
	"fmt"
	"strings"
)

// ResolveCommitMessage returns the trimmed user message, or fallback when it is blank.
func ResolveCommitMessage(message, fallback string) string {
	if trimmed := strings.TrimSpace(message); trimmed != "" {
		return trimmed
	}
	return fallback
}

// ValidateCommitMessage validates a commit message.
func ValidateCommitMessage(message string) error {
	if strings.TrimSpace(message) == "" {
		return fmt.Errorf("commit message cannot be empty")
	}
	if strings.ContainsRune(message, 0) {
		return fmt.Errorf("commit message cannot contain NUL bytes")
	}
	return nil
}

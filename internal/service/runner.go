package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrCommandTimeout marks a command that was killed because it ran past its timeout.
var ErrCommandTimeout = errors.New("command timed out")

// Runner defines the interface for running external commands.

type Runner interface {
	// Run executes name with args, waits for it and returns its stdout.
	// A non-zero exit status or an exceeded timeout yields a *CommandError.
	Run(ctx context.Context, timeout time.Duration, name string, args ...string) (string, error)
}

// CommandError describes a failed external command.
type CommandError struct {
	Command string
	Stderr  string
	Err     error
}

func (e *CommandError) Error() string {
	if errors.Is(e.Err, ErrCommandTimeout) {
		return e.Err.Error()
	}
	if errors.Is(e.Err, context.DeadlineExceeded) || errors.Is(e.Err, context.Canceled) {
		return fmt.Sprintf("%s: %v", e.Command, e.Err)
	}
	if e.Stderr != "" {
		return e.Stderr
	}
	return fmt.Sprintf("%s: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// IsTimeout reports whether err was caused by a command timeout.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrCommandTimeout)
}

// execRunner is the implementation of the Runner interface.
type execRunner struct {
	dir    string
	logger *zap.Logger
}

// NewRunner creates a Runner executing commands in dir ("" means the current directory).
func NewRunner(dir string, logger *zap.Logger) Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &execRunner{dir: dir, logger: logger}
}

// Run executes a command with timeout and captures its output.
func (r *execRunner) Run(ctx context.Context, timeout time.Duration, name string, args ...string) (string, error) {
	if timeout <= 0 {
		timeout = DefaultLocalTimeout
	}
	parent := ctx
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	line := strings.Join(append([]string{name}, args...), " ")
	start := time.Now()
	err := cmd.Run()
	log := r.logger.With(zap.String("cmd", line), zap.Duration("elapsed", time.Since(start)))
	if err != nil {
		if parentErr := parent.Err(); parentErr != nil {
			log.Debug("command interrupted", zap.Error(parentErr))
			return "", &CommandError{
				Command: line,
				Stderr:  strings.TrimSpace(stderr.String()),
				Err:     fmt.Errorf("interrupted before completion: %w", parentErr),
			}
		}
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			log.Debug("command timed out", zap.Duration("timeout", timeout))
			return "", &CommandError{
				Command: line,
				Stderr:  strings.TrimSpace(stderr.String()),
				Err:     fmt.Errorf("%w after %v", ErrCommandTimeout, timeout),
			}
		}
		log.Debug("command failed", zap.Error(err), zap.String("stderr", stderr.String()))
		return "", &CommandError{
			Command: line,
			Stderr:  strings.TrimSpace(stderr.String()),
			Err:     err,
		}
	}
	log.Debug("command succeeded")
	return stdout.String(), nil
}

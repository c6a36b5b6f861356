package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Mock for service.Runner
type mockRunner struct {
	mock.Mock
}

func (m *mockRunner) Run(ctx context.Context, timeout time.Duration, name string, args ...string) (string, error) {
	call := append([]any{ctx, timeout, name}, toAny(args)...)
	ret := m.Called(call...)
	return ret.String(0), ret.Error(1)
}

func toAny(args []string) []any {
	out := make([]any, len(args))
	for i, a := range args {
		out[i] = a
	}
	return out
}

const testNetworkTimeout = 2 * time.Second

func newCLIRepo(runner *mockRunner) GitRepository {
	return NewCLIGitRepository(runner, GitOptions{
		Remote:         "origin",
		LocalTimeout:   time.Second,
		NetworkTimeout: testNetworkTimeout,
	})
}

func TestCLIGitRepository_HasChanges(t *testing.T) {
	ctx := context.Background()
	t.Run("Should detect changes from porcelain output", func(t *testing.T) {
		runner := new(mockRunner)
		runner.On("Run", ctx, time.Second, "git", "status", "--porcelain").Return(" M main.go\n", nil)
		changed, err := newCLIRepo(runner).HasChanges(ctx)
		require.NoError(t, err)
		assert.True(t, changed)
		runner.AssertExpectations(t)
	})
	t.Run("Should treat whitespace output as clean", func(t *testing.T) {
		runner := new(mockRunner)
		runner.On("Run", ctx, time.Second, "git", "status", "--porcelain").Return("\n", nil)
		changed, err := newCLIRepo(runner).HasChanges(ctx)
		require.NoError(t, err)
		assert.False(t, changed)
	})
	t.Run("Should propagate status failure", func(t *testing.T) {
		runner := new(mockRunner)
		runner.On("Run", ctx, time.Second, "git", "status", "--porcelain").
			Return("", errors.New("not a git repository"))
		_, err := newCLIRepo(runner).HasChanges(ctx)
		assert.ErrorContains(t, err, "not a git repository")
	})
}

func TestCLIGitRepository_Commands(t *testing.T) {
	ctx := context.Background()
	t.Run("Should stage with add -A", func(t *testing.T) {
		runner := new(mockRunner)
		runner.On("Run", ctx, time.Second, "git", "add", "-A").Return("", nil)
		require.NoError(t, newCLIRepo(runner).AddAll(ctx))
		runner.AssertExpectations(t)
	})
	t.Run("Should pass commit message as a single argument", func(t *testing.T) {
		runner := new(mockRunner)
		runner.On("Run", ctx, time.Second, "git", "commit", "-m", `fix: "quotes" & spaces`).Return("", nil)
		require.NoError(t, newCLIRepo(runner).Commit(ctx, `fix: "quotes" & spaces`))
		runner.AssertExpectations(t)
	})
	t.Run("Should trim short head", func(t *testing.T) {
		runner := new(mockRunner)
		runner.On("Run", ctx, time.Second, "git", "rev-parse", "--short", "HEAD").Return("abc1234\n", nil)
		hash, err := newCLIRepo(runner).ShortHead(ctx)
		require.NoError(t, err)
		assert.Equal(t, "abc1234", hash)
	})
	t.Run("Should create lightweight tag", func(t *testing.T) {
		runner := new(mockRunner)
		runner.On("Run", ctx, time.Second, "git", "tag", "v0.6.1-20240101-000000").Return("", nil)
		require.NoError(t, newCLIRepo(runner).CreateTag(ctx, "v0.6.1-20240101-000000"))
		runner.AssertExpectations(t)
	})
	t.Run("Should use network timeout for pushes", func(t *testing.T) {
		runner := new(mockRunner)
		runner.On("Run", ctx, testNetworkTimeout, "git", "push").Return("", nil)
		runner.On("Run", ctx, testNetworkTimeout, "git", "push", "origin", "HEAD").Return("", nil)
		runner.On("Run", ctx, testNetworkTimeout, "git", "push", "origin", "v1.0.0-20240101-000000").Return("", nil)
		repo := newCLIRepo(runner)
		require.NoError(t, repo.Push(ctx))
		require.NoError(t, repo.PushHead(ctx))
		require.NoError(t, repo.PushTag(ctx, "v1.0.0-20240101-000000"))
		runner.AssertExpectations(t)
	})
	t.Run("Should wrap push failure", func(t *testing.T) {
		runner := new(mockRunner)
		runner.On("Run", ctx, testNetworkTimeout, "git", "push").Return("", errors.New("no upstream branch"))
		err := newCLIRepo(runner).Push(ctx)
		assert.ErrorContains(t, err, "failed to push: no upstream branch")
	})
}

func TestCLIGitRepository_ListRemoteTags(t *testing.T) {
	ctx := context.Background()
	t.Run("Should split ls-remote output into lines", func(t *testing.T) {
		runner := new(mockRunner)
		out := "aaa\trefs/tags/v1.2.3-20240101-000000\n\nbbb\trefs/tags/v1.3.0-20240102-000000\n"
		runner.On("Run", ctx, testNetworkTimeout, "git", "ls-remote", "--tags", "origin").Return(out, nil)
		lines, err := newCLIRepo(runner).ListRemoteTags(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{
			"aaa\trefs/tags/v1.2.3-20240101-000000",
			"bbb\trefs/tags/v1.3.0-20240102-000000",
		}, lines)
	})
	t.Run("Should use configured remote", func(t *testing.T) {
		runner := new(mockRunner)
		runner.On("Run", ctx, testNetworkTimeout, "git", "ls-remote", "--tags", "backup").Return("", nil)
		repo := NewCLIGitRepository(runner, GitOptions{Remote: "backup", NetworkTimeout: testNetworkTimeout})
		lines, err := repo.ListRemoteTags(ctx)
		require.NoError(t, err)
		assert.Empty(t, lines)
		runner.AssertExpectations(t)
	})
}

func TestCLIGitRepository_GitDir(t *testing.T) {
	ctx := context.Background()
	t.Run("Should resolve relative git dir against working dir", func(t *testing.T) {
		dir := t.TempDir()
		runner := new(mockRunner)
		runner.On("Run", ctx, time.Second, "git", "rev-parse", "--git-dir").Return(".git\n", nil)
		repo := NewCLIGitRepository(runner, GitOptions{Dir: dir, LocalTimeout: time.Second})
		gitDir, err := repo.GitDir(ctx)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, ".git"), gitDir)
	})
	t.Run("Should keep absolute git dir", func(t *testing.T) {
		runner := new(mockRunner)
		runner.On("Run", ctx, time.Second, "git", "rev-parse", "--git-dir").Return("/srv/repo/.git\n", nil)
		gitDir, err := newCLIRepo(runner).GitDir(ctx)
		require.NoError(t, err)
		assert.Equal(t, "/srv/repo/.git", gitDir)
	})
}

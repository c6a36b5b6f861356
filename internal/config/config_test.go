package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPopulateRepositoryDefaultsUsesEnvSlug(t *testing.T) {
	t.Setenv("GITHUB_REPOSITORY", "acme/widgets")
	t.Setenv("GITHUB_REPOSITORY_OWNER", "")
	t.Setenv("GITHUB_REPOSITORY_NAME", "")
	cfg := Config{}
	err := populateRepositoryDefaults(&cfg)
	require.NoError(t, err)
	require.Equal(t, "acme", cfg.GithubOwner)
	require.Equal(t, "widgets", cfg.GithubRepo)
}

func TestPopulateRepositoryDefaultsFallsBackToGitRemote(t *testing.T) {
	t.Setenv("GITHUB_REPOSITORY", "")
	t.Setenv("GITHUB_REPOSITORY_OWNER", "")
	t.Setenv("GITHUB_REPOSITORY_NAME", "")
	tmp := t.TempDir()
	repo, err := git.PlainInit(tmp, false)
	require.NoError(t, err)
	_, err = repo.CreateRemote(
		&gitconfig.RemoteConfig{Name: "origin", URLs: []string{"git@github.com:octo/widget.git"}},
	)
	require.NoError(t, err)
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tmp))
	t.Cleanup(func() { require.NoError(t, os.Chdir(wd)) })
	cfg := Config{}
	err = populateRepositoryDefaults(&cfg)
	require.NoError(t, err)
	require.Equal(t, "octo", cfg.GithubOwner)
	require.Equal(t, "widget", cfg.GithubRepo)
}

func TestParseGitRemoteURL(t *testing.T) {
	cases := []struct {
		name      string
		url       string
		wantOwner string
		wantRepo  string
	}{
		{name: "https clone", url: "https://github.com/org/project.git", wantOwner: "org", wantRepo: "project"},
		{name: "ssh", url: "git@github.com:org/project.git", wantOwner: "org", wantRepo: "project"},
		{name: "ssh without suffix", url: "git@github.com:org/project", wantOwner: "org", wantRepo: "project"},
		{name: "file path", url: filepath.Join("tmp", "org", "project"), wantOwner: "org", wantRepo: "project"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			owner, repo, err := parseGitRemoteURL(tc.url)
			require.NoError(t, err)
			require.Equal(t, tc.wantOwner, owner)
			require.Equal(t, tc.wantRepo, repo)
		})
	}
}

func clearConfigEnv(t *testing.T) {
	for _, key := range []string{
		"GITHUB_TOKEN", "GITHUB_OWNER", "GITHUB_REPO", "GITHUB_REPOSITORY",
		"TAGPUSH_GITHUB_TOKEN", "TAGPUSH_GITHUB_OWNER", "TAGPUSH_GITHUB_REPO",
		"TAGPUSH_REMOTE", "TAGPUSH_BACKEND", "TAGPUSH_DEFAULT_VERSION", "TAGPUSH_ON_REMOTE_ERROR",
		"TAGPUSH_LOG_LEVEL", "TAGPUSH_GITHUB_RELEASE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("Should return defaults without config file", func(t *testing.T) {
		clearConfigEnv(t)
		t.Chdir(t.TempDir())
		cfg, err := LoadConfig(afero.NewMemMapFs(), "")
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})
	t.Run("Should read explicit config file", func(t *testing.T) {
		clearConfigEnv(t)
		fs := afero.NewMemMapFs()
		content := []byte(`remote: backup
backend: go-git
default_version: 1.2.9
on_remote_error: abort
network_timeout: 45s
lock: false
`)
		require.NoError(t, afero.WriteFile(fs, "/etc/tagpush/config.yaml", content, 0644))
		cfg, err := LoadConfig(fs, "/etc/tagpush/config.yaml")
		require.NoError(t, err)
		assert.Equal(t, "backup", cfg.Remote)
		assert.Equal(t, BackendGoGit, cfg.Backend)
		assert.Equal(t, "1.2.9", cfg.DefaultVersion)
		assert.Equal(t, RemoteErrorAbort, cfg.OnRemoteError)
		assert.Equal(t, 45*time.Second, cfg.NetworkTimeout)
		assert.Equal(t, 30*time.Second, cfg.LocalTimeout)
		assert.False(t, cfg.Lock)
	})
	t.Run("Should let environment override file", func(t *testing.T) {
		clearConfigEnv(t)
		t.Setenv("TAGPUSH_ON_REMOTE_ERROR", "abort")
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "/cfg.yaml", []byte("on_remote_error: fallback\n"), 0644))
		cfg, err := LoadConfig(fs, "/cfg.yaml")
		require.NoError(t, err)
		assert.Equal(t, RemoteErrorAbort, cfg.OnRemoteError)
	})
	t.Run("Should fail for missing explicit config file", func(t *testing.T) {
		clearConfigEnv(t)
		_, err := LoadConfig(afero.NewMemMapFs(), "/nope.yaml")
		assert.ErrorContains(t, err, "failed to read config")
	})
	t.Run("Should reject invalid values", func(t *testing.T) {
		clearConfigEnv(t)
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "/cfg.yaml", []byte("default_version: banana\n"), 0644))
		_, err := LoadConfig(fs, "/cfg.yaml")
		assert.ErrorContains(t, err, "invalid default_version")
	})
	t.Run("Should use GITHUB_REPOSITORY when publishing releases", func(t *testing.T) {
		clearConfigEnv(t)
		t.Setenv("GITHUB_TOKEN", "ghp_"+strings.Repeat("a", 36))
		t.Setenv("GITHUB_REPOSITORY", "acme/widgets")
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "/cfg.yaml", []byte("github_release: true\n"), 0644))
		cfg, err := LoadConfig(fs, "/cfg.yaml")
		require.NoError(t, err)
		assert.Equal(t, "acme", cfg.GithubOwner)
		assert.Equal(t, "widgets", cfg.GithubRepo)
	})
}

func TestConfig_Validate(t *testing.T) {
	t.Run("Should accept defaults", func(t *testing.T) {
		assert.NoError(t, DefaultConfig().Validate())
	})
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"bad backend", func(c *Config) { c.Backend = "libgit2" }, "invalid backend"},
		{"bad remote", func(c *Config) { c.Remote = "-x" }, "invalid remote name"},
		{"bad mode", func(c *Config) { c.OnRemoteError = "ignore" }, "invalid on_remote_error"},
		{"empty message", func(c *Config) { c.CommitMessage = "  " }, "commit_message cannot be empty"},
		{"zero timeout", func(c *Config) { c.NetworkTimeout = 0 }, "timeouts must be positive"},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, "invalid log_level"},
		{"release without token", func(c *Config) { c.GithubRelease = true }, "github_token is required"},
	}
	for _, tc := range cases {
		t.Run("Should reject "+tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tc.wantErr)
		})
	}
}

func TestConfig_BaseVersion(t *testing.T) {
	t.Run("Should parse default version", func(t *testing.T) {
		v, err := DefaultConfig().BaseVersion()
		require.NoError(t, err)
		assert.Equal(t, "0.6.0", v.String())
	})
}

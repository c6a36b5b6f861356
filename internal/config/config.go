package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/compozy/tagpush/internal/domain"
	"github.com/go-git/go-git/v5"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

// Supported git backends
const (
	BackendCLI   = "cli"
	BackendGoGit = "go-git"
)

// Behaviours when the remote tag list cannot be fetched
const (
	RemoteErrorFallback = "fallback"
	RemoteErrorAbort    = "abort"
)

// ConfigFileName is looked up in the working directory when no --config is given.
const ConfigFileName = ".tagpush"

var remoteNameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._/-]*$`)

type Config struct {
	Remote         string        `mapstructure:"remote"`
	Backend        string        `mapstructure:"backend"`
	DefaultVersion string        `mapstructure:"default_version"`
	OnRemoteError  string        `mapstructure:"on_remote_error"`
	CommitMessage  string        `mapstructure:"commit_message"`
	LocalTimeout   time.Duration `mapstructure:"local_timeout"`
	NetworkTimeout time.Duration `mapstructure:"network_timeout"`
	Lock           bool          `mapstructure:"lock"`
	LockTimeout    time.Duration `mapstructure:"lock_timeout"`
	LogLevel       string        `mapstructure:"log_level"`
	GithubToken    string        `mapstructure:"github_token"`
	GithubOwner    string        `mapstructure:"github_owner"`
	GithubRepo     string        `mapstructure:"github_repo"`
	GithubRelease  bool          `mapstructure:"github_release"`
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		Remote:         "origin",
		Backend:        BackendCLI,
		DefaultVersion: "0.6.0",
		OnRemoteError:  RemoteErrorFallback,
		CommitMessage:  "chore: auto commit",
		LocalTimeout:   30 * time.Second,
		NetworkTimeout: 120 * time.Second,
		Lock:           true,
		LockTimeout:    5 * time.Second,
		LogLevel:       "warn",
	}
}

// BaseVersion returns the parsed default version.
func (c *Config) BaseVersion() (domain.Version, error) {
	return domain.ParseVersion(c.DefaultVersion)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if !remoteNameRegex.MatchString(c.Remote) {
		return fmt.Errorf("invalid remote name: %q", c.Remote)
	}
	switch c.Backend {
	case BackendCLI, BackendGoGit:
	default:
		return fmt.Errorf("invalid backend %q: expected %s or %s", c.Backend, BackendCLI, BackendGoGit)
	}
	if _, err := c.BaseVersion(); err != nil {
		return fmt.Errorf("invalid default_version: %w", err)
	}
	switch c.OnRemoteError {
	case RemoteErrorFallback, RemoteErrorAbort:
	default:
		return fmt.Errorf("invalid on_remote_error %q: expected %s or %s",
			c.OnRemoteError, RemoteErrorFallback, RemoteErrorAbort)
	}
	if strings.TrimSpace(c.CommitMessage) == "" {
		return fmt.Errorf("commit_message cannot be empty")
	}
	if c.LocalTimeout <= 0 || c.NetworkTimeout <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	if c.Lock && c.LockTimeout <= 0 {
		return fmt.Errorf("lock_timeout must be positive")
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level: %w", err)
	}
	if c.GithubRelease {
		return c.ValidateForGitHubOperations()
	}
	return nil
}

// ValidateForGitHubOperations validates that GitHub token is present for operations that require it
func (c *Config) ValidateForGitHubOperations() error {
	if c.GithubToken == "" {
		return fmt.Errorf("github_token is required for GitHub operations")
	}
	if err := ValidateGitHubToken(c.GithubToken); err != nil {
		return fmt.Errorf("invalid github_token: %w", err)
	}
	if err := ValidateGitHubOwnerRepo(c.GithubOwner, c.GithubRepo); err != nil {
		return fmt.Errorf("invalid github configuration: %w", err)
	}
	return nil
}

// ValidateGitHubToken validates GitHub token format (exported for reuse)
func ValidateGitHubToken(token string) error {
	token = strings.TrimSpace(token)
	if len(token) < 40 {
		return fmt.Errorf("token too short: expected at least 40 characters")
	}
	// Validate token format patterns
	classicPAT := regexp.MustCompile(`^[a-fA-F0-9]{40}$`)
	fineGrainedPAT := regexp.MustCompile(`^github_pat_[a-zA-Z0-9_]{82}$`)
	appToken := regexp.MustCompile(`^ghs_[a-zA-Z0-9]{36}$`)
	oauthToken := regexp.MustCompile(`^gho_[a-zA-Z0-9]{36}$`)
	classicToken := regexp.MustCompile(`^ghp_[a-zA-Z0-9]{36}$`)
	if !classicPAT.MatchString(token) &&
		!fineGrainedPAT.MatchString(token) &&
		!appToken.MatchString(token) &&
		!oauthToken.MatchString(token) &&
		!classicToken.MatchString(token) {
		return fmt.Errorf("invalid token format")
	}
	return nil
}

// ValidateGitHubOwnerRepo validates GitHub owner and repository names (exported for reuse)
func ValidateGitHubOwnerRepo(owner, repo string) error {
	if owner == "" {
		return fmt.Errorf("owner cannot be empty")
	}
	if repo == "" {
		return fmt.Errorf("repository cannot be empty")
	}
	validName := regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9\-_.]*[a-zA-Z0-9]$|^[a-zA-Z0-9]$`)
	if !validName.MatchString(owner) {
		return fmt.Errorf("invalid owner format: %s", owner)
	}
	if len(owner) > 39 {
		return fmt.Errorf("owner too long: maximum 39 characters")
	}
	if !validName.MatchString(repo) {
		return fmt.Errorf("invalid repository format: %s", repo)
	}
	if len(repo) > 100 {
		return fmt.Errorf("repository too long: maximum 100 characters")
	}
	return nil
}

// LoadConfig reads configuration from path (or ./.tagpush.yaml), the environment and defaults.
func LoadConfig(fs afero.Fs, path string) (*Config, error) {
	v := viper.New()
	v.SetFs(fs)
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(ConfigFileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	// Configure environment variables
	v.SetEnvPrefix("TAGPUSH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// BindEnv allows multiple env vars - it will check them in order
	if err := v.BindEnv("github_token", "TAGPUSH_GITHUB_TOKEN", "GITHUB_TOKEN"); err != nil {
		return nil, fmt.Errorf("failed to bind github_token env: %w", err)
	}
	if err := v.BindEnv("github_owner", "TAGPUSH_GITHUB_OWNER", "GITHUB_OWNER"); err != nil {
		return nil, fmt.Errorf("failed to bind github_owner env: %w", err)
	}
	if err := v.BindEnv("github_repo", "TAGPUSH_GITHUB_REPO", "GITHUB_REPO"); err != nil {
		return nil, fmt.Errorf("failed to bind github_repo env: %w", err)
	}
	setDefaults(v, DefaultConfig())
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if config.GithubRelease {
		if err := populateRepositoryDefaults(&config); err != nil {
			return nil, fmt.Errorf("failed to determine GitHub repository: %w", err)
		}
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &config, nil
}

func setDefaults(v *viper.Viper, defaults *Config) {
	v.SetDefault("remote", defaults.Remote)
	v.SetDefault("backend", defaults.Backend)
	v.SetDefault("default_version", defaults.DefaultVersion)
	v.SetDefault("on_remote_error", defaults.OnRemoteError)
	v.SetDefault("commit_message", defaults.CommitMessage)
	v.SetDefault("local_timeout", defaults.LocalTimeout)
	v.SetDefault("network_timeout", defaults.NetworkTimeout)
	v.SetDefault("lock", defaults.Lock)
	v.SetDefault("lock_timeout", defaults.LockTimeout)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("github_release", false)
}

// populateRepositoryDefaults fills GitHub owner/repo from GITHUB_REPOSITORY or the remote URL.
func populateRepositoryDefaults(cfg *Config) error {
	if cfg.GithubOwner != "" && cfg.GithubRepo != "" {
		return nil
	}
	if slug := os.Getenv("GITHUB_REPOSITORY"); slug != "" {
		if owner, repo, ok := strings.Cut(slug, "/"); ok && owner != "" && repo != "" {
			fillOwnerRepo(cfg, owner, repo)
			return nil
		}
	}
	repository, err := git.PlainOpenWithOptions(".", &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return fmt.Errorf("failed to open git repository: %w", err)
	}
	remoteName := cfg.Remote
	if remoteName == "" {
		remoteName = "origin"
	}
	remote, err := repository.Remote(remoteName)
	if err != nil {
		return fmt.Errorf("failed to get remote %s: %w", remoteName, err)
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return fmt.Errorf("remote %s has no URL", remoteName)
	}
	owner, repo, err := parseGitRemoteURL(urls[0])
	if err != nil {
		return err
	}
	fillOwnerRepo(cfg, owner, repo)
	return nil
}

func fillOwnerRepo(cfg *Config, owner, repo string) {
	if cfg.GithubOwner == "" {
		cfg.GithubOwner = owner
	}
	if cfg.GithubRepo == "" {
		cfg.GithubRepo = repo
	}
}

// parseGitRemoteURL extracts owner and repository from https, ssh, scp-like or path remotes.
func parseGitRemoteURL(raw string) (string, string, error) {
	trimmed := strings.TrimSuffix(strings.TrimRight(strings.TrimSpace(raw), "/"), ".git")
	var path string
	switch {
	case strings.Contains(trimmed, "://"):
		u, err := url.Parse(trimmed)
		if err != nil {
			return "", "", fmt.Errorf("cannot parse remote URL %q: %w", raw, err)
		}
		path = u.Path
	case isSCPLike(trimmed):
		_, path, _ = strings.Cut(trimmed, ":")
	default:
		path = filepath.ToSlash(trimmed)
	}
	var segments []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	if len(segments) < 2 {
		return "", "", fmt.Errorf("cannot parse owner/repo from %q", raw)
	}
	return segments[len(segments)-2], segments[len(segments)-1], nil
}

// isSCPLike matches user@host:path remotes.
func isSCPLike(s string) bool {
	colon := strings.Index(s, ":")
	slash := strings.Index(s, "/")
	return colon > 0 && (slash < 0 || colon < slash)
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Poll modes.
const (
	ModeBranches = "branches"
	ModeCommit   = "commit"
)

// API client kinds.
const (
	ClientHTTP = "http"
	ClientSDK  = "sdk"
)

// State backends.
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

// Notifier kinds.
const (
	NotifierWebhook = "webhook"
	NotifierKafka   = "kafka"
)

// Config holds application configuration from environment.
type Config struct {
	APIURL     string
	APIRoot    string
	Repo       string
	Token      string
	ClientKind string

	Mode   string
	Branch string

	StateBackend string
	StateDir     string
	StateFile    string
	DatabaseURL  string

	NotifierKind  string
	WebhookURL    string
	WebhookSecret string
	KafkaBrokers  []string
	KafkaTopic    string
	EventName     string

	HTTPTimeoutSec int
	RunTimeoutSec  int
	FailOnError    bool
	LogLevel       string
}

// Default values when env vars are unset.
const (
	DefaultAPIURL         = "https://api.github.com/repos/{owner}/{repo}"
	DefaultStateDir       = "/data"
	DefaultWebhookURL     = "http://argo-event-source-service.default.svc.cluster.local:12000/commit"
	DefaultKafkaTopic     = "commit-events"
	DefaultEventName      = "commit-detected"
	DefaultHTTPTimeoutSec = 30
	DefaultRunTimeoutSec  = 120
	DefaultLogLevel       = "info"
)

// Load reads configuration from the environment.
// Uses defaults for optional values when unset.
func Load() *Config {
	c := &Config{
		APIURL:         DefaultAPIURL,
		APIRoot:        os.Getenv("GITHUB_API_ROOT"),
		Repo:           os.Getenv("GITHUB_REPO"),
		Token:          os.Getenv("GITHUB_TOKEN"),
		ClientKind:     ClientHTTP,
		Mode:           ModeBranches,
		Branch:         os.Getenv("BRANCH"),
		StateBackend:   BackendFile,
		StateDir:       DefaultStateDir,
		StateFile:      os.Getenv("LAST_COMMIT_FILE"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		NotifierKind:   NotifierWebhook,
		WebhookURL:     DefaultWebhookURL,
		WebhookSecret:  os.Getenv("WEBHOOK_SECRET"),
		KafkaBrokers:   splitAndTrim(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:     DefaultKafkaTopic,
		EventName:      DefaultEventName,
		HTTPTimeoutSec: DefaultHTTPTimeoutSec,
		RunTimeoutSec:  DefaultRunTimeoutSec,
		LogLevel:       DefaultLogLevel,
	}
	if v := os.Getenv("GITHUB_API_URL"); v != "" {
		c.APIURL = v
	}
	if v := os.Getenv("GITHUB_CLIENT"); v != "" {
		c.ClientKind = strings.ToLower(v)
	}
	if v := os.Getenv("POLL_MODE"); v != "" {
		c.Mode = strings.ToLower(v)
	}
	if v := os.Getenv("STATE_BACKEND"); v != "" {
		c.StateBackend = strings.ToLower(v)
	}
	if v := os.Getenv("LAST_COMMIT_DIR"); v != "" {
		c.StateDir = v
	}
	if v := os.Getenv("NOTIFIER"); v != "" {
		c.NotifierKind = strings.ToLower(v)
	}
	if v := os.Getenv("ARGO_EVENT_SOURCE_URL"); v != "" {
		c.WebhookURL = v
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.KafkaTopic = v
	}
	if v := os.Getenv("EVENT_NAME"); v != "" {
		c.EventName = v
	}
	if v := os.Getenv("HTTP_TIMEOUT_SEC"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.HTTPTimeoutSec = n
		}
	}
	if v := os.Getenv("RUN_TIMEOUT_SEC"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.RunTimeoutSec = n
		}
	}
	if v := os.Getenv("FAIL_ON_ERROR"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.FailOnError = b
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
	return c
}

// Validate reports configuration that cannot produce a working poller.
func (c *Config) Validate() error {
	var errs []error
	switch c.Mode {
	case ModeBranches, ModeCommit:
	default:
		errs = append(errs, fmt.Errorf("POLL_MODE: unknown mode %q", c.Mode))
	}
	switch c.ClientKind {
	case ClientHTTP:
		if u := c.RepoBaseURL(); strings.Contains(u, "{owner}") || strings.Contains(u, "{repo}") {
			errs = append(errs, fmt.Errorf("GITHUB_API_URL %q has unexpanded placeholders; set GITHUB_REPO to owner/name", u))
		}
	case ClientSDK:
		if _, _, ok := c.OwnerRepo(); !ok {
			errs = append(errs, errors.New("GITHUB_REPO must be owner/name when GITHUB_CLIENT=sdk"))
		}
	default:
		errs = append(errs, fmt.Errorf("GITHUB_CLIENT: unknown client %q", c.ClientKind))
	}
	switch c.StateBackend {
	case BackendFile:
		if c.StateDir == "" && c.StateFile == "" {
			errs = append(errs, errors.New("LAST_COMMIT_DIR is required"))
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required when STATE_BACKEND=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("STATE_BACKEND: unknown backend %q", c.StateBackend))
	}
	switch c.NotifierKind {
	case NotifierWebhook:
		if c.WebhookURL == "" {
			errs = append(errs, errors.New("ARGO_EVENT_SOURCE_URL is required"))
		}
	case NotifierKafka:
		if len(c.KafkaBrokers) == 0 {
			errs = append(errs, errors.New("KAFKA_BROKERS is required when NOTIFIER=kafka"))
		}
		if c.KafkaTopic == "" {
			errs = append(errs, errors.New("KAFKA_TOPIC is required when NOTIFIER=kafka"))
		}
	default:
		errs = append(errs, fmt.Errorf("NOTIFIER: unknown notifier %q", c.NotifierKind))
	}
	return errors.Join(errs...)
}

// Ignored lists settings that have no effect in the configured mode.
func (c *Config) Ignored() []string {
	if c.Mode == ModeCommit {
		return nil
	}
	var out []string
	if c.Branch != "" {
		out = append(out, "BRANCH")
	}
	if c.StateFile != "" {
		out = append(out, "LAST_COMMIT_FILE")
	}
	return out
}

// OwnerRepo splits Repo into its owner and name parts.
func (c *Config) OwnerRepo() (owner, repo string, ok bool) {
	owner, repo, ok = strings.Cut(c.Repo, "/")
	if !ok || owner == "" || repo == "" {
		return "", "", false
	}
	return owner, repo, true
}

// RepoBaseURL expands the {owner} and {repo} placeholders of APIURL.
func (c *Config) RepoBaseURL() string {
	u := c.APIURL
	if owner, repo, ok := c.OwnerRepo(); ok {
		u = strings.ReplaceAll(u, "{owner}", owner)
		u = strings.ReplaceAll(u, "{repo}", repo)
	}
	return strings.TrimSuffix(u, "/")
}

func splitAndTrim(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

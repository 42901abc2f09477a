package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/commit-poller/internal/config"
	"github.com/commit-poller/internal/poller"
	"github.com/spf13/cobra"
)

var errPassFailed = errors.New("poll pass failed")

type flags struct {
	mode        string
	branch      string
	stateDir    string
	webhookURL  string
	failOnError bool
}

func newRootCmd() *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:   "commit-poller",
		Short: "Check branch heads once and notify the webhook about new commits",
		Long: `commit-poller lists the branches of a repository (or the latest commit of one
branch), compares each head with the last notified commit and posts an event for
every branch that moved. Run it from a scheduler such as a Kubernetes CronJob.

Configuration comes from the environment; flags override it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			applyFlags(cmd, &f, cfg)
			return run(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&f.mode, "mode", "", "poll mode: branches or commit (POLL_MODE)")
	cmd.Flags().StringVar(&f.branch, "branch", "", "branch to track in commit mode (BRANCH)")
	cmd.Flags().StringVar(&f.stateDir, "state-dir", "", "directory for pointer files (LAST_COMMIT_DIR)")
	cmd.Flags().StringVar(&f.webhookURL, "webhook-url", "", "event endpoint (ARGO_EVENT_SOURCE_URL)")
	cmd.Flags().BoolVar(&f.failOnError, "fail-on-error", false, "exit 1 when the pass records an error (FAIL_ON_ERROR)")
	return cmd
}

func applyFlags(cmd *cobra.Command, f *flags, cfg *config.Config) {
	fs := cmd.Flags()
	if fs.Changed("mode") {
		cfg.Mode = strings.ToLower(f.mode)
	}
	if fs.Changed("branch") {
		cfg.Branch = f.branch
	}
	if fs.Changed("state-dir") {
		cfg.StateDir = f.stateDir
	}
	if fs.Changed("webhook-url") {
		cfg.WebhookURL = f.webhookURL
	}
	if fs.Changed("fail-on-error") {
		cfg.FailOnError = f.failOnError
	}
}

// run performs one pass. Failures are logged and swallowed unless FailOnError is set.
func run(parent context.Context, cfg *config.Config) error {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: parseLogLevel(cfg.LogLevel)})))

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "err", err)
		return fail(cfg, err)
	}
	for _, name := range cfg.Ignored() {
		slog.Warn("setting ignored outside commit mode", "setting", name, "mode", cfg.Mode)
	}

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, time.Duration(cfg.RunTimeoutSec)*time.Second)
	defer cancel()

	slog.Info("starting", "mode", cfg.Mode, "repo", cfg.Repo, "client", cfg.ClientKind, "state", cfg.StateBackend, "notifier", cfg.NotifierKind)

	comps, err := wire(ctx, cfg)
	if err != nil {
		slog.Error("setup", "err", err)
		return fail(cfg, err)
	}
	defer comps.close()

	res := poller.New(comps.fetcher, comps.store, comps.notifier, poller.Options{
		Repo:      cfg.Repo,
		EventName: cfg.EventName,
		FixedKey:  comps.fixedKey,
	}).Run(ctx)
	if res.Err != nil {
		slog.Error("poll pass", "err", res.Err, "checked", res.Checked, "notified", res.Notified)
		return fail(cfg, res.Err)
	}
	return nil
}

func fail(cfg *config.Config, err error) error {
	if cfg.FailOnError {
		return errors.Join(errPassFailed, err)
	}
	return nil
}

func parseLogLevel(raw string) slog.Level {
	switch strings.ToLower(raw) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

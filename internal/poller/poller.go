package poller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/commit-poller/internal/github"
	"github.com/commit-poller/internal/notify"
	"github.com/commit-poller/internal/store"
)

// Options describes what the poller reports and where it keeps pointers.
type Options struct {
	Repo      string // optional, copied into every event
	EventName string
	// FixedKey stores every branch under one key. Set in single-branch mode.
	FixedKey string
}

// Result summarises one pass. Err joins every failure seen during the pass.
type Result struct {
	Checked   int
	Notified  int
	Unchanged int
	Err       error
}

// Poller runs one detection pass. Depends only on the Fetcher, Store and Notifier interfaces.
type Poller struct {
	fetcher  github.Fetcher
	store    store.Store
	notifier notify.Notifier
	opts     Options
	log      *slog.Logger
}

// New returns a poller wired to the given components.
func New(f github.Fetcher, s store.Store, n notify.Notifier, opts Options) *Poller {
	return &Poller{fetcher: f, store: s, notifier: n, opts: opts, log: slog.Default()}
}

// Run fetches the branch heads and notifies once per branch whose head moved.
// A branch failure is recorded and the remaining branches are still processed.
func (p *Poller) Run(ctx context.Context) Result {
	var res Result
	branches, err := p.fetcher.FetchBranchState(ctx)
	if err != nil {
		res.Err = fmt.Errorf("fetch branch state: %w", err)
		return res
	}

	var errs []error
	for _, b := range branches {
		res.Checked++
		notified, err := p.check(ctx, b)
		if err != nil {
			errs = append(errs, err)
		}
		switch {
		case notified:
			res.Notified++
		case err == nil:
			res.Unchanged++
		}
	}
	res.Err = errors.Join(errs...)
	p.log.Info("poll finished", "checked", res.Checked, "notified", res.Notified, "unchanged", res.Unchanged, "failed", len(errs))
	return res
}

func (p *Poller) check(ctx context.Context, b github.Branch) (bool, error) {
	key := p.key(b)
	last, ok, err := p.store.ReadPointer(ctx, key)
	if err != nil {
		return false, fmt.Errorf("branch %q: read pointer: %w", b.Name, err)
	}
	if ok && last == b.SHA {
		p.log.Debug("branch unchanged", "branch", b.Name, "sha", b.SHA)
		return false, nil
	}

	p.log.Info("new commit detected", "branch", b.Name, "sha", b.SHA, "previous", last)
	evt := notify.Event{
		Event:     p.opts.EventName,
		Repo:      p.opts.Repo,
		Branch:    b.Name,
		CommitSHA: b.SHA,
	}
	if err := p.notifier.Emit(ctx, evt); err != nil {
		return false, fmt.Errorf("branch %q: emit: %w", b.Name, err)
	}
	p.log.Info("event sent", "branch", b.Name, "sha", b.SHA)

	// The event is already out; a failed write means it is sent again next pass.
	if err := p.store.WritePointer(ctx, key, b.SHA); err != nil {
		return true, fmt.Errorf("branch %q: persist pointer after emit: %w", b.Name, err)
	}
	p.log.Debug("pointer persisted", "branch", b.Name, "key", key)
	return true, nil
}

func (p *Poller) key(b github.Branch) string {
	if p.opts.FixedKey != "" {
		return p.opts.FixedKey
	}
	return b.Name
}

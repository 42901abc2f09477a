package poller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/commit-poller/internal/github"
	"github.com/commit-poller/internal/notify"
	"github.com/commit-poller/internal/store"
)

type hookRecorder struct {
	mu     sync.Mutex
	events []notify.Event
}

func (h *hookRecorder) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var evt notify.Event
		if err := json.NewDecoder(r.Body).Decode(&evt); err != nil {
			t.Errorf("decode event: %v", err)
		}
		h.mu.Lock()
		h.events = append(h.events, evt)
		h.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}
}

func (h *hookRecorder) take() []notify.Event {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := h.events
	h.events = nil
	return out
}

type fixture struct {
	poller *Poller
	hook   *hookRecorder
	dir    string
	store  *store.File
}

func newFixture(t *testing.T, apiBody string, mode github.Mode) *fixture {
	t.Helper()
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(apiBody))
	}))
	t.Cleanup(api.Close)
	hook := &hookRecorder{}
	hookSrv := httptest.NewServer(hook.handler(t))
	t.Cleanup(hookSrv.Close)

	dir := t.TempDir()
	st, err := store.NewFile(dir)
	if err != nil {
		t.Fatal(err)
	}
	client := github.NewClient(api.URL, "", time.Second)
	client.Mode = mode
	wh, err := notify.NewWebhook(hookSrv.URL, "", time.Second)
	if err != nil {
		t.Fatal(err)
	}
	opts := Options{Repo: "o/r", EventName: "commit-detected"}
	if mode == github.ModeCommit {
		opts.FixedKey = store.DefaultKey
	}
	return &fixture{poller: New(client, st, wh, opts), hook: hook, dir: dir, store: st}
}

func TestPass_OnlyNewBranchNotified(t *testing.T) {
	fx := newFixture(t, `[{"name":"main","commit":{"sha":"A"}},{"name":"dev","commit":{"sha":"B"}}]`, github.ModeBranches)
	ctx := context.Background()
	if err := fx.store.WritePointer(ctx, "main", "A"); err != nil {
		t.Fatal(err)
	}
	mainPath := fx.store.Path("main")
	before, err := os.Stat(mainPath)
	if err != nil {
		t.Fatal(err)
	}

	res := fx.poller.Run(ctx)
	if res.Err != nil {
		t.Fatal(res.Err)
	}
	events := fx.hook.take()
	if len(events) != 1 {
		t.Fatalf("want 1 event got %d: %+v", len(events), events)
	}
	want := notify.Event{Event: "commit-detected", Repo: "o/r", Branch: "dev", CommitSHA: "B"}
	if events[0] != want {
		t.Errorf("event want %+v got %+v", want, events[0])
	}
	if sha, ok, _ := fx.store.ReadPointer(ctx, "dev"); !ok || sha != "B" {
		t.Errorf("dev pointer want B got %q (ok=%v)", sha, ok)
	}
	after, err := os.Stat(mainPath)
	if err != nil {
		t.Fatal(err)
	}
	if !after.ModTime().Equal(before.ModTime()) {
		t.Error("main pointer file was rewritten")
	}
}

func TestPass_SecondRunIsIdempotent(t *testing.T) {
	fx := newFixture(t, `[{"name":"main","commit":{"sha":"A"}},{"name":"feature/x","commit":{"sha":"F"}}]`, github.ModeBranches)
	ctx := context.Background()

	if res := fx.poller.Run(ctx); res.Err != nil || res.Notified != 2 {
		t.Fatalf("first run want 2 notified got %+v", res)
	}
	if got := len(fx.hook.take()); got != 2 {
		t.Fatalf("first run want 2 events got %d", got)
	}
	res := fx.poller.Run(ctx)
	if res.Err != nil {
		t.Fatal(res.Err)
	}
	if got := len(fx.hook.take()); got != 0 {
		t.Errorf("second run want 0 events got %d", got)
	}
	if res.Unchanged != 2 {
		t.Errorf("second run want unchanged=2 got %+v", res)
	}
}

func TestPass_SingleBranchUnchanged(t *testing.T) {
	fx := newFixture(t, `[{"sha":"X"},{"sha":"W"}]`, github.ModeCommit)
	ctx := context.Background()
	slot := filepath.Join(fx.dir, store.SlotName(store.DefaultKey))
	if err := os.WriteFile(slot, []byte("X\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	res := fx.poller.Run(ctx)
	if res.Err != nil {
		t.Fatal(res.Err)
	}
	if got := len(fx.hook.take()); got != 0 {
		t.Errorf("want 0 events got %d", got)
	}
	b, err := os.ReadFile(slot)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "X\n" {
		t.Errorf("pointer file was rewritten: %q", b)
	}
}

func TestPass_UpstreamFailureLeavesStateAlone(t *testing.T) {
	hook := &hookRecorder{}
	hookSrv := httptest.NewServer(hook.handler(t))
	defer hookSrv.Close()
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	apiURL := api.URL
	api.Close()

	dir := t.TempDir()
	st, err := store.NewFile(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	if err := st.WritePointer(ctx, "main", "A"); err != nil {
		t.Fatal(err)
	}
	wh, err := notify.NewWebhook(hookSrv.URL, "", time.Second)
	if err != nil {
		t.Fatal(err)
	}

	res := New(github.NewClient(apiURL, "", time.Second), st, wh, Options{EventName: "e"}).Run(ctx)
	if res.Err == nil {
		t.Fatal("want error got nil")
	}
	if got := len(hook.take()); got != 0 {
		t.Errorf("want 0 events got %d", got)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("want only the existing pointer file got %d entries", len(entries))
	}
	if sha, _, _ := st.ReadPointer(ctx, "main"); sha != "A" {
		t.Errorf("main pointer want A got %q", sha)
	}
}

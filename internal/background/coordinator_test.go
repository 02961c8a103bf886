package background

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/hasanabusheikh26/superprompt/pkg/store"
)

func newTestCoordinator(t *testing.T) *Coordinator {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "test.sqlite"))
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return New(db)
}

func seedHistory(t *testing.T, c *Coordinator, n int) {
	t.Helper()
	ctx := context.Background()
	base := time.Now().Add(-time.Duration(n) * time.Minute)
	for i := 0; i < n; i++ {
		e := store.NewHistoryEntry(
			fmt.Sprintf("original %d", i),
			fmt.Sprintf("enhanced %d", i),
			"github.com", "🐙",
			base.Add(time.Duration(i)*time.Minute))
		if _, err := c.Handle(ctx, SaveToHistory{Entry: e}); err != nil {
			t.Fatalf("seeding entry %d: %v", i, err)
		}
	}
}

func TestPing(t *testing.T) {
	c := newTestCoordinator(t)
	resp, err := c.Handle(context.Background(), Ping{})
	if err != nil {
		t.Fatalf("Handle(Ping) error = %v", err)
	}
	pong, ok := resp.(Pong)
	if !ok || pong.Status != "pong" {
		t.Errorf("response = %#v, want Pong{Status: pong}", resp)
	}
}

type bogusMessage struct{}

func (bogusMessage) action() string { return "bogus" }

func TestUnknownActionFailsLoudly(t *testing.T) {
	c := newTestCoordinator(t)
	resp, err := c.Handle(context.Background(), bogusMessage{})
	if !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("Handle(bogus) error = %v, want ErrUnknownAction", err)
	}
	ack, ok := resp.(Ack)
	if !ok || ack.Success {
		t.Errorf("response = %#v, want a failed Ack", resp)
	}
}

func TestSaveAndGetHistory(t *testing.T) {
	c := newTestCoordinator(t)
	ctx := context.Background()
	seedHistory(t, c, 3)

	resp, err := c.Handle(ctx, GetHistory{})
	if err != nil {
		t.Fatalf("Handle(GetHistory) error = %v", err)
	}
	entries, ok := resp.([]store.HistoryEntry)
	if !ok {
		t.Fatalf("response type = %T, want []store.HistoryEntry", resp)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	// Newest first.
	if entries[0].OriginalText != "original 2" {
		t.Errorf("first entry = %q, want the newest", entries[0].OriginalText)
	}

	resp, err = c.Handle(ctx, GetHistory{Opts: store.ListOptions{Search: "enhanced 1"}})
	if err != nil {
		t.Fatalf("filtered Handle(GetHistory) error = %v", err)
	}
	if entries := resp.([]store.HistoryEntry); len(entries) != 1 {
		t.Errorf("search returned %d entries, want 1", len(entries))
	}
}

func TestClearHistoryNeedsConfirmation(t *testing.T) {
	c := newTestCoordinator(t)
	ctx := context.Background()
	seedHistory(t, c, 12)

	for _, phrase := range []string{"", "clear", "YES", "CLEAR "} {
		if _, err := c.Handle(ctx, ClearHistory{Confirmation: phrase}); !errors.Is(err, ErrBadConfirmation) {
			t.Errorf("ClearHistory(%q) error = %v, want ErrBadConfirmation", phrase, err)
		}
	}
	resp, _ := c.Handle(ctx, GetHistory{})
	if entries := resp.([]store.HistoryEntry); len(entries) != 12 {
		t.Fatalf("rejected clears removed entries: %d left, want 12", len(entries))
	}

	resp, err := c.Handle(ctx, ClearHistory{Confirmation: ClearConfirmation})
	if err != nil {
		t.Fatalf("confirmed clear error = %v", err)
	}
	if ack := resp.(Ack); !ack.Success {
		t.Errorf("confirmed clear ack = %+v", ack)
	}

	resp, _ = c.Handle(ctx, GetHistory{})
	if entries := resp.([]store.HistoryEntry); len(entries) != 0 {
		t.Errorf("%d entries survived the clear", len(entries))
	}
	resp, err = c.Handle(ctx, GetStats{})
	if err != nil {
		t.Fatalf("Handle(GetStats) error = %v", err)
	}
	stats := resp.(store.UsageStats)
	if stats.TotalEnhancements != 0 || stats.SitesUsed != 0 {
		t.Errorf("stats after clear = %+v, want zero totals", stats)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	c := newTestCoordinator(t)
	ctx := context.Background()

	if _, err := c.Handle(ctx, UpdateSettings{Partial: map[string]string{
		store.SettingDarkMode: "true",
		"bogusKey":            "whatever",
	}}); err != nil {
		t.Fatalf("Handle(UpdateSettings) error = %v", err)
	}

	resp, err := c.Handle(ctx, GetSettings{})
	if err != nil {
		t.Fatalf("Handle(GetSettings) error = %v", err)
	}
	settings := resp.(map[string]string)
	if settings[store.SettingDarkMode] != "true" {
		t.Errorf("darkMode = %q, want the updated value", settings[store.SettingDarkMode])
	}
	if settings[store.SettingAutoCopy] != "true" {
		t.Errorf("autoCopy = %q, untouched keys must keep their defaults", settings[store.SettingAutoCopy])
	}
	if _, ok := settings["bogusKey"]; ok {
		t.Error("unknown key survived the merge")
	}
	if len(settings) != len(store.DefaultSettings()) {
		t.Errorf("settings carry %d keys, want the full recognized set (%d)", len(settings), len(store.DefaultSettings()))
	}
}

func TestOnInstallIdempotent(t *testing.T) {
	c := newTestCoordinator(t)
	ctx := context.Background()

	if err := c.OnInstall(ctx); err != nil {
		t.Fatalf("OnInstall() error = %v", err)
	}
	if _, err := c.Handle(ctx, UpdateSettings{Partial: map[string]string{store.SettingQuality: "high"}}); err != nil {
		t.Fatal(err)
	}
	if err := c.OnInstall(ctx); err != nil {
		t.Fatalf("second OnInstall() error = %v", err)
	}

	resp, _ := c.Handle(ctx, GetSettings{})
	if got := resp.(map[string]string)[store.SettingQuality]; got != "high" {
		t.Errorf("quality = %q after reinstall, want the user's value preserved", got)
	}
}

func TestRetentionPrune(t *testing.T) {
	c := newTestCoordinator(t)
	ctx := context.Background()

	old := store.NewHistoryEntry("stale", "stale enhanced", "", "", time.Now().AddDate(0, -8, 0))
	fresh := store.NewHistoryEntry("fresh", "fresh enhanced", "", "", time.Now())
	for _, e := range []store.HistoryEntry{old, fresh} {
		if _, err := c.Handle(ctx, SaveToHistory{Entry: e}); err != nil {
			t.Fatal(err)
		}
	}

	if err := c.OnInstall(ctx); err != nil {
		t.Fatalf("OnInstall() error = %v", err)
	}

	resp, _ := c.Handle(ctx, GetHistory{})
	entries := resp.([]store.HistoryEntry)
	if len(entries) != 1 || entries[0].OriginalText != "fresh" {
		t.Errorf("entries after prune = %+v, want only the fresh one", entries)
	}
}

func TestOpenDashboard(t *testing.T) {
	c := newTestCoordinator(t)
	ctx := context.Background()

	if _, err := c.Handle(ctx, OpenDashboard{}); err == nil {
		t.Error("Handle(OpenDashboard) with no host error = nil, want failure")
	}

	opened := 0
	c.OnOpenDashboard = func() error { opened++; return nil }
	resp, err := c.Handle(ctx, OpenDashboard{})
	if err != nil {
		t.Fatalf("Handle(OpenDashboard) error = %v", err)
	}
	if ack := resp.(Ack); !ack.Success || opened != 1 {
		t.Errorf("ack = %+v with %d opens, want success and 1 open", ack, opened)
	}
}

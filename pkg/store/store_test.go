package store

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "superprompt.sqlite"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func entryAt(t *testing.T, original, site string, at time.Time) HistoryEntry {
	t.Helper()
	return NewHistoryEntry(original, "enhanced "+original, site, "🌐", at)
}

func TestAppendHistoryFIFOCap(t *testing.T) {
	db := openTestDB(t)
	db.SetHistoryCap(3)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		e := entryAt(t, string(rune('a'+i)), "example.com", base.Add(time.Duration(i)*time.Minute))
		if err := db.AppendHistory(ctx, e); err != nil {
			t.Fatalf("AppendHistory() error = %v", err)
		}
	}

	entries, err := db.ListHistory(ctx, ListOptions{})
	if err != nil {
		t.Fatalf("ListHistory() error = %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("history length = %d, want 3", len(entries))
	}
	// Newest first; the two oldest were evicted.
	got := []string{entries[0].OriginalText, entries[1].OriginalText, entries[2].OriginalText}
	want := []string{"e", "d", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("surviving entries = %v, want %v", got, want)
	}
}

func TestListHistorySearch(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	seeds := []struct{ original, site string }{
		{"write a blog post", "notion.so"},
		{"fix this bug", "github.com"},
		{"draft an email", "mail.google.com"},
	}
	for i, s := range seeds {
		if err := db.AppendHistory(ctx, entryAt(t, s.original, s.site, base.Add(time.Duration(i)*time.Second))); err != nil {
			t.Fatalf("AppendHistory() error = %v", err)
		}
	}

	tests := []struct {
		name   string
		search string
		want   int
	}{
		{"matches original text", "blog", 1},
		{"case insensitive", "BLOG", 1},
		{"matches site", "github", 1},
		{"matches enhanced text", "enhanced", 3},
		{"no match", "quantum", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := db.ListHistory(ctx, ListOptions{Search: tt.search})
			if err != nil {
				t.Fatalf("ListHistory() error = %v", err)
			}
			if len(entries) != tt.want {
				t.Errorf("got %d entries, want %d", len(entries), tt.want)
			}
		})
	}
}

func TestGetDeleteHistory(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	e := entryAt(t, "keep me", "example.com", time.Now())
	if err := db.AppendHistory(ctx, e); err != nil {
		t.Fatalf("AppendHistory() error = %v", err)
	}

	got, err := db.GetHistory(ctx, e.ID)
	if err != nil {
		t.Fatalf("GetHistory() error = %v", err)
	}
	if got.OriginalText != "keep me" {
		t.Errorf("OriginalText = %q, want %q", got.OriginalText, "keep me")
	}

	if err := db.DeleteHistory(ctx, e.ID); err != nil {
		t.Fatalf("DeleteHistory() error = %v", err)
	}
	if _, err := db.GetHistory(ctx, e.ID); err != ErrNotFound {
		t.Errorf("GetHistory() after delete error = %v, want ErrNotFound", err)
	}
	if err := db.DeleteHistory(ctx, e.ID); err != ErrNotFound {
		t.Errorf("DeleteHistory() twice error = %v, want ErrNotFound", err)
	}
}

func TestPruneHistory(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	if err := db.AppendHistory(ctx, entryAt(t, "ancient", "a.com", now.AddDate(0, -8, 0))); err != nil {
		t.Fatal(err)
	}
	if err := db.AppendHistory(ctx, entryAt(t, "recent", "b.com", now.AddDate(0, 0, -10))); err != nil {
		t.Fatal(err)
	}

	n, err := db.PruneHistory(ctx, now.AddDate(0, -6, 0))
	if err != nil {
		t.Fatalf("PruneHistory() error = %v", err)
	}
	if n != 1 {
		t.Errorf("pruned %d entries, want 1", n)
	}
	entries, _ := db.ListHistory(ctx, ListOptions{})
	if len(entries) != 1 || entries[0].OriginalText != "recent" {
		t.Errorf("remaining entries = %+v, want only the recent one", entries)
	}
}

func TestSettingsDefaultsAndMerge(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	// Reads always carry every recognized key.
	settings, err := db.Settings(ctx)
	if err != nil {
		t.Fatalf("Settings() error = %v", err)
	}
	if !reflect.DeepEqual(settings, DefaultSettings()) {
		t.Errorf("fresh settings = %v, want defaults %v", settings, DefaultSettings())
	}

	// Merge is additive: unrelated keys survive.
	if err := db.MergeSettings(ctx, map[string]string{SettingSoundEffects: "true"}); err != nil {
		t.Fatal(err)
	}
	if err := db.MergeSettings(ctx, map[string]string{SettingDarkMode: "true"}); err != nil {
		t.Fatal(err)
	}
	settings, _ = db.Settings(ctx)
	if settings[SettingDarkMode] != "true" || settings[SettingSoundEffects] != "true" {
		t.Errorf("merged settings = %v, want darkMode and soundEffects both true", settings)
	}

	// Idempotent: merging the same value twice changes nothing.
	if err := db.MergeSettings(ctx, map[string]string{SettingDarkMode: "true"}); err != nil {
		t.Fatal(err)
	}
	again, _ := db.Settings(ctx)
	if !reflect.DeepEqual(settings, again) {
		t.Errorf("settings changed on idempotent merge: %v vs %v", settings, again)
	}

	// Unknown keys are ignored on write and absent on read.
	if err := db.MergeSettings(ctx, map[string]string{"bogusKey": "1"}); err != nil {
		t.Fatal(err)
	}
	settings, _ = db.Settings(ctx)
	if _, ok := settings["bogusKey"]; ok {
		t.Error("unknown key leaked into settings")
	}
}

func TestInitDefaultsNeverOverwrites(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if err := db.MergeSettings(ctx, map[string]string{SettingQuality: "high"}); err != nil {
		t.Fatal(err)
	}
	if err := db.InitDefaults(ctx); err != nil {
		t.Fatalf("InitDefaults() error = %v", err)
	}
	if err := db.InitDefaults(ctx); err != nil {
		t.Fatalf("InitDefaults() twice error = %v", err)
	}

	settings, _ := db.Settings(ctx)
	if settings[SettingQuality] != "high" {
		t.Errorf("quality = %q after InitDefaults, want %q preserved", settings[SettingQuality], "high")
	}
}

func TestStatsDerivation(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	seeds := []string{"github.com", "github.com", "notion.so"}
	for i, site := range seeds {
		if err := db.AppendHistory(ctx, entryAt(t, "text", site, base.Add(time.Duration(i)*time.Second))); err != nil {
			t.Fatal(err)
		}
	}
	for i := 0; i < 4; i++ {
		if err := db.RecordAttempt(ctx, i != 0); err != nil { // 3 successes, 1 failure
			t.Fatal(err)
		}
	}

	stats, err := db.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.TotalEnhancements != 3 {
		t.Errorf("TotalEnhancements = %d, want 3", stats.TotalEnhancements)
	}
	if stats.SitesUsed != 2 {
		t.Errorf("SitesUsed = %d, want 2", stats.SitesUsed)
	}
	if stats.SuccessRate != 0.75 {
		t.Errorf("SuccessRate = %v, want 0.75", stats.SuccessRate)
	}

	// Idempotent derivation: recomputing yields the same result.
	again, _ := db.Stats(ctx)
	if !reflect.DeepEqual(stats, again) {
		t.Errorf("Stats() not idempotent: %+v vs %+v", stats, again)
	}

	// Clearing the history drives the derived counts to zero.
	if err := db.ClearHistory(ctx); err != nil {
		t.Fatal(err)
	}
	cleared, _ := db.Stats(ctx)
	if cleared.TotalEnhancements != 0 || cleared.SitesUsed != 0 {
		t.Errorf("stats after clear = %+v, want zero counts", cleared)
	}
}

func TestNewHistoryEntryIDs(t *testing.T) {
	now := time.Now()
	a := NewHistoryEntry("x", "y", "", "", now)
	b := NewHistoryEntry("x", "y", "", "", now)
	if a.ID == b.ID {
		t.Errorf("two entries in the same millisecond share ID %q", a.ID)
	}
	if a.CreatedAt != now.UnixMilli() {
		t.Errorf("CreatedAt = %d, want %d", a.CreatedAt, now.UnixMilli())
	}
	if a.DisplayDate == "" {
		t.Error("DisplayDate is empty")
	}
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// DefaultHistoryCap bounds the history list. Appending beyond the cap
// evicts the oldest entries first (plain FIFO truncation, not LRU).
const DefaultHistoryCap = 200

// ErrNotFound is returned when a history entry does not exist.
var ErrNotFound = errors.New("history entry not found")

type DB struct {
	sql        *sql.DB
	historyCap int
}

func Open(path string) (*DB, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	// Ensure schema exists for convenience.
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS history (
  id            TEXT PRIMARY KEY,
  original_text TEXT NOT NULL,
  enhanced_text TEXT NOT NULL,
  site          TEXT NOT NULL DEFAULT '',
  site_icon     TEXT NOT NULL DEFAULT '',
  created_at    INTEGER NOT NULL,
  display_date  TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_history_created ON history(created_at);
CREATE TABLE IF NOT EXISTS settings (
  key   TEXT PRIMARY KEY,
  value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS counters (
  key   TEXT PRIMARY KEY,
  value INTEGER NOT NULL DEFAULT 0
);
    `); err != nil {
		return nil, err
	}
	return &DB{sql: db, historyCap: DefaultHistoryCap}, nil
}

func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}

// SetHistoryCap overrides the FIFO cap. Values below 1 keep the default.
func (d *DB) SetHistoryCap(cap int) {
	if cap > 0 {
		d.historyCap = cap
	}
}

// AppendHistory inserts a new entry and evicts the oldest rows beyond
// the cap in the same call, keeping the list newest-first and bounded.
func (d *DB) AppendHistory(ctx context.Context, e HistoryEntry) error {
	tx, err := d.sql.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO history(id, original_text, enhanced_text, site, site_icon, created_at, display_date) VALUES(?,?,?,?,?,?,?)`,
		e.ID, e.OriginalText, e.EnhancedText, e.Site, e.SiteIcon, e.CreatedAt, e.DisplayDate)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`DELETE FROM history WHERE id NOT IN (SELECT id FROM history ORDER BY created_at DESC, id DESC LIMIT ?)`,
		d.historyCap)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// ListHistory returns entries newest-first, optionally filtered by a
// case-insensitive substring over original text, enhanced text and site.
func (d *DB) ListHistory(ctx context.Context, opts ListOptions) ([]HistoryEntry, error) {
	query := `SELECT id, original_text, enhanced_text, site, site_icon, created_at, display_date FROM history`
	var args []any
	if opts.Search != "" {
		query += ` WHERE lower(original_text) LIKE ? OR lower(enhanced_text) LIKE ? OR lower(site) LIKE ?`
		needle := "%" + strings.ToLower(opts.Search) + "%"
		args = append(args, needle, needle, needle)
	}
	query += ` ORDER BY created_at DESC, id DESC`
	if opts.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, opts.Limit)
	}

	rows, err := d.sql.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		if err := rows.Scan(&e.ID, &e.OriginalText, &e.EnhancedText, &e.Site, &e.SiteIcon, &e.CreatedAt, &e.DisplayDate); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (d *DB) GetHistory(ctx context.Context, id string) (HistoryEntry, error) {
	var e HistoryEntry
	err := d.sql.QueryRowContext(ctx,
		`SELECT id, original_text, enhanced_text, site, site_icon, created_at, display_date FROM history WHERE id = ?`, id).
		Scan(&e.ID, &e.OriginalText, &e.EnhancedText, &e.Site, &e.SiteIcon, &e.CreatedAt, &e.DisplayDate)
	if errors.Is(err, sql.ErrNoRows) {
		return HistoryEntry{}, ErrNotFound
	}
	return e, err
}

func (d *DB) DeleteHistory(ctx context.Context, id string) error {
	res, err := d.sql.ExecContext(ctx, `DELETE FROM history WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (d *DB) ClearHistory(ctx context.Context) error {
	_, err := d.sql.ExecContext(ctx, `DELETE FROM history`)
	return err
}

func (d *DB) CountHistory(ctx context.Context) (int, error) {
	var n int
	err := d.sql.QueryRowContext(ctx, `SELECT COUNT(*) FROM history`).Scan(&n)
	return n, err
}

// PruneHistory deletes entries created before the cutoff and returns
// how many were removed.
func (d *DB) PruneHistory(ctx context.Context, olderThan time.Time) (int, error) {
	res, err := d.sql.ExecContext(ctx, `DELETE FROM history WHERE created_at < ?`, olderThan.UnixMilli())
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// Settings reads the stored settings merged over the defaults, so the
// result always carries every recognized key. Unrecognized rows are
// dropped.
func (d *DB) Settings(ctx context.Context) (map[string]string, error) {
	out := DefaultSettings()
	rows, err := d.sql.QueryContext(ctx, `SELECT key, value FROM settings`)
	if err != nil {
		return out, err
	}
	defer rows.Close()
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return out, err
		}
		if _, ok := out[k]; ok {
			out[k] = v
		}
	}
	return out, rows.Err()
}

// MergeSettings writes only the given recognized keys; everything else
// already stored survives untouched. Unknown keys are silently ignored.
func (d *DB) MergeSettings(ctx context.Context, partial map[string]string) error {
	defaults := DefaultSettings()
	tx, err := d.sql.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	for k, v := range partial {
		if _, ok := defaults[k]; !ok {
			continue
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO settings(key, value) VALUES(?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`, k, v)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// InitDefaults is the idempotent install hook: it writes every default
// settings key that is absent and never overwrites an existing value.
func (d *DB) InitDefaults(ctx context.Context) error {
	tx, err := d.sql.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	for k, v := range DefaultSettings() {
		_, err = tx.ExecContext(ctx, `INSERT INTO settings(key, value) VALUES(?, ?) ON CONFLICT(key) DO NOTHING`, k, v)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// RecordAttempt bumps the request counters backing the success-rate
// figure. Counters track requests, not stored entries, so clearing the
// history does not rewrite them.
func (d *DB) RecordAttempt(ctx context.Context, success bool) error {
	keys := []string{"enhance_attempts"}
	if !success {
		keys = append(keys, "enhance_failures")
	}
	for _, k := range keys {
		if _, err := d.sql.ExecContext(ctx,
			`INSERT INTO counters(key, value) VALUES(?, 1) ON CONFLICT(key) DO UPDATE SET value = value + 1`, k); err != nil {
			return err
		}
	}
	return nil
}

// Stats recomputes usage statistics from the history list and the
// request counters. Recomputing twice over the same data yields the
// same result.
func (d *DB) Stats(ctx context.Context) (UsageStats, error) {
	var s UsageStats
	if err := d.sql.QueryRowContext(ctx, `SELECT COUNT(*), COUNT(DISTINCT site) FROM history`).
		Scan(&s.TotalEnhancements, &s.SitesUsed); err != nil {
		return s, err
	}

	var attempts, failures int
	row := d.sql.QueryRowContext(ctx, `SELECT COALESCE(SUM(CASE WHEN key = 'enhance_attempts' THEN value END), 0),
	       COALESCE(SUM(CASE WHEN key = 'enhance_failures' THEN value END), 0) FROM counters`)
	if err := row.Scan(&attempts, &failures); err != nil {
		return s, err
	}
	if attempts > 0 {
		s.SuccessRate = float64(attempts-failures) / float64(attempts)
	}
	return s, nil
}

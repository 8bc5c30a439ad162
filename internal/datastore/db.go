package datastore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aleister1102/conndir/internal/models"
	"github.com/rs/zerolog"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// DB wraps the SQLite database holding progress and the listing index
type DB struct {
	db     *sql.DB
	now    func() time.Time
	logger zerolog.Logger
}

// NewDB opens (creating if needed) the database at dataSourceName and
// ensures the schema is set up. A file that is not a usable database is
// moved aside and replaced by an empty one.
func NewDB(dataSourceName string, logger zerolog.Logger) (*DB, error) {
	logger = logger.With().Str("component", "SQLiteStore").Logger()
	logger.Info().Str("db_path", dataSourceName).Msg("Initializing progress database")

	dbDir := filepath.Dir(dataSourceName)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory %s: %w", dbDir, err)
	}

	db, err := openDB(dataSourceName, logger)
	if err != nil && isCorruptDatabase(err) {
		aside := fmt.Sprintf("%s.corrupt-%s", dataSourceName, time.Now().UTC().Format("20060102T150405"))
		logger.Warn().Err(err).Str("moved_to", aside).Msg("Progress database is corrupt, starting fresh")
		if renameErr := os.Rename(dataSourceName, aside); renameErr != nil {
			return nil, fmt.Errorf("failed to move corrupt database aside: %w", renameErr)
		}
		db, err = openDB(dataSourceName, logger)
	}
	if err != nil {
		return nil, err
	}
	return db, nil
}

func openDB(dataSourceName string, logger zerolog.Logger) (*DB, error) {
	dbInstance, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("sql.Open failed for %s: %w", dataSourceName, err)
	}
	// One writer; SQLite serializes anyway and this avoids SQLITE_BUSY
	dbInstance.SetMaxOpenConns(1)

	db := &DB{
		db:     dbInstance,
		now:    time.Now,
		logger: logger,
	}

	if err := db.InitSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return db, nil
}

// isCorruptDatabase reports whether err says the file is not a database
// or its pages are damaged
func isCorruptDatabase(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	switch sqliteErr.Code() & 0xff {
	case sqlite3.SQLITE_NOTADB, sqlite3.SQLITE_CORRUPT:
		return true
	}
	return false
}

// Close closes the database connection
func (d *DB) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

// InitSchema creates the tables if they don't already exist
func (d *DB) InitSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS connectors (
		detail_url TEXT PRIMARY KEY,
		position INTEGER NOT NULL,
		record_json TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS run_errors (
		position INTEGER PRIMARY KEY,
		message TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS run_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS index_entries (
		detail_url TEXT PRIMARY KEY,
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		tagline TEXT NOT NULL,
		logo_url TEXT NOT NULL
	);
	`
	if _, err := d.db.Exec(query); err != nil {
		return err
	}
	d.logger.Debug().Msg("Schema ensured")
	return nil
}

// ProgressStore returns the progress view of the database
func (d *DB) ProgressStore(meta ProgressMeta) *SQLiteProgressStore {
	return &SQLiteProgressStore{db: d, meta: meta}
}

// IndexStore returns the index view of the database
func (d *DB) IndexStore() *SQLiteIndexStore {
	return &SQLiteIndexStore{db: d}
}

// inTx runs fn in a transaction, rolling back on error
func (d *DB) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// SQLiteProgressStore persists records as JSON rows keyed by detail URL
type SQLiteProgressStore struct {
	db   *DB
	meta ProgressMeta
}

func (s *SQLiteProgressStore) Load(ctx context.Context) (ProgressState, error) {
	rows, err := s.db.db.QueryContext(ctx, `SELECT detail_url, record_json FROM connectors ORDER BY position`)
	if err != nil {
		return ProgressState{}, fmt.Errorf("failed to query connectors: %w", err)
	}
	defer rows.Close()

	var records []models.ConnectorRecord
	for rows.Next() {
		var detailURL, raw string
		if err := rows.Scan(&detailURL, &raw); err != nil {
			return ProgressState{}, fmt.Errorf("failed to scan connector row: %w", err)
		}
		var rec models.ConnectorRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			s.db.logger.Warn().Err(err).Str("detail_url", detailURL).Msg("Skipping corrupt connector row")
			continue
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return ProgressState{}, fmt.Errorf("failed to iterate connectors: %w", err)
	}

	return NewProgressState(records), nil
}

func (s *SQLiteProgressStore) Save(ctx context.Context, records []models.ConnectorRecord, errs []string) error {
	unique := dedupeRecords(records)
	return s.db.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM connectors`); err != nil {
			return fmt.Errorf("failed to clear connectors: %w", err)
		}
		for i, rec := range unique {
			raw, err := json.Marshal(rec)
			if err != nil {
				return fmt.Errorf("failed to encode connector %s: %w", rec.DetailURL, err)
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO connectors (detail_url, position, record_json) VALUES (?, ?, ?)`,
				rec.DetailURL, i, string(raw)); err != nil {
				return fmt.Errorf("failed to insert connector %s: %w", rec.DetailURL, err)
			}
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM run_errors`); err != nil {
			return fmt.Errorf("failed to clear errors: %w", err)
		}
		for i, msg := range errs {
			if _, err := tx.ExecContext(ctx, `INSERT INTO run_errors (position, message) VALUES (?, ?)`, i, msg); err != nil {
				return fmt.Errorf("failed to insert error: %w", err)
			}
		}

		meta := map[string]string{
			"scraped_at": s.db.now().UTC().Format(models.ScrapedAtLayout),
			"source":     s.meta.Source,
			"tab":        s.meta.Tab,
		}
		for key, value := range meta {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO run_meta (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
				key, value); err != nil {
				return fmt.Errorf("failed to update run metadata: %w", err)
			}
		}
		return nil
	})
}

func (s *SQLiteProgressStore) Reset(ctx context.Context) error {
	return s.db.inTx(ctx, func(tx *sql.Tx) error {
		for _, table := range []string{"connectors", "run_errors", "run_meta"} {
			if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}
		return nil
	})
}

// Errors returns the error log of the last saved run
func (s *SQLiteProgressStore) Errors(ctx context.Context) ([]string, error) {
	rows, err := s.db.db.QueryContext(ctx, `SELECT message FROM run_errors ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query errors: %w", err)
	}
	defer rows.Close()

	var messages []string
	for rows.Next() {
		var msg string
		if err := rows.Scan(&msg); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// SQLiteIndexStore persists the listing index as ordered rows
type SQLiteIndexStore struct {
	db *DB
}

func (s *SQLiteIndexStore) Load(ctx context.Context) ([]models.IndexEntry, error) {
	rows, err := s.db.db.QueryContext(ctx,
		`SELECT name, tagline, logo_url, detail_url FROM index_entries ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query index: %w", err)
	}
	defer rows.Close()

	var entries []models.IndexEntry
	for rows.Next() {
		var e models.IndexEntry
		if err := rows.Scan(&e.Name, &e.Tagline, &e.LogoURL, &e.DetailURL); err != nil {
			return nil, fmt.Errorf("failed to scan index row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *SQLiteIndexStore) Save(ctx context.Context, entries []models.IndexEntry) error {
	unique := dedupeEntries(entries)
	return s.db.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM index_entries`); err != nil {
			return fmt.Errorf("failed to clear index: %w", err)
		}
		for i, e := range unique {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO index_entries (detail_url, position, name, tagline, logo_url) VALUES (?, ?, ?, ?, ?)`,
				e.DetailURL, i, e.Name, e.Tagline, e.LogoURL); err != nil {
				return fmt.Errorf("failed to insert index entry %s: %w", e.DetailURL, err)
			}
		}
		return nil
	})
}

func (s *SQLiteIndexStore) Delete(ctx context.Context) error {
	if _, err := s.db.db.ExecContext(ctx, `DELETE FROM index_entries`); err != nil {
		return fmt.Errorf("failed to clear index: %w", err)
	}
	return nil
}

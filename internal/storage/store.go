// Package storage persists the ledger document in a local SQLite
// database: one row per namespaced key, the whole document as a single
// JSON value. Last writer wins.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// LedgerKey is the fixed key the ledger document lives under.
const LedgerKey = "owura.ledger"

type SnapshotStore struct {
	db  *sql.DB
	key string
}

func NewSnapshotStore(dbPath string) (*SnapshotStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SnapshotStore{db: db, key: LedgerKey}, nil
}

func (s *SnapshotStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Load reads the document stored under the ledger key. found is false
// when nothing has been saved yet.
func (s *SnapshotStore) Load(ctx context.Context) ([]byte, bool, error) {
	var doc string
	err := s.db.QueryRowContext(ctx,
		`SELECT document FROM snapshots WHERE key = ?`, s.key).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read snapshot %s: %w", s.key, err)
	}
	return []byte(doc), true, nil
}

// Save upserts the document under the ledger key in one statement.
func (s *SnapshotStore) Save(ctx context.Context, doc []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO snapshots (key, document, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET
			document = excluded.document,
			updated_at = excluded.updated_at`,
		s.key, string(doc), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("write snapshot %s: %w", s.key, err)
	}

	slog.DebugContext(ctx, "Snapshot saved", "key", s.key, "bytes", len(doc))
	return nil
}

package session

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteStore keeps sessions in a single table keyed by (chat_id, key).
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// OpenSQLite opens or creates the database at path. ":memory:" gives an
// in-memory database private to the returned store.
func OpenSQLite(path string) (*SQLiteStore, error) {
	dsn := path
	if path == ":memory:" {
		// google/uuid: a unique name keeps shared-cache memory databases apart.
		dsn = "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	} else if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if path != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS session_data (
		chat_id INTEGER NOT NULL,
		key TEXT NOT NULL,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (chat_id, key)
	);
	`)
	return err
}

func (s *SQLiteStore) Get(ctx context.Context, chatID int64) (Bag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM session_data WHERE chat_id = ?`, chatID)
	if err != nil {
		return nil, fmt.Errorf("sqlite get session %d: %w", chatID, err)
	}
	defer rows.Close()

	bag := Bag{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("sqlite scan session %d: %w", chatID, err)
		}
		bag[k] = []byte(v)
	}
	return bag, rows.Err()
}

func (s *SQLiteStore) Update(ctx context.Context, chatID int64, patch Bag) error {
	if len(patch) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for k, v := range patch {
		if isNull(v) {
			if _, err := tx.ExecContext(ctx, `DELETE FROM session_data WHERE chat_id = ? AND key = ?`, chatID, k); err != nil {
				return fmt.Errorf("sqlite delete %s: %w", k, err)
			}
			continue
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO session_data (chat_id, key, value) VALUES (?, ?, ?)
			ON CONFLICT(chat_id, key) DO UPDATE SET
				value = excluded.value,
				updated_at = CURRENT_TIMESTAMP
		`, chatID, k, string(v))
		if err != nil {
			return fmt.Errorf("sqlite upsert %s: %w", k, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) Clear(ctx context.Context, chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.ExecContext(ctx, `DELETE FROM session_data WHERE chat_id = ?`, chatID); err != nil {
		return fmt.Errorf("sqlite clear session %d: %w", chatID, err)
	}
	return nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Name() string { return "sqlite" }

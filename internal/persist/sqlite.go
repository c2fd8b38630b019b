package persist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"pkt.systems/pslog"
)

// SQLiteStore keeps snapshot blobs in a SQLite key/value table so several
// processes can share one database file.
type SQLiteStore struct {
	db  *sql.DB
	key string
	log pslog.Logger
}

// NewSQLiteStore opens (and if needed creates) the database at path.
func NewSQLiteStore(path, key string, logger pslog.Logger) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create sqlite dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if strings.TrimSpace(key) == "" {
		key = DefaultKey
	}
	if logger != nil {
		logger = logger.With("sqlite_path", path, "key", key)
	}
	store := &SQLiteStore{db: db, key: key, log: logger}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) initialize() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS session_blobs (
		key TEXT PRIMARY KEY,
		data TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`
	if _, err := s.db.Exec(ddl); err != nil {
		return fmt.Errorf("create session_blobs: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Load(ctx context.Context) (string, bool, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM session_blobs WHERE key = ?`, s.key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		if s.log != nil {
			s.log.Debug("state load miss")
		}
		return "", false, nil
	}
	if err != nil {
		if s.log != nil {
			s.log.Debug("state load failed", "err", err)
		}
		return "", false, err
	}
	if s.log != nil {
		s.log.Debug("state load ok", "bytes", len(data))
	}
	return data, true, nil
}

func (s *SQLiteStore) Save(ctx context.Context, data string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO session_blobs (key, data, updated_at)
		 VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET
		 data = excluded.data,
		 updated_at = CURRENT_TIMESTAMP`,
		s.key, data,
	)
	if err != nil {
		if s.log != nil {
			s.log.Debug("state save failed", "err", err)
		}
		return err
	}
	if s.log != nil {
		s.log.Trace("state save ok", "bytes", len(data))
	}
	return nil
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM session_blobs WHERE key = ?`, s.key); err != nil {
		if s.log != nil {
			s.log.Debug("state clear failed", "err", err)
		}
		return err
	}
	if s.log != nil {
		s.log.Debug("state clear ok")
	}
	return nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

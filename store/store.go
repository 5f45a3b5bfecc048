package store

import (
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a row does not exist or belongs to another user
var ErrNotFound = errors.New("store: not found")

const schema = `
CREATE TABLE IF NOT EXISTS articles (
  id         TEXT PRIMARY KEY,
  user_id    TEXT NOT NULL,
  keyword    TEXT NOT NULL,
  length     TEXT NOT NULL,
  tone       TEXT NOT NULL,
  article    TEXT NOT NULL,
  created_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_articles_user ON articles(user_id, created_at);
CREATE TABLE IF NOT EXISTS seo_reports (
  id          TEXT PRIMARY KEY,
  user_id     TEXT NOT NULL,
  title       TEXT NOT NULL,
  meta        TEXT NOT NULL,
  content     TEXT NOT NULL,
  keyword     TEXT NOT NULL,
  seo_score   INTEGER NOT NULL,
  title_score INTEGER NOT NULL,
  meta_score  INTEGER NOT NULL,
  report_json TEXT NOT NULL,
  created_at  DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_reports_user ON seo_reports(user_id, created_at);
CREATE TABLE IF NOT EXISTS keyword_research (
  id         INTEGER PRIMARY KEY,
  query      TEXT NOT NULL,
  suggestion TEXT NOT NULL,
  created_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_keyword_query ON keyword_research(query);
`

// DB persists articles, SEO reports and keyword research in SQLite
type DB struct {
	sql *sql.DB

	entropyMu sync.Mutex
	entropy   *ulid.MonotonicEntropy
	now       func() time.Time
}

// Open opens (and creates if needed) the database at path
func Open(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &DB{
		sql:     db,
		entropy: ulid.Monotonic(rand.Reader, 0),
		now:     func() time.Time { return time.Now().UTC() },
	}, nil
}

func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}

func (d *DB) newID(at time.Time) string {
	d.entropyMu.Lock()
	defer d.entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(at), d.entropy).String()
}

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */
package pathcache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	applog "gosquircle/internal/log"
	"gosquircle/internal/squircle"
	"gosquircle/internal/vector"
	"gosquircle/internal/version"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

const (
	// StoreFileName is the default file name inside the cache directory.
	StoreFileName = "paths.sqlite"

	// DefaultMaxBytes caps the summed blob size of the persistent tier.
	DefaultMaxBytes int64 = 64 * 1024 * 1024

	// schemaVersion tracks the layout of the paths table.
	schemaVersion = 1
)

// Store is the persistent tier: one row per fingerprint holding the shape as
// JSON, evicted least recently used first once the byte cap is exceeded.
type Store struct {
	db       *sql.DB
	path     string
	maxBytes int64

	mu   sync.Mutex
	tick int64
}

// record is the JSON layout of a stored shape.
type record struct {
	Kind   squircle.Kind    `json:"kind"`
	Rect   vector.Rect      `json:"rect"`
	Radius float64          `json:"radius,omitempty"`
	Cmds   []vector.PathCmd `json:"cmds,omitempty"`
}

// DefaultStorePath returns <user cache dir>/gosquircle/paths.sqlite.
func DefaultStorePath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("user cache dir: %w", err)
	}
	return filepath.Join(dir, "gosquircle", StoreFileName), nil
}

// OpenStore creates or opens the SQLite file at path, enables WAL mode and
// ensures the schema. maxBytes <= 0 reads the cap from MaxBytesFromEnv.
func OpenStore(path string, maxBytes int64) (*Store, error) {
	l := applog.WithOperation(applog.WithComponent("pathcache"), "store_open").With(
		slog.String("path", path),
	)
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("store path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		l.Error("create cache dir failed", slog.Any("err", err))
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	if maxBytes <= 0 {
		maxBytes = MaxBytesFromEnv()
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)", filepath.ToSlash(path))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		l.Error("sqlite open failed", slog.Any("err", err))
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		l.Error("enable WAL failed", slog.Any("err", err))
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if err := ensureSchema(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure schema failed", slog.Any("err", err))
		return nil, err
	}
	l.Debug("store ready", slog.Int64("max_bytes", maxBytes))
	return &Store{db: db, path: path, maxBytes: maxBytes}, nil
}

func ensureSchema(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS version (
			id          INTEGER PRIMARY KEY CHECK(id=1),
			schema      INTEGER NOT NULL,
			app         TEXT,
			created_at  TEXT NOT NULL,
			updated_at  TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS paths (
			fingerprint  TEXT PRIMARY KEY,
			kind         INTEGER NOT NULL,
			blob         BLOB    NOT NULL,
			size         INTEGER NOT NULL DEFAULT 0,
			updated_at   TEXT    NOT NULL,
			last_access  INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE INDEX IF NOT EXISTS idx_paths_access ON paths(last_access);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	now := time.Now().UTC().Format(time.RFC3339)
	var cur int
	err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&cur)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := db.ExecContext(ctx, `INSERT INTO version (id, schema, app, created_at, updated_at) VALUES(1, ?, ?, ?, ?)`, schemaVersion, version.String(), now, now); err != nil {
			return fmt.Errorf("insert version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read version: %w", err)
	case cur != schemaVersion:
		// Disposable cache: drop rows written by another layout instead of migrating.
		if _, err := db.ExecContext(ctx, `DELETE FROM paths`); err != nil {
			return fmt.Errorf("reset paths: %w", err)
		}
		if _, err := db.ExecContext(ctx, `UPDATE version SET schema=?, app=?, updated_at=? WHERE id=1`, schemaVersion, version.String(), now); err != nil {
			return fmt.Errorf("update version: %w", err)
		}
	default:
		if _, err := db.ExecContext(ctx, `UPDATE version SET app=?, updated_at=? WHERE id=1`, version.String(), now); err != nil {
			return fmt.Errorf("update version: %w", err)
		}
	}
	return nil
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// MaxBytes returns the eviction cap.
func (s *Store) MaxBytes() int64 { return s.maxBytes }

// access returns a strictly increasing access stamp so eviction order is
// stable even when the clock does not advance between calls.
func (s *Store) access() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := time.Now().UnixNano()
	if n <= s.tick {
		n = s.tick + 1
	}
	s.tick = n
	return n
}

// Get returns the shape stored under k and refreshes its access stamp.
// A missing row is not an error: ok is false.
func (s *Store) Get(ctx context.Context, k Key) (squircle.Shape, bool, error) {
	fp := k.String()
	var blob []byte
	err := s.db.QueryRowContext(ctx, `SELECT blob FROM paths WHERE fingerprint=?`, fp).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return squircle.Shape{}, false, nil
	}
	if err != nil {
		return squircle.Shape{}, false, fmt.Errorf("query path: %w", err)
	}
	var rec record
	if err := json.Unmarshal(blob, &rec); err != nil {
		return squircle.Shape{}, false, fmt.Errorf("decode path %s: %w", fp, err)
	}
	if _, err := s.db.ExecContext(ctx, `UPDATE paths SET last_access=? WHERE fingerprint=?`, s.access(), fp); err != nil {
		// the row is still good; it just ages out sooner
		applog.WithComponent("pathcache").WarnContext(ctx, "store touch failed", slog.String("key", fp), slog.Any("err", err))
	}
	return squircle.Shape{Kind: rec.Kind, Rect: rec.Rect, Radius: rec.Radius, Path: vector.Path{Cmds: rec.Cmds}}, true, nil
}

// Put upserts the shape and enforces the byte cap.
func (s *Store) Put(ctx context.Context, k Key, shape squircle.Shape) error {
	blob, err := json.Marshal(record{Kind: shape.Kind, Rect: shape.Rect, Radius: shape.Radius, Cmds: shape.Path.Cmds})
	if err != nil {
		return fmt.Errorf("encode path: %w", err)
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.ExecContext(ctx, `INSERT INTO paths(fingerprint,kind,blob,size,updated_at,last_access)
		VALUES(?,?,?,?,?,?)
		ON CONFLICT(fingerprint) DO UPDATE SET kind=excluded.kind, blob=excluded.blob, size=excluded.size, updated_at=excluded.updated_at, last_access=excluded.last_access`,
		k.String(), int(shape.Kind), blob, len(blob), now, s.access())
	if err != nil {
		return fmt.Errorf("upsert path: %w", err)
	}
	if s.maxBytes > 0 {
		if err := s.EvictToFit(ctx, s.maxBytes); err != nil {
			return err
		}
	}
	return nil
}

// EvictToFit deletes least recently used rows until the total size is <= capBytes.
func (s *Store) EvictToFit(ctx context.Context, capBytes int64) error {
	total, err := s.TotalBytes(ctx)
	if err != nil {
		return err
	}
	if total <= capBytes {
		return nil
	}
	rows, err := s.db.QueryContext(ctx, `SELECT fingerprint, size FROM paths ORDER BY last_access ASC`)
	if err != nil {
		return fmt.Errorf("select victims: %w", err)
	}
	victims := make([]any, 0, 32)
	cur := total
	for rows.Next() {
		var fp string
		var sz int64
		if err := rows.Scan(&fp, &sz); err != nil {
			_ = rows.Close()
			return err
		}
		victims = append(victims, fp)
		cur -= sz
		if cur <= capBytes {
			break
		}
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return err
	}
	// close the cursor before writing; the pool holds a single connection
	if err := rows.Close(); err != nil {
		return err
	}
	if len(victims) == 0 {
		return nil
	}
	q := `DELETE FROM paths WHERE fingerprint IN (?` + strings.Repeat(",?", len(victims)-1) + ")"
	if _, err := s.db.ExecContext(ctx, q, victims...); err != nil {
		return fmt.Errorf("evict delete: %w", err)
	}
	applog.WithComponent("pathcache").Debug("store evicted", slog.Int("rows", len(victims)), slog.Int64("cap", capBytes))
	return nil
}

// TotalBytes sums the stored blob sizes.
func (s *Store) TotalBytes(ctx context.Context) (int64, error) {
	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(size),0) FROM paths`).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum path sizes: %w", err)
	}
	return total, nil
}

// Count returns the number of stored shapes.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM paths`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count paths: %w", err)
	}
	return n, nil
}

// Clear deletes every stored shape.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM paths`); err != nil {
		return fmt.Errorf("clear paths: %w", err)
	}
	return nil
}

func (s *Store) Close() error { return s.db.Close() }

// MaxBytesFromEnv reads SQC_PATHCACHE_MAX_BYTES, defaulting to 64MB if unset or invalid.
func MaxBytesFromEnv() int64 {
	v := os.Getenv("SQC_PATHCACHE_MAX_BYTES")
	if v == "" {
		return DefaultMaxBytes
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		return DefaultMaxBytes
	}
	return n
}

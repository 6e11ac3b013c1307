// Package sqlite provides a serializer-backed checkpoint store on top
// of modernc.org/sqlite (pure Go, no cgo).
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/stategraph/stategraph/internal/core/checkpoint"
	"github.com/stategraph/stategraph/internal/infrastructure/metrics"
	"github.com/stategraph/stategraph/pkg/serialization"
)

// Store implements checkpoint.Store backed by a SQLite table. The
// state snapshot is stored as a serializer blob (msgpack+zstd by
// default); path and metadata are JSON columns so they stay queryable
// with SQLite's json functions.
type Store[S any] struct {
	db         *sql.DB
	serializer *serialization.Serializer
	table      string
}

// Open opens (or creates) a SQLite database at dsn. Use ":memory:" for
// an ephemeral store.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// An in-memory database exists per connection; pin the pool to one
	// connection so every statement sees the same schema.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
	}
	return db, nil
}

// NewStore creates the store and its schema. A nil serializer selects
// the default msgpack+zstd pipeline.
func NewStore[S any](db *sql.DB, s *serialization.Serializer) (*Store[S], error) {
	if s == nil {
		s = serialization.Default()
	}
	st := &Store[S]{db: db, serializer: s, table: "checkpoints"}
	if err := st.init(); err != nil {
		return nil, err
	}
	return st, nil
}

// WithTable overrides the table name. Only [A-Za-z0-9_] identifiers
// are accepted since the name is interpolated into statements.
func (s *Store[S]) WithTable(name string) (*Store[S], error) {
	if !safeIdent(name) {
		return nil, fmt.Errorf("unsafe table name %q", name)
	}
	out := &Store[S]{db: s.db, serializer: s.serializer, table: name}
	if err := out.init(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store[S]) init() error {
	_, err := s.db.Exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id        TEXT PRIMARY KEY,
			node      TEXT NOT NULL,
			path      TEXT NOT NULL,
			iteration INTEGER NOT NULL,
			state     BLOB NOT NULL,
			metadata  TEXT,
			ts        INTEGER NOT NULL
		)`, s.table))
	if err != nil {
		return fmt.Errorf("create table %s: %w", s.table, err)
	}
	return nil
}

// Save upserts a checkpoint under id.
func (s *Store[S]) Save(ctx context.Context, id string, cp *checkpoint.Checkpoint[S]) error {
	if id == "" {
		return checkpoint.ErrInvalidID
	}
	if err := cp.Validate(); err != nil {
		return err
	}
	state, err := s.serializer.Marshal(cp.State)
	if err != nil {
		return fmt.Errorf("serialize state: %w", err)
	}
	path, err := json.Marshal(cp.Path)
	if err != nil {
		return fmt.Errorf("serialize path: %w", err)
	}
	var meta []byte
	if cp.Metadata != nil {
		if meta, err = json.Marshal(cp.Metadata); err != nil {
			return fmt.Errorf("serialize metadata: %w", err)
		}
	}
	query := fmt.Sprintf(`
		INSERT OR REPLACE INTO %s (id, node, path, iteration, state, metadata, ts)
		VALUES (?, ?, ?, ?, ?, ?, ?)`, s.table)
	_, err = s.db.ExecContext(ctx, query,
		id, cp.Node, string(path), cp.Iteration, state, nullable(meta), cp.Timestamp.UnixNano())
	if err != nil {
		return fmt.Errorf("save checkpoint %q: %w", id, err)
	}
	metrics.IncCheckpointSaves("sqlite")
	return nil
}

// Load retrieves a checkpoint by id.
func (s *Store[S]) Load(ctx context.Context, id string) (*checkpoint.Checkpoint[S], error) {
	if id == "" {
		return nil, checkpoint.ErrInvalidID
	}
	query := fmt.Sprintf(`
		SELECT node, path, iteration, state, metadata, ts FROM %s WHERE id = ?`, s.table)

	var cp checkpoint.Checkpoint[S]
	var path, state []byte
	var meta sql.NullString
	var ts int64
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&cp.Node, &path, &cp.Iteration, &state, &meta, &ts)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, checkpoint.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load checkpoint %q: %w", id, err)
	}

	if err := s.serializer.Unmarshal(state, &cp.State); err != nil {
		return nil, fmt.Errorf("deserialize state: %w", err)
	}
	if err := json.Unmarshal(path, &cp.Path); err != nil {
		return nil, fmt.Errorf("deserialize path: %w", err)
	}
	if meta.Valid && meta.String != "" {
		if err := json.Unmarshal([]byte(meta.String), &cp.Metadata); err != nil {
			return nil, fmt.Errorf("deserialize metadata: %w", err)
		}
	}
	cp.Timestamp = time.Unix(0, ts).UTC()
	metrics.IncCheckpointLoads("sqlite")
	return &cp, nil
}

// Delete removes a checkpoint; absent ids are a no-op.
func (s *Store[S]) Delete(ctx context.Context, id string) error {
	if id == "" {
		return checkpoint.ErrInvalidID
	}
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, s.table)
	if _, err := s.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete checkpoint %q: %w", id, err)
	}
	return nil
}

// List returns all ids in lexicographic order.
func (s *Store[S]) List(ctx context.Context) ([]string, error) {
	query := fmt.Sprintf(`SELECT id FROM %s ORDER BY id`, s.table)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list checkpoints: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Clear removes every checkpoint in the table.
func (s *Store[S]) Clear(ctx context.Context) error {
	query := fmt.Sprintf(`DELETE FROM %s`, s.table)
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("clear checkpoints: %w", err)
	}
	return nil
}

func nullable(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}

func safeIdent(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_':
		default:
			return false
		}
	}
	return true
}

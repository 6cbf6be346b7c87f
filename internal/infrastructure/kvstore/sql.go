package kvstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/jmoiron/sqlx"
)

const (
	documentsTable = "kv_documents"
	columnKey      = "doc_key"
	columnValue    = "doc_value"
	columnUpdated  = "updated_at"
)

const createDocumentsTable = `CREATE TABLE IF NOT EXISTS kv_documents (
	doc_key TEXT PRIMARY KEY,
	doc_value TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL
)`

// SQLStore persists documents in a single table of a SQLite or PostgreSQL database.
type SQLStore struct {
	db      *sqlx.DB
	dialect string
	clock   func() time.Time
}

// NewSQLStore prepares the documents table and returns a store bound to db.
// dialectName is one of the entgo.io/ent/dialect names (sqlite3, postgres).
func NewSQLStore(ctx context.Context, db *sqlx.DB, dialectName string) (*SQLStore, error) {
	if db == nil {
		return nil, errors.New("kvstore: db is required")
	}
	if _, err := db.ExecContext(ctx, createDocumentsTable); err != nil {
		return nil, fmt.Errorf("create %s: %w", documentsTable, err)
	}
	return &SQLStore{db: db, dialect: dialectName, clock: time.Now}, nil
}

func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	query, args := entsql.Dialect(s.dialect).
		Select(columnValue).
		From(entsql.Table(documentsTable)).
		Where(entsql.EQ(columnKey, key)).
		Query()

	var value string
	if err := s.db.GetContext(ctx, &value, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get %s: %w", key, err)
	}
	return []byte(value), true, nil
}

func (s *SQLStore) Set(ctx context.Context, key string, value []byte) error {
	query, args := s.upsert(key, value)
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (s *SQLStore) SetMany(ctx context.Context, entries map[string][]byte) (err error) {
	if len(entries) == 0 {
		return nil
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	commit := false
	defer func() {
		if !commit {
			_ = tx.Rollback()
		}
	}()

	// Sorted keys give a deterministic write order across runs.
	keys := make([]string, 0, len(entries))
	for key := range entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		query, args := s.upsert(key, entries[key])
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("set %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	commit = true
	return nil
}

func (s *SQLStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	args := make([]any, len(keys))
	for i, key := range keys {
		args[i] = key
	}
	query, qargs := entsql.Dialect(s.dialect).
		Delete(documentsTable).
		Where(entsql.In(columnKey, args...)).
		Query()
	if _, err := s.db.ExecContext(ctx, query, qargs...); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	return nil
}

// Keys lists stored keys in ascending order.
func (s *SQLStore) Keys(ctx context.Context) ([]string, error) {
	query, args := entsql.Dialect(s.dialect).
		Select(columnKey).
		From(entsql.Table(documentsTable)).
		OrderBy(columnKey).
		Query()
	var keys []string
	if err := s.db.SelectContext(ctx, &keys, query, args...); err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	return keys, nil
}

func (s *SQLStore) Close() error { return s.db.Close() }

func (s *SQLStore) upsert(key string, value []byte) (string, []any) {
	return entsql.Dialect(s.dialect).
		Insert(documentsTable).
		Columns(columnKey, columnValue, columnUpdated).
		Values(key, string(value), s.clock().UTC()).
		OnConflict(
			entsql.ConflictColumns(columnKey),
			entsql.ResolveWithNewValues(),
		).
		Query()
}

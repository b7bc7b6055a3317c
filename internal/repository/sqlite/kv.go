// Package sqlite is a file-backed repositories.KV for single-node deployments
// and local development.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	_ "modernc.org/sqlite"

	"movierec/internal/domain/repositories"
)

// Open opens (or creates) the database file and ensures the schema.
// Use ":memory:" for a throwaway store.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	dsn := path
	if path != ":memory:" {
		dsn = "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// one writer at a time; an in-memory database only exists on its connection
	db.SetMaxOpenConns(1)

	if err := ensureSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func ensureSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS kv_index (
			index_key TEXT NOT NULL,
			member TEXT NOT NULL,
			score REAL NOT NULL,
			PRIMARY KEY (index_key, member)
		)`,
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure sqlite schema: %w", err)
		}
	}
	return nil
}

// execer is satisfied by *sql.DB and *sql.Tx
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type txKey struct{}

func executor(ctx context.Context, db *sql.DB) execer {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return db
}

// KV implements repositories.KV on SQLite.
type KV struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewKV wraps an opened database.
func NewKV(db *sql.DB, logger *slog.Logger) *KV {
	return &KV{db: db, logger: logger}
}

var _ repositories.KV = (*KV)(nil)

func (s *KV) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := executor(ctx, s.db).QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return []byte(value), nil
}

func (s *KV) Set(ctx context.Context, key string, value []byte) error {
	_, err := executor(ctx, s.db).ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, string(value))
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (s *KV) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(keys)), ",")
	args := make([]any, len(keys))
	for i, k := range keys {
		args[i] = k
	}

	ex := executor(ctx, s.db)
	if _, err := ex.ExecContext(ctx, `DELETE FROM kv WHERE key IN (`+placeholders+`)`, args...); err != nil {
		return fmt.Errorf("delete keys: %w", err)
	}
	if _, err := ex.ExecContext(ctx, `DELETE FROM kv_index WHERE index_key IN (`+placeholders+`)`, args...); err != nil {
		return fmt.Errorf("delete indexes: %w", err)
	}
	return nil
}

func (s *KV) IndexAdd(ctx context.Context, index string, score float64, member string) error {
	_, err := executor(ctx, s.db).ExecContext(ctx, `
		INSERT INTO kv_index (index_key, member, score) VALUES (?, ?, ?)
		ON CONFLICT (index_key, member) DO UPDATE SET score = excluded.score
	`, index, member, score)
	if err != nil {
		return fmt.Errorf("index add %s: %w", index, err)
	}
	return nil
}

func (s *KV) IndexMembers(ctx context.Context, index string) ([]string, error) {
	rows, err := executor(ctx, s.db).QueryContext(ctx,
		`SELECT member FROM kv_index WHERE index_key = ? ORDER BY score DESC, member ASC`, index)
	if err != nil {
		return nil, fmt.Errorf("index members %s: %w", index, err)
	}
	defer rows.Close()

	var members []string
	for rows.Next() {
		var m string
		if err := rows.Scan(&m); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (s *KV) IndexRemove(ctx context.Context, index string, member string) error {
	_, err := executor(ctx, s.db).ExecContext(ctx,
		`DELETE FROM kv_index WHERE index_key = ? AND member = ?`, index, member)
	if err != nil {
		return fmt.Errorf("index remove %s: %w", index, err)
	}
	return nil
}

// TransactionManager implements repositories.TransactionManager with sql.Tx.
type TransactionManager struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewTransactionManager creates a transaction manager for db.
func NewTransactionManager(db *sql.DB, logger *slog.Logger) repositories.TransactionManager {
	return &TransactionManager{db: db, logger: logger}
}

// ExecTx executes fn within a transaction. Nested calls join the outer one.
func (tm *TransactionManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}

	tx, err := tm.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			tm.logger.Warn("rollback failed", "error", err)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

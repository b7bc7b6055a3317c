package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"movierec/internal/domain/repositories"
)

// PostgresKV implements repositories.KV on two tables: a JSONB value table
// and a (index, member, score) table for sorted indexes.
type PostgresKV struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewKV creates a new PostgresKV
func NewKV(config *RepositoryConfig) repositories.KV {
	return &PostgresKV{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

func (r *PostgresKV) Get(ctx context.Context, key string) ([]byte, error) {
	query := fmt.Sprintf(`SELECT value FROM %s WHERE key = $1`, r.tables.KV)

	var value []byte
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, key).Scan(&value)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s: %w", key, err)
	}

	return value, nil
}

func (r *PostgresKV) Set(ctx context.Context, key string, value []byte) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = EXCLUDED.updated_at
	`, r.tables.KV)

	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, query, key, value); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (r *PostgresKV) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	executor := GetExecutor(ctx, r.pool)

	query := fmt.Sprintf(`DELETE FROM %s WHERE key = ANY($1)`, r.tables.KV)
	if _, err := executor.Exec(ctx, query, keys); err != nil {
		return fmt.Errorf("delete keys: %w", err)
	}

	// a deleted key may also have been an index
	query = fmt.Sprintf(`DELETE FROM %s WHERE index_key = ANY($1)`, r.tables.KVIndex)
	if _, err := executor.Exec(ctx, query, keys); err != nil {
		return fmt.Errorf("delete indexes: %w", err)
	}
	return nil
}

func (r *PostgresKV) IndexAdd(ctx context.Context, index string, score float64, member string) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (index_key, member, score)
		VALUES ($1, $2, $3)
		ON CONFLICT (index_key, member) DO UPDATE SET score = EXCLUDED.score
	`, r.tables.KVIndex)

	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, query, index, member, score); err != nil {
		return fmt.Errorf("index add %s: %w", index, err)
	}
	return nil
}

func (r *PostgresKV) IndexMembers(ctx context.Context, index string) ([]string, error) {
	query := fmt.Sprintf(`
		SELECT member FROM %s
		WHERE index_key = $1
		ORDER BY score DESC, member ASC
	`, r.tables.KVIndex)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, index)
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
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate members: %w", err)
	}

	return members, nil
}

func (r *PostgresKV) IndexRemove(ctx context.Context, index string, member string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE index_key = $1 AND member = $2`, r.tables.KVIndex)

	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, query, index, member); err != nil {
		return fmt.Errorf("index remove %s: %w", index, err)
	}
	return nil
}

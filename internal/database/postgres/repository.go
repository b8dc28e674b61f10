package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/vadimbarashkov/linkboard/internal/database"
)

// KVRepository stores opaque values under string keys in the entries table.
type KVRepository struct {
	db *sqlx.DB
}

func NewKVRepository(db *sqlx.DB) *KVRepository {
	return &KVRepository{
		db: db,
	}
}

func (r *KVRepository) Get(ctx context.Context, key string) ([]byte, error) {
	const op = "database.postgres.KVRepository.Get"

	var value string
	query := `SELECT value FROM entries WHERE key = $1`

	err := r.db.GetContext(ctx, &value, query, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, database.ErrKeyNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get entry: %w", op, err)
	}

	return []byte(value), nil
}

func (r *KVRepository) Put(ctx context.Context, key string, value []byte) error {
	const op = "database.postgres.KVRepository.Put"

	query := `INSERT INTO entries(key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = NOW()`

	if _, err := r.db.ExecContext(ctx, query, key, string(value)); err != nil {
		return fmt.Errorf("%s: failed to upsert entry: %w", op, err)
	}

	return nil
}

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sandevgo/relancebot/internal/core"
)

type MemoriesRepo struct {
	db *sql.DB
}

func NewMemoriesRepo(db *sql.DB) *MemoriesRepo {
	return &MemoriesRepo{db: db}
}

// Add appends a memory row. Earlier rows for the same key are kept; readers
// take the newest one.
func (r *MemoriesRepo) Add(ctx context.Context, m core.Memory) error {
	query := `INSERT INTO memories (customer_id, key, content) VALUES (?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, m.CustomerID, m.Key, m.Content); err != nil {
		return fmt.Errorf("failed to insert memory: %w", err)
	}
	return nil
}

func (r *MemoriesRepo) Latest(ctx context.Context, customerID int64, key string) (*core.Memory, error) {
	query := `SELECT id, customer_id, key, content, created_at FROM memories
		WHERE customer_id = ? AND key = ?
		ORDER BY created_at DESC, id DESC LIMIT 1`

	var m core.Memory
	row := r.db.QueryRowContext(ctx, query, customerID, key)
	err := row.Scan(&m.ID, &m.CustomerID, &m.Key, &m.Content, &m.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query memory: %w", err)
	}
	return &m, nil
}

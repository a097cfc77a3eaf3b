package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sandevgo/relancebot/internal/core"
	"github.com/sandevgo/relancebot/pkg/log"
)

type CustomersRepo struct {
	db *sql.DB
}

func NewCustomersRepo(db *sql.DB) *CustomersRepo {
	return &CustomersRepo{db: db}
}

// GetOrCreate resolves the customer by crisp user id, creating it on first
// contact. The UNIQUE constraint makes concurrent first-contacts collapse
// into one row; the losing insert is a no-op and both callers read the same
// customer back.
func (r *CustomersRepo) GetOrCreate(ctx context.Context, crispUserID, nickname string) (core.Customer, error) {
	query := `INSERT INTO customers (crisp_user_id, nickname) VALUES (?, ?) ON CONFLICT(crisp_user_id) DO NOTHING`
	res, err := r.db.ExecContext(ctx, query, crispUserID, nickname)
	if err != nil {
		return core.Customer{}, fmt.Errorf("failed to insert customer: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n > 0 {
		log.FromCtx(ctx).Info().Str("crisp_user_id", crispUserID).Msg("new customer created")
	}

	var c core.Customer
	row := r.db.QueryRowContext(ctx,
		`SELECT id, crisp_user_id, nickname, created_at FROM customers WHERE crisp_user_id = ?`,
		crispUserID)
	if err := row.Scan(&c.ID, &c.CrispUserID, &c.Nickname, &c.CreatedAt); err != nil {
		return core.Customer{}, fmt.Errorf("failed to load customer: %w", err)
	}
	return c, nil
}

func (r *CustomersRepo) All(ctx context.Context) ([]core.Customer, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, crisp_user_id, nickname, created_at FROM customers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	defer rows.Close()

	var customers []core.Customer
	for rows.Next() {
		var c core.Customer
		if err := rows.Scan(&c.ID, &c.CrispUserID, &c.Nickname, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return customers, nil
}

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sandevgo/relancebot/internal/core"
	"github.com/sandevgo/relancebot/pkg/log"
)

type MessagesRepo struct {
	db *sql.DB
}

func NewMessagesRepo(db *sql.DB) *MessagesRepo {
	return &MessagesRepo{db: db}
}

// Add inserts the message unless its fingerprint already exists. The UNIQUE
// constraint is the final arbiter against at-least-once delivery, not the
// application-level check.
func (r *MessagesRepo) Add(ctx context.Context, msg core.Message) (bool, error) {
	query := `INSERT INTO messages (customer_id, type, origin, content, sender, fingerprint, session_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(fingerprint) DO NOTHING`

	res, err := r.db.ExecContext(ctx, query,
		msg.CustomerID, msg.Type, msg.Origin, msg.Content, msg.From, msg.Fingerprint, msg.SessionID)
	if err != nil {
		return false, fmt.Errorf("failed to insert message: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		log.FromCtx(ctx).Debug().Str("fingerprint", msg.Fingerprint).Msg("duplicate message ignored")
	}
	return n > 0, nil
}

// UpdateContentBySession rewrites the content of the newest message in the
// session. Absence of a matching row is not an error.
func (r *MessagesRepo) UpdateContentBySession(ctx context.Context, sessionID, content string) error {
	query := `UPDATE messages SET content = ?
		WHERE id = (SELECT id FROM messages WHERE session_id = ? ORDER BY id DESC LIMIT 1)`

	if _, err := r.db.ExecContext(ctx, query, content, sessionID); err != nil {
		return fmt.Errorf("failed to update message: %w", err)
	}
	return nil
}

// DeleteBySession removes the newest message in the session. Absence of a
// matching row is not an error.
func (r *MessagesRepo) DeleteBySession(ctx context.Context, sessionID string) error {
	query := `DELETE FROM messages
		WHERE id = (SELECT id FROM messages WHERE session_id = ? ORDER BY id DESC LIMIT 1)`

	if _, err := r.db.ExecContext(ctx, query, sessionID); err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}

func (r *MessagesRepo) LastFromCustomer(ctx context.Context, customerID int64, from string) (*core.Message, error) {
	query := `SELECT id, customer_id, type, origin, content, sender, fingerprint, session_id, created_at
		FROM messages WHERE customer_id = ? AND sender = ?
		ORDER BY created_at DESC, id DESC LIMIT 1`

	var msg core.Message
	row := r.db.QueryRowContext(ctx, query, customerID, from)
	err := row.Scan(&msg.ID, &msg.CustomerID, &msg.Type, &msg.Origin, &msg.Content,
		&msg.From, &msg.Fingerprint, &msg.SessionID, &msg.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query last message: %w", err)
	}
	return &msg, nil
}

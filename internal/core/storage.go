package core

import "context"

type CustomersRepository interface {
	// GetOrCreate resolves the customer for an external chat identity,
	// creating it on first contact. Idempotent under concurrent calls: the
	// store enforces uniqueness of the crisp user id.
	GetOrCreate(ctx context.Context, crispUserID, nickname string) (Customer, error)
	All(ctx context.Context) ([]Customer, error)
}

type MessagesRepository interface {
	// Add persists the message unless its fingerprint is already present.
	// Returns false when the insert was suppressed by the uniqueness
	// constraint, i.e. the event was a redelivery.
	Add(ctx context.Context, msg Message) (bool, error)
	// UpdateContentBySession replaces the content of the newest message in
	// the session. No-op when the session has no messages.
	UpdateContentBySession(ctx context.Context, sessionID, content string) error
	// DeleteBySession removes the newest message in the session. No-op when
	// the session has no messages.
	DeleteBySession(ctx context.Context, sessionID string) error
	// LastFromCustomer returns the customer's most recent message with the
	// given sender role, or nil when none exists.
	LastFromCustomer(ctx context.Context, customerID int64, from string) (*Message, error)
}

type MemoriesRepository interface {
	Add(ctx context.Context, m Memory) error
	// Latest returns the newest memory for the key, or nil when none exists.
	Latest(ctx context.Context, customerID int64, key string) (*Memory, error)
}

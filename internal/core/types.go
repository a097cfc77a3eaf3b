package core

import "time"

const (
	AppName      = "RelanceBot"
	AppUserAgent = "RelanceBot/0.1"
	AppVersion   = "0.1.0"
)

const (
	RoleUser     = "user"
	RoleOperator = "operator"

	OriginChat = "chat"
	TypeText   = "text"
)

// Customer is one identity in the external chat system. Created on first
// contact, never deleted.
type Customer struct {
	ID          int64     `json:"id"`
	CrispUserID string    `json:"crisp_user_id"`
	Nickname    string    `json:"nickname"`
	CreatedAt   time.Time `json:"created_at"`
}

// Message is one chat message as delivered by the provider. Fingerprint is
// the provider-issued dedup key, unique across all messages.
type Message struct {
	ID          int64     `json:"id"`
	CustomerID  int64     `json:"customer_id"`
	Type        string    `json:"type"`
	Origin      string    `json:"origin"`
	Content     string    `json:"content"`
	From        string    `json:"from"`
	Fingerprint string    `json:"fingerprint"`
	SessionID   string    `json:"session_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// Memory is a tag-keyed fact distilled from a customer's message.
// Append-only: the current value for a key is the newest row.
type Memory struct {
	ID         int64     `json:"id"`
	CustomerID int64     `json:"customer_id"`
	Key        string    `json:"key"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

// EventUser identifies the sender inside an inbound message event.
type EventUser struct {
	UserID   string `json:"user_id"`
	Nickname string `json:"nickname"`
}

// MessageEvent is the payload of a message:send webhook.
type MessageEvent struct {
	Type        string    `json:"type"`
	Origin      string    `json:"origin"`
	Content     string    `json:"content"`
	From        string    `json:"from"`
	Fingerprint int64     `json:"fingerprint"`
	SessionID   string    `json:"session_id"`
	User        EventUser `json:"user"`
}

// MessageUpdatedEvent is the payload of a message:updated webhook.
type MessageUpdatedEvent struct {
	SessionID string `json:"session_id"`
	Content   string `json:"content"`
}

// MessageRemovedEvent is the payload of a message:removed webhook.
type MessageRemovedEvent struct {
	SessionID string `json:"session_id"`
}

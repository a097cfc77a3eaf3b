package core

import "context"

// Summarizer compresses arbitrary text into a short digest.
type Summarizer interface {
	Summarize(ctx context.Context, prompt string) (string, error)
}

// OutboundMessage is the body posted into a provider conversation.
type OutboundMessage struct {
	Type    string `json:"type"`
	From    string `json:"from"`
	Origin  string `json:"origin"`
	Content string `json:"content"`
}

// ChatProvider is the outbound capability of the chat platform.
type ChatProvider interface {
	ConversationExists(ctx context.Context, sessionID string) (bool, error)
	PostMessage(ctx context.Context, sessionID string, msg OutboundMessage) error
}

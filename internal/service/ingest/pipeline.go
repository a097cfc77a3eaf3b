// Package ingest normalizes inbound chat events into customer and message
// records and triggers memory capture on recognized tags.
package ingest

import (
	"context"
	"fmt"
	"strconv"

	"github.com/sandevgo/relancebot/internal/core"
	"github.com/sandevgo/relancebot/pkg/log"
)

// MemoryCapturer persists a tagged fact for a customer.
type MemoryCapturer interface {
	Capture(ctx context.Context, customer core.Customer, tag, content string) error
}

type Pipeline struct {
	customers core.CustomersRepository
	messages  core.MessagesRepository
	capturer  MemoryCapturer
}

func NewPipeline(
	customers core.CustomersRepository,
	messages core.MessagesRepository,
	capturer MemoryCapturer,
) *Pipeline {
	return &Pipeline{
		customers: customers,
		messages:  messages,
		capturer:  capturer,
	}
}

// ProcessMessage ingests one message:send event. Events missing the sender
// identity are dropped without error (data-quality guard); redelivered
// fingerprints are a no-op. A memory capture failure fails the whole call.
func (p *Pipeline) ProcessMessage(ctx context.Context, ev core.MessageEvent) error {
	logger := log.FromCtx(ctx)

	if ev.User.UserID == "" || ev.User.Nickname == "" {
		logger.Warn().Str("session_id", ev.SessionID).Msg("user id or nickname missing, dropping event")
		return nil
	}

	customer, err := p.customers.GetOrCreate(ctx, ev.User.UserID, ev.User.Nickname)
	if err != nil {
		return fmt.Errorf("resolve customer: %w", err)
	}

	created, err := p.messages.Add(ctx, core.Message{
		CustomerID:  customer.ID,
		Type:        ev.Type,
		Origin:      ev.Origin,
		Content:     ev.Content,
		From:        ev.From,
		Fingerprint: strconv.FormatInt(ev.Fingerprint, 10),
		SessionID:   ev.SessionID,
	})
	if err != nil {
		return fmt.Errorf("persist message: %w", err)
	}
	if !created {
		return nil
	}

	tag := ExtractTag(ev.Content)
	if tag == "" || !IsRecognized(tag) {
		return nil
	}

	if err := p.capturer.Capture(ctx, customer, tag, ev.Content); err != nil {
		return fmt.Errorf("capture memory: %w", err)
	}
	return nil
}

// UpdateMessage applies a message:updated event. Best-effort: a session with
// no stored messages is left alone.
func (p *Pipeline) UpdateMessage(ctx context.Context, ev core.MessageUpdatedEvent) error {
	log.FromCtx(ctx).Debug().Str("session_id", ev.SessionID).Msg("processing updated message")
	return p.messages.UpdateContentBySession(ctx, ev.SessionID, ev.Content)
}

// RemoveMessage applies a message:removed event. Best-effort like UpdateMessage.
func (p *Pipeline) RemoveMessage(ctx context.Context, ev core.MessageRemovedEvent) error {
	log.FromCtx(ctx).Debug().Str("session_id", ev.SessionID).Msg("processing removed message")
	return p.messages.DeleteBySession(ctx, ev.SessionID)
}

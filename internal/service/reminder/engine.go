// Package reminder decides, per customer, whether a re-engagement message is
// due and sends it. Staleness is always recomputed from the message log, so
// re-running a sweep is harmless: reminders go out as operator messages and
// never reset the customer's staleness clock.
package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/sandevgo/relancebot/internal/core"
	"github.com/sandevgo/relancebot/pkg/log"
)

const (
	// staleAfter is how long a customer must stay quiet before a follow-up.
	staleAfter = 3 * 24 * time.Hour

	nextStepsKey = "nextsteps"

	nudgePromptFormat = `Écris un SMS simple, sans mention de noms, pour relancer un client et lui demander s'il a appliqué nos instructions : "%s"`

	fallbackMessage = "Bonjour ! Je voulais savoir si vous aviez eu le temps d'avancer sur notre projet. N'hésitez pas à me dire si vous avez besoin de quoi que ce soit. Bonne journée !"
)

type Engine struct {
	customers core.CustomersRepository
	messages  core.MessagesRepository
	memories  core.MemoriesRepository
	chat      core.ChatProvider
	ai        core.Summarizer

	now func() time.Time
}

func NewEngine(
	customers core.CustomersRepository,
	messages core.MessagesRepository,
	memories core.MemoriesRepository,
	chat core.ChatProvider,
	ai core.Summarizer,
) *Engine {
	return &Engine{
		customers: customers,
		messages:  messages,
		memories:  memories,
		chat:      chat,
		ai:        ai,
		now:       time.Now,
	}
}

// Sweep runs one pass over all customers. A failure enumerating customers
// ends the sweep early; a failure evaluating or messaging one customer is
// logged and never blocks the rest.
func (e *Engine) Sweep(ctx context.Context) {
	logger := log.FromCtx(ctx)

	customers, err := e.customers.All(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("reminder sweep aborted: failed to list customers")
		return
	}

	logger.Debug().Int("customers", len(customers)).Msg("reminder sweep started")

	for _, customer := range customers {
		if err := e.evaluate(ctx, customer); err != nil {
			logger.Error().Err(err).
				Str("crisp_user_id", customer.CrispUserID).
				Msg("reminder evaluation failed")
		}
	}
}

func (e *Engine) evaluate(ctx context.Context, customer core.Customer) error {
	logger := log.FromCtx(ctx)

	last, err := e.messages.LastFromCustomer(ctx, customer.ID, core.RoleUser)
	if err != nil {
		return fmt.Errorf("last user message: %w", err)
	}
	if last == nil {
		// Never heard from this customer, nothing to react to
		return nil
	}

	if e.now().Sub(last.CreatedAt) < staleAfter {
		return nil
	}

	alive, err := e.chat.ConversationExists(ctx, last.SessionID)
	if err != nil {
		return fmt.Errorf("liveness probe: %w", err)
	}
	if !alive {
		logger.Debug().
			Str("session_id", last.SessionID).
			Msg("conversation gone upstream, skipping reminder")
		return nil
	}

	content, err := e.compose(ctx, customer)
	if err != nil {
		return err
	}

	err = e.chat.PostMessage(ctx, last.SessionID, core.OutboundMessage{
		Type:    core.TypeText,
		From:    core.RoleOperator,
		Origin:  core.OriginChat,
		Content: content,
	})
	if err != nil {
		return fmt.Errorf("send reminder: %w", err)
	}

	logger.Info().
		Str("crisp_user_id", customer.CrispUserID).
		Str("session_id", last.SessionID).
		Msg("reminder sent")
	return nil
}

// compose builds the nudge text: an SMS-style follow-up generated from the
// customer's current nextsteps memory, or the fixed fallback when no such
// memory exists.
func (e *Engine) compose(ctx context.Context, customer core.Customer) (string, error) {
	next, err := e.memories.Latest(ctx, customer.ID, nextStepsKey)
	if err != nil {
		return "", fmt.Errorf("nextsteps memory: %w", err)
	}
	if next == nil {
		return fallbackMessage, nil
	}

	content, err := e.ai.Summarize(ctx, fmt.Sprintf(nudgePromptFormat, next.Content))
	if err != nil {
		return "", fmt.Errorf("compose nudge: %w", err)
	}
	return content, nil
}

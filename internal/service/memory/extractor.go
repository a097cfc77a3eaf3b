// Package memory turns tagged message content into durable, per-customer
// facts through the summarization capability.
package memory

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandevgo/relancebot/internal/core"
	"github.com/sandevgo/relancebot/pkg/log"
)

const summarizeInstruction = "Résume ça d'une manière simple à comprendre, courte et précise : "

type Extractor struct {
	memories core.MemoriesRepository
	ai       core.Summarizer
}

func NewExtractor(memories core.MemoriesRepository, ai core.Summarizer) *Extractor {
	return &Extractor{
		memories: memories,
		ai:       ai,
	}
}

// Capture strips the tag from the content, summarizes the remainder and
// appends a memory row keyed by the tag name without its marker. A
// summarizer failure propagates to the caller; it is not swallowed.
func (e *Extractor) Capture(ctx context.Context, customer core.Customer, tag, content string) error {
	stripped := strings.Replace(content, tag, "", 1)

	summary, err := e.ai.Summarize(ctx, summarizeInstruction+stripped)
	if err != nil {
		return fmt.Errorf("summarize: %w", err)
	}

	key := strings.TrimPrefix(tag, "#")
	if err := e.memories.Add(ctx, core.Memory{
		CustomerID: customer.ID,
		Key:        key,
		Content:    summary,
	}); err != nil {
		return fmt.Errorf("save memory: %w", err)
	}

	log.FromCtx(ctx).Info().Str("key", key).Int64("customer_id", customer.ID).Msg("memory captured")
	return nil
}

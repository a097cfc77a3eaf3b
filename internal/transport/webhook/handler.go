package webhook

import (
	"encoding/json"
	"net/http"

	"github.com/sandevgo/relancebot/internal/core"
	"github.com/sandevgo/relancebot/internal/service/ingest"
	"github.com/sandevgo/relancebot/pkg/log"
)

const (
	eventMessageSend    = "message:send"
	eventMessageUpdated = "message:updated"
	eventMessageRemoved = "message:removed"
)

type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type handler struct {
	pipeline *ingest.Pipeline
}

// handleEvent answers 200 for malformed or unknown events so the provider
// does not redeliver them, and 500 for ingestion failures so it does;
// fingerprint dedup makes redelivery safe.
func (h *handler) handleEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.FromCtx(ctx)

	var env envelope
	if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
		logger.Warn().Err(err).Msg("malformed webhook payload")
		w.WriteHeader(http.StatusOK)
		return
	}

	decode := func(v any) bool {
		if err := json.Unmarshal(env.Data, v); err != nil {
			logger.Warn().Err(err).Str("event", env.Event).Msg("malformed event data")
			return false
		}
		return true
	}

	var err error
	switch env.Event {
	case eventMessageSend:
		var ev core.MessageEvent
		if !decode(&ev) {
			w.WriteHeader(http.StatusOK)
			return
		}
		err = h.pipeline.ProcessMessage(ctx, ev)
	case eventMessageUpdated:
		var ev core.MessageUpdatedEvent
		if !decode(&ev) {
			w.WriteHeader(http.StatusOK)
			return
		}
		err = h.pipeline.UpdateMessage(ctx, ev)
	case eventMessageRemoved:
		var ev core.MessageRemovedEvent
		if !decode(&ev) {
			w.WriteHeader(http.StatusOK)
			return
		}
		err = h.pipeline.RemoveMessage(ctx, ev)
	default:
		logger.Debug().Str("event", env.Event).Msg("ignoring webhook event")
		w.WriteHeader(http.StatusOK)
		return
	}

	if err != nil {
		logger.Error().Err(err).Str("event", env.Event).Msg("webhook processing failed")
		http.Error(w, "processing failed", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}

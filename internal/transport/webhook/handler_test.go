package webhook

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sandevgo/relancebot/internal/core"
	"github.com/sandevgo/relancebot/internal/service/ingest"
)

type memCustomers struct{}

func (memCustomers) GetOrCreate(ctx context.Context, crispUserID, nickname string) (core.Customer, error) {
	return core.Customer{ID: 1, CrispUserID: crispUserID, Nickname: nickname}, nil
}

func (memCustomers) All(ctx context.Context) ([]core.Customer, error) {
	return nil, nil
}

type memMessages struct {
	added   []core.Message
	updated []string
	deleted []string
}

func (m *memMessages) Add(ctx context.Context, msg core.Message) (bool, error) {
	m.added = append(m.added, msg)
	return true, nil
}

func (m *memMessages) UpdateContentBySession(ctx context.Context, sessionID, content string) error {
	m.updated = append(m.updated, sessionID)
	return nil
}

func (m *memMessages) DeleteBySession(ctx context.Context, sessionID string) error {
	m.deleted = append(m.deleted, sessionID)
	return nil
}

func (m *memMessages) LastFromCustomer(ctx context.Context, customerID int64, from string) (*core.Message, error) {
	return nil, nil
}

type stubCapturer struct {
	err   error
	calls int
}

func (s *stubCapturer) Capture(ctx context.Context, customer core.Customer, tag, content string) error {
	s.calls++
	return s.err
}

func postEvent(t *testing.T, h *handler, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/hooks/crisp", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.handleEvent(rec, req)
	return rec
}

func TestHandleEvent_MessageSend(t *testing.T) {
	messages := &memMessages{}
	h := &handler{pipeline: ingest.NewPipeline(memCustomers{}, messages, &stubCapturer{})}

	body := `{"event":"message:send","data":{
		"type":"text","origin":"chat","content":"Bonjour","from":"user",
		"fingerprint":164051000001,"session_id":"session_abc",
		"user":{"user_id":"user_1","nickname":"Alice"}}}`

	rec := postEvent(t, h, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if len(messages.added) != 1 {
		t.Fatalf("expected one stored message, got %d", len(messages.added))
	}
	if messages.added[0].Fingerprint != "164051000001" {
		t.Errorf("fingerprint = %q", messages.added[0].Fingerprint)
	}
}

func TestHandleEvent_UpdatedAndRemoved(t *testing.T) {
	messages := &memMessages{}
	h := &handler{pipeline: ingest.NewPipeline(memCustomers{}, messages, &stubCapturer{})}

	rec := postEvent(t, h, `{"event":"message:updated","data":{"session_id":"session_abc","content":"édité"}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if len(messages.updated) != 1 {
		t.Errorf("expected one update, got %d", len(messages.updated))
	}

	rec = postEvent(t, h, `{"event":"message:removed","data":{"session_id":"session_abc"}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if len(messages.deleted) != 1 {
		t.Errorf("expected one delete, got %d", len(messages.deleted))
	}
}

func TestHandleEvent_AcknowledgesJunk(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"event":`},
		{"unknown event", `{"event":"session:set_state","data":{}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			messages := &memMessages{}
			h := &handler{pipeline: ingest.NewPipeline(memCustomers{}, messages, &stubCapturer{})}

			rec := postEvent(t, h, tt.body)
			// 200 so the provider never redelivers what we cannot use
			if rec.Code != http.StatusOK {
				t.Errorf("status = %d, want 200", rec.Code)
			}
			if len(messages.added) != 0 {
				t.Errorf("expected nothing stored, got %d", len(messages.added))
			}
		})
	}
}

func TestHandleEvent_IngestionFailureAsksForRedelivery(t *testing.T) {
	capturer := &stubCapturer{err: errors.New("summarizer down")}
	h := &handler{pipeline: ingest.NewPipeline(memCustomers{}, &memMessages{}, capturer)}

	body := `{"event":"message:send","data":{
		"type":"text","origin":"chat","content":"Bonjour #tips faites ceci","from":"user",
		"fingerprint":42,"session_id":"session_abc",
		"user":{"user_id":"user_1","nickname":"Alice"}}}`

	rec := postEvent(t, h, body)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500 so the provider retries", rec.Code)
	}
	if capturer.calls != 1 {
		t.Errorf("expected one capture attempt, got %d", capturer.calls)
	}
}

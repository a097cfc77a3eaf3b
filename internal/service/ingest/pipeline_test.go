package ingest

import (
	"context"
	"errors"
	"testing"

	"github.com/sandevgo/relancebot/internal/core"
)

type fakeCustomers struct {
	customers map[string]core.Customer
	nextID    int64
	err       error
}

func newFakeCustomers() *fakeCustomers {
	return &fakeCustomers{customers: make(map[string]core.Customer)}
}

func (f *fakeCustomers) GetOrCreate(ctx context.Context, crispUserID, nickname string) (core.Customer, error) {
	if f.err != nil {
		return core.Customer{}, f.err
	}
	if c, ok := f.customers[crispUserID]; ok {
		return c, nil
	}
	f.nextID++
	c := core.Customer{ID: f.nextID, CrispUserID: crispUserID, Nickname: nickname}
	f.customers[crispUserID] = c
	return c, nil
}

func (f *fakeCustomers) All(ctx context.Context) ([]core.Customer, error) {
	var out []core.Customer
	for _, c := range f.customers {
		out = append(out, c)
	}
	return out, nil
}

type fakeMessages struct {
	byFingerprint map[string]core.Message
	updated       map[string]string
	deleted       []string
	addErr        error
}

func newFakeMessages() *fakeMessages {
	return &fakeMessages{
		byFingerprint: make(map[string]core.Message),
		updated:       make(map[string]string),
	}
}

func (f *fakeMessages) Add(ctx context.Context, msg core.Message) (bool, error) {
	if f.addErr != nil {
		return false, f.addErr
	}
	if _, ok := f.byFingerprint[msg.Fingerprint]; ok {
		return false, nil
	}
	f.byFingerprint[msg.Fingerprint] = msg
	return true, nil
}

func (f *fakeMessages) UpdateContentBySession(ctx context.Context, sessionID, content string) error {
	f.updated[sessionID] = content
	return nil
}

func (f *fakeMessages) DeleteBySession(ctx context.Context, sessionID string) error {
	f.deleted = append(f.deleted, sessionID)
	return nil
}

func (f *fakeMessages) LastFromCustomer(ctx context.Context, customerID int64, from string) (*core.Message, error) {
	return nil, nil
}

type capturedFact struct {
	customer core.Customer
	tag      string
	content  string
}

type fakeCapturer struct {
	captured []capturedFact
	err      error
}

func (f *fakeCapturer) Capture(ctx context.Context, customer core.Customer, tag, content string) error {
	if f.err != nil {
		return f.err
	}
	f.captured = append(f.captured, capturedFact{customer: customer, tag: tag, content: content})
	return nil
}

func validEvent() core.MessageEvent {
	return core.MessageEvent{
		Type:        core.TypeText,
		Origin:      core.OriginChat,
		Content:     "Bonjour",
		From:        core.RoleUser,
		Fingerprint: 164051_000001,
		SessionID:   "session_abc",
		User:        core.EventUser{UserID: "user_1", Nickname: "Alice"},
	}
}

func TestProcessMessage_ValidationGuard(t *testing.T) {
	tests := []struct {
		name     string
		userID   string
		nickname string
	}{
		{"missing user id", "", "Alice"},
		{"missing nickname", "user_1", ""},
		{"both missing", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			customers := newFakeCustomers()
			messages := newFakeMessages()
			p := NewPipeline(customers, messages, &fakeCapturer{})

			ev := validEvent()
			ev.User = core.EventUser{UserID: tt.userID, Nickname: tt.nickname}

			if err := p.ProcessMessage(context.Background(), ev); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(customers.customers) != 0 {
				t.Errorf("expected no customer rows, got %d", len(customers.customers))
			}
			if len(messages.byFingerprint) != 0 {
				t.Errorf("expected no message rows, got %d", len(messages.byFingerprint))
			}
		})
	}
}

func TestProcessMessage_IdempotentOnFingerprint(t *testing.T) {
	customers := newFakeCustomers()
	messages := newFakeMessages()
	capturer := &fakeCapturer{}
	p := NewPipeline(customers, messages, capturer)

	ev := validEvent()
	ev.Content = "Bonjour #tips faites ceci"

	if err := p.ProcessMessage(context.Background(), ev); err != nil {
		t.Fatalf("first ingestion failed: %v", err)
	}
	if err := p.ProcessMessage(context.Background(), ev); err != nil {
		t.Fatalf("second ingestion failed: %v", err)
	}

	if len(messages.byFingerprint) != 1 {
		t.Errorf("expected exactly one message row, got %d", len(messages.byFingerprint))
	}
	if len(customers.customers) != 1 {
		t.Errorf("expected exactly one customer row, got %d", len(customers.customers))
	}
	// Redelivery must not re-trigger memory capture
	if len(capturer.captured) != 1 {
		t.Errorf("expected one capture, got %d", len(capturer.captured))
	}
}

func TestProcessMessage_TagRouting(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		wantCapture bool
		wantTag     string
	}{
		{"recognized tag", "Bonjour #tips faites ceci", true, "#tips"},
		{"nextsteps tag", "à faire #nextsteps rappeler lundi", true, "#nextsteps"},
		{"no tag", "Bonjour sans tag", false, ""},
		{"unrecognized tag", "voir #autre", false, ""},
		{"two tags never match", "#tips puis #warnings", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			capturer := &fakeCapturer{}
			p := NewPipeline(newFakeCustomers(), newFakeMessages(), capturer)

			ev := validEvent()
			ev.Content = tt.content

			if err := p.ProcessMessage(context.Background(), ev); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if !tt.wantCapture {
				if len(capturer.captured) != 0 {
					t.Fatalf("expected no capture, got %d", len(capturer.captured))
				}
				return
			}
			if len(capturer.captured) != 1 {
				t.Fatalf("expected one capture, got %d", len(capturer.captured))
			}
			got := capturer.captured[0]
			if got.tag != tt.wantTag {
				t.Errorf("captured tag = %q, want %q", got.tag, tt.wantTag)
			}
			if got.content != tt.content {
				t.Errorf("captured content = %q, want %q", got.content, tt.content)
			}
		})
	}
}

func TestProcessMessage_CaptureFailurePropagates(t *testing.T) {
	capturer := &fakeCapturer{err: errors.New("summarizer down")}
	p := NewPipeline(newFakeCustomers(), newFakeMessages(), capturer)

	ev := validEvent()
	ev.Content = "Bonjour #tips faites ceci"

	if err := p.ProcessMessage(context.Background(), ev); err == nil {
		t.Fatal("expected ingestion to fail when memory capture fails")
	}
}

func TestUpdateAndRemoveMessage(t *testing.T) {
	messages := newFakeMessages()
	p := NewPipeline(newFakeCustomers(), messages, &fakeCapturer{})

	err := p.UpdateMessage(context.Background(), core.MessageUpdatedEvent{
		SessionID: "session_abc",
		Content:   "nouveau contenu",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if messages.updated["session_abc"] != "nouveau contenu" {
		t.Errorf("update not applied: %v", messages.updated)
	}

	err = p.RemoveMessage(context.Background(), core.MessageRemovedEvent{SessionID: "session_abc"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(messages.deleted) != 1 || messages.deleted[0] != "session_abc" {
		t.Errorf("delete not applied: %v", messages.deleted)
	}
}

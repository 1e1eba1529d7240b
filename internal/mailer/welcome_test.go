package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/jitendra-ky/klb-assignment/internal/queue"
)

// fakeMailer records every message instead of delivering it.
type fakeMailer struct {
	sent []sentMessage
	err  error
}

type sentMessage struct {
	subject, body, from, to string
}

func (f *fakeMailer) Send(subject, body, from, to string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMessage{subject, body, from, to})
	return nil
}

func newTestJobHandler(m Mailer) *JobHandler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewJobHandler(m, "noreply@example.com", logger)
}

func TestHandle_WelcomeEmail(t *testing.T) {
	fake := &fakeMailer{}
	h := newTestJobHandler(fake)

	payload, _ := json.Marshal(queue.WelcomeEmailPayload{Email: "testuser@example.com"})
	if err := h.Handle(context.Background(), queue.JobSendWelcomeEmail, payload); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	if len(fake.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(fake.sent))
	}
	msg := fake.sent[0]
	if msg.to != "testuser@example.com" || msg.from != "noreply@example.com" {
		t.Errorf("message addressing = %+v", msg)
	}
	if msg.subject != WelcomeSubject || msg.body != WelcomeBody {
		t.Errorf("message content = %+v", msg)
	}
}

func TestHandle_UnknownJobDropped(t *testing.T) {
	fake := &fakeMailer{}
	h := newTestJobHandler(fake)

	if err := h.Handle(context.Background(), "resize_avatar", json.RawMessage(`{}`)); err != nil {
		t.Fatalf("Handle(unknown job) error = %v, want nil", err)
	}
	if len(fake.sent) != 0 {
		t.Errorf("sent %d messages, want 0", len(fake.sent))
	}
}

func TestHandle_BadPayload(t *testing.T) {
	fake := &fakeMailer{}
	h := newTestJobHandler(fake)

	err := h.Handle(context.Background(), queue.JobSendWelcomeEmail, json.RawMessage(`not json`))
	if err == nil {
		t.Fatal("Handle(bad payload) should fail")
	}
	if len(fake.sent) != 0 {
		t.Errorf("sent %d messages, want 0", len(fake.sent))
	}
}

func TestHandle_SendFailurePropagates(t *testing.T) {
	wantErr := errors.New("relay down")
	h := newTestJobHandler(&fakeMailer{err: wantErr})

	payload, _ := json.Marshal(queue.WelcomeEmailPayload{Email: "testuser@example.com"})
	if err := h.Handle(context.Background(), queue.JobSendWelcomeEmail, payload); !errors.Is(err, wantErr) {
		t.Errorf("Handle() error = %v, want %v", err, wantErr)
	}
}

// Package queue provides the asynchronous job dispatcher and its RabbitMQ
// implementation.
//
// The request path only ever calls Dispatcher.Enqueue and treats the result
// as best-effort: a registration must succeed even when the broker is down.
// The worker binary consumes the same queue and performs the jobs.
package queue

import "context"

// Job names carried in the message envelope.
const (
	JobSendWelcomeEmail = "send_welcome_email"
)

// WelcomeEmailPayload is the payload of a send_welcome_email job.
type WelcomeEmailPayload struct {
	Email string `json:"email"`
}

// Dispatcher hands a named job to the asynchronous worker pool.
// Implementations serialize the payload and must not block the caller
// beyond a short publish timeout.
type Dispatcher interface {
	Enqueue(ctx context.Context, job string, payload any) error
}

// Nop is a Dispatcher that discards every job. Injected in tests and used
// by the server when no broker is configured.
type Nop struct{}

// Enqueue implements Dispatcher by doing nothing.
func (Nop) Enqueue(ctx context.Context, job string, payload any) error {
	return nil
}

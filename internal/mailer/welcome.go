package mailer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jitendra-ky/klb-assignment/internal/queue"
)

// Welcome email content sent after a successful registration.
const (
	WelcomeSubject = "Welcome to our platform!"
	WelcomeBody    = "Hi there! Thanks for registering."
)

// JobHandler dispatches queued jobs to the Mailer. It implements
// queue.Handler for the worker binary.
type JobHandler struct {
	mailer Mailer
	from   string
	logger *slog.Logger
}

// NewJobHandler creates a JobHandler sending from the given address.
func NewJobHandler(m Mailer, from string, logger *slog.Logger) *JobHandler {
	return &JobHandler{mailer: m, from: from, logger: logger}
}

// Handle performs one queued job. Unknown job names are logged and dropped.
func (h *JobHandler) Handle(ctx context.Context, job string, payload json.RawMessage) error {
	switch job {
	case queue.JobSendWelcomeEmail:
		var p queue.WelcomeEmailPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return fmt.Errorf("mailer: decoding %s payload: %w", job, err)
		}
		if err := h.mailer.Send(WelcomeSubject, WelcomeBody, h.from, p.Email); err != nil {
			return err
		}
		h.logger.Info("welcome email sent", slog.String("to", p.Email))
		return nil
	default:
		h.logger.Warn("unknown job", slog.String("job", job))
		return nil
	}
}

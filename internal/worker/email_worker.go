package worker

import (
	"context"
	"encoding/json"
	"errors"

	"interfaz/internal/infra"

	"github.com/rs/zerolog/log"
)

// EmailJobPayload is the job envelope sent to QueueEmail.
type EmailJobPayload struct {
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
}

// Sender is satisfied by *infra.Mailer.
type Sender interface {
	Send(to []string, subject, body string) error
}

// EmailWorker delivers notification mails through the SMTP circuit breaker.
type EmailWorker struct {
	mailer Sender
	cb     *infra.CircuitBreaker
}

func NewEmailWorker(mailer Sender, cb *infra.CircuitBreaker) *EmailWorker {
	return &EmailWorker{mailer: mailer, cb: cb}
}

// Process returns an error only for failures worth retrying. Malformed
// payloads and an unconfigured SMTP server are logged and dropped.
func (w *EmailWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return nil
	}
	if len(payload.To) == 0 {
		log.Warn().Msg("email_worker: sin destinatarios: skipping")
		return nil
	}

	err := w.cb.Execute(func() error {
		return w.mailer.Send(payload.To, payload.Subject, payload.Body)
	})
	switch {
	case err == nil:
		log.Info().Strs("to", payload.To).Str("subject", payload.Subject).Msg("email_worker: enviado")
		return nil
	case errors.Is(err, infra.ErrSMTPNoConfigurado):
		log.Warn().Str("subject", payload.Subject).Msg("email_worker: smtp no configurado, mail descartado")
		return nil
	default:
		return err
	}
}

package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"interfaz/internal/infra"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	err    error
	llamos int
	to     []string
}

func (f *fakeSender) Send(to []string, _, _ string) error {
	f.llamos++
	f.to = to
	return f.err
}

func nuevoBreaker() *infra.CircuitBreaker {
	return infra.NewCircuitBreaker(infra.CircuitBreakerConfig{
		Nombre:           "smtp-test",
		FailureThreshold: 2,
		SuccessThreshold: 1,
		OpenTimeout:      time.Hour,
	})
}

func payload(t *testing.T, p EmailJobPayload) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(p)
	require.NoError(t, err)
	return raw
}

func TestEmailWorker_Envia(t *testing.T) {
	sender := &fakeSender{}
	w := NewEmailWorker(sender, nuevoBreaker())

	err := w.Process(context.Background(), payload(t, EmailJobPayload{To: []string{"a@b.com"}, Subject: "s", Body: "b"}))

	require.NoError(t, err)
	assert.Equal(t, 1, sender.llamos)
	assert.Equal(t, []string{"a@b.com"}, sender.to)
}

func TestEmailWorker_PayloadInvalidoSeDescarta(t *testing.T) {
	sender := &fakeSender{}
	w := NewEmailWorker(sender, nuevoBreaker())

	assert.NoError(t, w.Process(context.Background(), json.RawMessage(`{"to":`)))
	assert.NoError(t, w.Process(context.Background(), payload(t, EmailJobPayload{Subject: "sin destino"})))
	assert.Zero(t, sender.llamos)
}

func TestEmailWorker_SMTPNoConfigurado(t *testing.T) {
	w := NewEmailWorker(&fakeSender{err: infra.ErrSMTPNoConfigurado}, nuevoBreaker())

	err := w.Process(context.Background(), payload(t, EmailJobPayload{To: []string{"a@b.com"}}))
	assert.NoError(t, err)
}

func TestEmailWorker_FalloSeReintentaYAbreElBreaker(t *testing.T) {
	sender := &fakeSender{err: errors.New("connection refused")}
	w := NewEmailWorker(sender, nuevoBreaker())
	raw := payload(t, EmailJobPayload{To: []string{"a@b.com"}})

	assert.Error(t, w.Process(context.Background(), raw))
	assert.Error(t, w.Process(context.Background(), raw))

	err := w.Process(context.Background(), raw)
	assert.ErrorIs(t, err, infra.ErrCircuitOpen)
	assert.Equal(t, 2, sender.llamos)
}

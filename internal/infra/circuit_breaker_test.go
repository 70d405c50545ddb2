package infra

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errFallo = errors.New("smtp caido")

func breakerConReloj(t *testing.T) (*CircuitBreaker, *time.Time) {
	t.Helper()
	ahora := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		Nombre:           "test",
		FailureThreshold: 3,
		SuccessThreshold: 2,
		OpenTimeout:      30 * time.Second,
	})
	cb.now = func() time.Time { return ahora }
	return cb, &ahora
}

func fallar() error { return errFallo }

func funcionar() error { return nil }

func TestCircuitBreaker_AbreTrasFallosConsecutivos(t *testing.T) {
	cb, _ := breakerConReloj(t)

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, cb.Execute(fallar), errFallo)
	}
	assert.Equal(t, CBOpen, cb.State())

	llamado := false
	err := cb.Execute(func() error { llamado = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, llamado)
}

func TestCircuitBreaker_ExitoReiniciaElConteo(t *testing.T) {
	cb, _ := breakerConReloj(t)

	_ = cb.Execute(fallar)
	_ = cb.Execute(fallar)
	require.NoError(t, cb.Execute(funcionar))
	_ = cb.Execute(fallar)

	assert.Equal(t, CBClosed, cb.State())
}

func TestCircuitBreaker_HalfOpenCierraTrasExitos(t *testing.T) {
	cb, ahora := breakerConReloj(t)
	for i := 0; i < 3; i++ {
		_ = cb.Execute(fallar)
	}

	*ahora = ahora.Add(31 * time.Second)
	assert.Equal(t, CBHalfOpen, cb.State())

	require.NoError(t, cb.Execute(funcionar))
	assert.Equal(t, CBHalfOpen, cb.State())
	require.NoError(t, cb.Execute(funcionar))
	assert.Equal(t, CBClosed, cb.State())
}

func TestCircuitBreaker_FalloEnHalfOpenReabre(t *testing.T) {
	cb, ahora := breakerConReloj(t)
	for i := 0; i < 3; i++ {
		_ = cb.Execute(fallar)
	}
	*ahora = ahora.Add(time.Minute)

	assert.ErrorIs(t, cb.Execute(fallar), errFallo)
	assert.Equal(t, CBOpen, cb.State())
}

func TestCBState_String(t *testing.T) {
	assert.Equal(t, "closed", CBClosed.String())
	assert.Equal(t, "open", CBOpen.String())
	assert.Equal(t, "half-open", CBHalfOpen.String())
	assert.Equal(t, "unknown", CBState(9).String())
}

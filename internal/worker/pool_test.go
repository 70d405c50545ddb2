package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackoff(t *testing.T) {
	assert.Equal(t, 2*time.Second, Backoff(0))
	assert.Equal(t, 2*time.Second, Backoff(1))
	assert.Equal(t, 4*time.Second, Backoff(2))
	assert.Equal(t, 32*time.Second, Backoff(5))
	assert.Equal(t, time.Minute, Backoff(6))
	assert.Equal(t, time.Minute, Backoff(100))
}

func TestDispatcher_SinRedisDescarta(t *testing.T) {
	d := NewDispatcher(nil)
	assert.NoError(t, d.EnqueueEmail(context.Background(), EmailJobPayload{To: []string{"a@b.com"}}))

	var nilDispatcher *Dispatcher
	assert.NoError(t, nilDispatcher.EnqueueEmail(context.Background(), EmailJobPayload{}))
}

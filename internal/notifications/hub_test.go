package notifications

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_RegisterAndUnregister(t *testing.T) {
	hub := NewHub()

	a, err := hub.Register("acc-1", nil)
	require.NoError(t, err)
	_, err = hub.Register("acc-1", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, hub.Count())

	hub.UnregisterClient(a)
	hub.UnregisterClient(a)
	assert.Equal(t, 1, hub.Count())

	_, open := <-a.Send
	assert.False(t, open, "send channel should be closed on unregister")
}

func TestHub_PerUserLimit(t *testing.T) {
	hub := NewHub()

	for i := 0; i < maxConnsPerUser; i++ {
		_, err := hub.Register("acc-1", nil)
		require.NoError(t, err)
	}
	_, err := hub.Register("acc-1", nil)
	assert.ErrorIs(t, err, ErrUserFull)

	_, err = hub.Register("acc-2", nil)
	assert.NoError(t, err)
}

func TestHub_BroadcastAllReachesEveryClient(t *testing.T) {
	hub := NewHub()
	a, err := hub.Register("acc-1", nil)
	require.NoError(t, err)
	b, err := hub.Register("acc-2", nil)
	require.NoError(t, err)

	hub.BroadcastAll([]byte(`{"type":"blog.created"}`))

	assert.Equal(t, `{"type":"blog.created"}`, string(<-a.Send))
	assert.Equal(t, `{"type":"blog.created"}`, string(<-b.Send))
}

func TestClient_TrySendDropsWhenFull(t *testing.T) {
	hub := NewHub()
	c, err := hub.Register("acc-1", nil)
	require.NoError(t, err)

	for i := 0; i < sendBuffer; i++ {
		c.TrySend([]byte("x"))
	}
	// Buffer is full; this must not block.
	c.TrySend([]byte("overflow"))

	assert.Len(t, c.Send, sendBuffer)
	for i := 0; i < sendBuffer; i++ {
		assert.Equal(t, "x", string(<-c.Send))
	}
}

func TestHub_Shutdown(t *testing.T) {
	hub := NewHub()
	c, err := hub.Register("acc-1", nil)
	require.NoError(t, err)

	require.NoError(t, hub.Shutdown(context.Background()))
	require.NoError(t, hub.Shutdown(context.Background()))
	assert.Equal(t, 0, hub.Count())

	_, open := <-c.Send
	assert.False(t, open)
	assert.Equal(t, "Server shutting down", c.closeReason)

	// Late unregister from a read pump is a no-op.
	hub.UnregisterClient(c)

	_, err = hub.Register("acc-2", nil)
	assert.ErrorIs(t, err, ErrHubClosed)
}

package pubsub_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gregoryjjb/valve/pubsub"
)

func TestPubsub(t *testing.T) {
	ps := pubsub.New[string](4)

	_, ch1 := ps.Subscribe()
	id2, ch2 := ps.Subscribe()
	assert.Equal(t, 2, ps.Len())

	ps.Publish("a")
	assert.Equal(t, "a", <-ch1)
	assert.Equal(t, "a", <-ch2)

	ps.Unsubscribe(id2)
	assert.Equal(t, 1, ps.Len())

	_, open := <-ch2
	assert.False(t, open, "unsubscribed channel should be closed")

	ps.Publish("b")
	assert.Equal(t, "b", <-ch1)

	// Unsubscribing twice is a no-op.
	ps.Unsubscribe(id2)
}

func TestPubsub_DropsWhenFull(t *testing.T) {
	ps := pubsub.New[int](2)
	_, ch := ps.Subscribe()

	for i := 0; i < 5; i++ {
		ps.Publish(i)
	}

	require.Len(t, ch, 2)
	assert.Equal(t, 0, <-ch)
	assert.Equal(t, 1, <-ch)
	assert.Len(t, ch, 0)
}

func TestPubsub_MinimumBuffer(t *testing.T) {
	ps := pubsub.New[int](0)
	_, ch := ps.Subscribe()
	ps.Publish(7)
	assert.Equal(t, 7, <-ch)
}

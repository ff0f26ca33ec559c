package pubsub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrokerFlow(t *testing.T) {
	broker := NewBroker[string]()
	defer broker.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first := broker.Subscribe(ctx)
	second := broker.Subscribe(ctx)

	broker.Publish(CreatedEvent, "dune")
	broker.Publish(FinishedEvent, "")

	for _, ch := range []<-chan Event[string]{first, second} {
		select {
		case ev := <-ch:
			assert.Equal(t, CreatedEvent, ev.Type)
			assert.Equal(t, "dune", ev.Payload)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for event")
		}
		ev := <-ch
		assert.Equal(t, FinishedEvent, ev.Type)
	}
}

func TestAutoUnsubscribe(t *testing.T) {
	broker := NewBroker[int]()
	defer broker.Shutdown()
	ctx, cancel := context.WithCancel(context.Background())

	events := broker.Subscribe(ctx)
	require.Equal(t, 1, broker.SubscriberCount())

	cancel()

	assert.Eventually(t, func() bool { return broker.SubscriberCount() == 0 }, time.Second, 5*time.Millisecond)
	_, ok := <-events
	assert.False(t, ok, "channel is closed after unsubscribe")
}

func TestNonBlockingPublish(t *testing.T) {
	broker := NewBrokerWithBuffer[int](4)
	defer broker.Shutdown()

	events := broker.Subscribe(context.Background())

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			broker.Publish(CreatedEvent, i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}

	assert.Len(t, events, 4)
	assert.Equal(t, 6, broker.Dropped())
	assert.Equal(t, 0, (<-events).Payload, "oldest events are kept")
}

func TestBrokerShutdown(t *testing.T) {
	broker := NewBroker[string]()
	events := broker.Subscribe(context.Background())

	broker.Shutdown()
	broker.Shutdown()

	select {
	case _, ok := <-events:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("subscriber channel not closed on shutdown")
	}

	late := broker.Subscribe(context.Background())
	_, ok := <-late
	assert.False(t, ok)

	broker.Publish(CreatedEvent, "ignored")
	assert.Equal(t, 0, broker.SubscriberCount())
}

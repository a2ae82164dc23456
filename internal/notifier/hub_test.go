package notifier_test

import (
	"errors"
	"testing"
	"time"

	"dairydrop/internal/apperrors"
	"dairydrop/internal/notifier"

	"github.com/stretchr/testify/assert"
)

func TestPublish_NoSubscribers(t *testing.T) {
	hub := notifier.NewHub()

	done := make(chan error, 1)
	go func() {
		done <- hub.Publish(notifier.EventProductsUpdated, nil)
	}()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("publish with zero subscribers blocked")
	}
}

func TestPublish_NilHubFailsClosed(t *testing.T) {
	var hub *notifier.Hub

	err := hub.Publish(notifier.EventNewOrder, "payload")

	assert.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotInitialized))
}

func TestPublish_FansOutToAllSubscribers(t *testing.T) {
	hub := notifier.NewHub()
	first := hub.Subscribe()
	second := hub.Subscribe()
	defer first.Close()
	defer second.Close()

	err := hub.Publish(notifier.EventNewOrder, map[string]string{"id": "order-1"})
	assert.NoError(t, err)

	for _, sub := range []*notifier.Subscriber{first, second} {
		select {
		case ev := <-sub.Events():
			assert.Equal(t, notifier.EventNewOrder, ev.Name)
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive the event")
		}
	}
}

func TestPublish_DropsForSlowSubscriberWithoutBlocking(t *testing.T) {
	hub := notifier.NewHub()
	slow := hub.Subscribe()
	defer slow.Close()

	// Never read from slow; overflow its buffer well past capacity.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			assert.NoError(t, hub.Publish(notifier.EventProductsUpdated, nil))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
}

func TestSubscriber_CloseSelfRemoves(t *testing.T) {
	hub := notifier.NewHub()
	sub := hub.Subscribe()

	sub.Close()
	sub.Close() // idempotent

	_, open := <-sub.Events()
	assert.False(t, open)

	// Publishing after removal must not panic on the closed channel.
	assert.NoError(t, hub.Publish(notifier.EventProductsUpdated, nil))
}

package event_bus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus_Publish(t *testing.T) {
	t.Run("delivers typed payloads in subscription order", func(t *testing.T) {
		bus := NewEventBus()
		var received []string
		SubscribeTyped(bus, ValorizationChanged, func(e EventT[ValorizationChangedPayload]) error {
			received = append(received, "first:"+e.Data.State)
			return nil
		})
		SubscribeTyped(bus, ValorizationChanged, func(e EventT[ValorizationChangedPayload]) error {
			received = append(received, "second:"+e.Data.State)
			return nil
		})

		err := bus.Publish(NewEvent(context.Background(), ValorizationChanged, ValorizationChangedPayload{ProjectId: 1, State: "paid"}))

		require.NoError(t, err)
		assert.Equal(t, []string{"first:paid", "second:paid"}, received)
	})

	t.Run("skips handlers expecting another payload type", func(t *testing.T) {
		bus := NewEventBus()
		called := false
		SubscribeTyped(bus, ScheduleBaselineChanged, func(e EventT[ScheduleBaselineChangedPayload]) error {
			called = true
			return nil
		})

		err := bus.Publish(NewEvent(context.Background(), ScheduleBaselineChanged, "not a payload"))

		require.NoError(t, err)
		assert.False(t, called)
	})

	t.Run("collects handler errors and recovers panics", func(t *testing.T) {
		bus := NewEventBus()
		failure := errors.New("boom")
		bus.Subscribe(ValorizationChanged, func(e Event) error { return failure })
		bus.Subscribe(ValorizationChanged, func(e Event) error { panic("unexpected") })
		delivered := false
		bus.Subscribe(ValorizationChanged, func(e Event) error {
			delivered = true
			return nil
		})

		err := bus.Publish(NewEvent(context.Background(), ValorizationChanged, nil))

		require.Error(t, err)
		assert.ErrorIs(t, err, failure)
		assert.Contains(t, err.Error(), "2 handler(s) failed")
		assert.True(t, delivered)
	})

	t.Run("unsubscribe removes the handler", func(t *testing.T) {
		bus := NewEventBus()
		calls := 0
		unsubscribe := bus.Subscribe(ValorizationChanged, func(e Event) error {
			calls++
			return nil
		})

		require.NoError(t, bus.Publish(NewEvent(context.Background(), ValorizationChanged, nil)))
		unsubscribe()
		require.NoError(t, bus.Publish(NewEvent(context.Background(), ValorizationChanged, nil)))

		assert.Equal(t, 1, calls)
	})

	t.Run("refuses to publish with a cancelled context", func(t *testing.T) {
		bus := NewEventBus()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := bus.Publish(NewEvent(ctx, ValorizationChanged, nil))

		require.ErrorIs(t, err, context.Canceled)
	})
}

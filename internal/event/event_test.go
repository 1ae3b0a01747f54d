package event_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/1siamBot/bwmacro/internal/event"
)

func TestDispatchDeliversToRegisteredHandler(t *testing.T) {
	bus := event.NewBus()
	var got event.Event
	bus.On(event.TypeBaseOwnershipChanged, func(e event.Event) { got = e })

	bus.Emit(event.Event{Type: event.TypeBaseOwnershipChanged, Frame: 7, Payload: "base-1"})
	bus.Dispatch()

	assert.Equal(t, 7, got.Frame)
	assert.Equal(t, "base-1", got.Payload)
}

func TestDispatchClearsQueue(t *testing.T) {
	bus := event.NewBus()
	calls := 0
	bus.On(event.TypeWorkerLost, func(event.Event) { calls++ })

	bus.Emit(event.Event{Type: event.TypeWorkerLost})
	bus.Dispatch()
	bus.Dispatch()

	assert.Equal(t, 1, calls)
}

func TestHandlerEmittedEventsWaitForNextDispatch(t *testing.T) {
	bus := event.NewBus()
	secondFired := false
	bus.On(event.TypeBuildingStarted, func(event.Event) {
		bus.Emit(event.Event{Type: event.TypeBuildingCompleted})
	})
	bus.On(event.TypeBuildingCompleted, func(event.Event) { secondFired = true })

	bus.Emit(event.Event{Type: event.TypeBuildingStarted})
	bus.Dispatch()
	assert.False(t, secondFired, "events emitted by a handler must wait for the next Dispatch")

	bus.Dispatch()
	assert.True(t, secondFired)
}

package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventFirePropagation(t *testing.T) {
	EventSystemInitialize()
	defer EventSystemShutdown()

	var order []int
	EventRegister(EVENT_CODE_APPLICATION_QUIT, func(EventContext) bool {
		order = append(order, 1)
		return false
	})
	EventRegister(EVENT_CODE_APPLICATION_QUIT, func(EventContext) bool {
		order = append(order, 2)
		return true // handled, stop here
	})
	EventRegister(EVENT_CODE_APPLICATION_QUIT, func(EventContext) bool {
		order = append(order, 3)
		return false
	})

	handled := EventFire(EventContext{Type: EVENT_CODE_APPLICATION_QUIT})
	assert.True(t, handled)
	assert.Equal(t, []int{1, 2}, order)
}

func TestEventFireWithoutListeners(t *testing.T) {
	EventSystemInitialize()
	defer EventSystemShutdown()
	assert.False(t, EventFire(EventContext{Type: EVENT_CODE_RESIZED}))
}

func TestDeferredEventsDeliverOnPump(t *testing.T) {
	EventSystemInitialize()
	defer EventSystemShutdown()

	var got []EventContext
	EventRegister(EVENT_CODE_GRAPHICS_CONFIG_CHANGED, func(ctx EventContext) bool {
		got = append(got, ctx)
		return false
	})

	require.True(t, EventFireDeferred(EventContext{
		Type: EVENT_CODE_GRAPHICS_CONFIG_CHANGED,
		Data: "first",
	}))
	require.True(t, EventFireDeferred(EventContext{
		Type: EVENT_CODE_GRAPHICS_CONFIG_CHANGED,
		Data: "second",
	}))
	assert.Empty(t, got, "nothing delivered before the pump")

	EventPump()
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].Data)
	assert.Equal(t, "second", got[1].Data)

	// The queue drained; a second pump delivers nothing.
	EventPump()
	assert.Len(t, got, 2)
}

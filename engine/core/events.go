package core

import (
	"sync"

	"github.com/spaghettifunk/ballistica/engine/containers"
)

// System internal event codes. Application should use codes beyond 255.
type SystemEventCode int

const (
	// Shuts the application down on the next frame.
	EVENT_CODE_APPLICATION_QUIT SystemEventCode = 0x01

	// Resized/resolution changed from the OS.
	// Data is a *SystemEvent carrying the new framebuffer size.
	EVENT_CODE_RESIZED SystemEventCode = 0x02

	// The GL context was lost (app backgrounded, driver reset). All GPU
	// object IDs are invalid until EVENT_CODE_CONTEXT_RESTORED fires.
	EVENT_CODE_CONTEXT_LOST     SystemEventCode = 0x03
	EVENT_CODE_CONTEXT_RESTORED SystemEventCode = 0x04

	// Graphics configuration changed on disk. Data is the new
	// config.GraphicsConfig; the renderer reloads GPU resources.
	EVENT_CODE_GRAPHICS_CONFIG_CHANGED SystemEventCode = 0x05

	// Keyboard events from the OS. Data is a *KeyEvent.
	EVENT_CODE_KEY_PRESSED  SystemEventCode = 0x06
	EVENT_CODE_KEY_RELEASED SystemEventCode = 0x07

	MAX_EVENT_CODE SystemEventCode = 0xFF
)

// KeyEvent carries the platform key code for key press/release events.
type KeyEvent struct {
	KeyCode int
}

// This should be more than enough codes...
const MAX_MESSAGE_CODES = 16384

type EventContext struct {
	Type SystemEventCode
	Data interface{}
}

// SystemEvent carries OS window geometry for EVENT_CODE_RESIZED.
type SystemEvent struct {
	WindowWidth  uint32
	WindowHeight uint32
}

// Should return true if handled and the event should not propagate further.
type FnOnEvent func(context EventContext) bool

type eventCodeEntry struct {
	callbacks []FnOnEvent
}

type eventSystemState struct {
	registered [MAX_MESSAGE_CODES]eventCodeEntry
}

var onceEvent sync.Once
var isInitialized bool = false
var eventState *eventSystemState = nil

func EventSystemInitialize() bool {
	if isInitialized {
		return false
	}
	onceEvent.Do(func() {
		eventState = &eventSystemState{}
	})
	isInitialized = true
	return true
}

func EventSystemShutdown() error {
	for i := 0; i < MAX_MESSAGE_CODES; i++ {
		if len(eventState.registered[i].callbacks) != 0 {
			eventState.registered[i].callbacks = nil
		}
	}
	isInitialized = false
	return nil
}

// Register to listen for when events are sent with the provided code.
func EventRegister(code SystemEventCode, onEvent FnOnEvent) bool {
	if !isInitialized {
		return false
	}
	entry := &eventState.registered[code]
	entry.callbacks = append(entry.callbacks, onEvent)
	return true
}

// Deferred events are staged on a fixed ring and delivered by EventPump
// from the main thread. Producers on other goroutines (the config file
// watcher) must not invoke listeners directly: renderer listeners touch
// the GL context, which is bound to the main thread.
var deferredMu sync.Mutex
var deferredEvents = containers.NewRingQueue[EventContext](256)

// EventFireDeferred stages an event for the next EventPump. Safe to
// call from any goroutine. Returns false when the queue is full; the
// event is dropped in that case.
func EventFireDeferred(context EventContext) bool {
	if !isInitialized {
		return false
	}
	deferredMu.Lock()
	defer deferredMu.Unlock()
	return deferredEvents.Enqueue(context) == nil
}

// EventPump delivers every staged deferred event to its listeners.
// Called once per frame from the main loop.
func EventPump() {
	for {
		deferredMu.Lock()
		ctx, err := deferredEvents.Dequeue()
		deferredMu.Unlock()
		if err != nil {
			return
		}
		EventFire(ctx)
	}
}

// Fires an event to listeners of the given code. If an event handler returns
// true, the event is considered handled and is not passed on to any more listeners.
func EventFire(context EventContext) bool {
	if !isInitialized {
		return false
	}
	entry := &eventState.registered[context.Type]
	if len(entry.callbacks) == 0 {
		return false
	}
	for _, cb := range entry.callbacks {
		if cb(context) {
			// Message has been handled, do not send to other listeners.
			return true
		}
	}
	return false
}

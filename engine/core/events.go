package core

import "sync"

// System internal event codes. Application should use codes beyond 255.
type SystemEventCode int

const (
	// Shuts the application down on the next frame.
	EVENT_CODE_APPLICATION_QUIT SystemEventCode = 0x01
	// Keyboard key pressed. Data is *KeyEvent.
	EVENT_CODE_KEY_PRESSED SystemEventCode = 0x02
	// Keyboard key released. Data is *KeyEvent.
	EVENT_CODE_KEY_RELEASED SystemEventCode = 0x03
	// Mouse button pressed. Data is *MouseEvent.
	EVENT_CODE_BUTTON_PRESSED SystemEventCode = 0x04
	// Mouse button released. Data is *MouseEvent.
	EVENT_CODE_BUTTON_RELEASED SystemEventCode = 0x05
	// Mouse moved. Data is *MouseEvent.
	EVENT_CODE_MOUSE_MOVED SystemEventCode = 0x06
	// Framebuffer resized by the OS. Data is *ResizeEvent.
	EVENT_CODE_RESIZED SystemEventCode = 0x08

	MAX_EVENT_CODE SystemEventCode = 0xFF
)

type EventContext struct {
	Type SystemEventCode
	Data interface{}
}

type KeyEvent struct {
	KeyCode KeyCode
}

type MouseEvent struct {
	Button Button
	PosX   float64
	PosY   float64
}

type ResizeEvent struct {
	Width  uint32
	Height uint32
}

// Should return true if handled.
type FnOnEvent func(context EventContext) bool

type registeredEvent struct {
	listener interface{}
	callback FnOnEvent
}

// EventBus dispatches events synchronously on the firing goroutine, in
// registration order, until a listener reports the event handled.
type EventBus struct {
	mu         sync.RWMutex
	registered map[SystemEventCode][]*registeredEvent
}

func NewEventBus() *EventBus {
	return &EventBus{
		registered: make(map[SystemEventCode][]*registeredEvent),
	}
}

// Register adds a listener for code. A listener registers once per code;
// a duplicate returns false.
func (eb *EventBus) Register(code SystemEventCode, listener interface{}, onEvent FnOnEvent) bool {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	for _, e := range eb.registered[code] {
		if e.listener == listener {
			LogWarn("listener already registered for event code %d", code)
			return false
		}
	}
	eb.registered[code] = append(eb.registered[code], &registeredEvent{
		listener: listener,
		callback: onEvent,
	})
	return true
}

func (eb *EventBus) Unregister(code SystemEventCode, listener interface{}) bool {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	events := eb.registered[code]
	for i, e := range events {
		if e.listener == listener {
			eb.registered[code] = append(events[:i], events[i+1:]...)
			return true
		}
	}
	return false
}

// Fire returns true if a listener handled the event.
func (eb *EventBus) Fire(context EventContext) bool {
	eb.mu.RLock()
	events := make([]*registeredEvent, len(eb.registered[context.Type]))
	copy(events, eb.registered[context.Type])
	eb.mu.RUnlock()

	for _, e := range events {
		if e.callback(context) {
			// Message has been handled, do not send to other listeners.
			return true
		}
	}
	return false
}

// Shutdown drops every registration.
func (eb *EventBus) Shutdown() {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.registered = make(map[SystemEventCode][]*registeredEvent)
}

package core

import "sync"

type Button uint16

const (
	BUTTON_LEFT Button = iota
	BUTTON_RIGHT
	BUTTON_MIDDLE
	BUTTON_MAX_BUTTONS
)

// Key code definitions
type KeyCode uint16

const (
	KEY_UNKNOWN   KeyCode = 0x00
	KEY_BACKSPACE KeyCode = 0x08
	KEY_TAB       KeyCode = 0x09
	KEY_ENTER     KeyCode = 0x0D
	KEY_ESCAPE    KeyCode = 0x1B
	KEY_SPACE     KeyCode = 0x20
	KEY_LEFT      KeyCode = 0x25
	KEY_UP        KeyCode = 0x26
	KEY_RIGHT     KeyCode = 0x27
	KEY_DOWN      KeyCode = 0x28
	KEY_A         KeyCode = 0x41
	KEY_D         KeyCode = 0x44
	KEY_E         KeyCode = 0x45
	KEY_Q         KeyCode = 0x51
	KEY_S         KeyCode = 0x53
	KEY_W         KeyCode = 0x57
	KEY_F1        KeyCode = 0x70
	KEY_LSHIFT    KeyCode = 0xA0
	KEY_RSHIFT    KeyCode = 0xA1
	KEY_LCONTROL  KeyCode = 0xA2
	KEY_RCONTROL  KeyCode = 0xA3
	KEYS_MAX_KEYS KeyCode = 0xFF
)

// Mouse state structure
type MouseState struct {
	X       float64
	Y       float64
	Buttons [BUTTON_MAX_BUTTONS]bool // button states (pressed/released)
}

// Keyboard state structure
type KeyboardState struct {
	Keys [256]bool
}

// InputState holds current and previous states for keyboard and mouse.
// The platform writes it from window callbacks, the game reads it during
// update; Update copies current into previous at the end of a frame.
type InputState struct {
	mu               sync.RWMutex
	events           *EventBus
	keyboardCurrent  KeyboardState
	keyboardPrevious KeyboardState
	mouseCurrent     MouseState
	mousePrevious    MouseState
}

// NewInputState fires key, button and mouse events into events, which may
// be nil.
func NewInputState(events *EventBus) *InputState {
	return &InputState{events: events}
}

func (is *InputState) Update() {
	is.mu.Lock()
	defer is.mu.Unlock()
	is.keyboardPrevious = is.keyboardCurrent
	is.mousePrevious = is.mouseCurrent
}

// keyboard input
func (is *InputState) IsKeyDown(key KeyCode) bool {
	is.mu.RLock()
	defer is.mu.RUnlock()
	return is.keyboardCurrent.Keys[key]
}

func (is *InputState) IsKeyUp(key KeyCode) bool {
	return !is.IsKeyDown(key)
}

func (is *InputState) WasKeyDown(key KeyCode) bool {
	is.mu.RLock()
	defer is.mu.RUnlock()
	return is.keyboardPrevious.Keys[key]
}

func (is *InputState) ProcessKey(key KeyCode, pressed bool) {
	is.mu.Lock()
	changed := is.keyboardCurrent.Keys[key] != pressed
	is.keyboardCurrent.Keys[key] = pressed
	is.mu.Unlock()

	// Only fire if the state actually changed.
	if !changed {
		return
	}
	code := EVENT_CODE_KEY_RELEASED
	if pressed {
		code = EVENT_CODE_KEY_PRESSED
	}
	is.fire(EventContext{Type: code, Data: &KeyEvent{KeyCode: key}})
}

// mouse input
func (is *InputState) IsButtonDown(button Button) bool {
	is.mu.RLock()
	defer is.mu.RUnlock()
	return is.mouseCurrent.Buttons[button]
}

func (is *InputState) MousePosition() (float64, float64) {
	is.mu.RLock()
	defer is.mu.RUnlock()
	return is.mouseCurrent.X, is.mouseCurrent.Y
}

// MouseDelta is the cursor movement since the last Update.
func (is *InputState) MouseDelta() (float64, float64) {
	is.mu.RLock()
	defer is.mu.RUnlock()
	return is.mouseCurrent.X - is.mousePrevious.X, is.mouseCurrent.Y - is.mousePrevious.Y
}

func (is *InputState) ProcessButton(button Button, pressed bool) {
	if button >= BUTTON_MAX_BUTTONS {
		return
	}
	is.mu.Lock()
	changed := is.mouseCurrent.Buttons[button] != pressed
	is.mouseCurrent.Buttons[button] = pressed
	is.mu.Unlock()

	if !changed {
		return
	}
	code := EVENT_CODE_BUTTON_RELEASED
	if pressed {
		code = EVENT_CODE_BUTTON_PRESSED
	}
	is.fire(EventContext{Type: code, Data: &MouseEvent{Button: button}})
}

func (is *InputState) ProcessMouseMove(x, y float64) {
	is.mu.Lock()
	changed := is.mouseCurrent.X != x || is.mouseCurrent.Y != y
	is.mouseCurrent.X = x
	is.mouseCurrent.Y = y
	is.mu.Unlock()

	if changed {
		is.fire(EventContext{Type: EVENT_CODE_MOUSE_MOVED, Data: &MouseEvent{PosX: x, PosY: y}})
	}
}

// ResetMouse sets both current and previous positions, so capturing the
// cursor does not produce a jump.
func (is *InputState) ResetMouse(x, y float64) {
	is.mu.Lock()
	defer is.mu.Unlock()
	is.mouseCurrent.X, is.mouseCurrent.Y = x, y
	is.mousePrevious.X, is.mousePrevious.Y = x, y
}

func (is *InputState) fire(context EventContext) {
	if is.events != nil {
		is.events.Fire(context)
	}
}

package engine

import (
	"testing"

	"github.com/spaghettifunk/voxelcraft/engine/core"
	"github.com/stretchr/testify/assert"
)

func newTestEngine(g *Game) *Engine {
	e := &Engine{
		events:       core.NewEventBus(),
		gameInstance: g,
		width:        1280,
		height:       720,
	}
	e.isRunning.Store(true)
	e.events.Register(core.EVENT_CODE_APPLICATION_QUIT, e, e.onEvent)
	e.events.Register(core.EVENT_CODE_KEY_PRESSED, e, e.onKey)
	e.events.Register(core.EVENT_CODE_RESIZED, e, e.onResized)
	return e
}

func TestEscapeQuits(t *testing.T) {
	e := newTestEngine(&Game{})

	assert.False(t, e.events.Fire(core.EventContext{Type: core.EVENT_CODE_KEY_PRESSED, Data: &core.KeyEvent{KeyCode: core.KEY_W}}))
	assert.True(t, e.isRunning.Load())

	assert.True(t, e.events.Fire(core.EventContext{Type: core.EVENT_CODE_KEY_PRESSED, Data: &core.KeyEvent{KeyCode: core.KEY_ESCAPE}}))
	assert.False(t, e.isRunning.Load())
}

func TestMinimizeSuspends(t *testing.T) {
	e := newTestEngine(&Game{})

	assert.True(t, e.events.Fire(core.EventContext{Type: core.EVENT_CODE_RESIZED, Data: &core.ResizeEvent{}}))
	assert.True(t, e.isSuspended)
	w, h := e.GetFramebufferSize()
	assert.Zero(t, w)
	assert.Zero(t, h)
}

func TestResizeEventWithWrongPayload(t *testing.T) {
	e := newTestEngine(&Game{})
	assert.False(t, e.events.Fire(core.EventContext{Type: core.EVENT_CODE_RESIZED, Data: &core.KeyEvent{}}))
	assert.False(t, e.isSuspended)
}

func TestStageString(t *testing.T) {
	assert.Equal(t, "running", EngineStageRunning.String())
	assert.Equal(t, "unknown", Stage(42).String())
}

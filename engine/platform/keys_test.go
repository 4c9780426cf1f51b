package platform

import (
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/spaghettifunk/voxelcraft/engine/core"
	"github.com/stretchr/testify/assert"
)

func TestTranslateKey(t *testing.T) {
	assert.Equal(t, core.KEY_W, translateKey(glfw.KeyW))
	assert.Equal(t, core.KEY_SPACE, translateKey(glfw.KeySpace))
	assert.Equal(t, core.KEY_LSHIFT, translateKey(glfw.KeyLeftShift))
	assert.Equal(t, core.KEY_UNKNOWN, translateKey(glfw.KeyF12))
}

func TestKeyCallbackUpdatesInput(t *testing.T) {
	input := core.NewInputState(nil)
	p := New(core.NewEventBus(), input)

	p.keyCallback(nil, glfw.KeyD, 0, glfw.Press, 0)
	assert.True(t, input.IsKeyDown(core.KEY_D))

	// Repeats leave the state alone.
	p.keyCallback(nil, glfw.KeyD, 0, glfw.Repeat, 0)
	assert.True(t, input.IsKeyDown(core.KEY_D))

	p.keyCallback(nil, glfw.KeyD, 0, glfw.Release, 0)
	assert.False(t, input.IsKeyDown(core.KEY_D))
}

func TestFramebufferSizeCallbackFiresResize(t *testing.T) {
	bus := core.NewEventBus()
	var got *core.ResizeEvent
	bus.Register(core.EVENT_CODE_RESIZED, t, func(ctx core.EventContext) bool {
		got = ctx.Data.(*core.ResizeEvent)
		return true
	})

	p := New(bus, core.NewInputState(bus))
	p.framebufferSizeCallback(nil, 1280, 720)
	if assert.NotNil(t, got) {
		assert.Equal(t, uint32(1280), got.Width)
		assert.Equal(t, uint32(720), got.Height)
	}
}

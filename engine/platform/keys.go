package platform

import (
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/spaghettifunk/voxelcraft/engine/core"
)

var keyMap = map[glfw.Key]core.KeyCode{
	glfw.KeyBackspace:    core.KEY_BACKSPACE,
	glfw.KeyTab:          core.KEY_TAB,
	glfw.KeyEnter:        core.KEY_ENTER,
	glfw.KeyEscape:       core.KEY_ESCAPE,
	glfw.KeySpace:        core.KEY_SPACE,
	glfw.KeyLeft:         core.KEY_LEFT,
	glfw.KeyUp:           core.KEY_UP,
	glfw.KeyRight:        core.KEY_RIGHT,
	glfw.KeyDown:         core.KEY_DOWN,
	glfw.KeyA:            core.KEY_A,
	glfw.KeyD:            core.KEY_D,
	glfw.KeyE:            core.KEY_E,
	glfw.KeyQ:            core.KEY_Q,
	glfw.KeyS:            core.KEY_S,
	glfw.KeyW:            core.KEY_W,
	glfw.KeyF1:           core.KEY_F1,
	glfw.KeyLeftShift:    core.KEY_LSHIFT,
	glfw.KeyRightShift:   core.KEY_RSHIFT,
	glfw.KeyLeftControl:  core.KEY_LCONTROL,
	glfw.KeyRightControl: core.KEY_RCONTROL,
}

func translateKey(key glfw.Key) core.KeyCode {
	if code, ok := keyMap[key]; ok {
		return code
	}
	return core.KEY_UNKNOWN
}

package engine

import (
	"github.com/spaghettifunk/voxelcraft/engine/renderer"
)

type Game struct {
	State        interface{}
	FnInitialize Initialize
	FnUpdate     Update
	FnRender     Render
	FnOnResize   OnResize
	FnShutdown   Shutdown
}

// Initialize runs once after the window, assets and renderer are up.
type Initialize func(e *Engine) error
type Update func(deltaTime float64) error

// Render records the frame's draws. It is only called inside an open frame.
type Render func(ctx *renderer.RenderContext, deltaTime float64) error
type OnResize func(width uint32, height uint32) error
type Shutdown func() error

package engine

import (
	"runtime"
	"sync/atomic"

	"github.com/spaghettifunk/voxelcraft/engine/assets"
	"github.com/spaghettifunk/voxelcraft/engine/config"
	"github.com/spaghettifunk/voxelcraft/engine/core"
	"github.com/spaghettifunk/voxelcraft/engine/platform"
	"github.com/spaghettifunk/voxelcraft/engine/renderer"
	"github.com/spaghettifunk/voxelcraft/engine/renderer/metadata"
	"github.com/spaghettifunk/voxelcraft/engine/renderer/vulkan"
)

type Engine struct {
	currentStage Stage
	config       *config.Config
	gameInstance *Game
	isRunning    atomic.Bool
	isSuspended  bool
	events       *core.EventBus
	input        *core.InputState
	platform     *platform.Platform
	assetManager *assets.AssetManager
	renderer     *renderer.Renderer
	jobs         *core.JobSystem
	width        uint32
	height       uint32
	clock        *core.Clock
	metrics      *core.Metrics
	lastTime     float64
}

func New(cfg *config.Config, g *Game) (*Engine, error) {
	events := core.NewEventBus()
	input := core.NewInputState(events)
	p := platform.New(events, input)

	am, err := assets.NewAssetManager()
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	js, err := core.NewJobSystem(max(1, runtime.NumCPU()-1), 16)
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	cc := cfg.Renderer.ClearColor
	r := renderer.New(vulkan.New(p, cfg.Renderer), p.FramebufferSize, metadata.ClearColor{
		R: cc[0], G: cc[1], B: cc[2], A: cc[3],
	})

	return &Engine{
		currentStage: EngineStageUninitialized,
		config:       cfg,
		gameInstance: g,
		events:       events,
		input:        input,
		platform:     p,
		assetManager: am,
		renderer:     r,
		jobs:         js,
		width:        cfg.Window.StartWidth,
		height:       cfg.Window.StartHeight,
		clock:        core.NewClock(),
		metrics:      core.NewMetrics(),
	}, nil
}

func (e *Engine) Initialize() error {
	e.currentStage = EngineStageInitializing

	e.events.Register(core.EVENT_CODE_APPLICATION_QUIT, e, e.onEvent)
	e.events.Register(core.EVENT_CODE_KEY_PRESSED, e, e.onKey)
	e.events.Register(core.EVENT_CODE_RESIZED, e, e.onResized)

	win := e.config.Window
	if err := e.platform.Startup(e.config.App.Name, win.StartPosX, win.StartPosY, win.StartWidth, win.StartHeight); err != nil {
		return err
	}

	if err := e.assetManager.Initialize(e.config.Assets.Root); err != nil {
		return err
	}

	// The framebuffer can differ from the window size on high-DPI displays.
	if w, h := e.platform.FramebufferSize(); w != 0 && h != 0 {
		e.width, e.height = w, h
	}
	if err := e.renderer.Initialize(e.config.App.Name, e.width, e.height); err != nil {
		core.LogError("failed to initialize the renderer: %s", err)
		return err
	}

	if err := e.gameInstance.FnInitialize(e); err != nil {
		return err
	}
	if err := e.gameInstance.FnOnResize(e.width, e.height); err != nil {
		return err
	}

	e.isRunning.Store(true)
	e.currentStage = EngineStageInitialized
	return nil
}

func (e *Engine) Run() error {
	e.currentStage = EngineStageRunning

	e.clock.Start()
	e.clock.Update()
	e.lastTime = e.clock.Elapsed()

	var runningTime float64 = 0.0

	for e.isRunning.Load() {
		if !e.platform.PumpMessages() {
			e.isRunning.Store(false)
			break
		}

		if e.isSuspended {
			e.platform.Sleep(16)
			continue
		}

		// Update clock and get delta time.
		e.clock.Update()
		var currentTime float64 = e.clock.Elapsed()
		var delta float64 = currentTime - e.lastTime
		var frameStartTime float64 = e.platform.GetAbsoluteTime()

		// Finished jobs hand their results over before the game updates.
		e.jobs.Update()

		if err := e.gameInstance.FnUpdate(delta); err != nil {
			core.LogError("game update failed, shutting down: %s", err)
			return err
		}

		if err := e.renderer.DrawFrame(func(ctx *renderer.RenderContext) error {
			return e.gameInstance.FnRender(ctx, delta)
		}); err != nil {
			core.LogError("game render failed, shutting down: %s", err)
			return err
		}

		var frameElapsedTime float64 = e.platform.GetAbsoluteTime() - frameStartTime
		e.metrics.Update(frameElapsedTime)
		runningTime += frameElapsedTime
		if runningTime >= 1.0 {
			fps, ms := e.metrics.Frame()
			core.LogDebug("fps: %.0f frame: %.2fms live resources: %d", fps, ms, e.renderer.LiveResources())
			runningTime = 0
		}

		// Input state is copied last so this frame's presses stay visible
		// to the update above.
		e.input.Update()

		e.lastTime = currentTime
	}
	return nil
}

// Stop asks the loop to exit after the current frame. Safe to call from any
// goroutine.
func (e *Engine) Stop() {
	e.isRunning.Store(false)
}

func (e *Engine) Shutdown() error {
	e.currentStage = EngineStageShuttingDown

	if e.gameInstance.FnShutdown != nil {
		if err := e.gameInstance.FnShutdown(); err != nil {
			core.LogError("game shutdown failed: %s", err)
		}
	}
	if err := e.jobs.Shutdown(); err != nil {
		return err
	}
	if err := e.renderer.Shutdown(); err != nil {
		return err
	}
	if err := e.assetManager.Shutdown(); err != nil {
		return err
	}
	if err := e.platform.Shutdown(); err != nil {
		return err
	}
	e.events.Shutdown()
	e.clock.Stop()
	return nil
}

// GetFramebufferSize returns the width and height (in this order)
// of the application framebuffer.
func (e *Engine) GetFramebufferSize() (uint32, uint32) {
	return e.width, e.height
}

func (e *Engine) Config() *config.Config       { return e.config }
func (e *Engine) Events() *core.EventBus       { return e.events }
func (e *Engine) Input() *core.InputState      { return e.input }
func (e *Engine) Platform() *platform.Platform { return e.platform }
func (e *Engine) Assets() *assets.AssetManager { return e.assetManager }
func (e *Engine) Renderer() *renderer.Renderer { return e.renderer }
func (e *Engine) Jobs() *core.JobSystem        { return e.jobs }
func (e *Engine) Stage() Stage                 { return e.currentStage }

package engine

import (
	"fmt"

	"github.com/spaghettifunk/ballistica/engine/config"
	"github.com/spaghettifunk/ballistica/engine/core"
	"github.com/spaghettifunk/ballistica/engine/platform"
	"github.com/spaghettifunk/ballistica/engine/renderer"
	"github.com/spaghettifunk/ballistica/engine/renderer/opengl"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

type Engine struct {
	currentStage Stage
	gameInstance *Game
	isRunning    bool
	isSuspended  bool
	platform     *platform.Platform
	configMgr    *config.Manager
	renderer     *renderer.Renderer
	width        uint32
	height       uint32
	clock        *core.Clock
	lastTime     float64
}

func New(g *Game) (*Engine, error) {
	core.SetLogLevel(g.ApplicationConfig.LogLevel)

	cfgPath := g.ApplicationConfig.ConfigPath
	if cfgPath == "" {
		cfgPath = "ballistica.toml"
	}
	cm, err := config.NewManager(cfgPath)
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	return &Engine{
		currentStage: EngineStageUninitialized,
		gameInstance: g,
		clock:        core.NewClock(),
		platform:     platform.New(),
		configMgr:    cm,
		isRunning:    true,
		isSuspended:  false,
		width:        g.ApplicationConfig.StartWidth,
		height:       g.ApplicationConfig.StartHeight,
		lastTime:     0,
	}, nil
}

func (e *Engine) Initialize() error {
	e.currentStage = EngineStageInitializing

	if !core.EventSystemInitialize() {
		return fmt.Errorf("failed to initialize the event system")
	}
	if err := core.MetricsInitialize(); err != nil {
		return err
	}

	core.EventRegister(core.EVENT_CODE_APPLICATION_QUIT, e.onEvent)
	core.EventRegister(core.EVENT_CODE_KEY_PRESSED, e.onKey)
	core.EventRegister(core.EVENT_CODE_RESIZED, e.onResized)

	if err := e.configMgr.Initialize(); err != nil {
		return err
	}
	cfg := e.configMgr.Get()

	if err := e.platform.Startup(e.gameInstance.ApplicationConfig.Name,
		e.gameInstance.ApplicationConfig.StartPosX,
		e.gameInstance.ApplicationConfig.StartPosY,
		e.width,
		e.height,
		cfg.Graphics.VSync); err != nil {
		return err
	}

	// The GL context is current on this thread from here on.
	funcs, err := opengl.NewNative()
	if err != nil {
		return err
	}
	e.renderer = renderer.New(opengl.New(funcs))

	fbWidth, fbHeight := e.platform.FramebufferSize()
	if err := e.renderer.Initialize(cfg.Graphics, fbWidth, fbHeight); err != nil {
		return err
	}

	e.gameInstance.Renderer = e.renderer
	if err := e.gameInstance.FnInitialize(); err != nil {
		return err
	}
	if err := e.gameInstance.FnOnResize(e.width, e.height); err != nil {
		return err
	}

	e.currentStage = EngineStageInitialized
	return nil
}

func (e *Engine) Run() error {
	e.currentStage = EngineStageRunning
	e.clock.Start()
	e.clock.Update()
	e.lastTime = e.clock.Elapsed()

	var targetFrameSeconds float64 = 1.0 / 60.0

	for e.isRunning {
		if !e.platform.PumpMessages() {
			e.isRunning = false
		}
		// Deliver events staged by other goroutines (config watcher)
		// here on the context thread.
		core.EventPump()

		if e.isSuspended {
			continue
		}

		e.clock.Update()
		currentTime := e.clock.Elapsed()
		delta := currentTime - e.lastTime
		frameStartTime := platform.GetAbsoluteTime()

		if err := e.gameInstance.FnUpdate(delta); err != nil {
			core.LogError("game update failed, shutting down: %s", err.Error())
			e.isRunning = false
			break
		}

		packet, err := e.gameInstance.FnRender(delta)
		if err != nil {
			core.LogError("game render failed, shutting down: %s", err.Error())
			e.isRunning = false
			break
		}

		if packet != nil {
			if err := e.renderer.DrawFrame(packet); err != nil {
				core.LogError("frame draw failed: %s", err.Error())
				e.isRunning = false
				break
			}
			e.platform.SwapBuffers()
		}

		// If the frame finished early, give the remainder back to the OS.
		frameElapsed := platform.GetAbsoluteTime() - frameStartTime
		core.MetricsUpdate(frameElapsed)
		if remaining := targetFrameSeconds - frameElapsed; remaining > 0 {
			e.platform.Sleep(remaining*1000 - 1)
		}

		e.lastTime = currentTime
	}

	return e.Shutdown()
}

func (e *Engine) Shutdown() error {
	if e.currentStage == EngineStageShuttingDown {
		return nil
	}
	e.currentStage = EngineStageShuttingDown
	e.isRunning = false

	if e.gameInstance.FnShutdown != nil {
		if err := e.gameInstance.FnShutdown(); err != nil {
			core.LogError(err.Error())
		}
	}
	if e.renderer != nil {
		e.renderer.Shutdown()
	}
	if err := e.configMgr.Shutdown(); err != nil {
		core.LogError(err.Error())
	}
	if err := core.EventSystemShutdown(); err != nil {
		return err
	}
	return e.platform.Shutdown()
}

// GetFramebufferSize returns the width and height (in this order) of
// the application framebuffer.
func (e *Engine) GetFramebufferSize() (uint32, uint32) {
	return e.width, e.height
}

func (e *Engine) onEvent(context core.EventContext) bool {
	if context.Type == core.EVENT_CODE_APPLICATION_QUIT {
		core.LogInfo("EVENT_CODE_APPLICATION_QUIT received, shutting down.")
		e.isRunning = false
		return true
	}
	return false
}

func (e *Engine) onKey(context core.EventContext) bool {
	ke, ok := context.Data.(*core.KeyEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return false
	}
	if ke.KeyCode == platform.KeyEscape {
		core.EventFire(core.EventContext{Type: core.EVENT_CODE_APPLICATION_QUIT})
		return true
	}
	return false
}

func (e *Engine) onResized(context core.EventContext) bool {
	se, ok := context.Data.(*core.SystemEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return false
	}
	if se.WindowWidth == e.width && se.WindowHeight == e.height {
		return false
	}
	e.width = se.WindowWidth
	e.height = se.WindowHeight

	// Minimized windows report zero; suspend drawing until restored.
	if e.width == 0 || e.height == 0 {
		core.LogInfo("window minimized, suspending application")
		e.isSuspended = true
		return false
	}
	if e.isSuspended {
		core.LogInfo("window restored, resuming application")
		e.isSuspended = false
	}
	if err := e.gameInstance.FnOnResize(e.width, e.height); err != nil {
		core.LogError(err.Error())
	}
	return false
}

package platform

import (
	"runtime"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/spaghettifunk/ballistica/engine/core"
)

func init() {
	// GLFW event handling and all GL calls must run on the main OS thread.
	runtime.LockOSThread()
}

type Platform struct {
	Window *glfw.Window
}

func New() *Platform {
	return &Platform{
		Window: nil,
	}
}

func (p *Platform) Startup(applicationName string, x uint32, y uint32, width uint32, height uint32, vsync bool) error {
	if err := glfw.Init(); err != nil {
		core.LogError("failed to initialize glfw: %s", err)
		return err
	}

	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 2)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(int(width), int(height), applicationName, nil, nil)
	if err != nil {
		core.LogError("failed to create window: %s", err)
		return err
	}
	window.MakeContextCurrent()
	if vsync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
	p.Window = window

	p.Window.SetFramebufferSizeCallback(framebufferSizeCallback)
	p.Window.SetKeyCallback(keyCallback)
	p.Window.SetPos(int(x), int(y))
	p.Window.Show()

	return nil
}

// KeyEscape is exported so engine code can react to the quit key
// without importing glfw.
const KeyEscape = int(glfw.KeyEscape)

// Sleep yields the remainder of the frame budget back to the OS.
func (p *Platform) Sleep(ms float64) {
	time.Sleep(time.Duration(ms) * time.Millisecond)
}

func (p *Platform) Shutdown() error {
	glfw.Terminate()
	return nil
}

// PumpMessages processes pending window events. Returns false once the
// user has requested the window be closed.
func (p *Platform) PumpMessages() bool {
	glfw.PollEvents()
	return !p.Window.ShouldClose()
}

// SwapBuffers presents the frame most recently drawn to the default
// framebuffer.
func (p *Platform) SwapBuffers() {
	p.Window.SwapBuffers()
}

// FramebufferSize returns the drawable surface size in physical pixels,
// which on high-DPI displays differs from the window size.
func (p *Platform) FramebufferSize() (uint32, uint32) {
	w, h := p.Window.GetFramebufferSize()
	return uint32(w), uint32(h)
}

func GetAbsoluteTime() float64 {
	return glfw.GetTime()
}

func keyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	switch action {
	case glfw.Press:
		core.EventFire(core.EventContext{
			Type: core.EVENT_CODE_KEY_PRESSED,
			Data: &core.KeyEvent{KeyCode: int(key)},
		})
	case glfw.Release:
		core.EventFire(core.EventContext{
			Type: core.EVENT_CODE_KEY_RELEASED,
			Data: &core.KeyEvent{KeyCode: int(key)},
		})
	}
}

func framebufferSizeCallback(w *glfw.Window, width, height int) {
	core.EventFire(core.EventContext{
		Type: core.EVENT_CODE_RESIZED,
		Data: &core.SystemEvent{
			WindowWidth:  uint32(width),
			WindowHeight: uint32(height),
		},
	})
}

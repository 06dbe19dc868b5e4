package engine

import (
	"github.com/spaghettifunk/ballistica/engine/core"
	"github.com/spaghettifunk/ballistica/engine/renderer"
	"github.com/spaghettifunk/ballistica/engine/renderer/metadata"
)

type ApplicationConfig struct {
	StartPosX   uint32
	StartPosY   uint32
	StartWidth  uint32
	StartHeight uint32
	Name        string
	LogLevel    core.LogLevel
	// ConfigPath is the TOML settings file watched for live edits.
	ConfigPath string
}

// Game is the application the engine drives. The engine fills Renderer
// before FnInitialize runs; game code uses it to create render targets
// and release resources.
type Game struct {
	ApplicationConfig *ApplicationConfig
	Renderer          *renderer.Renderer
	State             interface{}
	FnInitialize      Initialize
	FnUpdate          Update
	FnRender          Render
	FnOnResize        OnResize
	FnShutdown        Shutdown
}

type Initialize func() error
type Update func(deltaTime float64) error

// Render produces the frame's packet: resource updates plus one command
// buffer per pass.
type Render func(deltaTime float64) (*metadata.RenderPacket, error)
type OnResize func(width uint32, height uint32) error
type Shutdown func() error

package renderer

import (
	"fmt"

	mgl "github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/ballistica/engine/config"
	"github.com/spaghettifunk/ballistica/engine/core"
	"github.com/spaghettifunk/ballistica/engine/renderer/metadata"
)

// Virtual coordinate space UI code draws in, independent of the
// physical surface.
const (
	DefaultVirtualWidth  = 1280
	DefaultVirtualHeight = 720
)

// Renderer is the graphics server frontend: it owns the per-frame
// RenderContext, routes packets to the backend and reacts to resize,
// context-loss and live graphics-config changes.
type Renderer struct {
	backend RendererBackend

	graphics config.GraphicsConfig

	projection            mgl.Mat4
	view                  mgl.Mat4
	lightShadowProjection mgl.Mat4
	cameraPosition        mgl.Vec3

	virtualWidth   float32
	virtualHeight  float32
	physicalWidth  uint32
	physicalHeight uint32

	contextLost bool
	frameNumber uint64
}

// New wires the frontend to a backend. Initialize must follow.
func New(backend RendererBackend) *Renderer {
	return &Renderer{
		backend:       backend,
		projection:    mgl.Ident4(),
		view:          mgl.Ident4(),
		virtualWidth:  DefaultVirtualWidth,
		virtualHeight: DefaultVirtualHeight,
	}
}

// Initialize loads the backend and registers for the window and config
// events that drive reloads.
func (r *Renderer) Initialize(gfx config.GraphicsConfig, width, height uint32) error {
	r.graphics = gfx
	r.physicalWidth = width
	r.physicalHeight = height
	if err := r.backend.Load(&r.graphics, width, height); err != nil {
		return fmt.Errorf("renderer backend failed to load: %w", err)
	}

	core.EventRegister(core.EVENT_CODE_RESIZED, r.onResized)
	core.EventRegister(core.EVENT_CODE_CONTEXT_LOST, r.onContextLost)
	core.EventRegister(core.EVENT_CODE_CONTEXT_RESTORED, r.onContextRestored)
	core.EventRegister(core.EVENT_CODE_GRAPHICS_CONFIG_CHANGED, r.onGraphicsConfigChanged)
	core.LogInfo("renderer initialized at %dx%d", width, height)
	return nil
}

// Shutdown unloads the backend's GPU resources.
func (r *Renderer) Shutdown() {
	r.backend.Unload(r.contextLost)
}

func (r *Renderer) onResized(ctx core.EventContext) bool {
	ev, ok := ctx.Data.(*core.SystemEvent)
	if !ok {
		return false
	}
	r.physicalWidth = ev.WindowWidth
	r.physicalHeight = ev.WindowHeight
	r.backend.RefreshScreenSize(ev.WindowWidth, ev.WindowHeight)
	return false
}

// onContextLost drops every GPU resource without touching the dead
// context. Drawing is suppressed until restoration.
func (r *Renderer) onContextLost(core.EventContext) bool {
	core.LogWarn("GL context lost; dropping GPU resources")
	r.contextLost = true
	r.backend.Unload(true)
	return false
}

func (r *Renderer) onContextRestored(core.EventContext) bool {
	core.LogInfo("GL context restored; reloading GPU resources")
	if err := r.backend.Load(&r.graphics, r.physicalWidth, r.physicalHeight); err != nil {
		core.LogError("backend reload after context restore failed: %s", err.Error())
		return false
	}
	r.contextLost = false
	return false
}

// onGraphicsConfigChanged runs the full unload/reload protocol so a
// settings edit (quality, MSAA, borders) takes effect without a
// restart.
func (r *Renderer) onGraphicsConfigChanged(ctx core.EventContext) bool {
	gfx, ok := ctx.Data.(config.GraphicsConfig)
	if !ok {
		return false
	}
	r.graphics = gfx
	r.backend.Unload(false)
	if err := r.backend.Load(&r.graphics, r.physicalWidth, r.physicalHeight); err != nil {
		core.LogError("backend reload after config change failed: %s", err.Error())
	}
	return false
}

// SetCamera sets the scene matrices used by 3D passes and by
// projected-point transforms in overlay passes.
func (r *Renderer) SetCamera(projection, view mgl.Mat4, position mgl.Vec3) {
	r.projection = projection
	r.view = view
	r.cameraPosition = position
}

// SetLightShadowProjection sets the matrix mapping world space into the
// light/shadow buffer's texture space.
func (r *Renderer) SetLightShadowProjection(m mgl.Mat4) {
	r.lightShadowProjection = m
}

// SetVirtualSize changes the resolution-independent coordinate space.
func (r *Renderer) SetVirtualSize(width, height float32) {
	r.virtualWidth = width
	r.virtualHeight = height
}

// VirtualSize returns the current virtual coordinate space dimensions.
func (r *Renderer) VirtualSize() (float32, float32) {
	return r.virtualWidth, r.virtualHeight
}

// CreateRenderTarget proxies offscreen target creation to the backend.
func (r *Renderer) CreateRenderTarget(cfg metadata.RenderTargetConfig) *metadata.RenderTarget {
	return r.backend.CreateRenderTarget(cfg)
}

func (r *Renderer) DestroyRenderTarget(t *metadata.RenderTarget) {
	r.backend.DestroyRenderTarget(t)
}

// ReleaseMesh returns a mesh's GPU buffers to the backend pool.
func (r *Renderer) ReleaseMesh(m *metadata.MeshData) {
	r.backend.ReleaseMesh(m)
}

func (r *Renderer) ReleaseTexture(t *metadata.Texture) {
	r.backend.ReleaseTexture(t)
}

// DepthTexturesSupported reports whether depth-sampling effects run on
// this driver.
func (r *Renderer) DepthTexturesSupported() bool {
	return r.backend.DepthTexturesSupported()
}

// SupportedCompression lists the texture compression formats the
// backend accepts.
func (r *Renderer) SupportedCompression() []metadata.TextureCompression {
	return r.backend.SupportedCompression()
}

// ResolvedQuality reports the graphics tier in effect after Auto
// resolution, for the settings UI to display.
func (r *Renderer) ResolvedQuality() config.GraphicsQuality {
	return r.backend.ResolvedQuality()
}

// ResolvedTextureQuality reports the texture tier in effect.
func (r *Renderer) ResolvedTextureQuality() config.TextureQuality {
	return r.backend.ResolvedTextureQuality()
}

// MSAAEnabled reports whether offscreen MSAA targets get real samples.
func (r *Renderer) MSAAEnabled() bool {
	return r.backend.MSAAEnabled()
}

// Screenshot reads back the last presented frame.
func (r *Renderer) Screenshot() []byte {
	return r.backend.Screenshot()
}

// buildContext snapshots the frontend state the interpreter needs for
// one frame.
func (r *Renderer) buildContext() metadata.RenderContext {
	return metadata.RenderContext{
		Projection:            r.projection,
		ModelView:             r.view,
		LightShadowProjection: r.lightShadowProjection,
		CameraPosition:        r.cameraPosition,
		VirtualWidth:          r.virtualWidth,
		VirtualHeight:         r.virtualHeight,
		PhysicalWidth:         r.physicalWidth,
		PhysicalHeight:        r.physicalHeight,
		Quality:               r.graphics.GraphicsQuality,
		TextureQuality:        r.graphics.TextureQuality,
		BorderMode:            r.graphics.BorderMode,
		ContextLost:           r.contextLost,
	}
}

// DrawFrame consumes one render packet: resource updates first, then
// every pass in order. Command buffers are recycled on completion
// whether or not the frame succeeded.
func (r *Renderer) DrawFrame(packet *metadata.RenderPacket) error {
	defer func() {
		for _, pass := range packet.Passes {
			if pass.Commands != nil {
				metadata.ReturnCommandBuffer(pass.Commands)
				pass.Commands = nil
			}
		}
	}()

	if r.contextLost {
		// Logic keeps producing packets; they are dropped whole until
		// the context returns.
		return nil
	}

	r.frameNumber++
	r.backend.BeginFrame()
	r.backend.UploadTextures(packet.TextureUploads)
	r.backend.UpdateMeshes(packet.MeshUpdates)

	ctx := r.buildContext()
	for _, pass := range packet.Passes {
		if err := r.backend.ExecutePass(pass, &ctx); err != nil {
			return fmt.Errorf("frame %d: %w", r.frameNumber, err)
		}
	}
	r.backend.EndFrame()
	return nil
}

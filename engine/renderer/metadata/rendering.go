package metadata

import (
	mgl "github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/ballistica/engine/config"
)

type RenderTargetType int

const (
	// The window-system framebuffer. Its dimensions track the live
	// surface and must be refreshed on resize.
	RenderTargetTypeScreen RenderTargetType = iota
	// An offscreen framebuffer object with fixed dimensions.
	RenderTargetTypeFramebuffer
)

// RenderTargetConfig selects the attachments of an offscreen target.
type RenderTargetConfig struct {
	Width          uint32
	Height         uint32
	LinearInterp   bool
	Depth          bool
	ColorAsTexture bool
	DepthAsTexture bool
	HighQuality    bool
	MSAA           bool
	Alpha          bool
}

// RenderTarget is a drawable surface: either the screen or an offscreen
// framebuffer. Color/DepthTexture are non-nil only for targets created
// with the matching *AsTexture options; they may then be referenced as
// command-buffer texture sources (light/shadow buffers, blur chains,
// post-process inputs). InternalData is the backend's framebuffer
// wrapper, owned by the graphics thread.
type RenderTarget struct {
	Type         RenderTargetType
	Width        uint32
	Height       uint32
	HasDepth     bool
	ColorTexture *Texture
	DepthTexture *Texture

	InternalData interface{}
}

// RenderPass pairs one command buffer with the target it renders into.
// A nil Target means the screen.
type RenderPass struct {
	Name            string
	Target          *RenderTarget
	ClearColor      bool
	ClearColorValue [4]float32
	Commands        *CommandBuffer

	// Optional matrix overrides for this pass; nil inherits the frame's
	// scene matrices. Overlay passes use these to draw in virtual-space
	// orthographic coordinates while world passes stay perspective.
	Projection *mgl.Mat4
	ModelView  *mgl.Mat4
}

// RenderPacket is the complete input for one frame: resource updates
// applied first, then every pass's command buffer executed in order.
type RenderPacket struct {
	DeltaTime      float64
	MeshUpdates    []*MeshUpdate
	TextureUploads []*TextureUpload
	Passes         []*RenderPass
}

// RenderContext carries the per-frame globals the interpreter needs:
// current matrices, camera, dimensions and quality settings. It is
// built by the graphics server each frame and threaded through the
// command interpreter explicitly rather than read from globals, which
// keeps the dispatch loop testable with fakes.
type RenderContext struct {
	Projection            mgl.Mat4
	ModelView             mgl.Mat4
	LightShadowProjection mgl.Mat4
	CameraPosition        mgl.Vec3

	// Virtual dimensions define the resolution-independent coordinate
	// space UI code draws in; physical dimensions are pixels.
	VirtualWidth   float32
	VirtualHeight  float32
	PhysicalWidth  uint32
	PhysicalHeight uint32

	Quality        config.GraphicsQuality
	TextureQuality config.TextureQuality
	BorderMode     config.BorderMode

	// ContextLost gates teardown paths: when true, GL deletion calls
	// are skipped because every object ID is already invalid.
	ContextLost bool
}

// FullScreenOrtho is the projection used while drawing the fixed
// full-screen quad for blits and post-process passes.
func FullScreenOrtho() mgl.Mat4 {
	return mgl.Ortho(-1, 1, -1, 1, -1, 1)
}

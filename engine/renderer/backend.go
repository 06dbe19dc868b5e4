package renderer

import (
	"github.com/spaghettifunk/ballistica/engine/config"
	"github.com/spaghettifunk/ballistica/engine/renderer/metadata"
)

// RendererBackend is the contract between the graphics server and a
// concrete GPU backend. All methods run on the graphics context
// thread.
type RendererBackend interface {
	// Load probes the context and builds shared GPU resources.
	Load(gfx *config.GraphicsConfig, width, height uint32) error
	// Unload tears everything down; with contextLost set, driver
	// deletes are skipped because every object ID is already invalid.
	Unload(contextLost bool)

	BeginFrame()
	EndFrame()

	// Resource paths. Updates and uploads are applied before any pass
	// of the frame executes.
	UpdateMeshes(updates []*metadata.MeshUpdate)
	UploadTextures(uploads []*metadata.TextureUpload)
	ReleaseMesh(m *metadata.MeshData)
	ReleaseTexture(t *metadata.Texture)

	CreateRenderTarget(cfg metadata.RenderTargetConfig) *metadata.RenderTarget
	DestroyRenderTarget(t *metadata.RenderTarget)

	// ExecutePass interprets one pass's command buffer against its
	// target.
	ExecutePass(pass *metadata.RenderPass, ctx *metadata.RenderContext) error

	RefreshScreenSize(width, height uint32)

	// Capability queries for the settings layer's quality negotiation.
	DepthTexturesSupported() bool
	SupportedCompression() []metadata.TextureCompression
	ResolvedQuality() config.GraphicsQuality
	ResolvedTextureQuality() config.TextureQuality
	MSAAEnabled() bool

	Screenshot() []byte
}

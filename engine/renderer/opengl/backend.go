package opengl

import (
	"encoding/binary"
	"fmt"

	mgl "github.com/go-gl/mathgl/mgl32"
	"golang.org/x/mobile/exp/f32"

	"github.com/spaghettifunk/ballistica/engine/config"
	"github.com/spaghettifunk/ballistica/engine/core"
	enginemath "github.com/spaghettifunk/ballistica/engine/math"
	"github.com/spaghettifunk/ballistica/engine/renderer/metadata"
)

// Renderer is the OpenGL rendering backend. It owns the GL state
// cache, the compiled program set, the mesh buffer pool and every
// framebuffer, and interprets command buffers produced by the logic
// thread. All methods must run on the graphics context thread.
type Renderer struct {
	funcs Functions
	state *glState
	caps  *capabilities
	progs *programSet
	pool  meshPool

	screen  *metadata.RenderTarget
	targets []*metadata.RenderTarget

	screenQuad *glMesh

	quality        config.GraphicsQuality
	textureQuality config.TextureQuality

	contextLost bool
	loaded      bool

	drawCalls uint32
}

// New wraps a GL function table. Load must run before any frame work.
func New(f Functions) *Renderer {
	return &Renderer{
		funcs: f,
		state: newGLState(f),
	}
}

// Load probes the context, compiles the full program set and builds
// fixed resources. Idempotent; a second call is a no-op until Unload.
func (r *Renderer) Load(gfx *config.GraphicsConfig, width, height uint32) error {
	if r.loaded {
		return nil
	}
	r.contextLost = false
	r.state.SyncGLState()
	r.caps = probeCapabilities(r.funcs, gfx)
	if r.caps.versionMajor < 3 || (r.caps.versionMajor == 3 && r.caps.versionMinor < 2) {
		return fmt.Errorf("OpenGL %d.%d is below the 3.2 floor (vendor %q, renderer %q)",
			r.caps.versionMajor, r.caps.versionMinor, r.caps.vendor, r.caps.rendererName)
	}
	r.quality = resolveQuality(gfx, r.caps)
	r.textureQuality = resolveTextureQuality(gfx)
	core.LogInfo("graphics quality: %s, texture quality: %s", r.quality, r.textureQuality)

	r.progs = newProgramSet(r.funcs, r.state, r.caps)
	r.screen = &metadata.RenderTarget{
		Type:   metadata.RenderTargetTypeScreen,
		Width:  width,
		Height: height,
	}
	r.buildScreenQuad()
	r.loaded = true
	return nil
}

// Unload releases every GL resource. With contextLost set the driver
// objects are already gone and only bookkeeping is dropped, so Unload
// is safe to call in both orderly shutdown and context-death paths.
func (r *Renderer) Unload(contextLost bool) {
	if !r.loaded {
		return
	}
	r.contextLost = contextLost
	for len(r.targets) > 0 {
		r.DestroyRenderTarget(r.targets[0])
	}
	if r.screenQuad != nil {
		r.screenQuad.destroy(r.funcs, r.state, contextLost)
		r.screenQuad = nil
	}
	r.pool.drain(r.funcs, r.state, contextLost)
	if !contextLost {
		r.progs.Destroy()
	}
	r.progs = nil
	r.loaded = false
	core.LogInfo("renderer unloaded (context lost: %v)", contextLost)
}

// DepthTexturesSupported reports the outcome of the load-time probe.
func (r *Renderer) DepthTexturesSupported() bool {
	return r.caps.depthTexturesWork
}

// SupportedCompression lists the texture compression formats the
// context accepts, in preference order for the asset pipeline.
func (r *Renderer) SupportedCompression() []metadata.TextureCompression {
	var out []metadata.TextureCompression
	for _, tc := range []metadata.TextureCompression{
		metadata.TextureCompressionASTC,
		metadata.TextureCompressionETC2,
		metadata.TextureCompressionS3TC,
		metadata.TextureCompressionPVR,
		metadata.TextureCompressionETC1,
	} {
		if r.caps.supportsCompression(tc) {
			out = append(out, tc)
		}
	}
	return out
}

// ResolvedQuality reports the graphics tier in effect after an Auto
// setting has been resolved against the probe.
func (r *Renderer) ResolvedQuality() config.GraphicsQuality {
	return r.quality
}

// ResolvedTextureQuality reports the texture tier in effect.
func (r *Renderer) ResolvedTextureQuality() config.TextureQuality {
	return r.textureQuality
}

// MSAAEnabled reports whether multisampled offscreen targets will get
// more than one sample on this context.
func (r *Renderer) MSAAEnabled() bool {
	return r.caps.msaaTarget > 1
}

func resolveQuality(gfx *config.GraphicsConfig, caps *capabilities) config.GraphicsQuality {
	if gfx.GraphicsQuality != config.GraphicsQualityAuto {
		return gfx.GraphicsQuality
	}
	if caps.msaaMaxSamples >= 4 && caps.anisotropyMax > 1 {
		return config.GraphicsQualityHigher
	}
	if caps.depthTexturesWork {
		return config.GraphicsQualityHigh
	}
	return config.GraphicsQualityMedium
}

func resolveTextureQuality(gfx *config.GraphicsConfig) config.TextureQuality {
	if gfx.TextureQuality != config.TextureQualityAuto {
		return gfx.TextureQuality
	}
	return config.TextureQualityHigh
}

// UpdateMeshes applies a frame's mesh uploads, acquiring pooled GPU
// buffers for meshes seen for the first time.
func (r *Renderer) UpdateMeshes(updates []*metadata.MeshUpdate) {
	for _, u := range updates {
		gm, ok := u.Mesh.InternalData.(*glMesh)
		if !ok {
			gm = r.pool.acquire(r.funcs, r.state, u.Mesh.Flavor)
			u.Mesh.InternalData = gm
		}
		gm.applyUpdate(r.funcs, r.state, u)
	}
}

// UploadTextures applies a frame's texture uploads.
func (r *Renderer) UploadTextures(uploads []*metadata.TextureUpload) {
	for _, u := range uploads {
		r.uploadTexture(u)
	}
}

// ReleaseMesh returns a mesh's GPU buffers to the pool for reuse.
func (r *Renderer) ReleaseMesh(m *metadata.MeshData) {
	if gm, ok := m.InternalData.(*glMesh); ok {
		r.pool.release(gm)
		m.InternalData = nil
	}
}

// ReleaseTexture frees a texture's GPU object.
func (r *Renderer) ReleaseTexture(t *metadata.Texture) {
	r.destroyTexture(t, r.contextLost)
}

// BeginFrame resets per-frame counters.
func (r *Renderer) BeginFrame() {
	r.drawCalls = 0
	r.state.ResetChangeCount()
}

// EndFrame publishes counters and, in debug builds, audits the state
// cache against the live context.
func (r *Renderer) EndFrame() {
	core.MetricsRenderStats(r.drawCalls, r.state.ChangeCount())
	if debugChecks {
		r.state.VerifyDriverState()
		checkGLError(r.funcs, "end of frame")
	}
}

// ExecutePass runs one render pass: binds the target, interprets the
// pass's command buffer and invalidates dead attachments. Per-pass
// matrix overrides are applied to a local context copy.
func (r *Renderer) ExecutePass(pass *metadata.RenderPass, ctx *metadata.RenderContext) error {
	passCtx := *ctx
	if pass.Projection != nil {
		passCtx.Projection = *pass.Projection
	}
	if pass.ModelView != nil {
		passCtx.ModelView = *pass.ModelView
	}
	r.beginPass(pass, &passCtx)
	if pass.Commands != nil && !pass.Commands.Empty() {
		if err := r.interpret(pass, &passCtx); err != nil {
			return fmt.Errorf("pass %q: %w", pass.Name, err)
		}
	}
	r.endPass(pass)
	return nil
}

// boundMode is the interpreter's record of the currently selected
// shading mode and the hooks the in-stream patch commands need.
type boundMode struct {
	mode        metadata.ShadingMode
	setMVP      func(mgl.Mat4)
	setColor    func([4]float32)
	setAddColor func([3]float32)
}

// interpret executes a command buffer against the bound target. The
// transform and scissor stacks are locals; nothing persists across
// passes except GL state, which the next mode select re-establishes.
func (r *Renderer) interpret(pass *metadata.RenderPass, ctx *metadata.RenderContext) error {
	target := pass.Target
	if target == nil {
		target = r.screen
	}
	tw, th := int32(target.Width), int32(target.Height)
	if target.Type == metadata.RenderTargetTypeScreen {
		tw, th = int32(ctx.PhysicalWidth), int32(ctx.PhysicalHeight)
	}

	transforms := []mgl.Mat4{ctx.ModelView}
	var scissors []enginemath.Rect
	var bound boundMode
	bound.mode = -1

	reader := metadata.NewCommandReader(pass.Commands)
	for {
		cmd, ok := reader.Next()
		if !ok {
			break
		}
		top := &transforms[len(transforms)-1]

		switch cmd {
		case metadata.CommandShader:
			mode, args := reader.ShaderSelect()
			if args == nil {
				break
			}
			bound = r.bindShadingMode(mode, args, ctx)

		case metadata.CommandPushTransform:
			transforms = append(transforms, *top)

		case metadata.CommandPopTransform:
			if len(transforms) <= 1 {
				return fmt.Errorf("transform stack underflow")
			}
			transforms = transforms[:len(transforms)-1]

		case metadata.CommandTranslate2:
			x, y := reader.Float(), reader.Float()
			*top = top.Mul4(mgl.Translate3D(x, y, 0))

		case metadata.CommandTranslate3:
			x, y, z := reader.Float(), reader.Float(), reader.Float()
			*top = top.Mul4(mgl.Translate3D(x, y, z))

		case metadata.CommandScale:
			x, y, z := reader.Float(), reader.Float(), reader.Float()
			*top = top.Mul4(mgl.Scale3D(x, y, z))

		case metadata.CommandRotate:
			angle := reader.Float()
			x, y, z := reader.Float(), reader.Float(), reader.Float()
			*top = top.Mul4(mgl.HomogRotate3D(mgl.DegToRad(angle), mgl.Vec3{x, y, z}.Normalize()))

		case metadata.CommandMultiplyMatrix:
			m := reader.Matrix()
			*top = top.Mul4(m)

		case metadata.CommandTranslateToProjectedPoint:
			x, y, z := reader.Float(), reader.Float(), reader.Float()
			*top = projectedPointTransform(ctx, mgl.Vec3{x, y, z})

		case metadata.CommandScissorPush:
			rect := enginemath.NewRect(reader.Float(), reader.Float(), reader.Float(), reader.Float())
			if len(scissors) > 0 {
				rect = rect.Intersect(scissors[len(scissors)-1])
			}
			scissors = append(scissors, rect)
			r.applyScissor(rect, ctx, tw, th)

		case metadata.CommandScissorPop:
			if len(scissors) == 0 {
				return fmt.Errorf("scissor stack underflow")
			}
			scissors = scissors[:len(scissors)-1]
			if len(scissors) == 0 {
				r.state.SetScissor(false, 0, 0, 0, 0)
			} else {
				r.applyScissor(scissors[len(scissors)-1], ctx, tw, th)
			}

		case metadata.CommandColor:
			c := [4]float32{reader.Float(), reader.Float(), reader.Float(), reader.Float()}
			if bound.setColor != nil {
				bound.setColor(c)
			} else if debugChecks {
				assert(false, "color patch with mode %s bound", bound.mode)
			}

		case metadata.CommandAddColor:
			c := [3]float32{reader.Float(), reader.Float(), reader.Float()}
			if bound.setAddColor != nil {
				bound.setAddColor(c)
			} else if debugChecks {
				assert(false, "add-color patch with mode %s bound", bound.mode)
			}

		case metadata.CommandFlipCullFace:
			r.state.FlipCullFace()

		case metadata.CommandDrawMesh:
			m := reader.Mesh()
			if reader.Err() != nil {
				break
			}
			r.drawMesh(m, &bound, ctx, *top)

		case metadata.CommandDrawMeshInstanced:
			m := reader.Mesh()
			count := reader.Uint()
			for i := uint32(0); i < count && reader.Err() == nil; i++ {
				inst := reader.Matrix()
				r.drawMesh(m, &bound, ctx, top.Mul4(inst))
			}

		case metadata.CommandDrawScreenQuad:
			if bound.setMVP == nil {
				return fmt.Errorf("screen quad draw with no shading mode selected")
			}
			bound.setMVP(metadata.FullScreenOrtho())
			r.state.SetDoubleSided(true)
			r.screenQuad.draw(r.funcs, r.state)
			r.drawCalls++
		}

		if err := reader.Err(); err != nil {
			return err
		}
	}
	if err := reader.Err(); err != nil {
		return err
	}
	if !reader.Exhausted() {
		return fmt.Errorf("command buffer has trailing data")
	}
	if len(scissors) > 0 {
		return fmt.Errorf("command buffer left %d scissors pushed", len(scissors))
	}
	if len(transforms) != 1 {
		return fmt.Errorf("command buffer left %d transforms pushed", len(transforms)-1)
	}
	return nil
}

func (r *Renderer) drawMesh(m *metadata.MeshData, bound *boundMode, ctx *metadata.RenderContext, transform mgl.Mat4) {
	if bound.setMVP == nil {
		if debugChecks {
			assert(false, "mesh draw with no shading mode selected")
		}
		return
	}
	gm, ok := m.InternalData.(*glMesh)
	if !ok {
		if debugChecks {
			assert(false, "draw of %s mesh that never received data", m.Flavor)
		}
		return
	}
	if debugChecks {
		assert(flavorCompatible(bound.mode, m.Flavor),
			"mesh flavor %s drawn with incompatible mode %s", m.Flavor, bound.mode)
	}
	bound.setMVP(ctx.Projection.Mul4(transform))
	gm.draw(r.funcs, r.state)
	r.drawCalls++
}

// projectedPointTransform projects a world-space point through the
// frame's scene matrices and yields a pure translation to its position
// in virtual coordinates. Lets overlay text track 3D objects.
func projectedPointTransform(ctx *metadata.RenderContext, p mgl.Vec3) mgl.Mat4 {
	clip := ctx.Projection.Mul4(ctx.ModelView).Mul4x1(p.Vec4(1))
	w := clip.W()
	if w == 0 {
		w = 1
	}
	vx := (clip.X()/w*0.5 + 0.5) * ctx.VirtualWidth
	vy := (clip.Y()/w*0.5 + 0.5) * ctx.VirtualHeight
	return mgl.Translate3D(vx, vy, 0)
}

// bindTextureArg binds a command-stream texture reference, falling back
// to nothing when the texture never made it to the GPU. Debug builds
// treat that as the bug it is.
func (r *Renderer) bindTextureArg(unit uint32, t *metadata.Texture) {
	gt := glTextureFor(t)
	if gt == nil {
		if debugChecks {
			assert(false, "draw references unloaded texture %q", t.Name)
		}
		return
	}
	r.state.BindTexture2D(unit, gt.id)
}

// bindShadingMode establishes every piece of state a mode requires:
// blend, depth, cull, program and uniforms. The state cache turns the
// unchanged portion into no-ops, so redundant mode selects are cheap.
func (r *Renderer) bindShadingMode(mode metadata.ShadingMode, args *metadata.ShaderArgs, ctx *metadata.RenderContext) boundMode {
	traits := shadingModeTraits[mode]
	r.state.SetBlend(traits.blend)
	if traits.blend {
		r.state.SetBlendPremult(traits.forcePremult || args.Premultiplied)
	}
	r.state.SetDepthWrite(traits.depthWrite)
	r.state.SetDepthTest(traits.depthTest)
	r.state.SetDoubleSided(traits.doubleSided)
	r.state.SetPointSprites(traits.pointSprites)

	bound := boundMode{mode: mode}

	switch {
	case mode <= metadata.ShadingSimpleTextureModulatedTransparentGlowMaskUV2:
		fl := simpleFlagsForMode[mode]
		p := r.progs.simple[fl]
		p.Bind()
		if fl&simpleTexture != 0 {
			r.bindTextureArg(unitPrimary, args.Texture)
		}
		if fl&simpleModulate != 0 {
			p.SetColor(args.Color)
			bound.setColor = p.SetColor
		}
		if fl&simpleColorize != 0 {
			r.bindTextureArg(unitSecondary, args.ColorizeTexture)
			p.SetColorizeColor(args.ColorizeColor)
		}
		if fl&simpleColorize2 != 0 {
			p.SetColorize2Color(args.Colorize2Color)
		}
		if fl&simpleMasked != 0 {
			r.bindTextureArg(unitTertiary, args.MaskTexture)
		}
		if fl&simpleShadow != 0 {
			p.SetShadow(args.ShadowOffset, args.ShadowBlur, args.ShadowOpacity)
		}
		if fl&simpleGlow != 0 {
			p.SetGlow(args.Glow)
		}
		if fl&simpleFlatness != 0 {
			p.SetFlatness(args.Flatness)
		}
		bound.setMVP = p.SetMVP

	case mode <= metadata.ShadingObjectReflectLightShadowDoubleSided:
		fl := objectFlagsForMode[mode]
		p := r.progs.object[fl]
		p.Bind()
		r.bindTextureArg(unitPrimary, args.Texture)
		p.SetColor(args.Color)
		bound.setColor = p.SetColor
		if fl&objectReflect != 0 {
			r.bindTextureArg(unitSecondary, args.ReflectTexture)
			p.SetReflectColor(args.ReflectColor)
			p.SetCameraPos(ctx.CameraPosition)
		}
		if fl&objectAdd != 0 {
			p.SetAddColor(args.AddColor)
			bound.setAddColor = p.SetAddColor
		}
		if fl&objectLightShadow != 0 {
			r.bindTextureArg(unitTertiary, args.LightShadowTexture)
			p.SetLightShadowMatrix(ctx.LightShadowProjection)
		}
		modelView := ctx.ModelView
		p.SetModelView(modelView)
		bound.setMVP = p.SetMVP

	case mode == metadata.ShadingSmoke || mode == metadata.ShadingSmokeOverlay:
		p := r.progs.smoke
		if mode == metadata.ShadingSmokeOverlay {
			p = r.progs.smokeOverlay
		}
		p.Bind()
		r.bindTextureArg(unitPrimary, args.Texture)
		p.SetColor(args.Color)
		bound.setColor = p.SetColor
		bound.setMVP = p.SetMVP

	case mode == metadata.ShadingSprite || mode == metadata.ShadingSpriteCameraAligned:
		p := r.progs.sprite
		if mode == metadata.ShadingSpriteCameraAligned {
			p = r.progs.spriteCamera
			p.Bind()
			p.SetModelView(ctx.ModelView)
			p.SetScreenScale(float32(ctx.PhysicalHeight))
		} else {
			p.Bind()
		}
		r.bindTextureArg(unitPrimary, args.Texture)
		p.SetColor(args.Color)
		bound.setColor = p.SetColor
		bound.setMVP = p.SetMVP

	case mode == metadata.ShadingShield:
		p := r.progs.shield
		p.Bind()
		r.bindTextureArg(unitPrimary, args.DepthTexture)
		bound.setMVP = p.SetMVP

	case mode == metadata.ShadingBlur:
		p := r.progs.blur
		p.Bind()
		r.bindTextureArg(unitPrimary, args.Texture)
		p.SetPixelSize(args.PixelSize[0], args.PixelSize[1])
		bound.setMVP = p.SetMVP

	default:
		fl := r.progs.postForMode[mode]
		p := r.progs.post[fl]
		p.Bind()
		r.bindTextureArg(unitPrimary, args.Texture)
		if fl != 0 {
			r.bindTextureArg(unitSecondary, args.BlurTexture)
		}
		if fl&postProcessDistort != 0 {
			r.bindTextureArg(unitTertiary, args.DepthTexture)
			p.SetDistort(args.DistortAmount)
			p.SetDOFRange(args.DOFNear, args.DOFFar)
		}
		bound.setMVP = p.SetMVP
	}

	return bound
}

// flavorCompatible is the debug-only contract between shading modes and
// the vertex attributes their programs consume.
func flavorCompatible(mode metadata.ShadingMode, flavor metadata.MeshFlavor) bool {
	switch {
	case mode <= metadata.ShadingSimpleTextureModulatedTransparentGlowMaskUV2:
		if mode == metadata.ShadingSimpleTextureModulatedTransparentGlowMaskUV2 {
			return flavor == metadata.MeshFlavorDualTextureFull
		}
		return flavor == metadata.MeshFlavorSimpleSplit ||
			flavor == metadata.MeshFlavorSimpleFull ||
			flavor == metadata.MeshFlavorDualTextureFull
	case mode <= metadata.ShadingObjectReflectLightShadowDoubleSided:
		return flavor == metadata.MeshFlavorObjectSplit
	case mode == metadata.ShadingSmoke || mode == metadata.ShadingSmokeOverlay:
		return flavor == metadata.MeshFlavorSmokeFull
	case mode == metadata.ShadingSprite || mode == metadata.ShadingSpriteCameraAligned:
		return flavor == metadata.MeshFlavorSprite
	default:
		// Screen-space modes draw the quad or simple geometry.
		return flavor == metadata.MeshFlavorSimpleFull
	}
}

// buildScreenQuad uploads the fixed [-1,1] quad used by blits, blur
// iterations and post-process passes.
func (r *Renderer) buildScreenQuad() {
	r.screenQuad = newGLMesh(r.funcs, r.state, metadata.MeshFlavorSimpleFull)
	verts := f32.Bytes(binary.LittleEndian,
		-1, -1, 0, 0, 0,
		1, -1, 0, 1, 0,
		1, 1, 0, 1, 1,
		-1, 1, 0, 0, 1,
	)
	quad := &metadata.MeshData{Flavor: metadata.MeshFlavorSimpleFull}
	r.screenQuad.applyUpdate(r.funcs, r.state, &metadata.MeshUpdate{
		Mesh:    quad,
		Primary: &metadata.VertexPayload{State: 1, Data: verts, Elements: 4},
		Index:   &metadata.IndexPayload{State: 1, Data16: []uint16{0, 1, 2, 0, 2, 3}},
	})
}

package opengl

import (
	"testing"

	mgl "github.com/go-gl/mathgl/mgl32"
	tassert "github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/ballistica/engine/config"
	"github.com/spaghettifunk/ballistica/engine/renderer/metadata"
)

func testContext() metadata.RenderContext {
	return metadata.RenderContext{
		Projection:     mgl.Ident4(),
		ModelView:      mgl.Ident4(),
		VirtualWidth:   800,
		VirtualHeight:  600,
		PhysicalWidth:  800,
		PhysicalHeight: 600,
	}
}

func screenPass(cb *metadata.CommandBuffer) *metadata.RenderPass {
	return &metadata.RenderPass{Name: "test", Commands: cb}
}

func TestScissorStackIntersects(t *testing.T) {
	f := newFakeFunctions()
	r := newTestRenderer(t, f)
	ctx := testContext()

	cb := metadata.GetCommandBuffer()
	defer metadata.ReturnCommandBuffer(cb)
	cb.ScissorPush(10, 10, 110, 110)
	cb.ScissorPush(50, 50, 200, 200)
	cb.ScissorPop()
	cb.ScissorPop()

	f.resetCounts()
	require.NoError(t, r.ExecutePass(screenPass(cb), &ctx))

	// Virtual and physical spaces match, so rects map 1:1. The inner
	// push clips against the outer region; the first pop restores it.
	require.Len(t, f.scissorBoxes, 3)
	tassert.Equal(t, [4]int32{10, 10, 100, 100}, f.scissorBoxes[0])
	tassert.Equal(t, [4]int32{50, 50, 60, 60}, f.scissorBoxes[1])
	tassert.Equal(t, [4]int32{10, 10, 100, 100}, f.scissorBoxes[2])
	tassert.Equal(t, 1, f.counts["Disable"], "final pop disables the scissor test")
}

func TestScissorDisjointClipsEverything(t *testing.T) {
	f := newFakeFunctions()
	r := newTestRenderer(t, f)
	ctx := testContext()

	cb := metadata.GetCommandBuffer()
	defer metadata.ReturnCommandBuffer(cb)
	cb.ScissorPush(0, 0, 100, 100)
	cb.ScissorPush(200, 200, 300, 300)
	cb.ScissorPop()
	cb.ScissorPop()

	f.resetCounts()
	require.NoError(t, r.ExecutePass(screenPass(cb), &ctx))

	require.Len(t, f.scissorBoxes, 3)
	box := f.scissorBoxes[1]
	tassert.True(t, box[2] == 0 || box[3] == 0,
		"disjoint regions clamp to a zero-area box, never negative extents: %v", box)
}

func TestScissorUnderflowIsAnError(t *testing.T) {
	f := newFakeFunctions()
	r := newTestRenderer(t, f)
	ctx := testContext()

	cb := metadata.GetCommandBuffer()
	defer metadata.ReturnCommandBuffer(cb)
	cb.ScissorPop()

	err := r.ExecutePass(screenPass(cb), &ctx)
	require.Error(t, err)
	tassert.Contains(t, err.Error(), "scissor stack underflow")
}

func TestLeakedScissorIsAnError(t *testing.T) {
	f := newFakeFunctions()
	r := newTestRenderer(t, f)
	ctx := testContext()

	cb := metadata.GetCommandBuffer()
	defer metadata.ReturnCommandBuffer(cb)
	cb.ScissorPush(0, 0, 100, 100)

	err := r.ExecutePass(screenPass(cb), &ctx)
	require.Error(t, err)
	tassert.Contains(t, err.Error(), "scissors pushed")
}

func TestTransformUnderflowIsAnError(t *testing.T) {
	f := newFakeFunctions()
	r := newTestRenderer(t, f)
	ctx := testContext()

	cb := metadata.GetCommandBuffer()
	defer metadata.ReturnCommandBuffer(cb)
	cb.PopTransform()

	err := r.ExecutePass(screenPass(cb), &ctx)
	require.Error(t, err)
	tassert.Contains(t, err.Error(), "transform stack underflow")
}

func TestLeakedTransformIsAnError(t *testing.T) {
	f := newFakeFunctions()
	r := newTestRenderer(t, f)
	ctx := testContext()

	cb := metadata.GetCommandBuffer()
	defer metadata.ReturnCommandBuffer(cb)
	cb.PushTransform()

	err := r.ExecutePass(screenPass(cb), &ctx)
	require.Error(t, err)
	tassert.Contains(t, err.Error(), "transforms pushed")
}

func TestEndToEndPass(t *testing.T) {
	f := newFakeFunctions()
	r := newTestRenderer(t, f)
	ctx := testContext()

	m := &metadata.MeshData{Flavor: metadata.MeshFlavorSimpleFull}
	r.UpdateMeshes([]*metadata.MeshUpdate{quadUpdate(m, 1)})

	cb := metadata.GetCommandBuffer()
	defer metadata.ReturnCommandBuffer(cb)
	require.NoError(t, cb.SetShader(metadata.ShadingSimpleColor, &metadata.ShaderArgs{
		Color: [4]float32{1, 0, 0, 1},
	}))
	cb.PushTransform()
	cb.Translate3(1, 2, 3)
	cb.DrawMesh(m)
	cb.PopTransform()

	f.resetCounts()
	r.BeginFrame()
	require.NoError(t, r.ExecutePass(screenPass(cb), &ctx))

	tassert.GreaterOrEqual(t, f.counts["UseProgram"], 1)
	tassert.Equal(t, 1, f.counts["DrawElements"], "one mesh draw reaches the driver")
	tassert.GreaterOrEqual(t, f.counts["UniformMatrix4fv"], 1, "MVP uploaded for the draw")
}

func TestInstancedDrawIssuesOneCallPerInstance(t *testing.T) {
	f := newFakeFunctions()
	r := newTestRenderer(t, f)
	ctx := testContext()

	m := &metadata.MeshData{Flavor: metadata.MeshFlavorSimpleFull}
	r.UpdateMeshes([]*metadata.MeshUpdate{quadUpdate(m, 1)})

	cb := metadata.GetCommandBuffer()
	defer metadata.ReturnCommandBuffer(cb)
	require.NoError(t, cb.SetShader(metadata.ShadingSimpleColor, &metadata.ShaderArgs{
		Color: [4]float32{1, 1, 1, 1},
	}))
	cb.DrawMeshInstanced(m, []mgl.Mat4{
		mgl.Translate3D(1, 0, 0),
		mgl.Translate3D(2, 0, 0),
		mgl.Translate3D(3, 0, 0),
	})

	f.resetCounts()
	r.BeginFrame()
	require.NoError(t, r.ExecutePass(screenPass(cb), &ctx))
	tassert.Equal(t, 3, f.counts["DrawElements"])
}

func TestDrawWithoutShaderSelected(t *testing.T) {
	f := newFakeFunctions()
	r := newTestRenderer(t, f)
	ctx := testContext()

	cb := metadata.GetCommandBuffer()
	defer metadata.ReturnCommandBuffer(cb)
	cb.DrawScreenQuad()

	err := r.ExecutePass(screenPass(cb), &ctx)
	require.Error(t, err)
	tassert.Contains(t, err.Error(), "no shading mode")
}

func TestShaderSelectReappliesStateThroughCache(t *testing.T) {
	f := newFakeFunctions()
	r := newTestRenderer(t, f)
	ctx := testContext()

	cb := metadata.GetCommandBuffer()
	defer metadata.ReturnCommandBuffer(cb)
	args := &metadata.ShaderArgs{Color: [4]float32{1, 1, 1, 1}}
	require.NoError(t, cb.SetShader(metadata.ShadingSimpleColor, args))
	require.NoError(t, cb.SetShader(metadata.ShadingSimpleColor, args))
	require.NoError(t, cb.SetShader(metadata.ShadingSimpleColor, args))

	f.resetCounts()
	r.BeginFrame()
	require.NoError(t, r.ExecutePass(screenPass(cb), &ctx))
	tassert.LessOrEqual(t, f.counts["UseProgram"], 1,
		"repeated identical selects collapse in the state cache")
	tassert.LessOrEqual(t, f.counts["Uniform4f"], 1,
		"unchanged modulation color is not re-uploaded")
}

func TestPerPassMatrixOverrides(t *testing.T) {
	f := newFakeFunctions()
	r := newTestRenderer(t, f)
	ctx := testContext()
	ctx.Projection = mgl.Perspective(1, 1.3, 0.1, 100)

	m := &metadata.MeshData{Flavor: metadata.MeshFlavorSimpleFull}
	r.UpdateMeshes([]*metadata.MeshUpdate{quadUpdate(m, 1)})

	cb := metadata.GetCommandBuffer()
	defer metadata.ReturnCommandBuffer(cb)
	require.NoError(t, cb.SetShader(metadata.ShadingSimpleColor, &metadata.ShaderArgs{
		Color: [4]float32{1, 1, 1, 1},
	}))
	cb.DrawMesh(m)

	ortho := mgl.Ortho(0, 800, 0, 600, -100, 100)
	ident := mgl.Ident4()
	pass := screenPass(cb)
	pass.Projection = &ortho
	pass.ModelView = &ident

	require.NoError(t, r.ExecutePass(pass, &ctx))
	// The override is applied to a pass-local copy; the frame context
	// is untouched for subsequent passes.
	tassert.Equal(t, mgl.Perspective(1, 1.3, 0.1, 100), ctx.Projection)
}

func TestOffscreenTargetLifecycle(t *testing.T) {
	f := newFakeFunctions()
	r := newTestRenderer(t, f)

	f.resetCounts()
	target := r.CreateRenderTarget(metadata.RenderTargetConfig{
		Width:          256,
		Height:         256,
		Depth:          true,
		ColorAsTexture: true,
	})
	require.NotNil(t, target)
	require.NotNil(t, target.ColorTexture, "color requested as texture is exposed for sampling")
	tassert.Nil(t, target.DepthTexture)
	tassert.Equal(t, 1, f.counts["GenFramebuffer"])
	tassert.Equal(t, 1, f.counts["FramebufferTexture2D"], "color attaches as a texture")
	tassert.Equal(t, 1, f.counts["FramebufferRenderbuffer"], "depth attaches as a renderbuffer")

	r.DestroyRenderTarget(target)
	tassert.Equal(t, 1, f.counts["DeleteFramebuffer"])
	tassert.Equal(t, 1, f.counts["DeleteTexture"])
	tassert.Equal(t, 1, f.counts["DeleteRenderbuffer"])

	// Destroying twice is harmless.
	r.DestroyRenderTarget(target)
	tassert.Equal(t, 1, f.counts["DeleteFramebuffer"])
}

func TestContextLossSkipsDriverDeletes(t *testing.T) {
	f := newFakeFunctions()
	r := newTestRenderer(t, f)

	r.CreateRenderTarget(metadata.RenderTargetConfig{
		Width:          128,
		Height:         128,
		ColorAsTexture: true,
	})

	f.resetCounts()
	r.Unload(true)
	tassert.Equal(t, 0, f.counts["DeleteFramebuffer"])
	tassert.Equal(t, 0, f.counts["DeleteTexture"])
	tassert.Equal(t, 0, f.counts["DeleteProgram"])
}

func TestOrderlyUnloadReleasesEverything(t *testing.T) {
	f := newFakeFunctions()
	r := newTestRenderer(t, f)

	r.CreateRenderTarget(metadata.RenderTargetConfig{
		Width:          128,
		Height:         128,
		ColorAsTexture: true,
	})

	f.resetCounts()
	r.Unload(false)
	tassert.Equal(t, 1, f.counts["DeleteFramebuffer"])
	tassert.Greater(t, f.counts["DeleteProgram"], 0)
}

func TestPassTargetBindsFramebuffer(t *testing.T) {
	f := newFakeFunctions()
	r := newTestRenderer(t, f)
	ctx := testContext()

	target := r.CreateRenderTarget(metadata.RenderTargetConfig{
		Width:          256,
		Height:         128,
		ColorAsTexture: true,
	})

	cb := metadata.GetCommandBuffer()
	defer metadata.ReturnCommandBuffer(cb)
	require.NoError(t, cb.SetShader(metadata.ShadingSimpleColor, &metadata.ShaderArgs{
		Color: [4]float32{0, 0, 0, 1},
	}))

	f.resetCounts()
	pass := &metadata.RenderPass{Name: "offscreen", Target: target, ClearColor: true, Commands: cb}
	require.NoError(t, r.ExecutePass(pass, &ctx))
	tassert.GreaterOrEqual(t, f.counts["BindFramebuffer"], 1)
	tassert.Equal(t, 1, f.counts["Clear"])
}

func TestResolveQualityAuto(t *testing.T) {
	caps := &capabilities{msaaMaxSamples: 8, anisotropyMax: 16, depthTexturesWork: true}
	gfx := &config.GraphicsConfig{GraphicsQuality: config.GraphicsQualityAuto}
	tassert.Equal(t, config.GraphicsQualityHigher, resolveQuality(gfx, caps))

	caps = &capabilities{depthTexturesWork: true}
	tassert.Equal(t, config.GraphicsQualityHigh, resolveQuality(gfx, caps))

	caps = &capabilities{}
	tassert.Equal(t, config.GraphicsQualityMedium, resolveQuality(gfx, caps))

	gfx.GraphicsQuality = config.GraphicsQualityLow
	tassert.Equal(t, config.GraphicsQualityLow, resolveQuality(gfx, caps))
}

package opengl

import (
	"github.com/google/uuid"

	"github.com/spaghettifunk/ballistica/engine/config"
	"github.com/spaghettifunk/ballistica/engine/core"
	enginemath "github.com/spaghettifunk/ballistica/engine/math"
	"github.com/spaghettifunk/ballistica/engine/renderer/metadata"
)

// Border insets applied when mapping the virtual coordinate space onto
// the physical surface. VR headsets crop edges aggressively; TVs less
// so.
const (
	vrBorderFraction = 0.10
	tvBorderFraction = 0.05
)

// CreateRenderTarget builds an offscreen target. Attachments created
// as textures are exposed through the returned target's Color/Depth
// texture handles so later passes can sample them.
func (r *Renderer) CreateRenderTarget(cfg metadata.RenderTargetConfig) *metadata.RenderTarget {
	fb := &glFramebuffer{cfg: cfg}
	fb.load(r.funcs, r.state, r.caps)
	r.state.BindFramebuffer(0)

	t := &metadata.RenderTarget{
		Type:         metadata.RenderTargetTypeFramebuffer,
		Width:        cfg.Width,
		Height:       cfg.Height,
		HasDepth:     cfg.Depth,
		InternalData: fb,
	}
	if cfg.ColorAsTexture {
		t.ColorTexture = &metadata.Texture{
			ID:     uuid.New(),
			Name:   "fb-color",
			Width:  cfg.Width,
			Height: cfg.Height,
			Filter: metadata.TextureFilterModeLinear,
			// Generation stays zero; framebuffer textures never take
			// pixel uploads.
			InternalData: &glTexture{id: fb.colorTex, width: cfg.Width, height: cfg.Height},
		}
	}
	if cfg.DepthAsTexture {
		t.DepthTexture = &metadata.Texture{
			ID:           uuid.New(),
			Name:         "fb-depth",
			Width:        cfg.Width,
			Height:       cfg.Height,
			InternalData: &glTexture{id: fb.depthTex, width: cfg.Width, height: cfg.Height},
		}
	}
	r.targets = append(r.targets, t)
	return t
}

// DestroyRenderTarget unloads a target's GL objects. Safe to call twice
// and safe after context loss.
func (r *Renderer) DestroyRenderTarget(t *metadata.RenderTarget) {
	if t == nil || t.Type != metadata.RenderTargetTypeFramebuffer {
		return
	}
	if fb, ok := t.InternalData.(*glFramebuffer); ok {
		fb.unload(r.funcs, r.state, r.contextLost)
	}
	for i, existing := range r.targets {
		if existing == t {
			r.targets = append(r.targets[:i], r.targets[i+1:]...)
			break
		}
	}
}

// beginPass binds a pass's target, sets the viewport to cover it and
// performs requested clears. Depth targets always clear their depth;
// color clears are per-pass.
func (r *Renderer) beginPass(pass *metadata.RenderPass, ctx *metadata.RenderContext) {
	target := pass.Target
	if target == nil {
		target = r.screen
	}
	var width, height int32
	if target.Type == metadata.RenderTargetTypeScreen {
		r.state.BindFramebuffer(0)
		width, height = int32(ctx.PhysicalWidth), int32(ctx.PhysicalHeight)
	} else {
		fb := target.InternalData.(*glFramebuffer)
		if debugChecks {
			assert(fb.loaded, "pass %q targets an unloaded framebuffer", pass.Name)
		}
		r.state.BindFramebuffer(fb.id)
		width, height = int32(target.Width), int32(target.Height)
	}
	r.state.SetViewport(0, 0, width, height)
	r.state.SetScissor(false, 0, 0, 0, 0)

	var mask uint32
	if pass.ClearColor {
		c := pass.ClearColorValue
		r.funcs.ClearColor(c[0], c[1], c[2], c[3])
		mask |= COLOR_BUFFER_BIT
	}
	if target.HasDepth || target.Type == metadata.RenderTargetTypeScreen {
		r.state.SetDepthWrite(true)
		r.state.SetDepthRange(0, 1)
		mask |= DEPTH_BUFFER_BIT
	}
	if mask != 0 {
		r.funcs.Clear(mask)
	}
}

// endPass flags the target's dead attachments as invalid so tiled
// drivers skip writing them back. Depth contents never outlive a pass
// unless they were requested as a sampleable texture.
func (r *Renderer) endPass(pass *metadata.RenderPass) {
	target := pass.Target
	if target == nil || target.Type == metadata.RenderTargetTypeScreen {
		return
	}
	fb := target.InternalData.(*glFramebuffer)
	invalidateDepth := fb.cfg.Depth && !fb.cfg.DepthAsTexture
	fb.invalidate(r.funcs, r.caps, false, invalidateDepth)
}

// drawArea is the physical-pixel region the virtual coordinate space
// maps onto for the current target, after border insets.
type drawArea struct {
	x, y, w, h float32
}

func (r *Renderer) currentDrawArea(ctx *metadata.RenderContext, width, height int32) drawArea {
	inset := float32(0)
	switch ctx.BorderMode {
	case config.BorderModeVR:
		inset = vrBorderFraction
	case config.BorderModeTVSafeArea:
		inset = tvBorderFraction
	}
	bw := float32(width) * inset
	bh := float32(height) * inset
	return drawArea{
		x: bw,
		y: bh,
		w: float32(width) - 2*bw,
		h: float32(height) - 2*bh,
	}
}

// applyScissor converts a virtual-space clip rect to physical pixels
// for the bound target and programs the scissor. An empty rect clips
// everything; GL forbids negative scissor extents so it is clamped to
// a zero-area box instead.
func (r *Renderer) applyScissor(rect enginemath.Rect, ctx *metadata.RenderContext, width, height int32) {
	area := r.currentDrawArea(ctx, width, height)
	sx := area.w / ctx.VirtualWidth
	sy := area.h / ctx.VirtualHeight

	px := area.x + rect.L*sx
	py := area.y + rect.B*sy
	pw := (rect.R - rect.L) * sx
	ph := (rect.T - rect.B) * sy
	if pw < 0 {
		pw = 0
	}
	if ph < 0 {
		ph = 0
	}
	r.state.SetScissor(true, int32(px), int32(py), int32(pw+0.5), int32(ph+0.5))
}

// Screenshot reads back the screen's pixels as tightly packed RGBA8
// rows, bottom row first.
func (r *Renderer) Screenshot() []byte {
	w, h := r.screen.Width, r.screen.Height
	buf := make([]byte, w*h*4)
	r.state.BindFramebuffer(0)
	r.funcs.ReadPixels(0, 0, int32(w), int32(h), RGBA, UNSIGNED_BYTE, buf)
	return buf
}

// RefreshScreenSize updates the screen target after a window resize.
func (r *Renderer) RefreshScreenSize(width, height uint32) {
	r.screen.Width = width
	r.screen.Height = height
	core.LogDebug("screen target resized to %dx%d", width, height)
}

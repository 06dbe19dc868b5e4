package opengl

import (
	"github.com/spaghettifunk/ballistica/engine/core"
	"github.com/spaghettifunk/ballistica/engine/renderer/metadata"
)

// glFramebuffer owns one FBO and its attachments. Load and Unload are
// idempotent so context-loss recovery can call them without tracking
// what already happened.
type glFramebuffer struct {
	cfg     metadata.RenderTargetConfig
	id      uint32
	colorTex uint32
	depthTex uint32
	colorRB  uint32
	depthRB  uint32
	samples  int32
	loaded   bool
}

func (fb *glFramebuffer) colorFormat() uint32 {
	if fb.cfg.HighQuality || fb.cfg.Alpha {
		return RGBA8
	}
	return RGB565
}

func (fb *glFramebuffer) depthFormat() uint32 {
	if fb.cfg.HighQuality {
		return DEPTH_COMPONENT24
	}
	return DEPTH_COMPONENT16
}

// load creates the FBO and attachments. A framebuffer that fails the
// completeness check is unusable and almost always a programming error
// in the config, so it dies loudly with everything a bug report needs.
func (fb *glFramebuffer) load(f Functions, state *glState, caps *capabilities) {
	if fb.loaded {
		return
	}
	w, h := int32(fb.cfg.Width), int32(fb.cfg.Height)
	if w <= 0 || h <= 0 {
		core.LogFatal("framebuffer with invalid size %dx%d", w, h)
	}

	fb.id = f.GenFramebuffer()
	state.BindFramebuffer(fb.id)

	filter := int32(NEAREST)
	if fb.cfg.LinearInterp {
		filter = LINEAR
	}

	if fb.cfg.MSAA && !fb.cfg.ColorAsTexture && !fb.cfg.DepthAsTexture {
		fb.samples = caps.maxSamplesForFormat(f, fb.colorFormat(), caps.msaaTarget)
	}

	if fb.cfg.ColorAsTexture {
		fb.colorTex = f.GenTexture()
		state.BindTexture2D(unitPrimary, fb.colorTex)
		f.TexImage2D(TEXTURE_2D, 0, int32(fb.colorFormat()), w, h, RGBA, UNSIGNED_BYTE, nil)
		f.TexParameteri(TEXTURE_2D, TEXTURE_MIN_FILTER, filter)
		f.TexParameteri(TEXTURE_2D, TEXTURE_MAG_FILTER, filter)
		f.TexParameteri(TEXTURE_2D, TEXTURE_WRAP_S, CLAMP_TO_EDGE)
		f.TexParameteri(TEXTURE_2D, TEXTURE_WRAP_T, CLAMP_TO_EDGE)
		f.FramebufferTexture2D(FRAMEBUFFER, COLOR_ATTACHMENT0, TEXTURE_2D, fb.colorTex, 0)
	} else {
		fb.colorRB = f.GenRenderbuffer()
		f.BindRenderbuffer(RENDERBUFFER, fb.colorRB)
		if fb.samples > 1 {
			f.RenderbufferStorageMultisample(RENDERBUFFER, fb.samples, fb.colorFormat(), w, h)
		} else {
			f.RenderbufferStorage(RENDERBUFFER, fb.colorFormat(), w, h)
		}
		f.FramebufferRenderbuffer(FRAMEBUFFER, COLOR_ATTACHMENT0, RENDERBUFFER, fb.colorRB)
	}

	if fb.cfg.Depth {
		if fb.cfg.DepthAsTexture {
			fb.depthTex = f.GenTexture()
			state.BindTexture2D(unitPrimary, fb.depthTex)
			f.TexImage2D(TEXTURE_2D, 0, int32(fb.depthFormat()), w, h, DEPTH_COMPONENT, UNSIGNED_INT, nil)
			f.TexParameteri(TEXTURE_2D, TEXTURE_MIN_FILTER, NEAREST)
			f.TexParameteri(TEXTURE_2D, TEXTURE_MAG_FILTER, NEAREST)
			f.TexParameteri(TEXTURE_2D, TEXTURE_WRAP_S, CLAMP_TO_EDGE)
			f.TexParameteri(TEXTURE_2D, TEXTURE_WRAP_T, CLAMP_TO_EDGE)
			f.FramebufferTexture2D(FRAMEBUFFER, DEPTH_ATTACHMENT, TEXTURE_2D, fb.depthTex, 0)
		} else {
			fb.depthRB = f.GenRenderbuffer()
			f.BindRenderbuffer(RENDERBUFFER, fb.depthRB)
			if fb.samples > 1 {
				f.RenderbufferStorageMultisample(RENDERBUFFER, fb.samples, fb.depthFormat(), w, h)
			} else {
				f.RenderbufferStorage(RENDERBUFFER, fb.depthFormat(), w, h)
			}
			f.FramebufferRenderbuffer(FRAMEBUFFER, DEPTH_ATTACHMENT, RENDERBUFFER, fb.depthRB)
		}
	}

	if status := f.CheckFramebufferStatus(FRAMEBUFFER); status != FRAMEBUFFER_COMPLETE {
		core.LogFatal("framebuffer incomplete (status 0x%04x): %dx%d depth=%v colorTex=%v depthTex=%v msaa=%d hq=%v alpha=%v",
			status, w, h, fb.cfg.Depth, fb.cfg.ColorAsTexture, fb.cfg.DepthAsTexture,
			fb.samples, fb.cfg.HighQuality, fb.cfg.Alpha)
	}
	fb.loaded = true
}

// unload releases the FBO and attachments, scrubbing the state cache
// first. With the context lost every name is already invalid; issuing
// deletes against a dead context can crash some drivers, so they are
// skipped and only bookkeeping is cleared.
func (fb *glFramebuffer) unload(f Functions, state *glState, contextLost bool) {
	if !fb.loaded {
		return
	}
	state.ForgetFramebuffer(fb.id)
	if fb.colorTex != 0 {
		state.ForgetTexture(fb.colorTex)
	}
	if fb.depthTex != 0 {
		state.ForgetTexture(fb.depthTex)
	}
	if !contextLost {
		f.DeleteFramebuffer(fb.id)
		if fb.colorTex != 0 {
			f.DeleteTexture(fb.colorTex)
		}
		if fb.depthTex != 0 {
			f.DeleteTexture(fb.depthTex)
		}
		if fb.colorRB != 0 {
			f.DeleteRenderbuffer(fb.colorRB)
		}
		if fb.depthRB != 0 {
			f.DeleteRenderbuffer(fb.depthRB)
		}
	}
	fb.id = 0
	fb.colorTex = 0
	fb.depthTex = 0
	fb.colorRB = 0
	fb.depthRB = 0
	fb.loaded = false
}

// invalidate hints the driver that the pass's attachment contents are
// dead, letting tiled GPUs skip the resolve-to-memory entirely. Only
// issued when the context supports the entry point; must be called
// while the framebuffer is bound.
func (fb *glFramebuffer) invalidate(f Functions, caps *capabilities, color, depth bool) {
	if !caps.invalidatable {
		return
	}
	var attachments []uint32
	if color {
		attachments = append(attachments, COLOR_ATTACHMENT0)
	}
	if depth && fb.cfg.Depth {
		attachments = append(attachments, DEPTH_ATTACHMENT)
	}
	if len(attachments) > 0 {
		f.InvalidateFramebuffer(FRAMEBUFFER, attachments)
	}
}

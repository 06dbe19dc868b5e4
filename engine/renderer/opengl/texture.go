package opengl

import (
	"github.com/spaghettifunk/ballistica/engine/config"
	"github.com/spaghettifunk/ballistica/engine/core"
	"github.com/spaghettifunk/ballistica/engine/renderer/metadata"
)

// glTexture is a metadata.Texture's backend payload.
type glTexture struct {
	id         uint32
	generation uint32
	width      uint32
	height     uint32
}

func glTextureFor(t *metadata.Texture) *glTexture {
	if t == nil || t.InternalData == nil {
		return nil
	}
	return t.InternalData.(*glTexture)
}

// internalFormatFor picks the GPU storage format for a quality tier.
// Lower tiers trade banding for halved VRAM per texel.
func internalFormatFor(quality config.TextureQuality, channels uint8) int32 {
	switch quality {
	case config.TextureQualityLow:
		if channels == 3 {
			return RGB565
		}
		return RGBA4
	case config.TextureQualityMedium:
		if channels == 3 {
			return RGB565
		}
		return RGBA8
	default:
		return RGBA8
	}
}

// uploadTexture pushes one texture's pixel data to the GPU, creating
// the GL object on first sight. Uploads whose generation matches the
// resident one are skipped.
func (r *Renderer) uploadTexture(u *metadata.TextureUpload) {
	t := u.Texture
	gt := glTextureFor(t)
	if gt == nil {
		gt = &glTexture{id: r.funcs.GenTexture()}
		t.InternalData = gt
	} else if gt.generation == t.Generation {
		return
	}

	if debugChecks {
		assert(len(u.Pixels) > 0, "texture %q upload carries no pixel levels", t.Name)
	}

	r.state.BindTexture2D(unitPrimary, gt.id)

	internal := internalFormatFor(r.textureQuality, t.Channels)
	w, h := int32(t.Width), int32(t.Height)
	for level, pixels := range u.Pixels {
		lw, lh := w>>uint(level), h>>uint(level)
		if lw < 1 {
			lw = 1
		}
		if lh < 1 {
			lh = 1
		}
		r.funcs.TexImage2D(TEXTURE_2D, int32(level), internal, lw, lh, RGBA, UNSIGNED_BYTE, pixels)
	}

	wantMips := t.HasMipmaps
	if wantMips && len(u.Pixels) == 1 {
		r.funcs.GenerateMipmap(TEXTURE_2D)
	}

	minFilter := int32(NEAREST)
	magFilter := int32(NEAREST)
	if t.Filter == metadata.TextureFilterModeLinear {
		magFilter = LINEAR
		if wantMips {
			minFilter = LINEAR_MIPMAP_LINEAR
		} else {
			minFilter = LINEAR
		}
	} else if wantMips {
		minFilter = LINEAR_MIPMAP_NEAREST
	}
	r.funcs.TexParameteri(TEXTURE_2D, TEXTURE_MIN_FILTER, minFilter)
	r.funcs.TexParameteri(TEXTURE_2D, TEXTURE_MAG_FILTER, magFilter)
	r.funcs.TexParameteri(TEXTURE_2D, TEXTURE_WRAP_S, CLAMP_TO_EDGE)
	r.funcs.TexParameteri(TEXTURE_2D, TEXTURE_WRAP_T, CLAMP_TO_EDGE)

	// Anisotropy only pays off on mipmapped surfaces viewed at grazing
	// angles; guarded so drivers without the extension never see the
	// parameter.
	if wantMips && r.caps.anisotropyMax > 1 && r.textureQuality == config.TextureQualityHigh {
		amount := r.caps.anisotropyMax
		if amount > 8 {
			amount = 8
		}
		r.funcs.TexParameterf(TEXTURE_2D, TEXTURE_MAX_ANISOTROPY_EXT, amount)
	}

	gt.generation = t.Generation
	gt.width = t.Width
	gt.height = t.Height
	core.LogDebug("uploaded texture %q %dx%d gen %d", t.Name, t.Width, t.Height, t.Generation)
}

// destroyTexture releases a texture's GL object, scrubbing the state
// cache first so a recycled name cannot be elided later.
func (r *Renderer) destroyTexture(t *metadata.Texture, contextLost bool) {
	gt := glTextureFor(t)
	if gt == nil {
		return
	}
	r.state.ForgetTexture(gt.id)
	if !contextLost {
		r.funcs.DeleteTexture(gt.id)
	}
	t.InternalData = nil
}

package opengl

import (
	"strconv"
	"strings"

	"github.com/spaghettifunk/ballistica/engine/config"
	"github.com/spaghettifunk/ballistica/engine/core"
	"github.com/spaghettifunk/ballistica/engine/renderer/metadata"
)

// capabilities is the result of probing the live context once at load
// time. Everything feature-dependent in the renderer gates on a field
// here rather than re-querying the driver.
type capabilities struct {
	versionMajor int
	versionMinor int
	vendor       string
	rendererName string

	extensions map[string]bool

	msaaMaxSamples  int32
	msaaTarget      int32
	anisotropyMax   float32
	invalidatable   bool
	internalformatQ bool

	compression map[metadata.TextureCompression]bool

	// depthTexturesWork is decided by actually building a depth-texture
	// framebuffer, not by matching driver name strings. A config deny
	// list remains as the escape hatch for drivers that pass the probe
	// and still render garbage.
	depthTexturesWork bool
}

func probeCapabilities(f Functions, gfx *config.GraphicsConfig) *capabilities {
	c := &capabilities{
		extensions:  map[string]bool{},
		compression: map[metadata.TextureCompression]bool{metadata.TextureCompressionNone: true},
	}

	c.vendor = f.GetString(VENDOR)
	c.rendererName = f.GetString(RENDERER)
	version := f.GetString(VERSION)
	c.versionMajor, c.versionMinor = parseGLVersion(version)

	core.LogInfo("GL vendor: %s", c.vendor)
	core.LogInfo("GL renderer: %s", c.rendererName)
	core.LogInfo("GL version: %s", version)

	if c.versionMajor >= 3 {
		var n [1]int32
		f.GetIntegerv(NUM_EXTENSIONS, n[:])
		for i := int32(0); i < n[0]; i++ {
			c.extensions[f.GetStringi(EXTENSIONS, uint32(i))] = true
		}
	} else {
		for _, e := range strings.Fields(f.GetString(EXTENSIONS)) {
			c.extensions[e] = true
		}
	}

	if c.extensions["GL_EXT_texture_filter_anisotropic"] ||
		c.extensions["GL_ARB_texture_filter_anisotropic"] {
		var v [1]int32
		f.GetIntegerv(MAX_TEXTURE_MAX_ANISOTROPY_EXT, v[:])
		c.anisotropyMax = float32(v[0])
	}

	if c.versionMajor >= 3 {
		var v [1]int32
		f.GetIntegerv(MAX_SAMPLES, v[:])
		c.msaaMaxSamples = v[0]
	}
	c.msaaTarget = int32(gfx.MSAATargetSamples)
	if c.msaaTarget > c.msaaMaxSamples {
		c.msaaTarget = c.msaaMaxSamples
	}

	c.invalidatable = c.versionMajor > 4 ||
		(c.versionMajor == 4 && c.versionMinor >= 3) ||
		c.extensions["GL_ARB_invalidate_subdata"]
	c.internalformatQ = c.versionMajor > 4 ||
		(c.versionMajor == 4 && c.versionMinor >= 2) ||
		c.extensions["GL_ARB_internalformat_query"]

	if c.extensions["GL_EXT_texture_compression_s3tc"] {
		c.compression[metadata.TextureCompressionS3TC] = true
	}
	if c.extensions["GL_IMG_texture_compression_pvrtc"] {
		c.compression[metadata.TextureCompressionPVR] = true
	}
	if c.extensions["GL_OES_compressed_ETC1_RGB8_texture"] {
		c.compression[metadata.TextureCompressionETC1] = true
	}
	if c.versionMajor >= 4 || c.extensions["GL_ARB_ES3_compatibility"] {
		c.compression[metadata.TextureCompressionETC2] = true
	}
	if c.extensions["GL_KHR_texture_compression_astc_ldr"] {
		c.compression[metadata.TextureCompressionASTC] = true
	}

	c.depthTexturesWork = c.decideDepthTextures(f, gfx)

	return c
}

// decideDepthTextures resolves whether post-process effects may sample
// scene depth. "force" and "off" short-circuit; "auto" consults the
// deny list and then runs the empirical probe.
func (c *capabilities) decideDepthTextures(f Functions, gfx *config.GraphicsConfig) bool {
	switch gfx.DepthProbe {
	case config.DepthProbeForce:
		return true
	case config.DepthProbeOff:
		return false
	}
	for _, deny := range gfx.DepthProbeDenyList {
		if deny != "" && strings.Contains(c.rendererName, deny) {
			core.LogWarn("depth textures disabled by deny list entry %q", deny)
			return false
		}
	}
	return probeDepthTextureFramebuffer(f)
}

// probeDepthTextureFramebuffer builds a small depth-texture-only
// framebuffer and reports whether the driver accepts it cleanly. This
// replaces guessing from vendor strings: the driver demonstrates the
// capability or it does not get used.
func probeDepthTextureFramebuffer(f Functions) bool {
	for f.GetError() != NO_ERROR {
	}

	tex := f.GenTexture()
	f.BindTexture(TEXTURE_2D, tex)
	f.TexParameteri(TEXTURE_2D, TEXTURE_MIN_FILTER, NEAREST)
	f.TexParameteri(TEXTURE_2D, TEXTURE_MAG_FILTER, NEAREST)
	f.TexParameteri(TEXTURE_2D, TEXTURE_WRAP_S, CLAMP_TO_EDGE)
	f.TexParameteri(TEXTURE_2D, TEXTURE_WRAP_T, CLAMP_TO_EDGE)
	f.TexImage2D(TEXTURE_2D, 0, DEPTH_COMPONENT24, 16, 16, DEPTH_COMPONENT, UNSIGNED_INT, nil)

	fb := f.GenFramebuffer()
	f.BindFramebuffer(FRAMEBUFFER, fb)
	f.FramebufferTexture2D(FRAMEBUFFER, DEPTH_ATTACHMENT, TEXTURE_2D, tex, 0)

	status := f.CheckFramebufferStatus(FRAMEBUFFER)
	errored := false
	for f.GetError() != NO_ERROR {
		errored = true
	}

	f.BindFramebuffer(FRAMEBUFFER, 0)
	f.BindTexture(TEXTURE_2D, 0)
	f.DeleteFramebuffer(fb)
	f.DeleteTexture(tex)

	ok := status == FRAMEBUFFER_COMPLETE && !errored
	if ok {
		core.LogInfo("depth texture probe passed")
	} else {
		core.LogWarn("depth texture probe failed (status 0x%04x); depth effects disabled", status)
	}
	return ok
}

// maxSamplesForFormat returns the sample count to request for an MSAA
// renderbuffer of the given format, never exceeding the configured
// target or the driver's limit.
func (c *capabilities) maxSamplesForFormat(f Functions, format uint32, want int32) int32 {
	limit := c.msaaMaxSamples
	if c.internalformatQ {
		var v [1]int32
		f.GetInternalformativ(RENDERBUFFER, format, SAMPLES, v[:])
		if v[0] > 0 {
			limit = v[0]
		}
	}
	if want > limit {
		want = limit
	}
	if want < 0 {
		want = 0
	}
	return want
}

func (c *capabilities) supportsCompression(tc metadata.TextureCompression) bool {
	return c.compression[tc]
}

func parseGLVersion(s string) (major, minor int) {
	// Both "3.2.0 NVIDIA ..." and "OpenGL ES 3.0 ..." styles appear in
	// the wild; find the first dotted number.
	for _, field := range strings.Fields(s) {
		parts := strings.SplitN(field, ".", 3)
		if len(parts) < 2 {
			continue
		}
		ma, err1 := strconv.Atoi(parts[0])
		mi, err2 := strconv.Atoi(parts[1])
		if err1 == nil && err2 == nil {
			return ma, mi
		}
	}
	return 2, 0
}

package opengl

import (
	"testing"

	tassert "github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/ballistica/engine/config"
	"github.com/spaghettifunk/ballistica/engine/renderer/metadata"
)

func TestDepthProbePasses(t *testing.T) {
	f := newFakeFunctions()
	gfx := config.Default().Graphics
	caps := probeCapabilities(f, &gfx)
	tassert.True(t, caps.depthTexturesWork)
	// The probe cleans up after itself.
	tassert.Equal(t, f.counts["GenFramebuffer"], f.counts["DeleteFramebuffer"])
	tassert.Equal(t, f.counts["GenTexture"], f.counts["DeleteTexture"])
}

func TestDepthProbeFailureDisablesDepthEffects(t *testing.T) {
	f := newFakeFunctions()
	f.failFramebufferCheck = true
	gfx := config.Default().Graphics
	caps := probeCapabilities(f, &gfx)
	tassert.False(t, caps.depthTexturesWork)
}

func TestDepthProbeDenyListShortCircuits(t *testing.T) {
	f := newFakeFunctions()
	gfx := config.Default().Graphics
	gfx.DepthProbeDenyList = []string{"FakeGL"}
	caps := probeCapabilities(f, &gfx)
	tassert.False(t, caps.depthTexturesWork)
	tassert.Equal(t, 0, f.counts["GenFramebuffer"], "deny list skips the probe entirely")
}

func TestDepthProbeForceAndOff(t *testing.T) {
	f := newFakeFunctions()
	f.failFramebufferCheck = true
	gfx := config.Default().Graphics
	gfx.DepthProbe = config.DepthProbeForce
	caps := probeCapabilities(f, &gfx)
	tassert.True(t, caps.depthTexturesWork, "force overrides the broken driver")

	f = newFakeFunctions()
	gfx.DepthProbe = config.DepthProbeOff
	caps = probeCapabilities(f, &gfx)
	tassert.False(t, caps.depthTexturesWork)
	tassert.Equal(t, 0, f.counts["GenFramebuffer"])
}

func TestDistortDegradesWithoutDepthTextures(t *testing.T) {
	f := newFakeFunctions()
	f.failFramebufferCheck = true
	gfx := config.Default().Graphics
	// The screen pass creates no framebuffers, so Load survives the
	// failing completeness check.
	r := New(f)
	require.NoError(t, r.Load(&gfx, 800, 600))
	tassert.False(t, r.DepthTexturesSupported())
	tassert.Equal(t, postProcessFlags(0), r.progs.postForMode[metadata.ShadingPostProcessDistort],
		"distort mode falls back to the plain blit program")
}

func TestLoadRejectsOldContext(t *testing.T) {
	f := newFakeFunctions()
	f.version = "2.1 ancient"
	gfx := config.Default().Graphics
	r := New(f)
	err := r.Load(&gfx, 800, 600)
	require.Error(t, err)
	tassert.Contains(t, err.Error(), "below the 3.2 floor")
}

func TestMSAATargetClampsToDriverLimit(t *testing.T) {
	f := newFakeFunctions() // fake reports MAX_SAMPLES = 4
	gfx := config.Default().Graphics
	gfx.MSAATargetSamples = 8
	caps := probeCapabilities(f, &gfx)
	tassert.Equal(t, int32(4), caps.msaaTarget)

	f = newFakeFunctions()
	gfx.MSAATargetSamples = 0
	caps = probeCapabilities(f, &gfx)
	tassert.Equal(t, int32(0), caps.msaaTarget)
}

func TestParseGLVersion(t *testing.T) {
	cases := []struct {
		in           string
		major, minor int
	}{
		{"3.2.0 NVIDIA 535.86.05", 3, 2},
		{"OpenGL ES 3.0 V@0502.0", 3, 0},
		{"4.6 (Core Profile) Mesa 23.1", 4, 6},
		{"garbage", 2, 0},
		{"", 2, 0},
	}
	for _, c := range cases {
		ma, mi := parseGLVersion(c.in)
		tassert.Equal(t, c.major, ma, c.in)
		tassert.Equal(t, c.minor, mi, c.in)
	}
}

func TestExtensionListViaIndexedQuery(t *testing.T) {
	f := newFakeFunctions()
	f.extensions = []string{"GL_EXT_texture_compression_s3tc", "GL_KHR_texture_compression_astc_ldr"}
	gfx := config.Default().Graphics
	caps := probeCapabilities(f, &gfx)
	tassert.True(t, caps.extensions["GL_EXT_texture_compression_s3tc"])
	tassert.True(t, caps.supportsCompression(metadata.TextureCompressionS3TC))
	tassert.False(t, caps.supportsCompression(metadata.TextureCompressionPVR))
}

package opengl

import (
	"testing"

	"github.com/google/uuid"
	tassert "github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/ballistica/engine/config"
	"github.com/spaghettifunk/ballistica/engine/renderer/metadata"
)

func testTexture(mipmapped bool) (*metadata.Texture, *metadata.TextureUpload) {
	t := &metadata.Texture{
		ID:         uuid.New(),
		Name:       "test",
		Width:      4,
		Height:     4,
		Channels:   4,
		HasMipmaps: mipmapped,
		Filter:     metadata.TextureFilterModeLinear,
		Generation: 1,
	}
	return t, &metadata.TextureUpload{Texture: t, Pixels: [][]byte{make([]byte, 4*4*4)}}
}

func TestTextureUploadSkipsResidentGeneration(t *testing.T) {
	f := newFakeFunctions()
	r := newTestRenderer(t, f)

	tex, up := testTexture(false)
	f.resetCounts()

	r.UploadTextures([]*metadata.TextureUpload{up})
	tassert.Equal(t, 1, f.counts["GenTexture"])
	tassert.Equal(t, 1, f.counts["TexImage2D"])
	require.NotNil(t, tex.InternalData)

	// Same generation: resident pixels are current, nothing uploads.
	r.UploadTextures([]*metadata.TextureUpload{up})
	tassert.Equal(t, 1, f.counts["TexImage2D"])

	// New generation re-uploads into the existing object.
	tex.Generation = 2
	r.UploadTextures([]*metadata.TextureUpload{up})
	tassert.Equal(t, 1, f.counts["GenTexture"])
	tassert.Equal(t, 2, f.counts["TexImage2D"])
}

func TestTextureMipmapGeneration(t *testing.T) {
	f := newFakeFunctions()
	r := newTestRenderer(t, f)

	_, up := testTexture(true)
	f.resetCounts()
	r.UploadTextures([]*metadata.TextureUpload{up})
	tassert.Equal(t, 1, f.counts["GenerateMipmap"], "single-level mipmapped upload generates the chain on the GPU")

	// An upload carrying its own chain skips driver generation.
	tex2, up2 := testTexture(true)
	tex2.Generation = 1
	up2.Pixels = [][]byte{make([]byte, 4*4*4), make([]byte, 2*2*4), make([]byte, 4)}
	f.resetCounts()
	r.UploadTextures([]*metadata.TextureUpload{up2})
	tassert.Equal(t, 3, f.counts["TexImage2D"])
	tassert.Equal(t, 0, f.counts["GenerateMipmap"])
}

func TestAnisotropyRequiresExtension(t *testing.T) {
	f := newFakeFunctions()
	r := newTestRenderer(t, f)
	require.Zero(t, r.caps.anisotropyMax)

	_, up := testTexture(true)
	f.resetCounts()
	r.UploadTextures([]*metadata.TextureUpload{up})
	tassert.Equal(t, 0, f.counts["TexParameterf"],
		"driver without the extension never sees the anisotropy parameter")
}

func TestAnisotropyAppliedWhenAvailable(t *testing.T) {
	f := newFakeFunctions()
	f.extensions = []string{"GL_EXT_texture_filter_anisotropic"}
	f.maxAniso = 16
	r := newTestRenderer(t, f)
	require.Equal(t, float32(16), r.caps.anisotropyMax)

	_, up := testTexture(true)
	f.resetCounts()
	r.UploadTextures([]*metadata.TextureUpload{up})
	tassert.Equal(t, 1, f.counts["TexParameterf"])
	tassert.Contains(t, f.log, "TexParameterf(0x84fe, 8.000000)", "amount capped at 8x")
}

func TestReleaseTextureScrubsAndDeletes(t *testing.T) {
	f := newFakeFunctions()
	r := newTestRenderer(t, f)

	tex, up := testTexture(false)
	r.UploadTextures([]*metadata.TextureUpload{up})
	f.resetCounts()

	r.ReleaseTexture(tex)
	tassert.Equal(t, 1, f.counts["DeleteTexture"])
	tassert.Nil(t, tex.InternalData)

	// Releasing a never-uploaded texture is a no-op.
	r.ReleaseTexture(&metadata.Texture{Name: "ghost"})
	tassert.Equal(t, 1, f.counts["DeleteTexture"])
}

func TestInternalFormatForQuality(t *testing.T) {
	tassert.Equal(t, int32(RGBA4), internalFormatFor(config.TextureQualityLow, 4))
	tassert.Equal(t, int32(RGB565), internalFormatFor(config.TextureQualityLow, 3))
	tassert.Equal(t, int32(RGBA8), internalFormatFor(config.TextureQualityMedium, 4))
	tassert.Equal(t, int32(RGB565), internalFormatFor(config.TextureQualityMedium, 3))
	tassert.Equal(t, int32(RGBA8), internalFormatFor(config.TextureQualityHigh, 4))
}

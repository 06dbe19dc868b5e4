package metadata

import "github.com/google/uuid"

// TextureCompression identifies a GPU compressed-pixel format family the
// driver may or may not accept. The capability probe reports the
// supported set; the texture-quality selector picks among them.
type TextureCompression int

const (
	TextureCompressionNone TextureCompression = iota
	TextureCompressionS3TC
	TextureCompressionPVR
	TextureCompressionETC1
	TextureCompressionETC2
	TextureCompressionASTC
)

func (tc TextureCompression) String() string {
	switch tc {
	case TextureCompressionS3TC:
		return "s3tc"
	case TextureCompressionPVR:
		return "pvr"
	case TextureCompressionETC1:
		return "etc1"
	case TextureCompressionETC2:
		return "etc2"
	case TextureCompressionASTC:
		return "astc"
	default:
		return "none"
	}
}

type TextureFilterMode int

const (
	TextureFilterModeNearest TextureFilterMode = iota
	TextureFilterModeLinear
)

// Texture is the client-side descriptor of a GPU texture. Only the
// graphics thread ever touches InternalData, which holds the backend's
// GPU wrapper once the texture has been uploaded.
type Texture struct {
	ID         uuid.UUID
	Name       string
	Width      uint32
	Height     uint32
	Channels   uint8
	HasMipmaps bool
	Filter     TextureFilterMode
	// Generation bumps every time the pixel contents are replaced, so
	// stale uploads can be detected after a context reload.
	Generation uint32

	InternalData interface{}
}

// TextureUpload carries pixel data destined for the GPU. Mip levels
// beyond the base are optional; the backend generates them when absent
// and the quality tier calls for mipmapping.
type TextureUpload struct {
	Texture *Texture
	// Pixels holds tightly packed RGBA8 rows, bottom row first, one
	// slice per mip level (level 0 first).
	Pixels [][]byte
}

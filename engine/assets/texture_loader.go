package assets

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"

	"github.com/spaghettifunk/ballistica/engine/core"
	"github.com/spaghettifunk/ballistica/engine/renderer/metadata"
)

// TextureLoader reads image files and produces GPU-ready uploads:
// tightly packed RGBA8 rows, bottom row first, with a full mip chain
// pre-computed on the CPU when requested.
type TextureLoader struct {
	basePath string
}

func NewTextureLoader(basePath string) *TextureLoader {
	return &TextureLoader{basePath: basePath}
}

// Load decodes one texture by name. The mip chain is generated here
// rather than on the GPU so low-end drivers with poor GenerateMipmap
// quality get the same results as everyone else.
func (l *TextureLoader) Load(name string, mipmapped bool, filter metadata.TextureFilterMode) (*metadata.TextureUpload, error) {
	path := filepath.Join(l.basePath, name)
	fd, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening texture %q: %w", name, err)
	}
	defer fd.Close()

	img, format, err := image.Decode(fd)
	if err != nil {
		return nil, fmt.Errorf("decoding texture %q: %w", name, err)
	}

	rgba := toRGBA(img)
	w := rgba.Bounds().Dx()
	h := rgba.Bounds().Dy()

	levels := [][]byte{flipRows(rgba)}
	if mipmapped {
		cur := rgba
		for cur.Bounds().Dx() > 1 || cur.Bounds().Dy() > 1 {
			cur = halve(cur)
			levels = append(levels, flipRows(cur))
		}
	}

	tex := &metadata.Texture{
		ID:         uuid.New(),
		Name:       name,
		Width:      uint32(w),
		Height:     uint32(h),
		Channels:   4,
		HasMipmaps: mipmapped,
		Filter:     filter,
		Generation: 1,
	}
	core.LogDebug("loaded texture %q (%s, %dx%d, %d mip levels)", name, format, w, h, len(levels))
	return &metadata.TextureUpload{Texture: tex, Pixels: levels}, nil
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	out := image.NewRGBA(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Src)
	return out
}

func halve(img *image.RGBA) *image.RGBA {
	w := img.Bounds().Dx() / 2
	h := img.Bounds().Dy() / 2
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(out, out.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return out
}

// flipRows converts an image's top-first rows to the bottom-first
// layout GL expects, dropping any stride padding.
func flipRows(img *image.RGBA) []byte {
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	rowLen := w * 4
	out := make([]byte, rowLen*h)
	for y := 0; y < h; y++ {
		src := img.Pix[y*img.Stride : y*img.Stride+rowLen]
		dst := out[(h-1-y)*rowLen:]
		copy(dst, src)
	}
	return out
}

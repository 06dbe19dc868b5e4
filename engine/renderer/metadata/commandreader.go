package metadata

import (
	"fmt"
	gomath "math"

	mgl "github.com/go-gl/mathgl/mgl32"
)

// CommandReader walks a command buffer's token stream with bounds
// checking. A truncated or malformed stream never causes silent
// misinterpretation: the first out-of-range read latches an error,
// every later read returns zero values, and the interpreter surfaces
// Err() after the loop.
type CommandReader struct {
	cb  *CommandBuffer
	pos int
	err error
}

func NewCommandReader(cb *CommandBuffer) *CommandReader {
	return &CommandReader{cb: cb}
}

func (r *CommandReader) fail(format string, args ...interface{}) {
	if r.err == nil {
		r.err = fmt.Errorf(format, args...)
	}
}

// Err returns the first decoding error encountered, if any.
func (r *CommandReader) Err() error {
	return r.err
}

// Next returns the next command token. ok is false once the stream is
// exhausted or a decoding error has latched.
func (r *CommandReader) Next() (cmd uint32, ok bool) {
	if r.err != nil || r.pos >= len(r.cb.buf) {
		return 0, false
	}
	cmd = r.cb.buf[r.pos]
	r.pos++
	if cmd >= commandCount {
		r.fail("unrecognized render command token %d at offset %d", cmd, r.pos-1)
		return 0, false
	}
	return cmd, true
}

func (r *CommandReader) Uint() uint32 {
	if r.err != nil {
		return 0
	}
	if r.pos >= len(r.cb.buf) {
		r.fail("command buffer truncated at offset %d", r.pos)
		return 0
	}
	v := r.cb.buf[r.pos]
	r.pos++
	return v
}

func (r *CommandReader) Float() float32 {
	return gomath.Float32frombits(r.Uint())
}

func (r *CommandReader) Bool() bool {
	return r.Uint() != 0
}

func (r *CommandReader) Mesh() *MeshData {
	idx := r.Uint()
	if r.err != nil {
		return nil
	}
	if int(idx) >= len(r.cb.meshes) {
		r.fail("mesh reference %d out of range (have %d)", idx, len(r.cb.meshes))
		return nil
	}
	return r.cb.meshes[idx]
}

func (r *CommandReader) Texture() *Texture {
	idx := r.Uint()
	if r.err != nil {
		return nil
	}
	if int(idx) >= len(r.cb.textures) {
		r.fail("texture reference %d out of range (have %d)", idx, len(r.cb.textures))
		return nil
	}
	return r.cb.textures[idx]
}

func (r *CommandReader) Matrix() mgl.Mat4 {
	var m mgl.Mat4
	for i := range m {
		m[i] = r.Float()
	}
	return m
}

// ShaderSelect decodes a shader-select command's mode and operands,
// walking the same layout table the encoder used.
func (r *CommandReader) ShaderSelect() (ShadingMode, *ShaderArgs) {
	modeRaw := r.Uint()
	if r.err != nil {
		return 0, nil
	}
	if modeRaw >= uint32(ShadingModeCount) {
		r.fail("unrecognized shading mode %d", modeRaw)
		return 0, nil
	}
	mode := ShadingMode(modeRaw)
	args := &ShaderArgs{}
	for _, op := range shadingModeOperands[mode] {
		switch op {
		case opColor:
			args.Color = [4]float32{r.Float(), r.Float(), r.Float(), r.Float()}
		case opPremultiplied:
			args.Premultiplied = r.Bool()
		case opTexture:
			args.Texture = r.Texture()
		case opColorizeTexture:
			args.ColorizeTexture = r.Texture()
		case opColorizeColor:
			args.ColorizeColor = [4]float32{r.Float(), r.Float(), r.Float(), r.Float()}
		case opColorize2Color:
			args.Colorize2Color = [4]float32{r.Float(), r.Float(), r.Float(), r.Float()}
		case opMaskTexture:
			args.MaskTexture = r.Texture()
		case opShadow:
			args.ShadowOffset = [2]float32{r.Float(), r.Float()}
			args.ShadowBlur = r.Float()
			args.ShadowOpacity = r.Float()
		case opGlow:
			args.Glow = r.Float()
		case opFlatness:
			args.Flatness = r.Float()
		case opReflectTexture:
			args.ReflectTexture = r.Texture()
		case opReflectColor:
			args.ReflectColor = [3]float32{r.Float(), r.Float(), r.Float()}
		case opAddColor:
			args.AddColor = [3]float32{r.Float(), r.Float(), r.Float()}
		case opLightShadowTexture:
			args.LightShadowTexture = r.Texture()
		case opBlurTexture:
			args.BlurTexture = r.Texture()
		case opDepthTexture:
			args.DepthTexture = r.Texture()
		case opDistort:
			args.DistortAmount = r.Float()
		case opDOFRange:
			args.DOFNear = r.Float()
			args.DOFFar = r.Float()
		case opPixelSize:
			args.PixelSize = [2]float32{r.Float(), r.Float()}
		}
	}
	if r.err != nil {
		return 0, nil
	}
	return mode, args
}

// Exhausted reports whether every token has been consumed. A buffer
// with trailing unread data at the end of interpretation is a contract
// violation by the producer.
func (r *CommandReader) Exhausted() bool {
	return r.err == nil && r.pos == len(r.cb.buf)
}

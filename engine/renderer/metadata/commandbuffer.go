package metadata

import (
	"fmt"
	gomath "math"
	"sync"

	mgl "github.com/go-gl/mathgl/mgl32"
)

// The command buffer stores a series of rendering commands, represented
// by the following values. Each one is followed in the buffer by a fixed
// number of inline operands (float32s bit-cast to uint32, flags, or
// indices into the buffer's mesh/texture side tables), after which the
// next command follows.
const (
	// Select a shading mode. Operands: 1 uint32 mode id, then the
	// mode's layout from shadingModeOperands.
	CommandShader uint32 = iota
	// Push/pop the model-view transform stack. No operands.
	CommandPushTransform
	CommandPopTransform
	// 2 float32: x, y translation.
	CommandTranslate2
	// 3 float32: x, y, z translation.
	CommandTranslate3
	// 3 float32: x, y, z scale.
	CommandScale
	// 4 float32: angle (degrees), axis x, y, z.
	CommandRotate
	// 16 float32: column-major matrix multiplied onto the current transform.
	CommandMultiplyMatrix
	// 3 float32: a world-space point; the current transform becomes a
	// translation to its on-screen projection. Used to anchor 2D
	// overlays to 3D positions.
	CommandTranslateToProjectedPoint
	// 4 float32: virtual-space rect l, b, r, t, intersected against the
	// current scissor top and pushed.
	CommandScissorPush
	// No operands.
	CommandScissorPop
	// 4 float32: patches the bound program's modulation color without a
	// full shader-mode switch. Requires a compatible program.
	CommandColor
	// 3 float32: patches the bound object program's additive color.
	CommandAddColor
	// No operands. Flips front-face winding for mirrored transforms.
	CommandFlipCullFace
	// 1 uint32: mesh side-table index.
	CommandDrawMesh
	// 1 uint32 mesh index, 1 uint32 instance count, then count*16
	// float32 transform matrices. Each instance draws inside its own
	// push/pop of the transform stack.
	CommandDrawMeshInstanced
	// No operands. Draws the fixed full-screen quad under a temporary
	// [-1,1]^2 orthographic projection.
	CommandDrawScreenQuad

	commandCount
)

// CommandBuffer encodes one render pass's drawing instructions in an
// API-agnostic manner: a linear uint32 token stream plus side tables
// for mesh and texture references. It is produced once by the scene
// pass on the logic thread and consumed exactly once by the renderer.
type CommandBuffer struct {
	buf      []uint32
	meshes   []*MeshData
	textures []*Texture
}

// CommandBuffers are managed with a sync.Pool so their backing slices
// persist across frames instead of churning the allocator.
var commandBufferPool = sync.Pool{New: func() any { return &CommandBuffer{} }}

func GetCommandBuffer() *CommandBuffer {
	return commandBufferPool.Get().(*CommandBuffer)
}

func ReturnCommandBuffer(cb *CommandBuffer) {
	cb.Reset()
	commandBufferPool.Put(cb)
}

// Reset truncates the buffer so it can be reused.
func (cb *CommandBuffer) Reset() {
	cb.buf = cb.buf[:0]
	cb.meshes = cb.meshes[:0]
	cb.textures = cb.textures[:0]
}

// Empty reports whether any commands have been recorded.
func (cb *CommandBuffer) Empty() bool {
	return len(cb.buf) == 0
}

func (cb *CommandBuffer) appendFloats(floats ...float32) {
	for _, f := range floats {
		cb.buf = append(cb.buf, gomath.Float32bits(f))
	}
}

func (cb *CommandBuffer) appendUint(v uint32) {
	cb.buf = append(cb.buf, v)
}

func (cb *CommandBuffer) appendBool(v bool) {
	if v {
		cb.buf = append(cb.buf, 1)
	} else {
		cb.buf = append(cb.buf, 0)
	}
}

func (cb *CommandBuffer) appendMesh(m *MeshData) {
	cb.buf = append(cb.buf, uint32(len(cb.meshes)))
	cb.meshes = append(cb.meshes, m)
}

func (cb *CommandBuffer) appendTexture(t *Texture) {
	cb.buf = append(cb.buf, uint32(len(cb.textures)))
	cb.textures = append(cb.textures, t)
}

func (cb *CommandBuffer) appendMatrix(m mgl.Mat4) {
	for _, v := range m {
		cb.buf = append(cb.buf, gomath.Float32bits(v))
	}
}

// SetShader records a shading-mode select. Every piece of GL state the
// mode requires is re-established by the interpreter; nothing is
// inherited from a previously selected mode.
func (cb *CommandBuffer) SetShader(mode ShadingMode, args *ShaderArgs) error {
	if mode < 0 || mode >= ShadingModeCount {
		return fmt.Errorf("invalid shading mode %d", mode)
	}
	cb.appendUint(CommandShader)
	cb.appendUint(uint32(mode))
	for _, op := range shadingModeOperands[mode] {
		switch op {
		case opColor:
			cb.appendFloats(args.Color[0], args.Color[1], args.Color[2], args.Color[3])
		case opPremultiplied:
			cb.appendBool(args.Premultiplied)
		case opTexture:
			if args.Texture == nil {
				return fmt.Errorf("shading mode %s requires a texture", mode)
			}
			cb.appendTexture(args.Texture)
		case opColorizeTexture:
			if args.ColorizeTexture == nil {
				return fmt.Errorf("shading mode %s requires a colorize texture", mode)
			}
			cb.appendTexture(args.ColorizeTexture)
		case opColorizeColor:
			cb.appendFloats(args.ColorizeColor[0], args.ColorizeColor[1], args.ColorizeColor[2], args.ColorizeColor[3])
		case opColorize2Color:
			cb.appendFloats(args.Colorize2Color[0], args.Colorize2Color[1], args.Colorize2Color[2], args.Colorize2Color[3])
		case opMaskTexture:
			if args.MaskTexture == nil {
				return fmt.Errorf("shading mode %s requires a mask texture", mode)
			}
			cb.appendTexture(args.MaskTexture)
		case opShadow:
			cb.appendFloats(args.ShadowOffset[0], args.ShadowOffset[1], args.ShadowBlur, args.ShadowOpacity)
		case opGlow:
			cb.appendFloats(args.Glow)
		case opFlatness:
			cb.appendFloats(args.Flatness)
		case opReflectTexture:
			if args.ReflectTexture == nil {
				return fmt.Errorf("shading mode %s requires a reflection texture", mode)
			}
			cb.appendTexture(args.ReflectTexture)
		case opReflectColor:
			cb.appendFloats(args.ReflectColor[0], args.ReflectColor[1], args.ReflectColor[2])
		case opAddColor:
			cb.appendFloats(args.AddColor[0], args.AddColor[1], args.AddColor[2])
		case opLightShadowTexture:
			if args.LightShadowTexture == nil {
				return fmt.Errorf("shading mode %s requires a light/shadow texture", mode)
			}
			cb.appendTexture(args.LightShadowTexture)
		case opBlurTexture:
			if args.BlurTexture == nil {
				return fmt.Errorf("shading mode %s requires a blur texture", mode)
			}
			cb.appendTexture(args.BlurTexture)
		case opDepthTexture:
			if args.DepthTexture == nil {
				return fmt.Errorf("shading mode %s requires a depth texture", mode)
			}
			cb.appendTexture(args.DepthTexture)
		case opDistort:
			cb.appendFloats(args.DistortAmount)
		case opDOFRange:
			cb.appendFloats(args.DOFNear, args.DOFFar)
		case opPixelSize:
			cb.appendFloats(args.PixelSize[0], args.PixelSize[1])
		}
	}
	return nil
}

// PushTransform saves the current model-view transform.
func (cb *CommandBuffer) PushTransform() {
	cb.appendUint(CommandPushTransform)
}

// PopTransform restores the most recently pushed transform.
func (cb *CommandBuffer) PopTransform() {
	cb.appendUint(CommandPopTransform)
}

func (cb *CommandBuffer) Translate2(x, y float32) {
	cb.appendUint(CommandTranslate2)
	cb.appendFloats(x, y)
}

func (cb *CommandBuffer) Translate3(x, y, z float32) {
	cb.appendUint(CommandTranslate3)
	cb.appendFloats(x, y, z)
}

func (cb *CommandBuffer) Scale(x, y, z float32) {
	cb.appendUint(CommandScale)
	cb.appendFloats(x, y, z)
}

// Rotate applies a rotation of angleDeg degrees around the given axis.
func (cb *CommandBuffer) Rotate(angleDeg, x, y, z float32) {
	cb.appendUint(CommandRotate)
	cb.appendFloats(angleDeg, x, y, z)
}

func (cb *CommandBuffer) MultiplyMatrix(m mgl.Mat4) {
	cb.appendUint(CommandMultiplyMatrix)
	cb.appendMatrix(m)
}

// TranslateToProjectedPoint anchors subsequent draws at the screen
// projection of a world-space point.
func (cb *CommandBuffer) TranslateToProjectedPoint(x, y, z float32) {
	cb.appendUint(CommandTranslateToProjectedPoint)
	cb.appendFloats(x, y, z)
}

// ScissorPush intersects a virtual-space rect against the current
// scissor region and enables scissor testing.
func (cb *CommandBuffer) ScissorPush(l, b, r, t float32) {
	cb.appendUint(CommandScissorPush)
	cb.appendFloats(l, b, r, t)
}

// ScissorPop restores the previous scissor region, disabling scissor
// testing when the stack empties.
func (cb *CommandBuffer) ScissorPop() {
	cb.appendUint(CommandScissorPop)
}

// Color patches the bound program's modulation color in place. The
// currently selected shading mode must carry a modulation color.
func (cb *CommandBuffer) Color(r, g, b, a float32) {
	cb.appendUint(CommandColor)
	cb.appendFloats(r, g, b, a)
}

// AddColor patches the bound object program's additive color in place.
func (cb *CommandBuffer) AddColor(r, g, b float32) {
	cb.appendUint(CommandAddColor)
	cb.appendFloats(r, g, b)
}

// FlipCullFace toggles front-face winding; required under transforms
// with negative determinants (mirrors).
func (cb *CommandBuffer) FlipCullFace() {
	cb.appendUint(CommandFlipCullFace)
}

// DrawMesh draws a mesh under the current transform and shading mode.
func (cb *CommandBuffer) DrawMesh(m *MeshData) {
	cb.appendUint(CommandDrawMesh)
	cb.appendMesh(m)
}

// DrawMeshInstanced draws the mesh once per transform, each instance
// wrapped in its own transform push/pop.
func (cb *CommandBuffer) DrawMeshInstanced(m *MeshData, transforms []mgl.Mat4) {
	cb.appendUint(CommandDrawMeshInstanced)
	cb.appendMesh(m)
	cb.appendUint(uint32(len(transforms)))
	for _, t := range transforms {
		cb.appendMatrix(t)
	}
}

// DrawScreenQuad draws the fixed full-screen quad; used for blits and
// post-process passes.
func (cb *CommandBuffer) DrawScreenQuad() {
	cb.appendUint(CommandDrawScreenQuad)
}

package opengl

import (
	"github.com/spaghettifunk/ballistica/engine/core"
)

// maxTextureUnits is the number of texture units the renderer ever
// binds; the densest shading modes use six.
const maxTextureUnits = 8

// invalidHandle is a sentinel no real GL object name can take; cache
// slots holding it always miss, forcing the next bind through to the
// driver.
const invalidHandle = ^uint32(0)

// glState shadows the subset of GL state the renderer mutates while
// interpreting command buffers. Every mutation funnels through a setter
// here, which forwards to the driver only when the requested value
// differs from the shadowed one. The shadow is authoritative between
// SyncGLState calls; external code touching the context directly must
// be followed by a SyncGLState.
type glState struct {
	f Functions

	blend         bool
	blendPremult  bool
	depthWrite    bool
	depthTest     bool
	depthMin      float32
	depthMax      float32
	doubleSided   bool
	cullFlipped   bool
	program       uint32
	vao           uint32
	framebuffer   uint32
	activeUnit    uint32
	boundTexture  [maxTextureUnits]uint32
	viewport      [4]int32
	scissorOn     bool
	scissorBox    [4]int32
	pointSprites  bool

	// Driver calls actually issued since the last counter reset; the
	// delta between this and the number of setter calls is what the
	// elision saved.
	changeCount uint32
}

func newGLState(f Functions) *glState {
	s := &glState{f: f}
	s.SyncGLState()
	return s
}

// SyncGLState invalidates every shadowed value so the next setter call
// of each kind reaches the driver. Required after context creation,
// after context restoration, and after any foreign code has touched
// the context.
func (s *glState) SyncGLState() {
	s.blend = false
	s.blendPremult = false
	s.depthWrite = true
	s.depthTest = false
	s.depthMin = 0
	s.depthMax = 1
	s.doubleSided = false
	s.cullFlipped = false
	s.program = invalidHandle
	s.vao = invalidHandle
	s.framebuffer = invalidHandle
	s.activeUnit = invalidHandle
	for i := range s.boundTexture {
		s.boundTexture[i] = invalidHandle
	}
	s.viewport = [4]int32{-1, -1, -1, -1}
	s.scissorOn = false
	s.scissorBox = [4]int32{-1, -1, -1, -1}
	s.pointSprites = false

	// Establish the fixed baseline the shadow assumes.
	s.f.Disable(BLEND)
	s.f.BlendFunc(SRC_ALPHA, ONE_MINUS_SRC_ALPHA)
	s.f.DepthMask(true)
	s.f.Disable(DEPTH_TEST)
	s.f.DepthFunc(LEQUAL)
	s.f.DepthRange(0, 1)
	s.f.Enable(CULL_FACE)
	s.f.FrontFace(CCW)
	s.f.Disable(SCISSOR_TEST)
	s.f.Disable(PROGRAM_POINT_SIZE)
}

// ChangeCount returns driver calls issued through the cache since the
// last ResetChangeCount; feeds the per-frame metrics line.
func (s *glState) ChangeCount() uint32 {
	return s.changeCount
}

func (s *glState) ResetChangeCount() {
	s.changeCount = 0
}

func (s *glState) SetBlend(on bool) {
	if s.blend == on {
		return
	}
	s.blend = on
	s.changeCount++
	if on {
		s.f.Enable(BLEND)
	} else {
		s.f.Disable(BLEND)
	}
}

// SetBlendPremult selects between straight-alpha and premultiplied
// blend factors. Only meaningful while blending is enabled.
func (s *glState) SetBlendPremult(premult bool) {
	if s.blendPremult == premult {
		return
	}
	s.blendPremult = premult
	s.changeCount++
	if premult {
		s.f.BlendFunc(ONE, ONE_MINUS_SRC_ALPHA)
	} else {
		s.f.BlendFunc(SRC_ALPHA, ONE_MINUS_SRC_ALPHA)
	}
}

func (s *glState) SetDepthWrite(on bool) {
	if s.depthWrite == on {
		return
	}
	s.depthWrite = on
	s.changeCount++
	s.f.DepthMask(on)
}

func (s *glState) SetDepthTest(on bool) {
	if s.depthTest == on {
		return
	}
	s.depthTest = on
	s.changeCount++
	if on {
		s.f.Enable(DEPTH_TEST)
	} else {
		s.f.Disable(DEPTH_TEST)
	}
}

// SetDepthRange restricts depth writes/tests to a sub-range of the
// buffer; passes use disjoint sub-ranges to layer 3D scenes and UI
// without clearing between them.
func (s *glState) SetDepthRange(min, max float32) {
	if debugChecks {
		assert(min >= 0 && max <= 1 && min <= max, "bad depth range [%f %f]", min, max)
	}
	if s.depthMin == min && s.depthMax == max {
		return
	}
	s.depthMin = min
	s.depthMax = max
	s.changeCount++
	s.f.DepthRange(min, max)
}

func (s *glState) SetDoubleSided(on bool) {
	if s.doubleSided == on {
		return
	}
	s.doubleSided = on
	s.changeCount++
	if on {
		s.f.Disable(CULL_FACE)
	} else {
		s.f.Enable(CULL_FACE)
	}
}

// FlipCullFace toggles front-face winding; mirrored transforms reverse
// triangle orientation so culling must follow.
func (s *glState) FlipCullFace() {
	s.cullFlipped = !s.cullFlipped
	s.changeCount++
	if s.cullFlipped {
		s.f.FrontFace(CW)
	} else {
		s.f.FrontFace(CCW)
	}
}

func (s *glState) CullFlipped() bool {
	return s.cullFlipped
}

func (s *glState) SetPointSprites(on bool) {
	if s.pointSprites == on {
		return
	}
	s.pointSprites = on
	s.changeCount++
	if on {
		s.f.Enable(PROGRAM_POINT_SIZE)
	} else {
		s.f.Disable(PROGRAM_POINT_SIZE)
	}
}

func (s *glState) UseProgram(p uint32) {
	if s.program == p {
		return
	}
	s.program = p
	s.changeCount++
	s.f.UseProgram(p)
}

func (s *glState) BindVertexArray(vao uint32) {
	if s.vao == vao {
		return
	}
	s.vao = vao
	s.changeCount++
	s.f.BindVertexArray(vao)
}

func (s *glState) BindFramebuffer(fb uint32) {
	if s.framebuffer == fb {
		return
	}
	s.framebuffer = fb
	s.changeCount++
	s.f.BindFramebuffer(FRAMEBUFFER, fb)
}

func (s *glState) activeTexture(unit uint32) {
	if debugChecks {
		assert(unit < maxTextureUnits, "texture unit %d out of range", unit)
	}
	if s.activeUnit == unit {
		return
	}
	s.activeUnit = unit
	s.changeCount++
	s.f.ActiveTexture(TEXTURE0 + unit)
}

// BindTexture2D binds a texture to a unit, skipping the driver when the
// unit already holds it.
func (s *glState) BindTexture2D(unit, id uint32) {
	if s.boundTexture[unit] == id {
		return
	}
	s.activeTexture(unit)
	s.boundTexture[unit] = id
	s.changeCount++
	s.f.BindTexture(TEXTURE_2D, id)
}

func (s *glState) SetViewport(x, y, w, h int32) {
	v := [4]int32{x, y, w, h}
	if s.viewport == v {
		return
	}
	s.viewport = v
	s.changeCount++
	s.f.Viewport(x, y, w, h)
}

func (s *glState) SetScissor(on bool, x, y, w, h int32) {
	if on != s.scissorOn {
		s.scissorOn = on
		s.changeCount++
		if on {
			s.f.Enable(SCISSOR_TEST)
		} else {
			s.f.Disable(SCISSOR_TEST)
		}
	}
	if !on {
		return
	}
	box := [4]int32{x, y, w, h}
	if s.scissorBox == box {
		return
	}
	s.scissorBox = box
	s.changeCount++
	s.f.Scissor(x, y, w, h)
}

// ForgetTexture scrubs a texture id from the shadow before deletion.
// GL rebinds deleted names to zero behind our back; without the scrub a
// later bind of a recycled name would be wrongly elided.
func (s *glState) ForgetTexture(id uint32) {
	for i := range s.boundTexture {
		if s.boundTexture[i] == id {
			s.boundTexture[i] = invalidHandle
		}
	}
}

func (s *glState) ForgetVertexArray(vao uint32) {
	if s.vao == vao {
		s.vao = invalidHandle
	}
}

func (s *glState) ForgetFramebuffer(fb uint32) {
	if s.framebuffer == fb {
		s.framebuffer = invalidHandle
	}
}

func (s *glState) ForgetProgram(p uint32) {
	if s.program == p {
		s.program = invalidHandle
	}
}

// VerifyDriverState cross-checks a few cheap-to-query shadow entries
// against the live context and screams if they drifted. Debug builds
// call this once per frame.
func (s *glState) VerifyDriverState() {
	if !debugChecks {
		return
	}
	var v [4]int32
	s.f.GetIntegerv(CURRENT_PROGRAM, v[:1])
	if s.program != invalidHandle && uint32(v[0]) != s.program {
		core.LogError("state cache drift: program cached=%d actual=%d", s.program, v[0])
	}
	s.f.GetIntegerv(VERTEX_ARRAY_BINDING, v[:1])
	if s.vao != invalidHandle && uint32(v[0]) != s.vao {
		core.LogError("state cache drift: vao cached=%d actual=%d", s.vao, v[0])
	}
	s.f.GetIntegerv(FRAMEBUFFER_BINDING, v[:1])
	if s.framebuffer != invalidHandle && uint32(v[0]) != s.framebuffer {
		core.LogError("state cache drift: framebuffer cached=%d actual=%d", s.framebuffer, v[0])
	}
	s.f.GetIntegerv(VIEWPORT, v[:])
	if s.viewport[2] >= 0 && v != s.viewport {
		core.LogError("state cache drift: viewport cached=%v actual=%v", s.viewport, v)
	}
}

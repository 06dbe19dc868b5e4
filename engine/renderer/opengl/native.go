package opengl

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v3.2-core/gl"
)

// nativeFunctions forwards the Functions seam to the go-gl binding.
// A 3.2 core context is the floor the platform layer requests; newer
// entry points absent from the binding degrade to documented no-ops or
// fallbacks.
type nativeFunctions struct{}

// NewNative initializes the GL binding against the current context and
// returns the live function table. The context must already be current
// on the calling thread.
func NewNative() (Functions, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("initializing GL bindings: %w", err)
	}
	return nativeFunctions{}, nil
}

func (nativeFunctions) GetError() uint32 {
	return gl.GetError()
}

func (nativeFunctions) GetString(name uint32) string {
	return gl.GoStr(gl.GetString(name))
}

func (nativeFunctions) GetStringi(name, index uint32) string {
	return gl.GoStr(gl.GetStringi(name, index))
}

func (nativeFunctions) GetIntegerv(pname uint32, data []int32) {
	gl.GetIntegerv(pname, &data[0])
}

// GetInternalformativ is a 4.2 entry point the 3.2 binding cannot
// reach; report the context-wide sample limit instead, which is always
// a valid (if conservative) answer for the SAMPLES query.
func (nativeFunctions) GetInternalformativ(target, internalformat, pname uint32, data []int32) {
	if pname == SAMPLES {
		gl.GetIntegerv(MAX_SAMPLES, &data[0])
	}
}

func (nativeFunctions) Enable(capability uint32)  { gl.Enable(capability) }
func (nativeFunctions) Disable(capability uint32) { gl.Disable(capability) }
func (nativeFunctions) BlendFunc(s, d uint32)     { gl.BlendFunc(s, d) }
func (nativeFunctions) DepthFunc(fn uint32)       { gl.DepthFunc(fn) }
func (nativeFunctions) DepthMask(flag bool)       { gl.DepthMask(flag) }
func (nativeFunctions) DepthRange(near, far float32) {
	gl.DepthRange(float64(near), float64(far))
}
func (nativeFunctions) FrontFace(mode uint32)          { gl.FrontFace(mode) }
func (nativeFunctions) Viewport(x, y, w, h int32)      { gl.Viewport(x, y, w, h) }
func (nativeFunctions) Scissor(x, y, w, h int32)       { gl.Scissor(x, y, w, h) }
func (nativeFunctions) ClearColor(r, g, b, a float32)  { gl.ClearColor(r, g, b, a) }
func (nativeFunctions) Clear(mask uint32)              { gl.Clear(mask) }
func (nativeFunctions) ActiveTexture(unit uint32)      { gl.ActiveTexture(unit) }

func (nativeFunctions) GenTexture() uint32 {
	var id uint32
	gl.GenTextures(1, &id)
	return id
}

func (nativeFunctions) DeleteTexture(id uint32) {
	gl.DeleteTextures(1, &id)
}

func (nativeFunctions) BindTexture(target, id uint32) {
	gl.BindTexture(target, id)
}

func (nativeFunctions) TexImage2D(target uint32, level int32, internalFormat int32, width, height int32, format, xtype uint32, pixels []byte) {
	var ptr interface{}
	if pixels != nil {
		ptr = pixels
	}
	gl.TexImage2D(target, level, internalFormat, width, height, 0, format, xtype, gl.Ptr(ptr))
}

func (nativeFunctions) CompressedTexImage2D(target uint32, level int32, internalFormat uint32, width, height int32, data []byte) {
	gl.CompressedTexImage2D(target, level, internalFormat, width, height, 0, int32(len(data)), gl.Ptr(data))
}

func (nativeFunctions) TexParameteri(target, pname uint32, param int32) {
	gl.TexParameteri(target, pname, param)
}

func (nativeFunctions) TexParameterf(target, pname uint32, param float32) {
	gl.TexParameterf(target, pname, param)
}

func (nativeFunctions) GenerateMipmap(target uint32) {
	gl.GenerateMipmap(target)
}

func (nativeFunctions) ReadPixels(x, y, w, h int32, format, xtype uint32, pixels []byte) {
	gl.ReadPixels(x, y, w, h, format, xtype, gl.Ptr(pixels))
}

func (nativeFunctions) GenBuffer() uint32 {
	var id uint32
	gl.GenBuffers(1, &id)
	return id
}

func (nativeFunctions) DeleteBuffer(id uint32) {
	gl.DeleteBuffers(1, &id)
}

func (nativeFunctions) BindBuffer(target, id uint32) {
	gl.BindBuffer(target, id)
}

func (nativeFunctions) BufferData(target uint32, data []byte, usage uint32) {
	var ptr interface{}
	if len(data) > 0 {
		ptr = data
	}
	gl.BufferData(target, len(data), gl.Ptr(ptr), usage)
}

func (nativeFunctions) GenVertexArray() uint32 {
	var id uint32
	gl.GenVertexArrays(1, &id)
	return id
}

func (nativeFunctions) DeleteVertexArray(id uint32) {
	gl.DeleteVertexArrays(1, &id)
}

func (nativeFunctions) BindVertexArray(id uint32) {
	gl.BindVertexArray(id)
}

func (nativeFunctions) EnableVertexAttribArray(index uint32) {
	gl.EnableVertexAttribArray(index)
}

func (nativeFunctions) VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset uintptr) {
	gl.VertexAttribPointerWithOffset(index, size, xtype, normalized, stride, offset)
}

func (nativeFunctions) DrawArrays(mode uint32, first, count int32) {
	gl.DrawArrays(mode, first, count)
}

func (nativeFunctions) DrawElements(mode uint32, count int32, xtype uint32, offset uintptr) {
	gl.DrawElementsWithOffset(mode, count, xtype, offset)
}

func (nativeFunctions) GenFramebuffer() uint32 {
	var id uint32
	gl.GenFramebuffers(1, &id)
	return id
}

func (nativeFunctions) DeleteFramebuffer(id uint32) {
	gl.DeleteFramebuffers(1, &id)
}

func (nativeFunctions) BindFramebuffer(target, id uint32) {
	gl.BindFramebuffer(target, id)
}

func (nativeFunctions) FramebufferTexture2D(target, attachment, textarget, texture uint32, level int32) {
	gl.FramebufferTexture2D(target, attachment, textarget, texture, level)
}

func (nativeFunctions) GenRenderbuffer() uint32 {
	var id uint32
	gl.GenRenderbuffers(1, &id)
	return id
}

func (nativeFunctions) DeleteRenderbuffer(id uint32) {
	gl.DeleteRenderbuffers(1, &id)
}

func (nativeFunctions) BindRenderbuffer(target, id uint32) {
	gl.BindRenderbuffer(target, id)
}

func (nativeFunctions) RenderbufferStorage(target, internalformat uint32, width, height int32) {
	gl.RenderbufferStorage(target, internalformat, width, height)
}

func (nativeFunctions) RenderbufferStorageMultisample(target uint32, samples int32, internalformat uint32, width, height int32) {
	gl.RenderbufferStorageMultisample(target, samples, internalformat, width, height)
}

func (nativeFunctions) FramebufferRenderbuffer(target, attachment, renderbuffertarget, renderbuffer uint32) {
	gl.FramebufferRenderbuffer(target, attachment, renderbuffertarget, renderbuffer)
}

func (nativeFunctions) CheckFramebufferStatus(target uint32) uint32 {
	return gl.CheckFramebufferStatus(target)
}

// InvalidateFramebuffer is a 4.3 entry point outside the 3.2 binding.
// The capability probe never reports it available on these contexts,
// but the method stays honest as a no-op either way.
func (nativeFunctions) InvalidateFramebuffer(target uint32, attachments []uint32) {
}

func (nativeFunctions) BlitFramebuffer(sx0, sy0, sx1, sy1, dx0, dy0, dx1, dy1 int32, mask, filter uint32) {
	gl.BlitFramebuffer(sx0, sy0, sx1, sy1, dx0, dy0, dx1, dy1, mask, filter)
}

func (nativeFunctions) CreateShader(xtype uint32) uint32 {
	return gl.CreateShader(xtype)
}

func (nativeFunctions) ShaderSource(shader uint32, src string) {
	csrc, free := gl.Strs(src + "\x00")
	defer free()
	gl.ShaderSource(shader, 1, csrc, nil)
}

func (nativeFunctions) CompileShader(shader uint32) {
	gl.CompileShader(shader)
}

func (nativeFunctions) GetShaderiv(shader, pname uint32) int32 {
	var v int32
	gl.GetShaderiv(shader, pname, &v)
	return v
}

func (nativeFunctions) GetShaderInfoLog(shader uint32) string {
	var length int32
	gl.GetShaderiv(shader, INFO_LOG_LENGTH, &length)
	if length <= 0 {
		return ""
	}
	log := strings.Repeat("\x00", int(length+1))
	gl.GetShaderInfoLog(shader, length, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}

func (nativeFunctions) DeleteShader(shader uint32) {
	gl.DeleteShader(shader)
}

func (nativeFunctions) CreateProgram() uint32 {
	return gl.CreateProgram()
}

func (nativeFunctions) AttachShader(program, shader uint32) {
	gl.AttachShader(program, shader)
}

func (nativeFunctions) BindAttribLocation(program, index uint32, name string) {
	gl.BindAttribLocation(program, index, gl.Str(name+"\x00"))
}

func (nativeFunctions) LinkProgram(program uint32) {
	gl.LinkProgram(program)
}

func (nativeFunctions) GetProgramiv(program, pname uint32) int32 {
	var v int32
	gl.GetProgramiv(program, pname, &v)
	return v
}

func (nativeFunctions) GetProgramInfoLog(program uint32) string {
	var length int32
	gl.GetProgramiv(program, INFO_LOG_LENGTH, &length)
	if length <= 0 {
		return ""
	}
	log := strings.Repeat("\x00", int(length+1))
	gl.GetProgramInfoLog(program, length, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}

func (nativeFunctions) UseProgram(program uint32) {
	gl.UseProgram(program)
}

func (nativeFunctions) DeleteProgram(program uint32) {
	gl.DeleteProgram(program)
}

func (nativeFunctions) GetUniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (nativeFunctions) Uniform1i(location, v int32) {
	gl.Uniform1i(location, v)
}

func (nativeFunctions) Uniform1f(location int32, v float32) {
	gl.Uniform1f(location, v)
}

func (nativeFunctions) Uniform2f(location int32, v0, v1 float32) {
	gl.Uniform2f(location, v0, v1)
}

func (nativeFunctions) Uniform3f(location int32, v0, v1, v2 float32) {
	gl.Uniform3f(location, v0, v1, v2)
}

func (nativeFunctions) Uniform4f(location int32, v0, v1, v2, v3 float32) {
	gl.Uniform4f(location, v0, v1, v2, v3)
}

func (nativeFunctions) UniformMatrix4fv(location int32, m [16]float32) {
	gl.UniformMatrix4fv(location, 1, false, &m[0])
}

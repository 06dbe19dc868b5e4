package opengl

import (
	"fmt"
)

// fakeFunctions is a recording stand-in for the GL driver. Object
// creation hands out sequential names, shader compiles and links
// always succeed unless told otherwise, and every entry point bumps a
// named call counter so tests can assert exactly how many times the
// driver was touched.
type fakeFunctions struct {
	nextName uint32

	counts map[string]int
	// log keeps an ordered trace of the calls tests care about.
	log []string

	rendererName string
	version      string
	extensions   []string
	maxSamples   int32
	maxAniso     int32

	failShaderCompile    bool
	failFramebufferCheck bool

	scissorBoxes [][4]int32
	uniformLocs  map[string]int32
}

func newFakeFunctions() *fakeFunctions {
	return &fakeFunctions{
		counts:       map[string]int{},
		rendererName: "FakeGL 3000",
		version:      "3.2.0 fake",
		maxSamples:   4,
		uniformLocs:  map[string]int32{},
	}
}

func (f *fakeFunctions) count(name string) {
	f.counts[name]++
}

func (f *fakeFunctions) trace(format string, args ...interface{}) {
	f.log = append(f.log, fmt.Sprintf(format, args...))
}

func (f *fakeFunctions) resetCounts() {
	f.counts = map[string]int{}
	f.log = nil
	f.scissorBoxes = nil
}

func (f *fakeFunctions) gen() uint32 {
	f.nextName++
	return f.nextName
}

func (f *fakeFunctions) GetError() uint32 { return NO_ERROR }

func (f *fakeFunctions) GetString(name uint32) string {
	switch name {
	case VENDOR:
		return "Fake Industries"
	case RENDERER:
		return f.rendererName
	case VERSION:
		return f.version
	case EXTENSIONS:
		return ""
	}
	return ""
}

func (f *fakeFunctions) GetStringi(name, index uint32) string {
	if name == EXTENSIONS && int(index) < len(f.extensions) {
		return f.extensions[index]
	}
	return ""
}

func (f *fakeFunctions) GetIntegerv(pname uint32, data []int32) {
	switch pname {
	case NUM_EXTENSIONS:
		data[0] = int32(len(f.extensions))
	case MAX_SAMPLES:
		data[0] = f.maxSamples
	case MAX_TEXTURE_MAX_ANISOTROPY_EXT:
		data[0] = f.maxAniso
	default:
		for i := range data {
			data[i] = 0
		}
	}
}

func (f *fakeFunctions) GetInternalformativ(target, internalformat, pname uint32, data []int32) {
	data[0] = f.maxSamples
}

func (f *fakeFunctions) Enable(capability uint32) {
	f.count("Enable")
	f.trace("Enable(0x%04x)", capability)
}

func (f *fakeFunctions) Disable(capability uint32) {
	f.count("Disable")
	f.trace("Disable(0x%04x)", capability)
}

func (f *fakeFunctions) BlendFunc(sfactor, dfactor uint32) { f.count("BlendFunc") }
func (f *fakeFunctions) DepthFunc(fn uint32)               { f.count("DepthFunc") }
func (f *fakeFunctions) DepthMask(flag bool)               { f.count("DepthMask") }
func (f *fakeFunctions) DepthRange(near, far float32)      { f.count("DepthRange") }
func (f *fakeFunctions) FrontFace(mode uint32)             { f.count("FrontFace") }

func (f *fakeFunctions) Viewport(x, y, w, h int32) { f.count("Viewport") }

func (f *fakeFunctions) Scissor(x, y, w, h int32) {
	f.count("Scissor")
	f.scissorBoxes = append(f.scissorBoxes, [4]int32{x, y, w, h})
}

func (f *fakeFunctions) ClearColor(r, g, b, a float32) { f.count("ClearColor") }
func (f *fakeFunctions) Clear(mask uint32)             { f.count("Clear") }
func (f *fakeFunctions) ActiveTexture(unit uint32)     { f.count("ActiveTexture") }

func (f *fakeFunctions) GenTexture() uint32 {
	f.count("GenTexture")
	return f.gen()
}

func (f *fakeFunctions) DeleteTexture(id uint32) { f.count("DeleteTexture") }

func (f *fakeFunctions) BindTexture(target, id uint32) {
	f.count("BindTexture")
	f.trace("BindTexture(%d)", id)
}

func (f *fakeFunctions) TexImage2D(target uint32, level int32, internalFormat int32, width, height int32, format, xtype uint32, pixels []byte) {
	f.count("TexImage2D")
}

func (f *fakeFunctions) CompressedTexImage2D(target uint32, level int32, internalFormat uint32, width, height int32, data []byte) {
	f.count("CompressedTexImage2D")
}

func (f *fakeFunctions) TexParameteri(target, pname uint32, param int32) {
	f.count("TexParameteri")
}

func (f *fakeFunctions) TexParameterf(target, pname uint32, param float32) {
	f.count("TexParameterf")
	f.trace("TexParameterf(0x%04x, %f)", pname, param)
}

func (f *fakeFunctions) GenerateMipmap(target uint32) { f.count("GenerateMipmap") }

func (f *fakeFunctions) ReadPixels(x, y, w, h int32, format, xtype uint32, pixels []byte) {
	f.count("ReadPixels")
}

func (f *fakeFunctions) GenBuffer() uint32 {
	f.count("GenBuffer")
	return f.gen()
}

func (f *fakeFunctions) DeleteBuffer(id uint32)        { f.count("DeleteBuffer") }
func (f *fakeFunctions) BindBuffer(target, id uint32)  { f.count("BindBuffer") }

func (f *fakeFunctions) BufferData(target uint32, data []byte, usage uint32) {
	f.count("BufferData")
	f.trace("BufferData(0x%04x, %d bytes)", target, len(data))
}

func (f *fakeFunctions) GenVertexArray() uint32 {
	f.count("GenVertexArray")
	return f.gen()
}

func (f *fakeFunctions) DeleteVertexArray(id uint32) { f.count("DeleteVertexArray") }

func (f *fakeFunctions) BindVertexArray(id uint32) {
	f.count("BindVertexArray")
	f.trace("BindVertexArray(%d)", id)
}

func (f *fakeFunctions) EnableVertexAttribArray(index uint32) {
	f.count("EnableVertexAttribArray")
}

func (f *fakeFunctions) VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset uintptr) {
	f.count("VertexAttribPointer")
}

func (f *fakeFunctions) DrawArrays(mode uint32, first, count int32) {
	f.count("DrawArrays")
	f.trace("DrawArrays(count=%d)", count)
}

func (f *fakeFunctions) DrawElements(mode uint32, count int32, xtype uint32, offset uintptr) {
	f.count("DrawElements")
	f.trace("DrawElements(count=%d)", count)
}

func (f *fakeFunctions) GenFramebuffer() uint32 {
	f.count("GenFramebuffer")
	return f.gen()
}

func (f *fakeFunctions) DeleteFramebuffer(id uint32) { f.count("DeleteFramebuffer") }

func (f *fakeFunctions) BindFramebuffer(target, id uint32) {
	f.count("BindFramebuffer")
	f.trace("BindFramebuffer(%d)", id)
}

func (f *fakeFunctions) FramebufferTexture2D(target, attachment, textarget, texture uint32, level int32) {
	f.count("FramebufferTexture2D")
}

func (f *fakeFunctions) GenRenderbuffer() uint32 {
	f.count("GenRenderbuffer")
	return f.gen()
}

func (f *fakeFunctions) DeleteRenderbuffer(id uint32)       { f.count("DeleteRenderbuffer") }
func (f *fakeFunctions) BindRenderbuffer(target, id uint32) { f.count("BindRenderbuffer") }

func (f *fakeFunctions) RenderbufferStorage(target, internalformat uint32, width, height int32) {
	f.count("RenderbufferStorage")
}

func (f *fakeFunctions) RenderbufferStorageMultisample(target uint32, samples int32, internalformat uint32, width, height int32) {
	f.count("RenderbufferStorageMultisample")
}

func (f *fakeFunctions) FramebufferRenderbuffer(target, attachment, renderbuffertarget, renderbuffer uint32) {
	f.count("FramebufferRenderbuffer")
}

func (f *fakeFunctions) CheckFramebufferStatus(target uint32) uint32 {
	f.count("CheckFramebufferStatus")
	if f.failFramebufferCheck {
		return 0
	}
	return FRAMEBUFFER_COMPLETE
}

func (f *fakeFunctions) InvalidateFramebuffer(target uint32, attachments []uint32) {
	f.count("InvalidateFramebuffer")
}

func (f *fakeFunctions) BlitFramebuffer(sx0, sy0, sx1, sy1, dx0, dy0, dx1, dy1 int32, mask, filter uint32) {
	f.count("BlitFramebuffer")
}

func (f *fakeFunctions) CreateShader(xtype uint32) uint32 {
	f.count("CreateShader")
	return f.gen()
}

func (f *fakeFunctions) ShaderSource(shader uint32, src string) { f.count("ShaderSource") }
func (f *fakeFunctions) CompileShader(shader uint32)            { f.count("CompileShader") }

func (f *fakeFunctions) GetShaderiv(shader, pname uint32) int32 {
	if pname == COMPILE_STATUS && f.failShaderCompile {
		return FALSE
	}
	return TRUE
}

func (f *fakeFunctions) GetShaderInfoLog(shader uint32) string {
	return "fake compile failure"
}

func (f *fakeFunctions) DeleteShader(shader uint32) { f.count("DeleteShader") }

func (f *fakeFunctions) CreateProgram() uint32 {
	f.count("CreateProgram")
	return f.gen()
}

func (f *fakeFunctions) AttachShader(program, shader uint32) { f.count("AttachShader") }

func (f *fakeFunctions) BindAttribLocation(program, index uint32, name string) {
	f.count("BindAttribLocation")
}

func (f *fakeFunctions) LinkProgram(program uint32) { f.count("LinkProgram") }

func (f *fakeFunctions) GetProgramiv(program, pname uint32) int32 {
	return TRUE
}

func (f *fakeFunctions) GetProgramInfoLog(program uint32) string {
	return "fake link failure"
}

func (f *fakeFunctions) UseProgram(program uint32) {
	f.count("UseProgram")
	f.trace("UseProgram(%d)", program)
}

func (f *fakeFunctions) DeleteProgram(program uint32) { f.count("DeleteProgram") }

func (f *fakeFunctions) GetUniformLocation(program uint32, name string) int32 {
	key := fmt.Sprintf("%d/%s", program, name)
	if loc, ok := f.uniformLocs[key]; ok {
		return loc
	}
	loc := int32(len(f.uniformLocs) + 1)
	f.uniformLocs[key] = loc
	return loc
}

func (f *fakeFunctions) Uniform1i(location, v int32)                 { f.count("Uniform1i") }
func (f *fakeFunctions) Uniform1f(location int32, v float32)         { f.count("Uniform1f") }
func (f *fakeFunctions) Uniform2f(location int32, v0, v1 float32)    { f.count("Uniform2f") }
func (f *fakeFunctions) Uniform3f(location int32, v0, v1, v2 float32) { f.count("Uniform3f") }
func (f *fakeFunctions) Uniform4f(location int32, v0, v1, v2, v3 float32) {
	f.count("Uniform4f")
}

func (f *fakeFunctions) UniformMatrix4fv(location int32, m [16]float32) {
	f.count("UniformMatrix4fv")
}

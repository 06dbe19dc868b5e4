package opengl

// GL enum values used by the renderer. Declared locally so that fakes
// (and tests) never need the cgo binding package.
const (
	NO_ERROR          = 0
	FALSE             = 0
	TRUE              = 1
	POINTS            = 0x0000
	TRIANGLES         = 0x0004
	DEPTH_BUFFER_BIT  = 0x0100
	COLOR_BUFFER_BIT  = 0x4000
	CW                = 0x0900
	CCW               = 0x0901
	CULL_FACE         = 0x0B44
	DEPTH_TEST        = 0x0B71
	DEPTH_WRITEMASK   = 0x0B72
	DEPTH_FUNC        = 0x0B74
	SCISSOR_TEST      = 0x0C11
	BLEND             = 0x0BE2
	VIEWPORT          = 0x0BA2
	TEXTURE_2D        = 0x0DE1
	UNSIGNED_BYTE     = 0x1401
	SHORT             = 0x1402
	UNSIGNED_SHORT    = 0x1403
	UNSIGNED_INT      = 0x1405
	FLOAT             = 0x1406
	DEPTH_COMPONENT   = 0x1902
	RGB               = 0x1907
	RGBA              = 0x1908
	LESS              = 0x0201
	EQUAL             = 0x0202
	LEQUAL            = 0x0203
	ONE               = 1
	SRC_ALPHA         = 0x0302
	ONE_MINUS_SRC_ALPHA = 0x0303
	VENDOR            = 0x1F00
	RENDERER          = 0x1F01
	VERSION           = 0x1F02
	EXTENSIONS        = 0x1F03
	NEAREST           = 0x2600
	LINEAR            = 0x2601
	LINEAR_MIPMAP_NEAREST = 0x2701
	LINEAR_MIPMAP_LINEAR  = 0x2703
	TEXTURE_MAG_FILTER = 0x2800
	TEXTURE_MIN_FILTER = 0x2801
	TEXTURE_WRAP_S     = 0x2802
	TEXTURE_WRAP_T     = 0x2803
	REPEAT             = 0x2901
	CLAMP_TO_EDGE      = 0x812F
	DEPTH_COMPONENT16  = 0x81A5
	DEPTH_COMPONENT24  = 0x81A6
	RGBA4              = 0x8056
	RGBA8              = 0x8058
	TEXTURE_BINDING_2D = 0x8069
	TEXTURE_CUBE_MAP   = 0x8513
	TEXTURE_BINDING_CUBE_MAP = 0x8514
	TEXTURE0           = 0x84C0
	ACTIVE_TEXTURE     = 0x84E0
	TEXTURE_MAX_ANISOTROPY_EXT     = 0x84FE
	MAX_TEXTURE_MAX_ANISOTROPY_EXT = 0x84FF
	PROGRAM_POINT_SIZE = 0x8642
	ARRAY_BUFFER         = 0x8892
	ELEMENT_ARRAY_BUFFER = 0x8893
	ARRAY_BUFFER_BINDING = 0x8894
	STATIC_DRAW          = 0x88E4
	DYNAMIC_DRAW         = 0x88E8
	FRAGMENT_SHADER      = 0x8B30
	VERTEX_SHADER        = 0x8B31
	COMPILE_STATUS       = 0x8B81
	LINK_STATUS          = 0x8B82
	INFO_LOG_LENGTH      = 0x8B84
	CURRENT_PROGRAM      = 0x8B8D
	SHADING_LANGUAGE_VERSION = 0x8B8C
	VERTEX_ARRAY_BINDING = 0x85B5
	NUM_EXTENSIONS       = 0x821D
	FRAMEBUFFER_COMPLETE = 0x8CD5
	COLOR_ATTACHMENT0    = 0x8CE0
	DEPTH_ATTACHMENT     = 0x8D00
	FRAMEBUFFER          = 0x8D40
	READ_FRAMEBUFFER     = 0x8CA8
	DRAW_FRAMEBUFFER     = 0x8CA9
	FRAMEBUFFER_BINDING  = 0x8CA6
	RENDERBUFFER         = 0x8D41
	MAX_SAMPLES          = 0x8D57
	RGB565               = 0x8D62
	SAMPLES              = 0x80A9

	// Compressed texture formats reported by the capability probe.
	COMPRESSED_RGB_S3TC_DXT1_EXT      = 0x83F0
	COMPRESSED_RGBA_S3TC_DXT5_EXT     = 0x83F3
	COMPRESSED_RGB_PVRTC_4BPPV1_IMG   = 0x8C00
	COMPRESSED_RGBA_PVRTC_4BPPV1_IMG  = 0x8C02
	ETC1_RGB8_OES                     = 0x8D64
	COMPRESSED_RGB8_ETC2              = 0x9274
	COMPRESSED_RGBA8_ETC2_EAC         = 0x9278
	COMPRESSED_RGBA_ASTC_4x4_KHR      = 0x93B0
)

// Functions is the renderer's seam to the GL driver. The native
// implementation forwards to the go-gl binding; tests substitute a
// recording fake so state-elision and upload-skip behavior can be
// verified by counting driver calls.
//
// All methods must be called from the graphics context thread.
type Functions interface {
	// Diagnostics and capability queries.
	GetError() uint32
	GetString(name uint32) string
	GetStringi(name, index uint32) string
	GetIntegerv(pname uint32, data []int32)
	// GetInternalformativ fills data with per-format parameters. Only
	// valid when the probed context supports the query (ES3, desktop
	// >= 4.2); the probe gates every call site.
	GetInternalformativ(target, internalformat, pname uint32, data []int32)

	// Global state.
	Enable(capability uint32)
	Disable(capability uint32)
	BlendFunc(sfactor, dfactor uint32)
	DepthFunc(fn uint32)
	DepthMask(flag bool)
	DepthRange(near, far float32)
	FrontFace(mode uint32)
	Viewport(x, y, w, h int32)
	Scissor(x, y, w, h int32)
	ClearColor(r, g, b, a float32)
	Clear(mask uint32)
	ActiveTexture(unit uint32)

	// Textures.
	GenTexture() uint32
	DeleteTexture(id uint32)
	BindTexture(target, id uint32)
	TexImage2D(target uint32, level int32, internalFormat int32, width, height int32, format, xtype uint32, pixels []byte)
	CompressedTexImage2D(target uint32, level int32, internalFormat uint32, width, height int32, data []byte)
	TexParameteri(target, pname uint32, param int32)
	TexParameterf(target, pname uint32, param float32)
	GenerateMipmap(target uint32)
	ReadPixels(x, y, w, h int32, format, xtype uint32, pixels []byte)

	// Buffers and vertex arrays.
	GenBuffer() uint32
	DeleteBuffer(id uint32)
	BindBuffer(target, id uint32)
	BufferData(target uint32, data []byte, usage uint32)
	GenVertexArray() uint32
	DeleteVertexArray(id uint32)
	BindVertexArray(id uint32)
	EnableVertexAttribArray(index uint32)
	VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset uintptr)
	DrawArrays(mode uint32, first, count int32)
	DrawElements(mode uint32, count int32, xtype uint32, offset uintptr)

	// Framebuffers.
	GenFramebuffer() uint32
	DeleteFramebuffer(id uint32)
	BindFramebuffer(target, id uint32)
	FramebufferTexture2D(target, attachment, textarget, texture uint32, level int32)
	GenRenderbuffer() uint32
	DeleteRenderbuffer(id uint32)
	BindRenderbuffer(target, id uint32)
	RenderbufferStorage(target, internalformat uint32, width, height int32)
	RenderbufferStorageMultisample(target uint32, samples int32, internalformat uint32, width, height int32)
	FramebufferRenderbuffer(target, attachment, renderbuffertarget, renderbuffer uint32)
	CheckFramebufferStatus(target uint32) uint32
	// InvalidateFramebuffer is a hint; implementations without the
	// entry point treat it as a no-op.
	InvalidateFramebuffer(target uint32, attachments []uint32)
	BlitFramebuffer(sx0, sy0, sx1, sy1, dx0, dy0, dx1, dy1 int32, mask, filter uint32)

	// Shaders and programs.
	CreateShader(xtype uint32) uint32
	ShaderSource(shader uint32, src string)
	CompileShader(shader uint32)
	GetShaderiv(shader, pname uint32) int32
	GetShaderInfoLog(shader uint32) string
	DeleteShader(shader uint32)
	CreateProgram() uint32
	AttachShader(program, shader uint32)
	BindAttribLocation(program, index uint32, name string)
	LinkProgram(program uint32)
	GetProgramiv(program, pname uint32) int32
	GetProgramInfoLog(program uint32) string
	UseProgram(program uint32)
	DeleteProgram(program uint32)
	GetUniformLocation(program uint32, name string) int32
	Uniform1i(location, v int32)
	Uniform1f(location int32, v float32)
	Uniform2f(location int32, v0, v1 float32)
	Uniform3f(location int32, v0, v1, v2 float32)
	Uniform4f(location int32, v0, v1, v2, v3 float32)
	UniformMatrix4fv(location int32, m [16]float32)
}

package opengl

import (
	"fmt"

	mgl "github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/ballistica/engine/core"
)

// Fixed vertex attribute slots, bound before linking so every program
// family agrees with every mesh flavor's VAO layout.
const (
	attrPosition = 0
	attrUV       = 1
	attrNormal   = 2
	attrErode    = 3
	attrColor    = 4
	attrSize     = 5
	attrDiffuse  = 6
	attrUV2      = 7
)

var attrNames = map[uint32]string{
	attrPosition: "position",
	attrUV:       "uv",
	attrNormal:   "normal",
	attrErode:    "erode",
	attrColor:    "color",
	attrSize:     "size",
	attrDiffuse:  "diffuse",
	attrUV2:      "uv2",
}

// baseProgram wraps one linked GL program: location lookups are cached,
// and scalar/vector/matrix uniform uploads are elided when the value
// already uploaded matches. Typed program structs embed it.
type baseProgram struct {
	f     Functions
	state *glState
	name  string
	id    uint32

	locations map[string]int32

	cachedFloat map[int32]float32
	cachedVec   map[int32][4]float32
	cachedMat   map[int32]mgl.Mat4
}

func compileShaderStage(f Functions, stage uint32, src, progName string) (uint32, error) {
	s := f.CreateShader(stage)
	f.ShaderSource(s, src)
	f.CompileShader(s)
	if f.GetShaderiv(s, COMPILE_STATUS) != TRUE {
		log := f.GetShaderInfoLog(s)
		f.DeleteShader(s)
		kind := "vertex"
		if stage == FRAGMENT_SHADER {
			kind = "fragment"
		}
		return 0, fmt.Errorf("%s shader for %q failed to compile: %s", kind, progName, log)
	}
	return s, nil
}

// newBaseProgram compiles, binds attribute slots used by the sources
// and links. On any failure debug builds die with the driver's info
// log; release builds log it and substitute the solid-magenta fallback
// so a bad driver yields visibly wrong output instead of a crash.
func newBaseProgram(f Functions, state *glState, name, vsSrc, fsSrc string) *baseProgram {
	p := &baseProgram{
		f:           f,
		state:       state,
		name:        name,
		locations:   map[string]int32{},
		cachedFloat: map[int32]float32{},
		cachedVec:   map[int32][4]float32{},
		cachedMat:   map[int32]mgl.Mat4{},
	}
	id, err := linkProgram(f, name, vsSrc, fsSrc)
	if err != nil {
		if debugChecks {
			core.LogFatal("%v", err)
		}
		core.LogError("%v; using fallback program", err)
		id, err = linkProgram(f, name+"-fallback", fallbackVertexSrc, fallbackFragmentSrc)
		if err != nil {
			// The fallback is trivial GLSL; a driver that rejects it
			// cannot run the renderer at all.
			core.LogFatal("fallback program rejected: %v", err)
		}
	}
	p.id = id
	return p
}

func linkProgram(f Functions, name, vsSrc, fsSrc string) (uint32, error) {
	vs, err := compileShaderStage(f, VERTEX_SHADER, vsSrc, name)
	if err != nil {
		return 0, err
	}
	fs, err := compileShaderStage(f, FRAGMENT_SHADER, fsSrc, name)
	if err != nil {
		f.DeleteShader(vs)
		return 0, err
	}
	prog := f.CreateProgram()
	f.AttachShader(prog, vs)
	f.AttachShader(prog, fs)
	for slot, attr := range attrNames {
		f.BindAttribLocation(prog, slot, attr)
	}
	f.LinkProgram(prog)
	// Shader objects are reference-counted by the program after
	// attach; flag them for deletion now.
	f.DeleteShader(vs)
	f.DeleteShader(fs)
	if f.GetProgramiv(prog, LINK_STATUS) != TRUE {
		log := f.GetProgramInfoLog(prog)
		f.DeleteProgram(prog)
		return 0, fmt.Errorf("program %q failed to link: %s", name, log)
	}
	return prog, nil
}

func (p *baseProgram) Bind() {
	p.state.UseProgram(p.id)
}

func (p *baseProgram) Destroy() {
	if p.id == 0 {
		return
	}
	p.state.ForgetProgram(p.id)
	p.f.DeleteProgram(p.id)
	p.id = 0
}

func (p *baseProgram) location(uniform string) int32 {
	if loc, ok := p.locations[uniform]; ok {
		return loc
	}
	loc := p.f.GetUniformLocation(p.id, uniform)
	if loc < 0 && debugChecks {
		core.LogWarn("program %q has no uniform %q (optimized out?)", p.name, uniform)
	}
	p.locations[uniform] = loc
	return loc
}

func (p *baseProgram) assertBound() {
	if debugChecks {
		assert(p.state.program == p.id, "program %q not bound for uniform upload", p.name)
	}
}

// bindSamplerUnit assigns a sampler uniform to a fixed texture unit.
// Done once right after link; sampler assignments never change.
func (p *baseProgram) bindSamplerUnit(uniform string, unit int32) {
	p.Bind()
	if loc := p.location(uniform); loc >= 0 {
		p.f.Uniform1i(loc, unit)
	}
}

func (p *baseProgram) setFloat(uniform string, v float32) {
	loc := p.location(uniform)
	if loc < 0 {
		return
	}
	if old, ok := p.cachedFloat[loc]; ok && old == v {
		return
	}
	p.assertBound()
	p.cachedFloat[loc] = v
	p.f.Uniform1f(loc, v)
}

func (p *baseProgram) setVec2(uniform string, x, y float32) {
	p.setVecN(uniform, [4]float32{x, y, 0, 0}, 2)
}

func (p *baseProgram) setVec3(uniform string, x, y, z float32) {
	p.setVecN(uniform, [4]float32{x, y, z, 0}, 3)
}

func (p *baseProgram) setVec4(uniform string, x, y, z, w float32) {
	p.setVecN(uniform, [4]float32{x, y, z, w}, 4)
}

func (p *baseProgram) setVecN(uniform string, v [4]float32, n int) {
	loc := p.location(uniform)
	if loc < 0 {
		return
	}
	if old, ok := p.cachedVec[loc]; ok && old == v {
		return
	}
	p.assertBound()
	p.cachedVec[loc] = v
	switch n {
	case 2:
		p.f.Uniform2f(loc, v[0], v[1])
	case 3:
		p.f.Uniform3f(loc, v[0], v[1], v[2])
	default:
		p.f.Uniform4f(loc, v[0], v[1], v[2], v[3])
	}
}

func (p *baseProgram) setMatrix(uniform string, m mgl.Mat4) {
	loc := p.location(uniform)
	if loc < 0 {
		return
	}
	if old, ok := p.cachedMat[loc]; ok && old == m {
		return
	}
	p.assertBound()
	p.cachedMat[loc] = m
	p.f.UniformMatrix4fv(loc, [16]float32(m))
}

const fallbackVertexSrc = `#version 150
uniform mat4 modelViewProjectionMatrix;
in vec4 position;
void main() {
	gl_Position = modelViewProjectionMatrix * position;
}
`

const fallbackFragmentSrc = `#version 150
out vec4 fragColor;
void main() {
	fragColor = vec4(1.0, 0.0, 1.0, 1.0);
}
`

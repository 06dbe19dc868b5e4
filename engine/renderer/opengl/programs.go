package opengl

import (
	"strings"

	mgl "github.com/go-gl/mathgl/mgl32"
)

// Texture unit assignments shared by sampler setup and the command
// interpreter's bind calls.
const (
	unitPrimary   = 0 // color / density / depth source
	unitSecondary = 1 // colorize, reflect or blur source
	unitTertiary  = 2 // mask, light/shadow or depth source
)

// simpleFlags select the feature set compiled into one simple-family
// variant. Flags map one-to-one onto GLSL defines.
type simpleFlags uint32

const (
	simpleTexture simpleFlags = 1 << iota
	simpleModulate
	simpleColorize
	simpleColorize2
	simpleMasked
	simpleMaskUV2
	simpleShadow
	simpleGlow
	simpleFlatness
)

func (fl simpleFlags) defines() []string {
	var d []string
	add := func(on simpleFlags, name string) {
		if fl&on != 0 {
			d = append(d, name)
		}
	}
	add(simpleTexture, "TEXTURE")
	add(simpleModulate, "MODULATE")
	add(simpleColorize, "COLORIZE")
	add(simpleColorize2, "COLORIZE2")
	add(simpleMasked, "MASKED")
	add(simpleMaskUV2, "MASK_UV2")
	add(simpleShadow, "SHADOW")
	add(simpleGlow, "GLOW")
	add(simpleFlatness, "FLATNESS")
	return d
}

func (fl simpleFlags) name() string {
	d := fl.defines()
	if len(d) == 0 {
		return "simple"
	}
	return "simple+" + strings.ToLower(strings.Join(d, "+"))
}

type simpleProgram struct {
	*baseProgram
	flags simpleFlags
}

func newSimpleProgram(f Functions, state *glState, flags simpleFlags) *simpleProgram {
	d := flags.defines()
	p := &simpleProgram{
		baseProgram: newBaseProgram(f, state, flags.name(),
			makeSource(simpleVertexBody, d...),
			makeSource(simpleFragmentBody, d...)),
		flags: flags,
	}
	if flags&simpleTexture != 0 {
		p.bindSamplerUnit("colorTex", unitPrimary)
	}
	if flags&simpleColorize != 0 {
		p.bindSamplerUnit("colorizeTex", unitSecondary)
	}
	if flags&simpleMasked != 0 {
		p.bindSamplerUnit("maskTex", unitTertiary)
	}
	return p
}

func (p *simpleProgram) SetMVP(m mgl.Mat4)       { p.setMatrix("modelViewProjectionMatrix", m) }
func (p *simpleProgram) SetColor(c [4]float32)   { p.setVec4("color", c[0], c[1], c[2], c[3]) }
func (p *simpleProgram) SetColorizeColor(c [4]float32) {
	p.setVec4("colorizeColor", c[0], c[1], c[2], c[3])
}
func (p *simpleProgram) SetColorize2Color(c [4]float32) {
	p.setVec4("colorize2Color", c[0], c[1], c[2], c[3])
}
func (p *simpleProgram) SetShadow(offset [2]float32, blur, opacity float32) {
	p.setVec4("shadowParams", offset[0], offset[1], blur, opacity)
}
func (p *simpleProgram) SetGlow(v float32)     { p.setFloat("glow", v) }
func (p *simpleProgram) SetFlatness(v float32) { p.setFloat("flatness", v) }

// objectFlags select one object-family variant.
type objectFlags uint32

const (
	objectReflect objectFlags = 1 << iota
	objectLightShadow
	objectAdd
)

func (fl objectFlags) defines() []string {
	var d []string
	if fl&objectReflect != 0 {
		d = append(d, "REFLECT")
	}
	if fl&objectLightShadow != 0 {
		d = append(d, "LIGHT_SHADOW")
	}
	if fl&objectAdd != 0 {
		d = append(d, "ADD")
	}
	return d
}

func (fl objectFlags) name() string {
	d := fl.defines()
	if len(d) == 0 {
		return "object"
	}
	return "object+" + strings.ToLower(strings.Join(d, "+"))
}

type objectProgram struct {
	*baseProgram
	flags objectFlags
}

func newObjectProgram(f Functions, state *glState, flags objectFlags) *objectProgram {
	d := flags.defines()
	p := &objectProgram{
		baseProgram: newBaseProgram(f, state, flags.name(),
			makeSource(objectVertexBody, d...),
			makeSource(objectFragmentBody, d...)),
		flags: flags,
	}
	p.bindSamplerUnit("colorTex", unitPrimary)
	if flags&objectReflect != 0 {
		p.bindSamplerUnit("reflectTex", unitSecondary)
	}
	if flags&objectLightShadow != 0 {
		p.bindSamplerUnit("lightShadowTex", unitTertiary)
	}
	return p
}

func (p *objectProgram) SetMVP(m mgl.Mat4)       { p.setMatrix("modelViewProjectionMatrix", m) }
func (p *objectProgram) SetModelView(m mgl.Mat4) { p.setMatrix("modelViewMatrix", m) }
func (p *objectProgram) SetColor(c [4]float32)   { p.setVec4("color", c[0], c[1], c[2], c[3]) }
func (p *objectProgram) SetReflectColor(c [3]float32) {
	p.setVec3("reflectColor", c[0], c[1], c[2])
}
func (p *objectProgram) SetAddColor(c [3]float32) { p.setVec3("addColor", c[0], c[1], c[2]) }
func (p *objectProgram) SetCameraPos(v mgl.Vec3)  { p.setVec3("cameraPos", v[0], v[1], v[2]) }
func (p *objectProgram) SetLightShadowMatrix(m mgl.Mat4) {
	p.setMatrix("lightShadowMatrix", m)
}

type smokeProgram struct {
	*baseProgram
	overlay bool
}

func newSmokeProgram(f Functions, state *glState, overlay bool) *smokeProgram {
	var d []string
	name := "smoke"
	if overlay {
		d = append(d, "OVERLAY")
		name = "smoke+overlay"
	}
	p := &smokeProgram{
		baseProgram: newBaseProgram(f, state, name,
			makeSource(smokeVertexBody, d...),
			makeSource(smokeFragmentBody, d...)),
		overlay: overlay,
	}
	p.bindSamplerUnit("colorTex", unitPrimary)
	return p
}

func (p *smokeProgram) SetMVP(m mgl.Mat4)     { p.setMatrix("modelViewProjectionMatrix", m) }
func (p *smokeProgram) SetColor(c [4]float32) { p.setVec4("color", c[0], c[1], c[2], c[3]) }

type spriteProgram struct {
	*baseProgram
	cameraAligned bool
}

func newSpriteProgram(f Functions, state *glState, cameraAligned bool) *spriteProgram {
	var d []string
	name := "sprite"
	if cameraAligned {
		d = append(d, "CAMERA_ALIGNED")
		name = "sprite+camera_aligned"
	}
	p := &spriteProgram{
		baseProgram: newBaseProgram(f, state, name,
			makeSource(spriteVertexBody, d...),
			makeSource(spriteFragmentBody, d...)),
		cameraAligned: cameraAligned,
	}
	p.bindSamplerUnit("colorTex", unitPrimary)
	return p
}

func (p *spriteProgram) SetMVP(m mgl.Mat4)          { p.setMatrix("modelViewProjectionMatrix", m) }
func (p *spriteProgram) SetModelView(m mgl.Mat4)    { p.setMatrix("modelViewMatrix", m) }
func (p *spriteProgram) SetScreenScale(v float32)   { p.setFloat("screenScale", v) }
func (p *spriteProgram) SetColor(c [4]float32)      { p.setVec4("color", c[0], c[1], c[2], c[3]) }

type blurProgram struct {
	*baseProgram
}

func newBlurProgram(f Functions, state *glState) *blurProgram {
	p := &blurProgram{
		baseProgram: newBaseProgram(f, state, "blur",
			makeSource(blurVertexBody),
			makeSource(blurFragmentBody)),
	}
	p.bindSamplerUnit("colorTex", unitPrimary)
	return p
}

func (p *blurProgram) SetMVP(m mgl.Mat4) { p.setMatrix("modelViewProjectionMatrix", m) }
func (p *blurProgram) SetPixelSize(x, y float32) {
	p.setVec2("pixelSize", x, y)
}

type shieldProgram struct {
	*baseProgram
}

func newShieldProgram(f Functions, state *glState) *shieldProgram {
	p := &shieldProgram{
		baseProgram: newBaseProgram(f, state, "shield",
			makeSource(shieldVertexBody),
			makeSource(shieldFragmentBody)),
	}
	p.bindSamplerUnit("depthTex", unitPrimary)
	return p
}

func (p *shieldProgram) SetMVP(m mgl.Mat4) { p.setMatrix("modelViewProjectionMatrix", m) }

// postProcessFlags select one post-process variant. Eyes and distort
// are mutually exclusive upgrades over the plain blit.
type postProcessFlags uint32

const (
	postProcessEyes postProcessFlags = 1 << iota
	postProcessDistort
)

type postProcessProgram struct {
	*baseProgram
	flags postProcessFlags
}

func newPostProcessProgram(f Functions, state *glState, flags postProcessFlags) *postProcessProgram {
	var d []string
	name := "post_process"
	if flags&postProcessEyes != 0 {
		d = append(d, "EYES")
		name = "post_process+eyes"
	}
	if flags&postProcessDistort != 0 {
		d = append(d, "DISTORT")
		name = "post_process+distort"
	}
	p := &postProcessProgram{
		baseProgram: newBaseProgram(f, state, name,
			makeSource(postProcessVertexBody, d...),
			makeSource(postProcessFragmentBody, d...)),
		flags: flags,
	}
	p.bindSamplerUnit("colorTex", unitPrimary)
	if flags != 0 {
		p.bindSamplerUnit("blurTex", unitSecondary)
	}
	if flags&postProcessDistort != 0 {
		p.bindSamplerUnit("depthTex", unitTertiary)
	}
	return p
}

func (p *postProcessProgram) SetMVP(m mgl.Mat4)      { p.setMatrix("modelViewProjectionMatrix", m) }
func (p *postProcessProgram) SetDistort(v float32)   { p.setFloat("distort", v) }
func (p *postProcessProgram) SetDOFRange(near, far float32) {
	p.setVec2("dofRange", near, far)
}

package opengl

import (
	"github.com/spaghettifunk/ballistica/engine/core"
	"github.com/spaghettifunk/ballistica/engine/renderer/metadata"
)

// modeTraits is the fixed GL state a shading mode establishes when
// selected. Nothing is inherited from the previously bound mode; the
// interpreter re-applies every field through the state cache, which
// elides the redundant ones.
type modeTraits struct {
	blend        bool
	forcePremult bool // additive effects ride the premultiplied blend path
	depthWrite   bool
	depthTest    bool
	doubleSided  bool
	pointSprites bool
}

var opaque = modeTraits{depthWrite: true, depthTest: true}
var transparent = modeTraits{blend: true, depthTest: true}

func withDoubleSided(t modeTraits) modeTraits {
	t.doubleSided = true
	return t
}

func withPremult(t modeTraits) modeTraits {
	t.forcePremult = true
	return t
}

var shadingModeTraits = [metadata.ShadingModeCount]modeTraits{
	metadata.ShadingSimpleColor:                                       opaque,
	metadata.ShadingSimpleColorTransparent:                            transparent,
	metadata.ShadingSimpleColorTransparentDoubleSided:                 withDoubleSided(transparent),
	metadata.ShadingSimpleTexture:                                     opaque,
	metadata.ShadingSimpleTextureModulated:                            opaque,
	metadata.ShadingSimpleTextureModulatedColorized:                   opaque,
	metadata.ShadingSimpleTextureModulatedColorized2:                  opaque,
	metadata.ShadingSimpleTextureModulatedTransparent:                 transparent,
	metadata.ShadingSimpleTextureModulatedTransparentDoubleSided:      withDoubleSided(transparent),
	metadata.ShadingSimpleTextureModulatedTransparentFlatness:         transparent,
	metadata.ShadingSimpleTextureModulatedTransparentColorized:        transparent,
	metadata.ShadingSimpleTextureModulatedTransparentColorized2:       transparent,
	metadata.ShadingSimpleTextureModulatedTransparentColorized2Masked: transparent,
	metadata.ShadingSimpleTextureModulatedTransparentShadow:           transparent,
	metadata.ShadingSimpleTextureModulatedTransparentShadowFlatness:   transparent,
	metadata.ShadingSimpleTextureModulatedTransparentGlow:             withPremult(transparent),
	metadata.ShadingSimpleTextureModulatedTransparentGlowMaskUV2:      withPremult(transparent),
	metadata.ShadingObject:                              opaque,
	metadata.ShadingObjectTransparent:                   transparent,
	metadata.ShadingObjectLightShadow:                   opaque,
	metadata.ShadingObjectLightShadowTransparent:        transparent,
	metadata.ShadingObjectReflect:                       opaque,
	metadata.ShadingObjectReflectTransparent:            transparent,
	metadata.ShadingObjectReflectAddTransparent:         transparent,
	metadata.ShadingObjectReflectLightShadow:            opaque,
	metadata.ShadingObjectReflectLightShadowDoubleSided: withDoubleSided(opaque),
	metadata.ShadingSmoke:               withPremult(transparent),
	metadata.ShadingSmokeOverlay:        withPremult(transparent),
	metadata.ShadingSprite:              modeTraits{blend: true, forcePremult: true, depthTest: true, pointSprites: true},
	metadata.ShadingSpriteCameraAligned: modeTraits{blend: true, forcePremult: true, depthTest: true, pointSprites: true},
	metadata.ShadingShield:              withDoubleSided(transparent),
	metadata.ShadingBlur:                {},
	metadata.ShadingPostProcessNormal:   {},
	metadata.ShadingPostProcessEyes:     {},
	metadata.ShadingPostProcessDistort:  {},
}

// simpleFlagsForMode maps each simple-family shading mode to its
// compiled variant. Transparency is a blend-state trait, not a shader
// feature, so transparent modes share programs with opaque ones.
var simpleFlagsForMode = map[metadata.ShadingMode]simpleFlags{
	metadata.ShadingSimpleColor:                                       simpleModulate,
	metadata.ShadingSimpleColorTransparent:                            simpleModulate,
	metadata.ShadingSimpleColorTransparentDoubleSided:                 simpleModulate,
	metadata.ShadingSimpleTexture:                                     simpleTexture,
	metadata.ShadingSimpleTextureModulated:                            simpleTexture | simpleModulate,
	metadata.ShadingSimpleTextureModulatedColorized:                   simpleTexture | simpleModulate | simpleColorize,
	metadata.ShadingSimpleTextureModulatedColorized2:                  simpleTexture | simpleModulate | simpleColorize | simpleColorize2,
	metadata.ShadingSimpleTextureModulatedTransparent:                 simpleTexture | simpleModulate,
	metadata.ShadingSimpleTextureModulatedTransparentDoubleSided:      simpleTexture | simpleModulate,
	metadata.ShadingSimpleTextureModulatedTransparentFlatness:         simpleTexture | simpleModulate | simpleFlatness,
	metadata.ShadingSimpleTextureModulatedTransparentColorized:        simpleTexture | simpleModulate | simpleColorize,
	metadata.ShadingSimpleTextureModulatedTransparentColorized2:       simpleTexture | simpleModulate | simpleColorize | simpleColorize2,
	metadata.ShadingSimpleTextureModulatedTransparentColorized2Masked: simpleTexture | simpleModulate | simpleColorize | simpleColorize2 | simpleMasked,
	metadata.ShadingSimpleTextureModulatedTransparentShadow:           simpleTexture | simpleModulate | simpleShadow,
	metadata.ShadingSimpleTextureModulatedTransparentShadowFlatness:   simpleTexture | simpleModulate | simpleShadow | simpleFlatness,
	metadata.ShadingSimpleTextureModulatedTransparentGlow:             simpleTexture | simpleModulate | simpleGlow,
	metadata.ShadingSimpleTextureModulatedTransparentGlowMaskUV2:      simpleTexture | simpleModulate | simpleGlow | simpleMasked | simpleMaskUV2,
}

var objectFlagsForMode = map[metadata.ShadingMode]objectFlags{
	metadata.ShadingObject:                              0,
	metadata.ShadingObjectTransparent:                   0,
	metadata.ShadingObjectLightShadow:                   objectLightShadow,
	metadata.ShadingObjectLightShadowTransparent:        objectLightShadow,
	metadata.ShadingObjectReflect:                       objectReflect,
	metadata.ShadingObjectReflectTransparent:            objectReflect,
	metadata.ShadingObjectReflectAddTransparent:         objectReflect | objectAdd,
	metadata.ShadingObjectReflectLightShadow:            objectReflect | objectLightShadow,
	metadata.ShadingObjectReflectLightShadowDoubleSided: objectReflect | objectLightShadow,
}

var postProcessFlagsForMode = map[metadata.ShadingMode]postProcessFlags{
	metadata.ShadingPostProcessNormal:  0,
	metadata.ShadingPostProcessEyes:    postProcessEyes,
	metadata.ShadingPostProcessDistort: postProcessDistort,
}

// programSet holds every program variant any shading mode can select.
// The set is closed: all variants compile eagerly at load so a missing
// or broken one surfaces at startup instead of mid-game.
type programSet struct {
	simple map[simpleFlags]*simpleProgram
	object map[objectFlags]*objectProgram
	post   map[postProcessFlags]*postProcessProgram

	// Capability-adjusted variant choice per post-process mode.
	postForMode map[metadata.ShadingMode]postProcessFlags

	smoke        *smokeProgram
	smokeOverlay *smokeProgram
	sprite       *spriteProgram
	spriteCamera *spriteProgram
	blur         *blurProgram
	shield       *shieldProgram
}

func newProgramSet(f Functions, state *glState, caps *capabilities) *programSet {
	ps := &programSet{
		simple:      map[simpleFlags]*simpleProgram{},
		object:      map[objectFlags]*objectProgram{},
		post:        map[postProcessFlags]*postProcessProgram{},
		postForMode: map[metadata.ShadingMode]postProcessFlags{},
	}
	for _, fl := range simpleFlagsForMode {
		if _, ok := ps.simple[fl]; !ok {
			ps.simple[fl] = newSimpleProgram(f, state, fl)
		}
	}
	for _, fl := range objectFlagsForMode {
		if _, ok := ps.object[fl]; !ok {
			ps.object[fl] = newObjectProgram(f, state, fl)
		}
	}
	for mode, fl := range postProcessFlagsForMode {
		if fl&postProcessDistort != 0 && !caps.depthTexturesWork {
			// Without readable depth the distort variant degrades to
			// the plain blit; the mode stays selectable.
			core.LogWarn("compiling %s without depth distortion", mode)
			fl = 0
		}
		if _, ok := ps.post[fl]; !ok {
			ps.post[fl] = newPostProcessProgram(f, state, fl)
		}
		ps.postForMode[mode] = fl
	}
	ps.smoke = newSmokeProgram(f, state, false)
	ps.smokeOverlay = newSmokeProgram(f, state, true)
	ps.sprite = newSpriteProgram(f, state, false)
	ps.spriteCamera = newSpriteProgram(f, state, true)
	ps.blur = newBlurProgram(f, state)
	ps.shield = newShieldProgram(f, state)
	core.LogInfo("compiled %d shader programs",
		len(ps.simple)+len(ps.object)+len(ps.post)+6)
	return ps
}

func (ps *programSet) Destroy() {
	for _, p := range ps.simple {
		p.Destroy()
	}
	for _, p := range ps.object {
		p.Destroy()
	}
	for _, p := range ps.post {
		p.Destroy()
	}
	ps.smoke.Destroy()
	ps.smokeOverlay.Destroy()
	ps.sprite.Destroy()
	ps.spriteCamera.Destroy()
	ps.blur.Destroy()
	ps.shield.Destroy()
}

package metadata

// ShadingMode is one named, closed-set draw variant. Each mode bundles a
// required shader-program flag combination, the GL blend/cull/depth
// state the effect needs and a fixed operand layout in the command
// stream (see shadingModeOperands).
type ShadingMode int

const (
	ShadingSimpleColor ShadingMode = iota
	ShadingSimpleColorTransparent
	ShadingSimpleColorTransparentDoubleSided
	ShadingSimpleTexture
	ShadingSimpleTextureModulated
	ShadingSimpleTextureModulatedColorized
	ShadingSimpleTextureModulatedColorized2
	ShadingSimpleTextureModulatedTransparent
	ShadingSimpleTextureModulatedTransparentDoubleSided
	ShadingSimpleTextureModulatedTransparentFlatness
	ShadingSimpleTextureModulatedTransparentColorized
	ShadingSimpleTextureModulatedTransparentColorized2
	ShadingSimpleTextureModulatedTransparentColorized2Masked
	ShadingSimpleTextureModulatedTransparentShadow
	ShadingSimpleTextureModulatedTransparentShadowFlatness
	ShadingSimpleTextureModulatedTransparentGlow
	ShadingSimpleTextureModulatedTransparentGlowMaskUV2
	ShadingObject
	ShadingObjectTransparent
	ShadingObjectLightShadow
	ShadingObjectLightShadowTransparent
	ShadingObjectReflect
	ShadingObjectReflectTransparent
	ShadingObjectReflectAddTransparent
	ShadingObjectReflectLightShadow
	ShadingObjectReflectLightShadowDoubleSided
	ShadingSmoke
	ShadingSmokeOverlay
	ShadingSprite
	ShadingSpriteCameraAligned
	ShadingShield
	ShadingBlur
	ShadingPostProcessNormal
	ShadingPostProcessEyes
	ShadingPostProcessDistort

	ShadingModeCount
)

var shadingModeNames = map[ShadingMode]string{
	ShadingSimpleColor:                                       "simple_color",
	ShadingSimpleColorTransparent:                            "simple_color_transparent",
	ShadingSimpleColorTransparentDoubleSided:                 "simple_color_transparent_double_sided",
	ShadingSimpleTexture:                                     "simple_texture",
	ShadingSimpleTextureModulated:                            "simple_texture_modulated",
	ShadingSimpleTextureModulatedColorized:                   "simple_texture_modulated_colorized",
	ShadingSimpleTextureModulatedColorized2:                  "simple_texture_modulated_colorized2",
	ShadingSimpleTextureModulatedTransparent:                 "simple_texture_modulated_transparent",
	ShadingSimpleTextureModulatedTransparentDoubleSided:      "simple_texture_modulated_transparent_double_sided",
	ShadingSimpleTextureModulatedTransparentFlatness:         "simple_texture_modulated_transparent_flatness",
	ShadingSimpleTextureModulatedTransparentColorized:        "simple_texture_modulated_transparent_colorized",
	ShadingSimpleTextureModulatedTransparentColorized2:       "simple_texture_modulated_transparent_colorized2",
	ShadingSimpleTextureModulatedTransparentColorized2Masked: "simple_texture_modulated_transparent_colorized2_masked",
	ShadingSimpleTextureModulatedTransparentShadow:           "simple_texture_modulated_transparent_shadow",
	ShadingSimpleTextureModulatedTransparentShadowFlatness:   "simple_texture_modulated_transparent_shadow_flatness",
	ShadingSimpleTextureModulatedTransparentGlow:             "simple_texture_modulated_transparent_glow",
	ShadingSimpleTextureModulatedTransparentGlowMaskUV2:      "simple_texture_modulated_transparent_glow_mask_uv2",
	ShadingObject:                              "object",
	ShadingObjectTransparent:                   "object_transparent",
	ShadingObjectLightShadow:                   "object_light_shadow",
	ShadingObjectLightShadowTransparent:        "object_light_shadow_transparent",
	ShadingObjectReflect:                       "object_reflect",
	ShadingObjectReflectTransparent:            "object_reflect_transparent",
	ShadingObjectReflectAddTransparent:         "object_reflect_add_transparent",
	ShadingObjectReflectLightShadow:            "object_reflect_light_shadow",
	ShadingObjectReflectLightShadowDoubleSided: "object_reflect_light_shadow_double_sided",
	ShadingSmoke:              "smoke",
	ShadingSmokeOverlay:       "smoke_overlay",
	ShadingSprite:             "sprite",
	ShadingSpriteCameraAligned: "sprite_camera_aligned",
	ShadingShield:             "shield",
	ShadingBlur:               "blur",
	ShadingPostProcessNormal:  "post_process_normal",
	ShadingPostProcessEyes:    "post_process_eyes",
	ShadingPostProcessDistort: "post_process_distort",
}

func (m ShadingMode) String() string {
	if n, ok := shadingModeNames[m]; ok {
		return n
	}
	return "invalid"
}

// operand is one typed slot in a shading mode's inline operand layout.
type operand uint8

const (
	opColor operand = iota
	opPremultiplied
	opTexture
	opColorizeTexture
	opColorizeColor
	opColorize2Color
	opMaskTexture
	opShadow
	opGlow
	opFlatness
	opReflectTexture
	opReflectColor
	opAddColor
	opLightShadowTexture
	opBlurTexture
	opDepthTexture
	opDistort
	opDOFRange
	opPixelSize
)

// shadingModeOperands is the single source of truth for each mode's
// operand layout. The command-buffer encoder and the interpreter's
// decoder both walk this table, so the two can never disagree about
// what follows a shader-select token in the stream.
var shadingModeOperands = [ShadingModeCount][]operand{
	ShadingSimpleColor:                                       {opColor},
	ShadingSimpleColorTransparent:                            {opColor, opPremultiplied},
	ShadingSimpleColorTransparentDoubleSided:                 {opColor, opPremultiplied},
	ShadingSimpleTexture:                                     {opTexture},
	ShadingSimpleTextureModulated:                            {opTexture, opColor},
	ShadingSimpleTextureModulatedColorized:                   {opTexture, opColor, opColorizeTexture, opColorizeColor},
	ShadingSimpleTextureModulatedColorized2:                  {opTexture, opColor, opColorizeTexture, opColorizeColor, opColorize2Color},
	ShadingSimpleTextureModulatedTransparent:                 {opTexture, opColor, opPremultiplied},
	ShadingSimpleTextureModulatedTransparentDoubleSided:      {opTexture, opColor, opPremultiplied},
	ShadingSimpleTextureModulatedTransparentFlatness:         {opTexture, opColor, opPremultiplied, opFlatness},
	ShadingSimpleTextureModulatedTransparentColorized:        {opTexture, opColor, opPremultiplied, opColorizeTexture, opColorizeColor},
	ShadingSimpleTextureModulatedTransparentColorized2:       {opTexture, opColor, opPremultiplied, opColorizeTexture, opColorizeColor, opColorize2Color},
	ShadingSimpleTextureModulatedTransparentColorized2Masked: {opTexture, opColor, opPremultiplied, opColorizeTexture, opColorizeColor, opColorize2Color, opMaskTexture},
	ShadingSimpleTextureModulatedTransparentShadow:           {opTexture, opColor, opPremultiplied, opShadow},
	ShadingSimpleTextureModulatedTransparentShadowFlatness:   {opTexture, opColor, opPremultiplied, opShadow, opFlatness},
	ShadingSimpleTextureModulatedTransparentGlow:             {opTexture, opColor, opGlow},
	ShadingSimpleTextureModulatedTransparentGlowMaskUV2:      {opTexture, opColor, opGlow, opMaskTexture},
	ShadingObject:                              {opTexture, opColor},
	ShadingObjectTransparent:                   {opTexture, opColor, opPremultiplied},
	ShadingObjectLightShadow:                   {opTexture, opColor, opLightShadowTexture},
	ShadingObjectLightShadowTransparent:        {opTexture, opColor, opLightShadowTexture, opPremultiplied},
	ShadingObjectReflect:                       {opTexture, opColor, opReflectTexture, opReflectColor},
	ShadingObjectReflectTransparent:            {opTexture, opColor, opReflectTexture, opReflectColor, opPremultiplied},
	ShadingObjectReflectAddTransparent:         {opTexture, opColor, opReflectTexture, opReflectColor, opAddColor, opPremultiplied},
	ShadingObjectReflectLightShadow:            {opTexture, opColor, opReflectTexture, opReflectColor, opLightShadowTexture},
	ShadingObjectReflectLightShadowDoubleSided: {opTexture, opColor, opReflectTexture, opReflectColor, opLightShadowTexture},
	ShadingSmoke:              {opTexture, opColor},
	ShadingSmokeOverlay:       {opTexture, opColor},
	ShadingSprite:             {opTexture, opColor},
	ShadingSpriteCameraAligned: {opTexture, opColor},
	ShadingShield:             {opDepthTexture},
	ShadingBlur:               {opTexture, opPixelSize},
	ShadingPostProcessNormal:  {opTexture},
	ShadingPostProcessEyes:    {opTexture, opBlurTexture},
	ShadingPostProcessDistort: {opTexture, opBlurTexture, opDepthTexture, opDistort, opDOFRange},
}

// ShaderArgs carries the operands for a shader-select command. Only the
// fields named by the mode's layout are read; the rest are ignored.
type ShaderArgs struct {
	Color         [4]float32
	Premultiplied bool

	Texture         *Texture
	ColorizeTexture *Texture
	ColorizeColor   [4]float32
	Colorize2Color  [4]float32
	MaskTexture     *Texture

	ShadowOffset  [2]float32
	ShadowBlur    float32
	ShadowOpacity float32
	Glow          float32
	Flatness      float32

	ReflectTexture *Texture
	ReflectColor   [3]float32
	AddColor       [3]float32

	LightShadowTexture *Texture
	BlurTexture        *Texture
	DepthTexture       *Texture

	DistortAmount float32
	DOFNear       float32
	DOFFar        float32

	PixelSize [2]float32
}

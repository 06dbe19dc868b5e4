package opengl

import "strings"

// Program variants are synthesized from one body per family plus a set
// of #define lines, so a family's variants can never drift apart
// structurally. GLSL 1.50 matches the 3.2 core contexts the platform
// layer requests.

const glslVersion = "#version 150\n"

func makeSource(body string, defines ...string) string {
	var b strings.Builder
	b.WriteString(glslVersion)
	for _, d := range defines {
		b.WriteString("#define ")
		b.WriteString(d)
		b.WriteString("\n")
	}
	b.WriteString(body)
	return b.String()
}

// Simple family: UI, text, 2D effects. Flag-gated texturing,
// modulation, colorize channels, masking, drop shadow, glow, flatness.

const simpleVertexBody = `
uniform mat4 modelViewProjectionMatrix;
in vec4 position;
#ifdef TEXTURE
in vec2 uv;
out vec2 vUV;
#endif
#ifdef MASK_UV2
in vec2 uv2;
out vec2 vUV2;
#endif
void main() {
#ifdef TEXTURE
	vUV = uv;
#endif
#ifdef MASK_UV2
	vUV2 = uv2;
#endif
	gl_Position = modelViewProjectionMatrix * position;
}
`

const simpleFragmentBody = `
#ifdef MODULATE
uniform vec4 color;
#endif
#ifdef TEXTURE
uniform sampler2D colorTex;
in vec2 vUV;
#endif
#ifdef COLORIZE
uniform sampler2D colorizeTex;
uniform vec4 colorizeColor;
#endif
#ifdef COLORIZE2
uniform vec4 colorize2Color;
#endif
#ifdef MASKED
uniform sampler2D maskTex;
#endif
#ifdef MASK_UV2
in vec2 vUV2;
#endif
#ifdef SHADOW
uniform vec4 shadowParams; // xy offset, z blur scale, w opacity
#endif
#ifdef GLOW
uniform float glow;
#endif
#ifdef FLATNESS
uniform float flatness;
#endif
out vec4 fragColor;
void main() {
#ifdef TEXTURE
	vec4 base = texture(colorTex, vUV);
#else
	vec4 base = vec4(1.0);
#endif
#ifdef COLORIZE
	vec4 cz = texture(colorizeTex, vUV);
	base.rgb = mix(base.rgb, base.rgb * colorizeColor.rgb, cz.r);
#ifdef COLORIZE2
	base.rgb = mix(base.rgb, base.rgb * colorize2Color.rgb, cz.g);
#endif
#endif
#ifdef MODULATE
	base *= color;
#endif
#ifdef FLATNESS
	base.rgb = mix(base.rgb, color.rgb * base.a, flatness);
#endif
#ifdef SHADOW
	float sh = texture(colorTex, vUV + shadowParams.xy).a * shadowParams.w;
	base = mix(vec4(0.0, 0.0, 0.0, sh), base, base.a);
#endif
#ifdef GLOW
	base.rgb *= glow;
	base.a = 0.0;
#endif
#ifdef MASKED
#ifdef MASK_UV2
	base.a *= texture(maskTex, vUV2).r;
#else
	base.a *= texture(maskTex, vUV).r;
#endif
#endif
	fragColor = base;
}
`

// Object family: lit world geometry. Reflection, lightmap shadowing and
// additive color are flag-gated on top of the diffuse term.

const objectVertexBody = `
uniform mat4 modelViewProjectionMatrix;
uniform mat4 modelViewMatrix;
in vec4 position;
in vec2 uv;
in vec3 normal;
out vec2 vUV;
out vec3 vNormal;
#ifdef REFLECT
uniform vec3 cameraPos;
out vec3 vReflect;
#endif
#ifdef LIGHT_SHADOW
uniform mat4 lightShadowMatrix;
out vec4 vLightShadowUV;
#endif
void main() {
	vUV = uv;
	vNormal = normalize(mat3(modelViewMatrix) * normal);
#ifdef REFLECT
	vec3 worldPos = (modelViewMatrix * position).xyz;
	vReflect = reflect(worldPos - cameraPos, vNormal);
#endif
#ifdef LIGHT_SHADOW
	vLightShadowUV = lightShadowMatrix * position;
#endif
	gl_Position = modelViewProjectionMatrix * position;
}
`

const objectFragmentBody = `
uniform sampler2D colorTex;
uniform vec4 color;
in vec2 vUV;
in vec3 vNormal;
#ifdef REFLECT
uniform sampler2D reflectTex;
uniform vec3 reflectColor;
in vec3 vReflect;
#endif
#ifdef LIGHT_SHADOW
uniform sampler2D lightShadowTex;
in vec4 vLightShadowUV;
#endif
#ifdef ADD
uniform vec3 addColor;
#endif
out vec4 fragColor;
void main() {
	vec4 base = texture(colorTex, vUV) * color;
#ifdef LIGHT_SHADOW
	vec3 ls = texture(lightShadowTex, vLightShadowUV.xy / vLightShadowUV.w).rgb;
	base.rgb *= 2.0 * ls;
#endif
#ifdef REFLECT
	vec2 ruv = normalize(vReflect).xy * 0.5 + 0.5;
	base.rgb += texture(reflectTex, ruv).rgb * reflectColor;
#endif
#ifdef ADD
	base.rgb += addColor;
#endif
	fragColor = base;
}
`

// Smoke family: particle fog, vertex-colored with an erode threshold so
// puffs dissolve instead of popping. Overlay variant brightens instead
// of darkening.

const smokeVertexBody = `
uniform mat4 modelViewProjectionMatrix;
in vec4 position;
in vec2 uv;
in vec4 color;
in float erode;
in float diffuse;
out vec2 vUV;
out vec4 vColor;
out float vErode;
out float vDiffuse;
void main() {
	vUV = uv;
	vColor = color;
	vErode = erode;
	vDiffuse = diffuse;
	gl_Position = modelViewProjectionMatrix * position;
}
`

const smokeFragmentBody = `
uniform sampler2D colorTex;
uniform vec4 color;
in vec2 vUV;
in vec4 vColor;
in float vErode;
in float vDiffuse;
out vec4 fragColor;
void main() {
	float dens = texture(colorTex, vUV).r;
	dens = smoothstep(vErode, 1.0, dens);
	vec4 c = vColor * color;
#ifdef OVERLAY
	fragColor = vec4(c.rgb * (vDiffuse + 1.0), c.a) * dens;
#else
	fragColor = vec4(c.rgb * vDiffuse, c.a) * dens;
#endif
}
`

// Sprite family: point sprites sized in the vertex stream. The
// camera-aligned variant scales size by distance so sprites keep their
// world-space footprint.

const spriteVertexBody = `
uniform mat4 modelViewProjectionMatrix;
#ifdef CAMERA_ALIGNED
uniform mat4 modelViewMatrix;
uniform float screenScale;
#endif
in vec4 position;
in float size;
in vec4 color;
out vec4 vColor;
void main() {
	vColor = color;
	gl_Position = modelViewProjectionMatrix * position;
#ifdef CAMERA_ALIGNED
	float dist = max(0.001, -(modelViewMatrix * position).z);
	gl_PointSize = size * screenScale / dist;
#else
	gl_PointSize = size;
#endif
}
`

const spriteFragmentBody = `
uniform sampler2D colorTex;
uniform vec4 color;
in vec4 vColor;
out vec4 fragColor;
void main() {
	fragColor = texture(colorTex, gl_PointCoord) * vColor * color;
}
`

// Blur: one-dimensional 5-tap gaussian over the full-screen quad; the
// blur chain runs it twice per level with swapped pixel sizes.

const blurVertexBody = `
uniform mat4 modelViewProjectionMatrix;
in vec4 position;
in vec2 uv;
out vec2 vUV;
void main() {
	vUV = uv;
	gl_Position = modelViewProjectionMatrix * position;
}
`

const blurFragmentBody = `
uniform sampler2D colorTex;
uniform vec2 pixelSize;
in vec2 vUV;
out vec4 fragColor;
void main() {
	vec4 sum = texture(colorTex, vUV) * 0.4;
	sum += texture(colorTex, vUV + pixelSize) * 0.2;
	sum += texture(colorTex, vUV - pixelSize) * 0.2;
	sum += texture(colorTex, vUV + pixelSize * 2.0) * 0.1;
	sum += texture(colorTex, vUV - pixelSize * 2.0) * 0.1;
	fragColor = sum;
}
`

// Shield: visualizes the depth delta between the shield surface and the
// scene behind it, so intersections ripple.

const shieldVertexBody = `
uniform mat4 modelViewProjectionMatrix;
in vec4 position;
out vec4 vScreenPos;
void main() {
	gl_Position = modelViewProjectionMatrix * position;
	vScreenPos = gl_Position;
}
`

const shieldFragmentBody = `
uniform sampler2D depthTex;
in vec4 vScreenPos;
out vec4 fragColor;
void main() {
	vec2 suv = (vScreenPos.xy / vScreenPos.w) * 0.5 + 0.5;
	float sceneDepth = texture(depthTex, suv).r;
	float fragDepth = gl_FragCoord.z;
	float delta = clamp(1.0 - (sceneDepth - fragDepth) * 80.0, 0.0, 1.0);
	fragColor = vec4(0.5, 0.6, 1.0, 0.3 + 0.7 * delta * delta);
}
`

// Post-process family: final blit from the offscreen camera buffer to
// the screen. Eyes adds a soft-glow mix from the blur chain; distort
// adds depth-of-field driven by the scene depth texture.

const postProcessVertexBody = `
uniform mat4 modelViewProjectionMatrix;
in vec4 position;
in vec2 uv;
out vec2 vUV;
void main() {
	vUV = uv;
	gl_Position = modelViewProjectionMatrix * position;
}
`

const postProcessFragmentBody = `
uniform sampler2D colorTex;
in vec2 vUV;
#ifdef EYES
uniform sampler2D blurTex;
#endif
#ifdef DISTORT
uniform sampler2D blurTex;
uniform sampler2D depthTex;
uniform float distort;
uniform vec2 dofRange; // near, far in depth-buffer units
#endif
out vec4 fragColor;
void main() {
#ifdef EYES
	vec4 sharp = texture(colorTex, vUV);
	vec4 soft = texture(blurTex, vUV);
	fragColor = sharp * 0.75 + soft * 0.35;
#else
#ifdef DISTORT
	float d = texture(depthTex, vUV).r;
	vec2 uv = vUV + vec2(distort) * (d - 0.5) * 0.02;
	vec4 sharp = texture(colorTex, uv);
	vec4 soft = texture(blurTex, uv);
	float blurAmt = smoothstep(dofRange.x, dofRange.y, d);
	fragColor = mix(sharp, soft, blurAmt);
#else
	fragColor = texture(colorTex, vUV);
#endif
#endif
}
`

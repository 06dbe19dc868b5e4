package metadata

import (
	"testing"

	mgl "github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShaderSelectRoundTrip(t *testing.T) {
	cb := GetCommandBuffer()
	defer ReturnCommandBuffer(cb)

	tex := &Texture{Name: "diffuse"}
	mask := &Texture{Name: "mask"}
	require.NoError(t, cb.SetShader(ShadingSimpleTextureModulatedTransparentColorized2Masked, &ShaderArgs{
		Texture:         tex,
		Color:           [4]float32{0.1, 0.2, 0.3, 0.4},
		Premultiplied:   true,
		ColorizeTexture: mask,
		ColorizeColor:   [4]float32{1, 0, 0, 1},
		Colorize2Color:  [4]float32{0, 1, 0, 1},
		MaskTexture:     mask,
	}))

	r := NewCommandReader(cb)
	cmd, ok := r.Next()
	require.True(t, ok)
	assert.Equal(t, CommandShader, cmd)

	mode, args := r.ShaderSelect()
	require.NoError(t, r.Err())
	assert.Equal(t, ShadingSimpleTextureModulatedTransparentColorized2Masked, mode)
	assert.Same(t, tex, args.Texture)
	assert.Same(t, mask, args.MaskTexture)
	assert.Equal(t, [4]float32{0.1, 0.2, 0.3, 0.4}, args.Color)
	assert.True(t, args.Premultiplied)
	assert.Equal(t, [4]float32{0, 1, 0, 1}, args.Colorize2Color)
	assert.True(t, r.Exhausted())
}

func TestShaderSelectRejectsMissingTexture(t *testing.T) {
	cb := GetCommandBuffer()
	defer ReturnCommandBuffer(cb)

	err := cb.SetShader(ShadingSimpleTexture, &ShaderArgs{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires a texture")
}

func TestShaderSelectRejectsInvalidMode(t *testing.T) {
	cb := GetCommandBuffer()
	defer ReturnCommandBuffer(cb)
	assert.Error(t, cb.SetShader(ShadingModeCount, &ShaderArgs{}))
	assert.Error(t, cb.SetShader(ShadingMode(-1), &ShaderArgs{}))
}

func TestTransformCommandsRoundTrip(t *testing.T) {
	cb := GetCommandBuffer()
	defer ReturnCommandBuffer(cb)

	cb.PushTransform()
	cb.Translate2(3, 4)
	cb.Translate3(1, 2, 3)
	cb.Scale(2, 2, 2)
	cb.Rotate(90, 0, 1, 0)
	m := mgl.Translate3D(5, 6, 7)
	cb.MultiplyMatrix(m)
	cb.PopTransform()

	r := NewCommandReader(cb)
	expect := func(want uint32) {
		cmd, ok := r.Next()
		require.True(t, ok)
		assert.Equal(t, want, cmd)
	}
	expect(CommandPushTransform)
	expect(CommandTranslate2)
	assert.Equal(t, float32(3), r.Float())
	assert.Equal(t, float32(4), r.Float())
	expect(CommandTranslate3)
	r.Float()
	r.Float()
	r.Float()
	expect(CommandScale)
	r.Float()
	r.Float()
	r.Float()
	expect(CommandRotate)
	assert.Equal(t, float32(90), r.Float())
	r.Float()
	r.Float()
	r.Float()
	expect(CommandMultiplyMatrix)
	assert.Equal(t, m, r.Matrix())
	expect(CommandPopTransform)
	require.NoError(t, r.Err())
	assert.True(t, r.Exhausted())
}

func TestDrawMeshInstancedRoundTrip(t *testing.T) {
	cb := GetCommandBuffer()
	defer ReturnCommandBuffer(cb)

	mesh := &MeshData{Flavor: MeshFlavorSimpleFull}
	t1 := mgl.Translate3D(1, 0, 0)
	t2 := mgl.Translate3D(2, 0, 0)
	cb.DrawMeshInstanced(mesh, []mgl.Mat4{t1, t2})

	r := NewCommandReader(cb)
	cmd, ok := r.Next()
	require.True(t, ok)
	assert.Equal(t, CommandDrawMeshInstanced, cmd)
	assert.Same(t, mesh, r.Mesh())
	assert.Equal(t, uint32(2), r.Uint())
	assert.Equal(t, t1, r.Matrix())
	assert.Equal(t, t2, r.Matrix())
	assert.True(t, r.Exhausted())
}

func TestReaderLatchesOnTruncation(t *testing.T) {
	cb := GetCommandBuffer()
	defer ReturnCommandBuffer(cb)

	cb.Translate3(1, 2, 3)
	// Chop the last operand off, simulating a corrupted stream.
	cb.buf = cb.buf[:len(cb.buf)-1]

	r := NewCommandReader(cb)
	cmd, ok := r.Next()
	require.True(t, ok)
	assert.Equal(t, CommandTranslate3, cmd)

	r.Float()
	r.Float()
	assert.NoError(t, r.Err())
	r.Float()
	require.Error(t, r.Err())
	assert.Contains(t, r.Err().Error(), "truncated")

	// Every later read returns zero values without advancing.
	assert.Zero(t, r.Float())
	assert.Zero(t, r.Uint())
	_, ok = r.Next()
	assert.False(t, ok)
	assert.False(t, r.Exhausted())
}

func TestReaderRejectsUnknownToken(t *testing.T) {
	cb := GetCommandBuffer()
	defer ReturnCommandBuffer(cb)
	cb.buf = append(cb.buf, 0xDEAD)

	r := NewCommandReader(cb)
	_, ok := r.Next()
	assert.False(t, ok)
	require.Error(t, r.Err())
	assert.Contains(t, r.Err().Error(), "unrecognized render command")
}

func TestReaderRejectsOutOfRangeMeshReference(t *testing.T) {
	cb := GetCommandBuffer()
	defer ReturnCommandBuffer(cb)
	cb.appendUint(CommandDrawMesh)
	cb.appendUint(5) // no meshes in the side table

	r := NewCommandReader(cb)
	_, ok := r.Next()
	require.True(t, ok)
	assert.Nil(t, r.Mesh())
	require.Error(t, r.Err())
	assert.Contains(t, r.Err().Error(), "out of range")
}

func TestCommandBufferPoolReuse(t *testing.T) {
	cb := GetCommandBuffer()
	cb.Translate2(1, 2)
	cb.DrawMesh(&MeshData{})
	assert.False(t, cb.Empty())

	ReturnCommandBuffer(cb)
	got := GetCommandBuffer()
	defer ReturnCommandBuffer(got)
	// Whatever the pool hands out is fully reset.
	assert.True(t, got.Empty())
	assert.Empty(t, got.meshes)
	assert.Empty(t, got.textures)
}

func TestOperandTableCoversEveryMode(t *testing.T) {
	for mode := ShadingMode(0); mode < ShadingModeCount; mode++ {
		assert.NotEqual(t, "invalid", mode.String(), "mode %d has no name", mode)
		// Encoding must succeed for every mode given complete args.
		cb := GetCommandBuffer()
		tex := &Texture{Name: "t"}
		err := cb.SetShader(mode, &ShaderArgs{
			Texture:            tex,
			ColorizeTexture:    tex,
			MaskTexture:        tex,
			ReflectTexture:     tex,
			LightShadowTexture: tex,
			BlurTexture:        tex,
			DepthTexture:       tex,
		})
		assert.NoError(t, err, "mode %s", mode)

		// And decode back to the same mode with the stream exhausted.
		r := NewCommandReader(cb)
		cmd, ok := r.Next()
		require.True(t, ok)
		require.Equal(t, CommandShader, cmd)
		got, args := r.ShaderSelect()
		require.NotNil(t, args, "mode %s", mode)
		assert.Equal(t, mode, got)
		assert.True(t, r.Exhausted(), "mode %s leaves trailing operands", mode)
		ReturnCommandBuffer(cb)
	}
}

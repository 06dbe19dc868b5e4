package opengl

import (
	"encoding/binary"
	"testing"

	tassert "github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/mobile/exp/f32"

	"github.com/spaghettifunk/ballistica/engine/config"
	"github.com/spaghettifunk/ballistica/engine/renderer/metadata"
)

func newTestRenderer(t *testing.T, f *fakeFunctions) *Renderer {
	t.Helper()
	r := New(f)
	gfx := config.Default().Graphics
	require.NoError(t, r.Load(&gfx, 800, 600))
	return r
}

func quadUpdate(m *metadata.MeshData, state uint32) *metadata.MeshUpdate {
	verts := f32.Bytes(binary.LittleEndian,
		-1, -1, 0, 0, 0,
		1, -1, 0, 1, 0,
		1, 1, 0, 1, 1,
		-1, 1, 0, 0, 1,
	)
	return &metadata.MeshUpdate{
		Mesh:    m,
		Primary: &metadata.VertexPayload{State: state, Data: verts, Elements: 4},
		Index:   &metadata.IndexPayload{State: state, Data16: []uint16{0, 1, 2, 0, 2, 3}},
	}
}

func TestMeshUploadSkipsUnchangedPayloads(t *testing.T) {
	f := newFakeFunctions()
	r := newTestRenderer(t, f)

	m := &metadata.MeshData{Flavor: metadata.MeshFlavorSimpleFull}
	f.resetCounts()

	r.UpdateMeshes([]*metadata.MeshUpdate{quadUpdate(m, 1)})
	tassert.Equal(t, 2, f.counts["BufferData"], "vertex and index payloads each upload once")

	// Same state tags: nothing reaches the driver.
	r.UpdateMeshes([]*metadata.MeshUpdate{quadUpdate(m, 1)})
	tassert.Equal(t, 2, f.counts["BufferData"])

	// Bumped tags force both uploads through.
	r.UpdateMeshes([]*metadata.MeshUpdate{quadUpdate(m, 2)})
	tassert.Equal(t, 4, f.counts["BufferData"])
}

func TestMeshUploadPartialUpdate(t *testing.T) {
	f := newFakeFunctions()
	r := newTestRenderer(t, f)

	m := &metadata.MeshData{Flavor: metadata.MeshFlavorSimpleFull}
	r.UpdateMeshes([]*metadata.MeshUpdate{quadUpdate(m, 1)})
	f.resetCounts()

	// Only the vertex payload changes; indices stay at state 1.
	u := quadUpdate(m, 2)
	u.Index.State = 1
	r.UpdateMeshes([]*metadata.MeshUpdate{u})
	tassert.Equal(t, 1, f.counts["BufferData"])
}

func TestMeshPoolRecyclesBuffers(t *testing.T) {
	f := newFakeFunctions()
	r := newTestRenderer(t, f)

	m1 := &metadata.MeshData{Flavor: metadata.MeshFlavorSimpleFull}
	r.UpdateMeshes([]*metadata.MeshUpdate{quadUpdate(m1, 1)})
	first := m1.InternalData.(*glMesh)

	r.ReleaseMesh(m1)
	tassert.Nil(t, m1.InternalData)
	f.resetCounts()

	m2 := &metadata.MeshData{Flavor: metadata.MeshFlavorSimpleFull}
	r.UpdateMeshes([]*metadata.MeshUpdate{quadUpdate(m2, 1)})
	tassert.Same(t, first, m2.InternalData, "pool hands the parked buffers back")
	tassert.Equal(t, 0, f.counts["GenVertexArray"])
	tassert.Equal(t, 0, f.counts["GenBuffer"])
	// Tags were cleared on recycle, so the new data uploads even though
	// its state value matches the previous owner's.
	tassert.Equal(t, 2, f.counts["BufferData"])
}

func TestMeshPoolSeparatesFlavors(t *testing.T) {
	f := newFakeFunctions()
	r := newTestRenderer(t, f)

	m1 := &metadata.MeshData{Flavor: metadata.MeshFlavorSimpleFull}
	r.UpdateMeshes([]*metadata.MeshUpdate{quadUpdate(m1, 1)})
	first := m1.InternalData.(*glMesh)
	r.ReleaseMesh(m1)

	// A sprite mesh must not receive the parked simple-full buffers.
	sprite := &metadata.MeshData{Flavor: metadata.MeshFlavorSprite, Dynamic: true}
	verts := f32.Bytes(binary.LittleEndian,
		0, 0, 0, 2, 1, 1, 1, 1,
	)
	r.UpdateMeshes([]*metadata.MeshUpdate{{
		Mesh:    sprite,
		Primary: &metadata.VertexPayload{State: 1, Data: verts, Elements: 1},
	}})
	tassert.NotSame(t, first, sprite.InternalData)
}

func TestMeshDestroySkipsDriverOnContextLoss(t *testing.T) {
	f := newFakeFunctions()
	r := newTestRenderer(t, f)

	m := &metadata.MeshData{Flavor: metadata.MeshFlavorSimpleFull}
	r.UpdateMeshes([]*metadata.MeshUpdate{quadUpdate(m, 1)})
	r.ReleaseMesh(m)

	f.resetCounts()
	r.Unload(true)
	tassert.Equal(t, 0, f.counts["DeleteVertexArray"])
	tassert.Equal(t, 0, f.counts["DeleteBuffer"])
}

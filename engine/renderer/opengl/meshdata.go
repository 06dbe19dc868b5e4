package opengl

import (
	"encoding/binary"

	"github.com/spaghettifunk/ballistica/engine/core"
	"github.com/spaghettifunk/ballistica/engine/renderer/metadata"
)

// attribSpec is one vertex attribute inside an interleaved buffer.
type attribSpec struct {
	slot       uint32
	size       int32
	xtype      uint32
	normalized bool
	offset     uintptr
}

// bufferLayout describes one VBO's interleaved format.
type bufferLayout struct {
	stride int32
	attrs  []attribSpec
}

// Per-flavor buffer layouts. Split flavors keep rarely-changing data
// (UVs) in a static buffer and per-frame data (positions, normals) in
// a separate dynamic one, so animation re-uploads touch the minimum.
var (
	simpleFullLayout = bufferLayout{stride: 20, attrs: []attribSpec{
		{attrPosition, 3, FLOAT, false, 0},
		{attrUV, 2, FLOAT, false, 12},
	}}
	dualTextureFullLayout = bufferLayout{stride: 28, attrs: []attribSpec{
		{attrPosition, 3, FLOAT, false, 0},
		{attrUV, 2, FLOAT, false, 12},
		{attrUV2, 2, FLOAT, false, 20},
	}}
	uvOnlyLayout = bufferLayout{stride: 8, attrs: []attribSpec{
		{attrUV, 2, FLOAT, false, 0},
	}}
	positionOnlyLayout = bufferLayout{stride: 12, attrs: []attribSpec{
		{attrPosition, 3, FLOAT, false, 0},
	}}
	objectDynamicLayout = bufferLayout{stride: 20, attrs: []attribSpec{
		{attrPosition, 3, FLOAT, false, 0},
		{attrNormal, 3, SHORT, true, 12},
	}}
	smokeFullLayout = bufferLayout{stride: 32, attrs: []attribSpec{
		{attrPosition, 3, FLOAT, false, 0},
		{attrUV, 2, FLOAT, false, 12},
		{attrColor, 4, UNSIGNED_BYTE, true, 20},
		{attrErode, 1, FLOAT, false, 24},
		{attrDiffuse, 1, FLOAT, false, 28},
	}}
	spriteLayout = bufferLayout{stride: 32, attrs: []attribSpec{
		{attrPosition, 3, FLOAT, false, 0},
		{attrSize, 1, FLOAT, false, 12},
		{attrColor, 4, FLOAT, false, 16},
	}}
)

func flavorLayouts(flavor metadata.MeshFlavor) (primary bufferLayout, dynamic *bufferLayout) {
	switch flavor {
	case metadata.MeshFlavorSimpleFull:
		return simpleFullLayout, nil
	case metadata.MeshFlavorDualTextureFull:
		return dualTextureFullLayout, nil
	case metadata.MeshFlavorSimpleSplit:
		return uvOnlyLayout, &positionOnlyLayout
	case metadata.MeshFlavorObjectSplit:
		return uvOnlyLayout, &objectDynamicLayout
	case metadata.MeshFlavorSmokeFull:
		return smokeFullLayout, nil
	case metadata.MeshFlavorSprite:
		return spriteLayout, nil
	}
	core.LogFatal("unhandled mesh flavor %s", flavor)
	return bufferLayout{}, nil
}

// glMesh is a MeshData's backend payload: a VAO plus one to three
// buffer objects. Uploads are tagged with the payload's state value;
// re-submitting an unchanged payload is a no-op at the driver level.
type glMesh struct {
	flavor metadata.MeshFlavor

	vao        uint32
	primaryVBO uint32
	dynamicVBO uint32
	ibo        uint32

	primaryState uint32
	dynamicState uint32
	indexState   uint32

	indexType    uint32
	elemCount    int32
	vertexCount  int32
	primitive    uint32
}

func newGLMesh(f Functions, state *glState, flavor metadata.MeshFlavor) *glMesh {
	m := &glMesh{flavor: flavor}
	if flavor.Primitive() == metadata.MeshDrawPoints {
		m.primitive = POINTS
	} else {
		m.primitive = TRIANGLES
	}

	m.vao = f.GenVertexArray()
	state.BindVertexArray(m.vao)

	primary, dynamic := flavorLayouts(flavor)
	m.primaryVBO = f.GenBuffer()
	f.BindBuffer(ARRAY_BUFFER, m.primaryVBO)
	applyLayout(f, primary)
	if dynamic != nil {
		m.dynamicVBO = f.GenBuffer()
		f.BindBuffer(ARRAY_BUFFER, m.dynamicVBO)
		applyLayout(f, *dynamic)
	}
	if flavor.UsesIndexData() {
		m.ibo = f.GenBuffer()
		// Recorded into the VAO.
		f.BindBuffer(ELEMENT_ARRAY_BUFFER, m.ibo)
	}
	return m
}

func applyLayout(f Functions, l bufferLayout) {
	for _, a := range l.attrs {
		f.EnableVertexAttribArray(a.slot)
		f.VertexAttribPointer(a.slot, a.size, a.xtype, a.normalized, l.stride, a.offset)
	}
}

// applyUpdate uploads whichever payloads carry a state tag newer than
// the last accepted upload. Unchanged payloads cost nothing.
func (m *glMesh) applyUpdate(f Functions, state *glState, u *metadata.MeshUpdate) {
	primary, dynamic := flavorLayouts(m.flavor)

	if u.Primary != nil && u.Primary.State != m.primaryState {
		if debugChecks {
			assert(len(u.Primary.Data)%int(primary.stride) == 0,
				"%s primary payload size %d not a multiple of stride %d",
				m.flavor, len(u.Primary.Data), primary.stride)
		}
		usage := uint32(STATIC_DRAW)
		if u.Mesh.Dynamic {
			usage = DYNAMIC_DRAW
		}
		f.BindBuffer(ARRAY_BUFFER, m.primaryVBO)
		f.BufferData(ARRAY_BUFFER, u.Primary.Data, usage)
		m.primaryState = u.Primary.State
		if !m.flavor.UsesIndexData() {
			m.vertexCount = u.Primary.Elements
		}
	}

	if u.Dynamic != nil && u.Dynamic.State != m.dynamicState {
		if debugChecks {
			assert(dynamic != nil, "%s has no dynamic buffer", m.flavor)
			assert(len(u.Dynamic.Data)%int(dynamic.stride) == 0,
				"%s dynamic payload size %d not a multiple of stride %d",
				m.flavor, len(u.Dynamic.Data), dynamic.stride)
		}
		f.BindBuffer(ARRAY_BUFFER, m.dynamicVBO)
		f.BufferData(ARRAY_BUFFER, u.Dynamic.Data, DYNAMIC_DRAW)
		m.dynamicState = u.Dynamic.State
	}

	if u.Index != nil && u.Index.State != m.indexState {
		// The element binding is VAO state; ours must be current.
		state.BindVertexArray(m.vao)
		var raw []byte
		if u.Index.Data32 != nil {
			m.indexType = UNSIGNED_INT
			raw = make([]byte, 4*len(u.Index.Data32))
			for i, v := range u.Index.Data32 {
				binary.LittleEndian.PutUint32(raw[4*i:], v)
			}
			m.elemCount = int32(len(u.Index.Data32))
		} else {
			m.indexType = UNSIGNED_SHORT
			raw = make([]byte, 2*len(u.Index.Data16))
			for i, v := range u.Index.Data16 {
				binary.LittleEndian.PutUint16(raw[2*i:], v)
			}
			m.elemCount = int32(len(u.Index.Data16))
		}
		f.BufferData(ELEMENT_ARRAY_BUFFER, raw, STATIC_DRAW)
		m.indexState = u.Index.State
	}
}

func (m *glMesh) canDraw() bool {
	if m.flavor.UsesIndexData() {
		return m.primaryState != 0 && m.indexState != 0 && m.elemCount > 0
	}
	return m.primaryState != 0 && m.vertexCount > 0
}

func (m *glMesh) draw(f Functions, state *glState) {
	if debugChecks {
		assert(m.canDraw(), "draw of %s mesh with no uploaded data", m.flavor)
	}
	if !m.canDraw() {
		return
	}
	state.BindVertexArray(m.vao)
	if m.flavor.UsesIndexData() {
		f.DrawElements(m.primitive, m.elemCount, m.indexType, 0)
	} else {
		f.DrawArrays(m.primitive, 0, m.vertexCount)
	}
}

// recycle clears upload tags so a pooled mesh accepts fresh data while
// keeping its GL objects alive.
func (m *glMesh) recycle() {
	m.primaryState = 0
	m.dynamicState = 0
	m.indexState = 0
	m.elemCount = 0
	m.vertexCount = 0
}

// destroy releases the GL objects. With the context lost every name is
// already dead and driver deletes would hit a stale context, so only
// the shadow entries are scrubbed.
func (m *glMesh) destroy(f Functions, state *glState, contextLost bool) {
	state.ForgetVertexArray(m.vao)
	if !contextLost {
		f.DeleteVertexArray(m.vao)
		f.DeleteBuffer(m.primaryVBO)
		if m.dynamicVBO != 0 {
			f.DeleteBuffer(m.dynamicVBO)
		}
		if m.ibo != 0 {
			f.DeleteBuffer(m.ibo)
		}
	}
	m.vao = 0
	m.primaryVBO = 0
	m.dynamicVBO = 0
	m.ibo = 0
}

package metadata

// MeshFlavor names one fixed vertex-attribute layout. Every flavor maps
// to a distinct GPU buffer wrapper in the backend, with its own
// attribute bindings and buffer count.
type MeshFlavor int

const (
	// Static uvs plus a dynamic position buffer plus indices. Used for
	// 2D geometry whose shape animates every frame.
	MeshFlavorSimpleSplit MeshFlavor = iota
	// Static uvs plus a dynamic position/normal buffer plus indices.
	// Used for soft-body 3D geometry.
	MeshFlavorObjectSplit
	// One combined vertex buffer plus indices.
	MeshFlavorSimpleFull
	// Combined buffer with two uv channels plus indices.
	MeshFlavorDualTextureFull
	// Combined buffer carrying per-vertex erode/color data; no indices.
	MeshFlavorSmokeFull
	// Point sprites: position, size and color per vertex; no indices.
	MeshFlavorSprite

	MeshFlavorCount
)

func (f MeshFlavor) String() string {
	switch f {
	case MeshFlavorSimpleSplit:
		return "simple_split"
	case MeshFlavorObjectSplit:
		return "object_split"
	case MeshFlavorSimpleFull:
		return "simple_full"
	case MeshFlavorDualTextureFull:
		return "dual_texture_full"
	case MeshFlavorSmokeFull:
		return "smoke_full"
	case MeshFlavorSprite:
		return "sprite"
	default:
		return "unknown"
	}
}

// UsesIndexData reports whether the flavor draws indexed primitives.
func (f MeshFlavor) UsesIndexData() bool {
	switch f {
	case MeshFlavorSmokeFull, MeshFlavorSprite:
		return false
	default:
		return true
	}
}

// UsesDynamicData reports whether the flavor carries a secondary
// dynamic vertex buffer alongside the primary one.
func (f MeshFlavor) UsesDynamicData() bool {
	switch f {
	case MeshFlavorSimpleSplit, MeshFlavorObjectSplit:
		return true
	default:
		return false
	}
}

// MeshDrawPrimitive selects the GL primitive a flavor is drawn with.
type MeshDrawPrimitive int

const (
	MeshDrawTriangles MeshDrawPrimitive = iota
	MeshDrawPoints
)

// Primitive returns the draw primitive for the flavor.
func (f MeshFlavor) Primitive() MeshDrawPrimitive {
	if f == MeshFlavorSprite {
		return MeshDrawPoints
	}
	return MeshDrawTriangles
}

// MeshData is the client-side handle for one GPU-resident mesh. The
// backend's buffer wrapper hangs off InternalData after the first
// update; logic-thread code never inspects it.
type MeshData struct {
	Flavor MeshFlavor
	// Dynamic hints the driver that the primary buffer contents churn
	// every frame.
	Dynamic bool

	InternalData interface{}
}

// VertexPayload is one CPU-side vertex buffer destined for the GPU.
// State is a monotonically-changing version tag: an upload whose tag
// matches the last-uploaded one is skipped entirely.
type VertexPayload struct {
	State uint32
	Data  []byte
	// Elements is the vertex count described by Data.
	Elements int32
}

// IndexPayload is a CPU-side index buffer. Exactly one of Data16/Data32
// is set; the backend selects the GL index type accordingly.
type IndexPayload struct {
	State  uint32
	Data16 []uint16
	Data32 []uint32
}

// Elements returns the index count.
func (p *IndexPayload) Elements() int32 {
	if p.Data32 != nil {
		return int32(len(p.Data32))
	}
	return int32(len(p.Data16))
}

// MeshUpdate names the buffers of one mesh that changed this frame.
// Nil members mean "unchanged". Applied by the backend before any
// command buffer that references the mesh executes.
type MeshUpdate struct {
	Mesh    *MeshData
	Primary *VertexPayload
	Dynamic *VertexPayload
	Index   *IndexPayload
}

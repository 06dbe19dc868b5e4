package testbed

import (
	"encoding/binary"
	"fmt"

	"github.com/chewxy/math32"
	mgl "github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"golang.org/x/mobile/exp/f32"

	"github.com/spaghettifunk/ballistica/engine"
	"github.com/spaghettifunk/ballistica/engine/core"
	"github.com/spaghettifunk/ballistica/engine/renderer/metadata"
)

type TestGame struct {
	*engine.Game
}

type gameState struct {
	width  uint32
	height uint32

	angle float64

	checkerTexture *metadata.Texture
	pendingUploads []*metadata.TextureUpload

	cubeMesh    *metadata.MeshData
	overlayMesh *metadata.MeshData
	smokeMesh   *metadata.MeshData
	meshesSent  bool

	cameraTarget *metadata.RenderTarget
	blurTarget   *metadata.RenderTarget

	smokeState uint32
}

func NewTestGame() (*TestGame, error) {
	tg := &TestGame{
		Game: &engine.Game{
			ApplicationConfig: &engine.ApplicationConfig{
				StartPosX:   100,
				StartPosY:   100,
				StartWidth:  1280,
				StartHeight: 720,
				Name:        "Ballistica Testbed",
				LogLevel:    core.DebugLevel,
			},
			State: &gameState{},
		},
	}

	tg.FnInitialize = tg.Initialize
	tg.FnUpdate = tg.Update
	tg.FnRender = tg.Render
	tg.FnOnResize = tg.OnResize
	tg.FnShutdown = tg.Shutdown

	return tg, nil
}

func (g *TestGame) Initialize() error {
	core.LogDebug("TestGame Initialize fn....")

	if g.Renderer == nil {
		return fmt.Errorf("the engine has not injected the renderer yet")
	}
	state := g.State.(*gameState)
	state.width = g.ApplicationConfig.StartWidth
	state.height = g.ApplicationConfig.StartHeight

	state.checkerTexture, state.pendingUploads = checkerboardUpload()

	state.cubeMesh = &metadata.MeshData{Flavor: metadata.MeshFlavorSimpleFull}
	state.overlayMesh = &metadata.MeshData{Flavor: metadata.MeshFlavorSimpleFull}
	state.smokeMesh = &metadata.MeshData{Flavor: metadata.MeshFlavorSmokeFull, Dynamic: true}

	// The world renders offscreen so the final blit can run the
	// post-process program over it; the quarter-res blur target feeds
	// the soft-glow input.
	state.cameraTarget = g.Renderer.CreateRenderTarget(metadata.RenderTargetConfig{
		Width:          state.width,
		Height:         state.height,
		LinearInterp:   true,
		Depth:          true,
		ColorAsTexture: true,
		DepthAsTexture: g.Renderer.DepthTexturesSupported(),
		HighQuality:    true,
		Alpha:          false,
	})
	state.blurTarget = g.Renderer.CreateRenderTarget(metadata.RenderTargetConfig{
		Width:          state.width / 4,
		Height:         state.height / 4,
		LinearInterp:   true,
		ColorAsTexture: true,
	})
	return nil
}

func (g *TestGame) Update(deltaTime float64) error {
	state := g.State.(*gameState)
	state.angle += deltaTime * 45.0
	return nil
}

func (g *TestGame) Render(deltaTime float64) (*metadata.RenderPacket, error) {
	state := g.State.(*gameState)

	packet := &metadata.RenderPacket{DeltaTime: deltaTime}

	if len(state.pendingUploads) > 0 {
		packet.TextureUploads = state.pendingUploads
		state.pendingUploads = nil
	}
	if !state.meshesSent {
		packet.MeshUpdates = append(packet.MeshUpdates,
			cubeMeshUpdate(state.cubeMesh),
			overlayMeshUpdate(state.overlayMesh),
		)
		state.meshesSent = true
	}
	// Smoke positions churn every frame; a bumped state tag forces the
	// dynamic re-upload while everything else stays resident.
	state.smokeState++
	packet.MeshUpdates = append(packet.MeshUpdates,
		smokeMeshUpdate(state.smokeMesh, state.smokeState, float32(state.angle)))

	aspect := float32(state.width) / float32(state.height)
	g.Renderer.SetCamera(
		mgl.Perspective(mgl.DegToRad(60), aspect, 0.1, 100),
		mgl.LookAtV(mgl.Vec3{0, 2, 6}, mgl.Vec3{0, 0, 0}, mgl.Vec3{0, 1, 0}),
		mgl.Vec3{0, 2, 6},
	)

	worldPass, err := g.buildWorldPass(state)
	if err != nil {
		return nil, err
	}
	blurPass, err := g.buildBlurPass(state)
	if err != nil {
		return nil, err
	}
	screenPass, err := g.buildScreenPass(state)
	if err != nil {
		return nil, err
	}
	packet.Passes = []*metadata.RenderPass{worldPass, blurPass, screenPass}
	return packet, nil
}

func (g *TestGame) buildWorldPass(state *gameState) (*metadata.RenderPass, error) {
	cb := metadata.GetCommandBuffer()

	if err := cb.SetShader(metadata.ShadingSimpleTextureModulated, &metadata.ShaderArgs{
		Texture: state.checkerTexture,
		Color:   [4]float32{1, 1, 1, 1},
	}); err != nil {
		return nil, err
	}
	cb.PushTransform()
	cb.Rotate(float32(state.angle), 0, 1, 0)
	cb.DrawMesh(state.cubeMesh)
	cb.PopTransform()

	// A ring of instanced copies around the spinning one.
	var ring []mgl.Mat4
	for i := 0; i < 6; i++ {
		a := float32(i) * 60
		m := mgl.HomogRotate3DY(mgl.DegToRad(a)).
			Mul4(mgl.Translate3D(3, 0, 0)).
			Mul4(mgl.Scale3D(0.4, 0.4, 0.4))
		ring = append(ring, m)
	}
	cb.Color(0.6, 0.8, 1.0, 1.0)
	cb.DrawMeshInstanced(state.cubeMesh, ring)

	if err := cb.SetShader(metadata.ShadingSmoke, &metadata.ShaderArgs{
		Texture: state.checkerTexture,
		Color:   [4]float32{0.8, 0.8, 0.9, 0.5},
	}); err != nil {
		return nil, err
	}
	cb.DrawMesh(state.smokeMesh)

	return &metadata.RenderPass{
		Name:            "world",
		Target:          state.cameraTarget,
		ClearColor:      true,
		ClearColorValue: [4]float32{0.1, 0.1, 0.15, 1},
		Commands:        cb,
	}, nil
}

func (g *TestGame) buildBlurPass(state *gameState) (*metadata.RenderPass, error) {
	cb := metadata.GetCommandBuffer()
	if err := cb.SetShader(metadata.ShadingBlur, &metadata.ShaderArgs{
		Texture:   state.cameraTarget.ColorTexture,
		PixelSize: [2]float32{1 / float32(state.width/4), 0},
	}); err != nil {
		return nil, err
	}
	cb.DrawScreenQuad()
	return &metadata.RenderPass{
		Name:     "blur",
		Target:   state.blurTarget,
		Commands: cb,
	}, nil
}

func (g *TestGame) buildScreenPass(state *gameState) (*metadata.RenderPass, error) {
	cb := metadata.GetCommandBuffer()

	// Blit the camera buffer through the post-process program.
	args := &metadata.ShaderArgs{
		Texture:     state.cameraTarget.ColorTexture,
		BlurTexture: state.blurTarget.ColorTexture,
	}
	mode := metadata.ShadingPostProcessEyes
	if err := cb.SetShader(mode, args); err != nil {
		return nil, err
	}
	cb.DrawScreenQuad()

	// Overlay UI in virtual coordinates, clipped to the lower strip.
	vw, vh := g.Renderer.VirtualSize()
	if err := cb.SetShader(metadata.ShadingSimpleColorTransparent, &metadata.ShaderArgs{
		Color: [4]float32{0.2, 0.9, 0.4, 0.6},
	}); err != nil {
		return nil, err
	}
	cb.ScissorPush(20, 20, vw-20, vh*0.2)
	cb.PushTransform()
	cb.Translate2(vw*0.5, vh*0.1)
	cb.Scale(vw*0.4, vh*0.05, 1)
	cb.DrawMesh(state.overlayMesh)
	cb.PopTransform()
	cb.ScissorPop()

	proj := mgl.Ortho(0, vw, 0, vh, -100, 100)
	view := mgl.Ident4()
	return &metadata.RenderPass{
		Name:       "screen",
		Projection: &proj,
		ModelView:  &view,
		Commands:   cb,
	}, nil
}

func (g *TestGame) OnResize(width, height uint32) error {
	state := g.State.(*gameState)
	state.width = width
	state.height = height
	return nil
}

func (g *TestGame) Shutdown() error {
	state := g.State.(*gameState)
	if g.Renderer != nil {
		g.Renderer.DestroyRenderTarget(state.blurTarget)
		g.Renderer.DestroyRenderTarget(state.cameraTarget)
		g.Renderer.ReleaseMesh(state.cubeMesh)
		g.Renderer.ReleaseMesh(state.overlayMesh)
		g.Renderer.ReleaseMesh(state.smokeMesh)
		g.Renderer.ReleaseTexture(state.checkerTexture)
	}
	return nil
}

// checkerboardUpload builds an 8x8-cell procedural texture so the
// testbed needs no asset files on disk.
func checkerboardUpload() (*metadata.Texture, []*metadata.TextureUpload) {
	const size = 256
	const cell = size / 8
	pixels := make([]byte, size*size*4)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			i := (y*size + x) * 4
			if (x/cell+y/cell)%2 == 0 {
				pixels[i], pixels[i+1], pixels[i+2] = 220, 220, 220
			} else {
				pixels[i], pixels[i+1], pixels[i+2] = 40, 40, 60
			}
			pixels[i+3] = 255
		}
	}
	tex := &metadata.Texture{
		ID:         uuid.New(),
		Name:       "checker",
		Width:      size,
		Height:     size,
		Channels:   4,
		HasMipmaps: true,
		Filter:     metadata.TextureFilterModeLinear,
		Generation: 1,
	}
	return tex, []*metadata.TextureUpload{{Texture: tex, Pixels: [][]byte{pixels}}}
}

// cubeMeshUpdate uploads a unit cube with per-face UVs.
func cubeMeshUpdate(m *metadata.MeshData) *metadata.MeshUpdate {
	var verts []float32
	var indices []uint16
	faces := [][4]mgl.Vec3{
		{{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1}},    // front
		{{1, -1, -1}, {-1, -1, -1}, {-1, 1, -1}, {1, 1, -1}}, // back
		{{-1, -1, -1}, {-1, -1, 1}, {-1, 1, 1}, {-1, 1, -1}}, // left
		{{1, -1, 1}, {1, -1, -1}, {1, 1, -1}, {1, 1, 1}},     // right
		{{-1, 1, 1}, {1, 1, 1}, {1, 1, -1}, {-1, 1, -1}},     // top
		{{-1, -1, -1}, {1, -1, -1}, {1, -1, 1}, {-1, -1, 1}}, // bottom
	}
	uvs := [4][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	for fi, face := range faces {
		base := uint16(fi * 4)
		for vi, p := range face {
			verts = append(verts, p.X(), p.Y(), p.Z(), uvs[vi][0], uvs[vi][1])
		}
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}
	return &metadata.MeshUpdate{
		Mesh:    m,
		Primary: &metadata.VertexPayload{State: 1, Data: f32.Bytes(binary.LittleEndian, verts...), Elements: 24},
		Index:   &metadata.IndexPayload{State: 1, Data16: indices},
	}
}

// overlayMeshUpdate uploads a unit quad centered at the origin.
func overlayMeshUpdate(m *metadata.MeshData) *metadata.MeshUpdate {
	verts := f32.Bytes(binary.LittleEndian,
		-0.5, -0.5, 0, 0, 0,
		0.5, -0.5, 0, 1, 0,
		0.5, 0.5, 0, 1, 1,
		-0.5, 0.5, 0, 0, 1,
	)
	return &metadata.MeshUpdate{
		Mesh:    m,
		Primary: &metadata.VertexPayload{State: 1, Data: verts, Elements: 4},
		Index:   &metadata.IndexPayload{State: 1, Data16: []uint16{0, 1, 2, 0, 2, 3}},
	}
}

// smokeMeshUpdate rebuilds a couple of drifting puff triangles each
// frame, exercising the dynamic upload path end to end.
func smokeMeshUpdate(m *metadata.MeshData, state uint32, angle float32) *metadata.MeshUpdate {
	drift := mgl.DegToRad(angle)
	buf := make([]byte, 0, 6*32)
	appendVert := func(x, y, z, u, v, erode, diffuse float32) {
		buf = append(buf, f32.Bytes(binary.LittleEndian, x, y, z, u, v)...)
		// Vertex color rides as normalized bytes.
		buf = append(buf, 200, 200, 220, 160)
		buf = append(buf, f32.Bytes(binary.LittleEndian, erode, diffuse)...)
	}
	for i := 0; i < 2; i++ {
		ox := float32(2.2)
		if i == 1 {
			ox = -2.2
		}
		y := 1.2 + 0.3*float32(i) + 0.2*math32.Sin(drift+float32(i))
		appendVert(ox-0.6, y-0.5, 0, 0, 0, 0.3, 0.8)
		appendVert(ox+0.6, y-0.5, 0, 1, 0, 0.3, 0.8)
		appendVert(ox, y+0.7, 0, 0.5, 1, 0.5, 1.0)
	}
	return &metadata.MeshUpdate{
		Mesh:    m,
		Primary: &metadata.VertexPayload{State: state, Data: buf, Elements: 6},
	}
}

package opengl

import (
	"github.com/spaghettifunk/ballistica/engine/core"
	"github.com/spaghettifunk/ballistica/engine/renderer/metadata"
)

// meshPool recycles glMesh wrappers per flavor. Gameplay churns through
// short-lived meshes (text, particles) at a high rate; reusing the VAO
// and buffer objects keeps the driver's allocator out of the frame.
// Free lists are LIFO so the most recently used objects, likely still
// warm in the driver, go out first.
type meshPool struct {
	free [metadata.MeshFlavorCount][]*glMesh

	allocated uint32
	reused    uint32
}

// acquire returns a recycled mesh of the flavor when one is available,
// creating a fresh one otherwise.
func (p *meshPool) acquire(f Functions, state *glState, flavor metadata.MeshFlavor) *glMesh {
	list := p.free[flavor]
	if n := len(list); n > 0 {
		m := list[n-1]
		p.free[flavor] = list[:n-1]
		m.recycle()
		p.reused++
		return m
	}
	p.allocated++
	return newGLMesh(f, state, flavor)
}

// release parks a mesh on its flavor's free list. GL objects stay
// alive; only upload tags are cleared, on the next acquire.
func (p *meshPool) release(m *glMesh) {
	p.free[m.flavor] = append(p.free[m.flavor], m)
}

// drain destroys every pooled mesh. Called at unload; with the context
// lost the deletes are skipped and only bookkeeping is dropped.
func (p *meshPool) drain(f Functions, state *glState, contextLost bool) {
	count := 0
	for flavor := range p.free {
		for _, m := range p.free[flavor] {
			m.destroy(f, state, contextLost)
			count++
		}
		p.free[flavor] = nil
	}
	if count > 0 {
		core.LogDebug("mesh pool drained %d buffers (allocated %d, reused %d)",
			count, p.allocated, p.reused)
	}
}

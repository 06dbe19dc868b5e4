package opengl

import (
	"testing"

	tassert "github.com/stretchr/testify/assert"
)

func TestStateCacheElidesRedundantChanges(t *testing.T) {
	f := newFakeFunctions()
	s := newGLState(f)
	f.resetCounts()
	s.ResetChangeCount()

	s.SetBlend(true)
	s.SetBlend(true)
	s.SetBlend(true)
	tassert.Equal(t, 1, f.counts["Enable"])
	tassert.Equal(t, uint32(1), s.ChangeCount())

	s.SetBlend(false)
	tassert.Equal(t, 1, f.counts["Disable"])

	s.SetDepthWrite(true) // baseline already true
	tassert.Equal(t, 0, f.counts["DepthMask"])
	s.SetDepthWrite(false)
	s.SetDepthWrite(false)
	tassert.Equal(t, 1, f.counts["DepthMask"])

	s.SetViewport(0, 0, 640, 480)
	s.SetViewport(0, 0, 640, 480)
	tassert.Equal(t, 1, f.counts["Viewport"])

	s.UseProgram(7)
	s.UseProgram(7)
	s.UseProgram(9)
	tassert.Equal(t, 2, f.counts["UseProgram"])
}

func TestStateCacheTextureUnits(t *testing.T) {
	f := newFakeFunctions()
	s := newGLState(f)
	f.resetCounts()

	s.BindTexture2D(0, 5)
	s.BindTexture2D(0, 5)
	tassert.Equal(t, 1, f.counts["BindTexture"])
	tassert.Equal(t, 1, f.counts["ActiveTexture"])

	// A different unit holds its own binding independently.
	s.BindTexture2D(1, 5)
	tassert.Equal(t, 2, f.counts["BindTexture"])
	// Unit 0 still remembers its binding; no driver call.
	s.BindTexture2D(0, 5)
	tassert.Equal(t, 2, f.counts["BindTexture"])
}

func TestForgetForcesNextBindThrough(t *testing.T) {
	f := newFakeFunctions()
	s := newGLState(f)
	f.resetCounts()

	s.BindTexture2D(0, 5)
	s.ForgetTexture(5)
	s.BindTexture2D(0, 5)
	tassert.Equal(t, 2, f.counts["BindTexture"])

	s.BindVertexArray(3)
	s.ForgetVertexArray(3)
	s.BindVertexArray(3)
	tassert.Equal(t, 2, f.counts["BindVertexArray"])

	s.UseProgram(8)
	s.ForgetProgram(8)
	s.UseProgram(8)
	tassert.Equal(t, 2, f.counts["UseProgram"])
}

func TestSyncGLStateInvalidatesShadow(t *testing.T) {
	f := newFakeFunctions()
	s := newGLState(f)
	s.BindTexture2D(0, 5)
	s.UseProgram(8)

	s.SyncGLState()
	f.resetCounts()

	s.BindTexture2D(0, 5)
	s.UseProgram(8)
	tassert.Equal(t, 1, f.counts["BindTexture"])
	tassert.Equal(t, 1, f.counts["UseProgram"])
}

func TestScissorStateElision(t *testing.T) {
	f := newFakeFunctions()
	s := newGLState(f)
	f.resetCounts()

	s.SetScissor(true, 0, 0, 100, 100)
	s.SetScissor(true, 0, 0, 100, 100)
	tassert.Equal(t, 1, f.counts["Enable"])
	tassert.Equal(t, 1, f.counts["Scissor"])

	s.SetScissor(true, 10, 10, 50, 50)
	tassert.Equal(t, 1, f.counts["Enable"], "already enabled")
	tassert.Equal(t, 2, f.counts["Scissor"])

	s.SetScissor(false, 0, 0, 0, 0)
	s.SetScissor(false, 0, 0, 0, 0)
	tassert.Equal(t, 1, f.counts["Disable"])
	tassert.Equal(t, 2, f.counts["Scissor"], "box untouched while disabled")
}

func TestFlipCullFaceToggles(t *testing.T) {
	f := newFakeFunctions()
	s := newGLState(f)
	f.resetCounts()

	tassert.False(t, s.CullFlipped())
	s.FlipCullFace()
	tassert.True(t, s.CullFlipped())
	s.FlipCullFace()
	tassert.False(t, s.CullFlipped())
	tassert.Equal(t, 2, f.counts["FrontFace"])
}

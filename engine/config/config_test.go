package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, GraphicsQualityAuto, cfg.Graphics.GraphicsQuality)
	assert.Equal(t, TextureQualityAuto, cfg.Graphics.TextureQuality)
	assert.Equal(t, DepthProbeAuto, cfg.Graphics.DepthProbe)
	assert.True(t, cfg.Graphics.VSync)
	assert.Equal(t, 4, cfg.Graphics.MSAATargetSamples)
}

func TestManagerLoadsTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ballistica.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
app_name = "Test"
width = 640
height = 480

[graphics]
graphics_quality = 2
msaa_target_samples = 8
vsync = false
depth_probe = "off"
depth_probe_deny_list = ["GDI Generic"]
`), 0o644))

	m, err := NewManager(path)
	require.NoError(t, err)
	require.NoError(t, m.Initialize())
	defer m.Shutdown()

	cfg := m.Get()
	assert.Equal(t, "Test", cfg.AppName)
	assert.Equal(t, uint32(640), cfg.Width)
	assert.Equal(t, GraphicsQualityMedium, cfg.Graphics.GraphicsQuality)
	assert.Equal(t, 8, cfg.Graphics.MSAATargetSamples)
	assert.False(t, cfg.Graphics.VSync)
	assert.Equal(t, DepthProbeOff, cfg.Graphics.DepthProbe)
	assert.Equal(t, []string{"GDI Generic"}, cfg.Graphics.DepthProbeDenyList)
}

func TestManagerMissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(filepath.Join(dir, "missing.toml"))
	require.NoError(t, err)
	require.NoError(t, m.Initialize())
	defer m.Shutdown()
	assert.Equal(t, *Default(), m.Get())
}

func TestGraphicsChanged(t *testing.T) {
	a := Default().Graphics
	b := a
	assert.False(t, graphicsChanged(a, b))

	b.VSync = !a.VSync
	assert.True(t, graphicsChanged(a, b))

	b = a
	b.DepthProbeDenyList = []string{"x"}
	assert.True(t, graphicsChanged(a, b))

	a.DepthProbeDenyList = []string{"x"}
	assert.False(t, graphicsChanged(a, b))
}

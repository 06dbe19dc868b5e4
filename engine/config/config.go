package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/pelletier/go-toml/v2"
	"github.com/spaghettifunk/ballistica/engine/core"
)

// GraphicsQuality is the tier of visual effects the renderer runs at.
// Higher tiers switch on reflections, light/shadow projection and the
// depth-of-field post process; the renderer also reports a recommended
// tier from its capability probe when Auto is requested.
type GraphicsQuality int

const (
	GraphicsQualityAuto GraphicsQuality = iota
	GraphicsQualityLow
	GraphicsQualityMedium
	GraphicsQualityHigh
	GraphicsQualityHigher
)

func (q GraphicsQuality) String() string {
	switch q {
	case GraphicsQualityLow:
		return "low"
	case GraphicsQualityMedium:
		return "medium"
	case GraphicsQualityHigh:
		return "high"
	case GraphicsQualityHigher:
		return "higher"
	default:
		return "auto"
	}
}

// TextureQuality selects the compression/size tier for uploaded textures.
type TextureQuality int

const (
	TextureQualityAuto TextureQuality = iota
	TextureQualityLow
	TextureQualityMedium
	TextureQualityHigh
)

func (q TextureQuality) String() string {
	switch q {
	case TextureQualityLow:
		return "low"
	case TextureQualityMedium:
		return "medium"
	case TextureQualityHigh:
		return "high"
	default:
		return "auto"
	}
}

// BorderMode is the inset applied when mapping virtual coordinates to
// physical pixels. VR and TV-safe-area borders are mutually exclusive.
type BorderMode int

const (
	BorderModeNone BorderMode = iota
	BorderModeVR
	BorderModeTVSafeArea
)

// DepthProbeMode controls the depth-texture capability test run at
// renderer load. Auto runs the test unless the driver matches the deny
// list; Force skips the test and enables depth effects; Off disables
// them outright.
type DepthProbeMode string

const (
	DepthProbeAuto  DepthProbeMode = "auto"
	DepthProbeForce DepthProbeMode = "force"
	DepthProbeOff   DepthProbeMode = "off"
)

type GraphicsConfig struct {
	GraphicsQuality   GraphicsQuality `toml:"graphics_quality"`
	TextureQuality    TextureQuality  `toml:"texture_quality"`
	MSAATargetSamples int             `toml:"msaa_target_samples"`
	VSync             bool            `toml:"vsync"`
	BorderMode        BorderMode      `toml:"border_mode"`
	DepthProbe        DepthProbeMode  `toml:"depth_probe"`
	// Substrings matched against the GL_RENDERER string; a match skips
	// the depth probe and assumes no quirk.
	DepthProbeDenyList []string `toml:"depth_probe_deny_list"`
}

type Config struct {
	AppName  string         `toml:"app_name"`
	Width    uint32         `toml:"width"`
	Height   uint32         `toml:"height"`
	Graphics GraphicsConfig `toml:"graphics"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		AppName: "Ballistica",
		Width:   1280,
		Height:  720,
		Graphics: GraphicsConfig{
			GraphicsQuality:   GraphicsQualityAuto,
			TextureQuality:    TextureQualityAuto,
			MSAATargetSamples: 4,
			VSync:             true,
			BorderMode:        BorderModeNone,
			DepthProbe:        DepthProbeAuto,
		},
	}
}

// Manager owns the on-disk configuration and watches it for edits,
// firing EVENT_CODE_GRAPHICS_CONFIG_CHANGED when the graphics section
// is rewritten so the renderer can run its unload/reload protocol.
type Manager struct {
	path    string
	mutex   sync.RWMutex
	current *Config

	watcher *fsnotify.Watcher
	done    chan struct{}
}

func NewManager(path string) (*Manager, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Manager{
		path:    path,
		current: Default(),
		watcher: w,
		done:    make(chan struct{}),
	}, nil
}

func (m *Manager) Initialize() error {
	if err := m.loadFromDisk(); err != nil {
		if os.IsNotExist(err) {
			core.LogInfo("no config file at %s, using defaults", m.path)
		} else {
			return err
		}
	}
	// Watch the directory rather than the file so editors that replace
	// the file (rename-over) keep the watch alive.
	if err := m.watcher.Add(filepath.Dir(m.path)); err != nil {
		return err
	}
	go m.watch()
	return nil
}

func (m *Manager) Shutdown() error {
	close(m.done)
	return m.watcher.Close()
}

// Get returns a snapshot of the current configuration.
func (m *Manager) Get() Config {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return *m.current
}

func (m *Manager) loadFromDisk() error {
	raw, err := os.ReadFile(m.path)
	if err != nil {
		return err
	}
	cfg := Default()
	if err := toml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", m.path, err)
	}
	m.mutex.Lock()
	m.current = cfg
	m.mutex.Unlock()
	return nil
}

func (m *Manager) watch() {
	for {
		select {
		case e, ok := <-m.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(e.Name) != filepath.Clean(m.path) {
				continue
			}
			if e.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			old := m.Get()
			if err := m.loadFromDisk(); err != nil {
				core.LogWarn("config reload failed: %s", err.Error())
				continue
			}
			fresh := m.Get()
			if graphicsChanged(old.Graphics, fresh.Graphics) {
				core.LogInfo("graphics config changed, notifying renderer")
				// Deferred: the renderer's reload must run on the main
				// thread, not the watcher goroutine.
				core.EventFireDeferred(core.EventContext{
					Type: core.EVENT_CODE_GRAPHICS_CONFIG_CHANGED,
					Data: fresh.Graphics,
				})
			}
		case err, ok := <-m.watcher.Errors:
			if !ok {
				return
			}
			core.LogError(err.Error())
		case <-m.done:
			return
		}
	}
}

func graphicsChanged(a, b GraphicsConfig) bool {
	if a.GraphicsQuality != b.GraphicsQuality ||
		a.TextureQuality != b.TextureQuality ||
		a.MSAATargetSamples != b.MSAATargetSamples ||
		a.VSync != b.VSync ||
		a.BorderMode != b.BorderMode ||
		a.DepthProbe != b.DepthProbe {
		return true
	}
	if len(a.DepthProbeDenyList) != len(b.DepthProbeDenyList) {
		return true
	}
	for i := range a.DepthProbeDenyList {
		if a.DepthProbeDenyList[i] != b.DepthProbeDenyList[i] {
			return true
		}
	}
	return false
}

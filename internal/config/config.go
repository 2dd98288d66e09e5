// Package config handles renderer configuration loading and management.
package config

// Config holds all back-end settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Renderer RendererConfig `yaml:"renderer"`
	Logging  LoggingConfig  `yaml:"logging"`
	Viewer   ViewerConfig   `yaml:"viewer"`
}

// GraphicsConfig holds display settings for the viewer window.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	Headless   bool `yaml:"headless"` // record device calls instead of opening a window
}

// RendererConfig holds the back-end switches read while finishing surfaces.
type RendererConfig struct {
	ShowTris     bool    `yaml:"show_tris"`    // wireframe overlay
	ShowNormals  bool    `yaml:"show_normals"` // normal vector overlay
	Lightmap     bool    `yaml:"lightmap"`     // stop after the first lightmap stage
	DebugSort    float32 `yaml:"debug_sort"`   // skip surfaces sorted after this value, 0 disables
	Greyscale    float32 `yaml:"greyscale"`    // >= 1 full greyscale, fraction blends toward luma
	DlightBacks  bool    `yaml:"dlight_backs"` // light back-facing vertexes too
	OffsetFactor float32 `yaml:"offset_factor"`
	OffsetUnits  float32 `yaml:"offset_units"`

	OverbrightBits  int  `yaml:"overbright_bits"`
	ParallelPack    bool `yaml:"parallel_pack"`
	StagingVertexes int  `yaml:"staging_vertexes"` // per-frame staging capacity in vertexes

	LogFrames bool `yaml:"log_frames"` // per-surface trace comments
	Speeds    bool `yaml:"speeds"`     // per-frame performance counters
}

// ViewerConfig holds settings of the demo viewer.
type ViewerConfig struct {
	TextureDir    string `yaml:"texture_dir"`    // images here replace the generated demo textures
	ScreenshotDir string `yaml:"screenshot_dir"` // F12 captures
	Frames        int    `yaml:"frames"`         // headless frames to record
	RecordFile    string `yaml:"record_file"`    // headless recording as YAML, empty skips
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// IdentityLight returns the color scale that compensates for overbright bits.
func (r RendererConfig) IdentityLight() float32 {
	bits := r.OverbrightBits
	if bits < 0 {
		bits = 0
	}
	return 1 / float32(int(1)<<bits)
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		Renderer: RendererConfig{
			OffsetFactor:    -1,
			OffsetUnits:     -2,
			ParallelPack:    true,
			StagingVertexes: 1 << 20,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
		Viewer: ViewerConfig{
			ScreenshotDir: "screenshots",
			Frames:        1,
		},
	}
}

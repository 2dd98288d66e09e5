package config

import "flag"

var (
	flagConfig      = flag.String("config", "", "Path to config file")
	flagDebug       = flag.Bool("debug", false, "Enable debug logging")
	flagHeadless    = flag.Bool("headless", false, "Record device calls instead of opening a window")
	flagShowTris    = flag.Bool("showtris", false, "Draw triangle outlines")
	flagShowNormals = flag.Bool("shownormals", false, "Draw vertex normals")
	flagLightmap    = flag.Bool("lightmap", false, "Stop after the first lightmap stage")
	flagGreyscale   = flag.Float64("greyscale", -1, "Greyscale amount (0-1), negative keeps the config value")
	flagSerial      = flag.Bool("serial", false, "Pack staging buffers on the calling goroutine")
	flagWidth       = flag.Int("width", 0, "Window width")
	flagHeight      = flag.Int("height", 0, "Window height")
	flagFrames      = flag.Int("frames", 0, "Frames to record in headless mode")
	flagRecord      = flag.String("record", "", "Write the headless recording to this YAML file")
	flagTextures    = flag.String("textures", "", "Directory with replacement demo textures")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
		cfg.Renderer.Speeds = true
	}
	if *flagHeadless {
		cfg.Graphics.Headless = true
	}
	if *flagShowTris {
		cfg.Renderer.ShowTris = true
	}
	if *flagShowNormals {
		cfg.Renderer.ShowNormals = true
	}
	if *flagLightmap {
		cfg.Renderer.Lightmap = true
	}
	if *flagGreyscale >= 0 {
		cfg.Renderer.Greyscale = float32(*flagGreyscale)
	}
	if *flagSerial {
		cfg.Renderer.ParallelPack = false
	}
	if *flagWidth > 0 {
		cfg.Graphics.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Graphics.Height = *flagHeight
	}
	if *flagFrames > 0 {
		cfg.Viewer.Frames = *flagFrames
	}
	if *flagRecord != "" {
		cfg.Viewer.RecordFile = *flagRecord
	}
	if *flagTextures != "" {
		cfg.Viewer.TextureDir = *flagTextures
	}
}

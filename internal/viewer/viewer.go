// Package viewer runs the surface back end on a demo scene, in a window or
// headless against a recording device.
package viewer

import (
	"errors"
	"fmt"
	"time"

	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/Faultbox/rbshade/internal/config"
	"github.com/Faultbox/rbshade/internal/engine/camera"
	"github.com/Faultbox/rbshade/internal/engine/debug"
	"github.com/Faultbox/rbshade/internal/engine/input"
	"github.com/Faultbox/rbshade/internal/engine/lighting"
	"github.com/Faultbox/rbshade/internal/engine/renderer"
	"github.com/Faultbox/rbshade/internal/engine/shade"
	"github.com/Faultbox/rbshade/internal/engine/shader"
	"github.com/Faultbox/rbshade/internal/engine/staging"
	"github.com/Faultbox/rbshade/internal/engine/texture"
	"github.com/Faultbox/rbshade/internal/engine/window"
	"github.com/Faultbox/rbshade/internal/logger"
)

// Title is the window title.
const Title = "rbshade"

var skyColor = [4]float32{0.35, 0.5, 0.75, 1}

// Viewer is the interactive demo viewer.
type Viewer struct {
	cfg     *config.Config
	log     *zap.Logger
	running bool

	window   *window.Window
	device   *renderer.GLDevice
	input    *input.Input
	camera   *camera.OrbitCamera
	pipeline *shade.Pipeline
	demo     *Demo
	capture  *debug.Capture

	pendingDir chan string
}

// New creates the window, the GL device and the pipeline.
func New(cfg *config.Config) (*Viewer, error) {
	v := &Viewer{
		cfg:        cfg,
		log:        logger.Named("viewer"),
		pendingDir: make(chan string, 1),
	}
	v.log.Info("initializing viewer",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
	)

	// Create window (this also creates OpenGL context)
	var err error
	v.window, err = window.New(window.Config{
		Title:      Title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// The device needs the GL context
	width, height := v.window.Size()
	v.device, err = renderer.New(renderer.Config{Width: width, Height: height})
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	v.input = input.New()
	v.demo = NewDemo(cfg.Viewer.TextureDir)
	v.camera = newCamera(v.demo)
	v.capture = debug.NewCapture(cfg.Viewer.ScreenshotDir, Title)
	v.pipeline = shade.NewPipeline(shade.Options{
		Device: v.device,
		Config: cfg.Renderer,
		Sky:    &skyFinisher{color: skyColor},
	})

	v.log.Info("viewer initialized")
	return v, nil
}

func newCamera(d *Demo) *camera.OrbitCamera {
	cam := camera.NewOrbitCamera()
	cam.FitToBounds(d.Bounds())
	return cam
}

// Run runs the frame loop until the window is closed.
func (v *Viewer) Run() error {
	v.running = true

	start := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	v.log.Info("starting frame loop")

	for v.running {
		if v.input.Update() {
			v.running = false
			break
		}
		for _, event := range v.input.Events() {
			v.handle(event)
		}
		select {
		case dir := <-v.pendingDir:
			v.reloadTextures(dir)
		default:
		}
		v.camera.HandleDrag(v.input.Drag())
		v.camera.HandleZoom(v.input.Wheel())

		width, height := v.window.Size()
		aspect := float32(width) / float32(max(height, 1))
		v.device.Begin(v.camera.Projection(aspect), v.camera.ViewMatrix())

		if err := drawFrame(v.pipeline, v.demo, v.camera, time.Since(start).Seconds()); err != nil {
			return fmt.Errorf("render error: %w", err)
		}

		v.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			st := v.pipeline.Stats()
			v.log.Debug("fps",
				zap.Int("count", frameCount),
				zap.Int("shaders", st.Shaders),
				zap.Int("draws", st.Draws),
			)
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

// handle applies one input event.
func (v *Viewer) handle(e input.Event) {
	r := v.pipeline.Settings()
	switch e.Action {
	case input.ActionQuit:
		v.running = false
	case input.ActionResize:
		v.device.Resize(e.Width, e.Height)
	case input.ActionToggleTris:
		r.ShowTris = !r.ShowTris
	case input.ActionToggleNormals:
		r.ShowNormals = !r.ShowNormals
	case input.ActionToggleLightmap:
		r.Lightmap = !r.Lightmap
	case input.ActionCycleGreyscale:
		r.Greyscale = nextGreyscale(r.Greyscale)
	case input.ActionToggleFog:
		v.demo.Fog = !v.demo.Fog
	case input.ActionScreenshot:
		path, err := v.capture.FromPixels(v.device.ReadPixels())
		if err != nil {
			v.log.Error("screenshot failed", zap.Error(err))
			return
		}
		v.log.Info("screenshot saved", zap.String("path", path))
	case input.ActionOpenTextures:
		v.openTextures()
	}
}

// openTextures shows a directory dialog. GL resources belong to the main
// thread, so the choice is queued and applied by the frame loop.
func (v *Viewer) openTextures() {
	go func() {
		dir, err := dialog.Directory().Title("Select demo texture directory").Browse()
		if err != nil {
			if !errors.Is(err, dialog.ErrCancelled) {
				v.log.Error("texture directory dialog failed", zap.Error(err))
			}
			return
		}
		select {
		case v.pendingDir <- dir:
		default:
		}
	}()
}

// reloadTextures rebuilds the demo with images from dir.
func (v *Viewer) reloadTextures(dir string) {
	fog := v.demo.Fog
	v.demo = NewDemo(dir)
	v.demo.Fog = fog
	v.cfg.Viewer.TextureDir = dir
	v.log.Info("demo textures reloaded", zap.String("dir", dir))
}

// nextGreyscale steps through none, half and full greyscale.
func nextGreyscale(g float32) float32 {
	switch {
	case g < 0.5:
		return 0.5
	case g < 1:
		return 1
	default:
		return 0
	}
}

// Close releases the pipeline, the device and the window.
func (v *Viewer) Close() {
	v.log.Info("closing viewer")

	if v.pipeline != nil {
		v.pipeline.Close()
	}
	if v.device != nil {
		v.device.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}

// drawFrame draws the demo at time t. Light bounds are outlined along with the
// triangles.
func drawFrame(p *shade.Pipeline, d *Demo, cam *camera.OrbitCamera, t float64) error {
	p.BeginFrame(d.Frame(t, cam.Orientation()))
	if err := d.Draw(p, t); err != nil {
		return err
	}
	if p.Settings().ShowTris {
		drawDlightBounds(p.Device(), p.Builtins().White, d.Dlights())
	}
	return nil
}

func drawDlightBounds(dev shade.Device, white *texture.Image, lights *lighting.DlightList) {
	dev.BindTexture(white)
	dev.SetState(shader.PolyModeLine | shader.DepthMaskTrue)
	dev.EnableClientArrays(staging.StreamPosition)
	for _, dl := range lights.Lights {
		dev.SetColor([4]float32{dl.Color[0], dl.Color[1], dl.Color[2], 1})
		dev.VertexPointer(debug.BoundsLines(debug.SphereBounds(dl.Origin, dl.Radius, 0)))
		dev.DrawLines(debug.BoundsLineVertexCount)
	}
}

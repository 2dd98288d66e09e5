package viewer

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/rbshade/internal/config"
	"github.com/Faultbox/rbshade/internal/engine/record"
	"github.com/Faultbox/rbshade/internal/engine/shade"
	"github.com/Faultbox/rbshade/internal/logger"
)

// frameTime is the simulated time step of headless runs.
const frameTime = 1.0 / 60

// RunHeadless draws cfg.Viewer.Frames demo frames into a recorder and returns
// it holding the last frame. The recording is written to
// cfg.Viewer.RecordFile when set.
func RunHeadless(cfg *config.Config) (*record.Recorder, error) {
	log := logger.Named("headless")

	rec := record.New()
	rec.KeepArrays = cfg.Viewer.RecordFile != ""

	demo := NewDemo(cfg.Viewer.TextureDir)
	cam := newCamera(demo)
	p := shade.NewPipeline(shade.Options{
		Device: rec,
		Config: cfg.Renderer,
		Sky:    &skyFinisher{color: skyColor},
	})
	defer p.Close()

	for i := range cfg.Viewer.Frames {
		rec.Reset()
		t := float64(i) * frameTime
		if err := drawFrame(p, demo, cam, t); err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		if logger.FrameTrace() {
			rec.Summary(log)
		}
	}
	rec.Summary(log)
	st := p.Stats()
	log.Info("headless run finished",
		zap.Int("frames", cfg.Viewer.Frames),
		zap.Int("shaders", st.Shaders),
		zap.Int("draws", st.Draws),
	)

	if cfg.Viewer.RecordFile != "" {
		if err := writeRecording(rec, cfg.Viewer.RecordFile); err != nil {
			return nil, err
		}
		log.Info("recording written", zap.String("path", cfg.Viewer.RecordFile))
	}
	return rec, nil
}

func writeRecording(rec *record.Recorder, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating recording: %w", err)
	}
	if err := rec.WriteYAML(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

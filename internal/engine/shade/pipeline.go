package shade

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/rbshade/internal/config"
	"github.com/Faultbox/rbshade/internal/engine/scene"
	"github.com/Faultbox/rbshade/internal/engine/shader"
	"github.com/Faultbox/rbshade/internal/engine/staging"
	"github.com/Faultbox/rbshade/internal/engine/texture"
	"github.com/Faultbox/rbshade/internal/logger"
)

// Options configure a Pipeline.
type Options struct {
	Device   Device
	Config   config.RendererConfig
	Builtins *texture.Builtins // created when nil

	Sky    SkyFinisher
	Shadow ShadowFinisher
	// ShadowShader is the shader whose surfaces go to Shadow.
	ShadowShader *shader.Shader
}

// Pipeline is the back-end render context. All methods must be called from one
// goroutine; only the packing workers run elsewhere.
type Pipeline struct {
	dev      Device
	cfg      config.RendererConfig
	builtins *texture.Builtins
	log      *zap.Logger

	sky          SkyFinisher
	shadow       ShadowFinisher
	shadowShader *shader.Shader

	buffers    *staging.Buffers
	dispatcher *staging.Dispatcher

	tess *Surface

	frame  scene.Frame
	entity *scene.Entity
	or     scene.Orientation

	identityLight     float32
	identityLightByte byte

	fogEnabled bool
	fogSet     bool

	stats Stats

	// per-vertex scratch for the dlight pass and fog modulation
	scratchCoords [][2]float32
	dlightColors  [][4]byte
	dlightClip    []byte
	dlightIndexes []uint32
}

// NewPipeline creates a pipeline and starts its packing workers.
func NewPipeline(opts Options) *Pipeline {
	builtins := opts.Builtins
	if builtins == nil {
		builtins = texture.NewBuiltins()
	}
	capacity := opts.Config.StagingVertexes
	if capacity < config.MinStagingVertexes {
		capacity = config.MinStagingVertexes
	}

	identity := opts.Config.IdentityLight()
	p := &Pipeline{
		dev:               opts.Device,
		cfg:               opts.Config,
		builtins:          builtins,
		log:               logger.Named("shade"),
		sky:               opts.Sky,
		shadow:            opts.Shadow,
		shadowShader:      opts.ShadowShader,
		buffers:           staging.NewBuffers(capacity),
		dispatcher:        staging.NewDispatcher(opts.Config.ParallelPack),
		tess:              newSurface(),
		entity:            scene.WorldEntity(),
		or:                scene.IdentityOrientation(mgl32.Vec3{}),
		identityLight:     identity,
		identityLightByte: byte(255 * identity),
		scratchCoords:     make([][2]float32, MaxVertexes),
		dlightColors:      make([][4]byte, MaxVertexes),
		dlightClip:        make([]byte, MaxVertexes),
		dlightIndexes:     make([]uint32, MaxIndexes),
	}

	p.log.Info("surface pipeline ready",
		zap.Int("stagingVertexes", capacity),
		zap.Bool("parallelPack", p.dispatcher.Parallel()),
		zap.Float32("identityLight", identity),
	)
	return p
}

// Close stops the packing workers.
func (p *Pipeline) Close() {
	p.dispatcher.Close()
}

// Surface returns the accumulator. Geometry is appended to it between
// BeginSurface and EndSurface.
func (p *Pipeline) Surface() *Surface { return p.tess }

// Frame returns the current frame.
func (p *Pipeline) Frame() *scene.Frame { return &p.frame }

// Entity returns the entity whose surfaces are being drawn.
func (p *Pipeline) Entity() *scene.Entity { return p.entity }

// Device returns the device the pipeline draws with.
func (p *Pipeline) Device() Device { return p.dev }

// Settings returns the renderer switches. The debug switches may be changed
// between surfaces; overbright and staging settings are fixed at creation.
func (p *Pipeline) Settings() *config.RendererConfig { return &p.cfg }

// Builtins returns the procedural images the pipeline binds.
func (p *Pipeline) Builtins() *texture.Builtins { return p.builtins }

// Stats returns the counters of the current frame.
func (p *Pipeline) Stats() Stats { return p.stats }

// BeginFrame installs the frame's view and rewinds the staging buffers. The
// current entity reverts to the world.
func (p *Pipeline) BeginFrame(f scene.Frame) {
	if p.cfg.Speeds && p.stats.Shaders > 0 {
		p.stats.Log(p.log)
	}
	p.frame = f
	p.buffers.Reset()
	p.stats = Stats{}
	p.fogSet = false
	p.SetEntity(scene.WorldEntity(), scene.IdentityOrientation(f.View.Or.Origin))
}

// SetEntity installs the entity whose surfaces follow and its orientation, and
// moves the dynamic lights into its space.
func (p *Pipeline) SetEntity(e *scene.Entity, or scene.Orientation) {
	if e == nil {
		e = scene.WorldEntity()
	}
	p.entity = e
	p.or = or
	if dl := p.frame.Refdef.Dlights; dl != nil {
		dl.TransformTo(or.Origin, or.Axis)
	}
}

// BeginSurface starts accumulating a surface drawn with sh in fog volume fogNum.
func (p *Pipeline) BeginSurface(sh *shader.Shader, fogNum int) {
	sh = sh.Resolve()

	t := p.tess
	t.reset()
	t.Shader = sh
	t.FogNum = fogNum
	t.DlightBits = 0
	t.Stages = sh.Stages
	t.NumPasses = sh.NumUnfoggedPasses
	t.Iterator = sh.Iterator

	t.ShaderTime = p.frame.Refdef.FloatTime - sh.TimeOffset
	if sh.ClampTime != 0 && t.ShaderTime >= sh.ClampTime {
		t.ShaderTime = sh.ClampTime
	}
}

// CheckOverflow ends and restarts the surface when verts more vertexes or
// indexes more indexes would not fit.
func (p *Pipeline) CheckOverflow(verts, indexes int) error {
	t := p.tess
	if t.Shader == nil {
		return ErrNoSurface
	}
	if t.NumVertexes+verts < MaxVertexes && t.NumIndexes+indexes < MaxIndexes {
		return nil
	}

	sh, fogNum := t.Shader, t.FogNum
	if err := p.EndSurface(); err != nil {
		return err
	}
	if verts >= MaxVertexes {
		return fmt.Errorf("overflow check: %d > %d: %w", verts, MaxVertexes, ErrMaxVertexes)
	}
	if indexes >= MaxIndexes {
		return fmt.Errorf("overflow check: %d > %d: %w", indexes, MaxIndexes, ErrMaxIndexes)
	}
	p.BeginSurface(sh, fogNum)
	return nil
}

// EndSurface draws the accumulated surface. The counts are cleared on every
// path that had geometry, including errors.
func (p *Pipeline) EndSurface() error {
	t := p.tess
	if t.NumIndexes == 0 {
		return nil
	}
	defer t.reset()

	if t.NumIndexes >= MaxIndexes || t.Indexes[MaxIndexes-1] != 0 {
		p.log.Error("end surface", zap.String("shader", t.Shader.Name), zap.Error(ErrMaxIndexes))
		return fmt.Errorf("end surface: %w", ErrMaxIndexes)
	}
	if t.NumVertexes >= MaxVertexes || t.XYZ[MaxVertexes-1][0] != 0 {
		p.log.Error("end surface", zap.String("shader", t.Shader.Name), zap.Error(ErrMaxVertexes))
		return fmt.Errorf("end surface: %w", ErrMaxVertexes)
	}

	if p.shadowShader != nil && t.Shader == p.shadowShader {
		if p.shadow == nil {
			return nil
		}
		return p.shadow.FinishShadow(p, t)
	}

	// sort order debugging
	if p.cfg.DebugSort != 0 && p.cfg.DebugSort < t.Shader.Sort {
		return nil
	}

	if p.frame.SkyboxPortal {
		isSky := t.Iterator == shader.IteratorSky
		if p.frame.Refdef.Flags&scene.RDFSkyboxPortal == 0 {
			if isSky {
				return nil
			}
		} else if !p.frame.DrawSkyboxPortal && !isSky {
			return nil
		}
	}

	p.stats.Shaders++
	p.stats.Vertexes += t.NumVertexes
	p.stats.Indexes += t.NumIndexes
	p.stats.TotalIndexes += t.NumIndexes * t.NumPasses

	if err := p.iterate(); err != nil {
		p.log.Error("end surface", zap.String("shader", t.Shader.Name), zap.Error(err))
		return err
	}

	if p.cfg.ShowTris {
		if err := p.drawTris(); err != nil {
			return err
		}
	}
	if p.cfg.ShowNormals {
		if err := p.drawNormals(); err != nil {
			return err
		}
	}

	logger.Comment("----------")
	return nil
}

func (p *Pipeline) iterate() error {
	switch p.tess.Iterator {
	case shader.IteratorVertexLitTexture:
		return p.iterateVertexLit()
	case shader.IteratorLightmappedMultitexture:
		return p.iterateLightmappedMultitexture()
	case shader.IteratorSky:
		if p.sky == nil {
			return nil
		}
		return p.sky.FinishSky(p, p.tess)
	default:
		return p.iterateGeneric()
	}
}

package shade

import (
	"go.uber.org/zap"

	"github.com/Faultbox/rbshade/internal/engine/scene"
	"github.com/Faultbox/rbshade/internal/engine/shader"
	"github.com/Faultbox/rbshade/internal/engine/staging"
	"github.com/Faultbox/rbshade/internal/logger"
)

const (
	streamsGeneric = staging.StreamPosition | staging.StreamTexCoord0 | staging.StreamColor
	streamsMulti   = streamsGeneric | staging.StreamTexCoord1
)

// pack copies the selected per-vertex streams of the surface into staging memory.
func (p *Pipeline) pack(streams staging.Streams, src staging.Source) (staging.Target, error) {
	return staging.Pack(p.buffers, p.dispatcher, streams, src, p.tess.NumVertexes)
}

// register hands the packed arrays to the device.
func (p *Pipeline) register(tgt staging.Target) {
	if tgt.Positions != nil {
		p.dev.VertexPointer(tgt.Positions)
	}
	for unit, st := range tgt.TexCoords {
		if st != nil {
			p.dev.TexCoordPointer(unit, st)
		}
	}
	if tgt.Colors != nil {
		p.dev.ColorPointer(tgt.Colors)
	}
}

func (p *Pipeline) drawElements(indexes []uint32) {
	p.dev.DrawElements(indexes)
	p.stats.Draws++
}

// bindAnimatedImage binds the bundle's current animation frame. Lightmaps are
// replaced by white in snooper views.
func (p *Pipeline) bindAnimatedImage(sh *shader.Shader, b *shader.TextureBundle) error {
	if len(b.Images) == 0 {
		return shaderErr(sh, ErrNoImage)
	}
	if b.IsLightmap && p.frame.Refdef.Flags&scene.RDFSnooperView != 0 {
		p.dev.BindTexture(p.builtins.White)
		return nil
	}

	frames := int64(min(len(b.Images), shader.MaxImageAnims))
	if frames == 1 || b.IsVideoMap {
		p.dev.BindTexture(b.Images[0])
		return nil
	}

	// scaled through the function table size so animations line up with
	// waveforms of the same frequency
	index := int64(p.tess.ShaderTime*float64(b.ImageAnimationSpeed)*1024) >> 10
	if index < 0 {
		index = 0
	}
	p.dev.BindTexture(b.Images[index%frames])
	return nil
}

// setIteratorFog picks the distance fog for the surface's view.
func (p *Pipeline) setIteratorFog() {
	flags := p.frame.Refdef.Flags
	fogs := &p.frame.GLFogs

	switch {
	case flags&scene.RDFNoWorldModel != 0:
		p.fogSet = false
		p.fogOff()
	case flags&scene.RDFDrawingSky != 0:
		p.applyFog(&fogs.Sky)
	case p.frame.SkyboxPortal && flags&scene.RDFSkyboxPortal != 0:
		p.applyFog(&fogs.Portal)
	default:
		p.applyFog(&fogs.Current)
	}
}

func (p *Pipeline) applyFog(f *scene.GLFog) {
	if !f.Registered {
		p.fogSet = false
		p.fogOff()
		return
	}
	p.fogSet = true
	p.dev.SetFog(*f)
	p.fogOn()
}

func (p *Pipeline) fogOn() {
	if p.fogEnabled || p.frame.Projection2D || !p.fogSet {
		return
	}
	p.dev.EnableFog(true)
	p.fogEnabled = true
}

func (p *Pipeline) fogOff() {
	if !p.fogEnabled {
		return
	}
	p.dev.EnableFog(false)
	p.fogEnabled = false
}

// stageFog lets detail stages of nofog shaders opt back into fog.
func (p *Pipeline) stageFog(st *shader.Stage) {
	noFog := p.tess.Shader.NoFog
	switch {
	case noFog && st.IsFogged:
		p.fogOn()
	case noFog:
		p.fogOff()
	case p.frame.Projection2D:
		p.fogOff()
	default:
		p.fogOn()
	}
}

// postPasses runs the dynamic light and fog passes shared by all iterators.
func (p *Pipeline) postPasses(dlightAllowed bool) error {
	t := p.tess
	if t.DlightBits != 0 && t.Shader.Sort <= shader.SortOpaque && dlightAllowed {
		if err := p.projectDlights(); err != nil {
			return err
		}
	}
	if t.FogNum != 0 && t.Shader.FogPass != shader.FogPassNone {
		return p.fogPass()
	}
	return nil
}

func (p *Pipeline) iterateGeneric() error {
	t := p.tess
	sh := t.Shader

	p.deform()

	if logger.FrameTrace() {
		logger.Comment("--- generic iterator", zap.String("shader", sh.Name))
	}

	p.setIteratorFog()
	p.dev.SetCull(sh.CullType)
	if sh.PolygonOffset {
		p.dev.SetPolygonOffset(true, p.cfg.OffsetFactor, p.cfg.OffsetUnits)
		defer p.dev.SetPolygonOffset(false, 0, 0)
	}

	positions, err := p.pack(staging.StreamPosition, staging.Source{Positions: t.XYZ})
	if err != nil {
		return err
	}
	p.register(positions)

	if err := p.iterateStages(); err != nil {
		return err
	}

	return p.postPasses(sh.SurfaceFlags&(shader.SurfNoDlight|shader.SurfSky) == 0)
}

func (p *Pipeline) iterateStages() error {
	t := p.tess
	sh := t.Shader
	now := p.frame.Refdef.Time

	for i := range t.stageCount() {
		st := t.Stages[i]

		p.computeColors(st)
		if err := p.computeTexCoords(st); err != nil {
			return err
		}

		if st.Bundle[1].Image() != nil {
			if err := p.drawMultitextured(st); err != nil {
				return err
			}
		} else {
			state := st.StateBits

			// fading entities
			if e := p.entity; e.FadeStartTime != 0 && e.FadeStartTime <= now {
				if e.FadeEndTime <= now {
					continue
				}
				alpha := float32(e.FadeEndTime-now) / float32(e.FadeEndTime-e.FadeStartTime)
				state = state.WithAlphaBlend()
				p.dev.SetCull(shader.CullFrontSided)
				for v := range t.Colors[:t.NumVertexes] {
					for c := range 4 {
						t.Colors[v][c] = byte(float32(t.Colors[v][c]) * alpha)
					}
				}
			}

			tgt, err := p.pack(staging.StreamTexCoord0|staging.StreamColor, staging.Source{
				TexCoords: t.StageCoords,
				Colors:    t.Colors,
			})
			if err != nil {
				return err
			}
			p.dev.EnableClientArrays(streamsGeneric)
			p.register(tgt)

			if err := p.bindAnimatedImage(sh, &st.Bundle[0]); err != nil {
				return err
			}
			p.stageFog(st)
			p.dev.SetState(state)
			p.drawElements(t.Indices())
		}

		// show just the lightmaps
		if p.cfg.Lightmap && (st.Bundle[0].IsLightmap || st.Bundle[1].IsLightmap) {
			break
		}
	}
	return nil
}

// drawMultitextured draws bundle 0 on unit 0, then bundle 1 on unit 1, with the
// same index list.
func (p *Pipeline) drawMultitextured(st *shader.Stage) error {
	t := p.tess
	sh := t.Shader

	p.stageFog(st)

	state := st.StateBits
	if p.frame.View.IsPortal {
		// multitexture and clip planes only get along with filled polygons
		state &^= shader.PolyModeLine
	}
	p.dev.SetState(state)

	tgt, err := p.pack(staging.StreamTexCoord0|staging.StreamTexCoord1|staging.StreamColor, staging.Source{
		TexCoords: t.StageCoords,
		Colors:    t.Colors,
	})
	if err != nil {
		return err
	}
	p.dev.EnableClientArrays(streamsMulti)
	p.register(tgt)

	p.dev.SelectTexture(0)
	if err := p.bindAnimatedImage(sh, &st.Bundle[0]); err != nil {
		return err
	}
	p.drawElements(t.Indices())

	if err := p.drawSecondUnit(sh, &st.Bundle[1]); err != nil {
		return err
	}
	return nil
}

// drawSecondUnit draws the surface again with bundle b enabled on unit 1, then
// returns to unit 0.
func (p *Pipeline) drawSecondUnit(sh *shader.Shader, b *shader.TextureBundle) error {
	p.dev.SelectTexture(1)
	defer p.dev.SelectTexture(0)

	p.dev.EnableTexture(true)
	defer p.dev.EnableTexture(false)

	env := sh.MultitextureEnv
	if p.cfg.Lightmap {
		env = shader.TexEnvReplace
	}
	p.dev.SetTexEnv(env)

	if err := p.bindAnimatedImage(sh, b); err != nil {
		return err
	}
	p.drawElements(p.tess.Indices())
	return nil
}

func (p *Pipeline) iterateVertexLit() error {
	t := p.tess
	sh := t.Shader
	if t.stageCount() == 0 {
		return shaderErr(sh, ErrNoStages)
	}
	st := t.Stages[0]

	p.calcDiffuseColors(t.Colors[:t.NumVertexes])

	if logger.FrameTrace() {
		logger.Comment("--- vertex lit iterator", zap.String("shader", sh.Name))
	}

	p.setIteratorFog()
	p.dev.SetCull(sh.CullType)

	tgt, err := p.pack(streamsGeneric, staging.Source{
		Positions: t.XYZ,
		TexCoords: t.TexCoords,
		Colors:    t.Colors,
	})
	if err != nil {
		return err
	}
	p.dev.EnableClientArrays(streamsGeneric)
	p.register(tgt)

	if err := p.bindAnimatedImage(sh, &st.Bundle[0]); err != nil {
		return err
	}
	p.dev.SetState(st.StateBits)
	p.drawElements(t.Indices())

	return p.postPasses(true)
}

func (p *Pipeline) iterateLightmappedMultitexture() error {
	t := p.tess
	sh := t.Shader
	if t.stageCount() == 0 {
		return shaderErr(sh, ErrNoStages)
	}
	st := t.Stages[0]

	if logger.FrameTrace() {
		logger.Comment("--- lightmapped multitexture iterator", zap.String("shader", sh.Name))
	}

	p.setIteratorFog()
	p.dev.SetCull(sh.CullType)
	p.dev.SetState(shader.StateDefault)

	white, err := p.buffers.White(t.NumVertexes)
	if err != nil {
		return err
	}
	tgt, err := p.pack(staging.StreamPosition|staging.StreamTexCoord0|staging.StreamTexCoord1, staging.Source{
		Positions: t.XYZ,
		TexCoords: t.TexCoords,
	})
	if err != nil {
		return err
	}
	tgt.Colors = white
	p.dev.EnableClientArrays(streamsMulti)
	p.register(tgt)

	p.dev.SelectTexture(0)
	if err := p.bindAnimatedImage(sh, &st.Bundle[0]); err != nil {
		return err
	}
	p.drawElements(t.Indices())

	if err := p.drawSecondUnit(sh, &st.Bundle[1]); err != nil {
		return err
	}

	return p.postPasses(true)
}

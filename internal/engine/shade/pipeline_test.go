package shade

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/rbshade/internal/engine/lighting"
	"github.com/Faultbox/rbshade/internal/engine/scene"
	"github.com/Faultbox/rbshade/internal/engine/shader"
	"github.com/Faultbox/rbshade/internal/engine/staging"
	"github.com/Faultbox/rbshade/internal/engine/texture"
)

func TestEndSurfaceEmpty(t *testing.T) {
	p, dev := newTestPipeline(t)
	sh := testShader(identityStage())
	p.BeginSurface(sh, 3)

	require.NoError(t, p.EndSurface())

	assert.Empty(t, dev.draws)
	assert.Same(t, sh, p.Surface().Shader)
	assert.Equal(t, 3, p.Surface().FogNum)
	assert.Zero(t, p.Stats().Shaders)
}

func TestSingleIdentityStage(t *testing.T) {
	p, dev := newTestPipeline(t)
	p.BeginSurface(testShader(identityStage()), 0)
	addQuad(t, p.Surface())

	require.NoError(t, p.EndSurface())

	require.Len(t, dev.draws, 1)
	d := dev.draws[0]
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, d.Indexes)
	assert.Equal(t, "base", d.Image)
	assert.Equal(t, shader.StateDefault, d.State)
	require.Len(t, d.Colors, 16)
	for _, c := range d.Colors {
		assert.Equal(t, byte(0xff), c)
	}
	assert.Equal(t, []float32{0, 0, 1, 0, 1, 1, 0, 1}, d.TexCoords[0])

	s := p.Stats()
	assert.Equal(t, 1, s.Shaders)
	assert.Equal(t, 4, s.Vertexes)
	assert.Equal(t, 6, s.Indexes)
	assert.Equal(t, 1, s.Draws)
}

func TestMultitextureStage(t *testing.T) {
	p, dev := newTestPipeline(t)
	st := identityStage()
	st.Bundle[1] = lightmapBundle()
	sh := testShader(st)
	sh.MultitextureEnv = shader.TexEnvAdd
	p.BeginSurface(sh, 0)
	addQuad(t, p.Surface())

	require.NoError(t, p.EndSurface())

	require.Len(t, dev.draws, 2)
	base, second := dev.draws[0], dev.draws[1]
	assert.Equal(t, 0, base.Unit)
	assert.Equal(t, "base", base.Image)
	assert.Equal(t, 1, second.Unit)
	assert.Equal(t, "lightmap", second.Image)
	assert.Equal(t, base.Indexes, second.Indexes)
	assert.Equal(t, quadLightmap, second.TexCoords[1])

	assert.Equal(t, shader.TexEnvAdd, dev.env)
	assert.Equal(t, 0, dev.unit, "unit 0 is selected again afterwards")
	assert.False(t, dev.enabled[1], "unit 1 is disabled afterwards")
}

func TestEntityFade(t *testing.T) {
	tests := []struct {
		name      string
		start     int
		end       int
		wantDraws int
		wantColor byte
		wantBlend bool
	}{
		{"not fading", 0, 0, 1, 0xff, false},
		{"fade not started", 3000, 4000, 1, 0xff, false},
		{"half faded", 1000, 3000, 1, 127, true},
		{"exactly at fade end", 1000, 2000, 0, 0, false},
		{"faded out", 500, 1000, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, dev := newTestPipeline(t)
			e := scene.WorldEntity()
			e.FadeStartTime = tt.start
			e.FadeEndTime = tt.end
			p.SetEntity(e, scene.IdentityOrientation(mgl32.Vec3{}))

			p.BeginSurface(testShader(identityStage()), 0)
			addQuad(t, p.Surface())
			require.NoError(t, p.EndSurface())

			require.Len(t, dev.draws, tt.wantDraws)
			assert.Zero(t, p.Surface().NumIndexes)
			if tt.wantDraws == 0 {
				return
			}
			d := dev.draws[0]
			assert.Equal(t, tt.wantColor, d.Colors[0])
			assert.Equal(t, tt.wantColor, d.Colors[3])
			if tt.wantBlend {
				assert.Equal(t, shader.SrcBlendSrcAlpha, d.State.SrcBlend())
				assert.Equal(t, shader.DstBlendOneMinusSrcAlpha, d.State.DstBlend())
				assert.False(t, d.State.Has(shader.DepthMaskTrue))
				assert.Contains(t, dev.culls, shader.CullFrontSided)
			}
		})
	}
}

func TestEndSurfaceResetsForEveryIterator(t *testing.T) {
	for _, kind := range []shader.IteratorKind{
		shader.IteratorGeneric,
		shader.IteratorVertexLitTexture,
		shader.IteratorLightmappedMultitexture,
		shader.IteratorSky,
	} {
		t.Run(kind.String(), func(t *testing.T) {
			skyCalls := 0
			p, _ := newTestPipeline(t, func(o *Options) {
				o.Sky = finisherFunc(func(p *Pipeline, s *Surface) error {
					skyCalls++
					assert.Equal(t, 4, s.NumVertexes)
					return nil
				})
			})
			st := identityStage()
			st.Bundle[1] = lightmapBundle()
			sh := testShader(st)
			sh.Iterator = kind
			p.BeginSurface(sh, 0)
			addQuad(t, p.Surface())

			require.NoError(t, p.EndSurface())

			assert.Zero(t, p.Surface().NumVertexes)
			assert.Zero(t, p.Surface().NumIndexes)
			if kind == shader.IteratorSky {
				assert.Equal(t, 1, skyCalls)
			}
		})
	}
}

func TestVertexLitIterator(t *testing.T) {
	p, dev := newTestPipeline(t)
	e := scene.WorldEntity()
	e.Light = lighting.EntityLight{
		Ambient:  mgl32.Vec3{10, 20, 30},
		Directed: mgl32.Vec3{100, 100, 100},
		Dir:      mgl32.Vec3{0, 0, 1},
	}
	p.SetEntity(e, scene.IdentityOrientation(mgl32.Vec3{}))

	sh := testShader(identityStage())
	sh.Iterator = shader.IteratorVertexLitTexture
	p.BeginSurface(sh, 0)
	addQuad(t, p.Surface())
	require.NoError(t, p.EndSurface())

	require.Len(t, dev.draws, 1)
	d := dev.draws[0]
	assert.Equal(t, []byte{110, 120, 130, 255}, d.Colors[:4])
	assert.Equal(t, []float32{0, 0, 1, 0, 1, 1, 0, 1}, d.TexCoords[0])
	assert.Len(t, d.Positions, 12)
}

func TestLightmappedMultitextureIterator(t *testing.T) {
	p, dev := newTestPipeline(t)
	st := identityStage()
	st.Bundle[1] = lightmapBundle()
	sh := testShader(st)
	sh.Iterator = shader.IteratorLightmappedMultitexture
	p.BeginSurface(sh, 0)
	addQuad(t, p.Surface())
	require.NoError(t, p.EndSurface())

	require.Len(t, dev.draws, 2)
	for _, d := range dev.draws {
		assert.Equal(t, shader.StateDefault, d.State)
		require.Len(t, d.Colors, 16)
		for _, c := range d.Colors {
			assert.Equal(t, byte(0xff), c)
		}
	}
	assert.Equal(t, "base", dev.draws[0].Image)
	assert.Equal(t, 1, dev.draws[1].Unit)
	assert.Equal(t, "lightmap", dev.draws[1].Image)
	assert.Equal(t, quadLightmap, dev.draws[1].TexCoords[1])
}

func TestLightmapIteratorNeedsStage(t *testing.T) {
	p, _ := newTestPipeline(t)
	sh := testShader()
	sh.Iterator = shader.IteratorLightmappedMultitexture
	p.BeginSurface(sh, 0)
	addQuad(t, p.Surface())

	err := p.EndSurface()
	assert.ErrorIs(t, err, ErrNoStages)
	assert.Zero(t, p.Surface().NumIndexes)
}

func TestEndSurfaceCapacity(t *testing.T) {
	p, dev := newTestPipeline(t)
	p.BeginSurface(testShader(identityStage()), 0)
	s := p.Surface()
	for i := range MaxVertexes {
		_, err := s.AddVertex(Vertex{XYZ: mgl32.Vec3{float32(i + 1), 0, 0}})
		require.NoError(t, err)
	}
	require.NoError(t, s.AddIndexes(0, 0, 1, 2))

	_, err := s.AddVertex(Vertex{})
	assert.ErrorIs(t, err, ErrMaxVertexes)

	err = p.EndSurface()
	assert.ErrorIs(t, err, ErrMaxVertexes)
	assert.Empty(t, dev.draws)
	assert.Zero(t, s.NumVertexes)
	assert.Zero(t, s.NumIndexes)

	// the sentinel is cleared so the next surface is usable
	p.BeginSurface(testShader(identityStage()), 0)
	addQuad(t, s)
	assert.NoError(t, p.EndSurface())
}

func TestAddIndexesCapacity(t *testing.T) {
	p, _ := newTestPipeline(t)
	p.BeginSurface(testShader(identityStage()), 0)
	s := p.Surface()
	err := s.AddIndexes(0, make([]uint32, MaxIndexes+1)...)
	assert.ErrorIs(t, err, ErrMaxIndexes)
}

func TestAddBeforeBegin(t *testing.T) {
	p, _ := newTestPipeline(t)
	_, err := p.Surface().AddVertex(Vertex{})
	assert.ErrorIs(t, err, ErrNoSurface)
	assert.ErrorIs(t, p.CheckOverflow(1, 1), ErrNoSurface)
}

func TestAddTriangle(t *testing.T) {
	p, dev := newTestPipeline(t)
	p.BeginSurface(testShader(identityStage()), 0)
	s := p.Surface()
	addQuad(t, s)
	require.NoError(t, s.AddTriangle(
		Vertex{XYZ: mgl32.Vec3{0, 0, 1}},
		Vertex{XYZ: mgl32.Vec3{1, 0, 1}},
		Vertex{XYZ: mgl32.Vec3{0, 1, 1}},
	))
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3, 4, 5, 6}, s.Indices())

	require.NoError(t, p.EndSurface())
	require.Len(t, dev.draws, 1)
	assert.Len(t, dev.draws[0].Positions, 21)
}

func TestCheckOverflow(t *testing.T) {
	p, dev := newTestPipeline(t)
	sh := testShader(identityStage())
	p.BeginSurface(sh, 2)
	addQuad(t, p.Surface())

	require.NoError(t, p.CheckOverflow(4, 6))
	assert.Empty(t, dev.draws)
	assert.Equal(t, 4, p.Surface().NumVertexes)

	require.NoError(t, p.CheckOverflow(MaxVertexes-4, 0))
	assert.Len(t, dev.draws, 1, "the full surface is flushed")
	assert.Zero(t, p.Surface().NumVertexes)
	assert.Same(t, sh, p.Surface().Shader)
	assert.Equal(t, 2, p.Surface().FogNum)

	assert.ErrorIs(t, p.CheckOverflow(MaxVertexes, 0), ErrMaxVertexes)
	assert.ErrorIs(t, p.CheckOverflow(0, MaxIndexes), ErrMaxIndexes)
}

func TestBeginSurface(t *testing.T) {
	p, _ := newTestPipeline(t)

	target := testShader(identityStage())
	target.TimeOffset = 0.5
	target.Iterator = shader.IteratorVertexLitTexture
	sh := testShader()
	sh.RemappedShader = target

	p.BeginSurface(sh, 1)
	s := p.Surface()
	assert.Same(t, target, s.Shader)
	assert.Equal(t, shader.IteratorVertexLitTexture, s.Iterator)
	assert.Equal(t, 1, s.NumPasses)
	assert.InDelta(t, 1.5, s.ShaderTime, 1e-9)

	target.ClampTime = 1
	p.BeginSurface(target, 0)
	assert.InDelta(t, 1.0, s.ShaderTime, 1e-9)
}

func TestDebugSort(t *testing.T) {
	p, dev := newTestPipeline(t, func(o *Options) { o.Config.DebugSort = shader.SortPortal })
	p.BeginSurface(testShader(identityStage()), 0)
	addQuad(t, p.Surface())

	require.NoError(t, p.EndSurface())
	assert.Empty(t, dev.draws)
	assert.Zero(t, p.Surface().NumIndexes)
}

func TestSkyboxPortal(t *testing.T) {
	tests := []struct {
		name     string
		flags    scene.RDFlags
		drawAll  bool
		sky      bool
		wantSky  int
		wantDraw int
	}{
		{"world drops sky", 0, false, true, 0, 0},
		{"world draws surfaces", 0, false, false, 0, 1},
		{"portal draws sky", scene.RDFSkyboxPortal, false, true, 1, 0},
		{"portal drops surfaces", scene.RDFSkyboxPortal, false, false, 0, 0},
		{"portal draws everything", scene.RDFSkyboxPortal, true, false, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			skyCalls := 0
			p, dev := newTestPipeline(t, func(o *Options) {
				o.Sky = finisherFunc(func(*Pipeline, *Surface) error {
					skyCalls++
					return nil
				})
			})
			p.BeginFrame(scene.Frame{
				Refdef:           scene.Refdef{Flags: tt.flags},
				SkyboxPortal:     true,
				DrawSkyboxPortal: tt.drawAll,
			})
			sh := testShader(identityStage())
			if tt.sky {
				sh.Iterator = shader.IteratorSky
			}
			p.BeginSurface(sh, 0)
			addQuad(t, p.Surface())
			require.NoError(t, p.EndSurface())

			assert.Equal(t, tt.wantSky, skyCalls)
			assert.Len(t, dev.draws, tt.wantDraw)
			assert.Zero(t, p.Surface().NumIndexes)
		})
	}
}

func TestShadowShader(t *testing.T) {
	shadow := testShader()
	shadow.Name = "shadow"
	var got *Surface
	p, dev := newTestPipeline(t, func(o *Options) {
		o.ShadowShader = shadow
		o.Shadow = finisherFunc(func(_ *Pipeline, s *Surface) error {
			got = s
			return nil
		})
	})
	p.BeginSurface(shadow, 0)
	addQuad(t, p.Surface())
	require.NoError(t, p.EndSurface())

	require.NotNil(t, got)
	assert.Empty(t, dev.draws)
	assert.Zero(t, p.Stats().Shaders, "shadow surfaces are not counted")
	assert.Zero(t, p.Surface().NumIndexes)
}

func TestUnknownTexMod(t *testing.T) {
	p, dev := newTestPipeline(t)
	st := identityStage()
	st.Bundle[0].TexMods = []shader.TexMod{{Type: shader.TexModType(99)}}
	p.BeginSurface(testShader(st), 0)
	addQuad(t, p.Surface())

	err := p.EndSurface()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownTexMod)
	var se *ShaderError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "textures/test/surface", se.Shader)
	assert.Contains(t, err.Error(), "textures/test/surface")

	assert.Empty(t, dev.draws)
	assert.Zero(t, p.Surface().NumIndexes)
}

func TestMissingImage(t *testing.T) {
	p, _ := newTestPipeline(t)
	st := identityStage()
	st.Bundle[0].Images = nil
	p.BeginSurface(testShader(st), 0)
	addQuad(t, p.Surface())

	assert.ErrorIs(t, p.EndSurface(), ErrNoImage)
}

func TestStageListTerminator(t *testing.T) {
	p, dev := newTestPipeline(t)
	sh := testShader(identityStage(), nil, identityStage())
	p.BeginSurface(sh, 0)
	addQuad(t, p.Surface())
	require.NoError(t, p.EndSurface())

	assert.Len(t, dev.draws, 1)
}

func TestInactiveStageEndsList(t *testing.T) {
	p, dev := newTestPipeline(t)
	off := identityStage()
	off.Active = false
	p.BeginSurface(testShader(identityStage(), off, identityStage()), 0)
	addQuad(t, p.Surface())
	require.NoError(t, p.EndSurface())

	assert.Len(t, dev.draws, 1)
}

func TestTexModsBeyondLimitIgnored(t *testing.T) {
	p, dev := newTestPipeline(t)
	st := identityStage()
	for range shader.MaxTexMods {
		st.Bundle[0].TexMods = append(st.Bundle[0].TexMods, shader.TexMod{Type: shader.TModScale, Scale: [2]float32{1, 1}})
	}
	st.Bundle[0].TexMods = append(st.Bundle[0].TexMods, shader.TexMod{Type: shader.TexModType(99)})
	p.BeginSurface(testShader(st), 0)
	addQuad(t, p.Surface())

	require.NoError(t, p.EndSurface())
	assert.Len(t, dev.draws, 1)
}

func TestLightmapDebugStopsIteration(t *testing.T) {
	p, dev := newTestPipeline(t, func(o *Options) { o.Config.Lightmap = true })
	lm := identityStage()
	lm.Bundle[0] = lightmapBundle()
	p.BeginSurface(testShader(identityStage(), lm, identityStage()), 0)
	addQuad(t, p.Surface())
	require.NoError(t, p.EndSurface())

	require.Len(t, dev.draws, 2)
	assert.Equal(t, "lightmap", dev.draws[1].Image)
}

func TestAnimatedImage(t *testing.T) {
	frames := []*texture.Image{testImage("f0"), testImage("f1"), testImage("f2")}
	tests := []struct {
		time float64
		want string
	}{
		{0, "f0"},
		{2.5, "f2"},
		{4, "f1"},
		{-3, "f0"},
	}
	for _, tt := range tests {
		p, dev := newTestPipeline(t)
		p.BeginFrame(scene.Frame{Refdef: scene.Refdef{FloatTime: tt.time}})
		st := identityStage()
		st.Bundle[0].Images = frames
		st.Bundle[0].ImageAnimationSpeed = 1
		p.BeginSurface(testShader(st), 0)
		addQuad(t, p.Surface())
		require.NoError(t, p.EndSurface())

		require.Len(t, dev.draws, 1)
		assert.Equal(t, tt.want, dev.draws[0].Image, "time %v", tt.time)
	}
}

func TestAnimatedImageFrameLimit(t *testing.T) {
	var frames []*texture.Image
	for i := range shader.MaxImageAnims + 2 {
		frames = append(frames, testImage(fmt.Sprintf("f%d", i)))
	}
	p, dev := newTestPipeline(t)
	p.BeginFrame(scene.Frame{Refdef: scene.Refdef{FloatTime: float64(shader.MaxImageAnims + 1)}})
	st := identityStage()
	st.Bundle[0].Images = frames
	st.Bundle[0].ImageAnimationSpeed = 1
	p.BeginSurface(testShader(st), 0)
	addQuad(t, p.Surface())
	require.NoError(t, p.EndSurface())

	require.Len(t, dev.draws, 1)
	assert.Equal(t, "f1", dev.draws[0].Image, "frames past the limit are never shown")
}

func TestSnooperLightmapIsWhite(t *testing.T) {
	p, dev := newTestPipeline(t)
	p.BeginFrame(scene.Frame{Refdef: scene.Refdef{Flags: scene.RDFSnooperView}})
	st := identityStage()
	st.Bundle[0] = lightmapBundle()
	p.BeginSurface(testShader(st), 0)
	addQuad(t, p.Surface())
	require.NoError(t, p.EndSurface())

	require.Len(t, dev.draws, 1)
	assert.Equal(t, "*white", dev.draws[0].Image)
}

func TestIteratorFog(t *testing.T) {
	fog := scene.GLFog{Registered: true, Mode: scene.GLFogExp, Density: 0.01}
	tests := []struct {
		name  string
		frame scene.Frame
		noFog bool
		want  bool
	}{
		{"current fog", scene.Frame{GLFogs: scene.GLFogs{Current: fog}}, false, true},
		{"no fog set", scene.Frame{}, false, false},
		{"no world model", scene.Frame{Refdef: scene.Refdef{Flags: scene.RDFNoWorldModel}, GLFogs: scene.GLFogs{Current: fog}}, false, false},
		{"2d projection", scene.Frame{Projection2D: true, GLFogs: scene.GLFogs{Current: fog}}, false, false},
		{"sky fog", scene.Frame{Refdef: scene.Refdef{Flags: scene.RDFDrawingSky}, GLFogs: scene.GLFogs{Sky: fog}}, false, true},
		{"sky without sky fog", scene.Frame{Refdef: scene.Refdef{Flags: scene.RDFDrawingSky}, GLFogs: scene.GLFogs{Current: fog}}, false, false},
		{"portal fog", scene.Frame{Refdef: scene.Refdef{Flags: scene.RDFSkyboxPortal}, SkyboxPortal: true, DrawSkyboxPortal: true, GLFogs: scene.GLFogs{Portal: fog}}, false, true},
		{"nofog shader", scene.Frame{GLFogs: scene.GLFogs{Current: fog}}, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, dev := newTestPipeline(t)
			p.BeginFrame(tt.frame)
			sh := testShader(identityStage())
			sh.NoFog = tt.noFog
			p.BeginSurface(sh, 0)
			addQuad(t, p.Surface())
			require.NoError(t, p.EndSurface())

			require.Len(t, dev.draws, 1)
			assert.Equal(t, tt.want, dev.draws[0].Fog)
		})
	}
}

func TestFoggedDetailStage(t *testing.T) {
	p, dev := newTestPipeline(t)
	p.BeginFrame(scene.Frame{GLFogs: scene.GLFogs{Current: scene.GLFog{Registered: true}}})
	detail := identityStage()
	detail.IsFogged = true
	sh := testShader(identityStage(), detail)
	sh.NoFog = true
	p.BeginSurface(sh, 0)
	addQuad(t, p.Surface())
	require.NoError(t, p.EndSurface())

	require.Len(t, dev.draws, 2)
	assert.False(t, dev.draws[0].Fog)
	assert.True(t, dev.draws[1].Fog)
}

func TestPolygonOffset(t *testing.T) {
	p, dev := newTestPipeline(t)
	sh := testShader(identityStage())
	sh.PolygonOffset = true
	p.BeginSurface(sh, 0)
	addQuad(t, p.Surface())
	require.NoError(t, p.EndSurface())

	assert.Equal(t, []bool{true, false}, dev.offset)
}

func TestFogPass(t *testing.T) {
	p, dev := newTestPipeline(t)
	p.BeginFrame(scene.Frame{Refdef: scene.Refdef{
		Fogs: []scene.Fog{{}, {Color: [4]byte{10, 20, 30, 255}, TCScale: 0.01}},
	}})
	sh := testShader(identityStage())
	sh.FogPass = shader.FogPassEqual
	p.BeginSurface(sh, 1)
	addQuad(t, p.Surface())
	require.NoError(t, p.EndSurface())

	require.Len(t, dev.draws, 2)
	d := dev.draws[1]
	assert.Equal(t, "*fog", d.Image)
	assert.True(t, d.State.Has(shader.DepthFuncEqual))
	assert.Equal(t, shader.SrcBlendSrcAlpha, d.State.SrcBlend())
	assert.Equal(t, []byte{10, 20, 30, 255}, d.Colors[:4])
	// eye inside a surfaceless fog: every point is at the deep row
	assert.InDelta(t, 31.0/32, d.TexCoords[0][1], 1e-6)
}

func TestFogPassSkippedInSnooper(t *testing.T) {
	p, dev := newTestPipeline(t)
	p.BeginFrame(scene.Frame{Refdef: scene.Refdef{
		Flags: scene.RDFSnooperView,
		Fogs:  []scene.Fog{{}, {Color: [4]byte{10, 20, 30, 255}, TCScale: 0.01}},
	}})
	sh := testShader(identityStage())
	sh.FogPass = shader.FogPassLE
	p.BeginSurface(sh, 1)
	addQuad(t, p.Surface())
	require.NoError(t, p.EndSurface())

	assert.Len(t, dev.draws, 1)
}

func TestDebugOverlays(t *testing.T) {
	p, dev := newTestPipeline(t, func(o *Options) {
		o.Config.ShowTris = true
		o.Config.ShowNormals = true
	})
	p.BeginSurface(testShader(identityStage()), 0)
	addQuad(t, p.Surface())
	require.NoError(t, p.EndSurface())

	require.Len(t, dev.draws, 3)
	tris, normals := dev.draws[1], dev.draws[2]

	assert.Equal(t, "*white", tris.Image)
	assert.Equal(t, shader.PolyModeLine|shader.DepthMaskTrue, tris.State)
	assert.Equal(t, staging.StreamPosition, tris.Streams)
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, tris.Indexes)

	assert.Equal(t, 8, normals.Lines)
	assert.Equal(t, []float32{-1, -1, 0, -1, -1, 2}, normals.Positions[:6])

	assert.Equal(t, [][2]float32{{0, 0}, {0, 1}, {0, 0}, {0, 1}}, dev.depth)
	assert.Equal(t, [4]float32{1, 1, 1, 1}, dev.color)
}

func TestDeformMove(t *testing.T) {
	p, dev := newTestPipeline(t)
	sh := testShader(identityStage())
	sh.Deforms = []shader.Deform{{
		Type:       shader.DeformMove,
		Wave:       shader.Wave{Base: 2},
		MoveVector: mgl32.Vec3{0, 0, 1},
	}}
	p.BeginSurface(sh, 0)
	addQuad(t, p.Surface())
	require.NoError(t, p.EndSurface())

	require.Len(t, dev.draws, 1)
	pos := dev.draws[0].Positions
	for v := range 4 {
		assert.Equal(t, float32(2), pos[v*3+2])
	}
}

func TestSerialAndParallelPackingMatch(t *testing.T) {
	run := func(parallel bool) []drawCall {
		p, dev := newTestPipeline(t, func(o *Options) { o.Config.ParallelPack = parallel })
		st := identityStage()
		st.RGBGen = shader.CGenExactVertex
		st.Bundle[1] = lightmapBundle()
		p.BeginSurface(testShader(identityStage(), st), 0)
		for range 50 {
			addQuad(t, p.Surface())
		}
		require.NoError(t, p.EndSurface())
		return dev.draws
	}
	assert.Equal(t, run(false), run(true))
}

func TestSkyFinisherDrawsFlat(t *testing.T) {
	skyColor := [4]float32{0.2, 0.4, 0.8, 1}
	p, dev := newTestPipeline(t, func(o *Options) {
		o.Sky = finisherFunc(func(p *Pipeline, s *Surface) error {
			return p.DrawFlat(p.Builtins().White, skyColor, shader.StateDefault)
		})
	})
	sh := testShader(identityStage())
	sh.Iterator = shader.IteratorSky
	p.BeginSurface(sh, 0)
	addQuad(t, p.Surface())
	require.NoError(t, p.EndSurface())

	require.Len(t, dev.draws, 1)
	assert.Equal(t, "*white", dev.draws[0].Image)
	assert.Equal(t, staging.StreamPosition, dev.draws[0].Streams)
	assert.Equal(t, skyColor, dev.color)
	assert.Equal(t, 1, p.Stats().Draws)
}

func TestSettingsToggleBetweenSurfaces(t *testing.T) {
	p, dev := newTestPipeline(t)
	p.BeginSurface(testShader(identityStage()), 0)
	addQuad(t, p.Surface())
	require.NoError(t, p.EndSurface())
	require.Len(t, dev.draws, 1)

	p.Settings().ShowTris = true
	p.BeginSurface(testShader(identityStage()), 0)
	addQuad(t, p.Surface())
	require.NoError(t, p.EndSurface())
	assert.Len(t, dev.draws, 3)
}

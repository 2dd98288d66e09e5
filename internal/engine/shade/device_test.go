package shade

import (
	"slices"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/rbshade/internal/config"
	"github.com/Faultbox/rbshade/internal/engine/scene"
	"github.com/Faultbox/rbshade/internal/engine/shader"
	"github.com/Faultbox/rbshade/internal/engine/staging"
	"github.com/Faultbox/rbshade/internal/engine/texture"
)

// drawCall is the device state captured at each draw.
type drawCall struct {
	Unit      int
	Image     string
	State     shader.StateBits
	Streams   staging.Streams
	Fog       bool
	Indexes   []uint32
	Positions []float32
	TexCoords [2][]float32
	Colors    []byte
	Lines     int
}

// fakeDevice records what the pipeline asks of the device.
type fakeDevice struct {
	unit      int
	bound     [2]*texture.Image
	enabled   [2]bool
	env       shader.TexEnv
	state     shader.StateBits
	culls     []shader.CullType
	offset    []bool
	fog       bool
	fogEvents []bool
	glfog     scene.GLFog
	depth     [][2]float32
	color     [4]float32
	positions []float32
	texCoords [2][]float32
	colors    []byte
	streams   staging.Streams

	draws []drawCall
}

func (d *fakeDevice) SelectTexture(unit int) {
	d.unit = unit
}

func (d *fakeDevice) BindTexture(img *texture.Image) {
	d.bound[d.unit] = img
}

func (d *fakeDevice) EnableTexture(enabled bool) {
	d.enabled[d.unit] = enabled
}

func (d *fakeDevice) SetTexEnv(env shader.TexEnv) {
	d.env = env
}

func (d *fakeDevice) SetState(bits shader.StateBits) {
	d.state = bits
}

func (d *fakeDevice) SetCull(cull shader.CullType) {
	d.culls = append(d.culls, cull)
}

func (d *fakeDevice) SetFog(fog scene.GLFog) {
	d.glfog = fog
}

func (d *fakeDevice) SetDepthRange(near, far float32) {
	d.depth = append(d.depth, [2]float32{near, far})
}

func (d *fakeDevice) SetColor(rgba [4]float32) {
	d.color = rgba
}

func (d *fakeDevice) VertexPointer(xyz []float32) {
	d.positions = xyz
}

func (d *fakeDevice) TexCoordPointer(unit int, st []float32) {
	d.texCoords[unit] = st
}

func (d *fakeDevice) ColorPointer(rgba []byte) {
	d.colors = rgba
}

func (d *fakeDevice) EnableClientArrays(s staging.Streams) {
	d.streams = s
}

func (d *fakeDevice) SetPolygonOffset(enabled bool, factor, units float32) {
	d.offset = append(d.offset, enabled)
}

func (d *fakeDevice) EnableFog(enabled bool) {
	d.fog = enabled
	d.fogEvents = append(d.fogEvents, enabled)
}

func (d *fakeDevice) DrawElements(indexes []uint32) {
	d.draws = append(d.draws, d.capture(slices.Clone(indexes), 0))
}

func (d *fakeDevice) DrawLines(count int) {
	d.draws = append(d.draws, d.capture(nil, count))
}

func (d *fakeDevice) capture(indexes []uint32, lines int) drawCall {
	c := drawCall{
		Unit:      d.unit,
		State:     d.state,
		Streams:   d.streams,
		Fog:       d.fog,
		Indexes:   indexes,
		Positions: slices.Clone(d.positions),
		Colors:    slices.Clone(d.colors),
		Lines:     lines,
	}
	if img := d.bound[d.unit]; img != nil {
		c.Image = img.Name
	}
	for u := range d.texCoords {
		c.TexCoords[u] = slices.Clone(d.texCoords[u])
	}
	return c
}

func newTestPipeline(t *testing.T, opts ...func(*Options)) (*Pipeline, *fakeDevice) {
	t.Helper()
	dev := &fakeDevice{}
	cfg := config.Default().Renderer
	cfg.StagingVertexes = config.MinStagingVertexes
	o := Options{Device: dev, Config: cfg}
	for _, fn := range opts {
		fn(&o)
	}
	p := NewPipeline(o)
	t.Cleanup(p.Close)
	p.BeginFrame(scene.Frame{Refdef: scene.Refdef{FloatTime: 2, Time: 2000}})
	return p, dev
}

func testImage(name string) *texture.Image {
	return &texture.Image{Name: name}
}

func testShader(stages ...*shader.Stage) *shader.Shader {
	return &shader.Shader{
		Name:              "textures/test/surface",
		Sort:              shader.SortOpaque,
		Stages:            stages,
		NumUnfoggedPasses: len(stages),
	}
}

func identityStage() *shader.Stage {
	return &shader.Stage{
		Active: true,
		Bundle: [shader.NumBundles]shader.TextureBundle{
			{Images: []*texture.Image{testImage("base")}, TCGen: shader.TCGenTexture},
		},
		RGBGen:    shader.CGenIdentity,
		AlphaGen:  shader.AGenIdentity,
		StateBits: shader.StateDefault,
	}
}

func lightmapBundle() shader.TextureBundle {
	return shader.TextureBundle{
		Images:     []*texture.Image{testImage("lightmap")},
		TCGen:      shader.TCGenLightmap,
		IsLightmap: true,
	}
}

// quadLightmap is the lightmap coordinates addQuad submits, in vertex order.
var quadLightmap = []float32{-1, -1, 1, -1, 1, 1, -1, 1}

// addQuad adds a 2x2 quad in the z=0 plane facing +Z.
func addQuad(t *testing.T, s *Surface) {
	t.Helper()
	base := uint32(s.NumVertexes)
	for _, xy := range [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}} {
		_, err := s.AddVertex(Vertex{
			XYZ:      mgl32.Vec3{xy[0], xy[1], 0},
			Normal:   mgl32.Vec3{0, 0, 1},
			TexCoord: [2]float32{(xy[0] + 1) / 2, (xy[1] + 1) / 2},
			Lightmap: [2]float32{xy[0], xy[1]},
			Color:    [4]byte{200, 100, 50, 128},
		})
		require.NoError(t, err)
	}
	require.NoError(t, s.AddIndexes(base, 0, 1, 2, 0, 2, 3))
}

// finisherFunc adapts a function to the sky and shadow finisher interfaces.
type finisherFunc func(p *Pipeline, s *Surface) error

func (f finisherFunc) FinishSky(p *Pipeline, s *Surface) error { return f(p, s) }
func (f finisherFunc) FinishShadow(p *Pipeline, s *Surface) error { return f(p, s) }

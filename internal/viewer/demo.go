package viewer

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/rbshade/internal/engine/lighting"
	"github.com/Faultbox/rbshade/internal/engine/scene"
	"github.com/Faultbox/rbshade/internal/engine/shade"
	"github.com/Faultbox/rbshade/internal/engine/shader"
	"github.com/Faultbox/rbshade/internal/engine/texture"
	"github.com/Faultbox/rbshade/internal/logger"
	rmath "github.com/Faultbox/rbshade/pkg/math"
)

// Scene layout in world units.
const (
	floorSize   = 512
	floorCells  = 8
	pillarSize  = 32
	pillarH     = 128
	poolSize    = 96
	poolDepth   = 24
	skyHeight   = 1024
	waterFogNum = 1
)

// Demo is a small fixed scene exercising every iterator: a lightmapped floor,
// a vertex-lit entity with deforms and environment mapping, a fogged pool and
// a sky.
type Demo struct {
	log *zap.Logger

	floor  *shader.Shader
	pillar *shader.Shader
	water  *shader.Shader
	sky    *shader.Shader

	dlights *lighting.DlightList
	fogs    []scene.Fog
	pillarE scene.Entity

	// Fog toggles the pool's fog volume.
	Fog bool
}

// NewDemo builds the demo shaders. Images named in textureDir replace the
// generated ones when present.
func NewDemo(textureDir string) *Demo {
	d := &Demo{
		log:     logger.Named("demo"),
		dlights: lighting.NewDlightList(),
		Fog:     true,
	}

	checker := d.image(textureDir, "checker", func() *image.RGBA { return checkerPixels(64, 8) })
	lightmap := d.image(textureDir, "lightmap", func() *image.RGBA { return lightmapPixels(64) })
	stone := d.image(textureDir, "stone", func() *image.RGBA { return noisePixels(64, 1) })
	env := d.image(textureDir, "env", func() *image.RGBA { return gradientPixels(64) })
	water := d.image(textureDir, "water", func() *image.RGBA { return noisePixels(64, 2) })

	d.floor = &shader.Shader{
		Name:     "textures/demo/floor",
		Sort:     shader.SortOpaque,
		CullType: shader.CullFrontSided,
		FogPass:  shader.FogPassEqual,
		Stages: []*shader.Stage{{
			Active: true,
			Bundle: [shader.NumBundles]shader.TextureBundle{
				{Images: []*texture.Image{checker}, TCGen: shader.TCGenTexture},
				{Images: []*texture.Image{lightmap}, TCGen: shader.TCGenLightmap, IsLightmap: true},
			},
			RGBGen:    shader.CGenIdentity,
			AlphaGen:  shader.AGenIdentity,
			StateBits: shader.StateDefault,
		}},
		NumUnfoggedPasses: 1,
		MultitextureEnv:   shader.TexEnvModulate,
		Iterator:          shader.IteratorLightmappedMultitexture,
	}

	d.pillar = &shader.Shader{
		Name:     "models/demo/pillar",
		Sort:     shader.SortOpaque,
		CullType: shader.CullFrontSided,
		Deforms: []shader.Deform{{
			Type:   shader.DeformWave,
			Wave:   shader.Wave{Func: rmath.FuncSin, Amplitude: 2, Frequency: 0.5},
			Spread: 1.0 / 64,
		}},
		Stages: []*shader.Stage{
			{
				Active: true,
				Bundle: [shader.NumBundles]shader.TextureBundle{
					{Images: []*texture.Image{stone}, TCGen: shader.TCGenTexture},
				},
				RGBGen:    shader.CGenLightingDiffuse,
				AlphaGen:  shader.AGenIdentity,
				StateBits: shader.StateDefault,
			},
			{
				Active: true,
				Bundle: [shader.NumBundles]shader.TextureBundle{{
					Images:  []*texture.Image{env},
					TCGen:   shader.TCGenEnvironmentMapped,
					TexMods: []shader.TexMod{{Type: shader.TModRotate, RotateSpeed: 20}},
				}},
				RGBGen:    shader.CGenWaveform,
				RGBWave:   shader.Wave{Func: rmath.FuncSin, Base: 0.3, Amplitude: 0.2, Frequency: 0.25},
				AlphaGen:  shader.AGenIdentity,
				StateBits: shader.SrcBlendOne | shader.DstBlendOne,
			},
		},
		NumUnfoggedPasses: 2,
		Iterator:          shader.IteratorGeneric,
	}

	d.water = &shader.Shader{
		Name:     "textures/demo/water",
		Sort:     shader.SortUnderwater,
		CullType: shader.CullTwoSided,
		FogPass:  shader.FogPassLE,
		Stages: []*shader.Stage{{
			Active: true,
			Bundle: [shader.NumBundles]shader.TextureBundle{{
				Images: []*texture.Image{water},
				TCGen:  shader.TCGenTexture,
				TexMods: []shader.TexMod{
					{Type: shader.TModTurbulent, Wave: shader.Wave{Amplitude: 0.05, Frequency: 0.2}},
					{Type: shader.TModScroll, Scroll: [2]float32{0.02, 0.01}},
				},
			}},
			RGBGen:             shader.CGenIdentity,
			AlphaGen:           shader.AGenConst,
			ConstantColor:      [4]byte{255, 255, 255, 160},
			StateBits:          shader.SrcBlendSrcAlpha | shader.DstBlendOneMinusSrcAlpha,
			AdjustColorsForFog: shader.ACFFModulateAlpha,
		}},
		NumUnfoggedPasses: 1,
		Iterator:          shader.IteratorGeneric,
	}

	d.sky = &shader.Shader{
		Name:         "textures/demo/sky",
		Sort:         shader.SortEnvironment,
		SurfaceFlags: shader.SurfSky | shader.SurfNoDlight,
		CullType:     shader.CullTwoSided,
		NoFog:        true,
		Iterator:     shader.IteratorSky,
	}

	return d
}

// image loads name from dir, falling back to generated pixels.
func (d *Demo) image(dir, name string, gen func() *image.RGBA) *texture.Image {
	if dir != "" {
		for _, ext := range []string{".tga", ".png", ".bmp"} {
			path := filepath.Join(dir, name+ext)
			if _, err := os.Stat(path); err != nil {
				continue
			}
			img, err := texture.Load(path)
			if err != nil {
				d.log.Warn("failed to load texture", zap.String("path", path), zap.Error(err))
				break
			}
			d.log.Debug("loaded texture", zap.String("path", path))
			return img
		}
	}
	return texture.NewImage("textures/demo/"+name, gen(), false)
}

// Bounds returns the extent of the scene geometry below the sky.
func (d *Demo) Bounds() (mins, maxs mgl32.Vec3) {
	h := float32(floorSize) / 2
	return mgl32.Vec3{-h, -h, -poolDepth}, mgl32.Vec3{h, h, pillarH}
}

// Dlights returns the light list of the last Frame.
func (d *Demo) Dlights() *lighting.DlightList { return d.dlights }

// Frame builds the frame at time t seen from view.
func (d *Demo) Frame(t float64, view scene.Orientation) scene.Frame {
	d.dlights.Clear()
	a := float32(t)
	d.dlights.Add(lighting.Dlight{
		Origin: mgl32.Vec3{160 * math32.Cos(a), 160 * math32.Sin(a), 48},
		Radius: 160,
		Color:  mgl32.Vec3{1, 0.5, 0.2},
	})
	d.dlights.Add(lighting.Dlight{
		Origin:   mgl32.Vec3{-160 * math32.Cos(a*0.7), 0, 32},
		Radius:   128,
		Color:    mgl32.Vec3{0.2, 0.4, 1},
		Overdraw: 1,
	})

	d.fogs = d.fogs[:0]
	d.fogs = append(d.fogs, scene.Fog{}) // 0 is no fog
	if d.Fog {
		d.fogs = append(d.fogs, scene.Fog{
			Color:      [4]byte{40, 80, 120, 255},
			TCScale:    1.0 / (8 * poolDepth),
			HasSurface: true,
			Surface:    [4]float32{0, 0, -1, 0}, // everything below z=0
		})
	}

	return scene.Frame{
		Refdef: scene.Refdef{
			FloatTime: t,
			Time:      int(t * 1000),
			Dlights:   d.dlights,
			Fogs:      d.fogs,
		},
		View: scene.ViewParms{Or: view},
		GLFogs: scene.GLFogs{
			Current: scene.GLFog{
				Registered: true,
				Mode:       scene.GLFogLinear,
				Color:      [4]float32{0.5, 0.55, 0.6, 1},
				Start:      800,
				End:        4000,
			},
		},
	}
}

// Draw submits every demo surface to p. BeginFrame must have been called with
// the result of Frame.
func (d *Demo) Draw(p *shade.Pipeline, t float64) error {
	if err := d.drawSky(p); err != nil {
		return err
	}
	if err := d.drawFloor(p); err != nil {
		return err
	}
	if err := d.drawPillar(p, t); err != nil {
		return err
	}
	return d.drawWater(p)
}

func (d *Demo) drawSky(p *shade.Pipeline) error {
	p.BeginSurface(d.sky, 0)
	h := float32(floorSize) * 4
	if err := addQuad(p.Surface(), mgl32.Vec3{-h, -h, skyHeight}, mgl32.Vec3{2 * h, 0, 0}, mgl32.Vec3{0, 2 * h, 0}, [4]byte{255, 255, 255, 255}); err != nil {
		return fmt.Errorf("sky: %w", err)
	}
	return p.EndSurface()
}

// drawFloor submits the floor as a grid of cells so the dlights have vertexes
// to light.
func (d *Demo) drawFloor(p *shade.Pipeline) error {
	p.BeginSurface(d.floor, 0)
	s := p.Surface()

	cell := float32(floorSize) / floorCells
	origin := float32(-floorSize) / 2
	for y := range floorCells {
		for x := range floorCells {
			if err := p.CheckOverflow(4, 6); err != nil {
				return err
			}
			// leave a hole for the pool
			cx := origin + float32(x)*cell
			cy := origin + float32(y)*cell
			if inPool(cx, cy, cell) {
				continue
			}
			if err := addQuad(s, mgl32.Vec3{cx, cy, 0}, mgl32.Vec3{cell, 0, 0}, mgl32.Vec3{0, cell, 0}, [4]byte{255, 255, 255, 255}); err != nil {
				return fmt.Errorf("floor: %w", err)
			}
		}
	}

	mins, maxs := d.Bounds()
	maxs[2] = 0
	s.DlightBits = d.dlights.Touching(mins, maxs)
	return p.EndSurface()
}

func inPool(x, y, cell float32) bool {
	return x+cell > -poolSize/2 && x < poolSize/2 && y+cell > -poolSize/2 && y < poolSize/2
}

// drawPillar draws a box entity that spins slowly around Z.
func (d *Demo) drawPillar(p *shade.Pipeline, t float64) error {
	yaw := float32(t) * 0.3
	sy, cy := math32.Sincos(yaw)
	e := &d.pillarE
	*e = scene.Entity{
		HasModel:   true,
		Origin:     mgl32.Vec3{128, 0, 0},
		Axis:       [3]mgl32.Vec3{{cy, sy, 0}, {-sy, cy, 0}, {0, 0, 1}},
		ShaderRGBA: [4]byte{255, 255, 255, 255},
		Light: lighting.EntityLight{
			Ambient:  mgl32.Vec3{48, 48, 56},
			Directed: mgl32.Vec3{200, 190, 170},
			Dir:      lighting.SunDirection(45, 60),
		},
	}

	view := p.Frame().View.Or
	or := entityOrientation(e, view)
	p.SetEntity(e, or)
	defer p.SetEntity(nil, scene.IdentityOrientation(view.Origin))
	if mv, ok := p.Device().(modelViewLoader); ok {
		mv.LoadModelView(or.ModelMatrix)
		defer mv.LoadModelView(view.ModelMatrix)
	}

	p.BeginSurface(d.pillar, 0)
	s := p.Surface()
	if err := addBox(s, mgl32.Vec3{-pillarSize / 2, -pillarSize / 2, 0}, mgl32.Vec3{pillarSize / 2, pillarSize / 2, pillarH}); err != nil {
		return fmt.Errorf("pillar: %w", err)
	}
	s.DlightBits = d.dlights.Touching(
		e.Origin.Sub(mgl32.Vec3{pillarSize, pillarSize, 0}),
		e.Origin.Add(mgl32.Vec3{pillarSize, pillarSize, pillarH}),
	)
	return p.EndSurface()
}

// modelViewLoader is a device that transforms entity geometry itself.
type modelViewLoader interface {
	LoadModelView(m mgl32.Mat4)
}

// entityOrientation places e relative to the view.
func entityOrientation(e *scene.Entity, view scene.Orientation) scene.Orientation {
	local := view.Origin.Sub(e.Origin)
	model := mgl32.Mat4{
		e.Axis[0][0], e.Axis[0][1], e.Axis[0][2], 0,
		e.Axis[1][0], e.Axis[1][1], e.Axis[1][2], 0,
		e.Axis[2][0], e.Axis[2][1], e.Axis[2][2], 0,
		e.Origin[0], e.Origin[1], e.Origin[2], 1,
	}
	return scene.Orientation{
		Origin:      e.Origin,
		Axis:        e.Axis,
		ViewOrigin:  mgl32.Vec3{local.Dot(e.Axis[0]), local.Dot(e.Axis[1]), local.Dot(e.Axis[2])},
		ModelMatrix: view.ModelMatrix.Mul4(model),
	}
}

func (d *Demo) drawWater(p *shade.Pipeline) error {
	fogNum := 0
	if d.Fog {
		fogNum = waterFogNum
	}
	p.BeginSurface(d.water, fogNum)
	h := float32(poolSize) / 2
	if err := addQuad(p.Surface(), mgl32.Vec3{-h, -h, -poolDepth / 3}, mgl32.Vec3{poolSize, 0, 0}, mgl32.Vec3{0, poolSize, 0}, [4]byte{255, 255, 255, 255}); err != nil {
		return fmt.Errorf("water: %w", err)
	}
	return p.EndSurface()
}

// addQuad appends the quad spanned by u and v at origin, facing u x v.
func addQuad(s *shade.Surface, origin, u, v mgl32.Vec3, c [4]byte) error {
	normal := u.Cross(v).Normalize()
	corners := [4]mgl32.Vec3{origin, origin.Add(u), origin.Add(u).Add(v), origin.Add(v)}
	st := [4][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	lmOrigin := mgl32.Vec3{-floorSize / 2, -floorSize / 2, 0}

	base := uint32(s.NumVertexes)
	for i, p := range corners {
		rel := p.Sub(lmOrigin)
		if _, err := s.AddVertex(shade.Vertex{
			XYZ:      p,
			Normal:   normal,
			TexCoord: st[i],
			Lightmap: [2]float32{rel[0] / floorSize, rel[1] / floorSize},
			Color:    c,
		}); err != nil {
			return err
		}
	}
	return s.AddIndexes(base, 0, 1, 2, 0, 2, 3)
}

// addBox appends the four sides and the top of a box.
func addBox(s *shade.Surface, mins, maxs mgl32.Vec3) error {
	size := maxs.Sub(mins)
	x := mgl32.Vec3{size[0], 0, 0}
	y := mgl32.Vec3{0, size[1], 0}
	z := mgl32.Vec3{0, 0, size[2]}
	sides := [5][3]mgl32.Vec3{
		{mins, x, z},                       // -y
		{mins.Add(x), y, z},                // +x
		{mins.Add(x).Add(y), x.Mul(-1), z}, // +y
		{mins.Add(y), y.Mul(-1), z},        // -x
		{mins.Add(z), x, y},                // top
	}
	white := [4]byte{255, 255, 255, 255}
	for _, side := range sides {
		if err := addQuad(s, side[0], side[1], side[2], white); err != nil {
			return err
		}
	}
	return nil
}

func checkerPixels(size, cells int) *image.RGBA {
	pix := image.NewRGBA(image.Rect(0, 0, size, size))
	step := size / cells
	for y := range size {
		for x := range size {
			c := color.RGBA{90, 90, 100, 255}
			if (x/step+y/step)%2 == 0 {
				c = color.RGBA{200, 195, 180, 255}
			}
			pix.SetRGBA(x, y, c)
		}
	}
	return pix
}

// lightmapPixels is a soft pool of light in the middle of the floor.
func lightmapPixels(size int) *image.RGBA {
	pix := image.NewRGBA(image.Rect(0, 0, size, size))
	half := float32(size) / 2
	for y := range size {
		for x := range size {
			dx := (float32(x) - half) / half
			dy := (float32(y) - half) / half
			l := 1 - 0.6*min(math32.Sqrt(dx*dx+dy*dy), 1)
			v := uint8(255 * l)
			pix.SetRGBA(x, y, color.RGBA{v, v, uint8(float32(v) * 0.9), 255})
		}
	}
	return pix
}

func noisePixels(size int, seed float32) *image.RGBA {
	pix := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := range size {
		for x := range size {
			n := rmath.Noise4(float32(x)/8, float32(y)/8, seed, 0)
			v := uint8(128 + 100*n)
			pix.SetRGBA(x, y, color.RGBA{v, v, v, 255})
		}
	}
	return pix
}

func gradientPixels(size int) *image.RGBA {
	pix := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := range size {
		for x := range size {
			pix.SetRGBA(x, y, color.RGBA{uint8(x * 255 / size), 128, uint8(y * 255 / size), 255})
		}
	}
	return pix
}

package shade

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/rbshade/internal/engine/scene"
	"github.com/Faultbox/rbshade/internal/engine/shader"
	rmath "github.com/Faultbox/rbshade/pkg/math"
)

// computeTexCoords fills the scratch texture coordinates of both bundles of a
// stage and runs their texmod chains.
func (p *Pipeline) computeTexCoords(st *shader.Stage) error {
	t := p.tess
	n := t.NumVertexes

	for b := range shader.NumBundles {
		bundle := &st.Bundle[b]
		coords := t.StageCoords[b][:n]

		switch bundle.TCGen {
		case shader.TCGenIdentity:
			clear(coords)
		case shader.TCGenTexture:
			copy(coords, t.TexCoords[0][:n])
		case shader.TCGenLightmap:
			copy(coords, t.TexCoords[1][:n])
		case shader.TCGenVector:
			for i := range coords {
				coords[i] = [2]float32{t.XYZ[i].Dot(bundle.TCGenVectors[0]), t.XYZ[i].Dot(bundle.TCGenVectors[1])}
			}
		case shader.TCGenFog:
			if fog := p.frame.Refdef.Fog(t.FogNum); fog != nil {
				p.calcFogTexCoords(coords, fog)
			}
		case shader.TCGenEnvironmentMapped:
			p.calcEnvironmentTexCoords(coords)
		case shader.TCGenFireRiseEnvMapped:
			p.calcFireRiseEnvTexCoords(coords)
		case shader.TCGenBad:
			return nil
		}

		for i, tm := range bundle.TexMods {
			if i == shader.MaxTexMods || tm.Type == shader.TModNone {
				break
			}
			if err := p.applyTexMod(coords, &tm); err != nil {
				return shaderErr(t.Shader, err)
			}
		}
	}
	return nil
}

func (p *Pipeline) applyTexMod(st [][2]float32, tm *shader.TexMod) error {
	now := p.tess.ShaderTime
	switch tm.Type {
	case shader.TModSwap:
		for i, c := range st {
			st[i] = [2]float32{c[1], 1 - c[0]}
		}
	case shader.TModTurbulent:
		p.calcTurbulent(st, tm.Wave)
	case shader.TModEntityTranslate:
		scrollTexCoords(st, p.entity.ShaderTexCoord, now)
	case shader.TModScroll:
		scrollTexCoords(st, tm.Scroll, now)
	case shader.TModScale:
		for i := range st {
			st[i][0] *= tm.Scale[0]
			st[i][1] *= tm.Scale[1]
		}
	case shader.TModStretch:
		s := 1 / tm.Wave.Eval(now)
		transformTexCoords(st, [2][2]float32{{s, 0}, {0, s}}, [2]float32{0.5 - 0.5*s, 0.5 - 0.5*s})
	case shader.TModTransform:
		transformTexCoords(st, tm.Matrix, tm.Translate)
	case shader.TModRotate:
		degs := -float64(tm.RotateSpeed) * now
		idx := int64(degs * (rmath.TableSize / 360.0))
		sin := rmath.Sin(idx)
		cos := rmath.Sin(idx + rmath.TableSize/4)
		transformTexCoords(st,
			[2][2]float32{{cos, sin}, {-sin, cos}},
			[2]float32{0.5 - 0.5*cos + 0.5*sin, 0.5 - 0.5*sin - 0.5*cos})
	default:
		return fmt.Errorf("%w %d (%s)", ErrUnknownTexMod, int(tm.Type), tm.Type)
	}
	return nil
}

func scrollTexCoords(st [][2]float32, speed [2]float32, now float64) {
	s := float64(speed[0]) * now
	t := float64(speed[1]) * now
	// keep the offsets small so coordinates don't lose precision
	ds := float32(s - math.Floor(s))
	dt := float32(t - math.Floor(t))
	for i := range st {
		st[i][0] += ds
		st[i][1] += dt
	}
}

func transformTexCoords(st [][2]float32, m [2][2]float32, translate [2]float32) {
	for i, c := range st {
		st[i] = [2]float32{
			c[0]*m[0][0] + c[1]*m[1][0] + translate[0],
			c[0]*m[0][1] + c[1]*m[1][1] + translate[1],
		}
	}
}

func (p *Pipeline) calcTurbulent(st [][2]float32, w shader.Wave) {
	now := float64(w.Phase) + p.tess.ShaderTime*float64(w.Frequency)
	for i := range st {
		xyz := p.tess.XYZ[i]
		s := rmath.Sin(rmath.Index(float64((xyz[0]+xyz[2])*(1.0/128*0.125)) + now))
		t := rmath.Sin(rmath.Index(float64(xyz[1]*(1.0/128*0.125)) + now))
		st[i][0] += s * w.Amplitude
		st[i][1] += t * w.Amplitude
	}
}

func reflectTexCoord(normal, viewer mgl32.Vec3) [2]float32 {
	d := normal.Dot(viewer)
	r := normal.Mul(2 * d).Sub(viewer)
	return [2]float32{0.5 + r[1]*0.5, 0.5 - r[2]*0.5}
}

func (p *Pipeline) calcEnvironmentTexCoords(st [][2]float32) {
	for i := range st {
		viewer := p.or.ViewOrigin.Sub(p.tess.XYZ[i])
		if l := viewer.Len(); l > 0 {
			viewer = viewer.Mul(1 / l)
		}
		st[i] = reflectTexCoord(p.tess.Normals[i], viewer)
	}
}

// calcFireRiseEnvTexCoords reflects a viewer looking down the entity's
// fire-rise direction instead of from the eye.
func (p *Pipeline) calcFireRiseEnvTexCoords(st [][2]float32) {
	dir := p.entity.FireRiseDir
	if dir == (mgl32.Vec3{}) {
		dir = mgl32.Vec3{0, 0, 1}
	}
	viewer := dir.Mul(-1).Normalize()
	for i := range st {
		st[i] = reflectTexCoord(p.tess.Normals[i], viewer)
	}
}

// calcFogTexCoords computes fog table coordinates: s is the distance from the
// eye, t the depth below the fog surface.
func (p *Pipeline) calcFogTexCoords(st [][2]float32, fog *scene.Fog) {
	or := &p.or
	view := &p.frame.View.Or

	m := or.ModelMatrix
	local := or.Origin.Sub(view.Origin)
	distance := [4]float32{-m[2], -m[6], -m[10], local.Dot(view.Axis[0])}
	for i := range distance {
		distance[i] *= fog.TCScale
	}

	depth := [4]float32{0, 0, 0, 1}
	eyeT := float32(1) // the eye is always inside fog without a surface
	if fog.HasSurface {
		plane := mgl32.Vec3{fog.Surface[0], fog.Surface[1], fog.Surface[2]}
		depth = [4]float32{
			plane.Dot(or.Axis[0]),
			plane.Dot(or.Axis[1]),
			plane.Dot(or.Axis[2]),
			-fog.Surface[3] + or.Origin.Dot(plane),
		}
		eyeT = dot3(or.ViewOrigin, depth) + depth[3]
	}
	eyeOutside := eyeT < 0

	distance[3] += 1.0 / 512

	for i := range st {
		v := p.tess.XYZ[i]
		s := dot3(v, distance) + distance[3]
		t := dot3(v, depth) + depth[3]

		if eyeOutside {
			if t < 1 {
				t = 1.0 / 32
			} else {
				// cut the distance at the fog plane
				t = 1.0/32 + 30.0/32*t/(t-eyeT)
			}
		} else {
			if t < 0 {
				t = 1.0 / 32
			} else {
				t = 31.0 / 32
			}
		}
		st[i] = [2]float32{s, t}
	}
}

func dot3(v mgl32.Vec3, p [4]float32) float32 {
	return v[0]*p[0] + v[1]*p[1] + v[2]*p[2]
}

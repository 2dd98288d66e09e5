package shade

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/rbshade/internal/engine/lighting"
	"github.com/Faultbox/rbshade/internal/engine/scene"
	"github.com/Faultbox/rbshade/internal/engine/shader"
	"github.com/Faultbox/rbshade/internal/engine/staging"
	rmath "github.com/Faultbox/rbshade/pkg/math"
)

// Dlight clip bits. A triangle is dropped when all three vertexes share a bit.
const (
	clipLeft   = 1 << 0
	clipRight  = 1 << 1
	clipBottom = 1 << 2
	clipTop    = 1 << 3
	clipAbove  = 1 << 4
	clipBelow  = 1 << 5
	clipAll    = 63
)

// projectDlights adds each dynamic light touching the surface with an extra
// pass that projects the light's falloff texture onto it.
func (p *Pipeline) projectDlights() error {
	rd := &p.frame.Refdef
	if rd.NumDlights() == 0 || rd.Flags&scene.RDFSnooperView != 0 {
		return nil
	}

	t := p.tess
	for l := range rd.Dlights.Lights {
		if t.DlightBits&(1<<l) == 0 {
			continue
		}
		dl := &rd.Dlights.Lights[l]

		hit := p.lightVertexes(dl)
		if len(hit) == 0 {
			continue
		}

		tgt, err := p.pack(staging.StreamTexCoord0|staging.StreamColor, staging.Source{
			TexCoords: [2][][2]float32{p.scratchCoords},
			Colors:    p.dlightColors,
		})
		if err != nil {
			return err
		}
		p.dev.EnableClientArrays(streamsGeneric)
		p.register(tgt)

		if err := p.drawDlight(dl, hit); err != nil {
			return err
		}
	}
	return nil
}

// lightVertexes computes texture coordinates, colors and clip bits for one
// light and returns the indexes of the triangles it reaches.
func (p *Pipeline) lightVertexes(dl *lighting.Dlight) []uint32 {
	t := p.tess
	origin := dl.Transformed
	radius := dl.Radius
	scale := 1 / radius
	color := p.dlightFloatColor(dl.Color)

	for i := range t.NumVertexes {
		dist := origin.Sub(t.XYZ[i])
		p.stats.DlightVertexes++

		tc := [2]float32{0.5 + dist[0]*scale, 0.5 + dist[1]*scale}
		var clip byte
		var modulate float32

		if !p.cfg.DlightBacks && dist.Dot(t.Normals[i]) < 0 {
			clip = clipAll
		} else {
			if tc[0] < 0 {
				clip |= clipLeft
			} else if tc[0] > 1 {
				clip |= clipRight
			}
			if tc[1] < 0 {
				clip |= clipBottom
			} else if tc[1] > 1 {
				clip |= clipTop
			}

			// modulate the strength based on the height
			switch dz := dist[2]; {
			case dz > radius:
				clip |= clipAbove
			case dz < -radius:
				clip |= clipBelow
			default:
				dz = math32.Abs(dz)
				if dz < radius*0.5 {
					modulate = 1
				} else {
					modulate = 2 * (radius - dz) * scale
				}
			}
		}

		p.scratchCoords[i] = tc
		p.dlightClip[i] = clip
		p.dlightColors[i] = [4]byte{
			byte(color[0] * modulate),
			byte(color[1] * modulate),
			byte(color[2] * modulate),
			255,
		}
	}

	n := 0
	idx := t.Indices()
	for i := 0; i+2 < len(idx); i += 3 {
		a, b, c := idx[i], idx[i+1], idx[i+2]
		if p.dlightClip[a]&p.dlightClip[b]&p.dlightClip[c] != 0 {
			continue
		}
		p.dlightIndexes[n] = a
		p.dlightIndexes[n+1] = b
		p.dlightIndexes[n+2] = c
		n += 3
	}
	return p.dlightIndexes[:n]
}

// dlightFloatColor scales a light color to 0-255, applying the greyscale filter.
func (p *Pipeline) dlightFloatColor(c mgl32.Vec3) mgl32.Vec3 {
	g := p.cfg.Greyscale
	lum := rmath.Luma(c[0], c[1], c[2]) * 255
	switch {
	case g >= 1:
		return mgl32.Vec3{lum, lum, lum}
	case g > 0:
		return mgl32.Vec3{
			rmath.Lerp(c[0]*255, lum, g),
			rmath.Lerp(c[1]*255, lum, g),
			rmath.Lerp(c[2]*255, lum, g),
		}
	}
	return c.Mul(255)
}

func (p *Pipeline) drawDlight(dl *lighting.Dlight, hit []uint32) error {
	if dl.Shader != nil {
		dls := dl.Shader.Resolve()
		for i := 0; i < dls.NumUnfoggedPasses && i < len(dls.Stages); i++ {
			st := dls.Stages[i]
			if st == nil || !st.Active {
				break
			}
			if err := p.bindAnimatedImage(dls, &st.Bundle[0]); err != nil {
				return err
			}
			p.dev.SetState(st.StateBits | shader.DepthFuncEqual)
			p.drawDlightElements(hit)
		}
		return nil
	}

	p.fogOff()
	p.dev.BindTexture(p.builtins.Dlight)
	// depth equal keeps alpha tested surfaces from picking up light where
	// they were not drawn
	p.dev.SetState(shader.SrcBlendDstColor | shader.DstBlendOne | shader.DepthFuncEqual)
	p.drawDlightElements(hit)
	for range dl.Overdraw {
		p.drawDlightElements(hit)
	}
	p.fogOn()
	return nil
}

func (p *Pipeline) drawDlightElements(hit []uint32) {
	p.drawElements(hit)
	p.stats.TotalIndexes += len(hit)
	p.stats.DlightIndexes += len(hit)
}

package shade

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/rbshade/internal/engine/shader"
	rmath "github.com/Faultbox/rbshade/pkg/math"
)

// specularLightOrigin is the fixed light used by lightingSpecular alpha.
var specularLightOrigin = mgl32.Vec3{-960, 1980, 96}

// computeColors fills the scratch colors for one stage: rgbGen, alphaGen, fog
// adjustment and the greyscale filter, in that order.
func (p *Pipeline) computeColors(st *shader.Stage) {
	t := p.tess
	n := t.NumVertexes
	colors := t.Colors[:n]

	switch st.RGBGen {
	case shader.CGenIdentity:
		fillColor(colors, [4]byte{0xff, 0xff, 0xff, 0xff})
	default:
		b := p.identityLightByte
		fillColor(colors, [4]byte{b, b, b, b})
	case shader.CGenLightingDiffuse:
		p.calcDiffuseColors(colors)
	case shader.CGenExactVertex:
		copy(colors, t.VertexColors[:n])
	case shader.CGenConst:
		fillColor(colors, st.ConstantColor)
	case shader.CGenVertex:
		if p.identityLight == 1 {
			copy(colors, t.VertexColors[:n])
			break
		}
		for i, vc := range t.VertexColors[:n] {
			colors[i] = [4]byte{
				byte(float32(vc[0]) * p.identityLight),
				byte(float32(vc[1]) * p.identityLight),
				byte(float32(vc[2]) * p.identityLight),
				vc[3],
			}
		}
	case shader.CGenOneMinusVertex:
		for i, vc := range t.VertexColors[:n] {
			for c := range 3 {
				colors[i][c] = byte(float32(255-vc[c]) * p.identityLight)
			}
			colors[i][3] = vc[3]
		}
	case shader.CGenFog:
		if fog := p.frame.Refdef.Fog(t.FogNum); fog != nil {
			fillColor(colors, fog.Color)
			break
		}
		b := p.identityLightByte
		fillColor(colors, [4]byte{b, b, b, b})
	case shader.CGenWaveform:
		p.calcWaveColor(colors, st.RGBWave)
	case shader.CGenEntity:
		fillColor(colors, p.entity.ShaderRGBA)
	case shader.CGenOneMinusEntity:
		e := p.entity.ShaderRGBA
		fillColor(colors, [4]byte{255 - e[0], 255 - e[1], 255 - e[2], 255 - e[3]})
	}

	switch st.AlphaGen {
	case shader.AGenSkip:
	case shader.AGenIdentity:
		if st.RGBGen == shader.CGenIdentity ||
			(st.RGBGen == shader.CGenVertex && p.identityLight == 1) {
			break
		}
		fillAlpha(colors, 0xff)
	case shader.AGenConst:
		if st.RGBGen != shader.CGenConst {
			fillAlpha(colors, st.ConstantColor[3])
		}
	case shader.AGenWaveform:
		fillAlpha(colors, byte(255*st.AlphaWave.EvalClamped(t.ShaderTime)))
	case shader.AGenLightingSpecular:
		p.calcSpecularAlpha(colors)
	case shader.AGenEntity:
		fillAlpha(colors, p.entity.ShaderRGBA[3])
	case shader.AGenOneMinusEntity:
		fillAlpha(colors, 255-p.entity.ShaderRGBA[3])
	case shader.AGenNormalZFade:
		p.calcNormalZFade(colors, st)
	case shader.AGenVertex:
		if st.RGBGen != shader.CGenVertex {
			for i, vc := range t.VertexColors[:n] {
				colors[i][3] = vc[3]
			}
		}
	case shader.AGenOneMinusVertex:
		for i, vc := range t.VertexColors[:n] {
			colors[i][3] = 255 - vc[3]
		}
	case shader.AGenPortal:
		p.calcPortalAlpha(colors)
	}

	if t.FogNum != 0 && st.AdjustColorsForFog != shader.ACFFNone {
		p.modulateByFog(colors, st.AdjustColorsForFog)
	}

	p.applyGreyscale(colors)
}

func fillColor(colors [][4]byte, c [4]byte) {
	for i := range colors {
		colors[i] = c
	}
}

func fillAlpha(colors [][4]byte, a byte) {
	for i := range colors {
		colors[i][3] = a
	}
}

func clampByte(v float32) byte {
	switch {
	case v > 255:
		return 255
	case v < 0:
		return 0
	}
	return byte(v)
}

func (p *Pipeline) calcWaveColor(colors [][4]byte, w shader.Wave) {
	glow := w.Eval(p.tess.ShaderTime)
	if w.Func != rmath.FuncNoise {
		glow *= p.identityLight
	}
	v := byte(255 * rmath.Clamp01(glow))
	fillColor(colors, [4]byte{v, v, v, 255})
}

// calcDiffuseColors lights each vertex with the entity's ambient and directed light.
func (p *Pipeline) calcDiffuseColors(colors [][4]byte) {
	light := p.entity.Light
	ambient := light.AmbientRGBA()
	for i := range colors {
		incoming := p.tess.Normals[i].Dot(light.Dir)
		if incoming <= 0 {
			colors[i] = ambient
			continue
		}
		for c := range 3 {
			colors[i][c] = clampByte(light.Ambient[c] + incoming*light.Directed[c])
		}
		colors[i][3] = 255
	}
}

func (p *Pipeline) calcSpecularAlpha(colors [][4]byte) {
	t := p.tess
	for i := range colors {
		xyz, normal := t.XYZ[i], t.Normals[i]

		lightDir := specularLightOrigin.Sub(xyz)
		if l := lightDir.Len(); l > 0 {
			lightDir = lightDir.Mul(1 / l)
		}
		d := normal.Dot(lightDir)
		reflected := normal.Mul(2 * d).Sub(lightDir)

		viewer := p.or.ViewOrigin.Sub(xyz)
		vl := viewer.Len()
		if vl == 0 {
			colors[i][3] = 0
			continue
		}
		l := reflected.Dot(viewer) / vl
		if l < 0 {
			colors[i][3] = 0
			continue
		}
		l *= l
		l *= l
		colors[i][3] = clampByte(l * 255)
	}
}

// calcNormalZFade fades alpha by how closely each normal follows the entity's
// fire-rise direction. A bound of ZFadeEntityAlpha switches to the zombie fade,
// driven by the entity's alpha.
func (p *Pipeline) calcNormalZFade(colors [][4]byte, st *shader.Stage) {
	e := p.entity
	up := e.RiseDir()

	lowest, highest := st.ZFadeBounds[0], st.ZFadeBounds[1]
	zombie := false
	if lowest == shader.ZFadeEntityAlpha {
		lowest = e.ShaderTime
		zombie = true
	}
	if highest == shader.ZFadeEntityAlpha {
		highest = e.ShaderTime
		zombie = true
	}
	half := (highest - lowest) / 2
	entityAlpha := float32(e.ShaderRGBA[3])

	for i := range colors {
		dot := p.tess.Normals[i].Dot(up)

		if zombie {
			f := (dot + 1) / 2
			colors[i][3] = clampByte(entityAlpha*f + 2*entityAlpha*(1-f))
			continue
		}

		if dot >= highest || dot <= lowest {
			colors[i][3] = 0
			continue
		}
		var alpha float32
		if dot < lowest+half {
			alpha = float32(st.ConstantColor[3]) * ((dot - lowest) / half)
		} else {
			alpha = float32(st.ConstantColor[3]) * (1 - (dot-lowest-half)/half)
		}
		alpha = float32(clampByte(alpha))
		if e.HasModel {
			alpha *= entityAlpha / 255
		}
		colors[i][3] = byte(alpha)
	}
}

func (p *Pipeline) calcPortalAlpha(colors [][4]byte) {
	rng := p.tess.Shader.PortalRange
	origin := p.frame.View.Or.Origin
	for i := range colors {
		l := p.tess.XYZ[i].Sub(origin).Len() / rng
		switch {
		case l < 0 || math32.IsNaN(l):
			colors[i][3] = 0
		case l > 1:
			colors[i][3] = 0xff
		default:
			colors[i][3] = byte(l * 0xff)
		}
	}
}

func (p *Pipeline) modulateByFog(colors [][4]byte, mode shader.AdjustColorsForFog) {
	fog := p.frame.Refdef.Fog(p.tess.FogNum)
	if fog == nil {
		return
	}
	coords := p.scratchCoords[:len(colors)]
	p.calcFogTexCoords(coords, fog)

	lo, hi := 0, 3
	switch mode {
	case shader.ACFFModulateAlpha:
		lo, hi = 3, 4
	case shader.ACFFModulateRGBA:
		hi = 4
	}
	for i := range colors {
		f := 1 - rmath.FogFactor(coords[i][0], coords[i][1])
		for c := lo; c < hi; c++ {
			colors[i][c] = byte(float32(colors[i][c]) * f)
		}
	}
}

func (p *Pipeline) applyGreyscale(colors [][4]byte) {
	g := p.cfg.Greyscale
	switch {
	case g >= 1:
		for i, c := range colors {
			l := byte(rmath.Luma(float32(c[0]), float32(c[1]), float32(c[2])))
			colors[i][0], colors[i][1], colors[i][2] = l, l, l
		}
	case g > 0:
		for i, c := range colors {
			l := rmath.Luma(float32(c[0]), float32(c[1]), float32(c[2]))
			for ch := range 3 {
				colors[i][ch] = byte(rmath.Lerp(float32(c[ch]), l, g))
			}
		}
	}
}

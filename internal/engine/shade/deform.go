package shade

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/rbshade/internal/engine/shader"
	rmath "github.com/Faultbox/rbshade/pkg/math"
)

// deform applies the shader's vertex deformations to the accumulated geometry.
func (p *Pipeline) deform() {
	t := p.tess
	for i := range t.Shader.Deforms {
		d := &t.Shader.Deforms[i]
		switch d.Type {
		case shader.DeformWave:
			p.deformWave(d)
		case shader.DeformNormals:
			p.deformNormals(d)
		case shader.DeformBulge:
			p.deformBulge(d)
		case shader.DeformMove:
			p.deformMove(d)
		}
	}
}

// deformWave pushes vertexes along their normals. With a zero frequency the
// whole surface moves together, otherwise the phase varies with position.
func (p *Pipeline) deformWave(d *shader.Deform) {
	t := p.tess
	xyz, normals := t.XYZ[:t.NumVertexes], t.Normals[:t.NumVertexes]

	if d.Wave.Frequency == 0 {
		scale := d.Wave.Eval(t.ShaderTime)
		for i := range xyz {
			xyz[i] = xyz[i].Add(normals[i].Mul(scale))
		}
		return
	}

	for i := range xyz {
		w := d.Wave
		w.Phase += (xyz[i][0] + xyz[i][1] + xyz[i][2]) * d.Spread
		xyz[i] = xyz[i].Add(normals[i].Mul(w.Eval(t.ShaderTime)))
	}
}

func (p *Pipeline) deformNormals(d *shader.Deform) {
	t := p.tess
	now := float32(t.ShaderTime) * d.Wave.Frequency
	for i := range t.NumVertexes {
		v := t.XYZ[i].Mul(0.98)
		n := &t.Normals[i]
		n[0] += d.Wave.Amplitude * rmath.Noise4(v[0], v[1], v[2], now)
		n[1] += d.Wave.Amplitude * rmath.Noise4(100+v[0], v[1], v[2], now)
		n[2] += d.Wave.Amplitude * rmath.Noise4(200+v[0], v[1], v[2], now)
		if l := n.Len(); l > 0 {
			*n = n.Mul(1 / l)
		}
	}
}

func (p *Pipeline) deformBulge(d *shader.Deform) {
	t := p.tess
	now := float32(p.frame.Refdef.Time) * d.BulgeSpeed * 0.001
	for i := range t.NumVertexes {
		off := int64(rmath.TableSize / (2 * math32.Pi) * (t.TexCoords[0][i][0]*d.BulgeWidth + now))
		scale := rmath.Sin(off) * d.BulgeHeight
		t.XYZ[i] = t.XYZ[i].Add(t.Normals[i].Mul(scale))
	}
}

func (p *Pipeline) deformMove(d *shader.Deform) {
	t := p.tess
	offset := d.MoveVector.Mul(d.Wave.Eval(t.ShaderTime))
	for i := range t.NumVertexes {
		t.XYZ[i] = t.XYZ[i].Add(offset)
	}
}

package shade

import (
	"github.com/Faultbox/rbshade/internal/engine/debug"
	"github.com/Faultbox/rbshade/internal/engine/shader"
	"github.com/Faultbox/rbshade/internal/engine/staging"
	"github.com/Faultbox/rbshade/internal/engine/texture"
)

var white = [4]float32{1, 1, 1, 1}

// drawTris outlines every triangle of the surface, never occluded.
func (p *Pipeline) drawTris() error {
	p.dev.SetDepthRange(0, 0)
	defer p.dev.SetDepthRange(0, 1)
	return p.DrawFlat(p.builtins.White, white, shader.PolyModeLine|shader.DepthMaskTrue)
}

// DrawFlat draws the surface's triangles with one image and a constant color.
// Finishers use it for surfaces that need no stage iteration.
func (p *Pipeline) DrawFlat(img *texture.Image, color [4]float32, state shader.StateBits) error {
	t := p.tess

	p.dev.BindTexture(img)
	p.dev.SetColor(color)
	p.dev.SetState(state)

	tgt, err := p.pack(staging.StreamPosition, staging.Source{Positions: t.XYZ})
	if err != nil {
		return err
	}
	p.dev.EnableClientArrays(staging.StreamPosition)
	p.register(tgt)
	p.drawElements(t.Indices())
	return nil
}

// drawNormals draws a short line along each vertex normal.
func (p *Pipeline) drawNormals() error {
	t := p.tess
	n := t.NumVertexes

	lines, err := p.buffers.ReserveVertex(2 * n)
	if err != nil {
		return err
	}
	err = p.dispatcher.Split(n, func(start, end int) {
		debug.NormalLines(lines, t.XYZ, t.Normals, debug.NormalLength, start, end)
	})
	if err != nil {
		return err
	}

	p.dev.BindTexture(p.builtins.White)
	p.dev.SetColor(white)
	p.dev.SetDepthRange(0, 0)
	defer p.dev.SetDepthRange(0, 1)
	p.dev.SetState(shader.PolyModeLine | shader.DepthMaskTrue)

	p.dev.EnableClientArrays(staging.StreamPosition)
	p.dev.VertexPointer(lines)
	p.dev.DrawLines(2 * n)
	p.stats.Draws++
	return nil
}

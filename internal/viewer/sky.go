package viewer

import (
	"github.com/Faultbox/rbshade/internal/engine/shade"
	"github.com/Faultbox/rbshade/internal/engine/shader"
)

// skyFinisher draws sky surfaces as a flat color at the far plane.
type skyFinisher struct {
	color [4]float32
}

func (f *skyFinisher) FinishSky(p *shade.Pipeline, s *shade.Surface) error {
	dev := p.Device()
	dev.SetCull(shader.CullTwoSided)
	dev.SetDepthRange(1, 1)
	defer dev.SetDepthRange(0, 1)
	return p.DrawFlat(p.Builtins().White, f.color, shader.StateDefault)
}

package shade

import (
	"github.com/Faultbox/rbshade/internal/engine/scene"
	"github.com/Faultbox/rbshade/internal/engine/shader"
	"github.com/Faultbox/rbshade/internal/engine/staging"
)

// fogPass blends the fog volume's color over the surface using the fog table
// image.
func (p *Pipeline) fogPass() error {
	if p.frame.Refdef.Flags&scene.RDFSnooperView != 0 {
		return nil
	}
	t := p.tess
	fog := p.frame.Refdef.Fog(t.FogNum)
	if fog == nil {
		return nil
	}

	n := t.NumVertexes
	fillColor(t.Colors[:n], fog.Color)
	p.calcFogTexCoords(t.StageCoords[0][:n], fog)

	p.dev.BindTexture(p.builtins.Fog)
	state := shader.SrcBlendSrcAlpha | shader.DstBlendOneMinusSrcAlpha
	if t.Shader.FogPass == shader.FogPassEqual {
		state |= shader.DepthFuncEqual
	}
	p.dev.SetState(state)

	tgt, err := p.pack(staging.StreamTexCoord0|staging.StreamColor, staging.Source{
		TexCoords: t.StageCoords,
		Colors:    t.Colors,
	})
	if err != nil {
		return err
	}
	p.dev.EnableClientArrays(streamsGeneric)
	p.register(tgt)
	p.drawElements(t.Indices())
	return nil
}

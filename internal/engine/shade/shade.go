// Package shade is the surface back end: it accumulates the geometry of one
// surface at a time, runs the surface's shader stages over it and submits the
// resulting passes to a Device.
package shade

import (
	"errors"
	"fmt"

	"github.com/Faultbox/rbshade/internal/engine/scene"
	"github.com/Faultbox/rbshade/internal/engine/shader"
	"github.com/Faultbox/rbshade/internal/engine/staging"
	"github.com/Faultbox/rbshade/internal/engine/texture"
)

// Surface capacity. The last slot of each array is a sentinel that must never
// be written.
const (
	MaxVertexes = 4000
	MaxIndexes  = 6 * MaxVertexes
)

var (
	// ErrMaxVertexes means the vertex array was filled to capacity.
	ErrMaxVertexes = errors.New("shade: MaxVertexes hit")
	// ErrMaxIndexes means the index array was filled to capacity.
	ErrMaxIndexes = errors.New("shade: MaxIndexes hit")
	// ErrUnknownTexMod is a texture modifier type the back end does not implement.
	ErrUnknownTexMod = errors.New("unknown texmod")
	// ErrNoImage is a stage bundle that should be bound but has no image.
	ErrNoImage = errors.New("stage bundle has no image")
	// ErrNoStages is a shader drawn by an iterator that needs at least one stage.
	ErrNoStages = errors.New("shader has no stages")
	// ErrNoSurface is returned when geometry is added before BeginSurface.
	ErrNoSurface = errors.New("shade: no surface begun")
)

// ShaderError is a configuration error in a shader's stages.
type ShaderError struct {
	Shader string
	Err    error
}

func (e *ShaderError) Error() string {
	return fmt.Sprintf("shader %q: %v", e.Shader, e.Err)
}

func (e *ShaderError) Unwrap() error { return e.Err }

func shaderErr(sh *shader.Shader, err error) error {
	return &ShaderError{Shader: sh.Name, Err: err}
}

// Device is the fixed-function graphics backend the pipeline drives. Vertex
// data is registered as client arrays and drawn with an index list.
type Device interface {
	// SelectTexture makes unit the target of texture and texcoord calls.
	SelectTexture(unit int)
	// BindTexture binds img to the selected unit.
	BindTexture(img *texture.Image)
	// EnableTexture turns texturing of the selected unit on or off.
	EnableTexture(enabled bool)
	// SetTexEnv sets how the selected unit combines with the previous one.
	SetTexEnv(env shader.TexEnv)

	SetState(bits shader.StateBits)
	SetCull(cull shader.CullType)
	SetPolygonOffset(enabled bool, factor, units float32)
	SetFog(fog scene.GLFog)
	EnableFog(enabled bool)
	SetDepthRange(near, far float32)
	// SetColor sets the constant color used while the color array is disabled.
	SetColor(rgba [4]float32)

	VertexPointer(xyz []float32)
	TexCoordPointer(unit int, st []float32)
	ColorPointer(rgba []byte)
	EnableClientArrays(streams staging.Streams)

	// DrawElements draws indexed triangles from the registered arrays.
	DrawElements(indexes []uint32)
	// DrawLines draws count vertices from the registered positions as line pairs.
	DrawLines(count int)
}

// SkyFinisher draws surfaces whose shader uses the sky iterator.
type SkyFinisher interface {
	FinishSky(p *Pipeline, s *Surface) error
}

// ShadowFinisher draws surfaces of the shadow shader.
type ShadowFinisher interface {
	FinishShadow(p *Pipeline, s *Surface) error
}

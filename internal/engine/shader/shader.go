// Package shader describes the resolved, immutable shader data consumed by the
// surface back end. Script parsing lives elsewhere; this package only carries the
// result.
package shader

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/rbshade/internal/engine/texture"
	rmath "github.com/Faultbox/rbshade/pkg/math"
)

// Limits shared with the shader loader.
const (
	MaxShaderStages = 8
	MaxTexMods      = 4
	NumBundles      = 2
	MaxImageAnims   = 8
)

// Sort keys. Surfaces are drawn in increasing sort order.
const (
	SortBad         float32 = 0
	SortPortal      float32 = 1
	SortEnvironment float32 = 2
	SortOpaque      float32 = 3
	SortDecal       float32 = 4
	SortSeeThrough  float32 = 5
	SortBanner      float32 = 6
	SortFog         float32 = 7
	SortUnderwater  float32 = 8
	SortBlend0      float32 = 9
	SortNearest     float32 = 16
)

// Surface flags relevant to the back end.
const (
	SurfNoDlight uint32 = 0x20000
	SurfSky      uint32 = 0x4
)

// Wave is a periodic function parameterisation: base + fn(phase + t*freq) * amplitude.
type Wave struct {
	Func      rmath.Func
	Base      float32
	Amplitude float32
	Phase     float32
	Frequency float32
}

// Eval evaluates the wave at time t.
func (w Wave) Eval(t float64) float32 {
	if w.Func == rmath.FuncNoise {
		return w.Base + rmath.Noise4(0, 0, 0, float32((t+float64(w.Phase))*float64(w.Frequency)))*w.Amplitude
	}
	return rmath.WaveValue(rmath.Table(w.Func), w.Base, w.Amplitude, w.Phase, w.Frequency, t)
}

// EvalClamped evaluates the wave at time t and clamps the result into [0, 1].
func (w Wave) EvalClamped(t float64) float32 {
	return rmath.Clamp01(w.Eval(t))
}

// TexMod is one link of a texture coordinate modifier chain.
type TexMod struct {
	Type TexModType

	Wave Wave // turbulent, stretch

	Matrix    [2][2]float32 // transform
	Translate [2]float32    // transform

	Scale  [2]float32 // scale
	Scroll [2]float32 // scroll, in units per second

	RotateSpeed float32 // rotate, in degrees per second
}

// TextureBundle is one texture unit's worth of stage input.
type TextureBundle struct {
	Images              []*texture.Image // more than one animates at ImageAnimationSpeed
	ImageAnimationSpeed float32

	TCGen        TCGen
	TCGenVectors [2]mgl32.Vec3

	TexMods []TexMod

	IsLightmap bool
	IsVideoMap bool
}

// Image returns the first image of the bundle, or nil when the bundle is empty.
func (b *TextureBundle) Image() *texture.Image {
	if len(b.Images) == 0 {
		return nil
	}
	return b.Images[0]
}

// Stage is one fixed-function pass of a shader.
type Stage struct {
	Active bool // an inactive stage ends the stage list

	Bundle [NumBundles]TextureBundle

	RGBGen    ColorGen
	RGBWave   Wave
	AlphaGen  AlphaGen
	AlphaWave Wave

	ConstantColor [4]byte
	ZFadeBounds   [2]float32 // normal-z fade window; ZFadeEntityAlpha selects the entity variant

	StateBits          StateBits
	AdjustColorsForFog AdjustColorsForFog
	IsFogged           bool // fog this stage even when the shader is marked nofog
}

// ZFadeEntityAlpha marks a z-fade bound that is replaced by entity data.
const ZFadeEntityAlpha float32 = -1000

// Deform is one vertex deformation applied before stage iteration.
type Deform struct {
	Type DeformType

	Wave   Wave
	Spread float32 // wave: phase offset per world unit

	BulgeWidth  float32
	BulgeHeight float32
	BulgeSpeed  float32

	MoveVector mgl32.Vec3
}

// Shader is a fully resolved shader.
type Shader struct {
	Name  string
	Index int
	Sort  float32

	SurfaceFlags  uint32
	CullType      CullType
	PolygonOffset bool
	NoFog         bool
	FogPass       FogPass
	PortalRange   float32

	MultitextureEnv TexEnv

	TimeOffset float64
	ClampTime  float64 // shader time never exceeds this when nonzero

	Deforms []Deform

	// Stages holds at most MaxShaderStages entries; a nil entry ends the list.
	Stages            []*Stage
	NumUnfoggedPasses int

	Iterator IteratorKind

	// RemappedShader, when set, is used in place of this shader.
	RemappedShader *Shader
}

// Resolve follows the remap link.
func (s *Shader) Resolve() *Shader {
	if s.RemappedShader != nil {
		return s.RemappedShader
	}
	return s
}

// IsSky reports whether the shader is drawn by the sky iterator.
func (s *Shader) IsSky() bool {
	return s.Iterator == IteratorSky
}
